// internal/workers/proposal/enhance-proposal/handler_test.go
package enhanceproposal

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"freezone-advisor/internal/common/logger"
	"freezone-advisor/internal/leads"
	"freezone-advisor/internal/models"
)

type stubCompleter struct {
	text   string
	err    error
	prompt string
}

func (s *stubCompleter) Complete(_ context.Context, _, userPrompt string) (string, error) {
	s.prompt = userPrompt
	return s.text, s.err
}

func sampleProposal() *models.ProposalDocument {
	return &models.ProposalDocument{
		Introduction: "Thank you for completing our questionnaire.",
		Recommendation: models.Recommendation{
			FreezoneName:  "IFZA",
			MatchScore:    86,
			CostNarrative: "The full setup comes to AED 18500.",
		},
		TotalDays: 12,
	}
}

func TestExecute_EnhancesNarrative(t *testing.T) {
	completer := &stubCompleter{text: "A polished narrative about IFZA."}
	handler := NewHandler(LoadConfig(), completer, nil, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		LeadID:   "lead-1",
		Proposal: sampleProposal(),
		Requirements: &models.UserRequirements{
			Industry:  "consulting",
			VisaCount: 2,
			Budget:    20000,
		},
	})

	assert.NoError(t, err)
	assert.True(t, output.Enhanced)
	assert.Equal(t, "A polished narrative about IFZA.", output.Proposal.EnhancedNarrative)
	assert.Contains(t, completer.prompt, "IFZA")
	assert.Contains(t, completer.prompt, "AED 18500")
}

func TestExecute_CompleterFailureServesCannedText(t *testing.T) {
	completer := &stubCompleter{err: errors.New("model timeout")}
	handler := NewHandler(LoadConfig(), completer, nil, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		LeadID:   "lead-2",
		Proposal: sampleProposal(),
	})

	assert.NoError(t, err)
	assert.False(t, output.Enhanced)
	assert.Empty(t, output.Proposal.EnhancedNarrative)
	assert.NotEmpty(t, output.Proposal.Introduction)
}

func TestExecute_EmptyCompletionServesCannedText(t *testing.T) {
	completer := &stubCompleter{text: "   "}
	handler := NewHandler(LoadConfig(), completer, nil, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		LeadID:   "lead-3",
		Proposal: sampleProposal(),
	})

	assert.NoError(t, err)
	assert.False(t, output.Enhanced)
}

func TestExecute_FetchesProposalFromCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := leads.NewProposalCache(client, time.Hour)
	assert.NoError(t, cache.Put(context.Background(), "lead-4", sampleProposal()))

	completer := &stubCompleter{text: "Narrative from cached document."}
	handler := NewHandler(LoadConfig(), completer, cache, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{LeadID: "lead-4"})

	assert.NoError(t, err)
	assert.True(t, output.Enhanced)
	assert.Equal(t, "IFZA", output.Proposal.Recommendation.FreezoneName)

	// The enhanced document is written back for the email worker.
	stored, err := cache.Get(context.Background(), "lead-4")
	assert.NoError(t, err)
	assert.Equal(t, "Narrative from cached document.", stored.EnhancedNarrative)
}

func TestExecute_NoProposalAnywhere(t *testing.T) {
	handler := NewHandler(LoadConfig(), &stubCompleter{}, nil, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{LeadID: "lead-5"})

	assert.Error(t, err)
	assert.ErrorIs(t, err, ErrProposalMissing)
	assert.Nil(t, output)
}
