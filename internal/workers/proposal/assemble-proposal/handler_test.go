// internal/workers/proposal/assemble-proposal/handler_test.go
package assembleproposal

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"freezone-advisor/internal/common/logger"
	"freezone-advisor/internal/leads"
	"freezone-advisor/internal/models"
)

func sampleMatches() []models.MatchResult {
	return []models.MatchResult{
		{
			Freezone: models.FreezoneRecord{
				ID:                "ifza-starter",
				FreezoneName:      "IFZA",
				PackageName:       "IFZA Starter",
				Location:          "Dubai",
				SetupCost:         18500,
				RenewalCost:       14000,
				MaxVisaAllocation: 4,
			},
			MatchScore: 86,
		},
		{
			Freezone: models.FreezoneRecord{
				ID:                "rakez-basic",
				FreezoneName:      "RAKEZ",
				PackageName:       "RAKEZ Basic",
				Location:          "Ras Al Khaimah",
				SetupCost:         15200,
				MaxVisaAllocation: 3,
			},
			MatchScore: 74,
		},
	}
}

func sampleRequirements() *models.UserRequirements {
	return &models.UserRequirements{
		Industry:           "consulting",
		VisaCount:          2,
		Budget:             20000,
		PreferredLocation:  "Dubai",
		BusinessActivities: []string{"Management Consulting"},
	}
}

func TestExecute_AssemblesAndCaches(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := leads.NewProposalCache(client, time.Hour)

	handler := NewHandler(LoadConfig(), cache, nil, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		LeadID:       "lead-1",
		Requirements: sampleRequirements(),
		Matches:      sampleMatches(),
	})

	assert.NoError(t, err)
	assert.True(t, output.Cached)
	assert.Equal(t, "IFZA", output.Proposal.Recommendation.FreezoneName)
	assert.Len(t, output.Proposal.Alternatives, 1)
	assert.NotEmpty(t, output.Proposal.Timeline)
	assert.Greater(t, output.Proposal.TotalDays, 0)

	stored, err := cache.Get(context.Background(), "lead-1")
	assert.NoError(t, err)
	assert.Equal(t, output.Proposal.Recommendation.FreezoneName, stored.Recommendation.FreezoneName)
}

func TestExecute_NilCacheStillAssembles(t *testing.T) {
	handler := NewHandler(LoadConfig(), nil, nil, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		LeadID:       "lead-2",
		Requirements: sampleRequirements(),
		Matches:      sampleMatches(),
	})

	assert.NoError(t, err)
	assert.False(t, output.Cached)
	assert.NotNil(t, output.Proposal)
}

func TestExecute_EmptyMatchesFallsBack(t *testing.T) {
	handler := NewHandler(LoadConfig(), nil, nil, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		LeadID:       "lead-3",
		Requirements: sampleRequirements(),
	})

	assert.NoError(t, err)
	assert.Equal(t, "Dubai Multi Commodities Centre (DMCC)", output.Proposal.Recommendation.FreezoneName)
}

func TestExecute_MissingRequirements(t *testing.T) {
	handler := NewHandler(LoadConfig(), nil, nil, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{LeadID: "lead-4"})

	assert.Error(t, err)
	assert.Nil(t, output)
}

func TestExecute_CacheFailureIsNonFatal(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := leads.NewProposalCache(client, time.Hour)
	mr.Close()

	handler := NewHandler(LoadConfig(), cache, nil, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		LeadID:       "lead-5",
		Requirements: sampleRequirements(),
		Matches:      sampleMatches(),
	})

	assert.NoError(t, err)
	assert.False(t, output.Cached)
	assert.NotNil(t, output.Proposal)
}
