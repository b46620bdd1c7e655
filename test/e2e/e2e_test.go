// test/e2e/e2e_test.go
//
// In-process run of the whole lead pipeline: questionnaire validation, lead
// creation, matching, proposal assembly and enhancement, the proposal email,
// and the portal handoff. External services are stubbed at the same seams the
// worker manager wires, so the test covers every worker's Execute path and
// the variable contract between the stages.
package e2e

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freezone-advisor/internal/common/logger"
	"freezone-advisor/internal/common/portal"
	"freezone-advisor/internal/leads"
	"freezone-advisor/internal/matching"
	"freezone-advisor/internal/models"

	emailsend "freezone-advisor/internal/workers/communication/email-send"
	portalhandoff "freezone-advisor/internal/workers/crm/portal-handoff"
	createleadrecord "freezone-advisor/internal/workers/lead/create-lead-record"
	validaterequirements "freezone-advisor/internal/workers/lead/validate-requirements"
	matchfreezones "freezone-advisor/internal/workers/matching/match-freezones"
	assembleproposal "freezone-advisor/internal/workers/proposal/assemble-proposal"
	enhanceproposal "freezone-advisor/internal/workers/proposal/enhance-proposal"
)

type stubEmbedder struct{}

func (stubEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	return []float32{0.1, 0.2, 0.3}, nil
}

type stubVectorSearch struct{}

func (stubVectorSearch) Query(_ context.Context, _ []float32, _ int) ([]matching.VectorMatch, error) {
	return []matching.VectorMatch{
		{
			ID:    "ifza-starter",
			Score: 0.92,
			Metadata: models.FreezoneRecord{
				ID:                  "ifza-starter",
				FreezoneName:        "IFZA",
				PackageName:         "IFZA Starter (2 Visa)",
				Location:            "Dubai",
				SetupCost:           18500,
				RenewalCost:         14000,
				MaxVisaAllocation:   4,
				SupportedActivities: []string{"Management Consulting", "Trading"},
			},
		},
		{
			ID:    "rakez-basic",
			Score: 0.78,
			Metadata: models.FreezoneRecord{
				ID:                  "rakez-basic",
				FreezoneName:        "RAKEZ",
				PackageName:         "RAKEZ Basic",
				Location:            "Ras Al Khaimah",
				SetupCost:           15200,
				MaxVisaAllocation:   3,
				SupportedActivities: []string{"Management Consulting"},
			},
		},
	}, nil
}

type stubCompleter struct{}

func (stubCompleter) Complete(_ context.Context, _, _ string) (string, error) {
	return "A polished narrative covering costs, visas and timeline.", nil
}

type stubSender struct {
	input *ses.SendEmailInput
}

func (s *stubSender) SendEmail(_ context.Context, input *ses.SendEmailInput) (*ses.SendEmailOutput, error) {
	s.input = input
	return &ses.SendEmailOutput{MessageId: awssdk.String("msg-e2e")}, nil
}

type stubPortal struct {
	created  *portal.ClientAccount
	attached bool
}

func (s *stubPortal) CreateAccount(_ context.Context, account *portal.ClientAccount) (string, error) {
	s.created = account
	return "acct-e2e", nil
}

func (s *stubPortal) FindAccountByEmail(_ context.Context, _ string) ([]portal.ClientAccount, error) {
	return nil, nil
}

func (s *stubPortal) AttachProposal(_ context.Context, _ string, _ interface{}) error {
	s.attached = true
	return nil
}

func TestLeadPipeline(t *testing.T) {
	ctx := context.Background()
	log := logger.NewTestLogger(t)

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()
	repo := leads.NewRepository(db)

	mr := miniredis.RunT(t)
	cache := leads.NewProposalCache(
		redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Hour)

	// Stage 1: validate the questionnaire.
	validator := validaterequirements.NewHandler(validaterequirements.LoadConfig(), log)
	validated, err := validator.Execute(ctx, &validaterequirements.Input{
		Questionnaire: map[string]interface{}{
			"fullName":        "Aisha Rahman",
			"email":           "Aisha@Example.com",
			"phone":           "+971501234567",
			"businessType":    "consulting",
			"primaryActivity": "Management Consulting",
			"visaCount":       2,
			"idealBudget":       20000.0,
			"maxBudget":         25000.0,
			"preferredLocation": "Dubai",
			"officePreference":  "flexi-desk",
		},
	})
	require.NoError(t, err)
	require.True(t, validated.Valid, "questionnaire should validate: %v", validated.Errors)
	require.NotNil(t, validated.Requirements)

	// Stage 2: persist the lead.
	mock.ExpectExec(`INSERT INTO leads`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	creator := createleadrecord.NewHandler(createleadrecord.LoadConfig(), repo, log)
	created, err := creator.Execute(ctx, &createleadrecord.Input{
		Email:        validated.Email,
		FullName:     validated.FullName,
		Phone:        validated.Phone,
		Requirements: validated.Requirements,
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.LeadID)
	assert.False(t, created.Duplicate)

	// Stage 3: match freezones.
	retriever := matching.NewRetriever(matching.RetrieverDeps{
		Embedder: stubEmbedder{},
		Vectors:  stubVectorSearch{},
		Logger:   logger.NewNoOpLogger(),
	})
	mock.ExpectExec(`UPDATE leads SET status`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	matcher := matchfreezones.NewHandler(matchfreezones.LoadConfig(), retriever, repo, log)
	matched, err := matcher.Execute(ctx, &matchfreezones.Input{
		LeadID:       created.LeadID,
		Requirements: validated.Requirements,
	})
	require.NoError(t, err)
	require.NotEmpty(t, matched.Matches)
	assert.Equal(t, "IFZA", matched.Matches[0].Freezone.FreezoneName)
	assert.Equal(t, matched.Matches[0].MatchScore, matched.TopScore)

	// Stage 4: assemble the proposal.
	mock.ExpectExec(`UPDATE leads SET status`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assembler := assembleproposal.NewHandler(assembleproposal.LoadConfig(), cache, repo, log)
	assembled, err := assembler.Execute(ctx, &assembleproposal.Input{
		LeadID:       created.LeadID,
		Requirements: validated.Requirements,
		Matches:      matched.Matches,
	})
	require.NoError(t, err)
	assert.True(t, assembled.Cached)
	assert.Equal(t, "IFZA", assembled.Proposal.Recommendation.FreezoneName)
	assert.NotEmpty(t, assembled.Proposal.Timeline)

	// Stage 5: enhance the narrative, reading the document from the cache.
	enhancer := enhanceproposal.NewHandler(enhanceproposal.LoadConfig(), stubCompleter{}, cache, log)
	enhanced, err := enhancer.Execute(ctx, &enhanceproposal.Input{LeadID: created.LeadID})
	require.NoError(t, err)
	assert.True(t, enhanced.Enhanced)
	assert.NotEmpty(t, enhanced.Proposal.EnhancedNarrative)

	// Stage 6: email the proposal.
	sender := &stubSender{}
	mailer := emailsend.NewHandler(emailsend.LoadConfig(), sender, cache, log)
	mailed, err := mailer.Execute(ctx, &emailsend.Input{
		LeadID:   created.LeadID,
		Email:    validated.Email,
		FullName: validated.FullName,
	})
	require.NoError(t, err)
	assert.True(t, mailed.Sent)
	assert.Contains(t, *sender.input.Message.Body.Html.Data, "A polished narrative")

	// Stage 7: hand off to the client portal.
	mock.ExpectExec(`UPDATE leads SET status`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	portalStub := &stubPortal{}
	handoff := portalhandoff.NewHandler(portalhandoff.LoadConfig(), portalStub, repo, log)
	done, err := handoff.Execute(ctx, &portalhandoff.Input{
		LeadID:       created.LeadID,
		Email:        validated.Email,
		FullName:     validated.FullName,
		FreezoneName: enhanced.Proposal.Recommendation.FreezoneName,
		SetupCost:    enhanced.Proposal.CostBreakdown.TotalSetupCost,
		Proposal:     enhanced.Proposal,
	})
	require.NoError(t, err)
	assert.Equal(t, "acct-e2e", done.AccountID)
	assert.True(t, done.ProposalAttached)
	assert.Equal(t, created.LeadID, portalStub.created.LeadID)

	assert.NoError(t, mock.ExpectationsWereMet())
}
