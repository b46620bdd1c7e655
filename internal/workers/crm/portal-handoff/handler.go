// internal/workers/crm/portal-handoff/handler.go
package portalhandoff

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	commonerrors "freezone-advisor/internal/common/errors"
	"freezone-advisor/internal/common/logger"
	"freezone-advisor/internal/common/metrics"
	"freezone-advisor/internal/common/portal"
	"freezone-advisor/internal/leads"
	"freezone-advisor/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "portal-handoff"
)

var (
	ErrHandoffFailed = errors.New("PORTAL_HANDOFF_FAILED")
	ErrMissingEmail  = errors.New("MISSING_EMAIL")
)

// PortalAPI is the client portal surface the worker needs. Satisfied by the
// portal HTTP client.
type PortalAPI interface {
	CreateAccount(ctx context.Context, account *portal.ClientAccount) (string, error)
	FindAccountByEmail(ctx context.Context, email string) ([]portal.ClientAccount, error)
	AttachProposal(ctx context.Context, accountID string, proposal interface{}) error
}

type Handler struct {
	config *Config
	portal PortalAPI
	repo   *leads.Repository
	logger logger.Logger
	errors *commonerrors.ErrorHandler
}

// NewHandler builds the handoff worker. The repository may be nil in
// pipelines that track lead status elsewhere.
func NewHandler(config *Config, portalClient PortalAPI, repo *leads.Repository, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		portal: portalClient,
		repo:   repo,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
		errors: commonerrors.NewErrorHandler(log),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	startTime := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, errorCodeFor(err), err.Error())
		return
	}

	h.completeJob(client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
}

func errorCodeFor(err error) string {
	if errors.Is(err, ErrMissingEmail) {
		return "MISSING_EMAIL"
	}
	return "PORTAL_HANDOFF_FAILED"
}

// execute creates (or reuses) the client portal account and attaches the
// proposal. Reusing an existing account keeps webhook retries idempotent.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, fmt.Errorf("%w: cannot hand off lead %q without an email", ErrMissingEmail, input.LeadID)
	}

	accountID := ""
	existing := false

	accounts, err := h.portal.FindAccountByEmail(ctx, email)
	if err != nil {
		h.logger.Warn("portal account lookup failed, creating fresh", map[string]interface{}{
			"leadId": input.LeadID,
			"error":  err,
		})
	} else if len(accounts) > 0 {
		accountID = accounts[0].ID
		existing = true
	}

	if accountID == "" {
		accountID, err = h.portal.CreateAccount(ctx, &portal.ClientAccount{
			Email:        email,
			FullName:     input.FullName,
			Phone:        input.Phone,
			LeadID:       input.LeadID,
			FreezoneName: input.FreezoneName,
			PackageName:  input.PackageName,
			SetupCost:    input.SetupCost,
			Source:       h.config.Source,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: create account: %v", ErrHandoffFailed, err)
		}
	}

	attached := false
	if input.Proposal != nil {
		if err := h.portal.AttachProposal(ctx, accountID, input.Proposal); err != nil {
			h.logger.Warn("failed to attach proposal to portal account", map[string]interface{}{
				"leadId":    input.LeadID,
				"accountId": accountID,
				"error":     err,
			})
		} else {
			attached = true
		}
	}

	if h.repo != nil && input.LeadID != "" {
		if err := h.repo.UpdateLeadStatus(ctx, input.LeadID, models.LeadStatusHandedOff); err != nil {
			h.logger.Warn("failed to update lead status", map[string]interface{}{
				"leadId": input.LeadID,
				"error":  err,
			})
		}
	}

	h.logger.Info("lead handed off to portal", map[string]interface{}{
		"leadId":    input.LeadID,
		"accountId": accountID,
		"existing":  existing,
		"attached":  attached,
	})

	return &Output{
		LeadID:           input.LeadID,
		AccountID:        accountID,
		Existing:         existing,
		ProposalAttached: attached,
	}, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, errorCode).Inc()
	h.errors.HandleJobError(context.Background(), client, job, &commonerrors.StandardError{
		Code:      commonerrors.ErrorCode(errorCode),
		Message:   errorMessage,
		Retryable: commonerrors.IsRetryableErrorCode(commonerrors.ErrorCode(errorCode)),
		Timestamp: time.Now().UTC(),
	})
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
