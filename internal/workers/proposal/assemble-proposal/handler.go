// internal/workers/proposal/assemble-proposal/handler.go
package assembleproposal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	commonerrors "freezone-advisor/internal/common/errors"
	"freezone-advisor/internal/common/logger"
	"freezone-advisor/internal/common/metrics"
	"freezone-advisor/internal/leads"
	"freezone-advisor/internal/models"
	"freezone-advisor/internal/proposal"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "assemble-proposal"
)

var (
	ErrAssemblyFailed = errors.New("PROPOSAL_ASSEMBLY_FAILED")
)

type Handler struct {
	config *Config
	cache  *leads.ProposalCache
	repo   *leads.Repository
	logger logger.Logger
	errors *commonerrors.ErrorHandler
}

// NewHandler builds the assembly worker. Cache and repository may each be
// nil; the document is then carried in job variables only.
func NewHandler(config *Config, cache *leads.ProposalCache, repo *leads.Repository, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		cache:  cache,
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
		h.failJob(client, job, "PROPOSAL_ASSEMBLY_FAILED", err.Error())
		return
	}

	h.completeJob(client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.Requirements == nil {
		return nil, fmt.Errorf("%w: requirements payload is missing", ErrAssemblyFailed)
	}

	doc := proposal.Assemble(input.Requirements, input.Matches)

	cached := false
	if h.cache != nil && input.LeadID != "" {
		if err := h.cache.Put(ctx, input.LeadID, doc); err != nil {
			h.logger.Warn("failed to cache proposal", map[string]interface{}{
				"leadId": input.LeadID,
				"error":  err,
			})
		} else {
			cached = true
		}
	}

	if h.repo != nil && input.LeadID != "" {
		if err := h.repo.UpdateLeadStatus(ctx, input.LeadID, models.LeadStatusProposalOut); err != nil {
			h.logger.Warn("failed to update lead status", map[string]interface{}{
				"leadId": input.LeadID,
				"error":  err,
			})
		}
	}

	h.logger.Info("proposal assembled", map[string]interface{}{
		"leadId":       input.LeadID,
		"recommended":  doc.Recommendation.FreezoneName,
		"alternatives": len(doc.Alternatives),
		"totalDays":    doc.TotalDays,
		"cached":       cached,
	})

	return &Output{
		LeadID:   input.LeadID,
		Proposal: doc,
		Cached:   cached,
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
