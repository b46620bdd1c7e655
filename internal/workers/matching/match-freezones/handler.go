// internal/workers/matching/match-freezones/handler.go
package matchfreezones

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
	"freezone-advisor/internal/matching"
	"freezone-advisor/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "match-freezones"
)

var (
	ErrMatchingFailed = errors.New("MATCHING_FAILED")
)

type Handler struct {
	config    *Config
	retriever *matching.Retriever
	repo      *leads.Repository
	logger    logger.Logger
	errors    *commonerrors.ErrorHandler
}

// NewHandler wires the retrieval pipeline. The repository may be nil in
// pipelines that track lead status elsewhere.
func NewHandler(config *Config, retriever *matching.Retriever, repo *leads.Repository, log logger.Logger) *Handler {
	return &Handler{
		config:    config,
		retriever: retriever,
		repo:      repo,
		logger:    log.WithFields(map[string]interface{}{"taskType": TaskType}),
		errors:    commonerrors.NewErrorHandler(log),
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
		h.failJob(client, job, "MATCHING_FAILED", err.Error())
		return
	}

	h.completeJob(client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.Requirements == nil {
		return nil, fmt.Errorf("%w: requirements payload is missing", ErrMatchingFailed)
	}

	results := h.retriever.Match(ctx, input.Requirements)

	if h.repo != nil && input.LeadID != "" {
		if err := h.repo.UpdateLeadStatus(ctx, input.LeadID, models.LeadStatusMatched); err != nil {
			h.logger.Warn("failed to update lead status", map[string]interface{}{
				"leadId": input.LeadID,
				"error":  err,
			})
		}
	}

	h.logger.Info("matching complete", map[string]interface{}{
		"leadId":   input.LeadID,
		"matches":  len(results),
		"topScore": results[0].MatchScore,
		"topName":  results[0].Freezone.FreezoneName,
	})

	return &Output{
		LeadID:   input.LeadID,
		Matches:  results,
		TopScore: results[0].MatchScore,
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
