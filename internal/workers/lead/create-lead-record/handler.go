// internal/workers/lead/create-lead-record/handler.go
package createleadrecord

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
	"freezone-advisor/internal/leads"
	"freezone-advisor/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "create-lead-record"
)

var (
	ErrDatabaseInsertFailed = errors.New("DATABASE_INSERT_FAILED")
)

type Handler struct {
	config *Config
	repo   *leads.Repository
	logger logger.Logger
	errors *commonerrors.ErrorHandler
}

func NewHandler(config *Config, repo *leads.Repository, log logger.Logger) *Handler {
	return &Handler{
		config: config,
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
		h.failJob(client, job, "DATABASE_INSERT_FAILED", err.Error())
		return
	}

	h.completeJob(client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.Email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if input.Requirements == nil {
		return nil, fmt.Errorf("requirements payload is missing")
	}

	first, last := splitName(input.FullName)

	lead := &models.Lead{
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		FirstName:    first,
		LastName:     last,
		Phone:        input.Phone,
		Requirements: *input.Requirements,
		Status:       models.LeadStatusNew,
	}

	err := h.repo.CreateLead(ctx, lead)
	if errors.Is(err, leads.ErrDuplicateEmail) {
		// Returning leads resume their existing record
		existing, lookupErr := h.repo.FindLeadByEmail(ctx, lead.Email)
		if lookupErr != nil || existing == nil {
			return nil, fmt.Errorf("%w: duplicate email but lookup failed: %v", ErrDatabaseInsertFailed, lookupErr)
		}
		h.logger.Info("lead already exists, resuming", map[string]interface{}{
			"leadId": existing.ID,
			"email":  existing.Email,
		})
		return &Output{
			LeadID:    existing.ID,
			Status:    existing.Status,
			Duplicate: true,
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseInsertFailed, err)
	}

	h.logger.Info("lead created", map[string]interface{}{
		"leadId": lead.ID,
		"email":  lead.Email,
	})

	return &Output{
		LeadID: lead.ID,
		Status: lead.Status,
	}, nil
}

func splitName(full string) (string, string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", ""
	}
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.Join(parts[1:], " ")
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
