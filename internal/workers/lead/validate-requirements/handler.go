// internal/workers/lead/validate-requirements/handler.go
package validaterequirements

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	commonerrors "freezone-advisor/internal/common/errors"
	"freezone-advisor/internal/common/logger"
	"freezone-advisor/internal/common/metrics"
	"freezone-advisor/internal/common/validation"
	"freezone-advisor/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "validate-requirements"
)

var (
	ErrValidationFailed = errors.New("REQUIREMENTS_VALIDATION_FAILED")
)

type Handler struct {
	config *Config
	logger logger.Logger
	errors *commonerrors.ErrorHandler
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	return &Handler{
		config: config,
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
		h.failJob(client, job, "REQUIREMENTS_VALIDATION_FAILED", err.Error())
		return
	}

	h.completeJob(client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	if input.Questionnaire == nil {
		return nil, fmt.Errorf("%w: questionnaire payload is missing", ErrValidationFailed)
	}

	result, err := validation.ValidateRequirements(input.Questionnaire)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	if !result.Valid {
		h.logger.Warn("questionnaire rejected", map[string]interface{}{
			"errors": result.GetErrorMessages(),
		})
		return &Output{
			Valid:  false,
			Errors: result.GetErrorMessages(),
		}, nil
	}

	req := normalize(input.Questionnaire)

	return &Output{
		Valid:        true,
		Email:        stringField(input.Questionnaire, "email"),
		FullName:     stringField(input.Questionnaire, "fullName"),
		Phone:        stringField(input.Questionnaire, "phone"),
		Requirements: req,
	}, nil
}

// normalize maps the loose questionnaire payload onto the typed requirements.
func normalize(q map[string]interface{}) *models.UserRequirements {
	req := &models.UserRequirements{
		Industry:            stringField(q, "businessType"),
		VisaCount:           intField(q, "visaCount"),
		PreferredLocation:   stringField(q, "preferredLocation"),
		IdealBudget:         floatField(q, "idealBudget"),
		Budget:              floatField(q, "budget"),
		MaxBudget:           floatField(q, "maxBudget"),
		BusinessActivities:  stringSliceField(q, "businessActivities"),
		SecondaryActivities: stringSliceField(q, "secondaryActivities"),
		Timeline:            stringField(q, "timeline"),
	}

	if primary := stringField(q, "primaryActivity"); primary != "" {
		req.PrimaryActivities = []string{primary}
	}

	switch stringField(q, "officePreference") {
	case "", "none", "virtual":
		req.NeedsOfficeSpace = false
	default:
		req.NeedsOfficeSpace = true
	}

	// The working budget defaults to the ideal figure when only that was given
	if req.Budget == 0 && req.IdealBudget > 0 {
		req.Budget = req.IdealBudget
	}

	return req
}

func stringField(q map[string]interface{}, key string) string {
	if v, ok := q[key].(string); ok {
		return v
	}
	return ""
}

func floatField(q map[string]interface{}, key string) float64 {
	switch v := q[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

func intField(q map[string]interface{}, key string) int {
	return int(floatField(q, key))
}

func stringSliceField(q map[string]interface{}, key string) []string {
	raw, ok := q[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
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
