// internal/workers/proposal/enhance-proposal/handler.go
package enhanceproposal

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
	TaskType = "enhance-proposal"

	systemPrompt = "You are a UAE business setup consultant writing for a prospective " +
		"client. Rewrite the proposal summary you are given into a warm, confident " +
		"narrative of at most three paragraphs. Keep every figure exactly as given " +
		"and do not invent new facts."
)

var (
	ErrProposalMissing = errors.New("PROPOSAL_NOT_FOUND")
)

// NarrativeCompleter is the chat completion surface the worker needs.
// Satisfied by the OpenAI client.
type NarrativeCompleter interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

type Handler struct {
	config    *Config
	completer NarrativeCompleter
	cache     *leads.ProposalCache
	logger    logger.Logger
	errors    *commonerrors.ErrorHandler
}

// NewHandler builds the enhancement worker. The cache may be nil; the
// proposal then has to arrive in the job variables.
func NewHandler(config *Config, completer NarrativeCompleter, cache *leads.ProposalCache, log logger.Logger) *Handler {
	return &Handler{
		config:    config,
		completer: completer,
		cache:     cache,
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
		h.failJob(client, job, "PROPOSAL_NOT_FOUND", err.Error())
		return
	}

	h.completeJob(client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
}

// execute polishes the recommendation narrative through the language model.
// Enhancement is strictly best-effort: any model failure leaves the canned
// document untouched and the pipeline moving.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	doc := input.Proposal
	if doc == nil && h.cache != nil && input.LeadID != "" {
		cached, err := h.cache.Get(ctx, input.LeadID)
		if err != nil {
			h.logger.Warn("failed to fetch cached proposal", map[string]interface{}{
				"leadId": input.LeadID,
				"error":  err,
			})
		} else {
			doc = cached
		}
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: no proposal in variables or cache", ErrProposalMissing)
	}

	enhanced := false
	if h.completer != nil {
		llmCtx, cancel := context.WithTimeout(ctx, h.config.LLMTimeout)
		narrative, err := h.completer.Complete(llmCtx, systemPrompt, h.buildPrompt(input.Requirements, doc))
		cancel()

		narrative = strings.TrimSpace(narrative)
		switch {
		case err != nil:
			metrics.ProposalEnhancementFallbacks.Inc()
			h.logger.Warn("narrative enhancement failed, serving canned text", map[string]interface{}{
				"leadId": input.LeadID,
				"error":  err,
			})
		case narrative == "":
			metrics.ProposalEnhancementFallbacks.Inc()
			h.logger.Warn("narrative enhancement returned empty text", map[string]interface{}{
				"leadId": input.LeadID,
			})
		default:
			doc.EnhancedNarrative = narrative
			enhanced = true
		}
	}

	if enhanced && h.cache != nil && input.LeadID != "" {
		if err := h.cache.Put(ctx, input.LeadID, doc); err != nil {
			h.logger.Warn("failed to recache enhanced proposal", map[string]interface{}{
				"leadId": input.LeadID,
				"error":  err,
			})
		}
	}

	h.logger.Info("proposal enhancement complete", map[string]interface{}{
		"leadId":   input.LeadID,
		"enhanced": enhanced,
	})

	return &Output{
		LeadID:   input.LeadID,
		Proposal: doc,
		Enhanced: enhanced,
	}, nil
}

func (h *Handler) buildPrompt(req *models.UserRequirements, doc *models.ProposalDocument) string {
	var b strings.Builder
	rec := doc.Recommendation

	fmt.Fprintf(&b, "Recommended freezone: %s (match score %.0f).\n", rec.FreezoneName, rec.MatchScore)
	for _, line := range []string{rec.CostNarrative, rec.VisaNarrative, rec.ActivityNarrative, rec.LocationNarrative} {
		if line != "" {
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	if req != nil {
		fmt.Fprintf(&b, "Client profile: %s business, %d visas, budget AED %.0f.\n",
			req.Industry, req.VisaCount, req.Budget)
	}
	fmt.Fprintf(&b, "Estimated setup time: %d days.\n", doc.TotalDays)
	return b.String()
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
