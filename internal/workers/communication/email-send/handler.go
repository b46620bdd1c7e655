// internal/workers/communication/email-send/handler.go
package emailsend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	commonerrors "freezone-advisor/internal/common/errors"
	"freezone-advisor/internal/common/logger"
	"freezone-advisor/internal/common/metrics"
	"freezone-advisor/internal/leads"
)

const (
	TaskType = "email-send"
)

var (
	ErrInvalidRecipient = errors.New("INVALID_RECIPIENT")
	ErrProposalMissing  = errors.New("PROPOSAL_NOT_FOUND")
	ErrSendFailed       = errors.New("EMAIL_SEND_FAILED")
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// EmailSender is the SES surface the worker needs. Satisfied by the shared
// SES client wrapper.
type EmailSender interface {
	SendEmail(ctx context.Context, input *ses.SendEmailInput) (*ses.SendEmailOutput, error)
}

type Handler struct {
	config *Config
	sender EmailSender
	cache  *leads.ProposalCache
	logger logger.Logger
	errors *commonerrors.ErrorHandler
}

// NewHandler builds the proposal email worker. The cache may be nil; the
// proposal then has to arrive in the job variables.
func NewHandler(config *Config, sender EmailSender, cache *leads.ProposalCache, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		sender: sender,
		cache:  cache,
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
	switch {
	case errors.Is(err, ErrInvalidRecipient):
		return "INVALID_RECIPIENT"
	case errors.Is(err, ErrProposalMissing):
		return "PROPOSAL_NOT_FOUND"
	default:
		return "EMAIL_SEND_FAILED"
	}
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if !emailPattern.MatchString(email) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRecipient, input.Email)
	}

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

	sendInput := &ses.SendEmailInput{
		Source: awssdk.String(h.config.FromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{email},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    awssdk.String(renderSubject(doc)),
				Charset: awssdk.String("UTF-8"),
			},
			Body: &types.Body{
				Html: &types.Content{
					Data:    awssdk.String(renderHTML(input.FullName, doc)),
					Charset: awssdk.String("UTF-8"),
				},
				Text: &types.Content{
					Data:    awssdk.String(renderText(input.FullName, doc)),
					Charset: awssdk.String("UTF-8"),
				},
			},
		},
	}
	if h.config.ReplyTo != "" {
		sendInput.ReplyToAddresses = []string{h.config.ReplyTo}
	}

	result, err := h.sender.SendEmail(ctx, sendInput)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSendFailed, err)
	}

	messageID := ""
	if result != nil && result.MessageId != nil {
		messageID = *result.MessageId
	}

	h.logger.Info("proposal email sent", map[string]interface{}{
		"leadId":    input.LeadID,
		"to":        email,
		"messageId": messageID,
	})

	return &Output{
		LeadID:    input.LeadID,
		Sent:      true,
		MessageID: messageID,
		SentAt:    time.Now().UTC(),
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
