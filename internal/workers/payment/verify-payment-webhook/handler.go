// internal/workers/payment/verify-payment-webhook/handler.go
package verifypaymentwebhook

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
	"freezone-advisor/internal/common/payments"
	"freezone-advisor/internal/leads"
	"freezone-advisor/internal/models"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "verify-payment-webhook"
)

var (
	ErrSignatureInvalid = errors.New("WEBHOOK_SIGNATURE_INVALID")
	ErrUnknownGateway   = errors.New("UNKNOWN_GATEWAY")
	ErrPaymentNotFound  = errors.New("PAYMENT_NOT_FOUND")
)

// SMSPublisher is the SNS surface used for the optional payment confirmation
// text. Satisfied by the shared SNS client wrapper.
type SMSPublisher interface {
	Publish(ctx context.Context, input *sns.PublishInput) (*sns.PublishOutput, error)
}

type Handler struct {
	config *Config
	// secrets maps gateway name to its webhook signing secret.
	secrets map[string]string
	repo    *leads.Repository
	sms     SMSPublisher
	logger  logger.Logger
	errors  *commonerrors.ErrorHandler
}

// NewHandler builds the webhook verifier. The SMS publisher may be nil; the
// confirmation text is then skipped.
func NewHandler(config *Config, secrets map[string]string, repo *leads.Repository, sms SMSPublisher, log logger.Logger) *Handler {
	return &Handler{
		config:  config,
		secrets: secrets,
		repo:    repo,
		sms:     sms,
		logger:  log.WithFields(map[string]interface{}{"taskType": TaskType}),
		errors:  commonerrors.NewErrorHandler(log),
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
	case errors.Is(err, ErrSignatureInvalid):
		return "WEBHOOK_SIGNATURE_INVALID"
	case errors.Is(err, ErrUnknownGateway):
		return "UNKNOWN_GATEWAY"
	default:
		return "PAYMENT_NOT_FOUND"
	}
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	secret, ok := h.secrets[strings.ToLower(input.Gateway)]
	if !ok || secret == "" {
		return nil, fmt.Errorf("%w: no webhook secret for %q", ErrUnknownGateway, input.Gateway)
	}

	if !h.signatureValid(input, secret) {
		h.logger.Warn("webhook signature mismatch", map[string]interface{}{
			"gateway":   input.Gateway,
			"gatewayId": input.GatewayID,
		})
		return nil, fmt.Errorf("%w: gateway %s", ErrSignatureInvalid, input.Gateway)
	}

	payment, err := h.repo.FindPaymentByGatewayID(ctx, input.GatewayID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentNotFound, err)
	}

	status := statusForEvent(input.EventType)
	if err := h.repo.UpdatePaymentStatus(ctx, payment.ID, status); err != nil {
		return nil, fmt.Errorf("%w: update payment: %v", ErrPaymentNotFound, err)
	}

	confirmed := status == models.PaymentStatusConfirmed
	if confirmed {
		if err := h.repo.UpdateLeadStatus(ctx, payment.LeadID, models.LeadStatusPaid); err != nil {
			h.logger.Warn("failed to update lead status", map[string]interface{}{
				"leadId": payment.LeadID,
				"error":  err,
			})
		}
		h.sendConfirmationSMS(ctx, payment)
	}

	h.logger.Info("webhook verified", map[string]interface{}{
		"gateway":   input.Gateway,
		"paymentId": payment.ID,
		"leadId":    payment.LeadID,
		"status":    status,
	})

	return &Output{
		LeadID:    payment.LeadID,
		PaymentID: payment.ID,
		Status:    status,
		Confirmed: confirmed,
	}, nil
}

// signatureValid dispatches on the signature format. Stripe sends the
// timestamped "t=...,v1=..." header; Coinbase and PayPal sign the raw body.
func (h *Handler) signatureValid(input *Input, secret string) bool {
	if strings.Contains(input.Signature, "t=") {
		return payments.VerifyStripeSignature([]byte(input.Payload), input.Signature, secret, h.config.Tolerance)
	}
	return payments.VerifyHMACSignature([]byte(input.Payload), input.Signature, secret)
}

// sendConfirmationSMS texts the lead that their payment went through.
// Best-effort: a missing phone or an SNS error never fails the webhook.
func (h *Handler) sendConfirmationSMS(ctx context.Context, payment *models.Payment) {
	if h.sms == nil {
		return
	}

	lead, err := h.repo.GetLead(ctx, payment.LeadID)
	if err != nil || lead == nil || lead.Phone == "" {
		return
	}

	message := fmt.Sprintf("Your payment of %s %.0f has been received. Our consultants will be in touch shortly.",
		payment.Currency, payment.Amount)

	_, err = h.sms.Publish(ctx, &sns.PublishInput{
		PhoneNumber: awssdk.String(lead.Phone),
		Message:     awssdk.String(message),
	})
	if err != nil {
		h.logger.Warn("failed to send confirmation sms", map[string]interface{}{
			"leadId": payment.LeadID,
			"error":  err,
		})
	}
}

// statusForEvent maps the gateway event names onto our two terminal payment
// states. Anything unrecognised counts as failed so a made-up event can never
// confirm a payment.
func statusForEvent(eventType string) string {
	switch strings.ToLower(eventType) {
	case "checkout.session.completed", "payment_intent.succeeded",
		"payment.capture.completed", "checkout.order.approved",
		"charge:confirmed", "charge:resolved":
		return models.PaymentStatusConfirmed
	default:
		return models.PaymentStatusFailed
	}
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
