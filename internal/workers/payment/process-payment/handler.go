// internal/workers/payment/process-payment/handler.go
package processpayment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	commonerrors "freezone-advisor/internal/common/errors"
	"freezone-advisor/internal/common/logger"
	"freezone-advisor/internal/common/metrics"
	"freezone-advisor/internal/common/payments"
	"freezone-advisor/internal/leads"
	"freezone-advisor/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "process-payment"
)

var (
	ErrUnsupportedMethod = errors.New("UNSUPPORTED_PAYMENT_METHOD")
	ErrInvalidAmount     = errors.New("INVALID_PAYMENT_AMOUNT")
	ErrGatewayFailed     = errors.New("PAYMENT_GATEWAY_FAILED")
)

type Handler struct {
	config   *Config
	gateways map[string]payments.Gateway
	repo     *leads.Repository
	logger   logger.Logger
	errors   *commonerrors.ErrorHandler
}

// NewHandler maps checkout methods to their gateways. Wire transfers have no
// gateway; they go straight to a pending payment with bank instructions.
func NewHandler(config *Config, gateways map[string]payments.Gateway, repo *leads.Repository, log logger.Logger) *Handler {
	return &Handler{
		config:   config,
		gateways: gateways,
		repo:     repo,
		logger:   log.WithFields(map[string]interface{}{"taskType": TaskType}),
		errors:   commonerrors.NewErrorHandler(log),
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
	case errors.Is(err, ErrUnsupportedMethod):
		return "UNSUPPORTED_PAYMENT_METHOD"
	case errors.Is(err, ErrInvalidAmount):
		return "INVALID_PAYMENT_AMOUNT"
	default:
		return "PAYMENT_GATEWAY_FAILED"
	}
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive, got %.2f", ErrInvalidAmount, input.Amount)
	}

	currency := input.Currency
	if currency == "" {
		currency = h.config.Currency
	}

	payment := &models.Payment{
		LeadID:   input.LeadID,
		Method:   input.Method,
		Amount:   input.Amount,
		Currency: currency,
		Status:   models.PaymentStatusPending,
	}

	checkoutURL := ""
	switch input.Method {
	case models.PaymentMethodWire:
		payment.Reference = h.config.WireInstructionsRef
	case models.PaymentMethodCard, models.PaymentMethodPayPal, models.PaymentMethodCrypto:
		gateway, ok := h.gateways[input.Method]
		if !ok {
			return nil, fmt.Errorf("%w: no gateway configured for %q", ErrUnsupportedMethod, input.Method)
		}

		session, err := gateway.CreateCheckout(ctx, payments.CheckoutRequest{
			LeadID:      input.LeadID,
			Amount:      input.Amount,
			Currency:    currency,
			Description: input.Description,
			SuccessURL:  input.SuccessURL,
			CancelURL:   input.CancelURL,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %s checkout: %v", ErrGatewayFailed, gateway.Name(), err)
		}
		payment.GatewayID = session.GatewayID
		payment.Reference = session.CheckoutURL
		checkoutURL = session.CheckoutURL
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMethod, input.Method)
	}

	if h.repo != nil {
		if err := h.repo.CreatePayment(ctx, payment); err != nil {
			return nil, fmt.Errorf("%w: record payment: %v", ErrGatewayFailed, err)
		}
	}

	h.logger.Info("payment initiated", map[string]interface{}{
		"leadId":    input.LeadID,
		"paymentId": payment.ID,
		"method":    payment.Method,
		"amount":    payment.Amount,
		"currency":  payment.Currency,
	})

	return &Output{
		LeadID:      input.LeadID,
		PaymentID:   payment.ID,
		Method:      payment.Method,
		Status:      payment.Status,
		Amount:      payment.Amount,
		Currency:    payment.Currency,
		CheckoutURL: checkoutURL,
		GatewayID:   payment.GatewayID,
		Reference:   payment.Reference,
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
