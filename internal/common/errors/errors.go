// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeRequirementsValidationFailed ErrorCode = "REQUIREMENTS_VALIDATION_FAILED"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeDatabaseInsertFailed     ErrorCode = "DATABASE_INSERT_FAILED"
	ErrCodeDuplicateLead            ErrorCode = "DUPLICATE_LEAD"
	ErrCodeLeadNotFound             ErrorCode = "LEAD_NOT_FOUND"

	ErrCodeEmbeddingFailed    ErrorCode = "EMBEDDING_FAILED"
	ErrCodeVectorSearchFailed ErrorCode = "VECTOR_SEARCH_FAILED"
	ErrCodeSearchQueryFailed  ErrorCode = "SEARCH_QUERY_FAILED"
	ErrCodeSearchTimeout      ErrorCode = "SEARCH_TIMEOUT"

	ErrCodeProposalAssemblyFailed ErrorCode = "PROPOSAL_ASSEMBLY_FAILED"
	ErrCodeLLMTimeout             ErrorCode = "LLM_TIMEOUT"
	ErrCodeLLMEnhancementFailed   ErrorCode = "LLM_ENHANCEMENT_FAILED"

	ErrCodePaymentGatewayFailed     ErrorCode = "PAYMENT_GATEWAY_FAILED"
	ErrCodeUnsupportedPaymentMethod ErrorCode = "UNSUPPORTED_PAYMENT_METHOD"
	ErrCodeWebhookSignatureInvalid  ErrorCode = "WEBHOOK_SIGNATURE_INVALID"
	ErrCodePaymentNotFound          ErrorCode = "PAYMENT_NOT_FOUND"

	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodePortalHandoffFailed    ErrorCode = "PORTAL_HANDOFF_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}

	if e.ErrorVariables != nil {
		for k, v := range e.ErrorVariables {
			vars[k] = v
		}
	}

	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

// NewRequirementsValidationFailedError creates a non-retryable questionnaire validation error.
func NewRequirementsValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRequirementsValidationFailed,
		Message:   "Questionnaire data validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseConnectionFailedError creates a retryable database connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "Database connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseInsertFailedError creates a retryable database insert error.
func NewDatabaseInsertFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseInsertFailed,
		Message:   "Database insert operation failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDuplicateLeadError creates a non-retryable duplicate lead error.
func NewDuplicateLeadError(email string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDuplicateLead,
		Message:   "Lead already exists",
		Details:   fmt.Sprintf("email: %s", email),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewLeadNotFoundError creates a non-retryable missing lead error.
func NewLeadNotFoundError(leadID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeLeadNotFound,
		Message:   "Lead not found",
		Details:   fmt.Sprintf("leadId: %s", leadID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewEmbeddingFailedError creates a retryable embedding service error.
func NewEmbeddingFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeEmbeddingFailed,
		Message:   "Embedding service error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewVectorSearchFailedError creates a retryable vector index error.
func NewVectorSearchFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeVectorSearchFailed,
		Message:   "Vector index query error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchQueryFailedError creates a retryable keyword search error.
func NewSearchQueryFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchQueryFailed,
		Message:   "Catalog keyword search error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewProposalAssemblyFailedError creates a non-retryable assembly error.
// The assembler degrades internally, so seeing this means a programming error.
func NewProposalAssemblyFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeProposalAssemblyFailed,
		Message:   "Proposal assembly failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewLLMTimeoutError creates a retryable LLM timeout error.
func NewLLMTimeoutError() *StandardError {
	return &StandardError{
		Code:      ErrCodeLLMTimeout,
		Message:   "Proposal enhancement timeout",
		Details:   "Language model call exceeded timeout threshold",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewLLMEnhancementFailedError creates a retryable LLM error.
func NewLLMEnhancementFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeLLMEnhancementFailed,
		Message:   "Proposal enhancement API error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewPaymentGatewayFailedError creates a retryable gateway error.
func NewPaymentGatewayFailedError(gateway string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodePaymentGatewayFailed,
		Message:   "Payment gateway error",
		Details:   fmt.Sprintf("gateway: %s, error: %s", gateway, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnsupportedPaymentMethodError creates a non-retryable method error.
func NewUnsupportedPaymentMethodError(method string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnsupportedPaymentMethod,
		Message:   "Unsupported payment method",
		Details:   fmt.Sprintf("method: %s", method),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewWebhookSignatureInvalidError creates a non-retryable signature error.
func NewWebhookSignatureInvalidError(gateway, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeWebhookSignatureInvalid,
		Message:   "Webhook signature verification failed",
		Details:   fmt.Sprintf("gateway: %s, %s", gateway, details),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewPaymentNotFoundError creates a non-retryable missing payment error.
func NewPaymentNotFoundError(paymentID string) *StandardError {
	return &StandardError{
		Code:      ErrCodePaymentNotFound,
		Message:   "Payment not found",
		Details:   fmt.Sprintf("paymentId: %s", paymentID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendFailedError creates a retryable notification send error.
func NewNotificationSendFailedError(notificationType string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Notification delivery failed",
		Details:   fmt.Sprintf("type: %s, error: %s", notificationType, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewPortalHandoffFailedError creates a retryable client-portal error.
func NewPortalHandoffFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodePortalHandoffFailed,
		Message:   "Client portal handoff failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// Generic constructors

func NewBusinessRuleError(message, details string) *StandardError {
	return &StandardError{
		Code:      "BUSINESS_RULE_VIOLATION",
		Message:   message,
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewExternalServiceError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "EXTERNAL_SERVICE_ERROR",
		Message:   fmt.Sprintf("External service '%s' error", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewTimeoutError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "TIMEOUT_ERROR",
		Message:   fmt.Sprintf("Service '%s' timeout", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewResourceNotFoundError(service, details string) *StandardError {
	return &StandardError{
		Code:      "RESOURCE_NOT_FOUND",
		Message:   fmt.Sprintf("Resource not found in %s", service),
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewAuthenticationError(details string) *StandardError {
	return &StandardError{
		Code:      "AUTHENTICATION_ERROR",
		Message:   "Authentication failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to BPMN error codes (same as internal).
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeRequirementsValidationFailed: "REQUIREMENTS_VALIDATION_FAILED",
	ErrCodeDatabaseConnectionFailed:     "DATABASE_CONNECTION_FAILED",
	ErrCodeDatabaseInsertFailed:         "DATABASE_INSERT_FAILED",
	ErrCodeDuplicateLead:                "DUPLICATE_LEAD",
	ErrCodeLeadNotFound:                 "LEAD_NOT_FOUND",
	ErrCodeEmbeddingFailed:              "EMBEDDING_FAILED",
	ErrCodeVectorSearchFailed:           "VECTOR_SEARCH_FAILED",
	ErrCodeSearchQueryFailed:            "SEARCH_QUERY_FAILED",
	ErrCodeSearchTimeout:                "SEARCH_TIMEOUT",
	ErrCodeProposalAssemblyFailed:       "PROPOSAL_ASSEMBLY_FAILED",
	ErrCodeLLMTimeout:                   "LLM_TIMEOUT",
	ErrCodeLLMEnhancementFailed:         "LLM_ENHANCEMENT_FAILED",
	ErrCodePaymentGatewayFailed:         "PAYMENT_GATEWAY_FAILED",
	ErrCodeUnsupportedPaymentMethod:     "UNSUPPORTED_PAYMENT_METHOD",
	ErrCodeWebhookSignatureInvalid:      "WEBHOOK_SIGNATURE_INVALID",
	ErrCodePaymentNotFound:              "PAYMENT_NOT_FOUND",
	ErrCodeNotificationSendFailed:       "NOTIFICATION_SEND_FAILED",
	ErrCodePortalHandoffFailed:          "PORTAL_HANDOFF_FAILED",
}

// GetRetryCount returns the recommended retry count per error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDatabaseConnectionFailed,
		ErrCodeDatabaseInsertFailed,
		ErrCodeEmbeddingFailed,
		ErrCodeVectorSearchFailed,
		ErrCodeSearchQueryFailed,
		ErrCodeNotificationSendFailed,
		ErrCodePaymentGatewayFailed,
		ErrCodePortalHandoffFailed,
		ErrCodeLLMEnhancementFailed:
		return 3 // Retryable technical errors

	case ErrCodeSearchTimeout:
		return 2 // Partial retry for timeouts

	case ErrCodeLLMTimeout:
		return 1 // The enhancement step is optional; one retry then canned text

	default:
		return 0 // Business errors: no retry
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code) // Fallback
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "REQUIREMENTS") || strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "LEAD"):
		return "DATABASE"
	case strings.Contains(codeStr, "EMBEDDING") || strings.Contains(codeStr, "VECTOR") || strings.Contains(codeStr, "SEARCH"):
		return "RETRIEVAL"
	case strings.Contains(codeStr, "LLM") || strings.Contains(codeStr, "PROPOSAL"):
		return "PROPOSAL"
	case strings.Contains(codeStr, "PAYMENT") || strings.Contains(codeStr, "WEBHOOK"):
		return "PAYMENT"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "PORTAL"):
		return "INTEGRATION"
	default:
		return "OTHER"
	}
}
