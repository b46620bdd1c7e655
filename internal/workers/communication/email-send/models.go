// internal/workers/communication/email-send/models.go
package emailsend

import (
	"time"

	"freezone-advisor/internal/models"
)

type Input struct {
	LeadID   string                   `json:"leadId"`
	Email    string                   `json:"email"`
	FullName string                   `json:"fullName,omitempty"`
	Proposal *models.ProposalDocument `json:"proposal,omitempty"`
}

type Output struct {
	LeadID    string    `json:"leadId"`
	Sent      bool      `json:"emailSent"`
	MessageID string    `json:"messageId,omitempty"`
	SentAt    time.Time `json:"sentAt"`
}
