// internal/models/lead.go
package models

import "time"

// Lead is one business-setup enquiry moving through the workflow.
type Lead struct {
	ID           string           `json:"id" db:"id"`
	Email        string           `json:"email" db:"email"`
	FirstName    string           `json:"firstName" db:"first_name"`
	LastName     string           `json:"lastName" db:"last_name"`
	Phone        string           `json:"phone,omitempty" db:"phone"`
	Requirements UserRequirements `json:"requirements" db:"requirements"`
	Status       string           `json:"status" db:"status"`
	CreatedAt    time.Time        `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time        `json:"updatedAt" db:"updated_at"`
}

// Lead statuses as the workflow advances.
const (
	LeadStatusNew         = "new"
	LeadStatusMatched     = "matched"
	LeadStatusProposalOut = "proposal_sent"
	LeadStatusPaid        = "paid"
	LeadStatusHandedOff   = "handed_off"
)
