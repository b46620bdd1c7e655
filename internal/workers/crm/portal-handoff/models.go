// internal/workers/crm/portal-handoff/models.go
package portalhandoff

import "freezone-advisor/internal/models"

type Input struct {
	LeadID       string                   `json:"leadId"`
	Email        string                   `json:"email"`
	FullName     string                   `json:"fullName,omitempty"`
	Phone        string                   `json:"phone,omitempty"`
	FreezoneName string                   `json:"freezoneName,omitempty"`
	PackageName  string                   `json:"packageName,omitempty"`
	SetupCost    float64                  `json:"setupCost,omitempty"`
	Proposal     *models.ProposalDocument `json:"proposal,omitempty"`
}

type Output struct {
	LeadID    string `json:"leadId"`
	AccountID string `json:"portalAccountId"`
	// Existing reports that the account was already in the portal and was
	// reused instead of created.
	Existing         bool `json:"portalAccountExisting"`
	ProposalAttached bool `json:"proposalAttached"`
}
