// internal/workers/proposal/enhance-proposal/models.go
package enhanceproposal

import "freezone-advisor/internal/models"

type Input struct {
	LeadID       string                   `json:"leadId"`
	Requirements *models.UserRequirements `json:"requirements,omitempty"`
	Proposal     *models.ProposalDocument `json:"proposal"`
}

type Output struct {
	LeadID   string                   `json:"leadId"`
	Proposal *models.ProposalDocument `json:"proposal"`
	Enhanced bool                     `json:"proposalEnhanced"`
}
