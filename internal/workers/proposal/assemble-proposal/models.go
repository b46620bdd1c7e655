// internal/workers/proposal/assemble-proposal/models.go
package assembleproposal

import "freezone-advisor/internal/models"

type Input struct {
	LeadID       string                   `json:"leadId"`
	Requirements *models.UserRequirements `json:"requirements"`
	Matches      []models.MatchResult     `json:"matches"`
}

type Output struct {
	LeadID   string                   `json:"leadId"`
	Proposal *models.ProposalDocument `json:"proposal"`
	// Cached reports whether the document made it into the proposal cache.
	// Downstream workers refetch from the job variables when it did not.
	Cached bool `json:"proposalCached"`
}
