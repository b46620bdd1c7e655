// internal/workers/matching/match-freezones/models.go
package matchfreezones

import "freezone-advisor/internal/models"

type Input struct {
	LeadID       string                   `json:"leadId"`
	Requirements *models.UserRequirements `json:"requirements"`
}

type Output struct {
	LeadID  string               `json:"leadId"`
	Matches []models.MatchResult `json:"matches"`
	// TopScore duplicates the first entry's score for gateway conditions in
	// the process model.
	TopScore float64 `json:"topScore"`
}
