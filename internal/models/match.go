// internal/models/match.go
package models

// ScoreDetails breaks the match score into its weighted sub-scores.
// Nominal bounds: cost 0-30, location 10-25, visa 0-25, activity 0-20.
// SimilarityBoost is the capped vector-search tie-breaker on top of the
// 100-point scale.
type ScoreDetails struct {
	CostScore       float64 `json:"costScore"`
	LocationScore   float64 `json:"locationScore"`
	VisaScore       float64 `json:"visaScore"`
	ActivityScore   float64 `json:"activityScore"`
	SimilarityBoost float64 `json:"similarityBoost"`
}

// MatchResult pairs a catalog record with its ranking score. Produced by the
// scorer, consumed by the proposal assembler; never persisted.
type MatchResult struct {
	Freezone     FreezoneRecord `json:"freezone"`
	MatchScore   float64        `json:"matchScore"`
	ScoreDetails ScoreDetails   `json:"scoreDetails"`
	MatchReasons []string       `json:"matchReasons,omitempty"`

	// SimilarityScore is the raw cosine score reported by the vector index,
	// before the boost cap is applied. Zero for fallback candidates.
	SimilarityScore float64 `json:"similarityScore,omitempty"`
}
