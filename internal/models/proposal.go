// internal/models/proposal.go
package models

// ProposalDocument is the assembled business-setup proposal for one lead.
// Every section has a degraded default, so a document is always complete
// even when a sub-generator had nothing to work with.
type ProposalDocument struct {
	Introduction   string                  `json:"introduction"`
	Recommendation Recommendation          `json:"recommendation"`
	Alternatives   []AlternativeComparison `json:"alternatives,omitempty"`
	CostBreakdown  CostBreakdown           `json:"costBreakdown"`
	Timeline       []TimelineStage         `json:"timeline"`
	TotalDays      int                     `json:"totalDays"`
	FAQ            []FAQItem               `json:"faq"`
	NextSteps      []string                `json:"nextSteps"`

	// EnhancedNarrative holds the optional language-model polish of the
	// recommendation text. Empty when enhancement was skipped or timed out.
	EnhancedNarrative string `json:"enhancedNarrative,omitempty"`
}

// Recommendation is the narrative block for the top-ranked candidate.
type Recommendation struct {
	FreezoneName      string  `json:"freezoneName"`
	MatchScore        float64 `json:"matchScore"`
	CostNarrative     string  `json:"costNarrative"`
	VisaNarrative     string  `json:"visaNarrative"`
	ActivityNarrative string  `json:"activityNarrative"`
	LocationNarrative string  `json:"locationNarrative"`
}

// AlternativeComparison describes how a runner-up differs from the user's
// requirements relative to the primary recommendation.
type AlternativeComparison struct {
	FreezoneName  string  `json:"freezoneName"`
	MatchScore    float64 `json:"matchScore"`
	CostDelta     string  `json:"costDelta"`
	VisaDelta     string  `json:"visaDelta"`
	LocationDelta string  `json:"locationDelta"`
	ActivityDelta string  `json:"activityDelta"`
}

// CostBreakdown itemizes the setup cost. Estimated is true when the detailed
// figures were unavailable and the heuristic 40/15/25/20 split was applied.
type CostBreakdown struct {
	LicenseCost      float64 `json:"licenseCost"`
	RegistrationCost float64 `json:"registrationCost"`
	VisaCost         float64 `json:"visaCost"`
	OfficeCost       float64 `json:"officeCost"`
	TotalSetupCost   float64 `json:"totalSetupCost"`
	RenewalCost      float64 `json:"renewalCost,omitempty"`
	Estimated        bool    `json:"estimated"`
}

// TimelineStage is one step of the staged implementation plan.
type TimelineStage struct {
	Stage       string `json:"stage"`
	Description string `json:"description"`
	Days        int    `json:"days"`
}

type FAQItem struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}
