// internal/models/requirements.go
package models

// UserRequirements captures the questionnaire answers for one lead. Created
// once per session and treated as read-only by the matching pipeline.
type UserRequirements struct {
	Industry          string `json:"industry"`
	VisaCount         int    `json:"visaCount"`
	PreferredLocation string `json:"preferredLocation"`

	// Budget tiers as entered on the questionnaire. Budget is the working
	// ceiling for scoring; MaxBudget bounds the hard filter.
	IdealBudget float64 `json:"idealBudget,omitempty"`
	Budget      float64 `json:"budget"`
	MaxBudget   float64 `json:"maxBudget,omitempty"`

	BusinessActivities  []string `json:"businessActivities"`
	PrimaryActivities   []string `json:"primaryActivities,omitempty"`
	SecondaryActivities []string `json:"secondaryActivities,omitempty"`

	NeedsOfficeSpace bool   `json:"needsOfficeSpace,omitempty"`
	Timeline         string `json:"timeline,omitempty"`
}

// BudgetCeiling returns the effective ceiling used by the hard filter:
// the explicit maximum when given, otherwise the working budget.
func (r *UserRequirements) BudgetCeiling() float64 {
	if r.MaxBudget > 0 {
		return r.MaxBudget
	}
	return r.Budget
}

// RequiredActivities returns the union of primary and secondary activities,
// falling back to the flat list when no split was supplied.
func (r *UserRequirements) RequiredActivities() []string {
	if len(r.PrimaryActivities) == 0 && len(r.SecondaryActivities) == 0 {
		return r.BusinessActivities
	}
	out := make([]string, 0, len(r.PrimaryActivities)+len(r.SecondaryActivities))
	out = append(out, r.PrimaryActivities...)
	out = append(out, r.SecondaryActivities...)
	return out
}
