// internal/matching/filter.go
package matching

import (
	"strings"

	"freezone-advisor/internal/common/metrics"
	"freezone-advisor/internal/models"
)

// budgetHeadroom is how far over the stated ceiling a package may run and
// still be shown: packages slightly over budget are often negotiable.
const budgetHeadroom = 1.2

// FilterCandidates drops candidates that fail a hard constraint the user
// actually specified. Order is preserved. An unspecified constraint (zero
// visa count, zero budget, empty activity list) always passes; a specified
// constraint with no metadata to check it against drops the candidate rather
// than waving it through.
func FilterCandidates(cands []Candidate, req *models.UserRequirements) []Candidate {
	kept := make([]Candidate, 0, len(cands))
	for _, c := range cands {
		if passesVisa(c.Freezone, req) &&
			passesBudget(c.Freezone, req) &&
			passesActivities(c.Freezone, req) {
			kept = append(kept, c)
			continue
		}
		metrics.CandidatesFiltered.Inc()
	}
	return kept
}

func passesVisa(f models.FreezoneRecord, req *models.UserRequirements) bool {
	if req.VisaCount <= 0 {
		return true
	}
	// MaxVisaAllocation of 0 means the index carried no visa metadata.
	return f.MaxVisaAllocation >= req.VisaCount
}

func passesBudget(f models.FreezoneRecord, req *models.UserRequirements) bool {
	ceiling := req.BudgetCeiling()
	if ceiling <= 0 {
		return true
	}
	if f.SetupCost <= 0 {
		// No cost metadata: cannot verify affordability, drop.
		return false
	}
	return f.SetupCost <= ceiling*budgetHeadroom
}

func passesActivities(f models.FreezoneRecord, req *models.UserRequirements) bool {
	required := nonEmpty(req.RequiredActivities())
	if len(required) == 0 {
		return true
	}
	supported := nonEmpty(f.SupportedActivities)
	if len(supported) == 0 {
		return false
	}
	for _, want := range required {
		if !activityListed(supported, want) {
			return false
		}
	}
	return true
}

// activityListed reports whether a required activity appears in the supported
// list. Matching is case-insensitive and tolerant of broader labels
// ("IT & Software Development" supports "Software Development").
func activityListed(supported []string, want string) bool {
	w := strings.ToLower(strings.TrimSpace(want))
	for _, s := range supported {
		have := strings.ToLower(strings.TrimSpace(s))
		if have == w || strings.Contains(have, w) || strings.Contains(w, have) {
			return true
		}
	}
	return false
}
