package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"freezone-advisor/internal/models"
)

func candidate(name string, setupCost float64, maxVisas int, activities ...string) Candidate {
	return Candidate{
		Freezone: models.FreezoneRecord{
			FreezoneName:        name,
			SetupCost:           setupCost,
			MaxVisaAllocation:   maxVisas,
			SupportedActivities: activities,
		},
		Similarity: 0.8,
	}
}

func TestFilterCandidates_VisaCapacity(t *testing.T) {
	req := &models.UserRequirements{VisaCount: 4}
	cands := []Candidate{
		candidate("fits", 0, 6),
		candidate("exact", 0, 4),
		candidate("too small", 0, 2),
	}
	// No budget constraint, so the zero cost metadata is not checked.
	kept := FilterCandidates(cands, req)

	names := keptNames(kept)
	assert.Equal(t, []string{"fits", "exact"}, names)
	for _, c := range kept {
		assert.GreaterOrEqual(t, c.Freezone.MaxVisaAllocation, req.VisaCount)
	}
}

func TestFilterCandidates_BudgetHeadroom(t *testing.T) {
	req := &models.UserRequirements{Budget: 20000}
	cands := []Candidate{
		candidate("under", 15000, 0),
		candidate("at headroom", 24000, 0),
		candidate("over headroom", 24001, 0),
	}

	kept := FilterCandidates(cands, req)

	assert.Equal(t, []string{"under", "at headroom"}, keptNames(kept))
}

func TestFilterCandidates_MaxBudgetOverridesWorkingBudget(t *testing.T) {
	req := &models.UserRequirements{Budget: 10000, MaxBudget: 30000}

	kept := FilterCandidates([]Candidate{candidate("pricey", 35000, 0)}, req)

	assert.Len(t, kept, 1)
}

func TestFilterCandidates_RequiredActivities(t *testing.T) {
	req := &models.UserRequirements{
		BusinessActivities: []string{"Software Development", "Consulting"},
	}
	cands := []Candidate{
		candidate("both", 0, 0, "IT & Software Development", "Consulting", "Trading"),
		candidate("one missing", 0, 0, "Consulting"),
		candidate("case differs", 0, 0, "software development", "consulting"),
	}

	kept := FilterCandidates(cands, req)

	assert.Equal(t, []string{"both", "case differs"}, keptNames(kept))
}

func TestFilterCandidates_UnspecifiedConstraintsPass(t *testing.T) {
	req := &models.UserRequirements{}
	cands := []Candidate{candidate("bare", 0, 0)}

	kept := FilterCandidates(cands, req)

	assert.Len(t, kept, 1)
}

func TestFilterCandidates_MissingMetadataDropsWhenConstrained(t *testing.T) {
	tests := []struct {
		name string
		req  *models.UserRequirements
		cand Candidate
	}{
		{
			name: "visa constraint, no visa metadata",
			req:  &models.UserRequirements{VisaCount: 2},
			cand: candidate("no visas", 10000, 0),
		},
		{
			name: "budget constraint, no cost metadata",
			req:  &models.UserRequirements{Budget: 20000},
			cand: candidate("no cost", 0, 5),
		},
		{
			name: "activity constraint, no activity metadata",
			req:  &models.UserRequirements{BusinessActivities: []string{"Trading"}},
			cand: candidate("no activities", 10000, 5),
		},
		{
			name: "activity constraint, only empty elements",
			req:  &models.UserRequirements{BusinessActivities: []string{"Trading"}},
			cand: candidate("blank activities", 10000, 5, ""),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kept := FilterCandidates([]Candidate{tt.cand}, tt.req)
			assert.Empty(t, kept)
		})
	}
}

func TestFilterCandidates_PreservesOrder(t *testing.T) {
	req := &models.UserRequirements{Budget: 50000}
	cands := []Candidate{
		candidate("c", 30000, 0),
		candidate("a", 10000, 0),
		candidate("b", 20000, 0),
	}

	kept := FilterCandidates(cands, req)

	assert.Equal(t, []string{"c", "a", "b"}, keptNames(kept))
}

func keptNames(cands []Candidate) []string {
	names := make([]string, 0, len(cands))
	for _, c := range cands {
		names = append(names, c.Freezone.FreezoneName)
	}
	return names
}
