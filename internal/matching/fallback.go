// internal/matching/fallback.go
package matching

import (
	"fmt"

	"freezone-advisor/internal/common/metrics"
	"freezone-advisor/internal/models"
)

// Fallback returns the pre-authored candidate set served when retrieval fails
// or filtering leaves nothing. Scores are fixed; no ranking logic applies.
// The requirements only flavor the match reasons.
func Fallback(req *models.UserRequirements) []models.MatchResult {
	metrics.FallbackServed.Inc()

	industry := fallbackIndustry(req)
	reason := func(name string) []string {
		return []string{fmt.Sprintf("%s is a consistently strong choice for %s businesses", name, industry)}
	}

	return []models.MatchResult{
		{
			Freezone: models.FreezoneRecord{
				FreezoneName:          "Dubai Multi Commodities Centre (DMCC)",
				PackageName:           "DMCC Standard Package (3 visa)",
				Location:              "Dubai",
				SetupCost:             34000,
				RenewalCost:           22000,
				InitialVisaAllocation: 3,
				MaxVisaAllocation:     6,
				SupportedActivities:   []string{"Trading", "Consulting", "Software Development", "E-commerce"},
				SetupTimeframe:        "2-3 weeks",
				KeyBenefits:           []string{"Award-winning freezone", "Central Dubai location", "Strong banking support"},
			},
			MatchScore: 82,
			ScoreDetails: models.ScoreDetails{
				CostScore: 24, LocationScore: 20, VisaScore: 22, ActivityScore: 16,
			},
			MatchReasons: reason("DMCC"),
		},
		{
			Freezone: models.FreezoneRecord{
				FreezoneName:          "Sharjah Media City (SHAMS)",
				PackageName:           "SHAMS Starter Package (2 visa)",
				Location:              "Sharjah",
				SetupCost:             11500,
				RenewalCost:           9000,
				InitialVisaAllocation: 2,
				MaxVisaAllocation:     6,
				SupportedActivities:   []string{"Media", "Marketing", "Consulting", "E-commerce"},
				SetupTimeframe:        "1-2 weeks",
				KeyBenefits:           []string{"Lowest-cost entry point", "Fast registration", "No physical office required"},
			},
			MatchScore: 76,
			ScoreDetails: models.ScoreDetails{
				CostScore: 26, LocationScore: 14, VisaScore: 22, ActivityScore: 14,
			},
			MatchReasons: reason("SHAMS"),
		},
		{
			Freezone: models.FreezoneRecord{
				FreezoneName:          "Dubai Silicon Oasis",
				PackageName:           "DSO Tech Package (3 visa)",
				Location:              "Dubai",
				SetupCost:             25000,
				RenewalCost:           18000,
				InitialVisaAllocation: 3,
				MaxVisaAllocation:     8,
				SupportedActivities:   []string{"Software Development", "IT Services", "Electronics Trading", "R&D"},
				SetupTimeframe:        "2-4 weeks",
				KeyBenefits:           []string{"Technology ecosystem", "On-site data centres", "Subsidised office space"},
			},
			MatchScore: 71,
			ScoreDetails: models.ScoreDetails{
				CostScore: 22, LocationScore: 20, VisaScore: 20, ActivityScore: 9,
			},
			MatchReasons: reason("Dubai Silicon Oasis"),
		},
	}
}
