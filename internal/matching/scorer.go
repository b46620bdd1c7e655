// internal/matching/scorer.go
package matching

import (
	"fmt"
	"sort"
	"strings"

	"freezone-advisor/internal/models"
)

// Sub-score weights. The four nominal components sum to 100; the similarity
// boost rides on top as a bounded tie-breaker.
const (
	costWeight     = 30.0
	locationWeight = 25.0
	visaWeight     = 25.0
	activityWeight = 20.0

	// similarityBoostCap bounds the vector-score contribution so raw index
	// scores can break ties but never outrank a better business fit.
	similarityBoostCap = 10.0

	// Degraded defaults when the data needed for a sub-score is absent.
	costScoreNoBudget    = 15.0
	locationNoPreference = 20.0
	locationMissingData  = 12.0
	locationSharedWord   = 15.0
	locationNoMatch      = 10.0
	visaScoreNoData      = 10.0

	// Primary activities carry most of the activity weight when the lead
	// split them out; secondaries share the rest.
	primaryActivityWeight   = 15.0
	secondaryActivityWeight = 5.0
)

// Score annotates each candidate with its weighted match score and sub-scores
// and returns them sorted descending by total score. Missing or malformed
// candidate data degrades the affected sub-score to a default; scoring never
// fails.
func Score(cands []Candidate, req *models.UserRequirements) []models.MatchResult {
	results := make([]models.MatchResult, 0, len(cands))
	for _, c := range cands {
		details := models.ScoreDetails{
			CostScore:       scoreCost(c.Freezone.SetupCost, req.Budget),
			LocationScore:   scoreLocation(req.PreferredLocation, c.Freezone.Location),
			VisaScore:       scoreVisa(c.Freezone.MaxVisaAllocation, req.VisaCount),
			ActivityScore:   scoreActivities(c.Freezone, req),
			SimilarityBoost: boost(c.Similarity),
		}

		total := details.CostScore + details.LocationScore +
			details.VisaScore + details.ActivityScore + details.SimilarityBoost

		results = append(results, models.MatchResult{
			Freezone:        c.Freezone,
			MatchScore:      total,
			ScoreDetails:    details,
			MatchReasons:    matchReasons(c.Freezone, req, details),
			SimilarityScore: c.Similarity,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].MatchScore > results[j].MatchScore
	})
	return results
}

// scoreCost rewards packages that use more of the stated budget: value scales
// toward the ceiling, not away from it. Packages over budget decay toward 0
// as the overage grows. Keep the monotonicity as-is; it is the confirmed
// pricing rule, counterintuitive as it reads.
func scoreCost(setupCost, budget float64) float64 {
	if budget <= 0 {
		return costScoreNoBudget
	}
	if setupCost <= 0 {
		return 0
	}
	if setupCost <= budget {
		return costWeight * (setupCost / budget)
	}
	return costWeight * (budget / setupCost)
}

func scoreLocation(preferred, actual string) float64 {
	preferred = strings.TrimSpace(preferred)
	if preferred == "" {
		return locationNoPreference
	}
	actual = strings.TrimSpace(actual)
	if actual == "" {
		return locationMissingData
	}
	if strings.EqualFold(preferred, actual) {
		return locationWeight
	}
	if sharesWord(preferred, actual) {
		return locationSharedWord
	}
	return locationNoMatch
}

// sharesWord reports whether the two location strings share any word longer
// than two characters ("Dubai South" vs "Dubai").
func sharesWord(a, b string) bool {
	bWords := map[string]bool{}
	for _, w := range strings.Fields(strings.ToLower(b)) {
		if len(w) > 2 {
			bWords[w] = true
		}
	}
	for _, w := range strings.Fields(strings.ToLower(a)) {
		if len(w) > 2 && bWords[w] {
			return true
		}
	}
	return false
}

// scoreVisa gives full marks for comfortable headroom (required+2), penalizes
// oversized allocations the lead would pay for without using, and scales down
// proportionally when the allocation falls short.
func scoreVisa(maxAllocation, required int) float64 {
	if maxAllocation <= 0 {
		return visaScoreNoData
	}
	if required <= 0 {
		required = 0
	}
	switch {
	case maxAllocation >= required+2:
		return visaWeight
	case maxAllocation >= required:
		score := visaWeight * float64(required+2) / float64(maxAllocation)
		if score > visaWeight {
			score = visaWeight
		}
		return score
	default:
		return visaWeight * float64(maxAllocation) / float64(required)
	}
}

func scoreActivities(f models.FreezoneRecord, req *models.UserRequirements) float64 {
	required := nonEmpty(req.RequiredActivities())
	if len(required) == 0 {
		return activityWeight
	}
	supported := nonEmpty(f.SupportedActivities)

	primary := nonEmpty(req.PrimaryActivities)
	secondary := nonEmpty(req.SecondaryActivities)
	if len(primary) > 0 {
		score := primaryActivityWeight * matchedFraction(supported, primary)
		if len(secondary) > 0 {
			score += secondaryActivityWeight * matchedFraction(supported, secondary)
		} else {
			score += secondaryActivityWeight
		}
		return score
	}

	return activityWeight * matchedFraction(supported, required)
}

func matchedFraction(supported, required []string) float64 {
	if len(required) == 0 {
		return 1
	}
	matched := 0
	for _, want := range required {
		if activityListed(supported, want) {
			matched++
		}
	}
	return float64(matched) / float64(len(required))
}

func boost(similarity float64) float64 {
	if similarity <= 0 {
		return 0
	}
	b := similarity * 10
	if b > similarityBoostCap {
		b = similarityBoostCap
	}
	return b
}

// matchReasons renders the human-readable bullets shown on the proposal.
func matchReasons(f models.FreezoneRecord, req *models.UserRequirements, d models.ScoreDetails) []string {
	reasons := make([]string, 0, 4)

	if req.Budget > 0 && f.SetupCost > 0 && f.SetupCost <= req.Budget {
		reasons = append(reasons, fmt.Sprintf("Setup cost of AED %.0f fits within your AED %.0f budget", f.SetupCost, req.Budget))
	}
	if d.LocationScore >= locationWeight {
		reasons = append(reasons, fmt.Sprintf("Located in your preferred area: %s", f.Location))
	} else if d.LocationScore >= locationSharedWord && f.Location != "" {
		reasons = append(reasons, fmt.Sprintf("Close to your preferred area: %s", f.Location))
	}
	if req.VisaCount > 0 && f.MaxVisaAllocation >= req.VisaCount {
		reasons = append(reasons, fmt.Sprintf("Covers all %d required visas (up to %d available)", req.VisaCount, f.MaxVisaAllocation))
	}
	if d.ActivityScore >= activityWeight {
		reasons = append(reasons, "Licensed for all of your business activities")
	}
	if len(reasons) == 0 {
		reasons = append(reasons, fmt.Sprintf("Broad match for a %s business", fallbackIndustry(req)))
	}
	return reasons
}

func fallbackIndustry(req *models.UserRequirements) string {
	if s := strings.TrimSpace(req.Industry); s != "" {
		return s
	}
	return "general trading"
}
