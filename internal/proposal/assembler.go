// internal/proposal/assembler.go
package proposal

import (
	"fmt"
	"strings"

	"freezone-advisor/internal/matching"
	"freezone-advisor/internal/models"
)

// Heuristic split of a lump-sum setup cost when the itemized figures are
// missing: license 40%, registration 15%, visas 25%, office 20%.
const (
	licenseShare      = 0.40
	registrationShare = 0.15
	visaShare         = 0.25
	officeShare       = 0.20
)

const maxAlternatives = 3

// Assemble builds the proposal document for a lead from the ranked match
// results. Every section degrades to a sensible default rather than failing;
// an empty result list falls back to the static candidate set so the document
// is never hollow.
func Assemble(req *models.UserRequirements, results []models.MatchResult) *models.ProposalDocument {
	if len(results) == 0 {
		results = matching.Fallback(req)
	}
	top := results[0]

	alternates := results[1:]
	if len(alternates) > maxAlternatives {
		alternates = alternates[:maxAlternatives]
	}

	doc := &models.ProposalDocument{
		Introduction:   introduction(req, top),
		Recommendation: recommendation(req, top),
		Alternatives:   alternatives(req, top, alternates),
		CostBreakdown:  costBreakdown(top.Freezone),
		FAQ:            faq(top.Freezone),
		NextSteps:      nextSteps(),
	}
	doc.Timeline, doc.TotalDays = timeline(top.Freezone)
	return doc
}

func introduction(req *models.UserRequirements, top models.MatchResult) string {
	industry := strings.TrimSpace(req.Industry)
	if industry == "" {
		industry = "new"
	}
	return fmt.Sprintf(
		"Thank you for completing our business setup questionnaire. Based on your "+
			"requirements we analysed the UAE freezone market and identified %s as the "+
			"strongest fit for your %s business, with a match score of %.0f. The sections "+
			"below cover costs, visas, timeline and the next steps to get you started.",
		top.Freezone.FreezoneName, industry, top.MatchScore,
	)
}

func recommendation(req *models.UserRequirements, top models.MatchResult) models.Recommendation {
	f := top.Freezone
	rec := models.Recommendation{
		FreezoneName: f.FreezoneName,
		MatchScore:   top.MatchScore,
	}

	switch {
	case f.SetupCost <= 0:
		rec.CostNarrative = fmt.Sprintf("%s offers flexible package pricing; our consultants will confirm an exact quote for your requirements.", f.FreezoneName)
	case req.Budget > 0 && f.SetupCost <= req.Budget:
		rec.CostNarrative = fmt.Sprintf("The full setup comes to AED %.0f, within your AED %.0f budget, with annual renewal at AED %.0f.", f.SetupCost, req.Budget, f.RenewalCost)
	default:
		rec.CostNarrative = fmt.Sprintf("The full setup comes to AED %.0f, with annual renewal at AED %.0f.", f.SetupCost, f.RenewalCost)
	}

	if f.MaxVisaAllocation > 0 {
		rec.VisaNarrative = fmt.Sprintf("The package includes %d visa slots and can scale to %d, covering your stated need for %d.", f.InitialVisaAllocation, f.MaxVisaAllocation, req.VisaCount)
	} else {
		rec.VisaNarrative = "Visa allocations for this package are confirmed during registration."
	}

	if listed := activityList(f); listed != "" {
		rec.ActivityNarrative = fmt.Sprintf("Licensed activities include %s.", listed)
	} else {
		rec.ActivityNarrative = "The freezone supports a broad range of commercial and professional activities."
	}

	if f.Location != "" {
		rec.LocationNarrative = fmt.Sprintf("%s is located in %s.", f.FreezoneName, f.Location)
		if req.PreferredLocation != "" && strings.EqualFold(req.PreferredLocation, f.Location) {
			rec.LocationNarrative += " This matches your preferred location exactly."
		}
	} else {
		rec.LocationNarrative = "Location details are available on request."
	}

	return rec
}

func alternatives(req *models.UserRequirements, top models.MatchResult, alts []models.MatchResult) []models.AlternativeComparison {
	out := make([]models.AlternativeComparison, 0, len(alts))
	for _, alt := range alts {
		f := alt.Freezone
		cmp := models.AlternativeComparison{
			FreezoneName: f.FreezoneName,
			MatchScore:   alt.MatchScore,
		}

		switch {
		case f.SetupCost <= 0 || top.Freezone.SetupCost <= 0:
			cmp.CostDelta = "Pricing on request"
		case f.SetupCost < top.Freezone.SetupCost:
			cmp.CostDelta = fmt.Sprintf("AED %.0f cheaper than %s", top.Freezone.SetupCost-f.SetupCost, top.Freezone.FreezoneName)
		case f.SetupCost > top.Freezone.SetupCost:
			cmp.CostDelta = fmt.Sprintf("AED %.0f more than %s", f.SetupCost-top.Freezone.SetupCost, top.Freezone.FreezoneName)
		default:
			cmp.CostDelta = "Same setup cost"
		}

		if req.VisaCount > 0 && f.MaxVisaAllocation > 0 {
			if f.MaxVisaAllocation >= req.VisaCount {
				cmp.VisaDelta = fmt.Sprintf("Covers your %d visas (up to %d)", req.VisaCount, f.MaxVisaAllocation)
			} else {
				cmp.VisaDelta = fmt.Sprintf("Only %d of your %d visas", f.MaxVisaAllocation, req.VisaCount)
			}
		} else {
			cmp.VisaDelta = "Visa allocation confirmed at registration"
		}

		if f.Location != "" {
			cmp.LocationDelta = f.Location
		} else {
			cmp.LocationDelta = "Location on request"
		}

		if listed := activityList(f); listed != "" {
			cmp.ActivityDelta = listed
		} else {
			cmp.ActivityDelta = "Broad activity coverage"
		}

		out = append(out, cmp)
	}
	return out
}

// costBreakdown prefers the itemized catalog figures; when they are absent it
// applies the heuristic percentage split of the lump-sum setup cost and marks
// the breakdown as estimated.
func costBreakdown(f models.FreezoneRecord) models.CostBreakdown {
	itemized := f.LicenseCost + f.RegistrationCost + f.VisaCost + f.OfficeCost
	if itemized > 0 {
		return models.CostBreakdown{
			LicenseCost:      f.LicenseCost,
			RegistrationCost: f.RegistrationCost,
			VisaCost:         f.VisaCost,
			OfficeCost:       f.OfficeCost,
			TotalSetupCost:   f.SetupCost,
			RenewalCost:      f.RenewalCost,
			Estimated:        false,
		}
	}
	return models.CostBreakdown{
		LicenseCost:      f.SetupCost * licenseShare,
		RegistrationCost: f.SetupCost * registrationShare,
		VisaCost:         f.SetupCost * visaShare,
		OfficeCost:       f.SetupCost * officeShare,
		TotalSetupCost:   f.SetupCost,
		RenewalCost:      f.RenewalCost,
		Estimated:        true,
	}
}

func timeline(f models.FreezoneRecord) ([]models.TimelineStage, int) {
	stages := []models.TimelineStage{
		{Stage: "Documentation", Description: "Collect and attest shareholder documents", Days: 3},
		{Stage: "Name reservation", Description: "Reserve the trade name and obtain initial approval", Days: 2},
		{Stage: "License issuance", Description: "Submit the application and receive the trade license", Days: 7},
		{Stage: "Visa processing", Description: "Entry permits, medicals and Emirates ID for each visa", Days: 10},
		{Stage: "Bank account", Description: "Open the corporate bank account", Days: 10},
	}
	total := 0
	for _, s := range stages {
		total += s.Days
	}
	return stages, total
}

func faq(f models.FreezoneRecord) []models.FAQItem {
	items := []models.FAQItem{
		{
			Question: "Do I need to be in the UAE to register the company?",
			Answer:   "No. Registration can be completed remotely; you only need to visit for visa stamping and the bank account.",
		},
		{
			Question: "Can I open a corporate bank account with this license?",
			Answer:   "Yes. Freezone licenses are accepted by all major UAE banks; we assist with the introduction.",
		},
		{
			Question: "What are the renewal obligations?",
			Answer:   "The license renews annually. Renewal covers the license fee and any leased facilities.",
		},
	}
	if f.SetupTimeframe != "" {
		items = append(items, models.FAQItem{
			Question: "How long does the setup take?",
			Answer:   fmt.Sprintf("Typical setup time for %s is %s from complete documentation.", f.FreezoneName, f.SetupTimeframe),
		})
	}
	return items
}

func nextSteps() []string {
	return []string{
		"Review this proposal and the alternative options",
		"Confirm your selected package and payment method",
		"Submit passport copies for all shareholders",
		"We file the application and keep you updated at every stage",
	}
}

func activityList(f models.FreezoneRecord) string {
	listed := make([]string, 0, len(f.SupportedActivities))
	for _, a := range f.SupportedActivities {
		if s := strings.TrimSpace(a); s != "" {
			listed = append(listed, s)
		}
	}
	if len(listed) == 0 {
		return ""
	}
	if len(listed) > 5 {
		listed = listed[:5]
	}
	return strings.Join(listed, ", ")
}
