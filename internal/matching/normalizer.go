// internal/matching/normalizer.go
package matching

import (
	"regexp"
	"strconv"
	"strings"

	"freezone-advisor/internal/common/metrics"
	"freezone-advisor/internal/models"
)

// Source column headers as they appear in the catalog spreadsheet.
const (
	colPackageTitle     = "Package title"
	colFreezone         = "Freezone"
	colLocation         = "Location"
	colSetupCost        = "Setup cost"
	colRenewalCost      = "Renewal cost"
	colLicenseCost      = "License cost"
	colRegistrationCost = "Registration cost"
	colVisaCost         = "Visa cost"
	colOfficeCost       = "Office cost"
	colMaxVisas         = "Max visa allocation"
	colActivities       = "Supported activities"
	colProhibited       = "Prohibited activities"
	colPaymentOptions   = "Payment options"
	colKeyBenefits      = "Key benefits"
	colCorporateReqs    = "Corporate requirements"
	colTimeframe        = "Setup timeframe"
)

var (
	titleNamePattern = regexp.MustCompile(`^([^(]+)`)
	titleVisaPattern = regexp.MustCompile(`(?i)\((\d+)\s*visa\)`)
	nonNumericChars  = regexp.MustCompile(`[^0-9.\-]`)
)

// Normalize turns one raw catalog row into a FreezoneRecord. It returns
// ok=false for header and blank rows (missing package title, or a title equal
// to the header itself). Bad numeric cells become 0 and are counted, never
// errors: catalog quality problems must not break a lead's request.
func Normalize(raw models.RawCatalogRecord) (*models.FreezoneRecord, bool) {
	title := strings.TrimSpace(raw[colPackageTitle])
	if title == "" || title == colPackageTitle {
		return nil, false
	}

	rec := &models.FreezoneRecord{
		PackageName: title,
		Location:    strings.TrimSpace(raw[colLocation]),

		SetupCost:        parseNumber(raw[colSetupCost]),
		RenewalCost:      parseNumber(raw[colRenewalCost]),
		LicenseCost:      parseNumber(raw[colLicenseCost]),
		RegistrationCost: parseNumber(raw[colRegistrationCost]),
		VisaCost:         parseNumber(raw[colVisaCost]),
		OfficeCost:       parseNumber(raw[colOfficeCost]),

		SupportedActivities:   splitList(raw[colActivities]),
		ProhibitedActivities:  splitList(raw[colProhibited]),
		PaymentOptions:        splitList(raw[colPaymentOptions]),
		KeyBenefits:           splitList(raw[colKeyBenefits]),
		CorporateRequirements: strings.TrimSpace(raw[colCorporateReqs]),
		SetupTimeframe:        strings.TrimSpace(raw[colTimeframe]),
	}

	rec.FreezoneName = strings.TrimSpace(raw[colFreezone])
	if rec.FreezoneName == "" {
		rec.FreezoneName = titleName(title)
	}
	rec.InitialVisaAllocation = titleVisaCount(title)
	rec.MaxVisaAllocation = int(parseNumber(raw[colMaxVisas]))
	if rec.MaxVisaAllocation == 0 {
		rec.MaxVisaAllocation = rec.InitialVisaAllocation
	}

	reconcileSetupCost(rec)

	return rec, true
}

// titleName extracts the name portion of a package title, everything before
// the first parenthesis. No match returns the whole title.
func titleName(title string) string {
	if m := titleNamePattern.FindStringSubmatch(title); m != nil {
		if name := strings.TrimSpace(m[1]); name != "" {
			return name
		}
	}
	return title
}

// titleVisaCount extracts "(N visa)" from a package title; absent means 0.
func titleVisaCount(title string) int {
	m := titleVisaPattern.FindStringSubmatch(title)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

// parseNumber strips everything except digits, '.' and '-', then parses the
// remainder as a float. Unparsable values become 0.
func parseNumber(s string) float64 {
	cleaned := nonNumericChars.ReplaceAllString(s, "")
	if cleaned == "" {
		if strings.TrimSpace(s) != "" {
			metrics.CatalogFieldsZeroed.Inc()
		}
		return 0
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		metrics.CatalogFieldsZeroed.Inc()
		return 0
	}
	return v
}

// splitList splits a comma-separated cell and trims each element. An empty
// source cell yields a single empty element; consumers filter those out.
func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}

// reconcileSetupCost fills in a missing setup cost from the itemized costs
// when they sum to something positive. Incomplete source rows are common;
// summing real line items beats inventing a figure. The result is clamped at
// zero so a stray negative cell cannot produce a negative cost.
func reconcileSetupCost(rec *models.FreezoneRecord) {
	if rec.SetupCost == 0 {
		sum := rec.LicenseCost +
			rec.RegistrationCost +
			rec.VisaCost*float64(rec.InitialVisaAllocation) +
			rec.OfficeCost
		if sum > 0 {
			rec.SetupCost = sum
			metrics.CatalogCostsReconciled.Inc()
		}
	}
	if rec.SetupCost < 0 {
		rec.SetupCost = 0
		metrics.CatalogFieldsZeroed.Inc()
	}
}
