// internal/models/freezone.go
package models

// RawCatalogRecord is one row of the source catalog spreadsheet, keyed by
// column header. Values arrive as free-form strings and may be missing or
// malformed; the normalizer owns all cleanup.
type RawCatalogRecord map[string]string

// FreezoneRecord is a normalized catalog entry. Immutable once produced by
// the normalizer; records live until the next catalog refresh.
type FreezoneRecord struct {
	ID           string `json:"id,omitempty"`
	FreezoneName string `json:"freezoneName"`
	PackageName  string `json:"packageName"`
	Location     string `json:"location"`

	SetupCost        float64 `json:"setupCost"`
	RenewalCost      float64 `json:"renewalCost"`
	LicenseCost      float64 `json:"licenseCost"`
	RegistrationCost float64 `json:"registrationCost"`
	VisaCost         float64 `json:"visaCost"`
	OfficeCost       float64 `json:"officeCost"`

	InitialVisaAllocation int `json:"initialVisaAllocation"`
	MaxVisaAllocation     int `json:"maxVisaAllocation"`

	SupportedActivities   []string `json:"supportedActivities"`
	ProhibitedActivities  []string `json:"prohibitedActivities,omitempty"`
	PaymentOptions        []string `json:"paymentOptions,omitempty"`
	KeyBenefits           []string `json:"keyBenefits,omitempty"`
	CorporateRequirements string   `json:"corporateRequirements,omitempty"`
	SetupTimeframe        string   `json:"setupTimeframe,omitempty"`
}

// Description renders the record as retrieval text for embedding and
// keyword indexing.
func (f *FreezoneRecord) Description() string {
	parts := f.FreezoneName + " " + f.PackageName + " in " + f.Location + "."
	if len(f.SupportedActivities) > 0 {
		parts += " Supported activities:"
		for _, a := range f.SupportedActivities {
			if a != "" {
				parts += " " + a
			}
		}
		parts += "."
	}
	if f.SetupTimeframe != "" {
		parts += " Setup timeframe: " + f.SetupTimeframe + "."
	}
	return parts
}
