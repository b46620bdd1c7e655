package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"freezone-advisor/internal/models"
)

func validRawRecord() models.RawCatalogRecord {
	return models.RawCatalogRecord{
		"Package title":         "IFZA Business Package (3 visa)",
		"Freezone":              "International Free Zone Authority (IFZA)",
		"Location":              "Dubai",
		"Setup cost":            "AED 22,500",
		"Renewal cost":          "AED 15,000",
		"License cost":          "12,000",
		"Registration cost":     "3,500",
		"Visa cost":             "2,000",
		"Office cost":           "4,000",
		"Max visa allocation":   "6",
		"Supported activities":  "Consulting, Software Development, Trading",
		"Payment options":       "Full payment, Installments",
		"Key benefits":          "Fast setup, No paid-up capital",
		"Setup timeframe":       "1-2 weeks",
		"Corporate requirements": "1 shareholder minimum",
	}
}

func TestNormalize_HeaderAndBlankRows(t *testing.T) {
	tests := []struct {
		name string
		raw  models.RawCatalogRecord
	}{
		{"empty record", models.RawCatalogRecord{}},
		{"blank title", models.RawCatalogRecord{"Package title": "   "}},
		{"header row", models.RawCatalogRecord{"Package title": "Package title"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, ok := Normalize(tt.raw)
			assert.False(t, ok)
			assert.Nil(t, rec)
		})
	}
}

func TestNormalize_ValidRecord(t *testing.T) {
	rec, ok := Normalize(validRawRecord())

	assert.True(t, ok)
	assert.Equal(t, "International Free Zone Authority (IFZA)", rec.FreezoneName)
	assert.Equal(t, "IFZA Business Package (3 visa)", rec.PackageName)
	assert.Equal(t, "Dubai", rec.Location)
	assert.Equal(t, 22500.0, rec.SetupCost)
	assert.Equal(t, 15000.0, rec.RenewalCost)
	assert.Equal(t, 3, rec.InitialVisaAllocation)
	assert.Equal(t, 6, rec.MaxVisaAllocation)
	assert.Equal(t, []string{"Consulting", "Software Development", "Trading"}, rec.SupportedActivities)
	assert.Equal(t, "1-2 weeks", rec.SetupTimeframe)
}

func TestNormalize_TitleParsing(t *testing.T) {
	tests := []struct {
		name      string
		title     string
		wantName  string
		wantVisas int
	}{
		{"name and visa count", "DMCC Standard (2 visa)", "DMCC Standard", 2},
		{"case-insensitive visa tag", "SHAMS Media (4 VISA)", "SHAMS Media", 4},
		{"visa tag with spacing", "RAKEZ Basic (5  visa)", "RAKEZ Basic", 5},
		{"no visa tag", "Ajman Media City Premium", "Ajman Media City Premium", 0},
		{"non-visa parenthetical", "Meydan (flexi desk)", "Meydan", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, ok := Normalize(models.RawCatalogRecord{"Package title": tt.title})
			assert.True(t, ok)
			assert.Equal(t, tt.wantName, rec.FreezoneName)
			assert.Equal(t, tt.wantVisas, rec.InitialVisaAllocation)
		})
	}
}

func TestNormalize_NumericCleaning(t *testing.T) {
	tests := []struct {
		name string
		cell string
		want float64
	}{
		{"currency prefix and commas", "AED 12,500.50", 12500.50},
		{"plain number", "9000", 9000},
		{"garbage", "call us", 0},
		{"empty", "", 0},
		{"multiple dots", "1.2.3", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, ok := Normalize(models.RawCatalogRecord{
				"Package title": "Test Package (1 visa)",
				"Setup cost":    tt.cell,
			})
			assert.True(t, ok)
			assert.Equal(t, tt.want, rec.SetupCost)
		})
	}
}

func TestNormalize_SetupCostReconciliation(t *testing.T) {
	tests := []struct {
		name string
		raw  models.RawCatalogRecord
		want float64
	}{
		{
			name: "rebuilt from itemized costs",
			raw: models.RawCatalogRecord{
				"Package title":     "RAKEZ Basic (2 visa)",
				"Setup cost":        "0",
				"License cost":      "8,000",
				"Registration cost": "2,000",
				"Visa cost":         "1,500",
				"Office cost":       "3,000",
			},
			// 8000 + 2000 + 1500*2 + 3000
			want: 16000,
		},
		{
			name: "declared cost wins over items",
			raw: models.RawCatalogRecord{
				"Package title": "DSO Tech (3 visa)",
				"Setup cost":    "20,000",
				"License cost":  "99,999",
			},
			want: 20000,
		},
		{
			name: "no data stays zero",
			raw: models.RawCatalogRecord{
				"Package title": "Mystery Package",
			},
			want: 0,
		},
		{
			name: "negative cell clamped",
			raw: models.RawCatalogRecord{
				"Package title": "Odd Package (1 visa)",
				"Setup cost":    "-500",
			},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, ok := Normalize(tt.raw)
			assert.True(t, ok)
			assert.Equal(t, tt.want, rec.SetupCost)
			assert.GreaterOrEqual(t, rec.SetupCost, 0.0)
		})
	}
}

func TestNormalize_EmptyListYieldsSingleEmptyElement(t *testing.T) {
	rec, ok := Normalize(models.RawCatalogRecord{"Package title": "Bare Package"})

	assert.True(t, ok)
	assert.Equal(t, []string{""}, rec.SupportedActivities)
	assert.Empty(t, nonEmpty(rec.SupportedActivities))
}

func TestNormalize_MaxVisasDefaultsToTitleCount(t *testing.T) {
	rec, ok := Normalize(models.RawCatalogRecord{"Package title": "SHAMS Starter (2 visa)"})

	assert.True(t, ok)
	assert.Equal(t, 2, rec.MaxVisaAllocation)
}
