package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"freezone-advisor/internal/models"
)

func TestScoreCost(t *testing.T) {
	tests := []struct {
		name      string
		setupCost float64
		budget    float64
		want      float64
	}{
		{"exactly at budget", 25000, 25000, 30},
		{"half of budget", 12500, 25000, 15},
		{"double the budget", 40000, 20000, 15},
		{"no budget specified", 25000, 0, 15},
		{"no cost data", 0, 25000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scoreCost(tt.setupCost, tt.budget)
			assert.InDelta(t, tt.want, got, 0.001)
		})
	}
}

func TestScoreLocation(t *testing.T) {
	tests := []struct {
		name      string
		preferred string
		actual    string
		want      float64
	}{
		{"exact match", "Dubai", "Dubai", 25},
		{"exact match case-insensitive", "dubai", "Dubai", 25},
		{"no preference", "", "Sharjah", 20},
		{"shared word", "Dubai South", "Dubai", 15},
		{"no overlap", "Abu Dhabi", "Sharjah", 10},
		{"missing candidate location", "Dubai", "", 12},
		{"short words ignored", "Al Ain", "Al Quoz", 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, scoreLocation(tt.preferred, tt.actual))
		})
	}
}

func TestScoreVisa(t *testing.T) {
	tests := []struct {
		name          string
		maxAllocation int
		required      int
		want          float64
	}{
		{"comfortable headroom", 15, 3, 25},
		{"exactly required plus two", 5, 3, 25},
		{"tight fit capped at weight", 4, 3, 25},
		{"under-allocated scales down", 2, 4, 12.5},
		{"no allocation data", 0, 3, 10},
		{"no requirement with allocation", 4, 0, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scoreVisa(tt.maxAllocation, tt.required)
			assert.InDelta(t, tt.want, got, 0.001)
		})
	}
}

func TestScoreActivities(t *testing.T) {
	record := func(acts ...string) models.FreezoneRecord {
		return models.FreezoneRecord{SupportedActivities: acts}
	}

	tests := []struct {
		name string
		f    models.FreezoneRecord
		req  *models.UserRequirements
		want float64
	}{
		{
			name: "no required activities",
			f:    record("Trading"),
			req:  &models.UserRequirements{},
			want: 20,
		},
		{
			name: "flat full match",
			f:    record("Software Development", "Consulting"),
			req:  &models.UserRequirements{BusinessActivities: []string{"Software Development", "Consulting"}},
			want: 20,
		},
		{
			name: "flat half match",
			f:    record("Consulting"),
			req:  &models.UserRequirements{BusinessActivities: []string{"Software Development", "Consulting"}},
			want: 10,
		},
		{
			name: "primary weighted, secondary granted when unspecified",
			f:    record("Software Development"),
			req:  &models.UserRequirements{PrimaryActivities: []string{"Software Development"}},
			want: 20,
		},
		{
			name: "primary matched, secondary missed",
			f:    record("Software Development"),
			req: &models.UserRequirements{
				PrimaryActivities:   []string{"Software Development"},
				SecondaryActivities: []string{"Media Production"},
			},
			want: 15,
		},
		{
			name: "half primary, full secondary",
			f:    record("Software Development", "Trading"),
			req: &models.UserRequirements{
				PrimaryActivities:   []string{"Software Development", "Media Production"},
				SecondaryActivities: []string{"Trading"},
			},
			want: 12.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scoreActivities(tt.f, tt.req)
			assert.InDelta(t, tt.want, got, 0.001)
		})
	}
}

func TestScore_SubScoreBounds(t *testing.T) {
	reqs := []*models.UserRequirements{
		{},
		{Industry: "Technology", VisaCount: 3, Budget: 25000, BusinessActivities: []string{"Software Development"}, PreferredLocation: "Dubai"},
		{VisaCount: 50, Budget: 1, BusinessActivities: []string{"X", "Y", "Z"}, PreferredLocation: "Nowhere"},
	}
	cands := []Candidate{
		candidate("rich", 25000, 15, "Software Development"),
		candidate("bare", 0, 0),
		{Freezone: models.FreezoneRecord{FreezoneName: "huge", SetupCost: 9e9, MaxVisaAllocation: 1000}, Similarity: 99},
	}

	for _, req := range reqs {
		for _, res := range Score(cands, req) {
			d := res.ScoreDetails
			assert.GreaterOrEqual(t, d.CostScore, 0.0)
			assert.LessOrEqual(t, d.CostScore, 30.0)
			assert.GreaterOrEqual(t, d.LocationScore, 10.0)
			assert.LessOrEqual(t, d.LocationScore, 25.0)
			assert.GreaterOrEqual(t, d.VisaScore, 0.0)
			assert.LessOrEqual(t, d.VisaScore, 25.0)
			assert.GreaterOrEqual(t, d.ActivityScore, 0.0)
			assert.LessOrEqual(t, d.ActivityScore, 20.0)
			assert.GreaterOrEqual(t, d.SimilarityBoost, 0.0)
			assert.LessOrEqual(t, d.SimilarityBoost, 10.0)
		}
	}
}

func TestScore_PerfectMatchTotals100PlusBoost(t *testing.T) {
	req := &models.UserRequirements{
		Industry:           "Technology",
		VisaCount:          3,
		Budget:             25000,
		BusinessActivities: []string{"Software Development"},
		PreferredLocation:  "Dubai",
	}
	cand := Candidate{
		Freezone: models.FreezoneRecord{
			FreezoneName:        "DMCC",
			SetupCost:           25000,
			MaxVisaAllocation:   15,
			Location:            "Dubai",
			SupportedActivities: []string{"Software Development"},
		},
		Similarity: 0.9,
	}

	results := Score([]Candidate{cand}, req)

	assert.Len(t, results, 1)
	d := results[0].ScoreDetails
	assert.Equal(t, 30.0, d.CostScore)
	assert.Equal(t, 25.0, d.LocationScore)
	assert.Equal(t, 25.0, d.VisaScore)
	assert.Equal(t, 20.0, d.ActivityScore)
	assert.InDelta(t, 9.0, d.SimilarityBoost, 0.001)
	assert.InDelta(t, 109.0, results[0].MatchScore, 0.001)
	assert.NotEmpty(t, results[0].MatchReasons)
}

func TestScore_RankingIsDescending(t *testing.T) {
	req := &models.UserRequirements{Budget: 25000, PreferredLocation: "Dubai"}
	cands := []Candidate{
		candidate("weak", 5000, 0),
		candidate("strong", 25000, 0),
		candidate("middle", 15000, 0),
	}
	cands[1].Freezone.Location = "Dubai"

	results := Score(cands, req)

	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].MatchScore, results[i].MatchScore)
	}
	assert.Equal(t, "strong", results[0].Freezone.FreezoneName)
}

func TestBoost_Capped(t *testing.T) {
	assert.Equal(t, 0.0, boost(0))
	assert.InDelta(t, 5.0, boost(0.5), 0.001)
	assert.Equal(t, 10.0, boost(1.0))
	assert.Equal(t, 10.0, boost(7.3))
}
