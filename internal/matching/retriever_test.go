package matching

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"freezone-advisor/internal/common/logger"
	"freezone-advisor/internal/models"
)

type stubEmbedder struct {
	vector []float32
	err    error
}

func (s *stubEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	return s.vector, s.err
}

type stubVectorSearch struct {
	matches []VectorMatch
	err     error
}

func (s *stubVectorSearch) Query(_ context.Context, _ []float32, _ int) ([]VectorMatch, error) {
	return s.matches, s.err
}

type stubKeywordSearch struct {
	records []models.FreezoneRecord
	err     error
	called  bool
}

func (s *stubKeywordSearch) Search(_ context.Context, _ string, _ int) ([]models.FreezoneRecord, error) {
	s.called = true
	return s.records, s.err
}

func testRetriever(e TextEmbedder, v VectorSearch, k KeywordSearch) *Retriever {
	return NewRetriever(RetrieverDeps{
		Embedder: e,
		Vectors:  v,
		Keywords: k,
		Logger:   logger.NewNoOpLogger(),
	})
}

func techRequirements() *models.UserRequirements {
	return &models.UserRequirements{
		Industry:           "Technology",
		VisaCount:          3,
		Budget:             25000,
		BusinessActivities: []string{"Software Development"},
		PreferredLocation:  "Dubai",
	}
}

func vectorMatchFor(name string, score float64) VectorMatch {
	return VectorMatch{
		ID:    name,
		Score: score,
		Metadata: models.FreezoneRecord{
			FreezoneName:        name,
			SetupCost:           24000,
			MaxVisaAllocation:   10,
			Location:            "Dubai",
			SupportedActivities: []string{"Software Development"},
		},
	}
}

func TestRetriever_HappyPath(t *testing.T) {
	r := testRetriever(
		&stubEmbedder{vector: []float32{0.1, 0.2}},
		&stubVectorSearch{matches: []VectorMatch{
			vectorMatchFor("DMCC", 0.91),
			vectorMatchFor("DSO", 0.84),
		}},
		nil,
	)

	results := r.Match(context.Background(), techRequirements())

	assert.Len(t, results, 2)
	assert.Equal(t, "DMCC", results[0].Freezone.FreezoneName)
	assert.Greater(t, results[0].MatchScore, results[1].MatchScore)
}

func TestRetriever_ZeroVectorMatchesServesFallback(t *testing.T) {
	r := testRetriever(
		&stubEmbedder{vector: []float32{0.1}},
		&stubVectorSearch{matches: nil},
		nil,
	)

	results := r.Match(context.Background(), techRequirements())

	assert.Len(t, results, 3)
	names := []string{
		results[0].Freezone.FreezoneName,
		results[1].Freezone.FreezoneName,
		results[2].Freezone.FreezoneName,
	}
	assert.Equal(t, []string{
		"Dubai Multi Commodities Centre (DMCC)",
		"Sharjah Media City (SHAMS)",
		"Dubai Silicon Oasis",
	}, names)
}

func TestRetriever_EmbedFailureFallsToKeywordTier(t *testing.T) {
	keywords := &stubKeywordSearch{records: []models.FreezoneRecord{
		{
			FreezoneName:        "SPC Free Zone",
			SetupCost:           18000,
			MaxVisaAllocation:   5,
			Location:            "Sharjah",
			SupportedActivities: []string{"Software Development"},
		},
	}}
	r := testRetriever(
		&stubEmbedder{err: errors.New("embeddings unavailable")},
		&stubVectorSearch{},
		keywords,
	)

	results := r.Match(context.Background(), techRequirements())

	assert.True(t, keywords.called)
	assert.Len(t, results, 1)
	assert.Equal(t, "SPC Free Zone", results[0].Freezone.FreezoneName)
	// Keyword hits carry no similarity score, so no boost applies.
	assert.Equal(t, 0.0, results[0].ScoreDetails.SimilarityBoost)
}

func TestRetriever_VectorFailureFallsToKeywordTier(t *testing.T) {
	keywords := &stubKeywordSearch{err: errors.New("es down")}
	r := testRetriever(
		&stubEmbedder{vector: []float32{0.1}},
		&stubVectorSearch{err: errors.New("pinecone down")},
		keywords,
	)

	results := r.Match(context.Background(), techRequirements())

	assert.True(t, keywords.called)
	// Both tiers failed: the static list is the floor.
	assert.Len(t, results, 3)
}

func TestRetriever_FilteredToNothingServesFallback(t *testing.T) {
	match := vectorMatchFor("tiny", 0.9)
	match.Metadata.MaxVisaAllocation = 1

	r := testRetriever(
		&stubEmbedder{vector: []float32{0.1}},
		&stubVectorSearch{matches: []VectorMatch{match}},
		nil,
	)

	results := r.Match(context.Background(), techRequirements())

	assert.Len(t, results, 3)
}

func TestFallback_FixedThreeEntries(t *testing.T) {
	results := Fallback(&models.UserRequirements{Industry: "Media"})

	assert.Len(t, results, 3)
	for _, res := range results {
		assert.Greater(t, res.MatchScore, 0.0)
		assert.NotEmpty(t, res.MatchReasons)
	}
	assert.Contains(t, results[0].MatchReasons[0], "Media")
}
