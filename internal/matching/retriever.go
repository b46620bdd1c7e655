// internal/matching/retriever.go
package matching

import (
	"context"

	"freezone-advisor/internal/common/logger"
	"freezone-advisor/internal/common/metrics"
	"freezone-advisor/internal/models"
)

const defaultTopK = 15

// Retriever runs the multi-stage candidate pipeline: embed the requirements,
// query the vector index, fall back to keyword search when the semantic tier
// is unavailable, then filter and score. It always returns a usable ranked
// list; when everything upstream fails or filtering empties the pool, the
// static fallback set is served.
type Retriever struct {
	embedder TextEmbedder
	vectors  VectorSearch
	keywords KeywordSearch
	logger   logger.Logger
	topK     int
}

// RetrieverDeps holds the injected collaborators. Keywords may be nil when no
// keyword tier is configured.
type RetrieverDeps struct {
	Embedder TextEmbedder
	Vectors  VectorSearch
	Keywords KeywordSearch
	Logger   logger.Logger
	TopK     int
}

func NewRetriever(deps RetrieverDeps) *Retriever {
	topK := deps.TopK
	if topK <= 0 {
		topK = defaultTopK
	}
	log := deps.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Retriever{
		embedder: deps.Embedder,
		vectors:  deps.Vectors,
		keywords: deps.Keywords,
		logger:   log,
		topK:     topK,
	}
}

// Match produces the ranked candidate list for one lead.
func (r *Retriever) Match(ctx context.Context, req *models.UserRequirements) []models.MatchResult {
	query := BuildQuery(req)

	candidates := r.retrieve(ctx, query)
	initial := len(candidates)

	filtered := FilterCandidates(candidates, req)
	r.logger.Info("candidates filtered", map[string]interface{}{
		"initial": initial,
		"left":    len(filtered),
	})

	if len(filtered) == 0 {
		r.logger.Warn("no candidates survived retrieval and filtering, serving fallback list", map[string]interface{}{
			"retrieved": initial,
		})
		return Fallback(req)
	}

	return Score(filtered, req)
}

// retrieve walks the retrieval tiers in order. Failures are logged and
// counted, never surfaced: an empty slice here means the static fallback.
func (r *Retriever) retrieve(ctx context.Context, query string) []Candidate {
	if r.embedder != nil && r.vectors != nil {
		vector, err := r.embedder.Embed(ctx, query)
		if err != nil {
			metrics.RetrievalFailures.WithLabelValues("embed").Inc()
			r.logger.Warn("embedding failed, trying keyword tier", map[string]interface{}{"error": err})
		} else {
			matches, err := r.vectors.Query(ctx, vector, r.topK)
			if err != nil {
				metrics.RetrievalFailures.WithLabelValues("vector").Inc()
				r.logger.Warn("vector search failed, trying keyword tier", map[string]interface{}{"error": err})
			} else {
				cands := make([]Candidate, 0, len(matches))
				for _, m := range matches {
					cands = append(cands, Candidate{Freezone: m.Metadata, Similarity: m.Score})
				}
				return cands
			}
		}
	}

	if r.keywords == nil {
		return nil
	}
	records, err := r.keywords.Search(ctx, query, r.topK)
	if err != nil {
		metrics.RetrievalFailures.WithLabelValues("keyword").Inc()
		r.logger.Warn("keyword search failed", map[string]interface{}{"error": err})
		return nil
	}
	cands := make([]Candidate, 0, len(records))
	for _, rec := range records {
		cands = append(cands, Candidate{Freezone: rec})
	}
	return cands
}
