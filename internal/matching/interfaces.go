// internal/matching/interfaces.go
package matching

import (
	"context"

	"freezone-advisor/internal/models"
)

// TextEmbedder converts query text into a vector. Implemented by the OpenAI
// embeddings client; tests use deterministic stand-ins.
type TextEmbedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// VectorMatch is one hit from the vector index: the stored catalog metadata
// plus the raw similarity score.
type VectorMatch struct {
	ID       string                `json:"id"`
	Score    float64               `json:"score"`
	Metadata models.FreezoneRecord `json:"metadata"`
}

// VectorSearch queries the catalog vector index. Implemented by the Pinecone
// client.
type VectorSearch interface {
	Query(ctx context.Context, vector []float32, topK int) ([]VectorMatch, error)
}

// KeywordSearch is the retrieval fallback tier: a plain-text lookup over the
// catalog index used when embedding or vector search is unavailable.
// Implemented by the Elasticsearch catalog index.
type KeywordSearch interface {
	Search(ctx context.Context, query string, limit int) ([]models.FreezoneRecord, error)
}

// Candidate is a catalog record under consideration for a lead, carrying the
// similarity score it arrived with.
type Candidate struct {
	Freezone   models.FreezoneRecord `json:"freezone"`
	Similarity float64               `json:"similarity"`
}
