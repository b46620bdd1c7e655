// Package pinecone wraps the Pinecone vector index REST API.
package pinecone

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"freezone-advisor/internal/matching"
	"freezone-advisor/internal/models"
)

type Client struct {
	apiKey     string
	indexHost  string
	namespace  string
	httpClient *http.Client
}

func NewClient(indexHost, apiKey, namespace string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		apiKey:    apiKey,
		indexHost: indexHost,
		namespace: namespace,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type queryRequest struct {
	Vector          []float32 `json:"vector"`
	TopK            int       `json:"topK"`
	Namespace       string    `json:"namespace,omitempty"`
	IncludeMetadata bool      `json:"includeMetadata"`
}

type queryResponse struct {
	Matches []struct {
		ID       string          `json:"id"`
		Score    float64         `json:"score"`
		Metadata json.RawMessage `json:"metadata"`
	} `json:"matches"`
}

// Query runs a similarity search against the index.
// Implements the matching.VectorSearch interface.
func (c *Client) Query(ctx context.Context, vector []float32, topK int) ([]matching.VectorMatch, error) {
	reqBody := queryRequest{
		Vector:          vector,
		TopK:            topK,
		Namespace:       c.namespace,
		IncludeMetadata: true,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query: %w", err)
	}

	respBody, err := c.post(ctx, c.indexHost+"/query", body)
	if err != nil {
		return nil, err
	}

	var queryResp queryResponse
	if err := json.Unmarshal(respBody, &queryResp); err != nil {
		return nil, fmt.Errorf("failed to decode query response: %w", err)
	}

	matches := make([]matching.VectorMatch, 0, len(queryResp.Matches))
	for _, m := range queryResp.Matches {
		var record models.FreezoneRecord
		if len(m.Metadata) > 0 {
			if err := json.Unmarshal(m.Metadata, &record); err != nil {
				// Skip entries with unreadable metadata rather than failing the query
				continue
			}
		}
		if record.ID == "" {
			record.ID = m.ID
		}
		matches = append(matches, matching.VectorMatch{
			ID:       m.ID,
			Score:    m.Score,
			Metadata: record,
		})
	}

	return matches, nil
}

// Vector is one upsert entry; metadata carries the full catalog record.
type Vector struct {
	ID       string                `json:"id"`
	Values   []float32             `json:"values"`
	Metadata models.FreezoneRecord `json:"metadata"`
}

type upsertRequest struct {
	Vectors   []Vector `json:"vectors"`
	Namespace string   `json:"namespace,omitempty"`
}

type upsertResponse struct {
	UpsertedCount int `json:"upsertedCount"`
}

// Upsert writes catalog vectors to the index, used by the catalog loader.
func (c *Client) Upsert(ctx context.Context, vectors []Vector) (int, error) {
	if len(vectors) == 0 {
		return 0, nil
	}

	body, err := json.Marshal(upsertRequest{Vectors: vectors, Namespace: c.namespace})
	if err != nil {
		return 0, fmt.Errorf("failed to marshal upsert: %w", err)
	}

	respBody, err := c.post(ctx, c.indexHost+"/vectors/upsert", body)
	if err != nil {
		return 0, err
	}

	var upsertResp upsertResponse
	if err := json.Unmarshal(respBody, &upsertResp); err != nil {
		return 0, fmt.Errorf("failed to decode upsert response: %w", err)
	}

	return upsertResp.UpsertedCount, nil
}

func (c *Client) post(ctx context.Context, url string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Api-Key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pinecone error (status %d): %s", resp.StatusCode, string(respBody))
	}

	return respBody, nil
}
