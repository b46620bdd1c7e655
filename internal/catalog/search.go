package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"freezone-advisor/internal/models"
)

// SearchIndex is the keyword retrieval tier over the catalog, backed by
// Elasticsearch. It implements matching.KeywordSearch.
type SearchIndex struct {
	client *elasticsearch.Client
	index  string
}

func NewSearchIndex(client *elasticsearch.Client, index string) *SearchIndex {
	return &SearchIndex{client: client, index: index}
}

// Search runs a multi_match query over the indexed catalog text fields.
func (s *SearchIndex) Search(ctx context.Context, query string, limit int) ([]models.FreezoneRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	queryBody := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"freezoneName^3", "packageName^2", "location^2", "supportedActivities", "keyBenefits"},
				"type":   "best_fields",
			},
		},
	}

	body, _ := json.Marshal(queryBody)

	req := esapi.SearchRequest{
		Index: []string{s.index},
		Body:  strings.NewReader(string(body)),
		Size:  &limit,
	}

	res, err := req.Do(ctx, s.client)
	if err != nil {
		return nil, fmt.Errorf("catalog search: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("catalog search error: %s", res.Status())
	}

	var searchResp struct {
		Hits struct {
			Hits []struct {
				ID     string                `json:"_id"`
				Source models.FreezoneRecord `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}

	if err := json.NewDecoder(res.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("decode catalog search response: %w", err)
	}

	records := make([]models.FreezoneRecord, 0, len(searchResp.Hits.Hits))
	for _, hit := range searchResp.Hits.Hits {
		rec := hit.Source
		if rec.ID == "" {
			rec.ID = hit.ID
		}
		records = append(records, rec)
	}

	return records, nil
}

// IndexRecords writes catalog records into the search index, one document per
// package. The loader calls this after replacing the Postgres catalog.
func (s *SearchIndex) IndexRecords(ctx context.Context, records []models.FreezoneRecord) error {
	for _, rec := range records {
		doc, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshal catalog document %q: %w", rec.ID, err)
		}

		req := esapi.IndexRequest{
			Index:      s.index,
			DocumentID: rec.ID,
			Body:       bytes.NewReader(doc),
			Refresh:    "false",
		}

		res, err := req.Do(ctx, s.client)
		if err != nil {
			return fmt.Errorf("index catalog document %q: %w", rec.ID, err)
		}
		res.Body.Close()

		if res.IsError() {
			return fmt.Errorf("index catalog document %q: %s", rec.ID, res.Status())
		}
	}

	return nil
}
