package leads

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"freezone-advisor/internal/models"
)

// ProposalCache keeps assembled proposals in Redis so the enhancement and
// email workers can pick them up without refetching from the pipeline.
type ProposalCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewProposalCache(client *redis.Client, ttl time.Duration) *ProposalCache {
	if ttl == 0 {
		ttl = time.Hour
	}
	return &ProposalCache{client: client, ttl: ttl}
}

func proposalKey(leadID string) string {
	return "proposal:" + leadID
}

// Put stores the proposal for a lead.
func (c *ProposalCache) Put(ctx context.Context, leadID string, doc *models.ProposalDocument) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal proposal: %w", err)
	}
	if err := c.client.Set(ctx, proposalKey(leadID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache proposal: %w", err)
	}
	return nil
}

// Get fetches the cached proposal, or nil when the entry has expired.
func (c *ProposalCache) Get(ctx context.Context, leadID string) (*models.ProposalDocument, error) {
	data, err := c.client.Get(ctx, proposalKey(leadID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch cached proposal: %w", err)
	}

	var doc models.ProposalDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal cached proposal: %w", err)
	}
	return &doc, nil
}
