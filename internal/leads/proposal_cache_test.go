package leads

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freezone-advisor/internal/models"
)

func sampleProposal() *models.ProposalDocument {
	return &models.ProposalDocument{
		Introduction: "Based on your requirements we recommend IFZA.",
		Recommendation: models.Recommendation{
			FreezoneName: "IFZA",
			MatchScore:   92.5,
		},
	}
}

func TestProposalCache_PutGet(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := NewProposalCache(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Hour)
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, "lead-1", sampleProposal()))

	doc, err := cache.Get(ctx, "lead-1")
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, "IFZA", doc.Recommendation.FreezoneName)
}

func TestProposalCache_GetMissReturnsNil(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := NewProposalCache(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Hour)

	doc, err := cache.Get(context.Background(), "lead-unknown")
	require.NoError(t, err)
	assert.Nil(t, doc)
}

func TestProposalCache_GetExpired(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := NewProposalCache(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Minute)
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, "lead-1", sampleProposal()))
	mr.FastForward(2 * time.Minute)

	doc, err := cache.Get(ctx, "lead-1")
	require.NoError(t, err)
	assert.Nil(t, doc)
}

func TestProposalCache_PutConnectionError(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := NewProposalCache(client, time.Hour)

	doc := sampleProposal()
	data, err := json.Marshal(doc)
	require.NoError(t, err)

	mock.ExpectSet("proposal:lead-1", data, time.Hour).
		SetErr(errors.New("connection refused"))

	err = cache.Put(context.Background(), "lead-1", doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cache proposal")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProposalCache_GetConnectionError(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := NewProposalCache(client, time.Hour)

	mock.ExpectGet("proposal:lead-1").SetErr(errors.New("connection refused"))

	doc, err := cache.Get(context.Background(), "lead-1")
	require.Error(t, err)
	assert.Nil(t, doc)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProposalCache_GetCorruptPayload(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := NewProposalCache(client, time.Hour)

	mock.ExpectGet("proposal:lead-1").SetVal("{not json")

	doc, err := cache.Get(context.Background(), "lead-1")
	require.Error(t, err)
	assert.Nil(t, doc)
	assert.Contains(t, err.Error(), "unmarshal cached proposal")
}
