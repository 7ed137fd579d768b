package reindex

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/noema/storage"
	"github.com/poiesic/noema/storage/sqlite"
)

func TestReindexer_Run(t *testing.T) {
	store, err := sqlite.NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	index := newTestIndex(t)

	seedThoughts(t, store, "alice", 12)

	var out bytes.Buffer
	cfg := &Config{BatchSize: 5, ReportInterval: 5, MaxRetries: 2, RetryDelay: 0}
	r := NewReindexer(store, index, &mockEmbedder{}, cfg, &out)

	require.NoError(t, r.Run(context.Background(), "alice"))

	matches, err := index.FindSimilar(context.Background(), storage.VectorQuery{
		UserId:        "alice",
		Vector:        NormalizeVector([]float32{1.0, 2.0, 2.0}),
		MinSimilarity: 0,
		Limit:         100,
	})
	require.NoError(t, err)
	assert.Len(t, matches, 12)
	assert.Contains(t, out.String(), "Reindexing complete")
}

func TestReindexer_RunEmpty(t *testing.T) {
	store, err := sqlite.NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	index := newTestIndex(t)

	var out bytes.Buffer
	r := NewReindexer(store, index, &mockEmbedder{}, nil, &out)

	require.NoError(t, r.Run(context.Background(), "alice"))
	assert.Contains(t, out.String(), "No thoughts found")
}

func TestReindexer_UserScoped(t *testing.T) {
	store, err := sqlite.NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	index := newTestIndex(t)

	seedThoughts(t, store, "alice", 3)
	seedThoughts(t, store, "bob", 4)

	var out bytes.Buffer
	r := NewReindexer(store, index, &mockEmbedder{}, nil, &out)
	require.NoError(t, r.Run(context.Background(), "bob"))

	bobMatches, err := index.FindSimilar(context.Background(), storage.VectorQuery{
		UserId:        "bob",
		Vector:        NormalizeVector([]float32{1.0, 2.0, 2.0}),
		MinSimilarity: 0,
		Limit:         100,
	})
	require.NoError(t, err)
	assert.Len(t, bobMatches, 4)

	aliceMatches, err := index.FindSimilar(context.Background(), storage.VectorQuery{
		UserId:        "alice",
		Vector:        NormalizeVector([]float32{1.0, 2.0, 2.0}),
		MinSimilarity: 0,
		Limit:         100,
	})
	require.NoError(t, err)
	assert.Empty(t, aliceMatches, "only the requested user is reindexed")
}

func TestReindexer_PropagatesBatchError(t *testing.T) {
	store, err := sqlite.NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	index := newTestIndex(t)

	seedThoughts(t, store, "alice", 3)

	wantErr := errors.New("embedder down")
	embedder := &mockEmbedder{
		embedTextsFunc: func(_ context.Context, _ []string) ([][]float32, error) {
			return nil, wantErr
		},
	}

	var out bytes.Buffer
	cfg := &Config{BatchSize: 2, ReportInterval: 2, MaxRetries: 1, RetryDelay: 0}
	r := NewReindexer(store, index, embedder, cfg, &out)

	err = r.Run(context.Background(), "alice")
	assert.ErrorIs(t, err, wantErr)
}
