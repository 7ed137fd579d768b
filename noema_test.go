package noema

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/noema/ai/mock"
	"github.com/poiesic/noema/core"
	"github.com/poiesic/noema/storage"
)

func openTestEngine(t *testing.T) *Engine {
	t.Helper()
	engine, err := Open(t.TempDir(), WithAIProvider(mock.NewMockProvider()))
	require.NoError(t, err)
	t.Cleanup(func() { engine.Close() })
	return engine
}

func TestOpen(t *testing.T) {
	engine := openTestEngine(t)
	assert.NotNil(t, engine.ThoughtStore())
	assert.NotNil(t, engine.VectorIndex())
}

func TestEngine_FactoryMethods(t *testing.T) {
	engine := openTestEngine(t)

	searcher, err := engine.NewSearcher()
	require.NoError(t, err)
	assert.NotNil(t, searcher)

	pipeline, err := engine.NewIngestionPipeline()
	require.NoError(t, err)
	assert.NotNil(t, pipeline)
	pipeline.Release()

	reindexer := engine.NewReindexer(nil, io.Discard)
	assert.NotNil(t, reindexer)
}

func TestEngine_IngestAndSearch(t *testing.T) {
	engine := openTestEngine(t)
	ctx := context.Background()

	pipeline, err := engine.NewIngestionPipeline()
	require.NoError(t, err)
	defer pipeline.Release()

	thought, err := pipeline.IngestThought(ctx, "alice", "Had coffee with Sarah at the park", nil)
	require.NoError(t, err)
	require.NotZero(t, thought.Id)

	// Wait for async enrichment to land
	time.Sleep(200 * time.Millisecond)

	searcher, err := engine.NewSearcher()
	require.NoError(t, err)

	resp, err := searcher.Search(ctx, "alice", "coffee", 10, 0)
	require.NoError(t, err)
	require.NotEmpty(t, resp.Results)
	assert.Equal(t, thought.Id, resp.Results[0].ThoughtId)
}

func TestEngine_DeleteThought(t *testing.T) {
	engine := openTestEngine(t)
	ctx := context.Background()

	added, err := engine.ThoughtStore().AddThought(ctx, &core.Thought{
		UserId:    "alice",
		Content:   "to be removed",
		Timestamp: time.Now().UTC(),
	})
	require.NoError(t, err)

	require.NoError(t, engine.VectorIndex().Put(ctx, &core.VectorEntry{
		ThoughtId: added.Id,
		UserId:    "alice",
		Timestamp: added.Timestamp,
		Vector:    []float32{1, 0, 0},
	}))

	require.NoError(t, engine.DeleteThought(ctx, "alice", added.Id))

	_, err = engine.ThoughtStore().GetThought(ctx, "alice", added.Id)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	matches, err := engine.VectorIndex().FindSimilar(ctx, storage.VectorQuery{
		UserId: "alice",
		Vector: []float32{1, 0, 0},
		Limit:  10,
	})
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestEngine_Close(t *testing.T) {
	engine, err := Open(t.TempDir(), WithAIProvider(mock.NewMockProvider()))
	require.NoError(t, err)
	assert.NoError(t, engine.Close())
}
