package reindex

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/noema/core"
	"github.com/poiesic/noema/storage"
	"github.com/poiesic/noema/storage/badger"
)

// mockEmbedder for testing
type mockEmbedder struct {
	embedTextsFunc func(ctx context.Context, texts []string) ([][]float32, error)
}

func (m *mockEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	return []float32{0.1, 0.2, 0.3}, nil
}

func (m *mockEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if m.embedTextsFunc != nil {
		return m.embedTextsFunc(ctx, texts)
	}
	result := make([][]float32, len(texts))
	for i := range texts {
		result[i] = []float32{1.0, 2.0, 2.0} // magnitude = 3.0
	}
	return result, nil
}

func newTestIndex(t *testing.T) *badger.VectorIndex {
	t.Helper()
	index, err := badger.NewMemoryIndex()
	require.NoError(t, err)
	t.Cleanup(func() { index.Close() })
	return index
}

func testThought(id core.ID, content string) *core.Thought {
	return &core.Thought{
		Id:        id,
		UserId:    "alice",
		Content:   content,
		Timestamp: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		Entities: []core.Entity{
			{Type: core.EntityPerson, Value: "sarah", Confidence: 0.9},
		},
	}
}

func TestBatchProcessor_Process(t *testing.T) {
	index := newTestIndex(t)
	ctx := context.Background()

	processor := NewBatchProcessor(index, &mockEmbedder{}, 3, 10*time.Millisecond)
	err := processor.Process(ctx, []*core.Thought{
		testThought(1, "first thought"),
		testThought(2, "second thought"),
	})
	require.NoError(t, err)

	// Entries were indexed with normalized vectors; a unit query vector in
	// the same direction scores 1.0.
	matches, err := index.FindSimilar(ctx, storage.VectorQuery{
		UserId:        "alice",
		Vector:        NormalizeVector([]float32{1.0, 2.0, 2.0}),
		MinSimilarity: 0,
		Limit:         10,
	})
	require.NoError(t, err)
	require.Len(t, matches, 2)
	for _, m := range matches {
		assert.InDelta(t, 1.0, float64(m.Score), 0.01)
	}
}

func TestBatchProcessor_EntityTypesCarried(t *testing.T) {
	index := newTestIndex(t)
	ctx := context.Background()

	processor := NewBatchProcessor(index, &mockEmbedder{}, 3, 10*time.Millisecond)
	require.NoError(t, processor.Process(ctx, []*core.Thought{testThought(1, "with sarah")}))

	typed, err := index.FindSimilar(ctx, storage.VectorQuery{
		UserId:        "alice",
		Vector:        NormalizeVector([]float32{1.0, 2.0, 2.0}),
		EntityTypes:   []core.EntityType{core.EntityPerson},
		MinSimilarity: 0,
		Limit:         10,
	})
	require.NoError(t, err)
	assert.Len(t, typed, 1)

	location, err := index.FindSimilar(ctx, storage.VectorQuery{
		UserId:        "alice",
		Vector:        NormalizeVector([]float32{1.0, 2.0, 2.0}),
		EntityTypes:   []core.EntityType{core.EntityLocation},
		MinSimilarity: 0,
		Limit:         10,
	})
	require.NoError(t, err)
	assert.Empty(t, location)
}

func TestBatchProcessor_EmptyBatch(t *testing.T) {
	index := newTestIndex(t)
	processor := NewBatchProcessor(index, &mockEmbedder{}, 3, 10*time.Millisecond)
	assert.NoError(t, processor.Process(context.Background(), nil))
}

func TestBatchProcessor_EmbeddingError(t *testing.T) {
	index := newTestIndex(t)

	wantErr := errors.New("embedding error")
	embedder := &mockEmbedder{
		embedTextsFunc: func(_ context.Context, _ []string) ([][]float32, error) {
			return nil, wantErr
		},
	}
	processor := NewBatchProcessor(index, embedder, 3, 10*time.Millisecond)

	err := processor.Process(context.Background(), []*core.Thought{testThought(1, "x")})
	require.Error(t, err)
	assert.ErrorIs(t, err, wantErr)
}

func TestBatchProcessor_Retry(t *testing.T) {
	index := newTestIndex(t)

	attempts := 0
	embedder := &mockEmbedder{
		embedTextsFunc: func(_ context.Context, texts []string) ([][]float32, error) {
			attempts++
			if attempts < 2 {
				return nil, errors.New("temporary error")
			}
			result := make([][]float32, len(texts))
			for i := range texts {
				result[i] = []float32{1.0, 0.0, 0.0}
			}
			return result, nil
		},
	}
	processor := NewBatchProcessor(index, embedder, 3, 10*time.Millisecond)

	err := processor.Process(context.Background(), []*core.Thought{testThought(1, "x")})
	require.NoError(t, err)
	assert.Equal(t, 2, attempts, "should retry on failure")
}

func TestBatchProcessor_CountMismatch(t *testing.T) {
	index := newTestIndex(t)

	embedder := &mockEmbedder{
		embedTextsFunc: func(_ context.Context, _ []string) ([][]float32, error) {
			return [][]float32{{1, 0, 0}}, nil
		},
	}
	processor := NewBatchProcessor(index, embedder, 1, time.Millisecond)

	err := processor.Process(context.Background(), []*core.Thought{
		testThought(1, "x"), testThought(2, "y"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mismatch")
}

func TestNormalizeVector(t *testing.T) {
	normalized := NormalizeVector([]float32{3.0, 4.0})
	require.Len(t, normalized, 2)
	assert.InDelta(t, 0.6, normalized[0], 0.001)
	assert.InDelta(t, 0.8, normalized[1], 0.001)

	zero := NormalizeVector([]float32{0, 0, 0})
	assert.Equal(t, []float32{0, 0, 0}, zero)

	assert.Empty(t, NormalizeVector(nil))
}
