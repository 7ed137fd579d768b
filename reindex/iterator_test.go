package reindex

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/noema/core"
	"github.com/poiesic/noema/storage/sqlite"
)

func seedThoughts(t *testing.T, store *sqlite.Store, userId string, n int) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		_, err := store.AddThought(ctx, &core.Thought{
			UserId:    userId,
			Content:   fmt.Sprintf("thought number %d", i),
			Timestamp: base.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}
}

func TestThoughtIterator_ForEach(t *testing.T) {
	store, err := sqlite.NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	seedThoughts(t, store, "alice", 25)

	it := NewThoughtIterator(store, 10)

	var batches []int
	total := 0
	err = it.ForEach(context.Background(), "alice", func(thoughts []*core.Thought) error {
		batches = append(batches, len(thoughts))
		total += len(thoughts)
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, []int{10, 10, 5}, batches)
	assert.Equal(t, 25, total)
}

func TestThoughtIterator_Empty(t *testing.T) {
	store, err := sqlite.NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	it := NewThoughtIterator(store, 10)
	called := false
	err = it.ForEach(context.Background(), "alice", func(_ []*core.Thought) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.False(t, called)
}

func TestThoughtIterator_StopsOnError(t *testing.T) {
	store, err := sqlite.NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	seedThoughts(t, store, "alice", 25)

	it := NewThoughtIterator(store, 10)
	wantErr := errors.New("stop")
	calls := 0
	err = it.ForEach(context.Background(), "alice", func(_ []*core.Thought) error {
		calls++
		return wantErr
	})
	assert.ErrorIs(t, err, wantErr)
	assert.Equal(t, 1, calls)
}

func TestThoughtIterator_ContextCancelled(t *testing.T) {
	store, err := sqlite.NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	seedThoughts(t, store, "alice", 25)

	ctx, cancel := context.WithCancel(context.Background())
	it := NewThoughtIterator(store, 10)
	calls := 0
	err = it.ForEach(ctx, "alice", func(_ []*core.Thought) error {
		calls++
		cancel()
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestThoughtIterator_DefaultBatchSize(t *testing.T) {
	store, err := sqlite.NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	it := NewThoughtIterator(store, 0)
	assert.Equal(t, DefaultBatchSize, it.batchSize)
}
