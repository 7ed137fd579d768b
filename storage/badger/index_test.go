package badger

import (
	"context"
	"testing"
	"time"

	"github.com/poiesic/noema/core"
	"github.com/poiesic/noema/storage"
)

func TestVectorIndexPutAndFind(t *testing.T) {
	idx, err := NewMemoryIndex()
	if err != nil {
		t.Fatalf("Failed to create index: %v", err)
	}
	defer idx.Close()

	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	entries := []*core.VectorEntry{
		{ThoughtId: 1, UserId: "alice", Timestamp: now, Vector: []float32{1, 0, 0}},
		{ThoughtId: 2, UserId: "alice", Timestamp: now, Vector: []float32{0.9, 0.1, 0}},
		{ThoughtId: 3, UserId: "alice", Timestamp: now, Vector: []float32{0, 1, 0}},
	}
	for _, e := range entries {
		if err := idx.Put(ctx, e); err != nil {
			t.Fatalf("Failed to put entry: %v", err)
		}
	}

	matches, err := idx.FindSimilar(ctx, storage.VectorQuery{
		UserId:        "alice",
		Vector:        []float32{1, 0, 0},
		MinSimilarity: 0.5,
		Limit:         10,
	})
	if err != nil {
		t.Fatalf("FindSimilar failed: %v", err)
	}

	if len(matches) != 2 {
		t.Fatalf("Expected 2 matches, got %d", len(matches))
	}
	if matches[0].ThoughtId != 1 {
		t.Fatalf("Expected best match to be thought 1, got %d", matches[0].ThoughtId)
	}
	if matches[0].Score < matches[1].Score {
		t.Fatal("Expected matches sorted by score descending")
	}
}

func TestVectorIndexUserIsolation(t *testing.T) {
	idx, err := NewMemoryIndex()
	if err != nil {
		t.Fatalf("Failed to create index: %v", err)
	}
	defer idx.Close()

	ctx := context.Background()
	now := time.Now().UTC()

	if err := idx.Put(ctx, &core.VectorEntry{
		ThoughtId: 1, UserId: "alice", Timestamp: now, Vector: []float32{1, 0},
	}); err != nil {
		t.Fatalf("Failed to put entry: %v", err)
	}
	if err := idx.Put(ctx, &core.VectorEntry{
		ThoughtId: 2, UserId: "bob", Timestamp: now, Vector: []float32{1, 0},
	}); err != nil {
		t.Fatalf("Failed to put entry: %v", err)
	}

	matches, err := idx.FindSimilar(ctx, storage.VectorQuery{
		UserId: "bob", Vector: []float32{1, 0}, MinSimilarity: 0, Limit: 10,
	})
	if err != nil {
		t.Fatalf("FindSimilar failed: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("Expected 1 match for bob, got %d", len(matches))
	}
	if matches[0].ThoughtId != 2 {
		t.Fatalf("Expected bob's thought 2, got %d", matches[0].ThoughtId)
	}
}

func TestVectorIndexTypeFilter(t *testing.T) {
	idx, err := NewMemoryIndex()
	if err != nil {
		t.Fatalf("Failed to create index: %v", err)
	}
	defer idx.Close()

	ctx := context.Background()
	now := time.Now().UTC()

	entries := []*core.VectorEntry{
		{ThoughtId: 1, UserId: "alice", Types: []core.EntityType{core.EntityPerson}, Timestamp: now, Vector: []float32{1, 0}},
		{ThoughtId: 2, UserId: "alice", Types: []core.EntityType{core.EntityLocation}, Timestamp: now, Vector: []float32{1, 0}},
		{ThoughtId: 3, UserId: "alice", Timestamp: now, Vector: []float32{1, 0}},
	}
	for _, e := range entries {
		if err := idx.Put(ctx, e); err != nil {
			t.Fatalf("Failed to put entry: %v", err)
		}
	}

	matches, err := idx.FindSimilar(ctx, storage.VectorQuery{
		UserId:        "alice",
		Vector:        []float32{1, 0},
		EntityTypes:   []core.EntityType{core.EntityPerson},
		MinSimilarity: 0,
		Limit:         10,
	})
	if err != nil {
		t.Fatalf("FindSimilar failed: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("Expected 1 match, got %d", len(matches))
	}
	if matches[0].ThoughtId != 1 {
		t.Fatalf("Expected thought 1, got %d", matches[0].ThoughtId)
	}
}

func TestVectorIndexDelete(t *testing.T) {
	idx, err := NewMemoryIndex()
	if err != nil {
		t.Fatalf("Failed to create index: %v", err)
	}
	defer idx.Close()

	ctx := context.Background()

	entry := &core.VectorEntry{
		ThoughtId: 7, UserId: "alice", Timestamp: time.Now().UTC(), Vector: []float32{1, 0},
	}
	if err := idx.Put(ctx, entry); err != nil {
		t.Fatalf("Failed to put entry: %v", err)
	}
	if err := idx.Delete(ctx, "alice", 7); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	matches, err := idx.FindSimilar(ctx, storage.VectorQuery{
		UserId: "alice", Vector: []float32{1, 0}, MinSimilarity: 0, Limit: 10,
	})
	if err != nil {
		t.Fatalf("FindSimilar failed: %v", err)
	}
	if len(matches) != 0 {
		t.Fatalf("Expected no matches after delete, got %d", len(matches))
	}

	// Deleting a missing entry is not an error
	if err := idx.Delete(ctx, "alice", 99); err != nil {
		t.Fatalf("Delete of missing entry failed: %v", err)
	}
}

func TestVectorIndexCancelledContext(t *testing.T) {
	idx, err := NewMemoryIndex()
	if err != nil {
		t.Fatalf("Failed to create index: %v", err)
	}
	defer idx.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = idx.FindSimilar(ctx, storage.VectorQuery{
		UserId: "alice", Vector: []float32{1, 0}, MinSimilarity: 0, Limit: 10,
	})
	if err == nil {
		t.Fatal("Expected error from cancelled context")
	}
}
