package reindex

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/poiesic/noema/ai"
	"github.com/poiesic/noema/core"
	"github.com/poiesic/noema/storage"
)

// BatchProcessor handles embedding generation for batches of thoughts.
type BatchProcessor struct {
	vectors        storage.VectorIndex
	embedder       ai.Embedder
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewBatchProcessor creates a new batch processor.
// maxRetries: maximum number of retry attempts for embedding API calls
// retryBaseDelay: base delay for exponential backoff
func NewBatchProcessor(vectors storage.VectorIndex, embedder ai.Embedder, maxRetries int, retryBaseDelay time.Duration) *BatchProcessor {
	return &BatchProcessor{
		vectors:        vectors,
		embedder:       embedder,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
	}
}

// Process generates embeddings for a batch of thoughts and writes the
// resulting entries to the vector index. Vectors are normalized after
// embedding to ensure compatibility with cosine similarity.
func (bp *BatchProcessor) Process(ctx context.Context, thoughts []*core.Thought) error {
	if len(thoughts) == 0 {
		return nil
	}

	texts := make([]string, len(thoughts))
	for i, thought := range thoughts {
		texts[i] = thought.Content
	}

	// Generate embeddings with retry
	var embeddings [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		embeddings, err = bp.embedder.EmbedTexts(ctx, texts)
		return err
	}, bp.maxRetries, bp.retryBaseDelay)

	if err != nil {
		return fmt.Errorf("failed to generate embeddings after %d attempts: %w", bp.maxRetries, err)
	}

	if len(embeddings) != len(thoughts) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(thoughts), len(embeddings))
	}

	for i, thought := range thoughts {
		entry := &core.VectorEntry{
			ThoughtId: thought.Id,
			UserId:    thought.UserId,
			Types:     typesOf(thought.Entities),
			Timestamp: thought.Timestamp,
			Vector:    NormalizeVector(embeddings[i]),
		}
		if err := bp.vectors.Put(ctx, entry); err != nil {
			return fmt.Errorf("failed to index thought %d: %w", thought.Id, err)
		}
	}

	return nil
}

// typesOf returns the distinct entity types present, in first-seen order.
func typesOf(entities []core.Entity) []core.EntityType {
	var types []core.EntityType
	for _, e := range entities {
		if !slices.Contains(types, e.Type) {
			types = append(types, e.Type)
		}
	}
	return types
}
