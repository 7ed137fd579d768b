// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package reindex

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/poiesic/noema/ai"
	"github.com/poiesic/noema/core"
	"github.com/poiesic/noema/storage"
)

// Config holds configuration for the reindexing operation.
type Config struct {
	// BatchSize is the number of thoughts to process in each batch
	BatchSize int

	// ReportInterval is how often to report progress (number of thoughts)
	ReportInterval int

	// MaxRetries is the maximum number of retry attempts for failed operations
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Reindexer orchestrates rebuilding one user's vector index from their
// stored thoughts.
type Reindexer struct {
	thoughts  storage.ThoughtStore
	vectors   storage.VectorIndex
	embedder  ai.Embedder
	config    *Config
	progress  io.Writer
	processor *BatchProcessor
	iterator  *ThoughtIterator
}

// NewReindexer creates a new reindexer.
// progress: where to write progress output (typically os.Stderr)
func NewReindexer(thoughts storage.ThoughtStore, vectors storage.VectorIndex, embedder ai.Embedder, config *Config, progress io.Writer) *Reindexer {
	if config == nil {
		config = DefaultConfig()
	}

	processor := NewBatchProcessor(vectors, embedder, config.MaxRetries, config.RetryDelay)
	iterator := NewThoughtIterator(thoughts, config.BatchSize)

	return &Reindexer{
		thoughts:  thoughts,
		vectors:   vectors,
		embedder:  embedder,
		config:    config,
		progress:  progress,
		processor: processor,
		iterator:  iterator,
	}
}

// Run executes the reindexing operation for one user.
// All of the user's thoughts will be reembedded with the configured embedder
// and written back to the vector index. Progress is reported to the
// configured writer.
func (r *Reindexer) Run(ctx context.Context, userId string) error {
	total, err := r.thoughts.CountMatches(ctx, storage.KeywordQuery{UserId: userId})
	if err != nil {
		return fmt.Errorf("failed to count thoughts: %w", err)
	}

	if total == 0 {
		fmt.Fprintf(r.progress, "No thoughts found for user (0 thoughts)\n")
		return nil
	}

	fmt.Fprintf(r.progress, "Starting reindexing of %d thoughts (batch size: %d)\n",
		total, r.config.BatchSize)

	tracker := NewProgressTracker(r.progress, total, r.config.ReportInterval)
	tracker.Start()

	processed := 0
	err = r.iterator.ForEach(ctx, userId, func(thoughts []*core.Thought) error {
		if err := r.processor.Process(ctx, thoughts); err != nil {
			return fmt.Errorf("failed to process batch: %w", err)
		}

		processed += len(thoughts)
		tracker.Update(processed)
		return nil
	})

	if err != nil {
		return err
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Reindexing complete. Processed %d thoughts in %v (%.1f thoughts/sec)\n",
		processed, elapsed.Round(time.Second), float64(processed)/elapsed.Seconds())

	return nil
}
