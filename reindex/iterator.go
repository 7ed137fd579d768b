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

	"github.com/poiesic/noema/core"
	"github.com/poiesic/noema/storage"
)

const (
	// DefaultBatchSize is the default number of thoughts to fetch in each batch
	DefaultBatchSize = 100
)

// ThoughtIterator iterates over one user's thoughts in batches.
type ThoughtIterator struct {
	store     storage.ThoughtStore
	batchSize int
}

// NewThoughtIterator creates a new thought iterator.
// batchSize: number of thoughts to fetch in each batch (must be > 0)
func NewThoughtIterator(store storage.ThoughtStore, batchSize int) *ThoughtIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	return &ThoughtIterator{
		store:     store,
		batchSize: batchSize,
	}
}

// ForEach iterates over all of the user's thoughts, calling fn for each batch.
// Iteration stops on first error from fn or when all thoughts are processed.
// Context cancellation is checked between batches.
func (it *ThoughtIterator) ForEach(ctx context.Context, userId string, fn func([]*core.Thought) error) error {
	for offset := 0; ; offset += it.batchSize {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		batch, err := it.store.ListThoughts(ctx, userId, offset, it.batchSize)
		if err != nil {
			return err
		}
		if len(batch) == 0 {
			return nil
		}

		if err := fn(batch); err != nil {
			return err
		}

		// A short batch means we reached the end
		if len(batch) < it.batchSize {
			return nil
		}
	}
}
