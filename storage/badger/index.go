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


package badger

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/noema/core"
	"github.com/poiesic/noema/storage"
)

// VectorIndex implements storage.VectorIndex on BadgerDB. Entries are
// scanned per user and ranked by dot product; embedding vectors are
// expected to be normalized so the dot product equals cosine similarity.
type VectorIndex struct {
	backend *Backend
	logger  *slog.Logger
}

var _ storage.VectorIndex = (*VectorIndex)(nil)

// NewVectorIndex creates a vector index on the given backend.
func NewVectorIndex(backend *Backend) (*VectorIndex, error) {
	if backend == nil {
		return nil, fmt.Errorf("backend is required")
	}
	return &VectorIndex{
		backend: backend,
		logger:  slog.Default().With("component", "vector_index"),
	}, nil
}

// Put stores or replaces the entry for entry.ThoughtId.
func (idx *VectorIndex) Put(ctx context.Context, entry *core.VectorEntry) error {
	if idx.backend.IsClosed() {
		return storage.ErrStorageClosed
	}
	if entry == nil || entry.ThoughtId == 0 {
		return fmt.Errorf("%w: entry with thought id is required", storage.ErrInvalidQuery)
	}
	if entry.UserId == "" {
		return fmt.Errorf("%w: user id is required", storage.ErrInvalidQuery)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data := storage.MarshalVectorEntry(entry)
	return idx.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeVectorKey(entry.UserId, entry.ThoughtId), data); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Delete removes the entry for a thought. Missing entries are not an error.
func (idx *VectorIndex) Delete(ctx context.Context, userId string, id core.ID) error {
	if idx.backend.IsClosed() {
		return storage.ErrStorageClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return idx.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Delete(makeVectorKey(userId, id)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// FindSimilar scans the user's entries and returns those with similarity
// >= q.MinSimilarity, highest first, up to q.Limit.
func (idx *VectorIndex) FindSimilar(ctx context.Context, q storage.VectorQuery) ([]storage.VectorMatch, error) {
	if idx.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}
	if q.UserId == "" {
		return nil, fmt.Errorf("%w: user id is required", storage.ErrInvalidQuery)
	}
	if len(q.Vector) == 0 {
		return nil, fmt.Errorf("%w: query vector is required", storage.ErrInvalidQuery)
	}
	if q.Limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", storage.ErrInvalidQuery)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var matches []storage.VectorMatch
	err := idx.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeUserPrefix(q.UserId)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var entry *core.VectorEntry
			err := iter.Item().Value(func(val []byte) error {
				var err error
				entry, err = storage.UnmarshalVectorEntry(val)
				return err
			})
			if err != nil {
				return fmt.Errorf("%w: %v", storage.ErrSerializationFailed, err)
			}
			if entry == nil || len(entry.Vector) == 0 {
				continue
			}
			if len(q.EntityTypes) > 0 && !hasAnyType(entry.Types, q.EntityTypes) {
				continue
			}

			similarity := dotProduct(q.Vector, entry.Vector)
			if similarity >= q.MinSimilarity {
				matches = append(matches, storage.VectorMatch{
					ThoughtId: entry.ThoughtId,
					Score:     similarity,
					Timestamp: entry.Timestamp,
				})
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	// Sort by similarity descending, id ascending for ties
	slices.SortFunc(matches, func(a, b storage.VectorMatch) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		if a.ThoughtId < b.ThoughtId {
			return -1
		}
		if a.ThoughtId > b.ThoughtId {
			return 1
		}
		return 0
	})

	if len(matches) > q.Limit {
		matches = matches[:q.Limit]
	}
	return matches, nil
}

// Close closes the underlying backend.
func (idx *VectorIndex) Close() error {
	return idx.backend.Close()
}

// hasAnyType reports whether entry types intersect the wanted set.
func hasAnyType(have []core.EntityType, want []core.EntityType) bool {
	for _, w := range want {
		if slices.Contains(have, w) {
			return true
		}
	}
	return false
}

// dotProduct calculates the dot product of two vectors.
func dotProduct(a, b []float32) float32 {
	var sum float32
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}
	for i := 0; i < minLen; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
