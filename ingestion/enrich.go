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


package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/poiesic/noema/ai"
	"github.com/poiesic/noema/core"
	"github.com/poiesic/noema/storage"
)

// enrichProcessor extracts entities from thoughts and indexes their
// embeddings. Extraction runs first so the vector entry can carry the
// entity types present on the thought.
type enrichProcessor struct {
	thoughts  storage.ThoughtStore
	vectors   storage.VectorIndex
	embedder  ai.Embedder
	extractor ai.EntityExtractor
	lastId    core.ID
	logger    *slog.Logger
}

var _ processor = (*enrichProcessor)(nil)

// newEnrichProcessor creates a new enrichment processor.
func newEnrichProcessor(
	thoughts storage.ThoughtStore,
	vectors storage.VectorIndex,
	embedder ai.Embedder,
	extractor ai.EntityExtractor,
	logger *slog.Logger,
) (processor, error) {
	if thoughts == nil {
		return nil, fmt.Errorf("thought store required")
	}
	if vectors == nil {
		return nil, fmt.Errorf("vector index required")
	}
	if embedder == nil {
		return nil, fmt.Errorf("embedder required")
	}
	if extractor == nil {
		return nil, fmt.Errorf("entity extractor required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &enrichProcessor{
		thoughts:  thoughts,
		vectors:   vectors,
		embedder:  embedder,
		extractor: extractor,
		logger:    logger.With("processor", "enrichment"),
	}, nil
}

// process extracts entities, embeds content and indexes the vectors for the
// specified thoughts. Per-thought failures are joined and reported at the
// end; a failed extraction does not block indexing of that thought.
func (ep *enrichProcessor) process(ctx context.Context, userId string, ids ...core.ID) error {
	ep.logger.Info("enriching thoughts", "user_id", userId, "thoughts", len(ids))

	// Sort first so checkpointing works correctly
	slices.Sort(ids)

	thoughts, err := ep.thoughts.GetThoughts(ctx, userId, ids...)
	if err != nil {
		ep.logger.Error("error retrieving thoughts", "err", err)
		return err
	}
	if len(thoughts) == 0 {
		return nil
	}

	var errs []error
	for _, thought := range thoughts {
		entities, err := ep.extractEntities(ctx, thought)
		if err != nil {
			ep.logger.Error("error extracting entities", "thought_id", thought.Id, "err", err)
			errs = append(errs, fmt.Errorf("thought %d: %w", thought.Id, err))
			continue
		}
		if len(entities) == 0 {
			continue
		}

		thought.Entities = entities
		if _, err := ep.thoughts.UpdateThought(ctx, thought); err != nil {
			ep.logger.Error("error saving entities", "thought_id", thought.Id, "err", err)
			errs = append(errs, fmt.Errorf("thought %d: %w", thought.Id, err))
		}
	}

	texts := make([]string, len(thoughts))
	for i, thought := range thoughts {
		texts[i] = thought.Content
	}

	ep.logger.Debug("generating embeddings for thoughts", "thoughts", len(texts))
	embeddings, err := ep.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		ep.logger.Error("error generating embeddings", "err", err)
		return errors.Join(append(errs, err)...)
	}
	if len(embeddings) != len(thoughts) {
		errs = append(errs, fmt.Errorf("embedding result mismatch. expected %d, received %d", len(thoughts), len(embeddings)))
		return errors.Join(errs...)
	}

	for i, thought := range thoughts {
		entry := &core.VectorEntry{
			ThoughtId: thought.Id,
			UserId:    thought.UserId,
			Types:     entityTypesOf(thought.Entities),
			Timestamp: thought.Timestamp,
			Vector:    embeddings[i],
		}
		if err := ep.vectors.Put(ctx, entry); err != nil {
			ep.logger.Error("error indexing vector", "thought_id", thought.Id, "err", err)
			errs = append(errs, fmt.Errorf("thought %d: %w", thought.Id, err))
			continue
		}
		if thought.Id > ep.lastId {
			ep.lastId = thought.Id
		}
	}

	return errors.Join(errs...)
}

// checkpoint saves the processor's current state.
// Currently unimplemented - reserved for future checkpointing support.
func (ep *enrichProcessor) checkpoint() error {
	return nil
}

// extractEntities runs the extractor and converts its output to domain
// entities, dropping values with unknown types and locating each value's
// character span in the content.
func (ep *enrichProcessor) extractEntities(ctx context.Context, thought *core.Thought) ([]core.Entity, error) {
	extracted, err := ep.extractor.ExtractEntities(ctx, thought.Content)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	entities := make([]core.Entity, 0, len(extracted))
	for _, e := range extracted {
		et, err := core.ParseEntityType(e.Type)
		if err != nil {
			ep.logger.Debug("skipping entity with unknown type", "type", e.Type, "value", e.Value)
			continue
		}
		start, end := locateValue(thought.Content, e.Value)
		entities = append(entities, core.Entity{
			ThoughtId:   thought.Id,
			Type:        et,
			Value:       e.Value,
			Confidence:  e.Confidence,
			StartPos:    start,
			EndPos:      end,
			ExtractedAt: now,
		})
	}
	return entities, nil
}

// entityTypesOf returns the distinct entity types present, in first-seen order.
func entityTypesOf(entities []core.Entity) []core.EntityType {
	var types []core.EntityType
	for _, e := range entities {
		if !slices.Contains(types, e.Type) {
			types = append(types, e.Type)
		}
	}
	return types
}

// locateValue finds the first case-insensitive occurrence of value in
// content and returns its rune offsets, or (-1, -1) when the extractor
// paraphrased the value.
func locateValue(content, value string) (int, int) {
	if value == "" {
		return -1, -1
	}
	idx := strings.Index(strings.ToLower(content), strings.ToLower(value))
	if idx < 0 {
		return -1, -1
	}
	start := len([]rune(content[:idx]))
	return start, start + len([]rune(value))
}
