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


// Package noema is a hybrid search engine for personal thoughts. It combines
// semantic similarity over embeddings with keyword, entity, date, tag and
// mood matching, and degrades to keyword-only search when the embedding
// service is unavailable.
package noema

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/poiesic/noema/ai"
	"github.com/poiesic/noema/ai/openai"
	"github.com/poiesic/noema/core"
	"github.com/poiesic/noema/ingestion"
	"github.com/poiesic/noema/reindex"
	"github.com/poiesic/noema/search"
	"github.com/poiesic/noema/storage"
	"github.com/poiesic/noema/storage/badger"
	"github.com/poiesic/noema/storage/sqlite"
)

// Engine owns the two stores and the AI provider, and hands out the
// searcher, ingestion pipeline and reindexer built on them.
type Engine struct {
	store    *sqlite.Store
	backend  *badger.Backend
	index    *badger.VectorIndex
	provider ai.AIProvider
	logger   *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	aiConfig *ai.Config
	provider ai.AIProvider
}

// WithAIConfig sets the AI service configuration.
func WithAIConfig(cfg *ai.Config) EngineOption {
	return func(o *engineOptions) {
		o.aiConfig = cfg
	}
}

// WithAIProvider injects a pre-built provider instead of constructing the
// OpenAI-compatible one. Intended for tests.
func WithAIProvider(provider ai.AIProvider) EngineOption {
	return func(o *engineOptions) {
		o.provider = provider
	}
}

// Open creates an Engine with its stores under dataDir: the SQLite database
// holding thoughts and entities, and the Badger vector index under
// dataDir/vectors.
func Open(dataDir string, opts ...EngineOption) (*Engine, error) {
	options := &engineOptions{
		aiConfig: ai.DefaultConfig(), // Default if not provided
	}
	for _, opt := range opts {
		opt(options)
	}

	logger := slog.Default()

	store, err := sqlite.NewStore(dataDir, logger)
	if err != nil {
		return nil, err
	}

	backend, err := badger.OpenBackend(filepath.Join(dataDir, "vectors"), false)
	if err != nil {
		store.Close()
		return nil, err
	}

	index, err := badger.NewVectorIndex(backend)
	if err != nil {
		backend.Close()
		store.Close()
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			backend.Close()
			store.Close()
			return nil, err
		}
	}

	return &Engine{
		store:    store,
		backend:  backend,
		index:    index,
		provider: provider,
		logger:   logger,
	}, nil
}

// Close releases the AI provider and both stores.
func (e *Engine) Close() error {
	if err := e.provider.Close(); err != nil {
		e.logger.Error("error closing AI provider", "err", err)
	}

	if err := e.backend.Close(); err != nil {
		e.logger.Error("error closing vector index", "err", err)
		return err
	}
	if err := e.store.Close(); err != nil {
		e.logger.Error("error closing thought store", "err", err)
		return err
	}
	return nil
}

// ThoughtStore returns the canonical thought store.
func (e *Engine) ThoughtStore() storage.ThoughtStore {
	return e.store
}

// VectorIndex returns the embedding index.
func (e *Engine) VectorIndex() storage.VectorIndex {
	return e.index
}

// NewSearcher builds a searcher over the engine's stores.
func (e *Engine) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	return search.NewSearcher(e.store, e.index, e.provider, opts...)
}

// NewIngestionPipeline builds an ingestion pipeline over the engine's stores.
func (e *Engine) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(e.store, e.index, e.provider, opts...)
}

// NewReindexer builds a reindexer writing progress to the given writer.
func (e *Engine) NewReindexer(cfg *reindex.Config, progress io.Writer) *reindex.Reindexer {
	return reindex.NewReindexer(e.store, e.index, e.provider.Embedder(), cfg, progress)
}

// DeleteThought removes a thought from the canonical store and its entry
// from the vector index.
func (e *Engine) DeleteThought(ctx context.Context, userId string, id core.ID) error {
	if err := e.store.DeleteThought(ctx, userId, id); err != nil {
		return err
	}
	return e.index.Delete(ctx, userId, id)
}
