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


// Package config loads and saves the engine configuration from a TOML file.
//
// The file lives at ~/.noema/noema.toml by default. A missing file yields the
// defaults; a present file is unmarshalled over them, so partial files work.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/poiesic/noema/ai"
	"github.com/poiesic/noema/reindex"
	"github.com/poiesic/noema/search"
)

// FileName is the name of the configuration file inside the data directory.
const FileName = "noema.toml"

// Config is the on-disk configuration of the engine.
type Config struct {
	// DataDir holds the SQLite database and the vector index.
	// Empty means ~/.noema.
	DataDir string `toml:"data_dir"`

	AI      AIConfig      `toml:"ai"`
	Search  SearchConfig  `toml:"search"`
	Reindex ReindexConfig `toml:"reindex"`
}

// AIConfig configures the embedding and extraction services.
type AIConfig struct {
	EmbeddingHost  string  `toml:"embedding_host"`
	ExtractorHost  string  `toml:"extractor_host"`
	EmbeddingModel string  `toml:"embedding_model"`
	ExtractorModel string  `toml:"extractor_model"`
	MinConfidence  float64 `toml:"min_confidence"`
}

// SearchConfig configures the search pipeline.
type SearchConfig struct {
	SemanticWeight   float64 `toml:"semantic_weight"`
	KeywordWeight    float64 `toml:"keyword_weight"`
	RecencyWeight    float64 `toml:"recency_weight"`
	ConfidenceWeight float64 `toml:"confidence_weight"`

	RecencyHalfLifeDays float64 `toml:"recency_half_life_days"`
	OverfetchFactor     int     `toml:"overfetch_factor"`
	OverfetchCeiling    int     `toml:"overfetch_ceiling"`
	RetrievalTimeoutMs  int     `toml:"retrieval_timeout_ms"`
	MinSimilarity       float64 `toml:"min_similarity"`
	MaxSuggestions      int     `toml:"max_suggestions"`
}

// ReindexConfig configures batch reindexing.
type ReindexConfig struct {
	BatchSize      int `toml:"batch_size"`
	ReportInterval int `toml:"report_interval"`
	MaxRetries     int `toml:"max_retries"`
	RetryDelayMs   int `toml:"retry_delay_ms"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	aiDefaults := ai.DefaultConfig()
	searchDefaults := search.DefaultSearchConfig()
	reindexDefaults := reindex.DefaultConfig()

	return &Config{
		AI: AIConfig{
			EmbeddingHost:  aiDefaults.EmbeddingHost,
			ExtractorHost:  aiDefaults.ExtractorHost,
			EmbeddingModel: aiDefaults.EmbeddingModel,
			ExtractorModel: aiDefaults.ExtractorModel,
			MinConfidence:  aiDefaults.MinConfidence,
		},
		Search: SearchConfig{
			SemanticWeight:      searchDefaults.Weights.Semantic,
			KeywordWeight:       searchDefaults.Weights.Keyword,
			RecencyWeight:       searchDefaults.Weights.Recency,
			ConfidenceWeight:    searchDefaults.Weights.Confidence,
			RecencyHalfLifeDays: searchDefaults.RecencyHalfLife.Hours() / 24,
			OverfetchFactor:     searchDefaults.OverfetchFactor,
			OverfetchCeiling:    searchDefaults.OverfetchCeiling,
			RetrievalTimeoutMs:  int(searchDefaults.RetrievalTimeout.Milliseconds()),
			MinSimilarity:       float64(searchDefaults.MinSimilarity),
			MaxSuggestions:      searchDefaults.MaxSuggestions,
		},
		Reindex: ReindexConfig{
			BatchSize:      reindexDefaults.BatchSize,
			ReportInterval: reindexDefaults.ReportInterval,
			MaxRetries:     reindexDefaults.MaxRetries,
			RetryDelayMs:   int(reindexDefaults.RetryDelay.Milliseconds()),
		},
	}
}

// DefaultDataDir returns ~/.noema.
func DefaultDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".noema"), nil
}

// Load reads the configuration from path. A missing file is not an error;
// the defaults are returned. A present file is unmarshalled over the
// defaults and validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration to path, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

// Validate checks the configuration by converting it to the component
// configs, which carry the actual validation rules.
func (c *Config) Validate() error {
	if err := c.SearchConfig().Validate(); err != nil {
		return err
	}
	return c.AIConfig().Validate()
}

// ResolveDataDir returns DataDir, falling back to ~/.noema.
func (c *Config) ResolveDataDir() (string, error) {
	if c.DataDir != "" {
		return c.DataDir, nil
	}
	return DefaultDataDir()
}

// AIConfig converts the file values to an ai.Config.
func (c *Config) AIConfig() *ai.Config {
	return ai.NewConfig(
		ai.WithEmbeddingHost(c.AI.EmbeddingHost),
		ai.WithExtractorHost(c.AI.ExtractorHost),
		ai.WithEmbeddingModel(c.AI.EmbeddingModel),
		ai.WithExtractorModel(c.AI.ExtractorModel),
		ai.WithMinConfidence(c.AI.MinConfidence),
	)
}

// SearchConfig converts the file values to a search.Config.
func (c *Config) SearchConfig() search.Config {
	return search.Config{
		Weights: search.Weights{
			Semantic:   c.Search.SemanticWeight,
			Keyword:    c.Search.KeywordWeight,
			Recency:    c.Search.RecencyWeight,
			Confidence: c.Search.ConfidenceWeight,
		},
		RecencyHalfLife:  time.Duration(c.Search.RecencyHalfLifeDays * 24 * float64(time.Hour)),
		OverfetchFactor:  c.Search.OverfetchFactor,
		OverfetchCeiling: c.Search.OverfetchCeiling,
		RetrievalTimeout: time.Duration(c.Search.RetrievalTimeoutMs) * time.Millisecond,
		MinSimilarity:    float32(c.Search.MinSimilarity),
		MaxSuggestions:   c.Search.MaxSuggestions,
	}
}

// ReindexConfig converts the file values to a reindex.Config.
func (c *Config) ReindexConfig() *reindex.Config {
	return &reindex.Config{
		BatchSize:      c.Reindex.BatchSize,
		ReportInterval: c.Reindex.ReportInterval,
		MaxRetries:     c.Reindex.MaxRetries,
		RetryDelay:     time.Duration(c.Reindex.RetryDelayMs) * time.Millisecond,
	}
}
