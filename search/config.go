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


package search

import (
	"errors"
	"math"
	"time"
)

// Weights are the scoring weights for the four candidate signals.
// They must be non-negative and sum to 1.
type Weights struct {
	Semantic   float64
	Keyword    float64
	Recency    float64
	Confidence float64
}

// DefaultWeights returns the standard scoring weights.
func DefaultWeights() Weights {
	return Weights{
		Semantic:   0.4,
		Keyword:    0.3,
		Recency:    0.2,
		Confidence: 0.1,
	}
}

// Validate checks that all weights are non-negative and sum to 1.
func (w Weights) Validate() error {
	if w.Semantic < 0 || w.Keyword < 0 || w.Recency < 0 || w.Confidence < 0 {
		return errors.New("search config: weights must be non-negative")
	}
	sum := w.Semantic + w.Keyword + w.Recency + w.Confidence
	if math.Abs(sum-1.0) > 1e-9 {
		return errors.New("search config: weights must sum to 1")
	}
	return nil
}

// Config holds the tunable parameters of the search pipeline.
type Config struct {
	// Weights are the scoring weights for the candidate signals.
	Weights Weights

	// RecencyHalfLife is the age at which the recency score halves.
	// Default: 30 days.
	RecencyHalfLife time.Duration

	// OverfetchFactor multiplies limit+offset to size each retrieval
	// path's fetch, leaving room for filtering and deduplication.
	// Default: 3.
	OverfetchFactor int

	// OverfetchCeiling bounds the per-path fetch size. Default: 500.
	OverfetchCeiling int

	// RetrievalTimeout bounds both retrieval paths. Default: 5s.
	RetrievalTimeout time.Duration

	// MinSimilarity is the semantic path's similarity threshold.
	// Default: 0.6.
	MinSimilarity float32

	// MaxSuggestions caps the alternative terms proposed for an empty
	// result. Default: 5.
	MaxSuggestions int
}

// DefaultSearchConfig returns a Config with the documented defaults.
func DefaultSearchConfig() Config {
	return Config{
		Weights:          DefaultWeights(),
		RecencyHalfLife:  30 * 24 * time.Hour,
		OverfetchFactor:  3,
		OverfetchCeiling: 500,
		RetrievalTimeout: 5 * time.Second,
		MinSimilarity:    0.6,
		MaxSuggestions:   5,
	}
}

// Validate checks the configuration for use.
func (c Config) Validate() error {
	if err := c.Weights.Validate(); err != nil {
		return err
	}
	if c.RecencyHalfLife <= 0 {
		return errors.New("search config: RecencyHalfLife must be positive")
	}
	if c.OverfetchFactor < 1 {
		return errors.New("search config: OverfetchFactor must be at least 1")
	}
	if c.OverfetchCeiling < 1 {
		return errors.New("search config: OverfetchCeiling must be at least 1")
	}
	if c.RetrievalTimeout <= 0 {
		return errors.New("search config: RetrievalTimeout must be positive")
	}
	if c.MinSimilarity < 0 || c.MinSimilarity > 1 {
		return errors.New("search config: MinSimilarity must be in [0,1]")
	}
	if c.MaxSuggestions < 0 {
		return errors.New("search config: MaxSuggestions must be non-negative")
	}
	return nil
}
