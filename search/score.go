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
	"math"
	"time"

	"github.com/poiesic/noema/core"
)

// Score computes the normalized sub-scores and their weighted sum for one
// candidate. Pure and deterministic; now anchors the recency decay.
//
// An absent semantic or keyword signal contributes 0. Recency decays
// exponentially with the configured half-life: 1.0 at now, 0.5 at one
// half-life of age. Every sub-score and the final score are clamped to [0,1].
func Score(c *core.Candidate, w Weights, halfLife time.Duration, now time.Time) core.SearchScore {
	var s core.SearchScore

	if c.HasSemantic {
		s.Semantic = clamp01(c.Semantic)
	}
	if c.HasKeyword {
		s.Keyword = clamp01(c.Keyword)
	}
	s.Recency = recencyScore(c.Timestamp, halfLife, now)
	s.Confidence = clamp01(c.Confidence)

	s.Final = clamp01(w.Semantic*s.Semantic +
		w.Keyword*s.Keyword +
		w.Recency*s.Recency +
		w.Confidence*s.Confidence)
	return s
}

// recencyScore halves for every halfLife of age. Future timestamps score 1.
func recencyScore(ts time.Time, halfLife time.Duration, now time.Time) float64 {
	age := now.Sub(ts)
	if age <= 0 {
		return 1
	}
	return clamp01(math.Pow(0.5, float64(age)/float64(halfLife)))
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
