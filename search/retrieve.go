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
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/poiesic/noema/core"
	"github.com/poiesic/noema/storage"
)

// retrieve runs the semantic and keyword retrieval paths concurrently and
// merges their candidates by thought id. The returned bool reports whether
// the semantic path failed and the result degraded to keyword-only.
//
// A semantic path failure (including timeout) never fails the request; a
// keyword path failure does, wrapped in ErrRetrieval or ErrRetrievalTimeout.
func (s *Searcher) retrieve(ctx context.Context, req *core.SearchRequest) ([]*core.Candidate, bool, error) {
	fetchLimit := s.fetchLimit(req)
	tokens := tokenizeAndFilter(req.CleanText)
	semanticWanted := strings.TrimSpace(req.CleanText) != ""

	var (
		semMatches []storage.VectorMatch
		semErr     error
		kwMatches  []storage.KeywordMatch
	)

	g, gctx := errgroup.WithContext(ctx)

	if semanticWanted {
		// Failures here are captured, not returned, so the keyword path
		// is never cancelled by a semantic problem.
		g.Go(func() error {
			vector, err := s.embedder.EmbedText(gctx, req.CleanText)
			if err != nil {
				s.logger.Warn("semantic path: embedding failed, degrading", "err", err)
				semErr = err
				return nil
			}
			matches, err := s.vectors.FindSimilar(gctx, storage.VectorQuery{
				UserId:        req.UserId,
				Vector:        vector,
				EntityTypes:   req.EntityTypes,
				MinSimilarity: s.config.MinSimilarity,
				Limit:         fetchLimit,
			})
			if err != nil {
				s.logger.Warn("semantic path: vector lookup failed, degrading", "err", err)
				semErr = err
				return nil
			}
			semMatches = matches
			return nil
		})
	}

	g.Go(func() error {
		matches, err := s.thoughts.SearchKeyword(gctx, storage.KeywordQuery{
			UserId:      req.UserId,
			Tokens:      tokens,
			EntityTypes: req.EntityTypes,
			DateRange:   req.DateRange,
			Tags:        req.Tags,
			Mood:        req.Mood,
			Limit:       fetchLimit,
		})
		if err != nil {
			if errors.Is(err, context.Canceled) {
				// Caller went away; not a retrieval failure.
				return err
			}
			if errors.Is(err, context.DeadlineExceeded) {
				return fmt.Errorf("%w: keyword path: %v", ErrRetrievalTimeout, err)
			}
			return fmt.Errorf("%w: keyword path: %v", ErrRetrieval, err)
		}
		kwMatches = matches
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, false, err
	}

	degraded := semanticWanted && semErr != nil

	byId := make(map[core.ID]*core.Candidate, len(kwMatches)+len(semMatches))
	for _, m := range kwMatches {
		t := m.Thought
		byId[t.Id] = &core.Candidate{
			ThoughtId:  t.Id,
			Content:    t.Content,
			Timestamp:  t.Timestamp,
			Keyword:    m.Score,
			HasKeyword: true,
			Confidence: maxConfidence(t.Entities, req.EntityTypes),
			Entities:   t.Entities,
		}
	}

	// Semantic hits already in the keyword set just gain the signal;
	// the rest need their thoughts loaded and the remaining filters
	// (date/tags/mood) applied here, since the index only scopes by
	// user and entity type.
	var missing []core.ID
	for _, m := range semMatches {
		if c, ok := byId[m.ThoughtId]; ok {
			c.Semantic = float64(m.Score)
			c.HasSemantic = true
		} else {
			missing = append(missing, m.ThoughtId)
		}
	}
	if len(missing) > 0 {
		thoughts, err := s.thoughts.GetThoughts(ctx, req.UserId, missing...)
		if err != nil {
			return nil, false, fmt.Errorf("%w: loading semantic hits: %v", ErrRetrieval, err)
		}
		loaded := make(map[core.ID]*core.Thought, len(thoughts))
		for _, t := range thoughts {
			loaded[t.Id] = t
		}
		for _, m := range semMatches {
			t, ok := loaded[m.ThoughtId]
			if !ok || !matchesFilters(t, req) {
				continue
			}
			byId[t.Id] = &core.Candidate{
				ThoughtId:   t.Id,
				Content:     t.Content,
				Timestamp:   t.Timestamp,
				Semantic:    float64(m.Score),
				HasSemantic: true,
				Confidence:  maxConfidence(t.Entities, req.EntityTypes),
				Entities:    t.Entities,
			}
		}
	}

	candidates := make([]*core.Candidate, 0, len(byId))
	for _, c := range byId {
		candidates = append(candidates, c)
	}
	return candidates, degraded, nil
}

// fetchLimit sizes the per-path fetch: (limit+offset) times the overfetch
// factor, bounded by the configured ceiling.
func (s *Searcher) fetchLimit(req *core.SearchRequest) int {
	n := (req.Limit + req.Offset) * s.config.OverfetchFactor
	if n > s.config.OverfetchCeiling {
		n = s.config.OverfetchCeiling
	}
	if n < req.Limit+req.Offset {
		n = req.Limit + req.Offset
	}
	return n
}

// maxConfidence is the highest confidence of any entity matching the type
// filter, or of any entity at all when no filter is set. 0 if none.
func maxConfidence(entities []core.Entity, types []core.EntityType) float64 {
	var max float64
	for _, e := range entities {
		if len(types) > 0 && !slices.Contains(types, e.Type) {
			continue
		}
		if e.Confidence > max {
			max = e.Confidence
		}
	}
	return max
}

// matchesFilters applies the date/tags/mood filters to a semantic-only hit.
func matchesFilters(t *core.Thought, req *core.SearchRequest) bool {
	if req.DateRange != nil {
		if !req.DateRange.Since.IsZero() && t.Timestamp.Before(req.DateRange.Since) {
			return false
		}
		if !req.DateRange.Until.IsZero() && t.Timestamp.After(req.DateRange.Until) {
			return false
		}
	}
	for _, tag := range req.Tags {
		if !slices.Contains(t.Tags, tag) {
			return false
		}
	}
	if req.Mood != "" && !strings.EqualFold(t.Mood, req.Mood) {
		return false
	}
	return true
}
