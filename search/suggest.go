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
	"slices"

	"github.com/poiesic/noema/core"
	"github.com/poiesic/noema/storage"
)

// suggest proposes alternative terms for a query that produced no results.
// It relaxes the least selective filters first (date range, then entity
// types) and then mines the user's entities and content for terms sharing
// a prefix with the query tokens. Best-effort: errors are swallowed and an
// empty list is a valid outcome.
func (s *Searcher) suggest(ctx context.Context, req *core.SearchRequest) []string {
	max := s.config.MaxSuggestions
	if max <= 0 {
		return nil
	}

	tokens := tokenizeAndFilter(req.CleanText)
	suggestions := make([]string, 0, max)
	seen := make(map[string]bool, max)

	add := func(term string) bool {
		if term == "" || seen[term] || slices.Contains(tokens, term) {
			return len(suggestions) < max
		}
		seen[term] = true
		suggestions = append(suggestions, term)
		return len(suggestions) < max
	}

	// Filter relaxation: report when dropping a filter would yield matches.
	if req.DateRange != nil {
		relaxed := storage.KeywordQuery{
			UserId:      req.UserId,
			Tokens:      tokens,
			EntityTypes: req.EntityTypes,
			Tags:        req.Tags,
			Mood:        req.Mood,
		}
		if n, err := s.thoughts.CountMatches(ctx, relaxed); err == nil && n > 0 {
			if !add("remove the date filter") {
				return suggestions
			}
		} else if err != nil {
			s.logger.Debug("suggestion date relaxation failed", "err", err)
		}
	}
	if len(req.EntityTypes) > 0 {
		relaxed := storage.KeywordQuery{
			UserId:    req.UserId,
			Tokens:    tokens,
			DateRange: req.DateRange,
			Tags:      req.Tags,
			Mood:      req.Mood,
		}
		if n, err := s.thoughts.CountMatches(ctx, relaxed); err == nil && n > 0 {
			if !add("remove the type filter") {
				return suggestions
			}
		} else if err != nil {
			s.logger.Debug("suggestion type relaxation failed", "err", err)
		}
	}

	// Term mining: entity values and content words sharing a prefix with
	// each query token, shortest prefix last.
	for _, tok := range tokens {
		prefixes := []string{tok}
		if runes := []rune(tok); len(runes) > 3 {
			prefixes = append(prefixes, string(runes[:3]))
		}
		for _, prefix := range prefixes {
			terms, err := s.thoughts.SuggestTerms(ctx, req.UserId, prefix, max-len(suggestions))
			if err != nil {
				s.logger.Debug("suggestion term mining failed", "prefix", prefix, "err", err)
				continue
			}
			for _, term := range terms {
				if !add(term) {
					return suggestions
				}
			}
		}
	}

	return suggestions
}
