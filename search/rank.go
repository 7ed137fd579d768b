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
	"slices"
	"strings"
	"unicode"

	"github.com/poiesic/noema/core"
)

// snippetMaxRunes bounds the content snippet attached to each result.
const snippetMaxRunes = 240

// scoredCandidate pairs a candidate with its computed score.
type scoredCandidate struct {
	cand  *core.Candidate
	score core.SearchScore
}

// assemble sorts, paginates and decorates the scored candidates into the
// final response. Ordering is fully deterministic: relevance sorts by
// final score, then timestamp, then id; date sorts by timestamp, then
// final score, then id.
func assemble(scored []scoredCandidate, req *core.SearchRequest) *core.SearchResponse {
	switch req.Sort {
	case core.SortDateAsc:
		slices.SortFunc(scored, func(a, b scoredCandidate) int {
			if c := a.cand.Timestamp.Compare(b.cand.Timestamp); c != 0 {
				return c
			}
			if c := compareFloatDesc(a.score.Final, b.score.Final); c != 0 {
				return c
			}
			return compareId(a.cand.ThoughtId, b.cand.ThoughtId)
		})
	case core.SortDateDesc:
		slices.SortFunc(scored, func(a, b scoredCandidate) int {
			if c := b.cand.Timestamp.Compare(a.cand.Timestamp); c != 0 {
				return c
			}
			if c := compareFloatDesc(a.score.Final, b.score.Final); c != 0 {
				return c
			}
			return compareId(a.cand.ThoughtId, b.cand.ThoughtId)
		})
	default:
		slices.SortFunc(scored, func(a, b scoredCandidate) int {
			if c := compareFloatDesc(a.score.Final, b.score.Final); c != 0 {
				return c
			}
			if c := b.cand.Timestamp.Compare(a.cand.Timestamp); c != 0 {
				return c
			}
			return compareId(a.cand.ThoughtId, b.cand.ThoughtId)
		})
	}

	total := len(scored)

	// Paginate after sorting
	page := scored
	if req.Offset >= len(page) {
		page = nil
	} else {
		page = page[req.Offset:]
	}
	if len(page) > req.Limit {
		page = page[:req.Limit]
	}

	tokens := tokenizeAndFilter(req.CleanText)
	results := make([]core.SearchResult, 0, len(page))
	for i, sc := range page {
		snippet := makeSnippet(sc.cand.Content)
		results = append(results, core.SearchResult{
			ThoughtId:  sc.cand.ThoughtId,
			Snippet:    snippet,
			Score:      sc.score,
			Rank:       i + 1,
			Highlights: highlightSpans(snippet, tokens),
			Entities:   sc.cand.Entities,
			Timestamp:  sc.cand.Timestamp,
		})
	}

	return &core.SearchResponse{
		Results:        results,
		TotalEstimated: total,
		Applied: core.AppliedFilters{
			EntityTypes: req.EntityTypes,
			DateRange:   req.DateRange,
			Tags:        req.Tags,
			Mood:        req.Mood,
			MinScore:    req.MinScore,
			Sort:        req.Sort,
		},
	}
}

func compareFloatDesc(a, b float64) int {
	if a > b {
		return -1
	}
	if a < b {
		return 1
	}
	return 0
}

func compareId(a, b core.ID) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

// makeSnippet truncates content to snippetMaxRunes at a word boundary,
// appending an ellipsis when truncated.
func makeSnippet(content string) string {
	runes := []rune(content)
	if len(runes) <= snippetMaxRunes {
		return content
	}
	cut := snippetMaxRunes
	for cut > 0 && !unicode.IsSpace(runes[cut]) {
		cut--
	}
	if cut == 0 {
		cut = snippetMaxRunes
	}
	return strings.TrimRight(string(runes[:cut]), " \t\n") + "…"
}

// highlightSpans records the rune ranges of each case-insensitive token
// occurrence inside the snippet. A pure-filter query produces no spans.
func highlightSpans(snippet string, tokens []string) []core.Span {
	if len(tokens) == 0 {
		return nil
	}
	lower := []rune(strings.ToLower(snippet))

	var spans []core.Span
	for _, tok := range tokens {
		target := []rune(tok)
		if len(target) == 0 {
			continue
		}
		for i := 0; i+len(target) <= len(lower); i++ {
			if runesEqual(lower[i:i+len(target)], target) {
				spans = append(spans, core.Span{Start: i, End: i + len(target)})
				i += len(target) - 1
			}
		}
	}

	slices.SortFunc(spans, func(a, b core.Span) int {
		if a.Start != b.Start {
			return a.Start - b.Start
		}
		return a.End - b.End
	})
	return spans
}

func runesEqual(a, b []rune) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
