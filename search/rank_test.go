package search

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/noema/core"
)

var rankNow = time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

func sc(id core.ID, final float64, ts time.Time) scoredCandidate {
	return scoredCandidate{
		cand:  &core.Candidate{ThoughtId: id, Content: "content", Timestamp: ts},
		score: core.SearchScore{Final: final},
	}
}

func resultIds(resp *core.SearchResponse) []core.ID {
	ids := make([]core.ID, 0, len(resp.Results))
	for _, r := range resp.Results {
		ids = append(ids, r.ThoughtId)
	}
	return ids
}

func TestAssemble_RelevanceOrder(t *testing.T) {
	scored := []scoredCandidate{
		sc(1, 0.5, rankNow),
		sc(2, 0.9, rankNow.Add(-time.Hour)),
		sc(3, 0.9, rankNow), // same score as 2, newer wins
		sc(4, 0.7, rankNow),
	}
	req := &core.SearchRequest{Sort: core.SortRelevance, Limit: 10}

	resp := assemble(scored, req)

	assert.Equal(t, []core.ID{3, 2, 4, 1}, resultIds(resp))
	assert.Equal(t, 4, resp.TotalEstimated)
	for i, r := range resp.Results {
		assert.Equal(t, i+1, r.Rank)
	}
}

func TestAssemble_RelevanceTieBreakById(t *testing.T) {
	ts := rankNow
	scored := []scoredCandidate{
		sc(7, 0.5, ts),
		sc(3, 0.5, ts),
		sc(5, 0.5, ts),
	}
	req := &core.SearchRequest{Sort: core.SortRelevance, Limit: 10}

	resp := assemble(scored, req)
	assert.Equal(t, []core.ID{3, 5, 7}, resultIds(resp))
}

func TestAssemble_DateOrders(t *testing.T) {
	scored := []scoredCandidate{
		sc(1, 0.2, rankNow.Add(-2*time.Hour)),
		sc(2, 0.9, rankNow),
		sc(3, 0.5, rankNow.Add(-time.Hour)),
	}

	asc := assemble(scored, &core.SearchRequest{Sort: core.SortDateAsc, Limit: 10})
	assert.Equal(t, []core.ID{1, 3, 2}, resultIds(asc))

	desc := assemble(scored, &core.SearchRequest{Sort: core.SortDateDesc, Limit: 10})
	assert.Equal(t, []core.ID{2, 3, 1}, resultIds(desc))
}

func TestAssemble_Pagination(t *testing.T) {
	var scored []scoredCandidate
	for i := 1; i <= 5; i++ {
		scored = append(scored, sc(core.ID(i), float64(6-i)/10, rankNow))
	}

	page := assemble(scored, &core.SearchRequest{Sort: core.SortRelevance, Limit: 2, Offset: 2})
	assert.Equal(t, []core.ID{3, 4}, resultIds(page))
	assert.Equal(t, 5, page.TotalEstimated)
	assert.Equal(t, 1, page.Results[0].Rank) // rank is page-relative

	beyond := assemble(scored, &core.SearchRequest{Sort: core.SortRelevance, Limit: 2, Offset: 10})
	assert.Empty(t, beyond.Results)
	assert.Equal(t, 5, beyond.TotalEstimated)
}

func TestAssemble_SnippetTruncation(t *testing.T) {
	long := strings.Repeat("word ", 100) // 500 runes
	scored := []scoredCandidate{{
		cand:  &core.Candidate{ThoughtId: 1, Content: long, Timestamp: rankNow},
		score: core.SearchScore{Final: 1},
	}}

	resp := assemble(scored, &core.SearchRequest{Sort: core.SortRelevance, Limit: 1})
	require.Len(t, resp.Results, 1)

	snippet := resp.Results[0].Snippet
	assert.True(t, strings.HasSuffix(snippet, "…"))
	assert.LessOrEqual(t, len([]rune(snippet)), snippetMaxRunes+1)
}

func TestAssemble_Highlights(t *testing.T) {
	scored := []scoredCandidate{{
		cand:  &core.Candidate{ThoughtId: 1, Content: "Coffee tastes great. More coffee please.", Timestamp: rankNow},
		score: core.SearchScore{Final: 1},
	}}
	req := &core.SearchRequest{CleanText: "coffee", Sort: core.SortRelevance, Limit: 1}

	resp := assemble(scored, req)
	require.Len(t, resp.Results, 1)

	spans := resp.Results[0].Highlights
	require.Len(t, spans, 2)
	assert.Equal(t, core.Span{Start: 0, End: 6}, spans[0])
	assert.Equal(t, core.Span{Start: 26, End: 32}, spans[1])
}

func TestAssemble_NoHighlightsForPureFilterQuery(t *testing.T) {
	scored := []scoredCandidate{{
		cand:  &core.Candidate{ThoughtId: 1, Content: "anything", Timestamp: rankNow},
		score: core.SearchScore{Final: 1},
	}}
	req := &core.SearchRequest{CleanText: "", Sort: core.SortRelevance, Limit: 1}

	resp := assemble(scored, req)
	require.Len(t, resp.Results, 1)
	assert.Empty(t, resp.Results[0].Highlights)
}

func TestAssemble_AppliedFiltersEcho(t *testing.T) {
	dr := &core.DateRange{Since: rankNow.AddDate(0, 0, -7)}
	req := &core.SearchRequest{
		EntityTypes: []core.EntityType{core.EntityPerson},
		DateRange:   dr,
		Tags:        []string{"work"},
		Mood:        "happy",
		MinScore:    0.25,
		Sort:        core.SortDateDesc,
		Limit:       10,
	}

	resp := assemble(nil, req)

	assert.Equal(t, req.EntityTypes, resp.Applied.EntityTypes)
	assert.Equal(t, dr, resp.Applied.DateRange)
	assert.Equal(t, []string{"work"}, resp.Applied.Tags)
	assert.Equal(t, "happy", resp.Applied.Mood)
	assert.Equal(t, 0.25, resp.Applied.MinScore)
	assert.Equal(t, core.SortDateDesc, resp.Applied.Sort)
}
