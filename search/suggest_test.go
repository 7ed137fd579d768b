package search

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/noema/core"
)

func TestSuggestions_EntityTermMining(t *testing.T) {
	env := newSearchEnv(t)
	ctx := context.Background()

	env.seed(t, &core.Thought{
		Content:  "Had lunch with Sarah",
		Entities: []core.Entity{personEntity("sarah", 0.9)},
	})
	env.seed(t, &core.Thought{
		Content:  "Sarah recommended a book",
		Entities: []core.Entity{personEntity("sarah", 0.85)},
	})

	terms, err := env.searcher.Suggestions(ctx, "alice", "sar")
	require.NoError(t, err)
	assert.Contains(t, terms, "sarah")
}

func TestSuggestions_PrefixFallback(t *testing.T) {
	env := newSearchEnv(t)
	ctx := context.Background()

	env.seed(t, &core.Thought{
		Content:  "Coffee with Sarah",
		Entities: []core.Entity{personEntity("sarah", 0.9)},
	})

	// No term starts with the misspelled token; the three-rune prefix
	// fallback still finds the entity.
	terms, err := env.searcher.Suggestions(ctx, "alice", "sarha")
	require.NoError(t, err)
	assert.Contains(t, terms, "sarah")
}

func TestSuggestions_ExcludesQueryTokens(t *testing.T) {
	env := newSearchEnv(t)
	ctx := context.Background()

	env.seed(t, &core.Thought{Content: "coffee coffee coffee everywhere"})

	terms, err := env.searcher.Suggestions(ctx, "alice", "coffee")
	require.NoError(t, err)
	assert.NotContains(t, terms, "coffee")
}

func TestSuggestions_FilterRelaxation(t *testing.T) {
	env := newSearchEnv(t)
	ctx := context.Background()

	env.seed(t, &core.Thought{
		Content:   "coffee with sarah",
		Timestamp: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	})

	t.Run("date filter", func(t *testing.T) {
		terms, err := env.searcher.Suggestions(ctx, "alice", "coffee after:2025-06-01")
		require.NoError(t, err)
		assert.Contains(t, terms, "remove the date filter")
	})

	t.Run("type filter", func(t *testing.T) {
		terms, err := env.searcher.Suggestions(ctx, "alice", "coffee type:location")
		require.NoError(t, err)
		assert.Contains(t, terms, "remove the type filter")
	})
}

func TestSuggestions_Cap(t *testing.T) {
	cfg := DefaultSearchConfig()
	cfg.MinSimilarity = 0
	cfg.MaxSuggestions = 2
	env := newSearchEnv(t, WithConfig(cfg))
	ctx := context.Background()

	for _, name := range []string{"sam", "sasha", "sandra", "santiago"} {
		env.seed(t, &core.Thought{
			Content:  "Met " + name + " today",
			Entities: []core.Entity{personEntity(name, 0.9)},
		})
	}

	terms, err := env.searcher.Suggestions(ctx, "alice", "sa")
	require.NoError(t, err)
	assert.LessOrEqual(t, len(terms), 2)
	assert.NotEmpty(t, terms)
}

func TestSuggestions_NoMatches(t *testing.T) {
	env := newSearchEnv(t)
	ctx := context.Background()

	env.seed(t, &core.Thought{Content: "coffee with sarah"})

	terms, err := env.searcher.Suggestions(ctx, "alice", "zzqq")
	require.NoError(t, err)
	assert.Empty(t, terms)
}
