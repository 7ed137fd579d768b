package storage

import (
	"context"
	"time"

	"github.com/poiesic/noema/core"
)

// KeywordQuery describes one keyword-path retrieval against the canonical
// store. Tokens are lowercase, stop-word-filtered query terms; an empty
// token list matches on filters alone.
type KeywordQuery struct {
	UserId      string
	Tokens      []string
	EntityTypes []core.EntityType
	DateRange   *core.DateRange
	Tags        []string
	Mood        string
	Limit       int
}

// KeywordMatch is one keyword-path hit. Score is the fraction of query
// tokens found in the thought content (1.0 when the query had no tokens
// is never produced; filter-only queries score 0).
type KeywordMatch struct {
	Thought *core.Thought
	Score   float64
}

// VectorQuery describes one semantic-path retrieval against the index.
type VectorQuery struct {
	UserId        string
	Vector        []float32
	EntityTypes   []core.EntityType // native metadata filter, empty = no filter
	MinSimilarity float32
	Limit         int
}

// VectorMatch is one semantic-path hit.
type VectorMatch struct {
	ThoughtId core.ID
	Score     float32
	Timestamp time.Time
}

// ThoughtStore provides operations for the canonical thought records.
// Implementations must be thread-safe and support concurrent access.
// All operations are scoped to a single user; no call may return another
// user's records.
type ThoughtStore interface {
	// AddThought stores a thought and its entities.
	// For thoughts with ID=0, derives a content-based ID.
	// Sets CreatedAt/UpdatedAt timestamps.
	// Returns the thought with ID and timestamps populated.
	AddThought(ctx context.Context, thought *core.Thought) (*core.Thought, error)

	// UpdateThought replaces an existing thought and its entities.
	// Updates the UpdatedAt timestamp automatically.
	// Returns ErrNotFound if the thought doesn't exist for the user.
	UpdateThought(ctx context.Context, thought *core.Thought) (*core.Thought, error)

	// DeleteThought removes a thought and its entities.
	// Returns ErrNotFound if the thought doesn't exist for the user.
	DeleteThought(ctx context.Context, userId string, id core.ID) error

	// GetThought retrieves a single thought with its entities.
	// Returns ErrNotFound if the thought doesn't exist for the user.
	GetThought(ctx context.Context, userId string, id core.ID) (*core.Thought, error)

	// GetThoughts retrieves multiple thoughts by their IDs.
	// Returns only the thoughts that exist (no error for missing ones).
	GetThoughts(ctx context.Context, userId string, ids ...core.ID) ([]*core.Thought, error)

	// GetRecentThoughts retrieves the N most recent thoughts, newest first.
	GetRecentThoughts(ctx context.Context, userId string, limit int) ([]*core.Thought, error)

	// ListThoughts pages through all of a user's thoughts in stable id order.
	// Used for batch reindexing.
	ListThoughts(ctx context.Context, userId string, offset, limit int) ([]*core.Thought, error)

	// SearchKeyword runs the keyword retrieval path: substring matching of
	// the query tokens with user/date/tag/mood/entity-type scoping.
	// Results are ordered by timestamp descending, up to q.Limit.
	SearchKeyword(ctx context.Context, q KeywordQuery) ([]KeywordMatch, error)

	// CountMatches returns the number of thoughts a KeywordQuery would match,
	// ignoring its Limit.
	CountMatches(ctx context.Context, q KeywordQuery) (int, error)

	// SuggestTerms proposes up to limit alternative search terms for a user:
	// frequent entity values sharing the prefix, then content words sharing
	// the prefix.
	SuggestTerms(ctx context.Context, userId, prefix string, limit int) ([]string, error)

	// Close closes the store and releases resources.
	Close() error
}

// VectorIndex provides nearest-neighbour lookup over thought embeddings.
// Implementations must be thread-safe and support concurrent access.
type VectorIndex interface {
	// Put stores or replaces the entry for entry.ThoughtId.
	Put(ctx context.Context, entry *core.VectorEntry) error

	// Delete removes the entry for a thought.
	// Missing entries are not an error.
	Delete(ctx context.Context, userId string, id core.ID) error

	// FindSimilar returns entries with similarity >= q.MinSimilarity,
	// highest first, up to q.Limit, honouring the entity-type filter.
	FindSimilar(ctx context.Context, q VectorQuery) ([]VectorMatch, error)

	// Close closes the index and releases resources.
	Close() error
}
