package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing or database sequences.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// EntityType categorizes a semantic entity extracted from a thought.
type EntityType string

const (
	EntityPerson       EntityType = "person"
	EntityLocation     EntityType = "location"
	EntityDate         EntityType = "date"
	EntityActivity     EntityType = "activity"
	EntityEmotion      EntityType = "emotion"
	EntityOrganization EntityType = "organization"
	EntityEvent        EntityType = "event"
)

// EntityTypes lists all valid entity types.
var EntityTypes = []EntityType{
	EntityPerson,
	EntityLocation,
	EntityDate,
	EntityActivity,
	EntityEmotion,
	EntityOrganization,
	EntityEvent,
}

// Entity is a typed fragment extracted from a thought's content.
type Entity struct {
	Id          ID
	ThoughtId   ID
	Type        EntityType
	Value       string
	Confidence  float64 // 0-1, extraction confidence
	StartPos    int     // character (rune) offset of the value in the content, -1 if unknown
	EndPos      int
	ExtractedAt time.Time
}

// Thought is a user-authored note, the unit of retrieval.
// It may be enriched with extracted entities during ingestion.
type Thought struct {
	Id        ID
	UserId    string
	Content   string
	Mood      string
	Tags      []string // lowercase, deduplicated
	Timestamp time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
	Entities  []Entity
}

// SortOrder controls the final ordering of search results.
type SortOrder int

const (
	// SortRelevance orders by combined score, best first.
	SortRelevance SortOrder = iota + 1
	// SortDateAsc orders by thought timestamp, oldest first.
	SortDateAsc
	// SortDateDesc orders by thought timestamp, newest first.
	SortDateDesc
)

// DateRange bounds thought timestamps. A zero bound is unbounded.
type DateRange struct {
	Since time.Time
	Until time.Time
}

// SearchRequest is the structured form of a parsed search query.
// It is immutable once constructed; every downstream stage reads it, none
// mutate it.
type SearchRequest struct {
	RawQuery    string
	CleanText   string // query text with filter tokens removed
	EntityTypes []EntityType
	DateRange   *DateRange
	Tags        []string
	Mood        string
	MinScore    float64
	Sort        SortOrder
	Limit       int
	Offset      int
	UserId      string
}

// Candidate is one thought under consideration for a search request,
// carrying the raw per-source signals collected during retrieval.
// A candidate is uniquely identified by thought id; candidates from the
// two retrieval paths are merged by that id before scoring.
type Candidate struct {
	ThoughtId   ID
	Content     string
	Timestamp   time.Time
	Semantic    float64 // valid only when HasSemantic
	HasSemantic bool
	Keyword     float64 // valid only when HasKeyword
	HasKeyword  bool
	Confidence  float64 // max confidence of any matched entity, 0 if none
	Entities    []Entity
}

// SearchScore holds the normalized sub-scores and their weighted sum.
// Each component and Final lie in [0,1].
type SearchScore struct {
	Semantic   float64
	Keyword    float64
	Recency    float64
	Confidence float64
	Final      float64
}

// Span is a half-open character (rune) range [Start, End) within a snippet.
type Span struct {
	Start int
	End   int
}

// SearchResult is one ranked hit in a search response.
type SearchResult struct {
	ThoughtId  ID
	Snippet    string
	Score      SearchScore
	Rank       int // 1-based position within the returned page
	Highlights []Span
	Entities   []Entity
	Timestamp  time.Time
}

// AppliedFilters echoes the parsed filters of a request for client display.
type AppliedFilters struct {
	EntityTypes []EntityType
	DateRange   *DateRange
	Tags        []string
	Mood        string
	MinScore    float64
	Sort        SortOrder
}

// SearchResponse is the final, ordered result of one search request.
type SearchResponse struct {
	Results        []SearchResult
	TotalEstimated int // candidate count before pagination
	QueryTimeMs    int64
	Applied        AppliedFilters
	// Degraded is set when the semantic path failed and the results were
	// computed from the keyword path alone.
	Degraded    bool
	Suggestions []string // populated only when Results is empty
}

// VectorEntry is the embedding-index record for one thought.
type VectorEntry struct {
	ThoughtId ID
	UserId    string
	Types     []EntityType // entity types present on the thought
	Timestamp time.Time
	Vector    []float32
}
