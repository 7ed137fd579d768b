package search

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/noema/ai"
	"github.com/poiesic/noema/core"
	"github.com/poiesic/noema/storage"
)

// Searcher provides hybrid semantic and keyword search over thoughts.
// Each search is independent and stateless; a Searcher is safe for
// concurrent use.
type Searcher struct {
	thoughts storage.ThoughtStore
	vectors  storage.VectorIndex
	embedder ai.Embedder
	config   Config
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithConfig replaces the default search configuration.
func WithConfig(config Config) Option {
	return func(s *Searcher) error {
		if err := config.Validate(); err != nil {
			return err
		}
		s.config = config
		return nil
	}
}

// WithClock sets the time source used for recency scoring and relative
// date parsing. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Searcher) error {
		if now != nil {
			s.now = now
		}
		return nil
	}
}

// NewSearcher creates a new searcher over the given stores.
func NewSearcher(
	thoughts storage.ThoughtStore,
	vectors storage.VectorIndex,
	provider ai.AIProvider,
	opts ...Option,
) (*Searcher, error) {
	if thoughts == nil {
		return nil, ErrThoughtStoreRequired
	}
	if vectors == nil {
		return nil, ErrVectorIndexRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	s := &Searcher{
		thoughts: thoughts,
		vectors:  vectors,
		embedder: provider.Embedder(),
		config:   DefaultSearchConfig(),
		logger:   slog.Default().With("component", "searcher"),
		now:      time.Now,
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Search parses rawQuery and runs the full pipeline for one user.
// limit defaults to 20 when 0 and must not exceed 1000; offset must be
// non-negative. The returned response is ordered, paginated and carries
// suggestions when empty.
func (s *Searcher) Search(ctx context.Context, userId, rawQuery string, limit, offset int) (*core.SearchResponse, error) {
	return s.SearchWithMonitor(ctx, userId, rawQuery, limit, offset, nil)
}

// SearchWithMonitor runs Search with per-stage monitoring callbacks.
func (s *Searcher) SearchWithMonitor(ctx context.Context, userId, rawQuery string, limit, offset int, monitor SearchMonitor) (*core.SearchResponse, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	started := time.Now()
	monitor.Start(rawQuery)

	now := s.now().UTC()
	req, err := ParseQuery(rawQuery, userId, now)
	if err != nil {
		return nil, err
	}
	if limit < 0 || limit > MaxLimit {
		return nil, fmt.Errorf("%w: limit %d outside [1,%d]", ErrInvalidQuery, limit, MaxLimit)
	}
	if limit > 0 {
		req.Limit = limit
	}
	if offset < 0 {
		return nil, fmt.Errorf("%w: negative offset", ErrInvalidQuery)
	}
	req.Offset = offset
	monitor.AfterParse(req)

	// The timeout covers both retrieval paths; everything after is
	// in-memory work.
	rctx, cancel := context.WithTimeout(ctx, s.config.RetrievalTimeout)
	candidates, degraded, err := s.retrieve(rctx, req)
	cancel()
	if err != nil {
		return nil, err
	}
	monitor.AfterRetrieval(candidates, degraded)

	scored := make([]scoredCandidate, 0, len(candidates))
	dropped := 0
	for _, c := range candidates {
		sc := Score(c, s.config.Weights, s.config.RecencyHalfLife, now)
		if sc.Final < req.MinScore {
			dropped++
			continue
		}
		scored = append(scored, scoredCandidate{cand: c, score: sc})
	}
	monitor.AfterScoring(len(scored), dropped)

	resp := assemble(scored, req)
	resp.Degraded = degraded
	if len(resp.Results) == 0 {
		resp.Suggestions = s.suggest(ctx, req)
	}
	resp.QueryTimeMs = time.Since(started).Milliseconds()
	monitor.Finish(resp)

	s.logger.Debug("search completed",
		"user_id", userId,
		"results", len(resp.Results),
		"total", resp.TotalEstimated,
		"degraded", resp.Degraded,
		"query_time_ms", resp.QueryTimeMs)
	return resp, nil
}

// Suggestions proposes alternative terms for a query without running the
// full pipeline. Best-effort: a nil slice is a valid outcome.
func (s *Searcher) Suggestions(ctx context.Context, userId, rawQuery string) ([]string, error) {
	req, err := ParseQuery(rawQuery, userId, s.now().UTC())
	if err != nil {
		return nil, err
	}
	return s.suggest(ctx, req), nil
}
