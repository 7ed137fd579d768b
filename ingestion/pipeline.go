package ingestion

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/noema/ai"
	"github.com/poiesic/noema/core"
	"github.com/poiesic/noema/storage"
)

// Pipeline orchestrates the capture and enrichment of thoughts.
// Thoughts are stored synchronously; entity extraction and embedding run
// asynchronously on a worker pool.
type Pipeline struct {
	thoughts storage.ThoughtStore
	vectors  storage.VectorIndex
	pool     *ants.Pool
	proc     processor
	logger   *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent enrichment.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	thoughts storage.ThoughtStore,
	vectors storage.VectorIndex,
	provider ai.AIProvider,
	opts ...Option,
) (*Pipeline, error) {
	if thoughts == nil {
		return nil, ErrThoughtStoreRequired
	}
	if vectors == nil {
		return nil, ErrVectorIndexRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		thoughts: thoughts,
		vectors:  vectors,
		pool:     pool,
		logger:   slog.Default(),
	}

	// Apply options (may override defaults)
	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	// Create the processor after options are applied (so it gets the final config)
	proc, err := newEnrichProcessor(thoughts, vectors, provider.Embedder(), provider.EntityExtractor(), p.logger)
	if err != nil {
		p.Release()
		return nil, err
	}
	p.proc = proc

	return p, nil
}

// IngestOptions holds optional parameters for ingestion.
type IngestOptions struct {
	Mood      string    // Optional mood to attach to the thoughts
	Tags      []string  // Optional tags, normalized on write
	Timestamp time.Time // Optional timestamp (uses current time if zero)
}

// Ingest stores the given contents as thoughts and enriches them
// asynchronously. Duplicate contents already stored are skipped.
// Errors during async enrichment are logged but do not fail the ingestion.
func (p *Pipeline) Ingest(ctx context.Context, userId string, contents []string, opts *IngestOptions) ([]*core.Thought, error) {
	if opts == nil {
		opts = &IngestOptions{}
	}

	added := make([]*core.Thought, 0, len(contents))
	for _, content := range contents {
		timestamp := opts.Timestamp
		if timestamp.IsZero() {
			timestamp = time.Now().UTC()
		}

		thought, err := p.thoughts.AddThought(ctx, &core.Thought{
			UserId:    userId,
			Content:   content,
			Mood:      opts.Mood,
			Tags:      opts.Tags,
			Timestamp: timestamp,
		})
		if err != nil {
			if errors.Is(err, storage.ErrDuplicateKey) {
				p.logger.Debug("skipping duplicate thought", "user_id", userId)
				continue
			}
			return added, err
		}
		added = append(added, thought)
	}

	if len(added) == 0 {
		return added, nil
	}

	ids := make([]core.ID, len(added))
	for i, thought := range added {
		ids[i] = thought.Id
	}

	// Submit for async enrichment
	p.pool.Submit(func() {
		if err := p.proc.process(context.Background(), userId, ids...); err != nil {
			p.logger.Error("error enriching thoughts", "err", err)
			return
		}
		if err := p.proc.checkpoint(); err != nil {
			p.logger.Error("error applying enrichment checkpoint", "err", err)
		}
	})

	return added, nil
}

// IngestThought stores a single thought. See Ingest.
func (p *Pipeline) IngestThought(ctx context.Context, userId, content string, opts *IngestOptions) (*core.Thought, error) {
	added, err := p.Ingest(ctx, userId, []string{content}, opts)
	if err != nil {
		return nil, err
	}
	if len(added) == 0 {
		return nil, storage.ErrDuplicateKey
	}
	return added[0], nil
}

// Release releases resources including the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
