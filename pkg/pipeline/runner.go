package pipeline

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/linkboard/pkg/cache"
	apperrors "github.com/matzehuels/linkboard/pkg/errors"
	"github.com/matzehuels/linkboard/pkg/graph"
	graphio "github.com/matzehuels/linkboard/pkg/io"
	"github.com/matzehuels/linkboard/pkg/layout"
	"github.com/matzehuels/linkboard/pkg/layout/orthogonal"
	"github.com/matzehuels/linkboard/pkg/observability"
	"github.com/matzehuels/linkboard/pkg/planarity"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it to avoid duplicating caching logic.
//
// The Runner is stateless except for its collaborators; it doesn't store
// pipeline results. Multiple goroutines can safely use the same Runner with
// different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	// TTL, if positive, replaces the per-kind lifetimes of cache entries.
	TTL time.Duration

	// NewDecomposer builds the decomposer for one run. Defaults to
	// [planarity.NewDecomposer].
	NewDecomposer func() *planarity.Decomposer
	// Tester checks layer planarity before layout. Defaults to
	// [planarity.LeftRight].
	Tester planarity.Tester
	// NewEngine builds the layout engine for a program name. Defaults to
	// [orthogonal.Engine].
	NewEngine func(program string) layout.Engine
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:         c,
		Keyer:         keyer,
		Logger:        logger,
		NewDecomposer: planarity.NewDecomposer,
		Tester:        planarity.LeftRight{},
		NewEngine: func(program string) layout.Engine {
			return orthogonal.Engine{Program: program}
		},
	}
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// GraphHash returns the cache hash of the canonical JSON document of g.
func GraphHash(g *graph.Graph) (string, error) {
	var buf bytes.Buffer
	if err := graphio.WriteGraph(&buf, graphio.FormatJSON, g); err != nil {
		return "", err
	}
	return cache.Hash(buf.Bytes()), nil
}

// lookup reads key unless refresh is set. Backend errors count as misses.
func (r *Runner) lookup(ctx context.Context, key, keyType string, refresh bool) ([]byte, bool) {
	if refresh {
		return nil, false
	}
	data, ok, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Debug("cache read failed", "key", key, "err", err)
		ok = false
	}
	if ok {
		observability.Cache().OnCacheHit(ctx, keyType)
		return data, true
	}
	observability.Cache().OnCacheMiss(ctx, keyType)
	return nil, false
}

func (r *Runner) store(ctx context.Context, key, keyType string, data []byte, ttl time.Duration) {
	if r.TTL > 0 {
		ttl = r.TTL
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Debug("cache write failed", "key", key, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// withTimeout runs fn with a context bounded by timeout. fn may ignore the
// context; when the budget expires its result is abandoned and a TIMEOUT
// error is returned. fn must not publish results itself.
func withTimeout[T any](ctx context.Context, timeout time.Duration, stage string, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, contextError(err, stage)
	}
	if timeout <= 0 {
		return fn(ctx)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type outcome struct {
		v   T
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		v, err := fn(ctx)
		done <- outcome{v, err}
	}()

	select {
	case o := <-done:
		return o.v, o.err
	case <-ctx.Done():
		return zero, contextError(ctx.Err(), stage)
	}
}

func contextError(err error, stage string) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.Wrap(apperrors.ErrCodeTimeout, err, "%s timed out", stage)
	}
	return err
}
