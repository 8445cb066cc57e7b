package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/matzehuels/linkboard/pkg/artifact"
	"github.com/matzehuels/linkboard/pkg/cache"
	"github.com/matzehuels/linkboard/pkg/errors"
	"github.com/matzehuels/linkboard/pkg/graph"
	"github.com/matzehuels/linkboard/pkg/layout"
	"github.com/matzehuels/linkboard/pkg/layout/orthogonal"
	"github.com/matzehuels/linkboard/pkg/observability"
	"github.com/matzehuels/linkboard/pkg/planarity"
)

// layoutEntry is the cached form of a placement.
type layoutEntry struct {
	Embedding layout.Embedding `json:"embedding"`
	SVG       []byte           `json:"svg"`
}

// Layout places the vertices of a planar layer with caching.
//
// The drawing is stored in sink as [artifact.DrawingName] when sink is not
// nil, also on a cache hit. Errors are those of [layout.Assembler.Assemble],
// plus TIMEOUT when opts.Timeout expires.
func (r *Runner) Layout(ctx context.Context, layer *graph.Graph, dims map[string]layout.Size, sink artifact.Sink, opts Options) (*layout.Placement, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	req := layout.Request{Layer: layer, Dimensions: dims, Separation: opts.Separation}
	if err := layout.Validate(req); err != nil {
		return nil, err
	}

	hash, err := GraphHash(layer)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "hash graph")
	}
	key := r.Keyer.LayoutKey(hash, opts.LayoutKeyOpts(dims))

	if data, ok := r.lookup(ctx, key, cache.KeyTypeLayout, opts.Refresh); ok {
		var e layoutEntry
		if err := json.Unmarshal(data, &e); err == nil {
			return r.cachedPlacement(ctx, e, sink, opts)
		}
		opts.Logger.Debug("ignoring corrupt cache entry", "key", key)
	}

	p, err := r.assemble(ctx, req, sink, opts)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(layoutEntry{Embedding: p.Embedding, SVG: p.SVG}); err == nil {
		r.store(ctx, key, cache.KeyTypeLayout, data, cache.TTLLayout)
	}
	return p, nil
}

func (r *Runner) assemble(ctx context.Context, req layout.Request, sink artifact.Sink, opts Options) (*layout.Placement, error) {
	tester := r.Tester
	if tester == nil {
		tester = planarity.LeftRight{}
	}
	var engine layout.Engine = orthogonal.Engine{Program: opts.Engine}
	if r.NewEngine != nil {
		engine = r.NewEngine(opts.Engine)
	}
	// The drawing is stored only after the deadline check below, never
	// from an abandoned run.
	asm := &layout.Assembler{Tester: tester, Engine: engine}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, opts.Engine, req.Layer.VertexCount())
	start := time.Now()

	p, err := withTimeout(ctx, opts.Timeout, "layout", func(ctx context.Context) (*layout.Placement, error) {
		return asm.Assemble(ctx, req)
	})
	hooks.OnLayoutComplete(ctx, opts.Engine, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	if p.Location, err = putDrawing(ctx, sink, p.SVG); err != nil {
		return nil, err
	}

	opts.Logger.Info("computed layout",
		"engine", opts.Engine,
		"vertices", len(p.Embedding),
		"duration", time.Since(start))
	return p, nil
}

func (r *Runner) cachedPlacement(ctx context.Context, e layoutEntry, sink artifact.Sink, opts Options) (*layout.Placement, error) {
	p := &layout.Placement{Embedding: e.Embedding, SVG: e.SVG}
	var err error
	if p.Location, err = putDrawing(ctx, sink, e.SVG); err != nil {
		return nil, err
	}
	opts.Logger.Info("computed layout", "engine", opts.Engine, "vertices", len(p.Embedding), "cached", true)
	return p, nil
}

// putDrawing stores svg in sink as [artifact.DrawingName]. A nil sink
// stores nothing.
func putDrawing(ctx context.Context, sink artifact.Sink, svg []byte) (string, error) {
	if sink == nil {
		return "", nil
	}
	loc, err := sink.Put(ctx, artifact.DrawingName, svg)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "store drawing")
	}
	return loc, nil
}
