package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/matzehuels/linkboard/pkg/cache"
	"github.com/matzehuels/linkboard/pkg/errors"
	"github.com/matzehuels/linkboard/pkg/graph"
	graphio "github.com/matzehuels/linkboard/pkg/io"
	"github.com/matzehuels/linkboard/pkg/observability"
	"github.com/matzehuels/linkboard/pkg/planarity"
)

// decomposeEntry is the cached form of a decomposition.
type decomposeEntry struct {
	Layers   graphio.Layers `json:"layers"`
	Selected int            `json:"selected"`
}

// Decompose splits g into planar layers with caching and selects the layer
// for layout.
//
// The selected layer is opts.Layer when set, otherwise the one chosen by
// opts.Policy. An out of range opts.Layer is an INVALID_INPUT error. g is
// not modified.
func (r *Runner) Decompose(ctx context.Context, g *graph.Graph, opts Options) (*Decomposition, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	start := time.Now()
	hash, err := GraphHash(g)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "hash graph")
	}
	key := r.Keyer.DecomposeKey(hash, cache.DecomposeKeyOpts{Policy: opts.Policy})

	d := &Decomposition{GraphHash: hash, Selected: -1}
	if data, ok := r.lookup(ctx, key, cache.KeyTypeDecompose, opts.Refresh); ok {
		if layers, selected, err := decodeDecomposition(data); err == nil {
			d.Layers, d.Selected, d.CacheHit = layers, selected, true
		} else {
			opts.Logger.Debug("ignoring corrupt cache entry", "key", key, "err", err)
		}
	}

	if !d.CacheHit {
		layers, err := r.decompose(ctx, g, opts)
		if err != nil {
			return nil, err
		}
		d.Layers = layers
		d.Selected = opts.policy()(layers)
		if data, err := encodeDecomposition(layers, d.Selected); err == nil {
			r.store(ctx, key, cache.KeyTypeDecompose, data, cache.TTLDecompose)
		}
	}

	d.Thickness = len(d.Layers)
	if opts.Layer != nil {
		if *opts.Layer >= len(d.Layers) {
			return nil, errors.New(errors.ErrCodeInvalidInput, "layer %d out of range (thickness %d)", *opts.Layer, len(d.Layers))
		}
		d.Selected = *opts.Layer
	}
	d.Duration = time.Since(start)

	opts.Logger.Info("decomposed graph",
		"vertices", g.VertexCount(),
		"edges", g.EdgeCount(),
		"thickness", d.Thickness,
		"cached", d.CacheHit,
		"duration", d.Duration)
	return d, nil
}

// decompose runs the decomposer under the timeout and fires pipeline hooks.
func (r *Runner) decompose(ctx context.Context, g *graph.Graph, opts Options) ([]*graph.Graph, error) {
	hooks := observability.Pipeline()
	hooks.OnDecomposeStart(ctx, g.VertexCount(), g.EdgeCount())
	start := time.Now()

	newDecomposer := r.NewDecomposer
	if newDecomposer == nil {
		newDecomposer = planarity.NewDecomposer
	}
	dec := newDecomposer()
	dec.Observer = func(p planarity.Progress) {
		hooks.OnLayer(ctx, p.Layer, p.Edges, p.Remaining)
		opts.Logger.Debug("extracted layer", "layer", p.Layer, "edges", p.Edges, "remaining", p.Remaining)
	}

	layers, err := withTimeout(ctx, opts.Timeout, "decomposition", func(context.Context) ([]*graph.Graph, error) {
		return dec.Decompose(g)
	})
	hooks.OnDecomposeComplete(ctx, len(layers), time.Since(start), err)
	if err != nil {
		if errors.GetCode(err) != "" {
			return nil, err
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "decompose")
	}
	return layers, nil
}

func encodeDecomposition(layers []*graph.Graph, selected int) ([]byte, error) {
	return json.Marshal(decomposeEntry{Layers: graphio.NewLayers(layers), Selected: selected})
}

func decodeDecomposition(data []byte) ([]*graph.Graph, int, error) {
	var e decomposeEntry
	if err := json.NewDecoder(bytes.NewReader(data)).Decode(&e); err != nil {
		return nil, 0, err
	}
	layers, err := e.Layers.Graphs()
	if err != nil {
		return nil, 0, err
	}
	return layers, e.Selected, nil
}
