package pipeline

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/matzehuels/linkboard/pkg/analysis"
	"github.com/matzehuels/linkboard/pkg/artifact"
	"github.com/matzehuels/linkboard/pkg/cache"
	"github.com/matzehuels/linkboard/pkg/errors"
	"github.com/matzehuels/linkboard/pkg/kicad"
)

// Analyze computes the structure analysis of b with caching. Entries are
// keyed by the board text.
func (r *Runner) Analyze(ctx context.Context, b *kicad.Board, opts Options) (analysis.Report, error) {
	r.applyLogger(&opts)

	key := r.Keyer.AnalysisKey(cache.Hash(b.Source()))
	if data, ok := r.lookup(ctx, key, cache.KeyTypeAnalysis, opts.Refresh); ok {
		var rep analysis.Report
		if err := json.Unmarshal(data, &rep); err == nil {
			rep.Board = b.Name
			return rep, nil
		}
	}

	rep := analysis.AnalyzeBoard(b)
	if data, err := json.Marshal(rep); err == nil {
		r.store(ctx, key, cache.KeyTypeAnalysis, data, cache.TTLAnalysis)
	}
	opts.Logger.Debug("analyzed board",
		"footprints", rep.Footprints,
		"pads", rep.Pads,
		"nets", len(rep.Nets))
	return rep, nil
}

// Build runs the full board flow: analysis, decomposition of the components
// graph, layout of the selected layer and the rewrite of the board with the
// new footprint positions.
//
// The drawing is stored in sink as [artifact.DrawingName] and the board as
// [UpdatedBoardName]; with a nil sink nothing is stored. b is updated in
// place. A board without connections has no layer to lay out and yields an
// INVALID_INPUT error.
func (r *Runner) Build(ctx context.Context, b *kicad.Board, sink artifact.Sink, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	rep, err := r.Analyze(ctx, b, opts)
	if err != nil {
		return nil, err
	}
	res := &Result{Analysis: rep, BoardName: UpdatedBoardName(b.Name)}

	in := BoardInput(b, opts.padding())
	d, err := r.Decompose(ctx, in.Graph, opts)
	if err != nil {
		return nil, err
	}
	res.Decomposition = d

	layer := d.Layer()
	if layer == nil || layer.EdgeCount() == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "board %q has no connections between footprints", b.Name)
	}
	opts.Logger.Info("recommended layers", "thickness", d.Thickness, "selected", d.Selected)

	p, err := r.Layout(ctx, layer, in.Dimensions, sink, opts)
	if err != nil {
		return nil, err
	}
	res.Placement = p
	res.DrawingLocation = p.Location

	moved := b.SetPositions(p.Embedding)
	opts.Logger.Debug("moved footprints", "count", moved)
	if sink == nil {
		return res, nil
	}

	var buf bytes.Buffer
	if err := b.Write(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "write board")
	}
	loc, err := sink.Put(ctx, res.BoardName, buf.Bytes())
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "store board")
	}
	res.BoardLocation = loc
	opts.Logger.Info("stored artifacts", "drawing", res.DrawingLocation, "board", res.BoardLocation)
	return res, nil
}
