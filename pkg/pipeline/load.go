package pipeline

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/matzehuels/linkboard/pkg/errors"
	"github.com/matzehuels/linkboard/pkg/graph"
	graphio "github.com/matzehuels/linkboard/pkg/io"
	"github.com/matzehuels/linkboard/pkg/kicad"
	"github.com/matzehuels/linkboard/pkg/layout"
	"github.com/matzehuels/linkboard/pkg/observability"
)

// Input is a graph loaded by [Runner.Load] together with the dimensions of
// its vertices.
type Input struct {
	Name string
	// Board is set for KiCad inputs and nil for graph documents.
	Board      *kicad.Board
	Graph      *graph.Graph
	Dimensions map[string]layout.Size
}

// BoardInput builds the components graph input of b. Footprint dimensions
// are the pad bounding boxes grown by padding.
func BoardInput(b *kicad.Board, padding float64) *Input {
	return &Input{
		Name:       b.Name,
		Board:      b,
		Graph:      b.ComponentsGraph(),
		Dimensions: b.ComponentDimensions(padding),
	}
}

// Load reads a KiCad board (.kicad_pcb) or a graph document (.json, .yaml,
// .yml) from path.
func (r *Runner) Load(ctx context.Context, path string, opts Options) (*Input, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if !strings.EqualFold(filepath.Ext(path), kicad.Extension) {
		doc, err := graphio.Import(path)
		if err != nil {
			return nil, err
		}
		g, err := doc.Build()
		if err != nil {
			return nil, err
		}
		opts.Logger.Info("loaded graph", "path", path, "vertices", g.VertexCount(), "edges", g.EdgeCount())
		return &Input{Name: name, Graph: g, Dimensions: doc.Dimensions()}, nil
	}

	b, err := r.parse(ctx, path, func() (*kicad.Board, error) {
		return kicad.ParseFile(path)
	})
	if err != nil {
		return nil, err
	}
	in := BoardInput(b, opts.padding())
	opts.Logger.Info("parsed board", "path", path, "footprints", len(b.Footprints), "nets", len(b.Nets()))
	return in, nil
}

// ParseBoard reads a KiCad board from rd and names it name.
func (r *Runner) ParseBoard(ctx context.Context, rd io.Reader, name string) (*kicad.Board, error) {
	b, err := r.parse(ctx, name, func() (*kicad.Board, error) {
		return kicad.Parse(rd)
	})
	if err != nil {
		return nil, err
	}
	b.Name = name
	return b, nil
}

func (r *Runner) parse(ctx context.Context, source string, fn func() (*kicad.Board, error)) (*kicad.Board, error) {
	hooks := observability.Pipeline()
	hooks.OnParseStart(ctx, source)
	start := time.Now()

	b, err := fn()
	footprints := 0
	if b != nil {
		footprints = len(b.Footprints)
	}
	hooks.OnParseComplete(ctx, source, footprints, time.Since(start), err)
	if err != nil {
		if errors.GetCode(err) == "" {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse %s", source)
		}
		return nil, err
	}
	return b, nil
}
