package layout

import (
	"context"
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"

	"github.com/matzehuels/linkboard/pkg/artifact"
	"github.com/matzehuels/linkboard/pkg/errors"
	"github.com/matzehuels/linkboard/pkg/graph"
	"github.com/matzehuels/linkboard/pkg/planarity"
)

// Separation limits in millimetres.
const (
	DefaultSeparation = 10.0
	MinSeparation     = 1.0
)

// Size is the physical footprint of a vertex in millimetres.
type Size struct {
	Width  float64 `json:"width" yaml:"width" bson:"width"`
	Height float64 `json:"height" yaml:"height" bson:"height"`
}

// Point is a position in millimetres. Y grows downwards, as on a board.
type Point struct {
	X float64 `json:"x" yaml:"x" bson:"x"`
	Y float64 `json:"y" yaml:"y" bson:"y"`
}

// Embedding maps every vertex of a laid-out layer to the centre of its box.
type Embedding map[string]Point

// Request is the input of an [Engine].
type Request struct {
	Layer      *graph.Graph
	Dimensions map[string]Size
	Separation float64
}

// Result is the output of an [Engine]: one position per vertex and an SVG
// drawing of the layout.
type Result struct {
	Positions Embedding
	SVG       []byte
}

// Engine computes an orthogonal drawing of a planar graph with sized
// vertices. Implementations may assume the request has been validated.
type Engine interface {
	Layout(ctx context.Context, req Request) (Result, error)
}

// Placement is the outcome of [Assembler.Assemble].
type Placement struct {
	Embedding Embedding
	SVG       []byte
	// Location is where the drawing was stored, empty without a sink.
	Location string
}

// Assembler turns a planar layer and vertex dimensions into an embedding.
type Assembler struct {
	Tester planarity.Tester
	Engine Engine

	// Sink receives the SVG drawing under DrawingName. Optional.
	Sink        artifact.Sink
	DrawingName string
}

// NewAssembler returns an Assembler that checks planarity with
// [planarity.LeftRight] and stores the drawing as [artifact.DrawingName].
func NewAssembler(engine Engine, sink artifact.Sink) *Assembler {
	return &Assembler{
		Tester:      planarity.LeftRight{},
		Engine:      engine,
		Sink:        sink,
		DrawingName: artifact.DrawingName,
	}
}

// Assemble lays out req.Layer.
//
// Missing or non-positive dimensions, an empty layer and a separation
// below [MinSeparation] are configuration errors. A non-planar layer, an
// engine failure or an engine result that does not place every vertex are
// layout errors. Either way no partial placement is returned.
func (a *Assembler) Assemble(ctx context.Context, req Request) (*Placement, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}

	planar, err := a.Tester.IsPlanar(req.Layer)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeLayoutFailed, err, "planarity test")
	}
	if !planar {
		return nil, errors.New(errors.ErrCodeNotPlanar, "layer with %d vertices and %d edges is not planar",
			req.Layer.VertexCount(), req.Layer.EdgeCount())
	}

	res, err := a.Engine.Layout(ctx, req)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeLayoutFailed, err, "layout engine")
	}
	for _, v := range req.Layer.Vertices() {
		if _, ok := res.Positions[v]; !ok {
			return nil, errors.New(errors.ErrCodeLayoutFailed, "layout engine did not place vertex %q", v)
		}
	}

	p := &Placement{Embedding: maps.Clone(res.Positions), SVG: res.SVG}
	if a.Sink != nil {
		name := a.DrawingName
		if name == "" {
			name = artifact.DrawingName
		}
		loc, err := a.Sink.Put(ctx, name, res.SVG)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "store drawing")
		}
		p.Location = loc
	}
	return p, nil
}

// Validate checks a request without running the engine.
func Validate(req Request) error {
	if req.Layer == nil || req.Layer.VertexCount() == 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "layer has no vertices")
	}
	if math.IsNaN(req.Separation) || math.IsInf(req.Separation, 0) || req.Separation < MinSeparation {
		return errors.New(errors.ErrCodeInvalidConfig, "separation %v is below the minimum of %v", req.Separation, MinSeparation)
	}

	var missing, invalid []string
	for _, v := range req.Layer.Vertices() {
		s, ok := req.Dimensions[v]
		switch {
		case !ok:
			missing = append(missing, v)
		case !(s.Width > 0) || !(s.Height > 0):
			invalid = append(invalid, v)
		}
	}
	if len(missing) > 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "missing dimensions for %s", list(missing))
	}
	if len(invalid) > 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "non-positive dimensions for %s", list(invalid))
	}
	return nil
}

// list formats up to five ids for an error message.
func list(ids []string) string {
	slices.Sort(ids)
	if len(ids) > 5 {
		return fmt.Sprintf("%s and %d more", strings.Join(ids[:5], ", "), len(ids)-5)
	}
	return strings.Join(ids, ", ")
}
