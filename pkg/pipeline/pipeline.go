// Package pipeline runs the linkboard flow shared by the CLI and the HTTP
// server.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Load: read a KiCad board or a graph document into a graph plus vertex
//     dimensions
//  2. Decompose: split the graph into planar layers
//  3. Layout: place the vertices of one layer orthogonally
//  4. Write: store the drawing and the updated board in an artifact sink
//
// Each stage can be run independently or as part of [Runner.Build]. Results
// of the expensive stages are cached through [cache.Cache].
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	board, err := kicad.ParseFile("amp.kicad_pcb")
//	if err != nil {
//	    return err
//	}
//	res, err := runner.Build(ctx, board, artifact.NewDirSink("out"), pipeline.Options{})
//	if err != nil {
//	    return err
//	}
//	fmt.Println("recommended layers:", res.Decomposition.Thickness)
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/linkboard/pkg/analysis"
	"github.com/matzehuels/linkboard/pkg/cache"
	"github.com/matzehuels/linkboard/pkg/errors"
	"github.com/matzehuels/linkboard/pkg/graph"
	"github.com/matzehuels/linkboard/pkg/layout"
	"github.com/matzehuels/linkboard/pkg/layout/orthogonal"
	"github.com/matzehuels/linkboard/pkg/planarity"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultSeparation is the minimum distance between placed components in
	// millimetres.
	DefaultSeparation = layout.DefaultSeparation

	// DefaultPadding is added on every side of a footprint's pad bounding
	// box.
	DefaultPadding = 1.0

	// DefaultPolicy selects the layer with the most edges.
	DefaultPolicy = planarity.PolicyLargest

	// DefaultEngine is the Graphviz program used for layout.
	DefaultEngine = orthogonal.ProgramNeato
)

var validate = validator.New()

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Decompose options
	Policy string `json:"policy,omitempty" validate:"omitempty,oneof=largest spanning"`
	// Layer, if set, selects a layer by index and overrides Policy.
	Layer *int `json:"layer,omitempty" validate:"omitempty,min=0"`

	// Layout options
	Separation float64 `json:"separation,omitempty" validate:"min=1"`
	Engine     string  `json:"engine,omitempty" validate:"omitempty,oneof=neato fdp dot"`
	// Padding around each footprint's pads in millimetres. Nil selects
	// DefaultPadding; zero is a valid padding.
	Padding *float64 `json:"padding,omitempty" validate:"omitempty,min=0"`

	// Timeout bounds a decomposition or layout. Zero means no limit.
	Timeout time.Duration `json:"timeout,omitempty" validate:"min=0"`
	// Refresh bypasses cache reads; results are still written.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-" validate:"-"`
}

// SetDefaults fills zero values with the package defaults.
func (o *Options) SetDefaults() {
	if o.Policy == "" {
		o.Policy = DefaultPolicy
	}
	if o.Separation == 0 {
		o.Separation = DefaultSeparation
	}
	if o.Padding == nil {
		p := DefaultPadding
		o.Padding = &p
	}
	if o.Engine == "" {
		o.Engine = DefaultEngine
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate sets defaults and checks every field. Failures are
// configuration errors.
func (o *Options) Validate() error {
	o.SetDefaults()
	if err := validate.Struct(o); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// padding returns the footprint padding, DefaultPadding when unset.
func (o *Options) padding() float64 {
	if o.Padding == nil {
		return DefaultPadding
	}
	return *o.Padding
}

// LayoutKeyOpts returns cache key options for a layout of a layer with the
// given dimensions.
func (o *Options) LayoutKeyOpts(dims map[string]layout.Size) cache.LayoutKeyOpts {
	h, _ := cache.HashJSON(dims)
	return cache.LayoutKeyOpts{
		Engine:         o.Engine,
		Separation:     o.Separation,
		DimensionsHash: h,
	}
}

func (o *Options) policy() planarity.Policy {
	p, err := planarity.ParsePolicy(o.Policy)
	if err != nil {
		return planarity.SelectLargest
	}
	return p
}

func formatValidationError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid options")
	}

	e := verrs[0]
	field := e.Field()
	switch e.Tag() {
	case "min":
		return errors.New(errors.ErrCodeInvalidConfig, "%s: must be at least %s", field, e.Param())
	case "oneof":
		return errors.New(errors.ErrCodeInvalidConfig, "%s: %v is not one of %s", field, e.Value(), e.Param())
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "%s: validation failed (%s)", field, e.Tag())
	}
}

// =============================================================================
// Results
// =============================================================================

// Decomposition is the result of [Runner.Decompose].
type Decomposition struct {
	// Layers are sorted by descending edge count.
	Layers []*graph.Graph
	// Thickness is the number of layers, the recommended layer count.
	Thickness int
	// Selected is the index of the layer chosen for layout, -1 without
	// layers.
	Selected int

	GraphHash string
	CacheHit  bool
	Duration  time.Duration
}

// Layer returns the selected layer, or nil.
func (d *Decomposition) Layer() *graph.Graph {
	if d.Selected < 0 || d.Selected >= len(d.Layers) {
		return nil
	}
	return d.Layers[d.Selected]
}

// Result is the outcome of [Runner.Build].
type Result struct {
	Analysis      analysis.Report
	Decomposition *Decomposition
	Placement     *layout.Placement

	// Artifact locations as returned by the sink.
	DrawingLocation string
	BoardLocation   string
	BoardName       string
}

// UpdatedBoardName returns the artifact name of the rewritten board.
func UpdatedBoardName(name string) string {
	if name == "" {
		name = "board"
	}
	return fmt.Sprintf("updated-%s.kicad_pcb", name)
}
