package planarity

import (
	"errors"

	"github.com/matzehuels/linkboard/pkg/graph"
)

var (
	// ErrUnknownEdge is returned by [Extractor.Extract] when the
	// [SubgraphFinder] reports a deleted edge that is not part of the input.
	ErrUnknownEdge = errors.New("subgraph finder deleted an unknown edge")

	// ErrNoProgress is returned by [Decomposer.Decompose] when an iteration
	// extracts a planar layer without edges. This only happens with a
	// misbehaving Tester or SubgraphFinder and would otherwise loop forever.
	ErrNoProgress = errors.New("decomposition made no progress")
)

// Tester decides whether a graph is planar.
//
// Implementations must not modify g. The default implementation is
// [LeftRight].
type Tester interface {
	IsPlanar(g *graph.Graph) (bool, error)
}

// SubgraphFinder computes a planar subgraph of a connected graph and reports
// the edges that are not part of it.
//
// costs holds one weight per edge of g keyed by canonical pair; heavier edges
// should be kept preferentially. The edges that remain after removing the
// returned pairs from g must form a planar graph. The default implementation
// is [Cactus].
type SubgraphFinder interface {
	PlanarSubgraph(g *graph.Graph, costs map[graph.Pair]float64) (deleted []graph.Pair, err error)
}

// TesterFunc adapts a plain function to the [Tester] interface.
type TesterFunc func(g *graph.Graph) (bool, error)

// IsPlanar calls f(g).
func (f TesterFunc) IsPlanar(g *graph.Graph) (bool, error) { return f(g) }
