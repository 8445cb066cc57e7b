package planarity

import (
	"fmt"
	"slices"

	"github.com/matzehuels/linkboard/pkg/graph"
)

// Progress describes one finished iteration of [Decomposer.Decompose].
type Progress struct {
	Layer     int // zero-based index in extraction order
	Edges     int // edges in the extracted layer
	Remaining int // edges still to be assigned
}

// Observer receives decomposition progress. It is called synchronously.
type Observer func(Progress)

// Decomposer splits a graph into planar layers.
//
// The number of layers is an upper bound on the graph thickness (the
// minimum number of planar graphs whose union is the input). The result is
// heuristic: it is not guaranteed to be minimal.
type Decomposer struct {
	Extractor *Extractor

	// Observer, if set, is notified after every extracted layer.
	Observer Observer
}

// NewDecomposer returns a Decomposer using [NewExtractor].
func NewDecomposer() *Decomposer {
	return &Decomposer{Extractor: NewExtractor()}
}

// MaxPlanarSubgraph extracts a maximal planar subgraph of g.
//
// g is split into connected components, each component is extracted
// independently, and the planar parts and the remaining parts are merged.
// Every edge of g ends up in exactly one of the two results.
func (d *Decomposer) MaxPlanarSubgraph(g *graph.Graph) (planar, remaining *graph.Graph, err error) {
	comps := graph.ConnectedComponents(g)
	planarParts := make([]*graph.Graph, 0, len(comps))
	remainingParts := make([]*graph.Graph, 0, len(comps))

	for i, c := range comps {
		p, r, err := d.Extractor.Extract(c)
		if err != nil {
			return nil, nil, fmt.Errorf("component %d: %w", i, err)
		}
		planarParts = append(planarParts, p)
		remainingParts = append(remainingParts, r)
	}
	return graph.Merge(planarParts...), graph.Merge(remainingParts...), nil
}

// Decompose splits g into planar layers whose edge sets partition the edges
// of g.
//
// Layers are extracted repeatedly from a working copy until no edges are
// left, then sorted by descending edge count (stable on ties). The first
// extracted layer keeps every vertex of g, later layers only the vertices
// of the edges they still had to place. An empty graph yields no layers.
//
// g is never modified. On error no layers are returned.
func (d *Decomposer) Decompose(g *graph.Graph) ([]*graph.Graph, error) {
	var layers []*graph.Graph
	work := g.Clone()

	for work.EdgeCount() > 0 {
		planar, remaining, err := d.MaxPlanarSubgraph(work)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", len(layers), err)
		}
		if planar.EdgeCount() == 0 {
			return nil, fmt.Errorf("layer %d: %w", len(layers), ErrNoProgress)
		}
		if d.Observer != nil {
			d.Observer(Progress{Layer: len(layers), Edges: planar.EdgeCount(), Remaining: remaining.EdgeCount()})
		}
		layers = append(layers, planar)
		work = remaining
	}

	slices.SortStableFunc(layers, func(a, b *graph.Graph) int {
		return b.EdgeCount() - a.EdgeCount()
	})
	return layers, nil
}

// Thickness returns the number of layers [Decomposer.Decompose] produces for g.
func (d *Decomposer) Thickness(g *graph.Graph) (int, error) {
	layers, err := d.Decompose(g)
	if err != nil {
		return 0, err
	}
	return len(layers), nil
}
