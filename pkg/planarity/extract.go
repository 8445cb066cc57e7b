package planarity

import (
	"fmt"
	"math"
	"slices"

	"github.com/matzehuels/linkboard/pkg/graph"
)

// CostFunc weighs an edge of g. Heavier edges are kept in the planar
// subgraph preferentially.
type CostFunc func(g *graph.Graph, e graph.Edge) float64

// DegreeProduct is the default [CostFunc]: deg(u) * deg(v) in g.
func DegreeProduct(g *graph.Graph, e graph.Edge) float64 {
	return float64(g.Degree(e.U) * g.Degree(e.V))
}

// EdgeBound returns the maximum number of edges of a simple planar graph on
// n vertices (3n - 6), or math.MaxInt when n < 3 and every graph is planar.
func EdgeBound(n int) int {
	if n < 3 {
		return math.MaxInt
	}
	return 3*n - 6
}

// Extractor computes a maximal planar subgraph of a connected graph.
//
// Extraction is a two step heuristic:
//
//  1. Seed: the [SubgraphFinder] proposes a planar subgraph and a set of
//     deleted edges.
//  2. Greedy re-insertion: deleted edges are tried in order of descending
//     cost (ties keep the finder's order) and kept whenever the [Tester]
//     still reports a planar graph. Re-insertion stops as soon as the planar
//     part reaches the 3n-6 edge bound.
//
// The zero value is not usable; use [NewExtractor] or fill every field.
type Extractor struct {
	Tester Tester
	Finder SubgraphFinder
	Cost   CostFunc
}

// NewExtractor returns an Extractor with the default collaborators:
// [LeftRight], [Cactus] and [DegreeProduct].
func NewExtractor() *Extractor {
	return &Extractor{Tester: LeftRight{}, Finder: Cactus{}, Cost: DegreeProduct}
}

// Extract splits the edges of g into a planar part and a remaining part.
//
// The planar graph contains every vertex of g; the remaining graph contains
// only the endpoints of its edges. Every edge of g ends up in exactly one of
// the two, with a cloned payload. g is not modified. Collaborator errors are
// returned unchanged (wrapped) and no partial result is produced.
func (x *Extractor) Extract(g *graph.Graph) (planar, remaining *graph.Graph, err error) {
	cost := x.Cost
	if cost == nil {
		cost = DegreeProduct
	}

	costs := make(map[graph.Pair]float64, g.EdgeCount())
	for _, e := range g.Edges() {
		costs[e.Pair()] = cost(g, e)
	}

	deleted, err := x.Finder.PlanarSubgraph(g, costs)
	if err != nil {
		return nil, nil, fmt.Errorf("planar subgraph: %w", err)
	}

	planar = g.Clone()
	pending := make([]graph.Pair, 0, len(deleted))
	for _, p := range deleted {
		p = graph.NewPair(p.A, p.B)
		if !planar.HasEdge(p.A, p.B) {
			if g.HasEdge(p.A, p.B) {
				continue // reported twice
			}
			return nil, nil, fmt.Errorf("%w: %s-%s", ErrUnknownEdge, p.A, p.B)
		}
		planar.RemoveEdge(p.A, p.B)
		pending = append(pending, p)
	}

	slices.SortStableFunc(pending, func(a, b graph.Pair) int {
		return compareDesc(costs[a], costs[b])
	})

	bound := EdgeBound(g.VertexCount())
	remaining = graph.New()
	for i, p := range pending {
		if planar.EdgeCount() >= bound {
			for _, rest := range pending[i:] {
				payload, _ := g.Edge(rest.A, rest.B)
				remaining.AddEdge(rest.A, rest.B, payload)
			}
			break
		}

		payload, _ := g.Edge(p.A, p.B)
		planar.AddEdge(p.A, p.B, payload)
		ok, err := x.Tester.IsPlanar(planar)
		if err != nil {
			return nil, nil, fmt.Errorf("planarity test: %w", err)
		}
		if !ok {
			planar.RemoveEdge(p.A, p.B)
			remaining.AddEdge(p.A, p.B, payload)
		}
	}
	return planar, remaining, nil
}
