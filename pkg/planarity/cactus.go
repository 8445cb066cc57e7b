package planarity

import (
	"slices"

	"github.com/matzehuels/linkboard/pkg/graph"
)

// Cactus is a [SubgraphFinder] that builds a triangular cactus and completes
// it to a spanning forest.
//
// Triangles of the graph are visited by descending total edge cost; a
// triangle is taken when its three corners still lie in three different
// parts of the structure built so far, so taken triangles never close a
// cycle through each other. The remaining edges are then added Kruskal-style
// by descending cost whenever they connect two different parts. The result
// is a cactus of triangles and tree edges, which is always planar; every
// other edge is reported as deleted.
//
// This is the approximation of Calinescu et al. for the maximum planar
// subgraph problem (ratio 4/9 on unweighted graphs). The zero value is ready
// to use.
type Cactus struct{}

type triangle struct {
	a, b, c int
	weight  float64
}

// PlanarSubgraph implements [SubgraphFinder]. Deleted edges are returned in
// canonical edge order. Edges missing from costs weigh zero.
func (Cactus) PlanarSubgraph(g *graph.Graph, costs map[graph.Pair]float64) ([]graph.Pair, error) {
	vertices := g.Vertices()
	idx := make(map[string]int, len(vertices))
	for i, v := range vertices {
		idx[v] = i
	}
	cost := func(a, b int) float64 {
		return costs[graph.NewPair(vertices[a], vertices[b])]
	}

	// Enumerate each triangle once with a < b < c.
	adjacent := make([]map[int]bool, len(vertices))
	for i, v := range vertices {
		adjacent[i] = make(map[int]bool, g.Degree(v))
		for _, n := range g.Neighbors(v) {
			adjacent[i][idx[n]] = true
		}
	}
	var triangles []triangle
	for a, v := range vertices {
		nbrs := g.Neighbors(v)
		for _, nb := range nbrs {
			b := idx[nb]
			if b <= a {
				continue
			}
			for _, nc := range nbrs {
				c := idx[nc]
				if c <= b || !adjacent[b][c] {
					continue
				}
				triangles = append(triangles, triangle{
					a: a, b: b, c: c,
					weight: cost(a, b) + cost(b, c) + cost(a, c),
				})
			}
		}
	}
	slices.SortStableFunc(triangles, func(x, y triangle) int {
		return compareDesc(x.weight, y.weight)
	})

	uf := newUnionFind(len(vertices))
	kept := make(map[graph.Pair]bool)
	keep := func(a, b int) {
		kept[graph.NewPair(vertices[a], vertices[b])] = true
	}

	for _, t := range triangles {
		ra, rb, rc := uf.find(t.a), uf.find(t.b), uf.find(t.c)
		if ra == rb || rb == rc || ra == rc {
			continue
		}
		uf.union(ra, rb)
		uf.union(ra, rc)
		keep(t.a, t.b)
		keep(t.b, t.c)
		keep(t.a, t.c)
	}

	edges := g.Edges()
	order := slices.Clone(edges)
	slices.SortStableFunc(order, func(x, y graph.Edge) int {
		return compareDesc(costs[x.Pair()], costs[y.Pair()])
	})
	for _, e := range order {
		if kept[e.Pair()] {
			continue
		}
		if uf.union(idx[e.U], idx[e.V]) {
			kept[e.Pair()] = true
		}
	}

	var deleted []graph.Pair
	for _, e := range edges {
		if !kept[e.Pair()] {
			deleted = append(deleted, e.Pair())
		}
	}
	return deleted, nil
}

func compareDesc(a, b float64) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	default:
		return 0
	}
}

// unionFind is a disjoint-set forest with path halving and union by size.
type unionFind struct {
	parent []int
	size   []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n), size: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
		uf.size[i] = 1
	}
	return uf
}

func (uf *unionFind) find(x int) int {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

// union joins the sets of a and b and reports whether they were distinct.
func (uf *unionFind) union(a, b int) bool {
	ra, rb := uf.find(a), uf.find(b)
	if ra == rb {
		return false
	}
	if uf.size[ra] < uf.size[rb] {
		ra, rb = rb, ra
	}
	uf.parent[rb] = ra
	uf.size[ra] += uf.size[rb]
	return true
}
