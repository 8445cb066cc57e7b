package graph

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

const propVertices = 8

// fromCodes builds a graph on v0..v7 where each code selects one vertex pair.
func fromCodes(codes []int) *Graph {
	g := New()
	for i := 0; i < propVertices; i++ {
		g.AddVertex(fmt.Sprintf("v%d", i))
	}
	for _, c := range codes {
		u, v := c/propVertices, c%propVertices
		g.AddEdge(fmt.Sprintf("v%d", u), fmt.Sprintf("v%d", v), Count(1))
	}
	return g
}

func edgeSet(g *Graph) map[Pair]bool {
	out := make(map[Pair]bool, g.EdgeCount())
	for _, e := range g.Edges() {
		out[e.Pair()] = true
	}
	return out
}

// TestGraphInvariants checks structural invariants that must hold for any graph.
func TestGraphInvariants(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)
	codes := gen.SliceOf(gen.IntRange(0, propVertices*propVertices-1))

	properties.Property("degree sum is twice the edge count", prop.ForAll(
		func(cs []int) bool {
			g := fromCodes(cs)
			sum := 0
			for _, d := range g.Degrees() {
				sum += d
			}
			return sum == 2*g.EdgeCount() && len(g.Edges()) == g.EdgeCount()
		},
		codes,
	))

	properties.Property("adjacency is symmetric", prop.ForAll(
		func(cs []int) bool {
			g := fromCodes(cs)
			for _, v := range g.Vertices() {
				for _, n := range g.Neighbors(v) {
					if !g.HasEdge(n, v) {
						return false
					}
				}
			}
			return true
		},
		codes,
	))

	properties.Property("components partition vertices and edges", prop.ForAll(
		func(cs []int) bool {
			g := fromCodes(cs)
			seen := make(map[string]bool)
			edges := 0
			for _, c := range ConnectedComponents(g) {
				for _, v := range c.Vertices() {
					if seen[v] {
						return false
					}
					seen[v] = true
				}
				edges += c.EdgeCount()
			}
			return len(seen) == g.VertexCount() && edges == g.EdgeCount()
		},
		codes,
	))

	properties.Property("merging components restores the graph", prop.ForAll(
		func(cs []int) bool {
			g := fromCodes(cs)
			m := Merge(ConnectedComponents(g)...)
			want, got := edgeSet(g), edgeSet(m)
			if len(want) != len(got) || m.VertexCount() != g.VertexCount() {
				return false
			}
			for p := range want {
				if !got[p] {
					return false
				}
			}
			return true
		},
		codes,
	))

	properties.Property("clone matches original", prop.ForAll(
		func(cs []int) bool {
			g := fromCodes(cs)
			c := g.Clone()
			if c.VertexCount() != g.VertexCount() || c.EdgeCount() != g.EdgeCount() {
				return false
			}
			for _, e := range g.Edges() {
				p, ok := c.Edge(e.U, e.V)
				if !ok || p != e.Payload {
					return false
				}
			}
			return true
		},
		codes,
	))

	properties.TestingRun(t)
}
