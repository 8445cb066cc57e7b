package graph

import (
	"slices"
)

// Edge is one undirected edge as returned by [Graph.Edges].
// U is always the lexicographically smaller endpoint.
type Edge struct {
	U       string
	V       string
	Payload Payload
}

// Pair returns the canonical endpoint pair of the edge.
func (e Edge) Pair() Pair { return NewPair(e.U, e.V) }

// Pair is an unordered vertex pair stored in canonical order (A <= B).
// It is comparable and can be used as a map key.
type Pair struct {
	A string
	B string
}

// NewPair returns the canonical pair for u and v.
func NewPair(u, v string) Pair {
	if v < u {
		u, v = v, u
	}
	return Pair{A: u, B: v}
}

// link is the edge record shared by both endpoints of an edge, so the
// payload seen from either side is always the same value.
type link struct {
	payload Payload
}

// slot is one arena entry. Removed vertices leave a dead slot behind so the
// handles of the remaining vertices stay valid; [Graph.Clone] compacts.
type slot struct {
	id    string
	alive bool
	nbrs  []int         // neighbor handles in insertion order
	links map[int]*link // neighbor handle -> shared edge record
}

// Graph is an undirected simple graph with edge payloads.
//
// Vertices live in an arena and are addressed internally by integer handles;
// each vertex keeps its neighbors in insertion order, which makes every
// enumeration ([Graph.Vertices], [Graph.Neighbors], [Graph.Edges],
// [Graph.Degrees]) deterministic.
//
// Lookups of missing vertices or edges never fail: they return zero values,
// and mutations of missing elements are no-ops.
//
// The zero value is not usable - use New to create a graph.
// Graph is not safe for concurrent use without external synchronization.
type Graph struct {
	slots []slot
	index map[string]int
	live  int
	edges int
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{index: make(map[string]int)}
}

// AddVertex adds v if it is not already present.
func (g *Graph) AddVertex(v string) {
	g.handle(v)
}

// handle returns the handle of v, creating the vertex if needed.
func (g *Graph) handle(v string) int {
	if h, ok := g.index[v]; ok {
		return h
	}
	h := len(g.slots)
	g.slots = append(g.slots, slot{id: v, alive: true, links: make(map[int]*link)})
	g.index[v] = h
	g.live++
	return h
}

// RemoveVertex removes v together with all incident edges.
func (g *Graph) RemoveVertex(v string) {
	h, ok := g.index[v]
	if !ok {
		return
	}
	for _, n := range g.slots[h].nbrs {
		g.unlink(n, h)
	}
	g.edges -= len(g.slots[h].nbrs)
	g.slots[h] = slot{id: v}
	delete(g.index, v)
	g.live--
}

// AddEdge inserts the edge {u, v}, creating missing endpoints.
//
// The graph stores its own clone of payload. When the edge already exists,
// payload is merged into the existing payload instead of replacing it
// (see [Payload]). Self-loops are never created: for u == v only the vertex
// is added.
func (g *Graph) AddEdge(u, v string, payload Payload) {
	g.putEdge(u, v, payload, false)
}

// putEdge inserts or updates {u, v}. With replace set, an existing payload is
// overwritten instead of merged.
func (g *Graph) putEdge(u, v string, payload Payload, replace bool) {
	hu := g.handle(u)
	if u == v {
		return
	}
	hv := g.handle(v)

	if l, ok := g.slots[hu].links[hv]; ok {
		switch {
		case replace:
			l.payload = clonePayload(payload)
		case l.payload == nil:
			l.payload = clonePayload(payload)
		case payload != nil:
			l.payload = l.payload.Merge(payload)
		}
		return
	}

	l := &link{payload: clonePayload(payload)}
	g.slots[hu].links[hv] = l
	g.slots[hu].nbrs = append(g.slots[hu].nbrs, hv)
	g.slots[hv].links[hu] = l
	g.slots[hv].nbrs = append(g.slots[hv].nbrs, hu)
	g.edges++
}

// RemoveEdge removes the edge {u, v} if it exists. Endpoints are kept.
func (g *Graph) RemoveEdge(u, v string) {
	hu, ok := g.index[u]
	if !ok {
		return
	}
	hv, ok := g.index[v]
	if !ok {
		return
	}
	if _, ok := g.slots[hu].links[hv]; !ok {
		return
	}
	g.unlink(hu, hv)
	g.unlink(hv, hu)
	g.edges--
}

// unlink drops the half-edge from handle a to handle b.
func (g *Graph) unlink(a, b int) {
	s := &g.slots[a]
	delete(s.links, b)
	if i := slices.Index(s.nbrs, b); i >= 0 {
		s.nbrs = slices.Delete(s.nbrs, i, i+1)
	}
}

// HasVertex reports whether v is in the graph.
func (g *Graph) HasVertex(v string) bool {
	_, ok := g.index[v]
	return ok
}

// HasEdge reports whether the edge {u, v} exists.
func (g *Graph) HasEdge(u, v string) bool {
	_, ok := g.link(u, v)
	return ok
}

// Edge returns the payload of {u, v} and whether the edge exists.
// The returned payload is owned by the graph; use [Graph.UpdateEdge] to change it.
func (g *Graph) Edge(u, v string) (Payload, bool) {
	l, ok := g.link(u, v)
	if !ok {
		return nil, false
	}
	return l.payload, true
}

// UpdateEdge merges payload into the payload of the existing edge {u, v}.
// It does nothing if the edge is absent, and reports whether it was applied.
func (g *Graph) UpdateEdge(u, v string, payload Payload) bool {
	if _, ok := g.link(u, v); !ok {
		return false
	}
	g.putEdge(u, v, payload, false)
	return true
}

func (g *Graph) link(u, v string) (*link, bool) {
	hu, ok := g.index[u]
	if !ok {
		return nil, false
	}
	hv, ok := g.index[v]
	if !ok {
		return nil, false
	}
	l, ok := g.slots[hu].links[hv]
	return l, ok
}

// Vertices returns all vertex ids in insertion order.
func (g *Graph) Vertices() []string {
	out := make([]string, 0, g.live)
	for _, s := range g.slots {
		if s.alive {
			out = append(out, s.id)
		}
	}
	return out
}

// Neighbors returns the neighbors of v in insertion order.
// Returns nil if v does not exist.
func (g *Graph) Neighbors(v string) []string {
	h, ok := g.index[v]
	if !ok {
		return nil
	}
	out := make([]string, len(g.slots[h].nbrs))
	for i, n := range g.slots[h].nbrs {
		out[i] = g.slots[n].id
	}
	return out
}

// Degree returns the number of neighbors of v, or 0 if v does not exist.
func (g *Graph) Degree(v string) int {
	h, ok := g.index[v]
	if !ok {
		return 0
	}
	return len(g.slots[h].nbrs)
}

// Degrees returns one degree per vertex, in [Graph.Vertices] order.
func (g *Graph) Degrees() []int {
	out := make([]int, 0, g.live)
	for _, s := range g.slots {
		if s.alive {
			out = append(out, len(s.nbrs))
		}
	}
	return out
}

// Edges returns every edge exactly once.
//
// Edges are listed by their first endpoint in vertex order and then by
// neighbor insertion order; an edge is reported from its lexicographically
// smaller endpoint, which is always stored in [Edge.U].
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, g.edges)
	for _, s := range g.slots {
		if !s.alive {
			continue
		}
		for _, n := range s.nbrs {
			other := g.slots[n].id
			if s.id < other {
				out = append(out, Edge{U: s.id, V: other, Payload: s.links[n].payload})
			}
		}
	}
	return out
}

// VertexCount returns the number of vertices.
func (g *Graph) VertexCount() int { return g.live }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return g.edges }

// Clone returns a deep copy of g: vertices (including isolated ones), edges
// and independently owned payload clones. Enumeration order is preserved and
// dead arena slots are compacted away.
func (g *Graph) Clone() *Graph {
	c := &Graph{
		slots: make([]slot, 0, g.live),
		index: make(map[string]int, g.live),
		live:  g.live,
		edges: g.edges,
	}
	remap := make(map[int]int, g.live)
	for h, s := range g.slots {
		if !s.alive {
			continue
		}
		remap[h] = len(c.slots)
		c.index[s.id] = len(c.slots)
		c.slots = append(c.slots, slot{id: s.id, alive: true, links: make(map[int]*link, len(s.links))})
	}
	for h, s := range g.slots {
		if !s.alive {
			continue
		}
		nh := remap[h]
		nbrs := make([]int, len(s.nbrs))
		for i, n := range s.nbrs {
			nn := remap[n]
			nbrs[i] = nn
			if l, ok := c.slots[nn].links[nh]; ok {
				c.slots[nh].links[nn] = l
			} else {
				c.slots[nh].links[nn] = &link{payload: clonePayload(s.links[n].payload)}
			}
		}
		c.slots[nh].nbrs = nbrs
	}
	return c
}
