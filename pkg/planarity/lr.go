package planarity

import (
	"slices"

	"github.com/matzehuels/linkboard/pkg/graph"
)

// LeftRight is a [Tester] implementing the left-right planarity test of
// de Fraysseix and Rosenstiehl in the formulation of Brandes.
//
// The test runs in two depth-first passes: an orientation pass computes
// heights, lowpoints and nesting depths for every edge, and a testing pass
// maintains a stack of conflict pairs of return-edge intervals. The graph is
// planar when every constraint can be resolved by assigning each interval to
// a left or a right side. Running time is linear in the size of the graph.
//
// Only the decision is computed; no embedding is built. The zero value is
// ready to use and safe for concurrent use.
type LeftRight struct{}

// IsPlanar reports whether g is planar. It never returns an error.
func (LeftRight) IsPlanar(g *graph.Graph) (bool, error) {
	return newLRState(g).planar(), nil
}

// none marks an absent edge reference.
const none = -1

// interval is a range of return edges, identified by the lowest and highest
// edge id on one side of a conflict pair.
type interval struct {
	low, high int
}

func emptyInterval() interval { return interval{low: none, high: none} }

func (i interval) empty() bool { return i.low == none && i.high == none }

// conflictPair holds the return edges that must go on opposite sides.
type conflictPair struct {
	left, right interval
}

func newConflictPair() *conflictPair {
	return &conflictPair{left: emptyInterval(), right: emptyInterval()}
}

func (p *conflictPair) swap() { p.left, p.right = p.right, p.left }

// arc is an undirected adjacency entry: neighbor vertex and edge id.
type arc struct {
	to, edge int
}

// lrState is the working state of one planarity test. Vertices and edges
// are renumbered densely; edge ids index all per-edge slices.
type lrState struct {
	n, m int
	adj  [][]arc // undirected adjacency in neighbor order

	// Orientation.
	oriented   []bool
	src, dst   []int
	out        [][]int // outgoing oriented edges per vertex
	height     []int   // none while unvisited
	parentEdge []int
	roots      []int

	// Per-edge lowpoints.
	lowpt        []int
	lowpt2       []int
	nestingDepth []int

	// Testing.
	ref         []int
	lowptEdge   []int
	stackBottom []*conflictPair
	stack       []*conflictPair
}

func newLRState(g *graph.Graph) *lrState {
	vertices := g.Vertices()
	idx := make(map[string]int, len(vertices))
	for i, v := range vertices {
		idx[v] = i
	}

	s := &lrState{n: len(vertices), adj: make([][]arc, len(vertices))}
	for id, e := range g.Edges() {
		u, v := idx[e.U], idx[e.V]
		s.adj[u] = append(s.adj[u], arc{to: v, edge: id})
		s.adj[v] = append(s.adj[v], arc{to: u, edge: id})
		s.m++
	}
	return s
}

func fill(n, v int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func (s *lrState) planar() bool {
	if s.n > 2 && s.m > 3*s.n-6 {
		return false
	}

	s.oriented = make([]bool, s.m)
	s.src = fill(s.m, none)
	s.dst = fill(s.m, none)
	s.out = make([][]int, s.n)
	s.height = fill(s.n, none)
	s.parentEdge = fill(s.n, none)
	s.lowpt = make([]int, s.m)
	s.lowpt2 = make([]int, s.m)
	s.nestingDepth = make([]int, s.m)

	for v := 0; v < s.n; v++ {
		if s.height[v] == none {
			s.height[v] = 0
			s.roots = append(s.roots, v)
			s.orient(v)
		}
	}

	for v := 0; v < s.n; v++ {
		slices.SortStableFunc(s.out[v], func(a, b int) int {
			return s.nestingDepth[a] - s.nestingDepth[b]
		})
	}

	s.ref = fill(s.m, none)
	s.lowptEdge = fill(s.m, none)
	s.stackBottom = make([]*conflictPair, s.m)
	for _, r := range s.roots {
		if !s.test(r) {
			return false
		}
	}
	return true
}

// =============================================================================
// Orientation pass
// =============================================================================

func (s *lrState) orient(v int) {
	e := s.parentEdge[v]
	for _, a := range s.adj[v] {
		vw, w := a.edge, a.to
		if s.oriented[vw] {
			continue
		}
		s.oriented[vw] = true
		s.src[vw], s.dst[vw] = v, w
		s.out[v] = append(s.out[v], vw)

		s.lowpt[vw] = s.height[v]
		s.lowpt2[vw] = s.height[v]
		if s.height[w] == none {
			// tree edge
			s.parentEdge[w] = vw
			s.height[w] = s.height[v] + 1
			s.orient(w)
		} else {
			// back edge
			s.lowpt[vw] = s.height[w]
		}

		s.nestingDepth[vw] = 2 * s.lowpt[vw]
		if s.lowpt2[vw] < s.height[v] {
			// chordal
			s.nestingDepth[vw]++
		}

		if e == none {
			continue
		}
		switch {
		case s.lowpt[vw] < s.lowpt[e]:
			s.lowpt2[e] = min(s.lowpt[e], s.lowpt2[vw])
			s.lowpt[e] = s.lowpt[vw]
		case s.lowpt[vw] > s.lowpt[e]:
			s.lowpt2[e] = min(s.lowpt2[e], s.lowpt[vw])
		default:
			s.lowpt2[e] = min(s.lowpt2[e], s.lowpt2[vw])
		}
	}
}

// =============================================================================
// Testing pass
// =============================================================================

func (s *lrState) top() *conflictPair {
	if len(s.stack) == 0 {
		return nil
	}
	return s.stack[len(s.stack)-1]
}

func (s *lrState) pop() *conflictPair {
	p := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	return p
}

// conflicting reports whether interval i has a return edge above lowpt(b).
func (s *lrState) conflicting(i interval, b int) bool {
	return !i.empty() && i.high != none && s.lowpt[i.high] > s.lowpt[b]
}

func (s *lrState) lowest(p *conflictPair) int {
	switch {
	case p.left.empty():
		return s.lowpt[p.right.low]
	case p.right.empty():
		return s.lowpt[p.left.low]
	default:
		return min(s.lowpt[p.left.low], s.lowpt[p.right.low])
	}
}

func (s *lrState) test(v int) bool {
	e := s.parentEdge[v]
	for i, ei := range s.out[v] {
		w := s.dst[ei]
		s.stackBottom[ei] = s.top()
		if ei == s.parentEdge[w] {
			if !s.test(w) {
				return false
			}
		} else {
			s.lowptEdge[ei] = ei
			s.stack = append(s.stack, &conflictPair{left: emptyInterval(), right: interval{low: ei, high: ei}})
		}

		// integrate new return edges
		if s.lowpt[ei] < s.height[v] {
			if i == 0 {
				s.lowptEdge[e] = s.lowptEdge[ei]
			} else if !s.addConstraints(ei, e) {
				return false
			}
		}
	}

	if e != none {
		s.removeBackEdges(e)
	}
	return true
}

func (s *lrState) addConstraints(ei, e int) bool {
	p := newConflictPair()

	// merge return edges of ei into p.right
	for {
		q := s.pop()
		if !q.left.empty() {
			q.swap()
		}
		if !q.left.empty() {
			return false
		}
		if s.lowpt[q.right.low] > s.lowpt[e] {
			if p.right.empty() {
				p.right = q.right
			} else {
				s.setRef(p.right.low, q.right.high)
			}
			p.right.low = q.right.low
		} else {
			s.setRef(q.right.low, s.lowptEdge[e])
		}
		if s.top() == s.stackBottom[ei] {
			break
		}
	}

	// merge conflicting return edges of earlier siblings into p.left
	for {
		t := s.top()
		if t == nil || !(s.conflicting(t.left, ei) || s.conflicting(t.right, ei)) {
			break
		}
		q := s.pop()
		if s.conflicting(q.right, ei) {
			q.swap()
		}
		if s.conflicting(q.right, ei) {
			return false
		}
		s.setRef(p.right.low, q.right.high)
		if q.right.low != none {
			p.right.low = q.right.low
		}
		if p.left.empty() {
			p.left = q.left
		} else {
			s.setRef(p.left.low, q.left.high)
		}
		p.left.low = q.left.low
	}

	if !p.left.empty() || !p.right.empty() {
		s.stack = append(s.stack, p)
	}
	return true
}

func (s *lrState) setRef(e, target int) {
	if e != none {
		s.ref[e] = target
	}
}

// removeBackEdges trims the return edges ending at the parent of tree edge e.
func (s *lrState) removeBackEdges(e int) {
	u := s.src[e]

	for len(s.stack) > 0 && s.lowest(s.top()) == s.height[u] {
		s.pop()
	}

	if len(s.stack) > 0 {
		p := s.pop()

		for p.left.high != none && s.dst[p.left.high] == u {
			p.left.high = s.ref[p.left.high]
		}
		if p.left.high == none && p.left.low != none {
			s.ref[p.left.low] = p.right.low
			p.left.low = none
		}

		for p.right.high != none && s.dst[p.right.high] == u {
			p.right.high = s.ref[p.right.high]
		}
		if p.right.high == none && p.right.low != none {
			s.ref[p.right.low] = p.left.low
			p.right.low = none
		}
		s.stack = append(s.stack, p)
	}

	// e inherits the side of its highest return edge
	if s.lowpt[e] < s.height[u] && len(s.stack) > 0 {
		hl, hr := s.top().left.high, s.top().right.high
		if hl != none && (hr == none || s.lowpt[hl] > s.lowpt[hr]) {
			s.ref[e] = hl
		} else {
			s.ref[e] = hr
		}
	}
}
