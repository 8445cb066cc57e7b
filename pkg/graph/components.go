package graph

// ConnectedComponents splits g into its connected components.
//
// Components are discovered by depth-first traversal in vertex order, so the
// first component contains the first vertex of g. Each component graph holds
// exactly the vertices and edges of its component (isolated vertices become
// single-vertex components) with cloned payloads; vertex order inside a
// component follows the order in g. g is not modified.
func ConnectedComponents(g *Graph) []*Graph {
	comp := make(map[int]int, g.live)
	count := 0

	for h, s := range g.slots {
		if !s.alive {
			continue
		}
		if _, seen := comp[h]; seen {
			continue
		}
		stack := []int{h}
		comp[h] = count
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, n := range g.slots[cur].nbrs {
				if _, seen := comp[n]; !seen {
					comp[n] = count
					stack = append(stack, n)
				}
			}
		}
		count++
	}

	out := make([]*Graph, count)
	for i := range out {
		out[i] = New()
	}
	for h, s := range g.slots {
		if s.alive {
			out[comp[h]].AddVertex(s.id)
		}
	}
	for _, e := range g.Edges() {
		// Both endpoints share a component id by connectivity.
		out[comp[g.index[e.U]]].putEdge(e.U, e.V, e.Payload, true)
	}
	return out
}

// Merge returns the union of the given graphs.
//
// Vertices and edges are added in argument order. When the same pair appears
// in more than one input, the payload of the later graph replaces the earlier
// one; callers that want accumulation must merge payloads beforehand.
// Nil graphs are skipped. The inputs are not modified.
func Merge(graphs ...*Graph) *Graph {
	out := New()
	for _, g := range graphs {
		if g == nil {
			continue
		}
		for _, v := range g.Vertices() {
			out.AddVertex(v)
		}
		for _, e := range g.Edges() {
			out.putEdge(e.U, e.V, e.Payload, true)
		}
	}
	return out
}
