package planarity

import (
	"fmt"

	"github.com/matzehuels/linkboard/pkg/graph"
)

// Policy names accepted by [ParsePolicy].
const (
	PolicyLargest  = "largest"
	PolicySpanning = "spanning"
)

// Policies lists the valid policy names.
var Policies = []string{PolicyLargest, PolicySpanning}

// Policy chooses the layer that is passed on to layout. It returns an index
// into layers, or -1 when layers is empty.
type Policy func(layers []*graph.Graph) int

// SelectLargest picks the layer with the most edges; the first one on ties.
// For the sorted output of [Decomposer.Decompose] this is always index 0.
func SelectLargest(layers []*graph.Graph) int {
	best := -1
	for i, l := range layers {
		if best < 0 || l.EdgeCount() > layers[best].EdgeCount() {
			best = i
		}
	}
	return best
}

// SelectSpanning picks the layer covering the most vertices, breaking ties
// by edge count and then by position.
func SelectSpanning(layers []*graph.Graph) int {
	best := -1
	for i, l := range layers {
		if best < 0 {
			best = i
			continue
		}
		b := layers[best]
		if l.VertexCount() > b.VertexCount() ||
			(l.VertexCount() == b.VertexCount() && l.EdgeCount() > b.EdgeCount()) {
			best = i
		}
	}
	return best
}

// ParsePolicy returns the policy registered under name. The empty name
// selects [SelectLargest].
func ParsePolicy(name string) (Policy, error) {
	switch name {
	case "", PolicyLargest:
		return SelectLargest, nil
	case PolicySpanning:
		return SelectSpanning, nil
	default:
		return nil, fmt.Errorf("unknown layer policy %q (valid: %v)", name, Policies)
	}
}
