package kicad

import (
	"math"

	"github.com/matzehuels/linkboard/pkg/graph"
	"github.com/matzehuels/linkboard/pkg/layout"
)

// Net is a named net and the pads attached to it.
type Net struct {
	Name string   `json:"name"`
	Pads []string `json:"pads"`
}

// Connections returns the nets that connect at least one pad, in
// declaration order followed by nets only named on pads. Pads are listed
// in footprint and pad order. The unnamed net is skipped.
func (b *Board) Connections() []Net {
	pads := make(map[string][]string)
	var order []string
	seen := make(map[string]bool)
	add := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			order = append(order, name)
		}
	}

	for _, name := range b.nets {
		add(name)
	}
	for _, fp := range b.Footprints {
		for _, p := range fp.Pads {
			if p.Net == "" {
				continue
			}
			add(p.Net)
			pads[p.Net] = append(pads[p.Net], p.ID)
		}
	}

	out := make([]Net, 0, len(order))
	for _, name := range order {
		if len(pads[name]) > 0 {
			out = append(out, Net{Name: name, Pads: pads[name]})
		}
	}
	return out
}

// owners maps every pad id to its footprint reference.
func (b *Board) owners() map[string]string {
	out := make(map[string]string)
	for _, fp := range b.Footprints {
		for _, p := range fp.Pads {
			out[p.ID] = fp.Reference
		}
	}
	return out
}

// chain calls link for consecutive pads of every net that belong to
// different footprints.
func (b *Board) chain(link func(srcPad, dstPad, srcRef, dstRef string)) {
	owner := b.owners()
	for _, net := range b.Connections() {
		for i := 1; i < len(net.Pads); i++ {
			src, dst := net.Pads[i-1], net.Pads[i]
			if owner[src] == owner[dst] {
				continue
			}
			link(src, dst, owner[src], owner[dst])
		}
	}
}

// ComponentsGraph returns the footprint-level connectivity graph.
//
// Every footprint is a vertex. Each net links its pads as a chain in pad
// order; a link between pads of two footprints adds an edge whose
// [graph.Connections] payload records the pad pair. Parallel links
// accumulate on the same edge.
func (b *Board) ComponentsGraph() *graph.Graph {
	g := graph.New()
	for _, fp := range b.Footprints {
		g.AddVertex(fp.Reference)
	}
	b.chain(func(src, dst, srcRef, dstRef string) {
		g.AddEdge(srcRef, dstRef, graph.Connections{{From: src, To: dst}})
	})
	return g
}

// PadsGraph returns the pad-level connectivity graph: one vertex per pad,
// one edge per chained pad pair with a [graph.Count] of how often the pair
// occurs.
func (b *Board) PadsGraph() *graph.Graph {
	g := graph.New()
	for _, fp := range b.Footprints {
		for _, p := range fp.Pads {
			g.AddVertex(p.ID)
		}
	}
	b.chain(func(src, dst, _, _ string) {
		g.AddEdge(src, dst, graph.Count(1))
	})
	return g
}

// AggregatedPads maps every footprint reference to its pad ids.
func (b *Board) AggregatedPads() map[string][]string {
	out := make(map[string][]string, len(b.Footprints))
	for _, fp := range b.Footprints {
		if _, ok := out[fp.Reference]; !ok {
			out[fp.Reference] = []string{}
		}
		for _, p := range fp.Pads {
			out[fp.Reference] = append(out[fp.Reference], p.ID)
		}
	}
	return out
}

// ComponentDimensions returns the size of every footprint: the bounding box
// of its pad centres grown by padding on each side. A footprint without pads
// is 2*padding square.
func (b *Board) ComponentDimensions(padding float64) map[string]layout.Size {
	type box struct{ minX, minY, maxX, maxY float64 }
	boxes := make(map[string]*box, len(b.Footprints))
	for _, fp := range b.Footprints {
		bb, ok := boxes[fp.Reference]
		if !ok {
			bb = &box{math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1)}
			boxes[fp.Reference] = bb
		}
		for _, p := range fp.Pads {
			bb.minX = min(bb.minX, p.Position.X)
			bb.minY = min(bb.minY, p.Position.Y)
			bb.maxX = max(bb.maxX, p.Position.X)
			bb.maxY = max(bb.maxY, p.Position.Y)
		}
	}

	out := make(map[string]layout.Size, len(boxes))
	for ref, bb := range boxes {
		w, h := 0.0, 0.0
		if !math.IsInf(bb.minX, 1) {
			w, h = bb.maxX-bb.minX, bb.maxY-bb.minY
		}
		out[ref] = layout.Size{Width: round(w + 2*padding), Height: round(h + 2*padding)}
	}
	return out
}
