package analysis

import (
	"cmp"
	"slices"

	"github.com/matzehuels/linkboard/pkg/kicad"
)

// Report is the structure analysis of a board.
type Report struct {
	Board      string      `json:"board,omitempty" bson:"board,omitempty"`
	Footprints int         `json:"footprints" bson:"footprints"`
	Pads       int         `json:"pads" bson:"pads"`
	Nets       []kicad.Net `json:"nets" bson:"nets"`

	ComponentsGraph Stats `json:"components_graph" bson:"components_graph"`
	PadsGraph       Stats `json:"pads_graph" bson:"pads_graph"`
}

// AnalyzeBoard analyzes the component and pad graphs of b. Nets are sorted
// by name.
func AnalyzeBoard(b *kicad.Board) Report {
	r := Report{
		Board:           b.Name,
		Footprints:      len(b.Footprints),
		Nets:            b.Connections(),
		ComponentsGraph: Analyze(b.ComponentsGraph()),
		PadsGraph:       Analyze(b.PadsGraph()),
	}
	for _, fp := range b.Footprints {
		r.Pads += len(fp.Pads)
	}
	slices.SortStableFunc(r.Nets, func(a, b kicad.Net) int {
		return cmp.Compare(a.Name, b.Name)
	})
	return r
}
