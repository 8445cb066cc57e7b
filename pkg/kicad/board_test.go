package kicad

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	apperrors "github.com/matzehuels/linkboard/pkg/errors"
	"github.com/matzehuels/linkboard/pkg/graph"
	"github.com/matzehuels/linkboard/pkg/layout"
)

func mustParse(t *testing.T, src string) *Board {
	t.Helper()
	b, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return b
}

func TestParseFootprints(t *testing.T) {
	b := mustParse(t, board)

	var refs []string
	for _, fp := range b.Footprints {
		refs = append(refs, fp.Reference)
	}
	if want := []string{"R1", "C1", "U1", "H1"}; !reflect.DeepEqual(refs, want) {
		t.Fatalf("references = %v, want %v", refs, want)
	}

	c1, ok := b.Footprint("C1")
	if !ok {
		t.Fatal("C1 not found")
	}
	if c1.Position != (Point{X: 110, Y: 50}) || c1.Angle != 90 {
		t.Errorf("C1 placement = %+v %v", c1.Position, c1.Angle)
	}

	h1, _ := b.Footprint("H1")
	if len(h1.Pads) != 0 {
		t.Errorf("H1 pads = %v, want none", h1.Pads)
	}

	if got, want := b.Nets(), []string{"", "GND", "VCC", "Net-(R1-Pad2)"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Nets() = %q, want %q", got, want)
	}
}

func TestParsePads(t *testing.T) {
	b := mustParse(t, board)

	tests := []struct {
		ref  string
		id   string
		net  string
		want Point
	}{
		{"R1", "R1@1", "VCC", Point{X: 99.2, Y: 50}},
		{"R1", "R1@2", "Net-(R1-Pad2)", Point{X: 100.8, Y: 50}},
		// rotated by 90 degrees counter-clockwise, y pointing down
		{"C1", "C1@1", "Net-(R1-Pad2)", Point{X: 110, Y: 50.8}},
		{"C1", "C1@2", "GND", Point{X: 110, Y: 49.2}},
		{"U1", "U1@8", "VCC", Point{X: 122.5, Y: 58.1}},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			fp, _ := b.Footprint(tt.ref)
			var pad *Pad
			for i := range fp.Pads {
				if fp.Pads[i].ID == tt.id {
					pad = &fp.Pads[i]
				}
			}
			if pad == nil {
				t.Fatalf("pad %s not found", tt.id)
			}
			if pad.Net != tt.net {
				t.Errorf("net = %q, want %q", pad.Net, tt.net)
			}
			if pad.Position != tt.want {
				t.Errorf("position = %+v, want %+v", pad.Position, tt.want)
			}
		})
	}
}

func TestParseLegacyModule(t *testing.T) {
	src := `(kicad_pcb (version 20171130)
  (net 0 "")
  (net 1 GND)
  (module R_0805 (layer F.Cu) (at 5 5)
    (fp_text reference R9 (at 0 0) (layer F.SilkS))
    (pad 1 smd rect (at -1 0) (size 1 1) (layers F.Cu) (net 1 GND))
    (pad 2 smd rect (at 1 0) (size 1 1) (layers F.Cu) (net 1 GND))
  )
  (module R_0805 (layer F.Cu) (at 15 5)
    (fp_text reference R10 (at 0 0) (layer F.SilkS))
    (pad 1 smd rect (at -1 0) (size 1 1) (layers F.Cu) (net 1 GND))
  )
)`
	b := mustParse(t, src)
	if len(b.Footprints) != 2 || b.Footprints[0].Reference != "R9" {
		t.Fatalf("footprints = %+v", b.Footprints)
	}
	conns := b.Connections()
	if len(conns) != 1 || !reflect.DeepEqual(conns[0].Pads, []string{"R9@1", "R9@2", "R10@1"}) {
		t.Errorf("Connections() = %+v", conns)
	}
}

func TestParseNetWithoutNumber(t *testing.T) {
	src := `(kicad_pcb (version 20240108)
  (footprint "A" (layer "F.Cu") (at 0 0)
    (property "Reference" "J1")
    (pad "1" thru_hole circle (at 0 0) (size 1 1) (layers "*.Cu") (net "SIG"))
  )
  (footprint "B" (layer "F.Cu") (at 10 0)
    (property "Reference" "J2")
    (pad "1" thru_hole circle (at 0 0) (size 1 1) (layers "*.Cu") (net "SIG"))
  )
)`
	b := mustParse(t, src)
	g := b.ComponentsGraph()
	if !g.HasEdge("J1", "J2") {
		t.Error("J1-J2 not connected through SIG")
	}
}

func TestParseMissingReference(t *testing.T) {
	src := `(kicad_pcb (version 20221018) (footprint "A" (layer "F.Cu") (at 1 2)))`
	b := mustParse(t, src)
	if b.Footprints[0].Reference != "FP1" {
		t.Errorf("reference = %q, want FP1", b.Footprints[0].Reference)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"empty", ""},
		{"wrong root", `(kicad_sch (version 20230121))`},
		{"unterminated string", `(kicad_pcb (net 1 "GND))`},
		{"footprint without at", `(kicad_pcb (footprint "A" (layer "F.Cu")))`},
		{"pad without at", `(kicad_pcb (footprint "A" (at 0 0) (pad "1" smd rect (size 1 1))))`},
		{"bad coordinate", `(kicad_pcb (footprint "A" (at x 0)))`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.src))
			if !apperrors.Is(err, apperrors.ErrCodeInvalidFormat) {
				t.Errorf("err = %v, want INVALID_FORMAT", err)
			}
		})
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "amp"+Extension)
	if err := os.WriteFile(path, []byte(board), 0o644); err != nil {
		t.Fatal(err)
	}
	b, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if b.Name != "amp" {
		t.Errorf("Name = %q, want amp", b.Name)
	}

	_, err = ParseFile(filepath.Join(dir, "missing"+Extension))
	if !apperrors.Is(err, apperrors.ErrCodeFileNotFound) {
		t.Errorf("err = %v, want FILE_NOT_FOUND", err)
	}
}

func TestConnections(t *testing.T) {
	b := mustParse(t, board)
	want := []Net{
		{Name: "GND", Pads: []string{"C1@2", "U1@4", "U1@5"}},
		{Name: "VCC", Pads: []string{"R1@1", "U1@1", "U1@8"}},
		{Name: "Net-(R1-Pad2)", Pads: []string{"R1@2", "C1@1", "U1@2"}},
	}
	if got := b.Connections(); !reflect.DeepEqual(got, want) {
		t.Errorf("Connections() =\n%+v\nwant\n%+v", got, want)
	}
}

func TestComponentsGraph(t *testing.T) {
	g := mustParse(t, board).ComponentsGraph()

	if g.VertexCount() != 4 || g.EdgeCount() != 3 {
		t.Fatalf("graph has %d vertices and %d edges, want 4 and 3", g.VertexCount(), g.EdgeCount())
	}
	if g.Degree("H1") != 0 {
		t.Error("H1 should be isolated")
	}

	p, _ := g.Edge("C1", "U1")
	want := graph.Connections{{From: "C1@2", To: "U1@4"}, {From: "C1@1", To: "U1@2"}}
	if !reflect.DeepEqual(p, want) {
		t.Errorf("C1-U1 payload = %v, want %v", p, want)
	}
	p, _ = g.Edge("R1", "U1")
	if !reflect.DeepEqual(p, graph.Connections{{From: "R1@1", To: "U1@1"}}) {
		t.Errorf("R1-U1 payload = %v", p)
	}
}

func TestPadsGraph(t *testing.T) {
	g := mustParse(t, board).PadsGraph()

	if g.VertexCount() != 9 {
		t.Errorf("vertices = %d, want 9", g.VertexCount())
	}
	// U1@4-U1@5 and U1@1-U1@8 sit on the same footprint
	if g.EdgeCount() != 4 {
		t.Errorf("edges = %d, want 4", g.EdgeCount())
	}
	if g.HasEdge("U1@4", "U1@5") {
		t.Error("pads of one footprint linked")
	}
	if p, _ := g.Edge("R1@2", "C1@1"); p != graph.Count(1) {
		t.Errorf("R1@2-C1@1 payload = %v, want 1", p)
	}
}

func TestPadsGraphCountsRepeatedPairs(t *testing.T) {
	src := `(kicad_pcb (version 20221018)
  (net 1 "A")
  (net 2 "B")
  (footprint "X" (layer "F.Cu") (at 0 0) (property "Reference" "J1")
    (pad "1" smd rect (at 0 0) (size 1 1) (net 1 "A")))
  (footprint "X" (layer "F.Cu") (at 0 0) (property "Reference" "J1")
    (pad "1" smd rect (at 0 0) (size 1 1) (net 2 "B")))
  (footprint "Y" (layer "F.Cu") (at 5 0) (property "Reference" "J2")
    (pad "1" smd rect (at 0 0) (size 1 1) (net 1 "A"))
    (pad "1" smd rect (at 0 0) (size 1 1) (net 2 "B")))
)`
	g := mustParse(t, src).PadsGraph()
	if p, _ := g.Edge("J1@1", "J2@1"); p != graph.Count(2) {
		t.Errorf("J1@1-J2@1 payload = %v, want 2", p)
	}
}

func TestAggregatedPads(t *testing.T) {
	got := mustParse(t, board).AggregatedPads()
	want := map[string][]string{
		"R1": {"R1@1", "R1@2"},
		"C1": {"C1@1", "C1@2"},
		"U1": {"U1@1", "U1@2", "U1@4", "U1@5", "U1@8"},
		"H1": {},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("AggregatedPads() = %v, want %v", got, want)
	}
}

func TestComponentDimensions(t *testing.T) {
	got := mustParse(t, board).ComponentDimensions(1)
	want := map[string]layout.Size{
		"R1": {Width: 3.6, Height: 2},
		"C1": {Width: 2, Height: 3.6},
		"U1": {Width: 7, Height: 5.8},
		"H1": {Width: 2, Height: 2},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ComponentDimensions(1) = %v, want %v", got, want)
	}
}
