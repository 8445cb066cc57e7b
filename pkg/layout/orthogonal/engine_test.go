package orthogonal

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/matzehuels/linkboard/pkg/graph"
	"github.com/matzehuels/linkboard/pkg/layout"
)

func request() layout.Request {
	g := graph.New()
	g.AddEdge("R1", "C1", graph.Count(1))
	g.AddEdge("C1", "U1", graph.Count(2))
	g.AddVertex("J1")
	return layout.Request{
		Layer: g,
		Dimensions: map[string]layout.Size{
			"R1": {Width: 25.4, Height: 12.7},
			"C1": {Width: 5, Height: 5},
			"U1": {Width: 10, Height: 20},
			"J1": {Width: 2, Height: 2},
		},
		Separation: 10,
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(request())

	tests := []struct {
		name string
		want string
	}{
		{"undirected", "graph G {"},
		{"orthogonal splines", "splines=ortho;"},
		{"overlap removal", "overlap=false;"},
		{"half separation in points", `sep="+14.1732";`},
		{"node colors", "fillcolor=gold"},
		{"edge color", "edge [color=orange"},
		{"first vertex", `v0 [label="R1", width=1.0000, height=0.5000];`},
		{"isolated vertex", `v3 [label="J1"`},
		{"edge", "v1 -- v0;"},
		{"second edge", "v1 -- v2;"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(dot, tt.want) {
				t.Errorf("DOT missing %q:\n%s", tt.want, dot)
			}
		})
	}
	if strings.Contains(dot, "->") {
		t.Error("DOT contains directed edges")
	}
}

func TestToDOTQuotesLabels(t *testing.T) {
	g := graph.New()
	g.AddVertex(`J"1`)
	dot := ToDOT(layout.Request{
		Layer:      g,
		Dimensions: map[string]layout.Size{`J"1`: {Width: 1, Height: 1}},
		Separation: 1,
	})
	if !strings.Contains(dot, `label="J\"1"`) {
		t.Errorf("label not escaped:\n%s", dot)
	}
}

const xdotOutput = `graph G {
	graph [bb="0,0,226.5,118",
		esep="+11.3386",
		overlap=false,
		sep="+14.1732",
		splines=ortho
	];
	node [label="\N"];
	v0	[height=0.5,
		label=R1,
		pos="36,100",
		width=1];
	v1	[height=0.19685,
		label=C1,
		pos="110.5,100",
		width=0.19685];
	v0 -- v1	[pos="72,100 110.5,100"];
	v2	[height=0.7874,
		label=U1,
		pos="110.5,28.346",
		width=0.3937];
	v1 -- v2;
	v3	[_draw_="c 7 -#ffd700 p 4 226.5 \
8 200.5 8 200.5 0 226.5 0 ",
		height=0.07874,
		label=J1,
		pos="213.5,4",
		width=0.07874];
}
`

func TestParsePositions(t *testing.T) {
	ids := []string{"R1", "C1", "U1", "J1"}
	pos, err := ParsePositions([]byte(xdotOutput), ids)
	if err != nil {
		t.Fatalf("ParsePositions: %v", err)
	}

	want := layout.Embedding{
		"R1": {X: 36, Y: 100},
		"C1": {X: 110.5, Y: 100},
		"U1": {X: 110.5, Y: 28.346},
		"J1": {X: 213.5, Y: 4},
	}
	for id, w := range want {
		if got := pos[id]; got != w {
			t.Errorf("%s = %+v, want %+v", id, got, w)
		}
	}
}

func TestParsePositionsMissing(t *testing.T) {
	_, err := ParsePositions([]byte(xdotOutput), []string{"R1", "C1", "U1", "J1", "X9"})
	if err == nil || !strings.Contains(err.Error(), `"X9"`) {
		t.Errorf("err = %v, want missing X9", err)
	}
}

func TestNormalize(t *testing.T) {
	points := layout.Embedding{
		"a": {X: 72, Y: 144},
		"b": {X: 144, Y: 72},
	}
	dims := map[string]layout.Size{
		"a": {Width: 10, Height: 10},
		"b": {Width: 20, Height: 4},
	}
	got := normalize(points, dims)

	// a: (25.4, -50.8), b: (50.8, -25.4); top-left corner at (20.4, -55.8)
	want := layout.Embedding{
		"a": {X: 5, Y: 5},
		"b": {X: 30.4, Y: 30.4},
	}
	for id, w := range want {
		g := got[id]
		if math.Abs(g.X-w.X) > 1e-6 || math.Abs(g.Y-w.Y) > 1e-6 {
			t.Errorf("%s = %+v, want %+v", id, g, w)
		}
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<?xml version="1.0"?><svg width="144pt" height="72pt" viewBox="0.00 0.00 144.00 72.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 144.00 72.00" width="50.80mm" height="25.40mm"`) {
		t.Errorf("header not rewritten: %s", out)
	}
	if !strings.Contains(out, "<g/>") {
		t.Error("body lost")
	}

	plain := []byte("<svg></svg>")
	if got := normalizeViewBox(plain); string(got) != string(plain) {
		t.Errorf("svg without viewBox changed: %s", got)
	}
}

func TestParseProgram(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", ProgramNeato, false},
		{"neato", ProgramNeato, false},
		{"fdp", ProgramFDP, false},
		{"dot", ProgramDot, false},
		{"circo", "", true},
	}
	for _, tt := range tests {
		got, err := ParseProgram(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseProgram(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestLayoutCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (Engine{}).Layout(ctx, request()); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestLayoutUnknownProgram(t *testing.T) {
	if _, err := (Engine{Program: "osage"}).Layout(context.Background(), request()); err == nil {
		t.Error("expected error for unknown program")
	}
}
