package io

import (
	"bytes"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	apperrors "github.com/matzehuels/linkboard/pkg/errors"
	"github.com/matzehuels/linkboard/pkg/graph"
	"github.com/matzehuels/linkboard/pkg/layout"
)

func TestReadGraphJSON(t *testing.T) {
	src := `{
  "vertices": [{"id": "R1", "width": 3.6, "height": 2}, {"id": "C1"}, {"id": "U1"}, {"id": "J1"}],
  "edges": [
    {"u": "R1", "v": "C1", "count": 2},
    {"u": "C1", "v": "U1", "connections": [{"from": "C1@1", "to": "U1@2"}]},
    {"u": "U1", "v": "R1"}
  ]
}`
	d, err := Read(strings.NewReader(src), FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	g, err := d.Build()
	if err != nil {
		t.Fatal(err)
	}

	if g.VertexCount() != 4 || g.EdgeCount() != 3 {
		t.Fatalf("graph has %d vertices and %d edges", g.VertexCount(), g.EdgeCount())
	}
	if p, _ := g.Edge("C1", "R1"); p != graph.Count(2) {
		t.Errorf("C1-R1 payload = %v", p)
	}
	if p, _ := g.Edge("U1", "C1"); !reflect.DeepEqual(p, graph.Connections{{From: "C1@1", To: "U1@2"}}) {
		t.Errorf("C1-U1 payload = %v", p)
	}
	if p, ok := g.Edge("R1", "U1"); !ok || p != nil {
		t.Errorf("R1-U1 payload = %v, %v", p, ok)
	}

	dims := d.Dimensions()
	if want := map[string]layout.Size{"R1": {Width: 3.6, Height: 2}}; !reflect.DeepEqual(dims, want) {
		t.Errorf("Dimensions() = %v, want %v", dims, want)
	}
}

func TestReadGraphYAML(t *testing.T) {
	src := `
edges:
  - {u: a, v: b}
  - {u: b, v: c, count: 3}
`
	g, err := ReadGraph(strings.NewReader(src), FormatYAML)
	if err != nil {
		t.Fatal(err)
	}
	if got := g.Vertices(); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("vertices = %v", got)
	}
	if p, _ := g.Edge("b", "c"); p != graph.Count(3) {
		t.Errorf("b-c payload = %v", p)
	}
}

func TestReadGraphErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code apperrors.Code
	}{
		{"malformed", `{"vertices": [`, apperrors.ErrCodeInvalidFormat},
		{"empty id", `{"vertices": [{"id": ""}]}`, apperrors.ErrCodeInvalidGraph},
		{"duplicate vertex", `{"vertices": [{"id": "a"}, {"id": "a"}]}`, apperrors.ErrCodeInvalidGraph},
		{"unknown vertex", `{"vertices": [{"id": "a"}], "edges": [{"u": "a", "v": "b"}]}`, apperrors.ErrCodeInvalidGraph},
		{"empty endpoint", `{"edges": [{"u": "a", "v": ""}]}`, apperrors.ErrCodeInvalidGraph},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadGraph(strings.NewReader(tt.src), FormatJSON)
			if !apperrors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestExportImport(t *testing.T) {
	g := graph.New()
	g.AddEdge("R1", "C1", graph.Connections{{From: "R1@2", To: "C1@1"}})
	g.AddEdge("C1", "U1", graph.Count(4))
	g.AddVertex("H1")
	dims := map[string]layout.Size{"R1": {Width: 3.6, Height: 2}, "H1": {Width: 2, Height: 2}}

	for _, name := range []string{"graph.json", "graph.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			if err := Export(path, NewDocument(g, dims)); err != nil {
				t.Fatalf("Export: %v", err)
			}
			d, err := Import(path)
			if err != nil {
				t.Fatalf("Import: %v", err)
			}
			got, err := d.Build()
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(got.Vertices(), g.Vertices()) || !reflect.DeepEqual(got.Edges(), g.Edges()) {
				t.Errorf("imported %v %v, want %v %v", got.Vertices(), got.Edges(), g.Vertices(), g.Edges())
			}
			if !reflect.DeepEqual(d.Dimensions(), dims) {
				t.Errorf("dimensions = %v, want %v", d.Dimensions(), dims)
			}
		})
	}
}

func TestImportMissing(t *testing.T) {
	_, err := Import(filepath.Join(t.TempDir(), "nope.json"))
	if !apperrors.Is(err, apperrors.ErrCodeFileNotFound) {
		t.Errorf("err = %v, want FILE_NOT_FOUND", err)
	}
}

func TestLayers(t *testing.T) {
	a := graph.New()
	a.AddEdge("x", "y", nil)
	a.AddEdge("y", "z", nil)
	b := graph.New()
	b.AddEdge("x", "z", nil)

	var buf bytes.Buffer
	if err := WriteLayers(&buf, FormatJSON, []*graph.Graph{a, b}); err != nil {
		t.Fatal(err)
	}
	l, err := ReadLayers(&buf, FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	if l.Thickness != 2 {
		t.Errorf("thickness = %d, want 2", l.Thickness)
	}
	graphs, err := l.Graphs()
	if err != nil {
		t.Fatal(err)
	}
	if graphs[0].EdgeCount() != 2 || !graphs[1].HasEdge("x", "z") {
		t.Errorf("layers = %v, %v", graphs[0].Edges(), graphs[1].Edges())
	}
}

func TestWriteEmbedding(t *testing.T) {
	var buf bytes.Buffer
	e := layout.Embedding{"R1": {X: 0, Y: 3}, "C1": {X: 12.5, Y: 3}}
	if err := WriteEmbedding(&buf, FormatJSON, e); err != nil {
		t.Fatal(err)
	}
	want := `{
  "C1": {
    "x": 12.5,
    "y": 3
  },
  "R1": {
    "x": 0,
    "y": 3
  }
}
`
	if buf.String() != want {
		t.Errorf("WriteEmbedding() =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]Format{
		"g.json":  FormatJSON,
		"g.YAML":  FormatYAML,
		"g.yml":   FormatYAML,
		"g":       FormatJSON,
		"dir/g.x": FormatJSON,
	}
	for path, want := range tests {
		if got := FormatFromPath(path); got != want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", path, got, want)
		}
	}
}
