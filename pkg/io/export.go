package io

import (
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/linkboard/pkg/graph"
	"github.com/matzehuels/linkboard/pkg/layout"
)

// Document is the file representation of an undirected graph.
type Document struct {
	Vertices []Vertex `json:"vertices" yaml:"vertices"`
	Edges    []Edge   `json:"edges" yaml:"edges"`
}

// Vertex is a vertex entry. Width and height are optional physical
// dimensions in millimetres used by layout.
type Vertex struct {
	ID     string   `json:"id" yaml:"id"`
	Width  *float64 `json:"width,omitempty" yaml:"width,omitempty"`
	Height *float64 `json:"height,omitempty" yaml:"height,omitempty"`
}

// Edge is an edge entry. Count is set for [graph.Count] payloads,
// Connections for [graph.Connections] payloads.
type Edge struct {
	U           string             `json:"u" yaml:"u"`
	V           string             `json:"v" yaml:"v"`
	Count       int                `json:"count,omitempty" yaml:"count,omitempty"`
	Connections []graph.Connection `json:"connections,omitempty" yaml:"connections,omitempty"`
}

// NewDocument converts g into a document in enumeration order. dims may be
// nil; vertices without an entry are written without dimensions.
func NewDocument(g *graph.Graph, dims map[string]layout.Size) Document {
	d := Document{
		Vertices: make([]Vertex, 0, g.VertexCount()),
		Edges:    make([]Edge, 0, g.EdgeCount()),
	}
	for _, v := range g.Vertices() {
		vx := Vertex{ID: v}
		if s, ok := dims[v]; ok {
			w, h := s.Width, s.Height
			vx.Width, vx.Height = &w, &h
		}
		d.Vertices = append(d.Vertices, vx)
	}
	for _, e := range g.Edges() {
		out := Edge{U: e.U, V: e.V}
		switch p := e.Payload.(type) {
		case graph.Count:
			out.Count = int(p)
		case graph.Connections:
			out.Connections = append([]graph.Connection(nil), p...)
		}
		d.Edges = append(d.Edges, out)
	}
	return d
}

// Write encodes d to w.
func Write(w io.Writer, f Format, d Document) error {
	return encode(w, f, d)
}

// WriteGraph encodes g without dimensions.
func WriteGraph(w io.Writer, f Format, g *graph.Graph) error {
	return encode(w, f, NewDocument(g, nil))
}

// Export writes d to path, choosing the format from the file extension.
func Export(path string, d Document) error {
	return writeFile(path, func(w io.Writer) error {
		return Write(w, FormatFromPath(path), d)
	})
}

// Layers is the file representation of a decomposition.
type Layers struct {
	Thickness int        `json:"thickness" yaml:"thickness"`
	Layers    []Document `json:"layers" yaml:"layers"`
}

// NewLayers converts decomposition layers into their file representation.
func NewLayers(layers []*graph.Graph) Layers {
	out := Layers{Thickness: len(layers), Layers: make([]Document, len(layers))}
	for i, l := range layers {
		out.Layers[i] = NewDocument(l, nil)
	}
	return out
}

// Graphs builds the graph of every layer.
func (l Layers) Graphs() ([]*graph.Graph, error) {
	out := make([]*graph.Graph, len(l.Layers))
	for i, d := range l.Layers {
		g, err := d.Build()
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		out[i] = g
	}
	return out, nil
}

// WriteLayers encodes a decomposition to w.
func WriteLayers(w io.Writer, f Format, layers []*graph.Graph) error {
	return encode(w, f, NewLayers(layers))
}

// ReadLayers decodes a decomposition from r.
func ReadLayers(r io.Reader, f Format) (Layers, error) {
	var l Layers
	if err := decode(r, f, &l); err != nil {
		return Layers{}, err
	}
	return l, nil
}

// ExportLayers writes a decomposition to path.
func ExportLayers(path string, layers []*graph.Graph) error {
	return writeFile(path, func(w io.Writer) error {
		return WriteLayers(w, FormatFromPath(path), layers)
	})
}

// WriteEmbedding encodes vertex positions as an object keyed by vertex id.
func WriteEmbedding(w io.Writer, f Format, e layout.Embedding) error {
	return encode(w, f, e)
}

// ExportEmbedding writes vertex positions to path.
func ExportEmbedding(path string, e layout.Embedding) error {
	return writeFile(path, func(w io.Writer) error {
		return WriteEmbedding(w, FormatFromPath(path), e)
	})
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
