package io

import (
	"fmt"
	"io"
	"os"

	apperrors "github.com/matzehuels/linkboard/pkg/errors"
	"github.com/matzehuels/linkboard/pkg/graph"
	"github.com/matzehuels/linkboard/pkg/layout"
)

// Build converts a decoded document into a graph.
//
// Build returns an INVALID_GRAPH error if:
//   - A vertex id is empty, too long or contains control characters
//   - A vertex is listed twice
//   - An edge references a vertex missing from a non-empty vertex list
//
// When the vertex list is empty, vertices are taken from the edges.
// Edges listed twice are merged like repeated [graph.Graph.AddEdge] calls.
func (d Document) Build() (*graph.Graph, error) {
	g := graph.New()
	for _, v := range d.Vertices {
		if err := apperrors.ValidateVertexID(v.ID); err != nil {
			return nil, err
		}
		if g.HasVertex(v.ID) {
			return nil, apperrors.New(apperrors.ErrCodeInvalidGraph, "duplicate vertex %q", v.ID)
		}
		g.AddVertex(v.ID)
	}

	strict := len(d.Vertices) > 0
	for _, e := range d.Edges {
		for _, id := range []string{e.U, e.V} {
			if err := apperrors.ValidateVertexID(id); err != nil {
				return nil, err
			}
			if strict && !g.HasVertex(id) {
				return nil, apperrors.New(apperrors.ErrCodeInvalidGraph, "edge %s-%s: unknown vertex %q", e.U, e.V, id)
			}
		}
		g.AddEdge(e.U, e.V, e.payload())
	}
	return g, nil
}

// Dimensions returns the sizes of the vertices that carry both a width and
// a height.
func (d Document) Dimensions() map[string]layout.Size {
	out := make(map[string]layout.Size)
	for _, v := range d.Vertices {
		if v.Width != nil && v.Height != nil {
			out[v.ID] = layout.Size{Width: *v.Width, Height: *v.Height}
		}
	}
	return out
}

func (e Edge) payload() graph.Payload {
	switch {
	case len(e.Connections) > 0:
		return append(graph.Connections(nil), e.Connections...)
	case e.Count > 0:
		return graph.Count(e.Count)
	default:
		return nil
	}
}

// Read decodes a graph document from r. Read does not close r.
func Read(r io.Reader, f Format) (Document, error) {
	var d Document
	if err := decode(r, f, &d); err != nil {
		return Document{}, err
	}
	return d, nil
}

// ReadGraph decodes a graph document from r and builds the graph.
func ReadGraph(r io.Reader, f Format) (*graph.Graph, error) {
	d, err := Read(r, f)
	if err != nil {
		return nil, err
	}
	return d.Build()
}

// Import reads the graph document at path, choosing the format from the
// file extension.
func Import(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Document{}, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "graph %s", path)
		}
		return Document{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f, FormatFromPath(path))
}

// ImportGraph reads and builds the graph document at path.
func ImportGraph(path string) (*graph.Graph, error) {
	d, err := Import(path)
	if err != nil {
		return nil, err
	}
	return d.Build()
}
