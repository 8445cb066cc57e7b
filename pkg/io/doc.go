// Package io reads and writes connectivity graphs, decompositions and
// embeddings as JSON or YAML documents.
//
// # Graph documents
//
//	{
//	  "vertices": [
//	    {"id": "R1", "width": 3.6, "height": 2},
//	    {"id": "C1"}
//	  ],
//	  "edges": [
//	    {"u": "C1", "v": "R1", "count": 2},
//	    {"u": "C1", "v": "U1", "connections": [{"from": "C1@1", "to": "U1@2"}]}
//	  ]
//	}
//
// Vertices are optional: an empty list lets the edges define them. Width
// and height (millimetres) are only needed for layout. An edge carries at
// most one payload: a multiplicity count or a list of pad connections.
//
// Use [Import] or [Read] to decode a [Document] and [Document.Build] to get
// a [graph.Graph]; [ImportGraph] and [ReadGraph] do both. [Export] and
// [WriteGraph] encode graphs, [NewDocument] attaches dimensions. The format
// follows the file extension (.yaml and .yml select YAML).
//
// # Decompositions and embeddings
//
// [WriteLayers] stores the planar layers of a decomposition together with
// the thickness, and [WriteEmbedding] stores layout positions keyed by
// vertex id:
//
//	{"C1": {"x": 12.5, "y": 3}, "R1": {"x": 0, "y": 3}}
//
// Errors decoding a document carry the INVALID_FORMAT code, structural
// problems INVALID_GRAPH (see pkg/errors).
package io
