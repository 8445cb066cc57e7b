// Package pkg provides the core libraries for Linkboard circuit layout.
//
// # Overview
//
// Linkboard reads the connectivity of a printed circuit board, splits it into
// planar layers and places the components of one layer so that its
// connections can be drawn without crossings. The pkg directory is organized
// into three areas:
//
//  1. Domain logic ([graph], [planarity], [layout], [kicad], [analysis])
//  2. Infrastructure ([cache], [store], [artifact], [metrics], [observability])
//  3. Orchestration ([pipeline], [server])
//
// # Architecture
//
// The typical data flow:
//
//	KiCad board (.kicad_pcb)
//	         ↓
//	    [kicad] package (footprints, pads, nets → components graph)
//	         ↓
//	    [planarity] package (thickness decomposition into planar layers)
//	         ↓
//	    [layout] package (orthogonal placement of one layer via Graphviz)
//	         ↓
//	    updated board + SVG drawing
//
// # Quick Start
//
// Decompose a board and lay out its first layer:
//
//	b, _ := kicad.ParseFile("amp.kicad_pcb")
//	r := pipeline.NewRunner(cache.NewNullCache(), nil, nil)
//	defer r.Close()
//
//	res, _ := r.Build(ctx, b, artifact.NewDirSink("out"), pipeline.Options{
//	    Separation: 15,
//	    Policy:     "largest",
//	})
//	fmt.Println(res.Decomposition.Thickness, res.BoardName)
//
// # Main Packages
//
// [graph] - Undirected simple graph with string vertex ids and per-edge
// payloads (pad pairs or counts). Components, merge and subgraph helpers.
//
// [planarity] - Left-right planarity test, cactus-seeded maximal planar
// subgraph extraction and the greedy thickness decomposition.
//
// [layout] - Placement request validation and the assembler that drives a
// layout engine. [layout/orthogonal] implements the engine on Graphviz with
// orthogonal splines.
//
// [kicad] - S-expression reader and writer for .kicad_pcb files. Builds the
// components and pads graphs and writes placements back.
//
// [analysis] - Degree histogram, cumulative distribution and power-law fit.
//
// [io] - JSON and YAML formats for graphs, layers and embeddings.
//
// [pipeline] - Cached load → decompose → layout → write stages shared by the
// CLI and the HTTP server.
//
// [server] - HTTP API over the pipeline.
//
// [cache], [store], [artifact] - File, Redis, MongoDB and S3 backends for
// intermediate results, analysis records and output files.
//
// [graph]: https://pkg.go.dev/github.com/matzehuels/linkboard/pkg/graph
// [planarity]: https://pkg.go.dev/github.com/matzehuels/linkboard/pkg/planarity
// [layout]: https://pkg.go.dev/github.com/matzehuels/linkboard/pkg/layout
// [layout/orthogonal]: https://pkg.go.dev/github.com/matzehuels/linkboard/pkg/layout/orthogonal
// [kicad]: https://pkg.go.dev/github.com/matzehuels/linkboard/pkg/kicad
// [analysis]: https://pkg.go.dev/github.com/matzehuels/linkboard/pkg/analysis
// [io]: https://pkg.go.dev/github.com/matzehuels/linkboard/pkg/io
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/linkboard/pkg/pipeline
// [server]: https://pkg.go.dev/github.com/matzehuels/linkboard/pkg/server
// [cache]: https://pkg.go.dev/github.com/matzehuels/linkboard/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/linkboard/pkg/store
// [artifact]: https://pkg.go.dev/github.com/matzehuels/linkboard/pkg/artifact
// [metrics]: https://pkg.go.dev/github.com/matzehuels/linkboard/pkg/metrics
// [observability]: https://pkg.go.dev/github.com/matzehuels/linkboard/pkg/observability
package pkg
