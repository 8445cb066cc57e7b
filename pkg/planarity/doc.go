// Package planarity decomposes connectivity graphs into planar layers.
//
// # Overview
//
// A board with a bounded number of copper layers can only route a graph
// whose edges split into that many planar graphs. This package computes such
// a split heuristically:
//
//  1. [Decomposer.MaxPlanarSubgraph] splits a graph into connected
//     components and runs an [Extractor] on each.
//  2. [Extractor.Extract] seeds a planar subgraph with a [SubgraphFinder]
//     and greedily re-inserts deleted edges by descending cost while a
//     [Tester] still accepts the result.
//  3. [Decomposer.Decompose] repeats the extraction on the leftover edges
//     until none remain and returns the layers sorted by size.
//
// The number of layers ([Decomposer.Thickness]) is an upper bound on the
// graph thickness.
//
// # Collaborators
//
// Both the planarity oracle and the seeding heuristic are interfaces so they
// can be swapped or stubbed:
//
//   - [LeftRight]: linear-time left-right planarity test
//   - [Cactus]: triangular cactus plus spanning forest seed
//
// Edge weights come from a [CostFunc]; the default [DegreeProduct] prefers
// edges between highly connected vertices.
//
// # Layer Selection
//
// A [Policy] picks the layer that is laid out: [SelectLargest] (most edges,
// the default) or [SelectSpanning] (most vertices). Use [ParsePolicy] to
// resolve a policy by name.
//
// # Errors
//
// Any collaborator error aborts the whole decomposition; no partial layers
// are returned. Input graphs are never modified.
package planarity
