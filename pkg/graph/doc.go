// Package graph provides the undirected connectivity graph used throughout linkboard.
//
// # Overview
//
// A [Graph] models circuit connectivity: vertices are components or pads,
// edges are electrical connections. The graph is undirected and simple - a
// second insertion of an existing pair updates that edge instead of adding a
// parallel one. Every edge carries an optional [Payload].
//
// # Payloads
//
// Payloads are typed accumulators. [Graph.AddEdge] and [Graph.UpdateEdge]
// fold new data into an existing edge with [Payload.Merge]:
//
//   - [Count]: multiplicity counter, merging adds (pads graph)
//   - [Connections]: list of underlying connection records, merging appends
//     (components graph)
//
// Every edge owns a clone of the payload it was given, so two edges never
// share mutable state.
//
// # Representation
//
// Vertices live in an arena addressed by integer handles. Each vertex keeps
// its neighbor handles in insertion order plus a handle-indexed map to an
// edge record that both endpoints share. Shared records make the adjacency
// symmetric by construction: the payload seen from u and from v is the same
// value.
//
// # Enumeration
//
// All enumerations are deterministic:
//
//   - [Graph.Vertices], [Graph.Degrees]: insertion order
//   - [Graph.Neighbors]: neighbor insertion order
//   - [Graph.Edges]: canonical, each unordered pair once, reported from its
//     lexicographically smaller endpoint
//
// # Permissive Contract
//
// Queries on missing vertices or edges return zero values and mutations of
// missing elements are no-ops. No method of this package returns an error.
//
// # Components and Merging
//
// [ConnectedComponents] splits a graph into independent component graphs;
// [Merge] unions graphs back together (later payloads replace earlier ones);
// [Graph.Clone] makes a deep copy. Together they let algorithms work on
// owned copies without aliasing the caller's data.
//
// # Concurrency
//
// Graph is not safe for concurrent mutation. Share graphs between goroutines
// only for reading, or give each goroutine its own [Graph.Clone].
package graph
