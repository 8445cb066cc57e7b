// Package layout places the vertices of a planar layer.
//
// The [Assembler] validates a [Request] (every vertex needs a positive
// [Size], the separation must be at least [MinSeparation]), confirms that
// the layer is planar, and delegates coordinate computation to an [Engine].
// The engine returns an [Embedding] (vertex to box centre, millimetres, Y
// pointing down) and an SVG drawing, which the assembler stores in an
// [artifact.Sink].
//
// Errors carry codes from pkg/errors: INVALID_CONFIG for request problems,
// NOT_PLANAR and LAYOUT_FAILED for placement failures.
//
// The default engine lives in the orthogonal subpackage.
package layout
