// Package orthogonal implements [layout.Engine] with Graphviz.
//
// [ToDOT] turns a layout request into an undirected DOT graph of fixed-size
// boxes with orthogonal edge routing. [Engine] renders it twice with the
// embedded Graphviz (github.com/goccy/go-graphviz): once as xdot to read the
// node positions back with [ParsePositions], once as SVG for the drawing.
// Positions are returned in millimetres with the y axis pointing down and
// the bounding box of all boxes starting at the origin.
package orthogonal
