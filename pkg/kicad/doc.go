// Package kicad reads and rewrites KiCad printed circuit board files.
//
// A .kicad_pcb file is an S-expression tree. [Parse] tokenizes it, hands
// the list structure to github.com/chewxy/sexp and extracts the nets, the
// footprints (components) and their pads. Pads are identified as
// "REF@NUMBER", for example "R1@2".
//
// From a parsed [Board] the package derives the connectivity graphs used
// for decomposition and layout:
//
//   - [Board.ComponentsGraph]: one vertex per footprint, edges carry the pad
//     pairs that connect them.
//   - [Board.PadsGraph]: one vertex per pad, edges carry a multiplicity.
//
// Each net contributes a chain through its pads in board order, skipping
// links between pads of the same footprint.
//
// [Board.ComponentDimensions] sizes footprints for the layout engine and
// [Board.SetPositions] followed by [Board.WriteFile] stores a new placement.
// Only the (at ...) forms of moved footprints are rewritten, so the rest of
// the file stays byte-identical.
package kicad
