package kicad

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/linkboard/pkg/layout"
)

// SetPositions moves every footprint whose reference appears in e to the
// given centre, keeping its rotation, and returns how many were moved.
// References missing from the board are ignored.
func (b *Board) SetPositions(e layout.Embedding) int {
	moved := 0
	for _, fp := range b.Footprints {
		p, ok := e[fp.Reference]
		if !ok {
			continue
		}
		fp.Position = Point{X: round(p.X), Y: round(p.Y)}
		fp.moved = true
		fp.place()
		moved++
	}
	return moved
}

// Write writes the board source with the (at ...) form of every moved
// footprint replaced. All other text is copied unchanged.
func (b *Board) Write(w io.Writer) error {
	var buf bytes.Buffer
	buf.Grow(len(b.src) + 64)
	last := 0
	for i, fp := range b.Footprints {
		s := b.spans[i]
		if !fp.moved || s.start < 0 {
			continue
		}
		buf.Write(b.src[last:s.start])
		buf.WriteString(fp.atForm())
		last = s.end
	}
	buf.Write(b.src[last:])

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write board: %w", err)
	}
	return nil
}

// WriteFile writes the board to path.
func (b *Board) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create board: %w", err)
	}
	if err := b.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (fp *Footprint) atForm() string {
	if fp.hasAngle {
		return fmt.Sprintf("(at %s %s %s)", formatMM(fp.Position.X), formatMM(fp.Position.Y), formatMM(fp.Angle))
	}
	return fmt.Sprintf("(at %s %s)", formatMM(fp.Position.X), formatMM(fp.Position.Y))
}
