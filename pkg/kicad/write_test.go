package kicad

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/linkboard/pkg/layout"
)

func TestSetPositions(t *testing.T) {
	b := mustParse(t, board)
	n := b.SetPositions(layout.Embedding{
		"R1": {X: 10, Y: 20},
		"C1": {X: 30.5, Y: 40},
		"X9": {X: 1, Y: 1},
	})
	if n != 2 {
		t.Errorf("moved %d footprints, want 2", n)
	}

	r1, _ := b.Footprint("R1")
	if r1.Position != (Point{X: 10, Y: 20}) {
		t.Errorf("R1 position = %+v", r1.Position)
	}
	if r1.Pads[0].Position != (Point{X: 9.2, Y: 20}) {
		t.Errorf("R1@1 position = %+v, want {9.2 20}", r1.Pads[0].Position)
	}
	c1, _ := b.Footprint("C1")
	if c1.Angle != 90 {
		t.Errorf("C1 angle = %v, want 90", c1.Angle)
	}
}

func TestWriteUnchanged(t *testing.T) {
	b := mustParse(t, board)
	var buf bytes.Buffer
	if err := b.Write(&buf); err != nil {
		t.Fatal(err)
	}
	if buf.String() != board {
		t.Error("unmodified board not reproduced byte for byte")
	}
}

func TestWriteMoved(t *testing.T) {
	b := mustParse(t, board)
	b.SetPositions(layout.Embedding{
		"R1": {X: 10, Y: 20},
		"C1": {X: 30.5, Y: 40},
	})

	var buf bytes.Buffer
	if err := b.Write(&buf); err != nil {
		t.Fatal(err)
	}

	want := strings.Replace(board, "(at 100 50)", "(at 10 20)", 1)
	want = strings.Replace(want, "(at 110 50 90)", "(at 30.5 40 90)", 1)
	if got := buf.String(); got != want {
		t.Errorf("Write() =\n%s\nwant\n%s", got, want)
	}

	again := mustParse(t, buf.String())
	c1, _ := again.Footprint("C1")
	if c1.Position != (Point{X: 30.5, Y: 40}) || c1.Angle != 90 {
		t.Errorf("reparsed C1 = %+v %v", c1.Position, c1.Angle)
	}
	u1, _ := again.Footprint("U1")
	if u1.Position != (Point{X: 120, Y: 60}) {
		t.Errorf("U1 moved to %+v", u1.Position)
	}
}

func TestWriteFile(t *testing.T) {
	b := mustParse(t, board)
	b.SetPositions(layout.Embedding{"H1": {X: 1.25, Y: 2}})

	path := filepath.Join(t.TempDir(), "updated-amp"+Extension)
	if err := b.WriteFile(path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "(at 1.25 2)\n    (fp_text reference \"H1\"") {
		t.Errorf("H1 not rewritten:\n%s", data)
	}
}
