package kicad

import (
	"fmt"
	"strings"
	"testing"

	"github.com/chewxy/sexp"
)

// syntheticBoard returns a board with n footprints of four pads each, the
// pads of neighbouring footprints sharing nets, plus one segment per
// footprint.
func syntheticBoard(n int) string {
	var b strings.Builder
	b.WriteString("(kicad_pcb (version 20221018) (generator pcbnew)\n")
	for i := 0; i <= n; i++ {
		fmt.Fprintf(&b, "  (net %d \"N%d\")\n", i+1, i)
	}
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "  (footprint \"R_0603\" (layer \"F.Cu\")\n    (at %d %d)\n", (i%50)*5, (i/50)*5)
		fmt.Fprintf(&b, "    (property \"Reference\" \"R%d\" (at 0 -1.5) (layer \"F.SilkS\"))\n", i)
		for p := 0; p < 4; p++ {
			net := i + p%2
			fmt.Fprintf(&b, "    (pad \"%d\" smd rect (at %.1f 0) (size 0.4 0.4) (layers \"F.Cu\") (net %d \"N%d\"))\n",
				p+1, float64(p)*0.5-0.75, net+1, net)
		}
		b.WriteString("  )\n")
		fmt.Fprintf(&b, "  (segment (start %d 0) (end %d 1) (width 0.25) (layer \"F.Cu\") (net %d))\n", i, i, i+1)
	}
	b.WriteString(")\n")
	return b.String()
}

func TestLeafText(t *testing.T) {
	forms, err := sexp.ParseString(`(at 1.5 -2 90)`)
	if err != nil {
		t.Fatal(err)
	}
	n := node{items: items(forms[0])}
	if got := n.head(); got != "at" {
		t.Errorf("head() = %q, want %q", got, "at")
	}
	for i, want := range []string{"at", "1.5", "-2", "90"} {
		if got, ok := n.atom(i); !ok || got != want {
			t.Errorf("atom(%d) = %q, %v; want %q", i, got, ok, want)
		}
	}
	if _, ok := n.atom(4); ok {
		t.Error("atom(4) out of range reported ok")
	}
}

func TestParseLargeBoard(t *testing.T) {
	const n = 2000
	b := mustParse(t, syntheticBoard(n))

	if len(b.Footprints) != n {
		t.Fatalf("parsed %d footprints, want %d", len(b.Footprints), n)
	}
	last := b.Footprints[n-1]
	if last.Reference != fmt.Sprintf("R%d", n-1) || len(last.Pads) != 4 {
		t.Errorf("last footprint = %s with %d pads", last.Reference, len(last.Pads))
	}
	if got := b.ComponentsGraph().VertexCount(); got != n {
		t.Errorf("components graph has %d vertices, want %d", got, n)
	}
}

func BenchmarkParse(b *testing.B) {
	for _, n := range []int{500, 1000, 2000} {
		src := syntheticBoard(n)
		b.Run(fmt.Sprintf("footprints=%d", n), func(b *testing.B) {
			b.SetBytes(int64(len(src)))
			for i := 0; i < b.N; i++ {
				if _, err := Parse(strings.NewReader(src)); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
