package kicad

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chewxy/sexp"

	apperrors "github.com/matzehuels/linkboard/pkg/errors"
)

// Extension is the file extension of KiCad board files.
const Extension = ".kicad_pcb"

// Point is a board coordinate in millimetres. Y grows downwards.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pad is a copper pad of a footprint.
type Pad struct {
	ID     string `json:"id"` // REF@NUMBER
	Number string `json:"number"`
	Net    string `json:"net,omitempty"`

	// Offset is the position relative to the footprint origin, unrotated.
	Offset Point `json:"offset"`
	// Position is the absolute position on the board.
	Position Point `json:"position"`
}

// Footprint is a placed component.
type Footprint struct {
	Reference string  `json:"reference"`
	Position  Point   `json:"position"`
	Angle     float64 `json:"angle,omitempty"` // degrees, counter-clockwise
	Pads      []Pad   `json:"pads"`

	hasAngle bool
	moved    bool
}

// Board is a parsed .kicad_pcb file. It keeps the original source so that
// [Board.Write] can reproduce it with only the footprint placements changed.
type Board struct {
	// Name is the file name without extension, empty for [Parse].
	Name       string
	Footprints []*Footprint

	nets  []string
	src   []byte
	spans []span
}

// ParseFile reads a board from path and names it after the file.
func ParseFile(path string) (*Board, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "board %s", path)
		}
		return nil, fmt.Errorf("open board: %w", err)
	}
	defer f.Close()

	b, err := Parse(f)
	if err != nil {
		return nil, err
	}
	b.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return b, nil
}

// Parse reads a board from r.
//
// Footprints are read from (footprint ...) forms, or (module ...) in
// KiCad 5 files. The reference is taken from (fp_text reference ...) or
// (property "Reference" ...). Malformed input is reported as an
// INVALID_FORMAT error.
func Parse(r io.Reader) (*Board, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read board: %w", err)
	}

	toks, err := tokenize(src)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "tokenize board")
	}
	text, strs := structure(toks)

	forms, err := sexp.ParseString(text)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "parse board")
	}
	if len(forms) == 0 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidFormat, "empty board file")
	}

	root := node{items: items(forms[0]), strs: strs}
	if root.head() != "kicad_pcb" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidFormat, "not a KiCad board: root form is %q", root.head())
	}

	b := &Board{src: src, spans: footprintPlacements(toks)}
	if err := b.load(root); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "read board")
	}
	if len(b.spans) != len(b.Footprints) {
		return nil, apperrors.New(apperrors.ErrCodeInvalidFormat,
			"found %d footprint forms but parsed %d footprints", len(b.spans), len(b.Footprints))
	}
	return b, nil
}

func (b *Board) load(root node) error {
	numbered := make(map[int]string)
	for _, n := range root.children("net") {
		name, _ := n.atom(2)
		if num, err := n.float(1); err == nil {
			numbered[int(num)] = name
		}
		b.nets = append(b.nets, name)
	}

	for _, it := range root.items {
		if it.IsLeaf() {
			continue
		}
		n := root.wrap(it)
		if h := n.head(); h != "footprint" && h != "module" {
			continue
		}
		fp, err := parseFootprint(n, numbered)
		if err != nil {
			return fmt.Errorf("footprint %d: %w", len(b.Footprints)+1, err)
		}
		if fp.Reference == "" {
			fp.Reference = fmt.Sprintf("FP%d", len(b.Footprints)+1)
		}
		fp.place()
		b.Footprints = append(b.Footprints, fp)
	}
	return nil
}

func parseFootprint(n node, nets map[int]string) (*Footprint, error) {
	at, ok := n.child("at")
	if !ok {
		return nil, fmt.Errorf("missing (at ...)")
	}
	x, y, angle, hasAngle, err := at.point()
	if err != nil {
		return nil, err
	}
	fp := &Footprint{Position: Point{X: x, Y: y}, Angle: angle, hasAngle: hasAngle}
	fp.Reference = reference(n)

	for _, p := range n.children("pad") {
		pad, err := parsePad(p, nets)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", fp.Reference, err)
		}
		fp.Pads = append(fp.Pads, pad)
	}
	return fp, nil
}

func reference(n node) string {
	for _, t := range n.children("fp_text") {
		if kind, _ := t.atom(1); kind == "reference" {
			ref, _ := t.atom(2)
			return ref
		}
	}
	for _, p := range n.children("property") {
		if key, _ := p.atom(1); key == "Reference" {
			ref, _ := p.atom(2)
			return ref
		}
	}
	return ""
}

// parsePad reads (pad "num" type shape (at x y [angle]) ... (net N "name")).
// Newer files may omit the number in (net "name").
func parsePad(n node, nets map[int]string) (Pad, error) {
	number, _ := n.atom(1)
	pad := Pad{Number: number}

	at, ok := n.child("at")
	if !ok {
		return Pad{}, fmt.Errorf("pad %q: missing (at ...)", number)
	}
	x, y, _, _, err := at.point()
	if err != nil {
		return Pad{}, fmt.Errorf("pad %q: %w", number, err)
	}
	pad.Offset = Point{X: x, Y: y}

	if net, ok := n.child("net"); ok {
		if name, ok := net.atom(2); ok {
			pad.Net = name
		} else if num, err := net.float(1); err == nil {
			pad.Net = nets[int(num)]
		} else {
			pad.Net, _ = net.atom(1)
		}
	}
	return pad, nil
}

// place recomputes pad ids and absolute pad positions.
func (fp *Footprint) place() {
	sin, cos := math.Sincos(fp.Angle * math.Pi / 180)
	for i := range fp.Pads {
		p := &fp.Pads[i]
		p.ID = fp.Reference + "@" + p.Number
		p.Position = Point{
			X: round(fp.Position.X + p.Offset.X*cos + p.Offset.Y*sin),
			Y: round(fp.Position.Y - p.Offset.X*sin + p.Offset.Y*cos),
		}
	}
}

// round trims to KiCad's internal resolution of one nanometre.
func round(mm float64) float64 {
	return math.Round(mm*1e6) / 1e6
}

func formatMM(mm float64) string {
	return strconv.FormatFloat(round(mm), 'f', -1, 64)
}

// Footprint returns the footprint with the given reference.
func (b *Board) Footprint(ref string) (*Footprint, bool) {
	for _, fp := range b.Footprints {
		if fp.Reference == ref {
			return fp, true
		}
	}
	return nil, false
}

// Nets returns the declared net names in file order, including the unnamed
// net 0.
func (b *Board) Nets() []string {
	return append([]string(nil), b.nets...)
}

// Source returns the board text as it was read. Moved footprints are not
// reflected; use [Board.Write] for the updated text.
func (b *Board) Source() []byte {
	return b.src
}
