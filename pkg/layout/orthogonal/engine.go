package orthogonal

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/linkboard/pkg/layout"
)

// Program names accepted by [Engine]. All three support orthogonal splines.
const (
	ProgramNeato = "neato"
	ProgramFDP   = "fdp"
	ProgramDot   = "dot"
)

// Programs lists the valid program names.
var Programs = []string{ProgramNeato, ProgramFDP, ProgramDot}

const (
	mmPerInch   = 25.4
	pointsPerMM = 72 / mmPerInch
)

// Engine is a [layout.Engine] backed by Graphviz.
//
// Vertices become fixed-size boxes, edges are routed with splines=ortho and
// overlap removal keeps at least the requested separation between boxes.
// The zero value uses neato.
type Engine struct {
	Program string
}

// ParseProgram validates a program name. The empty name selects neato.
func ParseProgram(name string) (string, error) {
	switch name {
	case "":
		return ProgramNeato, nil
	case ProgramNeato, ProgramFDP, ProgramDot:
		return name, nil
	default:
		return "", fmt.Errorf("unknown layout program %q (valid: %v)", name, Programs)
	}
}

// Layout implements [layout.Engine].
func (e Engine) Layout(ctx context.Context, req layout.Request) (layout.Result, error) {
	program, err := ParseProgram(e.Program)
	if err != nil {
		return layout.Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return layout.Result{}, err
	}

	ids := req.Layer.Vertices()
	dot := ToDOT(req)

	gv, err := graphviz.New(ctx)
	if err != nil {
		return layout.Result{}, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.Layout(program))

	xdot, err := render(ctx, gv, dot, graphviz.XDOT)
	if err != nil {
		return layout.Result{}, err
	}
	positions, err := ParsePositions(xdot, ids)
	if err != nil {
		return layout.Result{}, err
	}

	svg, err := render(ctx, gv, dot, graphviz.SVG)
	if err != nil {
		return layout.Result{}, err
	}

	return layout.Result{
		Positions: normalize(positions, req.Dimensions),
		SVG:       normalizeViewBox(svg),
	}, nil
}

func render(ctx context.Context, gv *graphviz.Graphviz, dot string, format graphviz.Format) ([]byte, error) {
	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

// ToDOT converts a layout request to an undirected Graphviz graph.
//
// Vertex i of req.Layer.Vertices() is emitted as node "v<i>" labelled with
// its id, sized in inches from its dimensions in millimetres. Half the
// separation is added around every node, so neighbouring boxes end up at
// least the full separation apart.
func ToDOT(req layout.Request) string {
	ids := req.Layer.Vertices()
	index := make(map[string]int, len(ids))
	for i, id := range ids {
		index[id] = i
	}

	margin := req.Separation / 2 * pointsPerMM
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  splines=ortho;\n")
	buf.WriteString("  overlap=false;\n")
	fmt.Fprintf(&buf, "  sep=\"+%s\";\n", ftoa(margin))
	fmt.Fprintf(&buf, "  esep=\"+%s\";\n", ftoa(margin*0.8))
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, fixedsize=true, style=filled, color=gold, fillcolor=gold, penwidth=0.6, fontsize=8];\n")
	buf.WriteString("  edge [color=orange, penwidth=0.3];\n")
	buf.WriteString("\n")

	for i, id := range ids {
		s := req.Dimensions[id]
		fmt.Fprintf(&buf, "  v%d [label=%q, width=%s, height=%s];\n",
			i, id, ftoa(s.Width/mmPerInch), ftoa(s.Height/mmPerInch))
	}

	buf.WriteString("\n")
	for _, e := range req.Layer.Edges() {
		fmt.Fprintf(&buf, "  v%d -- v%d;\n", index[e.U], index[e.V])
	}

	buf.WriteString("}\n")
	return buf.String()
}

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'f', 4, 64)
}

var (
	nodeStmtRe = regexp.MustCompile(`(?m)^\s*(v\d+)\s*\[((?:[^\]"]|"(?:[^"\\]|\\.)*")*)\]`)
	posAttrRe  = regexp.MustCompile(`(?:^|[\s,])pos="(-?[0-9.e+-]+),(-?[0-9.e+-]+)!?"`)
)

// ParsePositions reads node centres, in points, from Graphviz output in
// dot/xdot format. ids maps node "v<i>" back to ids[i]. Every id must have a
// position.
func ParsePositions(out []byte, ids []string) (layout.Embedding, error) {
	// Graphviz breaks long attribute values with a backslash-newline.
	text := strings.ReplaceAll(string(out), "\\\n", "")

	positions := make(layout.Embedding, len(ids))
	for _, m := range nodeStmtRe.FindAllStringSubmatch(text, -1) {
		i, err := strconv.Atoi(m[1][1:])
		if err != nil || i >= len(ids) {
			continue
		}
		pos := posAttrRe.FindStringSubmatch(m[2])
		if pos == nil {
			continue
		}
		x, errX := strconv.ParseFloat(pos[1], 64)
		y, errY := strconv.ParseFloat(pos[2], 64)
		if errX != nil || errY != nil {
			return nil, fmt.Errorf("node %s: invalid pos %q,%q", m[1], pos[1], pos[2])
		}
		positions[ids[i]] = layout.Point{X: x, Y: y}
	}

	for _, id := range ids {
		if _, ok := positions[id]; !ok {
			return nil, fmt.Errorf("no position for vertex %q", id)
		}
	}
	return positions, nil
}

// normalize converts Graphviz points to millimetres, flips the y axis so it
// grows downwards and moves the top-left box corner to the origin.
func normalize(points layout.Embedding, dims map[string]layout.Size) layout.Embedding {
	minX, minY := math.Inf(1), math.Inf(1)
	out := make(layout.Embedding, len(points))
	for id, p := range points {
		q := layout.Point{X: p.X / pointsPerMM, Y: -p.Y / pointsPerMM}
		s := dims[id]
		minX = min(minX, q.X-s.Width/2)
		minY = min(minY, q.Y-s.Height/2)
		out[id] = q
	}
	for id, p := range out {
		out[id] = layout.Point{X: round(p.X - minX), Y: round(p.Y - minY)}
	}
	return out
}

func round(f float64) float64 {
	return math.Round(f*1e4) / 1e4
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the Graphviz svg header with one sized in
// millimetres.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.2fmm" height="%.2fmm">`,
		w, h, w/pointsPerMM, h/pointsPerMM)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}
