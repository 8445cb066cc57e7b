package layout

import (
	"context"
	stderrors "errors"
	"math"
	"strings"
	"testing"

	"github.com/matzehuels/linkboard/pkg/artifact"
	"github.com/matzehuels/linkboard/pkg/errors"
	"github.com/matzehuels/linkboard/pkg/graph"
	"github.com/matzehuels/linkboard/pkg/planarity"
)

type engineFunc func(ctx context.Context, req Request) (Result, error)

func (f engineFunc) Layout(ctx context.Context, req Request) (Result, error) { return f(ctx, req) }

// gridEngine places the vertices on a row, one separation apart.
func gridEngine(calls *int) Engine {
	return engineFunc(func(_ context.Context, req Request) (Result, error) {
		*calls++
		pos := make(Embedding)
		x := 0.0
		for _, v := range req.Layer.Vertices() {
			s := req.Dimensions[v]
			pos[v] = Point{X: x + s.Width/2, Y: s.Height / 2}
			x += s.Width + req.Separation
		}
		return Result{Positions: pos, SVG: []byte("<svg/>")}, nil
	})
}

func triangle() *graph.Graph {
	g := graph.New()
	g.AddEdge("R1", "C1", graph.Count(1))
	g.AddEdge("C1", "U1", graph.Count(1))
	g.AddEdge("U1", "R1", graph.Count(1))
	return g
}

func k5() *graph.Graph {
	g := graph.New()
	ids := []string{"a", "b", "c", "d", "e"}
	for i := range ids {
		for j := i + 1; j < len(ids); j++ {
			g.AddEdge(ids[i], ids[j], nil)
		}
	}
	return g
}

func dims(ids ...string) map[string]Size {
	out := make(map[string]Size, len(ids))
	for _, id := range ids {
		out[id] = Size{Width: 4, Height: 2}
	}
	return out
}

func TestAssemble(t *testing.T) {
	calls := 0
	sink := artifact.NewMemorySink()
	a := NewAssembler(gridEngine(&calls), sink)

	p, err := a.Assemble(context.Background(), Request{
		Layer:      triangle(),
		Dimensions: dims("R1", "C1", "U1"),
		Separation: DefaultSeparation,
	})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if calls != 1 {
		t.Errorf("engine calls = %d, want 1", calls)
	}
	if len(p.Embedding) != 3 {
		t.Fatalf("embedding size = %d, want 3", len(p.Embedding))
	}
	if got := p.Embedding["R1"]; got != (Point{X: 2, Y: 1}) {
		t.Errorf("R1 = %+v, want {2 1}", got)
	}
	if p.Location != artifact.DrawingName {
		t.Errorf("location = %q, want %q", p.Location, artifact.DrawingName)
	}
	if data, ok := sink.Get(artifact.DrawingName); !ok || string(data) != "<svg/>" {
		t.Errorf("stored drawing = %q, %v", data, ok)
	}
}

func TestAssembleWithoutSink(t *testing.T) {
	calls := 0
	a := NewAssembler(gridEngine(&calls), nil)
	p, err := a.Assemble(context.Background(), Request{
		Layer:      triangle(),
		Dimensions: dims("R1", "C1", "U1"),
		Separation: MinSeparation,
	})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if p.Location != "" {
		t.Errorf("location = %q, want empty", p.Location)
	}
}

func TestAssembleIsolatedVertex(t *testing.T) {
	g := graph.New()
	g.AddVertex("J1")
	calls := 0
	p, err := NewAssembler(gridEngine(&calls), nil).Assemble(context.Background(), Request{
		Layer:      g,
		Dimensions: dims("J1"),
		Separation: DefaultSeparation,
	})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if _, ok := p.Embedding["J1"]; !ok {
		t.Error("isolated vertex not placed")
	}
}

func TestAssembleConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want string
	}{
		{
			name: "nil layer",
			req:  Request{Separation: DefaultSeparation},
			want: "no vertices",
		},
		{
			name: "empty layer",
			req:  Request{Layer: graph.New(), Separation: DefaultSeparation},
			want: "no vertices",
		},
		{
			name: "missing dimension",
			req:  Request{Layer: triangle(), Dimensions: dims("R1", "C1"), Separation: DefaultSeparation},
			want: "missing dimensions for U1",
		},
		{
			name: "zero width",
			req: Request{Layer: triangle(), Separation: DefaultSeparation, Dimensions: map[string]Size{
				"R1": {Width: 4, Height: 2}, "C1": {Width: 0, Height: 2}, "U1": {Width: 4, Height: 2},
			}},
			want: "non-positive dimensions for C1",
		},
		{
			name: "NaN height",
			req: Request{Layer: triangle(), Separation: DefaultSeparation, Dimensions: map[string]Size{
				"R1": {Width: 4, Height: math.NaN()}, "C1": {Width: 4, Height: 2}, "U1": {Width: 4, Height: 2},
			}},
			want: "non-positive dimensions for R1",
		},
		{
			name: "separation below minimum",
			req:  Request{Layer: triangle(), Dimensions: dims("R1", "C1", "U1"), Separation: 0.5},
			want: "separation",
		},
		{
			name: "NaN separation",
			req:  Request{Layer: triangle(), Dimensions: dims("R1", "C1", "U1"), Separation: math.NaN()},
			want: "separation",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			sink := artifact.NewMemorySink()
			_, err := NewAssembler(gridEngine(&calls), sink).Assemble(context.Background(), tt.req)
			if !errors.IsConfiguration(err) {
				t.Fatalf("err = %v, want configuration error", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %q, want it to contain %q", err, tt.want)
			}
			if calls != 0 {
				t.Error("engine called for invalid request")
			}
			if _, ok := sink.Get(artifact.DrawingName); ok {
				t.Error("drawing stored for invalid request")
			}
		})
	}
}

func TestAssembleNotPlanar(t *testing.T) {
	calls := 0
	_, err := NewAssembler(gridEngine(&calls), nil).Assemble(context.Background(), Request{
		Layer:      k5(),
		Dimensions: dims("a", "b", "c", "d", "e"),
		Separation: DefaultSeparation,
	})
	if !errors.Is(err, errors.ErrCodeNotPlanar) {
		t.Fatalf("err = %v, want NOT_PLANAR", err)
	}
	if !errors.IsLayout(err) {
		t.Error("not planar should be a layout error")
	}
	if calls != 0 {
		t.Error("engine called for non-planar layer")
	}
}

func TestAssembleLayoutErrors(t *testing.T) {
	boom := stderrors.New("boom")
	req := Request{Layer: triangle(), Dimensions: dims("R1", "C1", "U1"), Separation: DefaultSeparation}

	tests := []struct {
		name   string
		tester planarity.Tester
		engine Engine
	}{
		{
			name:   "tester error",
			tester: planarity.TesterFunc(func(*graph.Graph) (bool, error) { return false, boom }),
			engine: engineFunc(func(context.Context, Request) (Result, error) { return Result{}, nil }),
		},
		{
			name:   "engine error",
			tester: planarity.LeftRight{},
			engine: engineFunc(func(context.Context, Request) (Result, error) { return Result{}, boom }),
		},
		{
			name:   "vertex not placed",
			tester: planarity.LeftRight{},
			engine: engineFunc(func(context.Context, Request) (Result, error) {
				return Result{Positions: Embedding{"R1": {}, "C1": {}}}, nil
			}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := artifact.NewMemorySink()
			a := &Assembler{Tester: tt.tester, Engine: tt.engine, Sink: sink}
			p, err := a.Assemble(context.Background(), req)
			if !errors.Is(err, errors.ErrCodeLayoutFailed) {
				t.Fatalf("err = %v, want LAYOUT_FAILED", err)
			}
			if p != nil {
				t.Error("partial placement returned")
			}
			if _, ok := sink.Get(artifact.DrawingName); ok {
				t.Error("drawing stored after failure")
			}
		})
	}
}

type failingSink struct{}

func (failingSink) Put(context.Context, string, []byte) (string, error) {
	return "", stderrors.New("disk full")
}

func TestAssembleSinkError(t *testing.T) {
	calls := 0
	_, err := NewAssembler(gridEngine(&calls), failingSink{}).Assemble(context.Background(), Request{
		Layer:      triangle(),
		Dimensions: dims("R1", "C1", "U1"),
		Separation: DefaultSeparation,
	})
	if !errors.Is(err, errors.ErrCodeInternal) {
		t.Fatalf("err = %v, want INTERNAL_ERROR", err)
	}
}

func TestValidateListsManyMissing(t *testing.T) {
	g := graph.New()
	for _, v := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		g.AddVertex(v)
	}
	err := Validate(Request{Layer: g, Separation: DefaultSeparation})
	if err == nil || !strings.Contains(err.Error(), "a, b, c, d, e and 2 more") {
		t.Errorf("err = %v", err)
	}
}
