package analysis

import (
	"math"
	"slices"

	"github.com/montanaflynn/stats"

	"github.com/matzehuels/linkboard/pkg/graph"
)

// Bin is one bar of a degree histogram.
type Bin struct {
	Degree int `json:"degree" bson:"degree"`
	Count  int `json:"count" bson:"count"`
	// CCDF is the fraction of non-isolated vertices with degree >= Degree.
	CCDF float64 `json:"ccdf" bson:"ccdf"`
}

// PowerLaw is a least-squares fit of log CCDF against log degree.
type PowerLaw struct {
	// Exponent estimates gamma in P(k) ~ k^-gamma: the negated slope plus one.
	Exponent  float64 `json:"exponent" bson:"exponent"`
	Slope     float64 `json:"slope" bson:"slope"`
	Intercept float64 `json:"intercept" bson:"intercept"`
}

// Stats summarizes the structure of a graph.
type Stats struct {
	Vertices int   `json:"vertices" bson:"vertices"`
	Edges    int   `json:"edges" bson:"edges"`
	Isolated int   `json:"isolated" bson:"isolated"`
	MaxDeg   int   `json:"max_degree" bson:"max_degree"`
	Degrees  []Bin `json:"degrees" bson:"degrees"`

	// Fit is nil when fewer than two distinct non-zero degrees occur.
	Fit *PowerLaw `json:"power_law,omitempty" bson:"power_law,omitempty"`
}

// Analyze computes the degree statistics of g. Isolated vertices are
// counted but left out of the histogram and the fit.
func Analyze(g *graph.Graph) Stats {
	s := Stats{Vertices: g.VertexCount(), Edges: g.EdgeCount()}

	counts := make(map[int]int)
	total := 0
	for _, d := range g.Degrees() {
		if d == 0 {
			s.Isolated++
			continue
		}
		counts[d]++
		total++
		s.MaxDeg = max(s.MaxDeg, d)
	}
	if total == 0 {
		return s
	}

	degrees := make([]int, 0, len(counts))
	for d := range counts {
		degrees = append(degrees, d)
	}
	slices.Sort(degrees)

	s.Degrees = make([]Bin, len(degrees))
	above := total
	for i, d := range degrees {
		s.Degrees[i] = Bin{Degree: d, Count: counts[d], CCDF: float64(above) / float64(total)}
		above -= counts[d]
	}

	s.Fit = fit(s.Degrees)
	return s
}

func fit(bins []Bin) *PowerLaw {
	if len(bins) < 2 {
		return nil
	}
	series := make(stats.Series, len(bins))
	for i, b := range bins {
		series[i] = stats.Coordinate{X: math.Log(float64(b.Degree)), Y: math.Log(b.CCDF)}
	}

	line, err := stats.LinearRegression(series)
	if err != nil || len(line) != len(series) {
		return nil
	}
	first, last := line[0], line[len(line)-1]
	slope := (last.Y - first.Y) / (last.X - first.X)
	if math.IsNaN(slope) || math.IsInf(slope, 0) {
		return nil
	}
	return &PowerLaw{
		Exponent:  -slope + 1,
		Slope:     slope,
		Intercept: first.Y - slope*first.X,
	}
}
