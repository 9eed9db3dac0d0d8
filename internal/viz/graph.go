package viz

import (
	"fmt"
	"math"

	"github.com/guptarohit/asciigraph"
)

// GraphCapacity is how many samples the rolling graph keeps.
const GraphCapacity = 100

const graphEpsilon = 1e-6

// RollingGraph holds the most recent samples of one channel and a display
// maximum that jumps to every new peak and decays 1% per sample while the
// signal stays below 90% of it.
type RollingGraph struct {
	Label string
	data  []float64
	max   float64
}

func NewRollingGraph(label string) *RollingGraph {
	return &RollingGraph{Label: label, data: make([]float64, 0, GraphCapacity), max: 1}
}

func (g *RollingGraph) Push(v float64) {
	if len(g.data) == GraphCapacity {
		copy(g.data, g.data[1:])
		g.data = g.data[:GraphCapacity-1]
	}
	g.data = append(g.data, v)

	if v > g.max {
		g.max = v
	} else if g.max > 1 && v < g.max*0.9 {
		g.max *= 0.99
	}
}

func (g *RollingGraph) Max() float64 { return g.max }

func (g *RollingGraph) Len() int { return len(g.data) }

func (g *RollingGraph) Last() float64 {
	if len(g.data) == 0 {
		return 0
	}
	return g.data[len(g.data)-1]
}

// Normalized returns every sample as a fraction of the display maximum.
func (g *RollingGraph) Normalized() []float64 {
	out := make([]float64, len(g.data))
	for i, v := range g.data {
		out[i] = v / (g.max + graphEpsilon)
	}
	return out
}

func (g *RollingGraph) Reset() {
	g.data = g.data[:0]
	g.max = 1
}

// Plot renders the graph with asciigraph, pinned to [0, max] so the scale
// follows the autoscaled maximum rather than the visible samples.
func (g *RollingGraph) Plot(width, height int) string {
	if len(g.data) < 2 {
		return fmt.Sprintf("%s: waiting for samples", g.Label)
	}
	return asciigraph.Plot(g.data,
		asciigraph.Width(width),
		asciigraph.Height(height),
		asciigraph.LowerBound(0),
		asciigraph.UpperBound(math.Ceil(g.max)),
		asciigraph.Precision(0),
		asciigraph.Caption(fmt.Sprintf("%s %.0f", g.Label, g.Last())),
	)
}
