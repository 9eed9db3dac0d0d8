package optim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/revsim/internal/config"
	"github.com/san-kum/revsim/internal/experiment"
)

// GridSearch tries every combination of engine parameter values and keeps
// the one that minimizes a metric. Combinations that fail to validate or run
// are skipped.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	evaluated  int
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}

// Evaluated is the number of combinations that ran to completion.
func (g *GridSearch) Evaluated() int { return g.evaluated }

func (g *GridSearch) Search(ctx context.Context, base *config.Config, metricName string) (map[string]float64, float64, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, 0, fmt.Errorf("%d params but %d ranges", len(g.paramNames), len(g.ranges))
	}
	probe := base.Engine.GetParams()
	for _, name := range g.paramNames {
		if _, ok := probe[name]; !ok {
			return nil, 0, fmt.Errorf("unknown param: %s", name)
		}
	}

	best := math.Inf(1)
	var bestParams map[string]float64
	g.evaluated = 0

	g.searchRecursive(ctx, 0, make(map[string]float64), base, metricName, &best, &bestParams)

	if err := ctx.Err(); err != nil {
		return bestParams, best, err
	}
	if bestParams == nil {
		return nil, best, fmt.Errorf("no valid combination for metric %q", metricName)
	}
	return bestParams, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	base *config.Config,
	metricName string,
	best *float64,
	bestParams *map[string]float64,
) {
	if ctx.Err() != nil {
		return
	}
	if depth == len(g.paramNames) {
		cfg := base.Clone()
		for k, v := range current {
			cfg.Engine.SetParam(k, v)
		}

		result, err := experiment.RunConfig(ctx, cfg)
		if err != nil {
			return
		}
		val, ok := result.Metrics[metricName]
		if !ok {
			return
		}
		g.evaluated++

		if val < *best {
			*best = val
			*bestParams = make(map[string]float64)
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		g.searchRecursive(ctx, depth+1, newParams, base, metricName, best, bestParams)
	}
}
