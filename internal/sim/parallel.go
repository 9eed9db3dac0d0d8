package sim

import (
	"context"
	"runtime"
	"sync"

	"github.com/san-kum/revsim/internal/powertrain"
)

// EngineFactory builds a fresh engine whose random source is seeded with seed.
type EngineFactory func(seed int64) (*powertrain.Engine, error)

// Ensemble runs the same setup over consecutive seeds in parallel. Engines,
// controllers and metrics are built per run; nothing is shared between goroutines.
type Ensemble struct {
	newEngine     EngineFactory
	newController func() Controller
	newMetrics    func() []Metric
	numRuns       int
	seedStart     int64

	// Workers caps concurrent runs; zero means GOMAXPROCS.
	Workers int
}

func NewEnsemble(newEngine EngineFactory, newController func() Controller, newMetrics func() []Metric, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{
		newEngine:     newEngine,
		newController: newController,
		newMetrics:    newMetrics,
		numRuns:       numRuns,
		seedStart:     seedStart,
	}
}

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	workers := e.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	sem := make(chan struct{}, workers)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()

			cfgCopy := cfg
			cfgCopy.Seed = e.seedStart + int64(idx)

			eng, err := e.newEngine(cfgCopy.Seed)
			if err != nil {
				errs[idx] = err
				return
			}

			s := New(e.newController())
			if e.newMetrics != nil {
				for _, m := range e.newMetrics() {
					s.AddMetric(m)
				}
			}

			results[idx], errs[idx] = s.Run(ctx, eng, cfgCopy)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}

// MeanMetric averages a named metric over ensemble results.
func MeanMetric(results []*Result, name string) float64 {
	if len(results) == 0 {
		return 0
	}
	sum := 0.0
	for _, r := range results {
		sum += r.Metrics[name]
	}
	return sum / float64(len(results))
}
