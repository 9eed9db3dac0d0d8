package metrics

import (
	"fmt"
	"sort"

	"github.com/san-kum/revsim/internal/sim"
)

var factories = map[string]func() sim.Metric{
	"peak_rpm":       func() sim.Metric { return NewPeakRPM() },
	"max_coolant":    func() sim.Metric { return NewMaxCoolant() },
	"backfires":      func() sim.Metric { return NewBackfires() },
	"fuel_cut_ratio": func() sim.Metric { return NewFuelCutRatio() },
	"zero_to_100":    func() sim.Metric { return NewZeroTo100() },
	"mean_throttle":  func() sim.Metric { return NewMeanThrottle() },
}

// New returns a fresh metric by name.
func New(name string) (sim.Metric, error) {
	f, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s", name)
	}
	return f(), nil
}

func Names() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Default returns one fresh instance of every metric.
func Default() []sim.Metric {
	out := make([]sim.Metric, 0, len(factories))
	for _, name := range Names() {
		out = append(out, factories[name]())
	}
	return out
}
