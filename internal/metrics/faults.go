package metrics

import (
	"github.com/san-kum/revsim/internal/powertrain"
	"github.com/san-kum/revsim/internal/sim"
)

type Backfires struct {
	count int
}

func NewBackfires() *Backfires {
	return &Backfires{}
}

func (b *Backfires) Name() string { return "backfires" }

func (b *Backfires) Observe(tel powertrain.Telemetry, u sim.Inputs) {
	if tel.Backfire {
		b.count++
	}
}

func (b *Backfires) Value() float64 { return float64(b.count) }
func (b *Backfires) Reset()         { b.count = 0 }

// FuelCutRatio is the fraction of ticks spent on the rev limiter.
type FuelCutRatio struct {
	cut     int
	samples int
}

func NewFuelCutRatio() *FuelCutRatio {
	return &FuelCutRatio{}
}

func (f *FuelCutRatio) Name() string { return "fuel_cut_ratio" }

func (f *FuelCutRatio) Observe(tel powertrain.Telemetry, u sim.Inputs) {
	f.samples++
	if tel.FuelCut {
		f.cut++
	}
}

func (f *FuelCutRatio) Value() float64 {
	if f.samples == 0 {
		return 0
	}
	return float64(f.cut) / float64(f.samples)
}

func (f *FuelCutRatio) Reset() {
	f.cut = 0
	f.samples = 0
}
