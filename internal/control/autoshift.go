package control

import (
	"github.com/san-kum/revsim/internal/powertrain"
	"github.com/san-kum/revsim/internal/sim"
)

// DefaultShiftInterval is the minimum time between two automatic shifts.
const DefaultShiftInterval = 0.5

// AutoShift wraps a pedal controller with rpm-based gear selection. It never
// shifts out of or into neutral.
type AutoShift struct {
	Inner    sim.Controller
	Up       float64
	Down     float64
	TopGear  int
	Interval float64

	lastShift float64
	shifted   bool
}

func NewAutoShift(inner sim.Controller, up, down float64, topGear int) *AutoShift {
	return &AutoShift{
		Inner:    inner,
		Up:       up,
		Down:     down,
		TopGear:  topGear,
		Interval: DefaultShiftInterval,
	}
}

func (a *AutoShift) Compute(last powertrain.Telemetry, t float64) sim.Inputs {
	u := a.Inner.Compute(last, t)
	if last.Gear == 0 || (a.shifted && t-a.lastShift < a.Interval) {
		return u
	}

	switch {
	case last.RPM > a.Up && last.Gear < a.TopGear:
		u.Shift = 1
	case last.RPM < a.Down && last.Gear > 1:
		u.Shift = -1
	default:
		return u
	}
	a.lastShift = t
	a.shifted = true
	return u
}
