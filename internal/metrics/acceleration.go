package metrics

import (
	"github.com/san-kum/revsim/internal/powertrain"
	"github.com/san-kum/revsim/internal/sim"
)

// SprintTime records the elapsed time at which the vehicle first reaches
// Target km/h. Value is 0 if it never does.
type SprintTime struct {
	name    string
	Target  float64
	reached float64
	done    bool
}

func NewZeroTo100() *SprintTime {
	return &SprintTime{name: "zero_to_100", Target: 100}
}

func (s *SprintTime) Name() string {
	return s.name
}

func (s *SprintTime) Observe(tel powertrain.Telemetry, u sim.Inputs) {
	if !s.done && tel.SpeedKMH >= s.Target {
		s.reached = tel.Time
		s.done = true
	}
}

func (s *SprintTime) Value() float64 {
	return s.reached
}

func (s *SprintTime) Reset() {
	s.reached = 0
	s.done = false
}
