package sim

import (
	"fmt"

	"github.com/san-kum/revsim/internal/powertrain"
)

// Inputs is one tick's worth of driver commands. Shift is the number of
// single-step gear changes to apply, positive for up.
type Inputs struct {
	Throttle float64 `json:"throttle"`
	Brake    float64 `json:"brake"`
	Load     float64 `json:"load"`
	Shift    int     `json:"shift"`
}

// Controller decides the next inputs from the last completed snapshot.
type Controller interface {
	Compute(last powertrain.Telemetry, t float64) Inputs
}

type Metric interface {
	Name() string
	Observe(tel powertrain.Telemetry, u Inputs)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(tel powertrain.Telemetry, u Inputs)
}

type Config struct {
	Dt       float64
	Duration float64
	Seed     int64
}

func DefaultConfig() Config {
	return Config{
		Dt:       1.0 / 60,
		Duration: 30.0,
	}
}

type Result struct {
	Telemetry  []powertrain.Telemetry
	Inputs     []Inputs
	Metrics    map[string]float64
	StepsTaken int
	Digest     uint64
}

// Last returns the final snapshot, or the zero value for an empty run.
func (r *Result) Last() powertrain.Telemetry {
	if len(r.Telemetry) == 0 {
		return powertrain.Telemetry{}
	}
	return r.Telemetry[len(r.Telemetry)-1]
}

type SimError struct {
	Time    float64
	Step    int
	Message string
	Err     error
}

func (e SimError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("step %d (t=%.4f): %s: %v", e.Step, e.Time, e.Message, e.Err)
	}
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}

func (e SimError) Unwrap() error { return e.Err }
