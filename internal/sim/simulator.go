package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/revsim/internal/powertrain"
)

type Simulator struct {
	controller Controller
	metrics    []Metric
	observers  []Observer
}

func New(controller Controller) *Simulator {
	return &Simulator{
		controller: controller,
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run drives eng for cfg.Duration seconds in fixed cfg.Dt steps. On
// cancellation the partial result is returned with ctx.Err().
func (s *Simulator) Run(ctx context.Context, eng *powertrain.Engine, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := stepCount(cfg)
	result := &Result{
		Telemetry: make([]powertrain.Telemetry, 0, steps),
		Inputs:    make([]Inputs, 0, steps),
		Metrics:   make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	digest := NewDigest()
	last := eng.Snapshot()

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			s.finish(result, digest)
			return result, ctx.Err()
		default:
		}

		u := s.controller.Compute(last, last.Time)
		Apply(eng, u)

		tel, err := eng.Step(cfg.Dt)
		if err != nil {
			s.finish(result, digest)
			return result, SimError{Time: last.Time, Step: i, Message: "step failed", Err: err}
		}

		for _, m := range s.metrics {
			m.Observe(tel, u)
		}
		for _, obs := range s.observers {
			obs.OnStep(tel, u)
		}
		digest.Add(tel)

		result.Telemetry = append(result.Telemetry, tel)
		result.Inputs = append(result.Inputs, u)
		result.StepsTaken++
		last = tel
	}

	s.finish(result, digest)
	return result, nil
}

func (s *Simulator) finish(result *Result, digest *Digest) {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	result.Digest = digest.Sum64()
}

// RunWithCallback streams snapshots to callback instead of collecting them.
// Returning false from callback stops the run without error.
func (s *Simulator) RunWithCallback(ctx context.Context, eng *powertrain.Engine, cfg Config, callback func(powertrain.Telemetry, Inputs) bool) error {
	if err := s.validateConfig(cfg); err != nil {
		return err
	}

	last := eng.Snapshot()
	for i, steps := 0, stepCount(cfg); i < steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		u := s.controller.Compute(last, last.Time)
		Apply(eng, u)

		tel, err := eng.Step(cfg.Dt)
		if err != nil {
			return SimError{Time: last.Time, Step: i, Message: "step failed", Err: err}
		}
		for _, obs := range s.observers {
			obs.OnStep(tel, u)
		}
		if !callback(tel, u) {
			return nil
		}
		last = tel
	}
	return nil
}

func (s *Simulator) validateConfig(cfg Config) error {
	if !(cfg.Dt > 0) || math.IsInf(cfg.Dt, 0) {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if !(cfg.Duration > 0) || math.IsInf(cfg.Duration, 0) {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	if s.controller == nil {
		return fmt.Errorf("no controller set")
	}
	return nil
}

// stepCount tolerates Duration/Dt landing a hair under an integer.
func stepCount(cfg Config) int {
	return int(cfg.Duration/cfg.Dt + 1e-9)
}

// Apply pushes inputs into the engine through its clamping setters.
func Apply(eng *powertrain.Engine, u Inputs) {
	eng.SetThrottle(u.Throttle)
	eng.SetBrake(u.Brake)
	eng.SetLoad(u.Load)
	eng.Shift(u.Shift)
}
