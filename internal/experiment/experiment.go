package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/revsim/internal/config"
	"github.com/san-kum/revsim/internal/powertrain"
	"github.com/san-kum/revsim/internal/sim"
)

// Experiment is one configured session: a seeded engine, a driver and the
// metrics to collect.
type Experiment struct {
	cfg       *config.Config
	engine    *powertrain.Engine
	simulator *sim.Simulator
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{cfg: cfg.Clone()}
}

// NewEngine builds the session's engine in the configured starting gear.
func NewEngine(cfg *config.Config, seed int64) (*powertrain.Engine, error) {
	state := powertrain.InitialState(cfg.Engine)
	state.Gear = cfg.Driver.Gear
	return powertrain.New(cfg.Engine, powertrain.WithSeed(seed), powertrain.WithState(state))
}

func (e *Experiment) Setup(controller sim.Controller, metrics []sim.Metric) error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}
	eng, err := NewEngine(e.cfg, e.cfg.Seed)
	if err != nil {
		return err
	}

	e.engine = eng
	e.simulator = sim.New(controller)
	for _, m := range metrics {
		e.simulator.AddMetric(m)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	simCfg := sim.Config{
		Dt:       e.cfg.Dt,
		Duration: e.cfg.Duration,
		Seed:     e.cfg.Seed,
	}

	return e.simulator.Run(ctx, e.engine, simCfg)
}

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}

func (e *Experiment) Engine() *powertrain.Engine {
	return e.engine
}

func (e *Experiment) Config() *config.Config {
	return e.cfg
}

// RunConfig is the one-call path used by the CLI and the tuner: build the
// controller from the registry, attach default metrics and run.
func RunConfig(ctx context.Context, cfg *config.Config, observers ...sim.Observer) (*sim.Result, error) {
	reg := NewRegistry()
	ctrl, err := reg.ControllerFor(cfg)
	if err != nil {
		return nil, err
	}

	exp := New(cfg)
	if err := exp.Setup(ctrl, reg.DefaultMetrics()); err != nil {
		return nil, err
	}
	for _, obs := range observers {
		exp.GetSimulator().AddObserver(obs)
	}
	return exp.Run(ctx)
}
