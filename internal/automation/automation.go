package automation

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/rs/zerolog"
	"github.com/san-kum/revsim/internal/config"
	"github.com/san-kum/revsim/internal/control"
	"github.com/san-kum/revsim/internal/experiment"
	"github.com/san-kum/revsim/internal/powertrain"
	"github.com/san-kum/revsim/internal/sim"
	"gopkg.in/yaml.v3"
)

// Script is a timed drive: a base session plus pedal and gear events.
type Script struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Preset      string       `yaml:"preset"`
	Duration    float64      `yaml:"duration"`
	Dt          float64      `yaml:"dt"`
	Seed        int64        `yaml:"seed"`
	AutoShift   bool         `yaml:"auto_shift"`
	Steps       []ScriptStep `yaml:"steps"`
}

// ScriptStep fires once when the run clock reaches At. Unset pedals keep
// their previous value.
type ScriptStep struct {
	At       float64  `yaml:"at"`
	Throttle *float64 `yaml:"throttle"`
	Brake    *float64 `yaml:"brake"`
	Load     *float64 `yaml:"load"`
	Shift    int      `yaml:"shift"`
}

// LoadScript loads a drive script from a YAML file
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScript(data)
}

func ParseScript(data []byte) (*Script, error) {
	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, err
	}
	for i, step := range script.Steps {
		if step.At < 0 {
			return nil, fmt.Errorf("step %d: negative time %v", i+1, step.At)
		}
	}
	sort.SliceStable(script.Steps, func(i, j int) bool { return script.Steps[i].At < script.Steps[j].At })
	return &script, nil
}

// Config resolves the session the script runs in.
func (s *Script) Config() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Preset != "" {
		if cfg = config.GetPreset(s.Preset); cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s", s.Preset)
		}
	}
	if s.Duration > 0 {
		cfg.Duration = s.Duration
	}
	if s.Dt > 0 {
		cfg.Dt = s.Dt
	}
	if s.Seed != 0 {
		cfg.Seed = s.Seed
	}
	cfg.AutoShift = cfg.AutoShift || s.AutoShift
	return cfg, cfg.Validate()
}

// Player replays script steps as a controller.
type Player struct {
	steps []ScriptStep
	next  int
	u     sim.Inputs
}

func NewPlayer(steps []ScriptStep) *Player {
	return &Player{steps: steps}
}

func (p *Player) Compute(last powertrain.Telemetry, t float64) sim.Inputs {
	p.u.Shift = 0
	for p.next < len(p.steps) && p.steps[p.next].At <= t+1e-9 {
		step := p.steps[p.next]
		if step.Throttle != nil {
			p.u.Throttle = *step.Throttle
		}
		if step.Brake != nil {
			p.u.Brake = *step.Brake
		}
		if step.Load != nil {
			p.u.Load = *step.Load
		}
		p.u.Shift += step.Shift
		p.next++
	}
	return p.u
}

// Done reports whether every step has fired.
func (p *Player) Done() bool { return p.next >= len(p.steps) }

// RunScript executes a drive script with the default metrics attached.
func RunScript(ctx context.Context, script *Script, log zerolog.Logger, observers ...sim.Observer) (*sim.Result, error) {
	cfg, err := script.Config()
	if err != nil {
		return nil, fmt.Errorf("script %q: %w", script.Name, err)
	}

	var ctrl sim.Controller = NewPlayer(script.Steps)
	if cfg.AutoShift {
		ctrl = control.NewAutoShift(ctrl, cfg.ControllerParams.ShiftUp, cfg.ControllerParams.ShiftDown, cfg.TopGear())
	}

	exp := experiment.New(cfg)
	if err := exp.Setup(ctrl, experiment.NewRegistry().DefaultMetrics()); err != nil {
		return nil, fmt.Errorf("script %q setup: %w", script.Name, err)
	}
	for _, obs := range observers {
		exp.GetSimulator().AddObserver(obs)
	}

	log.Info().Str("script", script.Name).Int("steps", len(script.Steps)).Float64("duration", cfg.Duration).Msg("running script")
	result, err := exp.Run(ctx)
	if err != nil {
		return result, fmt.Errorf("script %q run: %w", script.Name, err)
	}
	return result, nil
}

// ParameterSweep runs one session per value of a single engine parameter.
type ParameterSweep struct {
	Base      *config.Config
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
}

type SweepResult struct {
	ParamValue float64
	Metrics    map[string]float64
	Final      powertrain.Telemetry
}

// RunSweep executes a parameter sweep
func RunSweep(ctx context.Context, sweep *ParameterSweep, log zerolog.Logger) ([]SweepResult, error) {
	if sweep.NumSteps < 2 {
		return nil, fmt.Errorf("sweep needs at least 2 steps, got %d", sweep.NumSteps)
	}
	results := make([]SweepResult, 0, sweep.NumSteps)

	paramStep := (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)

	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.ParamMin + float64(i)*paramStep

		cfg := sweep.Base.Clone()
		if err := cfg.Engine.SetParam(sweep.ParamName, paramVal); err != nil {
			return nil, err
		}

		result, err := experiment.RunConfig(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("%s=%.4f: %w", sweep.ParamName, paramVal, err)
		}

		results = append(results, SweepResult{
			ParamValue: paramVal,
			Metrics:    result.Metrics,
			Final:      result.Last(),
		})

		log.Debug().Int("step", i+1).Int("of", sweep.NumSteps).Float64(sweep.ParamName, paramVal).Msg("sweep")
	}

	return results, nil
}
