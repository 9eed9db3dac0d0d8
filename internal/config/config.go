package config

import (
	"fmt"
	"os"

	"github.com/san-kum/revsim/internal/powertrain"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDt        = 1.0 / 60
	DefaultDuration  = 30.0
	DefaultSeed      = 1
	DefaultShiftUp   = 6500.0
	DefaultShiftDown = 2500.0
	DefaultKp        = 0.08
	DefaultKi        = 0.01
	DefaultKd        = 0.0
	DefaultCruise    = 100.0
)

// Config is one simulation session: engine tuning, driver and run length.
type Config struct {
	Preset           string            `yaml:"preset,omitempty"`
	Controller       string            `yaml:"controller"`
	AutoShift        bool              `yaml:"auto_shift"`
	Dt               float64           `yaml:"dt"`
	Duration         float64           `yaml:"duration"`
	Seed             int64             `yaml:"seed"`
	Engine           powertrain.Config `yaml:"engine"`
	Driver           DriverConfig      `yaml:"driver"`
	ControllerParams ControllerConfig  `yaml:"controller_params"`
}

// DriverConfig holds the pedals a manual driver keeps pressed and the gear
// the run starts in.
type DriverConfig struct {
	Throttle float64 `yaml:"throttle"`
	Brake    float64 `yaml:"brake"`
	Load     float64 `yaml:"load"`
	Gear     int     `yaml:"gear"`
}

type ControllerConfig struct {
	Kp        float64 `yaml:"kp"`
	Ki        float64 `yaml:"ki"`
	Kd        float64 `yaml:"kd"`
	Target    float64 `yaml:"target"`
	ShiftUp   float64 `yaml:"shift_up"`
	ShiftDown float64 `yaml:"shift_down"`
}

func DefaultConfig() *Config {
	return &Config{
		Controller: "manual",
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		Seed:       DefaultSeed,
		Engine:     powertrain.DefaultConfig(),
		Driver: DriverConfig{
			Gear: 1,
		},
		ControllerParams: ControllerConfig{
			Kp:        DefaultKp,
			Ki:        DefaultKi,
			Kd:        DefaultKd,
			Target:    DefaultCruise,
			ShiftUp:   DefaultShiftUp,
			ShiftDown: DefaultShiftDown,
		},
	}
}

// Load reads a session file. Fields the file omits keep their defaults; a
// `preset` key starts from that preset instead.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	var head struct {
		Preset string `yaml:"preset"`
	}
	if err := yaml.Unmarshal(data, &head); err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if head.Preset != "" {
		if cfg = GetPreset(head.Preset); cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s", head.Preset)
		}
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if !(c.Dt > 0) {
		return fmt.Errorf("dt must be positive, got %f", c.Dt)
	}
	if !(c.Duration > 0) {
		return fmt.Errorf("duration must be positive, got %f", c.Duration)
	}
	if err := c.Engine.Validate(); err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	if c.Driver.Gear < 0 || c.Driver.Gear >= len(c.Engine.GearRatios) {
		return fmt.Errorf("driver gear %d outside [0, %d]", c.Driver.Gear, len(c.Engine.GearRatios)-1)
	}
	return nil
}

// TopGear is the highest selectable gear.
func (c *Config) TopGear() int {
	return len(c.Engine.GearRatios) - 1
}

func (c *Config) GetControllerParams() map[string]float64 {
	return map[string]float64{
		"kp":         c.ControllerParams.Kp,
		"ki":         c.ControllerParams.Ki,
		"kd":         c.ControllerParams.Kd,
		"target":     c.ControllerParams.Target,
		"shift_up":   c.ControllerParams.ShiftUp,
		"shift_down": c.ControllerParams.ShiftDown,
		"throttle":   c.Driver.Throttle,
		"brake":      c.Driver.Brake,
		"load":       c.Driver.Load,
		"top_gear":   float64(c.TopGear()),
	}
}

// Clone deep-copies the session, including the engine slices.
func (c *Config) Clone() *Config {
	out := *c
	out.Engine = c.Engine.Clone()
	return &out
}
