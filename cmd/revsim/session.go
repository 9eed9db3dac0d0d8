package main

import (
	"fmt"

	"github.com/san-kum/revsim/internal/config"
	"github.com/spf13/pflag"
)

// sessionFlags are the flags shared by every command that builds a
// session: a preset or session file, then individual overrides.
type sessionFlags struct {
	preset     string
	configFile string
	controller string
	autoShift  bool
	dt         float64
	duration   float64
	seed       int64
	throttle   float64
	brake      float64
	load       float64
	gear       int
	target     float64
	kp, ki, kd float64

	fs *pflag.FlagSet
}

func (f *sessionFlags) register(fs *pflag.FlagSet) {
	f.fs = fs
	fs.StringVar(&f.preset, "preset", "", "start from a named preset")
	fs.StringVar(&f.configFile, "config", "", "session file (yaml); overrides the preset")
	fs.StringVar(&f.controller, "controller", "", "driver: none, manual or pid")
	fs.BoolVar(&f.autoShift, "auto-shift", false, "shift gears automatically")
	fs.Float64Var(&f.dt, "dt", config.DefaultDt, "timestep in seconds")
	fs.Float64Var(&f.duration, "time", config.DefaultDuration, "duration in seconds")
	fs.Int64Var(&f.seed, "seed", config.DefaultSeed, "random seed for the backfire detector")
	fs.Float64Var(&f.throttle, "throttle", 0, "manual throttle [0, 1]")
	fs.Float64Var(&f.brake, "brake", 0, "manual brake [0, 1]")
	fs.Float64Var(&f.load, "load", 0, "road load [0, 1]")
	fs.IntVar(&f.gear, "gear", 1, "starting gear (0 is neutral)")
	fs.Float64Var(&f.target, "target", config.DefaultCruise, "pid cruise target in km/h")
	fs.Float64Var(&f.kp, "kp", config.DefaultKp, "pid kp")
	fs.Float64Var(&f.ki, "ki", config.DefaultKi, "pid ki")
	fs.Float64Var(&f.kd, "kd", config.DefaultKd, "pid kd")
}

func (f *sessionFlags) changed(name string) bool {
	return f.fs != nil && f.fs.Changed(name)
}

// build resolves the session: defaults, then preset, then session file,
// then any flag set explicitly.
func (f *sessionFlags) build() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if f.preset != "" {
		cfg = config.GetPreset(f.preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", f.preset, config.ListPresets())
		}
	}
	if f.configFile != "" {
		loaded, err := config.Load(f.configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if f.changed("controller") {
		cfg.Controller = f.controller
	}
	if f.changed("auto-shift") {
		cfg.AutoShift = f.autoShift
	}
	if f.changed("dt") {
		cfg.Dt = f.dt
	}
	if f.changed("time") {
		cfg.Duration = f.duration
	}
	if f.changed("seed") {
		cfg.Seed = f.seed
	}
	if f.changed("throttle") {
		cfg.Driver.Throttle = f.throttle
	}
	if f.changed("brake") {
		cfg.Driver.Brake = f.brake
	}
	if f.changed("load") {
		cfg.Driver.Load = f.load
	}
	if f.changed("gear") {
		cfg.Driver.Gear = f.gear
	}
	if f.changed("target") {
		cfg.ControllerParams.Target = f.target
	}
	if f.changed("kp") {
		cfg.ControllerParams.Kp = f.kp
	}
	if f.changed("ki") {
		cfg.ControllerParams.Ki = f.ki
	}
	if f.changed("kd") {
		cfg.ControllerParams.Kd = f.kd
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
