package config

import "sort"

var Presets = map[string]func() *Config{
	"stock": func() *Config {
		cfg := DefaultConfig()
		cfg.Preset = "stock"
		cfg.AutoShift = true
		cfg.Driver.Throttle = 0.6
		return cfg
	},
	"track": func() *Config {
		cfg := DefaultConfig()
		cfg.Preset = "track"
		cfg.AutoShift = true
		cfg.Duration = 40
		cfg.Engine.Redline = 8000
		cfg.Engine.MaxBoost = 2.0
		cfg.Engine.FinalDrive = 4.3
		cfg.Engine.CoolingEfficiency = 0.9
		cfg.Driver.Throttle = 1.0
		cfg.ControllerParams.ShiftUp = 7400
		cfg.ControllerParams.ShiftDown = 4000
		return cfg
	},
	"overheat": func() *Config {
		cfg := DefaultConfig()
		cfg.Preset = "overheat"
		cfg.Duration = 60
		cfg.Engine.MaxCoolantTemp = 60
		cfg.Engine.OverheatRate = 0.2
		cfg.Engine.CoolingEfficiency = 0.2
		cfg.Driver.Throttle = 1.0
		cfg.Driver.Gear = 0
		return cfg
	},
	"economy": func() *Config {
		cfg := DefaultConfig()
		cfg.Preset = "economy"
		cfg.Controller = "pid"
		cfg.AutoShift = true
		cfg.Duration = 90
		cfg.Engine.MaxBoost = 0.8
		cfg.Engine.FinalDrive = 3.4
		cfg.ControllerParams.Target = 90
		cfg.ControllerParams.ShiftUp = 3000
		cfg.ControllerParams.ShiftDown = 1500
		return cfg
	},
	"drag": func() *Config {
		cfg := DefaultConfig()
		cfg.Preset = "drag"
		cfg.AutoShift = true
		cfg.Duration = 15
		cfg.Engine.VehicleMass = 1200
		cfg.Driver.Throttle = 1.0
		cfg.ControllerParams.ShiftUp = 7200
		return cfg
	},
}

// GetPreset returns a fresh copy of the named preset, or nil.
func GetPreset(name string) *Config {
	build, ok := Presets[name]
	if !ok {
		return nil
	}
	return build()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
