package powertrain

import (
	"fmt"
	"math"
)

const (
	DefaultIdleRPM           = 900.0
	DefaultRedline           = 7500.0
	DefaultInertia           = 0.02
	DefaultFinalDrive        = 3.9
	DefaultMaxBoost          = 1.6
	DefaultVehicleMass       = 1350.0
	DefaultWheelRadius       = 0.33
	DefaultDragCoefficient   = 0.30
	DefaultFrontalArea       = 2.2
	DefaultAirDensity        = 1.225
	DefaultTurboInertia      = 0.2
	DefaultCoolingEfficiency = 0.6
	DefaultAmbientTemp       = 25.0
	DefaultMaxCoolantTemp    = 120.0
	DefaultOverheatRate      = 0.08
)

// TorquePoint is one sample of a torque curve.
type TorquePoint struct {
	RPM    float64 `yaml:"rpm" json:"rpm"`
	Torque float64 `yaml:"torque" json:"torque"`
}

// Config holds the physical and tuning constants of one engine/vehicle.
// It is read at every tick; change it between ticks with Engine.Reconfigure.
type Config struct {
	IdleRPM           float64       `yaml:"idle_rpm" json:"idle_rpm"`
	Redline           float64       `yaml:"redline" json:"redline"`
	Inertia           float64       `yaml:"inertia" json:"inertia"`
	FinalDrive        float64       `yaml:"final_drive" json:"final_drive"`
	GearRatios        []float64     `yaml:"gear_ratios" json:"gear_ratios"`
	MaxBoost          float64       `yaml:"max_boost" json:"max_boost"`
	VehicleMass       float64       `yaml:"vehicle_mass" json:"vehicle_mass"`
	WheelRadius       float64       `yaml:"wheel_radius" json:"wheel_radius"`
	DragCoefficient   float64       `yaml:"drag_coefficient" json:"drag_coefficient"`
	FrontalArea       float64       `yaml:"frontal_area" json:"frontal_area"`
	AirDensity        float64       `yaml:"air_density" json:"air_density"`
	TurboInertia      float64       `yaml:"turbo_inertia" json:"turbo_inertia"`
	CoolingEfficiency float64       `yaml:"cooling_efficiency" json:"cooling_efficiency"`
	AmbientTemp       float64       `yaml:"ambient_temp" json:"ambient_temp"`
	MaxCoolantTemp    float64       `yaml:"max_coolant_temp" json:"max_coolant_temp"`
	OverheatRate      float64       `yaml:"overheat_rate" json:"overheat_rate"`
	TorqueCurve       []TorquePoint `yaml:"torque_curve" json:"torque_curve"`
}

// DefaultTorqueCurve is the stock naturally-aspirated torque map.
func DefaultTorqueCurve() []TorquePoint {
	return []TorquePoint{
		{800, 160}, {1500, 200}, {2500, 280},
		{3500, 320}, {4500, 340}, {5500, 330},
		{6500, 300}, {7500, 240}, {8000, 100},
	}
}

func DefaultConfig() Config {
	return Config{
		IdleRPM:           DefaultIdleRPM,
		Redline:           DefaultRedline,
		Inertia:           DefaultInertia,
		FinalDrive:        DefaultFinalDrive,
		GearRatios:        []float64{0.0, 3.8, 2.3, 1.5, 1.1, 0.9},
		MaxBoost:          DefaultMaxBoost,
		VehicleMass:       DefaultVehicleMass,
		WheelRadius:       DefaultWheelRadius,
		DragCoefficient:   DefaultDragCoefficient,
		FrontalArea:       DefaultFrontalArea,
		AirDensity:        DefaultAirDensity,
		TurboInertia:      DefaultTurboInertia,
		CoolingEfficiency: DefaultCoolingEfficiency,
		AmbientTemp:       DefaultAmbientTemp,
		MaxCoolantTemp:    DefaultMaxCoolantTemp,
		OverheatRate:      DefaultOverheatRate,
		TorqueCurve:       DefaultTorqueCurve(),
	}
}

// Clone returns a deep copy so callers can tweak a config without aliasing
// the gear and torque slices of the original.
func (c Config) Clone() Config {
	out := c
	out.GearRatios = append([]float64(nil), c.GearRatios...)
	out.TorqueCurve = append([]TorquePoint(nil), c.TorqueCurve...)
	return out
}

// Validate reports the first value that would lead to a division by zero or
// an undefined lookup. Errors wrap ErrInvalidConfig.
func (c Config) Validate() error {
	positive := []struct {
		name string
		v    float64
	}{
		{"inertia", c.Inertia},
		{"wheel_radius", c.WheelRadius},
		{"vehicle_mass", c.VehicleMass},
		{"final_drive", c.FinalDrive},
		{"redline", c.Redline},
	}
	for _, p := range positive {
		if !(p.v > 0) || math.IsInf(p.v, 0) {
			return &ConfigError{Field: p.name, Value: p.v, Reason: "must be positive"}
		}
	}

	if len(c.GearRatios) < 2 {
		return &ConfigError{
			Field:  "gear_ratios",
			Value:  float64(len(c.GearRatios)),
			Reason: "need neutral plus at least one gear",
		}
	}
	if c.GearRatios[0] != 0 {
		return &ConfigError{Field: "gear_ratios[0]", Value: c.GearRatios[0], Reason: "neutral ratio must be 0"}
	}
	for i, r := range c.GearRatios[1:] {
		if !(r > 0) || math.IsInf(r, 0) {
			return &ConfigError{Field: fmt.Sprintf("gear_ratios[%d]", i+1), Value: r, Reason: "must be positive"}
		}
	}

	if _, err := NewTorqueCurve(c.TorqueCurve); err != nil {
		return err
	}
	return nil
}

// GetParams exposes the scalar tuning values by name.
func (c *Config) GetParams() map[string]float64 {
	return map[string]float64{
		"idle_rpm":           c.IdleRPM,
		"redline":            c.Redline,
		"inertia":            c.Inertia,
		"final_drive":        c.FinalDrive,
		"max_boost":          c.MaxBoost,
		"vehicle_mass":       c.VehicleMass,
		"wheel_radius":       c.WheelRadius,
		"drag_coefficient":   c.DragCoefficient,
		"frontal_area":       c.FrontalArea,
		"air_density":        c.AirDensity,
		"turbo_inertia":      c.TurboInertia,
		"cooling_efficiency": c.CoolingEfficiency,
		"ambient_temp":       c.AmbientTemp,
		"max_coolant_temp":   c.MaxCoolantTemp,
		"overheat_rate":      c.OverheatRate,
	}
}

// SetParam sets a scalar tuning value by name. It does not validate; call
// Validate (or Engine.Reconfigure) afterwards.
func (c *Config) SetParam(name string, value float64) error {
	switch name {
	case "idle_rpm":
		c.IdleRPM = value
	case "redline":
		c.Redline = value
	case "inertia":
		c.Inertia = value
	case "final_drive":
		c.FinalDrive = value
	case "max_boost":
		c.MaxBoost = value
	case "vehicle_mass":
		c.VehicleMass = value
	case "wheel_radius":
		c.WheelRadius = value
	case "drag_coefficient":
		c.DragCoefficient = value
	case "frontal_area":
		c.FrontalArea = value
	case "air_density":
		c.AirDensity = value
	case "turbo_inertia":
		c.TurboInertia = value
	case "cooling_efficiency":
		c.CoolingEfficiency = value
	case "ambient_temp":
		c.AmbientTemp = value
	case "max_coolant_temp":
		c.MaxCoolantTemp = value
	case "overheat_rate":
		c.OverheatRate = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}
