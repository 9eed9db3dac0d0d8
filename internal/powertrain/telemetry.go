package powertrain

import "strconv"

// Telemetry is the read-only snapshot emitted after each completed tick.
type Telemetry struct {
	Time        float64 `json:"time" yaml:"time"`
	RPM         float64 `json:"rpm" yaml:"rpm"`
	Throttle    float64 `json:"throttle" yaml:"throttle"`
	Gear        int     `json:"gear" yaml:"gear"`
	Boost       float64 `json:"boost" yaml:"boost"`
	Torque      float64 `json:"torque" yaml:"torque"`
	AFR         float64 `json:"afr" yaml:"afr"`
	SpeedKMH    float64 `json:"speed_kmh" yaml:"speed_kmh"`
	CoolantTemp float64 `json:"coolant_temp" yaml:"coolant_temp"`
	LimpMode    bool    `json:"limp_mode" yaml:"limp_mode"`
	Damaged     bool    `json:"damaged" yaml:"damaged"`
	Backfire    bool    `json:"backfire" yaml:"backfire"`
	FuelCut     bool    `json:"fuel_cut" yaml:"fuel_cut"`
	Brake       bool    `json:"brake" yaml:"brake"`
}

// GearLabel renders the gear the way a dash shows it: N for neutral.
func (t Telemetry) GearLabel() string {
	if t.Gear == 0 {
		return "N"
	}
	return strconv.Itoa(t.Gear)
}
