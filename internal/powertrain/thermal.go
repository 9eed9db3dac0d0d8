package powertrain

import "math"

// DamagedThrottleLimit caps throttle once the engine has overheated.
const DamagedThrottleLimit = 0.5

// ThermalModel integrates coolant temperature. Heat is proportional to
// positive torque times throttle and scaled by dt; the cooling term already
// includes dt and an extra 0.3 factor, so the two terms scale differently.
type ThermalModel struct {
	OverheatRate      float64
	CoolingEfficiency float64
	AmbientTemp       float64
	MaxCoolantTemp    float64
}

func (m ThermalModel) Advance(temp, torque, throttle, dt float64) float64 {
	heat := math.Max(0, torque) * throttle * m.OverheatRate
	cool := (temp - m.AmbientTemp) * m.CoolingEfficiency * dt * 0.3
	return temp + heat*dt - cool
}

// Overheated reports whether temp is past the damage threshold.
func (m ThermalModel) Overheated(temp float64) bool {
	return temp > m.MaxCoolantTemp
}
