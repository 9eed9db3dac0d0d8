package powertrain

const (
	// FuelCutTorque is the engine-braking torque applied while fuel is cut.
	FuelCutTorque = -50.0

	fuelCutOnMargin  = 50.0
	fuelCutOffMargin = 150.0
)

// RevLimiter is a two-state hysteresis machine: fuel is cut above
// redline+50 and restored below redline-150. Inside the band the current
// state is kept.
type RevLimiter struct {
	Redline float64
}

// Next returns the fuel-cut state for this tick given the previous one.
func (l RevLimiter) Next(rpm float64, cut bool) bool {
	if rpm > l.Redline+fuelCutOnMargin {
		return true
	}
	if cut && rpm < l.Redline-fuelCutOffMargin {
		return false
	}
	return cut
}
