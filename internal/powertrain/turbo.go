package powertrain

import "math"

const (
	spoolDownRate   = 3.0
	boostTorqueGain = 0.8
)

// TurboModel drives boost toward a throttle and engine-speed dependent target
// with an explicit Euler first-order lag. Spool-up gets faster with rpm,
// spool-down is fixed.
//
// The step is not clamped: once dt*rate exceeds 1 the boost overshoots the
// target, and past 2 it diverges. At 60 Hz the largest rate is 4/s, far from
// that boundary.
type TurboModel struct {
	MaxBoost float64
	Redline  float64
}

// Target returns the boost the turbo is heading toward.
func (m TurboModel) Target(throttle, rpm float64) float64 {
	flow := math.Min(1.0, rpm/m.Redline*1.5)
	return throttle * m.MaxBoost * flow
}

// Advance returns the boost after dt seconds along with the target used.
func (m TurboModel) Advance(boost, throttle, rpm, dt float64) (next, target float64) {
	target = m.Target(throttle, rpm)

	rate := spoolDownRate
	if target > boost {
		rate = 2.0 * (1.0 + rpm/m.Redline)
	}
	return boost + (target-boost)*dt*rate, target
}

// BoostMultiplier is the torque scaling applied for a given boost pressure.
func BoostMultiplier(boost float64) float64 {
	return 1.0 + boostTorqueGain*boost
}
