package powertrain

import (
	"math"
	"sort"
)

// TorqueCurve is a piecewise-linear torque map. Lookups outside the sampled
// range are flat: the first or last sample's torque.
type TorqueCurve struct {
	rpms    []float64
	torques []float64
}

func NewTorqueCurve(points []TorquePoint) (TorqueCurve, error) {
	if len(points) < 2 {
		return TorqueCurve{}, &ConfigError{
			Field:  "torque_curve",
			Value:  float64(len(points)),
			Reason: "need at least 2 samples",
		}
	}

	c := TorqueCurve{
		rpms:    make([]float64, len(points)),
		torques: make([]float64, len(points)),
	}
	for i, p := range points {
		if math.IsNaN(p.RPM) || math.IsNaN(p.Torque) {
			return TorqueCurve{}, &ConfigError{Field: "torque_curve", Value: p.RPM, Reason: "NaN sample"}
		}
		if i > 0 && p.RPM <= points[i-1].RPM {
			return TorqueCurve{}, &ConfigError{Field: "torque_curve", Value: p.RPM, Reason: "rpm must be strictly increasing"}
		}
		c.rpms[i] = p.RPM
		c.torques[i] = p.Torque
	}
	return c, nil
}

func (c TorqueCurve) TorqueAt(rpm float64) float64 {
	n := len(c.rpms)
	if rpm <= c.rpms[0] || math.IsNaN(rpm) {
		return c.torques[0]
	}
	if rpm >= c.rpms[n-1] {
		return c.torques[n-1]
	}

	// first sample strictly above rpm; 1 <= hi <= n-1 here
	hi := sort.Search(n, func(i int) bool { return c.rpms[i] > rpm })
	lo := hi - 1

	frac := (rpm - c.rpms[lo]) / (c.rpms[hi] - c.rpms[lo])
	return c.torques[lo] + frac*(c.torques[hi]-c.torques[lo])
}

// Points returns a copy of the samples.
func (c TorqueCurve) Points() []TorquePoint {
	out := make([]TorquePoint, len(c.rpms))
	for i := range c.rpms {
		out[i] = TorquePoint{RPM: c.rpms[i], Torque: c.torques[i]}
	}
	return out
}
