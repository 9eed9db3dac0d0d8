package control

import (
	"math"

	"github.com/san-kum/revsim/internal/powertrain"
	"github.com/san-kum/revsim/internal/sim"
)

// PID holds a target road speed in km/h. Positive output is throttle,
// negative output is brake.
type PID struct {
	Kp       float64
	Ki       float64
	Kd       float64
	Target   float64
	Load     float64
	integral float64
	prevErr  float64
	prevT    float64
	first    bool
}

func NewPID(kp, ki, kd, target float64) *PID {
	return &PID{
		Kp:     kp,
		Ki:     ki,
		Kd:     kd,
		Target: target,
		first:  true,
	}
}

func (p *PID) Compute(last powertrain.Telemetry, t float64) sim.Inputs {
	err := p.Target - last.SpeedKMH

	if p.first {
		p.prevErr = err
		p.prevT = t
		p.first = false
		return p.inputs(p.Kp * err)
	}

	dt := t - p.prevT
	if dt <= 0 {
		return p.inputs(p.Kp * err)
	}

	derivative := (err - p.prevErr) / dt
	u := p.Kp*err + p.Ki*(p.integral+err*dt) + p.Kd*derivative

	// integrate only while the actuator is not saturated
	if u > -1 && u < 1 {
		p.integral += err * dt
	}

	p.prevErr = err
	p.prevT = t
	return p.inputs(u)
}

func (p *PID) inputs(u float64) sim.Inputs {
	return sim.Inputs{
		Throttle: math.Max(0, math.Min(1, u)),
		Brake:    math.Max(0, math.Min(1, -u)),
		Load:     p.Load,
	}
}

// Reset clears integral and derivative state
func (p *PID) Reset() {
	p.integral = 0
	p.prevErr = 0
	p.first = true
}

func (p *PID) GetParams() map[string]float64 {
	return map[string]float64{
		"Kp":     p.Kp,
		"Ki":     p.Ki,
		"Kd":     p.Kd,
		"Target": p.Target,
	}
}

func (p *PID) SetParam(name string, value float64) {
	switch name {
	case "Kp":
		p.Kp = value
	case "Ki":
		p.Ki = value
	case "Kd":
		p.Kd = value
	case "Target":
		p.Target = value
	}
}
