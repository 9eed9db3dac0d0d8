package metrics

import (
	"github.com/san-kum/revsim/internal/powertrain"
	"github.com/san-kum/revsim/internal/sim"
)

// Peak tracks the largest value of one telemetry field.
type Peak struct {
	name    string
	field   func(powertrain.Telemetry) float64
	max     float64
	samples int
}

func NewPeakRPM() *Peak {
	return &Peak{
		name:  "peak_rpm",
		field: func(tel powertrain.Telemetry) float64 { return tel.RPM },
	}
}

func NewMaxCoolant() *Peak {
	return &Peak{
		name:  "max_coolant",
		field: func(tel powertrain.Telemetry) float64 { return tel.CoolantTemp },
	}
}

func (p *Peak) Name() string {
	return p.name
}

func (p *Peak) Observe(tel powertrain.Telemetry, u sim.Inputs) {
	v := p.field(tel)
	if p.samples == 0 || v > p.max {
		p.max = v
	}
	p.samples++
}

func (p *Peak) Value() float64 {
	return p.max
}

func (p *Peak) Reset() {
	p.max = 0
	p.samples = 0
}
