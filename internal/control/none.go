package control

import (
	"github.com/san-kum/revsim/internal/powertrain"
	"github.com/san-kum/revsim/internal/sim"
)

type None struct{}

func NewNone() *None {
	return &None{}
}

func (n *None) Compute(last powertrain.Telemetry, t float64) sim.Inputs {
	return sim.Inputs{}
}
