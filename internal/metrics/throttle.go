package metrics

import (
	"github.com/san-kum/revsim/internal/powertrain"
	"github.com/san-kum/revsim/internal/sim"
)

// MeanThrottle averages the throttle the engine actually applied, so a
// damaged engine reports its clamped value.
type MeanThrottle struct {
	name    string
	sum     float64
	samples int
}

func NewMeanThrottle() *MeanThrottle {
	return &MeanThrottle{
		name: "mean_throttle",
	}
}

func (m *MeanThrottle) Name() string {
	return m.name
}

func (m *MeanThrottle) Observe(tel powertrain.Telemetry, u sim.Inputs) {
	m.sum += tel.Throttle
	m.samples++
}

func (m *MeanThrottle) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanThrottle) Reset() {
	m.sum = 0
	m.samples = 0
}
