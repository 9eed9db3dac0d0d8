package control

import (
	"sync"

	"github.com/san-kum/revsim/internal/powertrain"
	"github.com/san-kum/revsim/internal/sim"
)

// Manual passes a manually set input vector to the engine. SetInputs may be
// called from another goroutine; a pending shift is delivered exactly once.
type Manual struct {
	mu sync.Mutex
	u  sim.Inputs
}

func NewManual(throttle, brake, load float64) *Manual {
	return &Manual{u: sim.Inputs{Throttle: throttle, Brake: brake, Load: load}}
}

// SetInputs replaces the held pedals and queues u.Shift gear changes.
func (c *Manual) SetInputs(u sim.Inputs) {
	c.mu.Lock()
	defer c.mu.Unlock()
	shift := c.u.Shift + u.Shift
	c.u = u
	c.u.Shift = shift
}

func (c *Manual) Compute(last powertrain.Telemetry, t float64) sim.Inputs {
	c.mu.Lock()
	defer c.mu.Unlock()
	u := c.u
	c.u.Shift = 0
	return u
}
