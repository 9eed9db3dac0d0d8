package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/revsim/internal/config"
	"github.com/san-kum/revsim/internal/control"
	"github.com/san-kum/revsim/internal/metrics"
	"github.com/san-kum/revsim/internal/sim"
)

type Registry struct {
	controllers map[string]func(map[string]float64) sim.Controller
}

func NewRegistry() *Registry {
	r := &Registry{
		controllers: make(map[string]func(map[string]float64) sim.Controller),
	}

	r.controllers["none"] = func(params map[string]float64) sim.Controller {
		return control.NewNone()
	}
	r.controllers["manual"] = func(params map[string]float64) sim.Controller {
		return control.NewManual(params["throttle"], params["brake"], params["load"])
	}
	r.controllers["pid"] = func(params map[string]float64) sim.Controller {
		pid := control.NewPID(params["kp"], params["ki"], params["kd"], params["target"])
		pid.Load = params["load"]
		return pid
	}

	return r
}

func (r *Registry) GetController(name string, params map[string]float64) (sim.Controller, error) {
	fn, ok := r.controllers[name]
	if !ok {
		return nil, fmt.Errorf("unknown controller: %s", name)
	}
	return fn(params), nil
}

// ControllerFor builds the session's controller, wrapped in an AutoShift
// when the session asks for one.
func (r *Registry) ControllerFor(cfg *config.Config) (sim.Controller, error) {
	params := cfg.GetControllerParams()
	ctrl, err := r.GetController(cfg.Controller, params)
	if err != nil {
		return nil, err
	}
	if cfg.AutoShift {
		ctrl = control.NewAutoShift(ctrl, params["shift_up"], params["shift_down"], cfg.TopGear())
	}
	return ctrl, nil
}

func (r *Registry) ListControllers() []string {
	names := make([]string, 0, len(r.controllers))
	for name := range r.controllers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) DefaultMetrics() []sim.Metric {
	return metrics.Default()
}
