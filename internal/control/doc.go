// Package control provides drivers for the powertrain simulator.
//
// Controllers implement [sim.Controller] and turn the last telemetry
// snapshot into throttle, brake, load and shift commands:
//
//   - [None]: foot off every pedal
//   - [Manual]: holds whatever inputs were last set
//   - [PID]: cruise control on vehicle speed
//   - [AutoShift]: wraps another controller and picks gears by rpm
//
// # Usage
//
//	pid := control.NewPID(0.08, 0.01, 0.0, 100) // Kp, Ki, Kd, km/h
//	s := sim.New(control.NewAutoShift(pid, 6500, 2500, 5))
//
// Controllers implementing [Tunable] support live adjustment.
package control

// Tunable is implemented by controllers whose gains can be changed mid-run.
type Tunable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64)
}
