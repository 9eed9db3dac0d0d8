// Package viz is the terminal dashboard for a live powertrain session.
//
// The dashboard is a Bubble Tea program that steps one [powertrain.Engine]
// per frame at 60 Hz and draws:
//
//   - a braille tachometer dial plus bar gauges for speed and boost
//   - a rolling rpm graph that rescales to the recent peak
//   - gear, AFR and coolant temperature in the header
//   - CHECK ENGINE, BRAKE and BACKFIRE indicators
//
// # Key Bindings
//
//	Up/Down - Throttle +/- 0.1
//	E/Q     - Gear up / down
//	Space   - Toggle brake
//	l/L     - Load +/- 0.1
//	[ ]     - Redline -/+ 100 rpm (4000 to 9000)
//	T       - Cycle color themes
//	R       - Reset to a fresh engine
//	Esc     - Quit
package viz
