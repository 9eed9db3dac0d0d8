// Package powertrain implements a fixed-timestep engine and vehicle model.
//
// An [Engine] owns the mutable [State] and advances it once per call to
// [Engine.Step], in a fixed order:
//
//   - [RevLimiter]: hysteresis fuel cut around the redline
//   - [BackfireDetector]: probabilistic event on fast throttle lift
//   - [TorqueCurve]: naturally-aspirated torque lookup
//   - [TurboModel]: asymmetric first-order boost lag
//   - [Drivetrain]: wheel force, vehicle speed and engine speed resync
//   - [ThermalModel]: coolant integration and sticky overheat damage
//
// Each step returns a [Telemetry] snapshot. The snapshot is the only view
// collaborators (dashboard, logger, audio) get of the simulation.
//
// # Example
//
//	eng, err := powertrain.New(powertrain.DefaultConfig(), powertrain.WithSeed(42))
//	if err != nil {
//	    return err
//	}
//	eng.SetThrottle(1.0)
//	tel, err := eng.Step(1.0 / 60)
//
// # Thread Safety
//
// Engine instances are NOT thread-safe. Run independent engines in parallel
// instead of sharing one.
package powertrain
