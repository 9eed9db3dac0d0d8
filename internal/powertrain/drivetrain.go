package powertrain

import "math"

const (
	gravity           = 9.81
	rollingResistance = 0.015
	slopeForcePerLoad = 2000.0
	brakeForce        = 10000.0

	// engine share kept when blending toward the wheel-derived rpm
	syncRetain = 0.6
	syncPull   = 0.4
)

// Drivetrain converts engine torque into vehicle acceleration. In gear it
// also drags engine speed toward the speed implied by the wheels; that blend
// stands in for drivetrain compliance, there is no clutch model.
type Drivetrain struct {
	FinalDrive      float64
	WheelRadius     float64
	VehicleMass     float64
	DragCoefficient float64
	FrontalArea     float64
	AirDensity      float64
}

// Forces holds the per-tick force breakdown in newtons.
type Forces struct {
	Wheel   float64
	Aero    float64
	Rolling float64
	Slope   float64
	Brake   float64
}

func (f Forces) Net() float64 {
	return f.Wheel - (f.Aero + f.Rolling + f.Slope + f.Brake)
}

// Forces computes the force balance for the given gear ratio (0 = neutral).
func (d Drivetrain) Forces(torque, ratio, speed, load, brake float64) Forces {
	f := Forces{
		Aero:    0.5 * d.AirDensity * d.DragCoefficient * d.FrontalArea * speed * speed,
		Rolling: gravity * rollingResistance * d.VehicleMass,
		Slope:   load * slopeForcePerLoad,
		Brake:   brake * brakeForce,
	}
	if ratio != 0 {
		f.Wheel = torque * ratio * d.FinalDrive / d.WheelRadius
	}
	return f
}

// Advance integrates vehicle speed over dt and, when in gear, returns the
// resynchronized engine speed. Speed never goes negative.
func (d Drivetrain) Advance(speed, rpm, torque, ratio, load, brake, dt float64) (newSpeed, newRPM float64) {
	accel := d.Forces(torque, ratio, speed, load, brake).Net() / d.VehicleMass
	newSpeed = math.Max(0, speed+accel*dt)

	newRPM = rpm
	if ratio != 0 {
		newRPM = rpm*syncRetain + d.EngineRPM(newSpeed, ratio)*syncPull
	}
	return newSpeed, newRPM
}

// EngineRPM is the engine speed that matches a vehicle speed in a gear.
func (d Drivetrain) EngineRPM(speed, ratio float64) float64 {
	wheelRPM := speed / (2 * math.Pi * d.WheelRadius) * 60.0
	return wheelRPM * ratio * d.FinalDrive
}
