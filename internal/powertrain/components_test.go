package powertrain

import (
	"math"
	"testing"
)

func TestTurboModel_Advance(t *testing.T) {
	m := TurboModel{MaxBoost: 1.6, Redline: 7500}

	tests := []struct {
		name                  string
		boost, throttle, rpm  float64
		dt                    float64
		wantBoost, wantTarget float64
	}{
		{"spool up at redline", 0, 1, 7500, 0.01, 0.064, 1.6},
		{"spool up low rpm", 0, 1, 2500, 0.1, 0.8 * 0.1 * 2 * (1 + 1.0/3), 0.8},
		{"spool down", 1, 0, 3000, 0.01, 0.97, 0},
		{"partial throttle flow capped", 0.5, 0.5, 6000, 0.01, 0.5 + 0.3*0.01*2*(1+0.8), 0.8},
		{"at target", 0.8, 0.5, 7500, 0.01, 0.8, 0.8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, target := m.Advance(tt.boost, tt.throttle, tt.rpm, tt.dt)
			if math.Abs(got-tt.wantBoost) > 1e-12 {
				t.Errorf("boost = %v, want %v", got, tt.wantBoost)
			}
			if math.Abs(target-tt.wantTarget) > 1e-12 {
				t.Errorf("target = %v, want %v", target, tt.wantTarget)
			}
		})
	}
}

func TestTurboModel_OvershootsWhenStepTooLarge(t *testing.T) {
	m := TurboModel{MaxBoost: 1.6, Redline: 7500}
	// dt*rate = 1.5: the explicit update jumps past a zero target
	got, _ := m.Advance(1.0, 0, 3000, 0.5)
	if math.Abs(got-(-0.5)) > 1e-12 {
		t.Errorf("boost = %v, want -0.5", got)
	}
}

func TestRevLimiter_Hysteresis(t *testing.T) {
	l := RevLimiter{Redline: 7500}

	seq := []struct {
		rpm  float64
		want bool
	}{
		{7400, false},
		{7550, false},
		{7551, true},
		{7500, true},
		{7400, true},
		{7350, true},
		{7349, false},
		{7500, false},
		{7549, false},
		{8000, true},
	}

	cut := false
	for i, s := range seq {
		cut = l.Next(s.rpm, cut)
		if cut != s.want {
			t.Errorf("tick %d rpm=%v: cut=%v, want %v", i, s.rpm, cut, s.want)
		}
	}
}

type fixedRand struct {
	v     float64
	draws int
}

func (f *fixedRand) Float64() float64 {
	f.draws++
	return f.v
}

func TestBackfireDetector(t *testing.T) {
	tests := []struct {
		name           string
		rpm, prev, cur float64
		sample         float64
		want           bool
		wantDraws      int
	}{
		{"eligible low draw", 5000, 0.8, 0.2, 0.1, true, 1},
		{"eligible high draw", 5000, 0.8, 0.2, 0.4, false, 1},
		{"low rpm", 4000, 0.8, 0.2, 0.0, false, 0},
		{"rpm at threshold", 4500, 1.0, 0.0, 0.0, false, 0},
		{"slow lift", 6000, 0.5, 0.3, 0.0, false, 0},
		{"throttle rising", 6000, 0.1, 0.9, 0.0, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &fixedRand{v: tt.sample}
			d := BackfireDetector{Rand: src}
			if got := d.Detect(tt.rpm, tt.prev, tt.cur); got != tt.want {
				t.Errorf("Detect = %v, want %v", got, tt.want)
			}
			if src.draws != tt.wantDraws {
				t.Errorf("draws = %d, want %d", src.draws, tt.wantDraws)
			}
		})
	}
}

func TestEstimateAFR(t *testing.T) {
	tests := []struct {
		name            string
		throttle, boost float64
		cut             bool
		want            float64
	}{
		{"closed", 0, 0, false, 14.7},
		{"half", 0.5, 0, false, 12.95},
		{"boost below threshold", 0, 0.1, false, 14.7},
		{"boosted", 0.5, 1.0, false, 11.75},
		{"clamped rich", 1, 1.6, false, 10},
		{"fuel cut", 1, 1.6, true, 22},
		{"fuel cut closed", 0, 0, true, 22},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EstimateAFR(tt.throttle, tt.boost, tt.cut); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("EstimateAFR = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEstimateAFR_Bounds(t *testing.T) {
	for th := 0.0; th <= 1.0; th += 0.05 {
		for b := 0.0; b <= DefaultMaxBoost; b += 0.1 {
			for _, cut := range []bool{false, true} {
				afr := EstimateAFR(th, b, cut)
				if afr < MinAFR || afr > MaxAFR {
					t.Fatalf("afr %v out of bounds for throttle=%v boost=%v cut=%v", afr, th, b, cut)
				}
			}
		}
	}
}

func TestThermalModel(t *testing.T) {
	m := ThermalModel{OverheatRate: 0.08, CoolingEfficiency: 0.6, AmbientTemp: 25, MaxCoolantTemp: 120}

	tests := []struct {
		name                   string
		temp, torque, throttle float64
		dt                     float64
		want                   float64
	}{
		{"heating from ambient", 25, 100, 1, 1, 33},
		{"engine braking only cools", 50, -50, 1, 1, 45.5},
		{"closed throttle", 80, 300, 0, 0.5, 80 - 55*0.6*0.5*0.3},
		{"heat scales with dt", 25, 100, 0.5, 0.1, 25.4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.Advance(tt.temp, tt.torque, tt.throttle, tt.dt); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Advance = %v, want %v", got, tt.want)
			}
		})
	}

	if m.Overheated(120) {
		t.Error("exactly max should not count as overheated")
	}
	if !m.Overheated(120.001) {
		t.Error("above max should count as overheated")
	}
}

func testDrivetrain() Drivetrain {
	cfg := DefaultConfig()
	return Drivetrain{
		FinalDrive:      cfg.FinalDrive,
		WheelRadius:     cfg.WheelRadius,
		VehicleMass:     cfg.VehicleMass,
		DragCoefficient: cfg.DragCoefficient,
		FrontalArea:     cfg.FrontalArea,
		AirDensity:      cfg.AirDensity,
	}
}

func TestDrivetrain_Forces(t *testing.T) {
	d := testDrivetrain()

	f := d.Forces(100, 3.8, 10, 0.5, 0.2)
	if want := 100 * 3.8 * 3.9 / 0.33; math.Abs(f.Wheel-want) > 1e-9 {
		t.Errorf("wheel force = %v, want %v", f.Wheel, want)
	}
	if want := 0.5 * 1.225 * 0.30 * 2.2 * 100; math.Abs(f.Aero-want) > 1e-9 {
		t.Errorf("aero = %v, want %v", f.Aero, want)
	}
	if want := 9.81 * 0.015 * 1350; math.Abs(f.Rolling-want) > 1e-9 {
		t.Errorf("rolling = %v, want %v", f.Rolling, want)
	}
	if f.Slope != 1000 || f.Brake != 2000 {
		t.Errorf("slope/brake = %v/%v, want 1000/2000", f.Slope, f.Brake)
	}

	if n := d.Forces(500, 0, 0, 0, 0); n.Wheel != 0 {
		t.Errorf("neutral wheel force = %v, want 0", n.Wheel)
	}
}

func TestDrivetrain_SpeedFloor(t *testing.T) {
	d := testDrivetrain()
	speed, rpm := d.Advance(1.0, 2000, 0, 3.8, 1, 1, 0.5)
	if speed != 0 {
		t.Errorf("speed = %v, want 0", speed)
	}
	if want := 2000 * 0.6; math.Abs(rpm-want) > 1e-9 {
		t.Errorf("rpm = %v, want %v", rpm, want)
	}
}

func TestDrivetrain_Resync(t *testing.T) {
	d := testDrivetrain()
	// pick a speed whose in-gear rpm is exactly 3000
	ratio := 2.3
	speed := 3000.0 / (60.0 / (2 * math.Pi * d.WheelRadius) * ratio * d.FinalDrive)
	if got := d.EngineRPM(speed, ratio); math.Abs(got-3000) > 1e-9 {
		t.Fatalf("EngineRPM = %v, want 3000", got)
	}

	newSpeed, rpm := d.Advance(speed, 1000, 0, ratio, 0, 0, 1e-9)
	want := 1000*0.6 + d.EngineRPM(newSpeed, ratio)*0.4
	if math.Abs(rpm-want) > 1e-9 {
		t.Errorf("rpm = %v, want %v", rpm, want)
	}
}
