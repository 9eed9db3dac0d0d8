package control

import (
	"context"
	"sync"
	"testing"

	"github.com/san-kum/revsim/internal/powertrain"
	"github.com/san-kum/revsim/internal/sim"
)

func TestNone(t *testing.T) {
	u := NewNone().Compute(powertrain.Telemetry{RPM: 3000}, 1.0)
	if u != (sim.Inputs{}) {
		t.Errorf("expected zero inputs, got %+v", u)
	}
}

func TestManual(t *testing.T) {
	m := NewManual(0.4, 0, 0.2)

	u := m.Compute(powertrain.Telemetry{}, 0)
	if u.Throttle != 0.4 || u.Load != 0.2 || u.Shift != 0 {
		t.Errorf("unexpected inputs %+v", u)
	}

	m.SetInputs(sim.Inputs{Throttle: 1, Shift: 1})
	m.SetInputs(sim.Inputs{Throttle: 0.9, Shift: 1})

	u = m.Compute(powertrain.Telemetry{}, 0.1)
	if u.Throttle != 0.9 || u.Shift != 2 {
		t.Errorf("unexpected inputs %+v", u)
	}
	if u = m.Compute(powertrain.Telemetry{}, 0.2); u.Shift != 0 {
		t.Errorf("shift delivered twice: %+v", u)
	}
}

func TestManual_Concurrent(t *testing.T) {
	m := NewManual(0, 0, 0)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m.SetInputs(sim.Inputs{Throttle: 0.5, Shift: 1})
				m.Compute(powertrain.Telemetry{}, 0)
			}
		}()
	}
	wg.Wait()
}

func TestPID(t *testing.T) {
	tests := []struct {
		name         string
		speed        float64
		wantThrottle bool
		wantBrake    bool
	}{
		{"below target", 40, true, false},
		{"above target", 160, false, true},
		{"on target", 100, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pid := NewPID(0.1, 0, 0, 100)
			u := pid.Compute(powertrain.Telemetry{SpeedKMH: tt.speed}, 0)
			if (u.Throttle > 0) != tt.wantThrottle {
				t.Errorf("throttle = %v", u.Throttle)
			}
			if (u.Brake > 0) != tt.wantBrake {
				t.Errorf("brake = %v", u.Brake)
			}
			if u.Throttle > 1 || u.Brake > 1 {
				t.Errorf("output not clamped: %+v", u)
			}
		})
	}
}

func TestPID_Params(t *testing.T) {
	var tun Tunable = NewPID(1, 2, 3, 4)
	tun.SetParam("Target", 80)
	tun.SetParam("Kp", 0.5)
	p := tun.GetParams()
	if p["Target"] != 80 || p["Kp"] != 0.5 || p["Ki"] != 2 {
		t.Errorf("unexpected params %v", p)
	}
}

func TestPID_Reset(t *testing.T) {
	pid := NewPID(0.1, 1, 0, 100)
	pid.Compute(powertrain.Telemetry{SpeedKMH: 50}, 0)
	pid.Compute(powertrain.Telemetry{SpeedKMH: 95}, 0.1)
	pid.Reset()
	if pid.integral != 0 || !pid.first {
		t.Error("Reset did not clear state")
	}
}

func TestAutoShift(t *testing.T) {
	tests := []struct {
		name string
		tel  powertrain.Telemetry
		want int
	}{
		{"upshift", powertrain.Telemetry{Gear: 2, RPM: 6800}, 1},
		{"top gear", powertrain.Telemetry{Gear: 5, RPM: 6800}, 0},
		{"downshift", powertrain.Telemetry{Gear: 3, RPM: 1500}, -1},
		{"first gear floor", powertrain.Telemetry{Gear: 1, RPM: 1000}, 0},
		{"neutral", powertrain.Telemetry{Gear: 0, RPM: 7000}, 0},
		{"in band", powertrain.Telemetry{Gear: 3, RPM: 4000}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAutoShift(NewManual(1, 0, 0), 6500, 2000, 5)
			if got := a.Compute(tt.tel, 1).Shift; got != tt.want {
				t.Errorf("shift = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAutoShift_Interval(t *testing.T) {
	a := NewAutoShift(NewNone(), 6500, 2000, 5)
	high := powertrain.Telemetry{Gear: 2, RPM: 7000}

	if a.Compute(high, 1.0).Shift != 1 {
		t.Fatal("expected upshift")
	}
	if a.Compute(high, 1.2).Shift != 0 {
		t.Error("shifted again inside the interval")
	}
	if a.Compute(high, 1.6).Shift != 1 {
		t.Error("expected upshift after the interval")
	}
}

func TestAutoShift_ClimbsGears(t *testing.T) {
	eng, err := powertrain.New(powertrain.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	s := sim.New(NewAutoShift(NewManual(1, 0, 0), 6500, 2500, 5))
	result, err := s.Run(context.Background(), eng, sim.Config{Dt: 1.0 / 60, Duration: 30})
	if err != nil {
		t.Fatal(err)
	}

	if got := result.Last().Gear; got < 4 {
		t.Errorf("final gear = %d, expected at least 4 after 30s flat out", got)
	}
	for i, tel := range result.Telemetry {
		if tel.Gear == 0 {
			t.Fatalf("tick %d: shifted into neutral", i)
		}
	}
}
