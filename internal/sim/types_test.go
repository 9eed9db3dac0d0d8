package sim

import (
	"errors"
	"strings"
	"testing"

	"github.com/san-kum/revsim/internal/powertrain"
)

func TestSimError(t *testing.T) {
	err := SimError{Time: 1.5, Step: 90, Message: "step failed", Err: powertrain.ErrInvalidTimestep}

	if !errors.Is(err, powertrain.ErrInvalidTimestep) {
		t.Error("SimError does not unwrap to its cause")
	}
	if msg := err.Error(); !strings.Contains(msg, "step 90") || !strings.Contains(msg, "t=1.5000") {
		t.Errorf("unexpected message %q", msg)
	}
	if msg := (SimError{Step: 3, Message: "boom"}).Error(); msg != "step 3 (t=0.0000): boom" {
		t.Errorf("unexpected message %q", msg)
	}
}

func TestResult_Last(t *testing.T) {
	var empty Result
	if got := empty.Last(); got != (powertrain.Telemetry{}) {
		t.Errorf("Last() on empty result = %+v", got)
	}

	r := Result{Telemetry: []powertrain.Telemetry{{RPM: 900}, {RPM: 1200}}}
	if got := r.Last().RPM; got != 1200 {
		t.Errorf("Last().RPM = %v, want 1200", got)
	}
}

func TestAppendTelemetry(t *testing.T) {
	base := powertrain.Telemetry{Time: 1, RPM: 3000, Gear: 2}

	a := AppendTelemetry(nil, base)
	if len(a) != 9*8+1 {
		t.Fatalf("encoded length = %d", len(a))
	}

	tests := []struct {
		name string
		mod  func(*powertrain.Telemetry)
	}{
		{"rpm", func(tel *powertrain.Telemetry) { tel.RPM++ }},
		{"gear", func(tel *powertrain.Telemetry) { tel.Gear = 3 }},
		{"backfire", func(tel *powertrain.Telemetry) { tel.Backfire = true }},
		{"brake", func(tel *powertrain.Telemetry) { tel.Brake = true }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tel := base
			tt.mod(&tel)
			if string(AppendTelemetry(nil, tel)) == string(a) {
				t.Error("encoding ignores the field")
			}
		})
	}
}
