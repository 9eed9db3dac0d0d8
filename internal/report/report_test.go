package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/san-kum/revsim/internal/powertrain"
	"github.com/san-kum/revsim/internal/storage"
)

func TestStride(t *testing.T) {
	tests := []struct {
		n, want int
	}{
		{0, 1},
		{MaxPoints, 1},
		{MaxPoints + 1, 2},
		{10 * MaxPoints, 10},
	}
	for _, tt := range tests {
		if got := Stride(tt.n); got != tt.want {
			t.Errorf("Stride(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestRender(t *testing.T) {
	tels := make([]powertrain.Telemetry, 120)
	for i := range tels {
		tels[i] = powertrain.Telemetry{Time: float64(i+1) / 60, RPM: 900 + float64(i)*40}
	}

	var buf bytes.Buffer
	if err := Render(&buf, storage.RunMetadata{ID: "stock_42"}, tels); err != nil {
		t.Fatal(err)
	}

	html := buf.String()
	for _, want := range []string{"<html", "Engine speed", "Coolant", "stock_42"} {
		if !strings.Contains(html, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestRender_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, storage.RunMetadata{ID: "x"}, nil); err == nil {
		t.Error("expected error for empty run")
	}
}
