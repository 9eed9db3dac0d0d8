package export

import (
	"bytes"
	"strings"
	"testing"
)

func TestTraceSVG(t *testing.T) {
	var buf bytes.Buffer
	tr := Trace{Label: "rpm", Times: []float64{0, 1, 2}, Values: []float64{900, 4000, 7000}}
	if err := TraceSVG(&buf, tr, 400, 200, Marker{Label: "redline", Value: 7500}); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{"<svg", "</svg>", `stroke="#00f0ff"`, "redline", "M0.0,", " L400.0,"} {
		if !strings.Contains(out, want) {
			t.Errorf("svg missing %q", want)
		}
	}
	if n := strings.Count(out, " L"); n != 2 {
		t.Errorf("path has %d segments, want 2", n)
	}
}

func TestTraceSVG_FlatTrace(t *testing.T) {
	var buf bytes.Buffer
	tr := Trace{Label: "boost", Times: []float64{0, 0}, Values: []float64{0, 0}}
	if err := TraceSVG(&buf, tr, 100, 50); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "NaN") {
		t.Error("flat trace produced NaN coordinates")
	}
}

func TestTraceSVG_Errors(t *testing.T) {
	var buf bytes.Buffer
	if err := TraceSVG(&buf, Trace{Times: []float64{0}, Values: []float64{1}}, 10, 10); err == nil {
		t.Error("single sample accepted")
	}
	if err := TraceSVG(&buf, Trace{Times: []float64{0, 1}, Values: []float64{1, 2, 3}}, 10, 10); err == nil {
		t.Error("misaligned trace accepted")
	}
}
