// Package export renders recorded telemetry as standalone SVG images.
package export

import (
	"fmt"
	"io"
	"strings"
)

// Trace is one sampled channel of a run.
type Trace struct {
	Label  string
	Times  []float64
	Values []float64
	Color  string
}

// Marker is a horizontal reference line, such as the redline.
type Marker struct {
	Label string
	Value float64
	Color string
}

func bounds(t Trace, markers []Marker) (minX, maxX, minY, maxY float64) {
	minX, maxX = t.Times[0], t.Times[0]
	minY, maxY = t.Values[0], t.Values[0]
	for i := range t.Values {
		minX, maxX = min(minX, t.Times[i]), max(maxX, t.Times[i])
		minY, maxY = min(minY, t.Values[i]), max(maxY, t.Values[i])
	}
	for _, m := range markers {
		minY, maxY = min(minY, m.Value), max(maxY, m.Value)
	}
	return
}

// TraceSVG draws t as a polyline scaled to width x height with 10% vertical
// padding. Times and Values must be the same length, at least two.
func TraceSVG(w io.Writer, t Trace, width, height int, markers ...Marker) error {
	if len(t.Values) < 2 || len(t.Times) != len(t.Values) {
		return fmt.Errorf("trace %q: need at least 2 aligned samples, got %d times and %d values",
			t.Label, len(t.Times), len(t.Values))
	}
	if t.Color == "" {
		t.Color = "#00f0ff"
	}

	minX, maxX, minY, maxY := bounds(t, markers)
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY

	px := func(x float64) float64 { return (x - minX) / rangeX * float64(width) }
	py := func(y float64) float64 { return float64(height) - (y-minY)/rangeY*float64(height) }

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0c10"/>
`, width, height, width, height)

	for _, m := range markers {
		color := m.Color
		if color == "" {
			color = "#ff283c"
		}
		y := py(m.Value)
		fmt.Fprintf(&sb, `<line x1="0" y1="%.1f" x2="%d" y2="%.1f" stroke="%s" stroke-dasharray="6,4"/>
<text x="4" y="%.1f" fill="%s" font-family="monospace" font-size="11">%s</text>
`, y, width, y, color, y-3, color, m.Label)
	}

	fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, t.Color)
	for i := range t.Values {
		if i > 0 {
			sb.WriteString(" L")
		}
		fmt.Fprintf(&sb, "%.1f,%.1f", px(t.Times[i]), py(t.Values[i]))
	}
	sb.WriteString("\"/>\n")

	fmt.Fprintf(&sb, `<text x="%d" y="16" fill="#dcdcdc" font-family="monospace" font-size="13" text-anchor="end">%s</text>
</svg>
`, width-6, t.Label)

	_, err := io.WriteString(w, sb.String())
	return err
}
