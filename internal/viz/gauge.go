package viz

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

const gaugeEpsilon = 1e-9

// Fraction maps v onto [0, 1] against max. A zero max does not divide by
// zero; it just saturates.
func Fraction(v, max float64) float64 {
	return clamp01(v / (max + gaugeEpsilon))
}

// Gauge is a labelled instrument with a fixed full-scale value.
type Gauge struct {
	Label string
	Units string
	Max   float64
	Width int
}

// Hot reports whether the needle sits in the red zone.
func (g Gauge) Hot(v float64) bool {
	return Fraction(v, g.Max) > 0.9
}

// Render draws the gauge as one bar line. hot forces the alert color.
func (g Gauge) Render(v float64, th Theme, color lipgloss.Color, hot bool) string {
	if hot || g.Hot(v) {
		color = th.Alert
	}
	w := g.Width
	if w <= 0 {
		w = 24
	}
	return labelStyle.Render(g.Label) +
		Bar(Fraction(v, g.Max), w, color) + " " +
		bold(th.Text).Render(fmt.Sprintf("%7.1f", v)) + " " +
		fg(color).Render(g.Units)
}

// Dial draws v as a braille tachometer face of w x h cells.
func (g Gauge) Dial(v float64, w, h int) string {
	c := NewCanvas(w, h)
	c.DrawDial(Fraction(v, g.Max))
	return c.String()
}
