// Package report renders a finished run as a standalone HTML page of
// interactive line charts.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/san-kum/revsim/internal/powertrain"
	"github.com/san-kum/revsim/internal/storage"
)

// MaxPoints caps the samples drawn per chart; longer runs are strided.
const MaxPoints = 2000

type series struct {
	title string
	unit  string
	value func(powertrain.Telemetry) float64
}

var panels = []series{
	{"Engine speed", "rpm", func(t powertrain.Telemetry) float64 { return t.RPM }},
	{"Vehicle speed", "km/h", func(t powertrain.Telemetry) float64 { return t.SpeedKMH }},
	{"Boost", "bar", func(t powertrain.Telemetry) float64 { return t.Boost }},
	{"Coolant", "°C", func(t powertrain.Telemetry) float64 { return t.CoolantTemp }},
}

// Stride picks the sampling step that keeps n samples under MaxPoints.
func Stride(n int) int {
	if n <= MaxPoints {
		return 1
	}
	return (n + MaxPoints - 1) / MaxPoints
}

func lineChart(meta storage.RunMetadata, s series, tels []powertrain.Telemetry, step int) *charts.Line {
	xs := make([]string, 0, len(tels)/step+1)
	ys := make([]opts.LineData, 0, len(tels)/step+1)
	for i := 0; i < len(tels); i += step {
		xs = append(xs, strconv.FormatFloat(tels[i].Time, 'f', 2, 64))
		ys = append(ys, opts.LineData{Value: s.value(tels[i])})
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "1100px", Height: "320px"}),
		charts.WithTitleOpts(opts.Title{Title: s.title, Subtitle: meta.ID}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "t (s)"}),
		charts.WithYAxisOpts(opts.YAxis{Name: s.unit}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider", Start: 0, End: 100}),
	)
	line.SetXAxis(xs).AddSeries(s.unit, ys)
	return line
}

// Render writes the report page for one run.
func Render(w io.Writer, meta storage.RunMetadata, tels []powertrain.Telemetry) error {
	if len(tels) == 0 {
		return fmt.Errorf("run %s has no telemetry", meta.ID)
	}

	page := components.NewPage()
	page.PageTitle = "revsim " + meta.ID

	step := Stride(len(tels))
	for _, s := range panels {
		page.AddCharts(lineChart(meta, s, tels, step))
	}
	return page.Render(w)
}
