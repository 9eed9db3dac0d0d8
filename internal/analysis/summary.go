package analysis

import (
	"math"
	"sort"

	"github.com/san-kum/revsim/internal/powertrain"
)

// Selector extracts one numeric field from a snapshot.
type Selector func(powertrain.Telemetry) float64

var (
	RPM      Selector = func(t powertrain.Telemetry) float64 { return t.RPM }
	Speed    Selector = func(t powertrain.Telemetry) float64 { return t.SpeedKMH }
	Boost    Selector = func(t powertrain.Telemetry) float64 { return t.Boost }
	Coolant  Selector = func(t powertrain.Telemetry) float64 { return t.CoolantTemp }
	Torque   Selector = func(t powertrain.Telemetry) float64 { return t.Torque }
	Throttle Selector = func(t powertrain.Telemetry) float64 { return t.Throttle }
	AFR      Selector = func(t powertrain.Telemetry) float64 { return t.AFR }
)

// Selectors maps CLI field names to selectors.
var Selectors = map[string]Selector{
	"rpm":          RPM,
	"speed_kmh":    Speed,
	"boost":        Boost,
	"coolant_temp": Coolant,
	"torque":       Torque,
	"throttle":     Throttle,
	"afr":          AFR,
}

func Field(tels []powertrain.Telemetry, sel Selector) []float64 {
	out := make([]float64, len(tels))
	for i, t := range tels {
		out[i] = sel(t)
	}
	return out
}

type Stats struct {
	Count  int
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64
	P95    float64
}

func Summarize(values []float64) Stats {
	if len(values) == 0 {
		return Stats{}
	}

	s := Stats{Count: len(values), Min: values[0], Max: values[0]}
	sum := 0.0
	for _, v := range values {
		sum += v
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
	}
	s.Mean = sum / float64(len(values))

	variance := 0.0
	for _, v := range values {
		d := v - s.Mean
		variance += d * d
	}
	s.StdDev = math.Sqrt(variance / float64(len(values)))

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	idx := int(math.Ceil(0.95*float64(len(sorted)))) - 1
	if idx < 0 {
		idx = 0
	}
	s.P95 = sorted[idx]
	return s
}
