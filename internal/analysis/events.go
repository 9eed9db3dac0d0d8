package analysis

import (
	"fmt"

	"github.com/san-kum/revsim/internal/powertrain"
)

type EventKind string

const (
	EventShift      EventKind = "shift"
	EventFuelCutOn  EventKind = "fuel_cut_on"
	EventFuelCutOff EventKind = "fuel_cut_off"
	EventBackfire   EventKind = "backfire"
	EventDamaged    EventKind = "damaged"
)

type Event struct {
	Time   float64
	Kind   EventKind
	RPM    float64
	Detail string
}

// Events lists the discrete transitions in a recorded run, in time order.
// The first snapshot only contributes events that are already active.
func Events(tels []powertrain.Telemetry) []Event {
	var out []Event
	var prev powertrain.Telemetry
	for i, t := range tels {
		first := i == 0
		if !first && t.Gear != prev.Gear {
			out = append(out, Event{t.Time, EventShift, t.RPM, fmt.Sprintf("%s -> %s", prev.GearLabel(), t.GearLabel())})
		}
		if t.FuelCut && (first || !prev.FuelCut) {
			out = append(out, Event{t.Time, EventFuelCutOn, t.RPM, ""})
		}
		if !first && !t.FuelCut && prev.FuelCut {
			out = append(out, Event{t.Time, EventFuelCutOff, t.RPM, ""})
		}
		if t.Backfire {
			out = append(out, Event{t.Time, EventBackfire, t.RPM, ""})
		}
		if t.Damaged && (first || !prev.Damaged) {
			out = append(out, Event{t.Time, EventDamaged, t.RPM, fmt.Sprintf("coolant %.1f", t.CoolantTemp)})
		}
		prev = t
	}
	return out
}

// CountEvents tallies events by kind.
func CountEvents(events []Event) map[EventKind]int {
	counts := make(map[EventKind]int)
	for _, e := range events {
		counts[e.Kind]++
	}
	return counts
}
