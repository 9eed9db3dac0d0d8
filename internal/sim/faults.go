package sim

import (
	"github.com/rs/zerolog"
	"github.com/san-kum/revsim/internal/powertrain"
)

// FaultLogger logs discrete transitions: limiter, gear, backfire, damage.
type FaultLogger struct {
	log     zerolog.Logger
	last    powertrain.Telemetry
	started bool
}

func NewFaultLogger(log zerolog.Logger) *FaultLogger {
	return &FaultLogger{log: log}
}

func (f *FaultLogger) OnStep(tel powertrain.Telemetry, u Inputs) {
	if !f.started {
		f.started = true
		f.last = tel
		if tel.Damaged {
			f.log.Warn().Float64("t", tel.Time).Float64("coolant", tel.CoolantTemp).Msg("engine starts damaged")
		}
		return
	}

	if tel.FuelCut != f.last.FuelCut {
		f.log.Debug().
			Float64("t", tel.Time).
			Float64("rpm", tel.RPM).
			Bool("fuel_cut", tel.FuelCut).
			Msg("rev limiter")
	}
	if tel.Gear != f.last.Gear {
		f.log.Debug().
			Float64("t", tel.Time).
			Int("from", f.last.Gear).
			Int("to", tel.Gear).
			Msg("gear change")
	}
	if tel.Backfire {
		f.log.Info().Float64("t", tel.Time).Float64("rpm", tel.RPM).Msg("backfire")
	}
	if tel.Damaged && !f.last.Damaged {
		f.log.Warn().
			Float64("t", tel.Time).
			Float64("coolant", tel.CoolantTemp).
			Msg("engine overheated, limp mode engaged")
	}
	f.last = tel
}
