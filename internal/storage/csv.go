package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/revsim/internal/powertrain"
	"github.com/san-kum/revsim/internal/sim"
)

// CSVHeader is the column layout of telemetry files.
var CSVHeader = []string{
	"t", "rpm", "throttle", "gear", "boost", "torque", "afr", "speed_kmh",
	"coolant_temp", "limp_mode", "damaged", "backfire", "fuel_cut", "brake",
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func telemetryRecord(tel powertrain.Telemetry) []string {
	return []string{
		formatFloat(tel.Time),
		formatFloat(tel.RPM),
		formatFloat(tel.Throttle),
		strconv.Itoa(tel.Gear),
		formatFloat(tel.Boost),
		formatFloat(tel.Torque),
		formatFloat(tel.AFR),
		formatFloat(tel.SpeedKMH),
		formatFloat(tel.CoolantTemp),
		strconv.FormatBool(tel.LimpMode),
		strconv.FormatBool(tel.Damaged),
		strconv.FormatBool(tel.Backfire),
		strconv.FormatBool(tel.FuelCut),
		strconv.FormatBool(tel.Brake),
	}
}

func parseRecord(rec []string) (powertrain.Telemetry, error) {
	var tel powertrain.Telemetry
	if len(rec) != len(CSVHeader) {
		return tel, fmt.Errorf("expected %d columns, got %d", len(CSVHeader), len(rec))
	}

	floats := []*float64{&tel.Time, &tel.RPM, &tel.Throttle, nil, &tel.Boost, &tel.Torque, &tel.AFR, &tel.SpeedKMH, &tel.CoolantTemp}
	for i, dst := range floats {
		if dst == nil {
			continue
		}
		v, err := strconv.ParseFloat(rec[i], 64)
		if err != nil {
			return tel, fmt.Errorf("column %s: %w", CSVHeader[i], err)
		}
		*dst = v
	}

	gear, err := strconv.Atoi(rec[3])
	if err != nil {
		return tel, fmt.Errorf("column gear: %w", err)
	}
	tel.Gear = gear

	bools := []*bool{&tel.LimpMode, &tel.Damaged, &tel.Backfire, &tel.FuelCut, &tel.Brake}
	for i, dst := range bools {
		v, err := strconv.ParseBool(rec[9+i])
		if err != nil {
			return tel, fmt.Errorf("column %s: %w", CSVHeader[9+i], err)
		}
		*dst = v
	}
	return tel, nil
}

// WriteCSV writes a header and one row per snapshot.
func WriteCSV(w io.Writer, tels []powertrain.Telemetry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, tel := range tels {
		if err := cw.Write(telemetryRecord(tel)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a file written by WriteCSV or CSVLogger.
func ReadCSV(r io.Reader) ([]powertrain.Telemetry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(CSVHeader)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []powertrain.Telemetry{}, nil
	}

	tels := make([]powertrain.Telemetry, 0, len(records)-1)
	for i, rec := range records[1:] {
		tel, err := parseRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		tels = append(tels, tel)
	}
	return tels, nil
}

// CSVLogger streams telemetry rows as the simulation runs. The header is
// written before the first row.
type CSVLogger struct {
	w       *csv.Writer
	started bool
	err     error
}

func NewCSVLogger(w io.Writer) *CSVLogger {
	return &CSVLogger{w: csv.NewWriter(w)}
}

func (l *CSVLogger) OnStep(tel powertrain.Telemetry, u sim.Inputs) {
	if l.err != nil {
		return
	}
	if !l.started {
		l.started = true
		if l.err = l.w.Write(CSVHeader); l.err != nil {
			return
		}
	}
	l.err = l.w.Write(telemetryRecord(tel))
}

// Flush writes buffered rows and reports the first error seen.
func (l *CSVLogger) Flush() error {
	l.w.Flush()
	if l.err != nil {
		return l.err
	}
	return l.w.Error()
}
