package influx

import (
	"bytes"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/san-kum/revsim/internal/powertrain"
	"github.com/san-kum/revsim/internal/sim"
)

func TestNewPoint(t *testing.T) {
	base := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	p := NewPoint("r1", base, powertrain.Telemetry{Time: 1.5, RPM: 3200, Gear: 3, FuelCut: true})

	if p.Name() != Measurement {
		t.Errorf("measurement = %q", p.Name())
	}
	if want := base.Add(1500 * time.Millisecond); !p.Time().Equal(want) {
		t.Errorf("time = %v, want %v", p.Time(), want)
	}

	tags := map[string]string{}
	for _, tag := range p.TagList() {
		tags[tag.Key] = tag.Value
	}
	if tags["run"] != "r1" || tags["gear"] != "3" {
		t.Errorf("tags = %v", tags)
	}

	fields := map[string]interface{}{}
	for _, f := range p.FieldList() {
		fields[f.Key] = f.Value
	}
	if fields["rpm"] != 3200.0 || fields["fuel_cut"] != true {
		t.Errorf("fields = %v", fields)
	}
}

func TestFileSink(t *testing.T) {
	var buf bytes.Buffer
	base := time.Unix(1700000000, 0)
	sink := NewFileSink(&buf, "run-7", base, zerolog.Nop())

	tels := []powertrain.Telemetry{
		{Time: 0.5, RPM: 900, Gear: 1},
		{Time: 1.0, RPM: 1200, Gear: 2, Backfire: true},
	}
	for _, tel := range tels {
		sink.OnStep(tel, sim.Inputs{})
	}
	if err := sink.Close(); err != nil {
		t.Fatal(err)
	}

	var lines []string
	for _, line := range strings.Split(buf.String(), "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", buf.String())
	}

	for i, line := range lines {
		if !strings.HasPrefix(line, Measurement+",") {
			t.Errorf("line %d: %q", i, line)
		}
		if !strings.Contains(line, "run=run-7") {
			t.Errorf("line %d missing run tag: %q", i, line)
		}
		ts := base.Add(time.Duration(tels[i].Time * float64(time.Second))).UnixNano()
		if !strings.HasSuffix(line, " "+strconv.FormatInt(ts, 10)) {
			t.Errorf("line %d timestamp: %q", i, line)
		}
	}
	if !strings.Contains(lines[1], "backfire=true") {
		t.Errorf("backfire field missing: %q", lines[1])
	}
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	if s.URL == "" || s.Bucket == "" || s.Org == "" || s.BatchSize == 0 {
		t.Errorf("incomplete defaults %+v", s)
	}
}
