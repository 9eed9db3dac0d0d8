// Package influx streams simulation telemetry to InfluxDB, or to a line
// protocol file when no server is reachable.
package influx

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2_api "github.com/influxdata/influxdb-client-go/v2/api"
	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/rs/zerolog"
	"github.com/san-kum/revsim/internal/powertrain"
	"github.com/san-kum/revsim/internal/sim"
)

const Measurement = "powertrain"

type Settings struct {
	URL           string
	Token         string
	Org           string
	Bucket        string
	BatchSize     uint
	FlushInterval uint
}

func DefaultSettings() Settings {
	return Settings{
		URL:           "http://localhost:8086",
		Org:           "revsim",
		Bucket:        "telemetry",
		BatchSize:     2500,
		FlushInterval: 1000,
	}
}

// PointWriter is satisfied by the client's non-blocking WriteAPI.
type PointWriter interface {
	WritePoint(point *influxdb2_write.Point)
}

// NewPoint converts one snapshot into a point timestamped base + elapsed.
func NewPoint(runID string, base time.Time, tel powertrain.Telemetry) *influxdb2_write.Point {
	return influxdb2_write.NewPoint(
		Measurement,
		map[string]string{
			"run":  runID,
			"gear": strconv.Itoa(tel.Gear),
		},
		map[string]interface{}{
			"rpm":          tel.RPM,
			"throttle":     tel.Throttle,
			"boost":        tel.Boost,
			"torque":       tel.Torque,
			"afr":          tel.AFR,
			"speed_kmh":    tel.SpeedKMH,
			"coolant_temp": tel.CoolantTemp,
			"limp_mode":    tel.LimpMode,
			"backfire":     tel.Backfire,
			"fuel_cut":     tel.FuelCut,
			"brake":        tel.Brake,
		},
		base.Add(time.Duration(tel.Time*float64(time.Second))),
	)
}

// Sink is a sim.Observer that writes one point per tick.
type Sink struct {
	RunID  string
	Base   time.Time
	Logger zerolog.Logger

	writer PointWriter
	client influxdb2.Client
	api    influxdb2_api.WriteAPI
	lines  *LineWriter
}

// Connect opens a client, checks the server is up and returns a sink on the
// configured bucket. Write errors are logged asynchronously.
func Connect(ctx context.Context, s Settings, runID string, log zerolog.Logger) (*Sink, error) {
	client := influxdb2.NewClientWithOptions(
		s.URL,
		s.Token,
		influxdb2.DefaultOptions().
			SetBatchSize(s.BatchSize).
			SetFlushInterval(s.FlushInterval),
	)

	running, err := client.Ping(ctx)
	if err != nil || !running {
		client.Close()
		if err == nil {
			err = errors.New("server not ready")
		}
		return nil, fmt.Errorf("influxdb at %s: %w", s.URL, err)
	}

	writeAPI := client.WriteAPI(s.Org, s.Bucket)
	go func(errorsCh <-chan error) {
		for writeErr := range errorsCh {
			log.Error().Err(writeErr).Str("bucket", s.Bucket).Msg("error sending data to InfluxDB")
		}
	}(writeAPI.Errors())

	log.Info().Str("url", s.URL).Str("bucket", s.Bucket).Msg("InfluxDB sink ready")
	return &Sink{
		RunID:  runID,
		Base:   time.Now(),
		Logger: log,
		writer: writeAPI,
		client: client,
		api:    writeAPI,
	}, nil
}

// NewFileSink writes line protocol to w instead of a server.
func NewFileSink(w io.Writer, runID string, base time.Time, log zerolog.Logger) *Sink {
	lw := NewLineWriter(w)
	return &Sink{
		RunID:  runID,
		Base:   base,
		Logger: log,
		writer: lw,
		lines:  lw,
	}
}

func (s *Sink) OnStep(tel powertrain.Telemetry, u sim.Inputs) {
	s.writer.WritePoint(NewPoint(s.RunID, s.Base, tel))
}

// Close flushes pending points and releases the client.
func (s *Sink) Close() error {
	if s.api != nil {
		s.api.Flush()
	}
	if s.client != nil {
		s.client.Close()
	}
	if s.lines != nil {
		return s.lines.Flush()
	}
	return nil
}

// LineWriter encodes points as nanosecond line protocol.
type LineWriter struct {
	w   *bufio.Writer
	err error
}

func NewLineWriter(w io.Writer) *LineWriter {
	return &LineWriter{w: bufio.NewWriter(w)}
}

func (l *LineWriter) WritePoint(point *influxdb2_write.Point) {
	if l.err != nil {
		return
	}
	line := influxdb2_write.PointToLineProtocol(point, time.Nanosecond)
	if !strings.HasSuffix(line, "\n") {
		line += "\n"
	}
	_, l.err = l.w.WriteString(line)
}

func (l *LineWriter) Flush() error {
	if l.err != nil {
		return fmt.Errorf("error writing line protocol: %w", l.err)
	}
	return l.w.Flush()
}
