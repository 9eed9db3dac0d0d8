// Package storage persists finished runs: metadata plus the per-tick
// telemetry. Runs live either in a directory tree or in a SQL database.
package storage

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/san-kum/revsim/internal/config"
	"github.com/san-kum/revsim/internal/powertrain"
	"github.com/san-kum/revsim/internal/sim"
)

var ErrRunNotFound = errors.New("run not found")

type RunMetadata struct {
	ID         string             `json:"id"`
	Preset     string             `json:"preset"`
	Controller string             `json:"controller"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Steps      int                `json:"steps"`
	Digest     string             `json:"digest"`
	Metrics    map[string]float64 `json:"metrics"`
	Engine     powertrain.Config  `json:"engine"`
}

// Backend stores and retrieves runs. Save assigns meta.ID when it is empty.
type Backend interface {
	Init() error
	Save(meta RunMetadata, tels []powertrain.Telemetry) (string, error)
	List() ([]RunMetadata, error)
	Load(runID string) (*RunMetadata, error)
	LoadTelemetry(runID string) ([]powertrain.Telemetry, error)
	Close() error
}

// NewMetadata describes a finished run of cfg.
func NewMetadata(cfg *config.Config, result *sim.Result) RunMetadata {
	return RunMetadata{
		Preset:     cfg.Preset,
		Controller: cfg.Controller,
		Timestamp:  time.Now().UTC(),
		Seed:       cfg.Seed,
		Dt:         cfg.Dt,
		Duration:   cfg.Duration,
		Steps:      result.StepsTaken,
		Digest:     FormatDigest(result.Digest),
		Metrics:    result.Metrics,
		Engine:     cfg.Engine.Clone(),
	}
}

func FormatDigest(d uint64) string {
	return fmt.Sprintf("%016x", d)
}

func ParseDigest(s string) (uint64, error) {
	return strconv.ParseUint(s, 16, 64)
}

// NewRunID names a run after its preset ("custom" without one) and the
// current time.
func NewRunID(preset string) string {
	name := preset
	if name == "" {
		name = "custom"
	}
	return fmt.Sprintf("%s_%d", name, time.Now().UnixNano())
}

// Open picks a backend by driver name: "file" (dsn is a directory),
// "sqlite" (dsn is a database file) or "postgres" (dsn is a connection string).
func Open(driver, dsn string, log zerolog.Logger) (Backend, error) {
	var (
		b   Backend
		err error
	)
	switch driver {
	case "", "file":
		b = NewFileStore(dsn)
	case "sqlite":
		b, err = OpenSQLite(dsn, log)
	case "postgres":
		b, err = OpenPostgres(dsn, log)
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", driver)
	}
	if err != nil {
		return nil, err
	}
	if err := b.Init(); err != nil {
		b.Close()
		return nil, err
	}
	return b, nil
}
