package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/san-kum/revsim/internal/influx"
	"github.com/san-kum/revsim/internal/logging"
	"github.com/san-kum/revsim/internal/sim"
	"github.com/san-kum/revsim/internal/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "REVSIM"

// settings are the process-wide knobs: where runs live, how to log and
// where to stream telemetry. Flags win over REVSIM_* variables, which win
// over the optional settings file.
type settings struct {
	DataDir    string
	LogLevel   string
	LogFile    bool
	Storage    string
	DSN        string
	Influx     bool
	InfluxFile string
	InfluxCfg  influx.Settings
}

func bindSettings(root *cobra.Command, v *viper.Viper) error {
	def := influx.DefaultSettings()
	pf := root.PersistentFlags()
	pf.String("settings", "", "settings file (yaml, json or toml)")
	pf.String("data", ".revsim", "data directory")
	pf.String("log-level", "info", "log level (trace, debug, info, warn, error)")
	pf.Bool("log-file", false, "also write logs to <data>/logs")
	pf.String("storage", "file", "run storage driver: file, sqlite or postgres")
	pf.String("dsn", "", "storage location (directory, sqlite file or postgres dsn)")
	pf.Bool("influx", false, "stream telemetry to InfluxDB")
	pf.String("influx-url", def.URL, "InfluxDB url")
	pf.String("influx-token", "", "InfluxDB token")
	pf.String("influx-org", def.Org, "InfluxDB organization")
	pf.String("influx-bucket", def.Bucket, "InfluxDB bucket")
	pf.String("influx-file", "", "write line protocol to this file instead of a server")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	return v.BindPFlags(pf)
}

func loadSettings(v *viper.Viper) (settings, error) {
	if path := v.GetString("settings"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return settings{}, fmt.Errorf("error reading settings file: %w", err)
		}
	}

	s := settings{
		DataDir:    v.GetString("data"),
		LogLevel:   v.GetString("log-level"),
		LogFile:    v.GetBool("log-file"),
		Storage:    strings.ToLower(v.GetString("storage")),
		DSN:        v.GetString("dsn"),
		Influx:     v.GetBool("influx"),
		InfluxFile: v.GetString("influx-file"),
		InfluxCfg:  influx.DefaultSettings(),
	}
	s.InfluxCfg.URL = v.GetString("influx-url")
	s.InfluxCfg.Token = v.GetString("influx-token")
	s.InfluxCfg.Org = v.GetString("influx-org")
	s.InfluxCfg.Bucket = v.GetString("influx-bucket")

	if s.DSN == "" {
		switch s.Storage {
		case "", "file":
			s.DSN = filepath.Join(s.DataDir, "runs")
		case "sqlite":
			s.DSN = filepath.Join(s.DataDir, "revsim.db")
		case "postgres":
			return s, fmt.Errorf("storage postgres needs --dsn or %s_DSN", envPrefix)
		}
	}
	if _, err := logging.ParseLevel(s.LogLevel); err != nil {
		return s, err
	}
	return s, nil
}

// app carries what every command needs once flags are parsed.
type app struct {
	v       *viper.Viper
	set     settings
	log     zerolog.Logger
	start   time.Time
	closers []io.Closer
}

func newApp() *app {
	return &app{v: viper.New(), log: zerolog.Nop(), start: time.Now()}
}

func (a *app) setup() error {
	set, err := loadSettings(a.v)
	if err != nil {
		return err
	}
	a.set = set

	var out io.Writer = os.Stderr
	if set.LogFile {
		f, err := a.openLogFile()
		if err != nil {
			return err
		}
		out = zerolog.MultiLevelWriter(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}, f)
	}
	log, err := logging.New(logging.Options{
		Level:  set.LogLevel,
		Pretty: !set.LogFile && logging.IsTerminal(os.Stderr),
		Out:    out,
	})
	if err != nil {
		return err
	}
	a.log = log
	return nil
}

func (a *app) openLogFile() (*os.File, error) {
	f, err := logging.OpenFile(filepath.Join(a.set.DataDir, "logs"), "revsim", a.start)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, f)
	return f, nil
}

// fileOnlyLogger sends logs to the session log file; used while the
// dashboard owns the terminal.
func (a *app) fileOnlyLogger() (zerolog.Logger, error) {
	f, err := a.openLogFile()
	if err != nil {
		return zerolog.Nop(), err
	}
	return logging.New(logging.Options{Level: a.set.LogLevel, Out: f})
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.log.Warn().Err(err).Msg("close")
		}
	}
	a.closers = nil
}

func (a *app) backend() (storage.Backend, error) {
	b, err := storage.Open(a.set.Storage, a.set.DSN, a.log)
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", a.set.Storage, err)
	}
	return b, nil
}

// observers builds the per-run observers: the fault logger always, and an
// influx sink when enabled. The returned func flushes the sink.
func (a *app) observers(cmd *cobra.Command, runID string) ([]sim.Observer, func(), error) {
	obs := []sim.Observer{sim.NewFaultLogger(a.log)}
	done := func() {}

	switch {
	case a.set.InfluxFile != "":
		f, err := os.Create(a.set.InfluxFile)
		if err != nil {
			return nil, done, err
		}
		sink := influx.NewFileSink(f, runID, a.start, a.log)
		obs = append(obs, sink)
		done = func() {
			if err := sink.Close(); err != nil {
				a.log.Error().Err(err).Msg("flush line protocol")
			}
			f.Close()
		}
	case a.set.Influx:
		sink, err := influx.Connect(cmd.Context(), a.set.InfluxCfg, runID, a.log)
		if err != nil {
			return nil, done, fmt.Errorf("influx: %w", err)
		}
		obs = append(obs, sink)
		done = func() {
			if err := sink.Close(); err != nil {
				a.log.Error().Err(err).Msg("close influx sink")
			}
		}
	}
	return obs, done, nil
}
