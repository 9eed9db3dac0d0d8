package main

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/san-kum/revsim/internal/automation"
	"github.com/san-kum/revsim/internal/config"
	"github.com/san-kum/revsim/internal/experiment"
	"github.com/san-kum/revsim/internal/sim"
	"github.com/san-kum/revsim/internal/storage"
	"github.com/spf13/cobra"
)

func newRunCmd(a *app) *cobra.Command {
	var (
		sf     sessionFlags
		csvOut string
		noSave bool
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless session and store it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := sf.build()
			if err != nil {
				return err
			}
			runID := storage.NewRunID(cfg.Preset)

			obs, done, err := a.observers(cmd, runID)
			if err != nil {
				return err
			}
			defer done()

			if csvOut != "" {
				f, err := os.Create(csvOut)
				if err != nil {
					return err
				}
				defer f.Close()
				logger := storage.NewCSVLogger(f)
				obs = append(obs, logger)
				defer func() {
					if err := logger.Flush(); err != nil {
						a.log.Error().Err(err).Str("path", csvOut).Msg("write csv")
					}
				}()
			}

			a.log.Info().Str("run", runID).Str("controller", cfg.Controller).Bool("auto_shift", cfg.AutoShift).
				Float64("dt", cfg.Dt).Float64("duration", cfg.Duration).Int64("seed", cfg.Seed).Msg("running session")

			start := time.Now()
			result, err := experiment.RunConfig(cmd.Context(), cfg, obs...)
			if err != nil {
				return err
			}
			return a.finish(cfg, runID, result, time.Since(start), noSave)
		},
	}
	sf.register(cmd.Flags())
	cmd.Flags().StringVar(&csvOut, "csv", "", "also write the time series to this CSV file")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	return cmd
}

func newScriptCmd(a *app) *cobra.Command {
	var noSave bool
	cmd := &cobra.Command{
		Use:   "script [file]",
		Short: "play back a timed drive script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			script, err := automation.LoadScript(args[0])
			if err != nil {
				return err
			}
			cfg, err := script.Config()
			if err != nil {
				return err
			}
			cfg.Controller = "script"
			runID := storage.NewRunID(cfg.Preset)

			obs, done, err := a.observers(cmd, runID)
			if err != nil {
				return err
			}
			defer done()

			start := time.Now()
			result, err := automation.RunScript(cmd.Context(), script, a.log, obs...)
			if err != nil {
				return err
			}
			return a.finish(cfg, runID, result, time.Since(start), noSave)
		},
	}
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	return cmd
}

// finish prints the outcome of a session and stores it unless noSave.
func (a *app) finish(cfg *config.Config, runID string, result *sim.Result, elapsed time.Duration, noSave bool) error {
	last := result.Last()
	fmt.Printf("completed in %v\n", elapsed.Round(time.Millisecond))
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("digest: %s\n", storage.FormatDigest(result.Digest))
	fmt.Printf("final: %.0f rpm, gear %s, %.1f km/h, %.1f C", last.RPM, last.GearLabel(), last.SpeedKMH, last.CoolantTemp)
	if last.Damaged {
		fmt.Print(" (damaged)")
	}
	fmt.Println()

	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.4f\n", name, result.Metrics[name])
	}

	if noSave {
		return nil
	}
	st, err := a.backend()
	if err != nil {
		return err
	}
	defer st.Close()

	meta := storage.NewMetadata(cfg, result)
	meta.ID = runID
	id, err := st.Save(meta, result.Telemetry)
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	a.log.Info().Str("run", id).Str("storage", a.set.Storage).Msg("run saved")
	fmt.Printf("\nrun id: %s\n", id)
	return nil
}
