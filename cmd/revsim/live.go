package main

import (
	"os"

	"github.com/san-kum/revsim/internal/audio"
	"github.com/san-kum/revsim/internal/sim"
	"github.com/san-kum/revsim/internal/storage"
	"github.com/san-kum/revsim/internal/viz"
	"github.com/spf13/cobra"
)

func newLiveCmd(a *app) *cobra.Command {
	var (
		sf     sessionFlags
		sound  bool
		csvOut string
		theme  string
	)
	cmd := &cobra.Command{
		Use:   "live",
		Short: "drive the engine from the terminal dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := sf.build()
			if err != nil {
				return err
			}
			log, err := a.fileOnlyLogger()
			if err != nil {
				return err
			}
			a.log = log

			opts := viz.Options{
				Engine:    cfg.Engine,
				Seed:      cfg.Seed,
				Theme:     theme,
				Observers: []sim.Observer{sim.NewFaultLogger(log)},
			}

			if csvOut != "" {
				f, err := os.Create(csvOut)
				if err != nil {
					return err
				}
				defer f.Close()
				logger := storage.NewCSVLogger(f)
				opts.Observers = append(opts.Observers, logger)
				defer func() {
					if err := logger.Flush(); err != nil {
						log.Error().Err(err).Str("path", csvOut).Msg("write csv")
					}
				}()
			}

			if sound {
				synth := audio.NewSynth(log)
				if err := synth.Start(); err != nil {
					log.Warn().Err(err).Msg("audio unavailable, continuing without sound")
				} else {
					defer synth.Stop()
					opts.Sound = synth
				}
			}

			log.Info().Str("preset", cfg.Preset).Float64("redline", cfg.Engine.Redline).Msg("live session started")
			return viz.Run(opts)
		},
	}
	sf.register(cmd.Flags())
	cmd.Flags().BoolVar(&sound, "sound", false, "play a synthesized engine note")
	cmd.Flags().StringVar(&csvOut, "csv", "", "log the session time series to this CSV file")
	cmd.Flags().StringVar(&theme, "theme", "night", "color theme: "+joinNames(viz.ThemeNames()))
	return cmd
}
