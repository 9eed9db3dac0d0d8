package main

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/san-kum/revsim/internal/automation"
	"github.com/san-kum/revsim/internal/config"
	"github.com/san-kum/revsim/internal/experiment"
	"github.com/san-kum/revsim/internal/metrics"
	"github.com/san-kum/revsim/internal/optim"
	"github.com/san-kum/revsim/internal/powertrain"
	"github.com/san-kum/revsim/internal/sim"
	"github.com/san-kum/revsim/internal/storage"
	"github.com/spf13/cobra"
)

func joinNames(names []string) string { return strings.Join(names, ", ") }

func newVerifyCmd(a *app) *cobra.Command {
	var sf sessionFlags
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "run a session twice and check both runs are identical",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := sf.build()
			if err != nil {
				return err
			}
			var digests [2]uint64
			for i := range digests {
				result, err := experiment.RunConfig(cmd.Context(), cfg)
				if err != nil {
					return err
				}
				digests[i] = result.Digest
				fmt.Printf("run %d: %s (%d steps)\n", i+1, storage.FormatDigest(result.Digest), result.StepsTaken)
			}
			if digests[0] != digests[1] {
				return fmt.Errorf("runs diverged with seed %d", cfg.Seed)
			}
			fmt.Println("deterministic: ok")
			return nil
		},
	}
	sf.register(cmd.Flags())
	return cmd
}

// liftOff is the throttle the backfire ensemble drives with: foot off the
// pedal from the first tick.
type liftOff struct{}

func (liftOff) Compute(powertrain.Telemetry, float64) sim.Inputs { return sim.Inputs{} }

func newBackfireCmd(a *app) *cobra.Command {
	var (
		runs    int
		rpm     float64
		seed    int64
		workers int
	)
	cmd := &cobra.Command{
		Use:   "backfire",
		Short: "estimate the backfire rate of a sudden throttle lift",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := powertrain.DefaultConfig()
			factory := func(s int64) (*powertrain.Engine, error) {
				state := powertrain.InitialState(cfg)
				state.RPM = rpm
				state.Throttle = 1
				state.PrevThrottle = 1
				state.Gear = 0
				return powertrain.New(cfg, powertrain.WithSeed(s), powertrain.WithState(state))
			}
			newMetrics := func() []sim.Metric {
				m, _ := metrics.New("backfires")
				return []sim.Metric{m}
			}
			ens := sim.NewEnsemble(factory, func() sim.Controller { return liftOff{} }, newMetrics, runs, seed)
			if workers > 0 {
				ens.Workers = workers
			}

			start := time.Now()
			results, err := ens.Run(cmd.Context(), sim.Config{Dt: config.DefaultDt, Duration: config.DefaultDt})
			if err != nil {
				return err
			}
			rate := sim.MeanMetric(results, "backfires")
			stderr := math.Sqrt(rate * (1 - rate) / float64(len(results)))
			fmt.Printf("lift at %.0f rpm, %d runs in %v\n", rpm, len(results), time.Since(start).Round(time.Millisecond))
			fmt.Printf("backfire rate: %.4f +- %.4f (expected %.2f above %.0f rpm)\n",
				rate, 2*stderr, powertrain.BackfireProbability, powertrain.BackfireMinRPM)
			return nil
		},
	}
	cmd.Flags().IntVar(&runs, "runs", 10000, "number of seeded runs")
	cmd.Flags().Float64Var(&rpm, "rpm", 6000, "engine speed at the lift")
	cmd.Flags().Int64Var(&seed, "seed", 1, "first seed")
	cmd.Flags().IntVar(&workers, "workers", 0, "parallel workers (default GOMAXPROCS)")
	return cmd
}

// parseRange reads "lo:hi:n" into n evenly spaced values.
func parseRange(s string) ([]float64, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return nil, fmt.Errorf("range %q: want lo:hi:n", s)
	}
	lo, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return nil, fmt.Errorf("range %q: %w", s, err)
	}
	hi, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return nil, fmt.Errorf("range %q: %w", s, err)
	}
	n, err := strconv.Atoi(parts[2])
	if err != nil || n < 1 {
		return nil, fmt.Errorf("range %q: bad count", s)
	}
	return optim.Linspace(lo, hi, n), nil
}

func newTuneCmd(a *app) *cobra.Command {
	var (
		sf     sessionFlags
		params []string
		metric string
		save   string
	)
	cmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search engine parameters to minimize a metric",
		Example: "  revsim tune --preset drag --param final_drive=3.2:4.6:8 --param max_boost=1:2:5 --metric zero_to_100",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := sf.build()
			if err != nil {
				return err
			}
			if len(params) == 0 {
				return fmt.Errorf("at least one --param name=lo:hi:n is required")
			}
			names := make([]string, len(params))
			ranges := make([][]float64, len(params))
			for i, p := range params {
				name, spec, ok := strings.Cut(p, "=")
				if !ok {
					return fmt.Errorf("param %q: want name=lo:hi:n", p)
				}
				r, err := parseRange(spec)
				if err != nil {
					return err
				}
				names[i], ranges[i] = name, r
			}

			gs := optim.NewGridSearch(names, ranges)
			start := time.Now()
			best, score, err := gs.Search(cmd.Context(), cfg, metric)
			if err != nil {
				return err
			}
			a.log.Info().Int("evaluated", gs.Evaluated()).Dur("elapsed", time.Since(start)).Msg("grid search done")

			fmt.Printf("best %s: %.4f\n", metric, score)
			for _, name := range names {
				fmt.Printf("  %s = %.4f\n", name, best[name])
				if err := cfg.Engine.SetParam(name, best[name]); err != nil {
					return err
				}
			}
			if save != "" {
				if err := config.Save(save, cfg); err != nil {
					return err
				}
				fmt.Printf("session written to %s\n", save)
			}
			return nil
		},
	}
	sf.register(cmd.Flags())
	cmd.Flags().StringArrayVar(&params, "param", nil, "parameter range name=lo:hi:n (repeatable)")
	cmd.Flags().StringVar(&metric, "metric", "zero_to_100", "metric to minimize: "+joinNames(metrics.Names()))
	cmd.Flags().StringVar(&save, "save", "", "write the tuned session to this yaml file")
	return cmd
}

func newSweepCmd(a *app) *cobra.Command {
	var (
		sf    sessionFlags
		param string
		lo    float64
		hi    float64
		steps int
	)
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "run one session per value of an engine parameter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := sf.build()
			if err != nil {
				return err
			}
			results, err := automation.RunSweep(cmd.Context(), &automation.ParameterSweep{
				Base:      cfg,
				ParamName: param,
				ParamMin:  lo,
				ParamMax:  hi,
				NumSteps:  steps,
			}, a.log)
			if err != nil {
				return err
			}

			names := metrics.Names()
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "%s\t%s\tFINAL_KMH\n", strings.ToUpper(param), strings.ToUpper(strings.Join(names, "\t")))
			for _, r := range results {
				fmt.Fprintf(w, "%.4g", r.ParamValue)
				for _, n := range names {
					fmt.Fprintf(w, "\t%.3f", r.Metrics[n])
				}
				fmt.Fprintf(w, "\t%.1f\n", r.Final.SpeedKMH)
			}
			return w.Flush()
		},
	}
	sf.register(cmd.Flags())
	cmd.Flags().StringVar(&param, "param", "final_drive", "engine parameter to sweep")
	cmd.Flags().Float64Var(&lo, "min", 3.0, "first value")
	cmd.Flags().Float64Var(&hi, "max", 4.5, "last value")
	cmd.Flags().IntVar(&steps, "steps", 7, "number of values")
	return cmd
}

func newBenchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "bench",
		Short: "measure simulation throughput",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			durations := []float64{10, 60, 300}
			dts := []float64{1.0 / 30, 1.0 / 60, 1.0 / 240}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "DURATION\tDT\tSTEPS\tTIME\tSTEPS/SEC")
			for _, dur := range durations {
				for _, dt := range dts {
					cfg := config.GetPreset("stock")
					cfg.Dt, cfg.Duration = dt, dur

					start := time.Now()
					result, err := experiment.RunConfig(cmd.Context(), cfg)
					if err != nil {
						return err
					}
					elapsed := time.Since(start)
					fmt.Fprintf(w, "%.0fs\t%.4fs\t%d\t%v\t%.0f\n",
						dur, dt, result.StepsTaken, elapsed.Round(time.Microsecond), float64(result.StepsTaken)/elapsed.Seconds())
				}
			}
			return w.Flush()
		},
	}
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "list the built-in session presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tCONTROLLER\tAUTO\tTHROTTLE\tREDLINE\tBOOST\tMAX_TEMP\tDURATION")
			for _, name := range config.ListPresets() {
				cfg := config.GetPreset(name)
				ctrl := cfg.Controller
				if cfg.Controller == "pid" {
					ctrl = fmt.Sprintf("pid@%.0f", cfg.ControllerParams.Target)
				}
				fmt.Fprintf(w, "%s\t%s\t%v\t%.2f\t%.0f\t%.1f\t%.0f\t%.0fs\n",
					name, ctrl, cfg.AutoShift, cfg.Driver.Throttle,
					cfg.Engine.Redline, cfg.Engine.MaxBoost, cfg.Engine.MaxCoolantTemp, cfg.Duration)
			}
			fmt.Fprintf(w, "\ncontrollers: %s\n", joinNames(experiment.NewRegistry().ListControllers()))
			return w.Flush()
		},
	}
}
