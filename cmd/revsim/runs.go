package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/revsim/internal/analysis"
	"github.com/san-kum/revsim/internal/export"
	"github.com/san-kum/revsim/internal/powertrain"
	"github.com/san-kum/revsim/internal/report"
	"github.com/san-kum/revsim/internal/storage"
	"github.com/spf13/cobra"
)

// loadRun opens the configured backend and reads one stored run.
func (a *app) loadRun(runID string) (*storage.RunMetadata, []powertrain.Telemetry, error) {
	st, err := a.backend()
	if err != nil {
		return nil, nil, err
	}
	defer st.Close()

	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, fmt.Errorf("load %s: %w", runID, err)
	}
	tels, err := st.LoadTelemetry(runID)
	if err != nil {
		return nil, nil, fmt.Errorf("load telemetry %s: %w", runID, err)
	}
	return meta, tels, nil
}

// output returns stdout for "" or "-", else a created file.
func output(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.backend()
			if err != nil {
				return err
			}
			defer st.Close()

			runs, err := st.List()
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println("no runs found")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tPRESET\tCTRL\tTIME\tDURATION\tDT\tSTEPS\tDIGEST")
			for _, run := range runs {
				preset := run.Preset
				if preset == "" {
					preset = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.1fs\t%.4fs\t%d\t%s\n",
					run.ID,
					preset,
					run.Controller,
					run.Timestamp.Local().Format("2006-01-02 15:04:05"),
					run.Duration,
					run.Dt,
					run.Steps,
					run.Digest,
				)
			}
			return w.Flush()
		},
	}
}

func selectors(fields []string) ([]analysis.Selector, error) {
	out := make([]analysis.Selector, len(fields))
	for i, name := range fields {
		sel, ok := analysis.Selectors[name]
		if !ok {
			names := make([]string, 0, len(analysis.Selectors))
			for n := range analysis.Selectors {
				names = append(names, n)
			}
			sort.Strings(names)
			return nil, fmt.Errorf("unknown field %q (available: %s)", name, strings.Join(names, ", "))
		}
		out[i] = sel
	}
	return out, nil
}

// downsample keeps at most n evenly spaced points.
func downsample(data []float64, n int) []float64 {
	if n <= 0 || len(data) <= n {
		return data
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = data[i*len(data)/n]
	}
	return out
}

func newPlotCmd(a *app) *cobra.Command {
	var (
		fields []string
		width  int
		height int
	)
	cmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sels, err := selectors(fields)
			if err != nil {
				return err
			}
			meta, tels, err := a.loadRun(args[0])
			if err != nil {
				return err
			}
			if len(tels) == 0 {
				return fmt.Errorf("no data to plot")
			}

			fmt.Printf("run: %s\n", meta.ID)
			fmt.Printf("samples: %d over %.1fs\n\n", len(tels), tels[len(tels)-1].Time)
			for i, sel := range sels {
				data := downsample(analysis.Field(tels, sel), width)
				fmt.Println(asciigraph.Plot(data,
					asciigraph.Height(height),
					asciigraph.Width(width),
					asciigraph.Caption(fields[i]),
				))
				fmt.Println()
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&fields, "field", []string{"rpm", "speed_kmh", "boost", "coolant_temp"}, "fields to plot")
	cmd.Flags().IntVar(&width, "width", 80, "plot width")
	cmd.Flags().IntVar(&height, "height", 10, "plot height")
	return cmd
}

func newExportCSVCmd(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run telemetry to CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, tels, err := a.loadRun(args[0])
			if err != nil {
				return err
			}
			w, err := output(out)
			if err != nil {
				return err
			}
			defer w.Close()
			return storage.WriteCSV(w, tels)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}

func newExportJSONCmd(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and telemetry to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, tels, err := a.loadRun(args[0])
			if err != nil {
				return err
			}
			w, err := output(out)
			if err != nil {
				return err
			}
			defer w.Close()
			return storage.ExportJSON(w, *meta, tels)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}

func newReportCmd(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "report [run_id]",
		Short: "render an HTML chart report for a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, tels, err := a.loadRun(args[0])
			if err != nil {
				return err
			}
			if out == "" {
				out = meta.ID + ".html"
			}
			w, err := output(out)
			if err != nil {
				return err
			}
			defer w.Close()
			if err := report.Render(w, *meta, tels); err != nil {
				return err
			}
			a.log.Info().Str("run", meta.ID).Str("path", out).Msg("report written")
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default <run_id>.html)")
	return cmd
}

func newAnalyzeCmd(a *app) *cobra.Command {
	var (
		field  string
		events bool
	)
	cmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "summary statistics, spectrum and events of a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sels, err := selectors([]string{field})
			if err != nil {
				return err
			}
			meta, tels, err := a.loadRun(args[0])
			if err != nil {
				return err
			}
			if len(tels) < 2 {
				return fmt.Errorf("no data")
			}

			data := analysis.Field(tels, sels[0])
			stats := analysis.Summarize(data)
			fmt.Printf("analysis: %s (%s)\n\n", meta.ID, field)
			fmt.Printf("  min %.2f  max %.2f  mean %.2f  std %.2f  p95 %.2f\n\n",
				stats.Min, stats.Max, stats.Mean, stats.StdDev, stats.P95)

			ps := analysis.PowerSpectrum(data, meta.Dt)
			if len(ps.Power) > 2 {
				fmt.Println(asciigraph.Plot(downsample(ps.Power[1:len(ps.Power)/4+1], 80),
					asciigraph.Height(12),
					asciigraph.Width(80),
					asciigraph.Caption("power spectrum ("+field+")"),
				))
				fmt.Println()
			}
			freq, _ := analysis.DominantFrequency(data, meta.Dt)
			fmt.Printf("dominant frequency: %.3f hz\n", freq)
			if freq > 0 {
				fmt.Printf("period: %.3f s\n", 1.0/freq)
			}
			fmt.Printf("peak ratio: %.2f\n", analysis.SpectralPeakRatio(data, meta.Dt))

			evs := analysis.Events(tels)
			counts := analysis.CountEvents(evs)
			kinds := make([]string, 0, len(counts))
			for k := range counts {
				kinds = append(kinds, string(k))
			}
			sort.Strings(kinds)
			fmt.Println("\nevents:")
			for _, k := range kinds {
				fmt.Printf("  %s: %d\n", k, counts[analysis.EventKind(k)])
			}
			if events {
				fmt.Println()
				for _, ev := range evs {
					fmt.Printf("  %8.3fs  %-12s %6.0f rpm  %s\n", ev.Time, ev.Kind, ev.RPM, ev.Detail)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&field, "field", "rpm", "field to analyze")
	cmd.Flags().BoolVar(&events, "events", false, "print every event")
	return cmd
}

func newExportSVGCmd(a *app) *cobra.Command {
	var (
		out    string
		field  string
		width  int
		height int
	)
	cmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export one telemetry channel of a run as an SVG chart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sels, err := selectors([]string{field})
			if err != nil {
				return err
			}
			meta, tels, err := a.loadRun(args[0])
			if err != nil {
				return err
			}

			var markers []export.Marker
			if field == "rpm" {
				markers = append(markers, export.Marker{Label: "redline", Value: meta.Engine.Redline})
			}
			if field == "coolant_temp" {
				markers = append(markers, export.Marker{Label: "max coolant", Value: meta.Engine.MaxCoolantTemp})
			}

			if out == "" {
				out = meta.ID + "_" + field + ".svg"
			}
			w, err := output(out)
			if err != nil {
				return err
			}
			defer w.Close()

			trace := export.Trace{
				Label:  meta.ID + " " + field,
				Times:  analysis.Field(tels, func(t powertrain.Telemetry) float64 { return t.Time }),
				Values: analysis.Field(tels, sels[0]),
			}
			return export.TraceSVG(w, trace, width, height, markers...)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default <run_id>_<field>.svg)")
	cmd.Flags().StringVar(&field, "field", "rpm", "field to draw")
	cmd.Flags().IntVar(&width, "width", 960, "image width")
	cmd.Flags().IntVar(&height, "height", 320, "image height")
	return cmd
}
