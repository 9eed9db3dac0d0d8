package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	a := newApp()
	err := newRootCmd(a).ExecuteContext(ctx)
	a.close()
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// newRootCmd registers every command against a. Without a subcommand the
// live dashboard starts with the stock engine.
func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "revsim",
		Short:         "turbocharged powertrain simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}
	if err := bindSettings(root, a.v); err != nil {
		panic(err)
	}

	live := newLiveCmd(a)
	root.RunE = live.RunE
	root.Flags().AddFlagSet(live.Flags())

	root.AddCommand(
		live,
		newRunCmd(a),
		newScriptCmd(a),
		newListCmd(a),
		newPlotCmd(a),
		newExportCSVCmd(a),
		newExportJSONCmd(a),
		newExportSVGCmd(a),
		newReportCmd(a),
		newAnalyzeCmd(a),
		newVerifyCmd(a),
		newBackfireCmd(a),
		newTuneCmd(a),
		newSweepCmd(a),
		newBenchCmd(a),
		newPresetsCmd(),
	)
	return root
}
