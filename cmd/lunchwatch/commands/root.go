package commands

import (
	"context"
	"fmt"
	"log/slog"
	"lunchwatch/internal/scrapers/matochmat"
	"lunchwatch/lib/restyutil"
	"lunchwatch/lib/telemetry"
	"lunchwatch/lib/util/serviceutil"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lunchwatch",
	Short: "lunchwatch tracks the Kajen Gävle lunch menu and prices week over week.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initTelemetry(cmd.Context())
	},
}

var configPath *string
var verbose *bool

func init() {
	configPath = rootCmd.PersistentFlags().String("config", "config.json5", "Path to the configuration file.")
	verbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging/instrumentation.")
}

func initTelemetry(ctx context.Context) {
	telemetry.InitSlog(*verbose)

	if *verbose {
		slog.DebugContext(ctx, "verbose logging enabled")
	}

	err := telemetry.SetupFromEnv(ctx, "lunchwatch")
	if err != nil {
		serviceutil.Fatal("setup telemetry", err)
	}
	go func() {
		<-ctx.Done()
		telemetry.Shutdown(context.Background())
	}()
	telemetry.InstrumentPerfStats(ctx)

	if !*verbose {
		return
	}

	matochmat.SetRestyInstrumentOutput(
		restyutil.NewFilesystemOutput(".dev/resty/matochmat"),
	)
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
