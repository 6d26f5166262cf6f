package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"schoolfinder/internal/components/telemetry"
	"schoolfinder/internal/config"

	"github.com/spf13/cobra"
)

var verbose bool
var configPath string

var providers telemetry.Telemetry

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging.")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultConfigPath, "The json5 config file to read, a missing file means defaults.")
}

var rootCmd = &cobra.Command{
	Use:   "schoolfinder",
	Short: "schoolfinder exports the schools listed on the Opera Nazionale Montessori school finder.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(verbose)

		var err error
		providers, err = telemetry.SetupFromEnv(cmd.Context(), "schoolfinder")
		if errors.Is(err, os.ErrNotExist) {
			slog.Debug("no telemetry.json5 found, telemetry export disabled")
			return
		}
		if err != nil {
			slog.Warn("failed to setup telemetry", "err", err)
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		shutdownTelemetry()
	},
	Args: cobra.NoArgs,
	Run:  runScrape,
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func shutdownTelemetry() {
	err := providers.Shutdown(context.Background())
	if err != nil {
		slog.Warn("failed to shutdown telemetry", "err", err)
	}
}

func fatal(message string, err error) {
	slog.Error(message, "err", err.Error())
	shutdownTelemetry()
	os.Exit(1)
}

func newTelemetryAPI() telemetry.API {
	tel, err := telemetry.NewOtelAPI("schoolfinder", telemetry.SlogAPI{})
	if err != nil {
		slog.Warn("failed to create otel instruments, using slog only", "err", err)
		return telemetry.SlogAPI{}
	}
	return tel
}
