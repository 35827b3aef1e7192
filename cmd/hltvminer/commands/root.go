package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"hltvminer/internal/components/telemetry"
	"hltvminer/internal/config"

	"github.com/spf13/cobra"
)

var (
	configPath *string
	verbose    *bool
	jsonLogs   *bool

	cfg     config.Config
	otelSdk telemetry.Telemetry
	tel     telemetry.API
)

func init() {
	configPath = rootCmd.PersistentFlags().String("config", "config.json5", "The json5 config file, <name>.local.json5 next to it overrides it.")
	verbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug reports.")
	jsonLogs = rootCmd.PersistentFlags().Bool("json", false, "Log in json.")
}

var rootCmd = &cobra.Command{
	Use:           "hltvminer",
	Short:         "hltvminer mines matches, maps, player stats and events from hltv.org into a local database.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		telemetry.InitSlog(*verbose, *jsonLogs)

		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			return fmt.Errorf("read config: %w", err)
		}

		otelSdk, err = telemetry.Setup(cmd.Context(), "hltvminer", cfg.Telemetry)
		if err != nil {
			return fmt.Errorf("setup telemetry: %w", err)
		}
		tel = telemetry.NewSlogAPI()
		slog.Debug("loaded config", "database", cfg.Database.File, "base_url", cfg.Hltv.BaseURL)
		return nil
	},
}

// execute runs the command line and flushes telemetry whether or not the
// command failed.
func execute(ctx context.Context, args []string) error {
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	shutdownErr := otelSdk.Shutdown(shutdownCtx)
	if shutdownErr != nil {
		slog.Warn("failed to shutdown telemetry", "err", shutdownErr.Error())
	}
	otelSdk = telemetry.Telemetry{}

	return err
}

func ExecuteContext(ctx context.Context) {
	err := execute(ctx, os.Args[1:])
	if err != nil {
		slog.Error("command failed", "err", err.Error())
		os.Exit(1)
	}
}
