package cli

import (
	"context"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/meowble/catprint/pkg/buildinfo"
	"github.com/meowble/catprint/pkg/config"
)

// appName is the application name used for directories and display.
const appName = "catprint"

// Execute runs the catprint CLI and returns an error if any command fails.
// This is the main entry point for the CLI application.
//
// The function sets up the root command with all subcommands, loads the
// configuration file, configures logging based on the --verbose flag, and
// executes the command tree. Cancelling ctx aborts scans and transfers in
// flight.
//
// The logger is attached to the context and accessible to all commands via
// loggerFromContext; the loaded configuration travels the same way.
func Execute(ctx context.Context) error {
	var (
		verbose    bool
		configPath string
		cfg        config.Config
	)

	root := &cobra.Command{
		Use:          appName,
		Short:        "Print text and images on BLE cat thermal printers",
		Long:         `Catprint renders text into rasters sized for GB01/GB02/GB03/GT01-class thermal printers and sends them over Bluetooth Low Energy. It shrinks oversized text to fit the paper, supports styling and dithering, and can run as an HTTP print server.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}

			loaded, err := config.Load(configPath)
			if err != nil {
				return err
			}
			cfg = loaded

			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			ctx = withConfig(ctx, cfg)
			cmd.SetContext(ctx)
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/catprint/config.toml)")

	root.AddCommand(newPrintCmd())
	root.AddCommand(newImageCmd())
	root.AddCommand(newPreviewCmd())
	root.AddCommand(newScanCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newCacheCmd())
	root.AddCommand(newConfigCmd())
	root.AddCommand(newCompletionCmd())

	return root.ExecuteContext(ctx)
}

// configKey is the context key for the loaded configuration.
const configKey ctxKey = 1

// withConfig returns a new context with the configuration attached.
func withConfig(ctx context.Context, cfg config.Config) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// configFromContext retrieves the configuration from ctx, falling back to
// defaults when command setup did not run.
func configFromContext(ctx context.Context) config.Config {
	if cfg, ok := ctx.Value(configKey).(config.Config); ok {
		return cfg
	}
	return config.Default()
}
