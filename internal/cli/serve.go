package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/meowble/catprint/internal/server"
	"github.com/meowble/catprint/pkg/jobs"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr    string
	device  string
	noCache bool
	dryRun  bool
}

// newServeCmd creates the serve command for the HTTP print server.
func newServeCmd() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP print server",
		Long: `Serve a JSON print API.

Print requests are queued and burned one at a time through a single
worker, since the printer cannot handle concurrent jobs. Job history is
kept in memory, or archived to MongoDB when mongo_uri is configured.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config)")
	cmd.Flags().StringVarP(&opts.device, "device", "d", "", "default printer for queued jobs")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "accept jobs but never touch the radio")

	return cmd
}

func runServe(cmd *cobra.Command, opts *serveOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	cfg := configFromContext(ctx)

	addr := opts.addr
	if addr == "" {
		addr = cfg.Server.Addr
	}
	device := opts.device
	if device == "" {
		device = cfg.Printer.Device
	}

	runner, err := buildRunner(ctx, cfg, logger, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	var store jobs.Store
	if cfg.Server.MongoURI != "" {
		mongoStore, err := jobs.NewMongoStore(ctx, cfg.Server.MongoURI, cfg.Server.MongoDatabase)
		if err != nil {
			return err
		}
		defer mongoStore.Close(context.Background())
		store = mongoStore
		logger.Info("job archive enabled", "database", cfg.Server.MongoDatabase)
	}

	transmitFn := func(ctx context.Context, device string, data []byte) error {
		client := buildClient(cfg, logger)
		return client.Print(ctx, device, data)
	}
	if opts.dryRun {
		transmitFn = func(ctx context.Context, device string, data []byte) error {
			logger.Info("dry run, discarding commands", "device", device, "bytes", len(data))
			return nil
		}
	}

	srv := server.New(server.Options{
		Runner:   runner,
		Store:    store,
		Transmit: transmitFn,
		Device:   device,
		Logger:   logger,
	})

	return srv.Run(ctx, addr)
}
