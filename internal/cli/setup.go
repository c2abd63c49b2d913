package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/meowble/catprint/pkg/ble"
	"github.com/meowble/catprint/pkg/cache"
	"github.com/meowble/catprint/pkg/config"
	"github.com/meowble/catprint/pkg/pipeline"
)

// buildCache creates the cache backend selected by cfg. noCache forces the
// null backend regardless of configuration.
func buildCache(ctx context.Context, cfg config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}

	switch cfg.Cache.Backend {
	case config.CacheBackendNone:
		return cache.NewNullCache(), nil
	case config.CacheBackendRedis:
		return cache.NewRedisCache(ctx, cfg.Cache.RedisAddr)
	default:
		dir := cfg.Cache.Dir
		if dir == "" {
			var err error
			if dir, err = config.DefaultCacheDir(); err != nil {
				return nil, err
			}
		}
		return cache.NewFileCache(dir)
	}
}

// buildRunner wires a pipeline runner with the configured cache backend.
func buildRunner(ctx context.Context, cfg config.Config, logger *log.Logger, noCache bool) (*pipeline.Runner, error) {
	c, err := buildCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(c, nil, logger), nil
}

// buildClient wires a BLE client with the configured transport tuning.
func buildClient(cfg config.Config, logger *log.Logger) *ble.Client {
	var opts []ble.ClientOption
	if cfg.Printer.ChunkSize > 0 {
		opts = append(opts, ble.WithChunkSize(cfg.Printer.ChunkSize))
	}
	if cfg.Printer.ThrottleMS > 0 {
		opts = append(opts, ble.WithThrottle(time.Duration(cfg.Printer.ThrottleMS)*time.Millisecond))
	}
	return ble.NewClient(logger, opts...)
}

// textOptions seeds pipeline options with the configured text defaults.
// Flag values override these afterwards.
func textOptions(cfg config.Config) pipeline.Options {
	return pipeline.Options{
		FontPath:  cfg.Text.Font,
		FontSize:  cfg.Text.FontSize,
		Align:     cfg.Text.Align,
		Width:     cfg.Printer.Width,
		Dither:    cfg.Text.Dither,
		Energy:    cfg.Printer.Energy,
		FeedSteps: cfg.Printer.FeedSteps,
	}
}
