package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/meowble/catprint/pkg/cache"
	"github.com/meowble/catprint/pkg/dither"
	"github.com/meowble/catprint/pkg/layout"
	"github.com/meowble/catprint/pkg/observability"
	"github.com/meowble/catprint/pkg/printer"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. The underlying layout renderer memoizes parsed
// fonts, so a Runner should not be shared across goroutines; the server
// gives each worker its own.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	renderer      *layout.Renderer
	rendererWidth int
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete render → binarize → encode pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}
	result.Stats.Lines = len(layout.SplitLines(opts.Text))

	// Stages 1+2: render and binarize, cached together since the bitmap
	// is what both the preview and the encoder consume.
	renderStart := time.Now()
	raster, rasterHit, err := r.RenderWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Bitmap = raster.Bitmap
	result.FontSize = raster.FontSize
	result.Overconstrained = raster.Overconstrained
	result.Stats.RenderTime = time.Since(renderStart).Microseconds()
	result.Stats.Width = raster.Bitmap.Width
	result.Stats.Height = raster.Bitmap.Height
	result.CacheInfo.RasterHit = rasterHit

	opts.Logger.Info("rendered text",
		"lines", result.Stats.Lines,
		"size", result.FontSize,
		"raster", fmt.Sprintf("%dx%d", raster.Bitmap.Width, raster.Bitmap.Height),
		"cached", rasterHit)
	if raster.Overconstrained {
		opts.Logger.Warn("text does not fit the print width even at the minimum font size; output will be cramped")
	}

	// Stage 3: encode.
	encodeStart := time.Now()
	commands, commandHit, err := r.EncodeWithCacheInfo(ctx, raster.Bitmap, opts)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	result.Commands = commands
	result.Stats.EncodeTime = time.Since(encodeStart).Microseconds()
	result.Stats.CommandSize = len(commands)
	result.CacheInfo.CommandHit = commandHit

	opts.Logger.Info("encoded commands",
		"bytes", len(commands),
		"cached", commandHit)

	return result, nil
}

// Raster is the cached output of the render and binarize stages.
type Raster struct {
	Bitmap          *dither.Bitmap
	FontSize        int
	Overconstrained bool
}

// cachedRaster is the serialized form of a Raster.
type cachedRaster struct {
	Width           int      `json:"width"`
	Height          int      `json:"height"`
	Rows            [][]byte `json:"rows"`
	FontSize        int      `json:"font_size"`
	Overconstrained bool     `json:"overconstrained,omitempty"`
}

func marshalRaster(r *Raster) ([]byte, error) {
	return json.Marshal(cachedRaster{
		Width:           r.Bitmap.Width,
		Height:          r.Bitmap.Height,
		Rows:            r.Bitmap.Rows,
		FontSize:        r.FontSize,
		Overconstrained: r.Overconstrained,
	})
}

func unmarshalRaster(data []byte) (*Raster, error) {
	var c cachedRaster
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	if c.Width <= 0 || c.Height <= 0 || len(c.Rows) != c.Height {
		return nil, fmt.Errorf("corrupt cached raster")
	}
	return &Raster{
		Bitmap:          &dither.Bitmap{Width: c.Width, Height: c.Height, Rows: c.Rows},
		FontSize:        c.FontSize,
		Overconstrained: c.Overconstrained,
	}, nil
}

// RenderWithCacheInfo renders and binarizes with caching and returns
// cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, opts Options) (*Raster, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	textHash := cache.Hash([]byte(opts.Text))
	cacheKey := r.Keyer.RasterKey(textHash, opts.RasterKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if raster, err := unmarshalRaster(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "raster")
				return raster, true, nil
			}
			// Corrupt entry: fall through and recompute.
		}
	}
	observability.Cache().OnCacheMiss(ctx, "raster")

	raster, err := r.render(ctx, opts)
	if err != nil {
		return nil, false, err
	}

	if data, err := marshalRaster(raster); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLRaster); err == nil {
			observability.Cache().OnCacheSet(ctx, "raster", len(data))
		}
	}

	return raster, false, nil
}

// render runs the layout engine and the dither stage.
func (r *Runner) render(ctx context.Context, opts Options) (*Raster, error) {
	hooks := observability.Pipeline()

	if r.renderer == nil || r.rendererWidth != opts.Width {
		r.renderer = layout.NewRenderer(opts.Width)
		r.rendererWidth = opts.Width
	}

	start := time.Now()
	hooks.OnRenderStart(ctx, len(layout.SplitLines(opts.Text)), opts.FontSize)
	res, err := r.renderer.Render(opts.styledText())
	overconstrained := layout.IsOverconstrained(err)
	if err != nil && !overconstrained {
		hooks.OnRenderComplete(ctx, 0, 0, time.Since(start), err)
		return nil, err
	}
	bounds := res.Image.Bounds()
	hooks.OnRenderComplete(ctx, bounds.Dx(), bounds.Dy(), time.Since(start), nil)

	start = time.Now()
	hooks.OnBinarizeStart(ctx, string(opts.algo))
	bitmap, err := dither.Binarize(res.Image, opts.algo)
	hooks.OnBinarizeComplete(ctx, string(opts.algo), time.Since(start), err)
	if err != nil {
		return nil, err
	}

	return &Raster{
		Bitmap:          bitmap,
		FontSize:        res.FontSize,
		Overconstrained: overconstrained,
	}, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Render(ctx context.Context, opts Options) (*Raster, error) {
	raster, _, err := r.RenderWithCacheInfo(ctx, opts)
	return raster, err
}

// EncodeWithCacheInfo encodes a bitmap into a command stream with caching
// and returns cache hit info.
func (r *Runner) EncodeWithCacheInfo(ctx context.Context, bm *dither.Bitmap, opts Options) ([]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	rasterHash := cache.Hash(flattenRows(bm))
	cacheKey := r.Keyer.CommandKey(rasterHash, opts.CommandKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "commands")
			return data, true, nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, "commands")

	hooks := observability.Pipeline()
	start := time.Now()
	hooks.OnEncodeStart(ctx, bm.Height)
	commands, err := printer.Encode(bm, opts.encodeOptions())
	hooks.OnEncodeComplete(ctx, len(commands), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if err := r.Cache.Set(ctx, cacheKey, commands, cache.TTLCommands); err == nil {
		observability.Cache().OnCacheSet(ctx, "commands", len(commands))
	}

	return commands, false, nil
}

// Encode is a convenience wrapper that calls EncodeWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Encode(ctx context.Context, bm *dither.Bitmap, opts Options) ([]byte, error) {
	commands, _, err := r.EncodeWithCacheInfo(ctx, bm, opts)
	return commands, err
}

// flattenRows concatenates bitmap rows for hashing.
func flattenRows(bm *dither.Bitmap) []byte {
	out := make([]byte, 0, bm.Height*bm.RowBytes())
	for _, row := range bm.Rows {
		out = append(out, row...)
	}
	return out
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
