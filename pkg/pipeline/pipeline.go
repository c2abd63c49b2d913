// Package pipeline provides the core print pipeline for catprint.
//
// This package implements the complete render → binarize → encode pipeline
// that can be used by CLI, server, and worker components. By centralizing
// this logic, we ensure consistent behavior across all entry points and
// avoid code duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Render: lay out styled text as a grayscale raster at the head width
//  2. Binarize: dither the raster down to the 1-bit bitmap the head burns
//  3. Encode: build the framed command stream the printer accepts
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Text:     "hello\nworld",
//	    FontSize: 20,
//	    Align:    "center",
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client.Print(ctx, device, result.Commands)
package pipeline

import (
	"fmt"
	"io"
	"math"

	"github.com/charmbracelet/log"

	"github.com/meowble/catprint/pkg/cache"
	"github.com/meowble/catprint/pkg/dither"
	"github.com/meowble/catprint/pkg/layout"
	"github.com/meowble/catprint/pkg/printer"
)

// Default values, the single source of truth for CLI, server, and worker.
const (
	// DefaultWidth is the head width of the supported printer models.
	DefaultWidth = 384

	// DefaultFontSize matches the stock text printing behavior.
	DefaultFontSize = 10

	// DefaultAlign is the default text alignment.
	DefaultAlign = "left"
)

// Options contains all configuration for the print pipeline.
// This struct supports JSON serialization for server requests.
type Options struct {
	// Render options
	Text          string `json:"text"`
	FontPath      string `json:"font_path,omitempty"`
	FontSize      int    `json:"font_size,omitempty"`
	Bold          bool   `json:"bold,omitempty"`
	Italic        bool   `json:"italic,omitempty"`
	Strikethrough bool   `json:"strikethrough,omitempty"`
	Align         string `json:"align,omitempty"`
	Width         int    `json:"width,omitempty"`

	// Binarize options
	Dither string `json:"dither,omitempty"`

	// Encode options
	Energy    int  `json:"energy,omitempty"`
	FeedSteps int  `json:"feed_steps,omitempty"`
	TextMode  bool `json:"text_mode,omitempty"`

	// Refresh bypasses cached stage results.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// parsed forms, populated by validation
	align layout.Alignment
	algo  dither.Algorithm

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// FontSize is the size the shrink search settled on.
	FontSize int

	// Overconstrained reports that the text did not fit the width even at
	// the minimum font size; the output is a best-effort render.
	Overconstrained bool

	// Bitmap is the binarized raster.
	Bitmap *dither.Bitmap

	// Commands is the complete printer command stream.
	Commands []byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Lines       int
	Width       int
	Height      int
	RenderTime  int64 // microseconds
	EncodeTime  int64 // microseconds
	CommandSize int
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	RasterHit  bool // render + binarize result came from cache
	CommandHit bool // command stream came from cache
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Width < 0 {
		return fmt.Errorf("width must be positive, got %d", o.Width)
	}
	if o.FontSize == 0 {
		o.FontSize = DefaultFontSize
	}
	if o.FontSize < 0 {
		return fmt.Errorf("font size must be positive, got %d", o.FontSize)
	}
	if o.Energy < 0 || o.Energy > printer.MaxEnergy {
		return fmt.Errorf("energy must be between 0 and %d, got %d", printer.MaxEnergy, o.Energy)
	}
	if o.FeedSteps < 0 || o.FeedSteps > math.MaxUint16 {
		return fmt.Errorf("feed steps must be between 0 and %d, got %d", math.MaxUint16, o.FeedSteps)
	}

	align, err := layout.ParseAlignment(o.Align)
	if err != nil {
		return err
	}
	o.align = align

	algo, err := dither.ParseAlgorithm(o.Dither)
	if err != nil {
		return err
	}
	o.algo = algo

	if o.FontPath == "" {
		path, err := layout.DefaultFont()
		if err != nil {
			return err
		}
		o.FontPath = path
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	o.validated = true
	return nil
}

// RasterKeyOpts returns cache key options for the render + binarize stage.
func (o *Options) RasterKeyOpts() cache.RasterKeyOpts {
	return cache.RasterKeyOpts{
		FontPath:      o.FontPath,
		FontSize:      o.FontSize,
		Bold:          o.Bold,
		Italic:        o.Italic,
		Strikethrough: o.Strikethrough,
		Align:         string(o.align),
		Width:         o.Width,
		Dither:        string(o.algo),
	}
}

// CommandKeyOpts returns cache key options for the encode stage.
func (o *Options) CommandKeyOpts() cache.CommandKeyOpts {
	return cache.CommandKeyOpts{
		Energy:    o.Energy,
		FeedLines: o.FeedSteps,
		TextMode:  o.TextMode,
	}
}

// styledText builds the layout input from the validated options.
func (o *Options) styledText() layout.StyledText {
	return layout.NewStyledText(o.Text, o.FontPath, o.FontSize, layout.Style{
		Bold:          o.Bold,
		Italic:        o.Italic,
		Strikethrough: o.Strikethrough,
	}, o.align)
}

// encodeOptions builds the printer encoder options.
func (o *Options) encodeOptions() printer.Options {
	return printer.Options{
		Energy:    uint16(o.Energy),
		FeedSteps: uint16(o.FeedSteps),
		TextMode:  o.TextMode,
	}
}
