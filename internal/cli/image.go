package cli

import (
	"fmt"
	"math"
	"os"

	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"

	"github.com/meowble/catprint/pkg/dither"
	cperrors "github.com/meowble/catprint/pkg/errors"
	"github.com/meowble/catprint/pkg/pipeline"
	"github.com/meowble/catprint/pkg/printer"
)

// imageOpts holds the command-line flags for the image command.
type imageOpts struct {
	device string
	dither string
	energy int
	feed   int
	width  int
	dryRun bool
	output string
}

// newImageCmd creates the image command for printing raster files.
func newImageCmd() *cobra.Command {
	var opts imageOpts

	cmd := &cobra.Command{
		Use:   "image <file>",
		Short: "Print a raster image file",
		Long: `Print a PNG, JPEG, GIF, TIFF, or BMP file.

The image is scaled to the print head width, dithered down to one bit
per pixel, and sent to the printer.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImage(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.device, "device", "d", "", "printer name or address (default: autodiscover)")
	cmd.Flags().StringVar(&opts.dither, "dither", "", "dithering: floyd-steinberg, atkinson, mean-threshold, none")
	cmd.Flags().IntVar(&opts.energy, "energy", 0, "burn intensity (0 = configured default)")
	cmd.Flags().IntVar(&opts.feed, "feed", 0, "paper feed steps after printing")
	cmd.Flags().IntVar(&opts.width, "width", 0, "print head width in pixels")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "encode without printing")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the command stream to a file instead of printing")

	return cmd
}

func runImage(cmd *cobra.Command, path string, opts *imageOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	cfg := configFromContext(ctx)

	width := cfg.Printer.Width
	if opts.width > 0 {
		width = opts.width
	}
	if width <= 0 {
		width = pipeline.DefaultWidth
	}

	algoName := cfg.Text.Dither
	if cmd.Flags().Changed("dither") {
		algoName = opts.dither
	}
	algo, err := dither.ParseAlgorithm(algoName)
	if err != nil {
		return err
	}

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	if img.Bounds().Dx() != width {
		img = imaging.Resize(img, width, 0, imaging.Lanczos)
	}
	logger.Info("loaded image", "file", path, "raster", fmt.Sprintf("%dx%d", img.Bounds().Dx(), img.Bounds().Dy()))

	bm, err := dither.Binarize(img, algo)
	if err != nil {
		return err
	}

	energy := cfg.Printer.Energy
	if cmd.Flags().Changed("energy") {
		energy = opts.energy
	}
	feed := cfg.Printer.FeedSteps
	if cmd.Flags().Changed("feed") {
		feed = opts.feed
	}

	encodeOpts, err := encodeImageOptions(energy, feed)
	if err != nil {
		return err
	}
	commands, err := printer.Encode(bm, encodeOpts)
	if err != nil {
		return err
	}

	printStats(bm.Width, bm.Height, len(commands), false)

	if opts.output != "" {
		if err := os.WriteFile(opts.output, commands, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", opts.output, err)
		}
		printFile(opts.output)
		return nil
	}
	if opts.dryRun {
		printInfo("Dry run, nothing sent")
		return nil
	}

	return transmit(ctx, cfg, opts.device, commands)
}

// encodeImageOptions bounds the flag values before they narrow to the wire
// types.
func encodeImageOptions(energy, feed int) (printer.Options, error) {
	if energy < 0 || energy > printer.MaxEnergy {
		return printer.Options{}, cperrors.New(cperrors.ErrCodeInvalidInput,
			"energy must be between 0 and %d, got %d", printer.MaxEnergy, energy)
	}
	if feed < 0 || feed > math.MaxUint16 {
		return printer.Options{}, cperrors.New(cperrors.ErrCodeInvalidInput,
			"feed steps must be between 0 and %d, got %d", math.MaxUint16, feed)
	}
	return printer.Options{
		Energy:    uint16(energy),
		FeedSteps: uint16(feed),
	}, nil
}
