package cli

import (
	"fmt"
	"image/png"
	"os"

	"github.com/spf13/cobra"
)

// previewOpts holds the command-line flags for the preview command.
type previewOpts struct {
	text          string
	font          string
	fontSize      int
	bold          bool
	italic        bool
	strikethrough bool
	align         string
	dither        string
	noCache       bool
	refresh       bool
	output        string
}

// newPreviewCmd creates the preview command for rendering without a printer.
func newPreviewCmd() *cobra.Command {
	var opts previewOpts

	cmd := &cobra.Command{
		Use:   "preview [file]",
		Short: "Render text to a PNG without printing",
		Long: `Render text exactly as the printer would burn it and write the result
as a PNG, one white pixel per unburned dot.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readText(args, opts.text)
			if err != nil {
				return err
			}
			return runPreview(cmd, text, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.text, "text", "t", "", "text to render instead of reading a file")
	cmd.Flags().StringVar(&opts.font, "font", "", "font file path or family name")
	cmd.Flags().IntVar(&opts.fontSize, "font-size", 0, "font size before shrink-to-fit")
	cmd.Flags().BoolVar(&opts.bold, "bold", false, "use the bold font variant")
	cmd.Flags().BoolVar(&opts.italic, "italic", false, "use the italic font variant if available")
	cmd.Flags().BoolVar(&opts.strikethrough, "strikethrough", false, "draw a strikethrough line")
	cmd.Flags().StringVar(&opts.align, "align", "", "text alignment: left, center, right")
	cmd.Flags().StringVar(&opts.dither, "dither", "", "dithering: floyd-steinberg, atkinson, mean-threshold, none")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even when cached")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "preview.png", "output PNG path")

	return cmd
}

func runPreview(cmd *cobra.Command, text string, opts *previewOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	cfg := configFromContext(ctx)

	popts := textOptions(cfg)
	popts.Text = text
	popts.Bold = opts.bold
	popts.Italic = opts.italic
	popts.Strikethrough = opts.strikethrough
	popts.Refresh = opts.refresh

	f := cmd.Flags()
	if f.Changed("font") {
		popts.FontPath = opts.font
	}
	if f.Changed("font-size") {
		popts.FontSize = opts.fontSize
	}
	if f.Changed("align") {
		popts.Align = opts.align
	}
	if f.Changed("dither") {
		popts.Dither = opts.dither
	}

	runner, err := buildRunner(ctx, cfg, logger, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	raster, err := runner.Render(ctx, popts)
	if err != nil {
		return err
	}
	if raster.Overconstrained {
		printWarning("Text does not fit the paper even at the smallest font size")
	}

	out, err := os.Create(opts.output)
	if err != nil {
		return fmt.Errorf("create %s: %w", opts.output, err)
	}
	defer out.Close()

	if err := png.Encode(out, raster.Bitmap.Image()); err != nil {
		return fmt.Errorf("encode %s: %w", opts.output, err)
	}

	printSuccess("Rendered %dx%d at font size %d", raster.Bitmap.Width, raster.Bitmap.Height, raster.FontSize)
	printFile(opts.output)
	return nil
}
