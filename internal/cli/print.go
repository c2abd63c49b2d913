package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/meowble/catprint/pkg/config"
	cperrors "github.com/meowble/catprint/pkg/errors"
)

// printOpts holds the command-line flags for the print command.
type printOpts struct {
	text          string // text to print, instead of reading a file
	device        string // printer identifier: advertisement name or address
	font          string // font file path or family name
	fontSize      int    // requested size before shrink-to-fit
	bold          bool
	italic        bool
	strikethrough bool
	align         string // left, center, right
	dither        string // binarization algorithm
	energy        int    // burn intensity
	feed          int    // paper feed steps after printing
	textMode      bool   // use the firmware text drawing mode
	noCache       bool   // disable the artifact cache
	refresh       bool   // recompute even when cached
	dryRun        bool   // render and encode without touching the radio
	output        string // write the command stream to a file (implies --dry-run)
}

// newPrintCmd creates the print command, the main path from text to paper.
func newPrintCmd() *cobra.Command {
	var opts printOpts

	cmd := &cobra.Command{
		Use:   "print [file]",
		Short: "Render text and send it to the printer",
		Long: `Render text as a raster sized for the print head and send it over BLE.

Text comes from a file argument, from --text, or from stdin when the
argument is "-". Oversized text shrinks until it fits the paper width.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readText(args, opts.text)
			if err != nil {
				return err
			}
			return runPrint(cmd, text, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.text, "text", "t", "", "text to print instead of reading a file")
	cmd.Flags().StringVarP(&opts.device, "device", "d", "", "printer name or address (default: autodiscover)")
	cmd.Flags().StringVar(&opts.font, "font", "", "font file path or family name")
	cmd.Flags().IntVar(&opts.fontSize, "font-size", 0, "font size before shrink-to-fit")
	cmd.Flags().BoolVar(&opts.bold, "bold", false, "use the bold font variant")
	cmd.Flags().BoolVar(&opts.italic, "italic", false, "use the italic font variant if available")
	cmd.Flags().BoolVar(&opts.strikethrough, "strikethrough", false, "draw a strikethrough line")
	cmd.Flags().StringVar(&opts.align, "align", "", "text alignment: left, center, right")
	cmd.Flags().StringVar(&opts.dither, "dither", "", "dithering: floyd-steinberg, atkinson, mean-threshold, none")
	cmd.Flags().IntVar(&opts.energy, "energy", 0, "burn intensity (0 = configured default)")
	cmd.Flags().IntVar(&opts.feed, "feed", 0, "paper feed steps after printing")
	cmd.Flags().BoolVar(&opts.textMode, "text-mode", false, "use the firmware text drawing mode")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even when cached")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "render and encode without printing")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the command stream to a file instead of printing")

	return cmd
}

// readText resolves the print text from the flag, a file argument, or stdin.
func readText(args []string, flagText string) (string, error) {
	if flagText != "" {
		return flagText, nil
	}
	if len(args) == 0 {
		return "", cperrors.New(cperrors.ErrCodeInvalidInput, "no text given: pass a file, --text, or - for stdin")
	}
	if args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("read %s: %w", args[0], err)
	}
	return string(data), nil
}

func runPrint(cmd *cobra.Command, text string, opts *printOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	cfg := configFromContext(ctx)

	popts := textOptions(cfg)
	popts.Text = text
	popts.Bold = opts.bold
	popts.Italic = opts.italic
	popts.Strikethrough = opts.strikethrough
	popts.TextMode = opts.textMode
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
	if f.Changed("energy") {
		popts.Energy = opts.energy
	}
	if f.Changed("feed") {
		popts.FeedSteps = opts.feed
	}

	runner, err := buildRunner(ctx, cfg, logger, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	result, err := runner.Execute(ctx, popts)
	if err != nil {
		return err
	}

	if result.Overconstrained {
		printWarning("Text does not fit the paper even at the smallest font size")
	}
	printStats(result.Stats.Width, result.Stats.Height, len(result.Commands), result.CacheInfo.CommandHit)

	if opts.output != "" {
		if err := os.WriteFile(opts.output, result.Commands, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", opts.output, err)
		}
		printFile(opts.output)
		return nil
	}
	if opts.dryRun {
		printInfo("Dry run, nothing sent")
		return nil
	}

	return transmit(ctx, cfg, opts.device, result.Commands)
}

// transmit sends an encoded command stream to the configured printer,
// running a spinner while the radio works.
func transmit(ctx context.Context, cfg config.Config, device string, commands []byte) error {
	logger := loggerFromContext(ctx)
	if device == "" {
		device = cfg.Printer.Device
	}

	client := buildClient(cfg, logger)
	target := device
	if target == "" {
		target = "printer"
	}

	spinner := newSpinner(ctx, fmt.Sprintf("Printing to %s...", target))
	spinner.Start()
	progress := newProgress(logger)

	if err := client.Print(ctx, device, commands); err != nil {
		if spinner.Cancelled() {
			spinner.Stop()
			return err
		}
		spinner.StopWithError(fmt.Sprintf("Print failed: %s", cperrors.UserMessage(err)))
		return err
	}

	spinner.StopWithSuccess(fmt.Sprintf("Sent %d bytes", len(commands)))
	progress.done(fmt.Sprintf("Sent %d bytes", len(commands)))
	return nil
}
