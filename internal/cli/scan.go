package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/meowble/catprint/pkg/ble"
)

// scanOpts holds the command-line flags for the scan command.
type scanOpts struct {
	timeout time.Duration
	pick    bool
}

// newScanCmd creates the scan command for printer discovery.
func newScanCmd() *cobra.Command {
	var opts scanOpts

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Discover printers over BLE",
		Long: `Scan for advertising printers and list them.

With --pick, an interactive selector opens and the chosen device name is
printed, ready to paste into the config file or a --device flag.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, &opts)
		},
	}

	cmd.Flags().DurationVar(&opts.timeout, "timeout", ble.DefaultScanTimeout, "how long to scan")
	cmd.Flags().BoolVar(&opts.pick, "pick", false, "select a device interactively")

	return cmd
}

func runScan(cmd *cobra.Command, opts *scanOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	spinner := newSpinner(ctx, fmt.Sprintf("Scanning for printers (%s)...", opts.timeout))
	spinner.Start()

	scanner := ble.NewScanner(logger)
	devices, err := scanner.Scan(ctx, opts.timeout)
	if err != nil {
		if spinner.Cancelled() {
			spinner.Stop()
			return err
		}
		spinner.StopWithError("Scan failed")
		return err
	}

	if len(devices) == 0 {
		spinner.StopWithError("No printers found")
		printDetail("Make sure the printer is powered on and not connected elsewhere")
		return nil
	}
	spinner.StopWithSuccess(fmt.Sprintf("Found %d device(s)", len(devices)))

	if opts.pick {
		selected, err := pickDevice(devices)
		if err != nil {
			return err
		}
		if selected == nil {
			printInfo("Nothing selected")
			return nil
		}
		fmt.Println(selected.String())
		printNextStep("Print with", fmt.Sprintf("catprint print -d %s -t 'hello'", deviceIdentifier(*selected)))
		return nil
	}

	for _, d := range devices {
		name := d.Name
		if name == "" {
			name = "(unnamed)"
		}
		printKeyValue(name, fmt.Sprintf("%s  %d dBm", d.Address, d.RSSI))
	}
	return nil
}

// deviceIdentifier picks the friendliest identifier for pasting into flags.
func deviceIdentifier(d ble.Device) string {
	if d.Name != "" {
		return d.Name
	}
	return d.Address
}
