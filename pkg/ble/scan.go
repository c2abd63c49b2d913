package ble

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"tinygo.org/x/bluetooth"

	cperrors "github.com/meowble/catprint/pkg/errors"
)

// DefaultScanTimeout bounds autodiscovery; the printers advertise every
// few hundred milliseconds when idle.
const DefaultScanTimeout = 10 * time.Second

// Scanner discovers printers on the default adapter.
type Scanner struct {
	adapter *bluetooth.Adapter
	logger  *log.Logger
	enabled bool
}

// NewScanner returns a scanner over the default BLE adapter. A nil logger
// discards scan progress output.
func NewScanner(logger *log.Logger) *Scanner {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Scanner{adapter: bluetooth.DefaultAdapter, logger: logger}
}

func (s *Scanner) enable() error {
	if s.enabled {
		return nil
	}
	if err := s.adapter.Enable(); err != nil {
		return cperrors.Wrap(cperrors.ErrCodeTransport, err, "enable bluetooth adapter")
	}
	s.enabled = true
	return nil
}

// isPrinter reports whether a scan result looks like a supported printer:
// either it advertises the vendor service or it carries a known model
// name.
func isPrinter(result bluetooth.ScanResult) bool {
	if result.HasServiceUUID(ServiceUUID) {
		return true
	}
	return IsSupportedName(result.LocalName())
}

func deviceFromScan(result bluetooth.ScanResult) Device {
	return Device{
		Name:    result.LocalName(),
		Address: result.Address.String(),
		RSSI:    result.RSSI,
		addr:    result.Address,
	}
}

// Scan collects supported printers until the context is done or timeout
// elapses. Duplicate advertisements are collapsed by address.
func (s *Scanner) Scan(ctx context.Context, timeout time.Duration) ([]Device, error) {
	if err := s.enable(); err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = DefaultScanTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	found := make(chan Device, 16)
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.adapter.Scan(func(_ *bluetooth.Adapter, result bluetooth.ScanResult) {
			if !isPrinter(result) {
				return
			}
			select {
			case found <- deviceFromScan(result):
			default:
			}
		})
	}()

	seen := make(map[string]int)
	var devices []Device
	for {
		select {
		case d := <-found:
			if i, ok := seen[d.Address]; ok {
				devices[i].RSSI = d.RSSI
				continue
			}
			s.logger.Debug("discovered printer", "device", d.String(), "rssi", d.RSSI)
			seen[d.Address] = len(devices)
			devices = append(devices, d)
		case <-ctx.Done():
			s.stopScan(errCh)
			return devices, nil
		case err := <-errCh:
			if err != nil {
				return devices, cperrors.Wrap(cperrors.ErrCodeTransport, err, "ble scan")
			}
			return devices, nil
		}
	}
}

// Find scans until a device matching identifier appears. The empty
// identifier returns the first supported printer seen, which is the
// autodiscovery behavior of the bare print command.
func (s *Scanner) Find(ctx context.Context, identifier string, timeout time.Duration) (Device, error) {
	// The empty identifier requests autodiscovery; only a named identifier
	// gets validated.
	if identifier != "" {
		if err := cperrors.ValidateDeviceIdentifier(identifier); err != nil {
			return Device{}, err
		}
	}
	if err := s.enable(); err != nil {
		return Device{}, err
	}
	if timeout <= 0 {
		timeout = DefaultScanTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	found := make(chan Device, 1)
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.adapter.Scan(func(_ *bluetooth.Adapter, result bluetooth.ScanResult) {
			d := deviceFromScan(result)
			// A named identifier may point at a device that omits the
			// service UUID from some advertisement packets, so match the
			// identifier directly and reserve printer detection for
			// autodiscovery.
			if identifier != "" {
				if !d.matchesIdentifier(identifier) {
					return
				}
			} else if !isPrinter(result) {
				return
			}
			select {
			case found <- d:
			default:
			}
		})
	}()

	select {
	case d := <-found:
		s.stopScan(errCh)
		s.logger.Debug("matched printer", "device", d.String())
		return d, nil
	case <-ctx.Done():
		s.stopScan(errCh)
		if identifier == "" {
			return Device{}, cperrors.New(cperrors.ErrCodeDeviceNotFound, "no supported printer found; is it powered on?")
		}
		return Device{}, cperrors.New(cperrors.ErrCodeDeviceNotFound, "device %q not found", identifier)
	case err := <-errCh:
		return Device{}, cperrors.Wrap(cperrors.ErrCodeTransport, err, "ble scan")
	}
}

// stopScan halts the adapter scan and reaps the scan goroutine.
func (s *Scanner) stopScan(errCh <-chan error) {
	if err := s.adapter.StopScan(); err != nil {
		s.logger.Debug("stop scan", "error", err)
	}
	<-errCh
}
