package ble

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"tinygo.org/x/bluetooth"

	cperrors "github.com/meowble/catprint/pkg/errors"
	"github.com/meowble/catprint/pkg/observability"
)

// Write pacing defaults. The printers buffer little; pushing chunks
// faster than the head burns causes dropped rows mid-print.
const (
	DefaultChunkSize = 20
	DefaultThrottle  = 10 * time.Millisecond
)

// Client sends command streams to one printer.
type Client struct {
	scanner   *Scanner
	logger    *log.Logger
	chunkSize int
	throttle  time.Duration
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithChunkSize overrides the write chunk size. The safe ceiling is the
// negotiated ATT MTU minus 3; the default stays under the minimum MTU.
func WithChunkSize(n int) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.chunkSize = n
		}
	}
}

// WithThrottle overrides the delay between chunk writes.
func WithThrottle(d time.Duration) ClientOption {
	return func(c *Client) {
		if d >= 0 {
			c.throttle = d
		}
	}
}

// NewClient creates a printer client. A nil logger discards output.
func NewClient(logger *log.Logger, opts ...ClientOption) *Client {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	c := &Client{
		scanner:   NewScanner(logger),
		logger:    logger,
		chunkSize: DefaultChunkSize,
		throttle:  DefaultThrottle,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Print locates the device matching identifier (or autodiscovers when
// empty), connects, and streams data to the print characteristic.
func (c *Client) Print(ctx context.Context, identifier string, data []byte) error {
	device, err := c.scanner.Find(ctx, identifier, 0)
	if err != nil {
		return err
	}
	return c.PrintTo(ctx, device, data)
}

// PrintTo streams data to an already discovered device.
func (c *Client) PrintTo(ctx context.Context, device Device, data []byte) (err error) {
	hooks := observability.Transport()
	hooks.OnConnect(ctx, device.String())

	start := time.Now()
	sent := 0
	defer func() {
		hooks.OnDisconnect(ctx, device.String(), sent, time.Since(start), err)
	}()

	conn, err := c.scanner.adapter.Connect(device.addr, bluetooth.ConnectionParams{})
	if err != nil {
		return cperrors.Wrap(cperrors.ErrCodeTransport, err, "connect to %s", device)
	}
	defer func() {
		if derr := conn.Disconnect(); derr != nil {
			c.logger.Debug("disconnect", "device", device.String(), "error", derr)
		}
	}()

	char, err := c.writeCharacteristic(conn)
	if err != nil {
		return err
	}

	c.logger.Debug("sending print data", "device", device.String(), "bytes", len(data))
	for _, chunk := range splitChunks(data, c.chunkSize) {
		if err := ctx.Err(); err != nil {
			return cperrors.Wrap(cperrors.ErrCodeTimeout, err, "print interrupted after %d bytes", sent)
		}
		if _, err := char.WriteWithoutResponse(chunk); err != nil {
			return cperrors.Wrap(cperrors.ErrCodeTransport, err, "write chunk at offset %d", sent)
		}
		sent += len(chunk)
		hooks.OnChunk(ctx, device.String(), sent, len(data))
		if c.throttle > 0 {
			time.Sleep(c.throttle)
		}
	}
	return nil
}

// writeCharacteristic discovers the vendor service and its write
// characteristic on a connected device.
func (c *Client) writeCharacteristic(conn bluetooth.Device) (bluetooth.DeviceCharacteristic, error) {
	var zero bluetooth.DeviceCharacteristic

	services, err := conn.DiscoverServices([]bluetooth.UUID{ServiceUUID})
	if err != nil || len(services) == 0 {
		return zero, cperrors.Wrap(cperrors.ErrCodeTransport, err, "printer service %s not found", ServiceUUID)
	}
	chars, err := services[0].DiscoverCharacteristics([]bluetooth.UUID{WriteUUID})
	if err != nil || len(chars) == 0 {
		return zero, cperrors.Wrap(cperrors.ErrCodeTransport, err, "write characteristic %s not found", WriteUUID)
	}
	return chars[0], nil
}

// splitChunks slices data into writes of at most size bytes.
func splitChunks(data []byte, size int) [][]byte {
	if size <= 0 {
		size = DefaultChunkSize
	}
	chunks := make([][]byte, 0, (len(data)+size-1)/size)
	for len(data) > size {
		chunks = append(chunks, data[:size])
		data = data[size:]
	}
	if len(data) > 0 {
		chunks = append(chunks, data)
	}
	return chunks
}
