// Package ble discovers and drives cat printers over Bluetooth Low
// Energy. Devices advertise a vendor service and accept the full command
// stream as chunked writes without response on a single characteristic.
package ble

import (
	"strings"

	"tinygo.org/x/bluetooth"
)

// The printers expose one vendor service with a write characteristic.
var (
	// ServiceUUID is advertised by the printer and carries the print
	// characteristic.
	ServiceUUID = bluetooth.New16BitUUID(0xAE30)

	// WriteUUID accepts command bytes, write without response.
	WriteUUID = bluetooth.New16BitUUID(0xAE01)
)

// knownNames are the advertisement names of supported printer models.
var knownNames = []string{"GB01", "GB02", "GB03", "GT01"}

// Device is one discovered printer.
type Device struct {
	// Name is the advertised local name, possibly empty.
	Name string

	// Address is the platform identifier: MAC address on Linux, UUID on
	// macOS.
	Address string

	// RSSI is the signal strength at discovery time.
	RSSI int16

	addr bluetooth.Address
}

// String renders the device for logs and pickers.
func (d Device) String() string {
	if d.Name == "" {
		return d.Address
	}
	return d.Name + " (" + d.Address + ")"
}

// IsSupportedName reports whether name matches a known printer model.
func IsSupportedName(name string) bool {
	for _, n := range knownNames {
		if strings.EqualFold(name, n) {
			return true
		}
	}
	return false
}

// matchesIdentifier reports whether the device matches a user-supplied
// identifier, by advertisement name or by address. The empty identifier
// matches any supported device, which is the autodiscovery path.
func (d Device) matchesIdentifier(id string) bool {
	if id == "" {
		return true
	}
	return strings.EqualFold(d.Name, id) || strings.EqualFold(d.Address, id)
}
