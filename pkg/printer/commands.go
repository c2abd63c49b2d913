// Package printer encodes command streams for GB01/GB02/GB03/GT01-class
// thermal printers. These devices accept framed commands over a BLE
// characteristic; this package is pure encoding and performs no I/O.
//
// Every command is framed as
//
//	0x51 0x78 CMD 0x00 LEN_LO LEN_HI payload CRC8(payload) 0xFF
//
// with a CRC-8 checksum over the payload only.
package printer

// Command identifiers.
const (
	cmdGetDevState = 0xA3
	cmdSetQuality  = 0xA4
	cmdLattice     = 0xA6
	cmdSetEnergy   = 0xAF
	cmdDrawingMode = 0xBE
	cmdFeedPaper   = 0xA1
	cmdPrintRow    = 0xA2
	cmdPrintRowRLE = 0xBF
)

// Drawing modes for cmdDrawingMode.
const (
	ModeImage byte = 0
	ModeText  byte = 1
)

// Energy bounds for SetEnergy. The device interprets energy as burn
// intensity; too low prints faint, too high scorches.
const (
	MinEnergy     = 0x0000
	MaxEnergy     = 0xFFFF
	DefaultEnergy = 0x3000
)

// Quality level sent during setup, the value the stock app uses.
const qualityDefault = 0x33

// Magic payloads bracketing a print. The device needs the start lattice
// before raster rows and the end lattice after, or it tears the page.
var (
	latticeStart = []byte{0xAA, 0x55, 0x17, 0x38, 0x44, 0x5F, 0x5F, 0x5F, 0x44, 0x38, 0x2C}
	latticeEnd   = []byte{0xAA, 0x55, 0x17, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x17}
)

// frame wraps a payload in the device command framing.
func frame(cmd byte, payload []byte) []byte {
	buf := make([]byte, 0, len(payload)+8)
	buf = append(buf, 0x51, 0x78, cmd, 0x00, byte(len(payload)), byte(len(payload)>>8))
	buf = append(buf, payload...)
	buf = append(buf, checksum(payload), 0xFF)
	return buf
}

// GetDeviceState queries printer status.
func GetDeviceState() []byte {
	return frame(cmdGetDevState, []byte{0x00})
}

// SetQuality selects the print quality level used for raster output.
func SetQuality(level byte) []byte {
	return frame(cmdSetQuality, []byte{level})
}

// SetEnergy sets the burn intensity, little endian.
func SetEnergy(energy uint16) []byte {
	return frame(cmdSetEnergy, []byte{byte(energy), byte(energy >> 8)})
}

// SetDrawingMode switches between image and text drawing.
func SetDrawingMode(mode byte) []byte {
	return frame(cmdDrawingMode, []byte{mode})
}

// FeedPaper advances the paper by the given number of steps.
func FeedPaper(steps uint16) []byte {
	return frame(cmdFeedPaper, []byte{byte(steps), byte(steps >> 8)})
}

// LatticeStart returns the start-of-print bracket command.
func LatticeStart() []byte {
	return frame(cmdLattice, latticeStart)
}

// LatticeEnd returns the end-of-print bracket command.
func LatticeEnd() []byte {
	return frame(cmdLattice, latticeEnd)
}
