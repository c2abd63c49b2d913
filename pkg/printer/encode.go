package printer

import (
	"github.com/meowble/catprint/pkg/dither"
	cperrors "github.com/meowble/catprint/pkg/errors"
)

// Options control the generated print sequence.
type Options struct {
	// Energy is the burn intensity, 0 meaning DefaultEnergy.
	Energy uint16

	// FeedSteps advances the paper after the raster so the output clears
	// the tear bar. 0 means DefaultFeedSteps.
	FeedSteps uint16

	// TextMode selects the device's text drawing mode instead of image
	// mode during setup.
	TextMode bool
}

// DefaultFeedSteps clears a printed page past the tear bar.
const DefaultFeedSteps = 112

func (o *Options) withDefaults() Options {
	out := *o
	if out.Energy == 0 {
		out.Energy = DefaultEnergy
	}
	if out.FeedSteps == 0 {
		out.FeedSteps = DefaultFeedSteps
	}
	return out
}

// EncodeRow encodes one packed raster row, choosing between the plain and
// the run-length command by encoded size.
func EncodeRow(row []byte) []byte {
	if rle, ok := runLengthEncode(row); ok && len(rle) < len(row) {
		return frame(cmdPrintRowRLE, rle)
	}
	return frame(cmdPrintRow, row)
}

// runLengthEncode compresses a packed row into the device's run format:
// one byte per run, high bit carrying the color and the low seven bits the
// length. Runs longer than 127 pixels split. ok is false when a row would
// need more than 0xFF run bytes, which no longer fits the length field.
func runLengthEncode(row []byte) ([]byte, bool) {
	var out []byte
	var runLen int
	var runBit byte

	flush := func() {
		for runLen > 0x7F {
			out = append(out, runBit<<7|0x7F)
			runLen -= 0x7F
		}
		if runLen > 0 {
			out = append(out, runBit<<7|byte(runLen))
		}
	}

	for i := 0; i < len(row)*8; i++ {
		bit := row[i/8] >> (i % 8) & 1
		if i == 0 || bit == runBit {
			runBit = bit
			runLen++
			continue
		}
		flush()
		runBit, runLen = bit, 1
	}
	flush()

	return out, len(out) <= 0xFF
}

// Encode builds the complete command stream that prints bm: device setup,
// start lattice, one command per raster row, paper feed, end lattice.
func Encode(bm *dither.Bitmap, opts Options) ([]byte, error) {
	if bm == nil || bm.Width <= 0 || bm.Height <= 0 {
		return nil, cperrors.New(cperrors.ErrCodeInvalidInput, "cannot encode an empty bitmap")
	}

	o := opts.withDefaults()
	mode := ModeImage
	if o.TextMode {
		mode = ModeText
	}

	var buf []byte
	buf = append(buf, GetDeviceState()...)
	buf = append(buf, SetQuality(qualityDefault)...)
	buf = append(buf, SetEnergy(o.Energy)...)
	buf = append(buf, SetDrawingMode(mode)...)
	buf = append(buf, LatticeStart()...)
	for _, row := range bm.Rows {
		buf = append(buf, EncodeRow(row)...)
	}
	buf = append(buf, FeedPaper(o.FeedSteps)...)
	buf = append(buf, LatticeEnd()...)
	return buf, nil
}
