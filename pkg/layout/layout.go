// Package layout implements the text-to-bitmap layout engine.
//
// The engine turns a possibly multi-line text string plus a typeface, style
// attributes, and an alignment into a monochrome raster whose width exactly
// matches a printer's fixed print width. It performs no binarization and
// touches no hardware; the produced raster is handed to the dither and
// printer packages.
//
// # Stages
//
// A render runs four sequential stages:
//
//  1. Measure: query per-line bounding boxes from the typeface and
//     accumulate block metrics (max line width, summed line heights).
//  2. Shrink to fit: decrement the font size until the block fits the
//     target width, never exceeding the requested size and never going
//     below MinFontSize.
//  3. Compose: draw every line onto a canvas, honoring alignment and
//     strikethrough, with vertical padding derived from the final size.
//  4. Normalize: resample the canvas so its width equals the target
//     width exactly, preserving aspect ratio.
//
// All stages are pure functions of their inputs: rendering the same
// StyledText twice produces bit-identical rasters.
package layout

import (
	"strings"

	cperrors "github.com/meowble/catprint/pkg/errors"
)

// Alignment controls horizontal line placement on the canvas.
type Alignment string

// Supported alignments.
const (
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
)

// ParseAlignment validates a user-supplied alignment string.
// The empty string defaults to left alignment.
func ParseAlignment(s string) (Alignment, error) {
	switch Alignment(strings.ToLower(s)) {
	case "", AlignLeft:
		return AlignLeft, nil
	case AlignCenter:
		return AlignCenter, nil
	case AlignRight:
		return AlignRight, nil
	}
	return "", cperrors.New(cperrors.ErrCodeInvalidAlign, "invalid alignment: %q (must be one of: left, center, right)", s)
}

// Style holds the text style flags.
//
// Bold and italic select typeface variants; strikethrough is drawn by the
// compositor as a separate visual layer. A missing bold variant is a hard
// failure, a missing italic variant silently degrades to upright text.
type Style struct {
	Bold          bool
	Italic        bool
	Strikethrough bool
}

// StyledText is the immutable input of one render.
type StyledText struct {
	// Lines are the text lines exactly as the caller split them.
	// The engine never wraps or splits lines on its own.
	Lines []string

	// Style flags applied to every line.
	Style Style

	// Align controls horizontal placement.
	Align Alignment

	// FontPath is the path of the regular typeface file. Variants (bold,
	// italic) are derived from it through the renderer's VariantResolver.
	FontPath string

	// FontSize is the requested size in pixels. The shrink search may
	// lower it, never raise it.
	FontSize int
}

// NewStyledText splits text on line breaks and bundles it with the given
// attributes. Both "\n" and "\r\n" separators are understood.
func NewStyledText(text, fontPath string, fontSize int, style Style, align Alignment) StyledText {
	return StyledText{
		Lines:    SplitLines(text),
		Style:    style,
		Align:    align,
		FontPath: fontPath,
		FontSize: fontSize,
	}
}

// SplitLines splits text into lines on "\n", tolerating Windows line endings.
func SplitLines(text string) []string {
	return strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
}

// empty reports whether the input contains no renderable lines.
// A single empty line (the result of splitting "") counts as empty.
func (st StyledText) empty() bool {
	if len(st.Lines) == 0 {
		return true
	}
	return len(st.Lines) == 1 && st.Lines[0] == ""
}

// LineMetrics are the measurements of a single line at a given font size.
type LineMetrics struct {
	// Width is the tight ink width in pixels.
	Width int

	// Height is the line extent (ascent + descent) in pixels.
	Height int

	// Ascent is the baseline offset from the top of the line box.
	Ascent int

	// LeftBearing is the ink offset from the drawing origin; the
	// compositor subtracts it so the ink starts exactly at the chosen x.
	LeftBearing int
}

// BlockMetrics aggregate the measurements of all lines at one font size.
//
// MaxWidth and TotalHeight are always computed together from the same size;
// metrics from a previous shrink iteration are never reused.
type BlockMetrics struct {
	Lines       []LineMetrics
	MaxWidth    int
	TotalHeight int
}

// Measurer answers bounding-box queries for one line of text at a given
// size. It is the single source of truth for sizing: every width and height
// the engine uses comes from a Measurer, never from an estimate.
type Measurer interface {
	MeasureLine(line string, size int) (LineMetrics, error)
}

// measureBlock computes BlockMetrics for lines at size, querying the
// measurer exactly once per line.
func measureBlock(m Measurer, lines []string, size int) (BlockMetrics, error) {
	bm := BlockMetrics{Lines: make([]LineMetrics, 0, len(lines))}
	for _, line := range lines {
		lm, err := m.MeasureLine(line, size)
		if err != nil {
			return BlockMetrics{}, err
		}
		bm.Lines = append(bm.Lines, lm)
		if lm.Width > bm.MaxWidth {
			bm.MaxWidth = lm.Width
		}
		bm.TotalHeight += lm.Height
	}
	return bm, nil
}

// IsFontLoad reports whether err is a font loading failure.
func IsFontLoad(err error) bool {
	return cperrors.Is(err, cperrors.ErrCodeFontLoad)
}

// IsOverconstrained reports whether err signals that the shrink search hit
// its minimum size floor without satisfying the width constraint. The
// render result accompanying such an error is still valid (best effort at
// the smallest size).
func IsOverconstrained(err error) bool {
	return cperrors.Is(err, cperrors.ErrCodeOverconstrained)
}
