package layout

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
)

// compose draws the measured block onto a fresh canvas and returns it.
//
// The canvas is max(maxWidth, targetWidth) wide and totalHeight plus two
// paddings tall, with padding = size/5. Lines are drawn top to bottom in
// their original order; the vertical cursor advances by each line's own
// height. Background is white, ink is black; the working buffer carries
// more channels for anti-aliased glyph edges, but the visual content is
// two-tone.
func compose(face font.Face, bm BlockMetrics, st StyledText, size, targetWidth int) image.Image {
	padding := size / 5

	width := bm.MaxWidth
	if targetWidth > width {
		width = targetWidth
	}
	height := bm.TotalHeight + 2*padding
	if height < 1 {
		height = 1
	}

	dc := gg.NewContext(width, height)
	dc.SetColor(color.White)
	dc.Clear()
	dc.SetFontFace(face)

	y := padding
	for i, line := range st.Lines {
		lm := bm.Lines[i]
		x := alignOffset(st.Align, width, lm.Width)

		dc.SetColor(color.Black)
		if line != "" {
			// Subtract the left bearing so the ink starts exactly at x.
			dc.DrawString(line, float64(x-lm.LeftBearing), float64(y+lm.Ascent))
		}
		if st.Style.Strikethrough && lm.Width > 0 {
			strikeLine(dc, x, y, lm, size)
		}
		y += lm.Height
	}

	return dc.Image()
}

// alignOffset returns the x coordinate of a line's left ink edge.
func alignOffset(align Alignment, canvasWidth, lineWidth int) int {
	switch align {
	case AlignCenter:
		return (canvasWidth - lineWidth) / 2
	case AlignRight:
		return canvasWidth - lineWidth
	default:
		return 0
	}
}

// strikeLine draws a horizontal rule through the vertical midpoint of one
// line's bounding box, spanning the line's ink width.
func strikeLine(dc *gg.Context, x, y int, lm LineMetrics, size int) {
	stroke := size / 10
	if stroke < 1 {
		stroke = 1
	}
	mid := float64(y) + float64(lm.Height)/2
	dc.SetLineWidth(float64(stroke))
	dc.DrawLine(float64(x), mid, float64(x+lm.Width), mid)
	dc.Stroke()
}

// composeEmpty produces the minimal valid canvas for empty input:
// target width, padding-only height.
func composeEmpty(size, targetWidth int) image.Image {
	padding := size / 5
	height := 2 * padding
	if height < 1 {
		height = 1
	}
	dc := gg.NewContext(targetWidth, height)
	dc.SetColor(color.White)
	dc.Clear()
	return dc.Image()
}
