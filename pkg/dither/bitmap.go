package dither

import (
	"image"
	"image/color"
)

// Bitmap is a 1-bit raster in printer row order. Bits are packed LSB
// first within each byte, matching the wire format of the raster
// commands: bit 0 of byte 0 is the leftmost pixel, a set bit burns a dot.
type Bitmap struct {
	Width  int
	Height int
	Rows   [][]byte
}

// RowBytes returns the packed byte count per row.
func (b *Bitmap) RowBytes() int {
	return (b.Width + 7) / 8
}

// Set reports whether the pixel at (x, y) burns.
func (b *Bitmap) Set(x, y int) bool {
	return b.Rows[y][x/8]&(1<<(x%8)) != 0
}

// Image expands the bitmap back into a viewable grayscale image, burned
// dots black on white. Used by previews.
func (b *Bitmap) Image() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, b.Width, b.Height))
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			v := uint8(255)
			if b.Set(x, y) {
				v = 0
			}
			img.SetGray(x, y, color.Gray{Y: v})
		}
	}
	return img
}

// Pack converts a binarized grayscale image into a Bitmap. Pixels darker
// than the midpoint burn; the input is expected to be two-tone already.
func Pack(gray *image.Gray) *Bitmap {
	bounds := gray.Bounds()
	bm := &Bitmap{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}
	rowBytes := bm.RowBytes()
	bm.Rows = make([][]byte, bm.Height)

	for y := 0; y < bm.Height; y++ {
		row := make([]byte, rowBytes)
		for x := 0; x < bm.Width; x++ {
			if gray.GrayAt(bounds.Min.X+x, bounds.Min.Y+y).Y < 128 {
				row[x/8] |= 1 << (x % 8)
			}
		}
		bm.Rows[y] = row
	}
	return bm
}

// Binarize runs the algorithm over img and packs the result.
func Binarize(img image.Image, algo Algorithm) (*Bitmap, error) {
	gray, err := Apply(img, algo)
	if err != nil {
		return nil, err
	}
	return Pack(gray), nil
}
