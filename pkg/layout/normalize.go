package layout

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// normalizeWidth guarantees the raster is exactly targetWidth columns wide.
//
// A canvas that already matches passes through untouched. Otherwise both
// dimensions are scaled by targetWidth/width with a Lanczos filter, the
// height rounded to the nearest pixel (minimum one row). This runs exactly
// once per render, after composition; the shrink search only ever changes
// the font size, never the scale.
func normalizeWidth(img image.Image, targetWidth int) image.Image {
	width := img.Bounds().Dx()
	if width == targetWidth {
		return img
	}
	scale := float64(targetWidth) / float64(width)
	height := int(math.Round(float64(img.Bounds().Dy()) * scale))
	if height < 1 {
		height = 1
	}
	return imaging.Resize(img, targetWidth, height, imaging.Lanczos)
}
