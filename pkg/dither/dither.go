// Package dither converts rendered grayscale rasters into the 1-bit
// bitmaps thermal printers burn. The printable raster is already sized to
// the head width when it arrives here; this package only decides which
// pixels fire.
package dither

import (
	"image"
	"strings"

	"github.com/MaxHalford/halfgone"

	cperrors "github.com/meowble/catprint/pkg/errors"
)

// Algorithm selects a binarization strategy.
type Algorithm string

// Supported algorithms. FloydSteinberg is the default: error diffusion
// keeps mid-tone areas printable where a plain threshold would wash them
// out.
const (
	AlgorithmMeanThreshold  Algorithm = "mean-threshold"
	AlgorithmFloydSteinberg Algorithm = "floyd-steinberg"
	AlgorithmAtkinson       Algorithm = "atkinson"
	AlgorithmNone           Algorithm = "none"
)

// DefaultAlgorithm is used when no algorithm is configured.
const DefaultAlgorithm = AlgorithmFloydSteinberg

// ParseAlgorithm validates a user-supplied algorithm name. The empty
// string selects the default.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return DefaultAlgorithm, nil
	case AlgorithmMeanThreshold:
		return AlgorithmMeanThreshold, nil
	case AlgorithmFloydSteinberg:
		return AlgorithmFloydSteinberg, nil
	case AlgorithmAtkinson:
		return AlgorithmAtkinson, nil
	case AlgorithmNone:
		return AlgorithmNone, nil
	default:
		return "", cperrors.New(cperrors.ErrCodeInvalidDither,
			"unknown dither algorithm %q (valid: %s, %s, %s, %s)",
			s, AlgorithmMeanThreshold, AlgorithmFloydSteinberg, AlgorithmAtkinson, AlgorithmNone)
	}
}

// Apply binarizes img with the chosen algorithm and returns a grayscale
// image whose pixels are exactly 0 or 255.
func Apply(img image.Image, algo Algorithm) (*image.Gray, error) {
	gray := halfgone.ImageToGray(img)

	switch algo {
	case AlgorithmMeanThreshold:
		return halfgone.ThresholdDitherer{Threshold: meanLevel(gray)}.Apply(gray), nil
	case AlgorithmFloydSteinberg:
		return halfgone.FloydSteinbergDitherer{}.Apply(gray), nil
	case AlgorithmAtkinson:
		return halfgone.AtkinsonDitherer{}.Apply(gray), nil
	case AlgorithmNone:
		// The caller promises an already two-tone image; a midpoint cut
		// snaps any stray anti-aliasing without redistributing error.
		return halfgone.ThresholdDitherer{Threshold: 127}.Apply(gray), nil
	default:
		return nil, cperrors.New(cperrors.ErrCodeInvalidDither, "unknown dither algorithm %q", algo)
	}
}

// meanLevel returns the average gray level of the image, the adaptive
// threshold for mean-threshold mode. An empty image maps to the midpoint.
func meanLevel(gray *image.Gray) uint8 {
	bounds := gray.Bounds()
	n := bounds.Dx() * bounds.Dy()
	if n == 0 {
		return 127
	}
	var sum uint64
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			sum += uint64(gray.GrayAt(x, y).Y)
		}
	}
	return uint8(sum / uint64(n))
}
