package layout

import (
	cperrors "github.com/meowble/catprint/pkg/errors"
)

// MinFontSize is the floor of the shrink-to-fit search. The search always
// terminates: once the floor is reached the best-effort metrics are
// returned together with an overconstrained error.
const MinFontSize = 1

// shrinkToFit finds the largest font size <= requested for which the block
// of lines fits targetWidth. The size decreases by one per iteration and
// full block metrics are recomputed each time; metrics never leak across a
// size change. The size never increases past the requested size.
//
// When even MinFontSize does not satisfy the constraint, the metrics at
// MinFontSize are returned along with an ErrCodeOverconstrained error so
// the caller can finish a best-effort render and still report the
// condition.
func shrinkToFit(m Measurer, lines []string, requested, targetWidth int) (BlockMetrics, int, error) {
	size := requested
	if size < MinFontSize {
		size = MinFontSize
	}
	for {
		bm, err := measureBlock(m, lines, size)
		if err != nil {
			return BlockMetrics{}, 0, err
		}
		if bm.MaxWidth <= targetWidth {
			return bm, size, nil
		}
		if size <= MinFontSize {
			return bm, size, cperrors.New(cperrors.ErrCodeOverconstrained,
				"text is %dpx wide at minimum font size, target width is %dpx", bm.MaxWidth, targetWidth)
		}
		size--
	}
}
