package layout

import (
	"image"
	"testing"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// fixedFaceMeasurer measures through a fixed bitmap face, ignoring size.
// Used to exercise the compositor without depending on system fonts.
type fixedFaceMeasurer struct {
	f font.Face
}

func (m fixedFaceMeasurer) MeasureLine(line string, size int) (LineMetrics, error) {
	met := m.f.Metrics()
	lm := LineMetrics{
		Height: (met.Ascent + met.Descent).Ceil(),
		Ascent: met.Ascent.Ceil(),
	}
	if line == "" {
		return lm, nil
	}
	bounds, _ := font.BoundString(m.f, line)
	lm.Width = (bounds.Max.X - bounds.Min.X).Ceil()
	lm.LeftBearing = bounds.Min.X.Floor()
	return lm, nil
}

// inkExtent returns the leftmost and rightmost column containing ink,
// or (-1, -1) for a blank image. Anti-aliased edge pixels count as ink.
func inkExtent(img image.Image) (int, int) {
	min, max := -1, -1
	b := img.Bounds()
	for x := b.Min.X; x < b.Max.X; x++ {
		for y := b.Min.Y; y < b.Max.Y; y++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			if r < 0xc000 && g < 0xc000 && bl < 0xc000 {
				if min == -1 {
					min = x
				}
				max = x
				break
			}
		}
	}
	return min, max
}

// countInkRow counts ink pixels in one row.
func countInkRow(img image.Image, y int) int {
	n := 0
	b := img.Bounds()
	for x := b.Min.X; x < b.Max.X; x++ {
		r, g, bl, _ := img.At(x, y).RGBA()
		if r < 0xc000 && g < 0xc000 && bl < 0xc000 {
			n++
		}
	}
	return n
}

func TestAlignOffset(t *testing.T) {
	tests := []struct {
		name        string
		align       Alignment
		canvasWidth int
		lineWidth   int
		want        int
	}{
		{"left", AlignLeft, 100, 40, 0},
		{"center", AlignCenter, 100, 40, 30},
		{"center odd remainder", AlignCenter, 101, 40, 30},
		{"right", AlignRight, 100, 40, 60},
		{"full width", AlignCenter, 100, 100, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := alignOffset(tt.align, tt.canvasWidth, tt.lineWidth); got != tt.want {
				t.Errorf("alignOffset(%v, %d, %d) = %d, want %d",
					tt.align, tt.canvasWidth, tt.lineWidth, got, tt.want)
			}
		})
	}
}

func TestComposeCanvasDimensions(t *testing.T) {
	m := fixedFaceMeasurer{f: basicfont.Face7x13}
	st := StyledText{Lines: []string{"Hi", "Bye"}, Align: AlignLeft}

	bm, err := measureBlock(m, st.Lines, 10)
	if err != nil {
		t.Fatalf("measureBlock: %v", err)
	}

	const size, target = 10, 384
	img := compose(m.f, bm, st, size, target)

	// Narrow text on a wide target: canvas width is the target width.
	if got := img.Bounds().Dx(); got != target {
		t.Errorf("canvas width = %d, want %d", got, target)
	}
	wantHeight := bm.TotalHeight + 2*(size/5)
	if got := img.Bounds().Dy(); got != wantHeight {
		t.Errorf("canvas height = %d, want %d", got, wantHeight)
	}
}

func TestComposeCanvasWiderThanTarget(t *testing.T) {
	m := fixedFaceMeasurer{f: basicfont.Face7x13}
	st := StyledText{Lines: []string{"wwwwwwwwwwwwwwwwwwww"}, Align: AlignLeft}

	bm, err := measureBlock(m, st.Lines, 10)
	if err != nil {
		t.Fatalf("measureBlock: %v", err)
	}
	target := bm.MaxWidth / 2

	img := compose(m.f, bm, st, 10, target)
	if got := img.Bounds().Dx(); got != bm.MaxWidth {
		t.Errorf("canvas width = %d, want max line width %d", got, bm.MaxWidth)
	}
}

func TestComposeAlignmentShiftsInk(t *testing.T) {
	m := fixedFaceMeasurer{f: basicfont.Face7x13}
	lines := []string{"HH"}

	bm, err := measureBlock(m, lines, 10)
	if err != nil {
		t.Fatalf("measureBlock: %v", err)
	}

	const target = 200
	extents := map[Alignment][2]int{}
	for _, align := range []Alignment{AlignLeft, AlignCenter, AlignRight} {
		st := StyledText{Lines: lines, Align: align}
		min, max := inkExtent(compose(m.f, bm, st, 10, target))
		if min == -1 {
			t.Fatalf("%s: no ink drawn", align)
		}
		extents[align] = [2]int{min, max}
	}

	if !(extents[AlignLeft][0] < extents[AlignCenter][0]) {
		t.Errorf("center ink (%d) should start right of left-aligned ink (%d)",
			extents[AlignCenter][0], extents[AlignLeft][0])
	}
	if !(extents[AlignCenter][0] < extents[AlignRight][0]) {
		t.Errorf("right ink (%d) should start right of centered ink (%d)",
			extents[AlignRight][0], extents[AlignCenter][0])
	}

	// Center: ink midpoint within one pixel of the canvas midpoint.
	mid := (extents[AlignCenter][0] + extents[AlignCenter][1]) / 2
	if diff := mid - target/2; diff < -2 || diff > 2 {
		t.Errorf("centered ink midpoint = %d, want ~%d", mid, target/2)
	}
}

func TestComposeStrikethrough(t *testing.T) {
	m := fixedFaceMeasurer{f: basicfont.Face7x13}
	lines := []string{"HH"}

	bm, err := measureBlock(m, lines, 10)
	if err != nil {
		t.Fatalf("measureBlock: %v", err)
	}

	const size, target = 10, 100
	plain := compose(m.f, bm, StyledText{Lines: lines, Align: AlignLeft}, size, target)
	struck := compose(m.f, bm, StyledText{Lines: lines, Align: AlignLeft, Style: Style{Strikethrough: true}}, size, target)

	// The rule crosses the vertical midpoint of the line box.
	padding := size / 5
	mid := padding + bm.Lines[0].Height/2

	found := false
	for _, y := range []int{mid - 1, mid, mid + 1} {
		if countInkRow(struck, y) > countInkRow(plain, y) {
			found = true
			break
		}
	}
	if !found {
		t.Error("strikethrough added no ink around the line midpoint")
	}
}

func TestComposeEmpty(t *testing.T) {
	img := composeEmpty(10, 384)

	if got := img.Bounds().Dx(); got != 384 {
		t.Errorf("width = %d, want 384", got)
	}
	// padding = 10/5 = 2, height = 2*padding.
	if got := img.Bounds().Dy(); got != 4 {
		t.Errorf("height = %d, want 4", got)
	}
	if min, _ := inkExtent(img); min != -1 {
		t.Error("empty canvas should contain no ink")
	}
}

func TestComposeEmptyMinimumHeight(t *testing.T) {
	// Size 4 gives zero padding; the canvas still needs at least one row.
	img := composeEmpty(4, 100)
	if got := img.Bounds().Dy(); got != 1 {
		t.Errorf("height = %d, want 1", got)
	}
}
