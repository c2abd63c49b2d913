package layout

import (
	"testing"
)

func TestShrinkToFitKeepsRequestedSize(t *testing.T) {
	// "Hi" at size 10 is 20px wide; a 384px target needs no shrinking.
	bm, size, err := shrinkToFit(ruleMeasurer{}, []string{"Hi"}, 10, 384)
	if err != nil {
		t.Fatalf("shrinkToFit: %v", err)
	}
	if size != 10 {
		t.Errorf("size = %d, want 10 (no unnecessary shrinking)", size)
	}
	if bm.MaxWidth != 20 {
		t.Errorf("MaxWidth = %d, want 20", bm.MaxWidth)
	}
}

func TestShrinkToFitReducesUntilFit(t *testing.T) {
	// A 100-rune line is 100*size wide; with a 384px target the largest
	// fitting size is 3.
	line := make([]rune, 100)
	for i := range line {
		line[i] = 'x'
	}

	bm, size, err := shrinkToFit(ruleMeasurer{}, []string{string(line)}, 10, 384)
	if err != nil {
		t.Fatalf("shrinkToFit: %v", err)
	}
	if size != 3 {
		t.Errorf("size = %d, want 3", size)
	}
	if bm.MaxWidth > 384 {
		t.Errorf("MaxWidth = %d, want <= 384", bm.MaxWidth)
	}
}

func TestShrinkToFitNeverUpscales(t *testing.T) {
	_, size, err := shrinkToFit(ruleMeasurer{}, []string{"a"}, 4, 10000)
	if err != nil {
		t.Fatalf("shrinkToFit: %v", err)
	}
	if size != 4 {
		t.Errorf("size = %d, want the requested 4 even with room to spare", size)
	}
}

func TestShrinkToFitOverconstrained(t *testing.T) {
	// Ten runes never fit a 5px target: at the floor size 1 the line is
	// still 10px wide. The search must terminate with best-effort metrics.
	bm, size, err := shrinkToFit(ruleMeasurer{}, []string{"aaaaaaaaaa"}, 10, 5)
	if err == nil {
		t.Fatal("expected overconstrained error")
	}
	if !IsOverconstrained(err) {
		t.Fatalf("IsOverconstrained(%v) = false", err)
	}
	if size != MinFontSize {
		t.Errorf("size = %d, want floor %d", size, MinFontSize)
	}
	if bm.MaxWidth != 10 {
		t.Errorf("best-effort MaxWidth = %d, want 10", bm.MaxWidth)
	}
}

func TestShrinkToFitDeterministic(t *testing.T) {
	lines := []string{"determinism", "check"}

	_, size1, err1 := shrinkToFit(ruleMeasurer{}, lines, 40, 100)
	_, size2, err2 := shrinkToFit(ruleMeasurer{}, lines, 40, 100)

	if size1 != size2 {
		t.Errorf("sizes differ: %d vs %d", size1, size2)
	}
	if (err1 == nil) != (err2 == nil) {
		t.Errorf("errors differ: %v vs %v", err1, err2)
	}
}
