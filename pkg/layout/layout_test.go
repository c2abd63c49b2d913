package layout

import (
	"reflect"
	"testing"
)

// ruleMeasurer is a deterministic measurer for search and accumulator
// tests: every rune is size pixels wide and lines are size+2 pixels tall.
type ruleMeasurer struct{}

func (ruleMeasurer) MeasureLine(line string, size int) (LineMetrics, error) {
	return LineMetrics{
		Width:  size * len([]rune(line)),
		Height: size + 2,
		Ascent: size,
	}, nil
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"single line", "hello", []string{"hello"}},
		{"two lines", "Hi\nBye", []string{"Hi", "Bye"}},
		{"windows endings", "Hi\r\nBye", []string{"Hi", "Bye"}},
		{"empty", "", []string{""}},
		{"trailing newline", "a\n", []string{"a", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SplitLines(tt.input); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitLines(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseAlignment(t *testing.T) {
	tests := []struct {
		input   string
		want    Alignment
		wantErr bool
	}{
		{"left", AlignLeft, false},
		{"center", AlignCenter, false},
		{"right", AlignRight, false},
		{"CENTER", AlignCenter, false},
		{"", AlignLeft, false},
		{"justify", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAlignment(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseAlignment(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseAlignment(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewStyledTextSplitsLines(t *testing.T) {
	st := NewStyledText("Hi\nBye", "font.ttf", 20, Style{Bold: true}, AlignCenter)
	if len(st.Lines) != 2 {
		t.Fatalf("Lines = %v, want 2 entries", st.Lines)
	}
	if !st.Style.Bold || st.Align != AlignCenter || st.FontSize != 20 {
		t.Errorf("attributes not carried: %+v", st)
	}
}

func TestMeasureBlock(t *testing.T) {
	bm, err := measureBlock(ruleMeasurer{}, []string{"Hi", "Bye"}, 10)
	if err != nil {
		t.Fatalf("measureBlock: %v", err)
	}

	// Max width comes from "Bye" (3 runes * 10), heights accumulate.
	if bm.MaxWidth != 30 {
		t.Errorf("MaxWidth = %d, want 30", bm.MaxWidth)
	}
	if bm.TotalHeight != 24 {
		t.Errorf("TotalHeight = %d, want 24", bm.TotalHeight)
	}
	if len(bm.Lines) != 2 {
		t.Fatalf("Lines = %d, want 2", len(bm.Lines))
	}
	if bm.Lines[0].Width != 20 || bm.Lines[1].Width != 30 {
		t.Errorf("per-line widths = %d, %d; want 20, 30", bm.Lines[0].Width, bm.Lines[1].Width)
	}
}

func TestMeasureBlockRecomputedPerSize(t *testing.T) {
	// Metrics must be a pure function of the current size: measuring at a
	// smaller size yields proportionally smaller metrics, independent of
	// any previous measurement.
	big, _ := measureBlock(ruleMeasurer{}, []string{"wide line"}, 20)
	small, _ := measureBlock(ruleMeasurer{}, []string{"wide line"}, 10)

	if small.MaxWidth >= big.MaxWidth {
		t.Errorf("MaxWidth at size 10 (%d) should be below size 20 (%d)", small.MaxWidth, big.MaxWidth)
	}
	if small.TotalHeight >= big.TotalHeight {
		t.Errorf("TotalHeight at size 10 (%d) should be below size 20 (%d)", small.TotalHeight, big.TotalHeight)
	}
}

func TestStyledTextEmpty(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  bool
	}{
		{"no lines", nil, true},
		{"single empty line", []string{""}, true},
		{"blank lines", []string{"", ""}, false},
		{"text", []string{"a"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := StyledText{Lines: tt.lines}
			if got := st.empty(); got != tt.want {
				t.Errorf("empty() = %v, want %v", got, tt.want)
			}
		})
	}
}
