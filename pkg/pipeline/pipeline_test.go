package pipeline

import (
	"context"
	"testing"

	"github.com/meowble/catprint/pkg/cache"
	"github.com/meowble/catprint/pkg/dither"
	"github.com/meowble/catprint/pkg/layout"
)

func TestOptionsValidateAndSetDefaults(t *testing.T) {
	opts := Options{Text: "hello", FontPath: "font.ttf"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}

	if opts.Width != DefaultWidth {
		t.Errorf("Width = %d, want %d", opts.Width, DefaultWidth)
	}
	if opts.FontSize != DefaultFontSize {
		t.Errorf("FontSize = %d, want %d", opts.FontSize, DefaultFontSize)
	}
	if opts.algo != dither.DefaultAlgorithm {
		t.Errorf("algo = %v, want %v", opts.algo, dither.DefaultAlgorithm)
	}
	if opts.align != layout.AlignLeft {
		t.Errorf("align = %v, want left", opts.align)
	}
	if opts.Logger == nil {
		t.Error("Logger default not applied")
	}
}

func TestOptionsValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"negative width", Options{FontPath: "f.ttf", Width: -1}},
		{"negative font size", Options{FontPath: "f.ttf", FontSize: -5}},
		{"energy out of range", Options{FontPath: "f.ttf", Energy: 0x10000}},
		{"negative feed steps", Options{FontPath: "f.ttf", FeedSteps: -1}},
		{"feed steps out of range", Options{FontPath: "f.ttf", FeedSteps: 0x10000}},
		{"bad align", Options{FontPath: "f.ttf", Align: "justify"}},
		{"bad dither", Options{FontPath: "f.ttf", Dither: "bayer"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.opts.ValidateAndSetDefaults(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestRasterRoundTrip(t *testing.T) {
	in := &Raster{
		Bitmap: &dither.Bitmap{
			Width:  10,
			Height: 2,
			Rows:   [][]byte{{0x01, 0x02}, {0x00, 0x03}},
		},
		FontSize:        7,
		Overconstrained: true,
	}

	data, err := marshalRaster(in)
	if err != nil {
		t.Fatalf("marshalRaster: %v", err)
	}
	out, err := unmarshalRaster(data)
	if err != nil {
		t.Fatalf("unmarshalRaster: %v", err)
	}

	if out.FontSize != 7 || !out.Overconstrained {
		t.Errorf("metadata lost: %+v", out)
	}
	if out.Bitmap.Width != 10 || out.Bitmap.Height != 2 {
		t.Errorf("dimensions = %dx%d, want 10x2", out.Bitmap.Width, out.Bitmap.Height)
	}
	if out.Bitmap.Rows[1][1] != 0x03 {
		t.Error("row bytes lost")
	}
}

func TestUnmarshalRasterRejectsCorrupt(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", "garbage"},
		{"zero size", `{"width":0,"height":0,"rows":[]}`},
		{"row count mismatch", `{"width":8,"height":2,"rows":["AA=="]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := unmarshalRaster([]byte(tt.data)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

// testFont returns an installed font path or skips.
func testFont(t *testing.T) string {
	t.Helper()
	path, err := layout.DefaultFont()
	if err != nil {
		t.Skipf("no system font available: %v", err)
	}
	return path
}

func TestExecuteProducesCommands(t *testing.T) {
	font := testFont(t)

	runner := NewRunner(nil, nil, nil)
	defer runner.Close()

	result, err := runner.Execute(context.Background(), Options{
		Text:     "Hi\nBye",
		FontPath: font,
		FontSize: 20,
		Align:    "center",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if result.Bitmap.Width != DefaultWidth {
		t.Errorf("bitmap width = %d, want %d", result.Bitmap.Width, DefaultWidth)
	}
	if len(result.Commands) == 0 {
		t.Error("no commands produced")
	}
	if result.FontSize != 20 {
		t.Errorf("FontSize = %d, want 20", result.FontSize)
	}
	if result.Overconstrained {
		t.Error("short text reported overconstrained")
	}
	if result.Stats.Lines != 2 {
		t.Errorf("Stats.Lines = %d, want 2", result.Stats.Lines)
	}
}

func TestExecuteCachesStages(t *testing.T) {
	font := testFont(t)

	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	runner := NewRunner(fc, nil, nil)
	defer runner.Close()

	opts := Options{Text: "cached", FontPath: font, FontSize: 16}

	first, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	if first.CacheInfo.RasterHit || first.CacheInfo.CommandHit {
		t.Error("first run should miss the cache")
	}

	second, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if !second.CacheInfo.RasterHit || !second.CacheInfo.CommandHit {
		t.Errorf("second run should hit both caches: %+v", second.CacheInfo)
	}
	if second.FontSize != first.FontSize {
		t.Errorf("cached FontSize = %d, want %d", second.FontSize, first.FontSize)
	}

	// Refresh bypasses the cache.
	opts.Refresh = true
	third, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("third Execute: %v", err)
	}
	if third.CacheInfo.RasterHit || third.CacheInfo.CommandHit {
		t.Error("refresh must bypass the cache")
	}
}

func TestExecuteOverconstrained(t *testing.T) {
	font := testFont(t)

	runner := NewRunner(nil, nil, nil)
	defer runner.Close()

	result, err := runner.Execute(context.Background(), Options{
		Text:     longLine(2000),
		FontPath: font,
		FontSize: 20,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !result.Overconstrained {
		t.Error("expected overconstrained result")
	}
	if len(result.Commands) == 0 {
		t.Error("overconstrained run must still produce commands")
	}
}

func longLine(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = 'w'
	}
	return string(b)
}
