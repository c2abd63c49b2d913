package layout

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/flopp/go-findfont"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"

	cperrors "github.com/meowble/catprint/pkg/errors"
)

// Variant identifies a typeface style variant within a font family.
type Variant int

// Typeface variants.
const (
	VariantRegular Variant = iota
	VariantBold
	VariantItalic
	VariantBoldItalic
)

// String returns the conventional file name suffix for the variant.
func (v Variant) String() string {
	switch v {
	case VariantBold:
		return "Bold"
	case VariantItalic:
		return "Italic"
	case VariantBoldItalic:
		return "BoldItalic"
	default:
		return "Regular"
	}
}

// VariantResolver maps a base font and a variant to a concrete font file.
//
// The resolver only derives candidate paths; whether a variant exists is
// decided by the loader when it opens the file. Alternate strategies
// (embedded font sets, system font lookup) can be substituted for the
// default suffix convention.
type VariantResolver interface {
	Resolve(base string, v Variant) (string, error)
}

// SuffixResolver derives variant files from the base path by file name
// suffix convention: "DejaVuSans-Regular.ttf" becomes
// "DejaVuSans-Bold.ttf"; a base without a "-Regular" suffix gets the
// variant suffix appended before the extension ("Arial.ttf" ->
// "Arial-Bold.ttf"). This is the contract the caller's font installation
// must satisfy.
type SuffixResolver struct{}

// Resolve derives the variant path for base.
func (SuffixResolver) Resolve(base string, v Variant) (string, error) {
	if v == VariantRegular {
		return base, nil
	}
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if cut, ok := strings.CutSuffix(stem, "-Regular"); ok {
		stem = cut
	}
	return stem + "-" + v.String() + ext, nil
}

// FindFontResolver resolves bare family names ("DejaVuSans") against the
// system font directories. Paths containing a separator or extension are
// delegated to SuffixResolver unchanged.
type FindFontResolver struct{}

// Resolve locates the variant in the system font directories.
func (FindFontResolver) Resolve(base string, v Variant) (string, error) {
	if strings.ContainsRune(base, os.PathSeparator) || filepath.Ext(base) != "" {
		return SuffixResolver{}.Resolve(base, v)
	}
	name := base
	if v != VariantRegular {
		name += "-" + v.String()
	}
	return findfont.Find(name + ".ttf")
}

// defaultFontCandidates are tried in order when no font is configured.
var defaultFontCandidates = []string{
	"DejaVuSans.ttf",
	"LiberationSans-Regular.ttf",
	"Arial.ttf",
	"Helvetica.ttf",
}

// DefaultFont locates a usable regular typeface in the system font
// directories. It is used by the CLI when neither flag nor config names a
// font.
func DefaultFont() (string, error) {
	for _, name := range defaultFontCandidates {
		if path, err := findfont.Find(name); err == nil {
			return path, nil
		}
	}
	return "", cperrors.New(cperrors.ErrCodeFontLoad, "no usable system font found (tried %s)", strings.Join(defaultFontCandidates, ", "))
}

// loadFont parses the TrueType file at path, memoizing per path. The memo
// lives on the renderer, so unrelated renderers never share font state.
func (r *Renderer) loadFont(path string) (*truetype.Font, error) {
	if f, ok := r.fonts[path]; ok {
		return f, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, err
	}
	r.fonts[path] = f
	return f, nil
}

// loadVariant resolves and loads one variant of the base font.
func (r *Renderer) loadVariant(base string, v Variant) (*truetype.Font, error) {
	path, err := r.resolver.Resolve(base, v)
	if err != nil {
		return nil, err
	}
	return r.loadFont(path)
}

// requireVariant is loadVariant with the failure surfaced as a font load
// error naming the path and variant attempted.
func (r *Renderer) requireVariant(base string, v Variant) (*truetype.Font, error) {
	f, err := r.loadVariant(base, v)
	if err != nil {
		return nil, cperrors.Wrap(cperrors.ErrCodeFontLoad, err, "load font %s (%s)", base, v)
	}
	return f, nil
}

// fontFor selects the typeface for the style flags.
//
// Bold requires a distinct bold variant and fails hard when it is absent.
// Italic is best effort: a missing italic variant falls back to upright
// text without error. The asymmetry is deliberate and matches the
// documented contract.
func (r *Renderer) fontFor(base string, s Style) (*truetype.Font, error) {
	switch {
	case s.Bold && s.Italic:
		if f, err := r.loadVariant(base, VariantBoldItalic); err == nil {
			return f, nil
		}
		return r.requireVariant(base, VariantBold)
	case s.Bold:
		return r.requireVariant(base, VariantBold)
	case s.Italic:
		if f, err := r.loadVariant(base, VariantItalic); err == nil {
			return f, nil
		}
		return r.requireVariant(base, VariantRegular)
	default:
		return r.requireVariant(base, VariantRegular)
	}
}

// faceMeasurer measures lines through TrueType faces derived from one
// parsed font. Faces are cached per size for the duration of one render,
// since the shrink search reopens the same font at many sizes.
type faceMeasurer struct {
	font  *truetype.Font
	faces map[int]font.Face
}

func newFaceMeasurer(f *truetype.Font) *faceMeasurer {
	return &faceMeasurer{font: f, faces: make(map[int]font.Face)}
}

// face returns the font face for size, creating it on first use.
// Hinting is disabled so measurements scale monotonically with size.
func (m *faceMeasurer) face(size int) font.Face {
	if f, ok := m.faces[size]; ok {
		return f
	}
	f := truetype.NewFace(m.font, &truetype.Options{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingNone,
	})
	m.faces[size] = f
	return f
}

// MeasureLine returns the tight bounding box of line at size.
// An empty line has zero width but still occupies the face height, so
// blank lines keep their vertical space.
func (m *faceMeasurer) MeasureLine(line string, size int) (LineMetrics, error) {
	f := m.face(size)
	met := f.Metrics()
	lm := LineMetrics{
		Height: (met.Ascent + met.Descent).Ceil(),
		Ascent: met.Ascent.Ceil(),
	}
	if line == "" {
		return lm, nil
	}
	bounds, _ := font.BoundString(f, line)
	lm.Width = (bounds.Max.X - bounds.Min.X).Ceil()
	lm.LeftBearing = bounds.Min.X.Floor()
	return lm, nil
}

var _ Measurer = (*faceMeasurer)(nil)
