package layout

import (
	"image"

	"github.com/golang/freetype/truetype"

	cperrors "github.com/meowble/catprint/pkg/errors"
)

// Renderer renders StyledText into rasters of a fixed target width.
//
// A Renderer memoizes parsed fonts across renders, which pays off during
// the shrink search (the same font is opened at many sizes) and across
// repeated prints. The memo is keyed by file path and scoped to the
// Renderer, so renderers for unrelated jobs never share state. A Renderer
// is not safe for concurrent use; the print pipeline runs one render at a
// time.
type Renderer struct {
	targetWidth int
	resolver    VariantResolver
	fonts       map[string]*truetype.Font
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithVariantResolver replaces the default suffix-convention resolver.
func WithVariantResolver(res VariantResolver) Option {
	return func(r *Renderer) { r.resolver = res }
}

// NewRenderer creates a renderer for the given printer width in pixels.
func NewRenderer(targetWidth int, opts ...Option) *Renderer {
	r := &Renderer{
		targetWidth: targetWidth,
		resolver:    FindFontResolver{},
		fonts:       make(map[string]*truetype.Font),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Result is the outcome of one render.
type Result struct {
	// Image is the output raster, exactly the target width wide.
	Image image.Image

	// FontSize is the size chosen by the shrink search.
	FontSize int
}

// Render lays out st and returns the final raster.
//
// On an overconstrained layout (text wider than the target width even at
// MinFontSize) Render returns the best-effort smallest-size raster
// together with an error for which IsOverconstrained reports true; the
// result is still usable. Empty input produces a minimal blank raster and
// no error. All other errors mean no raster was produced.
func (r *Renderer) Render(st StyledText) (*Result, error) {
	if r.targetWidth <= 0 {
		return nil, cperrors.New(cperrors.ErrCodeInvalidInput, "target width must be positive, got %d", r.targetWidth)
	}
	if st.FontSize <= 0 {
		return nil, cperrors.New(cperrors.ErrCodeInvalidInput, "font size must be positive, got %d", st.FontSize)
	}

	if st.empty() {
		return &Result{
			Image:    composeEmpty(st.FontSize, r.targetWidth),
			FontSize: st.FontSize,
		}, nil
	}

	fnt, err := r.fontFor(st.FontPath, st.Style)
	if err != nil {
		return nil, err
	}
	m := newFaceMeasurer(fnt)

	bm, size, layoutErr := shrinkToFit(m, st.Lines, st.FontSize, r.targetWidth)
	if layoutErr != nil && !IsOverconstrained(layoutErr) {
		return nil, layoutErr
	}

	img := compose(m.face(size), bm, st, size, r.targetWidth)
	return &Result{
		Image:    normalizeWidth(img, r.targetWidth),
		FontSize: size,
	}, layoutErr
}
