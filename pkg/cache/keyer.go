package cache

// Keyer generates cache keys for the pipeline stages.
//
// Every option that changes the produced bytes must be part of the
// corresponding key options struct, otherwise stale artifacts would be
// served after an option change.
type Keyer interface {
	// RasterKey generates a key for a rendered raster.
	// textHash is the hash of the input text.
	RasterKey(textHash string, opts RasterKeyOpts) string

	// CommandKey generates a key for an encoded printer command stream.
	// rasterHash is the hash of the binarized raster bytes.
	CommandKey(rasterHash string, opts CommandKeyOpts) string
}

// RasterKeyOpts are the layout options that influence the rendered raster.
type RasterKeyOpts struct {
	FontPath      string `json:"font_path"`
	FontSize      int    `json:"font_size"`
	Bold          bool   `json:"bold"`
	Italic        bool   `json:"italic"`
	Strikethrough bool   `json:"strikethrough"`
	Align         string `json:"align"`
	Width         int    `json:"width"`
	Dither        string `json:"dither"`
}

// CommandKeyOpts are the encoding options that influence the command stream.
type CommandKeyOpts struct {
	Energy    int  `json:"energy"`
	FeedLines int  `json:"feed_lines"`
	TextMode  bool `json:"text_mode"`
}

// DefaultKeyer is the standard key generator.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard key generator.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// RasterKey generates a key for a rendered raster.
func (k *DefaultKeyer) RasterKey(textHash string, opts RasterKeyOpts) string {
	return hashKey("raster", textHash, opts)
}

// CommandKey generates a key for an encoded printer command stream.
func (k *DefaultKeyer) CommandKey(rasterHash string, opts CommandKeyOpts) string {
	return hashKey("cmds", rasterHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// The print server uses this to keep per-profile caches separate when
// several printer profiles share one Redis instance.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// RasterKey generates a prefixed key for a rendered raster.
func (k *ScopedKeyer) RasterKey(textHash string, opts RasterKeyOpts) string {
	return k.prefix + k.inner.RasterKey(textHash, opts)
}

// CommandKey generates a prefixed key for a printer command stream.
func (k *ScopedKeyer) CommandKey(rasterHash string, opts CommandKeyOpts) string {
	return k.prefix + k.inner.CommandKey(rasterHash, opts)
}
