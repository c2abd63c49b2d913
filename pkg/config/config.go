// Package config loads catprint configuration from a TOML file.
//
// The file lives at ~/.config/catprint/config.toml by default and every
// field can be overridden by CLI flags. A missing file is not an error;
// all values have usable defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/meowble/catprint/pkg/ble"
	"github.com/meowble/catprint/pkg/dither"
	cperrors "github.com/meowble/catprint/pkg/errors"
	"github.com/meowble/catprint/pkg/pipeline"
	"github.com/meowble/catprint/pkg/printer"
)

// Cache backend names accepted in the cache section.
const (
	CacheBackendFile  = "file"
	CacheBackendRedis = "redis"
	CacheBackendNone  = "none"
)

// Config is the full application configuration.
type Config struct {
	Printer PrinterConfig `toml:"printer"`
	Text    TextConfig    `toml:"text"`
	Cache   CacheConfig   `toml:"cache"`
	Server  ServerConfig  `toml:"server"`
}

// PrinterConfig configures the device and transport.
type PrinterConfig struct {
	// Device is the default printer identifier: advertisement name or
	// address. Empty means autodiscover.
	Device string `toml:"device"`

	// Width is the head width in pixels.
	Width int `toml:"width"`

	// Energy is the burn intensity, 0 meaning the device default.
	Energy int `toml:"energy"`

	// FeedSteps advances the paper after each print.
	FeedSteps int `toml:"feed_steps"`

	// ChunkSize is the BLE write chunk size.
	ChunkSize int `toml:"chunk_size"`

	// ThrottleMS is the delay between BLE writes in milliseconds.
	ThrottleMS int `toml:"throttle_ms"`
}

// TextConfig configures the default text rendering.
type TextConfig struct {
	// Font is a font file path or a bare family name resolved against
	// the system font directories.
	Font string `toml:"font"`

	// FontSize is the requested size before shrink-to-fit.
	FontSize int `toml:"font_size"`

	// Align is the default alignment: left, center, or right.
	Align string `toml:"align"`

	// Dither is the default binarization algorithm.
	Dither string `toml:"dither"`
}

// CacheConfig configures artifact caching.
type CacheConfig struct {
	// Backend selects file, redis, or none.
	Backend string `toml:"backend"`

	// Dir is the file cache directory. Empty selects the platform
	// default cache directory.
	Dir string `toml:"dir"`

	// RedisAddr is the host:port of the Redis backend.
	RedisAddr string `toml:"redis_addr"`
}

// ServerConfig configures the print server.
type ServerConfig struct {
	// Addr is the listen address.
	Addr string `toml:"addr"`

	// MongoURI enables the job archive when set.
	MongoURI string `toml:"mongo_uri"`

	// MongoDatabase is the archive database name.
	MongoDatabase string `toml:"mongo_database"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Printer: PrinterConfig{
			Width:      pipeline.DefaultWidth,
			Energy:     printer.DefaultEnergy,
			FeedSteps:  printer.DefaultFeedSteps,
			ChunkSize:  ble.DefaultChunkSize,
			ThrottleMS: int(ble.DefaultThrottle.Milliseconds()),
		},
		Text: TextConfig{
			FontSize: pipeline.DefaultFontSize,
			Align:    pipeline.DefaultAlign,
			Dither:   string(dither.DefaultAlgorithm),
		},
		Cache: CacheConfig{
			Backend: CacheBackendFile,
		},
		Server: ServerConfig{
			Addr:          ":8333",
			MongoDatabase: "catprint",
		},
	}
}

// DefaultPath returns the standard config file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "catprint", "config.toml"), nil
}

// DefaultCacheDir returns the standard file cache location.
func DefaultCacheDir() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "catprint"), nil
}

// Load reads the config at path, or the default location when path is
// empty. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		var err error
		if path, err = DefaultPath(); err != nil {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, cperrors.Wrap(cperrors.ErrCodeInvalidInput, err, "read config %s", path)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, cperrors.Wrap(cperrors.ErrCodeInvalidInput, err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks values a typo would most plausibly break.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case CacheBackendFile, CacheBackendRedis, CacheBackendNone, "":
	default:
		return cperrors.New(cperrors.ErrCodeInvalidInput,
			"unknown cache backend %q (valid: %s, %s, %s)",
			c.Cache.Backend, CacheBackendFile, CacheBackendRedis, CacheBackendNone)
	}
	if c.Cache.Backend == CacheBackendRedis && c.Cache.RedisAddr == "" {
		return cperrors.New(cperrors.ErrCodeInvalidInput, "cache backend redis requires redis_addr")
	}
	if c.Printer.Width < 0 {
		return cperrors.New(cperrors.ErrCodeInvalidInput, "printer width must be positive")
	}
	if c.Printer.Energy < 0 || c.Printer.Energy > printer.MaxEnergy {
		return cperrors.New(cperrors.ErrCodeInvalidInput,
			"printer energy must be between 0 and %d", printer.MaxEnergy)
	}
	if _, err := dither.ParseAlgorithm(c.Text.Dither); err != nil {
		return err
	}
	return nil
}

// Example returns a commented sample config for `catprint config init`.
func Example() string {
	return fmt.Sprintf(`# catprint configuration

[printer]
# device = "GB02"        # advertisement name or address; empty = autodiscover
width = %d
energy = %d
feed_steps = %d

[text]
# font = "DejaVuSans"    # family name or path to a .ttf file
font_size = %d
align = %q
dither = %q

[cache]
backend = %q             # file, redis, or none
# redis_addr = "localhost:6379"

[server]
addr = ":8333"
# mongo_uri = "mongodb://localhost:27017"
`,
		pipeline.DefaultWidth, printer.DefaultEnergy, printer.DefaultFeedSteps,
		pipeline.DefaultFontSize, pipeline.DefaultAlign, string(dither.DefaultAlgorithm),
		CacheBackendFile)
}
