package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/meowble/catprint/pkg/ble"
	"github.com/meowble/catprint/pkg/cache"
	"github.com/meowble/catprint/pkg/config"
	cperrors "github.com/meowble/catprint/pkg/errors"
)

func TestReadTextFromFlag(t *testing.T) {
	got, err := readText(nil, "hello")
	if err != nil {
		t.Fatalf("readText: %v", err)
	}
	if got != "hello" {
		t.Errorf("readText = %q, want %q", got, "hello")
	}
}

func TestReadTextFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "note.txt")
	if err := os.WriteFile(path, []byte("line one\nline two"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := readText([]string{path}, "")
	if err != nil {
		t.Fatalf("readText: %v", err)
	}
	if got != "line one\nline two" {
		t.Errorf("readText = %q", got)
	}
}

func TestReadTextNoSource(t *testing.T) {
	_, err := readText(nil, "")
	if err == nil {
		t.Fatal("expected error with no text source")
	}
	if !cperrors.Is(err, cperrors.ErrCodeInvalidInput) {
		t.Errorf("error code = %v, want INVALID_INPUT", cperrors.GetCode(err))
	}
}

func TestDeviceIdentifier(t *testing.T) {
	named := ble.Device{Name: "GB02", Address: "AA:BB:CC:DD:EE:FF"}
	if got := deviceIdentifier(named); got != "GB02" {
		t.Errorf("deviceIdentifier = %q, want name", got)
	}

	unnamed := ble.Device{Address: "AA:BB:CC:DD:EE:FF"}
	if got := deviceIdentifier(unnamed); got != "AA:BB:CC:DD:EE:FF" {
		t.Errorf("deviceIdentifier = %q, want address", got)
	}
}

func TestTextOptionsFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Text.Font = "/tmp/Test.ttf"
	cfg.Text.Align = "center"
	cfg.Printer.Energy = 9000

	opts := textOptions(cfg)
	if opts.FontPath != "/tmp/Test.ttf" {
		t.Errorf("FontPath = %q", opts.FontPath)
	}
	if opts.Align != "center" {
		t.Errorf("Align = %q", opts.Align)
	}
	if opts.Energy != 9000 {
		t.Errorf("Energy = %d", opts.Energy)
	}
	if opts.Width != cfg.Printer.Width {
		t.Errorf("Width = %d, want %d", opts.Width, cfg.Printer.Width)
	}
}

func TestBuildCacheBackends(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()

	t.Run("no-cache flag forces null backend", func(t *testing.T) {
		c, err := buildCache(ctx, cfg, true)
		if err != nil {
			t.Fatalf("buildCache: %v", err)
		}
		if _, ok := c.(*cache.NullCache); !ok {
			t.Errorf("backend = %T, want *cache.NullCache", c)
		}
	})

	t.Run("none backend", func(t *testing.T) {
		cfg := cfg
		cfg.Cache.Backend = config.CacheBackendNone
		c, err := buildCache(ctx, cfg, false)
		if err != nil {
			t.Fatalf("buildCache: %v", err)
		}
		if _, ok := c.(*cache.NullCache); !ok {
			t.Errorf("backend = %T, want *cache.NullCache", c)
		}
	})

	t.Run("file backend uses configured dir", func(t *testing.T) {
		cfg := cfg
		cfg.Cache.Backend = config.CacheBackendFile
		cfg.Cache.Dir = t.TempDir()
		c, err := buildCache(ctx, cfg, false)
		if err != nil {
			t.Fatalf("buildCache: %v", err)
		}
		defer c.Close()
		if _, ok := c.(*cache.FileCache); !ok {
			t.Errorf("backend = %T, want *cache.FileCache", c)
		}
	})
}

func TestEncodeImageOptionsBounds(t *testing.T) {
	tests := []struct {
		name    string
		energy  int
		feed    int
		wantErr bool
	}{
		{"defaults", 0x3000, 112, false},
		{"zero values", 0, 0, false},
		{"max values", 0xFFFF, 0xFFFF, false},
		{"negative energy", -1, 0, true},
		{"energy overflow", 0x10000, 0, true},
		{"negative feed", 0, -1, true},
		{"feed overflow", 0, 0x10000, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := encodeImageOptions(tt.energy, tt.feed)
			if (err != nil) != tt.wantErr {
				t.Fatalf("encodeImageOptions(%d, %d) error = %v, wantErr %v",
					tt.energy, tt.feed, err, tt.wantErr)
			}
			if tt.wantErr {
				if !cperrors.Is(err, cperrors.ErrCodeInvalidInput) {
					t.Errorf("error code = %v, want INVALID_INPUT", cperrors.GetCode(err))
				}
				return
			}
			if int(opts.Energy) != tt.energy || int(opts.FeedSteps) != tt.feed {
				t.Errorf("options = %d/%d, want %d/%d",
					opts.Energy, opts.FeedSteps, tt.energy, tt.feed)
			}
		})
	}
}

func TestConfigFromContextDefault(t *testing.T) {
	cfg := configFromContext(context.Background())
	if cfg.Printer.Width != config.Default().Printer.Width {
		t.Error("configFromContext should fall back to defaults")
	}
}

func TestCacheDir(t *testing.T) {
	cfg := config.Default()
	cfg.Cache.Dir = "/var/cache/catprint"
	dir, err := cacheDir(cfg)
	if err != nil {
		t.Fatalf("cacheDir: %v", err)
	}
	if dir != "/var/cache/catprint" {
		t.Errorf("cacheDir = %q, want configured dir", dir)
	}
}
