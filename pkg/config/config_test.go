package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	// Point the user config dir at an empty directory.
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Printer.Width != Default().Printer.Width {
		t.Errorf("Width = %d, want default %d", cfg.Printer.Width, Default().Printer.Width)
	}
	if cfg.Cache.Backend != CacheBackendFile {
		t.Errorf("Backend = %q, want %q", cfg.Cache.Backend, CacheBackendFile)
	}
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("explicitly named missing file must error")
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[printer]
device = "GB02"
energy = 20000

[text]
align = "center"
dither = "atkinson"

[cache]
backend = "redis"
redis_addr = "localhost:6379"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Printer.Device != "GB02" {
		t.Errorf("Device = %q, want GB02", cfg.Printer.Device)
	}
	if cfg.Printer.Energy != 20000 {
		t.Errorf("Energy = %d, want 20000", cfg.Printer.Energy)
	}
	if cfg.Text.Align != "center" {
		t.Errorf("Align = %q, want center", cfg.Text.Align)
	}
	if cfg.Cache.Backend != CacheBackendRedis {
		t.Errorf("Backend = %q, want redis", cfg.Cache.Backend)
	}
	// Untouched sections keep their defaults.
	if cfg.Printer.Width != Default().Printer.Width {
		t.Errorf("Width = %d, want default", cfg.Printer.Width)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"backend none", func(c *Config) { c.Cache.Backend = CacheBackendNone }, false},
		{"unknown backend", func(c *Config) { c.Cache.Backend = "memcached" }, true},
		{"redis without addr", func(c *Config) { c.Cache.Backend = CacheBackendRedis }, true},
		{"negative width", func(c *Config) { c.Printer.Width = -1 }, true},
		{"energy too high", func(c *Config) { c.Printer.Energy = 0x10000 }, true},
		{"bad dither", func(c *Config) { c.Text.Dither = "bayer" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestExampleIsValidTOML(t *testing.T) {
	cfg := Default()
	if err := toml.Unmarshal([]byte(Example()), &cfg); err != nil {
		t.Fatalf("example config does not parse: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("example config does not validate: %v", err)
	}
}
