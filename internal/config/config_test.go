package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"go.uber.org/multierr"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Test grid defaults
	if cfg.Grid.Width != 512 {
		t.Errorf("expected width 512, got %d", cfg.Grid.Width)
	}
	if cfg.Grid.Height != 512 {
		t.Errorf("expected height 512, got %d", cfg.Grid.Height)
	}

	// Test terrace defaults
	if cfg.Terrace.Count != 10 {
		t.Errorf("expected 10 terraces, got %d", cfg.Terrace.Count)
	}
	if cfg.Terrace.CloseWhenOver >= cfg.Terrace.IncWhenOver {
		t.Errorf("expected close threshold below inc threshold, got %v >= %v",
			cfg.Terrace.CloseWhenOver, cfg.Terrace.IncWhenOver)
	}
	if cfg.Terrace.Octaves.Scalar >= 0 {
		t.Error("expected the terrace pass to run with a negative scalar")
	}

	// Test noise defaults
	if cfg.Noise.Backend != "perlin" {
		t.Errorf("expected perlin backend, got %s", cfg.Noise.Backend)
	}
	if cfg.Ground.Blend.Enabled {
		t.Error("expected blend to be disabled in the classic profile")
	}

	// Test logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestProfiles(t *testing.T) {
	for _, name := range ProfileNames() {
		cfg, err := Profile(name)
		if err != nil {
			t.Fatalf("Profile(%q): %v", name, err)
		}
		if cfg.Profile != name {
			t.Errorf("Profile(%q) reports name %q", name, cfg.Profile)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("profile %q should validate, got %v", name, err)
		}
	}

	cfg, err := Profile(ProfileBlended)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Ground.Blend.Enabled {
		t.Error("expected blend enabled in blended profile")
	}
	if cfg.Terrace.Octaves.Gain != 1.9 {
		t.Errorf("expected terrace gain 1.9, got %v", cfg.Terrace.Octaves.Gain)
	}

	if _, err := Profile("mystery"); err == nil {
		t.Error("expected error for unknown profile")
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"zero terraces", func(c *Config) { c.Terrace.Count = 0 }, "terrace.count"},
		{"empty ground octaves", func(c *Config) { c.Ground.Octaves.Count = 0 }, "ground.octaves: empty octave range"},
		{"empty water octaves", func(c *Config) { c.Water.Octaves.Count = -1 }, "water.octaves: empty octave range"},
		{"zero scalar", func(c *Config) { c.Terrace.Octaves.Scalar = 0 }, "terrace.octaves: scalar"},
		{"threshold order", func(c *Config) { c.Terrace.CloseWhenOver = 0.5 }, "close_when_over"},
		{"zero grid", func(c *Config) { c.Grid.Width = 0 }, "grid must be positive"},
		{"no variants", func(c *Config) { c.Variants.Count = 0 }, "variants.count"},
		{"few sites", func(c *Config) { c.Rivers.Sites = 2 }, "rivers.sites"},
		{"format", func(c *Config) { c.Output.Format = "gif" }, "output format"},
		{"backend", func(c *Config) { c.Noise.Backend = "worley" }, "noise backend"},
		{"multi octaves", func(c *Config) { c.Multi.Octaves = 0 }, "multi:"},
		{"multi lacunarity", func(c *Config) { c.Multi.Lacunarity = 0 }, "multi:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestValidateReportsAll(t *testing.T) {
	cfg := Default()
	cfg.Terrace.Count = 0
	cfg.Grid.Height = -1
	cfg.Variants.Count = 0

	errs := multierr.Errors(cfg.Validate())
	if len(errs) != 3 {
		t.Errorf("expected 3 errors, got %d: %v", len(errs), errs)
	}
}

func TestLoadFromFile(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "terragen.yaml")

	yamlContent := `
output:
  dir: "out"
  format: "tiff"

grid:
  width: 256
  height: 128

noise:
  backend: "simplex"
  seed: 9
  fields: 20

terrace:
  count: 6
  ramp_proportion: 0.3

logging:
  level: "debug"
  log_file: "terragen.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Load config
	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Verify values were loaded
	if cfg.Output.Format != "tiff" {
		t.Errorf("expected format tiff, got %s", cfg.Output.Format)
	}
	if cfg.Grid.Width != 256 || cfg.Grid.Height != 128 {
		t.Errorf("expected grid 256x128, got %dx%d", cfg.Grid.Width, cfg.Grid.Height)
	}
	if cfg.Noise.Backend != "simplex" || cfg.Noise.Seed != 9 || cfg.Noise.Fields != 20 {
		t.Errorf("unexpected noise config %+v", cfg.Noise)
	}
	if cfg.Terrace.Count != 6 {
		t.Errorf("expected 6 terraces, got %d", cfg.Terrace.Count)
	}
	if cfg.Terrace.RampProportion != 0.3 {
		t.Errorf("expected ramp proportion 0.3, got %v", cfg.Terrace.RampProportion)
	}

	// Untouched values keep their defaults
	if cfg.Terrace.IncWhenOver != 0.3 {
		t.Errorf("expected inc threshold default 0.3, got %v", cfg.Terrace.IncWhenOver)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "terragen.log" {
		t.Errorf("expected log file 'terragen.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	// Create temporary config file with invalid YAML
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
grid:
  width: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Try to load - should error
	cfg := Default()
	err := loadFromFile(cfg, configPath)
	if err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}

	// Verify path is absolute
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	// No config file exists - should return empty
	path := findConfigFile()
	if path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	// Create terragen.yaml in current directory
	if err := os.WriteFile("terragen.yaml", []byte("grid:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	// Should find it now
	path = findConfigFile()
	if path == "" {
		t.Error("expected to find terragen.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*Config)
		teardown func()
	}{
		{
			name: "debug flag",
			setup: func() {
				*flagDebug = true
			},
			verify: func(cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() {
				*flagDebug = false
			},
		},
		{
			name: "output flags",
			setup: func() {
				*flagOut = "/tmp/tiles"
				*flagFormat = "bmp"
			},
			verify: func(cfg *Config) {
				if cfg.Output.Dir != "/tmp/tiles" {
					t.Errorf("expected dir /tmp/tiles, got %s", cfg.Output.Dir)
				}
				if cfg.Output.Format != "bmp" {
					t.Errorf("expected format bmp, got %s", cfg.Output.Format)
				}
			},
			teardown: func() {
				*flagOut = ""
				*flagFormat = ""
			},
		},
		{
			name: "seed zero is an override",
			setup: func() {
				if err := flagSeed.Set("0"); err != nil {
					t.Fatal(err)
				}
			},
			verify: func(cfg *Config) {
				if cfg.Noise.Seed != 0 {
					t.Errorf("expected seed 0, got %d", cfg.Noise.Seed)
				}
			},
			teardown: func() {
				*flagSeed = int64Flag{}
			},
		},
		{
			name: "negative seed is an override",
			setup: func() {
				if err := flagSeed.Set("-5"); err != nil {
					t.Fatal(err)
				}
			},
			verify: func(cfg *Config) {
				if cfg.Noise.Seed != -5 {
					t.Errorf("expected seed -5, got %d", cfg.Noise.Seed)
				}
			},
			teardown: func() {
				*flagSeed = int64Flag{}
			},
		},
		{
			name:  "unset seed keeps config",
			setup: func() {},
			verify: func(cfg *Config) {
				if cfg.Noise.Seed != 77 {
					t.Errorf("expected seed 77 from config, got %d", cfg.Noise.Seed)
				}
			},
			teardown: func() {},
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 64
				*flagHeight = 32
			},
			verify: func(cfg *Config) {
				if cfg.Grid.Width != 64 || cfg.Rivers.Width != 64 {
					t.Errorf("expected width 64, got %d/%d", cfg.Grid.Width, cfg.Rivers.Width)
				}
				if cfg.Grid.Height != 32 || cfg.Rivers.Height != 32 {
					t.Errorf("expected height 32, got %d/%d", cfg.Grid.Height, cfg.Rivers.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
		{
			name: "variant flags",
			setup: func() {
				*flagVariants = 9
				*flagWorkers = 0
			},
			verify: func(cfg *Config) {
				if cfg.Variants.Count != 9 {
					t.Errorf("expected 9 variants, got %d", cfg.Variants.Count)
				}
				if cfg.Variants.Workers != 0 {
					t.Errorf("expected 0 workers, got %d", cfg.Variants.Workers)
				}
			},
			teardown: func() {
				*flagVariants = 0
				*flagWorkers = -1
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			cfg.Noise.Seed = 77
			cfg.Variants.Workers = 3
			applyFlags(cfg)

			tt.verify(cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "terragen.yaml")

	yamlContent := `
profile: blended
grid:
  width: 300
  height: 200
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Set flag to override config file
	*flagConfig = configPath
	*flagWidth = 640
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Width should be from flag, not file
	if cfg.Grid.Width != 640 {
		t.Errorf("expected width 640 from flag, got %d", cfg.Grid.Width)
	}

	// Height should be from file since no flag override
	if cfg.Grid.Height != 200 {
		t.Errorf("expected height 200 from file, got %d", cfg.Grid.Height)
	}

	// Profile named in the file selects its defaults
	if !cfg.Ground.Blend.Enabled {
		t.Error("expected blended profile defaults from file profile")
	}
}

func TestLoadFlagProfileWinsOverFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "terragen.yaml")
	if err := os.WriteFile(configPath, []byte("profile: classic\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagProfile = ProfileBlended
	defer func() {
		*flagConfig = ""
		*flagProfile = ""
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if !cfg.Ground.Blend.Enabled {
		t.Error("expected blended defaults from the -profile flag")
	}
	if cfg.Profile != ProfileBlended {
		t.Errorf("expected profile %q, got %q", ProfileBlended, cfg.Profile)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "terragen.yaml")
	if err := os.WriteFile(configPath, []byte("terrace:\n  count: 0\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	if _, err := Load(); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Variants.Count = 12
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded := &Config{}
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("loadFromFile: %v", err)
	}
	if loaded.Variants.Count != 12 {
		t.Errorf("expected 12 variants after round trip, got %d", loaded.Variants.Count)
	}
}

func TestSaveWritesConfigDir(t *testing.T) {
	if runtime.GOOS == "darwin" || runtime.GOOS == "windows" {
		t.Skip("config dir is only redirectable through XDG_CONFIG_HOME")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())

	cfg, err := Profile(ProfileBlended)
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	path := filepath.Join(ConfigDir(), "config.yaml")
	if got := findConfigFile(); got != path {
		t.Errorf("findConfigFile() = %q, want saved %q", got, path)
	}
	name, err := peekProfile(path)
	if err != nil {
		t.Fatalf("peekProfile: %v", err)
	}
	if name != ProfileBlended {
		t.Errorf("saved profile %q, want %q", name, ProfileBlended)
	}
}
