package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Shadow.Resolution != 2048 {
		t.Errorf("expected resolution 2048, got %d", cfg.Shadow.Resolution)
	}
	if cfg.Shadow.SampleCount != 16 {
		t.Errorf("expected sample count 16, got %d", cfg.Shadow.SampleCount)
	}
	if cfg.Shadow.RejectionLimit != 30 {
		t.Errorf("expected rejection limit 30, got %d", cfg.Shadow.RejectionLimit)
	}
	if cfg.Shadow.Seed != 0 {
		t.Errorf("expected clock seed by default, got %d", cfg.Shadow.Seed)
	}
	if !cfg.Window.Hidden {
		t.Error("expected hidden window by default")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	yamlContent := `
shadow:
  resolution: 512
  sample_count: 24
  sample_radius: 0.5
  rejection_limit: 12
  seed: 7

light:
  direction: [0, 0, -1]

window:
  width: 640
  height: 480
  hidden: false

output:
  dir: "bake"

logging:
  level: "debug"
  log_file: "umbra.log"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Shadow.Resolution != 512 {
		t.Errorf("expected resolution 512, got %d", cfg.Shadow.Resolution)
	}
	if cfg.Shadow.SampleCount != 24 {
		t.Errorf("expected sample count 24, got %d", cfg.Shadow.SampleCount)
	}
	if cfg.Shadow.SampleRadius != 0.5 {
		t.Errorf("expected sample radius 0.5, got %f", cfg.Shadow.SampleRadius)
	}
	if cfg.Shadow.Seed != 7 {
		t.Errorf("expected seed 7, got %d", cfg.Shadow.Seed)
	}
	if cfg.Light.Direction != [3]float32{0, 0, -1} {
		t.Errorf("expected direction (0, 0, -1), got %v", cfg.Light.Direction)
	}
	if cfg.Window.Hidden {
		t.Error("expected hidden to be false")
	}
	if cfg.Output.Dir != "bake" {
		t.Errorf("expected output dir bake, got %s", cfg.Output.Dir)
	}
	// Unset keys keep their defaults.
	if cfg.Output.DepthPNG != "shadow_depth.png" {
		t.Errorf("expected default depth png name, got %s", cfg.Output.DepthPNG)
	}
	if cfg.Logging.LogFile != "umbra.log" {
		t.Errorf("expected log file 'umbra.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "invalid.yaml")
	if err := os.WriteFile(configPath, []byte("shadow:\n  resolution: lots\n  [broken"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if err := loadFromFile(Default(), configPath); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if err := loadFromFile(Default(), filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Shadow.Resolution = 0
	cfg.Shadow.SampleCount = -1
	cfg.Window.Width = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"shadow.resolution", "shadow.sample_count", "window size"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q should mention %s", err, want)
		}
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Shadow.Resolution = 1024
	cfg.Light.Latitude = 80
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("loadFromFile: %v", err)
	}
	if loaded.Shadow.Resolution != 1024 || loaded.Light.Latitude != 80 {
		t.Errorf("round trip lost values: %+v", loaded)
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
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name: "shadow flags",
			setup: func() {
				*flagResolution = 512
				*flagSamples = 0
				*flagSeed = 99
			},
			verify: func(cfg *Config) {
				if cfg.Shadow.Resolution != 512 {
					t.Errorf("expected resolution 512, got %d", cfg.Shadow.Resolution)
				}
				if cfg.Shadow.SampleCount != 0 {
					t.Errorf("expected sample count 0, got %d", cfg.Shadow.SampleCount)
				}
				if cfg.Shadow.Seed != 99 {
					t.Errorf("expected seed 99, got %d", cfg.Shadow.Seed)
				}
			},
			teardown: func() {
				*flagResolution = 0
				*flagSamples = -1
				*flagSeed = 0
			},
		},
		{
			name: "output and visibility flags",
			setup: func() {
				*flagOut = "artifacts"
				*flagVisible = true
			},
			verify: func(cfg *Config) {
				if cfg.Output.Dir != "artifacts" {
					t.Errorf("expected output dir artifacts, got %s", cfg.Output.Dir)
				}
				if cfg.Window.Hidden {
					t.Error("expected visible window with -visible")
				}
			},
			teardown: func() {
				*flagOut = ""
				*flagVisible = false
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	yamlContent := `
shadow:
  resolution: 4096
  sample_count: 8
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagResolution = 1024
	defer func() {
		*flagConfig = ""
		*flagResolution = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Shadow.Resolution != 1024 {
		t.Errorf("expected resolution 1024 from flag, got %d", cfg.Shadow.Resolution)
	}
	if cfg.Shadow.SampleCount != 8 {
		t.Errorf("expected sample count 8 from file, got %d", cfg.Shadow.SampleCount)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("shadow:\n  resolution: -4\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	if _, err := Load(); err == nil {
		t.Error("expected Load to reject negative resolution")
	}
}
