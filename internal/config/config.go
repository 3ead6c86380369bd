// Package config handles shadow baker configuration loading and management.
package config

import (
	"errors"
	"fmt"
)

// Config holds all settings.
type Config struct {
	Shadow  ShadowConfig  `yaml:"shadow"`
	Light   LightConfig   `yaml:"light"`
	Window  WindowConfig  `yaml:"window"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// ShadowConfig holds shadow map and soft-shadow kernel settings.
type ShadowConfig struct {
	Resolution     int     `yaml:"resolution"`      // Texels per side
	SampleCount    int     `yaml:"sample_count"`    // Requested kernel size
	SampleRadius   float32 `yaml:"sample_radius"`   // Minimum kernel point separation
	RejectionLimit int     `yaml:"rejection_limit"` // Candidates tried per active point
	Seed           uint64  `yaml:"seed"`            // 0 seeds from the clock
}

// LightConfig describes the directional light. A non-zero Direction takes
// precedence over the sun angles.
type LightConfig struct {
	Longitude float32    `yaml:"longitude"`
	Latitude  float32    `yaml:"latitude"`
	Direction [3]float32 `yaml:"direction"`
}

// WindowConfig holds settings for the GL context window.
type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Hidden bool   `yaml:"hidden"`
}

// OutputConfig holds artifact paths written by the baker.
type OutputConfig struct {
	Dir        string `yaml:"dir"`
	DepthPNG   string `yaml:"depth_png"`
	DepthTIFF  string `yaml:"depth_tiff"` // Optional, empty skips the TIFF
	KernelYAML string `yaml:"kernel_yaml"`
	KernelPNG  string `yaml:"kernel_png"` // Optional, empty skips the kernel preview
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Shadow: ShadowConfig{
			Resolution:     2048,
			SampleCount:    16,
			SampleRadius:   1,
			RejectionLimit: 30,
		},
		Light: LightConfig{
			Longitude: 45,
			Latitude:  45,
		},
		Window: WindowConfig{
			Title:  "umbra",
			Width:  1280,
			Height: 720,
			Hidden: true,
		},
		Output: OutputConfig{
			Dir:        "out",
			DepthPNG:   "shadow_depth.png",
			KernelYAML: "kernel.yaml",
			KernelPNG:  "kernel_preview.png",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate reports settings the shadow pass cannot be built with.
func (c *Config) Validate() error {
	var errs []error
	if c.Shadow.Resolution <= 0 {
		errs = append(errs, fmt.Errorf("shadow.resolution must be positive, got %d", c.Shadow.Resolution))
	}
	if c.Shadow.SampleCount < 0 {
		errs = append(errs, fmt.Errorf("shadow.sample_count must not be negative, got %d", c.Shadow.SampleCount))
	}
	if c.Shadow.SampleRadius <= 0 {
		errs = append(errs, fmt.Errorf("shadow.sample_radius must be positive, got %g", c.Shadow.SampleRadius))
	}
	if c.Shadow.RejectionLimit <= 0 {
		errs = append(errs, fmt.Errorf("shadow.rejection_limit must be positive, got %d", c.Shadow.RejectionLimit))
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height))
	}
	return errors.Join(errs...)
}
