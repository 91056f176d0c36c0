// Package config loads render settings for lutctl from YAML.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jpfielding/dicoslut.go/pkg/lut"
	"github.com/jpfielding/dicoslut.go/pkg/lut/palette"
)

// Config describes how stored samples are calibrated, windowed and colored
type Config struct {
	Pixel struct {
		// BitsAllocated is the container size of each raw sample, 8 or 16
		BitsAllocated int `yaml:"bitsAllocated"`
		// BitsStored sizes the lookup tables
		BitsStored int `yaml:"bitsStored"`
		// Signed marks PixelRepresentation=1 data
		Signed bool `yaml:"signed"`
	} `yaml:"pixel"`

	Rescale struct {
		Slope     float64 `yaml:"slope"`
		Intercept float64 `yaml:"intercept"`
	} `yaml:"rescale"`

	Window struct {
		Center float64 `yaml:"center"`
		Width  float64 `yaml:"width"`
		// Preset names a window preset and overrides Center and Width
		Preset string `yaml:"preset"`
		// Auto derives the window from the sample range
		Auto bool `yaml:"auto"`
	} `yaml:"window"`

	// Palette names a registered palette; empty renders grayscale
	Palette string `yaml:"palette"`
}

// DefaultConfig is 16 bit unsigned data with identity rescale and an automatic window
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Pixel.BitsAllocated = 16
	cfg.Pixel.BitsStored = 16
	cfg.Rescale.Slope = 1
	cfg.Window.Auto = true
	return cfg
}

// Load reads path over the defaults
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the settings against each other and the registries
func (c *Config) Validate() error {
	var errs []error
	if c.Pixel.BitsAllocated != 8 && c.Pixel.BitsAllocated != 16 {
		errs = append(errs, fmt.Errorf("bitsAllocated must be 8 or 16, got %d", c.Pixel.BitsAllocated))
	}
	if c.Pixel.BitsStored <= 0 || c.Pixel.BitsStored > c.Pixel.BitsAllocated {
		errs = append(errs, fmt.Errorf("bitsStored %d outside [1,%d]", c.Pixel.BitsStored, c.Pixel.BitsAllocated))
	}
	if c.Rescale.Slope == 0 {
		errs = append(errs, fmt.Errorf("rescale slope must be non-zero"))
	}
	if c.Window.Preset != "" {
		if _, err := lut.PresetWindow(c.Window.Preset); err != nil {
			errs = append(errs, err)
		}
	}
	if !c.Window.Auto && c.Window.Preset == "" && c.Window.Width <= 0 {
		errs = append(errs, fmt.Errorf("window width must be positive, got %v", c.Window.Width))
	}
	if c.Palette != "" {
		if _, err := palette.Get(c.Palette); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RescaleSpec returns the configured rescale
func (c *Config) RescaleSpec() lut.RescaleSpec {
	return lut.RescaleSpec{Slope: c.Rescale.Slope, Intercept: c.Rescale.Intercept}
}

// WindowSpec resolves the configured window; ok is false when the window must be derived
// from the data
func (c *Config) WindowSpec() (ws lut.WindowSpec, ok bool, err error) {
	if c.Window.Preset != "" {
		ws, err = lut.PresetWindow(c.Window.Preset)
		return ws, err == nil, err
	}
	if c.Window.Auto {
		return lut.WindowSpec{}, false, nil
	}
	return lut.WindowSpec{Center: c.Window.Center, Width: c.Window.Width}, true, nil
}
