// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"galvanokit/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Import contains file import settings
	Import ImportConfig `json:"import"`

	// Plot contains chart rendering settings
	Plot PlotConfig `json:"plot"`

	// Output contains report output settings
	Output OutputConfig `json:"output"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// ImportConfig contains import-related settings
type ImportConfig struct {
	// MaxPoints caps how many samples are kept per run. Files with more
	// rows are downsampled with a fixed stride. Zero keeps everything.
	MaxPoints int `json:"max_points"`
}

// PlotConfig contains chart rendering settings
type PlotConfig struct {
	// WidthInches is the chart width
	WidthInches float64 `json:"width_inches"`

	// HeightInches is the chart height
	HeightInches float64 `json:"height_inches"`

	// Directory is where chart files are written
	Directory string `json:"directory"`
}

// OutputConfig contains report output settings
type OutputConfig struct {
	// DefaultFormat is the default report format (cli, json, csv)
	DefaultFormat string `json:"default_format"`

	// ShowCycles includes the per-cycle capacity table
	ShowCycles bool `json:"show_cycles"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Version: "1.0",
		Import: ImportConfig{
			MaxPoints: 5000,
		},
		Plot: PlotConfig{
			WidthInches:  6.25,
			HeightInches: 5,
			Directory:    ".",
		},
		Output: OutputConfig{
			DefaultFormat: "cli",
			ShowCycles:    true,
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load loads configuration from a file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, err
	}

	return config, nil
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
