// Package config loads and persists DriveSweep configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/drivesweep/drivesweep/internal/core"
	"github.com/drivesweep/drivesweep/internal/filelock"
)

// FileName is the configuration file name inside the config directory.
const FileName = "config.yaml"

// Config holds DriveSweep configuration options.
type Config struct {
	// ProtectedPatterns are substrings that mark file names as protected.
	ProtectedPatterns []string `yaml:"protected_patterns"`

	// LargeFileThreshold is the size in bytes above which a file counts as large.
	LargeFileThreshold int64 `yaml:"large_file_threshold"`

	// HistoryEnabled records scans and journals operations when true.
	HistoryEnabled bool `yaml:"history_enabled"`

	// HistoryKeep is how many scans 'history prune' keeps by default.
	HistoryKeep int `yaml:"history_keep"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		ProtectedPatterns:  append([]string(nil), core.DefaultProtectedPatterns...),
		LargeFileThreshold: core.DefaultLargeFileThreshold,
		HistoryEnabled:     true,
		HistoryKeep:        20,
	}
}

// Path returns the config file path inside a config directory.
func Path(configDir string) string {
	return filepath.Join(configDir, FileName)
}

// Load reads the configuration at path. A missing file returns the
// defaults without error; a malformed file is an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Unmarshal over the defaults: keys absent from the file keep
	// their default values.
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.LargeFileThreshold <= 0 {
		cfg.LargeFileThreshold = core.DefaultLargeFileThreshold
	}
	if cfg.HistoryKeep <= 0 {
		cfg.HistoryKeep = 20
	}
	return cfg, nil
}

// Save writes the configuration to path atomically.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := filelock.AtomicWrite(path, data); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
