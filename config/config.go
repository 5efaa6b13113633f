// Package config loads scanner settings from a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"memscan/scanner"

	"gopkg.in/yaml.v3"
)

const (
	configDir  string = "memscan"
	configFile string = "config.yml"
)

// Config defines all configuration options available to be set through the config file.
type Config struct {
	// Workers is the number of regions scanned in parallel.
	Workers int `yaml:"workers"`
	// Alignment is the address step of a first scan in bytes; 0 tries each
	// type at multiples of its own width.
	Alignment int `yaml:"alignment"`
	// ChunkSize is the number of bytes read from the target per call.
	ChunkSize int `yaml:"chunk-size"`
	// RequireWritable restricts the first scan to writable regions.
	RequireWritable bool `yaml:"require-writable"`
	// RegionLevel is one of all, heap-stack-exe, heap-stack-exe-bss.
	RegionLevel string `yaml:"region-level"`
	// MaxList is the number of results the list command prints.
	MaxList int `yaml:"max-list"`
}

// Default returns the configuration used when no file exists
func Default() *Config {
	return &Config{
		Workers:         runtime.NumCPU(),
		ChunkSize:       scanner.DefaultChunkSize,
		RequireWritable: true,
		RegionLevel:     scanner.RegionAll.String(),
		MaxList:         20,
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/memscan/config.yml, falling back to
// ~/.config when XDG_CONFIG_HOME is unset
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("unable to find config directory: %w", err)
	}
	return filepath.Join(dir, configDir, configFile), nil
}

// Load reads path on top of the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	conf := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return conf, nil
	}
	if err != nil {
		return nil, fmt.Errorf("unable to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, conf); err != nil {
		return nil, fmt.Errorf("unable to decode config file %s: %w", path, err)
	}
	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return conf, nil
}

// Validate rejects values no scan can run with
func (c *Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.Alignment < 0 {
		return fmt.Errorf("alignment must not be negative, got %d", c.Alignment)
	}
	if c.ChunkSize < 1 {
		return fmt.Errorf("chunk-size must be at least 1, got %d", c.ChunkSize)
	}
	if _, err := scanner.ParseRegionLevel(c.RegionLevel); err != nil {
		return err
	}
	return nil
}

// ScannerOptions converts the configuration to scanner options
func (c *Config) ScannerOptions() ([]scanner.Option, error) {
	level, err := scanner.ParseRegionLevel(c.RegionLevel)
	if err != nil {
		return nil, err
	}
	return []scanner.Option{
		scanner.WithWorkers(c.Workers),
		scanner.WithAlignment(c.Alignment),
		scanner.WithChunkSize(c.ChunkSize),
		scanner.WithRequireWritable(c.RequireWritable),
		scanner.WithRegionLevel(level),
	}, nil
}

// Marshal returns the configuration as YAML
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
