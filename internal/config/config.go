// Package config loads the run configuration of the consensus command.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config holds the tunables of a consensus run.
type Config struct {
	// MinClusterSize is the smallest population, coarse group or
	// sub-cluster that may produce a representative.
	MinClusterSize int `yaml:"min_cluster_size" validate:"gte=2"`

	// DedupThreshold is the misorientation in degrees below which two
	// representatives are merged.
	DedupThreshold float64 `yaml:"dedup_threshold" validate:"gt=0"`

	// Workers is the number of goroutines filling each distance matrix.
	Workers int `yaml:"workers" validate:"gte=1"`

	// Lattice overrides the lattice declared in the population file.
	Lattice string `yaml:"lattice,omitempty" validate:"omitempty,oneof=triclinic monoclinic orthorhombic tetragonal hexagonal cubic"`

	// FirstModelOnly skips clustering and reports the first crystal.
	FirstModelOnly bool `yaml:"first_model_only"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" validate:"oneof=debug info warn error"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		MinClusterSize: 5,
		DedupThreshold: 5.0,
		Workers:        1,
		LogLevel:       "info",
	}
}

var validate = validator.New()

// Load reads a YAML configuration file on top of the defaults. An empty
// path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field against its constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Save writes the configuration to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config YAML: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// NewLogger builds a production zap logger at the configured level.
func (c *Config) NewLogger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}
