// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers defaults, an optional YAML file and QDASH_* env vars.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/okian/qualitydash/internal/domain/measure"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// ShutdownTimeout bounds graceful HTTP shutdown.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// MaxPriorityLimit caps GET /priorities?limit.
	MaxPriorityLimit int `koanf:"max_priority_limit"`

	// SimilarityPercent is the symmetric band inside which a value is "similar".
	SimilarityPercent float64 `koanf:"similarity_percent"`

	// SlopeThreshold is the magnitude at or below which a slope is stable.
	SlopeThreshold float64 `koanf:"slope_threshold"`

	// Priority multipliers per trend.
	MultiplierWorsening float64 `koanf:"multiplier_worsening"`
	MultiplierImproving float64 `koanf:"multiplier_improving"`
	MultiplierStable    float64 `koanf:"multiplier_stable"`

	// OutlierFactor multiplies Q3 to get the slope outlier threshold.
	OutlierFactor float64 `koanf:"outlier_factor"`

	// DefaultPolarity applies to measure ids missing from the catalog.
	DefaultPolarity string `koanf:"default_polarity"`

	// DatasetPaths replaces the embedded measure files when set.
	DatasetPaths []string `koanf:"dataset_paths"`

	// DisplayPath replaces the embedded chart overrides when set.
	DisplayPath string `koanf:"display_path"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		ShutdownTimeout:     10 * time.Second,
		MaxPriorityLimit:    100,
		SimilarityPercent:   5,
		SlopeThreshold:      0.01,
		MultiplierWorsening: 1.5,
		MultiplierImproving: 0.7,
		MultiplierStable:    1.0,
		OutlierFactor:       3,
		DefaultPolarity:     "higher",
	}
}

// Polarity parses DefaultPolarity.
func (c *Config) Polarity() (measure.Polarity, error) {
	p, err := measure.ParsePolarity(c.DefaultPolarity)
	if err != nil {
		return p, fmt.Errorf("%w: default_polarity: %w", ErrInvalidConfig, err)
	}
	return p, nil
}

// Validate checks field ranges.
func (c *Config) Validate() error {
	var problems []string
	if strings.TrimSpace(c.Addr) == "" {
		problems = append(problems, "addr must not be empty")
	}
	if c.MaxPriorityLimit < 1 {
		problems = append(problems, "max_priority_limit must be positive")
	}
	if c.SimilarityPercent < 0 {
		problems = append(problems, "similarity_percent must not be negative")
	}
	if c.SlopeThreshold < 0 {
		problems = append(problems, "slope_threshold must not be negative")
	}
	if c.MultiplierWorsening <= 0 || c.MultiplierImproving <= 0 || c.MultiplierStable <= 0 {
		problems = append(problems, "trend multipliers must be positive")
	}
	if c.OutlierFactor <= 0 {
		problems = append(problems, "outlier_factor must be positive")
	}
	if c.ShutdownTimeout < 0 {
		problems = append(problems, "shutdown_timeout must not be negative")
	}
	if _, err := measure.ParsePolarity(c.DefaultPolarity); err != nil {
		problems = append(problems, "default_polarity must be higher or lower")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}
