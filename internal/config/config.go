package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/me/edgesentry/pkg/model"
)

// Config is the flat option set consumed by the scheduling core. The core
// packages receive these values as inputs; only the CLI and server layers
// ever read a config file.
type Config struct {
	// BudgetPercent is the cumulative CPU budget a single tick may admit.
	BudgetPercent float64 `yaml:"budget_percent"`

	// Multipliers scales each sensor kind's unit cost in the load
	// estimate. Richer streams (camera, acoustic) cost more CPU per unit
	// than scalar probes (temperature, uv).
	Multipliers map[model.SensorKind]float64 `yaml:"multipliers"`

	// JitterPercent is the amplitude of the deterministic load jitter,
	// as a fraction of each task's weighted cost.
	JitterPercent float64 `yaml:"jitter_percent"`

	// DecayFactor is the fraction of admitted load shed between ticks.
	DecayFactor float64 `yaml:"decay_factor"`

	// Tree limits for the intelligent policy's classifier.
	MaxDepth       int `yaml:"max_depth"`
	MinSamplesLeaf int `yaml:"min_samples_leaf"`

	// Training defaults.
	Scenarios int   `yaml:"scenarios"`
	Seed      int64 `yaml:"seed"`

	// Server / logging / storage.
	Addr      string `yaml:"addr"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// DBPath is the decision store location. ":memory:" keeps the log
	// ephemeral; nothing is persisted across runs unless a path is set.
	DBPath string `yaml:"db_path"`
}

// Default returns the calibrated defaults. The multiplier and jitter values
// are heuristic tuning constants, not normative.
func Default() Config {
	return Config{
		BudgetPercent: 100,
		Multipliers: map[model.SensorKind]float64{
			model.SensorCamera:      1.5,
			model.SensorAcoustic:    1.3,
			model.SensorVibration:   1.1,
			model.SensorHumidity:    1.0,
			model.SensorTemperature: 0.9,
			model.SensorUV:          0.8,
		},
		JitterPercent:  0.02,
		DecayFactor:    0.40,
		MaxDepth:       6,
		MinSamplesLeaf: 5,
		Scenarios:      500,
		Seed:           42,
		Addr:           ":8080",
		LogLevel:       "info",
		LogFormat:      "text",
		DBPath:         ":memory:",
	}
}

// Load reads a YAML config file and overlays it on the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate rejects option combinations the core cannot honor.
func (c Config) Validate() error {
	if c.BudgetPercent <= 0 {
		return fmt.Errorf("budget_percent must be positive, got %v", c.BudgetPercent)
	}
	if c.DecayFactor < 0 || c.DecayFactor >= 1 {
		return fmt.Errorf("decay_factor must be in [0,1), got %v", c.DecayFactor)
	}
	if c.MaxDepth < 1 {
		return fmt.Errorf("max_depth must be at least 1, got %d", c.MaxDepth)
	}
	if c.MinSamplesLeaf < 1 {
		return fmt.Errorf("min_samples_leaf must be at least 1, got %d", c.MinSamplesLeaf)
	}
	for kind, m := range c.Multipliers {
		if !kind.Valid() {
			return fmt.Errorf("multiplier for unknown sensor kind '%s'", kind)
		}
		if m <= 0 {
			return fmt.Errorf("multiplier for %s must be positive, got %v", kind, m)
		}
	}
	return nil
}
