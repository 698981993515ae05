package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/me/edgesentry/pkg/model"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config does not validate: %v", err)
	}
	if cfg.BudgetPercent != 100 {
		t.Errorf("BudgetPercent = %v, want 100", cfg.BudgetPercent)
	}
	if cfg.Multipliers[model.SensorCamera] <= cfg.Multipliers[model.SensorTemperature] {
		t.Error("camera streams must be weighted higher than temperature")
	}
	if cfg.DBPath != ":memory:" {
		t.Errorf("DBPath = %q, want :memory: (no persistence by default)", cfg.DBPath)
	}
}

func TestLoad_OverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edgesentry.yaml")
	content := "budget_percent: 80\nmax_depth: 4\nlog_level: debug\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.BudgetPercent != 80 {
		t.Errorf("BudgetPercent = %v, want 80", cfg.BudgetPercent)
	}
	if cfg.MaxDepth != 4 {
		t.Errorf("MaxDepth = %d, want 4", cfg.MaxDepth)
	}
	// Untouched keys keep their defaults.
	if cfg.MinSamplesLeaf != 5 {
		t.Errorf("MinSamplesLeaf = %d, want default 5", cfg.MinSamplesLeaf)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("Load() = nil error for missing file")
	}
}

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero budget", func(c *Config) { c.BudgetPercent = 0 }},
		{"decay at 1", func(c *Config) { c.DecayFactor = 1 }},
		{"zero depth", func(c *Config) { c.MaxDepth = 0 }},
		{"zero leaf", func(c *Config) { c.MinSamplesLeaf = 0 }},
		{"negative multiplier", func(c *Config) { c.Multipliers[model.SensorUV] = -1 }},
		{"unknown sensor", func(c *Config) { c.Multipliers["lidar"] = 1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}
