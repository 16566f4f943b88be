// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

package recommend

import (
	"testing"
	"time"

	"github.com/tomtom215/cinequiz/internal/experiment"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.TopN(experiment.VariantA) != 10 {
		t.Errorf("TopN(A) = %d, want 10", cfg.TopN(experiment.VariantA))
	}
	if cfg.TopN(experiment.VariantB) != 20 {
		t.Errorf("TopN(B) = %d, want 20", cfg.TopN(experiment.VariantB))
	}
	if cfg.EnrichLimit != 30 {
		t.Errorf("EnrichLimit = %d, want 30", cfg.EnrichLimit)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{name: "valid default", modify: func(c *Config) {}},
		{name: "zero enrich limit disables enrichment", modify: func(c *Config) { c.EnrichLimit = 0 }},
		{name: "zero top n standard", modify: func(c *Config) { c.TopNStandard = 0 }, wantErr: true},
		{name: "negative top n enhanced", modify: func(c *Config) { c.TopNEnhanced = -1 }, wantErr: true},
		{name: "negative enrich limit", modify: func(c *Config) { c.EnrichLimit = -5 }, wantErr: true},
		{name: "zero concurrency", modify: func(c *Config) { c.EnrichConcurrency = 0 }, wantErr: true},
		{name: "zero timeout", modify: func(c *Config) { c.EnrichTimeout = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Clone(t *testing.T) {
	cfg := DefaultConfig()
	clone := cfg.Clone()
	clone.TopNStandard = 3
	clone.EnrichTimeout = time.Second

	if cfg.TopNStandard != 10 {
		t.Error("modifying clone affected original")
	}
	if cfg.EnrichTimeout != 8*time.Second {
		t.Error("modifying clone timeout affected original")
	}
}
