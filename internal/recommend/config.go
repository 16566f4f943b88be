// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

package recommend

import (
	"fmt"
	"time"

	"github.com/tomtom215/cinequiz/internal/experiment"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// TopNStandard is the list length for variant A.
	// Default: 10.
	TopNStandard int `json:"top_n_standard"`

	// TopNEnhanced is the list length for variant B.
	// Default: 20.
	TopNEnhanced int `json:"top_n_enhanced"`

	// EnrichLimit is how many pre-ranked candidates receive buzz and critic
	// lookups. The rest score with no enrichment.
	// Default: 30.
	EnrichLimit int `json:"enrich_limit"`

	// EnrichConcurrency bounds concurrent enrichment lookups.
	// Default: 5.
	EnrichConcurrency int `json:"enrich_concurrency"`

	// EnrichTimeout bounds the critic lookup for one candidate. Buzz lookups
	// carry their own timeout.
	// Default: 8s.
	EnrichTimeout time.Duration `json:"enrich_timeout"`

	// Seed makes jitter reproducible. Zero seeds from the clock.
	Seed int64 `json:"seed"`
}

// DefaultConfig returns a Config with production defaults.
func DefaultConfig() *Config {
	return &Config{
		TopNStandard:      10,
		TopNEnhanced:      20,
		EnrichLimit:       30,
		EnrichConcurrency: 5,
		EnrichTimeout:     8 * time.Second,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.TopNStandard < 1 {
		return fmt.Errorf("top_n_standard must be positive, got %d", c.TopNStandard)
	}
	if c.TopNEnhanced < 1 {
		return fmt.Errorf("top_n_enhanced must be positive, got %d", c.TopNEnhanced)
	}
	if c.EnrichLimit < 0 {
		return fmt.Errorf("enrich_limit must be non-negative, got %d", c.EnrichLimit)
	}
	if c.EnrichConcurrency < 1 {
		return fmt.Errorf("enrich_concurrency must be positive, got %d", c.EnrichConcurrency)
	}
	if c.EnrichTimeout <= 0 {
		return fmt.Errorf("enrich_timeout must be positive, got %v", c.EnrichTimeout)
	}
	return nil
}

// TopN returns the list length for variant v.
func (c *Config) TopN(v experiment.Variant) int {
	if v == experiment.VariantB {
		return c.TopNEnhanced
	}
	return c.TopNStandard
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
