// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

package config

import (
	"fmt"
	"strings"
)

// Validate checks that configuration values are present and consistent.
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateLogging,
		c.validateUpstreams,
		c.validateBuzz,
		c.validateRecommend,
		c.validateExperiment,
		c.validateEvents,
		c.validateAnalytics,
		c.validateSecurity,
	}
	for _, v := range validators {
		if err := v(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %v", c.Server.Timeout)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive, got %v", c.Server.ShutdownTimeout)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error, fatal, panic, disabled; got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

// validateUpstreams checks base URLs of configured upstreams. Upstreams
// without credentials are disabled and not validated.
func (c *Config) validateUpstreams() error {
	if c.Catalog.Enabled() {
		if err := validateServiceURL(c.Catalog.BaseURL, "TMDB_BASE_URL"); err != nil {
			return err
		}
	}
	if c.Discussion.BaseURL != "" {
		if err := validateServiceURL(c.Discussion.BaseURL, "DISCUSSION_BASE_URL"); err != nil {
			return err
		}
		if c.Discussion.RatePerSecond < 0 {
			return fmt.Errorf("DISCUSSION_RATE must be non-negative, got %v", c.Discussion.RatePerSecond)
		}
	}
	if c.Critic.APIKey != "" {
		if err := validateServiceURL(c.Critic.BaseURL, "OMDB_BASE_URL"); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateBuzz() error {
	if c.Buzz.CacheTTL <= 0 {
		return fmt.Errorf("BUZZ_CACHE_TTL must be positive, got %v", c.Buzz.CacheTTL)
	}
	switch c.Buzz.CacheBackend {
	case "memory", "lru":
	case "redis":
		if c.Buzz.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required when BUZZ_CACHE_BACKEND=redis")
		}
	default:
		return fmt.Errorf("BUZZ_CACHE_BACKEND must be memory, lru or redis, got %q", c.Buzz.CacheBackend)
	}
	return nil
}

func (c *Config) validateRecommend() error {
	r := c.Recommend
	if r.TopNStandard < 1 || r.TopNEnhanced < 1 {
		return fmt.Errorf("recommend.top_n_standard and recommend.top_n_enhanced must be positive, got %d and %d", r.TopNStandard, r.TopNEnhanced)
	}
	if r.EnrichLimit < 0 {
		return fmt.Errorf("recommend.enrich_limit must be non-negative, got %d", r.EnrichLimit)
	}
	if r.EnrichConcurrency < 1 || r.QueryConcurrency < 1 {
		return fmt.Errorf("recommend concurrency settings must be positive")
	}
	if r.MinCandidates < 0 {
		return fmt.Errorf("recommend.min_candidates must be non-negative, got %d", r.MinCandidates)
	}
	return nil
}

func (c *Config) validateExperiment() error {
	switch c.Experiment.Store {
	case "memory":
	case "badger":
		if c.Experiment.StorePath == "" {
			return fmt.Errorf("EXPERIMENT_STORE_PATH is required when EXPERIMENT_STORE=badger")
		}
	default:
		return fmt.Errorf("EXPERIMENT_STORE must be memory or badger, got %q", c.Experiment.Store)
	}
	if c.Experiment.SessionTTL <= 0 {
		return fmt.Errorf("EXPERIMENT_SESSION_TTL must be positive, got %v", c.Experiment.SessionTTL)
	}
	return nil
}

func (c *Config) validateEvents() error {
	switch c.Events.Backend {
	case "memory", "disabled":
		return nil
	case "nats":
	default:
		return fmt.Errorf("EVENTS_BACKEND must be memory, nats or disabled, got %q", c.Events.Backend)
	}

	if c.Events.EmbeddedNATS {
		if c.Events.EmbeddedStoreDir == "" {
			return fmt.Errorf("NATS_STORE_DIR is required when NATS_EMBEDDED=true")
		}
		return nil
	}
	if err := validateNATSURL(c.Events.NATSURL); err != nil {
		return fmt.Errorf("NATS_URL is invalid: %w", err)
	}
	return nil
}

func (c *Config) validateAnalytics() error {
	if !c.Analytics.Enabled {
		return nil
	}
	if c.Events.Backend == "disabled" {
		return fmt.Errorf("ANALYTICS_ENABLED=true requires an events backend, got EVENTS_BACKEND=disabled")
	}
	if c.Analytics.Retention < 0 {
		return fmt.Errorf("ANALYTICS_RETENTION must be non-negative, got %v", c.Analytics.Retention)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be positive, got %d", c.Security.RateLimitReqs)
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %v", c.Security.RateLimitWindow)
	}
	return nil
}
