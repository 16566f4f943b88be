// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/cinequiz/config.yaml",
	"/etc/cinequiz/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all default values.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			Timeout:         30 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			Environment:     "development",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Catalog: CatalogConfig{
			BaseURL:  "https://api.themoviedb.org/3",
			Timeout:  10 * time.Second,
			Language: "en-US",
		},
		Discussion: DiscussionConfig{
			Timeout:       15 * time.Second,
			LookupTimeout: 12 * time.Second,
			RatePerSecond: 2,
			Burst:         4,
			FetchComments: true,
		},
		Critic: CriticConfig{
			BaseURL:  "https://www.omdbapi.com",
			Timeout:  8 * time.Second,
			CacheTTL: 7 * 24 * time.Hour,
		},
		Buzz: BuzzConfig{
			CacheTTL:      24 * time.Hour,
			CacheBackend:  "memory",
			CacheCapacity: 10000,
		},
		Recommend: RecommendConfig{
			TopNStandard:      10,
			TopNEnhanced:      20,
			EnrichLimit:       30,
			EnrichConcurrency: 5,
			EnrichTimeout:     8 * time.Second,
			Seed:              0, // 0 = seed from the clock
			MinCandidates:     5,
			QueryConcurrency:  8,
			QueryTimeout:      10 * time.Second,
		},
		Experiment: ExperimentConfig{
			Store:      "memory",
			StorePath:  "/data/assignments",
			SessionTTL: 7 * 24 * time.Hour,
			GCInterval: 10 * time.Minute,
		},
		Events: EventsConfig{
			Backend:          "memory",
			NATSURL:          "nats://127.0.0.1:4222",
			EmbeddedNATS:     false,
			EmbeddedPort:     4222,
			EmbeddedStoreDir: "/data/nats",
			StreamName:       "CINEQUIZ",
			StreamMaxAge:     7 * 24 * time.Hour,
			DurableName:      "cinequiz-analytics",
			RetryCount:       3,
			RetryInterval:    100 * time.Millisecond,
		},
		Analytics: AnalyticsConfig{
			Enabled:   true,
			DBPath:    "/data/cinequiz.duckdb",
			MaxMemory: "512MB",
			Threads:   0, // 0 = use runtime.NumCPU()
			Retention: 90 * 24 * time.Hour,
		},
		Security: SecurityConfig{
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     60,
			RateLimitWindow:   1 * time.Minute,
			RateLimitDisabled: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf with layered sources.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars arrive as strings while the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		// Already a slice (from YAML or defaults)
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
var envMappings = map[string]string{
	// Server
	"http_host":        "server.host",
	"http_port":        "server.port",
	"http_timeout":     "server.timeout",
	"shutdown_timeout": "server.shutdown_timeout",
	"environment":      "server.environment",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Catalog (TMDB)
	"tmdb_base_url":     "catalog.base_url",
	"tmdb_api_key":      "catalog.api_key",
	"tmdb_bearer_token": "catalog.bearer_token",
	"tmdb_timeout":      "catalog.timeout",
	"tmdb_language":     "catalog.language",
	"tmdb_region":       "catalog.region",

	// Discussion proxy
	"discussion_base_url":       "discussion.base_url",
	"discussion_timeout":        "discussion.timeout",
	"discussion_lookup_timeout": "discussion.lookup_timeout",
	"discussion_rate":           "discussion.rate_per_second",
	"discussion_burst":          "discussion.burst",
	"discussion_fetch_comments": "discussion.fetch_comments",

	// Critic (OMDb)
	"omdb_base_url":  "critic.base_url",
	"omdb_api_key":   "critic.api_key",
	"omdb_timeout":   "critic.timeout",
	"omdb_cache_ttl": "critic.cache_ttl",

	// Buzz cache
	"buzz_cache_ttl":      "buzz.cache_ttl",
	"buzz_cache_backend":  "buzz.cache_backend",
	"buzz_cache_capacity": "buzz.cache_capacity",
	"redis_url":           "buzz.redis_url",

	// Recommend
	"recommend_top_n_standard":     "recommend.top_n_standard",
	"recommend_top_n_enhanced":     "recommend.top_n_enhanced",
	"recommend_enrich_limit":       "recommend.enrich_limit",
	"recommend_enrich_concurrency": "recommend.enrich_concurrency",
	"recommend_enrich_timeout":     "recommend.enrich_timeout",
	"recommend_seed":               "recommend.seed",
	"recommend_min_candidates":     "recommend.min_candidates",
	"recommend_query_concurrency":  "recommend.query_concurrency",
	"recommend_query_timeout":      "recommend.query_timeout",

	// Experiment
	"experiment_store":       "experiment.store",
	"experiment_store_path":  "experiment.store_path",
	"experiment_session_ttl": "experiment.session_ttl",
	"experiment_gc_interval": "experiment.gc_interval",

	// Events
	"events_backend":        "events.backend",
	"nats_url":              "events.nats_url",
	"nats_embedded":         "events.embedded_nats",
	"nats_embedded_port":    "events.embedded_port",
	"nats_store_dir":        "events.embedded_store_dir",
	"nats_stream_name":      "events.stream_name",
	"nats_stream_max_age":   "events.stream_max_age",
	"nats_durable_name":     "events.durable_name",
	"events_retry_count":    "events.retry_count",
	"events_retry_interval": "events.retry_interval",

	// Analytics
	"analytics_enabled":   "analytics.enabled",
	"duckdb_path":         "analytics.db_path",
	"duckdb_max_memory":   "analytics.max_memory",
	"duckdb_threads":      "analytics.threads",
	"analytics_retention": "analytics.retention",

	// Security
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_requests",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - TMDB_API_KEY -> catalog.api_key
//   - HTTP_PORT -> server.port
//   - DUCKDB_PATH -> analytics.db_path
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}

	// Unmapped keys are skipped so unrelated environment variables never
	// pollute the config.
	return ""
}
