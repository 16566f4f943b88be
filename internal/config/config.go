// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: built-in values for every setting
//  2. Config File: optional YAML (CONFIG_PATH, ./config.yaml, /etc/cinequiz/config.yaml)
//  3. Environment Variables: override any mapped setting
//
// Config is immutable after Load() and safe for concurrent read access.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Logging    LoggingConfig    `koanf:"logging"`
	Catalog    CatalogConfig    `koanf:"catalog"`
	Discussion DiscussionConfig `koanf:"discussion"`
	Critic     CriticConfig     `koanf:"critic"`
	Buzz       BuzzConfig       `koanf:"buzz"`
	Recommend  RecommendConfig  `koanf:"recommend"`
	Experiment ExperimentConfig `koanf:"experiment"`
	Events     EventsConfig     `koanf:"events"`
	Analytics  AnalyticsConfig  `koanf:"analytics"`
	Security   SecurityConfig   `koanf:"security"`
}

// ServerConfig holds HTTP server settings.
//
// Environment Variables:
//   - HTTP_HOST, HTTP_PORT, HTTP_TIMEOUT, SHUTDOWN_TIMEOUT, ENVIRONMENT
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// IsProduction reports whether Environment is "production".
func (s ServerConfig) IsProduction() bool {
	return s.Environment == "production"
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// CatalogConfig configures the TMDB-style catalog. Either APIKey or
// BearerToken enables it.
type CatalogConfig struct {
	BaseURL     string        `koanf:"base_url"`
	APIKey      string        `koanf:"api_key"`
	BearerToken string        `koanf:"bearer_token"`
	Timeout     time.Duration `koanf:"timeout"`
	Language    string        `koanf:"language"`
	Region      string        `koanf:"region"`
}

// Enabled reports whether credentials are present.
func (c CatalogConfig) Enabled() bool {
	return c.APIKey != "" || c.BearerToken != ""
}

// DiscussionConfig configures the discussion-search proxy. An empty BaseURL
// disables it and every buzz lookup takes the heuristic path.
type DiscussionConfig struct {
	BaseURL       string        `koanf:"base_url"`
	Timeout       time.Duration `koanf:"timeout"`
	LookupTimeout time.Duration `koanf:"lookup_timeout"`
	RatePerSecond float64       `koanf:"rate_per_second"`
	Burst         int           `koanf:"burst"`
	FetchComments bool          `koanf:"fetch_comments"`
}

// CriticConfig configures the OMDb-style critic provider. An empty APIKey
// disables it.
type CriticConfig struct {
	BaseURL  string        `koanf:"base_url"`
	APIKey   string        `koanf:"api_key"`
	Timeout  time.Duration `koanf:"timeout"`
	CacheTTL time.Duration `koanf:"cache_ttl"`
}

// BuzzConfig configures the buzz result cache.
type BuzzConfig struct {
	CacheTTL      time.Duration `koanf:"cache_ttl"`
	CacheBackend  string        `koanf:"cache_backend"`
	CacheCapacity int           `koanf:"cache_capacity"`
	RedisURL      string        `koanf:"redis_url"`
}

// RecommendConfig configures candidate collection and ranking.
type RecommendConfig struct {
	TopNStandard      int           `koanf:"top_n_standard"`
	TopNEnhanced      int           `koanf:"top_n_enhanced"`
	EnrichLimit       int           `koanf:"enrich_limit"`
	EnrichConcurrency int           `koanf:"enrich_concurrency"`
	EnrichTimeout     time.Duration `koanf:"enrich_timeout"`
	Seed              int64         `koanf:"seed"`
	MinCandidates     int           `koanf:"min_candidates"`
	QueryConcurrency  int           `koanf:"query_concurrency"`
	QueryTimeout      time.Duration `koanf:"query_timeout"`
}

// ExperimentConfig configures A/B assignment storage.
type ExperimentConfig struct {
	// Store is "memory" or "badger".
	Store      string        `koanf:"store"`
	StorePath  string        `koanf:"store_path"`
	SessionTTL time.Duration `koanf:"session_ttl"`
	GCInterval time.Duration `koanf:"gc_interval"`
}

// EventsConfig configures the experiment event bus.
type EventsConfig struct {
	// Backend is "memory", "nats" or "disabled".
	Backend          string        `koanf:"backend"`
	NATSURL          string        `koanf:"nats_url"`
	EmbeddedNATS     bool          `koanf:"embedded_nats"`
	EmbeddedPort     int           `koanf:"embedded_port"`
	EmbeddedStoreDir string        `koanf:"embedded_store_dir"`
	StreamName       string        `koanf:"stream_name"`
	StreamMaxAge     time.Duration `koanf:"stream_max_age"`
	DurableName      string        `koanf:"durable_name"`
	RetryCount       int           `koanf:"retry_count"`
	RetryInterval    time.Duration `koanf:"retry_interval"`
}

// AnalyticsConfig configures the DuckDB experiment store. It needs an
// events backend other than "disabled" to receive data.
type AnalyticsConfig struct {
	Enabled   bool          `koanf:"enabled"`
	DBPath    string        `koanf:"db_path"`
	MaxMemory string        `koanf:"max_memory"`
	Threads   int           `koanf:"threads"`
	Retention time.Duration `koanf:"retention"`
}

// SecurityConfig holds CORS and rate limiting settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// Load reads configuration from, in order of increasing priority:
//  1. Built-in defaults
//  2. Config file (config.yaml if exists, or path specified in CONFIG_PATH)
//  3. Environment variables
func Load() (*Config, error) {
	return LoadWithKoanf()
}
