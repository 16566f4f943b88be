// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

package config

import (
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{
			name:    "zero shutdown timeout",
			mutate:  func(c *Config) { c.Server.ShutdownTimeout = 0 },
			wantErr: "SHUTDOWN_TIMEOUT",
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "LOG_FORMAT",
		},
		{
			name: "catalog with bad base url",
			mutate: func(c *Config) {
				c.Catalog.APIKey = "k"
				c.Catalog.BaseURL = "ftp://tmdb"
			},
			wantErr: "TMDB_BASE_URL",
		},
		{
			name:   "catalog base url ignored when disabled",
			mutate: func(c *Config) { c.Catalog.BaseURL = "ftp://tmdb" },
		},
		{
			name:    "negative discussion rate",
			mutate:  func(c *Config) { c.Discussion.BaseURL = "http://proxy:8000"; c.Discussion.RatePerSecond = -1 },
			wantErr: "DISCUSSION_RATE",
		},
		{
			name:    "lru backend",
			mutate:  func(c *Config) { c.Buzz.CacheBackend = "lru" },
			wantErr: "",
		},
		{
			name:    "redis without url",
			mutate:  func(c *Config) { c.Buzz.CacheBackend = "redis" },
			wantErr: "REDIS_URL",
		},
		{
			name:    "zero top n",
			mutate:  func(c *Config) { c.Recommend.TopNEnhanced = 0 },
			wantErr: "top_n",
		},
		{
			name:    "badger without path",
			mutate:  func(c *Config) { c.Experiment.Store = "badger"; c.Experiment.StorePath = "" },
			wantErr: "EXPERIMENT_STORE_PATH",
		},
		{
			name: "embedded nats without store dir",
			mutate: func(c *Config) {
				c.Events.Backend = "nats"
				c.Events.EmbeddedNATS = true
				c.Events.EmbeddedStoreDir = ""
			},
			wantErr: "NATS_STORE_DIR",
		},
		{
			name: "external nats",
			mutate: func(c *Config) {
				c.Events.Backend = "nats"
				c.Events.NATSURL = "nats://nats.internal:4222"
			},
		},
		{
			name: "analytics disabled allows no events",
			mutate: func(c *Config) {
				c.Events.Backend = "disabled"
				c.Analytics.Enabled = false
			},
		},
		{
			name:    "rate limit window",
			mutate:  func(c *Config) { c.Security.RateLimitWindow = 0 },
			wantErr: "RATE_LIMIT_WINDOW",
		},
		{
			name: "rate limit disabled skips checks",
			mutate: func(c *Config) {
				c.Security.RateLimitDisabled = true
				c.Security.RateLimitReqs = 0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateServiceURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		url     string
		wantErr bool
	}{
		{"https://api.themoviedb.org/3", false},
		{"http://localhost:8000", false},
		{"ftp://example.com", true},
		{"https://", true},
		{"https://example.com?key=1", true},
	}
	for _, tt := range tests {
		if err := validateServiceURL(tt.url, "X"); (err != nil) != tt.wantErr {
			t.Errorf("validateServiceURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
		}
	}
}

func TestValidateNATSURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		url     string
		wantErr bool
	}{
		{"nats://localhost:4222", false},
		{"tls://nats.example.com:4222", false},
		{"wss://nats.example.com", false},
		{"http://localhost:4222", true},
		{"nats://", true},
	}
	for _, tt := range tests {
		if err := validateNATSURL(tt.url); (err != nil) != tt.wantErr {
			t.Errorf("validateNATSURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
		}
	}
}
