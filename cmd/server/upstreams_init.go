// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cinequiz/internal/aggregate"
	"github.com/tomtom215/cinequiz/internal/breaker"
	"github.com/tomtom215/cinequiz/internal/buzz"
	"github.com/tomtom215/cinequiz/internal/cache"
	"github.com/tomtom215/cinequiz/internal/catalog"
	"github.com/tomtom215/cinequiz/internal/config"
	"github.com/tomtom215/cinequiz/internal/critic"
	"github.com/tomtom215/cinequiz/internal/discussion"
	"github.com/tomtom215/cinequiz/internal/events"
	"github.com/tomtom215/cinequiz/internal/recommend"
)

// Upstreams holds the external data sources and their breakers.
type Upstreams struct {
	Breakers *breaker.Registry
	Catalog  catalog.Catalog
	Critic   critic.Provider
	Buzz     *buzz.Classifier

	// Cleaners are the in-memory caches the janitor sweeps, by name.
	Cleaners map[string]cache.Cleaner

	redisClients []*redis.Client
	logger       zerolog.Logger
}

// Close releases Redis connections.
func (u *Upstreams) Close() {
	for _, c := range u.redisClients {
		if err := c.Close(); err != nil {
			u.logger.Warn().Err(err).Msg("Error closing redis client")
		}
	}
}

// initUpstreams builds the catalog, discussion and critic clients behind
// circuit breakers, plus the buzz classifier and its cache. The catalog is
// required; discussion and critic degrade to heuristic and no-op.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func initUpstreams(cfg *config.Config, logger zerolog.Logger) (*Upstreams, error) {
	u := &Upstreams{
		Breakers: breaker.NewRegistry(),
		Cleaners: make(map[string]cache.Cleaner),
		logger:   logger,
	}

	tmdb, err := catalog.NewClient(catalog.Config{
		BaseURL:     cfg.Catalog.BaseURL,
		APIKey:      cfg.Catalog.APIKey,
		BearerToken: cfg.Catalog.BearerToken,
		Language:    cfg.Catalog.Language,
		Region:      cfg.Catalog.Region,
		Timeout:     cfg.Catalog.Timeout,
	}, logger)
	if err != nil {
		if errors.Is(err, catalog.ErrNotConfigured) {
			return nil, fmt.Errorf("set TMDB_API_KEY or TMDB_BEARER_TOKEN: %w", err)
		}
		return nil, fmt.Errorf("catalog client: %w", err)
	}
	u.Catalog = catalog.WithBreaker(tmdb, u.newBreaker("catalog", logger))

	u.Critic, err = initCritic(cfg, u, logger)
	if err != nil {
		u.Close()
		return nil, err
	}

	var searcher discussion.Searcher
	proxy, err := discussion.NewClient(discussion.Config{
		BaseURL:       cfg.Discussion.BaseURL,
		Timeout:       cfg.Discussion.Timeout,
		RatePerSecond: cfg.Discussion.RatePerSecond,
		Burst:         cfg.Discussion.Burst,
	}, logger)
	switch {
	case err == nil:
		searcher = discussion.WithBreaker(proxy, u.newBreaker("discussion", logger))
	case errors.Is(err, discussion.ErrNotConfigured):
		logger.Warn().Msg("DISCUSSION_BASE_URL not set, buzz uses the heuristic only")
	default:
		u.Close()
		return nil, fmt.Errorf("discussion client: %w", err)
	}

	buzzCache, err := newCache[buzz.Result](cfg, "buzz", cfg.Buzz.CacheTTL, u, logger)
	if err != nil {
		u.Close()
		return nil, err
	}
	u.Buzz = buzz.New(searcher, buzzCache, logger,
		buzz.WithTimeout(cfg.Discussion.LookupTimeout),
		buzz.WithFetchComments(cfg.Discussion.FetchComments),
	)

	logger.Info().
		Bool("discussion", searcher != nil).
		Bool("critic", cfg.Critic.APIKey != "").
		Str("cache_backend", cfg.Buzz.CacheBackend).
		Msg("upstream clients ready")
	return u, nil
}

//nolint:gocritic // zerolog.Logger is designed to be passed by value
func initCritic(cfg *config.Config, u *Upstreams, logger zerolog.Logger) (critic.Provider, error) {
	if cfg.Critic.APIKey == "" {
		return critic.NoopProvider{}, nil
	}
	omdb := critic.NewOMDbClient(critic.Config{
		BaseURL: cfg.Critic.BaseURL,
		APIKey:  cfg.Critic.APIKey,
		Timeout: cfg.Critic.Timeout,
	}, logger)

	scores, err := newCache[critic.Scores](cfg, "critic", cfg.Critic.CacheTTL, u, logger)
	if err != nil {
		return nil, err
	}
	// Cache outside the breaker so hits never count against it.
	return critic.WithCache(critic.WithBreaker(omdb, u.newBreaker("critic", logger)), scores), nil
}

// newCache builds a cache on the configured backend and registers it for
// cleanup or shutdown.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func newCache[V any](cfg *config.Config, name string, ttl time.Duration, u *Upstreams, logger zerolog.Logger) (cache.Cacher[V], error) {
	c, client, err := cache.NewCacher[V](cache.CacheConfig{
		Type:     cache.CacheType(cfg.Buzz.CacheBackend),
		Name:     name,
		TTL:      ttl,
		Capacity: cfg.Buzz.CacheCapacity,
		RedisURL: cfg.Buzz.RedisURL,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("%s cache: %w", name, err)
	}
	if client != nil {
		u.redisClients = append(u.redisClients, client)
	}
	if cl, ok := c.(cache.Cleaner); ok {
		u.Cleaners[name] = cl
	}
	return c, nil
}

//nolint:gocritic // zerolog.Logger is designed to be passed by value
func (u *Upstreams) newBreaker(name string, logger zerolog.Logger) *breaker.Breaker {
	cb := breaker.New(name, breaker.DefaultSettings(), logger)
	u.Breakers.Register(cb)
	return cb
}

// initEngine wires the aggregator and the engine.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func initEngine(cfg *config.Config, u *Upstreams, selector recommend.Assigner, pub events.Publisher, logger zerolog.Logger) (*recommend.Engine, error) {
	agg := aggregate.New(u.Catalog, logger,
		aggregate.WithConcurrency(cfg.Recommend.QueryConcurrency),
		aggregate.WithQueryTimeout(cfg.Recommend.QueryTimeout),
		aggregate.WithMinCandidates(cfg.Recommend.MinCandidates),
	)

	return recommend.NewEngine(buildEngineConfig(cfg), recommend.Deps{
		Selector:   selector,
		Aggregator: agg,
		Buzz:       u.Buzz,
		Critic:     u.Critic,
		Publisher:  pub,
	}, logger)
}

// buildEngineConfig maps application config onto the engine config.
func buildEngineConfig(cfg *config.Config) *recommend.Config {
	rc := recommend.DefaultConfig()
	rc.TopNStandard = cfg.Recommend.TopNStandard
	rc.TopNEnhanced = cfg.Recommend.TopNEnhanced
	rc.EnrichLimit = cfg.Recommend.EnrichLimit
	rc.EnrichConcurrency = cfg.Recommend.EnrichConcurrency
	rc.EnrichTimeout = cfg.Recommend.EnrichTimeout
	rc.Seed = cfg.Recommend.Seed
	return rc
}
