// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

// Package critic looks up external critic scores for a title: an IMDb-style
// rating (0-10) and a Rotten Tomatoes-style percentage (0-100). Both are
// optional; a missing score is never an error.
package critic

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cinequiz/internal/breaker"
	"github.com/tomtom215/cinequiz/internal/cache"
	"github.com/tomtom215/cinequiz/internal/catalog"
	"github.com/tomtom215/cinequiz/internal/metrics"
)

// DefaultBaseURL is the public OMDb API.
const DefaultBaseURL = "https://www.omdbapi.com"

// Scores holds whichever critic scores were found.
type Scores struct {
	IMDb           *float64 `json:"imdb,omitempty"`
	RottenTomatoes *int     `json:"rottenTomatoes,omitempty"`
}

// Empty reports whether no score is present.
func (s Scores) Empty() bool {
	return s.IMDb == nil && s.RottenTomatoes == nil
}

// Provider looks up critic scores. year is 0 when unknown.
type Provider interface {
	Lookup(ctx context.Context, title string, year int, media catalog.MediaType) (Scores, error)
}

// NoopProvider returns no scores. It is used when no provider is configured.
type NoopProvider struct{}

// Lookup implements Provider.
func (NoopProvider) Lookup(context.Context, string, int, catalog.MediaType) (Scores, error) {
	return Scores{}, nil
}

// Config holds OMDb client settings.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// OMDbClient implements Provider against the OMDb API.
type OMDbClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewOMDbClient creates an OMDb client.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewOMDbClient(cfg Config, logger zerolog.Logger) *OMDbClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 8 * time.Second
	}
	return &OMDbClient{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger.With().Str("component", "critic").Logger(),
	}
}

type omdbResponse struct {
	Response   string `json:"Response"`
	Error      string `json:"Error"`
	IMDbRating string `json:"imdbRating"`
	Ratings    []struct {
		Source string `json:"Source"`
		Value  string `json:"Value"`
	} `json:"Ratings"`
}

// Lookup fetches scores by exact title. A title OMDb does not know yields
// empty Scores and no error.
func (c *OMDbClient) Lookup(ctx context.Context, title string, year int, media catalog.MediaType) (Scores, error) {
	q := url.Values{}
	q.Set("apikey", c.apiKey)
	q.Set("t", title)
	if year > 0 {
		q.Set("y", strconv.Itoa(year))
	}
	switch media {
	case catalog.MediaMovie:
		q.Set("type", "movie")
	case catalog.MediaTV:
		q.Set("type", "series")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/?"+q.Encode(), http.NoBody)
	if err != nil {
		return Scores{}, fmt.Errorf("critic: create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordUpstreamRequest("critic", 0, time.Since(start))
		return Scores{}, fmt.Errorf("critic lookup: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	metrics.RecordUpstreamRequest("critic", resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Scores{}, fmt.Errorf("critic lookup returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var r omdbResponse
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return Scores{}, fmt.Errorf("critic lookup: decode response: %w", err)
	}
	if r.Response != "True" {
		c.logger.Debug().Str("title", title).Str("reason", r.Error).Msg("no critic scores")
		return Scores{}, nil
	}

	return parseScores(&r), nil
}

func parseScores(r *omdbResponse) Scores {
	var s Scores
	if v, err := strconv.ParseFloat(r.IMDbRating, 64); err == nil && v >= 0 && v <= 10 {
		s.IMDb = &v
	}
	for _, rating := range r.Ratings {
		if rating.Source != "Rotten Tomatoes" {
			continue
		}
		pct := strings.TrimSuffix(strings.TrimSpace(rating.Value), "%")
		if v, err := strconv.Atoi(pct); err == nil && v >= 0 && v <= 100 {
			s.RottenTomatoes = &v
		}
	}
	return s
}

type breakerProvider struct {
	inner Provider
	cb    *breaker.Breaker
}

// WithBreaker wraps p in a circuit breaker.
func WithBreaker(p Provider, cb *breaker.Breaker) Provider {
	return &breakerProvider{inner: p, cb: cb}
}

func (b *breakerProvider) Lookup(ctx context.Context, title string, year int, media catalog.MediaType) (Scores, error) {
	return breaker.Do(b.cb, func() (Scores, error) { return b.inner.Lookup(ctx, title, year, media) })
}

type cachedProvider struct {
	inner Provider
	cache cache.Cacher[Scores]
}

// WithCache memoizes successful lookups, including empty ones.
func WithCache(p Provider, c cache.Cacher[Scores]) Provider {
	return &cachedProvider{inner: p, cache: c}
}

func (c *cachedProvider) Lookup(ctx context.Context, title string, year int, media catalog.MediaType) (Scores, error) {
	key := strings.ToLower(strings.TrimSpace(title)) + "|" + strconv.Itoa(year) + "|" + string(media)
	if s, ok := c.cache.Get(ctx, key); ok {
		return s, nil
	}
	s, err := c.inner.Lookup(ctx, title, year, media)
	if err != nil {
		return Scores{}, err
	}
	c.cache.Set(ctx, key, s)
	return s, nil
}
