// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

package discussion

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
	"golang.org/x/time/rate"

	"github.com/tomtom215/cinequiz/internal/breaker"
	"github.com/tomtom215/cinequiz/internal/metrics"
)

// Config holds proxy client settings.
type Config struct {
	BaseURL string

	// Timeout bounds one HTTP round trip. Callers usually apply a tighter
	// context deadline as well.
	Timeout time.Duration

	// RatePerSecond and Burst configure the shared limiter. A non-positive
	// rate disables limiting.
	RatePerSecond float64
	Burst         int
}

// Client calls the discussion-search proxy.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     zerolog.Logger
}

var _ Searcher = (*Client)(nil)

// NewClient creates a proxy client.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewClient(cfg Config, logger zerolog.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, ErrNotConfigured
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	if cfg.Burst < 1 {
		cfg.Burst = 1
	}

	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(limit, cfg.Burst),
		logger:     logger.With().Str("component", "discussion").Logger(),
	}, nil
}

// Search queries the proxy. It waits for a limiter token first, so a
// context deadline also bounds time spent queued.
func (c *Client) Search(ctx context.Context, query string, fetchComments bool) (*SearchResult, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("discussion: rate limit wait: %w", err)
	}

	q := url.Values{}
	q.Set("q", query)
	q.Set("comments", strconv.FormatBool(fetchComments))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+q.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("discussion: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordUpstreamRequest("discussion", 0, time.Since(start))
		return nil, fmt.Errorf("discussion search: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	metrics.RecordUpstreamRequest("discussion", resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("discussion search returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var result SearchResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("discussion search: decode response: %w", err)
	}

	c.logger.Debug().
		Str("query", query).
		Int("posts", len(result.Posts)).
		Int("threads", len(result.CommentsData)).
		Dur("duration", time.Since(start)).
		Msg("discussion search")
	return &result, nil
}

type breakerSearcher struct {
	inner Searcher
	cb    *breaker.Breaker
}

// WithBreaker wraps s in a circuit breaker.
func WithBreaker(s Searcher, cb *breaker.Breaker) Searcher {
	return &breakerSearcher{inner: s, cb: cb}
}

func (b *breakerSearcher) Search(ctx context.Context, query string, fetchComments bool) (*SearchResult, error) {
	return breaker.Do(b.cb, func() (*SearchResult, error) {
		return b.inner.Search(ctx, query, fetchComments)
	})
}
