// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

package catalog

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

	"github.com/tomtom215/cinequiz/internal/metrics"
)

const (
	// DefaultBaseURL is the public TMDB v3 API.
	DefaultBaseURL = "https://api.themoviedb.org/3"

	dateLayout = "2006-01-02"
)

// Config holds TMDB client settings. Either APIKey or BearerToken is required.
type Config struct {
	BaseURL     string
	APIKey      string
	BearerToken string
	Language    string
	Region      string
	Timeout     time.Duration
}

// Client is a TMDB v3 catalog client.
type Client struct {
	baseURL    string
	apiKey     string
	bearer     string
	language   string
	region     string
	httpClient *http.Client
	logger     zerolog.Logger
}

var _ Catalog = (*Client)(nil)

// NewClient creates a TMDB client. It returns ErrNotConfigured when neither
// an API key nor a bearer token is set.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewClient(cfg Config, logger zerolog.Logger) (*Client, error) {
	if cfg.APIKey == "" && cfg.BearerToken == "" {
		return nil, ErrNotConfigured
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		bearer:     cfg.BearerToken,
		language:   cfg.Language,
		region:     cfg.Region,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger.With().Str("component", "catalog").Logger(),
	}, nil
}

// tmdbPage is the envelope shared by every list endpoint.
type tmdbPage struct {
	Page       int          `json:"page"`
	TotalPages int          `json:"total_pages"`
	Results    []tmdbResult `json:"results"`
}

// tmdbResult covers both movie and TV shapes.
type tmdbResult struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Name         string  `json:"name"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path"`
	GenreIDs     []int   `json:"genre_ids"`
	Popularity   float64 `json:"popularity"`
	VoteAverage  float64 `json:"vote_average"`
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`
}

// Discover runs a filtered discovery query.
func (c *Client) Discover(ctx context.Context, media MediaType, f DiscoverFilter) ([]Item, error) {
	q := url.Values{}
	if len(f.Genres) > 0 {
		genres := f.Genres
		if media == MediaTV {
			genres = toTVGenres(genres)
		}
		sep := ","
		if f.MatchAnyGenre {
			sep = "|"
		}
		q.Set("with_genres", joinInts(genres, sep))
	}

	sortBy := f.SortBy
	if sortBy == "" {
		sortBy = SortPopularityDesc
	}
	q.Set("sort_by", sortBy)
	if sortBy == SortRatingDesc {
		// Without a floor, top-rated is dominated by titles with a handful of votes.
		q.Set("vote_count.gte", "200")
	}

	dateField := "primary_release_date"
	if media == MediaTV {
		dateField = "first_air_date"
	}
	if !f.ReleasedAfter.IsZero() {
		q.Set(dateField+".gte", f.ReleasedAfter.Format(dateLayout))
	}
	if !f.ReleasedBefore.IsZero() {
		q.Set(dateField+".lte", f.ReleasedBefore.Format(dateLayout))
	}

	return c.list(ctx, media, "/discover/"+string(media), f.Page, q)
}

// Popular returns the catalog's popular list.
func (c *Client) Popular(ctx context.Context, media MediaType, page int) ([]Item, error) {
	return c.list(ctx, media, "/"+string(media)+"/popular", page, nil)
}

// TopRated returns the catalog's top rated list.
func (c *Client) TopRated(ctx context.Context, media MediaType, page int) ([]Item, error) {
	return c.list(ctx, media, "/"+string(media)+"/top_rated", page, nil)
}

// Trending returns this week's trending titles.
func (c *Client) Trending(ctx context.Context, media MediaType, page int) ([]Item, error) {
	return c.list(ctx, media, "/trending/"+string(media)+"/week", page, nil)
}

// Upcoming returns upcoming movies or currently airing TV shows.
func (c *Client) Upcoming(ctx context.Context, media MediaType, page int) ([]Item, error) {
	path := "/movie/upcoming"
	if media == MediaTV {
		path = "/tv/on_the_air"
	}
	return c.list(ctx, media, path, page, nil)
}

func (c *Client) list(ctx context.Context, media MediaType, path string, page int, q url.Values) ([]Item, error) {
	if !media.Valid() {
		return nil, fmt.Errorf("catalog: invalid media type %q", media)
	}
	if q == nil {
		q = url.Values{}
	}
	if page < 1 {
		page = 1
	}
	q.Set("page", strconv.Itoa(page))

	var result tmdbPage
	if err := c.get(ctx, path, q, &result); err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(result.Results))
	for i := range result.Results {
		items = append(items, toItem(&result.Results[i], media))
	}
	return items, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out interface{}) error {
	if c.apiKey != "" {
		q.Set("api_key", c.apiKey)
	}
	if c.language != "" {
		q.Set("language", c.language)
	}
	if c.region != "" {
		q.Set("region", c.region)
	}

	reqURL := c.baseURL + path + "?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("catalog: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.bearer != "" {
		req.Header.Set("Authorization", "Bearer "+c.bearer)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordUpstreamRequest("catalog", 0, time.Since(start))
		return fmt.Errorf("catalog %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()
	metrics.RecordUpstreamRequest("catalog", resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("catalog %s returned status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("catalog %s: decode response: %w", path, err)
	}

	c.logger.Debug().Str("path", path).Int("status", resp.StatusCode).Dur("duration", time.Since(start)).Msg("catalog request")
	return nil
}

func toItem(r *tmdbResult, media MediaType) Item {
	title, date := r.Title, r.ReleaseDate
	if media == MediaTV || title == "" {
		if r.Name != "" {
			title = r.Name
		}
		if r.FirstAirDate != "" {
			date = r.FirstAirDate
		}
	}

	genres := r.GenreIDs
	if media == MediaTV {
		genres = expandTVGenres(genres)
	}
	if genres == nil {
		genres = []int{}
	}

	popularity := r.Popularity
	if popularity < 0 {
		popularity = 0
	}

	return Item{
		ID:          r.ID,
		Title:       title,
		Overview:    r.Overview,
		PosterRef:   r.PosterPath,
		MediaType:   media,
		GenreCodes:  genres,
		Popularity:  popularity,
		VoteAverage: clamp(r.VoteAverage, 0, 10),
		ReleaseYear: parseYear(date),
	}
}

// parseYear extracts the year from a YYYY-MM-DD date.
func parseYear(date string) *int {
	if len(date) < 4 {
		return nil
	}
	y, err := strconv.Atoi(date[:4])
	if err != nil || y <= 0 {
		return nil
	}
	return &y
}

func clamp(v, lo, hi float64) float64 {
	switch {
	case v < lo:
		return lo
	case v > hi:
		return hi
	default:
		return v
	}
}

func joinInts(vals []int, sep string) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, sep)
}
