// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

package catalog

import (
	"context"
	"errors"
	"time"
)

// ErrNotConfigured is returned by NewClient when no credentials are set.
var ErrNotConfigured = errors.New("catalog not configured")

// MediaType distinguishes movies from TV shows.
type MediaType string

const (
	MediaMovie MediaType = "movie"
	MediaTV    MediaType = "tv"
)

// Valid reports whether m is a known media type.
func (m MediaType) Valid() bool {
	return m == MediaMovie || m == MediaTV
}

// Item is a catalog entry. Items are immutable once fetched.
type Item struct {
	// ID is unique within the catalog.
	ID int `json:"id"`

	Title    string `json:"title"`
	Overview string `json:"overview"`

	// PosterRef is passed through verbatim (a TMDB poster path).
	PosterRef string `json:"posterRef,omitempty"`

	MediaType  MediaType `json:"mediaType"`
	GenreCodes []int     `json:"genreCodes"`

	// Popularity is the catalog's popularity index, >= 0.
	Popularity float64 `json:"popularity"`

	// VoteAverage is the audience rating, 0..10.
	VoteAverage float64 `json:"voteAverage"`

	// ReleaseYear is nil when the catalog has no release date.
	ReleaseYear *int `json:"releaseYear,omitempty"`
}

// HasGenre reports whether the item is tagged with code.
func (it *Item) HasGenre(code int) bool {
	for _, g := range it.GenreCodes {
		if g == code {
			return true
		}
	}
	return false
}

// Year returns the release year or 0.
func (it *Item) Year() int {
	if it.ReleaseYear == nil {
		return 0
	}
	return *it.ReleaseYear
}

// Sort orders accepted by Discover.
const (
	SortPopularityDesc = "popularity.desc"
	SortRatingDesc     = "vote_average.desc"
)

// DiscoverFilter narrows a discovery query. Zero values mean "no filter".
type DiscoverFilter struct {
	// Genres to require. With MatchAnyGenre an item needs only one of them.
	Genres        []int
	MatchAnyGenre bool

	SortBy string
	Page   int

	// ReleasedAfter and ReleasedBefore bound the release (or first air)
	// date, inclusive.
	ReleasedAfter  time.Time
	ReleasedBefore time.Time
}

// Catalog is the external content catalog. Implementations must be safe for
// concurrent use.
type Catalog interface {
	Discover(ctx context.Context, media MediaType, f DiscoverFilter) ([]Item, error)
	Popular(ctx context.Context, media MediaType, page int) ([]Item, error)
	TopRated(ctx context.Context, media MediaType, page int) ([]Item, error)
	Trending(ctx context.Context, media MediaType, page int) ([]Item, error)
	Upcoming(ctx context.Context, media MediaType, page int) ([]Item, error)
}
