// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

package aggregate

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/cinequiz/internal/catalog"
	"github.com/tomtom215/cinequiz/internal/experiment"
	"github.com/tomtom215/cinequiz/internal/preference"
)

// Kind names a catalog endpoint. It is also the metrics label.
type Kind string

const (
	KindDiscover Kind = "discover"
	KindPopular  Kind = "popular"
	KindTopRated Kind = "top_rated"
	KindTrending Kind = "trending"
	KindUpcoming Kind = "upcoming"
	KindDecade   Kind = "decade"
)

// Query is one planned catalog call.
type Query struct {
	Kind   Kind
	Media  catalog.MediaType
	Page   int
	Filter catalog.DiscoverFilter
}

func (q Query) String() string {
	switch q.Kind {
	case KindDiscover:
		return fmt.Sprintf("%s/%s genres=%v page=%d", q.Kind, q.Media, q.Filter.Genres, q.Filter.Page)
	case KindDecade:
		return fmt.Sprintf("%s/%s %d-%d", q.Kind, q.Media, q.Filter.ReleasedAfter.Year(), q.Filter.ReleasedBefore.Year())
	default:
		return fmt.Sprintf("%s/%s page=%d", q.Kind, q.Media, q.Page)
	}
}

// run executes q against c.
func (q Query) run(ctx context.Context, c catalog.Catalog) ([]catalog.Item, error) {
	switch q.Kind {
	case KindDiscover, KindDecade:
		return c.Discover(ctx, q.Media, q.Filter)
	case KindPopular:
		return c.Popular(ctx, q.Media, q.Page)
	case KindTopRated:
		return c.TopRated(ctx, q.Media, q.Page)
	case KindTrending:
		return c.Trending(ctx, q.Media, q.Page)
	case KindUpcoming:
		return c.Upcoming(ctx, q.Media, q.Page)
	default:
		return nil, fmt.Errorf("unknown query kind %q", q.Kind)
	}
}

const (
	standardGenrePages = 1
	enhancedGenrePages = 3
	enhancedListPages  = 2
)

// classicDecades are the decade windows searched for classic-era fans.
var classicDecades = []int{1970, 1980, 1990}

// mediaTypes returns the catalog media types the profile asks for, movies
// first.
func mediaTypes(p *preference.Profile) []catalog.MediaType {
	var out []catalog.MediaType
	if p.WantsMovies() {
		out = append(out, catalog.MediaMovie)
	}
	if p.WantsTV() {
		out = append(out, catalog.MediaTV)
	}
	return out
}

// Plan returns the ordered queries for profile p under variant v.
func Plan(p *preference.Profile, v experiment.Variant) []Query {
	if v == experiment.VariantB {
		return planEnhanced(p)
	}
	return planStandard(p)
}

func planStandard(p *preference.Profile) []Query {
	return genreQueries(p, standardGenrePages)
}

func planEnhanced(p *preference.Profile) []Query {
	media := mediaTypes(p)
	var plan []Query

	for _, kind := range []Kind{KindTrending, KindPopular, KindTopRated} {
		for _, m := range media {
			for page := 1; page <= enhancedListPages; page++ {
				plan = append(plan, Query{Kind: kind, Media: m, Page: page})
			}
		}
	}

	plan = append(plan, genreQueries(p, enhancedGenrePages)...)

	switch p.Era {
	case preference.EraNew:
		for _, m := range media {
			for page := 1; page <= enhancedListPages; page++ {
				plan = append(plan, Query{Kind: KindUpcoming, Media: m, Page: page})
			}
		}
	case preference.EraClassic:
		for _, decade := range classicDecades {
			for _, m := range media {
				plan = append(plan, decadeQuery(p, m, decade))
			}
		}
	}
	return plan
}

// genreQueries plans one popularity-sorted discovery per genre, media type
// and page. Genres go in priority order, then by code.
func genreQueries(p *preference.Profile, pages int) []Query {
	media := mediaTypes(p)
	var plan []Query
	for _, g := range p.GenresByPriority() {
		for _, m := range media {
			for page := 1; page <= pages; page++ {
				plan = append(plan, Query{
					Kind:  KindDiscover,
					Media: m,
					Page:  page,
					Filter: catalog.DiscoverFilter{
						Genres: []int{g},
						SortBy: catalog.SortPopularityDesc,
						Page:   page,
					},
				})
			}
		}
	}
	return plan
}

func decadeQuery(p *preference.Profile, m catalog.MediaType, decade int) Query {
	f := catalog.DiscoverFilter{
		SortBy:         catalog.SortPopularityDesc,
		Page:           1,
		ReleasedAfter:  time.Date(decade, time.January, 1, 0, 0, 0, 0, time.UTC),
		ReleasedBefore: time.Date(decade+9, time.December, 31, 0, 0, 0, 0, time.UTC),
	}
	if len(p.Genres) > 0 {
		f.Genres = append([]int(nil), p.Genres...)
		f.MatchAnyGenre = true
	}
	return Query{Kind: KindDecade, Media: m, Page: 1, Filter: f}
}

// floorQueries broadens a thin result set with the first popular page of
// each requested media type.
func floorQueries(p *preference.Profile) []Query {
	var plan []Query
	for _, m := range mediaTypes(p) {
		plan = append(plan, Query{Kind: KindPopular, Media: m, Page: 1})
	}
	return plan
}
