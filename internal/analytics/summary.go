// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

package analytics

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"
)

const queryTimeout = 30 * time.Second

// VariantSummary aggregates one variant's experiment data.
type VariantSummary struct {
	Variant       string  `json:"variant"`
	Sessions      int64   `json:"sessions"`
	Exposures     int64   `json:"exposures"`
	ItemsShown    int64   `json:"itemsShown"`
	AvgCandidates float64 `json:"avgCandidates"`
	AvgDurationMS float64 `json:"avgDurationMs"`
	Likes         int64   `json:"likes"`
	Dislikes      int64   `json:"dislikes"`

	// LikeRate is likes over all feedback, 0 when there is none.
	LikeRate float64 `json:"likeRate"`
}

// Summary returns one row per variant seen in any table, ordered by variant.
// The variants in baseline are always present, zero-filled if needed.
func (s *Store) Summary(ctx context.Context, baseline ...string) ([]VariantSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrStoreClosed
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	byVariant := make(map[string]*VariantSummary)
	get := func(v string) *VariantSummary {
		if vs, ok := byVariant[v]; ok {
			return vs
		}
		vs := &VariantSummary{Variant: v}
		byVariant[v] = vs
		return vs
	}
	for _, v := range baseline {
		get(v)
	}

	err := s.queryEach(ctx, `SELECT variant, COUNT(*) FROM assignments GROUP BY variant`,
		func(rows *sql.Rows) error {
			var v string
			var n int64
			if err := rows.Scan(&v, &n); err != nil {
				return err
			}
			get(v).Sessions = n
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("summarize assignments: %w", err)
	}

	err = s.queryEach(ctx, `
		SELECT variant,
		       COUNT(*),
		       CAST(COALESCE(SUM(items_shown), 0) AS BIGINT),
		       COALESCE(AVG(total_candidates), 0),
		       COALESCE(AVG(duration_ms), 0)
		FROM exposures
		GROUP BY variant`,
		func(rows *sql.Rows) error {
			var (
				v             string
				n, shown      int64
				avgCandidates float64
				avgDuration   float64
			)
			if err := rows.Scan(&v, &n, &shown, &avgCandidates, &avgDuration); err != nil {
				return err
			}
			vs := get(v)
			vs.Exposures = n
			vs.ItemsShown = shown
			vs.AvgCandidates = avgCandidates
			vs.AvgDurationMS = avgDuration
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("summarize exposures: %w", err)
	}

	err = s.queryEach(ctx, `
		SELECT variant,
		       COUNT(*) FILTER (WHERE liked),
		       COUNT(*) FILTER (WHERE NOT liked)
		FROM feedback
		GROUP BY variant`,
		func(rows *sql.Rows) error {
			var v string
			var likes, dislikes int64
			if err := rows.Scan(&v, &likes, &dislikes); err != nil {
				return err
			}
			vs := get(v)
			vs.Likes = likes
			vs.Dislikes = dislikes
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("summarize feedback: %w", err)
	}

	out := make([]VariantSummary, 0, len(byVariant))
	for _, vs := range byVariant {
		if total := vs.Likes + vs.Dislikes; total > 0 {
			vs.LikeRate = float64(vs.Likes) / float64(total)
		}
		out = append(out, *vs)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Variant < out[j].Variant })
	return out, nil
}

// TopContent returns the most frequently shown content IDs for a variant.
func (s *Store) TopContent(ctx context.Context, variant string, limit int) ([]ContentExposure, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrStoreClosed
	}
	if limit <= 0 {
		limit = 10
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var out []ContentExposure
	err := s.queryEach(ctx, `
		SELECT i.content_id, i.media_type, COUNT(*) AS shown, AVG(i.rank) AS avg_rank
		FROM exposure_items i
		JOIN exposures e ON e.request_id = i.request_id
		WHERE e.variant = ?
		GROUP BY i.content_id, i.media_type
		ORDER BY shown DESC, avg_rank ASC, i.content_id ASC
		LIMIT ?`,
		func(rows *sql.Rows) error {
			var c ContentExposure
			if err := rows.Scan(&c.ContentID, &c.MediaType, &c.Shown, &c.AvgRank); err != nil {
				return err
			}
			out = append(out, c)
			return nil
		}, variant, limit)
	if err != nil {
		return nil, fmt.Errorf("top content: %w", err)
	}
	if out == nil {
		out = []ContentExposure{}
	}
	return out, nil
}

// ContentExposure counts how often a title was shown.
type ContentExposure struct {
	ContentID int     `json:"contentId"`
	MediaType string  `json:"mediaType"`
	Shown     int64   `json:"shown"`
	AvgRank   float64 `json:"avgRank"`
}

func (s *Store) queryEach(ctx context.Context, query string, scan func(*sql.Rows) error, args ...any) error {
	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}
