// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

/*
schema.go - Analytics Schema

Tables:
  - assignments: first variant assignment per session
  - exposures: one row per ranked list served
  - exposure_items: the ranked entries of each exposure
  - feedback: likes and dislikes attributed to a variant

Every table has a natural key so that replayed events are ignored with
ON CONFLICT DO NOTHING.
*/

//nolint:staticcheck // File documentation, not package doc
package analytics

import (
	"context"
	"fmt"
	"time"
)

const schemaTimeout = 30 * time.Second

func tableCreationQueries() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS assignments (
			session_id TEXT PRIMARY KEY,
			variant TEXT NOT NULL,
			source TEXT NOT NULL,
			assigned_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS exposures (
			request_id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			variant TEXT NOT NULL,
			total_candidates INTEGER NOT NULL,
			items_shown INTEGER NOT NULL,
			duration_ms BIGINT NOT NULL,
			occurred_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS exposure_items (
			request_id TEXT NOT NULL,
			rank INTEGER NOT NULL,
			content_id INTEGER NOT NULL,
			media_type TEXT NOT NULL,
			score DOUBLE NOT NULL,
			PRIMARY KEY (request_id, rank)
		)`,
		`CREATE TABLE IF NOT EXISTS feedback (
			session_id TEXT NOT NULL,
			content_id INTEGER NOT NULL,
			variant TEXT NOT NULL,
			liked BOOLEAN NOT NULL,
			occurred_at TIMESTAMP NOT NULL,
			PRIMARY KEY (session_id, content_id, occurred_at)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_exposures_variant ON exposures(variant)`,
		`CREATE INDEX IF NOT EXISTS idx_feedback_variant ON feedback(variant)`,
	}
}

// createTables creates the schema if it does not exist.
func (s *Store) createTables(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, schemaTimeout)
	defer cancel()

	for _, query := range tableCreationQueries() {
		if _, err := s.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}
	return nil
}
