// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

// Package analytics persists experiment events in DuckDB and answers
// per-variant summary queries.
//
// The store is written by the event router (it implements events.Sink) and
// read by the experiments summary endpoint. All writes are idempotent so
// redelivered messages do not double count.
package analytics

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cinequiz/internal/events"
)

// ErrStoreClosed is returned by every method after Close.
var ErrStoreClosed = errors.New("analytics store closed")

const writeTimeout = 10 * time.Second

// Config configures the DuckDB store.
type Config struct {
	// Path is the database file. Empty opens an in-memory database.
	Path string

	// Threads bounds DuckDB worker threads. Zero uses the CPU count.
	Threads int

	// MaxMemory is a DuckDB memory limit such as "512MB".
	MaxMemory string
}

// Store is a DuckDB-backed experiment event store.
type Store struct {
	conn   *sql.DB
	logger zerolog.Logger

	mu     sync.RWMutex
	closed bool
}

// Open opens (or creates) the database and its schema.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func Open(ctx context.Context, cfg Config, logger zerolog.Logger) (*Store, error) {
	if cfg.Path != "" {
		if dir := filepath.Dir(cfg.Path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("create analytics directory %s: %w", dir, err)
			}
		}
	}

	conn, err := sql.Open("duckdb", connString(cfg))
	if err != nil {
		return nil, fmt.Errorf("open analytics database: %w", err)
	}

	s := &Store{
		conn:   conn,
		logger: logger.With().Str("component", "analytics").Logger(),
	}

	if err := conn.PingContext(ctx); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("ping analytics database: %w", err)
	}
	if err := s.createTables(ctx); err != nil {
		closeQuietly(conn)
		return nil, err
	}

	s.logger.Info().Str("path", displayPath(cfg.Path)).Msg("analytics store ready")
	return s, nil
}

func connString(cfg Config) string {
	threads := cfg.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	dsn := fmt.Sprintf("%s?threads=%d&autoinstall_known_extensions=false&autoload_known_extensions=false", displayPath(cfg.Path), threads)
	if cfg.MaxMemory != "" {
		dsn += "&max_memory=" + cfg.MaxMemory
	}
	return dsn
}

func displayPath(p string) string {
	if p == "" {
		return ":memory:"
	}
	return p
}

// RecordAssignment stores the first assignment seen for a session.
func (s *Store) RecordAssignment(ctx context.Context, e events.AssignmentEvent) error {
	return s.exec(ctx, "record assignment",
		`INSERT INTO assignments (session_id, variant, source, assigned_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (session_id) DO NOTHING`,
		e.SessionID, e.Variant, e.Source, e.AssignedAt.UTC())
}

// RecordExposure stores a ranked list and its items in one transaction.
func (s *Store) RecordExposure(ctx context.Context, e events.ExposureEvent) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrStoreClosed
	}

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("record exposure: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO exposures (request_id, session_id, variant, total_candidates, items_shown, duration_ms, occurred_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (request_id) DO NOTHING`,
		e.RequestID, e.SessionID, e.Variant, e.TotalCandidates, len(e.Items), e.DurationMS, e.OccurredAt.UTC())
	if err != nil {
		return fmt.Errorf("record exposure: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Redelivery of an exposure already stored.
		return nil
	}

	for _, it := range e.Items {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO exposure_items (request_id, rank, content_id, media_type, score)
			 VALUES (?, ?, ?, ?, ?)`,
			e.RequestID, it.Rank, it.ContentID, it.MediaType, it.Score); err != nil {
			return fmt.Errorf("record exposure item %d: %w", it.ContentID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("record exposure: commit: %w", err)
	}
	return nil
}

// RecordFeedback stores a like or dislike.
func (s *Store) RecordFeedback(ctx context.Context, e events.FeedbackEvent) error {
	return s.exec(ctx, "record feedback",
		`INSERT INTO feedback (session_id, content_id, variant, liked, occurred_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (session_id, content_id, occurred_at) DO NOTHING`,
		e.SessionID, e.ContentID, e.Variant, e.Liked, e.OccurredAt.UTC())
}

// Prune deletes rows that occurred before cutoff and returns how many
// exposures were removed.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, ErrStoreClosed
	}

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	cutoff = cutoff.UTC()

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("prune: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM exposure_items WHERE request_id IN
		 (SELECT request_id FROM exposures WHERE occurred_at < ?)`, cutoff); err != nil {
		return 0, fmt.Errorf("prune exposure items: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM exposures WHERE occurred_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune exposures: %w", err)
	}
	removed, _ := res.RowsAffected()
	if _, err := tx.ExecContext(ctx, `DELETE FROM feedback WHERE occurred_at < ?`, cutoff); err != nil {
		return 0, fmt.Errorf("prune feedback: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM assignments WHERE assigned_at < ?`, cutoff); err != nil {
		return 0, fmt.Errorf("prune assignments: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("prune: commit: %w", err)
	}
	return removed, nil
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrStoreClosed
	}
	return s.conn.PingContext(ctx)
}

// Close closes the database. It is safe to call more than once.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.conn.Close(); err != nil {
		return fmt.Errorf("close analytics database: %w", err)
	}
	return nil
}

func (s *Store) exec(ctx context.Context, op, query string, args ...any) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrStoreClosed
	}

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if _, err := s.conn.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// closeQuietly closes a resource during cleanup, ignoring the error.
func closeQuietly(c io.Closer) {
	if c != nil {
		_ = c.Close()
	}
}

var _ events.Sink = (*Store)(nil)
