// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

package experiment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

// DefaultSessionTTL is how long a store keeps an assignment.
const DefaultSessionTTL = 7 * 24 * time.Hour

const assignmentKeyPrefix = "assignment:"

// maxConflictRetries bounds retries of a PutIfAbsent transaction that lost
// a write conflict.
const maxConflictRetries = 3

// BadgerStore keeps assignments in BadgerDB with a per-entry TTL.
type BadgerStore struct {
	db  *badger.DB
	ttl time.Duration

	// owned is true when Close should close db.
	owned bool
}

// OpenBadgerStore opens a BadgerDB at path. An empty path opens an
// in-memory database.
func OpenBadgerStore(path string, ttl time.Duration) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil
	opts.ValueLogFileSize = 16 << 20

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db for assignments: %w", err)
	}

	s := NewBadgerStoreFromDB(db, ttl)
	s.owned = true
	return s, nil
}

// NewBadgerStoreFromDB creates a store on an existing BadgerDB. The caller
// keeps ownership of db.
func NewBadgerStoreFromDB(db *badger.DB, ttl time.Duration) *BadgerStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &BadgerStore{db: db, ttl: ttl}
}

// Get implements Store.
func (s *BadgerStore) Get(_ context.Context, sessionID string) (Assignment, error) {
	var a Assignment
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		a, err = getAssignment(txn, sessionID)
		return err
	})
	if err != nil {
		return Assignment{}, err
	}
	return a, nil
}

// PutIfAbsent implements Store. The check and the write happen in one
// transaction.
func (s *BadgerStore) PutIfAbsent(_ context.Context, a Assignment) (Assignment, error) {
	data, err := json.Marshal(a)
	if err != nil {
		return Assignment{}, fmt.Errorf("marshal assignment: %w", err)
	}

	var stored Assignment
	for attempt := 0; ; attempt++ {
		err = s.db.Update(func(txn *badger.Txn) error {
			existing, err := getAssignment(txn, a.SessionID)
			if err == nil {
				stored = existing
				return nil
			}
			if !errors.Is(err, ErrAssignmentNotFound) {
				return err
			}

			entry := badger.NewEntry(assignmentKey(a.SessionID), data).WithTTL(s.ttl)
			if err := txn.SetEntry(entry); err != nil {
				return fmt.Errorf("set assignment: %w", err)
			}
			stored = a
			return nil
		})
		if errors.Is(err, badger.ErrConflict) && attempt < maxConflictRetries {
			continue
		}
		break
	}
	if err != nil {
		return Assignment{}, err
	}
	return stored, nil
}

// Close closes the database if the store opened it.
func (s *BadgerStore) Close() error {
	if !s.owned {
		return nil
	}
	return s.db.Close()
}

// RunGC runs one value log garbage collection pass. badger.ErrNoRewrite
// means there was nothing to collect and is not an error.
func (s *BadgerStore) RunGC() error {
	if s.db.Opts().InMemory {
		return nil
	}
	err := s.db.RunValueLogGC(0.5)
	if err != nil && !errors.Is(err, badger.ErrNoRewrite) {
		return fmt.Errorf("badger value log gc: %w", err)
	}
	return nil
}

func getAssignment(txn *badger.Txn, sessionID string) (Assignment, error) {
	var a Assignment
	item, err := txn.Get(assignmentKey(sessionID))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return a, ErrAssignmentNotFound
	}
	if err != nil {
		return a, fmt.Errorf("get assignment: %w", err)
	}
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &a)
	})
	if err != nil {
		return a, fmt.Errorf("decode assignment: %w", err)
	}
	return a, nil
}

func assignmentKey(sessionID string) []byte {
	return []byte(assignmentKeyPrefix + sessionID)
}
