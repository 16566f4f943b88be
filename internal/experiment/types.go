// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

package experiment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrAssignmentNotFound is returned by Lookup and Store.Get for unknown
// sessions.
var ErrAssignmentNotFound = errors.New("assignment not found")

// Variant is a ranking strategy.
type Variant string

const (
	// VariantA is the standard strategy.
	VariantA Variant = "A"
	// VariantB is the enhanced strategy.
	VariantB Variant = "B"
)

// Valid reports whether v is A or B.
func (v Variant) Valid() bool {
	return v == VariantA || v == VariantB
}

// ParseVariant accepts "A", "B", "standard" and "enhanced", case-insensitively.
// The empty string parses to "" with no error, meaning no preference.
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return "", nil
	case "a", "standard":
		return VariantA, nil
	case "b", "enhanced":
		return VariantB, nil
	default:
		return "", fmt.Errorf("unknown variant %q", s)
	}
}

// Source records how a variant was chosen.
type Source string

const (
	SourceExplicit Source = "explicit"
	SourceRandom   Source = "random"
)

// Assignment binds a session to a variant.
type Assignment struct {
	SessionID  string    `json:"sessionId"`
	Variant    Variant   `json:"algorithmVariant"`
	Source     Source    `json:"source"`
	AssignedAt time.Time `json:"assignedAt"`
}

// Store persists assignments.
type Store interface {
	// Get returns ErrAssignmentNotFound for unknown or expired sessions.
	Get(ctx context.Context, sessionID string) (Assignment, error)

	// PutIfAbsent stores a unless the session already has an assignment,
	// and returns whichever assignment is now stored.
	PutIfAbsent(ctx context.Context, a Assignment) (Assignment, error)
}
