// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

// Package sentiment scores short English text such as discussion post
// titles and comments.
//
// It wraps govader, a Go port of VADER (Valence Aware Dictionary and
// sEntiment Reasoner). VADER handles negation ("not good"), intensifiers
// ("really bad"), capitalization, exclamation marks and common internet
// slang, which covers most of what appears in film discussion threads.
//
// Comparative is VADER's compound score, normalized into [-1, 1]. Texts of
// different lengths are directly comparable, so callers may average it
// across posts.
//
// An Analyzer is safe for concurrent use.
package sentiment
