// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

package discussion

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned by NewClient when no proxy URL is set.
var ErrNotConfigured = errors.New("discussion proxy not configured")

// Post is one search hit.
type Post struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Body        string `json:"selftext"`
	Upvotes     int    `json:"ups"`
	NumComments int    `json:"num_comments"`
	Source      string `json:"subreddit"`
}

// Comment is a node in a comment tree.
type Comment struct {
	Body    string    `json:"body"`
	Upvotes int       `json:"ups"`
	Replies []Comment `json:"replies,omitempty"`
}

// CommentThread holds the top-level comments of one post.
type CommentThread struct {
	PostID   string    `json:"postId"`
	Comments []Comment `json:"comments"`
}

// SearchResult is the proxy response.
type SearchResult struct {
	Posts        []Post          `json:"posts"`
	CommentsData []CommentThread `json:"commentsData,omitempty"`
}

// FlattenComments returns every comment, replies included, depth first.
func (r *SearchResult) FlattenComments() []Comment {
	var out []Comment
	var walk func(cs []Comment)
	walk = func(cs []Comment) {
		for i := range cs {
			out = append(out, cs[i])
			walk(cs[i].Replies)
		}
	}
	for i := range r.CommentsData {
		walk(r.CommentsData[i].Comments)
	}
	return out
}

// Searcher searches discussion sites. Implementations must be safe for
// concurrent use.
type Searcher interface {
	Search(ctx context.Context, query string, fetchComments bool) (*SearchResult, error)
}
