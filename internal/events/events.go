// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Topics.
const (
	TopicAssignment = "experiment.assignment"
	TopicExposure   = "recommendation.exposure"
	TopicFeedback   = "recommendation.feedback"
)

// ErrBusClosed is returned by Publish after Close.
var ErrBusClosed = errors.New("event bus closed")

// AssignmentEvent records a new variant assignment.
type AssignmentEvent struct {
	SessionID  string    `json:"sessionId"`
	Variant    string    `json:"variant"`
	Source     string    `json:"source"`
	AssignedAt time.Time `json:"assignedAt"`
}

// ExposedItem is one ranked entry of an exposure.
type ExposedItem struct {
	ContentID int     `json:"contentId"`
	MediaType string  `json:"mediaType"`
	Rank      int     `json:"rank"`
	Score     float64 `json:"score"`
}

// ExposureEvent records a ranked list shown to a session.
type ExposureEvent struct {
	SessionID       string        `json:"sessionId"`
	RequestID       string        `json:"requestId"`
	Variant         string        `json:"variant"`
	Items           []ExposedItem `json:"items"`
	TotalCandidates int           `json:"totalCandidates"`
	DurationMS      int64         `json:"durationMs"`
	OccurredAt      time.Time     `json:"occurredAt"`
}

// FeedbackEvent records a like or dislike attributed to a variant.
type FeedbackEvent struct {
	SessionID  string    `json:"sessionId"`
	ContentID  int       `json:"contentId"`
	Variant    string    `json:"variant"`
	Liked      bool      `json:"liked"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Publisher publishes a payload to a topic.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload any) error
}

// NopPublisher discards everything. It is used when events are disabled.
type NopPublisher struct{}

// Publish implements Publisher.
func (NopPublisher) Publish(context.Context, string, any) error { return nil }

// NewMessage encodes payload as a Watermill message with a fresh UUID.
func NewMessage(topic string, payload any) (*message.Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", topic, err)
	}
	msg := message.NewMessage(uuid.NewString(), data)
	msg.Metadata.Set("topic", topic)
	msg.Metadata.Set("content_type", "application/json")
	return msg, nil
}

// Decode unmarshals a message payload into T.
func Decode[T any](msg *message.Message) (T, error) {
	var v T
	if err := json.Unmarshal(msg.Payload, &v); err != nil {
		return v, fmt.Errorf("decode message %s: %w", msg.UUID, err)
	}
	return v, nil
}
