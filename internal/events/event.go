// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package events

import (
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/curator/internal/interactions"
)

// DefaultTopic is the topic interaction events are published on.
const DefaultTopic = "interaction.recorded"

// ErrInvalidEvent marks a payload that can never be applied.
var ErrInvalidEvent = errors.New("invalid interaction event")

// InteractionEvent is the payload of an interaction.recorded message.
type InteractionEvent struct {
	EventID     string              `json:"event_id"`
	Record      interactions.Record `json:"record"`
	PublishedAt time.Time           `json:"published_at"`
}

// NewInteractionEvent wraps rec. The event id is the record id when it is
// set, so a republished record is deduplicated by JetStream.
func NewInteractionEvent(rec *interactions.Record, now time.Time) *InteractionEvent {
	id := rec.ID
	if id == "" {
		id = uuid.New().String()
	}
	return &InteractionEvent{EventID: id, Record: *rec, PublishedAt: now.UTC()}
}

// Validate checks the fields the profile update depends on.
func (e *InteractionEvent) Validate() error {
	switch {
	case e.EventID == "":
		return fmt.Errorf("%w: missing event id", ErrInvalidEvent)
	case e.Record.ItemID == "":
		return fmt.Errorf("%w: missing item id", ErrInvalidEvent)
	case e.Record.Identity.IsZero():
		return fmt.Errorf("%w: identity has neither account nor session", ErrInvalidEvent)
	case e.Record.Kind == "":
		return fmt.Errorf("%w: missing kind", ErrInvalidEvent)
	}
	return nil
}

// Encode serializes e.
func (e *InteractionEvent) Encode() ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("encode interaction event: %w", err)
	}
	return data, nil
}

// DecodeInteractionEvent parses and validates a payload.
func DecodeInteractionEvent(data []byte) (*InteractionEvent, error) {
	var e InteractionEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return &e, nil
}
