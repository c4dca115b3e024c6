// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package interactions

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/curator/internal/metrics"
	"github.com/tomtom215/curator/internal/models"
)

// Repository appends rows. There is no update or delete.
type Repository interface {
	AppendInteractions(ctx context.Context, records []Record) error
}

// Listener is notified after a reported interaction has been written.
type Listener interface {
	InteractionRecorded(ctx context.Context, rec Record) error
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(ctx context.Context, rec Record) error

// InteractionRecorded implements Listener.
func (f ListenerFunc) InteractionRecorded(ctx context.Context, rec Record) error {
	return f(ctx, rec)
}

// Report is an interaction reported by a calling surface.
type Report struct {
	Identity    models.Identity
	ItemID      string
	Kind        string
	TimeSpent   float64
	ScrollDepth float64
	Completed   bool
	Source      string
	Position    int
	Engagement  *float64 // derived when nil
	OccurredAt  time.Time
}

// Log validates and appends interactions.
type Log struct {
	repo     Repository
	listener atomic.Pointer[Listener]
	now      func() time.Time
	logger   zerolog.Logger
}

// NewLog creates a log over repo.
//
//nolint:gocritic // hugeParam: zerolog.Logger is designed to be passed by value
func NewLog(repo Repository, logger zerolog.Logger) *Log {
	return &Log{
		repo:   repo,
		now:    time.Now,
		logger: logger.With().Str("component", "interaction_log").Logger(),
	}
}

// SetListener installs the post-append listener. nil removes it.
func (l *Log) SetListener(lst Listener) {
	if lst == nil {
		l.listener.Store(nil)
		return
	}
	l.listener.Store(&lst)
}

// Record validates rep, appends it and notifies the listener. A click
// carrying a recommendation source is stored as recommendation-click.
// Listener failures are logged; the append has already succeeded.
func (l *Log) Record(ctx context.Context, rep Report) (Record, error) {
	rec, err := l.build(rep)
	if err != nil {
		return Record{}, err
	}
	if err := l.repo.AppendInteractions(ctx, []Record{rec}); err != nil {
		return Record{}, fmt.Errorf("append interaction: %w", err)
	}
	metrics.RecordInteraction(string(rec.Kind))

	if p := l.listener.Load(); p != nil {
		if err := (*p).InteractionRecorded(ctx, rec); err != nil {
			l.logger.Warn().Err(err).
				Str("interaction_id", rec.ID).
				Str("identity", rec.Identity.Key()).
				Msg("Interaction listener failed")
		}
	}
	return rec, nil
}

// RecordImpressions appends synthetic view rows for returned
// recommendations. Listeners are not notified.
func (l *Log) RecordImpressions(ctx context.Context, recs []Record) error {
	if len(recs) == 0 {
		return nil
	}
	now := l.now()
	for i := range recs {
		r := &recs[i]
		if r.Identity.IsZero() {
			return ErrMissingIdentity
		}
		if r.ItemID == "" {
			return ErrInvalidItem
		}
		r.Kind = KindView
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		if r.CreatedAt.IsZero() {
			r.CreatedAt = now
		}
	}
	if err := l.repo.AppendInteractions(ctx, recs); err != nil {
		return fmt.Errorf("append impressions: %w", err)
	}
	for range recs {
		metrics.RecordInteraction("impression")
	}
	return nil
}

func (l *Log) build(rep Report) (Record, error) {
	if rep.Identity.IsZero() {
		return Record{}, ErrMissingIdentity
	}
	itemID := strings.TrimSpace(rep.ItemID)
	if itemID == "" {
		return Record{}, ErrInvalidItem
	}
	kind, err := ParseKind(rep.Kind)
	if err != nil {
		return Record{}, err
	}
	if rep.TimeSpent < 0 || rep.ScrollDepth < 0 || rep.Position < 0 ||
		!finite(rep.TimeSpent) || !finite(rep.ScrollDepth) ||
		(rep.Engagement != nil && !finite(*rep.Engagement)) {
		return Record{}, ErrInvalidMeasurement
	}
	switch {
	case kind == KindClick && rep.Source != "":
		kind = KindRecommendationClick
	case kind == KindView:
		// only the engine writes sourced views
		rep.Source, rep.Position = "", 0
	}

	rec := Record{
		ID:          uuid.NewString(),
		Identity:    rep.Identity,
		ItemID:      itemID,
		Kind:        kind,
		TimeSpent:   rep.TimeSpent,
		ScrollDepth: math.Min(rep.ScrollDepth, 100),
		Completed:   rep.Completed,
		Source:      rep.Source,
		Position:    rep.Position,
		CreatedAt:   rep.OccurredAt,
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = l.now()
	}
	if rep.Engagement != nil {
		rec.Engagement = math.Max(0, math.Min(*rep.Engagement, 1))
	} else {
		rec.Engagement = DeriveEngagement(kind, rec.TimeSpent, rec.ScrollDepth, rec.Completed)
	}
	return rec, nil
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
