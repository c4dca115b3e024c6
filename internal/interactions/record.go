// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package interactions

import (
	"errors"
	"math"
	"time"

	"github.com/tomtom215/curator/internal/models"
)

// Validation errors. Nothing is written when one is returned.
var (
	ErrUnknownKind        = errors.New("unknown interaction kind")
	ErrMissingIdentity    = errors.New("account id or session id is required")
	ErrInvalidItem        = errors.New("content item id is required")
	ErrInvalidMeasurement = errors.New("time spent, scroll depth and position must not be negative")
)

// Record is one immutable interaction row.
type Record struct {
	ID          string          `json:"id"`
	Identity    models.Identity `json:"identity"`
	ItemID      string          `json:"item_id"`
	Kind        Kind            `json:"kind"`
	TimeSpent   float64         `json:"time_spent"` // seconds
	ScrollDepth float64         `json:"scroll_depth"`
	Completed   bool            `json:"completed"`
	Source      string          `json:"source,omitempty"`
	Reason      string          `json:"reason,omitempty"`
	Score       float64         `json:"score,omitempty"`
	Position    int             `json:"position,omitempty"`
	Engagement  float64         `json:"engagement_score"`
	CreatedAt   time.Time       `json:"created_at"`
}

// IsImpression reports whether r is a synthetic view written by the
// recommendation engine for an item it returned.
func (r *Record) IsImpression() bool {
	return r.Kind == KindView && r.Source != ""
}

// IsRecommendationClick reports whether r is a click on a recommendation.
func (r *Record) IsRecommendationClick() bool {
	return r.Kind == KindRecommendationClick
}

// HighEngagement reports whether r counts as relevant for evaluation.
func (r *Record) HighEngagement() bool {
	return r.Engagement > 0.5 || r.Completed
}

// ImplicitRating is kind weight * (1 + engagement).
func (r *Record) ImplicitRating() float64 {
	return r.Kind.Weight() * (1 + r.Engagement)
}

// DeriveEngagement scores an interaction in [0, 1] from its measurements:
//
//	min(time/300, 1)*0.4 + scroll/100*0.3 + completed*0.2 + kind weight*0.1
func DeriveEngagement(kind Kind, timeSpent, scrollDepth float64, completed bool) float64 {
	score := math.Min(timeSpent/300, 1)*0.4 + math.Min(scrollDepth, 100)/100*0.3 + kind.Weight()*0.1
	if completed {
		score += 0.2
	}
	return math.Max(0, math.Min(score, 1))
}
