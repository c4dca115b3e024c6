// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/tomtom215/curator/internal/interactions"
	"github.com/tomtom215/curator/internal/models"
)

// RecommendationsRequest holds the query parameters of
// GET /api/v1/recommendations. Limit 0 means the engine default.
type RecommendationsRequest struct {
	AccountID     int64  `json:"account_id" validate:"min=0"`
	SessionID     string `json:"session_id" validate:"omitempty,identifier"`
	ContextItemID string `json:"context_item_id" validate:"omitempty,identifier"`
	Limit         int    `json:"limit" validate:"omitempty,min=1,max=20"`
}

// Identity returns the visitor identity named by the request.
func (r *RecommendationsRequest) Identity() models.Identity {
	return models.Identity{AccountID: r.AccountID, SessionID: r.SessionID}
}

// InteractionRequest is the body of POST /api/v1/interactions.
type InteractionRequest struct {
	AccountID   int64      `json:"account_id" validate:"min=0"`
	SessionID   string     `json:"session_id" validate:"omitempty,identifier"`
	ItemID      string     `json:"item_id" validate:"required,identifier"`
	Kind        string     `json:"kind" validate:"required,oneof=view click like share comment bookmark recommendation-click"`
	TimeSpent   float64    `json:"time_spent" validate:"min=0"`
	ScrollDepth float64    `json:"scroll_depth" validate:"min=0,max=100"`
	Completed   bool       `json:"completed"`
	Source      string     `json:"source" validate:"omitempty,max=64"`
	Position    int        `json:"position" validate:"min=0"`
	Engagement  *float64   `json:"engagement_score" validate:"omitempty,unit"`
	OccurredAt  *time.Time `json:"occurred_at"`
}

// Report converts the request into an interaction report.
func (r *InteractionRequest) Report() interactions.Report {
	rep := interactions.Report{
		Identity:    models.Identity{AccountID: r.AccountID, SessionID: r.SessionID},
		ItemID:      r.ItemID,
		Kind:        r.Kind,
		TimeSpent:   r.TimeSpent,
		ScrollDepth: r.ScrollDepth,
		Completed:   r.Completed,
		Source:      r.Source,
		Position:    r.Position,
		Engagement:  r.Engagement,
	}
	if r.OccurredAt != nil {
		rep.OccurredAt = *r.OccurredAt
	}
	return rep
}

// MetricsRequest holds the query parameters of GET /api/v1/admin/metrics.
type MetricsRequest struct {
	Days int `json:"days" validate:"min=1,max=365"`
	K    int `json:"k" validate:"min=1,max=100"`
}

// BatchRequest is the optional body of the batch maintenance triggers.
type BatchRequest struct {
	Limit int `json:"limit" validate:"omitempty,min=1,max=100000"`
}

// queryInt64 parses an optional integer query parameter.
func queryInt64(r *http.Request, key string, defaultValue int64) (int64, error) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	return n, nil
}

// queryInt parses an optional int query parameter.
func queryInt(r *http.Request, key string, defaultValue int) (int, error) {
	n, err := queryInt64(r, key, int64(defaultValue))
	if err != nil {
		return 0, err
	}
	if n != int64(int(n)) {
		return 0, fmt.Errorf("%s is out of range", key)
	}
	return int(n), nil
}
