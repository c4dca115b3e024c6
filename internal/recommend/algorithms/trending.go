// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package algorithms

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/curator/internal/interactions"
	"github.com/tomtom215/curator/internal/models"
	"github.com/tomtom215/curator/internal/recommend"
)

// ActivitySource aggregates recent interactions per item.
type ActivitySource interface {
	ItemActivity(ctx context.Context, since time.Time) (map[string]interactions.Activity, error)
}

// Trending recommends items with strong recent engagement.
//
//	score(c) = 0.5 * avg_engagement_7d(c) + 0.5 * popularity(c) / max_popularity
//	popularity(c) = views + 2*likes + 3*comments
//
// Only items published or interacted with inside the window are eligible.
// It needs no profile.
type Trending struct {
	BaseStrategy

	activity         ActivitySource
	window           time.Duration
	engagementWeight float64
}

// TrendingConfig contains configuration for the trending strategy.
type TrendingConfig struct {
	Window   time.Duration
	MinScore float64

	// EngagementWeight is the share of the score taken by recent
	// engagement; the rest goes to normalized counters. Default 0.5.
	EngagementWeight float64
}

// NewTrending creates a trending strategy.
func NewTrending(activity ActivitySource, cfg TrendingConfig) *Trending {
	if cfg.Window <= 0 {
		cfg.Window = 7 * 24 * time.Hour
	}
	if cfg.MinScore == 0 {
		cfg.MinScore = 0.05
	}
	if cfg.EngagementWeight <= 0 || cfg.EngagementWeight > 1 {
		cfg.EngagementWeight = 0.5
	}
	return &Trending{
		BaseStrategy:     NewBaseStrategy(recommend.SourceTrending, cfg.MinScore),
		activity:         activity,
		window:           cfg.Window,
		engagementWeight: cfg.EngagementWeight,
	}
}

// Applicable always holds.
func (t *Trending) Applicable(*recommend.Input) bool {
	return true
}

// Score rates the candidates that were active in the window.
func (t *Trending) Score(ctx context.Context, in *recommend.Input) ([]recommend.Score, error) {
	since := in.Now.Add(-t.window)
	activity, err := t.activity.ItemActivity(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("load item activity: %w", err)
	}

	eligible := make([]*models.ContentItem, 0, len(in.Candidates))
	maxPop := 0.0
	for i := range in.Candidates {
		item := &in.Candidates[i].Item
		if item.PublishedAt.Before(since) && activity[item.ID].Interactions == 0 {
			continue
		}
		eligible = append(eligible, item)
		if pop := popularity(item); pop > maxPop {
			maxPop = pop
		}
	}

	out := make([]recommend.Score, 0, len(eligible))
	for _, item := range eligible {
		act := activity[item.ID]
		pop := 0.0
		if maxPop > 0 {
			pop = popularity(item) / maxPop
		}
		score := t.engagementWeight*clampUnit(act.AvgEngagement) + (1-t.engagementWeight)*pop
		if !t.emit(score) {
			continue
		}
		out = append(out, recommend.Score{
			ItemID: item.ID,
			Score:  clampUnit(score),
			Reason: "Trending this week",
			Metadata: map[string]float64{
				"recent_engagement":   act.AvgEngagement,
				"recent_interactions": float64(act.Interactions),
				"popularity":          pop,
			},
		})
	}
	return out, nil
}

func popularity(item *models.ContentItem) float64 {
	return float64(item.Views) + 2*float64(item.Likes) + 3*float64(item.Comments)
}
