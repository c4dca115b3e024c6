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
	"github.com/tomtom215/curator/internal/profile"
	"github.com/tomtom215/curator/internal/recommend"
)

// maxImplicitRating is the largest possible implicit rating: the top kind
// weight (1.0) times (1 + a perfect engagement score).
const maxImplicitRating = 2.0

// NeighborFinder finds profiles similar to a given one.
type NeighborFinder interface {
	Similar(ctx context.Context, p *profile.Profile, maxNeighbors int, threshold float64) ([]profile.Neighbor, error)
}

// HistorySource reads one identity's interactions.
type HistorySource interface {
	InteractionsFor(ctx context.Context, id models.Identity, since time.Time) ([]interactions.Record, error)
}

// Collaborative recommends what similar visitors engaged with.
//
//	score(c) = sum over neighbors n who interacted with c of
//	           min(avg_rating_n(c) / 2, 1)
//	           divided by the number of neighbors
//
// Neighbors are the profiles whose category-preference cosine similarity
// exceeds the threshold, at most MaxNeighbors of them.
type Collaborative struct {
	BaseStrategy

	neighbors    NeighborFinder
	history      HistorySource
	maxNeighbors int
	threshold    float64
	window       time.Duration
}

// CollaborativeConfig contains configuration for collaborative filtering.
type CollaborativeConfig struct {
	MaxNeighbors        int
	SimilarityThreshold float64
	MinScore            float64

	// Window bounds the neighbor history that is read.
	Window time.Duration
}

// NewCollaborative creates a collaborative strategy.
func NewCollaborative(neighbors NeighborFinder, history HistorySource, cfg CollaborativeConfig) *Collaborative {
	if cfg.MaxNeighbors <= 0 {
		cfg.MaxNeighbors = 10
	}
	if cfg.SimilarityThreshold == 0 {
		cfg.SimilarityThreshold = 0.3
	}
	if cfg.MinScore == 0 {
		cfg.MinScore = 0.1
	}
	if cfg.Window <= 0 {
		cfg.Window = 90 * 24 * time.Hour
	}
	return &Collaborative{
		BaseStrategy: NewBaseStrategy(recommend.SourceCollaborative, cfg.MinScore),
		neighbors:    neighbors,
		history:      history,
		maxNeighbors: cfg.MaxNeighbors,
		threshold:    cfg.SimilarityThreshold,
		window:       cfg.Window,
	}
}

// Applicable requires a profile.
func (c *Collaborative) Applicable(in *recommend.Input) bool {
	return in.Profile != nil
}

// Score aggregates neighbor ratings over the candidates.
func (c *Collaborative) Score(ctx context.Context, in *recommend.Input) ([]recommend.Score, error) {
	if in.Profile == nil {
		return nil, nil
	}
	neighbors, err := c.neighbors.Similar(ctx, in.Profile, c.maxNeighbors, c.threshold)
	if err != nil {
		return nil, fmt.Errorf("find neighbors: %w", err)
	}
	if len(neighbors) == 0 {
		return nil, nil
	}

	candidates := make(map[string]struct{}, len(in.Candidates))
	for i := range in.Candidates {
		candidates[in.Candidates[i].Item.ID] = struct{}{}
	}

	since := in.Now.Add(-c.window)
	totals := make(map[string]float64)
	counts := make(map[string]int)
	for _, n := range neighbors {
		if ContextCancelled(ctx) {
			return nil, ctx.Err()
		}
		recs, err := c.history.InteractionsFor(ctx, n.Profile.Identity, since)
		if err != nil {
			return nil, fmt.Errorf("load neighbor history: %w", err)
		}
		for itemID, rating := range interactions.AverageRatings(recs) {
			if _, ok := candidates[itemID]; !ok || rating <= 0 {
				continue
			}
			totals[itemID] += clampUnit(rating / maxImplicitRating)
			counts[itemID]++
		}
	}

	out := make([]recommend.Score, 0, len(totals))
	for itemID, total := range totals {
		score := total / float64(len(neighbors))
		if !c.emit(score) {
			continue
		}
		out = append(out, recommend.Score{
			ItemID: itemID,
			Score:  score,
			Reason: readersLikeYou(counts[itemID]),
			Metadata: map[string]float64{
				"neighbors":  float64(counts[itemID]),
				"avg_rating": total / float64(counts[itemID]) * maxImplicitRating,
				"pool":       float64(len(neighbors)),
			},
		})
	}
	return out, nil
}

func readersLikeYou(n int) string {
	if n == 1 {
		return "Read by a visitor with similar interests"
	}
	return fmt.Sprintf("Read by %d visitors with similar interests", n)
}
