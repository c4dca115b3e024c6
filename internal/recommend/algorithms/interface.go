// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package algorithms

import (
	"context"

	"github.com/tomtom215/curator/internal/recommend"
)

// checkEvery is how many candidates a strategy scores between context checks.
const checkEvery = 32

// BaseStrategy provides the common parts of every strategy.
type BaseStrategy struct {
	source   recommend.Source
	minScore float64
}

// NewBaseStrategy creates a base strategy that emits scores strictly
// above minScore.
func NewBaseStrategy(source recommend.Source, minScore float64) BaseStrategy {
	return BaseStrategy{source: source, minScore: minScore}
}

// Source returns the strategy identifier.
func (b *BaseStrategy) Source() recommend.Source {
	return b.source
}

// MinScore returns the emission threshold.
func (b *BaseStrategy) MinScore() float64 {
	return b.minScore
}

// emit reports whether score clears the threshold.
func (b *BaseStrategy) emit(score float64) bool {
	return score > b.minScore
}

// clampUnit clamps x to [0, 1].
func clampUnit(x float64) float64 {
	switch {
	case x < 0:
		return 0
	case x > 1:
		return 1
	}
	return x
}

// maxValue returns the largest value in m, 0 for an empty map.
func maxValue(m map[int64]float64) float64 {
	best := 0.0
	for _, v := range m {
		if v > best {
			best = v
		}
	}
	return best
}

// ContextCancelled checks if the context has been canceled.
func ContextCancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

// Ensure all strategies implement the interface.
var (
	_ recommend.Strategy = (*Content)(nil)
	_ recommend.Strategy = (*Collaborative)(nil)
	_ recommend.Strategy = (*Personalized)(nil)
	_ recommend.Strategy = (*Trending)(nil)
)
