// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package reranking

import (
	"context"
	"sort"

	"github.com/tomtom215/curator/internal/recommend"
)

// CategoryPenalty discourages lists dominated by one category.
type CategoryPenalty struct {
	factor float64
}

// NewCategoryPenalty creates the reranker. factor is clamped to [0, 1];
// 1 disables the penalty.
func NewCategoryPenalty(factor float64) *CategoryPenalty {
	if factor < 0 {
		factor = 0
	}
	if factor > 1 {
		factor = 1
	}
	return &CategoryPenalty{factor: factor}
}

// Name returns the reranker identifier.
func (p *CategoryPenalty) Name() string {
	return "category_penalty"
}

// Rerank applies the penalty in descending score order and returns the
// items sorted by their penalized scores.
func (p *CategoryPenalty) Rerank(_ context.Context, items []recommend.Recommendation) []recommend.Recommendation {
	if len(items) < 2 || p.factor >= 1 {
		return items
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Score > items[j].Score
	})

	seen := make(map[int64]struct{})
	for i := range items {
		own := make(map[int64]struct{}, len(items[i].Item.Categories))
		for _, cat := range items[i].Item.Categories {
			if _, dup := own[cat]; dup {
				continue
			}
			own[cat] = struct{}{}
			if _, ok := seen[cat]; ok {
				items[i].Score *= p.factor
			}
		}
		for cat := range own {
			seen[cat] = struct{}{}
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Score > items[j].Score
	})
	return items
}
