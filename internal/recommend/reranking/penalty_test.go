// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package reranking

import (
	"context"
	"math"
	"testing"

	"github.com/tomtom215/curator/internal/models"
	"github.com/tomtom215/curator/internal/recommend"
)

func rec(id string, score float64, cats ...int64) recommend.Recommendation {
	return recommend.Recommendation{
		Item:  models.ContentItem{ID: id, Categories: cats},
		Score: score,
	}
}

func TestNewCategoryPenalty(t *testing.T) {
	tests := []struct {
		name   string
		factor float64
		want   float64
	}{
		{"normal value", 0.9, 0.9},
		{"negative clamped to zero", -1, 0},
		{"above one clamped to one", 1.5, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewCategoryPenalty(tt.factor).factor; got != tt.want {
				t.Errorf("factor = %v, want %v", got, tt.want)
			}
		})
	}
	if NewCategoryPenalty(0.9).Name() != "category_penalty" {
		t.Error("unexpected name")
	}
}

func TestCategoryPenaltyRerank(t *testing.T) {
	items := []recommend.Recommendation{
		rec("a", 1.0, 1),
		rec("b", 0.95, 1),
		rec("c", 0.9, 2),
		rec("d", 0.8, 1, 2),
		rec("e", 0.7, 3, 3),
	}
	got := NewCategoryPenalty(0.9).Rerank(context.Background(), items)

	want := map[string]float64{
		"a": 1.0,
		"b": 0.95 * 0.9,
		"c": 0.9,
		"d": 0.8 * 0.9 * 0.9,
		"e": 0.7,
	}
	for _, it := range got {
		if math.Abs(it.Score-want[it.Item.ID]) > 1e-9 {
			t.Errorf("score(%s) = %v, want %v", it.Item.ID, it.Score, want[it.Item.ID])
		}
	}
	order := []string{"a", "c", "b", "e", "d"}
	for i, id := range order {
		if got[i].Item.ID != id {
			t.Fatalf("position %d = %s, want %s", i, got[i].Item.ID, id)
		}
	}
}

func TestCategoryPenaltyNeverIncreasesScores(t *testing.T) {
	items := []recommend.Recommendation{
		rec("a", 0.2, 1, 2), rec("b", 0.9, 2), rec("c", 0.5, 1), rec("d", 0.5), rec("e", 0.4, 2, 1),
	}
	before := make(map[string]float64, len(items))
	for _, it := range items {
		before[it.Item.ID] = it.Score
	}
	for _, it := range NewCategoryPenalty(0.9).Rerank(context.Background(), items) {
		if it.Score > before[it.Item.ID] {
			t.Errorf("score(%s) rose from %v to %v", it.Item.ID, before[it.Item.ID], it.Score)
		}
	}
}

func TestCategoryPenaltyDisabled(t *testing.T) {
	items := []recommend.Recommendation{rec("a", 1, 1), rec("b", 0.5, 1)}
	got := NewCategoryPenalty(1).Rerank(context.Background(), items)
	if got[1].Score != 0.5 {
		t.Errorf("factor 1 must leave scores alone, got %v", got[1].Score)
	}
}
