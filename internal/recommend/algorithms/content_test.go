// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package algorithms

import (
	"context"
	"testing"
	"time"

	"github.com/tomtom215/curator/internal/content"
	"github.com/tomtom215/curator/internal/models"
	"github.com/tomtom215/curator/internal/profile"
	"github.com/tomtom215/curator/internal/recommend"
)

var testNow = time.Date(2026, 6, 3, 9, 30, 0, 0, time.UTC) // a Wednesday

// newInput vectorizes items against a snapshot of themselves and builds a
// strategy input. contextID may be empty.
func newInput(t *testing.T, items []models.ContentItem, contextID string, p *profile.Profile) *recommend.Input {
	t.Helper()
	snap := content.BuildSnapshot(items, nil, nil, content.SnapshotOptions{}, testNow)
	in := &recommend.Input{
		Identity: models.Identity{SessionID: "s-1"},
		Profile:  p,
		Now:      testNow,
	}
	for i := range items {
		v, err := content.Vectorize(snap, &items[i], testNow)
		if err != nil {
			t.Fatalf("Vectorize(%s) error = %v", items[i].ID, err)
		}
		cand := recommend.Candidate{Item: items[i], Vector: v}
		if items[i].ID == contextID {
			in.Context = &cand
			continue
		}
		in.Candidates = append(in.Candidates, cand)
	}
	return in
}

func kitchenItems() []models.ContentItem {
	return []models.ContentItem{
		{ID: "a", Title: "kitchen renovation tips", Categories: []int64{1}, Published: true},
		{ID: "b", Title: "kitchen remodel guide", Categories: []int64{1}, Published: true},
		{ID: "c", Title: "unrelated topic", Categories: []int64{9}, Published: true},
	}
}

func scoresByID(scores []recommend.Score) map[string]recommend.Score {
	out := make(map[string]recommend.Score, len(scores))
	for _, s := range scores {
		out[s.ItemID] = s
	}
	return out
}

func TestNewContentDefaults(t *testing.T) {
	c := NewContent(ContentConfig{})
	if c.contentWeight != 0.5 || c.categoryWeight != 0.3 || c.tagWeight != 0.2 {
		t.Errorf("weights = %v/%v/%v, want 0.5/0.3/0.2", c.contentWeight, c.categoryWeight, c.tagWeight)
	}
	if c.MinScore() != 0.1 {
		t.Errorf("MinScore() = %v, want 0.1", c.MinScore())
	}
	if c.Source() != recommend.SourceContent {
		t.Errorf("Source() = %q", c.Source())
	}
}

func TestContentKitchenScenario(t *testing.T) {
	strategy := NewContent(ContentConfig{})
	items := kitchenItems()

	t.Run("similar kitchen articles", func(t *testing.T) {
		in := newInput(t, items, "a", nil)
		scores, err := strategy.Score(context.Background(), in)
		if err != nil {
			t.Fatalf("Score() error = %v", err)
		}
		got := scoresByID(scores)
		b, ok := got["b"]
		if !ok || b.Score <= 0.3 {
			t.Fatalf("score(a, b) = %+v, want > 0.3", b)
		}
		if _, ok := got["c"]; ok {
			t.Errorf("unrelated item c must not be emitted, got %+v", got["c"])
		}
		if b.Reason != `Similar to "kitchen renovation tips"` {
			t.Errorf("Reason = %q", b.Reason)
		}
	})

	t.Run("mutually recommendable", func(t *testing.T) {
		in := newInput(t, items, "b", nil)
		scores, _ := strategy.Score(context.Background(), in)
		if s, ok := scoresByID(scores)["a"]; !ok || s.Score <= 0.3 {
			t.Errorf("score(b, a) = %+v, want > 0.3", s)
		}
	})

	t.Run("unrelated stays below threshold", func(t *testing.T) {
		in := newInput(t, items, "c", nil)
		for _, cand := range in.Candidates {
			score, _, _, _ := strategy.Similarity(&in.Context.Vector, &cand.Vector)
			if score >= 0.1 {
				t.Errorf("score(c, %s) = %v, want < 0.1", cand.Item.ID, score)
			}
		}
	})
}

func TestContentApplicable(t *testing.T) {
	strategy := NewContent(ContentConfig{})
	in := newInput(t, kitchenItems(), "", nil)
	if strategy.Applicable(in) {
		t.Error("content strategy needs a context item")
	}
	scores, err := strategy.Score(context.Background(), in)
	if err != nil || scores != nil {
		t.Errorf("Score() without context = %v, %v", scores, err)
	}
}

func TestContentCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	in := newInput(t, kitchenItems(), "a", nil)
	if _, err := NewContent(ContentConfig{}).Score(ctx, in); err == nil {
		t.Error("Score() with canceled context should fail")
	}
}
