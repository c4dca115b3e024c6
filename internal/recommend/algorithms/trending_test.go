// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package algorithms

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/tomtom215/curator/internal/interactions"
	"github.com/tomtom215/curator/internal/models"
)

type fakeActivity struct {
	activity map[string]interactions.Activity
	since    time.Time
}

func (f *fakeActivity) ItemActivity(_ context.Context, since time.Time) (map[string]interactions.Activity, error) {
	f.since = since
	return f.activity, nil
}

func TestTrending(t *testing.T) {
	day := 24 * time.Hour
	items := []models.ContentItem{
		{ID: "fresh", Title: "fresh news", PublishedAt: testNow.Add(-day), Views: 100, Likes: 10},
		{ID: "old-active", Title: "old but discussed", PublishedAt: testNow.Add(-60 * day), Views: 20},
		{ID: "old-quiet", Title: "old and quiet", PublishedAt: testNow.Add(-60 * day), Views: 5000},
	}
	src := &fakeActivity{activity: map[string]interactions.Activity{
		"fresh":      {ItemID: "fresh", Interactions: 4, AvgEngagement: 0.6},
		"old-active": {ItemID: "old-active", Interactions: 9, AvgEngagement: 0.8},
	}}
	strategy := NewTrending(src, TrendingConfig{})
	in := newInput(t, items, "", nil)

	if !strategy.Applicable(in) {
		t.Fatal("trending must run without a profile")
	}
	scores, err := strategy.Score(context.Background(), in)
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if !src.since.Equal(testNow.Add(-7 * day)) {
		t.Errorf("window start = %v, want 7 days back", src.since)
	}

	got := scoresByID(scores)
	if _, ok := got["old-quiet"]; ok {
		t.Error("items outside the window without recent activity are not trending")
	}
	// fresh: 0.5*0.6 + 0.5*1 ; old-active: 0.5*0.8 + 0.5*(20/120)
	if s := got["fresh"].Score; math.Abs(s-0.8) > 1e-9 {
		t.Errorf("score(fresh) = %v, want 0.8", s)
	}
	if s := got["old-active"].Score; math.Abs(s-(0.4+0.5*20.0/120.0)) > 1e-9 {
		t.Errorf("score(old-active) = %v", s)
	}
	for id, s := range got {
		if s.Score < 0 || s.Score > 1 {
			t.Errorf("score(%s) = %v outside [0,1]", id, s.Score)
		}
	}
}
