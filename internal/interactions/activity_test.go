// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package interactions

import (
	"math"
	"testing"
)

func activityRecords() []Record {
	return []Record{
		{ItemID: "a", Kind: KindLike, Engagement: 0.6},
		{ItemID: "a", Kind: KindView, Engagement: 0.2},
		{ItemID: "a", Kind: KindView, Source: "trending", Engagement: 0.9}, // impression
		{ItemID: "b", Kind: KindComment, Engagement: 1.0},
		{ItemID: "c", Kind: KindView, Source: "content"}, // impression only
	}
}

func TestSummarize(t *testing.T) {
	got := Summarize(activityRecords())

	if len(got) != 2 {
		t.Fatalf("Summarize() has %d items, want 2 (impressions skipped)", len(got))
	}
	tests := []struct {
		id           string
		interactions int
		avg          float64
	}{
		{"a", 2, 0.4},
		{"b", 1, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			a := got[tt.id]
			if a.ItemID != tt.id || a.Interactions != tt.interactions {
				t.Errorf("activity = %+v", a)
			}
			if math.Abs(a.AvgEngagement-tt.avg) > 1e-9 {
				t.Errorf("AvgEngagement = %v, want %v", a.AvgEngagement, tt.avg)
			}
		})
	}
	if _, ok := got["c"]; ok {
		t.Error("item seen only through impressions must be absent")
	}
}

func TestAverageRatings(t *testing.T) {
	got := AverageRatings(activityRecords())

	// a: like 0.8*1.6 = 1.28, view 0.1*1.2 = 0.12
	want := map[string]float64{"a": 0.7, "b": 2.0}
	if len(got) != len(want) {
		t.Fatalf("AverageRatings() = %v", got)
	}
	for id, w := range want {
		if math.Abs(got[id]-w) > 1e-9 {
			t.Errorf("rating[%s] = %v, want %v", id, got[id], w)
		}
	}
}

func TestSummarizeEmpty(t *testing.T) {
	if got := Summarize(nil); len(got) != 0 {
		t.Errorf("Summarize(nil) = %v", got)
	}
	if got := AverageRatings(nil); len(got) != 0 {
		t.Errorf("AverageRatings(nil) = %v", got)
	}
}
