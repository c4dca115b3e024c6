// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package evaluation

import (
	"math"
	"sort"

	"github.com/tomtom215/curator/internal/interactions"
)

// maxRelevance caps the graded relevance used by NDCG.
const maxRelevance = 5.0

// clickedWithin reports whether r is a recommendation click at position 1..k.
func clickedWithin(r *interactions.Record, k int) bool {
	return r.IsRecommendationClick() && r.Position >= 1 && r.Position <= k
}

// PrecisionAtK is the share of recommendation clicks at position <= k
// that were engaged with (engagement > 0.5 or completed). 0 without clicks.
func PrecisionAtK(records []interactions.Record, k int) float64 {
	clicks, relevant := 0, 0
	for i := range records {
		if !clickedWithin(&records[i], k) {
			continue
		}
		clicks++
		if records[i].HighEngagement() {
			relevant++
		}
	}
	return ratio(relevant, clicks)
}

// RecallAtK is the share of all high-engagement interactions that came
// from a recommendation at position <= k.
func RecallAtK(records []interactions.Record, k int) float64 {
	relevant, captured := 0, 0
	for i := range records {
		r := &records[i]
		if r.IsImpression() || !r.HighEngagement() {
			continue
		}
		relevant++
		if clickedWithin(r, k) {
			captured++
		}
	}
	return ratio(captured, relevant)
}

// F1 is the harmonic mean of precision and recall, 0 when both are 0.
func F1(precision, recall float64) float64 {
	if precision+recall == 0 {
		return 0
	}
	return 2 * precision * recall / (precision + recall)
}

// Relevance grades one click: engagement plus 2 for completion, 1 for
// scrolling at least 75% and 1 for reading at least two minutes, capped at 5.
func Relevance(r *interactions.Record) float64 {
	rel := r.Engagement
	if r.Completed {
		rel += 2
	}
	if r.ScrollDepth >= 75 {
		rel++
	}
	if r.TimeSpent >= 120 {
		rel++
	}
	return math.Min(rel, maxRelevance)
}

// NDCGAtK averages per-session NDCG over sessions with at least one
// recommendation click at position <= k.
func NDCGAtK(records []interactions.Record, k int) float64 {
	type click struct {
		position int
		rel      float64
	}
	sessions := make(map[string][]click)
	for i := range records {
		r := &records[i]
		if !clickedWithin(r, k) {
			continue
		}
		key := r.Identity.SessionID
		if key == "" {
			key = r.Identity.Key()
		}
		sessions[key] = append(sessions[key], click{position: r.Position, rel: Relevance(r)})
	}
	if len(sessions) == 0 {
		return 0
	}

	total := 0.0
	for _, clicks := range sessions {
		dcg := 0.0
		rels := make([]float64, len(clicks))
		for i, c := range clicks {
			dcg += c.rel / math.Log2(float64(c.position)+1)
			rels[i] = c.rel
		}
		sort.Sort(sort.Reverse(sort.Float64Slice(rels)))
		idcg := 0.0
		for i, rel := range rels {
			idcg += rel / math.Log2(float64(i+2))
		}
		if idcg > 0 {
			total += math.Min(dcg/idcg, 1)
		}
	}
	return total / float64(len(sessions))
}

// CTR is recommendation clicks over impressions.
func CTR(records []interactions.Record) float64 {
	impressions, clicks := 0, 0
	for i := range records {
		switch {
		case records[i].IsImpression():
			impressions++
		case records[i].IsRecommendationClick():
			clicks++
		}
	}
	return ratio(clicks, impressions)
}

// Diversity is unique clicked items over recommendation clicks.
func Diversity(records []interactions.Record) float64 {
	items, clicks := clickedItems(records)
	return ratio(len(items), clicks)
}

// Coverage is unique clicked items over the published catalog size.
func Coverage(records []interactions.Record, catalogSize int) float64 {
	items, _ := clickedItems(records)
	return math.Min(ratio(len(items), catalogSize), 1)
}

func clickedItems(records []interactions.Record) (map[string]struct{}, int) {
	items := make(map[string]struct{})
	clicks := 0
	for i := range records {
		if records[i].IsRecommendationClick() {
			clicks++
			items[records[i].ItemID] = struct{}{}
		}
	}
	return items, clicks
}

func ratio(num, den int) float64 {
	if den <= 0 {
		return 0
	}
	return float64(num) / float64(den)
}
