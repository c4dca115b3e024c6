// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package interactions

// Activity aggregates the non-impression interactions with one item.
type Activity struct {
	ItemID        string  `json:"item_id"`
	Interactions  int     `json:"interactions"`
	AvgEngagement float64 `json:"avg_engagement"`
}

// Summarize aggregates records per item, skipping impressions.
func Summarize(records []Record) map[string]Activity {
	out := make(map[string]Activity)
	for i := range records {
		r := &records[i]
		if r.IsImpression() {
			continue
		}
		a := out[r.ItemID]
		a.ItemID = r.ItemID
		a.Interactions++
		a.AvgEngagement += (r.Engagement - a.AvgEngagement) / float64(a.Interactions)
		out[r.ItemID] = a
	}
	return out
}

// AverageRatings returns the mean implicit rating per item, skipping
// impressions.
func AverageRatings(records []Record) map[string]float64 {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for i := range records {
		r := &records[i]
		if r.IsImpression() {
			continue
		}
		sums[r.ItemID] += r.ImplicitRating()
		counts[r.ItemID]++
	}
	for id, n := range counts {
		sums[id] /= float64(n)
	}
	return sums
}
