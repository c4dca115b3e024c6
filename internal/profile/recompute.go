// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package profile

import (
	"sort"
	"time"

	"github.com/tomtom215/curator/internal/interactions"
	"github.com/tomtom215/curator/internal/models"
)

const topPatternBuckets = 3

// Rebuild derives a profile from scratch. records must belong to id and
// fall inside the recompute window; impressions are ignored. items maps
// item id to catalog entry; unknown items still count toward averages.
func Rebuild(id models.Identity, records []interactions.Record, items map[string]models.ContentItem, now time.Time) *Profile {
	sorted := make([]interactions.Record, 0, len(records))
	for i := range records {
		if !records[i].IsImpression() {
			sorted = append(sorted, records[i])
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].CreatedAt.Before(sorted[j].CreatedAt) })

	p := New(id, now)
	hours := make(map[int]int)
	days := make(map[int]int)
	activeDays := make(map[string]struct{})
	sessions := make(map[string]float64)
	var consumedChars, consumedItems int

	for i := range sorted {
		rec := &sorted[i]
		var item *models.ContentItem
		if it, ok := items[rec.ItemID]; ok {
			item = &it
		}
		p.Apply(rec, item, now)

		ts := rec.CreatedAt.UTC()
		hours[ts.Hour()]++
		days[int(ts.Weekday())]++
		day := ts.Format("2006-01-02")
		activeDays[day] = struct{}{}

		session := rec.Identity.SessionID
		if session == "" {
			session = day
		}
		sessions[session] += rec.TimeSpent

		if item != nil && rec.Kind == interactions.KindView {
			consumedChars += item.CharLength()
			consumedItems++
		}
	}

	normalizeToMax(p.CategoryPreferences)
	normalizeToMax(p.TagInterests)

	p.ReadingPatterns = ReadingPatterns{
		PreferredHours:     topBuckets(hours, topPatternBuckets),
		PreferredDays:      topBuckets(days, topPatternBuckets),
		AvgSessionDuration: mean(sessions),
		ReadingSpeed:       speedClass(p.AvgReadingTime),
	}
	if consumedItems > 0 {
		p.PreferredLength = ClassifyLength(float64(consumedChars) / float64(consumedItems))
	}
	p.ReturnRate = returnRate(len(activeDays))
	p.assignCluster()
	p.RecomputedAt = now
	return p
}

// normalizeToMax scales m so its largest value is 1.0.
func normalizeToMax(m map[int64]float64) {
	maxW := 0.0
	for _, w := range m {
		if w > maxW {
			maxW = w
		}
	}
	if maxW <= 0 {
		return
	}
	for k, w := range m {
		m[k] = w / maxW
	}
}

// topBuckets returns up to n keys with the highest counts, ties by key.
func topBuckets(counts map[int]int, n int) []int {
	keys := make([]int, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) > n {
		keys = keys[:n]
	}
	return keys
}

func mean(m map[string]float64) float64 {
	if len(m) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range m {
		sum += v
	}
	return sum / float64(len(m))
}

func speedClass(avgSeconds float64) SpeedClass {
	switch {
	case avgSeconds < fastReadingSeconds:
		return SpeedFast
	case avgSeconds > slowReadingSeconds:
		return SpeedSlow
	}
	return SpeedMedium
}

// ClassifyLength buckets a character count into short, medium or long.
func ClassifyLength(avgChars float64) LengthClass {
	switch {
	case avgChars < shortContentChars:
		return LengthShort
	case avgChars > longContentChars:
		return LengthLong
	}
	return LengthMedium
}

// returnRate is the share of active days after the first one.
func returnRate(activeDays int) float64 {
	if activeDays <= 1 {
		return 0
	}
	return clampUnit(float64(activeDays-1) / float64(activeDays))
}
