// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

// Package profile learns visitor preferences from the interaction log.
//
// A profile belongs to exactly one identity: a signed-in account or an
// anonymous session. Account and session profiles are separate records
// and are never merged.
//
// Profiles change in two ways. Every reported interaction applies an
// incremental update (running averages plus weighted preference
// accumulation). A periodic recompute rebuilds the profile from the
// trailing window of interactions, derives reading patterns and
// normalizes the preference maps so their maximum is 1.0. Both paths
// hold the identity's lock for the whole read-modify-write.
package profile

import (
	"math"
	"time"

	"github.com/tomtom215/curator/internal/interactions"
	"github.com/tomtom215/curator/internal/models"
)

// SpeedClass buckets average reading time per item.
type SpeedClass string

const (
	SpeedFast   SpeedClass = "fast"
	SpeedMedium SpeedClass = "medium"
	SpeedSlow   SpeedClass = "slow"
)

// LengthClass buckets preferred content length.
type LengthClass string

const (
	LengthShort  LengthClass = "short"
	LengthMedium LengthClass = "medium"
	LengthLong   LengthClass = "long"
)

// Rank orders length classes from short (0) to long (2).
func (l LengthClass) Rank() int {
	switch l {
	case LengthShort:
		return 0
	case LengthLong:
		return 2
	default:
		return 1
	}
}

// Classification thresholds.
const (
	fastReadingSeconds = 120
	slowReadingSeconds = 300
	shortContentChars  = 1000
	longContentChars   = 3000

	longReadSeconds     = 60
	highEngagement      = 0.7
	maxPreferenceWeight = 2.0
)

// ReadingPatterns are derived during a full recompute.
type ReadingPatterns struct {
	PreferredHours     []int      `json:"preferred_hours"` // hour of day, UTC
	PreferredDays      []int      `json:"preferred_days"`  // 0 = Sunday
	AvgSessionDuration float64    `json:"avg_session_duration"`
	ReadingSpeed       SpeedClass `json:"reading_speed"`
}

// Profile is the learned state for one identity.
type Profile struct {
	Identity            models.Identity   `json:"identity"`
	CategoryPreferences map[int64]float64 `json:"category_preferences"`
	TagInterests        map[int64]float64 `json:"tag_interests"`
	ReadingPatterns     ReadingPatterns   `json:"reading_patterns"`
	PreferredLength     LengthClass       `json:"preferred_length"`
	AvgReadingTime      float64           `json:"avg_reading_time"`
	EngagementRate      float64           `json:"engagement_rate"`
	TotalItemsConsumed  int               `json:"total_items_consumed"`
	InteractionCount    int               `json:"interaction_count"`
	ReturnRate          float64           `json:"return_rate"`
	ClusterID           Segment           `json:"cluster_id"`
	ClusterConfidence   float64           `json:"cluster_confidence"`
	LastActivity        time.Time         `json:"last_activity"`
	UpdatedAt           time.Time         `json:"updated_at"`
	RecomputedAt        time.Time         `json:"recomputed_at,omitempty"`
}

// New returns an empty profile for id.
func New(id models.Identity, now time.Time) *Profile {
	return &Profile{
		Identity:            id,
		CategoryPreferences: make(map[int64]float64),
		TagInterests:        make(map[int64]float64),
		ReadingPatterns:     ReadingPatterns{ReadingSpeed: SpeedMedium},
		PreferredLength:     LengthMedium,
		ClusterID:           SegmentNew,
		ClusterConfidence:   Confidence(0),
		UpdatedAt:           now,
	}
}

// Key is the storage key of the profile's identity.
func (p *Profile) Key() string {
	return p.Identity.Key()
}

// PreferenceWeight is the contribution of one interaction to the
// category and tag maps: the kind weight, boosted x1.5 for reads over
// 60 seconds and x1.3 for engagement over 0.7, capped at 2.0.
func PreferenceWeight(rec *interactions.Record) float64 {
	w := rec.Kind.Weight()
	if rec.TimeSpent > longReadSeconds {
		w *= 1.5
	}
	if rec.Engagement > highEngagement {
		w *= 1.3
	}
	return math.Min(w, maxPreferenceWeight)
}

// Apply folds one interaction into p. item may be nil when the catalog no
// longer knows the item; preference maps are then left unchanged.
func (p *Profile) Apply(rec *interactions.Record, item *models.ContentItem, now time.Time) {
	if p.CategoryPreferences == nil {
		p.CategoryPreferences = make(map[int64]float64)
	}
	if p.TagInterests == nil {
		p.TagInterests = make(map[int64]float64)
	}

	p.InteractionCount++
	if rec.Kind == interactions.KindView {
		p.TotalItemsConsumed++
	}
	n := float64(p.InteractionCount)
	p.AvgReadingTime = (p.AvgReadingTime*(n-1) + rec.TimeSpent) / n
	p.EngagementRate = clampUnit((p.EngagementRate*(n-1) + rec.Engagement) / n)

	if item != nil {
		w := PreferenceWeight(rec)
		for _, c := range item.Categories {
			p.CategoryPreferences[c] += w
		}
		for _, t := range item.Tags {
			p.TagInterests[t] += w
		}
	}

	if rec.CreatedAt.After(p.LastActivity) {
		p.LastActivity = rec.CreatedAt
	}
	p.UpdatedAt = now
	p.assignCluster()
}

func (p *Profile) assignCluster() {
	p.ClusterID = Classify(p.EngagementRate, p.ReturnRate, p.TotalItemsConsumed)
	p.ClusterConfidence = Confidence(p.InteractionCount)
}

// Clone returns a deep copy of p.
func (p *Profile) Clone() *Profile {
	c := *p
	c.CategoryPreferences = cloneWeights(p.CategoryPreferences)
	c.TagInterests = cloneWeights(p.TagInterests)
	c.ReadingPatterns.PreferredHours = append([]int(nil), p.ReadingPatterns.PreferredHours...)
	c.ReadingPatterns.PreferredDays = append([]int(nil), p.ReadingPatterns.PreferredDays...)
	return &c
}

func cloneWeights(m map[int64]float64) map[int64]float64 {
	out := make(map[int64]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func clampUnit(x float64) float64 {
	return math.Max(0, math.Min(x, 1))
}
