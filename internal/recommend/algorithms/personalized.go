// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package algorithms

import (
	"context"
	"slices"
	"time"

	"github.com/tomtom215/curator/internal/profile"
	"github.com/tomtom215/curator/internal/recommend"
)

// Personalized matches candidates against the visitor's profile.
//
//	score(c) = 0.4 * category_match + 0.3 * tag_match +
//	           0.2 * temporal_match + 0.1 * length_match
//
// Category and tag matches take the candidate's best attribute, scaled by
// the profile's strongest preference so the top interest scores 1.
// The temporal match is half for reading at a preferred hour and half for
// a preferred weekday. The length match is 1 for the preferred length
// class, 0.5 for an adjacent class and 0 otherwise.
type Personalized struct {
	BaseStrategy

	categoryWeight float64
	tagWeight      float64
	temporalWeight float64
	lengthWeight   float64
}

// PersonalizedConfig contains configuration for the personalized strategy.
type PersonalizedConfig struct {
	CategoryWeight float64
	TagWeight      float64
	TemporalWeight float64
	LengthWeight   float64
	MinScore       float64
}

// NewPersonalized creates a personalized strategy.
func NewPersonalized(cfg PersonalizedConfig) *Personalized {
	if cfg.CategoryWeight == 0 && cfg.TagWeight == 0 && cfg.TemporalWeight == 0 && cfg.LengthWeight == 0 {
		cfg.CategoryWeight, cfg.TagWeight, cfg.TemporalWeight, cfg.LengthWeight = 0.4, 0.3, 0.2, 0.1
	}
	if cfg.MinScore == 0 {
		cfg.MinScore = 0.1
	}
	return &Personalized{
		BaseStrategy:   NewBaseStrategy(recommend.SourcePersonalized, cfg.MinScore),
		categoryWeight: cfg.CategoryWeight,
		tagWeight:      cfg.TagWeight,
		temporalWeight: cfg.TemporalWeight,
		lengthWeight:   cfg.LengthWeight,
	}
}

// Applicable requires a profile.
func (p *Personalized) Applicable(in *recommend.Input) bool {
	return in.Profile != nil
}

// Score rates every candidate against the profile.
func (p *Personalized) Score(ctx context.Context, in *recommend.Input) ([]recommend.Score, error) {
	prof := in.Profile
	if prof == nil {
		return nil, nil
	}
	catMax := maxValue(prof.CategoryPreferences)
	tagMax := maxValue(prof.TagInterests)
	temporal := TemporalMatch(&prof.ReadingPatterns, in.Now)

	out := make([]recommend.Score, 0, len(in.Candidates))
	for i := range in.Candidates {
		if i%checkEvery == 0 && ContextCancelled(ctx) {
			return nil, ctx.Err()
		}
		item := &in.Candidates[i].Item
		cat := bestMatch(item.Categories, prof.CategoryPreferences, catMax)
		tag := bestMatch(item.Tags, prof.TagInterests, tagMax)
		length := LengthMatch(prof.PreferredLength, item.CharLength())

		score := p.categoryWeight*cat + p.tagWeight*tag + p.temporalWeight*temporal + p.lengthWeight*length
		if !p.emit(score) {
			continue
		}
		out = append(out, recommend.Score{
			ItemID: item.ID,
			Score:  clampUnit(score),
			Reason: personalReason(cat, tag),
			Metadata: map[string]float64{
				"category_match": cat,
				"tag_match":      tag,
				"temporal_match": temporal,
				"length_match":   length,
			},
		})
	}
	return out, nil
}

// bestMatch returns the strongest preference among ids, scaled by max.
func bestMatch(ids []int64, prefs map[int64]float64, maxPref float64) float64 {
	if maxPref <= 0 {
		return 0
	}
	best := 0.0
	for _, id := range ids {
		if w := prefs[id]; w > best {
			best = w
		}
	}
	return clampUnit(best / maxPref)
}

// TemporalMatch scores how well now fits the reading-pattern histogram.
func TemporalMatch(rp *profile.ReadingPatterns, now time.Time) float64 {
	now = now.UTC()
	match := 0.0
	if slices.Contains(rp.PreferredHours, now.Hour()) {
		match += 0.5
	}
	if slices.Contains(rp.PreferredDays, int(now.Weekday())) {
		match += 0.5
	}
	return match
}

// LengthMatch scores how close an item's length is to the preferred class.
func LengthMatch(preferred profile.LengthClass, chars int) float64 {
	if preferred == "" {
		return 0
	}
	diff := preferred.Rank() - profile.ClassifyLength(float64(chars)).Rank()
	switch diff {
	case 0:
		return 1
	case -1, 1:
		return 0.5
	default:
		return 0
	}
}

func personalReason(category, tag float64) string {
	switch {
	case category > 0 && category >= tag:
		return "Matches your favorite categories"
	case tag > 0:
		return "Matches topics you follow"
	default:
		return "Fits your reading habits"
	}
}
