// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package algorithms

import (
	"context"
	"strings"
	"testing"

	"github.com/tomtom215/curator/internal/models"
	"github.com/tomtom215/curator/internal/profile"
)

func preferenceProfile() *profile.Profile {
	p := profile.New(models.Identity{AccountID: 7}, testNow)
	p.CategoryPreferences = map[int64]float64{1: 1.0, 2: 0.2}
	p.InteractionCount = 12
	return p
}

func TestPersonalizedCategoryPreference(t *testing.T) {
	body := strings.Repeat("plain words here. ", 100)
	items := []models.ContentItem{
		{ID: "x", Title: "first", Body: body, Categories: []int64{1}, Published: true},
		{ID: "y", Title: "second", Body: body, Categories: []int64{2}, Published: true},
	}
	in := newInput(t, items, "", preferenceProfile())

	scores, err := NewPersonalized(PersonalizedConfig{}).Score(context.Background(), in)
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	got := scoresByID(scores)
	x, ok := got["x"]
	if !ok {
		t.Fatal("item in the preferred category was not emitted")
	}
	if y, ok := got["y"]; ok && y.Score >= x.Score {
		t.Errorf("score(y) = %v, want below score(x) = %v", y.Score, x.Score)
	}
	if x.Metadata["category_match"] != 1 {
		t.Errorf("category_match = %v, want 1", x.Metadata["category_match"])
	}
	if x.Reason != "Matches your favorite categories" {
		t.Errorf("Reason = %q", x.Reason)
	}
}

func TestPersonalizedApplicable(t *testing.T) {
	in := newInput(t, kitchenItems(), "", nil)
	if NewPersonalized(PersonalizedConfig{}).Applicable(in) {
		t.Error("personalized strategy needs a profile")
	}
}

func TestTemporalMatch(t *testing.T) {
	tests := []struct {
		name  string
		hours []int
		days  []int
		want  float64
	}{
		{"no patterns", nil, nil, 0},
		{"hour only", []int{9, 20}, nil, 0.5},
		{"day only", nil, []int{3}, 0.5},
		{"both", []int{9}, []int{3}, 1},
		{"neither", []int{1}, []int{0}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rp := profile.ReadingPatterns{PreferredHours: tt.hours, PreferredDays: tt.days}
			if got := TemporalMatch(&rp, testNow); got != tt.want {
				t.Errorf("TemporalMatch() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLengthMatch(t *testing.T) {
	tests := []struct {
		preferred profile.LengthClass
		chars     int
		want      float64
	}{
		{profile.LengthShort, 400, 1},
		{profile.LengthShort, 2000, 0.5},
		{profile.LengthShort, 8000, 0},
		{profile.LengthLong, 8000, 1},
		{profile.LengthMedium, 400, 0.5},
		{"", 400, 0},
	}
	for _, tt := range tests {
		if got := LengthMatch(tt.preferred, tt.chars); got != tt.want {
			t.Errorf("LengthMatch(%q, %d) = %v, want %v", tt.preferred, tt.chars, got, tt.want)
		}
	}
}
