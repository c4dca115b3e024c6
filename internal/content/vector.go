// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package content

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/tomtom215/curator/internal/models"
)

// ErrMalformedText is returned for item text that is not valid UTF-8.
var ErrMalformedText = errors.New("malformed item text")

// Vector holds the features of one content item.
type Vector struct {
	ItemID           string    `json:"item_id"`
	Content          []float64 `json:"content_vector"`
	Categories       []float64 `json:"category_vector"`
	Tags             []float64 `json:"tag_vector"`
	LengthNormalized float64   `json:"length_normalized"`
	Readability      float64   `json:"readability_score"`
	Engagement       float64   `json:"engagement_score"`
	ComputedAt       time.Time `json:"computed_at"`
	ModelVersion     string    `json:"model_version"`
}

// CompatibleWith reports whether v was computed against s's layout.
func (v *Vector) CompatibleWith(s *Snapshot) bool {
	return v.ModelVersion == s.Version &&
		len(v.Content) == len(s.Terms) &&
		len(v.Categories) == len(s.Categories) &&
		len(v.Tags) == len(s.Tags)
}

// ZeroVector returns an all-zero vector laid out for s. s may be nil.
func ZeroVector(itemID string, s *Snapshot, now time.Time) Vector {
	v := Vector{ItemID: itemID, ComputedAt: now}
	if s != nil {
		v.Content = make([]float64, len(s.Terms))
		v.Categories = make([]float64, len(s.Categories))
		v.Tags = make([]float64, len(s.Tags))
		v.ModelVersion = s.Version
	}
	return v
}

// Vectorize computes the full feature vector of item against s.
func Vectorize(s *Snapshot, item *models.ContentItem, now time.Time) (Vector, error) {
	text := item.Text()
	if !utf8.ValidString(text) {
		return Vector{}, fmt.Errorf("item %s: %w", item.ID, ErrMalformedText)
	}
	v := vectorize(s, item, text, now)
	v.Readability = Readability(text)
	return v, nil
}

// VectorizeBasic computes TF-IDF, one-hot and counter features only.
// Invalid UTF-8 is replaced before tokenizing and readability is left at 0.
func VectorizeBasic(s *Snapshot, item *models.ContentItem, now time.Time) Vector {
	return vectorize(s, item, strings.ToValidUTF8(item.Text(), " "), now)
}

func vectorize(s *Snapshot, item *models.ContentItem, text string, now time.Time) Vector {
	v := ZeroVector(item.ID, s, now)

	counts, maxCount := termCounts(Tokenize(text, s.minLen, s.maxLen))
	if maxCount > 0 {
		for term, n := range counts {
			if i, ok := s.termIndex[term]; ok {
				v.Content[i] = float64(n) / float64(maxCount) * s.IDF[i]
			}
		}
	}
	for _, id := range item.Categories {
		if i, ok := s.categoryIndex[id]; ok {
			v.Categories[i] = 1
		}
	}
	for _, id := range item.Tags {
		if i, ok := s.tagIndex[id]; ok {
			v.Tags[i] = 1
		}
	}

	v.LengthNormalized = math.Min(float64(utf8.RuneCountInString(text))/10000, 1)
	v.Engagement = EngagementScore(item)
	return v
}

// EngagementScore rates an item's counters relative to its views, in [0, 1].
func EngagementScore(item *models.ContentItem) float64 {
	views := item.Views
	if views < 1 {
		views = 1
	}
	raw := float64(item.Likes) + 2*float64(item.Comments) + 1.5*float64(item.Bookmarks)
	return clamp(raw/float64(views), 0, 1)
}
