// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package profile

import "github.com/tomtom215/curator/internal/content"

// Similarity is the cosine similarity of two profiles' category
// preferences over the union of their keys.
func Similarity(a, b *Profile) float64 {
	if a == nil || b == nil {
		return 0
	}
	return content.CosineMap(a.CategoryPreferences, b.CategoryPreferences)
}

// Neighbor is a similar profile.
type Neighbor struct {
	Profile    *Profile
	Similarity float64
}
