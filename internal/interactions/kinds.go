// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

// Package interactions is the append-only log of visitor actions.
package interactions

import (
	"fmt"
	"strings"
)

// Kind is an interaction type. The set is closed.
type Kind string

const (
	KindView                Kind = "view"
	KindClick               Kind = "click"
	KindLike                Kind = "like"
	KindShare               Kind = "share"
	KindComment             Kind = "comment"
	KindBookmark            Kind = "bookmark"
	KindRecommendationClick Kind = "recommendation-click"
)

// kindWeights drive profile preference updates and implicit ratings.
var kindWeights = map[Kind]float64{
	KindView:                0.1,
	KindClick:               0.2,
	KindLike:                0.8,
	KindShare:               0.9,
	KindComment:             1.0,
	KindBookmark:            0.9,
	KindRecommendationClick: 0.3,
}

// Kinds returns every valid kind.
func Kinds() []Kind {
	return []Kind{
		KindView, KindClick, KindLike, KindShare,
		KindComment, KindBookmark, KindRecommendationClick,
	}
}

// ParseKind validates s against the closed set.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
	return k, nil
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	_, ok := kindWeights[k]
	return ok
}

// Weight is the preference weight of k; 0 for unknown kinds.
func (k Kind) Weight() float64 {
	return kindWeights[k]
}

func (k Kind) String() string {
	return string(k)
}
