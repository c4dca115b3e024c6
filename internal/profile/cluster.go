// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package profile

// Segment is a fixed visitor segment. Assignment is a deterministic
// threshold classifier, not a learned clustering; segment meanings are
// tied to the thresholds below and change only together with them.
type Segment int

const (
	SegmentNew       Segment = iota // fewer than 5 items consumed
	SegmentCasual                   // low engagement, rarely returns
	SegmentRegular                  // returns or reads a lot, average engagement
	SegmentEngaged                  // engagement >= 0.5
	SegmentPowerUser                // engagement >= 0.7, return rate >= 0.5, 20+ items
)

const (
	newVisitorItems   = 5
	powerUserItems    = 20
	powerEngagement   = 0.7
	powerReturnRate   = 0.5
	engagedEngagement = 0.5
	regularReturnRate = 0.3

	minConfidence       = 0.3
	maxConfidence       = 0.9
	lowVolumeThreshold  = 5
	highVolumeThreshold = 50
)

var segmentNames = [...]string{"new", "casual", "regular", "engaged_reader", "power_user"}

func (s Segment) String() string {
	if s < 0 || int(s) >= len(segmentNames) {
		return "unknown"
	}
	return segmentNames[s]
}

// Classify assigns a segment from engagement rate, return rate and
// items consumed.
func Classify(engagementRate, returnRate float64, itemsConsumed int) Segment {
	switch {
	case itemsConsumed < newVisitorItems:
		return SegmentNew
	case engagementRate >= powerEngagement && returnRate >= powerReturnRate && itemsConsumed >= powerUserItems:
		return SegmentPowerUser
	case engagementRate >= engagedEngagement:
		return SegmentEngaged
	case returnRate >= regularReturnRate || itemsConsumed >= powerUserItems:
		return SegmentRegular
	default:
		return SegmentCasual
	}
}

// Confidence grows linearly from 0.3 below 5 interactions to 0.9 above 50.
func Confidence(interactionCount int) float64 {
	switch {
	case interactionCount < lowVolumeThreshold:
		return minConfidence
	case interactionCount > highVolumeThreshold:
		return maxConfidence
	}
	span := float64(highVolumeThreshold - lowVolumeThreshold)
	return minConfidence + float64(interactionCount-lowVolumeThreshold)/span*(maxConfidence-minConfidence)
}
