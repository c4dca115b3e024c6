// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

// Package algorithms implements the scoring strategies of the hybrid engine.
//
// Each strategy implements recommend.Strategy and can be registered with
// the recommendation engine.
//
// # Strategies
//
//   - Content: vector similarity to the item being viewed
//   - Collaborative: what visitors with similar category preferences engaged with
//   - Personalized: category, tag, time-of-day and length fit with the profile
//   - Trending: recent engagement plus catalog counters
//
// Every strategy returns scores in [0, 1] and emits only candidates whose
// score is strictly above its minimum.
//
// # Thread Safety
//
// Strategies hold no per-request state and are safe for concurrent use.
package algorithms
