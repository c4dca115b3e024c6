// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

// Package storage persists precomputed recommendation lists in BadgerDB.
//
// Lists are written as JSON with a native per-entry TTL, so an expired
// list simply disappears and the engine falls back to computing a fresh
// one. Nothing invalidates a stored list early; staleness up to the TTL
// is accepted.
//
// # Key Layout
//
//	precomputed:account:<id>   list for a signed-in visitor
//	precomputed:session:<sid>  list for an anonymous visitor
package storage
