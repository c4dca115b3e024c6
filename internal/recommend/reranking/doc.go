// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

// Package reranking implements post-processing for recommendation diversity.
//
// Reranking is applied after fusion and before truncation:
//
//	Strategies -> Fusion -> Rerankers -> Sort -> Top limit
//
// # Available Rerankers
//
// CategoryPenalty walks the fused list from the highest score down and
// multiplies an item's score by a factor for every one of its categories
// that already appeared higher in the list. It never excludes an item and
// never raises a score.
//
// # Interface
//
// All rerankers implement the recommend.Reranker interface:
//
//	type Reranker interface {
//	    Name() string
//	    Rerank(ctx context.Context, items []Recommendation) []Recommendation
//	}
package reranking
