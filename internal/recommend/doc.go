// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

// Package recommend implements the hybrid content recommendation engine.
//
// # Architecture
//
// A request flows through a fixed pipeline:
//
//   - Validation: an identity and a limit in 1..MaxLimit are required
//   - Candidates: published items, most recent first, context item excluded
//   - Strategies: content, collaborative, personalized and trending run in
//     parallel, each behind its own timeout, recover and circuit breaker
//   - Fusion: per-candidate sum of score times source weight
//   - Reranking: category diversity penalty, then a descending sort
//   - Side effect: every returned item is logged as a view impression
//
// Strategies live in the algorithms subpackage and implement Strategy.
// Rerankers live in the reranking subpackage. The Badger store for
// precomputed lists lives in the storage subpackage.
//
// # Degradation
//
// Only malformed requests fail. Missing profiles skip the collaborative
// and personalized strategies, a missing context item skips the content
// strategy, and a failing strategy contributes nothing for that request.
// An empty candidate pool yields an empty list.
//
// # Usage
//
//	engine, err := recommend.NewEngine(cfg, recommend.Deps{
//	    Catalog:     db,
//	    Vectors:     vectorizer,
//	    Profiles:    profiles,
//	    Impressions: interactionLog,
//	}, logger)
//	engine.RegisterStrategy(algorithms.NewContent(algorithms.ContentConfig{}))
//	engine.RegisterReranker(reranking.NewCategoryPenalty(0.9))
//
//	resp, err := engine.Recommend(ctx, recommend.Request{
//	    Identity: models.Identity{SessionID: "abc"},
//	    Limit:    10,
//	})
//
// # Thread Safety
//
// The engine is safe for concurrent use. Identical concurrent requests are
// collapsed into one computation.
package recommend
