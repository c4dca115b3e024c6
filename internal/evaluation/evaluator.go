// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

// Package evaluation computes offline recommendation quality metrics
// from the interaction log. Every metric is a pure function of the
// records in a trailing window; results are cached briefly.
package evaluation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/curator/internal/cache"
	"github.com/tomtom215/curator/internal/interactions"
	"github.com/tomtom215/curator/internal/metrics"
)

// Source reads the interaction log.
type Source interface {
	InteractionsSince(ctx context.Context, since time.Time) ([]interactions.Record, error)
}

// Catalog reports the published catalog size.
type Catalog interface {
	PublishedCount(ctx context.Context) (int, error)
}

// Report holds every metric for one window.
type Report struct {
	WindowDays           int       `json:"window_days"`
	K                    int       `json:"k"`
	PrecisionAtK         float64   `json:"precision_at_k"`
	RecallAtK            float64   `json:"recall_at_k"`
	F1                   float64   `json:"f1"`
	NDCGAtK              float64   `json:"ndcg_at_k"`
	CTR                  float64   `json:"ctr"`
	Diversity            float64   `json:"diversity"`
	Coverage             float64   `json:"coverage"`
	Interactions         int       `json:"interactions"`
	Impressions          int       `json:"impressions"`
	RecommendationClicks int       `json:"recommendation_clicks"`
	CatalogSize          int       `json:"catalog_size"`
	ComputedAt           time.Time `json:"computed_at"`
}

// Compute evaluates records. It has no side effects.
func Compute(records []interactions.Record, k, catalogSize int) Report {
	p := PrecisionAtK(records, k)
	r := RecallAtK(records, k)
	rep := Report{
		K:            k,
		PrecisionAtK: p,
		RecallAtK:    r,
		F1:           F1(p, r),
		NDCGAtK:      NDCGAtK(records, k),
		CTR:          CTR(records),
		Diversity:    Diversity(records),
		Coverage:     Coverage(records, catalogSize),
		CatalogSize:  catalogSize,
	}
	for i := range records {
		switch {
		case records[i].IsImpression():
			rep.Impressions++
		case records[i].IsRecommendationClick():
			rep.RecommendationClicks++
			rep.Interactions++
		default:
			rep.Interactions++
		}
	}
	return rep
}

// Evaluator computes and caches reports.
type Evaluator struct {
	source  Source
	catalog Catalog
	cache   *cache.TTL[Report]
	now     func() time.Time
	logger  zerolog.Logger
}

// NewEvaluator creates an evaluator whose reports live for cacheTTL.
//
//nolint:gocritic // hugeParam: zerolog.Logger is designed to be passed by value
func NewEvaluator(source Source, catalog Catalog, cacheTTL time.Duration, logger zerolog.Logger) *Evaluator {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &Evaluator{
		source:  source,
		catalog: catalog,
		cache:   cache.New[Report](cacheTTL, 64),
		now:     time.Now,
		logger:  logger.With().Str("component", "evaluator").Logger(),
	}
}

// Evaluate returns the report for the trailing windowDays at cutoff k.
// The boolean reports whether the result came from the cache.
func (e *Evaluator) Evaluate(ctx context.Context, windowDays, k int) (Report, bool, error) {
	if windowDays < 1 || k < 1 {
		return Report{}, false, fmt.Errorf("window days and k must be positive, got %d and %d", windowDays, k)
	}
	key := strconv.Itoa(windowDays) + ":" + strconv.Itoa(k)
	if rep, ok := e.cache.Get(key); ok {
		return rep, true, nil
	}

	now := e.now()
	records, err := e.source.InteractionsSince(ctx, now.AddDate(0, 0, -windowDays))
	if err != nil {
		return Report{}, false, fmt.Errorf("load interactions: %w", err)
	}
	size, err := e.catalog.PublishedCount(ctx)
	if err != nil {
		return Report{}, false, fmt.Errorf("count catalog: %w", err)
	}

	rep := Compute(records, k, size)
	rep.WindowDays = windowDays
	rep.ComputedAt = now
	e.cache.Set(key, rep)

	e.logger.Debug().
		Int("window_days", windowDays).
		Int("k", k).
		Int("records", len(records)).
		Float64("precision", rep.PrecisionAtK).
		Float64("ndcg", rep.NDCGAtK).
		Msg("Evaluation computed")
	return rep, false, nil
}

// Export publishes rep as Prometheus gauges.
func Export(rep *Report) {
	metrics.SetEvaluationScore("precision_at_k", rep.PrecisionAtK)
	metrics.SetEvaluationScore("recall_at_k", rep.RecallAtK)
	metrics.SetEvaluationScore("f1", rep.F1)
	metrics.SetEvaluationScore("ndcg_at_k", rep.NDCGAtK)
	metrics.SetEvaluationScore("ctr", rep.CTR)
	metrics.SetEvaluationScore("diversity", rep.Diversity)
	metrics.SetEvaluationScore("coverage", rep.Coverage)
}
