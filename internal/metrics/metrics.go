// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

// Package metrics exposes Prometheus collectors for the recommendation
// service. Collectors are registered on the default registry through
// promauto; callers use the Record* helpers rather than touching the
// collectors directly.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "curator_duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "curator_duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table"},
	)

	// HTTP API

	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "curator_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "curator_api_request_duration_seconds",
			Help:    "API request latency in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "route"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "curator_api_active_requests",
			Help: "Number of in-flight API requests",
		},
	)

	// Recommendation engine

	RecommendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "curator_recommend_requests_total",
			Help: "Recommendation requests by outcome (hit, miss, precomputed, error)",
		},
		[]string{"outcome"},
	)

	RecommendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "curator_recommend_duration_seconds",
			Help:    "End-to-end recommendation latency",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
	)

	StrategyDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "curator_strategy_duration_seconds",
			Help:    "Per-strategy scoring latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"strategy"},
	)

	StrategyOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "curator_strategy_outcomes_total",
			Help: "Per-strategy results (ok, skipped, error, timeout, open)",
		},
		[]string{"strategy", "outcome"},
	)

	RecommendCandidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "curator_recommend_candidates",
			Help:    "Number of candidate items considered per request",
			Buckets: []float64{0, 10, 25, 50, 75, 100},
		},
	)

	RecommendCacheSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "curator_recommend_cache_entries",
			Help: "Entries in the short-lived recommendation cache",
		},
	)

	// Interactions and profiles

	InteractionsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "curator_interactions_recorded_total",
			Help: "Interactions appended to the log by kind",
		},
		[]string{"kind"},
	)

	ProfileUpdates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "curator_profile_updates_total",
			Help: "Profile updates by mode (incremental, recompute) and result",
		},
		[]string{"mode", "result"},
	)

	// Vectorizer

	ItemsVectorized = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "curator_items_vectorized_total",
			Help: "Content items vectorized",
		},
	)

	VocabularyBuilds = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "curator_vocabulary_builds_total",
			Help: "Vocabulary snapshot rebuilds",
		},
	)

	VocabularySize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "curator_vocabulary_terms",
			Help: "Terms in the current vocabulary snapshot",
		},
	)

	// Event bus

	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "curator_events_published_total",
			Help: "Events published by topic and result",
		},
		[]string{"topic", "result"},
	)

	EventsConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "curator_events_consumed_total",
			Help: "Events handled by topic and result",
		},
		[]string{"topic", "result"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "curator_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// Offline evaluation

	EvaluationScore = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "curator_evaluation_score",
			Help: "Latest offline evaluation score by metric",
		},
		[]string{"metric"},
	)

	// Background jobs

	JobRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "curator_job_runs_total",
			Help: "Background job runs by job and result",
		},
		[]string{"job", "result"},
	)

	JobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "curator_job_duration_seconds",
			Help:    "Background job duration",
			Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
		},
		[]string{"job"},
	)
)

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// RecordDBQuery records a database query metric.
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table).Inc()
	}
}

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, route string, status int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the in-flight gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
		return
	}
	APIActiveRequests.Dec()
}

// RecordRecommendation records a completed recommendation request.
func RecordRecommendation(outcome string, candidates int, duration time.Duration) {
	RecommendRequests.WithLabelValues(outcome).Inc()
	RecommendDuration.Observe(duration.Seconds())
	if candidates >= 0 {
		RecommendCandidates.Observe(float64(candidates))
	}
}

// RecordStrategy records one strategy invocation.
func RecordStrategy(strategy, outcome string, duration time.Duration) {
	StrategyOutcomes.WithLabelValues(strategy, outcome).Inc()
	StrategyDuration.WithLabelValues(strategy).Observe(duration.Seconds())
}

// SetRecommendCacheSize updates the cache gauge.
func SetRecommendCacheSize(n int) {
	RecommendCacheSize.Set(float64(n))
}

// RecordInteraction counts an appended interaction.
func RecordInteraction(kind string) {
	InteractionsRecorded.WithLabelValues(kind).Inc()
}

// RecordProfileUpdate counts a profile update.
func RecordProfileUpdate(mode string, err error) {
	ProfileUpdates.WithLabelValues(mode, result(err)).Inc()
}

// RecordVectorized adds n to the vectorized items counter.
func RecordVectorized(n int) {
	ItemsVectorized.Add(float64(n))
}

// RecordVocabularyBuild records a vocabulary rebuild and its size.
func RecordVocabularyBuild(terms int) {
	VocabularyBuilds.Inc()
	VocabularySize.Set(float64(terms))
}

// RecordEventPublished counts a publish attempt.
func RecordEventPublished(topic string, err error) {
	EventsPublished.WithLabelValues(topic, result(err)).Inc()
}

// RecordEventConsumed counts a handled message.
func RecordEventConsumed(topic string, err error) {
	EventsConsumed.WithLabelValues(topic, result(err)).Inc()
}

// SetCircuitBreakerState exports a breaker state as 0, 1 or 2.
func SetCircuitBreakerState(name string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

// SetEvaluationScore exports the latest value of an offline metric.
func SetEvaluationScore(metric string, value float64) {
	EvaluationScore.WithLabelValues(metric).Set(value)
}

// RecordJob records a background job run.
func RecordJob(job string, duration time.Duration, err error) {
	JobRuns.WithLabelValues(job, result(err)).Inc()
	JobDuration.WithLabelValues(job).Observe(duration.Seconds())
}
