// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package api

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/curator/internal/config"
	"github.com/tomtom215/curator/internal/content"
	"github.com/tomtom215/curator/internal/evaluation"
	"github.com/tomtom215/curator/internal/interactions"
	"github.com/tomtom215/curator/internal/models"
	"github.com/tomtom215/curator/internal/profile"
	"github.com/tomtom215/curator/internal/recommend"
)

// Recommender produces and precomputes recommendation lists.
type Recommender interface {
	Recommend(ctx context.Context, req recommend.Request) (*recommend.Response, error)
	Precompute(ctx context.Context, ids []models.Identity) (recommend.PrecomputeResult, error)
	Stats() recommend.Stats
}

// InteractionRecorder appends reported interactions.
type InteractionRecorder interface {
	Record(ctx context.Context, rep interactions.Report) (interactions.Record, error)
}

// VectorRefresher re-vectorizes stale catalog items.
type VectorRefresher interface {
	RefreshStale(ctx context.Context) (content.RefreshResult, error)
}

// ProfileMaintainer recomputes profiles and lists active visitors.
type ProfileMaintainer interface {
	RecomputeStale(ctx context.Context, limit int) (profile.RecomputeResult, error)
	RecentIdentities(ctx context.Context, limit int) ([]models.Identity, error)
}

// QualityEvaluator computes recommendation quality metrics.
type QualityEvaluator interface {
	Evaluate(ctx context.Context, windowDays, k int) (evaluation.Report, bool, error)
}

// ReadinessCheck reports whether a dependency can serve traffic.
type ReadinessCheck func(ctx context.Context) error

// HandlerDeps are the components served over HTTP. Admin dependencies may
// be nil when admin routes are disabled.
type HandlerDeps struct {
	Engine       Recommender
	Interactions InteractionRecorder
	Vectors      VectorRefresher
	Profiles     ProfileMaintainer
	Evaluator    QualityEvaluator
	Checks       map[string]ReadinessCheck
}

// HandlerConfig holds request defaults.
type HandlerConfig struct {
	RequestTimeout       time.Duration
	RecomputeBatch       int
	PrecomputeIdentities int
	EvaluationDays       int
	EvaluationK          int
}

// HandlerConfigFrom derives handler defaults from the service config.
func HandlerConfigFrom(cfg *config.Config) HandlerConfig {
	return HandlerConfig{
		RequestTimeout:       cfg.Server.RequestTimeout,
		RecomputeBatch:       cfg.Maintenance.BatchSize,
		PrecomputeIdentities: cfg.Maintenance.PrecomputeIdentities,
		EvaluationDays:       cfg.Evaluation.WindowDays,
		EvaluationK:          cfg.Evaluation.K,
	}
}

// Handler serves the HTTP endpoints.
type Handler struct {
	deps      HandlerDeps
	cfg       HandlerConfig
	startTime time.Time
	logger    zerolog.Logger
}

// NewHandler creates a handler.
//
//nolint:gocritic // hugeParam: zerolog.Logger is designed to be passed by value
func NewHandler(deps HandlerDeps, cfg HandlerConfig, logger zerolog.Logger) *Handler {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 10 * time.Second
	}
	if cfg.RecomputeBatch <= 0 {
		cfg.RecomputeBatch = 500
	}
	if cfg.PrecomputeIdentities <= 0 {
		cfg.PrecomputeIdentities = 1000
	}
	if cfg.EvaluationDays <= 0 {
		cfg.EvaluationDays = 30
	}
	if cfg.EvaluationK <= 0 {
		cfg.EvaluationK = 10
	}
	return &Handler{
		deps:      deps,
		cfg:       cfg,
		startTime: time.Now(),
		logger:    logger.With().Str("component", "api").Logger(),
	}
}
