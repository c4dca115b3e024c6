// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/curator/internal/content"
	"github.com/tomtom215/curator/internal/evaluation"
	"github.com/tomtom215/curator/internal/metrics"
	"github.com/tomtom215/curator/internal/models"
	"github.com/tomtom215/curator/internal/profile"
	"github.com/tomtom215/curator/internal/recommend"
)

// Job names, used as the job label on metrics and in logs.
const (
	JobVectorize  = "vectorize"
	JobRecompute  = "profile_recompute"
	JobEvaluation = "evaluation"
	JobPrecompute = "precompute"
)

// gcDiscardRatio is the badger value log discard threshold after precompute.
const gcDiscardRatio = 0.5

// JobFunc is one run of a batch job.
type JobFunc func(ctx context.Context) error

// JobConfig schedules a batch job.
type JobConfig struct {
	// Interval between runs. Default: 1h
	Interval time.Duration

	// RunOnStartup runs the job once as soon as the service starts.
	RunOnStartup bool

	// Timeout bounds a single run. Default: 30m
	Timeout time.Duration
}

// JobService runs a batch job on a fixed interval. A failed run is logged
// and counted; the loop keeps going so one bad run does not restart the
// layer.
type JobService struct {
	name   string
	job    JobFunc
	config JobConfig
	logger zerolog.Logger
}

// NewJobService creates a periodic job.
//
//nolint:gocritic // hugeParam: zerolog.Logger is designed to be passed by value
func NewJobService(name string, job JobFunc, cfg JobConfig, logger zerolog.Logger) *JobService {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Minute
	}
	return &JobService{
		name:   name,
		job:    job,
		config: cfg,
		logger: logger.With().Str("service", name).Logger(),
	}
}

// Serve implements suture.Service.
func (s *JobService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("run_on_startup", s.config.RunOnStartup).
		Dur("interval", s.config.Interval).
		Msg("Job scheduled")

	if s.config.RunOnStartup {
		_ = s.run(ctx)
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			_ = s.run(ctx)
		}
	}
}

// RunOnce runs the job synchronously, outside the schedule.
func (s *JobService) RunOnce(ctx context.Context) error {
	return s.run(ctx)
}

func (s *JobService) run(ctx context.Context) error {
	runCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	start := time.Now()
	err := s.job(runCtx)
	duration := time.Since(start)
	metrics.RecordJob(s.name, duration, err)

	if err != nil {
		if ctx.Err() == nil {
			s.logger.Warn().Err(err).Dur("duration", duration).Msg("Job failed, retrying on schedule")
		}
		return err
	}
	s.logger.Debug().Dur("duration", duration).Msg("Job complete")
	return nil
}

// String implements fmt.Stringer for suture's event log.
func (s *JobService) String() string {
	return s.name
}

// VectorRefresher re-vectorizes stale catalog items.
type VectorRefresher interface {
	RefreshStale(ctx context.Context) (content.RefreshResult, error)
}

// NewVectorizeService refreshes content vectors on a schedule.
//
//nolint:gocritic // hugeParam: zerolog.Logger is designed to be passed by value
func NewVectorizeService(refresher VectorRefresher, cfg JobConfig, logger zerolog.Logger) *JobService {
	log := logger.With().Str("service", JobVectorize).Logger()
	return NewJobService(JobVectorize, func(ctx context.Context) error {
		res, err := refresher.RefreshStale(ctx)
		if err != nil {
			return err
		}
		log.Info().
			Int("examined", res.Examined).
			Int("vectorized", res.Vectorized).
			Int("failed", res.Failed).
			Str("model_version", res.Version).
			Msg("Content vectors refreshed")
		return nil
	}, cfg, logger)
}

// ProfileRecomputer rebuilds stale profiles from interaction history.
type ProfileRecomputer interface {
	RecomputeStale(ctx context.Context, limit int) (profile.RecomputeResult, error)
}

// NewProfileRecomputeService recomputes up to batchSize stale profiles per run.
//
//nolint:gocritic // hugeParam: zerolog.Logger is designed to be passed by value
func NewProfileRecomputeService(profiles ProfileRecomputer, batchSize int, cfg JobConfig, logger zerolog.Logger) *JobService {
	if batchSize <= 0 {
		batchSize = 100
	}
	log := logger.With().Str("service", JobRecompute).Logger()
	return NewJobService(JobRecompute, func(ctx context.Context) error {
		res, err := profiles.RecomputeStale(ctx, batchSize)
		if err != nil {
			return err
		}
		log.Info().
			Int("examined", res.Examined).
			Int("recomputed", res.Recomputed).
			Int("failed", res.Failed).
			Msg("Profiles recomputed")
		return nil
	}, cfg, logger)
}

// QualityEvaluator computes offline recommendation quality.
type QualityEvaluator interface {
	Evaluate(ctx context.Context, windowDays, k int) (evaluation.Report, bool, error)
}

// NewEvaluationService evaluates the trailing window and exports the
// scores as gauges.
//
//nolint:gocritic // hugeParam: zerolog.Logger is designed to be passed by value
func NewEvaluationService(evaluator QualityEvaluator, windowDays, k int, cfg JobConfig, logger zerolog.Logger) *JobService {
	log := logger.With().Str("service", JobEvaluation).Logger()
	return NewJobService(JobEvaluation, func(ctx context.Context) error {
		rep, _, err := evaluator.Evaluate(ctx, windowDays, k)
		if err != nil {
			return err
		}
		evaluation.Export(&rep)
		log.Info().
			Int("window_days", windowDays).
			Int("k", k).
			Float64("precision_at_k", rep.PrecisionAtK).
			Float64("ndcg_at_k", rep.NDCGAtK).
			Float64("ctr", rep.CTR).
			Msg("Evaluation exported")
		return nil
	}, cfg, logger)
}

// IdentitySource lists recently active identities.
type IdentitySource interface {
	RecentIdentities(ctx context.Context, limit int) ([]models.Identity, error)
}

// Precomputer fills the precomputed recommendation store.
type Precomputer interface {
	Precompute(ctx context.Context, ids []models.Identity) (recommend.PrecomputeResult, error)
}

// GarbageCollector reclaims space in the precomputed store.
type GarbageCollector interface {
	RunGC(discardRatio float64) error
}

// NewPrecomputeService precomputes recommendations for the most recently
// active identities, then garbage collects the store when gc is set.
//
//nolint:gocritic // hugeParam: zerolog.Logger is designed to be passed by value
func NewPrecomputeService(identities IdentitySource, engine Precomputer, gc GarbageCollector, limit int, cfg JobConfig, logger zerolog.Logger) *JobService {
	if limit <= 0 {
		limit = 500
	}
	log := logger.With().Str("service", JobPrecompute).Logger()
	return NewJobService(JobPrecompute, func(ctx context.Context) error {
		ids, err := identities.RecentIdentities(ctx, limit)
		if err != nil {
			return fmt.Errorf("list identities: %w", err)
		}
		res, err := engine.Precompute(ctx, ids)
		if err != nil {
			return err
		}
		log.Info().
			Int("identities", res.Identities).
			Int("stored", res.Stored).
			Int("failed", res.Failed).
			Dur("duration", res.Duration).
			Msg("Recommendations precomputed")

		if gc != nil {
			if err := gc.RunGC(gcDiscardRatio); err != nil {
				log.Warn().Err(err).Msg("Precomputed store GC failed")
			}
		}
		return nil
	}, cfg, logger)
}
