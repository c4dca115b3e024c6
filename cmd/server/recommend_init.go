// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package main

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/curator/internal/config"
	"github.com/tomtom215/curator/internal/content"
	"github.com/tomtom215/curator/internal/database"
	"github.com/tomtom215/curator/internal/interactions"
	"github.com/tomtom215/curator/internal/profile"
	"github.com/tomtom215/curator/internal/recommend"
	"github.com/tomtom215/curator/internal/recommend/algorithms"
	"github.com/tomtom215/curator/internal/recommend/reranking"
	"github.com/tomtom215/curator/internal/recommend/storage"
)

// strategyRegistrar holds what the four strategies need.
type strategyRegistrar struct {
	engine   *recommend.Engine
	cfg      *config.RecommendConfig
	db       *database.DB
	profiles *profile.Store
	logger   zerolog.Logger
}

// initEngine builds the engine with every strategy and the category
// penalty reranker. precomputed may be nil.
//
//nolint:gocritic // hugeParam: zerolog.Logger is designed to be passed by value
func initEngine(cfg *config.Config, db *database.DB, vectors *content.Service, profiles *profile.Store,
	log *interactions.Log, precomputed *storage.Store, logger zerolog.Logger) (*recommend.Engine, error) {
	deps := recommend.Deps{
		Catalog:  db,
		Vectors:  vectors,
		Profiles: profiles,
	}
	if cfg.Recommend.LogRecommendations {
		deps.Impressions = log
	}
	// A nil *storage.Store must not become a non-nil interface.
	if precomputed != nil {
		deps.Precomputed = precomputed
	}

	engine, err := recommend.NewEngine(buildEngineConfig(cfg), deps, logger)
	if err != nil {
		return nil, fmt.Errorf("create recommendation engine: %w", err)
	}

	registrar := &strategyRegistrar{
		engine:   engine,
		cfg:      &cfg.Recommend,
		db:       db,
		profiles: profiles,
		logger:   logger,
	}
	registrar.registerAll()

	engine.RegisterReranker(reranking.NewCategoryPenalty(cfg.Recommend.DiversityPenalty))
	logger.Debug().Float64("factor", cfg.Recommend.DiversityPenalty).Msg("Registered category penalty reranker")

	logger.Info().
		Int("max_limit", cfg.Recommend.MaxLimit).
		Dur("strategy_timeout", cfg.Recommend.StrategyTimeout).
		Bool("cache", cfg.Recommend.CacheEnabled).
		Bool("precomputed", precomputed != nil).
		Msg("Recommendation engine ready")
	return engine, nil
}

// buildEngineConfig maps application config onto the engine's own config.
// Breaker settings keep the engine defaults.
func buildEngineConfig(cfg *config.Config) *recommend.Config {
	rc := recommend.DefaultConfig()
	r := &cfg.Recommend

	rc.Weights = recommend.Weights{
		Content:       r.Weights.Content,
		Collaborative: r.Weights.Collaborative,
		Personalized:  r.Weights.Personalized,
		Trending:      r.Weights.Trending,
	}
	rc.Limits = recommend.LimitsConfig{
		DefaultLimit:    r.DefaultLimit,
		MaxLimit:        r.MaxLimit,
		MaxCandidates:   r.MaxCandidates,
		StrategyTimeout: r.StrategyTimeout,
	}
	rc.Cache = recommend.CacheConfig{
		Enabled:        r.CacheEnabled,
		TTL:            r.CacheTTL,
		MaxEntries:     r.CacheMaxEntries,
		PrecomputedTTL: r.PrecomputedTTL,
	}
	rc.DiversityPenalty = r.DiversityPenalty
	rc.LogImpressions = r.LogRecommendations
	return rc
}

func (r *strategyRegistrar) registerAll() {
	r.engine.RegisterStrategy(algorithms.NewContent(algorithms.ContentConfig{
		MinScore: r.cfg.Content.MinScore,
	}))
	r.logger.Debug().Msg("Registered content strategy")

	r.engine.RegisterStrategy(algorithms.NewCollaborative(r.profiles, r.db, algorithms.CollaborativeConfig{
		MaxNeighbors:        r.cfg.Collaborative.MaxNeighbors,
		SimilarityThreshold: r.cfg.Collaborative.SimilarityThreshold,
		MinScore:            r.cfg.Collaborative.MinScore,
	}))
	r.logger.Debug().
		Int("max_neighbors", r.cfg.Collaborative.MaxNeighbors).
		Float64("threshold", r.cfg.Collaborative.SimilarityThreshold).
		Msg("Registered collaborative strategy")

	r.engine.RegisterStrategy(algorithms.NewPersonalized(algorithms.PersonalizedConfig{
		MinScore: r.cfg.Personalized.MinScore,
	}))
	r.logger.Debug().Msg("Registered personalized strategy")

	r.engine.RegisterStrategy(algorithms.NewTrending(r.db, algorithms.TrendingConfig{
		Window:   r.cfg.Trending.Window,
		MinScore: r.cfg.Trending.MinScore,
	}))
	r.logger.Debug().Dur("window", r.cfg.Trending.Window).Msg("Registered trending strategy")
}
