// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package content

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/curator/internal/metrics"
	"github.com/tomtom215/curator/internal/models"
)

// VectorStore persists content vectors.
type VectorStore interface {
	Vectors(ctx context.Context, itemIDs []string) (map[string]Vector, error)
	SaveVectors(ctx context.Context, vectors []Vector) error
}

// Config configures a Service.
type Config struct {
	Snapshot       SnapshotOptions
	VocabularyTTL  time.Duration
	StaleAfter     time.Duration
	ItemsPerSecond float64 // batch refresh pacing, 0 = unthrottled
}

// Service vectorizes items lazily for requests and in batch for maintenance.
type Service struct {
	vocab   *VocabularyCache
	corpus  Corpus
	store   VectorStore
	cfg     Config
	limiter *rate.Limiter
	now     func() time.Time
	logger  zerolog.Logger
}

// NewService creates a vectorization service.
//
//nolint:gocritic // hugeParam: zerolog.Logger is designed to be passed by value
func NewService(corpus Corpus, store VectorStore, cfg Config, logger zerolog.Logger) *Service {
	if cfg.StaleAfter <= 0 {
		cfg.StaleAfter = 24 * time.Hour
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.ItemsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.ItemsPerSecond), 1)
	}
	return &Service{
		vocab:   NewVocabularyCache(corpus, cfg.Snapshot, cfg.VocabularyTTL, logger),
		corpus:  corpus,
		store:   store,
		cfg:     cfg,
		limiter: limiter,
		now:     time.Now,
		logger:  logger.With().Str("component", "vectorizer").Logger(),
	}
}

// Vocabulary exposes the snapshot cache.
func (s *Service) Vocabulary() *VocabularyCache {
	return s.vocab
}

// Vectorize computes item's vector without persisting it. It never fails:
// malformed text falls back to the basic path and an unavailable
// vocabulary yields zero vectors.
func (s *Service) Vectorize(ctx context.Context, item *models.ContentItem) Vector {
	snap, err := s.vocab.Snapshot(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Str("item_id", item.ID).Msg("Vocabulary unavailable, using zero vector")
		return ZeroVector(item.ID, nil, s.now())
	}
	return s.vectorizeWith(snap, item)
}

func (s *Service) vectorizeWith(snap *Snapshot, item *models.ContentItem) (v Vector) {
	now := s.now()
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().Interface("panic", r).Str("item_id", item.ID).Msg("Vectorization panicked, using zero vector")
			v = ZeroVector(item.ID, snap, now)
		}
	}()
	v, err := Vectorize(snap, item, now)
	if err != nil {
		s.logger.Warn().Err(err).Str("item_id", item.ID).Msg("Falling back to basic vectorization")
		v = VectorizeBasic(snap, item, now)
	}
	return v
}

// VectorsFor returns vectors for items, computing and saving any that are
// missing or laid out for a different snapshot. Storage errors are logged.
func (s *Service) VectorsFor(ctx context.Context, items []models.ContentItem) map[string]Vector {
	out := make(map[string]Vector, len(items))
	if len(items) == 0 {
		return out
	}

	snap, err := s.vocab.Snapshot(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Int("items", len(items)).Msg("Vocabulary unavailable, using zero vectors")
		for i := range items {
			out[items[i].ID] = ZeroVector(items[i].ID, nil, s.now())
		}
		return out
	}

	ids := make([]string, len(items))
	for i := range items {
		ids[i] = items[i].ID
	}
	stored, err := s.store.Vectors(ctx, ids)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to load stored vectors, recomputing")
		stored = nil
	}

	var fresh []Vector
	for i := range items {
		if v, ok := stored[items[i].ID]; ok && v.CompatibleWith(snap) {
			out[items[i].ID] = v
			continue
		}
		v := s.vectorizeWith(snap, &items[i])
		out[items[i].ID] = v
		fresh = append(fresh, v)
	}

	if len(fresh) > 0 {
		metrics.RecordVectorized(len(fresh))
		if err := s.store.SaveVectors(ctx, fresh); err != nil {
			s.logger.Warn().Err(err).Int("vectors", len(fresh)).Msg("Failed to save lazily computed vectors")
		}
	}
	return out
}

// RefreshResult summarizes a batch refresh.
type RefreshResult struct {
	Examined   int           `json:"examined"`
	Vectorized int           `json:"vectorized"`
	Failed     int           `json:"failed"`
	Version    string        `json:"model_version"`
	Duration   time.Duration `json:"duration_ns"`
}

// RefreshStale rebuilds the vocabulary and re-vectorizes every published
// item whose vector is missing, older than StaleAfter or laid out for a
// different snapshot. Per-item failures are logged and counted.
func (s *Service) RefreshStale(ctx context.Context) (RefreshResult, error) {
	start := s.now()
	res := RefreshResult{}

	s.vocab.Invalidate()
	snap, err := s.vocab.Rebuild(ctx)
	if err != nil {
		return res, fmt.Errorf("rebuild vocabulary: %w", err)
	}
	res.Version = snap.Version

	items, err := s.corpus.PublishedItems(ctx)
	if err != nil {
		return res, fmt.Errorf("load published items: %w", err)
	}
	ids := make([]string, len(items))
	for i := range items {
		ids[i] = items[i].ID
	}
	stored, err := s.store.Vectors(ctx, ids)
	if err != nil {
		return res, fmt.Errorf("load stored vectors: %w", err)
	}

	cutoff := start.Add(-s.cfg.StaleAfter)
	for i := range items {
		res.Examined++
		if v, ok := stored[items[i].ID]; ok && v.CompatibleWith(snap) && v.ComputedAt.After(cutoff) {
			continue
		}
		if err := s.limiter.Wait(ctx); err != nil {
			return res, err
		}
		v := s.vectorizeWith(snap, &items[i])
		if err := s.store.SaveVectors(ctx, []Vector{v}); err != nil {
			res.Failed++
			s.logger.Error().Err(err).Str("item_id", items[i].ID).Msg("Failed to save vector")
			continue
		}
		res.Vectorized++
	}

	metrics.RecordVectorized(res.Vectorized)
	res.Duration = s.now().Sub(start)
	s.logger.Info().
		Int("examined", res.Examined).
		Int("vectorized", res.Vectorized).
		Int("failed", res.Failed).
		Dur("duration", res.Duration).
		Msg("Vector refresh complete")
	return res, nil
}
