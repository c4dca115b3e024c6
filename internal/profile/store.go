// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package profile

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/curator/internal/interactions"
	"github.com/tomtom215/curator/internal/metrics"
	"github.com/tomtom215/curator/internal/models"
)

// ErrNotFound is returned when an identity has no profile yet.
var ErrNotFound = errors.New("profile not found")

// Repository persists profiles.
type Repository interface {
	// Profile returns ErrNotFound (possibly wrapped) for unknown keys.
	Profile(ctx context.Context, key string) (*Profile, error)
	SaveProfile(ctx context.Context, p *Profile) error
	// RecentProfiles returns up to limit profiles, most recently active first.
	RecentProfiles(ctx context.Context, limit int) ([]*Profile, error)
	// StaleProfiles returns identities whose profile was last recomputed
	// before the cutoff, oldest first.
	StaleProfiles(ctx context.Context, before time.Time, limit int) ([]models.Identity, error)
}

// History reads past interactions.
type History interface {
	InteractionsFor(ctx context.Context, id models.Identity, since time.Time) ([]interactions.Record, error)
	// ActiveIdentities returns identities with a non-impression
	// interaction since the cutoff, most recently active first.
	ActiveIdentities(ctx context.Context, since time.Time, limit int) ([]models.Identity, error)
}

// ItemLookup resolves catalog entries by id.
type ItemLookup interface {
	ItemsByID(ctx context.Context, ids []string) (map[string]models.ContentItem, error)
}

// Config configures a Store.
type Config struct {
	RecomputeWindow time.Duration
	RecomputeAfter  time.Duration
	LockStripes     int
	NeighborPool    int     // profiles scanned when looking for neighbors
	ItemsPerSecond  float64 // recompute pacing, 0 = unthrottled
}

// Store owns profile reads and writes.
type Store struct {
	repo    Repository
	history History
	items   ItemLookup
	cfg     Config
	locks   *keyedMutex
	limiter *rate.Limiter
	now     func() time.Time
	logger  zerolog.Logger
}

// NewStore creates a profile store.
//
//nolint:gocritic // hugeParam: zerolog.Logger is designed to be passed by value
func NewStore(repo Repository, history History, items ItemLookup, cfg Config, logger zerolog.Logger) *Store {
	if cfg.RecomputeWindow <= 0 {
		cfg.RecomputeWindow = 90 * 24 * time.Hour
	}
	if cfg.RecomputeAfter <= 0 {
		cfg.RecomputeAfter = 24 * time.Hour
	}
	if cfg.NeighborPool <= 0 {
		cfg.NeighborPool = 500
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.ItemsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.ItemsPerSecond), 1)
	}
	return &Store{
		repo:    repo,
		history: history,
		items:   items,
		cfg:     cfg,
		locks:   newKeyedMutex(cfg.LockStripes),
		limiter: limiter,
		now:     time.Now,
		logger:  logger.With().Str("component", "profile_store").Logger(),
	}
}

// Get returns the profile for id, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id models.Identity) (*Profile, error) {
	if id.IsZero() {
		return nil, interactions.ErrMissingIdentity
	}
	p, err := s.repo.Profile(ctx, id.Key())
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ApplyInteraction performs the incremental update for rec under the
// identity's lock. Impressions are ignored.
func (s *Store) ApplyInteraction(ctx context.Context, rec *interactions.Record) error {
	if rec.IsImpression() {
		return nil
	}
	key := rec.Identity.Key()
	if key == "" {
		return interactions.ErrMissingIdentity
	}

	var item *models.ContentItem
	found, err := s.items.ItemsByID(ctx, []string{rec.ItemID})
	if err != nil {
		s.logger.Warn().Err(err).Str("item_id", rec.ItemID).Msg("Item lookup failed, updating averages only")
	} else if it, ok := found[rec.ItemID]; ok {
		item = &it
	}

	unlock := s.locks.lock(key)
	defer unlock()

	p, err := s.repo.Profile(ctx, key)
	switch {
	case errors.Is(err, ErrNotFound):
		p = New(rec.Identity, s.now())
	case err != nil:
		metrics.RecordProfileUpdate("incremental", err)
		return fmt.Errorf("load profile %s: %w", key, err)
	}

	p.Apply(rec, item, s.now())
	err = s.repo.SaveProfile(ctx, p)
	metrics.RecordProfileUpdate("incremental", err)
	if err != nil {
		return fmt.Errorf("save profile %s: %w", key, err)
	}
	return nil
}

// Recompute rebuilds id's profile from the trailing window.
func (s *Store) Recompute(ctx context.Context, id models.Identity) (*Profile, error) {
	key := id.Key()
	if key == "" {
		return nil, interactions.ErrMissingIdentity
	}

	unlock := s.locks.lock(key)
	defer unlock()

	now := s.now()
	records, err := s.history.InteractionsFor(ctx, id, now.Add(-s.cfg.RecomputeWindow))
	if err != nil {
		metrics.RecordProfileUpdate("recompute", err)
		return nil, fmt.Errorf("load history for %s: %w", key, err)
	}

	ids := make([]string, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for i := range records {
		if _, ok := seen[records[i].ItemID]; !ok {
			seen[records[i].ItemID] = struct{}{}
			ids = append(ids, records[i].ItemID)
		}
	}
	items, err := s.items.ItemsByID(ctx, ids)
	if err != nil {
		metrics.RecordProfileUpdate("recompute", err)
		return nil, fmt.Errorf("load items for %s: %w", key, err)
	}

	p := Rebuild(id, records, items, now)
	err = s.repo.SaveProfile(ctx, p)
	metrics.RecordProfileUpdate("recompute", err)
	if err != nil {
		return nil, fmt.Errorf("save profile %s: %w", key, err)
	}
	return p, nil
}

// RecomputeResult summarizes a batch recompute.
type RecomputeResult struct {
	Examined   int           `json:"examined"`
	Recomputed int           `json:"recomputed"`
	Failed     int           `json:"failed"`
	Duration   time.Duration `json:"duration_ns"`
}

// RecomputeStale recomputes up to limit profiles not recomputed within
// RecomputeAfter. A failing profile is logged and skipped.
func (s *Store) RecomputeStale(ctx context.Context, limit int) (RecomputeResult, error) {
	start := s.now()
	res := RecomputeResult{}

	ids, err := s.repo.StaleProfiles(ctx, start.Add(-s.cfg.RecomputeAfter), limit)
	if err != nil {
		return res, fmt.Errorf("list stale profiles: %w", err)
	}
	for _, id := range ids {
		res.Examined++
		if err := s.limiter.Wait(ctx); err != nil {
			return res, err
		}
		if _, err := s.Recompute(ctx, id); err != nil {
			res.Failed++
			s.logger.Error().Err(err).Str("identity", id.Key()).Msg("Profile recompute failed")
			continue
		}
		res.Recomputed++
	}
	res.Duration = s.now().Sub(start)
	s.logger.Info().
		Int("examined", res.Examined).
		Int("recomputed", res.Recomputed).
		Int("failed", res.Failed).
		Dur("duration", res.Duration).
		Msg("Profile recompute complete")
	return res, nil
}

// Similar returns up to maxNeighbors profiles whose similarity to p is
// strictly above threshold, most similar first.
func (s *Store) Similar(ctx context.Context, p *Profile, maxNeighbors int, threshold float64) ([]Neighbor, error) {
	if p == nil || len(p.CategoryPreferences) == 0 || maxNeighbors <= 0 {
		return nil, nil
	}
	pool, err := s.repo.RecentProfiles(ctx, s.cfg.NeighborPool)
	if err != nil {
		return nil, fmt.Errorf("load neighbor pool: %w", err)
	}
	self := p.Key()
	out := make([]Neighbor, 0, maxNeighbors)
	for _, other := range pool {
		if other.Key() == self {
			continue
		}
		if sim := Similarity(p, other); sim > threshold {
			out = append(out, Neighbor{Profile: other, Similarity: sim})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Similarity > out[j].Similarity })
	if len(out) > maxNeighbors {
		out = out[:maxNeighbors]
	}
	return out, nil
}

// RecentIdentities lists up to limit identities that interacted within
// the recompute window, most recently active first. Visitors whose
// profile has not been written yet are included.
func (s *Store) RecentIdentities(ctx context.Context, limit int) ([]models.Identity, error) {
	ids, err := s.history.ActiveIdentities(ctx, s.now().Add(-s.cfg.RecomputeWindow), limit)
	if err != nil {
		return nil, fmt.Errorf("list active identities: %w", err)
	}
	return ids, nil
}
