// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package recommend

import (
	"fmt"
	"math"
	"time"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Weights defines the contribution of each strategy to the fused score.
	Weights Weights `json:"weights"`

	// Limits contains operational limits.
	Limits LimitsConfig `json:"limits"`

	// Cache contains caching parameters.
	Cache CacheConfig `json:"cache"`

	// Breaker configures the per-strategy circuit breakers.
	Breaker BreakerConfig `json:"breaker"`

	// DiversityPenalty multiplies a candidate's score once per category
	// already seen higher in the list. 1 disables the penalty.
	DiversityPenalty float64 `json:"diversity_penalty"`

	// LogImpressions writes every returned item to the interaction log.
	LogImpressions bool `json:"log_impressions"`
}

// Weights defines the fusion weight of each strategy.
type Weights struct {
	Content       float64 `json:"content"`
	Collaborative float64 `json:"collaborative"`
	Personalized  float64 `json:"personalized"`
	Trending      float64 `json:"trending"`
}

// For returns the weight of source, 0 for unknown sources.
//
//nolint:gocritic // value receiver is intentional for immutable semantics
func (w Weights) For(source Source) float64 {
	switch source {
	case SourceContent:
		return w.Content
	case SourceCollaborative:
		return w.Collaborative
	case SourcePersonalized:
		return w.Personalized
	case SourceTrending:
		return w.Trending
	default:
		return 0
	}
}

// Sum returns the total of all weights.
//
//nolint:gocritic // value receiver is intentional for immutable semantics
func (w Weights) Sum() float64 {
	return w.Content + w.Collaborative + w.Personalized + w.Trending
}

// LimitsConfig bounds the work done per request.
type LimitsConfig struct {
	// DefaultLimit applies when a request leaves Limit at zero.
	DefaultLimit int `json:"default_limit"`

	// MaxLimit is the largest accepted Limit. Larger requests are rejected.
	MaxLimit int `json:"max_limit"`

	// MaxCandidates caps the candidate working set.
	MaxCandidates int `json:"max_candidates"`

	// StrategyTimeout bounds a single strategy. A strategy that runs out
	// of time contributes nothing.
	StrategyTimeout time.Duration `json:"strategy_timeout"`
}

// CacheConfig contains caching parameters.
type CacheConfig struct {
	Enabled    bool          `json:"enabled"`
	TTL        time.Duration `json:"ttl"`
	MaxEntries int           `json:"max_entries"`

	// PrecomputedTTL is the lifetime of lists written by Precompute.
	PrecomputedTTL time.Duration `json:"precomputed_ttl"`
}

// BreakerConfig configures the per-strategy circuit breakers.
type BreakerConfig struct {
	// FailureThreshold is the number of consecutive failures that opens
	// a breaker.
	FailureThreshold uint32 `json:"failure_threshold"`

	// OpenTimeout is how long an open breaker skips its strategy before
	// letting a trial request through.
	OpenTimeout time.Duration `json:"open_timeout"`
}

// DefaultConfig returns the production defaults.
func DefaultConfig() *Config {
	return &Config{
		Weights: Weights{
			Content:       0.3,
			Collaborative: 0.25,
			Personalized:  0.35,
			Trending:      0.1,
		},
		Limits: LimitsConfig{
			DefaultLimit:    10,
			MaxLimit:        20,
			MaxCandidates:   100,
			StrategyTimeout: 2 * time.Second,
		},
		Cache: CacheConfig{
			Enabled:        true,
			TTL:            5 * time.Minute,
			MaxEntries:     10000,
			PrecomputedTTL: 30 * time.Minute,
		},
		Breaker: BreakerConfig{
			FailureThreshold: 5,
			OpenTimeout:      30 * time.Second,
		},
		DiversityPenalty: 0.9,
		LogImpressions:   true,
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	for name, w := range map[string]float64{
		"content":       c.Weights.Content,
		"collaborative": c.Weights.Collaborative,
		"personalized":  c.Weights.Personalized,
		"trending":      c.Weights.Trending,
	} {
		if w < 0 || math.IsNaN(w) {
			return fmt.Errorf("weights.%s must be non-negative, got %v", name, w)
		}
	}
	if c.Weights.Sum() == 0 {
		return fmt.Errorf("at least one strategy weight must be positive")
	}
	if c.Limits.MaxLimit < 1 {
		return fmt.Errorf("limits.max_limit must be at least 1, got %d", c.Limits.MaxLimit)
	}
	if c.Limits.DefaultLimit < 1 || c.Limits.DefaultLimit > c.Limits.MaxLimit {
		return fmt.Errorf("limits.default_limit must be in [1, %d], got %d", c.Limits.MaxLimit, c.Limits.DefaultLimit)
	}
	if c.Limits.MaxCandidates < c.Limits.MaxLimit {
		return fmt.Errorf("limits.max_candidates must be at least max_limit, got %d", c.Limits.MaxCandidates)
	}
	if c.Limits.StrategyTimeout <= 0 {
		return fmt.Errorf("limits.strategy_timeout must be positive")
	}
	if c.Cache.Enabled && (c.Cache.TTL <= 0 || c.Cache.MaxEntries <= 0) {
		return fmt.Errorf("cache.ttl and cache.max_entries must be positive when the cache is enabled")
	}
	if c.DiversityPenalty <= 0 || c.DiversityPenalty > 1 {
		return fmt.Errorf("diversity_penalty must be in (0, 1], got %v", c.DiversityPenalty)
	}
	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
