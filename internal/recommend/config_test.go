// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package recommend

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("weights sum to 1", func(t *testing.T) {
		if sum := cfg.Weights.Sum(); math.Abs(sum-1) > 1e-9 {
			t.Errorf("weights sum = %f, want 1.0", sum)
		}
	})

	t.Run("limits", func(t *testing.T) {
		if cfg.Limits.DefaultLimit != 10 || cfg.Limits.MaxLimit != 20 {
			t.Errorf("limits = %d/%d, want 10/20", cfg.Limits.DefaultLimit, cfg.Limits.MaxLimit)
		}
		if cfg.Limits.StrategyTimeout <= 0 {
			t.Errorf("StrategyTimeout = %v, want > 0", cfg.Limits.StrategyTimeout)
		}
	})

	t.Run("is valid", func(t *testing.T) {
		if err := cfg.Validate(); err != nil {
			t.Errorf("Validate() error = %v", err)
		}
	})
}

func TestWeights_For(t *testing.T) {
	w := Weights{Content: 0.1, Collaborative: 0.2, Personalized: 0.3, Trending: 0.4}

	tests := []struct {
		source Source
		want   float64
	}{
		{SourceContent, 0.1},
		{SourceCollaborative, 0.2},
		{SourcePersonalized, 0.3},
		{SourceTrending, 0.4},
		{Source("unknown"), 0},
	}
	for _, tt := range tests {
		t.Run(tt.source.String(), func(t *testing.T) {
			if got := w.For(tt.source); got != tt.want {
				t.Errorf("For(%s) = %v, want %v", tt.source, got, tt.want)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{"default", func(*Config) {}, ""},
		{"negative weight", func(c *Config) { c.Weights.Trending = -0.1 }, "weights.trending"},
		{"NaN weight", func(c *Config) { c.Weights.Content = math.NaN() }, "weights.content"},
		{"all weights zero", func(c *Config) { c.Weights = Weights{} }, "at least one"},
		{"zero max limit", func(c *Config) { c.Limits.MaxLimit = 0 }, "max_limit"},
		{"default above max", func(c *Config) { c.Limits.DefaultLimit = 30 }, "default_limit"},
		{"too few candidates", func(c *Config) { c.Limits.MaxCandidates = 5 }, "max_candidates"},
		{"zero timeout", func(c *Config) { c.Limits.StrategyTimeout = 0 }, "strategy_timeout"},
		{"cache without ttl", func(c *Config) { c.Cache.TTL = 0 }, "cache.ttl"},
		{"disabled cache ignores ttl", func(c *Config) { c.Cache.Enabled = false; c.Cache.TTL = 0 }, ""},
		{"zero penalty", func(c *Config) { c.DiversityPenalty = 0 }, "diversity_penalty"},
		{"penalty above one", func(c *Config) { c.DiversityPenalty = 1.5 }, "diversity_penalty"},
		{"penalty of one disables", func(c *Config) { c.DiversityPenalty = 1 }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Clone(t *testing.T) {
	cfg := DefaultConfig()
	clone := cfg.Clone()
	clone.Weights.Content = 0.9
	clone.Limits.MaxLimit = 99

	if cfg.Weights.Content == 0.9 || cfg.Limits.MaxLimit == 99 {
		t.Error("modifying the clone changed the original")
	}
}

func TestConfig_MarshalJSON(t *testing.T) {
	cfg := DefaultConfig()
	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var decoded Config
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if decoded.Limits.StrategyTimeout != 2*time.Second || decoded.Weights != cfg.Weights {
		t.Errorf("decoded = %+v", decoded)
	}
}
