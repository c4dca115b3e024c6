// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Vectorizer.VocabularySize != 200 {
		t.Errorf("Vectorizer.VocabularySize = %d, want 200", cfg.Vectorizer.VocabularySize)
	}
	if cfg.Recommend.MaxLimit != 20 {
		t.Errorf("Recommend.MaxLimit = %d, want 20", cfg.Recommend.MaxLimit)
	}
	if cfg.Recommend.MaxCandidates != 100 {
		t.Errorf("Recommend.MaxCandidates = %d, want 100", cfg.Recommend.MaxCandidates)
	}
	if cfg.Recommend.CacheTTL != 5*time.Minute {
		t.Errorf("Recommend.CacheTTL = %v, want 5m", cfg.Recommend.CacheTTL)
	}
	if cfg.Recommend.PrecomputedTTL != 30*time.Minute {
		t.Errorf("Recommend.PrecomputedTTL = %v, want 30m", cfg.Recommend.PrecomputedTTL)
	}
	if cfg.Profile.RecomputeWindow != 90*24*time.Hour {
		t.Errorf("Profile.RecomputeWindow = %v, want 2160h", cfg.Profile.RecomputeWindow)
	}
	if cfg.Recommend.Trending.Window != 7*24*time.Hour {
		t.Errorf("Recommend.Trending.Window = %v, want 168h", cfg.Recommend.Trending.Window)
	}
	if cfg.Events.Topic != "interaction.recorded" {
		t.Errorf("Events.Topic = %q", cfg.Events.Topic)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{"DUCKDB_PATH", "database.path"},
		{"HTTP_PORT", "server.port"},
		{"RECOMMEND_CACHE_TTL", "recommend.cache_ttl"},
		{"RECOMMEND_WEIGHT_TRENDING", "recommend.weights.trending"},
		{"NATS_URL", "nats.url"},
		{"HOME", ""},
		{"PATH", ""},
	}
	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			if got := envTransformFunc(tt.env); got != tt.want {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.env, got, tt.want)
			}
		})
	}
}

func TestLoadWithKoanf_EnvOverrides(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("DUCKDB_PATH", "/tmp/test.duckdb")
	t.Setenv("RECOMMEND_CACHE_TTL", "90s")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.Database.Path != "/tmp/test.duckdb" {
		t.Errorf("Database.Path = %q", cfg.Database.Path)
	}
	if cfg.Recommend.CacheTTL != 90*time.Second {
		t.Errorf("Recommend.CacheTTL = %v, want 90s", cfg.Recommend.CacheTTL)
	}
	if len(cfg.Security.CORSOrigins) != 2 || cfg.Security.CORSOrigins[1] != "https://b.example" {
		t.Errorf("Security.CORSOrigins = %v", cfg.Security.CORSOrigins)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q", cfg.Logging.Level)
	}
}

func TestLoadWithKoanf_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
recommend:
  max_limit: 15
  default_limit: 5
  weights:
    content: 0.4
    collaborative: 0.2
    personalized: 0.3
    trending: 0.1
evaluation:
  k: 5
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.Recommend.MaxLimit != 15 || cfg.Recommend.DefaultLimit != 5 {
		t.Errorf("limits = %d/%d, want 15/5", cfg.Recommend.MaxLimit, cfg.Recommend.DefaultLimit)
	}
	if cfg.Recommend.Weights.Content != 0.4 {
		t.Errorf("Weights.Content = %v, want 0.4", cfg.Recommend.Weights.Content)
	}
	// untouched keys keep defaults
	if cfg.Vectorizer.VocabularySize != 200 {
		t.Errorf("Vectorizer.VocabularySize = %d, want 200", cfg.Vectorizer.VocabularySize)
	}
	if cfg.Evaluation.K != 5 {
		t.Errorf("Evaluation.K = %d, want 5", cfg.Evaluation.K)
	}
}

func TestSplitCSV(t *testing.T) {
	got := splitCSV(" a, ,b ,c,")
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("splitCSV = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("splitCSV[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
