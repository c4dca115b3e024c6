// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package config

import (
	"fmt"
	"math"
	"strings"
)

// minJWTSecretLength is the shortest accepted HS256 signing secret.
const minJWTSecretLength = 32

// Validate checks the configuration for values the service cannot run with.
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateDatabase,
		c.validateNATS,
		c.validateLogging,
		c.validateSecurity,
		c.validateVectorizer,
		c.validateRecommend,
		c.validateEvaluation,
		c.validateMaintenance,
	}
	for _, v := range validators {
		if err := v(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("server.request_timeout must be positive")
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("database.threads must be >= 0")
	}
	if c.Badger.Enabled && !c.Badger.InMemory && c.Badger.Path == "" {
		return fmt.Errorf("badger.path is required unless badger.in_memory is set")
	}
	return nil
}

func (c *Config) validateNATS() error {
	if c.Events.Topic == "" {
		return fmt.Errorf("events.topic is required")
	}
	if c.Events.RetryMaxRetries < 0 {
		return fmt.Errorf("events.retry_max_retries must be >= 0")
	}
	if !c.NATS.Enabled {
		return nil
	}
	if c.NATS.URL == "" && !c.NATS.EmbeddedServer {
		return fmt.Errorf("nats.url is required when the embedded server is disabled")
	}
	if c.NATS.SubscribersCount < 1 {
		return fmt.Errorf("nats.subscribers_count must be at least 1")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "off", "disabled":
	default:
		return fmt.Errorf("logging.level %q is not a known level", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console", "pretty":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.JWTSecret != "" && len(c.Security.JWTSecret) < minJWTSecretLength {
		return fmt.Errorf("security.jwt_secret must be at least %d characters", minJWTSecretLength)
	}
	if c.Security.RateLimitReqs < 0 || c.Security.AdminRateLimit < 0 {
		return fmt.Errorf("security rate limits must be >= 0")
	}
	return nil
}

func (c *Config) validateVectorizer() error {
	v := c.Vectorizer
	if v.VocabularySize < 1 {
		return fmt.Errorf("vectorizer.vocabulary_size must be at least 1")
	}
	if v.MinTokenLength < 1 || v.MaxTokenLength < v.MinTokenLength {
		return fmt.Errorf("vectorizer token lengths are invalid: min=%d max=%d", v.MinTokenLength, v.MaxTokenLength)
	}
	if c.Profile.RecomputeWindow <= 0 {
		return fmt.Errorf("profile.recompute_window must be positive")
	}
	return nil
}

func (c *Config) validateRecommend() error {
	r := c.Recommend
	if r.MaxLimit < 1 {
		return fmt.Errorf("recommend.max_limit must be at least 1")
	}
	if r.DefaultLimit < 1 || r.DefaultLimit > r.MaxLimit {
		return fmt.Errorf("recommend.default_limit must be between 1 and %d", r.MaxLimit)
	}
	if r.MaxCandidates < r.MaxLimit {
		return fmt.Errorf("recommend.max_candidates (%d) must be >= recommend.max_limit (%d)", r.MaxCandidates, r.MaxLimit)
	}
	if r.DiversityPenalty <= 0 || r.DiversityPenalty > 1 {
		return fmt.Errorf("recommend.diversity_penalty must be in (0, 1]")
	}
	w := r.Weights
	for name, v := range map[string]float64{
		"content": w.Content, "collaborative": w.Collaborative,
		"personalized": w.Personalized, "trending": w.Trending,
	} {
		if v < 0 {
			return fmt.Errorf("recommend.weights.%s must be >= 0", name)
		}
	}
	if sum := w.Content + w.Collaborative + w.Personalized + w.Trending; math.Abs(sum-1) > 0.01 {
		return fmt.Errorf("recommend.weights must sum to 1.0, got %.3f", sum)
	}
	if r.Collaborative.SimilarityThreshold < 0 || r.Collaborative.SimilarityThreshold > 1 {
		return fmt.Errorf("recommend.collaborative.similarity_threshold must be in [0, 1]")
	}
	if r.Trending.Window <= 0 {
		return fmt.Errorf("recommend.trending.window must be positive")
	}
	return nil
}

func (c *Config) validateEvaluation() error {
	if c.Evaluation.WindowDays < 1 {
		return fmt.Errorf("evaluation.window_days must be at least 1")
	}
	if c.Evaluation.K < 1 {
		return fmt.Errorf("evaluation.k must be at least 1")
	}
	return nil
}

func (c *Config) validateMaintenance() error {
	m := c.Maintenance
	if m.BatchSize < 1 {
		return fmt.Errorf("maintenance.batch_size must be at least 1")
	}
	if m.ItemsPerSecond < 0 {
		return fmt.Errorf("maintenance.items_per_second must be >= 0")
	}
	return nil
}
