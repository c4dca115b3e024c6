// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar overrides the config file search.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultConfigPaths are searched in order; the first existing file wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/curator/config.yaml",
	"/etc/curator/config.yml",
}

// sliceConfigPaths accept comma-separated strings from the environment.
var sliceConfigPaths = []string{
	"security.cors_origins",
	"security.admin_roles",
}

// envMappings maps lowercased environment variable names to koanf paths.
// Variables not listed here are ignored.
var envMappings = map[string]string{
	// Server
	"http_host":             "server.host",
	"http_port":             "server.port",
	"http_read_timeout":     "server.read_timeout",
	"http_write_timeout":    "server.write_timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"http_request_timeout":  "server.request_timeout",

	// Storage
	"duckdb_path":       "database.path",
	"duckdb_max_memory": "database.max_memory",
	"duckdb_threads":    "database.threads",
	"seed_demo_data":    "database.seed_demo_data",
	"badger_enabled":    "badger.enabled",
	"badger_path":       "badger.path",
	"badger_in_memory":  "badger.in_memory",

	// NATS
	"nats_enabled":      "nats.enabled",
	"nats_url":          "nats.url",
	"nats_embedded":     "nats.embedded_server",
	"nats_host":         "nats.host",
	"nats_port":         "nats.port",
	"nats_store_dir":    "nats.store_dir",
	"nats_max_memory":   "nats.max_memory",
	"nats_max_store":    "nats.max_store",
	"nats_subscribers":  "nats.subscribers_count",
	"nats_durable_name": "nats.durable_name",
	"nats_queue_group":  "nats.queue_group",

	// Events
	"events_synchronous":    "events.synchronous",
	"events_topic":          "events.topic",
	"events_retry_count":    "events.retry_max_retries",
	"events_retry_interval": "events.retry_initial_interval",
	"events_buffer_size":    "events.buffer_size",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Security
	"jwt_secret":          "security.jwt_secret",
	"admin_roles":         "security.admin_roles",
	"casbin_policy_path":  "security.casbin_policy_path",
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_requests",
	"rate_limit_window":   "security.rate_limit_window",
	"admin_rate_limit":    "security.admin_rate_limit",

	// Vectorizer
	"vectorizer_vocabulary_size": "vectorizer.vocabulary_size",
	"vectorizer_vocabulary_ttl":  "vectorizer.vocabulary_ttl",
	"vectorizer_stale_after":     "vectorizer.stale_after",

	// Profiles
	"profile_recompute_window": "profile.recompute_window",
	"profile_recompute_after":  "profile.recompute_after",

	// Recommendation engine
	"recommend_default_limit":        "recommend.default_limit",
	"recommend_max_limit":            "recommend.max_limit",
	"recommend_max_candidates":       "recommend.max_candidates",
	"recommend_strategy_timeout":     "recommend.strategy_timeout",
	"recommend_cache_enabled":        "recommend.cache_enabled",
	"recommend_cache_ttl":            "recommend.cache_ttl",
	"recommend_precomputed_ttl":      "recommend.precomputed_ttl",
	"recommend_diversity_penalty":    "recommend.diversity_penalty",
	"recommend_weight_content":       "recommend.weights.content",
	"recommend_weight_collaborative": "recommend.weights.collaborative",
	"recommend_weight_personalized":  "recommend.weights.personalized",
	"recommend_weight_trending":      "recommend.weights.trending",
	"recommend_trending_window":      "recommend.trending.window",

	// Evaluation
	"evaluation_window_days": "evaluation.window_days",
	"evaluation_k":           "evaluation.k",

	// Maintenance
	"maintenance_vectorize_interval":  "maintenance.vectorize_interval",
	"maintenance_recompute_interval":  "maintenance.recompute_interval",
	"maintenance_evaluation_interval": "maintenance.evaluation_interval",
	"maintenance_precompute_interval": "maintenance.precompute_interval",
	"maintenance_batch_size":          "maintenance.batch_size",
	"maintenance_items_per_second":    "maintenance.items_per_second",
	"maintenance_run_on_startup":      "maintenance.run_on_startup",
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            3857,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			RequestTimeout:  5 * time.Second,
		},
		Database: DatabaseConfig{
			Path:      "/data/curator.duckdb",
			MaxMemory: "1GB",
		},
		Badger: BadgerConfig{
			Enabled: true,
			Path:    "/data/precomputed",
		},
		NATS: NATSConfig{
			Enabled:          false, // in-process gochannel bus unless enabled
			URL:              "nats://127.0.0.1:4222",
			EmbeddedServer:   true,
			Host:             "127.0.0.1",
			Port:             4222,
			StoreDir:         "/data/nats/jetstream",
			MaxMemory:        256 << 20,
			MaxStore:         1 << 30,
			SubscribersCount: 2,
			DurableName:      "curator-profiles",
			QueueGroup:       "curator",
			AckWaitTimeout:   30 * time.Second,
			CloseTimeout:     10 * time.Second,
		},
		Events: EventsConfig{
			Synchronous:          false,
			Topic:                "interaction.recorded",
			RetryMaxRetries:      3,
			RetryInitialInterval: 100 * time.Millisecond,
			BufferSize:           1024,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Security: SecurityConfig{
			AdminRoles:      []string{"admin"},
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			AdminRateLimit:  10,
		},
		Vectorizer: VectorizerConfig{
			VocabularySize: 200,
			MinTokenLength: 3,
			MaxTokenLength: 20,
			VocabularyTTL:  time.Hour,
			StaleAfter:     24 * time.Hour,
		},
		Profile: ProfileConfig{
			RecomputeWindow: 90 * 24 * time.Hour,
			RecomputeAfter:  24 * time.Hour,
			LockStripes:     64,
		},
		Recommend: RecommendConfig{
			DefaultLimit:       10,
			MaxLimit:           20,
			MaxCandidates:      100,
			StrategyTimeout:    2 * time.Second,
			CacheEnabled:       true,
			CacheTTL:           5 * time.Minute,
			CacheMaxEntries:    10000,
			PrecomputedTTL:     30 * time.Minute,
			DiversityPenalty:   0.9,
			LogRecommendations: true,
			Weights: RecommendWeights{
				Content:       0.3,
				Collaborative: 0.25,
				Personalized:  0.35,
				Trending:      0.1,
			},
			Content:       ContentStrategyConfig{MinScore: 0.1},
			Collaborative: CollaborativeConfig{MinScore: 0.1, MaxNeighbors: 10, SimilarityThreshold: 0.3},
			Personalized:  PersonalizedConfig{MinScore: 0.1},
			Trending:      TrendingStrategyConfig{MinScore: 0.05, Window: 7 * 24 * time.Hour},
		},
		Evaluation: EvaluationConfig{
			WindowDays: 30,
			K:          10,
			CacheTTL:   5 * time.Minute,
		},
		Maintenance: MaintenanceConfig{
			VectorizeInterval:    time.Hour,
			RecomputeInterval:    6 * time.Hour,
			EvaluationInterval:   24 * time.Hour,
			PrecomputeInterval:   30 * time.Minute,
			PrecomputeIdentities: 500,
			BatchSize:            100,
			ItemsPerSecond:       50,
			RunOnStartup:         true,
		},
	}
}

// Load reads configuration from defaults, an optional file and the environment.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// LoadWithKoanf performs the layered load and validates the result.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	// RECOMMEND_CACHE_TTL -> recommend.cache_ttl
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		raw, ok := k.Get(path).(string)
		if !ok || raw == "" {
			continue
		}
		parts := splitCSV(raw)
		if len(parts) == 0 {
			continue
		}
		if err := k.Set(path, parts); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

func splitCSV(s string) []string {
	out := make([]string, 0, strings.Count(s, ",")+1)
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
