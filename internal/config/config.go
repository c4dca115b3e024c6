// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

// Package config loads service configuration with Koanf v2.
//
// Sources are layered, highest priority last:
//
//  1. Built-in defaults (defaultConfig)
//  2. Optional YAML file (config.yaml, /etc/curator/config.yaml or CONFIG_PATH)
//  3. Environment variables (see envMappings)
package config

import (
	"net"
	"strconv"
	"time"
)

// Config is the complete service configuration.
type Config struct {
	Server      ServerConfig      `koanf:"server"`
	Database    DatabaseConfig    `koanf:"database"`
	Badger      BadgerConfig      `koanf:"badger"`
	NATS        NATSConfig        `koanf:"nats"`
	Events      EventsConfig      `koanf:"events"`
	Logging     LoggingConfig     `koanf:"logging"`
	Security    SecurityConfig    `koanf:"security"`
	Vectorizer  VectorizerConfig  `koanf:"vectorizer"`
	Profile     ProfileConfig     `koanf:"profile"`
	Recommend   RecommendConfig   `koanf:"recommend"`
	Evaluation  EvaluationConfig  `koanf:"evaluation"`
	Maintenance MaintenanceConfig `koanf:"maintenance"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	RequestTimeout  time.Duration `koanf:"request_timeout"` // per-request deadline for recommendation calls
}

// DatabaseConfig holds DuckDB settings.
type DatabaseConfig struct {
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"` // 0 = runtime.NumCPU()

	// SeedDemoData loads a small demo catalog into an empty database.
	SeedDemoData bool `koanf:"seed_demo_data"`
}

// BadgerConfig holds the precomputed recommendation store settings.
type BadgerConfig struct {
	Enabled  bool   `koanf:"enabled"`
	Path     string `koanf:"path"`
	InMemory bool   `koanf:"in_memory"`
}

// NATSConfig holds NATS JetStream settings for the interaction event bus.
type NATSConfig struct {
	Enabled          bool          `koanf:"enabled"`
	URL              string        `koanf:"url"`
	EmbeddedServer   bool          `koanf:"embedded_server"`
	Host             string        `koanf:"host"`
	Port             int           `koanf:"port"`
	StoreDir         string        `koanf:"store_dir"`
	MaxMemory        int64         `koanf:"max_memory"`
	MaxStore         int64         `koanf:"max_store"`
	SubscribersCount int           `koanf:"subscribers_count"`
	DurableName      string        `koanf:"durable_name"`
	QueueGroup       string        `koanf:"queue_group"`
	AckWaitTimeout   time.Duration `koanf:"ack_wait_timeout"`
	CloseTimeout     time.Duration `koanf:"close_timeout"`
}

// EventsConfig controls how interaction events reach the profile store.
type EventsConfig struct {
	// Synchronous applies profile updates inline instead of through the bus.
	Synchronous          bool          `koanf:"synchronous"`
	Topic                string        `koanf:"topic"`
	RetryMaxRetries      int           `koanf:"retry_max_retries"`
	RetryInitialInterval time.Duration `koanf:"retry_initial_interval"`
	BufferSize           int64         `koanf:"buffer_size"`
}

// LoggingConfig holds zerolog settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// SecurityConfig holds HTTP edge settings and admin route authorization.
type SecurityConfig struct {
	// JWTSecret signs admin bearer tokens. Admin routes are disabled when empty.
	JWTSecret        string        `koanf:"jwt_secret"`
	AdminRoles       []string      `koanf:"admin_roles"`
	CasbinPolicyPath string        `koanf:"casbin_policy_path"`
	CORSOrigins      []string      `koanf:"cors_origins"`
	RateLimitReqs    int           `koanf:"rate_limit_requests"`
	RateLimitWindow  time.Duration `koanf:"rate_limit_window"`
	AdminRateLimit   int           `koanf:"admin_rate_limit"`
}

// VectorizerConfig holds content vectorization settings.
type VectorizerConfig struct {
	VocabularySize int           `koanf:"vocabulary_size"`
	MinTokenLength int           `koanf:"min_token_length"`
	MaxTokenLength int           `koanf:"max_token_length"`
	VocabularyTTL  time.Duration `koanf:"vocabulary_ttl"`
	StaleAfter     time.Duration `koanf:"stale_after"` // vectors older than this are refreshed in batch
}

// ProfileConfig holds visitor profile settings.
type ProfileConfig struct {
	RecomputeWindow time.Duration `koanf:"recompute_window"`
	RecomputeAfter  time.Duration `koanf:"recompute_after"`
	LockStripes     int           `koanf:"lock_stripes"`
}

// RecommendConfig holds recommendation engine settings.
type RecommendConfig struct {
	DefaultLimit       int           `koanf:"default_limit"`
	MaxLimit           int           `koanf:"max_limit"`
	MaxCandidates      int           `koanf:"max_candidates"`
	StrategyTimeout    time.Duration `koanf:"strategy_timeout"`
	CacheEnabled       bool          `koanf:"cache_enabled"`
	CacheTTL           time.Duration `koanf:"cache_ttl"`
	CacheMaxEntries    int           `koanf:"cache_max_entries"`
	PrecomputedTTL     time.Duration `koanf:"precomputed_ttl"`
	DiversityPenalty   float64       `koanf:"diversity_penalty"`
	LogRecommendations bool          `koanf:"log_recommendations"`

	Weights       RecommendWeights       `koanf:"weights"`
	Content       ContentStrategyConfig  `koanf:"content"`
	Collaborative CollaborativeConfig    `koanf:"collaborative"`
	Personalized  PersonalizedConfig     `koanf:"personalized"`
	Trending      TrendingStrategyConfig `koanf:"trending"`
}

// RecommendWeights are the fusion weights per strategy.
type RecommendWeights struct {
	Content       float64 `koanf:"content"`
	Collaborative float64 `koanf:"collaborative"`
	Personalized  float64 `koanf:"personalized"`
	Trending      float64 `koanf:"trending"`
}

// ContentStrategyConfig tunes content-based scoring.
type ContentStrategyConfig struct {
	MinScore float64 `koanf:"min_score"`
}

// CollaborativeConfig tunes collaborative scoring.
type CollaborativeConfig struct {
	MinScore            float64 `koanf:"min_score"`
	MaxNeighbors        int     `koanf:"max_neighbors"`
	SimilarityThreshold float64 `koanf:"similarity_threshold"`
}

// PersonalizedConfig tunes personalized scoring.
type PersonalizedConfig struct {
	MinScore float64 `koanf:"min_score"`
}

// TrendingStrategyConfig tunes trending scoring.
type TrendingStrategyConfig struct {
	MinScore float64       `koanf:"min_score"`
	Window   time.Duration `koanf:"window"`
}

// EvaluationConfig holds metric evaluation settings.
type EvaluationConfig struct {
	WindowDays int           `koanf:"window_days"`
	K          int           `koanf:"k"`
	CacheTTL   time.Duration `koanf:"cache_ttl"`
}

// MaintenanceConfig holds batch job schedules.
type MaintenanceConfig struct {
	VectorizeInterval    time.Duration `koanf:"vectorize_interval"`
	RecomputeInterval    time.Duration `koanf:"recompute_interval"`
	EvaluationInterval   time.Duration `koanf:"evaluation_interval"`
	PrecomputeInterval   time.Duration `koanf:"precompute_interval"`
	PrecomputeIdentities int           `koanf:"precompute_identities"`
	BatchSize            int           `koanf:"batch_size"`
	ItemsPerSecond       float64       `koanf:"items_per_second"` // 0 = unthrottled
	RunOnStartup         bool          `koanf:"run_on_startup"`
}

// Addr returns the HTTP listen address.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}
