// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package recommend

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/curator/internal/content"
	"github.com/tomtom215/curator/internal/models"
	"github.com/tomtom215/curator/internal/profile"
)

// Request validation errors. Nothing is logged or cached for a rejected request.
var (
	ErrMissingIdentity = errors.New("account id or session id is required")
	ErrInvalidLimit    = errors.New("limit out of range")
)

// Source names the strategy that produced a score.
type Source string

// Strategy sources.
const (
	SourceContent       Source = "content"
	SourceCollaborative Source = "collaborative"
	SourcePersonalized  Source = "personalized"
	SourceTrending      Source = "trending"
)

// String returns the source name.
func (s Source) String() string {
	return string(s)
}

// Request represents a recommendation request.
type Request struct {
	// Identity is the visitor. At least one of its fields must be set.
	Identity models.Identity `json:"identity"`

	// ContextItemID is the item currently being viewed, if any. It seeds
	// the content strategy and is excluded from the candidates.
	ContextItemID string `json:"context_item_id,omitempty"`

	// Limit is the number of recommendations to return.
	// Defaults to Config.Limits.DefaultLimit if zero.
	Limit int `json:"limit,omitempty"`

	// RequestID is a unique identifier for tracing.
	RequestID string `json:"request_id,omitempty"`
}

// Candidate is a catalog item with its content vector.
type Candidate struct {
	Item   models.ContentItem
	Vector content.Vector
}

// Input is the read-only state shared by all strategies for one request.
type Input struct {
	Identity   models.Identity
	Context    *Candidate // nil without a usable context item
	Candidates []Candidate
	Profile    *profile.Profile // nil for visitors without history
	Now        time.Time
}

// Score is one strategy's opinion about one candidate.
type Score struct {
	ItemID   string
	Score    float64
	Reason   string
	Metadata map[string]float64
}

// Strategy scores candidates. Implementations must be safe for concurrent
// use and must not modify the Input.
type Strategy interface {
	// Source identifies the strategy and selects its fusion weight.
	Source() Source

	// Applicable reports whether the strategy can run for this input.
	// Inapplicable strategies are skipped silently.
	Applicable(in *Input) bool

	// Score returns the candidates the strategy wants to emit.
	Score(ctx context.Context, in *Input) ([]Score, error)
}

// Reranker post-processes the fused list before truncation.
type Reranker interface {
	Name() string
	Rerank(ctx context.Context, items []Recommendation) []Recommendation
}

// Recommendation is one ranked item.
type Recommendation struct {
	Item models.ContentItem `json:"item"`

	// Score is the fused and diversity-penalized score.
	Score float64 `json:"combined_score"`

	// Sources lists the strategies that emitted this item, strongest first.
	Sources []Source `json:"sources"`

	// Scores is the raw score of each contributing strategy.
	Scores map[Source]float64 `json:"scores"`

	// Reason is a human-readable explanation.
	Reason string `json:"reason"`

	// Metadata holds strategy diagnostics keyed "<source>.<name>".
	Metadata map[string]float64 `json:"metadata,omitempty"`

	// Position is the 1-based rank in the returned list.
	Position int `json:"position"`

	reasons map[Source]string
}

// PrimarySource returns the strongest contributing source.
func (r *Recommendation) PrimarySource() Source {
	if len(r.Sources) == 0 {
		return ""
	}
	return r.Sources[0]
}

// Response is the result of a recommendation request.
type Response struct {
	Items           []Recommendation `json:"items"`
	TotalCandidates int              `json:"total_candidates"`
	Metadata        ResponseMetadata `json:"metadata"`
}

// ResponseMetadata describes how a response was produced.
type ResponseMetadata struct {
	RequestID         string    `json:"request_id"`
	Identity          string    `json:"identity"`
	ContextItemID     string    `json:"context_item_id,omitempty"`
	StrategiesUsed    []Source  `json:"strategies_used"`
	StrategiesSkipped []Source  `json:"strategies_skipped,omitempty"`
	StrategiesFailed  []Source  `json:"strategies_failed,omitempty"`
	VocabularyVersion string    `json:"vocabulary_version,omitempty"`
	LatencyMS         int64     `json:"latency_ms"`
	CacheHit          bool      `json:"cache_hit"`
	Precomputed       bool      `json:"precomputed"`
	Timestamp         time.Time `json:"timestamp"`
}

// Stats are the engine's request counters.
type Stats struct {
	Requests     int64             `json:"requests"`
	CacheHits    int64             `json:"cache_hits"`
	CacheMisses  int64             `json:"cache_misses"`
	Precomputed  int64             `json:"precomputed_hits"`
	Errors       int64             `json:"errors"`
	CacheEntries int               `json:"cache_entries"`
	Breakers     map[Source]string `json:"breakers"`
}
