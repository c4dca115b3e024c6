// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/curator/internal/cache"
	"github.com/tomtom215/curator/internal/content"
	"github.com/tomtom215/curator/internal/interactions"
	"github.com/tomtom215/curator/internal/logging"
	"github.com/tomtom215/curator/internal/metrics"
	"github.com/tomtom215/curator/internal/models"
	"github.com/tomtom215/curator/internal/profile"
)

const computeTimeoutFactor = 3

// Catalog reads published items.
type Catalog interface {
	// Candidates returns up to limit published items other than exclude,
	// most recently published first.
	Candidates(ctx context.Context, exclude string, limit int) ([]models.ContentItem, error)

	// ItemsByID resolves items by id. Unknown ids are absent from the map.
	ItemsByID(ctx context.Context, ids []string) (map[string]models.ContentItem, error)
}

// Vectorizer returns content vectors, computing missing ones on the spot.
type Vectorizer interface {
	VectorsFor(ctx context.Context, items []models.ContentItem) map[string]content.Vector
}

// ProfileSource loads visitor profiles.
type ProfileSource interface {
	Get(ctx context.Context, id models.Identity) (*profile.Profile, error)
}

// ImpressionLog records the items a visitor was shown.
type ImpressionLog interface {
	RecordImpressions(ctx context.Context, recs []interactions.Record) error
}

// PrecomputedStore keeps recommendation lists computed ahead of time.
type PrecomputedStore interface {
	// Load returns nil without error when key is absent or expired.
	Load(ctx context.Context, key string) (*Response, error)
	Save(ctx context.Context, key string, resp *Response, ttl time.Duration) error
}

// Deps are the engine's collaborators. Impressions and Precomputed are optional.
type Deps struct {
	Catalog     Catalog
	Vectors     Vectorizer
	Profiles    ProfileSource
	Impressions ImpressionLog
	Precomputed PrecomputedStore
}

// Engine coordinates the strategies and produces final recommendations.
// It is safe for concurrent use.
type Engine struct {
	config *Config
	deps   Deps
	logger zerolog.Logger

	// Registered strategies and rerankers
	strategies []Strategy
	breakers   map[Source]*strategyBreaker
	rerankers  []Reranker
	algMu      sync.RWMutex

	cache *cache.TTL[*Response]
	group singleflight.Group

	// Counters
	requestCount    atomic.Int64
	cacheHits       atomic.Int64
	cacheMisses     atomic.Int64
	precomputedHits atomic.Int64
	errorCount      atomic.Int64

	now func() time.Time
}

// NewEngine creates a new recommendation engine.
//
//nolint:gocritic // hugeParam: zerolog.Logger is designed to be passed by value
func NewEngine(cfg *Config, deps Deps, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if deps.Catalog == nil || deps.Vectors == nil || deps.Profiles == nil {
		return nil, errors.New("catalog, vectors and profiles are required")
	}

	maxEntries := cfg.Cache.MaxEntries
	if maxEntries <= 0 {
		maxEntries = 1
	}
	return &Engine{
		config:   cfg,
		deps:     deps,
		logger:   logger.With().Str("component", "recommend").Logger(),
		breakers: make(map[Source]*strategyBreaker),
		cache:    cache.New[*Response](cfg.Cache.TTL, maxEntries),
		now:      time.Now,
	}, nil
}

// RegisterStrategy adds a strategy. Registering a second strategy with
// the same source replaces the first.
func (e *Engine) RegisterStrategy(s Strategy) {
	e.algMu.Lock()
	defer e.algMu.Unlock()

	for i, existing := range e.strategies {
		if existing.Source() == s.Source() {
			e.strategies[i] = s
			return
		}
	}
	e.strategies = append(e.strategies, s)
	e.breakers[s.Source()] = newStrategyBreaker(s.Source(), e.config.Breaker, e.logger)
	e.logger.Info().
		Str("strategy", s.Source().String()).
		Float64("weight", e.config.Weights.For(s.Source())).
		Msg("registered strategy")
}

// RegisterReranker adds a reranker to the post-processing pipeline.
func (e *Engine) RegisterReranker(rr Reranker) {
	e.algMu.Lock()
	defer e.algMu.Unlock()

	e.rerankers = append(e.rerankers, rr)
	e.logger.Info().
		Str("reranker", rr.Name()).
		Msg("registered reranker")
}

// Recommend returns up to req.Limit recommendations. Only malformed
// requests return an error; every other failure degrades the result.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Recommend(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	e.requestCount.Add(1)

	req, err := e.prepareRequest(req)
	if err != nil {
		metrics.RecordRecommendation("rejected", -1, time.Since(start))
		return nil, err
	}
	logger := e.createRequestLogger(req)
	logger.Debug().Msg("processing recommendation request")

	if resp := e.tryGetCachedResponse(req, start, logger); resp != nil {
		e.logImpressions(ctx, req, resp, logger)
		metrics.RecordRecommendation("cache_hit", -1, time.Since(start))
		return resp, nil
	}

	if resp := e.tryGetPrecomputed(ctx, req, start, logger); resp != nil {
		e.logImpressions(ctx, req, resp, logger)
		metrics.RecordRecommendation("precomputed", -1, time.Since(start))
		return resp, nil
	}

	// Waiting callers share the result, so the computation must outlive
	// the caller that happened to start it.
	v, _, _ := e.group.Do(e.cacheKey(req), func() (interface{}, error) {
		cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.computeTimeout())
		defer cancel()
		resp, cacheable := e.compute(cctx, req, logger)
		if cacheable {
			e.cacheResponse(req, resp)
		}
		return resp, nil
	})
	resp := copyResponse(v.(*Response))
	resp.Metadata.RequestID = req.RequestID
	resp.Metadata.LatencyMS = time.Since(start).Milliseconds()

	e.logImpressions(ctx, req, resp, logger)
	metrics.RecordRecommendation("computed", resp.TotalCandidates, time.Since(start))

	logger.Debug().
		Int("candidates", resp.TotalCandidates).
		Int("returned", len(resp.Items)).
		Int64("latency_ms", resp.Metadata.LatencyMS).
		Msg("recommendation complete")

	return resp, nil
}

// prepareRequest validates the request and applies defaults.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) prepareRequest(req Request) (Request, error) {
	if req.Identity.IsZero() {
		return req, ErrMissingIdentity
	}
	if req.Limit == 0 {
		req.Limit = e.config.Limits.DefaultLimit
	}
	if req.Limit < 1 || req.Limit > e.config.Limits.MaxLimit {
		return req, fmt.Errorf("%w: %d not in [1, %d]", ErrInvalidLimit, req.Limit, e.config.Limits.MaxLimit)
	}
	if req.RequestID == "" {
		req.RequestID = logging.NewRequestID()
	}
	return req, nil
}

// createRequestLogger creates a logger with request context.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) createRequestLogger(req Request) zerolog.Logger {
	return e.logger.With().
		Str("request_id", req.RequestID).
		Str("identity", req.Identity.Key()).
		Str("context_item_id", req.ContextItemID).
		Int("limit", req.Limit).
		Logger()
}

// tryGetCachedResponse attempts to retrieve a cached response.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) tryGetCachedResponse(req Request, start time.Time, logger zerolog.Logger) *Response {
	if !e.config.Cache.Enabled {
		return nil
	}

	cached, ok := e.cache.Get(e.cacheKey(req))
	if !ok {
		e.cacheMisses.Add(1)
		return nil
	}

	e.cacheHits.Add(1)
	resp := copyResponse(cached)
	resp.Metadata.RequestID = req.RequestID
	resp.Metadata.CacheHit = true
	resp.Metadata.LatencyMS = time.Since(start).Milliseconds()
	logger.Debug().Msg("cache hit")
	return resp
}

// tryGetPrecomputed serves a list stored by Precompute. Only requests
// without a context item are eligible.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) tryGetPrecomputed(ctx context.Context, req Request, start time.Time, logger zerolog.Logger) *Response {
	if e.deps.Precomputed == nil || req.ContextItemID != "" {
		return nil
	}
	stored, err := e.deps.Precomputed.Load(ctx, precomputedKey(req.Identity))
	if err != nil {
		logger.Warn().Err(err).Msg("failed to load precomputed recommendations")
		return nil
	}
	if stored == nil {
		return nil
	}

	e.precomputedHits.Add(1)
	resp := copyResponse(stored)
	if len(resp.Items) > req.Limit {
		resp.Items = resp.Items[:req.Limit]
	}
	resp.Metadata.RequestID = req.RequestID
	resp.Metadata.Precomputed = true
	resp.Metadata.LatencyMS = time.Since(start).Milliseconds()
	logger.Debug().Msg("served precomputed recommendations")
	return resp
}

// compute runs the full pipeline. The boolean reports whether the result
// is complete enough to cache.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) compute(ctx context.Context, req Request, logger zerolog.Logger) (*Response, bool) {
	start := time.Now()

	in, err := e.loadInput(ctx, req, logger)
	if err != nil {
		e.errorCount.Add(1)
		logger.Error().Err(err).Msg("failed to load candidates, returning empty list")
		return e.emptyResponse(req, start), false
	}
	if len(in.Candidates) == 0 {
		logger.Debug().Msg("no candidates available")
		return e.emptyResponse(req, start), true
	}

	results := e.runStrategies(ctx, in)
	items := e.fuse(results, in.Candidates)
	items = e.applyRerankers(ctx, items)
	sortRecommendations(items)

	if len(items) > req.Limit {
		items = items[:req.Limit]
	}
	for i := range items {
		items[i].Position = i + 1
	}

	resp := &Response{
		Items:           items,
		TotalCandidates: len(in.Candidates),
		Metadata:        e.buildResponseMetadata(req, results, in, start),
	}
	return resp, true
}

// computeTimeout bounds a shared computation: candidate loading and
// reranking around one strategy round.
func (e *Engine) computeTimeout() time.Duration {
	return computeTimeoutFactor * e.config.Limits.StrategyTimeout
}

// loadInput assembles the shared read-only strategy input.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) loadInput(ctx context.Context, req Request, logger zerolog.Logger) (*Input, error) {
	items, err := e.deps.Catalog.Candidates(ctx, req.ContextItemID, e.config.Limits.MaxCandidates)
	if err != nil {
		return nil, fmt.Errorf("get candidates: %w", err)
	}

	in := &Input{Identity: req.Identity, Now: e.now()}

	var contextItem *models.ContentItem
	if req.ContextItemID != "" {
		found, err := e.deps.Catalog.ItemsByID(ctx, []string{req.ContextItemID})
		switch {
		case err != nil:
			logger.Warn().Err(err).Msg("failed to load context item, skipping content strategy")
		default:
			if item, ok := found[req.ContextItemID]; ok {
				contextItem = &item
			}
		}
	}

	toVectorize := items
	if contextItem != nil {
		toVectorize = append(append(make([]models.ContentItem, 0, len(items)+1), items...), *contextItem)
	}
	vectors := e.deps.Vectors.VectorsFor(ctx, toVectorize)

	in.Candidates = make([]Candidate, len(items))
	for i := range items {
		in.Candidates[i] = Candidate{Item: items[i], Vector: vectors[items[i].ID]}
	}
	if contextItem != nil {
		in.Context = &Candidate{Item: *contextItem, Vector: vectors[contextItem.ID]}
	}

	p, err := e.deps.Profiles.Get(ctx, req.Identity)
	switch {
	case errors.Is(err, profile.ErrNotFound):
	case err != nil:
		logger.Warn().Err(err).Msg("failed to load profile, continuing without it")
	case p != nil && p.InteractionCount > 0:
		in.Profile = p
	}
	return in, nil
}

// strategyResult holds the outcome of a single strategy.
type strategyResult struct {
	source  Source
	scores  []Score
	err     error
	skipped bool
}

// getStrategies returns a copy of the registered strategies.
func (e *Engine) getStrategies() []Strategy {
	e.algMu.RLock()
	defer e.algMu.RUnlock()
	return append([]Strategy(nil), e.strategies...)
}

// runStrategies runs every applicable strategy in parallel.
func (e *Engine) runStrategies(ctx context.Context, in *Input) []strategyResult {
	strategies := e.getStrategies()
	results := make([]strategyResult, len(strategies))
	var wg sync.WaitGroup

	for i, s := range strategies {
		if !s.Applicable(in) {
			results[i] = strategyResult{source: s.Source(), skipped: true}
			metrics.RecordStrategy(s.Source().String(), "skipped", 0)
			continue
		}
		wg.Add(1)
		go func(idx int, s Strategy) {
			defer wg.Done()
			results[idx] = e.runStrategy(ctx, in, s)
		}(i, s)
	}

	wg.Wait()
	return results
}

// runStrategy runs one strategy behind its timeout and circuit breaker.
func (e *Engine) runStrategy(ctx context.Context, in *Input, s Strategy) strategyResult {
	start := time.Now()
	result := strategyResult{source: s.Source()}

	sctx, cancel := context.WithTimeout(ctx, e.config.Limits.StrategyTimeout)
	defer cancel()

	e.algMu.RLock()
	breaker := e.breakers[s.Source()]
	e.algMu.RUnlock()

	result.scores, result.err = breaker.execute(func() ([]Score, error) {
		return invokeStrategy(sctx, s, in)
	})

	outcome := "ok"
	switch {
	case result.err == nil:
	case isBreakerOpen(result.err):
		outcome = "open"
	case errors.Is(result.err, context.DeadlineExceeded):
		outcome = "timeout"
	default:
		outcome = "error"
	}
	metrics.RecordStrategy(s.Source().String(), outcome, time.Since(start))

	if result.err != nil {
		e.logger.Warn().
			Str("strategy", s.Source().String()).
			Str("outcome", outcome).
			Err(result.err).
			Msg("strategy failed, dropping its contribution")
		result.scores = nil
	}
	return result
}

// invokeStrategy calls s.Score, converting panics to errors and giving up
// when ctx expires even if the strategy does not watch it.
func invokeStrategy(ctx context.Context, s Strategy, in *Input) ([]Score, error) {
	type outcome struct {
		scores []Score
		err    error
	}
	done := make(chan outcome, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("strategy %s panicked: %v", s.Source(), r)}
			}
		}()
		scores, err := s.Score(ctx, in)
		done <- outcome{scores: scores, err: err}
	}()

	select {
	case o := <-done:
		return o.scores, o.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// fuse sums weighted strategy scores per candidate.
func (e *Engine) fuse(results []strategyResult, candidates []Candidate) []Recommendation {
	byID := make(map[string]*Candidate, len(candidates))
	for i := range candidates {
		byID[candidates[i].Item.ID] = &candidates[i]
	}

	fused := make(map[string]*Recommendation)
	for _, result := range results {
		weight := e.config.Weights.For(result.source)
		if weight <= 0 {
			continue
		}
		for _, s := range result.scores {
			cand, ok := byID[s.ItemID]
			if !ok || !(s.Score > 0) {
				continue
			}
			rec := fused[s.ItemID]
			if rec == nil {
				rec = &Recommendation{
					Item:    cand.Item,
					Scores:  make(map[Source]float64),
					reasons: make(map[Source]string),
				}
				fused[s.ItemID] = rec
			}
			rec.Score += s.Score * weight
			rec.Scores[result.source] = s.Score
			rec.reasons[result.source] = s.Reason
			for k, v := range s.Metadata {
				if rec.Metadata == nil {
					rec.Metadata = make(map[string]float64)
				}
				rec.Metadata[result.source.String()+"."+k] = v
			}
		}
	}

	items := make([]Recommendation, 0, len(fused))
	for _, rec := range fused {
		rec.Sources = e.rankSources(rec.Scores)
		rec.Reason = composeReason(rec)
		items = append(items, *rec)
	}
	sortRecommendations(items)
	return items
}

// rankSources orders contributing sources by weighted contribution.
func (e *Engine) rankSources(scores map[Source]float64) []Source {
	sources := make([]Source, 0, len(scores))
	for s := range scores {
		sources = append(sources, s)
	}
	sort.Slice(sources, func(i, j int) bool {
		ci := scores[sources[i]] * e.config.Weights.For(sources[i])
		cj := scores[sources[j]] * e.config.Weights.For(sources[j])
		if ci != cj {
			return ci > cj
		}
		return sources[i] < sources[j]
	})
	return sources
}

// composeReason joins the contributing reasons, strongest first.
func composeReason(rec *Recommendation) string {
	reason := ""
	for _, s := range rec.Sources {
		r := rec.reasons[s]
		if r == "" {
			continue
		}
		if reason != "" {
			reason += "; "
		}
		reason += r
	}
	if reason == "" {
		reason = "Recommended for you"
	}
	return reason
}

// sortRecommendations sorts by descending score, ties by item id.
func sortRecommendations(items []Recommendation) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].Item.ID < items[j].Item.ID
	})
}

// applyRerankers applies post-processing rerankers to the fused items.
func (e *Engine) applyRerankers(ctx context.Context, items []Recommendation) []Recommendation {
	e.algMu.RLock()
	rerankers := e.rerankers
	e.algMu.RUnlock()

	for _, rr := range rerankers {
		items = rr.Rerank(ctx, items)
	}
	return items
}

// buildResponseMetadata constructs response metadata.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) buildResponseMetadata(req Request, results []strategyResult, in *Input, start time.Time) ResponseMetadata {
	md := ResponseMetadata{
		RequestID:      req.RequestID,
		Identity:       req.Identity.Key(),
		ContextItemID:  req.ContextItemID,
		StrategiesUsed: []Source{},
		LatencyMS:      time.Since(start).Milliseconds(),
		Timestamp:      e.now(),
	}
	for _, r := range results {
		switch {
		case r.skipped:
			md.StrategiesSkipped = append(md.StrategiesSkipped, r.source)
		case r.err != nil:
			md.StrategiesFailed = append(md.StrategiesFailed, r.source)
		case len(r.scores) > 0:
			md.StrategiesUsed = append(md.StrategiesUsed, r.source)
		}
	}
	if len(in.Candidates) > 0 {
		md.VocabularyVersion = in.Candidates[0].Vector.ModelVersion
	}
	return md
}

// emptyResponse returns an empty response for cases with no candidates.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) emptyResponse(req Request, start time.Time) *Response {
	return &Response{
		Items: []Recommendation{},
		Metadata: ResponseMetadata{
			RequestID:      req.RequestID,
			Identity:       req.Identity.Key(),
			ContextItemID:  req.ContextItemID,
			StrategiesUsed: []Source{},
			LatencyMS:      time.Since(start).Milliseconds(),
			Timestamp:      e.now(),
		},
	}
}

// logImpressions writes each returned item as a view impression. Failures
// are logged and never surface to the caller.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) logImpressions(ctx context.Context, req Request, resp *Response, logger zerolog.Logger) {
	if !e.config.LogImpressions || e.deps.Impressions == nil || len(resp.Items) == 0 {
		return
	}
	recs := make([]interactions.Record, len(resp.Items))
	for i := range resp.Items {
		item := &resp.Items[i]
		recs[i] = interactions.Record{
			Identity: req.Identity,
			ItemID:   item.Item.ID,
			Source:   item.PrimarySource().String(),
			Reason:   item.Reason,
			Score:    item.Score,
			Position: item.Position,
		}
	}
	if err := e.deps.Impressions.RecordImpressions(ctx, recs); err != nil {
		logger.Warn().Err(err).Int("items", len(recs)).Msg("failed to log recommendation impressions")
	}
}

// cacheKey generates a cache key for a request.
//
//nolint:gocritic // hugeParam: req passed by value for simplicity
func (e *Engine) cacheKey(req Request) string {
	return "rec:" + req.Identity.Key() + ":" + req.ContextItemID + ":" + strconv.Itoa(req.Limit)
}

// cacheResponse stores the response in cache if enabled.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) cacheResponse(req Request, resp *Response) {
	if !e.config.Cache.Enabled {
		return
	}
	e.cache.Set(e.cacheKey(req), resp)
	metrics.SetRecommendCacheSize(e.cache.Len())
}

func precomputedKey(id models.Identity) string {
	return "precomputed:" + id.Key()
}

// copyResponse copies the item slice so callers can renumber or truncate
// it. Item maps are shared and must be treated as read-only.
func copyResponse(resp *Response) *Response {
	items := make([]Recommendation, len(resp.Items))
	copy(items, resp.Items)

	out := *resp
	out.Items = items
	return &out
}

// PrecomputeResult summarizes a Precompute run.
type PrecomputeResult struct {
	Identities int           `json:"identities"`
	Stored     int           `json:"stored"`
	Failed     int           `json:"failed"`
	Duration   time.Duration `json:"duration"`
}

// Precompute computes MaxLimit-sized lists for ids and stores them with
// the precomputed TTL. Per-identity failures are logged and counted.
func (e *Engine) Precompute(ctx context.Context, ids []models.Identity) (PrecomputeResult, error) {
	if e.deps.Precomputed == nil {
		return PrecomputeResult{}, errors.New("precomputed store not configured")
	}
	start := time.Now()
	res := PrecomputeResult{Identities: len(ids)}

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		req, err := e.prepareRequest(Request{Identity: id, Limit: e.config.Limits.MaxLimit})
		if err != nil {
			res.Failed++
			continue
		}
		logger := e.createRequestLogger(req)
		resp, complete := e.compute(ctx, req, logger)
		if !complete {
			res.Failed++
			continue
		}
		if err := e.deps.Precomputed.Save(ctx, precomputedKey(id), resp, e.config.Cache.PrecomputedTTL); err != nil {
			res.Failed++
			logger.Warn().Err(err).Msg("failed to store precomputed recommendations")
			continue
		}
		res.Stored++
	}

	res.Duration = time.Since(start)
	e.logger.Info().
		Int("identities", res.Identities).
		Int("stored", res.Stored).
		Int("failed", res.Failed).
		Dur("duration", res.Duration).
		Msg("precompute complete")
	return res, nil
}

// Stats returns the engine's request counters.
func (e *Engine) Stats() Stats {
	e.algMu.RLock()
	breakers := make(map[Source]string, len(e.breakers))
	for source, b := range e.breakers {
		breakers[source] = b.state().String()
	}
	e.algMu.RUnlock()

	return Stats{
		Requests:     e.requestCount.Load(),
		CacheHits:    e.cacheHits.Load(),
		CacheMisses:  e.cacheMisses.Load(),
		Precomputed:  e.precomputedHits.Load(),
		Errors:       e.errorCount.Load(),
		CacheEntries: e.cache.Len(),
		Breakers:     breakers,
	}
}

// ClearCache drops every cached response.
func (e *Engine) ClearCache() {
	e.cache.Clear()
	metrics.SetRecommendCacheSize(0)
	e.logger.Debug().Msg("cache cleared")
}

// GetConfig returns a copy of the current configuration.
func (e *Engine) GetConfig() *Config {
	return e.config.Clone()
}
