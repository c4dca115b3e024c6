// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package recommend

import (
	"context"
	"errors"
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/curator/internal/content"
	"github.com/tomtom215/curator/internal/interactions"
	"github.com/tomtom215/curator/internal/models"
	"github.com/tomtom215/curator/internal/profile"
)

// mockCatalog implements Catalog for testing.
type mockCatalog struct {
	items []models.ContentItem
	err   error
	calls atomic.Int32
}

func (m *mockCatalog) Candidates(_ context.Context, exclude string, limit int) ([]models.ContentItem, error) {
	m.calls.Add(1)
	if m.err != nil {
		return nil, m.err
	}
	out := make([]models.ContentItem, 0, len(m.items))
	for _, it := range m.items {
		if it.Published && it.ID != exclude {
			out = append(out, it)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PublishedAt.After(out[j].PublishedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockCatalog) ItemsByID(_ context.Context, ids []string) (map[string]models.ContentItem, error) {
	out := make(map[string]models.ContentItem)
	for _, it := range m.items {
		for _, id := range ids {
			if it.ID == id {
				out[id] = it
			}
		}
	}
	return out, nil
}

// mockVectors vectorizes against a snapshot of the whole catalog.
type mockVectors struct {
	snap *content.Snapshot
}

func newMockVectors(items []models.ContentItem) *mockVectors {
	return &mockVectors{snap: content.BuildSnapshot(items, nil, nil, content.SnapshotOptions{}, time.Now())}
}

func (m *mockVectors) VectorsFor(_ context.Context, items []models.ContentItem) map[string]content.Vector {
	out := make(map[string]content.Vector, len(items))
	for i := range items {
		out[items[i].ID] = content.VectorizeBasic(m.snap, &items[i], time.Now())
	}
	return out
}

// mockProfiles implements ProfileSource for testing.
type mockProfiles struct {
	profiles map[string]*profile.Profile
	err      error
}

func (m *mockProfiles) Get(_ context.Context, id models.Identity) (*profile.Profile, error) {
	if m.err != nil {
		return nil, m.err
	}
	if p, ok := m.profiles[id.Key()]; ok {
		return p, nil
	}
	return nil, profile.ErrNotFound
}

// mockImpressions implements ImpressionLog for testing.
type mockImpressions struct {
	mu      sync.Mutex
	records []interactions.Record
	err     error
}

func (m *mockImpressions) RecordImpressions(_ context.Context, recs []interactions.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, recs...)
	return m.err
}

func (m *mockImpressions) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

// mockPrecomputed implements PrecomputedStore for testing.
type mockPrecomputed struct {
	mu    sync.Mutex
	lists map[string]*Response
	ttl   time.Duration
}

func (m *mockPrecomputed) Load(_ context.Context, key string) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lists[key], nil
}

func (m *mockPrecomputed) Save(_ context.Context, key string, resp *Response, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.lists == nil {
		m.lists = make(map[string]*Response)
	}
	m.lists[key] = resp
	m.ttl = ttl
	return nil
}

// mockStrategy implements Strategy for testing.
type mockStrategy struct {
	source     Source
	applicable func(*Input) bool
	scores     map[string]float64
	err        error
	panicMsg   string
	delay      time.Duration
	calls      atomic.Int32
}

func (m *mockStrategy) Source() Source { return m.source }

func (m *mockStrategy) Applicable(in *Input) bool {
	if m.applicable == nil {
		return true
	}
	return m.applicable(in)
}

func (m *mockStrategy) Score(ctx context.Context, _ *Input) ([]Score, error) {
	m.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	if m.panicMsg != "" {
		panic(m.panicMsg)
	}
	if m.err != nil {
		return nil, m.err
	}
	out := make([]Score, 0, len(m.scores))
	for id, s := range m.scores {
		out = append(out, Score{ItemID: id, Score: s, Reason: "because " + string(m.source)})
	}
	return out, nil
}

var engineNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func testItems() []models.ContentItem {
	return []models.ContentItem{
		{ID: "a", Title: "alpha article", Categories: []int64{1}, Published: true, PublishedAt: engineNow.Add(-1 * time.Hour)},
		{ID: "b", Title: "beta article", Categories: []int64{1}, Published: true, PublishedAt: engineNow.Add(-2 * time.Hour)},
		{ID: "c", Title: "gamma article", Categories: []int64{2}, Published: true, PublishedAt: engineNow.Add(-3 * time.Hour)},
		{ID: "d", Title: "draft article", Categories: []int64{2}, Published: false, PublishedAt: engineNow},
	}
}

type testEnv struct {
	engine      *Engine
	catalog     *mockCatalog
	profiles    *mockProfiles
	impressions *mockImpressions
	precomputed *mockPrecomputed
}

func newTestEnv(t *testing.T, mutate func(*Config), strategies ...Strategy) *testEnv {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Limits.StrategyTimeout = 200 * time.Millisecond
	if mutate != nil {
		mutate(cfg)
	}
	items := testItems()
	env := &testEnv{
		catalog:     &mockCatalog{items: items},
		profiles:    &mockProfiles{profiles: map[string]*profile.Profile{}},
		impressions: &mockImpressions{},
		precomputed: &mockPrecomputed{},
	}
	engine, err := NewEngine(cfg, Deps{
		Catalog:     env.catalog,
		Vectors:     newMockVectors(items),
		Profiles:    env.profiles,
		Impressions: env.impressions,
		Precomputed: env.precomputed,
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	engine.now = func() time.Time { return engineNow }
	for _, s := range strategies {
		engine.RegisterStrategy(s)
	}
	env.engine = engine
	return env
}

var visitor = models.Identity{SessionID: "sess-1"}

func TestNewEngine(t *testing.T) {
	t.Run("nil config uses defaults", func(t *testing.T) {
		e, err := NewEngine(nil, Deps{Catalog: &mockCatalog{}, Vectors: newMockVectors(nil), Profiles: &mockProfiles{}}, zerolog.Nop())
		if err != nil {
			t.Fatalf("NewEngine() error = %v", err)
		}
		if e.GetConfig().Limits.MaxLimit != 20 {
			t.Errorf("MaxLimit = %d, want 20", e.GetConfig().Limits.MaxLimit)
		}
	})

	t.Run("invalid config", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.DiversityPenalty = 0
		if _, err := NewEngine(cfg, Deps{Catalog: &mockCatalog{}, Vectors: newMockVectors(nil), Profiles: &mockProfiles{}}, zerolog.Nop()); err == nil {
			t.Error("expected error for invalid config")
		}
	})

	t.Run("missing dependencies", func(t *testing.T) {
		if _, err := NewEngine(nil, Deps{}, zerolog.Nop()); err == nil {
			t.Error("expected error without catalog")
		}
	})
}

func TestRecommendValidation(t *testing.T) {
	env := newTestEnv(t, nil, &mockStrategy{source: SourceTrending, scores: map[string]float64{"a": 1}})

	tests := []struct {
		name    string
		req     Request
		wantErr error
	}{
		{"missing identity", Request{Limit: 5}, ErrMissingIdentity},
		{"limit above bound", Request{Identity: visitor, Limit: 21}, ErrInvalidLimit},
		{"negative limit", Request{Identity: visitor, Limit: -1}, ErrInvalidLimit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := env.engine.Recommend(context.Background(), tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Recommend() error = %v, want %v", err, tt.wantErr)
			}
			if resp != nil {
				t.Error("rejected request returned a response")
			}
		})
	}
	if env.impressions.count() != 0 || env.catalog.calls.Load() != 0 {
		t.Error("rejected requests must have no side effects")
	}
}

func TestRecommendFusion(t *testing.T) {
	contentStrategy := &mockStrategy{source: SourceContent, scores: map[string]float64{"a": 1.0}}
	trending := &mockStrategy{source: SourceTrending, scores: map[string]float64{"a": 1.0, "c": 0.5, "zz": 1.0}}
	env := newTestEnv(t, nil, contentStrategy, trending)

	resp, err := env.engine.Recommend(context.Background(), Request{Identity: visitor, Limit: 5})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(resp.Items) != 2 {
		t.Fatalf("got %d items, want 2 (unknown ids are dropped)", len(resp.Items))
	}

	top := resp.Items[0]
	if top.Item.ID != "a" || math.Abs(top.Score-0.4) > 1e-9 {
		t.Errorf("top = %s/%v, want a/0.4", top.Item.ID, top.Score)
	}
	if len(top.Sources) != 2 || top.Sources[0] != SourceContent || top.Sources[1] != SourceTrending {
		t.Errorf("Sources = %v, want [content trending]", top.Sources)
	}
	if top.Reason != "because content; because trending" {
		t.Errorf("Reason = %q", top.Reason)
	}
	if second := resp.Items[1]; second.Item.ID != "c" || math.Abs(second.Score-0.05) > 1e-9 {
		t.Errorf("second = %s/%v, want c/0.05", second.Item.ID, second.Score)
	}
	if resp.TotalCandidates != 3 {
		t.Errorf("TotalCandidates = %d, want 3 published items", resp.TotalCandidates)
	}
}

func TestRecommendDiversityPenalty(t *testing.T) {
	trending := &mockStrategy{source: SourceTrending, scores: map[string]float64{"a": 1.0, "b": 0.95, "c": 0.9}}
	env := newTestEnv(t, nil, trending)
	env.engine.RegisterReranker(penaltyForTest{factor: 0.9})

	resp, err := env.engine.Recommend(context.Background(), Request{Identity: visitor, Limit: 3})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	ids := []string{resp.Items[0].Item.ID, resp.Items[1].Item.ID, resp.Items[2].Item.ID}
	if ids[0] != "a" || ids[1] != "c" || ids[2] != "b" {
		t.Errorf("order = %v, want [a c b] after penalizing b's repeated category", ids)
	}
	for i := 1; i < len(resp.Items); i++ {
		if resp.Items[i].Score > resp.Items[i-1].Score {
			t.Errorf("scores not descending at %d", i)
		}
		if resp.Items[i].Position != i+1 {
			t.Errorf("Position = %d, want %d", resp.Items[i].Position, i+1)
		}
	}
}

// penaltyForTest mirrors the category penalty without importing reranking.
type penaltyForTest struct{ factor float64 }

func (p penaltyForTest) Name() string { return "test_penalty" }

func (p penaltyForTest) Rerank(_ context.Context, items []Recommendation) []Recommendation {
	seen := map[int64]bool{}
	for i := range items {
		for _, c := range items[i].Item.Categories {
			if seen[c] {
				items[i].Score *= p.factor
			}
		}
		for _, c := range items[i].Item.Categories {
			seen[c] = true
		}
	}
	return items
}

func TestRecommendTruncatesToLimit(t *testing.T) {
	env := newTestEnv(t, nil, &mockStrategy{source: SourceTrending, scores: map[string]float64{"a": 0.9, "b": 0.8, "c": 0.7}})
	resp, err := env.engine.Recommend(context.Background(), Request{Identity: visitor, Limit: 2})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(resp.Items) != 2 {
		t.Errorf("got %d items, want 2", len(resp.Items))
	}
}

func TestRecommendDegradesOnStrategyFaults(t *testing.T) {
	tests := []struct {
		name   string
		broken *mockStrategy
	}{
		{"error", &mockStrategy{source: SourceCollaborative, err: errors.New("boom")}},
		{"panic", &mockStrategy{source: SourceCollaborative, panicMsg: "nil map"}},
		{"timeout", &mockStrategy{source: SourceCollaborative, delay: time.Second, scores: map[string]float64{"b": 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			healthy := &mockStrategy{source: SourceTrending, scores: map[string]float64{"a": 1}}
			env := newTestEnv(t, nil, healthy, tt.broken)

			resp, err := env.engine.Recommend(context.Background(), Request{Identity: visitor, Limit: 5})
			if err != nil {
				t.Fatalf("Recommend() error = %v", err)
			}
			if len(resp.Items) != 1 || resp.Items[0].Item.ID != "a" {
				t.Errorf("items = %+v, want only the healthy contribution", resp.Items)
			}
			if len(resp.Metadata.StrategiesFailed) != 1 || resp.Metadata.StrategiesFailed[0] != SourceCollaborative {
				t.Errorf("StrategiesFailed = %v", resp.Metadata.StrategiesFailed)
			}
		})
	}
}

func TestRecommendCircuitBreakerSkipsFailingStrategy(t *testing.T) {
	broken := &mockStrategy{source: SourcePersonalized, err: errors.New("boom")}
	env := newTestEnv(t, func(c *Config) {
		c.Cache.Enabled = false
		c.Breaker.FailureThreshold = 2
		c.Breaker.OpenTimeout = time.Hour
	}, broken)

	for i := 0; i < 4; i++ {
		if _, err := env.engine.Recommend(context.Background(), Request{Identity: visitor}); err != nil {
			t.Fatalf("Recommend() error = %v", err)
		}
	}
	if got := broken.calls.Load(); got != 2 {
		t.Errorf("strategy invoked %d times, want 2 before the breaker opened", got)
	}
	if state := env.engine.Stats().Breakers[SourcePersonalized]; state != "open" {
		t.Errorf("breaker state = %q, want open", state)
	}
}

func TestRecommendSkipsInapplicableStrategies(t *testing.T) {
	needsProfile := func(in *Input) bool { return in.Profile != nil }
	personalized := &mockStrategy{source: SourcePersonalized, applicable: needsProfile, scores: map[string]float64{"a": 1}}
	trending := &mockStrategy{source: SourceTrending, scores: map[string]float64{"b": 1}}
	env := newTestEnv(t, nil, personalized, trending)

	t.Run("no profile", func(t *testing.T) {
		resp, err := env.engine.Recommend(context.Background(), Request{Identity: visitor})
		if err != nil {
			t.Fatalf("Recommend() error = %v", err)
		}
		if personalized.calls.Load() != 0 {
			t.Error("personalized strategy ran without a profile")
		}
		if len(resp.Metadata.StrategiesSkipped) != 1 || resp.Metadata.StrategiesSkipped[0] != SourcePersonalized {
			t.Errorf("StrategiesSkipped = %v", resp.Metadata.StrategiesSkipped)
		}
	})

	t.Run("profile without interactions counts as missing", func(t *testing.T) {
		id := models.Identity{AccountID: 3}
		env.profiles.profiles[id.Key()] = profile.New(id, engineNow)
		if _, err := env.engine.Recommend(context.Background(), Request{Identity: id}); err != nil {
			t.Fatalf("Recommend() error = %v", err)
		}
		if personalized.calls.Load() != 0 {
			t.Error("empty profile should not enable the personalized strategy")
		}
	})

	t.Run("profile errors degrade", func(t *testing.T) {
		env.profiles.err = errors.New("db down")
		defer func() { env.profiles.err = nil }()
		if _, err := env.engine.Recommend(context.Background(), Request{Identity: models.Identity{AccountID: 4}}); err != nil {
			t.Fatalf("Recommend() error = %v", err)
		}
	})
}

func TestRecommendEmptyAndFailingCatalog(t *testing.T) {
	env := newTestEnv(t, nil, &mockStrategy{source: SourceTrending, scores: map[string]float64{"a": 1}})

	env.catalog.err = errors.New("db down")
	resp, err := env.engine.Recommend(context.Background(), Request{Identity: visitor})
	if err != nil || len(resp.Items) != 0 {
		t.Fatalf("Recommend() = %v, %v; want an empty list", resp, err)
	}
	if env.engine.Stats().Errors != 1 {
		t.Errorf("Errors = %d, want 1", env.engine.Stats().Errors)
	}

	env.catalog.err = nil
	resp, err = env.engine.Recommend(context.Background(), Request{Identity: visitor})
	if err != nil || resp.Metadata.CacheHit {
		t.Fatalf("degraded result must not be cached (err=%v)", err)
	}

	env.catalog.items = nil
	resp, err = env.engine.Recommend(context.Background(), Request{Identity: models.Identity{SessionID: "other"}})
	if err != nil || len(resp.Items) != 0 {
		t.Errorf("empty catalog = %v, %v; want empty list", resp, err)
	}
}

func TestRecommendCacheAndImpressions(t *testing.T) {
	trending := &mockStrategy{source: SourceTrending, scores: map[string]float64{"a": 0.9, "b": 0.8}}
	env := newTestEnv(t, nil, trending)
	req := Request{Identity: visitor, Limit: 2}

	first, err := env.engine.Recommend(context.Background(), req)
	if err != nil || first.Metadata.CacheHit {
		t.Fatalf("first Recommend() = %+v, %v", first.Metadata, err)
	}
	second, err := env.engine.Recommend(context.Background(), req)
	if err != nil || !second.Metadata.CacheHit {
		t.Fatalf("second Recommend() should hit the cache, got %+v, %v", second.Metadata, err)
	}
	if trending.calls.Load() != 1 {
		t.Errorf("strategy ran %d times, want 1", trending.calls.Load())
	}
	if second.Metadata.RequestID == first.Metadata.RequestID {
		t.Error("cached responses must carry the new request id")
	}

	// Every served list is logged, cached or not.
	if env.impressions.count() != 4 {
		t.Fatalf("impressions = %d, want 4", env.impressions.count())
	}
	imp := env.impressions.records[0]
	if imp.Source != "trending" || imp.Position != 1 || imp.ItemID != "a" || imp.Identity != visitor {
		t.Errorf("impression = %+v", imp)
	}
	if imp.Score != first.Items[0].Score || imp.Reason != first.Items[0].Reason {
		t.Errorf("impression score/reason = %v/%q", imp.Score, imp.Reason)
	}

	stats := env.engine.Stats()
	if stats.Requests != 2 || stats.CacheHits != 1 || stats.CacheMisses != 1 || stats.CacheEntries != 1 {
		t.Errorf("Stats() = %+v", stats)
	}

	env.engine.ClearCache()
	if env.engine.Stats().CacheEntries != 0 {
		t.Error("ClearCache() left entries behind")
	}
}

func TestRecommendImpressionFailureIsNotAnError(t *testing.T) {
	env := newTestEnv(t, nil, &mockStrategy{source: SourceTrending, scores: map[string]float64{"a": 1}})
	env.impressions.err = errors.New("disk full")
	if _, err := env.engine.Recommend(context.Background(), Request{Identity: visitor}); err != nil {
		t.Errorf("Recommend() error = %v", err)
	}
}

func TestPrecompute(t *testing.T) {
	trending := &mockStrategy{source: SourceTrending, scores: map[string]float64{"a": 0.9, "b": 0.8, "c": 0.7}}
	env := newTestEnv(t, func(c *Config) { c.Cache.Enabled = false }, trending)
	ids := []models.Identity{visitor, {AccountID: 9}}

	res, err := env.engine.Precompute(context.Background(), ids)
	if err != nil {
		t.Fatalf("Precompute() error = %v", err)
	}
	if res.Stored != 2 || res.Failed != 0 {
		t.Errorf("Precompute() = %+v", res)
	}
	if env.precomputed.ttl != 30*time.Minute {
		t.Errorf("stored with ttl %v, want 30m", env.precomputed.ttl)
	}
	if env.impressions.count() != 0 {
		t.Error("precomputing must not log impressions")
	}
	calls := trending.calls.Load()

	resp, err := env.engine.Recommend(context.Background(), Request{Identity: visitor, Limit: 2})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if !resp.Metadata.Precomputed || len(resp.Items) != 2 || trending.calls.Load() != calls {
		t.Errorf("expected a truncated precomputed list, got %+v", resp.Metadata)
	}
	if env.impressions.count() != 2 {
		t.Errorf("served precomputed list must be logged, got %d impressions", env.impressions.count())
	}

	resp, _ = env.engine.Recommend(context.Background(), Request{Identity: visitor, ContextItemID: "a"})
	if resp.Metadata.Precomputed {
		t.Error("requests with a context item bypass precomputed lists")
	}
}

func TestRecommendOutlivesCanceledCaller(t *testing.T) {
	trending := &mockStrategy{source: SourceTrending, scores: map[string]float64{"a": 0.9, "b": 0.8}}
	env := newTestEnv(t, nil, trending)
	req := Request{Identity: visitor, Limit: 2}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	first, err := env.engine.Recommend(ctx, req)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(first.Items) != 2 || first.Items[0].Item.ID != "a" {
		t.Fatalf("canceled caller got %+v, want the computed list", first.Items)
	}
	if len(first.Metadata.StrategiesFailed) != 0 {
		t.Errorf("StrategiesFailed = %v, want none", first.Metadata.StrategiesFailed)
	}

	second, err := env.engine.Recommend(context.Background(), req)
	if err != nil || !second.Metadata.CacheHit {
		t.Fatalf("second Recommend() should hit the cache, got %+v, %v", second.Metadata, err)
	}
	if len(second.Items) != 2 || second.Items[0].Item.ID != "a" {
		t.Errorf("cached list = %+v", second.Items)
	}
	if trending.calls.Load() != 1 {
		t.Errorf("strategy ran %d times, want 1", trending.calls.Load())
	}
}

func TestRecommendConcurrent(t *testing.T) {
	trending := &mockStrategy{source: SourceTrending, scores: map[string]float64{"a": 0.9, "b": 0.8}}
	env := newTestEnv(t, nil, trending)

	var wg sync.WaitGroup
	errs := make(chan error, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := models.Identity{AccountID: int64(i%5) + 1}
			if _, err := env.engine.Recommend(context.Background(), Request{Identity: id}); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("concurrent Recommend() error = %v", err)
	}
	if got := env.engine.Stats().Requests; got != 50 {
		t.Errorf("Requests = %d, want 50", got)
	}
}
