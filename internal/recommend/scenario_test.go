// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package recommend_test

import (
	"context"
	"slices"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/curator/internal/content"
	"github.com/tomtom215/curator/internal/interactions"
	"github.com/tomtom215/curator/internal/models"
	"github.com/tomtom215/curator/internal/profile"
	"github.com/tomtom215/curator/internal/recommend"
	"github.com/tomtom215/curator/internal/recommend/algorithms"
	"github.com/tomtom215/curator/internal/recommend/reranking"
)

type catalog []models.ContentItem

func (c catalog) Candidates(_ context.Context, exclude string, limit int) ([]models.ContentItem, error) {
	out := make([]models.ContentItem, 0, len(c))
	for _, it := range c {
		if it.Published && it.ID != exclude && len(out) < limit {
			out = append(out, it)
		}
	}
	return out, nil
}

func (c catalog) ItemsByID(_ context.Context, ids []string) (map[string]models.ContentItem, error) {
	out := make(map[string]models.ContentItem)
	for _, it := range c {
		if slices.Contains(ids, it.ID) {
			out[it.ID] = it
		}
	}
	return out, nil
}

type vectors struct{ snap *content.Snapshot }

func (v vectors) VectorsFor(_ context.Context, items []models.ContentItem) map[string]content.Vector {
	out := make(map[string]content.Vector, len(items))
	for i := range items {
		vec, err := content.Vectorize(v.snap, &items[i], time.Now())
		if err != nil {
			vec = content.ZeroVector(items[i].ID, v.snap, time.Now())
		}
		out[items[i].ID] = vec
	}
	return out
}

type profiles map[string]*profile.Profile

func (p profiles) Get(_ context.Context, id models.Identity) (*profile.Profile, error) {
	if prof, ok := p[id.Key()]; ok {
		return prof, nil
	}
	return nil, profile.ErrNotFound
}

type noActivity struct{}

func (noActivity) ItemActivity(context.Context, time.Time) (map[string]interactions.Activity, error) {
	return map[string]interactions.Activity{}, nil
}

type noNeighbors struct{}

func (noNeighbors) Similar(context.Context, *profile.Profile, int, float64) ([]profile.Neighbor, error) {
	return nil, nil
}

func (noNeighbors) InteractionsFor(context.Context, models.Identity, time.Time) ([]interactions.Record, error) {
	return nil, nil
}

// newEngine wires the production strategies over an in-memory catalog.
func newEngine(t *testing.T, items []models.ContentItem, profs profiles) *recommend.Engine {
	t.Helper()
	e, err := recommend.NewEngine(nil, recommend.Deps{
		Catalog:  catalog(items),
		Vectors:  vectors{snap: content.BuildSnapshot(items, nil, nil, content.SnapshotOptions{}, time.Now())},
		Profiles: profs,
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	e.RegisterStrategy(algorithms.NewContent(algorithms.ContentConfig{}))
	e.RegisterStrategy(algorithms.NewCollaborative(noNeighbors{}, noNeighbors{}, algorithms.CollaborativeConfig{}))
	e.RegisterStrategy(algorithms.NewPersonalized(algorithms.PersonalizedConfig{}))
	e.RegisterStrategy(algorithms.NewTrending(noActivity{}, algorithms.TrendingConfig{}))
	e.RegisterReranker(reranking.NewCategoryPenalty(e.GetConfig().DiversityPenalty))
	return e
}

func ids(resp *recommend.Response) []string {
	out := make([]string, len(resp.Items))
	for i := range resp.Items {
		out[i] = resp.Items[i].Item.ID
	}
	return out
}

func TestScenarioSimilarArticles(t *testing.T) {
	old := time.Now().AddDate(0, -1, 0)
	items := []models.ContentItem{
		{ID: "a", Title: "kitchen renovation tips", Categories: []int64{1}, Published: true, PublishedAt: old},
		{ID: "b", Title: "kitchen remodel guide", Categories: []int64{1}, Published: true, PublishedAt: old},
		{ID: "c", Title: "unrelated topic", Categories: []int64{9}, Published: true, PublishedAt: old},
	}
	e := newEngine(t, items, profiles{})

	tests := []struct {
		contextID string
		want      string
	}{
		{"a", "b"},
		{"b", "a"},
	}
	for _, tt := range tests {
		t.Run(tt.contextID, func(t *testing.T) {
			resp, err := e.Recommend(context.Background(), recommend.Request{
				Identity:      models.Identity{SessionID: "reader"},
				ContextItemID: tt.contextID,
			})
			if err != nil {
				t.Fatalf("Recommend() error = %v", err)
			}
			if got := ids(resp); len(got) != 1 || got[0] != tt.want {
				t.Fatalf("items = %v, want [%s]", got, tt.want)
			}
			top := resp.Items[0]
			if top.Scores[recommend.SourceContent] <= 0.3 {
				t.Errorf("content score = %v, want > 0.3", top.Scores[recommend.SourceContent])
			}
			if top.PrimarySource() != recommend.SourceContent || top.Position != 1 {
				t.Errorf("top = %+v", top)
			}
		})
	}
}

func TestScenarioCategoryPreference(t *testing.T) {
	old := time.Now().AddDate(0, -1, 0)
	items := []models.ContentItem{
		{ID: "x", Title: "weekend market report", Categories: []int64{1}, Published: true, PublishedAt: old},
		{ID: "y", Title: "weekend market report", Categories: []int64{2}, Published: true, PublishedAt: old},
	}
	member := models.Identity{AccountID: 7}
	prof := profile.New(member, time.Now())
	prof.CategoryPreferences = map[int64]float64{1: 1.0, 2: 0.2}
	prof.InteractionCount = 12

	e := newEngine(t, items, profiles{member.Key(): prof})
	resp, err := e.Recommend(context.Background(), recommend.Request{Identity: member})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	got := ids(resp)
	if len(got) != 2 || got[0] != "x" || got[1] != "y" {
		t.Fatalf("items = %v, want [x y]", got)
	}
	if resp.Items[0].Score <= resp.Items[1].Score {
		t.Errorf("scores %v <= %v", resp.Items[0].Score, resp.Items[1].Score)
	}
	if resp.Items[0].Reason != "Matches your favorite categories" {
		t.Errorf("Reason = %q", resp.Items[0].Reason)
	}
}

func TestScenarioVisitorWithoutHistory(t *testing.T) {
	recent := time.Now().Add(-24 * time.Hour)
	items := []models.ContentItem{
		{ID: "a", Title: "kitchen renovation tips", Categories: []int64{1}, Published: true, PublishedAt: recent, Views: 40},
		{ID: "b", Title: "kitchen remodel guide", Categories: []int64{1}, Published: true, PublishedAt: recent, Views: 10, Likes: 5},
		{ID: "c", Title: "garden planning", Categories: []int64{3}, Published: true, PublishedAt: recent, Views: 30},
	}
	newcomer := models.Identity{SessionID: "first-visit"}
	e := newEngine(t, items, profiles{newcomer.Key(): profile.New(newcomer, time.Now())})

	resp, err := e.Recommend(context.Background(), recommend.Request{Identity: newcomer, ContextItemID: "a"})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(resp.Items) == 0 {
		t.Fatal("expected content or trending recommendations")
	}
	for _, item := range resp.Items {
		for _, s := range item.Sources {
			if s != recommend.SourceContent && s != recommend.SourceTrending {
				t.Errorf("item %s has contribution from %s", item.Item.ID, s)
			}
		}
	}
	for _, s := range []recommend.Source{recommend.SourceCollaborative, recommend.SourcePersonalized} {
		if !slices.Contains(resp.Metadata.StrategiesSkipped, s) {
			t.Errorf("StrategiesSkipped = %v, missing %s", resp.Metadata.StrategiesSkipped, s)
		}
	}
	if len(resp.Metadata.StrategiesFailed) != 0 {
		t.Errorf("StrategiesFailed = %v", resp.Metadata.StrategiesFailed)
	}
	if resp.Items[0].Item.ID != "b" {
		t.Errorf("top = %s, want b (similar and trending)", resp.Items[0].Item.ID)
	}
}
