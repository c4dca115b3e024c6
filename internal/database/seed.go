// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/curator/internal/logging"
	"github.com/tomtom215/curator/internal/models"
)

// SeedDemoData loads a small demo catalog when the catalog is empty.
// It reports whether anything was written.
func (db *DB) SeedDemoData(ctx context.Context) (bool, error) {
	counts, err := db.GetRecordCounts(ctx)
	if err != nil {
		return false, err
	}
	if counts.Items > 0 {
		logging.Debug().Int64("items", counts.Items).Msg("Catalog not empty, skipping demo seed")
		return false, nil
	}

	categories := map[int64]string{1: "Home", 2: "Food", 3: "Travel", 4: "Technology"}
	tags := map[int64]string{10: "diy", 11: "budget", 12: "recipes", 13: "europe", 14: "gadgets", 15: "beginner"}
	for id, name := range categories {
		if err := db.UpsertTaxonomy(ctx, TaxonomyCategory, id, name); err != nil {
			return false, err
		}
	}
	for id, name := range tags {
		if err := db.UpsertTaxonomy(ctx, TaxonomyTag, id, name); err != nil {
			return false, err
		}
	}

	now := time.Now().UTC()
	demo := []struct {
		title, excerpt string
		category       int64
		tags           []int64
		ageDays        int
		views, likes   int64
	}{
		{"Kitchen renovation tips", "Plan a kitchen renovation without surprises.", 1, []int64{10, 11}, 2, 340, 41},
		{"Kitchen remodel guide", "A step by step kitchen remodel guide for first timers.", 1, []int64{10, 15}, 5, 210, 18},
		{"Painting a small bathroom", "Choosing paint and tools for a small bathroom.", 1, []int64{10}, 20, 95, 6},
		{"Weeknight pasta recipes", "Five pasta recipes ready in thirty minutes.", 2, []int64{12, 11}, 1, 520, 77},
		{"Baking sourdough bread", "Starter care, hydration and baking schedules for sourdough.", 2, []int64{12, 15}, 12, 180, 25},
		{"Budget travel in Portugal", "Trains, hostels and food in Portugal on a budget.", 3, []int64{13, 11}, 3, 410, 52},
		{"A week in the Alps", "Hiking routes and huts for a week in the Alps.", 3, []int64{13}, 40, 260, 30},
		{"Choosing a home server", "Hardware and power usage for a small home server.", 4, []int64{14, 15}, 4, 150, 12},
		{"Smart thermostat review", "Three smart thermostats tested over one winter.", 4, []int64{14}, 9, 300, 22},
		{"Garden shed makeover", "Turning an old shed into a workshop.", 1, []int64{10, 11}, 60, 75, 4},
	}

	items := make([]models.ContentItem, len(demo))
	for i, d := range demo {
		items[i] = models.ContentItem{
			ID:          fmt.Sprintf("demo-%02d", i+1),
			Title:       d.title,
			Excerpt:     d.excerpt,
			Body:        d.excerpt + " " + d.title + ".",
			Categories:  []int64{d.category},
			Tags:        d.tags,
			Published:   true,
			PublishedAt: now.AddDate(0, 0, -d.ageDays),
			Views:       d.views,
			Likes:       d.likes,
			Comments:    d.likes / 4,
			Bookmarks:   d.likes / 3,
		}
	}
	if err := db.UpsertItems(ctx, items); err != nil {
		return false, fmt.Errorf("seed demo items: %w", err)
	}

	logging.Info().Int("items", len(items)).Msg("Seeded demo catalog")
	return true, nil
}
