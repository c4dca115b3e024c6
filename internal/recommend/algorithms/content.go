// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package algorithms

import (
	"context"
	"fmt"

	"github.com/tomtom215/curator/internal/content"
	"github.com/tomtom215/curator/internal/recommend"
)

// Content recommends items similar to the one being viewed.
//
//	score(c) = w_content * cos(text_ctx, text_c) +
//	           w_category * cos(categories_ctx, categories_c) +
//	           w_tag * cos(tags_ctx, tags_c)
//
// It needs a context item and no history, which makes it the main
// strategy for first-time visitors.
type Content struct {
	BaseStrategy

	contentWeight  float64
	categoryWeight float64
	tagWeight      float64
}

// ContentConfig contains configuration for the content strategy.
type ContentConfig struct {
	ContentWeight  float64
	CategoryWeight float64
	TagWeight      float64
	MinScore       float64
}

// NewContent creates a content strategy. Zero weights take the defaults
// 0.5, 0.3 and 0.2; a zero MinScore means 0.1.
func NewContent(cfg ContentConfig) *Content {
	if cfg.ContentWeight == 0 && cfg.CategoryWeight == 0 && cfg.TagWeight == 0 {
		cfg.ContentWeight, cfg.CategoryWeight, cfg.TagWeight = 0.5, 0.3, 0.2
	}
	if cfg.MinScore == 0 {
		cfg.MinScore = 0.1
	}
	return &Content{
		BaseStrategy:   NewBaseStrategy(recommend.SourceContent, cfg.MinScore),
		contentWeight:  cfg.ContentWeight,
		categoryWeight: cfg.CategoryWeight,
		tagWeight:      cfg.TagWeight,
	}
}

// Applicable requires a context item.
func (c *Content) Applicable(in *recommend.Input) bool {
	return in.Context != nil
}

// Similarity scores two vectors with the configured weights.
func (c *Content) Similarity(a, b *content.Vector) (score, text, categories, tags float64) {
	text = content.Cosine(a.Content, b.Content)
	categories = content.Cosine(a.Categories, b.Categories)
	tags = content.Cosine(a.Tags, b.Tags)
	score = c.contentWeight*text + c.categoryWeight*categories + c.tagWeight*tags
	return score, text, categories, tags
}

// Score compares every candidate with the context item.
func (c *Content) Score(ctx context.Context, in *recommend.Input) ([]recommend.Score, error) {
	if in.Context == nil {
		return nil, nil
	}
	reason := fmt.Sprintf("Similar to %q", in.Context.Item.Title)

	out := make([]recommend.Score, 0, len(in.Candidates))
	for i := range in.Candidates {
		if i%checkEvery == 0 && ContextCancelled(ctx) {
			return nil, ctx.Err()
		}
		cand := &in.Candidates[i]
		if cand.Item.ID == in.Context.Item.ID {
			continue
		}
		score, text, cats, tags := c.Similarity(&in.Context.Vector, &cand.Vector)
		if !c.emit(score) {
			continue
		}
		out = append(out, recommend.Score{
			ItemID: cand.Item.ID,
			Score:  clampUnit(score),
			Reason: reason,
			Metadata: map[string]float64{
				"text_similarity":     text,
				"category_similarity": cats,
				"tag_similarity":      tags,
			},
		})
	}
	return out, nil
}
