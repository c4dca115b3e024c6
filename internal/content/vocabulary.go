// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package content

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math"
	"sort"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/curator/internal/metrics"
	"github.com/tomtom215/curator/internal/models"
)

// DefaultVocabularySize is the number of terms kept in a snapshot.
const DefaultVocabularySize = 200

// Corpus supplies the published catalog and the known id universes.
type Corpus interface {
	PublishedItems(ctx context.Context) ([]models.ContentItem, error)
	CategoryIDs(ctx context.Context) ([]int64, error)
	TagIDs(ctx context.Context) ([]int64, error)
}

// Snapshot is an immutable vocabulary, IDF table and id universe.
type Snapshot struct {
	Version    string
	Terms      []string
	IDF        []float64
	Categories []int64
	Tags       []int64
	Documents  int
	BuiltAt    time.Time

	termIndex     map[string]int
	categoryIndex map[int64]int
	tagIndex      map[int64]int
	minLen        int
	maxLen        int
}

// TermIndex returns the vector position of term.
func (s *Snapshot) TermIndex(term string) (int, bool) {
	i, ok := s.termIndex[term]
	return i, ok
}

// IDFOf returns the IDF of term, 0 when it is not in the vocabulary.
func (s *Snapshot) IDFOf(term string) float64 {
	if i, ok := s.termIndex[term]; ok {
		return s.IDF[i]
	}
	return 0
}

// SnapshotOptions control vocabulary construction.
type SnapshotOptions struct {
	VocabularySize int
	MinTokenLength int
	MaxTokenLength int
}

// BuildSnapshot builds a snapshot from the published items. Terms are
// ranked by corpus-wide frequency, ties broken alphabetically.
func BuildSnapshot(items []models.ContentItem, categories, tags []int64, opts SnapshotOptions, now time.Time) *Snapshot {
	if opts.VocabularySize <= 0 {
		opts.VocabularySize = DefaultVocabularySize
	}

	freq := make(map[string]int)
	docFreq := make(map[string]int)
	for i := range items {
		counts, _ := termCounts(Tokenize(items[i].Text(), opts.MinTokenLength, opts.MaxTokenLength))
		for term, n := range counts {
			freq[term] += n
			docFreq[term]++
		}
	}

	terms := make([]string, 0, len(freq))
	for t := range freq {
		terms = append(terms, t)
	}
	sort.Slice(terms, func(i, j int) bool {
		if freq[terms[i]] != freq[terms[j]] {
			return freq[terms[i]] > freq[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > opts.VocabularySize {
		terms = terms[:opts.VocabularySize]
	}

	idf := make([]float64, len(terms))
	termIndex := make(map[string]int, len(terms))
	for i, t := range terms {
		termIndex[t] = i
		if df := docFreq[t]; df > 0 && len(items) > 0 {
			idf[i] = math.Log(float64(len(items)) / float64(df))
		}
	}

	cats := universe(categories, items, func(it *models.ContentItem) []int64 { return it.Categories })
	tgs := universe(tags, items, func(it *models.ContentItem) []int64 { return it.Tags })

	s := &Snapshot{
		Terms:         terms,
		IDF:           idf,
		Categories:    cats,
		Tags:          tgs,
		Documents:     len(items),
		BuiltAt:       now,
		termIndex:     termIndex,
		categoryIndex: indexOf(cats),
		tagIndex:      indexOf(tgs),
		minLen:        opts.MinTokenLength,
		maxLen:        opts.MaxTokenLength,
	}
	s.Version = fingerprint(s)
	return s
}

// universe merges the known ids with any ids referenced by items, sorted.
func universe(known []int64, items []models.ContentItem, pick func(*models.ContentItem) []int64) []int64 {
	seen := make(map[int64]struct{}, len(known))
	for _, id := range known {
		seen[id] = struct{}{}
	}
	for i := range items {
		for _, id := range pick(&items[i]) {
			seen[id] = struct{}{}
		}
	}
	out := make([]int64, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func indexOf(ids []int64) map[int64]int {
	m := make(map[int64]int, len(ids))
	for i, id := range ids {
		m[id] = i
	}
	return m
}

// fingerprint identifies the vector layout: terms, categories and tags.
func fingerprint(s *Snapshot) string {
	h := sha256.New()
	for _, t := range s.Terms {
		h.Write([]byte(t))
		h.Write([]byte{0})
	}
	var buf [8]byte
	for _, group := range [][]int64{s.Categories, s.Tags} {
		h.Write([]byte{1})
		for _, id := range group {
			binary.LittleEndian.PutUint64(buf[:], uint64(id))
			h.Write(buf[:])
		}
	}
	return fmt.Sprintf("tfidf-%x", h.Sum(nil)[:6])
}

// VocabularyCache is a read-through cache of the current Snapshot.
type VocabularyCache struct {
	corpus  Corpus
	opts    SnapshotOptions
	ttl     time.Duration
	current atomic.Pointer[Snapshot]
	group   singleflight.Group
	now     func() time.Time
	logger  zerolog.Logger
}

// NewVocabularyCache creates a cache that rebuilds snapshots older than ttl.
//
//nolint:gocritic // hugeParam: zerolog.Logger is designed to be passed by value
func NewVocabularyCache(corpus Corpus, opts SnapshotOptions, ttl time.Duration, logger zerolog.Logger) *VocabularyCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &VocabularyCache{
		corpus: corpus,
		opts:   opts,
		ttl:    ttl,
		now:    time.Now,
		logger: logger.With().Str("component", "vocabulary").Logger(),
	}
}

// Snapshot returns the current snapshot, rebuilding it when absent or
// expired. Concurrent callers share one rebuild. If a rebuild fails while
// an expired snapshot exists, the expired snapshot is returned.
func (c *VocabularyCache) Snapshot(ctx context.Context) (*Snapshot, error) {
	if s := c.fresh(); s != nil {
		return s, nil
	}
	v, err, _ := c.group.Do("snapshot", func() (interface{}, error) {
		if s := c.fresh(); s != nil {
			return s, nil
		}
		return c.Rebuild(ctx)
	})
	if err != nil {
		if stale := c.current.Load(); stale != nil {
			c.logger.Warn().Err(err).Str("version", stale.Version).Msg("Vocabulary rebuild failed, serving previous snapshot")
			return stale, nil
		}
		return nil, err
	}
	return v.(*Snapshot), nil
}

// Rebuild builds a new snapshot from the corpus and swaps it in.
func (c *VocabularyCache) Rebuild(ctx context.Context) (*Snapshot, error) {
	items, err := c.corpus.PublishedItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("load published items: %w", err)
	}
	cats, err := c.corpus.CategoryIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	tags, err := c.corpus.TagIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("load tags: %w", err)
	}

	s := BuildSnapshot(items, cats, tags, c.opts, c.now())
	c.current.Store(s)
	metrics.RecordVocabularyBuild(len(s.Terms))
	c.logger.Info().
		Str("version", s.Version).
		Int("terms", len(s.Terms)).
		Int("documents", s.Documents).
		Int("categories", len(s.Categories)).
		Int("tags", len(s.Tags)).
		Msg("Vocabulary snapshot built")
	return s, nil
}

// Invalidate drops the current snapshot; the next Snapshot call rebuilds.
func (c *VocabularyCache) Invalidate() {
	c.current.Store(nil)
}

func (c *VocabularyCache) fresh() *Snapshot {
	s := c.current.Load()
	if s == nil || c.now().Sub(s.BuiltAt) >= c.ttl {
		return nil
	}
	return s
}
