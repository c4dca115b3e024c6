// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/curator/internal/recommend"
)

// Options configures Open.
type Options struct {
	Path     string
	InMemory bool
}

// Store implements recommend.PrecomputedStore over BadgerDB.
type Store struct {
	db     *badger.DB
	owned  bool
	logger zerolog.Logger
}

// Open opens (or creates) a Badger database for precomputed lists.
//
//nolint:gocritic // hugeParam: zerolog.Logger is designed to be passed by value
func Open(opts Options, logger zerolog.Logger) (*Store, error) {
	bopts := badger.DefaultOptions(opts.Path).WithLogger(nil)
	if opts.InMemory {
		bopts = bopts.WithInMemory(true).WithDir("").WithValueDir("")
	}
	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", opts.Path, err)
	}
	s := New(db, logger)
	s.owned = true
	return s, nil
}

// New wraps an already opened database. Close leaves it open.
//
//nolint:gocritic // hugeParam: zerolog.Logger is designed to be passed by value
func New(db *badger.DB, logger zerolog.Logger) *Store {
	return &Store{
		db:     db,
		logger: logger.With().Str("component", "precomputed_store").Logger(),
	}
}

// Load returns the list stored under key, or nil when absent or expired.
func (s *Store) Load(ctx context.Context, key string) (*recommend.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var resp *recommend.Response
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("get %s: %w", key, err)
		}
		return item.Value(func(val []byte) error {
			var r recommend.Response
			if err := json.Unmarshal(val, &r); err != nil {
				return fmt.Errorf("decode %s: %w", key, err)
			}
			resp = &r
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Save stores resp under key for ttl.
func (s *Store) Save(ctx context.Context, key string, resp *recommend.Response, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if ttl <= 0 {
		return fmt.Errorf("ttl must be positive, got %v", ttl)
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry([]byte(key), data).WithTTL(ttl))
	})
}

// Count returns the number of live lists.
func (s *Store) Count(ctx context.Context) (int, error) {
	n := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if !it.Item().IsDeletedOrExpired() {
				n++
			}
		}
		return nil
	})
	return n, err
}

// RunGC reclaims value log space. badger.ErrNoRewrite means there was
// nothing to collect and is not reported.
func (s *Store) RunGC(discardRatio float64) error {
	err := s.db.RunValueLogGC(discardRatio)
	if err == nil || errors.Is(err, badger.ErrNoRewrite) || errors.Is(err, badger.ErrGCInMemoryMode) {
		return nil
	}
	return fmt.Errorf("value log gc: %w", err)
}

// Close closes the database if the store opened it.
func (s *Store) Close() error {
	if !s.owned {
		return nil
	}
	s.logger.Debug().Msg("closing precomputed store")
	return s.db.Close()
}

var _ recommend.PrecomputedStore = (*Store)(nil)
