// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

/*
database_schema.go - Database Schema Management

Tables:
  - content_items: catalog entries supplied by the publishing surface
  - content_categories, content_tags: item associations
  - taxonomy: known category and tag ids, including unused ones
  - content_vectors: one JSON-encoded feature vector per item
  - interactions: append-only interaction log, impressions included
  - profiles: one JSON-encoded visitor profile per identity key

Indexes are added by versioned migrations (migrations.go).
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the core database tables
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range tableCreationQueries {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}
	return nil
}

var tableCreationQueries = []string{
	`CREATE TABLE IF NOT EXISTS content_items (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		excerpt TEXT NOT NULL DEFAULT '',
		body TEXT NOT NULL DEFAULT '',
		published BOOLEAN NOT NULL DEFAULT false,
		published_at TIMESTAMP,
		views BIGINT NOT NULL DEFAULT 0,
		likes BIGINT NOT NULL DEFAULT 0,
		comments BIGINT NOT NULL DEFAULT 0,
		bookmarks BIGINT NOT NULL DEFAULT 0,
		updated_at TIMESTAMP NOT NULL
	);`,

	`CREATE TABLE IF NOT EXISTS content_categories (
		item_id TEXT NOT NULL,
		category_id BIGINT NOT NULL
	);`,

	`CREATE TABLE IF NOT EXISTS content_tags (
		item_id TEXT NOT NULL,
		tag_id BIGINT NOT NULL
	);`,

	`CREATE TABLE IF NOT EXISTS taxonomy (
		kind TEXT NOT NULL,
		id BIGINT NOT NULL,
		name TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (kind, id)
	);`,

	`CREATE TABLE IF NOT EXISTS content_vectors (
		item_id TEXT PRIMARY KEY,
		model_version TEXT NOT NULL,
		computed_at TIMESTAMP NOT NULL,
		data TEXT NOT NULL
	);`,

	`CREATE TABLE IF NOT EXISTS interactions (
		id TEXT PRIMARY KEY,
		account_id BIGINT NOT NULL DEFAULT 0,
		session_id TEXT NOT NULL DEFAULT '',
		identity_key TEXT NOT NULL,
		item_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		time_spent DOUBLE NOT NULL DEFAULT 0,
		scroll_depth DOUBLE NOT NULL DEFAULT 0,
		completed BOOLEAN NOT NULL DEFAULT false,
		source TEXT NOT NULL DEFAULT '',
		reason TEXT NOT NULL DEFAULT '',
		score DOUBLE NOT NULL DEFAULT 0,
		position INTEGER NOT NULL DEFAULT 0,
		engagement DOUBLE NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL
	);`,

	`CREATE TABLE IF NOT EXISTS profiles (
		identity_key TEXT PRIMARY KEY,
		account_id BIGINT NOT NULL DEFAULT 0,
		session_id TEXT NOT NULL DEFAULT '',
		last_activity TIMESTAMP,
		recomputed_at TIMESTAMP,
		updated_at TIMESTAMP NOT NULL,
		data TEXT NOT NULL
	);`,
}
