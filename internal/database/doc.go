// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

// Package database is the DuckDB persistence layer for Curator.
//
// # Overview
//
// A single *DB implements every storage interface the domain packages
// declare: the catalog reads used by vectorization and candidate
// selection, the vector store, the append-only interaction log, and the
// profile repository. The domain packages never import this package; the
// server wires *DB into them.
//
// # Architecture
//
//   - database.go: connection lifecycle and initialization
//   - database_schema.go: tables and indexes
//   - migrations.go: versioned migrations tracked in schema_migrations
//   - database_connection.go: pool settings and transaction-conflict retry
//   - catalog.go: content items, associations and taxonomy
//   - vectors.go: JSON-encoded content vectors
//   - interactions.go: interaction log rows and windowed aggregates
//   - profiles.go: JSON-encoded visitor profiles
//   - seed.go: demo catalog for local runs
//
// # Time
//
// All timestamps are stored as UTC TIMESTAMP values. Zero times are
// stored as NULL.
//
// # Concurrency
//
// DuckDB uses optimistic concurrency control; concurrent writers to the
// same row fail with a transaction conflict. Writes are retried a few
// times with a short backoff before the error is returned. Per-identity
// profile writes are already serialized by the profile store.
//
// # Example
//
//	db, err := database.New(&cfg.Database)
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	items, err := db.Candidates(ctx, "", 100)
package database
