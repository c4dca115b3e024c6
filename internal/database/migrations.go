// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tomtom215/curator/internal/logging"
)

// Migration is one versioned schema change applied after the base tables.
type Migration struct {
	Version int
	Name    string
	SQL     string
}

const schemaMigrationsTable = `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);`

// migrations is append-only. Never edit or remove an entry a database may
// already have applied.
//
// Only the interactions table carries secondary indexes: DuckDB rewrites
// an indexed row on UPDATE, which makes upserts on indexed tables
// conflict-prone.
var migrations = []Migration{
	{
		Version: 1,
		Name:    "interactions_identity_time",
		// profile history and the recompute window
		SQL: `CREATE INDEX IF NOT EXISTS idx_interactions_identity_time ON interactions(identity_key, created_at)`,
	},
	{
		Version: 2,
		Name:    "interactions_created",
		// trending and evaluation windows
		SQL: `CREATE INDEX IF NOT EXISTS idx_interactions_created ON interactions(created_at)`,
	},
	{
		Version: 3,
		Name:    "interactions_item",
		SQL:     `CREATE INDEX IF NOT EXISTS idx_interactions_item ON interactions(item_id)`,
	},
}

// runVersionedMigrations applies each pending migration in its own
// transaction, together with its bookkeeping row.
func (db *DB) runVersionedMigrations() error {
	ctx, cancel := schemaContext()
	defer cancel()

	if _, err := db.conn.ExecContext(ctx, schemaMigrationsTable); err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}

	current, err := db.CurrentSchemaVersion(ctx)
	if err != nil {
		return err
	}

	applied := 0
	for _, m := range migrations {
		if m.Version <= current {
			continue
		}
		if err := db.applyMigration(ctx, m); err != nil {
			return err
		}
		applied++
	}

	if applied > 0 {
		logging.Info().
			Int("count", applied).
			Int("version", migrations[len(migrations)-1].Version).
			Msg("Applied database migrations")
	}
	return nil
}

func (db *DB) applyMigration(ctx context.Context, m Migration) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration v%d: %w", m.Version, err)
	}
	defer rollbackQuietly(tx)

	if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
		return fmt.Errorf("migration v%d (%s): %w", m.Version, m.Name, err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO schema_migrations (version, name) VALUES (?, ?)`, m.Version, m.Name); err != nil {
		return fmt.Errorf("record migration v%d: %w", m.Version, err)
	}
	return tx.Commit()
}

// CurrentSchemaVersion returns the highest applied migration version, 0
// for a fresh database.
func (db *DB) CurrentSchemaVersion(ctx context.Context) (int, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var version sql.NullInt64
	if err := db.conn.QueryRowContext(ctx, `SELECT MAX(version) FROM schema_migrations`).Scan(&version); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return int(version.Int64), nil
}
