// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/tomtom215/curator/internal/content"
)

// Vectors returns the stored vectors for itemIDs. Items without a vector
// are absent from the map.
func (db *DB) Vectors(ctx context.Context, itemIDs []string) (map[string]content.Vector, error) {
	out := make(map[string]content.Vector, len(itemIDs))
	if len(itemIDs) == 0 {
		return out, nil
	}
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	in, args := inClause(itemIDs)
	vectors, err := queryAndScan(ctx, db.conn,
		`SELECT data FROM content_vectors WHERE item_id IN `+in, args,
		func(rows *sql.Rows) (content.Vector, error) {
			var data string
			var v content.Vector
			if err := rows.Scan(&data); err != nil {
				return v, err
			}
			err := json.Unmarshal([]byte(data), &v)
			return v, err
		})
	if err != nil {
		return nil, fmt.Errorf("load vectors: %w", err)
	}
	for _, v := range vectors {
		out[v.ItemID] = v
	}
	return out, nil
}

// SaveVectors inserts or replaces vectors.
func (db *DB) SaveVectors(ctx context.Context, vectors []content.Vector) error {
	if len(vectors) == 0 {
		return nil
	}
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	return db.withConflictRetry(ctx, func() error {
		tx, err := db.conn.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		defer rollbackQuietly(tx)

		for i := range vectors {
			v := &vectors[i]
			data, err := json.Marshal(v)
			if err != nil {
				return fmt.Errorf("encode vector %s: %w", v.ItemID, err)
			}
			_, err = tx.ExecContext(ctx, `
				INSERT INTO content_vectors (item_id, model_version, computed_at, data)
				VALUES (?, ?, ?, ?)
				ON CONFLICT (item_id) DO UPDATE SET
					model_version = excluded.model_version,
					computed_at = excluded.computed_at,
					data = excluded.data`,
				v.ItemID, v.ModelVersion, v.ComputedAt.UTC(), string(data))
			if err != nil {
				return fmt.Errorf("save vector %s: %w", v.ItemID, err)
			}
		}
		return tx.Commit()
	})
}
