// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tomtom215/curator/internal/interactions"
	"github.com/tomtom215/curator/internal/models"
)

const interactionColumns = `id, account_id, session_id, item_id, kind, time_spent, scroll_depth,
	completed, source, reason, score, position, engagement, created_at`

// notImpression excludes synthetic views written for returned recommendations.
const notImpression = `NOT (kind = 'view' AND source <> '')`

// AppendInteractions appends records in one transaction.
func (db *DB) AppendInteractions(ctx context.Context, records []interactions.Record) error {
	if len(records) == 0 {
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

		stmt, err := tx.PrepareContext(ctx, `INSERT INTO interactions (`+interactionColumns+`, identity_key)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare insert: %w", err)
		}
		defer closeQuietly(stmt)

		for i := range records {
			r := &records[i]
			_, err := stmt.ExecContext(ctx,
				r.ID, r.Identity.AccountID, r.Identity.SessionID, r.ItemID, string(r.Kind),
				r.TimeSpent, r.ScrollDepth, r.Completed, r.Source, r.Reason, r.Score, r.Position,
				r.Engagement, r.CreatedAt.UTC(), r.Identity.Key())
			if err != nil {
				return fmt.Errorf("insert interaction %s: %w", r.ID, err)
			}
		}
		return tx.Commit()
	})
}

// InteractionsFor returns id's interactions since the cutoff, oldest
// first, impressions excluded.
func (db *DB) InteractionsFor(ctx context.Context, id models.Identity, since time.Time) ([]interactions.Record, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	recs, err := queryAndScan(ctx, db.conn,
		`SELECT `+interactionColumns+` FROM interactions
		WHERE identity_key = ? AND created_at >= ? AND `+notImpression+`
		ORDER BY created_at, id`,
		[]interface{}{id.Key(), since.UTC()}, scanInteraction)
	if err != nil {
		return nil, fmt.Errorf("query interactions for %s: %w", id.Key(), err)
	}
	return recs, nil
}

// InteractionsSince returns every interaction since the cutoff, impressions
// included, oldest first.
func (db *DB) InteractionsSince(ctx context.Context, since time.Time) ([]interactions.Record, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	recs, err := queryAndScan(ctx, db.conn,
		`SELECT `+interactionColumns+` FROM interactions WHERE created_at >= ? ORDER BY created_at, id`,
		[]interface{}{since.UTC()}, scanInteraction)
	if err != nil {
		return nil, fmt.Errorf("query interactions since %s: %w", since.Format(time.RFC3339), err)
	}
	return recs, nil
}

// ItemActivity aggregates non-impression interactions per item since the
// cutoff.
func (db *DB) ItemActivity(ctx context.Context, since time.Time) (map[string]interactions.Activity, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := queryAndScan(ctx, db.conn,
		`SELECT item_id, COUNT(*), AVG(engagement) FROM interactions
		WHERE created_at >= ? AND `+notImpression+`
		GROUP BY item_id`,
		[]interface{}{since.UTC()},
		func(rows *sql.Rows) (interactions.Activity, error) {
			var a interactions.Activity
			err := rows.Scan(&a.ItemID, &a.Interactions, &a.AvgEngagement)
			return a, err
		})
	if err != nil {
		return nil, fmt.Errorf("aggregate item activity: %w", err)
	}
	out := make(map[string]interactions.Activity, len(rows))
	for _, a := range rows {
		out[a.ItemID] = a
	}
	return out, nil
}

// ActiveIdentities returns identities with a non-impression interaction
// since the cutoff, most recently active first.
func (db *DB) ActiveIdentities(ctx context.Context, since time.Time, limit int) ([]models.Identity, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	ids, err := queryAndScan(ctx, db.conn,
		`SELECT account_id, session_id FROM interactions
		WHERE created_at >= ? AND `+notImpression+`
		GROUP BY identity_key, account_id, session_id
		ORDER BY MAX(created_at) DESC, identity_key
		LIMIT ?`,
		[]interface{}{since.UTC(), limit},
		func(rows *sql.Rows) (models.Identity, error) {
			var id models.Identity
			err := rows.Scan(&id.AccountID, &id.SessionID)
			return id, err
		})
	if err != nil {
		return nil, fmt.Errorf("query active identities: %w", err)
	}
	return ids, nil
}

func scanInteraction(rows *sql.Rows) (interactions.Record, error) {
	var r interactions.Record
	var kind string
	err := rows.Scan(&r.ID, &r.Identity.AccountID, &r.Identity.SessionID, &r.ItemID, &kind,
		&r.TimeSpent, &r.ScrollDepth, &r.Completed, &r.Source, &r.Reason, &r.Score, &r.Position,
		&r.Engagement, &r.CreatedAt)
	r.Kind = interactions.Kind(kind)
	r.CreatedAt = r.CreatedAt.UTC()
	return r, err
}
