// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/curator/internal/models"
	"github.com/tomtom215/curator/internal/profile"
)

// Profile loads the profile stored under key.
func (db *DB) Profile(ctx context.Context, key string) (*profile.Profile, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var data string
	err := db.conn.QueryRowContext(ctx, `SELECT data FROM profiles WHERE identity_key = ?`, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("profile %s: %w", key, profile.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load profile %s: %w", key, err)
	}
	return decodeProfile(data)
}

// SaveProfile inserts or replaces p.
func (db *DB) SaveProfile(ctx context.Context, p *profile.Profile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode profile %s: %w", p.Key(), err)
	}
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	return db.withConflictRetry(ctx, func() error {
		_, err := db.conn.ExecContext(ctx, `
			INSERT INTO profiles (identity_key, account_id, session_id, last_activity, recomputed_at, updated_at, data)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (identity_key) DO UPDATE SET
				last_activity = excluded.last_activity,
				recomputed_at = excluded.recomputed_at,
				updated_at = excluded.updated_at,
				data = excluded.data`,
			p.Key(), p.Identity.AccountID, p.Identity.SessionID,
			nullTime(p.LastActivity), nullTime(p.RecomputedAt), p.UpdatedAt.UTC(), string(data))
		if err != nil {
			return fmt.Errorf("save profile %s: %w", p.Key(), err)
		}
		return nil
	})
}

// RecentProfiles returns up to limit profiles, most recently active first.
func (db *DB) RecentProfiles(ctx context.Context, limit int) ([]*profile.Profile, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	profiles, err := queryAndScan(ctx, db.conn,
		`SELECT data FROM profiles ORDER BY last_activity DESC NULLS LAST, identity_key LIMIT ?`,
		[]interface{}{limit},
		func(rows *sql.Rows) (*profile.Profile, error) {
			var data string
			if err := rows.Scan(&data); err != nil {
				return nil, err
			}
			return decodeProfile(data)
		})
	if err != nil {
		return nil, fmt.Errorf("query recent profiles: %w", err)
	}
	return profiles, nil
}

// StaleProfiles returns identities whose profile was last recomputed
// before the cutoff, never-recomputed profiles first.
func (db *DB) StaleProfiles(ctx context.Context, before time.Time, limit int) ([]models.Identity, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	ids, err := queryAndScan(ctx, db.conn,
		`SELECT account_id, session_id FROM profiles
		WHERE recomputed_at IS NULL OR recomputed_at < ?
		ORDER BY recomputed_at ASC NULLS FIRST, identity_key
		LIMIT ?`,
		[]interface{}{before.UTC(), limit},
		func(rows *sql.Rows) (models.Identity, error) {
			var id models.Identity
			err := rows.Scan(&id.AccountID, &id.SessionID)
			return id, err
		})
	if err != nil {
		return nil, fmt.Errorf("query stale profiles: %w", err)
	}
	return ids, nil
}

func decodeProfile(data string) (*profile.Profile, error) {
	var p profile.Profile
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	if p.CategoryPreferences == nil {
		p.CategoryPreferences = make(map[int64]float64)
	}
	if p.TagInterests == nil {
		p.TagInterests = make(map[int64]float64)
	}
	return &p, nil
}
