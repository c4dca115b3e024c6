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

	"github.com/tomtom215/curator/internal/models"
)

// Taxonomy kinds.
const (
	TaxonomyCategory = "category"
	TaxonomyTag      = "tag"
)

const itemColumns = `id, title, excerpt, body, published, published_at, views, likes, comments, bookmarks`

// UpsertItems inserts or replaces catalog items with their category and
// tag associations.
func (db *DB) UpsertItems(ctx context.Context, items []models.ContentItem) error {
	if len(items) == 0 {
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

		now := time.Now().UTC()
		for i := range items {
			if err := upsertItem(ctx, tx, &items[i], now); err != nil {
				return err
			}
		}
		return tx.Commit()
	})
}

func upsertItem(ctx context.Context, tx *sql.Tx, it *models.ContentItem, now time.Time) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO content_items (`+itemColumns+`, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			title = excluded.title,
			excerpt = excluded.excerpt,
			body = excluded.body,
			published = excluded.published,
			published_at = excluded.published_at,
			views = excluded.views,
			likes = excluded.likes,
			comments = excluded.comments,
			bookmarks = excluded.bookmarks,
			updated_at = excluded.updated_at`,
		it.ID, it.Title, it.Excerpt, it.Body, it.Published, nullTime(it.PublishedAt),
		it.Views, it.Likes, it.Comments, it.Bookmarks, now)
	if err != nil {
		return fmt.Errorf("upsert item %s: %w", it.ID, err)
	}

	for _, assoc := range []struct {
		table, column string
		ids           []int64
	}{
		{"content_categories", "category_id", it.Categories},
		{"content_tags", "tag_id", it.Tags},
	} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+assoc.table+" WHERE item_id = ?", it.ID); err != nil {
			return fmt.Errorf("clear %s for %s: %w", assoc.table, it.ID, err)
		}
		for _, id := range assoc.ids {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO "+assoc.table+" (item_id, "+assoc.column+") VALUES (?, ?)", it.ID, id); err != nil {
				return fmt.Errorf("insert %s for %s: %w", assoc.table, it.ID, err)
			}
		}
	}
	return nil
}

// UpsertTaxonomy registers a category or tag id, so it takes part in the
// vector layout even before any item uses it.
func (db *DB) UpsertTaxonomy(ctx context.Context, kind string, id int64, name string) error {
	if kind != TaxonomyCategory && kind != TaxonomyTag {
		return fmt.Errorf("unknown taxonomy kind %q", kind)
	}
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO taxonomy (kind, id, name) VALUES (?, ?, ?)
		ON CONFLICT (kind, id) DO UPDATE SET name = excluded.name`, kind, id, name)
	if err != nil {
		return fmt.Errorf("upsert %s %d: %w", kind, id, err)
	}
	return nil
}

// PublishedItems returns every published item.
func (db *DB) PublishedItems(ctx context.Context) ([]models.ContentItem, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	return db.loadItems(ctx, `WHERE published ORDER BY id`, nil)
}

// Candidates returns up to limit published items other than exclude, most
// recently published first.
func (db *DB) Candidates(ctx context.Context, exclude string, limit int) ([]models.ContentItem, error) {
	if limit <= 0 {
		return nil, nil
	}
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	return db.loadItems(ctx,
		`WHERE published AND id <> ? ORDER BY published_at DESC NULLS LAST, id LIMIT ?`,
		[]interface{}{exclude, limit})
}

// ItemsByID resolves items by id, published or not. Unknown ids are absent.
func (db *DB) ItemsByID(ctx context.Context, ids []string) (map[string]models.ContentItem, error) {
	out := make(map[string]models.ContentItem, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	in, args := inClause(ids)
	items, err := db.loadItems(ctx, `WHERE id IN `+in, args)
	if err != nil {
		return nil, err
	}
	for i := range items {
		out[items[i].ID] = items[i]
	}
	return out, nil
}

// PublishedCount returns the number of published items.
func (db *DB) PublishedCount(ctx context.Context) (int, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var n int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM content_items WHERE published`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count published items: %w", err)
	}
	return n, nil
}

// CategoryIDs returns every known category id in ascending order.
func (db *DB) CategoryIDs(ctx context.Context) ([]int64, error) {
	return db.taxonomyIDs(ctx, TaxonomyCategory, "content_categories", "category_id")
}

// TagIDs returns every known tag id in ascending order.
func (db *DB) TagIDs(ctx context.Context) ([]int64, error) {
	return db.taxonomyIDs(ctx, TaxonomyTag, "content_tags", "tag_id")
}

func (db *DB) taxonomyIDs(ctx context.Context, kind, table, column string) ([]int64, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := `SELECT id FROM taxonomy WHERE kind = ?
		UNION SELECT ` + column + ` FROM ` + table + `
		ORDER BY 1`
	ids, err := queryAndScan(ctx, db.conn, query, []interface{}{kind}, func(rows *sql.Rows) (int64, error) {
		var id int64
		err := rows.Scan(&id)
		return id, err
	})
	if err != nil {
		return nil, fmt.Errorf("list %s ids: %w", kind, err)
	}
	return ids, nil
}

// loadItems selects items with the given clause and attaches their
// associations.
func (db *DB) loadItems(ctx context.Context, clause string, args []interface{}) ([]models.ContentItem, error) {
	items, err := queryAndScan(ctx, db.conn, `SELECT `+itemColumns+` FROM content_items `+clause, args, scanItem)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	if len(items) == 0 {
		return items, nil
	}

	ids := make([]string, len(items))
	index := make(map[string]int, len(items))
	for i := range items {
		ids[i] = items[i].ID
		index[items[i].ID] = i
	}
	in, inArgs := inClause(ids)

	for _, assoc := range []struct {
		table, column string
		attach        func(*models.ContentItem, int64)
	}{
		{"content_categories", "category_id", func(it *models.ContentItem, id int64) { it.Categories = append(it.Categories, id) }},
		{"content_tags", "tag_id", func(it *models.ContentItem, id int64) { it.Tags = append(it.Tags, id) }},
	} {
		query := `SELECT item_id, ` + assoc.column + ` FROM ` + assoc.table +
			` WHERE item_id IN ` + in + ` ORDER BY item_id, ` + assoc.column
		rows, err := db.conn.QueryContext(ctx, query, inArgs...)
		if err != nil {
			return nil, fmt.Errorf("query %s: %w", assoc.table, err)
		}
		for rows.Next() {
			var itemID string
			var id int64
			if err := rows.Scan(&itemID, &id); err != nil {
				closeQuietly(rows)
				return nil, fmt.Errorf("scan %s: %w", assoc.table, err)
			}
			assoc.attach(&items[index[itemID]], id)
		}
		err = rows.Err()
		closeWithLog(rows, assoc.table+" rows")
		if err != nil {
			return nil, fmt.Errorf("iterate %s: %w", assoc.table, err)
		}
	}
	return items, nil
}

func scanItem(rows *sql.Rows) (models.ContentItem, error) {
	var it models.ContentItem
	var publishedAt sql.NullTime
	err := rows.Scan(&it.ID, &it.Title, &it.Excerpt, &it.Body, &it.Published, &publishedAt,
		&it.Views, &it.Likes, &it.Comments, &it.Bookmarks)
	it.PublishedAt = timeOf(publishedAt)
	return it, err
}
