// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package models

import (
	"strconv"
	"strings"
	"time"
)

// ContentItem is a published article or post.
type ContentItem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Excerpt     string    `json:"excerpt,omitempty"`
	Body        string    `json:"-"`
	Categories  []int64   `json:"categories"`
	Tags        []int64   `json:"tags"`
	Published   bool      `json:"published"`
	PublishedAt time.Time `json:"published_at"`
	Views       int64     `json:"views"`
	Likes       int64     `json:"likes"`
	Comments    int64     `json:"comments"`
	Bookmarks   int64     `json:"bookmarks"`
}

// Text returns the combined title, excerpt and body used for vectorization.
func (c *ContentItem) Text() string {
	parts := make([]string, 0, 3)
	for _, s := range []string{c.Title, c.Excerpt, c.Body} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// CharLength is the length of Text in characters.
func (c *ContentItem) CharLength() int {
	return len([]rune(c.Text()))
}

// Identity identifies a visitor. A signed-in account takes precedence over
// the anonymous session; the two are never merged.
type Identity struct {
	AccountID int64  `json:"account_id,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}

// IsZero reports whether neither an account nor a session is set.
func (id Identity) IsZero() bool {
	return id.AccountID <= 0 && id.SessionID == ""
}

// Key returns the profile key, "account:<id>" or "session:<sid>".
// It returns "" for a zero identity.
func (id Identity) Key() string {
	switch {
	case id.AccountID > 0:
		return "account:" + strconv.FormatInt(id.AccountID, 10)
	case id.SessionID != "":
		return "session:" + id.SessionID
	}
	return ""
}

// String implements fmt.Stringer.
func (id Identity) String() string {
	return id.Key()
}
