// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package models

import "testing"

func TestIdentityKey(t *testing.T) {
	tests := []struct {
		name string
		id   Identity
		want string
	}{
		{"account", Identity{AccountID: 42}, "account:42"},
		{"session", Identity{SessionID: "abc"}, "session:abc"},
		{"account wins", Identity{AccountID: 7, SessionID: "abc"}, "account:7"},
		{"zero", Identity{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.id.Key(); got != tt.want {
				t.Errorf("Key() = %q, want %q", got, tt.want)
			}
			if tt.id.IsZero() != (tt.want == "") {
				t.Errorf("IsZero() = %v", tt.id.IsZero())
			}
		})
	}
}

func TestContentItemText(t *testing.T) {
	item := ContentItem{Title: "Kitchen", Body: "renovation tips"}
	if got := item.Text(); got != "Kitchen renovation tips" {
		t.Errorf("Text() = %q", got)
	}
	if item.CharLength() != len("Kitchen renovation tips") {
		t.Errorf("CharLength() = %d", item.CharLength())
	}
}
