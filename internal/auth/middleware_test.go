// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/curator/internal/models"
)

func TestRequireBearer(t *testing.T) {
	m := newTestManager(t)
	token, err := m.GenerateToken("ops-1", []string{"admin"}, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	var seen *AuthSubject
	handler := NewMiddleware(m).RequireBearer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetAuthSubject(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"valid token", "Bearer " + token, http.StatusNoContent},
		{"lowercase scheme", "bearer " + token, http.StatusNoContent},
		{"missing header", "", http.StatusUnauthorized},
		{"basic scheme", "Basic dXNlcjpwYXNz", http.StatusUnauthorized},
		{"empty token", "Bearer ", http.StatusUnauthorized},
		{"garbage token", "Bearer abc.def.ghi", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil
			req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/vectorize", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusNoContent {
				if seen != nil {
					t.Error("handler ran for rejected request")
				}
				if !strings.HasPrefix(rec.Header().Get("WWW-Authenticate"), "Bearer") {
					t.Errorf("WWW-Authenticate = %q", rec.Header().Get("WWW-Authenticate"))
				}
				var resp models.APIResponse
				if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
					t.Fatalf("decode body: %v", err)
				}
				if resp.Status != "error" || resp.Error == nil || resp.Error.Code != "UNAUTHORIZED" {
					t.Errorf("body = %s", rec.Body.String())
				}
				return
			}
			if seen == nil || seen.ID != "ops-1" || !seen.HasRole("admin") {
				t.Errorf("subject = %+v", seen)
			}
		})
	}
}

func TestSubjectFromClaimsFallsBackToUsername(t *testing.T) {
	s := SubjectFromClaims(&Claims{Username: "legacy", Role: "operator"})
	if s.ID != "legacy" || !s.HasRole("operator") || s.HasRole("admin") {
		t.Errorf("subject = %+v", s)
	}
}
