// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package authz

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tomtom215/curator/internal/auth"
)

func TestAuthorizeRequest(t *testing.T) {
	mw := NewMiddleware(setupEnforcerWithConfig(t, nil))
	handler := mw.AuthorizeRequest(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))

	tests := []struct {
		name       string
		subject    *auth.AuthSubject
		method     string
		path       string
		wantStatus int
	}{
		{"admin trigger", &auth.AuthSubject{ID: "a", Roles: []string{"admin"}}, http.MethodPost, "/api/v1/admin/vectorize", http.StatusAccepted},
		{"analyst reads metrics", &auth.AuthSubject{ID: "b", Roles: []string{"analyst"}}, http.MethodGet, "/api/v1/admin/metrics", http.StatusAccepted},
		{"analyst cannot vectorize", &auth.AuthSubject{ID: "b", Roles: []string{"analyst"}}, http.MethodPost, "/api/v1/admin/vectorize", http.StatusForbidden},
		{"no subject", nil, http.MethodPost, "/api/v1/admin/vectorize", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.subject != nil {
				req = req.WithContext(auth.ContextWithSubject(req.Context(), tt.subject))
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestMethodToAction(t *testing.T) {
	tests := map[string]string{
		http.MethodGet:    "read",
		http.MethodHead:   "read",
		http.MethodPost:   "write",
		http.MethodPut:    "write",
		http.MethodDelete: "delete",
	}
	for method, want := range tests {
		if got := methodToAction(method); got != want {
			t.Errorf("methodToAction(%s) = %q, want %q", method, got, want)
		}
	}
}
