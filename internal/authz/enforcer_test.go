// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package authz

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// setupEnforcerWithConfig creates an enforcer with custom config.
func setupEnforcerWithConfig(t *testing.T, config *EnforcerConfig) *Enforcer {
	t.Helper()
	enforcer, err := NewEnforcer(config)
	if err != nil {
		t.Fatalf("NewEnforcer() error = %v", err)
	}
	return enforcer
}

func TestEmbeddedPolicy(t *testing.T) {
	e := setupEnforcerWithConfig(t, nil)

	tests := []struct {
		role   string
		object string
		action string
		want   bool
	}{
		{"admin", "/api/v1/admin/vectorize", "write", true},
		{"admin", "/api/v1/admin/metrics", "read", true},
		{"admin", "/api/v1/admin/profiles/recompute", "write", true},
		{"operator", "/api/v1/admin/vectorize", "write", true},
		{"operator", "/api/v1/admin/precompute", "write", true},
		{"operator", "/api/v1/admin/metrics", "read", true}, // inherits analyst
		{"operator", "/api/v1/admin/vectorize", "delete", false},
		{"analyst", "/api/v1/admin/metrics", "read", true},
		{"analyst", "/api/v1/admin/vectorize", "write", false},
		{"viewer", "/api/v1/admin/metrics", "read", false},
		{"admin", "/api/v1/recommendations", "read", false},
	}
	for _, tt := range tests {
		t.Run(tt.role+" "+tt.action+" "+tt.object, func(t *testing.T) {
			got, err := e.Enforce(tt.role, tt.object, tt.action)
			if err != nil {
				t.Fatalf("Enforce() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Enforce() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEnforceWithRoles(t *testing.T) {
	e := setupEnforcerWithConfig(t, &EnforcerConfig{AdminRoles: []string{"admin", "superuser"}, CacheTTL: time.Minute})

	tests := []struct {
		name  string
		roles []string
		want  bool
	}{
		{"configured admin role", []string{"superuser"}, true},
		{"second role matches", []string{"viewer", "operator"}, true},
		{"no matching role", []string{"viewer"}, false},
		{"no roles", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.EnforceWithRoles("user-1", tt.roles, "/api/v1/admin/vectorize", "write")
			if err != nil {
				t.Fatalf("EnforceWithRoles() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("EnforceWithRoles() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAddPolicyInvalidatesCache(t *testing.T) {
	e := setupEnforcerWithConfig(t, &EnforcerConfig{CacheTTL: time.Hour})

	if allowed, _ := e.Enforce("auditor", "/api/v1/admin/metrics", "read"); allowed {
		t.Fatal("auditor allowed before policy was added")
	}
	if _, err := e.AddPolicy("auditor", "/api/v1/admin/metrics", "read"); err != nil {
		t.Fatalf("AddPolicy() error = %v", err)
	}
	if allowed, _ := e.Enforce("auditor", "/api/v1/admin/metrics", "read"); !allowed {
		t.Error("cached denial survived AddPolicy")
	}
}

func TestPolicyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policy.csv")
	if err := os.WriteFile(path, []byte("p, ops, /api/v1/admin/*, write\n"), 0o600); err != nil {
		t.Fatalf("write policy: %v", err)
	}

	e := setupEnforcerWithConfig(t, &EnforcerConfig{PolicyPath: path})
	if allowed, _ := e.Enforce("ops", "/api/v1/admin/precompute", "write"); !allowed {
		t.Error("file policy not applied")
	}
	if allowed, _ := e.Enforce("admin", "/api/v1/admin/precompute", "write"); allowed {
		t.Error("embedded policy applied alongside policy file")
	}
	if got := len(e.GetPolicy()); got != 1 {
		t.Errorf("len(GetPolicy()) = %d, want 1", got)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read policy: %v", err)
	}
	if string(data) != "p, ops, /api/v1/admin/*, write\n" {
		t.Errorf("policy file rewritten: %q", data)
	}
}

func TestMissingPolicyFile(t *testing.T) {
	if _, err := NewEnforcer(&EnforcerConfig{PolicyPath: filepath.Join(t.TempDir(), "absent.csv")}); err == nil {
		t.Error("NewEnforcer() with missing policy file succeeded")
	}
}
