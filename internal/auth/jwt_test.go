// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tomtom215/curator/internal/config"
)

const testSecret = "this_is_a_very_long_secret_key_for_testing_purposes_12345"

func newTestManager(t *testing.T) *JWTManager {
	t.Helper()
	m, err := NewJWTManager(&config.SecurityConfig{JWTSecret: testSecret})
	if err != nil {
		t.Fatalf("NewJWTManager() error = %v", err)
	}
	return m
}

func TestNewJWTManager(t *testing.T) {
	tests := []struct {
		name    string
		secret  string
		wantErr bool
	}{
		{"valid secret", testSecret, false},
		{"empty secret", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			manager, err := NewJWTManager(&config.SecurityConfig{JWTSecret: tt.secret})
			if tt.wantErr {
				if err == nil {
					t.Error("NewJWTManager() expected error, got nil")
				}
				return
			}
			if err != nil || manager == nil {
				t.Errorf("NewJWTManager() = %v, %v", manager, err)
			}
		})
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	m := newTestManager(t)

	token, err := m.GenerateToken("ops-1", []string{"admin", "operator"}, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if claims.Subject != "ops-1" || claims.Issuer != Issuer {
		t.Errorf("claims = %+v", claims.RegisteredClaims)
	}
	if got := claims.AllRoles(); len(got) != 2 || got[0] != "admin" {
		t.Errorf("AllRoles() = %v", got)
	}
}

func TestValidateTokenRejects(t *testing.T) {
	m := newTestManager(t)
	base := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return base }

	sign := func(method jwt.SigningMethod, key interface{}, claims jwt.Claims) string {
		t.Helper()
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		if err != nil {
			t.Fatalf("SignedString() error = %v", err)
		}
		return s
	}
	valid := func() *Claims {
		return &Claims{RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "ops-1",
			ExpiresAt: jwt.NewNumericDate(base.Add(time.Hour)),
		}}
	}

	expired := valid()
	expired.ExpiresAt = jwt.NewNumericDate(base.Add(-time.Hour))
	noExp := valid()
	noExp.ExpiresAt = nil
	noSubject := valid()
	noSubject.Subject = ""
	notYet := valid()
	notYet.NotBefore = jwt.NewNumericDate(base.Add(10 * time.Minute))

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{"malformed", "not.a.jwt", ErrInvalidCredentials},
		{"wrong secret", sign(jwt.SigningMethodHS256, []byte("another_secret_that_is_long_enough_000"), valid()), ErrInvalidCredentials},
		{"wrong algorithm", sign(jwt.SigningMethodHS512, []byte(testSecret), valid()), ErrInvalidCredentials},
		{"none algorithm", sign(jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, valid()), ErrInvalidCredentials},
		{"expired", sign(jwt.SigningMethodHS256, []byte(testSecret), expired), ErrExpiredCredentials},
		{"missing exp", sign(jwt.SigningMethodHS256, []byte(testSecret), noExp), ErrInvalidCredentials},
		{"missing subject", sign(jwt.SigningMethodHS256, []byte(testSecret), noSubject), ErrInvalidCredentials},
		{"not yet valid", sign(jwt.SigningMethodHS256, []byte(testSecret), notYet), ErrInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.ValidateToken(tt.token)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateToken() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestClaimsAllRoles(t *testing.T) {
	tests := []struct {
		name   string
		claims Claims
		want   []string
	}{
		{"roles list", Claims{Roles: []string{"a", "b"}, Role: "c"}, []string{"a", "b"}},
		{"single role", Claims{Role: "admin"}, []string{"admin"}},
		{"none", Claims{}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.claims.AllRoles()
			if len(got) != len(tt.want) {
				t.Fatalf("AllRoles() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("AllRoles()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}
