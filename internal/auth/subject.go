// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package auth

import (
	"context"
	"errors"
)

// Standard authentication errors
var (
	// ErrNoCredentials indicates no credentials were provided.
	ErrNoCredentials = errors.New("no credentials provided")

	// ErrInvalidCredentials indicates credentials were invalid.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrExpiredCredentials indicates credentials have expired.
	ErrExpiredCredentials = errors.New("credentials expired")
)

// AuthSubject is the authenticated caller of an admin route.
type AuthSubject struct {
	// ID is the sub claim, or the username for tokens without one.
	ID       string   `json:"id"`
	Username string   `json:"username,omitempty"`
	Roles    []string `json:"roles,omitempty"`
}

// HasRole reports whether s carries role.
func (s *AuthSubject) HasRole(role string) bool {
	for _, r := range s.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// SubjectFromClaims builds the subject for validated claims.
func SubjectFromClaims(c *Claims) *AuthSubject {
	id := c.Subject
	if id == "" {
		id = c.Username
	}
	return &AuthSubject{
		ID:       id,
		Username: c.Username,
		Roles:    c.AllRoles(),
	}
}

type contextKey string

// AuthSubjectContextKey stores the *AuthSubject of a request.
const AuthSubjectContextKey contextKey = "auth_subject"

// ContextWithSubject returns ctx carrying s.
func ContextWithSubject(ctx context.Context, s *AuthSubject) context.Context {
	return context.WithValue(ctx, AuthSubjectContextKey, s)
}

// GetAuthSubject returns the request's subject or nil.
func GetAuthSubject(ctx context.Context) *AuthSubject {
	subject, ok := ctx.Value(AuthSubjectContextKey).(*AuthSubject)
	if !ok {
		return nil
	}
	return subject
}
