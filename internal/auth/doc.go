// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

/*
Package auth validates bearer tokens on administrative routes.

Tokens are HS256 JWTs signed with security.jwt_secret and issued by an
external identity surface; this service never logs anyone in. A valid token
yields an AuthSubject carrying the sub claim and the token's roles, which
the authz package checks against the casbin policy.

	r.Group(func(r chi.Router) {
	    r.Use(authMiddleware.RequireBearer)
	    r.Use(authzMiddleware.AuthorizeRequest)
	    r.Post("/api/v1/admin/vectorize", h.Vectorize)
	})

When no secret is configured the admin routes are not mounted at all.
*/
package auth
