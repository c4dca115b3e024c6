// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

// Package authz decides which roles may trigger batch maintenance, using
// a casbin RBAC model with keyMatch2 path patterns.
//
// Built-in roles:
//
//	admin     every /api/v1/admin route
//	operator  vectorize, profile recompute, precompute, plus analyst
//	analyst   metric evaluation
//
// Roles listed in security.admin_roles inherit admin. A policy file at
// security.casbin_policy_path replaces the embedded policy.
package authz
