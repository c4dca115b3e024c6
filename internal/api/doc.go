// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

/*
Package api provides the HTTP surface of the recommendation service using the
Chi router.

Routes:

	GET  /api/v1/recommendations            ranked list for a visitor
	POST /api/v1/interactions               report a visitor interaction
	GET  /api/v1/health/live                liveness probe
	GET  /api/v1/health/ready               readiness probe (database, event router)
	POST /api/v1/admin/vectorize            refresh stale content vectors
	POST /api/v1/admin/profiles/recompute   recompute stale visitor profiles
	POST /api/v1/admin/precompute           store lists for recently active visitors
	GET  /api/v1/admin/metrics              evaluate recommendation quality
	GET  /api/v1/admin/stats                engine request counters
	GET  /metrics                           Prometheus exposition
	GET  /swagger/*                         Swagger UI

Admin routes are mounted only when a JWT secret is configured. They require a
bearer token (internal/auth) whose roles pass the Casbin policy
(internal/authz), and have their own stricter per-IP rate limit.

Every JSON response uses the models.APIResponse envelope. Input errors map to
400 with a machine-readable code; anything else is a 500 whose message never
includes internal error text.
*/
package api
