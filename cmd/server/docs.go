// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

// Package main provides the Curator HTTP server
//
// Curator API serves ranked content recommendations and records visitor
// interactions.
//
// @title Curator API
// @version 1.0
// @description Content recommendation service: ranked recommendations, interaction tracking and offline quality metrics.
// @description
// @description ## Identities
// @description
// @description Visitors are identified by `account_id` (signed in) or `session_id` (anonymous). When both are sent, the account wins.
// @description
// @description ## Authentication
// @description
// @description Public endpoints need no credentials. Admin endpoints require an HS256 bearer token whose `roles` claim
// @description contains an admin role. Admin endpoints are not mounted when the server has no JWT secret.
// @description
// @description ## Rate Limiting
// @description
// @description Requests are limited per client IP. Admin endpoints have a stricter limit.
// @description
// @description ## Error Responses
// @description
// @description All error responses follow this format:
// @description ```json
// @description {
// @description   "status": "error",
// @description   "data": null,
// @description   "error": {
// @description     "code": "INVALID_LIMIT",
// @description     "message": "Human-readable error message",
// @description     "details": {}
// @description   },
// @description   "metadata": {
// @description     "timestamp": "2026-01-18T12:34:56Z"
// @description   }
// @description }
// @description ```
//
// @contact.name GitHub Repository
// @contact.url https://github.com/tomtom215/curator/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host localhost:3857
// @BasePath /api/v1
// @schemes http https
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description HS256 JWT with a roles claim: Authorization: Bearer <token>
//
// @tag.name Recommendations
// @tag.description Ranked recommendations for accounts and sessions
//
// @tag.name Interactions
// @tag.description Interaction tracking that feeds visitor profiles
//
// @tag.name Health
// @tag.description Liveness and readiness probes
//
// @tag.name Admin
// @tag.description Maintenance triggers, quality metrics and engine statistics (bearer token required)
package main
