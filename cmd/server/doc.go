// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

/*
Package main is the entry point for the Curator server.

Curator recommends content items to signed-in accounts and anonymous
sessions. It blends content similarity, collaborative filtering,
personalized and trending strategies, tracks interactions to keep visitor
profiles current, and reports offline quality metrics.

# Application Architecture

Services run under a Suture v4 supervisor tree:

	Root ("curator")
	├── "messaging-layer"
	│   ├── Embedded NATS server (optional)
	│   └── Event router (interaction events to profile updates)
	├── "maintenance-layer"
	│   ├── vectorize
	│   ├── profile_recompute
	│   ├── evaluation
	│   └── precompute (only with the Badger store)
	└── "api-layer"
	    └── HTTP server

Initialization order:

 1. Configuration: Koanf v2 with defaults, optional YAML file and environment
 2. Logging: zerolog with JSON or console output
 3. Database: DuckDB catalog, interactions, vectors and profiles
 4. Content vectorizer, interaction log and profile store
 5. Precomputed store: BadgerDB (optional)
 6. Recommendation engine with its strategies and reranker
 7. Event pipeline: synchronous, in-process or NATS
 8. Admin security: JWT authentication with Casbin authorization
 9. HTTP Server: Chi router with middleware stack

# Configuration

Configuration is layered (highest priority wins):
  - Environment variables (DUCKDB_PATH, NATS_ENABLED, JWT_SECRET, ...)
  - Config file (config.yaml, or CONFIG_PATH)
  - Built-in defaults

The admin API is mounted only when JWT_SECRET is set. Tokens must carry a
role listed in ADMIN_ROLES.

# Event Pipeline

With EVENTS_SYNCHRONOUS=true every recorded interaction updates the
visitor profile before the request returns. Otherwise interactions are
published on a Watermill topic and applied by a supervised router, either
in process or over NATS JetStream (embedded or external).

# Signal Handling

The server handles graceful shutdown on SIGINT and SIGTERM:
  - Stops accepting new connections
  - Waits for in-flight requests up to HTTP_SHUTDOWN_TIMEOUT
  - Stops the event router and maintenance jobs
  - Closes the event bus, precomputed store and database

# Example Usage

Local development with demo data:

	export SEED_DEMO_DATA=true
	export LOG_FORMAT=console
	./curator

Production with NATS and the admin API:

	export NATS_ENABLED=true
	export JWT_SECRET=$(openssl rand -base64 32)
	export ADMIN_ROLES=admin,editor
	./curator
*/
package main
