// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

/*
Package services adapts the service's long-running components to suture's
context-aware Serve pattern.

# Available Services

HTTPServerService runs *http.Server and shuts it down gracefully when the
tree stops.

EmbeddedNATSService watches the in-process NATS JetStream server and starts
a replacement when it dies.

EventRouterService runs the watermill router that applies interaction
events to profiles. Each restart builds a fresh router from a factory.

JobService runs a batch job on an interval. Constructors cover the four
maintenance jobs:

	NewVectorizeService         content vectors for new or stale items
	NewProfileRecomputeService  full profile rebuilds from history
	NewEvaluationService        offline quality metrics exported as gauges
	NewPrecomputeService        recommendation lists for active identities

Every run is recorded in the curator_job_runs_total and
curator_job_duration_seconds metrics.

# Return Values

Serve returns ctx.Err() on shutdown. Any other return is a failure that
suture restarts with backoff.
*/
package services
