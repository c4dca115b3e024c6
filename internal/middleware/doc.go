// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

/*
Package middleware provides infrastructure HTTP middleware shared by the API
router.

Key Components:

  - RequestID: accepts or generates an X-Request-ID and stores it in the
    request context so logging.Ctx attaches it to every log line
  - PrometheusMetrics: request counter, latency histogram and in-flight gauge
    labelled by the chi route pattern

Both follow chi's func(http.Handler) http.Handler signature:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)

Route labels use the matched pattern ("/api/v1/recommendations"), never the
raw path, so query strings and ids cannot grow label cardinality. Requests
that match no route are labelled "unmatched".

See Also:

  - internal/api: the router that installs these middlewares
  - internal/metrics: collector definitions
*/
package middleware
