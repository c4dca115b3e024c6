// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

/*
Package models defines data structures shared across Curator packages.

Key Components:

  - ContentItem: catalog entry supplied by the publishing platform
  - Identity: visitor identity (signed-in account or anonymous session)
  - APIResponse: standard HTTP response envelope

The catalog is read-only from Curator's point of view. Engagement
counters on ContentItem change externally and are re-read on every
vectorization.
*/
package models
