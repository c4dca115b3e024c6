// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package database

import (
	"github.com/tomtom215/curator/internal/content"
	"github.com/tomtom215/curator/internal/evaluation"
	"github.com/tomtom215/curator/internal/interactions"
	"github.com/tomtom215/curator/internal/profile"
	"github.com/tomtom215/curator/internal/recommend"
	"github.com/tomtom215/curator/internal/recommend/algorithms"
)

// Compile-time interface checks
var (
	_ content.Corpus            = (*DB)(nil)
	_ content.VectorStore       = (*DB)(nil)
	_ interactions.Repository   = (*DB)(nil)
	_ profile.Repository        = (*DB)(nil)
	_ profile.History           = (*DB)(nil)
	_ profile.ItemLookup        = (*DB)(nil)
	_ recommend.Catalog         = (*DB)(nil)
	_ algorithms.ActivitySource = (*DB)(nil)
	_ algorithms.HistorySource  = (*DB)(nil)
	_ evaluation.Source         = (*DB)(nil)
	_ evaluation.Catalog        = (*DB)(nil)
)
