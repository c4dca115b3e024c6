// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

/*
Package content turns catalog items into numeric feature vectors.

A Snapshot holds the corpus-wide vocabulary (the most frequent terms),
their IDF weights and the category and tag universes. Snapshots are
immutable; VocabularyCache builds one at a time behind singleflight and
swaps it in atomically, so readers never lock.

Vectorize maps one item onto a snapshot:

	content_vector[i]  = tf(term_i) * idf(term_i)
	tf(t)              = count(t) / max term count in the item
	idf(t)             = ln(published_items / items_containing_t)
	category_vector    = one-hot over the category universe
	tag_vector         = one-hot over the tag universe
	length_normalized  = min(chars / 10000, 1)
	readability_score  = Flesch reading ease / 100, clamped to [0, 1]
	engagement_score   = min((likes + 2*comments + 1.5*bookmarks) / max(views, 1), 1)

Vectors carry the snapshot fingerprint as their model version. A vector
whose version differs from the current snapshot was computed against a
different universe and is recomputed before use.
*/
package content
