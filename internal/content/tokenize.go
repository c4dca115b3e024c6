// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package content

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Token length bounds, in runes.
const (
	DefaultMinTokenLength = 3
	DefaultMaxTokenLength = 20
)

var stopWords = toSet(
	"the", "and", "for", "are", "but", "not", "you", "all", "any", "can",
	"had", "her", "was", "one", "our", "out", "has", "have", "this", "that",
	"with", "from", "they", "will", "would", "there", "their", "what", "about",
	"which", "when", "make", "like", "just", "him", "his", "she", "know",
	"take", "into", "your", "some", "could", "them", "than", "then", "now",
	"only", "its", "also", "over", "after", "how", "these", "two", "more",
	"very", "most", "other", "such", "been", "were", "who", "did", "does",
	"get", "got", "may", "should", "each", "where", "while", "because",
	"those", "being", "here", "why", "off", "own", "same", "both", "few",
	"too", "under", "again", "further", "once", "during", "before", "between",
	"through", "above", "below", "until", "against", "itself", "myself",
	"yours", "ours", "theirs", "whom", "nor", "yet", "let",
	"via", "per", "upon", "much", "many", "even", "well", "still", "way",
)

func toSet(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

// IsStopWord reports whether w is excluded from the vocabulary.
func IsStopWord(w string) bool {
	_, ok := stopWords[w]
	return ok
}

// Tokenize lower-cases text, splits on anything that is not a letter or
// digit, drops tokens outside [minLen, maxLen] runes and removes stop words.
func Tokenize(text string, minLen, maxLen int) []string {
	if minLen <= 0 {
		minLen = DefaultMinTokenLength
	}
	if maxLen <= 0 {
		maxLen = DefaultMaxTokenLength
	}
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := fields[:0]
	for _, f := range fields {
		n := utf8.RuneCountInString(f)
		if n < minLen || n > maxLen || IsStopWord(f) {
			continue
		}
		out = append(out, f)
	}
	return out
}

// termCounts counts tokens and returns the highest single count.
func termCounts(tokens []string) (map[string]int, int) {
	counts := make(map[string]int, len(tokens))
	maxCount := 0
	for _, t := range tokens {
		counts[t]++
		if counts[t] > maxCount {
			maxCount = counts[t]
		}
	}
	return counts, maxCount
}
