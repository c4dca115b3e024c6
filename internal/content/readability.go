// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package content

import (
	"strings"
	"unicode"
)

// Readability returns the Flesch reading ease of text scaled to [0, 1].
// Text without words scores 0.
func Readability(text string) float64 {
	words := strings.FieldsFunc(text, func(r rune) bool { return !unicode.IsLetter(r) && r != '\'' })
	if len(words) == 0 {
		return 0
	}
	syllables := 0
	for _, w := range words {
		syllables += countSyllables(w)
	}
	sentences := countSentences(text)

	wc := float64(len(words))
	score := 206.835 - 1.015*(wc/float64(sentences)) - 84.6*(float64(syllables)/wc)
	return clamp(score/100, 0, 1)
}

// countSentences counts runs of terminal punctuation; at least 1.
func countSentences(text string) int {
	n := 0
	inRun := false
	for _, r := range text {
		if r == '.' || r == '!' || r == '?' {
			if !inRun {
				n++
			}
			inRun = true
			continue
		}
		inRun = false
	}
	if n == 0 {
		return 1
	}
	return n
}

// countSyllables approximates syllables as runs of vowels, at least 1 per word.
func countSyllables(word string) int {
	n := 0
	prevVowel := false
	for _, r := range strings.ToLower(word) {
		v := strings.ContainsRune("aeiouy", r)
		if v && !prevVowel {
			n++
		}
		prevVowel = v
	}
	if n == 0 {
		return 1
	}
	return n
}
