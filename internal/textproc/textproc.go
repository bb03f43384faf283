// FAQRec - FAQ Recommendation and Experimentation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/faqrec

// Package textproc normalizes free text into terms for TF-IDF scoring.
//
// The pipeline is intentionally small and deterministic:
//
//  1. Lower-case the input
//  2. Replace everything except ASCII word characters, whitespace and hyphens with a space
//  3. Split on whitespace
//  4. Drop tokens of length 2 or less and common English stop words
//  5. Strip a single known suffix (or a plural "s")
//
// Processor holds no mutable state and is safe for concurrent use.
package textproc

import (
	"strings"
	"unicode"
)

// minTokenLength is the shortest token kept after splitting (exclusive bound is 2).
const minTokenLength = 3

// suffixes are tried in order; the first applicable one is stripped.
var suffixes = []string{"ing", "ed", "er", "est", "ly", "tion", "sion", "ness", "ment", "able", "ible"}

// stopWords contribute nothing to content similarity.
var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {}, "in": {}, "on": {}, "at": {},
	"to": {}, "for": {}, "of": {}, "with": {}, "by": {}, "is": {}, "are": {}, "was": {}, "were": {},
	"be": {}, "been": {}, "have": {}, "has": {}, "had": {}, "do": {}, "does": {}, "did": {},
	"will": {}, "would": {}, "could": {}, "should": {}, "may": {}, "might": {}, "must": {},
	"can": {}, "this": {}, "that": {}, "these": {}, "those": {}, "i": {}, "you": {}, "he": {},
	"she": {}, "it": {}, "we": {}, "they": {}, "me": {}, "him": {}, "her": {}, "us": {}, "them": {},
	"my": {}, "your": {}, "his": {}, "our": {}, "their": {}, "what": {}, "when": {}, "where": {},
	"why": {}, "how": {}, "who": {}, "which": {}, "if": {}, "then": {}, "else": {}, "not": {},
	"no": {}, "yes": {}, "up": {}, "down": {}, "out": {}, "off": {}, "over": {}, "under": {},
	"again": {}, "further": {}, "once": {},
}

// Document is the subset of a question that feeds feature extraction.
type Document struct {
	Question   string
	Answer     string
	Tags       []string
	Category   string
	Difficulty string
	Segment    string
}

// Processor tokenizes and stems text.
type Processor struct{}

// New returns a Processor.
func New() Processor {
	return Processor{}
}

// Tokenize lower-cases, cleans, splits, filters and stems text.
// The returned slice preserves token order and may contain repeats.
func (Processor) Tokenize(text string) []string {
	cleaned := strings.Map(normalizeRune, strings.ToLower(text))
	fields := strings.Fields(cleaned)

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) < minTokenLength {
			continue
		}
		if IsStopWord(f) {
			continue
		}
		tokens = append(tokens, Stem(f))
	}
	return tokens
}

// ExtractFeatures concatenates every textual attribute of a document
// into the single string that is tokenized for TF-IDF.
//
//nolint:gocritic // hugeParam: Document is read once per corpus load
func (Processor) ExtractFeatures(doc Document) string {
	parts := make([]string, 0, len(doc.Tags)+5)
	parts = append(parts, doc.Question, doc.Answer)
	parts = append(parts, doc.Tags...)
	parts = append(parts, doc.Category, doc.Difficulty, doc.Segment)
	return strings.Join(parts, " ")
}

// Stem strips the first matching suffix when enough of the word remains,
// otherwise a trailing plural "s" (but not "ss").
func Stem(word string) string {
	for _, suffix := range suffixes {
		if strings.HasSuffix(word, suffix) && len(word) > len(suffix)+2 {
			return word[:len(word)-len(suffix)]
		}
	}

	if strings.HasSuffix(word, "s") && len(word) > 3 && !strings.HasSuffix(word, "ss") {
		return word[:len(word)-1]
	}
	return word
}

// IsStopWord reports whether a lower-cased token is in the stop-word set.
func IsStopWord(token string) bool {
	_, ok := stopWords[token]
	return ok
}

// normalizeRune keeps ASCII word characters and hyphens and maps everything
// else (including all whitespace) to a single space.
func normalizeRune(r rune) rune {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
		return r
	case unicode.IsSpace(r):
		return ' '
	default:
		return ' '
	}
}
