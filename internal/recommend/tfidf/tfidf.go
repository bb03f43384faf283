// FAQRec - FAQ Recommendation and Experimentation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/faqrec

// Package tfidf builds term-frequency / inverse-document-frequency vectors
// over a tokenized corpus and compares them with cosine similarity.
//
// An Index is immutable once built. Callers that reload a corpus build a new
// Index and publish it atomically rather than mutating the old one.
package tfidf

import (
	"math"
	"sort"
)

// Document is one tokenized corpus entry.
type Document struct {
	ID     string
	Tokens []string
}

// Term is a single weighted term of a Vector.
type Term struct {
	Term   string
	Weight float64
}

// Vector is the TF-IDF representation of a document.
type Vector struct {
	// DocumentID identifies the owning document.
	DocumentID string

	// Terms maps each unique term to its TF-IDF weight.
	Terms map[string]float64

	// Magnitude is the Euclidean norm of the weights (always >= 0).
	Magnitude float64

	// sorted holds Terms ordered by term so dot products are computed
	// in a fixed order regardless of argument order.
	sorted []Term
}

// Len returns the number of weighted terms.
func (v *Vector) Len() int {
	if v == nil {
		return 0
	}
	return len(v.sorted)
}

// Vocabulary holds corpus-wide document frequencies.
type Vocabulary struct {
	documentFrequency map[string]int
	totalDocuments    int
}

// BuildVocabulary counts, for each term, the number of documents whose
// deduplicated token set contains it.
func BuildVocabulary(docs []Document) *Vocabulary {
	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]struct{}, len(doc.Tokens))
		for _, tok := range doc.Tokens {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}

	return &Vocabulary{
		documentFrequency: df,
		totalDocuments:    len(docs),
	}
}

// DocumentFrequency returns the number of documents containing term.
func (v *Vocabulary) DocumentFrequency(term string) int {
	return v.documentFrequency[term]
}

// TotalDocuments returns the corpus size the vocabulary was built from.
func (v *Vocabulary) TotalDocuments() int {
	return v.totalDocuments
}

// Size returns the number of distinct terms.
func (v *Vocabulary) Size() int {
	return len(v.documentFrequency)
}

// Vectorize computes the TF-IDF vector of a token list against the vocabulary.
// Terms unknown to the vocabulary are skipped.
func (v *Vocabulary) Vectorize(id string, tokens []string) *Vector {
	tf := make(map[string]int, len(tokens))
	for _, tok := range tokens {
		tf[tok]++
	}

	vec := &Vector{
		DocumentID: id,
		Terms:      make(map[string]float64, len(tf)),
		sorted:     make([]Term, 0, len(tf)),
	}

	for term, count := range tf {
		df := v.documentFrequency[term]
		if df == 0 {
			continue
		}
		idf := math.Log(float64(v.totalDocuments) / float64(df))
		weight := float64(count) * idf
		vec.Terms[term] = weight
		vec.sorted = append(vec.sorted, Term{Term: term, Weight: weight})
	}

	sort.Slice(vec.sorted, func(i, j int) bool {
		return vec.sorted[i].Term < vec.sorted[j].Term
	})

	var sumSquares float64
	for _, t := range vec.sorted {
		sumSquares += t.Weight * t.Weight
	}
	vec.Magnitude = math.Sqrt(sumSquares)

	return vec
}

// Cosine returns dot(a, b) / (|a|·|b|), or 0 when either magnitude is 0.
// The result is symmetric in its arguments and clamped to [-1, 1].
func Cosine(a, b *Vector) float64 {
	if a == nil || b == nil || a.Magnitude == 0 || b.Magnitude == 0 {
		return 0
	}
	if a == b {
		return 1
	}

	// Merge walk over both term lists in lexical order.
	var dot float64
	i, j := 0, 0
	for i < len(a.sorted) && j < len(b.sorted) {
		switch {
		case a.sorted[i].Term == b.sorted[j].Term:
			dot += a.sorted[i].Weight * b.sorted[j].Weight
			i++
			j++
		case a.sorted[i].Term < b.sorted[j].Term:
			i++
		default:
			j++
		}
	}

	sim := dot / (a.Magnitude * b.Magnitude)
	switch {
	case sim > 1:
		return 1
	case sim < -1:
		return -1
	default:
		return sim
	}
}

// Index is an immutable snapshot of a vocabulary and the vectors of every
// document it was built from.
type Index struct {
	vocabulary *Vocabulary
	vectors    map[string]*Vector
	order      []string
}

// NewIndex builds the vocabulary and all document vectors in one pass.
func NewIndex(docs []Document) *Index {
	vocab := BuildVocabulary(docs)

	idx := &Index{
		vocabulary: vocab,
		vectors:    make(map[string]*Vector, len(docs)),
		order:      make([]string, 0, len(docs)),
	}
	for _, doc := range docs {
		if _, dup := idx.vectors[doc.ID]; dup {
			continue
		}
		idx.vectors[doc.ID] = vocab.Vectorize(doc.ID, doc.Tokens)
		idx.order = append(idx.order, doc.ID)
	}
	return idx
}

// Vector returns the vector for a document ID.
func (idx *Index) Vector(id string) (*Vector, bool) {
	v, ok := idx.vectors[id]
	return v, ok
}

// Similarity returns the cosine similarity between two indexed documents,
// or 0 if either is missing.
func (idx *Index) Similarity(idA, idB string) float64 {
	a, okA := idx.vectors[idA]
	b, okB := idx.vectors[idB]
	if !okA || !okB {
		return 0
	}
	return Cosine(a, b)
}

// Vocabulary returns the vocabulary the index was built with.
func (idx *Index) Vocabulary() *Vocabulary {
	return idx.vocabulary
}

// Len returns the number of indexed documents.
func (idx *Index) Len() int {
	return len(idx.order)
}

// IDs returns document IDs in corpus order.
func (idx *Index) IDs() []string {
	out := make([]string, len(idx.order))
	copy(out, idx.order)
	return out
}
