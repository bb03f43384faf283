// FAQRec - FAQ Recommendation and Experimentation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/faqrec

package recommend

import (
	"math"
	"sort"
	"time"

	"github.com/tomtom215/faqrec/internal/recommend/tfidf"
	"github.com/tomtom215/faqrec/internal/textproc"
)

// idSet is a set of question IDs excluded from a generator.
type idSet map[string]struct{}

func newIDSet(ids ...string) idSet {
	s := make(idSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s idSet) has(id string) bool {
	_, ok := s[id]
	return ok
}

func (s idSet) add(ids ...string) {
	for _, id := range ids {
		s[id] = struct{}{}
	}
}

func (s idSet) clone() idSet {
	cp := make(idSet, len(s))
	for id := range s {
		cp[id] = struct{}{}
	}
	return cp
}

// corpus is an immutable snapshot of the question set and its TF-IDF index.
// A reload builds a new corpus and swaps the pointer.
type corpus struct {
	questions  []*Question
	byID       map[string]*Question
	categories []string
	index      *tfidf.Index
	proc       textproc.Processor
	builtAt    time.Time
	generation uint64
}

func featureDocument(q *Question) textproc.Document {
	return textproc.Document{
		Question:   q.Question,
		Answer:     q.Answer,
		Tags:       q.Tags,
		Category:   q.Category,
		Difficulty: q.Difficulty,
		Segment:    q.ClientSegment.String(),
	}
}

func newCorpus(categories []Category, proc textproc.Processor) *corpus {
	c := &corpus{
		byID:       make(map[string]*Question),
		categories: make([]string, 0, len(categories)),
		proc:       proc,
		builtAt:    time.Now(),
	}

	docs := make([]tfidf.Document, 0)
	for ci := range categories {
		c.categories = append(c.categories, categories[ci].ID)
		for qi := range categories[ci].Questions {
			q := categories[ci].Questions[qi]
			if _, dup := c.byID[q.ID]; dup {
				continue
			}
			qp := &q
			c.questions = append(c.questions, qp)
			c.byID[q.ID] = qp

			text := proc.ExtractFeatures(featureDocument(qp))
			docs = append(docs, tfidf.Document{ID: q.ID, Tokens: proc.Tokenize(text)})
		}
	}

	c.index = tfidf.NewIndex(docs)
	return c
}

// contentBased ranks questions by cosine similarity to target.
func (c *corpus) contentBased(target *Question, exclude idSet, limit int) []Result {
	if limit <= 0 {
		return nil
	}
	targetVec, ok := c.index.Vector(target.ID)
	if !ok {
		// Questions outside the corpus are projected onto its vocabulary.
		targetVec = c.index.Vocabulary().Vectorize(target.ID, c.proc.Tokenize(c.proc.ExtractFeatures(featureDocument(target))))
	}

	results := make([]Result, 0)
	for _, q := range c.questions {
		if q.ID == target.ID || exclude.has(q.ID) {
			continue
		}
		vec, ok := c.index.Vector(q.ID)
		if !ok {
			continue
		}
		sim := tfidf.Cosine(targetVec, vec)
		if sim > contentMinSimilarity {
			results = append(results, Result{
				Question:   q,
				Score:      sim,
				Reason:     ReasonContentSimilarity,
				Confidence: math.Min(sim*2, 1),
			})
		}
	}

	sortByScore(results)
	return truncate(results, limit)
}

// behaviourBased scores questions that the session's viewed questions list
// as related, by how many distinct viewed questions point at each.
func (c *corpus) behaviourBased(b *Behaviour, exclude idSet, limit int) []Result {
	if limit <= 0 || len(b.ViewedQuestions) == 0 {
		return nil
	}

	viewed := newIDSet(b.ViewedQuestions...)
	counts := make(map[string]int)
	order := make([]string, 0)

	seenViewed := make(idSet, len(viewed))
	for _, viewedID := range b.ViewedQuestions {
		if seenViewed.has(viewedID) {
			continue
		}
		seenViewed.add(viewedID)

		q, ok := c.byID[viewedID]
		if !ok {
			continue
		}
		pointed := make(idSet, len(q.RelatedIDs))
		for _, relatedID := range q.RelatedIDs {
			if exclude.has(relatedID) || viewed.has(relatedID) || pointed.has(relatedID) {
				continue
			}
			if _, known := c.byID[relatedID]; !known {
				continue
			}
			pointed.add(relatedID)
			if counts[relatedID] == 0 {
				order = append(order, relatedID)
			}
			counts[relatedID]++
		}
	}

	results := make([]Result, 0, len(order))
	for _, id := range order {
		results = append(results, Result{
			Question:   c.byID[id],
			Score:      math.Min(float64(counts[id])*behaviourStep, 1),
			Reason:     ReasonUserBehaviour,
			Confidence: behaviourConfidence,
		})
	}

	sortByScore(results)
	return truncate(results, limit)
}

// segmentBased offers questions targeted at the session's segment (or at
// everyone), exact matches first.
func (c *corpus) segmentBased(segment Segment, exclude idSet, limit int) []Result {
	if limit <= 0 {
		return nil
	}

	candidates := make([]*Question, 0)
	for _, q := range c.questions {
		if q.ClientSegment.Matches(segment) && !exclude.has(q.ID) {
			candidates = append(candidates, q)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		aExact, bExact := a.ClientSegment == segment, b.ClientSegment == segment
		if aExact != bExact {
			return aExact
		}
		aRatio, bRatio := a.Analytics.HelpfulnessRatio(), b.Analytics.HelpfulnessRatio()
		if aRatio != bRatio {
			return aRatio > bRatio
		}
		return a.Analytics.Views > b.Analytics.Views
	})

	candidates = truncate(candidates, limit)
	results := make([]Result, 0, len(candidates))
	for _, q := range candidates {
		score := segmentWildScore
		if q.ClientSegment == segment {
			score = segmentExactScore
		}
		results = append(results, Result{
			Question:   q,
			Score:      score,
			Reason:     ReasonClientSegment,
			Confidence: segmentConfidence,
		})
	}
	return results
}

// trending returns trending questions by views.
func (c *corpus) trending(exclude idSet, limit int) []Result {
	if limit <= 0 {
		return nil
	}

	candidates := make([]*Question, 0)
	for _, q := range c.questions {
		if q.Analytics.Trending && !exclude.has(q.ID) {
			candidates = append(candidates, q)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Analytics.Views > candidates[j].Analytics.Views
	})

	candidates = truncate(candidates, limit)
	results := make([]Result, 0, len(candidates))
	for _, q := range candidates {
		results = append(results, Result{
			Question:   q,
			Score:      math.Min(float64(q.Analytics.Views)/trendingViewsScale, 1),
			Reason:     ReasonTrending,
			Confidence: trendingConfidence,
		})
	}
	return results
}

// mostHelpful returns questions with at least one helpful vote by ratio.
func (c *corpus) mostHelpful(exclude idSet, limit int) []Result {
	if limit <= 0 {
		return nil
	}

	candidates := make([]*Question, 0)
	for _, q := range c.questions {
		if q.Analytics.Helpful > 0 && !exclude.has(q.ID) {
			candidates = append(candidates, q)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Analytics.HelpfulnessRatio() > candidates[j].Analytics.HelpfulnessRatio()
	})

	candidates = truncate(candidates, limit)
	results := make([]Result, 0, len(candidates))
	for _, q := range candidates {
		results = append(results, Result{
			Question:   q,
			Score:      q.Analytics.HelpfulnessRatio(),
			Reason:     ReasonHelpful,
			Confidence: helpfulConfidence,
		})
	}
	return results
}

// popularInCategory ranks a category's questions by views with a linearly
// decaying score.
func (c *corpus) popularInCategory(categoryID string, exclude idSet, limit int) []Result {
	if limit <= 0 {
		return nil
	}

	candidates := make([]*Question, 0)
	for _, q := range c.questions {
		if q.Category == categoryID && !exclude.has(q.ID) {
			candidates = append(candidates, q)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Analytics.Views > candidates[j].Analytics.Views
	})

	candidates = truncate(candidates, limit)
	results := make([]Result, 0, len(candidates))
	for i, q := range candidates {
		results = append(results, Result{
			Question:   q,
			Score:      math.Max(popularTopScore-float64(i)*popularScoreStep, popularMinimumScore),
			Reason:     ReasonTrending,
			Confidence: popularConfidence,
		})
	}
	return results
}

// sortByScore orders results by descending score, keeping insertion order on ties.
func sortByScore(results []Result) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
}

func truncate[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}
