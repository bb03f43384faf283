// FAQRec - FAQ Recommendation and Experimentation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/faqrec

package recommend

import (
	"math"
	"testing"

	"github.com/tomtom215/faqrec/internal/textproc"
)

func segmentCorpus() *corpus {
	return newCorpus([]Category{{
		ID: "segments",
		Questions: []Question{
			{ID: "s1", Question: "first", ClientSegment: SegmentOxbridgePrep, Analytics: Analytics{Helpful: 1, NotHelpful: 1, Views: 500}},
			{ID: "s2", Question: "second", ClientSegment: SegmentAll, Analytics: Analytics{Helpful: 9, Views: 900}},
			{ID: "s3", Question: "third", ClientSegment: SegmentOxbridgePrep, Analytics: Analytics{Helpful: 2, Views: 10}},
			{ID: "s4", Question: "fourth", ClientSegment: SegmentElevenPlus, Analytics: Analytics{Helpful: 5, Views: 5000}},
			{ID: "s5", Question: "fifth", ClientSegment: SegmentOxbridgePrep, Analytics: Analytics{Helpful: 2, Views: 40}},
		},
	}}, textproc.New())
}

func TestCorpus_SegmentBased(t *testing.T) {
	t.Parallel()

	c := segmentCorpus()
	results := c.segmentBased(SegmentOxbridgePrep, newIDSet(), 10)

	// Exact matches first, then helpfulness ratio, then views.
	want := []struct {
		id    string
		score float64
	}{
		{"s5", segmentExactScore},
		{"s3", segmentExactScore},
		{"s1", segmentExactScore},
		{"s2", segmentWildScore},
	}
	if len(results) != len(want) {
		t.Fatalf("segmentBased() = %v, want %d results", resultIDs(results), len(want))
	}
	for i, w := range want {
		if results[i].ID() != w.id || results[i].Score != w.score {
			t.Errorf("results[%d] = %s/%v, want %s/%v", i, results[i].ID(), results[i].Score, w.id, w.score)
		}
		if results[i].Reason != ReasonClientSegment || results[i].Confidence != segmentConfidence {
			t.Errorf("results[%d] reason=%v confidence=%v", i, results[i].Reason, results[i].Confidence)
		}
	}

	limited := c.segmentBased(SegmentOxbridgePrep, newIDSet("s5"), 2)
	if got := resultIDs(limited); len(got) != 2 || got[0] != "s3" || got[1] != "s1" {
		t.Errorf("segmentBased(exclude s5, limit 2) = %v, want [s3 s1]", got)
	}
}

func TestCorpus_Trending(t *testing.T) {
	t.Parallel()

	c := newCorpus([]Category{{
		ID: "t",
		Questions: []Question{
			{ID: "low", Question: "low", Analytics: Analytics{Views: 250, Trending: true}},
			{ID: "cold", Question: "cold", Analytics: Analytics{Views: 9000}},
			{ID: "viral", Question: "viral", Analytics: Analytics{Views: 4000, Trending: true}},
		},
	}}, textproc.New())

	results := c.trending(newIDSet(), 5)
	if got := resultIDs(results); len(got) != 2 || got[0] != "viral" || got[1] != "low" {
		t.Fatalf("trending() = %v, want [viral low]", got)
	}
	if results[0].Score != 1 {
		t.Errorf("viral score = %v, want capped 1", results[0].Score)
	}
	if math.Abs(results[1].Score-0.25) > 1e-12 {
		t.Errorf("low score = %v, want 0.25", results[1].Score)
	}
	if results[0].Confidence != trendingConfidence {
		t.Errorf("confidence = %v, want %v", results[0].Confidence, trendingConfidence)
	}

	if got := c.trending(newIDSet("viral"), 5); len(got) != 1 || got[0].ID() != "low" {
		t.Errorf("trending(exclude viral) = %v, want [low]", resultIDs(got))
	}
	if got := c.trending(newIDSet(), 0); got != nil {
		t.Errorf("trending(limit 0) = %v, want nil", resultIDs(got))
	}
}

func TestCorpus_MostHelpful(t *testing.T) {
	t.Parallel()

	c := newCorpus([]Category{{
		ID: "h",
		Questions: []Question{
			{ID: "none", Question: "none", Analytics: Analytics{NotHelpful: 3}},
			{ID: "half", Question: "half", Analytics: Analytics{Helpful: 2, NotHelpful: 2}},
			{ID: "full", Question: "full", Analytics: Analytics{Helpful: 1}},
		},
	}}, textproc.New())

	results := c.mostHelpful(newIDSet(), 5)
	if got := resultIDs(results); len(got) != 2 || got[0] != "full" || got[1] != "half" {
		t.Fatalf("mostHelpful() = %v, want [full half]", got)
	}
	if results[1].Score != 0.5 || results[1].Confidence != helpfulConfidence {
		t.Errorf("half = %v/%v, want 0.5/%v", results[1].Score, results[1].Confidence, helpfulConfidence)
	}
}

func TestCorpus_ContentBased_ExternalTarget(t *testing.T) {
	t.Parallel()

	c := newCorpus(fixtureCategories(), textproc.New())

	// A question that is not part of the corpus is projected onto its vocabulary.
	target := &Question{ID: "external", Question: "Oxbridge interview packages", Tags: []string{"oxbridge"}}
	results := c.contentBased(target, newIDSet(), 3)
	if len(results) == 0 {
		t.Fatal("contentBased(external) returned nothing")
	}
	if results[0].ID() != "q2" {
		t.Errorf("results[0] = %s, want q2", results[0].ID())
	}
	for _, r := range results {
		if r.Score <= contentMinSimilarity {
			t.Errorf("%s score %v at or below floor", r.ID(), r.Score)
		}
		if want := math.Min(r.Score*2, 1); r.Confidence != want {
			t.Errorf("%s confidence = %v, want %v", r.ID(), r.Confidence, want)
		}
	}
}

func TestNewCorpus_SkipsDuplicateIDs(t *testing.T) {
	t.Parallel()

	c := newCorpus([]Category{
		{ID: "a", Questions: []Question{{ID: "dup", Question: "first copy"}}},
		{ID: "b", Questions: []Question{{ID: "dup", Question: "second copy"}, {ID: "other", Question: "other"}}},
	}, textproc.New())

	if len(c.questions) != 2 {
		t.Errorf("questions = %d, want 2", len(c.questions))
	}
	if c.byID["dup"].Question != "first copy" {
		t.Errorf("dup = %q, want first occurrence kept", c.byID["dup"].Question)
	}
	if c.index.Len() != 2 {
		t.Errorf("index.Len() = %d, want 2", c.index.Len())
	}
}
