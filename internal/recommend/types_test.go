// FAQRec - FAQ Recommendation and Experimentation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/faqrec

package recommend

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestReason_String(t *testing.T) {
	tests := []struct {
		reason   Reason
		expected string
	}{
		{ReasonContentSimilarity, "content_similarity"},
		{ReasonUserBehaviour, "user_behaviour"},
		{ReasonClientSegment, "client_segment"},
		{ReasonTrending, "trending"},
		{ReasonHelpful, "helpful"},
		{Reason(0), "unknown"},
		{Reason(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.reason.String(); got != tt.expected {
			t.Errorf("Reason(%d).String() = %q, want %q", tt.reason, got, tt.expected)
		}
	}
}

func TestParseSegment(t *testing.T) {
	tests := []struct {
		input   string
		want    Segment
		wantErr bool
	}{
		{"oxbridge_prep", SegmentOxbridgePrep, false},
		{"11_plus", SegmentElevenPlus, false},
		{"a_level_gcse", SegmentALevelGCSE, false},
		{"elite_corporate", SegmentEliteCorporate, false},
		{"comparison_shopper", SegmentComparisonShopper, false},
		{"all", SegmentAll, false},
		{"ALL", 0, true},
		{"eleven_plus", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseSegment(tt.input)
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownEnum) {
				t.Errorf("ParseSegment(%q) error = %v, want ErrUnknownEnum", tt.input, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseSegment(%q) = %v, %v; want %v", tt.input, got, err, tt.want)
		}
	}
}

func TestSegment_Matches(t *testing.T) {
	tests := []struct {
		question Segment
		session  Segment
		want     bool
	}{
		{SegmentOxbridgePrep, SegmentOxbridgePrep, true},
		{SegmentAll, SegmentOxbridgePrep, true},
		{SegmentElevenPlus, SegmentOxbridgePrep, false},
		{SegmentOxbridgePrep, SegmentAll, false},
	}

	for _, tt := range tests {
		if got := tt.question.Matches(tt.session); got != tt.want {
			t.Errorf("%v.Matches(%v) = %v, want %v", tt.question, tt.session, got, tt.want)
		}
	}
}

func TestQuestion_UnmarshalJSON(t *testing.T) {
	raw := `{
		"id": "q1",
		"question": "How much?",
		"answer": "It depends.",
		"tags": ["pricing"],
		"category": "pricing",
		"difficulty": "basic",
		"clientSegment": "11_plus",
		"featured": true,
		"relatedFAQs": ["q2"],
		"analytics": {"views": 10, "helpful": 3, "notHelpful": 1, "trending": true}
	}`

	var q Question
	if err := json.Unmarshal([]byte(raw), &q); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if q.ClientSegment != SegmentElevenPlus {
		t.Errorf("ClientSegment = %v, want 11_plus", q.ClientSegment)
	}
	if len(q.RelatedIDs) != 1 || q.RelatedIDs[0] != "q2" {
		t.Errorf("RelatedIDs = %v, want [q2]", q.RelatedIDs)
	}
	if !q.Analytics.Trending || q.Analytics.Views != 10 {
		t.Errorf("Analytics = %+v", q.Analytics)
	}

	bad := strings.Replace(raw, `"11_plus"`, `"vip"`, 1)
	if err := json.Unmarshal([]byte(bad), &q); !errors.Is(err, ErrUnknownEnum) {
		t.Errorf("Unmarshal(unknown segment) error = %v, want ErrUnknownEnum", err)
	}
}

func TestResult_MarshalJSON(t *testing.T) {
	r := Result{Question: &Question{ID: "q1"}, Score: 0.5, Reason: ReasonTrending, Confidence: 0.5}
	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !strings.Contains(string(data), `"reason":"trending"`) {
		t.Errorf("Marshal() = %s, want reason as wire name", data)
	}

	if _, err := json.Marshal(Result{Reason: Reason(42)}); err == nil {
		t.Error("Marshal(invalid reason) error = nil, want error")
	}
}

func TestAnalytics_HelpfulnessRatio(t *testing.T) {
	tests := []struct {
		name string
		a    Analytics
		want float64
	}{
		{"no votes", Analytics{}, 0},
		{"all helpful", Analytics{Helpful: 4}, 1},
		{"mixed", Analytics{Helpful: 3, NotHelpful: 1}, 0.75},
		{"only unhelpful", Analytics{NotHelpful: 5}, 0},
	}

	for _, tt := range tests {
		if got := tt.a.HelpfulnessRatio(); got != tt.want {
			t.Errorf("%s: HelpfulnessRatio() = %v, want %v", tt.name, got, tt.want)
		}
	}
}
