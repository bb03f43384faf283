// FAQRec - FAQ Recommendation and Experimentation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/faqrec

package textproc

import (
	"reflect"
	"testing"
)

func TestStem(t *testing.T) {
	t.Parallel()

	tests := []struct {
		word string
		want string
	}{
		{"booking", "book"},
		{"tutoring", "tutor"},
		{"sing", "sing"}, // too short to strip "ing"
		{"booked", "book"},
		{"printer", "print"},
		{"quickly", "quick"},
		{"preparation", "prepara"},
		{"session", "ses"},
		{"kindness", "kind"},
		{"payment", "pay"},
		{"affordable", "afford"},
		{"flexible", "flex"},
		{"rates", "rate"},
		{"class", "class"},
		{"bus", "bus"},
		{"plans", "plan"},
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			t.Parallel()
			if got := Stem(tt.word); got != tt.want {
				t.Errorf("Stem(%q) = %q, want %q", tt.word, got, tt.want)
			}
		})
	}
}

func TestTokenize(t *testing.T) {
	t.Parallel()

	p := New()
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "punctuation and stop words removed",
			text: "What subjects do you offer tutoring for?",
			want: []string{"subject", "off", "tutor"},
		},
		{
			name: "hyphens kept",
			text: "A-level and GCSE exam-prep",
			want: []string{"a-level", "gcse", "exam-prep"},
		},
		{
			name: "short tokens dropped",
			text: "go to an AI lab",
			want: []string{"lab"},
		},
		{
			name: "whitespace collapsed",
			text: "  mathematics \t\n  english  ",
			want: []string{"mathematic", "english"},
		},
		{
			name: "non-ascii letters split words",
			text: "café prices",
			want: []string{"caf", "price"},
		},
		{
			name: "empty input",
			text: "",
			want: []string{},
		},
		{
			name: "repeats preserved",
			text: "pricing pricing",
			want: []string{"pric", "pric"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := p.Tokenize(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtractFeatures(t *testing.T) {
	t.Parallel()

	doc := Document{
		Question:   "How do I book?",
		Answer:     "Online.",
		Tags:       []string{"booking", "online"},
		Category:   "tutoring-basics",
		Difficulty: "basic",
		Segment:    "all",
	}

	want := "How do I book? Online. booking online tutoring-basics basic all"
	if got := New().ExtractFeatures(doc); got != want {
		t.Errorf("ExtractFeatures() = %q, want %q", got, want)
	}
}

func TestIsStopWord(t *testing.T) {
	t.Parallel()

	for _, w := range []string{"the", "further", "once", "then"} {
		if !IsStopWord(w) {
			t.Errorf("IsStopWord(%q) = false, want true", w)
		}
	}
	for _, w := range []string{"tutor", "price", "The"} {
		if IsStopWord(w) {
			t.Errorf("IsStopWord(%q) = true, want false", w)
		}
	}
}
