// FAQRec - FAQ Recommendation and Experimentation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/faqrec

package recommend

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnknownEnum is wrapped by every enum parse failure.
var ErrUnknownEnum = errors.New("unknown enum value")

// Reason tags which generator produced a recommendation.
type Reason int

const (
	// ReasonContentSimilarity marks TF-IDF cosine matches.
	ReasonContentSimilarity Reason = iota + 1
	// ReasonUserBehaviour marks questions related to what the session viewed.
	ReasonUserBehaviour
	// ReasonClientSegment marks questions targeted at the session's segment.
	ReasonClientSegment
	// ReasonTrending marks high-traffic questions flagged as trending.
	ReasonTrending
	// ReasonHelpful marks questions with the best helpfulness ratio.
	ReasonHelpful
)

var reasonNames = map[Reason]string{
	ReasonContentSimilarity: "content_similarity",
	ReasonUserBehaviour:     "user_behaviour",
	ReasonClientSegment:     "client_segment",
	ReasonTrending:          "trending",
	ReasonHelpful:           "helpful",
}

// String returns the wire name of the reason.
func (r Reason) String() string {
	if name, ok := reasonNames[r]; ok {
		return name
	}
	return "unknown"
}

// Valid reports whether r is one of the defined reasons.
func (r Reason) Valid() bool {
	_, ok := reasonNames[r]
	return ok
}

// ParseReason converts a wire name into a Reason.
func ParseReason(s string) (Reason, error) {
	for r, name := range reasonNames {
		if name == s {
			return r, nil
		}
	}
	return 0, fmt.Errorf("reason %q: %w", s, ErrUnknownEnum)
}

// MarshalText implements encoding.TextMarshaler.
func (r Reason) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("reason %d: %w", int(r), ErrUnknownEnum)
	}
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Reason) UnmarshalText(text []byte) error {
	parsed, err := ParseReason(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Segment is the audience a question targets or a session belongs to.
type Segment int

const (
	// SegmentAll is the wildcard segment; questions tagged with it match every session.
	SegmentAll Segment = iota + 1
	// SegmentOxbridgePrep covers Oxbridge admissions preparation.
	SegmentOxbridgePrep
	// SegmentElevenPlus covers 11+ entrance exams.
	SegmentElevenPlus
	// SegmentALevelGCSE covers A-level and GCSE students.
	SegmentALevelGCSE
	// SegmentEliteCorporate covers corporate and executive clients.
	SegmentEliteCorporate
	// SegmentComparisonShopper covers visitors comparing providers.
	SegmentComparisonShopper
)

var segmentNames = map[Segment]string{
	SegmentAll:               "all",
	SegmentOxbridgePrep:      "oxbridge_prep",
	SegmentElevenPlus:        "11_plus",
	SegmentALevelGCSE:        "a_level_gcse",
	SegmentEliteCorporate:    "elite_corporate",
	SegmentComparisonShopper: "comparison_shopper",
}

// String returns the wire name of the segment.
func (s Segment) String() string {
	if name, ok := segmentNames[s]; ok {
		return name
	}
	return "unknown"
}

// Valid reports whether s is one of the defined segments.
func (s Segment) Valid() bool {
	_, ok := segmentNames[s]
	return ok
}

// Matches reports whether a question tagged with s should be offered to
// a session in segment session.
func (s Segment) Matches(session Segment) bool {
	return s == session || s == SegmentAll
}

// ParseSegment converts a wire name into a Segment.
func ParseSegment(str string) (Segment, error) {
	for s, name := range segmentNames {
		if name == str {
			return s, nil
		}
	}
	return 0, fmt.Errorf("segment %q: %w", str, ErrUnknownEnum)
}

// MarshalText implements encoding.TextMarshaler.
func (s Segment) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("segment %d: %w", int(s), ErrUnknownEnum)
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Segment) UnmarshalText(text []byte) error {
	parsed, err := ParseSegment(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// EntryPoint records how a session arrived.
type EntryPoint int

const (
	// EntryDirect is a typed URL or bookmark.
	EntryDirect EntryPoint = iota + 1
	// EntrySearch is an external search engine.
	EntrySearch
	// EntryInternalLink is a link from elsewhere on the site.
	EntryInternalLink
	// EntrySocial is a social network referral.
	EntrySocial
	// EntryEmail is an email campaign link.
	EntryEmail
)

var entryPointNames = map[EntryPoint]string{
	EntryDirect:       "direct",
	EntrySearch:       "search",
	EntryInternalLink: "internal_link",
	EntrySocial:       "social",
	EntryEmail:        "email",
}

// String returns the wire name of the entry point.
func (e EntryPoint) String() string {
	if name, ok := entryPointNames[e]; ok {
		return name
	}
	return "unknown"
}

// Valid reports whether e is one of the defined entry points.
func (e EntryPoint) Valid() bool {
	_, ok := entryPointNames[e]
	return ok
}

// ParseEntryPoint converts a wire name into an EntryPoint.
func ParseEntryPoint(str string) (EntryPoint, error) {
	for e, name := range entryPointNames {
		if name == str {
			return e, nil
		}
	}
	return 0, fmt.Errorf("entry point %q: %w", str, ErrUnknownEnum)
}

// MarshalText implements encoding.TextMarshaler.
func (e EntryPoint) MarshalText() ([]byte, error) {
	if !e.Valid() {
		return nil, fmt.Errorf("entry point %d: %w", int(e), ErrUnknownEnum)
	}
	return []byte(e.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (e *EntryPoint) UnmarshalText(text []byte) error {
	parsed, err := ParseEntryPoint(string(text))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

// Analytics holds the engagement counters the content repository tracks per question.
type Analytics struct {
	Views      int       `json:"views"`
	Helpful    int       `json:"helpful"`
	NotHelpful int       `json:"notHelpful"`
	Trending   bool      `json:"trending"`
	LastViewed time.Time `json:"lastViewed,omitempty"`
}

// HelpfulnessRatio returns helpful/(helpful+notHelpful), treating an empty
// denominator as 1.
func (a Analytics) HelpfulnessRatio() float64 {
	total := a.Helpful + a.NotHelpful
	if total == 0 {
		total = 1
	}
	return float64(a.Helpful) / float64(total)
}

// Question is a single FAQ entry as supplied by the content repository.
// The engine never modifies it.
type Question struct {
	// ID uniquely identifies the question across the corpus.
	ID string `json:"id"`

	// Question is the question text shown to visitors.
	Question string `json:"question"`

	// Answer is the answer body.
	Answer string `json:"answer"`

	// Tags are free-form keywords.
	Tags []string `json:"tags"`

	// Category is the owning category ID.
	Category string `json:"category"`

	// Difficulty is a free-form level such as "basic" or "advanced".
	Difficulty string `json:"difficulty"`

	// ClientSegment is the audience the question targets.
	ClientSegment Segment `json:"clientSegment"`

	// Featured marks editorially promoted questions.
	Featured bool `json:"featured"`

	// RelatedIDs lists editorially related question IDs.
	RelatedIDs []string `json:"relatedFAQs"`

	// Analytics holds engagement counters.
	Analytics Analytics `json:"analytics"`
}

// Category groups questions under a heading.
type Category struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	Questions   []Question `json:"questions"`
}

// Result is one ranked recommendation.
type Result struct {
	// Question is the recommended question.
	Question *Question `json:"question"`

	// Score is the blended ranking score.
	Score float64 `json:"score"`

	// Reason tags the generator that produced the result.
	Reason Reason `json:"reason"`

	// Confidence is the generator's confidence in [0,1].
	Confidence float64 `json:"confidence"`
}

// ID returns the recommended question's ID.
func (r Result) ID() string {
	if r.Question == nil {
		return ""
	}
	return r.Question.ID
}

// EngineStats is a point-in-time snapshot of engine counters.
type EngineStats struct {
	Requests      int64     `json:"requests"`
	EmptyResults  int64     `json:"empty_results"`
	Questions     int       `json:"questions"`
	Terms         int       `json:"terms"`
	InitializedAt time.Time `json:"initialized_at"`
	Generation    uint64    `json:"generation"`
}
