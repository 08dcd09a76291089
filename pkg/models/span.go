package models

import "unicode/utf8"

// Span is a labelled range of a text as reported by an entity recognizer.
// Start and End are code point offsets, End exclusive.
type Span struct {
	Start      int     `json:"start"       yaml:"start"`
	End        int     `json:"end"         yaml:"end"`
	EntityType string  `json:"entity_type" yaml:"entity_type"`
	Score      float64 `json:"score"       yaml:"score"`
}

// Len returns the number of code points covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// Overlaps reports whether s and o share at least one code point.
func (s Span) Overlaps(o Span) bool {
	return s.Start < o.End && o.Start < s.End
}

// Validate checks the span in isolation. A textLen < 0 skips the upper bound check.
func (s Span) Validate(textLen int) error {
	if s.Start < 0 {
		return NewValidationError("span %d-%d has a negative start", s.Start, s.End)
	}
	if s.Start >= s.End {
		return NewValidationError("span %d-%d is empty or inverted", s.Start, s.End)
	}
	if textLen >= 0 && s.End > textLen {
		return NewValidationError(
			"span %d-%d is out of bounds for text of length %d",
			s.Start,
			s.End,
			textLen,
		)
	}
	return nil
}

// ResolvedSpanSet is sorted ascending by Start and free of overlaps.
type ResolvedSpanSet []Span

// Validate checks ordering and the no-overlap invariant against a text of textLen code points.
func (rs ResolvedSpanSet) Validate(textLen int) error {
	for i, s := range rs {
		if err := s.Validate(textLen); err != nil {
			return err
		}
		if i > 0 && rs[i-1].End > s.Start {
			return NewValidationError(
				"spans %d-%d and %d-%d overlap or are out of order",
				rs[i-1].Start,
				rs[i-1].End,
				s.Start,
				s.End,
			)
		}
	}
	return nil
}

// TextLen returns the length of text in code points, the unit used by Span offsets.
func TextLen(text string) int {
	return utf8.RuneCountInString(text)
}
