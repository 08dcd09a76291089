package models

// AnnotatedSegment is either a plain run of text (Label empty) or an entity
// with its label.
type AnnotatedSegment struct {
	Text  string `json:"text"`
	Label string `json:"label,omitempty"`
}

// IsEntity reports whether the segment is a labelled entity.
func (s AnnotatedSegment) IsEntity() bool {
	return s.Label != ""
}

// JoinSegments concatenates segment texts, ignoring labels.
func JoinSegments(segments []AnnotatedSegment) string {
	n := 0
	for _, s := range segments {
		n += len(s.Text)
	}
	buf := make([]byte, 0, n)
	for _, s := range segments {
		buf = append(buf, s.Text...)
	}
	return string(buf)
}
