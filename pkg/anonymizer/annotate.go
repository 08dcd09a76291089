package anonymizer

import (
	"github.com/securex/securex/pkg/models"
)

// Annotate splits text into plain and entity segments. Empty gaps are
// omitted, so concatenating the segment texts gives back text exactly.
func Annotate(text string, spans models.ResolvedSpanSet) ([]models.AnnotatedSegment, error) {
	runes := []rune(text)
	if err := spans.Validate(len(runes)); err != nil {
		return nil, err
	}

	segments := make([]models.AnnotatedSegment, 0, 2*len(spans)+1)
	cursor := 0
	for _, s := range spans {
		if s.Start > cursor {
			segments = append(segments, models.AnnotatedSegment{Text: string(runes[cursor:s.Start])})
		}
		segments = append(segments, models.AnnotatedSegment{
			Text:  string(runes[s.Start:s.End]),
			Label: s.EntityType,
		})
		cursor = s.End
	}
	if cursor < len(runes) {
		segments = append(segments, models.AnnotatedSegment{Text: string(runes[cursor:])})
	}

	return segments, nil
}
