package anonymizer

import (
	"sort"

	"github.com/securex/securex/pkg/models"
)

// Resolve turns raw recognizer output into a ResolvedSpanSet. Spans are
// ordered by start and scanned left to right; when a span overlaps the
// currently accepted one the higher score wins, then the longer span, then
// the earlier start. The loser is dropped, never truncated.
func Resolve(spans []models.Span) (models.ResolvedSpanSet, error) {
	return resolve(spans, -1)
}

// ResolveForText is Resolve with an additional bounds check of every span
// against text.
func ResolveForText(text string, spans []models.Span) (models.ResolvedSpanSet, error) {
	return resolve(spans, models.TextLen(text))
}

func resolve(spans []models.Span, textLen int) (models.ResolvedSpanSet, error) {
	for _, s := range spans {
		if err := s.Validate(textLen); err != nil {
			return nil, err
		}
	}

	sorted := make([]models.Span, len(spans))
	copy(sorted, spans)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		if a.Len() != b.Len() {
			return a.Len() > b.Len()
		}
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return a.EntityType < b.EntityType
	})

	resolved := make(models.ResolvedSpanSet, 0, len(sorted))
	for _, s := range sorted {
		if len(resolved) == 0 {
			resolved = append(resolved, s)
			continue
		}

		current := &resolved[len(resolved)-1]
		if s.Start >= current.End {
			resolved = append(resolved, s)
			continue
		}

		if beats(s, *current) {
			*current = s
		}
	}

	return resolved, nil
}

// beats reports whether candidate should replace the accepted span it
// overlaps. candidate never starts before accepted.
func beats(candidate, accepted models.Span) bool {
	if candidate.Score != accepted.Score {
		return candidate.Score > accepted.Score
	}
	return candidate.Len() > accepted.Len()
}
