package recognizers

import (
	"context"
	"net/netip"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/securex/securex/pkg/models"
)

const PatternRecognizerName = "pattern"

// Pattern is a regular expression for one entity type. Validate, when set,
// refines the score of a match: it returns the final score, or ok=false to
// drop the match.
type Pattern struct {
	EntityType string
	Regexp     *regexp.Regexp
	Score      float64
	Validate   func(match string, score float64) (float64, bool)
}

// DefaultPatterns cover the identifiers found in FIR records.
var DefaultPatterns = []Pattern{
	{
		EntityType: "IN_AADHAAR",
		Regexp:     regexp.MustCompile(`\b[2-9][0-9]{3}[ -]?[0-9]{4}[ -]?[0-9]{4}\b`),
		Score:      0.4,
		Validate: func(match string, score float64) (float64, bool) {
			if verhoeffValid(digitsOnly(match)) {
				return 1.0, true
			}
			return score, true
		},
	},
	{
		EntityType: "IN_PAN",
		Regexp:     regexp.MustCompile(`\b[A-Z]{5}[0-9]{4}[A-Z]\b`),
		Score:      0.6,
		Validate: func(match string, score float64) (float64, bool) {
			// the fourth letter encodes the holder type
			if strings.ContainsRune("ABCFGHJLPT", rune(match[3])) {
				return 0.85, true
			}
			return score, true
		},
	},
	{
		EntityType: "IN_VEHICLE_REGISTRATION",
		Regexp:     regexp.MustCompile(`\b[A-Z]{2}[ -]?[0-9]{1,2}[ -]?[A-Z]{1,3}[ -]?[0-9]{4}\b`),
		Score:      0.5,
	},
	{
		EntityType: "IN_PASSPORT",
		Regexp:     regexp.MustCompile(`\b[A-PR-WY][1-9][0-9]{5}[1-9]\b`),
		Score:      0.5,
	},
	{
		EntityType: "PHONE_NUMBER",
		Regexp:     regexp.MustCompile(`(?:\+91[ -]?|\b0?)[6-9][0-9]{4}[ -]?[0-9]{5}\b`),
		Score:      0.75,
	},
	{
		EntityType: "EMAIL_ADDRESS",
		Regexp:     regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
		Score:      1.0,
	},
	{
		EntityType: "CREDIT_CARD",
		Regexp:     regexp.MustCompile(`\b(?:[0-9][ -]?){12,18}[0-9]\b`),
		Score:      0.3,
		Validate: func(match string, _ float64) (float64, bool) {
			return 1.0, luhnValid(digitsOnly(match))
		},
	},
	{
		EntityType: "IP_ADDRESS",
		Regexp:     regexp.MustCompile(`\b(?:[0-9]{1,3}\.){3}[0-9]{1,3}\b`),
		Score:      0.6,
		Validate: func(match string, score float64) (float64, bool) {
			_, err := netip.ParseAddr(match)
			return score, err == nil
		},
	},
}

// PatternRecognizer is a local rule-based recognizer. It needs no network and
// reports the same span contract as the hosted analyzer.
type PatternRecognizer struct {
	patterns []Pattern
}

var _ models.EntityRecognizer = &PatternRecognizer{}

// NewPatternRecognizer returns a recognizer for patterns, or DefaultPatterns when none are given.
func NewPatternRecognizer(patterns ...Pattern) *PatternRecognizer {
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}
	return &PatternRecognizer{patterns: patterns}
}

func (r *PatternRecognizer) Name() string {
	return PatternRecognizerName
}

// SupportedEntities returns the entity types this recognizer can report.
func (r *PatternRecognizer) SupportedEntities() []string {
	out := make([]string, 0, len(r.patterns))
	for _, p := range r.patterns {
		if !slices.Contains(out, p.EntityType) {
			out = append(out, p.EntityType)
		}
	}
	return out
}

func (r *PatternRecognizer) Analyze(
	ctx context.Context,
	request *models.AnalyzeRequest,
) ([]models.Span, error) {
	if err := ctx.Err(); err != nil {
		return nil, models.NewRecognizerUnavailableError(r.Name(), 0, err)
	}

	offsets := newRuneOffsets(request.Text)
	spans := []models.Span{}
	for _, p := range r.patterns {
		if request.Entities != nil && !slices.Contains(request.Entities, p.EntityType) {
			continue
		}

		for _, loc := range p.Regexp.FindAllStringIndex(request.Text, -1) {
			score := p.Score
			if p.Validate != nil {
				var ok bool
				score, ok = p.Validate(request.Text[loc[0]:loc[1]], score)
				if !ok {
					continue
				}
			}
			if score < request.ScoreThreshold {
				continue
			}

			spans = append(spans, models.Span{
				Start:      offsets.at(loc[0]),
				End:        offsets.at(loc[1]),
				EntityType: p.EntityType,
				Score:      score,
			})
		}
	}

	return spans, nil
}

// runeOffsets converts byte offsets of a string to code point offsets.
type runeOffsets struct {
	text string
	// byteToRune is only built for non-ASCII text
	byteToRune []int
}

func newRuneOffsets(text string) runeOffsets {
	ro := runeOffsets{text: text}
	if utf8.RuneCountInString(text) == len(text) {
		return ro
	}

	ro.byteToRune = make([]int, len(text)+1)
	n := 0
	for i := range text {
		ro.byteToRune[i] = n
		n++
	}
	ro.byteToRune[len(text)] = n
	return ro
}

func (ro runeOffsets) at(byteOffset int) int {
	if ro.byteToRune == nil {
		return byteOffset
	}
	return ro.byteToRune[byteOffset]
}
