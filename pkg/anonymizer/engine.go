package anonymizer

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/securex/securex/pkg/models"
)

// Apply runs a single operator over every span of text.
func Apply(
	text string,
	spans models.ResolvedSpanSet,
	cfg models.OperatorConfig,
) (*models.EngineResult, error) {
	return ApplyOperators(text, spans, models.OperatorSet{models.DefaultOperatorKey: cfg})
}

// ApplyOperators transforms text span by span, choosing each span's operator
// by entity type with DefaultOperatorKey as the fallback. All offsets refer to
// the original text and are walked in a single left-to-right pass. Any error
// aborts the call; partial output is never returned.
func ApplyOperators(
	text string,
	spans models.ResolvedSpanSet,
	operators models.OperatorSet,
) (*models.EngineResult, error) {
	ops, err := buildOperators(operators)
	if err != nil {
		return nil, err
	}

	runes := []rune(text)
	if err := spans.Validate(len(runes)); err != nil {
		return nil, err
	}

	var b strings.Builder
	b.Grow(len(text))

	items := make([]models.OperatorResult, 0, len(spans))
	cursor, outPos := 0, 0
	for _, s := range spans {
		op, ok := ops[s.EntityType]
		if !ok {
			op, ok = ops[models.DefaultOperatorKey]
		}
		if !ok {
			return nil, models.NewValidationError(
				"no operator configured for entity type %s and no %s operator",
				s.EntityType,
				models.DefaultOperatorKey,
			)
		}

		b.WriteString(string(runes[cursor:s.Start]))
		outPos += s.Start - cursor

		replaced, err := op.Operate(string(runes[s.Start:s.End]), s)
		if err != nil {
			return nil, fmt.Errorf(
				"%s operator failed on %s span %d-%d: %w",
				op.Name(),
				s.EntityType,
				s.Start,
				s.End,
				err,
			)
		}
		b.WriteString(replaced)

		n := utf8.RuneCountInString(replaced)
		items = append(items, models.OperatorResult{
			Start:      outPos,
			End:        outPos + n,
			EntityType: s.EntityType,
			Text:       replaced,
			Operator:   op.Name(),
			Span:       s,
		})

		outPos += n
		cursor = s.End
	}
	b.WriteString(string(runes[cursor:]))

	return &models.EngineResult{Text: b.String(), Items: items}, nil
}

// buildOperators validates the whole set up front so a bad entry fails the
// call even when no span would use it.
func buildOperators(operators models.OperatorSet) (map[string]Operator, error) {
	if len(operators) == 0 {
		return nil, models.NewValidationError("at least one operator is required")
	}

	ops := make(map[string]Operator, len(operators))
	for entityType, cfg := range operators {
		op, err := NewOperator(cfg)
		if err != nil {
			return nil, fmt.Errorf("operator for %s: %w", entityType, err)
		}
		ops[entityType] = op
	}

	return ops, nil
}
