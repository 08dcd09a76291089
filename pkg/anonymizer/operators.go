package anonymizer

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/securex/securex/pkg/fieldcipher"
	"github.com/securex/securex/pkg/models"
)

// Operator transforms the text of a single span.
type Operator interface {
	Name() models.OperatorName
	Operate(spanText string, span models.Span) (string, error)
}

var (
	_ Operator = MaskOperator{}
	_ Operator = RedactOperator{}
	_ Operator = EncryptOperator{}
	_ Operator = DecryptOperator{}
	_ Operator = HighlightOperator{}
	_ Operator = ReplaceOperator{}
	_ Operator = &FakeOperator{}
)

// NewOperator validates cfg and returns the concrete operator it names.
func NewOperator(cfg models.OperatorConfig) (Operator, error) {
	switch cfg.Type {
	case models.OperatorMask:
		return newMaskOperator(cfg)
	case models.OperatorRedact:
		return RedactOperator{}, nil
	case models.OperatorEncrypt:
		if err := fieldcipher.ValidateKey(cfg.Key); err != nil {
			return nil, err
		}
		return EncryptOperator{Key: cfg.Key}, nil
	case models.OperatorDecrypt:
		if err := fieldcipher.ValidateKey(cfg.Key); err != nil {
			return nil, err
		}
		return DecryptOperator{Key: cfg.Key}, nil
	case models.OperatorHighlight:
		return HighlightOperator{}, nil
	case models.OperatorReplace, models.OperatorSynthesize:
		return ReplaceOperator{NewValue: cfg.NewValue}, nil
	case models.OperatorFake:
		return NewFakeOperator(nil), nil
	case "":
		return nil, models.NewValidationError("operator type is required")
	default:
		return nil, models.NewUnsupportedOperatorError(string(cfg.Type))
	}
}

// MaskOperator overwrites Count characters of the span with Char, from the
// front or, with FromEnd, from the back. The text length never changes.
type MaskOperator struct {
	Char    rune
	Count   int
	FromEnd bool
}

func newMaskOperator(cfg models.OperatorConfig) (Operator, error) {
	if utf8.RuneCountInString(cfg.MaskingChar) != 1 {
		return nil, models.NewValidationError(
			"mask operator needs exactly one masking_char, got %q",
			cfg.MaskingChar,
		)
	}
	if cfg.CharsToMask == nil {
		return nil, models.NewValidationError("mask operator needs chars_to_mask")
	}
	if *cfg.CharsToMask <= 0 {
		return nil, models.NewValidationError(
			"mask operator chars_to_mask must be positive, got %d",
			*cfg.CharsToMask,
		)
	}

	char, _ := utf8.DecodeRuneInString(cfg.MaskingChar)

	return MaskOperator{Char: char, Count: *cfg.CharsToMask, FromEnd: cfg.FromEnd}, nil
}

func (MaskOperator) Name() models.OperatorName { return models.OperatorMask }

func (o MaskOperator) Operate(spanText string, _ models.Span) (string, error) {
	r := []rune(spanText)
	n := min(o.Count, len(r))

	from, to := 0, n
	if o.FromEnd {
		from, to = len(r)-n, len(r)
	}
	for i := from; i < to; i++ {
		r[i] = o.Char
	}

	return string(r), nil
}

// RedactOperator removes the span text.
type RedactOperator struct{}

func (RedactOperator) Name() models.OperatorName { return models.OperatorRedact }

func (RedactOperator) Operate(string, models.Span) (string, error) {
	return "", nil
}

type EncryptOperator struct {
	Key string
}

func (EncryptOperator) Name() models.OperatorName { return models.OperatorEncrypt }

func (o EncryptOperator) Operate(spanText string, _ models.Span) (string, error) {
	return fieldcipher.Encrypt(spanText, o.Key)
}

type DecryptOperator struct {
	Key string
}

func (DecryptOperator) Name() models.OperatorName { return models.OperatorDecrypt }

func (o DecryptOperator) Operate(spanText string, _ models.Span) (string, error) {
	return fieldcipher.Decrypt(spanText, o.Key)
}

// HighlightOperator leaves the text untouched. Running it only resolves and
// reports the spans, e.g. ahead of Annotate.
type HighlightOperator struct{}

func (HighlightOperator) Name() models.OperatorName { return models.OperatorHighlight }

func (HighlightOperator) Operate(spanText string, _ models.Span) (string, error) {
	return spanText, nil
}

// ReplaceOperator substitutes NewValue, or "<ENTITY_TYPE>" when NewValue is nil.
type ReplaceOperator struct {
	NewValue *string
}

func (ReplaceOperator) Name() models.OperatorName { return models.OperatorReplace }

func (o ReplaceOperator) Operate(_ string, span models.Span) (string, error) {
	if o.NewValue != nil {
		return *o.NewValue, nil
	}
	return Placeholder(span.EntityType), nil
}

// Placeholder is the default replacement for an entity type.
func Placeholder(entityType string) string {
	return fmt.Sprintf("<%s>", entityType)
}

// FakeOperator substitutes a synthetic value shaped like the entity type.
// Unknown entity types get the Placeholder.
type FakeOperator struct {
	faker *gofakeit.Faker
}

// NewFakeOperator returns a FakeOperator drawing from faker, or from a
// randomly seeded faker when nil.
func NewFakeOperator(faker *gofakeit.Faker) *FakeOperator {
	if faker == nil {
		faker = gofakeit.New(0)
	}
	return &FakeOperator{faker: faker}
}

func (*FakeOperator) Name() models.OperatorName { return models.OperatorFake }

func (o *FakeOperator) Operate(_ string, span models.Span) (string, error) {
	f := o.faker
	switch span.EntityType {
	case "PERSON":
		return f.Name(), nil
	case "LOCATION":
		return f.City(), nil
	case "ORGANIZATION":
		return f.Company(), nil
	case "DATE_TIME":
		return f.Date().Format("02/01/2006"), nil
	case "NRP":
		return f.Country(), nil
	case "PHONE_NUMBER":
		return f.Phone(), nil
	case "EMAIL_ADDRESS":
		return f.Email(), nil
	case "IN_AADHAAR":
		return f.Numerify("2###########"), nil
	case "IN_PAN":
		return strings.ToUpper(f.Lexify("?????")) + f.Numerify("####") + strings.ToUpper(f.Lexify("?")), nil
	case "IN_VEHICLE_REGISTRATION":
		return "KA" + f.Numerify("##") + strings.ToUpper(f.Lexify("??")) + f.Numerify("####"), nil
	case "IN_PASSPORT", "US_PASSPORT":
		return strings.ToUpper(f.Lexify("?")) + f.Numerify("#######"), nil
	case "CREDIT_CARD":
		return f.CreditCardNumber(nil), nil
	case "IP_ADDRESS":
		return f.IPv4Address(), nil
	default:
		return Placeholder(span.EntityType), nil
	}
}
