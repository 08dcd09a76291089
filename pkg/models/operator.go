package models

// OperatorName identifies a transformation applied to a span.
type OperatorName string

const (
	OperatorMask      OperatorName = "mask"
	OperatorRedact    OperatorName = "redact"
	OperatorEncrypt   OperatorName = "encrypt"
	OperatorDecrypt   OperatorName = "decrypt"
	OperatorHighlight OperatorName = "highlight"
	OperatorReplace   OperatorName = "replace"
	// OperatorSynthesize is accepted as an alias of OperatorReplace.
	OperatorSynthesize OperatorName = "synthesize"
	OperatorFake       OperatorName = "fake"
)

// DefaultOperatorKey selects the operator for entity types without their own entry.
const DefaultOperatorKey = "DEFAULT"

// OperatorConfig is the wire form of an operator. Only the fields relevant to
// Type are read; anonymizer.NewOperator turns it into a concrete operator.
type OperatorConfig struct {
	Type        OperatorName `json:"type"                    yaml:"type"                    validate:"required"`
	MaskingChar string       `json:"masking_char,omitempty"  yaml:"masking_char,omitempty"`
	CharsToMask *int         `json:"chars_to_mask,omitempty" yaml:"chars_to_mask,omitempty"`
	FromEnd     bool         `json:"from_end,omitempty"      yaml:"from_end,omitempty"`
	Key         string       `json:"key,omitempty"           yaml:"-"`
	NewValue    *string      `json:"new_value,omitempty"     yaml:"new_value,omitempty"`
}

// OperatorSet maps entity types to operators, with DefaultOperatorKey as the fallback.
type OperatorSet map[string]OperatorConfig

// OperatorResult describes one transformed span. Start and End locate the
// operated text in the output text; Span is the span in the input text.
type OperatorResult struct {
	Start      int          `json:"start"`
	End        int          `json:"end"`
	EntityType string       `json:"entity_type"`
	Text       string       `json:"text"`
	Operator   OperatorName `json:"operator"`
	Span       Span         `json:"span"`
}

// EngineResult is the output of applying operators to a text.
type EngineResult struct {
	Text  string           `json:"text"`
	Items []OperatorResult `json:"items"`
}

// Spans returns the output-text positions of the items as spans, e.g. to feed
// an encrypted text back into a decrypt pass.
func (r *EngineResult) Spans() ResolvedSpanSet {
	spans := make(ResolvedSpanSet, len(r.Items))
	for i, item := range r.Items {
		spans[i] = Span{Start: item.Start, End: item.End, EntityType: item.EntityType, Score: item.Span.Score}
	}
	return spans
}

// MaskConfig builds a mask operator config.
func MaskConfig(char string, count int, fromEnd bool) OperatorConfig {
	return OperatorConfig{Type: OperatorMask, MaskingChar: char, CharsToMask: &count, FromEnd: fromEnd}
}

// EncryptConfig builds an encrypt operator config.
func EncryptConfig(key string) OperatorConfig {
	return OperatorConfig{Type: OperatorEncrypt, Key: key}
}

// DecryptConfig builds a decrypt operator config.
func DecryptConfig(key string) OperatorConfig {
	return OperatorConfig{Type: OperatorDecrypt, Key: key}
}
