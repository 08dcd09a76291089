package anonymizer

import (
	"context"
	"fmt"
	"sort"

	"github.com/securex/securex/config"
	"github.com/securex/securex/internal"
	"github.com/securex/securex/pkg/models"
)

var log = internal.GetLogger()

// Service wires the recognizer, the resolver, the operator engine and the
// field cipher into the request-level operations of the API.
type Service struct {
	recognizer models.EntityRecognizer
	cipher     models.FieldCipher
	defaults   config.RecognizerConfig
}

func NewService(
	recognizer models.EntityRecognizer,
	cipher models.FieldCipher,
	defaults config.RecognizerConfig,
) *Service {
	return &Service{recognizer: recognizer, cipher: cipher, defaults: defaults}
}

// NewServiceFromAppState builds a Service from the shared application state.
func NewServiceFromAppState(appState *models.AppState) *Service {
	return NewService(appState.Recognizer, appState.Cipher, appState.Config.Recognizer)
}

func (s *Service) analyzeRequest(text string, opts *models.AnalyzeOptions) *models.AnalyzeRequest {
	req := &models.AnalyzeRequest{
		Text:           text,
		Language:       s.defaults.Language,
		Entities:       s.defaults.Entities,
		ScoreThreshold: s.defaults.ScoreThreshold,
	}
	if opts == nil {
		return req
	}
	if opts.Language != "" {
		req.Language = opts.Language
	}
	if len(opts.Entities) > 0 {
		req.Entities = internal.UniqueStrings(opts.Entities)
	}
	if opts.ScoreThreshold != nil {
		req.ScoreThreshold = *opts.ScoreThreshold
	}
	return req
}

// Analyze detects and resolves the entities of text. A recognizer failure is
// returned as is and never treated as "no entities".
func (s *Service) Analyze(
	ctx context.Context,
	text string,
	opts *models.AnalyzeOptions,
) (models.ResolvedSpanSet, error) {
	if text == "" {
		return models.ResolvedSpanSet{}, nil
	}

	req := s.analyzeRequest(text, opts)
	spans, err := s.recognizer.Analyze(ctx, req)
	if err != nil {
		return nil, err
	}

	resolved, err := ResolveForText(text, spans)
	if err != nil {
		return nil, fmt.Errorf("%s returned invalid spans: %w", s.recognizer.Name(), err)
	}

	log.Debugf(
		"analyzed %s of text with %s: %d spans, %d after resolution",
		internal.TextSize(text),
		s.recognizer.Name(),
		len(spans),
		len(resolved),
	)

	return resolved, nil
}

// Anonymize analyzes text, or resolves the caller's AnalyzerResults, and
// applies the operators. With no operators every entity is replaced by its
// placeholder. Encrypt and decrypt operators without a key use the
// configured key.
func (s *Service) Anonymize(
	ctx context.Context,
	req *models.AnonymizeRequest,
) (*models.EngineResult, error) {
	var (
		spans models.ResolvedSpanSet
		err   error
	)
	if req.AnalyzerResults != nil {
		spans, err = ResolveForText(req.Text, req.AnalyzerResults)
	} else {
		spans, err = s.Analyze(ctx, req.Text, &req.AnalyzeOptions)
	}
	if err != nil {
		return nil, err
	}

	return ApplyOperators(req.Text, spans, s.withKeys(req.Operators))
}

func (s *Service) withKeys(operators models.OperatorSet) models.OperatorSet {
	if len(operators) == 0 {
		return models.OperatorSet{
			models.DefaultOperatorKey: {Type: models.OperatorReplace},
		}
	}

	out := make(models.OperatorSet, len(operators))
	for entityType, cfg := range operators {
		if cfg.Key == "" && s.cipher != nil &&
			(cfg.Type == models.OperatorEncrypt || cfg.Type == models.OperatorDecrypt) {
			cfg.Key = s.cipher.Key()
		}
		out[entityType] = cfg
	}
	return out
}

// Deanonymize decrypts the encrypted items of a previous Anonymize result.
// Items produced by other operators are left untouched.
func (s *Service) Deanonymize(
	text string,
	items []models.OperatorResult,
	key string,
) (*models.EngineResult, error) {
	if key == "" {
		if s.cipher == nil {
			return nil, models.NewValidationError("a decryption key is required")
		}
		key = s.cipher.Key()
	}

	spans := make(models.ResolvedSpanSet, 0, len(items))
	for _, item := range items {
		if item.Operator != "" && item.Operator != models.OperatorEncrypt {
			continue
		}
		spans = append(spans, models.Span{
			Start:      item.Start,
			End:        item.End,
			EntityType: item.EntityType,
			Score:      item.Span.Score,
		})
	}
	sort.SliceStable(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })

	return Apply(text, spans, models.DecryptConfig(key))
}

// AnnotateText analyzes text and splits it into plain and entity segments.
func (s *Service) AnnotateText(
	ctx context.Context,
	text string,
	opts *models.AnalyzeOptions,
) (*models.AnnotateResponse, error) {
	spans, err := s.Analyze(ctx, text, opts)
	if err != nil {
		return nil, err
	}

	return AnnotateSpans(text, spans)
}

// AnnotateSpans highlights already resolved spans and annotates the text.
func AnnotateSpans(text string, spans models.ResolvedSpanSet) (*models.AnnotateResponse, error) {
	highlighted, err := Apply(text, spans, models.OperatorConfig{Type: models.OperatorHighlight})
	if err != nil {
		return nil, err
	}

	segments, err := Annotate(highlighted.Text, highlighted.Spans())
	if err != nil {
		return nil, err
	}

	return &models.AnnotateResponse{Segments: segments, Spans: spans}, nil
}

// ProtectFields turns submitted FIR form fields into stored field values.
// Fields flagged for anonymization are encrypted; empty fields are skipped.
func (s *Service) ProtectFields(
	fields map[string]models.FieldInput,
) (map[string]models.FieldValue, error) {
	out := make(map[string]models.FieldValue, len(fields))
	for name, in := range fields {
		def, ok := models.LookupFIRField(name)
		if !ok {
			return nil, models.NewValidationError("unknown FIR field %q", name)
		}
		if in.Value == "" {
			continue
		}

		fv := models.FieldValue{
			Name:      def.Name,
			Title:     def.Title,
			Section:   def.Section,
			Value:     in.Value,
			State:     models.FieldPlaintext,
			Anonymize: in.Anonymize,
		}
		if in.Anonymize {
			if s.cipher == nil {
				return nil, models.NewValidationError("field encryption is not configured")
			}
			ct, err := s.cipher.Encrypt(in.Value)
			if err != nil {
				return nil, fmt.Errorf("failed to encrypt field %s: %w", name, err)
			}
			fv.Value = ct
			fv.State = models.FieldCiphertext
		}
		out[name] = fv
	}

	return out, nil
}

// RevealFields decrypts the ciphertext fields of a record for display. With
// redact set the decrypted values are passed through RedactForDisplay. A
// field that cannot be decrypted is marked undecryptable and loses its
// value; the other fields are unaffected.
func (s *Service) RevealFields(
	fields map[string]models.FieldValue,
	redact bool,
) map[string]models.FieldValue {
	out := make(map[string]models.FieldValue, len(fields))
	for name, fv := range fields {
		if fv.State != models.FieldCiphertext {
			out[name] = fv
			continue
		}

		if s.cipher == nil {
			fv.Value = ""
			fv.State = models.FieldUndecryptable
			out[name] = fv
			continue
		}

		pt, err := s.cipher.Decrypt(fv.Value)
		switch {
		case err != nil:
			log.Warnf("field %s could not be decrypted: %s", name, err)
			fv.Value = ""
			fv.State = models.FieldUndecryptable
		case redact:
			fv.Value = RedactForDisplay(pt)
			fv.State = models.FieldRedacted
		default:
			fv.Value = pt
			fv.State = models.FieldDecrypted
		}
		out[name] = fv
	}

	return out
}
