package recognizers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kaptinlin/jsonschema"

	"github.com/securex/securex/config"
	"github.com/securex/securex/internal"
	"github.com/securex/securex/pkg/models"
)

const (
	PresidioRecognizerName = "presidio"
	maxResponseSize        = 10 << 20
)

// presidioResponseSchema is the subset of the analyzer response we rely on.
// Additional properties such as analysis_explanation are allowed and ignored.
const presidioResponseSchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["start", "end", "entity_type", "score"],
    "properties": {
      "start": {"type": "integer", "minimum": 0},
      "end": {"type": "integer", "minimum": 0},
      "entity_type": {"type": "string", "minLength": 1},
      "score": {"type": "number", "minimum": 0, "maximum": 1}
    }
  }
}`

var validate = validator.New()

// PresidioClient calls a hosted Presidio analyzer over HTTP.
type PresidioClient struct {
	url    string
	client *http.Client
	schema *jsonschema.Schema
}

var _ models.EntityRecognizer = &PresidioClient{}

func NewPresidioClient(cfg *config.RecognizerConfig) (*PresidioClient, error) {
	if cfg.URL == "" {
		return nil, errors.New("recognizer.url is required for the presidio recognizer")
	}

	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile([]byte(presidioResponseSchema))
	if err != nil {
		return nil, fmt.Errorf("compile presidio response schema: %w", err)
	}

	return &PresidioClient{
		url:    cfg.URL,
		client: NewRetryableHTTPClient(cfg.MaxRetries, cfg.Timeout),
		schema: schema,
	}, nil
}

func (p *PresidioClient) Name() string {
	return PresidioRecognizerName
}

// Analyze posts request to the analyzer. Every failure, including a response
// that does not match the analyzer contract, is a RecognizerUnavailableError.
// An empty array is a valid answer.
func (p *PresidioClient) Analyze(
	ctx context.Context,
	request *models.AnalyzeRequest,
) ([]models.Span, error) {
	if err := validate.Struct(request); err != nil {
		return nil, models.NewValidationError("invalid analyze request: %s", err)
	}

	body, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal analyze request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return nil, models.NewRecognizerUnavailableError(p.Name(), 0, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	log.Debugf("calling presidio analyzer with %s of text", internal.TextSize(request.Text))

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, models.NewRecognizerUnavailableError(p.Name(), 0, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, models.NewRecognizerUnavailableError(p.Name(), resp.StatusCode, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, models.NewRecognizerUnavailableError(
			p.Name(),
			resp.StatusCode,
			fmt.Errorf("unexpected response: %s", truncate(string(data), 200)),
		)
	}

	result := p.schema.ValidateJSON(data)
	if !result.IsValid() {
		return nil, models.NewRecognizerUnavailableError(
			p.Name(),
			resp.StatusCode,
			fmt.Errorf("response does not match the analyzer contract: %v", result.Errors),
		)
	}

	var spans []models.Span
	if err := json.Unmarshal(data, &spans); err != nil {
		return nil, models.NewRecognizerUnavailableError(p.Name(), resp.StatusCode, err)
	}
	if spans == nil {
		spans = []models.Span{}
	}

	return spans, nil
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
