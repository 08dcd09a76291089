package models

// AnalyzeOptions overrides the configured recognizer defaults for one call.
// Zero values fall back to the configuration.
type AnalyzeOptions struct {
	Language       string   `json:"language,omitempty"        validate:"omitempty,len=2"`
	Entities       []string `json:"entities,omitempty"`
	ScoreThreshold *float64 `json:"score_threshold,omitempty" validate:"omitempty,gte=0,lte=1"`
}

type AnalyzeTextRequest struct {
	Text string `json:"text" validate:"required"`
	AnalyzeOptions
}

type AnalyzeTextResponse struct {
	Spans ResolvedSpanSet `json:"spans"`
}

// AnonymizeRequest anonymizes Text. When AnalyzerResults is set the
// recognizer is not called and the given spans are resolved instead.
type AnonymizeRequest struct {
	Text string `json:"text" validate:"required"`
	AnalyzeOptions
	Operators       OperatorSet `json:"operators"`
	AnalyzerResults []Span      `json:"analyzer_results,omitempty"`
}

// DeanonymizeRequest reverses encrypt operators. Items are the items of a
// previous anonymize response. An empty Key uses the configured key.
type DeanonymizeRequest struct {
	Text  string           `json:"text"  validate:"required"`
	Items []OperatorResult `json:"items" validate:"required"`
	Key   string           `json:"key,omitempty"`
}

type AnnotateResponse struct {
	Segments []AnnotatedSegment `json:"segments"`
	Spans    ResolvedSpanSet    `json:"spans"`
}

// AnonymizeDocumentRequest anonymizes a stored document. Its analyzed spans
// are used when available.
type AnonymizeDocumentRequest struct {
	Operators OperatorSet `json:"operators"`
}
