package models

import "context"

// AnalyzeRequest is the wire request of the entity recognizer. A nil
// Entities asks the recognizer for all entity types it supports.
type AnalyzeRequest struct {
	Text           string   `json:"text"            validate:"required"`
	Language       string   `json:"language"`
	Entities       []string `json:"entities"`
	ScoreThreshold float64  `json:"score_threshold" validate:"gte=0,lte=1"`
}

// EntityRecognizer detects labelled spans in text. It is the only component
// of the pipeline that may block; implementations must honour ctx.
//
// A failed call returns a RecognizerUnavailableError. A successful call that
// found nothing returns an empty slice and a nil error.
type EntityRecognizer interface {
	Name() string
	Analyze(ctx context.Context, request *AnalyzeRequest) ([]Span, error)
}
