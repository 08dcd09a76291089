package testutils

import (
	"context"
	"sync"

	"github.com/securex/securex/pkg/models"
)

var _ models.EntityRecognizer = &StubRecognizer{}

// StubRecognizer returns canned spans, or Err when set, and records requests.
type StubRecognizer struct {
	Spans []models.Span
	Err   error

	mu       sync.Mutex
	requests []models.AnalyzeRequest
}

func (s *StubRecognizer) Name() string {
	return "stub"
}

func (s *StubRecognizer) Analyze(
	ctx context.Context,
	request *models.AnalyzeRequest,
) ([]models.Span, error) {
	s.mu.Lock()
	s.requests = append(s.requests, *request)
	s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, models.NewRecognizerUnavailableError(s.Name(), 0, err)
	}
	if s.Err != nil {
		return nil, s.Err
	}

	spans := make([]models.Span, len(s.Spans))
	copy(spans, s.Spans)
	return spans, nil
}

// Requests returns a copy of the requests received so far.
func (s *StubRecognizer) Requests() []models.AnalyzeRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.AnalyzeRequest, len(s.requests))
	copy(out, s.requests)
	return out
}
