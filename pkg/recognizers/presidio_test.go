package recognizers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/securex/securex/config"
	"github.com/securex/securex/pkg/models"
)

func newTestPresidio(t *testing.T, handler http.HandlerFunc) *PresidioClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewPresidioClient(&config.RecognizerConfig{
		Type:       "presidio",
		URL:        srv.URL + "/analyze",
		Timeout:    2 * time.Second,
		MaxRetries: 0,
	})
	require.NoError(t, err)
	return client
}

func TestPresidioAnalyze(t *testing.T) {
	var received map[string]any
	client := newTestPresidio(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/analyze", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"analysis_explanation": null, "end": 32, "entity_type": "IN_AADHAAR",
			 "recognition_metadata": {"recognizer_name": "InAadhaarRecognizer"}, "score": 0.99, "start": 20}
		]`))
	})

	spans, err := client.Analyze(context.Background(), &models.AnalyzeRequest{
		Text:           "My aadhar number is 222818318317.",
		Language:       "en",
		ScoreThreshold: 0.35,
	})
	require.NoError(t, err)
	assert.Equal(t, []models.Span{{Start: 20, End: 32, EntityType: "IN_AADHAAR", Score: 0.99}}, spans)

	assert.Equal(t, "My aadhar number is 222818318317.", received["text"])
	assert.Equal(t, "en", received["language"])
	assert.Equal(t, 0.35, received["score_threshold"])
	assert.Contains(t, received, "entities")
	assert.Nil(t, received["entities"])
}

func TestPresidioAnalyzeNoEntities(t *testing.T) {
	client := newTestPresidio(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})

	spans, err := client.Analyze(context.Background(), &models.AnalyzeRequest{Text: "nothing here", Language: "en"})
	require.NoError(t, err)
	assert.NotNil(t, spans)
	assert.Empty(t, spans)
}

func TestPresidioAnalyzeFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		status  int
	}{
		{
			name: "bad request",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, `{"error": "No text provided"}`, http.StatusBadRequest)
			},
			status: http.StatusBadRequest,
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
		},
		{
			name: "not json",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`<html>gateway</html>`))
			},
			status: http.StatusOK,
		},
		{
			name: "object instead of array",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"results": []}`))
			},
			status: http.StatusOK,
		},
		{
			name: "missing fields",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`[{"start": 1, "end": 4}]`))
			},
			status: http.StatusOK,
		},
		{
			name: "wrong field types",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`[{"start": "1", "end": 4, "entity_type": "PERSON", "score": 0.5}]`))
			},
			status: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestPresidio(t, tt.handler)

			spans, err := client.Analyze(context.Background(), &models.AnalyzeRequest{Text: "Ravi", Language: "en"})
			assert.Nil(t, spans)
			require.ErrorIs(t, err, models.ErrRecognizerUnavailable)

			var rue *models.RecognizerUnavailableError
			require.True(t, errors.As(err, &rue))
			assert.Equal(t, PresidioRecognizerName, rue.Recognizer)
			if tt.status != 0 {
				assert.Equal(t, tt.status, rue.StatusCode)
			}
		})
	}
}

func TestPresidioAnalyzeUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client, err := NewPresidioClient(&config.RecognizerConfig{URL: url, Timeout: time.Second})
	require.NoError(t, err)

	_, err = client.Analyze(context.Background(), &models.AnalyzeRequest{Text: "Ravi", Language: "en"})
	assert.ErrorIs(t, err, models.ErrRecognizerUnavailable)
}

func TestPresidioAnalyzeContextCancelled(t *testing.T) {
	client := newTestPresidio(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Analyze(ctx, &models.AnalyzeRequest{Text: "Ravi", Language: "en"})
	assert.ErrorIs(t, err, models.ErrRecognizerUnavailable)
}

func TestPresidioAnalyzeInvalidRequest(t *testing.T) {
	client := newTestPresidio(t, func(w http.ResponseWriter, _ *http.Request) {
		t.Error("analyzer must not be called")
	})

	_, err := client.Analyze(context.Background(), &models.AnalyzeRequest{Text: "", Language: "en"})
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = client.Analyze(context.Background(), &models.AnalyzeRequest{Text: "Ravi", ScoreThreshold: 2})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestNewPresidioClientRequiresURL(t *testing.T) {
	_, err := NewPresidioClient(&config.RecognizerConfig{})
	assert.Error(t, err)
}
