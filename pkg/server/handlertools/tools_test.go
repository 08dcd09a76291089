package handlertools

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/securex/securex/pkg/models"
)

func TestIntFromQuery(t *testing.T) {
	req := httptest.NewRequest("GET", "/?param=123", nil)
	got, err := IntFromQuery[int](req, "param")
	assert.NoError(t, err)
	assert.Equal(t, 123, got)

	req = httptest.NewRequest("GET", "/", nil)
	got, err = IntFromQuery[int](req, "param")
	assert.NoError(t, err)
	assert.Zero(t, got)

	req = httptest.NewRequest("GET", "/?param=abc", nil)
	_, err = IntFromQuery[int](req, "param")
	assert.Error(t, err)
}

func TestBoolFromQuery(t *testing.T) {
	req := httptest.NewRequest("GET", "/?redact=false", nil)
	got, err := BoolFromQuery(req, "redact", true)
	assert.NoError(t, err)
	assert.False(t, got)

	req = httptest.NewRequest("GET", "/", nil)
	got, err = BoolFromQuery(req, "redact", true)
	assert.NoError(t, err)
	assert.True(t, got)
}

func TestParseUUIDFromURL(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/{uuid}", func(w http.ResponseWriter, r *http.Request) {
		urlUUID := UUIDFromURL(r, w, "uuid")
		assert.NotNil(t, urlUUID)
	})

	ts := httptest.NewServer(r)
	defer ts.Close()

	// Test with valid UUID
	validUUID := uuid.New()
	res, err := http.Get(ts.URL + "/" + validUUID.String())
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	// Test with invalid UUID
	res, err = http.Get(ts.URL + "/invalid_uuid")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestStatusForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", models.NewValidationError("bad span"), http.StatusBadRequest},
		{"unsupported operator", models.NewUnsupportedOperatorError("shred"), http.StatusBadRequest},
		{"not found", models.NewNotFoundError("record"), http.StatusNotFound},
		{"decryption", models.NewDecryptionError("wrong key", nil), http.StatusUnprocessableEntity},
		{
			"recognizer unavailable",
			models.NewRecognizerUnavailableError("presidio", 502, nil),
			http.StatusServiceUnavailable,
		},
		{
			"wrapped",
			fmt.Errorf("anonymize: %w", models.NewDecryptionError("wrong key", nil)),
			http.StatusUnprocessableEntity,
		},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusForError(tt.err))
		})
	}
}

func TestRenderError(t *testing.T) {
	w := httptest.NewRecorder()
	RenderServiceError(w, models.NewNotFoundError("record 42"))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "record 42 not found", resp.Message)
}

func TestRenderError_BodyTooLarge(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"text": "0123456789"}`))
	w := httptest.NewRecorder()
	req.Body = http.MaxBytesReader(w, req.Body, 4)

	var body map[string]string
	err := DecodeJSON(req, &body)
	require.Error(t, err)

	RenderError(w, err, http.StatusBadRequest)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}
