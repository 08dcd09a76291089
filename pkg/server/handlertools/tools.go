package handlertools

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/securex/securex/internal"
	"github.com/securex/securex/pkg/models"
)

var log = internal.GetLogger()

// IntFromQuery extracts a query string value and converts it to an int
// if it is not empty. If the value is empty, it returns 0.
func IntFromQuery[T ~int | int32 | int64](
	r *http.Request,
	param string,
) (T, error) {
	bitsize := 0

	p := r.URL.Query().Get(param)
	var pInt T
	if p != "" {
		switch any(pInt).(type) {
		case int:
		case int32:
			bitsize = 32
		case int64:
			bitsize = 64
		default:
			return 0, errors.New("unsupported type")
		}

		pInt, err := strconv.ParseInt(p, 10, bitsize)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", param, err)
		}
		return T(pInt), nil
	}
	return 0, nil
}

// BoolFromQuery extracts a query string value and converts it to a bool,
// returning def when the parameter is absent.
func BoolFromQuery(r *http.Request, param string, def bool) (bool, error) {
	p := r.URL.Query().Get(param)
	if p != "" {
		return strconv.ParseBool(p)
	}
	return def, nil
}

// RenderJSON writes data with the given status, rendering an error if encoding fails.
func RenderJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Errorf("failed to encode response: %v", err)
	}
}

// DecodeJSON decodes a JSON request body into the provided data struct.
func DecodeJSON(r *http.Request, data interface{}) error {
	return json.NewDecoder(r.Body).Decode(data)
}

// StatusForError maps the domain error taxonomy to an HTTP status.
func StatusForError(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation), errors.Is(err, models.ErrUnsupportedOperator):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrDecryption):
		return http.StatusUnprocessableEntity
	case errors.Is(err, models.ErrRecognizerUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// RenderError renders an error response.
func RenderError(w http.ResponseWriter, err error, status int) {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		status = http.StatusRequestEntityTooLarge
		err = fmt.Errorf("request body too large. limit is %d bytes", maxBytesErr.Limit)
	}

	if status >= http.StatusInternalServerError {
		log.Error(err)
	} else if status != http.StatusNotFound {
		// Don't log not found errors
		log.Debug(err)
	}

	RenderJSON(w, models.ErrorResponse{Message: err.Error()}, status)
}

// RenderServiceError renders err with the status StatusForError picks for it.
func RenderServiceError(w http.ResponseWriter, err error) {
	RenderError(w, err, StatusForError(err))
}

// UUIDFromURL parses a UUID from a Path parameter. If the UUID is invalid, an error is
// rendered and uuid.Nil is returned.
func UUIDFromURL(r *http.Request, w http.ResponseWriter, paramName string) uuid.UUID {
	uuidStr := chi.URLParam(r, paramName)
	parsed, err := uuid.Parse(uuidStr)
	if err != nil {
		RenderError(
			w,
			fmt.Errorf("unable to parse %s: %w", paramName, err),
			http.StatusBadRequest,
		)
		return uuid.Nil
	}
	return parsed
}
