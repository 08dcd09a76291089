package models

import (
	"errors"
	"fmt"
)

type ErrorResponse struct {
	Message string `json:"message"`
}

/* NotFoundError */

var ErrNotFound = errors.New("not found")

type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

func (*NotFoundError) Unwrap() error {
	return ErrNotFound
}

func NewNotFoundError(resource string) error {
	return &NotFoundError{Resource: resource}
}

/* ValidationError */

// ErrValidation covers malformed spans and malformed operator or field input.
var ErrValidation = errors.New("validation error")

type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (*ValidationError) Unwrap() error {
	return ErrValidation
}

func NewValidationError(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

/* UnsupportedOperatorError */

var ErrUnsupportedOperator = errors.New("unsupported operator")

type UnsupportedOperatorError struct {
	Operator string
}

func (e *UnsupportedOperatorError) Error() string {
	return fmt.Sprintf("unsupported operator: %q", e.Operator)
}

func (*UnsupportedOperatorError) Unwrap() error {
	return ErrUnsupportedOperator
}

func NewUnsupportedOperatorError(operator string) error {
	return &UnsupportedOperatorError{Operator: operator}
}

/* DecryptionError */

// ErrDecryption is returned for a wrong key or a corrupted ciphertext. It is
// never retried.
var ErrDecryption = errors.New("decryption failed")

type DecryptionError struct {
	Message string
	Err     error
}

func (e *DecryptionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decryption failed: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("decryption failed: %s", e.Message)
}

func (*DecryptionError) Unwrap() error {
	return ErrDecryption
}

func NewDecryptionError(message string, err error) error {
	return &DecryptionError{Message: message, Err: err}
}

/* RecognizerUnavailableError */

// ErrRecognizerUnavailable means the entity recognizer call failed. It is
// distinct from a successful call that found no entities.
var ErrRecognizerUnavailable = errors.New("entity recognizer unavailable")

type RecognizerUnavailableError struct {
	Recognizer string
	StatusCode int
	Err        error
}

func (e *RecognizerUnavailableError) Error() string {
	msg := fmt.Sprintf("entity recognizer %s unavailable", e.Recognizer)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (*RecognizerUnavailableError) Unwrap() error {
	return ErrRecognizerUnavailable
}

// Cause returns the underlying transport or decoding error, if any.
func (e *RecognizerUnavailableError) Cause() error {
	return e.Err
}

func NewRecognizerUnavailableError(recognizer string, statusCode int, err error) error {
	return &RecognizerUnavailableError{Recognizer: recognizer, StatusCode: statusCode, Err: err}
}
