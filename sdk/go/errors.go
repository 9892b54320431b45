package weeding

import (
	"errors"
	"fmt"
)

// Standard errors returned by the SDK.
var (
	// ErrValidation indicates invalid input parameters.
	ErrValidation = errors.New("validation error")
	// ErrServerBusy indicates the server refused a new upload session.
	ErrServerBusy = errors.New("server busy")
	// ErrFileTooLarge indicates the payload exceeds the server's ceiling.
	ErrFileTooLarge = errors.New("file too large")
	// ErrNotFound indicates the requested resource was not found.
	ErrNotFound = errors.New("not found")
	// ErrBatchLimit indicates a batch exceeds the count or size guard.
	ErrBatchLimit = errors.New("batch limit exceeded")
)

// APIError represents an error response from the upload service.
type APIError struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Message is the error message.
	Message string
	// Details carries the server's diagnostic, when present.
	Details string
	// RetryAfter is the server's retry hint in seconds, when present.
	RetryAfter int
	// Err is the underlying error type.
	Err error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (status %d)", e.Message, e.Details, e.StatusCode)
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *APIError) Unwrap() error {
	return e.Err
}

// ValidationError represents an input validation failure.
type ValidationError struct {
	// Field is the name of the invalid field.
	Field string
	// Message describes what's wrong.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Unwrap returns ErrValidation for errors.Is support.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// ChunkedUploadError represents a failure during a chunked upload. The
// session is abandoned on the first failed chunk; the server's janitor
// reclaims its scratch space.
type ChunkedUploadError struct {
	// UploadID is the upload session ID.
	UploadID string
	// ChunkIndex is the 0-based chunk that failed.
	ChunkIndex int
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ChunkedUploadError) Error() string {
	return fmt.Sprintf("chunked upload failed (upload_id=%s, chunk=%d): %v", e.UploadID, e.ChunkIndex, e.Err)
}

// Unwrap returns the underlying error.
func (e *ChunkedUploadError) Unwrap() error {
	return e.Err
}

// newAPIError maps an HTTP error response to an APIError.
func newAPIError(statusCode int, message, details string, retryAfter int) *APIError {
	err := &APIError{
		StatusCode: statusCode,
		Message:    message,
		Details:    details,
		RetryAfter: retryAfter,
	}

	switch statusCode {
	case 400:
		err.Err = ErrValidation
	case 404:
		err.Err = ErrNotFound
	case 413:
		err.Err = ErrFileTooLarge
	case 429:
		err.Err = ErrServerBusy
	}

	return err
}
