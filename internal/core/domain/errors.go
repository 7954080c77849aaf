package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent pipeline failures.
// Adapters wrap these so callers can match with errors.Is.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnsupportedFormat indicates no extractor handles the content type.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrExtractionFailed indicates an extractor could not read the document.
	ErrExtractionFailed = errors.New("extraction failed")

	// ErrEmptyContent indicates extraction produced only whitespace.
	ErrEmptyContent = errors.New("empty content")

	// ErrInvalidInput indicates malformed chunk or embedding input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmbeddingUnavailable indicates the embedding backend failed after retries.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorStoreUnavailable indicates the vector store backend failed.
	ErrVectorStoreUnavailable = errors.New("vector store unavailable")

	// ErrInvalidParameter indicates a malformed request parameter.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrTransient marks a failure worth retrying (timeouts, 5xx).
	ErrTransient = errors.New("transient failure")

	// ErrRateLimited indicates the backend rejected the call for rate.
	// It is transient.
	ErrRateLimited = errors.New("rate limited")
)

// IsTransient reports whether err may succeed on retry.
func IsTransient(err error) bool {
	return errors.Is(err, ErrTransient) || errors.Is(err, ErrRateLimited)
}

// StageError is a failed ingestion.
type StageError struct {
	DocumentID string
	Stage      IngestState
	Err        error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("document %s failed at %s: %v", e.DocumentID, e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// InputError names the offending item of a batch input.
type InputError struct {
	Index  int
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid input at index %d: %s", e.Index, e.Reason)
}

func (e *InputError) Unwrap() error {
	return ErrInvalidInput
}

// UnavailableError is returned to search callers in place of backend detail.
// The correlation ID ties it to the logged cause.
type UnavailableError struct {
	Kind          error
	CorrelationID string
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%v (correlation id %s)", e.Kind, e.CorrelationID)
}

func (e *UnavailableError) Unwrap() error {
	return e.Kind
}
