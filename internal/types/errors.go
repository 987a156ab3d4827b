package types

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by repositories when an event id does not exist.
var ErrNotFound = errors.New("event not found")

// ValidationError reports malformed event data. Events that fail
// validation are never persisted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid event: %s %s", e.Field, e.Reason)
}

// ExtractionError reports that the language collaborator could not turn
// text into a structured result. The core reports it and never retries.
type ExtractionError struct {
	Reason string
	Err    error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extraction failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("extraction failed: %s", e.Reason)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// StoreError reports that the persistence collaborator was unavailable or
// rejected a write. The conversation context is left at its last-known-good
// anchor when this occurs.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s failed: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }
