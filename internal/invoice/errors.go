package invoice

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when no invoice exists for the given id.
	ErrNotFound = errors.New("invoice not found")

	// ErrInvalidTransition is returned when an operation is attempted on a
	// record whose status does not permit it, e.g. signing a draft or
	// dispatching twice. The caller should refetch the current status.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrAlreadySigned is returned when sign is attempted on a record that
	// has already left the pending state.
	ErrAlreadySigned = errors.New("invoice already signed")

	// ErrPermissionDenied is returned when the caller does not own the
	// record. It intentionally carries no record contents.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrGenerationExhausted is returned when invoice number generation
	// kept colliding with existing numbers. Safe to retry.
	ErrGenerationExhausted = errors.New("invoice number generation exhausted")

	// ErrEmptySignature is returned when sign is invoked with a nil, empty
	// or blank signature artifact.
	ErrEmptySignature = errors.New("signature artifact is empty")
)

// FieldError describes a single violated field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates every violated field of a create request.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}

	return "validation failed: " + strings.Join(parts, "; ")
}

// PersistenceError wraps a failure of the external store. The in-memory
// transition is not durable when one is returned; callers may retry with
// the same input.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
