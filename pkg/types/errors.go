package types

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies a pipeline failure.
type ErrorKind string

const (
	KindInvalidInput ErrorKind = "invalid_input"
	KindUnsafeQuery  ErrorKind = "unsafe_query"
	KindGeneration   ErrorKind = "generation_error"
	KindExecution    ErrorKind = "execution_error"
	KindNotFound     ErrorKind = "not_found"
)

// ErrorCategory is a best-effort classification of a completion failure.
type ErrorCategory string

const (
	CategoryAuth      ErrorCategory = "auth"
	CategoryRateLimit ErrorCategory = "rate_limit"
	CategoryNetwork   ErrorCategory = "network"
	CategoryTimeout   ErrorCategory = "timeout"
	CategoryUnknown   ErrorCategory = "unknown"
)

// Sentinels for errors.Is checks against a *SearchError of the same kind.
var (
	ErrInvalidInput = &SearchError{Kind: KindInvalidInput}
	ErrUnsafeQuery  = &SearchError{Kind: KindUnsafeQuery}
	ErrGeneration   = &SearchError{Kind: KindGeneration}
	ErrExecution    = &SearchError{Kind: KindExecution}
	ErrNotFound     = &SearchError{Kind: KindNotFound}
)

// SearchError is the error type returned by every pipeline stage.
type SearchError struct {
	Kind ErrorKind

	// Category is only set for KindGeneration.
	Category ErrorCategory

	Message string
	Err     error
}

func (e *SearchError) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return string(e.Kind)
	}
}

// Unwrap returns the underlying error.
func (e *SearchError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support by comparing kinds.
func (e *SearchError) Is(target error) bool {
	t, ok := target.(*SearchError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Detail returns the user-facing part of the error: the message followed by
// the underlying error, without the kind prefix.
func (e *SearchError) Detail() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	default:
		return string(e.Kind)
	}
}

// NewInvalidInputError reports a user-correctable input problem.
func NewInvalidInputError(message string) *SearchError {
	return &SearchError{Kind: KindInvalidInput, Message: message}
}

// NewUnsafeQueryError reports a validator rejection.
func NewUnsafeQueryError(message string) *SearchError {
	return &SearchError{Kind: KindUnsafeQuery, Message: message}
}

// NewGenerationError reports a completion failure with its category.
func NewGenerationError(category ErrorCategory, message string, err error) *SearchError {
	if category == "" {
		category = CategoryUnknown
	}
	return &SearchError{Kind: KindGeneration, Category: category, Message: message, Err: err}
}

// NewExecutionError reports a graph store failure.
func NewExecutionError(err error) *SearchError {
	return &SearchError{Kind: KindExecution, Message: "failed to execute the generated query", Err: err}
}

// NewNotFoundError reports a missing scrap or cache entry.
func NewNotFoundError(message string) *SearchError {
	return &SearchError{Kind: KindNotFound, Message: message}
}

// KindOf returns the kind of err, or "" if err is not a *SearchError.
func KindOf(err error) ErrorKind {
	var se *SearchError
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}

// HTTPStatus maps an error to the HTTP status code reported to clients.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindInvalidInput, KindUnsafeQuery:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
