// Package apperr defines the error kinds shared by the clinic services and
// maps them onto HTTP responses.
package apperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrInvalidInput marks malformed ids and missing or invalid fields.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound marks a referenced record that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnauthenticated is returned when no identity could be resolved.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden is returned when the identity lacks permission.
	ErrForbidden = errors.New("forbidden")
	// ErrConflict marks a unique constraint violation.
	ErrConflict = errors.New("conflict")
	// ErrUpstream marks storage or network failures that are not recoverable locally.
	ErrUpstream = errors.New("upstream failure")
)

// UpstreamError wraps a collaborator failure so it matches both ErrUpstream
// and the original cause.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() []error {
	return []error{ErrUpstream, e.Err}
}

// Upstream wraps err as an upstream failure for op. A nil err stays nil, and
// errors that already carry a known kind are returned unchanged.
func Upstream(op string, err error) error {
	if err == nil {
		return nil
	}
	if Kind(err) != nil {
		return err
	}
	return &UpstreamError{Op: op, Err: err}
}

// Invalid builds an input validation error with a readable message.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// Kind returns the sentinel err belongs to, or nil if it has none.
func Kind(err error) error {
	for _, kind := range []error{ErrInvalidInput, ErrNotFound, ErrUnauthenticated, ErrForbidden, ErrConflict, ErrUpstream} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

// Status maps err to an HTTP status code.
func Status(err error) int {
	switch Kind(err) {
	case ErrInvalidInput:
		return http.StatusBadRequest
	case ErrNotFound:
		return http.StatusNotFound
	case ErrUnauthenticated:
		return http.StatusUnauthorized
	case ErrForbidden:
		return http.StatusForbidden
	case ErrConflict:
		return http.StatusConflict
	case ErrUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// WriteError writes err as a JSON error body. Upstream and unknown errors are
// reported with a generic message so storage details do not leak.
func WriteError(w http.ResponseWriter, err error) {
	status := Status(err)
	msg := err.Error()
	switch status {
	case http.StatusBadGateway:
		msg = "upstream service unavailable"
	case http.StatusInternalServerError:
		msg = "internal error"
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
