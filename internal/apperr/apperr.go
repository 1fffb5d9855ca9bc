package apperr

import (
	"errors"
	"net/http"
	"strings"
)

var (
	// ErrValidation marks malformed input such as a bad mobile number or a missing field.
	ErrValidation = errors.New("validation failed")

	// ErrMismatch indicates the verified identity disagrees with the submitted fields.
	ErrMismatch = errors.New("identity mismatch")

	// ErrAuth covers invalid or expired credentials.
	ErrAuth = errors.New("unauthorized")

	// ErrNotFound indicates a missing user, sim or plan.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates the write would violate a uniqueness rule.
	ErrConflict = errors.New("conflict")
)

// Status maps an error to the HTTP status it should be rendered with.
func Status(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation), errors.Is(err, ErrMismatch):
		return http.StatusBadRequest
	case errors.Is(err, ErrAuth):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

var kinds = []error{ErrValidation, ErrMismatch, ErrAuth, ErrNotFound, ErrConflict}

// Message returns the client-facing message for err. Unclassified errors get
// a generic message so that datastore details never leak. A leading kind
// prefix such as "validation failed: " is dropped.
func Message(err error) string {
	if Status(err) == http.StatusInternalServerError {
		return "internal server error"
	}
	msg := err.Error()
	for _, kind := range kinds {
		if rest, ok := strings.CutPrefix(msg, kind.Error()+": "); ok && rest != "" {
			return rest
		}
	}
	return msg
}
