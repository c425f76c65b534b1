package domain

import (
	"errors"
	"fmt"
)

// Error kinds shared by all adapters. Driven adapters wrap their failures so
// that errors.Is against one of these sentinels always succeeds.
var (
	// ErrTransport indicates a network-level failure (DNS, connection, timeout).
	ErrTransport = errors.New("transport error")

	// ErrAuth indicates the server rejected the credentials (401/403) or that
	// the operation requires a login.
	ErrAuth = errors.New("authentication error")

	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates client-side input was rejected before any request.
	ErrValidation = errors.New("validation error")

	// ErrServer indicates an unexpected HTTP status from the API.
	ErrServer = errors.New("server error")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)

// APIError describes a failed GitHub API call.
type APIError struct {
	Kind       error
	StatusCode int
	Message    string
	URL        string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%v: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("github API error %d: %s", e.StatusCode, e.Message)
}

// Unwrap returns the error kind so errors.Is works against the sentinels.
func (e *APIError) Unwrap() error {
	return e.Kind
}

// KindForStatus maps an HTTP status code onto an error kind.
func KindForStatus(status int) error {
	switch {
	case status == 401 || status == 403:
		return ErrAuth
	case status == 404:
		return ErrNotFound
	case status == 422:
		return ErrValidation
	case status == 429:
		return ErrRateLimited
	default:
		return ErrServer
	}
}

// ValidationError reports an invalid field value.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Unwrap returns ErrValidation.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// UserMessage renders err as text suitable for a status line.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		return verr.Error()
	case errors.Is(err, ErrAuth):
		return "authentication failed, please log in again"
	case errors.Is(err, ErrRateLimited):
		return "GitHub rate limit exceeded, try again later"
	case errors.Is(err, ErrNotFound):
		return "not found"
	case errors.Is(err, ErrTransport):
		return "network error, check your connection"
	default:
		return err.Error()
	}
}
