package pipeline

import (
	"fmt"
	"time"

	"github.com/custodia-labs/octoscope/internal/core/domain"
)

// RateLimitError is returned by the transport stage while the GitHub quota
// is exhausted.
type RateLimitError struct {
	ResetAt   time.Time
	Remaining int
	Limit     int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("github: rate limit exceeded, resets at %s", e.ResetAt.Format(time.RFC3339))
}

// Unwrap returns domain.ErrRateLimited.
func (e *RateLimitError) Unwrap() error {
	return domain.ErrRateLimited
}

// TransportError is a network-level failure: DNS, connection, TLS or timeout.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

// Unwrap returns both domain.ErrTransport and the underlying error.
func (e *TransportError) Unwrap() []error {
	return []error{domain.ErrTransport, e.Err}
}
