package github

import (
	"context"
	"errors"
	"net/http"

	gh "github.com/google/go-github/v80/github"

	"github.com/custodia-labs/octoscope/internal/core/domain"
)

// mapError returns a domain.APIError for GitHub error responses, or nil when
// err should be wrapped as is.
func mapError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}

	// Errors from the request pipeline already carry a domain kind.
	for _, kind := range []error{domain.ErrTransport, domain.ErrRateLimited} {
		if errors.Is(err, kind) {
			return nil
		}
	}

	var rateLimitErr *gh.RateLimitError
	if errors.As(err, &rateLimitErr) {
		return newAPIError(domain.ErrRateLimited, rateLimitErr.Response, rateLimitErr.Message)
	}

	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return newAPIError(domain.ErrRateLimited, abuseErr.Response, abuseErr.Message)
	}

	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) {
		status := 0
		if ghErr.Response != nil {
			status = ghErr.Response.StatusCode
		}
		return newAPIError(domain.KindForStatus(status), ghErr.Response, ghErr.Message)
	}

	return &domain.APIError{Kind: domain.ErrServer, Message: err.Error()}
}

func newAPIError(kind error, resp *http.Response, message string) *domain.APIError {
	apiErr := &domain.APIError{Kind: kind, Message: message}
	if resp != nil {
		apiErr.StatusCode = resp.StatusCode
		if resp.Request != nil && resp.Request.URL != nil {
			apiErr.URL = resp.Request.URL.Redacted()
		}
	}
	if apiErr.Message == "" && apiErr.StatusCode != 0 {
		apiErr.Message = http.StatusText(apiErr.StatusCode)
	}
	return apiErr
}
