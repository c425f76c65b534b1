package domain

import (
	"fmt"
	"time"
)

// DefaultAPIBaseURL is the public GitHub REST endpoint.
const DefaultAPIBaseURL = "https://api.github.com/"

// Settings holds the application tunables.
type Settings struct {
	// APIBaseURL is the GitHub REST API root. It must end with a slash.
	APIBaseURL string

	// PageSize is the per_page value of every paginated request.
	PageSize int

	// PrefetchThreshold is how many rows from the end of a list trigger the
	// next page load.
	PrefetchThreshold int

	// PrefetchRatio is the fraction of a list that must be scrolled past
	// before the next page loads. The larger of the threshold and ratio
	// boundaries applies.
	PrefetchRatio float64

	// Debounce is the quiet period before a typed query is searched.
	Debounce time.Duration

	// CacheMaxAge is the freshness lifetime of cached search responses.
	CacheMaxAge time.Duration

	// RequestsPerSecond throttles outgoing API calls.
	RequestsPerSecond float64

	// OAuth application credentials.
	ClientID     string
	ClientSecret string
}

// DefaultSettings returns the built-in defaults.
func DefaultSettings() Settings {
	return Settings{
		APIBaseURL:        DefaultAPIBaseURL,
		PageSize:          30,
		PrefetchThreshold: 5,
		PrefetchRatio:     0.8,
		Debounce:          300 * time.Millisecond,
		CacheMaxAge:       60 * time.Second,
		RequestsPerSecond: 10,
	}
}

// Validate checks that the settings are usable.
func (s Settings) Validate() error {
	if s.PageSize < 1 || s.PageSize > 100 {
		return &ValidationError{Field: "page_size", Message: fmt.Sprintf("must be between 1 and 100, got %d", s.PageSize)}
	}
	if s.PrefetchThreshold < 0 {
		return &ValidationError{Field: "prefetch_threshold", Message: "must not be negative"}
	}
	if s.PrefetchRatio <= 0 || s.PrefetchRatio > 1 {
		return &ValidationError{Field: "prefetch_ratio", Message: "must be in (0, 1]"}
	}
	if s.Debounce < 0 {
		return &ValidationError{Field: "debounce", Message: "must not be negative"}
	}
	if s.CacheMaxAge < 0 {
		return &ValidationError{Field: "cache_max_age", Message: "must not be negative"}
	}
	if s.RequestsPerSecond <= 0 {
		return &ValidationError{Field: "requests_per_second", Message: "must be positive"}
	}
	if s.APIBaseURL == "" {
		return &ValidationError{Field: "api_url", Message: "must not be empty"}
	}
	return nil
}
