package pipeline

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultRate is the proactive throttle in requests per second.
	DefaultRate = 10.0

	// HeaderRateLimit is the rate limit header.
	HeaderRateLimit = "X-RateLimit-Limit"

	// HeaderRateRemaining is the remaining requests header.
	HeaderRateRemaining = "X-RateLimit-Remaining"

	// HeaderRateReset is the reset timestamp header (Unix seconds).
	HeaderRateReset = "X-RateLimit-Reset"

	// HeaderRetryAfter is the retry-after header (seconds).
	HeaderRetryAfter = "Retry-After"
)

// RateLimiter throttles outgoing requests with a token bucket and tracks
// the quota GitHub reports. Once the quota is exhausted, requests fail with
// a RateLimitError until the reset time instead of being sent.
type RateLimiter struct {
	mu        sync.Mutex
	remaining int       // From API header, -1 until known
	limit     int       // From API header
	resetTime time.Time // From API header
	bucket    *rate.Limiter
	now       func() time.Time
}

// NewRateLimiter creates a limiter allowing perSecond requests per second
// with a burst of the same size.
func NewRateLimiter(perSecond float64) *RateLimiter {
	burst := int(perSecond)
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		remaining: -1,
		bucket:    rate.NewLimiter(rate.Limit(perSecond), burst),
		now:       time.Now,
	}
}

// Wait blocks until the token bucket allows a request. It returns a
// RateLimitError without waiting when the reported quota is exhausted.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	remaining, limit, resetTime := r.remaining, r.limit, r.resetTime
	r.mu.Unlock()

	if remaining == 0 && r.now().Before(resetTime) {
		return &RateLimitError{ResetAt: resetTime, Remaining: remaining, Limit: limit}
	}
	return r.bucket.Wait(ctx)
}

// UpdateFromResponse updates the quota from response headers. A 429 or a
// quota-exhausted 403 with Retry-After moves the reset time forward.
func (r *RateLimiter) UpdateFromResponse(resp *http.Response) {
	if resp == nil || resp.Header.Get(HeaderFromCache) != "" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if remaining := resp.Header.Get(HeaderRateRemaining); remaining != "" {
		if val, err := strconv.Atoi(remaining); err == nil {
			r.remaining = val
		}
	}
	if limit := resp.Header.Get(HeaderRateLimit); limit != "" {
		if val, err := strconv.Atoi(limit); err == nil {
			r.limit = val
		}
	}
	if reset := resp.Header.Get(HeaderRateReset); reset != "" {
		if val, err := strconv.ParseInt(reset, 10, 64); err == nil {
			r.resetTime = time.Unix(val, 0)
		}
	}

	limited := resp.StatusCode == http.StatusTooManyRequests ||
		(resp.StatusCode == http.StatusForbidden && r.remaining == 0)
	if !limited {
		return
	}
	if retryAfter := resp.Header.Get(HeaderRetryAfter); retryAfter != "" {
		if seconds, err := strconv.Atoi(retryAfter); err == nil {
			r.remaining = 0
			r.resetTime = r.now().Add(time.Duration(seconds) * time.Second)
		}
	}
}

// Remaining returns the last reported remaining requests, or -1.
func (r *RateLimiter) Remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.remaining
}

// Limit returns the last reported rate limit.
func (r *RateLimiter) Limit() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.limit
}

// ResetTime returns the rate limit reset time.
func (r *RateLimiter) ResetTime() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resetTime
}
