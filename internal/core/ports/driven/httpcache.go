package driven

import (
	"context"
	"net/http"
	"time"
)

// ETagStore maps a request URL to the last ETag the server returned for it.
// Entries are overwritten, never deleted.
type ETagStore interface {
	// Get returns the stored ETag for key.
	Get(ctx context.Context, key string) (etag string, ok bool, err error)

	// Put stores etag for key, replacing any previous value.
	Put(ctx context.Context, key, etag string) error
}

// StoredResponse is a cached HTTP response.
type StoredResponse struct {
	Key        string
	StatusCode int
	Header     http.Header
	Body       []byte
	StoredAt   time.Time
	MaxAge     time.Duration
}

// Fresh reports whether the response can be served without revalidation.
func (r *StoredResponse) Fresh(now time.Time) bool {
	return r.MaxAge > 0 && now.Before(r.StoredAt.Add(r.MaxAge))
}

// ResponseStore keeps response bodies so a 304 can be answered locally.
type ResponseStore interface {
	// Get returns the stored response for key.
	Get(ctx context.Context, key string) (*StoredResponse, bool, error)

	// Put stores resp under resp.Key, replacing any previous value.
	Put(ctx context.Context, resp *StoredResponse) error

	// Touch resets the freshness clock of key after a successful revalidation.
	Touch(ctx context.Context, key string, storedAt time.Time) error
}
