package domain

// Page is one page of results returned by a fetch.
type Page[T any] struct {
	Items []T

	// FromCache is true when the response was served from the local HTTP
	// cache rather than a fresh network round trip.
	FromCache bool
}

// PageStatus is the coarse state of an incremental list.
type PageStatus string

// Page statuses.
const (
	PageIdle    PageStatus = "idle"
	PageLoading PageStatus = "loading"
	PageSuccess PageStatus = "success"
	PageError   PageStatus = "error"
	PageEmpty   PageStatus = "empty"
)

// PageState is the observable state of an incrementally loaded list.
//
// Items only grows by appending; a reset is the only operation that
// truncates it.
type PageState[T any] struct {
	Items      []T
	Page       int
	PageSize   int
	EndReached bool
	Loading    bool
	Err        error
	FromCache  bool

	started bool
}

// NewPageState returns the idle state for a list with the given page size.
func NewPageState[T any](pageSize int) PageState[T] {
	return PageState[T]{Page: 1, PageSize: pageSize}
}

// Started reports whether a first fetch has been issued.
func (s PageState[T]) Started() bool {
	return s.started
}

// Start marks the state as having issued its first fetch.
func (s PageState[T]) Start() PageState[T] {
	s.started = true
	return s
}

// Status derives the coarse status. Empty is a success on the first page
// with no items.
func (s PageState[T]) Status() PageStatus {
	switch {
	case !s.started:
		return PageIdle
	case s.Loading:
		return PageLoading
	case s.Err != nil:
		return PageError
	case len(s.Items) == 0:
		return PageEmpty
	default:
		return PageSuccess
	}
}

// ErrorMessage returns the user-facing error text, or "".
func (s PageState[T]) ErrorMessage() string {
	return UserMessage(s.Err)
}
