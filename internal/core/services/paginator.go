package services

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/custodia-labs/octoscope/internal/core/domain"
)

// FetchFunc fetches one page of items for criteria. Pages are 1-based.
type FetchFunc[T, C any] func(ctx context.Context, criteria C, page, pageSize int) (domain.Page[T], error)

// PaginatorConfig configures a Paginator.
type PaginatorConfig struct {
	PageSize          int
	PrefetchThreshold int
	PrefetchRatio     float64
	Logger            *slog.Logger
}

// PaginatorConfigFrom builds a PaginatorConfig from settings.
func PaginatorConfigFrom(s domain.Settings, logger *slog.Logger) PaginatorConfig {
	return PaginatorConfig{
		PageSize:          s.PageSize,
		PrefetchThreshold: s.PrefetchThreshold,
		PrefetchRatio:     s.PrefetchRatio,
		Logger:            logger,
	}
}

// Paginator is the incremental-loading state machine behind every list.
//
// At most one fetch is outstanding at a time: LoadNext is a no-op while a
// fetch is loading or after the end was reached. Items only grow by
// appending until the next Reset. Responses that arrive after a Reset or
// Close are dropped.
type Paginator[T, C any] struct {
	fetch   FetchFunc[T, C]
	cfg     PaginatorConfig
	logger  *slog.Logger
	trigger *PrefetchTrigger

	mu       sync.Mutex
	state    domain.PageState[T]
	criteria C
	gen      uint64
	failed   bool
	closed   bool
	cancel   context.CancelFunc
	inflight int        // fetches started and not yet applied
	idle     *sync.Cond // signalled on p.mu when inflight drops

	subs   map[int]chan domain.PageState[T]
	nextID int
}

// NewPaginator creates an idle paginator.
func NewPaginator[T, C any](fetch FetchFunc[T, C], cfg PaginatorConfig) *Paginator[T, C] {
	if cfg.PageSize <= 0 {
		cfg.PageSize = domain.DefaultSettings().PageSize
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	p := &Paginator[T, C]{
		fetch:   fetch,
		cfg:     cfg,
		logger:  logger,
		trigger: NewPrefetchTrigger(cfg.PrefetchThreshold, cfg.PrefetchRatio),
		state:   domain.NewPageState[T](cfg.PageSize),
		subs:    make(map[int]chan domain.PageState[T]),
	}
	p.idle = sync.NewCond(&p.mu)
	return p
}

// State returns the current state.
func (p *Paginator[T, C]) State() domain.PageState[T] {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Criteria returns the criteria of the last Reset.
func (p *Paginator[T, C]) Criteria() C {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.criteria
}

// Reset replaces the list with the first page for criteria. Items are
// cleared and Page set to 1 before Reset returns; the fetch runs in the
// background. Any fetch still in flight is cancelled and its result dropped.
func (p *Paginator[T, C]) Reset(criteria C) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}

	p.gen++
	if p.cancel != nil {
		p.cancel()
	}
	p.trigger.Reset()
	p.criteria = criteria
	p.failed = false

	st := domain.NewPageState[T](p.cfg.PageSize).Start()
	st.Loading = true
	p.state = st
	p.publish()

	p.logger.Debug("paginator reset", slog.Any("criteria", criteria))
	p.start(1)
}

// LoadNext requests the next page. It reports whether a fetch was issued.
// After a failed fetch the failed page is requested again instead of the
// one after it.
func (p *Paginator[T, C]) LoadNext() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loadNext()
}

func (p *Paginator[T, C]) loadNext() bool {
	if p.closed || !p.state.Started() || p.state.Loading || p.state.EndReached {
		return false
	}

	page := p.state.Page
	if !p.failed {
		page++
	}
	p.state.Page = page
	p.state.Loading = true
	p.state.Err = nil
	p.publish()

	p.start(page)
	return true
}

// Retry re-requests the current page after an error. It reports whether a
// fetch was issued.
func (p *Paginator[T, C]) Retry() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.failed {
		return false
	}
	return p.loadNext()
}

// Scrolled tells the paginator which row is the last visible one. It loads
// the next page once per list length when the row crosses the prefetch
// boundary. It reports whether a fetch was issued.
func (p *Paginator[T, C]) Scrolled(lastVisible int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed || !p.state.Started() || p.state.Loading || p.state.EndReached || p.failed {
		return false
	}
	if !p.trigger.Check(lastVisible, len(p.state.Items)) {
		return false
	}
	return p.loadNext()
}

// Wait blocks until no fetch is in flight. It may be called from any number
// of goroutines, concurrently with Reset and LoadNext.
func (p *Paginator[T, C]) Wait() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for p.inflight > 0 {
		p.idle.Wait()
	}
}

// Close cancels any in-flight fetch, drops its result and closes all
// subscription channels. The paginator cannot be reused.
func (p *Paginator[T, C]) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true
	p.gen++
	if p.cancel != nil {
		p.cancel()
	}
	for id, ch := range p.subs {
		close(ch)
		delete(p.subs, id)
	}
}

// Subscribe returns a channel that receives the current state and every
// later change. The channel holds only the latest state. Call cancel to
// unsubscribe.
func (p *Paginator[T, C]) Subscribe() (<-chan domain.PageState[T], func()) {
	p.mu.Lock()
	defer p.mu.Unlock()

	ch := make(chan domain.PageState[T], 1)
	if p.closed {
		close(ch)
		return ch, func() {}
	}

	id := p.nextID
	p.nextID++
	p.subs[id] = ch
	publish(ch, p.state)

	return ch, func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if ch, ok := p.subs[id]; ok {
			close(ch)
			delete(p.subs, id)
		}
	}
}

// start issues the fetch for page; caller holds p.mu.
func (p *Paginator[T, C]) start(page int) {
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	gen := p.gen
	criteria := p.criteria
	pageSize := p.cfg.PageSize

	p.inflight++
	go func() {
		defer cancel()

		result, err := p.fetch(ctx, criteria, page, pageSize)
		p.apply(gen, page, result, err)
	}()
}

func (p *Paginator[T, C]) apply(gen uint64, page int, result domain.Page[T], err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	defer func() {
		p.inflight--
		p.idle.Broadcast()
	}()

	if gen != p.gen {
		p.logger.Debug("dropping stale page", slog.Int("page", page))
		return
	}

	p.state.Loading = false
	if err != nil {
		p.failed = true
		p.state.Err = err
		p.logger.Debug("page fetch failed", slog.Int("page", page), slog.Any("error", err))
		p.publish()
		return
	}

	p.failed = false
	p.state.Err = nil
	p.state.FromCache = result.FromCache

	if len(result.Items) == 0 {
		p.state.EndReached = true
		if page > 1 {
			p.state.Page = page - 1
		}
		p.logger.Debug("end of list reached", slog.Int("page", page), slog.Int("items", len(p.state.Items)))
		p.publish()
		return
	}

	p.state.Items = slices.Concat(p.state.Items, result.Items)
	p.state.Page = page
	p.publish()
}

// publish sends the state to subscribers; caller holds p.mu.
func (p *Paginator[T, C]) publish() {
	for _, ch := range p.subs {
		publish(ch, p.state)
	}
}
