package services

import (
	"strings"
	"sync"
	"time"
)

// DebouncedQuery turns raw search-box input into search requests.
//
// Input is trimmed and empty values are dropped. A value is accepted only
// after no newer input arrived for the debounce window, and only if it
// differs from the previously accepted value. Newer input cancels the
// pending value entirely.
type DebouncedQuery struct {
	window time.Duration
	sink   func(string)

	mu       sync.Mutex
	timer    *time.Timer
	seq      uint64
	last     string
	accepted bool
	closed   bool
}

// NewDebouncedQuery creates a debouncer that calls sink with each accepted
// value. sink runs on a timer goroutine.
func NewDebouncedQuery(window time.Duration, sink func(string)) *DebouncedQuery {
	return &DebouncedQuery{window: window, sink: sink}
}

// Push submits the current input text.
func (d *DebouncedQuery) Push(text string) {
	value := strings.TrimSpace(text)
	if value == "" {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.seq++
	seq := d.seq
	d.timer = time.AfterFunc(d.window, func() { d.fire(seq, value) })
}

func (d *DebouncedQuery) fire(seq uint64, value string) {
	d.mu.Lock()
	if d.closed || seq != d.seq {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	if d.accepted && value == d.last {
		d.mu.Unlock()
		return
	}
	d.last = value
	d.accepted = true
	d.mu.Unlock()

	d.sink(value)
}

// Flush accepts the pending value immediately, if any.
func (d *DebouncedQuery) Flush() {
	d.mu.Lock()
	if d.timer == nil || !d.timer.Stop() {
		d.mu.Unlock()
		return
	}
	d.timer.Reset(0)
	d.mu.Unlock()
}

// Close cancels any pending value. Later input is ignored.
func (d *DebouncedQuery) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.closed = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
