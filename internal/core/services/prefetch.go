package services

import "sync"

// PrefetchTrigger decides when a list scrolled near its end should load the
// next page. It fires once the last visible row index reaches
// max(total-threshold, total*ratio), and at most once per list length.
type PrefetchTrigger struct {
	threshold int
	ratio     float64

	mu        sync.Mutex
	lastTotal int
}

// NewPrefetchTrigger creates a trigger. A ratio outside (0, 1] disables the
// ratio rule.
func NewPrefetchTrigger(threshold int, ratio float64) *PrefetchTrigger {
	return &PrefetchTrigger{threshold: threshold, ratio: ratio, lastTotal: -1}
}

// Check reports whether the next page should be requested given the index of
// the last visible row and the number of loaded rows.
func (t *PrefetchTrigger) Check(lastVisible, total int) bool {
	if total <= 0 || lastVisible < 0 {
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if total == t.lastTotal {
		return false
	}
	if lastVisible < t.boundary(total) {
		return false
	}
	t.lastTotal = total
	return true
}

// Reset forgets the last fired length. Call it when the list is replaced.
func (t *PrefetchTrigger) Reset() {
	t.mu.Lock()
	t.lastTotal = -1
	t.mu.Unlock()
}

// boundary is the smallest lastVisible index that fires for total rows.
func (t *PrefetchTrigger) boundary(total int) int {
	b := total - t.threshold
	if t.ratio > 0 && t.ratio <= 1 {
		if r := int(float64(total) * t.ratio); r > b {
			b = r
		}
	}
	return b
}
