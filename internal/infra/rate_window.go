package infra

import (
	"sync"
	"time"
)

const (
	// DefaultRateWindow caps broker-facing submissions to
	// DefaultRateCapacity per 5 minutes across all symbols.
	DefaultRateWindow   = 300 * time.Second
	DefaultRateCapacity = 5
)

// RateWindow is sliding-time-window admission control for order
// submissions. One instance is shared across all symbols: it exists to cap
// the overall burst rate of a single automation instance against the
// broker, not per-instrument flow.
//
// The caller owns the instance and passes the clock in, which keeps
// admission decisions deterministic under test.
type RateWindow struct {
	mu       sync.Mutex
	window   time.Duration
	capacity int
	stamps   []time.Time // admitted submissions, oldest first
}

// NewRateWindow creates a rate window. Non-positive arguments fall back to
// the defaults.
func NewRateWindow(capacity int, window time.Duration) *RateWindow {
	if capacity <= 0 {
		capacity = DefaultRateCapacity
	}
	if window <= 0 {
		window = DefaultRateWindow
	}
	return &RateWindow{
		window:   window,
		capacity: capacity,
		stamps:   make([]time.Time, 0, capacity),
	}
}

// Admit prunes timestamps older than the window, then admits and records
// now unless the window is full. A rejection has no side effect, so the
// caller may probe again immediately.
func (w *RateWindow) Admit(now time.Time) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	cutoff := now.Add(-w.window)
	kept := w.stamps[:0]
	for _, ts := range w.stamps {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	w.stamps = kept

	if len(w.stamps) >= w.capacity {
		return false
	}
	w.stamps = append(w.stamps, now)
	return true
}

// Pending returns how many admissions are currently inside the window as
// of now. Prune happens on Admit only; this is a read-side count.
func (w *RateWindow) Pending(now time.Time) int {
	w.mu.Lock()
	defer w.mu.Unlock()

	cutoff := now.Add(-w.window)
	n := 0
	for _, ts := range w.stamps {
		if ts.After(cutoff) {
			n++
		}
	}
	return n
}
