package interaction

import (
	"sync/atomic"
	"time"
)

// Debouncer filters the edges of one mechanical button: an edge is accepted
// only when at least the quiet window has passed since the previously
// accepted edge. Rejected edges are dropped, not queued.
//
// Accept is lock free and may be called from interrupt context. Concurrent
// calls accept at most one edge per window.
type Debouncer struct {
	window time.Duration
	epoch  time.Time
	last   atomic.Int64 // nanoseconds since epoch of the last accepted edge
}

// NewDebouncer returns a debouncer that treats now as the last accepted
// edge, so edges during the first window (while the input settles after
// power-on) are ignored.
func NewDebouncer(window time.Duration, now time.Time) *Debouncer {
	return &Debouncer{
		window: window,
		epoch:  now,
	}
}

// Accept reports whether an edge seen at the given (monotonic) time should
// be acted on, and if so records it as the last accepted edge.
func (d *Debouncer) Accept(now time.Time) bool {
	t := int64(now.Sub(d.epoch))
	for {
		last := d.last.Load()
		if t-last < int64(d.window) {
			return false
		}
		if d.last.CompareAndSwap(last, t) {
			return true
		}
	}
}
