// Package pipeline contains the client-side classification pipeline: the
// sample buffer and window extractor, the majority-vote smoothing filter,
// the per-second session aggregator, and the single-threaded driver that
// owns them. Time is always injectable via time.Time parameters; the
// package performs no I/O of its own.
package pipeline

import (
	"time"

	"github.com/konkalaitzidis/digital-health-app/internal/activity"
)

// Extractor buffers raw samples in arrival order and slices fixed-size,
// fixed-overlap windows out of them, enforcing a minimum interval between
// dispatches. It never fails; it only decides to dispatch or wait.
type Extractor struct {
	win      int
	step     int
	throttle time.Duration

	buf          []activity.Sample
	lastDispatch time.Time
	dispatched   bool
	graceUntil   time.Time
}

// NewExtractor creates an extractor for windows of win samples advancing by
// step samples, with at least throttle between dispatches.
func NewExtractor(win, step int, throttle time.Duration) *Extractor {
	return &Extractor{win: win, step: step, throttle: throttle}
}

// Append adds one sample. Appending is unconditional: samples keep
// accumulating while dispatches are skipped, and load is shed by skipping
// windows entirely rather than queueing them.
func (e *Extractor) Append(s activity.Sample) {
	e.buf = append(e.buf, s)
}

// Len returns the number of buffered samples.
func (e *Extractor) Len() int {
	return len(e.buf)
}

// StartGrace blocks all dispatches until now+d, regardless of buffer length.
func (e *Extractor) StartGrace(now time.Time, d time.Duration) {
	e.graceUntil = now.Add(d)
}

// InGrace reports whether dispatches are currently blocked by a grace period.
func (e *Extractor) InGrace(now time.Time) bool {
	return now.Before(e.graceUntil)
}

// Clear discards all buffered samples.
func (e *Extractor) Clear() {
	e.buf = e.buf[:0]
}

// TryDispatch returns the most recent win samples if a window is eligible:
// no active grace period, buffer length ≥ win, and at least the throttle
// interval elapsed since the previous dispatch. On dispatch the buffer is
// truncated to its most recent win−step samples, which are exactly the tail
// of the returned window.
//
// The in-flight request check belongs to the caller; the extractor does not
// know about the transport.
func (e *Extractor) TryDispatch(now time.Time) ([]activity.Sample, bool) {
	if now.Before(e.graceUntil) {
		return nil, false
	}
	if len(e.buf) < e.win {
		return nil, false
	}
	if e.dispatched && now.Sub(e.lastDispatch) < e.throttle {
		return nil, false
	}

	window := make([]activity.Sample, e.win)
	copy(window, e.buf[len(e.buf)-e.win:])

	retain := e.win - e.step
	tail := make([]activity.Sample, retain)
	copy(tail, e.buf[len(e.buf)-retain:])
	e.buf = tail

	e.lastDispatch = now
	e.dispatched = true
	return window, true
}
