// Package progress carries render progress from workers to whatever is
// displaying it (CLI spinner, TUI, nothing).
package progress

import (
	"sync/atomic"
)

// ProgressUpdate is a progress report for one render of a run.
type ProgressUpdate struct {
	// RenderIndex identifies the render (strategy) sending the update.
	RenderIndex int
	// Value is the completed fraction, 0.0 to 1.0.
	Value float64
}

// ProgressCallback receives the completed fraction of a render.
type ProgressCallback func(progress float64)

// Noop is a ProgressCallback that discards updates.
func Noop(float64) {}

// ChannelCallback returns a callback that forwards updates to ch tagged with
// index. Intermediate updates are dropped when ch is full so workers never
// block on a slow display; the final 1.0 update is always delivered.
func ChannelCallback(ch chan<- ProgressUpdate, index int) ProgressCallback {
	if ch == nil {
		return Noop
	}
	return func(v float64) {
		update := ProgressUpdate{RenderIndex: index, Value: v}
		if v >= 1.0 {
			ch <- update
			return
		}
		select {
		case ch <- update:
		default:
		}
	}
}

// DefaultStep is the minimum progress increase between two reports.
const DefaultStep = 0.01

// ColumnTracker counts finished columns across workers and reports progress
// whenever it advances by at least one step.
type ColumnTracker struct {
	total    int64
	step     int64
	done     atomic.Int64
	reported atomic.Int64
	cb       ProgressCallback
}

// NewColumnTracker creates a tracker for total columns.
func NewColumnTracker(total int, cb ProgressCallback) *ColumnTracker {
	if cb == nil {
		cb = Noop
	}
	step := int64(float64(total) * DefaultStep)
	if step < 1 {
		step = 1
	}
	t := &ColumnTracker{total: int64(total), step: step, cb: cb}
	return t
}

// Advance records one finished column. It is safe for concurrent use.
func (t *ColumnTracker) Advance() {
	done := t.done.Add(1)
	if done == t.total {
		t.reported.Store(done)
		t.cb(1.0)
		return
	}
	last := t.reported.Load()
	if done-last >= t.step && t.reported.CompareAndSwap(last, done) {
		t.cb(float64(done) / float64(t.total))
	}
}

// Done returns the number of finished columns.
func (t *ColumnTracker) Done() int {
	return int(t.done.Load())
}
