package domtest

// frameEntry is one queued callback. Cancellation nils the func on the
// entry itself so a cancel kept past its frame can never touch a callback
// queued later.
type frameEntry struct {
	fn func()
}

// ManualFrames queues animation-frame callbacks until Pump is called. It
// implements schedule.Frames.
type ManualFrames struct {
	queued []*frameEntry
}

// NewManualFrames returns an empty frame queue.
func NewManualFrames() *ManualFrames {
	return &ManualFrames{}
}

// Request queues fn for the next Pump. The returned cancel is bound to this
// request only; calling it after the frame has run is a no-op.
func (f *ManualFrames) Request(fn func()) (cancel func()) {
	e := &frameEntry{fn: fn}
	f.queued = append(f.queued, e)
	return func() { e.fn = nil }
}

// Pending returns the number of queued callbacks.
func (f *ManualFrames) Pending() int {
	n := 0
	for _, e := range f.queued {
		if e.fn != nil {
			n++
		}
	}
	return n
}

// Pump runs one frame: every callback queued before the call executes, and
// callbacks they queue wait for the next Pump.
func (f *ManualFrames) Pump() {
	queued := f.queued
	f.queued = nil
	for _, e := range queued {
		if e.fn != nil {
			e.fn()
		}
	}
}

// Settle pumps frames until the queue is empty, up to a fixed bound to catch
// behaviors that reschedule themselves forever.
func (f *ManualFrames) Settle() bool {
	for i := 0; i < 64; i++ {
		if f.Pending() == 0 {
			return true
		}
		f.Pump()
	}
	return false
}
