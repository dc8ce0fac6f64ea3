// Package schedule provides the cooperative scheduling primitives the
// runtime's suspension points are built on: animation-frame callbacks,
// wall-clock timers, and debouncing.
//
// Production embeddings supply a [Frames] implementation bridged to the host
// environment's frame callback and a [Clock]; tests use the deterministic
// fakes in pkg/domtest.
package schedule

import "time"

// Frames schedules callbacks for the next animation frame.
type Frames interface {
	// Request schedules fn to run on the next frame and returns a cancel
	// function. Cancel is a no-op once the frame has run.
	Request(fn func()) (cancel func())
}

// Clock abstracts wall-clock time and timers so delayed interactions
// (tooltip open delay, input debouncing) are testable.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
	// AfterFunc schedules fn to run after d and returns a stop function.
	// Stop is a no-op once fn has run.
	AfterFunc(d time.Duration, fn func()) (stop func())
}

// SystemClock is the production Clock backed by the time package.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time {
	return time.Now()
}

// AfterFunc wraps time.AfterFunc.
func (SystemClock) AfterFunc(d time.Duration, fn func()) (stop func()) {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}

// SyncFrames is a degenerate Frames that runs callbacks immediately. It is
// the fallback for embeddings without a frame scheduler; coalescing
// guarantees degrade to "runs every time" under it.
type SyncFrames struct{}

// Request runs fn synchronously and returns a no-op cancel.
func (SyncFrames) Request(fn func()) (cancel func()) {
	fn()
	return func() {}
}

// FrameThrottle coalesces repeated scheduling requests into at most one
// callback per animation frame. The callback captured by the most recent
// Schedule call wins.
type FrameThrottle struct {
	frames  Frames
	pending bool
	cancel  func()
	fn      func()
}

// NewFrameThrottle creates a throttle driving callbacks through frames.
func NewFrameThrottle(frames Frames) *FrameThrottle {
	return &FrameThrottle{frames: frames}
}

// Schedule requests that fn run on the next frame. Calls made before the
// frame fires replace the callback without scheduling another frame.
func (t *FrameThrottle) Schedule(fn func()) {
	t.fn = fn
	if t.pending {
		return
	}
	t.pending = true
	t.cancel = t.frames.Request(func() {
		t.pending = false
		if t.fn != nil {
			fn := t.fn
			t.fn = nil
			fn()
		}
	})
}

// Cancel drops any pending callback.
func (t *FrameThrottle) Cancel() {
	t.fn = nil
	if t.pending && t.cancel != nil {
		t.cancel()
	}
	t.pending = false
}

// Debouncer delays a callback until input has been quiet for the configured
// duration. Each Trigger restarts the delay.
type Debouncer struct {
	clock Clock
	delay time.Duration
	stop  func()
}

// NewDebouncer creates a debouncer with the given quiet period. A zero delay
// fires synchronously on Trigger.
func NewDebouncer(clock Clock, delay time.Duration) *Debouncer {
	return &Debouncer{clock: clock, delay: delay}
}

// Trigger schedules fn after the quiet period, cancelling any previously
// scheduled callback.
func (d *Debouncer) Trigger(fn func()) {
	d.Cancel()
	if d.delay <= 0 {
		fn()
		return
	}
	d.stop = d.clock.AfterFunc(d.delay, func() {
		d.stop = nil
		fn()
	})
}

// Cancel drops any pending callback.
func (d *Debouncer) Cancel() {
	if d.stop != nil {
		d.stop()
		d.stop = nil
	}
}
