package schedule

import (
	"testing"
	"time"
)

// manualFrames queues callbacks until pumped.
type manualFrames struct {
	queued []func()
}

func (m *manualFrames) Request(fn func()) (cancel func()) {
	m.queued = append(m.queued, fn)
	i := len(m.queued) - 1
	return func() {
		if i < len(m.queued) {
			m.queued[i] = nil
		}
	}
}

func (m *manualFrames) pump() {
	queued := m.queued
	m.queued = nil
	for _, fn := range queued {
		if fn != nil {
			fn()
		}
	}
}

// manualClock fires AfterFunc callbacks when advanced past their deadline.
type manualClock struct {
	now    time.Time
	timers []*manualTimer
}

type manualTimer struct {
	at      time.Time
	fn      func()
	stopped bool
}

func (c *manualClock) Now() time.Time { return c.now }

func (c *manualClock) AfterFunc(d time.Duration, fn func()) (stop func()) {
	t := &manualTimer{at: c.now.Add(d), fn: fn}
	c.timers = append(c.timers, t)
	return func() { t.stopped = true }
}

func (c *manualClock) advance(d time.Duration) {
	c.now = c.now.Add(d)
	for _, t := range c.timers {
		if !t.stopped && !t.at.After(c.now) {
			t.stopped = true
			t.fn()
		}
	}
}

func TestFrameThrottleCoalesces(t *testing.T) {
	frames := &manualFrames{}
	throttle := NewFrameThrottle(frames)

	runs := 0
	for i := 0; i < 5; i++ {
		throttle.Schedule(func() { runs++ })
	}
	if len(frames.queued) != 1 {
		t.Fatalf("expected 1 queued frame, got %d", len(frames.queued))
	}
	frames.pump()
	if runs != 1 {
		t.Errorf("callback ran %d times, want 1", runs)
	}

	throttle.Schedule(func() { runs++ })
	frames.pump()
	if runs != 2 {
		t.Errorf("throttle should accept work again after a frame, runs = %d", runs)
	}
}

func TestFrameThrottleLatestCallbackWins(t *testing.T) {
	frames := &manualFrames{}
	throttle := NewFrameThrottle(frames)

	var got string
	throttle.Schedule(func() { got = "first" })
	throttle.Schedule(func() { got = "second" })
	frames.pump()
	if got != "second" {
		t.Errorf("got %q, want the most recent callback", got)
	}
}

func TestFrameThrottleCancel(t *testing.T) {
	frames := &manualFrames{}
	throttle := NewFrameThrottle(frames)

	ran := false
	throttle.Schedule(func() { ran = true })
	throttle.Cancel()
	frames.pump()
	if ran {
		t.Error("cancelled callback must not run")
	}
}

func TestDebouncerRestartsDelay(t *testing.T) {
	clock := &manualClock{now: time.Unix(0, 0)}
	d := NewDebouncer(clock, 100*time.Millisecond)

	runs := 0
	d.Trigger(func() { runs++ })
	clock.advance(50 * time.Millisecond)
	d.Trigger(func() { runs++ })
	clock.advance(50 * time.Millisecond)
	if runs != 0 {
		t.Fatal("debounced callback fired before the quiet period elapsed")
	}
	clock.advance(50 * time.Millisecond)
	if runs != 1 {
		t.Errorf("callback ran %d times, want 1", runs)
	}
}

func TestDebouncerZeroDelayIsSynchronous(t *testing.T) {
	clock := &manualClock{now: time.Unix(0, 0)}
	d := NewDebouncer(clock, 0)

	ran := false
	d.Trigger(func() { ran = true })
	if !ran {
		t.Error("zero-delay debouncer should fire synchronously")
	}
}

func TestDebouncerCancel(t *testing.T) {
	clock := &manualClock{now: time.Unix(0, 0)}
	d := NewDebouncer(clock, 10*time.Millisecond)

	ran := false
	d.Trigger(func() { ran = true })
	d.Cancel()
	clock.advance(time.Second)
	if ran {
		t.Error("cancelled debounce must not fire")
	}
}

func TestSyncFramesRunsImmediately(t *testing.T) {
	ran := false
	SyncFrames{}.Request(func() { ran = true })
	if !ran {
		t.Error("SyncFrames should run the callback synchronously")
	}
}
