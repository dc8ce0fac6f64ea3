package domtest

import (
	"sort"
	"time"
)

// FakeClock provides controllable time for deterministic delay and debounce
// tests. It implements schedule.Clock.
type FakeClock struct {
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	at      time.Time
	fn      func()
	stopped bool
}

// NewFakeClock returns a FakeClock starting at a fixed epoch.
func NewFakeClock() *FakeClock {
	return &FakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

// Now returns the current fake time.
func (c *FakeClock) Now() time.Time {
	return c.now
}

// AfterFunc schedules fn to fire when Advance crosses the deadline.
func (c *FakeClock) AfterFunc(d time.Duration, fn func()) (stop func()) {
	t := &fakeTimer{at: c.now.Add(d), fn: fn}
	c.timers = append(c.timers, t)
	return func() { t.stopped = true }
}

// Advance moves the clock forward by d, firing due timers in deadline order.
// A callback may schedule further timers; those fire too if they fall within
// the advanced window.
func (c *FakeClock) Advance(d time.Duration) {
	target := c.now.Add(d)
	for {
		next := c.nextDue(target)
		if next == nil {
			break
		}
		if next.at.After(c.now) {
			c.now = next.at
		}
		next.stopped = true
		next.fn()
	}
	c.now = target
}

// PendingTimers returns the number of scheduled, unfired timers.
func (c *FakeClock) PendingTimers() int {
	n := 0
	for _, t := range c.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}

// nextDue pops the earliest unstopped timer with a deadline at or before
// target, or nil.
func (c *FakeClock) nextDue(target time.Time) *fakeTimer {
	live := c.timers[:0]
	for _, t := range c.timers {
		if !t.stopped {
			live = append(live, t)
		}
	}
	c.timers = live
	sort.SliceStable(c.timers, func(i, j int) bool {
		return c.timers[i].at.Before(c.timers[j].at)
	})
	if len(c.timers) > 0 && !c.timers[0].at.After(target) {
		return c.timers[0]
	}
	return nil
}
