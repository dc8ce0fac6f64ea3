// Package domtest provides a deterministic harness for widget behavior
// tests.
//
// Usage:
//
//	h := domtest.NewTester(t)
//	host := h.Load(`<div data-widget="enhance-counter">...</div>`)
//	// mount, synthesize events
//	domtest.Click(h.Query("#toggle"))
//	h.Pump()                       // run pending animation frames
//	h.Advance(300 * time.Millisecond) // fire due timers
//
// The harness replaces the two time sources behaviors depend on with
// controllable fakes: ManualFrames queues animation-frame callbacks until
// Pump, and FakeClock fires timers only when Advance crosses their deadline.
// Every frame-throttled or debounced path is therefore exact in tests.
package domtest
