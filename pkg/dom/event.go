package dom

// Event phases, following the W3C dispatch model.
const (
	PhaseNone = iota
	PhaseCapture
	PhaseTarget
	PhaseBubble
)

// Event is a dispatched interaction event.
//
// An Event value must not be reused across dispatches and must only be used
// from the dispatching goroutine.
type Event struct {
	// Type is the event name, e.g. "click", "keydown", "input".
	Type string
	// Bubbles controls whether the bubble phase runs. Dispatchers of
	// pointer, keyboard and input events set this; focus events leave it
	// false.
	Bubbles bool

	// Key is the key value for keyboard events ("Tab", "Escape",
	// "ArrowDown", "Enter", single characters, ...).
	Key string
	// ShiftKey, AltKey and CtrlKey report modifier state for keyboard
	// events.
	ShiftKey bool
	AltKey   bool
	CtrlKey  bool

	// Value carries the control value for input events.
	Value string

	// RelatedTarget is the secondary target for focus and pointer-crossing
	// events.
	RelatedTarget *Element

	// Detail carries event-specific payload for custom events.
	Detail any

	target           *Element
	currentTarget    *Element
	phase            int
	defaultPrevented bool
	stopped          bool
	immediateStopped bool
}

// Target returns the element the event was dispatched on.
func (e *Event) Target() *Element {
	return e.target
}

// CurrentTarget returns the element whose listener is currently running.
func (e *Event) CurrentTarget() *Element {
	return e.currentTarget
}

// Phase returns the current dispatch phase.
func (e *Event) Phase() int {
	return e.phase
}

// PreventDefault marks the event's default action as cancelled.
func (e *Event) PreventDefault() {
	e.defaultPrevented = true
}

// DefaultPrevented reports whether PreventDefault was called.
func (e *Event) DefaultPrevented() bool {
	return e.defaultPrevented
}

// StopPropagation prevents the event from reaching further elements. The
// remaining listeners on the current element still run.
func (e *Event) StopPropagation() {
	e.stopped = true
}

// StopImmediatePropagation prevents any further listener from running.
func (e *Event) StopImmediatePropagation() {
	e.stopped = true
	e.immediateStopped = true
}

// Stopped reports whether propagation was stopped.
func (e *Event) Stopped() bool {
	return e.stopped
}

// Listener is a registered event callback. Listener identity (the pointer)
// is what Add/RemoveListener compare, since Go functions are not comparable.
type Listener struct {
	// Fn is invoked with the dispatching event.
	Fn func(*Event)
	// Capture selects the capture phase instead of target/bubble.
	Capture bool
}

// AddListener registers a listener for the given event type. Adding the same
// *Listener twice is a no-op.
//
// Production code registers listeners exclusively through the delegation
// registry; direct registration is for the registry itself and for tests.
func (e *Element) AddListener(eventType string, l *Listener) {
	if l == nil || l.Fn == nil {
		return
	}
	if e.listeners == nil {
		e.listeners = make(map[string][]*Listener)
	}
	for _, existing := range e.listeners[eventType] {
		if existing == l {
			return
		}
	}
	e.listeners[eventType] = append(e.listeners[eventType], l)
}

// RemoveListener removes a previously added listener. Unknown listeners are
// ignored.
func (e *Element) RemoveListener(eventType string, l *Listener) {
	list := e.listeners[eventType]
	for i, existing := range list {
		if existing == l {
			e.listeners[eventType] = append(list[:i], list[i+1:]...)
			if len(e.listeners[eventType]) == 0 {
				delete(e.listeners, eventType)
			}
			return
		}
	}
}

// ListenerCount returns the number of listeners registered on this element
// for the given event type, across both phases.
func (e *Element) ListenerCount(eventType string) int {
	return len(e.listeners[eventType])
}

// DispatchEvent dispatches ev with e as the target, running the capture,
// target and bubble phases. Dispatch on a disconnected element only runs the
// target phase.
func (e *Element) DispatchEvent(ev *Event) {
	ev.target = e

	// Ancestor chain from the root down to the parent of the target.
	var path []*Element
	for cur := e.parent; cur != nil; cur = cur.parent {
		path = append([]*Element{cur}, path...)
	}

	ev.phase = PhaseCapture
	for _, ancestor := range path {
		if ev.stopped {
			return
		}
		ancestor.invokeListeners(ev, true)
		if ev.immediateStopped {
			return
		}
	}

	if ev.stopped {
		return
	}
	ev.phase = PhaseTarget
	e.invokeListeners(ev, true)
	if ev.immediateStopped || ev.stopped {
		return
	}
	e.invokeListeners(ev, false)
	if ev.immediateStopped || ev.stopped {
		return
	}

	if !ev.Bubbles {
		return
	}
	ev.phase = PhaseBubble
	for i := len(path) - 1; i >= 0; i-- {
		if ev.stopped {
			return
		}
		path[i].invokeListeners(ev, false)
		if ev.immediateStopped {
			return
		}
	}
}

// invokeListeners runs the element's listeners for the event's type and the
// given phase over a snapshot, so a listener removing itself (or others)
// during dispatch cannot corrupt the iteration.
func (e *Element) invokeListeners(ev *Event, capture bool) {
	list := e.listeners[ev.Type]
	if len(list) == 0 {
		return
	}
	snapshot := make([]*Listener, len(list))
	copy(snapshot, list)

	ev.currentTarget = e
	for _, l := range snapshot {
		if ev.immediateStopped {
			return
		}
		wantCapture := ev.phase == PhaseCapture
		if ev.phase == PhaseTarget {
			wantCapture = capture
		}
		if l.Capture != wantCapture {
			continue
		}
		l.Fn(ev)
	}
}
