// Package focus implements a stacking keyboard focus trap.
//
// A trap session confines Tab traversal to a boundary element: Tab wraps
// from the last focusable descendant to the first, Shift+Tab wraps the other
// way. Sessions stack so a dialog opened from another dialog traps within
// the innermost boundary; releasing a session restores the element that was
// focused when it activated.
package focus

import (
	"time"

	"github.com/go-drift/enhance/pkg/delegate"
	"github.com/go-drift/enhance/pkg/dom"
	"github.com/go-drift/enhance/pkg/errors"
)

// Trap owns the session stack for one document. A single capture-phase
// keydown registration on the document root exists while at least one
// session is active.
type Trap struct {
	doc      *dom.Document
	events   *delegate.Registry
	sessions []*Session
	detach   delegate.Unregister
}

// Session is one activation of the trap on a boundary element.
type Session struct {
	trap     *Trap
	boundary *dom.Element
	previous *dom.Element
	released bool
}

// NewTrap creates a trap for doc that registers its key interception through
// events.
func NewTrap(doc *dom.Document, events *delegate.Registry) *Trap {
	return &Trap{doc: doc, events: events}
}

// Activate starts a trap session on boundary and moves focus into it.
//
// The first focusable descendant receives focus. A boundary with no
// focusable descendants is reported as a warning; focus then falls back to
// the boundary itself if it is focusable, otherwise focus is left where it
// is. Only the innermost active session intercepts Tab.
func (t *Trap) Activate(boundary *dom.Element) (*Session, error) {
	if boundary == nil || !boundary.IsConnected() {
		return nil, &errors.EnhanceError{
			Op:   "focus.Activate",
			Kind: errors.KindFocus,
			Err:  &errors.FocusError{Op: "focus.Activate", Reason: "boundary is not connected"},
		}
	}

	s := &Session{
		trap:     t,
		boundary: boundary,
		previous: t.doc.ActiveElement(),
	}

	if len(t.sessions) == 0 {
		detach, err := t.events.OnCapture(t.doc.Body(), "keydown", "*", delegate.HandlerFunc(t.handleKeydown))
		if err != nil {
			return nil, err
		}
		t.detach = detach
	}
	t.sessions = append(t.sessions, s)

	focusables := dom.FocusableDescendants(boundary)
	switch {
	case len(focusables) > 0:
		t.doc.Focus(focusables[0])
	case dom.Focusable(boundary):
		t.doc.Focus(boundary)
		t.warnEmpty()
	default:
		t.warnEmpty()
	}
	return s, nil
}

// Depth returns the number of active sessions.
func (t *Trap) Depth() int {
	return len(t.sessions)
}

// Boundary returns the element this session traps within.
func (s *Session) Boundary() *dom.Element {
	return s.boundary
}

// Release ends the session and restores focus to the element that was
// focused at activation, or the document body if that element has since been
// disconnected. Release is idempotent.
func (s *Session) Release() {
	if s.released {
		return
	}
	s.released = true

	t := s.trap
	for i, cur := range t.sessions {
		if cur == s {
			t.sessions = append(t.sessions[:i], t.sessions[i+1:]...)
			break
		}
	}
	if len(t.sessions) == 0 && t.detach != nil {
		t.detach()
		t.detach = nil
	}

	if s.previous != nil && s.previous.IsConnected() {
		t.doc.Focus(s.previous)
	} else {
		t.doc.Focus(t.doc.Body())
	}
}

// handleKeydown intercepts Tab for the innermost session. The in-memory
// document has no native tab traversal, so the trap both prevents the
// default and performs the wrap-around move itself.
func (t *Trap) handleKeydown(ev *dom.Event, _ *dom.Element) {
	if len(t.sessions) == 0 || ev.Key != "Tab" {
		return
	}
	s := t.sessions[len(t.sessions)-1]

	ev.PreventDefault()
	ev.StopPropagation()

	focusables := dom.FocusableDescendants(s.boundary)
	if len(focusables) == 0 {
		return
	}

	active := t.doc.ActiveElement()
	index := -1
	for i, el := range focusables {
		if el == active {
			index = i
			break
		}
	}

	var next *dom.Element
	if ev.ShiftKey {
		if index <= 0 {
			next = focusables[len(focusables)-1]
		} else {
			next = focusables[index-1]
		}
	} else {
		if index == -1 || index == len(focusables)-1 {
			next = focusables[0]
		} else {
			next = focusables[index+1]
		}
	}
	t.doc.Focus(next)
}

func (t *Trap) warnEmpty() {
	errors.Warn(&errors.EnhanceError{
		Op:        "focus.Activate",
		Kind:      errors.KindFocus,
		Err:       &errors.FocusError{Op: "focus.Activate", Reason: "boundary has no focusable descendants"},
		Timestamp: time.Now(),
	})
}
