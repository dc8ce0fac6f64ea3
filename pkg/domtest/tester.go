package domtest

import (
	"testing"
	"time"

	"github.com/go-drift/enhance/pkg/announce"
	"github.com/go-drift/enhance/pkg/behavior"
	"github.com/go-drift/enhance/pkg/config"
	"github.com/go-drift/enhance/pkg/delegate"
	"github.com/go-drift/enhance/pkg/dom"
)

// Tester bundles a document with the fake scheduling sources a behavior's
// Env is built from.
type Tester struct {
	T         *testing.T
	Doc       *dom.Document
	Events    *delegate.Registry
	Frames    *ManualFrames
	Clock     *FakeClock
	Announcer *announce.Announcer
	Defaults  config.Defaults
}

// NewTester creates a harness with shipped defaults and an empty document.
func NewTester(t *testing.T) *Tester {
	t.Helper()
	doc := dom.NewDocument()
	frames := NewManualFrames()
	return &Tester{
		T:         t,
		Doc:       doc,
		Events:    delegate.NewRegistry(),
		Frames:    frames,
		Clock:     NewFakeClock(),
		Announcer: announce.New(doc, frames),
		Defaults:  config.Standard(),
	}
}

// Env returns the behavior environment backed by the harness fakes.
func (h *Tester) Env() behavior.Env {
	return behavior.Env{
		Doc:       h.Doc,
		Events:    h.Events,
		Frames:    h.Frames,
		Clock:     h.Clock,
		Announcer: h.Announcer,
		Defaults:  h.Defaults,
	}
}

// Load parses markup, appends the parsed elements to the body, and returns
// the first one.
func (h *Tester) Load(markup string) *dom.Element {
	h.T.Helper()
	els, err := h.Doc.ParseFragment(markup)
	if err != nil {
		h.T.Fatalf("Load: %v", err)
	}
	if len(els) == 0 {
		h.T.Fatal("Load: markup produced no elements")
	}
	for _, el := range els {
		h.Doc.Body().AppendChild(el)
	}
	return els[0]
}

// Query finds exactly one element under the body, failing the test when the
// selector matches nothing.
func (h *Tester) Query(selector string) *dom.Element {
	h.T.Helper()
	el := h.Doc.Body().Query(selector)
	if el == nil {
		h.T.Fatalf("Query: no element matches %q", selector)
	}
	return el
}

// Pump runs one animation frame.
func (h *Tester) Pump() {
	h.Frames.Pump()
}

// Advance moves the fake clock forward, firing due timers, then runs any
// frames the timers queued.
func (h *Tester) Advance(d time.Duration) {
	h.Clock.Advance(d)
	h.Frames.Pump()
}
