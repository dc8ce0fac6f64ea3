package position

import (
	"testing"

	"github.com/go-drift/enhance/pkg/delegate"
	"github.com/go-drift/enhance/pkg/dom"
)

// manualFrames queues frame callbacks until Pump is called.
type manualFrames struct {
	queued []func()
}

func (f *manualFrames) Request(fn func()) (cancel func()) {
	f.queued = append(f.queued, fn)
	i := len(f.queued) - 1
	return func() {
		if i < len(f.queued) {
			f.queued[i] = nil
		}
	}
}

func (f *manualFrames) Pump() {
	queued := f.queued
	f.queued = nil
	for _, fn := range queued {
		if fn != nil {
			fn()
		}
	}
}

func placeFixture(anchorRect, floatingSize dom.Rect) (*dom.Document, *dom.Element, *dom.Element) {
	doc := dom.NewDocument()
	anchor := doc.CreateElement("button")
	floating := doc.CreateElement("div")
	doc.Body().AppendChild(anchor)
	doc.Body().AppendChild(floating)
	anchor.SetRect(anchorRect)
	floating.SetRect(floatingSize)
	return doc, anchor, floating
}

func TestPlaceOnPreferredSide(t *testing.T) {
	doc, anchor, floating := placeFixture(
		dom.Rect{Left: 400, Top: 300, Width: 80, Height: 30},
		dom.Rect{Width: 120, Height: 40},
	)

	got := Place(floating, anchor, SideBottom, doc.Viewport())
	if got != SideBottom {
		t.Fatalf("applied side = %v, want bottom", got)
	}
	r := floating.Rect()
	if r.Top != 330 {
		t.Errorf("floating top = %v, want flush under the anchor (330)", r.Top)
	}
	if r.Left != 380 {
		t.Errorf("floating left = %v, want centered on the anchor (380)", r.Left)
	}
}

func TestPlaceFlipsOnMainAxisOverflow(t *testing.T) {
	// Anchor sits near the bottom edge; below it there is no room.
	doc, anchor, floating := placeFixture(
		dom.Rect{Left: 400, Top: 740, Width: 80, Height: 30},
		dom.Rect{Width: 120, Height: 40},
	)

	got := Place(floating, anchor, SideBottom, doc.Viewport())
	if got != SideTop {
		t.Fatalf("applied side = %v, want flipped to top", got)
	}
	if r := floating.Rect(); r.Bottom() != 740 {
		t.Errorf("floating bottom = %v, want flush above the anchor (740)", r.Bottom())
	}
}

func TestPlaceClampsCrossAxis(t *testing.T) {
	// Anchor near the left edge; a centered floating rect would stick out.
	doc, anchor, floating := placeFixture(
		dom.Rect{Left: 10, Top: 300, Width: 40, Height: 30},
		dom.Rect{Width: 200, Height: 40},
	)

	Place(floating, anchor, SideBottom, doc.Viewport())
	if r := floating.Rect(); r.Left != 0 {
		t.Errorf("floating left = %v, want clamped to viewport edge", r.Left)
	}

	// And near the right edge it clamps the other way.
	anchor.SetRect(dom.Rect{Left: 990, Top: 300, Width: 30, Height: 30})
	Place(floating, anchor, SideBottom, doc.Viewport())
	if r := floating.Rect(); r.Right() != 1024 {
		t.Errorf("floating right = %v, want clamped to viewport width", r.Right())
	}
}

func TestPlaceVerticalSidesClampTop(t *testing.T) {
	doc, anchor, floating := placeFixture(
		dom.Rect{Left: 500, Top: 5, Width: 40, Height: 30},
		dom.Rect{Width: 100, Height: 120},
	)

	got := Place(floating, anchor, SideRight, doc.Viewport())
	if got != SideRight {
		t.Fatalf("applied side = %v, want right", got)
	}
	r := floating.Rect()
	if r.Left != 540 {
		t.Errorf("floating left = %v, want flush right of the anchor (540)", r.Left)
	}
	if r.Top != 0 {
		t.Errorf("floating top = %v, want clamped to viewport top", r.Top)
	}
}

func TestParseSideRoundTrip(t *testing.T) {
	for _, side := range []Side{SideTop, SideBottom, SideLeft, SideRight} {
		if got := ParseSide(side.String()); got != side {
			t.Errorf("ParseSide(%q) = %v, want %v", side.String(), got, side)
		}
	}
	if got := ParseSide("diagonal"); got != SideBottom {
		t.Errorf("unknown side = %v, want bottom default", got)
	}
}

func TestRepositionerCoalescesToOneFramePerBurst(t *testing.T) {
	doc := dom.NewDocument()
	events := delegate.NewRegistry()
	frames := &manualFrames{}

	calls := 0
	rep, err := NewRepositioner(doc, events, frames, func() { calls++ })
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 5; i++ {
		doc.Body().DispatchEvent(&dom.Event{Type: "scroll"})
	}
	doc.Body().DispatchEvent(&dom.Event{Type: "resize"})
	if calls != 0 {
		t.Fatalf("replace ran before the frame, calls = %d", calls)
	}

	frames.Pump()
	if calls != 1 {
		t.Errorf("calls = %d, want one recomputation per frame", calls)
	}

	rep.Stop()
	doc.Body().DispatchEvent(&dom.Event{Type: "scroll"})
	frames.Pump()
	if calls != 1 {
		t.Errorf("calls after Stop = %d, want no further recomputation", calls)
	}
	if events.ListenerCount(doc.Body(), "scroll")+events.ListenerCount(doc.Body(), "resize") != 0 {
		t.Error("Stop should detach the viewport listeners")
	}
}
