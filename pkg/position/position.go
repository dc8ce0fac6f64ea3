// Package position places floating elements relative to an anchor with
// viewport collision handling: a placement that would overflow on its main
// axis flips to the opposite side, and the cross-axis offset is clamped so
// the floating element stays inside the viewport.
package position

import (
	"github.com/go-drift/enhance/pkg/delegate"
	"github.com/go-drift/enhance/pkg/dom"
	"github.com/go-drift/enhance/pkg/schedule"
)

// Side identifies which edge of the anchor a floating element attaches to.
type Side int

const (
	// SideTop places the floating element above the anchor.
	SideTop Side = iota
	// SideBottom places the floating element below the anchor.
	SideBottom
	// SideLeft places the floating element left of the anchor.
	SideLeft
	// SideRight places the floating element right of the anchor.
	SideRight
)

// Opposite returns the side across the anchor.
func (s Side) Opposite() Side {
	switch s {
	case SideTop:
		return SideBottom
	case SideBottom:
		return SideTop
	case SideLeft:
		return SideRight
	default:
		return SideLeft
	}
}

// String returns the side name as used in data-side markers.
func (s Side) String() string {
	switch s {
	case SideTop:
		return "top"
	case SideBottom:
		return "bottom"
	case SideLeft:
		return "left"
	default:
		return "right"
	}
}

// ParseSide maps a data-side attribute value to a Side. Unknown values
// default to bottom.
func ParseSide(v string) Side {
	switch v {
	case "top":
		return SideTop
	case "left":
		return SideLeft
	case "right":
		return SideRight
	default:
		return SideBottom
	}
}

// Place positions floating next to anchor on the preferred side and returns
// the side actually applied.
//
// The floating element's current rect supplies its size; its position is
// overwritten. If the preferred side would overflow the viewport on the main
// axis, placement flips to the opposite side. The cross axis is then clamped
// so the floating element never extends past the viewport edges.
func Place(floating, anchor *dom.Element, preferred Side, viewport dom.Rect) Side {
	a := anchor.Rect()
	size := floating.Rect()

	side := preferred
	if overflowsMainAxis(side, a, size, viewport) {
		side = side.Opposite()
	}

	r := rectFor(side, a, size)
	r = clampCrossAxis(side, r, viewport)
	floating.SetRect(r)
	return side
}

// overflowsMainAxis reports whether a floating element of the given size
// would extend past the viewport when placed on side.
func overflowsMainAxis(side Side, anchor, size dom.Rect, viewport dom.Rect) bool {
	switch side {
	case SideTop:
		return anchor.Top-size.Height < viewport.Top
	case SideBottom:
		return anchor.Bottom()+size.Height > viewport.Bottom()
	case SideLeft:
		return anchor.Left-size.Width < viewport.Left
	default:
		return anchor.Right()+size.Width > viewport.Right()
	}
}

// rectFor computes the floating rect on side, centered on the cross axis.
func rectFor(side Side, anchor, size dom.Rect) dom.Rect {
	r := dom.Rect{Width: size.Width, Height: size.Height}
	switch side {
	case SideTop:
		r.Left = anchor.Left + (anchor.Width-size.Width)/2
		r.Top = anchor.Top - size.Height
	case SideBottom:
		r.Left = anchor.Left + (anchor.Width-size.Width)/2
		r.Top = anchor.Bottom()
	case SideLeft:
		r.Left = anchor.Left - size.Width
		r.Top = anchor.Top + (anchor.Height-size.Height)/2
	default:
		r.Left = anchor.Right()
		r.Top = anchor.Top + (anchor.Height-size.Height)/2
	}
	return r
}

// clampCrossAxis keeps the floating rect inside the viewport on the axis
// perpendicular to the placement side.
func clampCrossAxis(side Side, r dom.Rect, viewport dom.Rect) dom.Rect {
	switch side {
	case SideTop, SideBottom:
		r.Left = clamp(r.Left, viewport.Left, viewport.Right()-r.Width)
	default:
		r.Top = clamp(r.Top, viewport.Top, viewport.Bottom()-r.Height)
	}
	return r
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Repositioner re-runs a placement whenever the viewport changes, coalesced
// to one recomputation per frame. Resize and scroll events are observed
// through the delegation registry on the document root so a widget's
// teardown path can account for them like any other registration.
type Repositioner struct {
	throttle *schedule.FrameThrottle
	unregs   []delegate.Unregister
	replace  func()
}

// NewRepositioner starts observing resize and scroll on doc and schedules
// replace on the next frame after each burst of events.
func NewRepositioner(doc *dom.Document, events *delegate.Registry, frames schedule.Frames, replace func()) (*Repositioner, error) {
	r := &Repositioner{
		throttle: schedule.NewFrameThrottle(frames),
		replace:  replace,
	}
	h := delegate.HandlerFunc(func(*dom.Event, *dom.Element) {
		r.throttle.Schedule(r.replace)
	})
	for _, eventType := range []string{"resize", "scroll"} {
		unreg, err := events.On(doc.Body(), eventType, "*", h)
		if err != nil {
			r.Stop()
			return nil, err
		}
		r.unregs = append(r.unregs, unreg)
	}
	return r, nil
}

// Stop detaches the viewport observers and cancels any pending frame.
// Stop is idempotent.
func (r *Repositioner) Stop() {
	for _, unreg := range r.unregs {
		unreg()
	}
	r.unregs = nil
	r.throttle.Cancel()
}
