package widgets

import (
	"time"

	"github.com/go-drift/enhance/pkg/behavior"
	"github.com/go-drift/enhance/pkg/delegate"
	"github.com/go-drift/enhance/pkg/dom"
	"github.com/go-drift/enhance/pkg/errors"
	"github.com/go-drift/enhance/pkg/position"
)

// KindTooltip is the widget kind for floating tooltips.
const KindTooltip = "enhance-tooltip"

// Tooltip enhances a trigger element with a delayed floating tooltip.
//
// Declarative structure: the host's children are the trigger; the tooltip
// text comes from the host's data-tip attribute and may change while the
// tooltip is open. Optional attributes: data-side (preferred placement,
// default top) and data-delay (open delay, overriding the configured
// default).
//
// The tooltip opens after the delay on hover or focus of the trigger and
// closes on leave, blur or Escape. While open it is placed against the
// trigger through the positioning utility, re-placed on viewport changes,
// and re-measured when the host's data-tip text changes.
type Tooltip struct{}

// Kind returns "enhance-tooltip".
func (Tooltip) Kind() string { return KindTooltip }

// Transform wraps the trigger and adds the hidden tooltip element.
func (Tooltip) Transform(host *dom.Element) (*dom.Element, error) {
	tip := host.AttrOr("data-tip", "")
	if tip == "" {
		return nil, &errors.StructureError{WidgetKind: KindTooltip, Reason: "host has no data-tip text"}
	}
	if len(host.Children()) == 0 {
		return nil, &errors.StructureError{WidgetKind: KindTooltip, Reason: "host has no trigger element"}
	}

	doc := host.Document()
	root := doc.CreateElement("span")
	root.AddClass("enh-tooltip-root")

	anchor := doc.CreateElement("span")
	anchor.AddClass("enh-tooltip-anchor")
	anchor.SetAttr("tabindex", "0")
	for _, child := range host.Children() {
		anchor.AppendChild(child.Clone())
	}

	bubble := doc.CreateElement("div")
	bubble.AddClass("enh-tooltip")
	bubble.SetAttr("role", "tooltip")
	bubble.SetAttr("hidden", "")
	bubble.SetText(tip)

	root.AppendChild(anchor)
	root.AppendChild(bubble)
	return root, nil
}

// Init wires the delayed open and the close paths.
func (Tooltip) Init(host *dom.Element, env behavior.Env) (behavior.Teardown, error) {
	anchor := host.Query(".enh-tooltip-anchor")
	bubble := host.Query(".enh-tooltip")
	if anchor == nil || bubble == nil {
		return nil, &errors.StructureError{WidgetKind: KindTooltip, Reason: "enhanced structure missing"}
	}

	delay := env.Defaults.Tooltip.OpenDelay.Std()
	if v, ok := host.Attr("data-delay"); ok {
		if parsed, err := time.ParseDuration(v); err == nil {
			delay = parsed
		}
	}
	preferred := position.ParseSide(host.AttrOr("data-side", "top"))

	open := false
	shownTip := ""
	var stopTimer func()
	var repositioner *position.Repositioner

	place := func() {
		// Re-measure when the tip text changed while open; size can change
		// after open.
		if tip := host.AttrOr("data-tip", ""); tip != shownTip {
			shownTip = tip
			bubble.SetText(tip)
		}
		applied := position.Place(bubble, anchor, preferred, env.Doc.Viewport())
		bubble.SetAttr("data-side", applied.String())
	}

	hide := func() {
		if stopTimer != nil {
			stopTimer()
			stopTimer = nil
		}
		if !open {
			return
		}
		open = false
		bubble.SetAttr("hidden", "")
		if repositioner != nil {
			repositioner.Stop()
			repositioner = nil
		}
	}

	show := func() {
		if open {
			return
		}
		open = true
		shownTip = host.AttrOr("data-tip", "")
		bubble.SetText(shownTip)
		bubble.RemoveAttr("hidden")
		place()
		rep, err := position.NewRepositioner(env.Doc, env.Events, env.Frames, place)
		if err == nil {
			repositioner = rep
		}
	}

	schedule := func() {
		if open || stopTimer != nil {
			return
		}
		stopTimer = env.Clock.AfterFunc(delay, func() {
			stopTimer = nil
			show()
		})
	}

	var unregs []delegate.Unregister
	wire := func(eventType string, capture bool, fn func(*dom.Event, *dom.Element)) error {
		register := env.Events.On
		if capture {
			// focus and blur do not bubble; interception relies on the
			// capture phase.
			register = env.Events.OnCapture
		}
		unreg, err := register(host, eventType, ".enh-tooltip-anchor", delegate.HandlerFunc(fn))
		if err != nil {
			return err
		}
		unregs = append(unregs, unreg)
		return nil
	}

	teardown := func() {
		hide()
		for _, unreg := range unregs {
			unreg()
		}
		unregs = nil
	}

	if err := wire("mouseenter", false, func(*dom.Event, *dom.Element) { schedule() }); err != nil {
		teardown()
		return nil, err
	}
	if err := wire("focus", true, func(*dom.Event, *dom.Element) { schedule() }); err != nil {
		teardown()
		return nil, err
	}
	if err := wire("mouseleave", false, func(*dom.Event, *dom.Element) { hide() }); err != nil {
		teardown()
		return nil, err
	}
	if err := wire("blur", true, func(*dom.Event, *dom.Element) { hide() }); err != nil {
		teardown()
		return nil, err
	}
	if err := wire("keydown", false, func(ev *dom.Event, _ *dom.Element) {
		if ev.Key == "Escape" {
			hide()
		}
	}); err != nil {
		teardown()
		return nil, err
	}

	return teardown, nil
}
