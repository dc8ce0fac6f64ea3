package widgets

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/go-drift/enhance/pkg/behavior"
	"github.com/go-drift/enhance/pkg/delegate"
	"github.com/go-drift/enhance/pkg/dom"
	"github.com/go-drift/enhance/pkg/errors"
	"github.com/go-drift/enhance/pkg/schedule"
)

// KindCounter is the widget kind for bounded character counters.
const KindCounter = "enhance-counter"

// Counter enhances a text control with a remaining-characters message.
//
// Declarative structure: the host contains exactly one <input> or
// <textarea>. The limit comes from the host's data-limit attribute or the
// configured default. Each input event recomputes the message, but the
// visible status text and the live-region announcement are throttled to one
// write per animation frame, replacing the previous text so assistive
// technology announces only the latest value. Crossing the limit mirrors
// into data-over-limit on the host synchronously.
type Counter struct{}

// Kind returns "enhance-counter".
func (Counter) Kind() string { return KindCounter }

// Transform keeps the control and appends the status element.
func (Counter) Transform(host *dom.Element) (*dom.Element, error) {
	control := host.Query("input, textarea")
	if control == nil {
		return nil, &errors.StructureError{WidgetKind: KindCounter, Reason: "host has no <input> or <textarea>"}
	}

	doc := host.Document()
	root := doc.CreateElement("div")
	root.AddClass("enh-counter")

	root.AppendChild(control.Clone())

	status := doc.CreateElement("span")
	status.AddClass("enh-counter-status")
	status.SetAttr("aria-hidden", "true")
	root.AppendChild(status)
	return root, nil
}

// Init wires the per-input recomputation.
func (Counter) Init(host *dom.Element, env behavior.Env) (behavior.Teardown, error) {
	status := host.Query(".enh-counter-status")
	if status == nil {
		return nil, &errors.StructureError{WidgetKind: KindCounter, Reason: "enhanced structure missing"}
	}

	limit := env.Defaults.Counter.Limit
	if v, ok := host.Attr("data-limit"); ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	throttle := schedule.NewFrameThrottle(env.Frames)

	update := func(value string) {
		length := utf8.RuneCountInString(value)
		var message string
		if length > limit {
			message = fmt.Sprintf("%d characters over limit", length-limit)
			host.SetAttr("data-over-limit", "true")
		} else {
			message = fmt.Sprintf("%d characters remaining", limit-length)
			host.RemoveAttr("data-over-limit")
		}
		throttle.Schedule(func() {
			status.SetText(message)
		})
		env.Announcer.Announce(message)
	}

	unreg, err := env.Events.On(host, "input", "input, textarea", delegate.HandlerFunc(func(ev *dom.Event, _ *dom.Element) {
		update(ev.Value)
	}))
	if err != nil {
		return nil, err
	}

	return func() {
		throttle.Cancel()
		unreg()
	}, nil
}
