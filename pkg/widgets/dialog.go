package widgets

import (
	"github.com/go-drift/enhance/pkg/behavior"
	"github.com/go-drift/enhance/pkg/delegate"
	"github.com/go-drift/enhance/pkg/dom"
	"github.com/go-drift/enhance/pkg/errors"
	"github.com/go-drift/enhance/pkg/focus"
)

// KindDialog is the widget kind for modal dialogs.
const KindDialog = "enhance-dialog"

// Dialog enhances a host's declarative children into a modal dialog behind
// an opener button.
//
// Declarative structure: the host's children become the dialog body. The
// host may carry data-label (opener button text, default "Open"),
// data-title (dialog heading) and data-force-action. Elements inside the
// body with a data-dialog-action attribute close the dialog when clicked;
// they are the caller-supplied confirm/cancel paths.
//
// The state machine is closed -> opening -> open -> closing -> closed, with
// the opening and closing states settling on the next animation frame.
// Opening activates a focus trap and a body scroll lock; closing releases
// both and restores focus to the opener. With data-force-action set the
// Escape key, the backdrop and the built-in close button are not wired at
// all: only data-dialog-action elements can close the dialog.
type Dialog struct{}

// Dialog state names, mirrored into data-state on the dialog root.
const (
	dialogClosed  = "closed"
	dialogOpening = "opening"
	dialogOpen    = "open"
	dialogClosing = "closing"
)

// scrollLockClass is set on the document body while a dialog is open.
const scrollLockClass = "enh-scroll-lock"

// Kind returns "enhance-dialog".
func (Dialog) Kind() string { return KindDialog }

// Transform builds the opener, backdrop and panel around the host's
// declarative content.
func (Dialog) Transform(host *dom.Element) (*dom.Element, error) {
	if len(host.Children()) == 0 {
		return nil, &errors.StructureError{WidgetKind: KindDialog, Reason: "host has no dialog content"}
	}

	doc := host.Document()
	forceAction := host.HasAttr("data-force-action")

	root := doc.CreateElement("div")
	root.AddClass("enh-dialog")
	root.SetAttr("data-state", dialogClosed)

	opener := doc.CreateElement("button")
	opener.AddClass("enh-dialog-open")
	opener.SetText(host.AttrOr("data-label", "Open"))

	backdrop := doc.CreateElement("div")
	backdrop.AddClass("enh-dialog-backdrop")
	backdrop.SetAttr("hidden", "")

	panel := doc.CreateElement("div")
	panel.AddClass("enh-dialog-panel")
	panel.SetAttr("role", "dialog")
	panel.SetAttr("aria-modal", "true")

	if title := host.AttrOr("data-title", ""); title != "" {
		heading := doc.CreateElement("h2")
		heading.AddClass("enh-dialog-title")
		heading.SetText(title)
		panel.AppendChild(heading)
	}
	for _, child := range host.Children() {
		panel.AppendChild(child.Clone())
	}
	if !forceAction {
		closeBtn := doc.CreateElement("button")
		closeBtn.AddClass("enh-dialog-close")
		closeBtn.SetText("Close")
		panel.AppendChild(closeBtn)
	}

	backdrop.AppendChild(panel)
	root.AppendChild(opener)
	root.AppendChild(backdrop)
	return root, nil
}

// Init wires the open and close paths.
func (Dialog) Init(host *dom.Element, env behavior.Env) (behavior.Teardown, error) {
	forceAction := host.HasAttr("data-force-action")

	root := host.Query(".enh-dialog")
	backdrop := host.Query(".enh-dialog-backdrop")
	panel := host.Query(".enh-dialog-panel")
	if root == nil || backdrop == nil || panel == nil {
		return nil, &errors.StructureError{WidgetKind: KindDialog, Reason: "enhanced structure missing"}
	}

	state := dialogClosed
	trap := focus.NewTrap(env.Doc, env.Events)
	var session *focus.Session
	var cancelSettle func()

	settle := func(fn func()) {
		if cancelSettle != nil {
			cancelSettle()
		}
		cancelSettle = env.Frames.Request(fn)
	}

	openDialog := func() {
		if state != dialogClosed {
			return
		}
		state = dialogOpening
		root.SetAttr("data-state", dialogOpening)
		backdrop.RemoveAttr("hidden")
		env.Doc.Body().AddClass(scrollLockClass)
		s, err := trap.Activate(panel)
		if err == nil {
			session = s
		}
		settle(func() {
			if state != dialogOpening {
				return
			}
			state = dialogOpen
			root.SetAttr("data-state", dialogOpen)
		})
	}

	closeDialog := func() {
		if state != dialogOpen && state != dialogOpening {
			return
		}
		state = dialogClosing
		root.SetAttr("data-state", dialogClosing)
		if session != nil {
			session.Release()
			session = nil
		}
		env.Doc.Body().RemoveClass(scrollLockClass)
		settle(func() {
			if state != dialogClosing {
				return
			}
			state = dialogClosed
			root.SetAttr("data-state", dialogClosed)
			backdrop.SetAttr("hidden", "")
		})
	}

	var unregs []delegate.Unregister
	wire := func(eventType, selector string, fn func(*dom.Event, *dom.Element)) error {
		unreg, err := env.Events.On(host, eventType, selector, delegate.HandlerFunc(fn))
		if err != nil {
			return err
		}
		unregs = append(unregs, unreg)
		return nil
	}

	teardown := func() {
		for _, unreg := range unregs {
			unreg()
		}
		unregs = nil
		if cancelSettle != nil {
			cancelSettle()
			cancelSettle = nil
		}
		if session != nil {
			session.Release()
			session = nil
		}
		env.Doc.Body().RemoveClass(scrollLockClass)
	}

	if err := wire("click", ".enh-dialog-open", func(*dom.Event, *dom.Element) { openDialog() }); err != nil {
		return nil, err
	}
	if err := wire("click", "[data-dialog-action]", func(*dom.Event, *dom.Element) { closeDialog() }); err != nil {
		teardown()
		return nil, err
	}
	if !forceAction {
		if err := wire("click", ".enh-dialog-close", func(*dom.Event, *dom.Element) { closeDialog() }); err != nil {
			teardown()
			return nil, err
		}
		if err := wire("click", ".enh-dialog-backdrop", func(ev *dom.Event, _ *dom.Element) {
			// Clicks inside the panel bubble through the backdrop; only a
			// direct backdrop press dismisses.
			if ev.Target() == backdrop {
				closeDialog()
			}
		}); err != nil {
			teardown()
			return nil, err
		}
		if err := wire("keydown", "*", func(ev *dom.Event, _ *dom.Element) {
			if ev.Key == "Escape" {
				closeDialog()
			}
		}); err != nil {
			teardown()
			return nil, err
		}
	}

	return teardown, nil
}
