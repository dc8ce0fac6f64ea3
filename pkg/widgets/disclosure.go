package widgets

import (
	"strconv"

	"github.com/go-drift/enhance/pkg/behavior"
	"github.com/go-drift/enhance/pkg/delegate"
	"github.com/go-drift/enhance/pkg/dom"
	"github.com/go-drift/enhance/pkg/errors"
)

// KindDisclosure is the widget kind for disclosure groups.
const KindDisclosure = "enhance-disclosure"

// Disclosure enhances a group of titled sections into toggleable panels.
//
// Declarative structure: the host contains one or more <section> elements
// whose first child carries the section title; the remaining children are
// the panel content. The group is multi-select by default. Single-select
// mode, where expanding one panel collapses its siblings, is opt-in via a
// data-single-select attribute on the host or the configured default.
type Disclosure struct{}

// Kind returns "enhance-disclosure".
func (Disclosure) Kind() string { return KindDisclosure }

// Transform builds the toggle/panel structure for every declarative section.
func (Disclosure) Transform(host *dom.Element) (*dom.Element, error) {
	sections := host.QueryAll("section")
	if len(sections) == 0 {
		return nil, &errors.StructureError{WidgetKind: KindDisclosure, Reason: "host has no <section> children"}
	}

	doc := host.Document()
	root := doc.CreateElement("div")
	root.AddClass("enh-disclosure")

	for i, src := range sections {
		children := src.Children()
		if len(children) == 0 {
			return nil, &errors.StructureError{WidgetKind: KindDisclosure, Reason: "section has no title element"}
		}

		section := doc.CreateElement("section")
		section.AddClass("enh-disclosure-section")

		toggle := doc.CreateElement("button")
		toggle.AddClass("enh-disclosure-toggle")
		toggle.SetAttr("aria-expanded", "false")
		toggle.SetAttr("data-index", strconv.Itoa(i))
		toggle.SetText(children[0].TextContent())

		panel := doc.CreateElement("div")
		panel.AddClass("enh-disclosure-panel")
		panel.SetAttr("hidden", "")
		for _, content := range children[1:] {
			panel.AppendChild(content.Clone())
		}

		section.AppendChild(toggle)
		section.AppendChild(panel)
		root.AppendChild(section)
	}
	return root, nil
}

// Init wires toggle clicks through the delegation registry.
func (Disclosure) Init(host *dom.Element, env behavior.Env) (behavior.Teardown, error) {
	singleSelect := host.HasAttr("data-single-select") || env.Defaults.Disclosure.SingleSelect

	toggles := host.QueryAll(".enh-disclosure-toggle")
	expanded := make([]bool, len(toggles))

	apply := func(i int, open bool) {
		// aria-expanded, the panel's hidden state and the internal flag
		// change together; no observer can see them disagree.
		expanded[i] = open
		toggle := toggles[i]
		panel := toggle.Parent().Query(".enh-disclosure-panel")
		if open {
			toggle.SetAttr("aria-expanded", "true")
			panel.RemoveAttr("hidden")
		} else {
			toggle.SetAttr("aria-expanded", "false")
			panel.SetAttr("hidden", "")
		}
	}

	unreg, err := env.Events.On(host, "click", ".enh-disclosure-toggle", delegate.HandlerFunc(func(_ *dom.Event, matched *dom.Element) {
		i, err := strconv.Atoi(matched.AttrOr("data-index", ""))
		if err != nil || i < 0 || i >= len(expanded) {
			return
		}
		if expanded[i] {
			apply(i, false)
			return
		}
		if singleSelect {
			// Collapse every sibling before expanding the target so the
			// group never has two panels open mid-transition.
			for j := range expanded {
				if expanded[j] {
					apply(j, false)
				}
			}
		}
		apply(i, true)
	}))
	if err != nil {
		return nil, err
	}

	return func() { unreg() }, nil
}
