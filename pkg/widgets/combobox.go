package widgets

import (
	"strconv"
	"strings"

	"github.com/go-drift/enhance/pkg/behavior"
	"github.com/go-drift/enhance/pkg/delegate"
	"github.com/go-drift/enhance/pkg/dom"
	"github.com/go-drift/enhance/pkg/errors"
	"github.com/go-drift/enhance/pkg/schedule"
)

// KindCombobox is the widget kind for searchable dropdowns.
const KindCombobox = "enhance-combobox"

// Combobox enhances a list of <option> children into a searchable dropdown.
//
// Declarative structure: the host contains <option value="...">Label</option>
// children. The enhanced structure is a text input with role="combobox" and
// a hidden role="listbox" list of the options.
//
// The state machine is closed -> filtering -> open. Typing debounces by the
// configured filter delay, then recomputes a case-insensitive substring
// match over the option labels and opens the list. Arrow keys move the
// active option circularly through the filtered set only; Enter commits the
// active option and closes; Escape closes without committing and restores
// the display value captured when filtering began. With zero matches no
// option is active and Enter does nothing.
type Combobox struct{}

// Kind returns "enhance-combobox".
func (Combobox) Kind() string { return KindCombobox }

// Transform builds the input and listbox from the declarative options.
func (Combobox) Transform(host *dom.Element) (*dom.Element, error) {
	options := host.QueryAll("option")
	if len(options) == 0 {
		return nil, &errors.StructureError{WidgetKind: KindCombobox, Reason: "host has no <option> children"}
	}

	doc := host.Document()
	listID := listboxID(host)

	root := doc.CreateElement("div")
	root.AddClass("enh-combobox")

	input := doc.CreateElement("input")
	input.AddClass("enh-combobox-input")
	input.SetAttr("role", "combobox")
	input.SetAttr("aria-expanded", "false")
	input.SetAttr("aria-autocomplete", "list")
	input.SetAttr("aria-controls", listID)

	list := doc.CreateElement("ul")
	list.AddClass("enh-combobox-list")
	list.SetAttr("id", listID)
	list.SetAttr("role", "listbox")
	list.SetAttr("hidden", "")

	for i, opt := range options {
		item := doc.CreateElement("li")
		item.AddClass("enh-combobox-option")
		item.SetAttr("role", "option")
		item.SetAttr("id", listID+"-opt-"+strconv.Itoa(i))
		item.SetAttr("data-value", opt.AttrOr("value", opt.TextContent()))
		item.SetText(opt.TextContent())
		list.AppendChild(item)
	}

	root.AppendChild(input)
	root.AppendChild(list)
	return root, nil
}

// listboxID derives the id linking input and listbox. An explicit host id
// wins; otherwise the host's path of child indices from the document root
// keeps ids distinct across hosts.
func listboxID(host *dom.Element) string {
	if id, ok := host.Attr("id"); ok {
		return "enh-listbox-" + id
	}
	var parts []string
	for cur := host; cur.Parent() != nil; cur = cur.Parent() {
		idx := 0
		for i, sib := range cur.Parent().Children() {
			if sib == cur {
				idx = i
				break
			}
		}
		parts = append(parts, strconv.Itoa(idx))
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return "enh-listbox-" + strings.Join(parts, "-")
}

// comboboxState holds the per-mount interaction state.
type comboboxState struct {
	// state is one of "closed", "filtering", "open".
	state string
	// displayValue is the last settled (committed or restored) input value.
	displayValue string
	// preFilterValue is the display value when filtering began; Escape
	// restores it.
	preFilterValue string
	// filtered indexes the options currently shown, in list order.
	filtered []int
	// activeIndex points into filtered, or -1 when no option is active.
	activeIndex int
}

// Init wires typing, traversal and commit handling.
func (Combobox) Init(host *dom.Element, env behavior.Env) (behavior.Teardown, error) {
	input := host.Query(".enh-combobox-input")
	list := host.Query(".enh-combobox-list")
	if input == nil || list == nil {
		return nil, &errors.StructureError{WidgetKind: KindCombobox, Reason: "enhanced structure missing"}
	}
	items := list.QueryAll(".enh-combobox-option")

	st := &comboboxState{
		state:        "closed",
		activeIndex:  -1,
		displayValue: input.AttrOr("value", ""),
	}
	debounce := schedule.NewDebouncer(env.Clock, env.Defaults.Combobox.FilterDelay.Std())

	setActive := func(i int) {
		st.activeIndex = i
		for _, item := range items {
			item.RemoveClass("is-active")
		}
		if i < 0 || i >= len(st.filtered) {
			input.RemoveAttr("aria-activedescendant")
			return
		}
		item := items[st.filtered[i]]
		item.AddClass("is-active")
		input.SetAttr("aria-activedescendant", item.ID())
	}

	applyFilter := func(query string) {
		st.filtered = st.filtered[:0]
		needle := strings.ToLower(query)
		for i, item := range items {
			if strings.Contains(strings.ToLower(item.Text()), needle) {
				st.filtered = append(st.filtered, i)
				item.RemoveAttr("hidden")
			} else {
				item.SetAttr("hidden", "")
			}
		}
		st.state = "open"
		list.RemoveAttr("hidden")
		input.SetAttr("aria-expanded", "true")
		setActive(-1)
	}

	closeList := func(value string) {
		debounce.Cancel()
		st.state = "closed"
		st.displayValue = value
		input.SetAttr("value", value)
		input.SetAttr("aria-expanded", "false")
		list.SetAttr("hidden", "")
		setActive(-1)
	}

	commit := func() {
		if st.activeIndex < 0 || st.activeIndex >= len(st.filtered) {
			return
		}
		item := items[st.filtered[st.activeIndex]]
		host.SetAttr("data-value", item.AttrOr("data-value", ""))
		closeList(item.Text())
	}

	move := func(delta int) {
		if len(st.filtered) == 0 {
			return
		}
		next := st.activeIndex + delta
		switch {
		case st.activeIndex < 0 && delta > 0:
			next = 0
		case st.activeIndex < 0 && delta < 0:
			next = len(st.filtered) - 1
		case next < 0:
			next = len(st.filtered) - 1
		case next >= len(st.filtered):
			next = 0
		}
		setActive(next)
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
		debounce.Cancel()
		for _, unreg := range unregs {
			unreg()
		}
		unregs = nil
	}

	if err := wire("input", ".enh-combobox-input", func(ev *dom.Event, _ *dom.Element) {
		if st.state == "closed" {
			st.preFilterValue = st.displayValue
			st.state = "filtering"
		}
		query := ev.Value
		debounce.Trigger(func() { applyFilter(query) })
	}); err != nil {
		return nil, err
	}

	if err := wire("keydown", ".enh-combobox-input", func(ev *dom.Event, _ *dom.Element) {
		switch ev.Key {
		case "ArrowDown":
			ev.PreventDefault()
			move(1)
		case "ArrowUp":
			ev.PreventDefault()
			move(-1)
		case "Enter":
			commit()
		case "Escape":
			if st.state != "closed" {
				closeList(st.preFilterValue)
			}
		}
	}); err != nil {
		teardown()
		return nil, err
	}

	if err := wire("click", ".enh-combobox-option", func(_ *dom.Event, matched *dom.Element) {
		for i, fi := range st.filtered {
			if items[fi] == matched {
				setActive(i)
				commit()
				return
			}
		}
	}); err != nil {
		teardown()
		return nil, err
	}

	return teardown, nil
}
