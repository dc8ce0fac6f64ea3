package widgets

import (
	"fmt"
	"time"

	"github.com/go-drift/enhance/pkg/behavior"
	"github.com/go-drift/enhance/pkg/delegate"
	"github.com/go-drift/enhance/pkg/dom"
	"github.com/go-drift/enhance/pkg/errors"
)

// KindDatepicker is the widget kind for calendar pickers.
const KindDatepicker = "enhance-datepicker"

// dateLayout is the wire format for all date-valued attributes.
const dateLayout = "2006-01-02"

// Datepicker enhances a host into a month-grid calendar.
//
// The host declares its state through attributes: data-value (selected
// date), data-min and data-max (selectable range), all in YYYY-MM-DD form.
// The visible month is independent of the selected date: prev/next
// navigation moves it without touching the selection. The grid always holds
// 42 cells (six weeks), padding the visible month with lead and trail days
// from the adjacent months. A cell outside [min, max] is rendered disabled
// and selecting it is a no-op: no state changes and no attribute is
// written.
type Datepicker struct{}

// Kind returns "enhance-datepicker".
func (Datepicker) Kind() string { return KindDatepicker }

// Transform validates the date attributes and builds the calendar skeleton.
// The grid cells are rendered by Init, which knows the current time.
func (Datepicker) Transform(host *dom.Element) (*dom.Element, error) {
	for _, attr := range []string{"data-value", "data-min", "data-max"} {
		if v, ok := host.Attr(attr); ok {
			if _, err := time.Parse(dateLayout, v); err != nil {
				return nil, &errors.StructureError{
					WidgetKind: KindDatepicker,
					Reason:     fmt.Sprintf("%s %q is not a YYYY-MM-DD date", attr, v),
				}
			}
		}
	}

	doc := host.Document()
	root := doc.CreateElement("div")
	root.AddClass("enh-datepicker")

	header := doc.CreateElement("div")
	header.AddClass("enh-datepicker-header")

	prev := doc.CreateElement("button")
	prev.AddClass("enh-datepicker-prev")
	prev.SetAttr("aria-label", "Previous month")
	prev.SetText("‹")

	title := doc.CreateElement("span")
	title.AddClass("enh-datepicker-title")
	title.SetAttr("aria-live", "polite")

	next := doc.CreateElement("button")
	next.AddClass("enh-datepicker-next")
	next.SetAttr("aria-label", "Next month")
	next.SetText("›")

	header.AppendChild(prev)
	header.AppendChild(title)
	header.AppendChild(next)

	grid := doc.CreateElement("div")
	grid.AddClass("enh-datepicker-grid")
	grid.SetAttr("role", "grid")

	root.AppendChild(header)
	root.AppendChild(grid)
	return root, nil
}

// datepickerState holds the per-mount calendar state.
type datepickerState struct {
	// visibleMonth is the first day of the month shown in the grid.
	visibleMonth time.Time
	// selected is the selected date, zero when nothing is selected.
	selected time.Time
	// min and max bound selectability; zero means unbounded.
	min, max time.Time
}

// Init renders the initial grid and wires navigation and selection.
func (Datepicker) Init(host *dom.Element, env behavior.Env) (behavior.Teardown, error) {
	grid := host.Query(".enh-datepicker-grid")
	title := host.Query(".enh-datepicker-title")
	if grid == nil || title == nil {
		return nil, &errors.StructureError{WidgetKind: KindDatepicker, Reason: "enhanced structure missing"}
	}

	st := &datepickerState{}
	st.selected = parseDateAttr(host, "data-value")
	st.min = parseDateAttr(host, "data-min")
	st.max = parseDateAttr(host, "data-max")
	if !st.selected.IsZero() {
		st.visibleMonth = monthStart(st.selected)
	} else {
		st.visibleMonth = monthStart(env.Clock.Now())
	}

	render := func() {
		title.SetText(st.visibleMonth.Format("January 2006"))
		cells := make([]*dom.Element, 0, 42)
		for _, day := range gridDays(st.visibleMonth) {
			cell := host.Document().CreateElement("button")
			cell.AddClass("enh-datepicker-day")
			cell.SetAttr("role", "gridcell")
			cell.SetAttr("data-date", day.Format(dateLayout))
			cell.SetText(fmt.Sprintf("%d", day.Day()))
			if day.Month() != st.visibleMonth.Month() {
				cell.AddClass("is-outside")
			}
			if !st.inRange(day) {
				cell.SetAttr("disabled", "")
			}
			if !st.selected.IsZero() && day.Equal(st.selected) {
				cell.AddClass("is-selected")
				cell.SetAttr("aria-selected", "true")
			}
			cells = append(cells, cell)
		}
		grid.ReplaceChildren(cells...)
	}
	render()

	var unregs []delegate.Unregister
	wire := func(selector string, fn func(*dom.Event, *dom.Element)) error {
		unreg, err := env.Events.On(host, "click", selector, delegate.HandlerFunc(fn))
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
	}

	if err := wire(".enh-datepicker-prev", func(*dom.Event, *dom.Element) {
		st.visibleMonth = st.visibleMonth.AddDate(0, -1, 0)
		render()
	}); err != nil {
		return nil, err
	}
	if err := wire(".enh-datepicker-next", func(*dom.Event, *dom.Element) {
		st.visibleMonth = st.visibleMonth.AddDate(0, 1, 0)
		render()
	}); err != nil {
		teardown()
		return nil, err
	}
	if err := wire(".enh-datepicker-day", func(_ *dom.Event, matched *dom.Element) {
		day, err := time.Parse(dateLayout, matched.AttrOr("data-date", ""))
		if err != nil || !st.inRange(day) {
			return
		}
		st.selected = day
		host.SetAttr("data-value", day.Format(dateLayout))
		render()
	}); err != nil {
		teardown()
		return nil, err
	}

	return teardown, nil
}

// inRange reports whether day is selectable under the min/max bounds.
func (st *datepickerState) inRange(day time.Time) bool {
	if !st.min.IsZero() && day.Before(st.min) {
		return false
	}
	if !st.max.IsZero() && day.After(st.max) {
		return false
	}
	return true
}

// parseDateAttr reads a YYYY-MM-DD attribute, returning the zero time when
// absent. Transform already rejected malformed values.
func parseDateAttr(host *dom.Element, name string) time.Time {
	v, ok := host.Attr(name)
	if !ok {
		return time.Time{}
	}
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return time.Time{}
	}
	return t
}

// monthStart truncates t to the first day of its month in UTC.
func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// gridDays returns the 42 days shown for the month starting at first: the
// month itself plus lead days back to Monday and trail days from the next
// month.
func gridDays(first time.Time) []time.Time {
	lead := (int(first.Weekday()) + 6) % 7
	start := first.AddDate(0, 0, -lead)
	days := make([]time.Time, 42)
	for i := range days {
		days[i] = start.AddDate(0, 0, i)
	}
	return days
}
