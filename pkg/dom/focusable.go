package dom

import "strconv"

// Focusable reports whether the element can receive keyboard focus.
//
// An element is focusable when it is connected, not disabled, not hidden
// (its own or an ancestor's hidden attribute), not aria-hidden, and is
// either an inherently focusable control (a[href], button, input, select,
// textarea) or carries a tabindex attribute >= 0.
func Focusable(e *Element) bool {
	if e == nil || !e.IsConnected() {
		return false
	}
	if e.HasAttr("disabled") || e.AttrOr("aria-hidden", "") == "true" {
		return false
	}
	for cur := e; cur != nil; cur = cur.parent {
		if cur.HasAttr("hidden") {
			return false
		}
	}
	if ti, ok := e.Attr("tabindex"); ok {
		n, err := strconv.Atoi(ti)
		return err == nil && n >= 0
	}
	switch e.tag {
	case "a":
		return e.HasAttr("href")
	case "button", "input", "select", "textarea":
		return true
	}
	return false
}

// FocusableDescendants returns the focusable descendants of boundary in DOM
// order. The boundary itself is not included.
func FocusableDescendants(boundary *Element) []*Element {
	var out []*Element
	boundary.walkDescendants(func(el *Element) bool {
		if Focusable(el) {
			out = append(out, el)
		}
		return true
	})
	return out
}
