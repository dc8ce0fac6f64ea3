package domtest

import "github.com/go-drift/enhance/pkg/dom"

// Click dispatches a bubbling click on el.
func Click(el *dom.Element) {
	el.DispatchEvent(&dom.Event{Type: "click", Bubbles: true})
}

// PressKey dispatches a bubbling keydown on el.
func PressKey(el *dom.Element, key string) {
	el.DispatchEvent(&dom.Event{Type: "keydown", Bubbles: true, Key: key})
}

// PressShiftKey dispatches a keydown with the shift modifier held.
func PressShiftKey(el *dom.Element, key string) {
	el.DispatchEvent(&dom.Event{Type: "keydown", Bubbles: true, Key: key, ShiftKey: true})
}

// TypeText appends text to the input's value one rune at a time, dispatching
// an input event per rune the way real typing does. Debounced filters see
// the full burst.
func TypeText(input *dom.Element, text string) {
	value := input.AttrOr("value", "")
	for _, r := range text {
		value += string(r)
		SetValue(input, value)
	}
}

// SetValue replaces the input's value and dispatches a single input event.
func SetValue(input *dom.Element, value string) {
	input.SetAttr("value", value)
	input.DispatchEvent(&dom.Event{Type: "input", Bubbles: true, Value: value})
}

// Hover dispatches a bubbling mouseenter on el.
func Hover(el *dom.Element) {
	el.DispatchEvent(&dom.Event{Type: "mouseenter", Bubbles: true})
}

// Leave dispatches a bubbling mouseleave on el.
func Leave(el *dom.Element) {
	el.DispatchEvent(&dom.Event{Type: "mouseleave", Bubbles: true})
}
