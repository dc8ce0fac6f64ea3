package dom

// Document owns an element tree and the transient interaction state shared
// across it: the active (focused) element and the viewport rectangle.
type Document struct {
	root          *Element
	activeElement *Element
	viewport      Rect
}

// NewDocument creates a document with an empty "body" root element and a
// default viewport.
func NewDocument() *Document {
	d := &Document{
		viewport: Rect{Width: 1024, Height: 768},
	}
	d.root = d.CreateElement("body")
	d.activeElement = d.root
	return d
}

// CreateElement creates a detached element owned by this document.
func (d *Document) CreateElement(tag string) *Element {
	return &Element{doc: d, tag: tag}
}

// Body returns the document root element.
func (d *Document) Body() *Element {
	return d.root
}

// ActiveElement returns the currently focused element. It is never nil; when
// nothing holds focus it is the body.
func (d *Document) ActiveElement() *Element {
	return d.activeElement
}

// Viewport returns the current viewport rectangle.
func (d *Document) Viewport() Rect {
	return d.viewport
}

// SetViewport updates the viewport rectangle. It does not dispatch a resize
// event; the embedding environment does that when appropriate.
func (d *Document) SetViewport(r Rect) {
	d.viewport = r
}

// Focus moves focus to el, dispatching "blur" on the previously focused
// element and "focus" on el. Both events are non-bubbling, matching browser
// semantics; capture-phase delegation still observes them. Focusing nil or a
// disconnected element moves focus to the body.
func (d *Document) Focus(el *Element) {
	if el == nil || !el.IsConnected() {
		el = d.root
	}
	prev := d.activeElement
	if prev == el {
		return
	}
	d.activeElement = el
	if prev != nil && prev.IsConnected() {
		prev.DispatchEvent(&Event{Type: "blur", RelatedTarget: el})
	}
	if el != d.root {
		el.DispatchEvent(&Event{Type: "focus", RelatedTarget: prev})
	}
}
