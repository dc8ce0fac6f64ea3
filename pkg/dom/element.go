package dom

import "strings"

// Attr is a single name/value attribute pair. Attribute order is preserved
// so serialized markup is stable.
type Attr struct {
	Name  string
	Value string
}

// Element is a node in the document tree.
//
// Elements are created through [Document.CreateElement] and belong to that
// document for their lifetime. An element is "connected" while it is
// reachable from the document root; disconnected subtrees keep their
// structure and can be re-inserted later.
type Element struct {
	doc      *Document
	parent   *Element
	children []*Element

	tag   string
	attrs []Attr
	text  string

	listeners map[string][]*Listener

	rect Rect
}

// Tag returns the element's tag name (always lower case).
func (e *Element) Tag() string {
	return e.tag
}

// Document returns the owning document.
func (e *Element) Document() *Document {
	return e.doc
}

// Parent returns the parent element, or nil for a detached element or the
// document root.
func (e *Element) Parent() *Element {
	return e.parent
}

// Children returns the element's children. The returned slice is a copy;
// mutating it does not affect the tree.
func (e *Element) Children() []*Element {
	out := make([]*Element, len(e.children))
	copy(out, e.children)
	return out
}

// FirstChild returns the first child element, or nil.
func (e *Element) FirstChild() *Element {
	if len(e.children) == 0 {
		return nil
	}
	return e.children[0]
}

// IsConnected reports whether the element is reachable from the document
// root.
func (e *Element) IsConnected() bool {
	for cur := e; cur != nil; cur = cur.parent {
		if cur == e.doc.root {
			return true
		}
	}
	return false
}

// Contains reports whether other is e or a descendant of e.
func (e *Element) Contains(other *Element) bool {
	for cur := other; cur != nil; cur = cur.parent {
		if cur == e {
			return true
		}
	}
	return false
}

// AppendChild adds child as the last child of e, detaching it from any
// previous parent first.
func (e *Element) AppendChild(child *Element) {
	child.Detach()
	child.parent = e
	e.children = append(e.children, child)
}

// InsertBefore inserts child immediately before ref among e's children.
// A nil ref appends.
func (e *Element) InsertBefore(child *Element, ref *Element) {
	if ref == nil {
		e.AppendChild(child)
		return
	}
	child.Detach()
	for i, c := range e.children {
		if c == ref {
			child.parent = e
			e.children = append(e.children[:i], append([]*Element{child}, e.children[i:]...)...)
			return
		}
	}
	e.AppendChild(child)
}

// RemoveChild removes child from e's children. It is a no-op if child is not
// a child of e.
func (e *Element) RemoveChild(child *Element) {
	if child.parent != e {
		return
	}
	for i, c := range e.children {
		if c == child {
			e.children = append(e.children[:i], e.children[i+1:]...)
			break
		}
	}
	child.parent = nil

	// Focus cannot remain on a disconnected subtree.
	if active := e.doc.activeElement; active != nil && child.Contains(active) {
		e.doc.activeElement = e.doc.root
	}
}

// Detach removes the element from its parent, if any.
func (e *Element) Detach() {
	if e.parent != nil {
		e.parent.RemoveChild(e)
	}
}

// ReplaceChildren removes all current children and appends the given ones.
func (e *Element) ReplaceChildren(children ...*Element) {
	for _, c := range e.Children() {
		e.RemoveChild(c)
	}
	for _, c := range children {
		e.AppendChild(c)
	}
}

// Attr returns the value of the named attribute and whether it is present.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// AttrOr returns the named attribute value, or fallback if absent.
func (e *Element) AttrOr(name, fallback string) string {
	if v, ok := e.Attr(name); ok {
		return v
	}
	return fallback
}

// HasAttr reports whether the named attribute is present.
func (e *Element) HasAttr(name string) bool {
	_, ok := e.Attr(name)
	return ok
}

// SetAttr sets the named attribute, preserving its position if it already
// exists.
func (e *Element) SetAttr(name, value string) {
	for i, a := range e.attrs {
		if a.Name == name {
			e.attrs[i].Value = value
			return
		}
	}
	e.attrs = append(e.attrs, Attr{Name: name, Value: value})
}

// RemoveAttr removes the named attribute if present.
func (e *Element) RemoveAttr(name string) {
	for i, a := range e.attrs {
		if a.Name == name {
			e.attrs = append(e.attrs[:i], e.attrs[i+1:]...)
			return
		}
	}
}

// Attrs returns a copy of the element's attributes in document order.
func (e *Element) Attrs() []Attr {
	out := make([]Attr, len(e.attrs))
	copy(out, e.attrs)
	return out
}

// ID returns the element's id attribute, or "".
func (e *Element) ID() string {
	return e.AttrOr("id", "")
}

// HasClass reports whether the class attribute contains the given class.
func (e *Element) HasClass(class string) bool {
	for _, c := range strings.Fields(e.AttrOr("class", "")) {
		if c == class {
			return true
		}
	}
	return false
}

// AddClass adds a class to the class attribute if not already present.
func (e *Element) AddClass(class string) {
	if e.HasClass(class) {
		return
	}
	existing := e.AttrOr("class", "")
	if existing == "" {
		e.SetAttr("class", class)
		return
	}
	e.SetAttr("class", existing+" "+class)
}

// RemoveClass removes a class from the class attribute.
func (e *Element) RemoveClass(class string) {
	fields := strings.Fields(e.AttrOr("class", ""))
	kept := fields[:0]
	for _, c := range fields {
		if c != class {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		e.RemoveAttr("class")
		return
	}
	e.SetAttr("class", strings.Join(kept, " "))
}

// Text returns the element's direct text content.
func (e *Element) Text() string {
	return e.text
}

// SetText replaces the element's direct text content.
func (e *Element) SetText(text string) {
	e.text = text
}

// TextContent returns the element's text plus that of all descendants in
// document order, joined with single spaces.
func (e *Element) TextContent() string {
	var parts []string
	e.collectText(&parts)
	return strings.Join(parts, " ")
}

func (e *Element) collectText(parts *[]string) {
	if e.text != "" {
		*parts = append(*parts, e.text)
	}
	for _, c := range e.children {
		c.collectText(parts)
	}
}

// Rect returns the element's viewport rectangle as supplied by the embedding
// environment. Elements that were never measured report a zero rect.
func (e *Element) Rect() Rect {
	return e.rect
}

// SetRect records the element's viewport rectangle.
func (e *Element) SetRect(r Rect) {
	e.rect = r
}

// Closest returns the nearest ancestor (including e itself) matching the
// selector, or nil.
func (e *Element) Closest(selector string) *Element {
	sel, err := ParseSelector(selector)
	if err != nil {
		return nil
	}
	for cur := e; cur != nil; cur = cur.parent {
		if sel.matches(cur) {
			return cur
		}
	}
	return nil
}

// Query returns the first descendant (depth-first pre-order) matching the
// selector, or nil.
func (e *Element) Query(selector string) *Element {
	sel, err := ParseSelector(selector)
	if err != nil {
		return nil
	}
	var found *Element
	e.walkDescendants(func(el *Element) bool {
		if sel.matches(el) {
			found = el
			return false
		}
		return true
	})
	return found
}

// QueryAll returns all descendants matching the selector, in document order.
func (e *Element) QueryAll(selector string) []*Element {
	sel, err := ParseSelector(selector)
	if err != nil {
		return nil
	}
	var out []*Element
	e.walkDescendants(func(el *Element) bool {
		if sel.matches(el) {
			out = append(out, el)
		}
		return true
	})
	return out
}

// walkDescendants visits descendants depth-first; the visitor returns false
// to stop the walk.
func (e *Element) walkDescendants(visit func(*Element) bool) bool {
	for _, c := range e.children {
		if !visit(c) {
			return false
		}
		if !c.walkDescendants(visit) {
			return false
		}
	}
	return true
}

// Matches reports whether the element matches the selector. Invalid
// selectors never match.
func (e *Element) Matches(selector string) bool {
	sel, err := ParseSelector(selector)
	if err != nil {
		return false
	}
	return sel.matches(e)
}

// Clone returns a deep copy of the element and its subtree. Listeners and
// rects are not cloned; the copy is detached.
func (e *Element) Clone() *Element {
	clone := e.doc.CreateElement(e.tag)
	clone.attrs = append([]Attr(nil), e.attrs...)
	clone.text = e.text
	for _, c := range e.children {
		clone.AppendChild(c.Clone())
	}
	return clone
}
