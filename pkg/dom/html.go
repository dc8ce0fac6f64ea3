package dom

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ParseFragment parses an HTML fragment into detached elements owned by doc,
// as if the markup appeared inside a body element.
//
// Whitespace-only text between elements is dropped; other text becomes the
// direct text content of its parent element. Comments are ignored.
func (d *Document) ParseFragment(markup string) ([]*Element, error) {
	context := &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	}
	nodes, err := html.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		return nil, err
	}
	var out []*Element
	for _, n := range nodes {
		if el := d.convertNode(n); el != nil {
			out = append(out, el)
		}
	}
	return out, nil
}

// MustParseFragment is ParseFragment for markup known at compile time; it
// panics on parse errors.
func (d *Document) MustParseFragment(markup string) []*Element {
	els, err := d.ParseFragment(markup)
	if err != nil {
		panic(err)
	}
	return els
}

func (d *Document) convertNode(n *html.Node) *Element {
	if n.Type != html.ElementNode {
		return nil
	}
	el := d.CreateElement(strings.ToLower(n.Data))
	for _, a := range n.Attr {
		el.SetAttr(a.Key, a.Val)
	}
	var text strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			if strings.TrimSpace(c.Data) != "" {
				text.WriteString(c.Data)
			}
		case html.ElementNode:
			if child := d.convertNode(c); child != nil {
				el.AppendChild(child)
			}
		}
	}
	el.text = strings.TrimSpace(text.String())
	return el
}

// Render serializes the element and its subtree to HTML. Direct text content
// is emitted before child elements.
func Render(e *Element) string {
	var sb strings.Builder
	if err := html.Render(&sb, toHTMLNode(e)); err != nil {
		return ""
	}
	return sb.String()
}

func toHTMLNode(e *Element) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     e.tag,
		DataAtom: atom.Lookup([]byte(e.tag)),
	}
	for _, a := range e.attrs {
		n.Attr = append(n.Attr, html.Attribute{Key: a.Name, Val: a.Value})
	}
	if e.text != "" {
		n.AppendChild(&html.Node{Type: html.TextNode, Data: e.text})
	}
	for _, c := range e.children {
		n.AppendChild(toHTMLNode(c))
	}
	return n
}
