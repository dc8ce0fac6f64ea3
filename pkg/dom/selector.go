package dom

import (
	"fmt"
	"strings"
)

// Selector is a parsed CSS selector covering the subset the runtime needs
// for delegation matching and finders:
//
//   - universal: *
//   - tag: button
//   - id: #panel-1
//   - class: .enh-toggle
//   - attribute presence and exact value: [hidden], [data-kind=dialog]
//   - negation of one simple selector: :not([disabled])
//   - compound combinations of the above: button.enh-toggle[aria-expanded]
//   - one descendant combinator: .enh-listbox button
//   - comma-separated groups: button, [tabindex]
//
// Anything else is a parse error.
type Selector struct {
	groups []selectorGroup
	source string
}

// selectorGroup is one comma-separated alternative: an optional ancestor
// compound plus the subject compound.
type selectorGroup struct {
	ancestor *compound
	subject  compound
}

// compound is a set of simple selector constraints that must all hold on a
// single element.
type compound struct {
	tag     string
	id      string
	classes []string
	attrs   []attrMatch
	nots    []compound
}

type attrMatch struct {
	name  string
	value string
	exact bool
}

// ParseSelector parses a selector string. The zero-value subset is
// documented on [Selector].
func ParseSelector(s string) (*Selector, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil, fmt.Errorf("empty selector")
	}
	sel := &Selector{source: trimmed}
	for _, part := range strings.Split(trimmed, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, fmt.Errorf("selector %q: empty group", s)
		}
		segments := strings.Fields(part)
		var group selectorGroup
		switch len(segments) {
		case 1:
			subject, err := parseCompound(segments[0])
			if err != nil {
				return nil, fmt.Errorf("selector %q: %w", s, err)
			}
			group.subject = subject
		case 2:
			ancestor, err := parseCompound(segments[0])
			if err != nil {
				return nil, fmt.Errorf("selector %q: %w", s, err)
			}
			subject, err := parseCompound(segments[1])
			if err != nil {
				return nil, fmt.Errorf("selector %q: %w", s, err)
			}
			group.ancestor = &ancestor
			group.subject = subject
		default:
			return nil, fmt.Errorf("selector %q: at most one descendant combinator is supported", s)
		}
		sel.groups = append(sel.groups, group)
	}
	return sel, nil
}

// MustParseSelector parses a selector and panics on error. For selectors
// known at compile time.
func MustParseSelector(s string) *Selector {
	sel, err := ParseSelector(s)
	if err != nil {
		panic(err)
	}
	return sel
}

// String returns the selector source text.
func (s *Selector) String() string {
	return s.source
}

// Matches reports whether el matches the selector.
func (s *Selector) Matches(el *Element) bool {
	return s.matches(el)
}

func (s *Selector) matches(el *Element) bool {
	if el == nil {
		return false
	}
	for _, g := range s.groups {
		if !g.subject.matches(el) {
			continue
		}
		if g.ancestor == nil {
			return true
		}
		for cur := el.parent; cur != nil; cur = cur.parent {
			if g.ancestor.matches(cur) {
				return true
			}
		}
	}
	return false
}

func (c *compound) matches(el *Element) bool {
	if c.tag != "" && c.tag != "*" && el.tag != c.tag {
		return false
	}
	if c.id != "" && el.ID() != c.id {
		return false
	}
	for _, class := range c.classes {
		if !el.HasClass(class) {
			return false
		}
	}
	for _, am := range c.attrs {
		v, ok := el.Attr(am.name)
		if !ok {
			return false
		}
		if am.exact && v != am.value {
			return false
		}
	}
	for i := range c.nots {
		if c.nots[i].matches(el) {
			return false
		}
	}
	return true
}

func parseCompound(s string) (compound, error) {
	var c compound
	i := 0
	for i < len(s) {
		switch s[i] {
		case '#':
			name, next, err := scanIdent(s, i+1)
			if err != nil {
				return c, err
			}
			c.id = name
			i = next
		case '.':
			name, next, err := scanIdent(s, i+1)
			if err != nil {
				return c, err
			}
			c.classes = append(c.classes, name)
			i = next
		case '[':
			am, next, err := scanAttr(s, i+1)
			if err != nil {
				return c, err
			}
			c.attrs = append(c.attrs, am)
			i = next
		case ':':
			if !strings.HasPrefix(s[i:], ":not(") {
				return c, fmt.Errorf("unsupported pseudo-class at %q", s[i:])
			}
			end := strings.IndexByte(s[i:], ')')
			if end < 0 {
				return c, fmt.Errorf("unterminated :not( in %q", s)
			}
			inner, err := parseCompound(s[i+len(":not(") : i+end])
			if err != nil {
				return c, err
			}
			if len(inner.nots) > 0 {
				return c, fmt.Errorf("nested :not() is not supported in %q", s)
			}
			c.nots = append(c.nots, inner)
			i += end + 1
		case '*':
			c.tag = "*"
			i++
		default:
			name, next, err := scanIdent(s, i)
			if err != nil {
				return c, err
			}
			if c.tag != "" || c.id != "" || len(c.classes) > 0 || len(c.attrs) > 0 {
				return c, fmt.Errorf("tag name must lead the compound in %q", s)
			}
			c.tag = strings.ToLower(name)
			i = next
		}
	}
	if c.tag == "" && c.id == "" && len(c.classes) == 0 && len(c.attrs) == 0 && len(c.nots) == 0 {
		return c, fmt.Errorf("empty compound selector")
	}
	return c, nil
}

func scanIdent(s string, start int) (string, int, error) {
	i := start
	for i < len(s) && isIdentChar(s[i]) {
		i++
	}
	if i == start {
		return "", 0, fmt.Errorf("expected identifier at %q", s[start:])
	}
	return s[start:i], i, nil
}

func scanAttr(s string, start int) (attrMatch, int, error) {
	end := strings.IndexByte(s[start:], ']')
	if end < 0 {
		return attrMatch{}, 0, fmt.Errorf("unterminated attribute selector in %q", s)
	}
	body := s[start : start+end]
	next := start + end + 1

	eq := strings.IndexByte(body, '=')
	if eq < 0 {
		if body == "" {
			return attrMatch{}, 0, fmt.Errorf("empty attribute selector in %q", s)
		}
		return attrMatch{name: body}, next, nil
	}
	name := body[:eq]
	value := body[eq+1:]
	value = strings.Trim(value, `"'`)
	if name == "" {
		return attrMatch{}, 0, fmt.Errorf("empty attribute name in %q", s)
	}
	return attrMatch{name: name, value: value, exact: true}, next, nil
}

func isIdentChar(b byte) bool {
	return b == '-' || b == '_' ||
		(b >= '0' && b <= '9') ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z')
}
