// Package fb2 reads and writes FictionBook 2 metadata. FB2 is a single XML
// document; both directions operate on the parsed tree so unrelated markup
// survives a write untouched.
package fb2

import (
	"strings"

	"github.com/beevik/etree"
)

// ns carries the namespace prefix the document declares for the FictionBook
// vocabulary. The namespace may be the default one (empty prefix), declared
// under any prefix, or missing entirely.
type ns struct {
	prefix string
}

// detectNS inspects the root element's xmlns declarations for the
// FictionBook namespace and falls back to the default namespace.
func detectNS(root *etree.Element) ns {
	for _, a := range root.Attr {
		switch {
		case a.Space == "xmlns":
			if strings.Contains(strings.ToLower(a.Value), "fictionbook") {
				return ns{prefix: a.Key}
			}
		case a.Space == "" && a.Key == "xmlns":
			if strings.Contains(strings.ToLower(a.Value), "fictionbook") {
				return ns{prefix: ""}
			}
		}
	}
	return ns{prefix: root.Space}
}

func (n ns) is(e *etree.Element, tag string) bool {
	return e != nil && e.Tag == tag && e.Space == n.prefix
}

// child returns the first direct child with the given local tag.
func (n ns) child(parent *etree.Element, tag string) *etree.Element {
	for _, e := range parent.ChildElements() {
		if n.is(e, tag) {
			return e
		}
	}
	return nil
}

// find returns the first matching descendant, depth first.
func (n ns) find(el *etree.Element, tag string) *etree.Element {
	for _, e := range el.ChildElements() {
		if n.is(e, tag) {
			return e
		}
		if found := n.find(e, tag); found != nil {
			return found
		}
	}
	return nil
}

// findAll returns every matching descendant, depth first.
func (n ns) findAll(el *etree.Element, tag string) []*etree.Element {
	var out []*etree.Element
	for _, e := range el.ChildElements() {
		if n.is(e, tag) {
			out = append(out, e)
		}
		out = append(out, n.findAll(e, tag)...)
	}
	return out
}

// create appends a new child element in the document's FB2 namespace.
func (n ns) create(parent *etree.Element, tag string) *etree.Element {
	el := parent.CreateElement(tag)
	el.Space = n.prefix
	return el
}

// childOrCreate returns the first direct child with the tag, creating it
// when absent.
func (n ns) childOrCreate(parent *etree.Element, tag string) *etree.Element {
	if el := n.child(parent, tag); el != nil {
		return el
	}
	return n.create(parent, tag)
}

// allText concatenates every character data descendant, the way a reader
// renders an annotation with inline markup.
func allText(el *etree.Element) string {
	var b strings.Builder
	var walk func(*etree.Element)
	walk = func(e *etree.Element) {
		for _, tok := range e.Child {
			switch t := tok.(type) {
			case *etree.CharData:
				b.WriteString(t.Data)
			case *etree.Element:
				walk(t)
			}
		}
	}
	walk(el)
	return b.String()
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
