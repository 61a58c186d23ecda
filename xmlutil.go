package godeck

import (
	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"
)

// parseXML parses an XML part into an element tree. Parts written by older
// producers occasionally declare non-UTF-8 encodings, so the decoder gets a
// charset reader.
func parseXML(data []byte) (*etree.Document, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charset.NewReaderLabel
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, err
	}
	return doc, nil
}

// newXMLDoc creates an empty document with the standard declaration.
func newXMLDoc() *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)
	return doc
}

// walkElements visits e and every descendant element in document order.
// The callback must not restructure the tree; collect first when replacing
// elements.
func walkElements(e *etree.Element, fn func(*etree.Element)) {
	fn(e)
	for _, c := range e.ChildElements() {
		walkElements(c, fn)
	}
}

// collectElements returns e and all descendants matching prefix:local,
// in document order.
func collectElements(e *etree.Element, space, tag string) []*etree.Element {
	var out []*etree.Element
	walkElements(e, func(el *etree.Element) {
		if el.Space == space && el.Tag == tag {
			out = append(out, el)
		}
	})
	return out
}

// findFirst returns the first descendant (or e itself) matching prefix:local.
func findFirst(e *etree.Element, space, tag string) *etree.Element {
	if e.Space == space && e.Tag == tag {
		return e
	}
	for _, c := range e.ChildElements() {
		if found := findFirst(c, space, tag); found != nil {
			return found
		}
	}
	return nil
}
