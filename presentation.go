package godeck

import (
	"fmt"
	"io"
	"strconv"

	"github.com/beevik/etree"
)

// Document is an open presentation: the OPC package plus the parsed
// presentation part and its relationship graph. Mutations are applied to the
// in-memory trees and flushed by Save / Write.
type Document struct {
	pkg      *Package
	presName string
	pres     *etree.Document
	presRels *Relationships
}

// Open loads a presentation document from disk.
func Open(filename string) (*Document, error) {
	pkg, err := OpenPackage(filename)
	if err != nil {
		return nil, wrapOp("Document", "Open", err)
	}
	d, err := newDocument(pkg)
	if err != nil {
		return nil, wrapOp("Document", "Open", err)
	}
	return d, nil
}

// OpenTemplate loads a presentation and removes every existing slide while
// keeping masters, layouts, theme, and the media they reference. The result
// is an empty document that inherits all of the template's styling.
func OpenTemplate(filename string) (*Document, error) {
	d, err := Open(filename)
	if err != nil {
		return nil, err
	}
	if err := d.removeAllSlides(); err != nil {
		return nil, wrapOp("Document", "OpenTemplate", err)
	}
	return d, nil
}

func newDocument(pkg *Package) (*Document, error) {
	pkgRels, err := pkg.relationships("/")
	if err != nil {
		return nil, err
	}

	presName := ""
	for _, rel := range pkgRels.ByType("officeDocument") {
		target := pkgRels.Resolve(rel.Target)
		if pkg.HasPart(target) {
			presName = target
			break
		}
	}
	if presName == "" && pkg.HasPart("/ppt/presentation.xml") {
		presName = "/ppt/presentation.xml"
	}
	if presName == "" {
		return nil, ErrNoPresentation
	}

	part, _ := pkg.Part(presName)
	pres, err := parseXML(part.Data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", presName, err)
	}
	presRels, err := pkg.relationships(presName)
	if err != nil {
		return nil, err
	}
	return &Document{pkg: pkg, presName: presName, pres: pres, presRels: presRels}, nil
}

// Package exposes the underlying OPC package.
func (d *Document) Package() *Package {
	return d.pkg
}

// sldIdLst returns the p:sldIdLst element, creating it when absent. A new
// list goes right after p:sldMasterIdLst so the part stays schema-ordered.
func (d *Document) sldIdLst() *etree.Element {
	root := d.pres.Root()
	if lst := root.SelectElement("p:sldIdLst"); lst != nil {
		return lst
	}
	lst := etree.NewElement("p:sldIdLst")
	if masters := root.SelectElement("p:sldMasterIdLst"); masters != nil {
		root.InsertChildAt(masters.Index()+1, lst)
	} else {
		root.AddChild(lst)
	}
	return root.SelectElement("p:sldIdLst")
}

// SlideParts returns slide part names in presentation order. The sldIdLst is
// authoritative; zip entry order and filename numbering are not.
func (d *Document) SlideParts() []string {
	var out []string
	for _, sldId := range d.sldIdLst().SelectElements("p:sldId") {
		rid := sldId.SelectAttrValue("r:id", "")
		rel := d.presRels.ByID(rid)
		if rel == nil {
			continue
		}
		out = append(out, d.presRels.Resolve(rel.Target))
	}
	return out
}

// SlideCount returns the number of slides.
func (d *Document) SlideCount() int {
	return len(d.sldIdLst().SelectElements("p:sldId"))
}

// SlidePart returns the part name of the i-th slide (0-based).
func (d *Document) SlidePart(i int) (string, error) {
	parts := d.SlideParts()
	if i < 0 || i >= len(parts) {
		return "", fmt.Errorf("slide %d of %d: %w", i, len(parts), ErrSlideOutOfRange)
	}
	return parts[i], nil
}

// masterParts returns slide master part names in sldMasterIdLst order.
func (d *Document) masterParts() []string {
	var out []string
	root := d.pres.Root()
	lst := root.SelectElement("p:sldMasterIdLst")
	if lst == nil {
		return nil
	}
	for _, id := range lst.SelectElements("p:sldMasterId") {
		rid := id.SelectAttrValue("r:id", "")
		rel := d.presRels.ByID(rid)
		if rel == nil {
			continue
		}
		out = append(out, d.presRels.Resolve(rel.Target))
	}
	return out
}

// LayoutParts returns slide layout part names across all masters, in each
// master's sldLayoutIdLst order.
func (d *Document) LayoutParts() ([]string, error) {
	var out []string
	for _, master := range d.masterParts() {
		part, ok := d.pkg.Part(master)
		if !ok {
			continue
		}
		doc, err := parseXML(part.Data)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", master, err)
		}
		rels, err := d.pkg.relationships(master)
		if err != nil {
			return nil, err
		}
		lst := findFirst(doc.Root(), "p", "sldLayoutIdLst")
		if lst == nil {
			continue
		}
		for _, id := range lst.SelectElements("p:sldLayoutId") {
			rid := id.SelectAttrValue("r:id", "")
			rel := rels.ByID(rid)
			if rel == nil {
				continue
			}
			out = append(out, rels.Resolve(rel.Target))
		}
	}
	return out, nil
}

// LayoutNames returns the display name of every layout, in LayoutParts order.
// Layouts without a cSld name attribute get their part name instead.
func (d *Document) LayoutNames() ([]string, error) {
	parts, err := d.LayoutParts()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(parts))
	for _, name := range parts {
		part, ok := d.pkg.Part(name)
		if !ok {
			names = append(names, name)
			continue
		}
		doc, err := parseXML(part.Data)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		display := name
		if cSld := findFirst(doc.Root(), "p", "cSld"); cSld != nil {
			if v := cSld.SelectAttrValue("name", ""); v != "" {
				display = v
			}
		}
		names = append(names, display)
	}
	return names, nil
}

// removeAllSlides drops every slide: sldId entries, presentation rels, and
// the slide parts themselves. Orphaned media is collected on Save.
func (d *Document) removeAllSlides() error {
	lst := d.sldIdLst()
	for _, sldId := range lst.SelectElements("p:sldId") {
		rid := sldId.SelectAttrValue("r:id", "")
		if rel := d.presRels.ByID(rid); rel != nil {
			d.pkg.RemovePart(d.presRels.Resolve(rel.Target))
			d.presRels.Remove(rid)
		}
		lst.RemoveChild(sldId)
	}
	return nil
}

// AppendSlide adds a new slide part built from the given XML document and
// relationship graph, wiring it into the presentation. Returns the new part
// name.
func (d *Document) AppendSlide(slide *etree.Document, rels *Relationships) (string, error) {
	name := d.pkg.NextPartName("/ppt/slides/slide%d.xml")

	data, err := slide.WriteToBytes()
	if err != nil {
		return "", fmt.Errorf("serialize slide: %w", err)
	}
	d.pkg.SetPart(name, ctSlide, data)

	rels.owner = name
	if err := d.pkg.setRelationships(rels); err != nil {
		return "", err
	}

	rid := d.presRels.Add(relTypeSlide, relativeTarget(d.presName, name))

	lst := d.sldIdLst()
	maxID := 255 // slide ids start at 256 per the PresentationML schema
	for _, sldId := range lst.SelectElements("p:sldId") {
		if n, err := strconv.Atoi(sldId.SelectAttrValue("id", "")); err == nil && n > maxID {
			maxID = n
		}
	}
	sldId := lst.CreateElement("p:sldId")
	sldId.CreateAttr("id", strconv.Itoa(maxID+1))
	sldId.CreateAttr("r:id", rid)

	return name, nil
}

// flush serializes the presentation part and its rels into the package.
func (d *Document) flush() error {
	data, err := d.pres.WriteToBytes()
	if err != nil {
		return fmt.Errorf("serialize presentation: %w", err)
	}
	part, _ := d.pkg.Part(d.presName)
	ct := ctPresentation
	if part != nil && part.ContentType != "" {
		ct = part.ContentType
	}
	d.pkg.SetPart(d.presName, ct, data)
	return d.pkg.setRelationships(d.presRels)
}

// Save flushes pending changes, drops unreachable parts, and writes the
// package to disk.
func (d *Document) Save(filename string) error {
	if err := d.flush(); err != nil {
		return wrapOp("Document", "Save", err)
	}
	d.pkg.dropUnreachable()
	if err := d.pkg.Save(filename); err != nil {
		return wrapOp("Document", "Save", err)
	}
	return nil
}

// Write flushes pending changes, drops unreachable parts, and serializes the
// package to w.
func (d *Document) Write(w io.Writer) error {
	if err := d.flush(); err != nil {
		return wrapOp("Document", "Write", err)
	}
	d.pkg.dropUnreachable()
	if err := d.pkg.Write(w); err != nil {
		return wrapOp("Document", "Write", err)
	}
	return nil
}

// slideXML parses the i-th slide part.
func (d *Document) slideXML(i int) (*etree.Document, string, error) {
	name, err := d.SlidePart(i)
	if err != nil {
		return nil, "", err
	}
	part, ok := d.pkg.Part(name)
	if !ok {
		return nil, "", fmt.Errorf("slide part %s missing", name)
	}
	doc, err := parseXML(part.Data)
	if err != nil {
		return nil, "", fmt.Errorf("parse %s: %w", name, err)
	}
	return doc, name, nil
}
