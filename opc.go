package godeck

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"strings"
)

const (
	contentTypesName = "[Content_Types].xml"

	ctRelationships = "application/vnd.openxmlformats-package.relationships+xml"
	ctPresentation  = "application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"
	ctSlide         = "application/vnd.openxmlformats-officedocument.presentationml.slide+xml"
)

// mediaExtensions maps image content types to the file extension used when a
// copied media part gets a fresh name. Unknown types fall back to .bin.
var mediaExtensions = map[string]string{
	"image/png":     ".png",
	"image/jpeg":    ".jpg",
	"image/gif":     ".gif",
	"image/bmp":     ".bmp",
	"image/tiff":    ".tiff",
	"image/svg+xml": ".svg",
	"image/x-emf":   ".emf",
	"image/x-wmf":   ".wmf",
}

// Part is a single file inside an OPC package. Name is the absolute part name
// with a leading slash, e.g. /ppt/slides/slide1.xml.
type Part struct {
	Name        string
	ContentType string
	Data        []byte
}

// Package is an in-memory OPC package: the part map plus the content-type
// index ([Content_Types].xml defaults and overrides).
type Package struct {
	parts     map[string]*Part
	defaults  map[string]string // lower-case extension without dot -> content type
	overrides map[string]string // part name -> content type
}

// OpenPackage reads a .pptx (or any OPC package) from disk.
func OpenPackage(filename string) (*Package, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open package: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat package: %w", err)
	}
	return ReadPackage(f, info.Size())
}

// ReadPackage reads an OPC package from r.
func ReadPackage(r io.ReaderAt, size int64) (*Package, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("read zip: %w", err)
	}

	p := &Package{
		parts:     make(map[string]*Part),
		defaults:  make(map[string]string),
		overrides: make(map[string]string),
	}

	var ctData []byte
	for _, zf := range zr.File {
		data, err := readZipEntry(zf)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", zf.Name, err)
		}
		if zf.Name == contentTypesName {
			ctData = data
			continue
		}
		name := "/" + strings.TrimPrefix(zf.Name, "/")
		p.parts[name] = &Part{Name: name, Data: data}
	}
	if ctData == nil {
		return nil, ErrNotPackage
	}
	if err := p.parseContentTypes(ctData); err != nil {
		return nil, fmt.Errorf("parse content types: %w", err)
	}

	for _, part := range p.parts {
		part.ContentType = p.contentTypeOf(part.Name)
	}
	return p, nil
}

func readZipEntry(zf *zip.File) ([]byte, error) {
	rc, err := zf.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func (p *Package) parseContentTypes(data []byte) error {
	doc, err := parseXML(data)
	if err != nil {
		return err
	}
	root := doc.Root()
	if root == nil {
		return fmt.Errorf("empty [Content_Types].xml")
	}
	for _, el := range root.ChildElements() {
		switch el.Tag {
		case "Default":
			ext := strings.ToLower(el.SelectAttrValue("Extension", ""))
			ct := el.SelectAttrValue("ContentType", "")
			if ext != "" && ct != "" {
				p.defaults[ext] = ct
			}
		case "Override":
			name := el.SelectAttrValue("PartName", "")
			ct := el.SelectAttrValue("ContentType", "")
			if name != "" && ct != "" {
				p.overrides[name] = ct
			}
		}
	}
	return nil
}

// contentTypeOf resolves the content type of a part name, override first,
// then extension default.
func (p *Package) contentTypeOf(name string) string {
	if ct, ok := p.overrides[name]; ok {
		return ct
	}
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
	return p.defaults[ext]
}

// Part returns the named part, if present.
func (p *Package) Part(name string) (*Part, bool) {
	part, ok := p.parts[name]
	return part, ok
}

// HasPart reports whether the package contains the named part.
func (p *Package) HasPart(name string) bool {
	_, ok := p.parts[name]
	return ok
}

// SetPart stores a part and registers its content type. When the extension
// default already yields the right type no override is written.
func (p *Package) SetPart(name, contentType string, data []byte) {
	p.parts[name] = &Part{Name: name, ContentType: contentType, Data: data}
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
	if p.defaults[ext] == contentType {
		delete(p.overrides, name)
		return
	}
	p.overrides[name] = contentType
}

// RemovePart removes a part, its content-type override, and its rels part.
func (p *Package) RemovePart(name string) {
	delete(p.parts, name)
	delete(p.overrides, name)
	rels := relsPartName(name)
	delete(p.parts, rels)
	delete(p.overrides, rels)
}

// PartNames returns all part names in sorted order.
func (p *Package) PartNames() []string {
	names := make([]string, 0, len(p.parts))
	for name := range p.parts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NextPartName returns the pattern instantiated with the lowest positive
// integer that names no existing part. Pattern example:
// "/ppt/slides/slide%d.xml".
func (p *Package) NextPartName(pattern string) string {
	for n := 1; ; n++ {
		name := fmt.Sprintf(pattern, n)
		if !p.HasPart(name) {
			return name
		}
	}
}

// relsPartName returns the rels part that owns relationships for the given
// part: dir/_rels/base.rels. The package-level graph lives at /_rels/.rels.
func relsPartName(partName string) string {
	if partName == "" || partName == "/" {
		return "/_rels/.rels"
	}
	dir := path.Dir(partName)
	if dir == "/" {
		dir = ""
	}
	return dir + "/_rels/" + path.Base(partName) + ".rels"
}

// Save writes the package to disk.
func (p *Package) Save(filename string) error {
	var buf bytes.Buffer
	if err := p.Write(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(filename, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write package: %w", err)
	}
	return nil
}

// Write serializes the package as a zip: content types first, then parts in
// sorted name order, so output is deterministic for identical input.
func (p *Package) Write(w io.Writer) error {
	zw := zip.NewWriter(w)

	ctData, err := p.buildContentTypes()
	if err != nil {
		return fmt.Errorf("build content types: %w", err)
	}
	if err := writeZipEntry(zw, contentTypesName, ctData); err != nil {
		return err
	}
	for _, name := range p.PartNames() {
		if err := writeZipEntry(zw, strings.TrimPrefix(name, "/"), p.parts[name].Data); err != nil {
			return err
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("close zip: %w", err)
	}
	return nil
}

func writeZipEntry(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("create zip entry %s: %w", name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write zip entry %s: %w", name, err)
	}
	return nil
}

func (p *Package) buildContentTypes() ([]byte, error) {
	// The rels default must exist or nothing resolves after a round trip.
	if _, ok := p.defaults["rels"]; !ok {
		p.defaults["rels"] = ctRelationships
	}

	doc := newXMLDoc()
	root := doc.CreateElement("Types")
	root.CreateAttr("xmlns", "http://schemas.openxmlformats.org/package/2006/content-types")

	exts := make([]string, 0, len(p.defaults))
	for ext := range p.defaults {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	for _, ext := range exts {
		el := root.CreateElement("Default")
		el.CreateAttr("Extension", ext)
		el.CreateAttr("ContentType", p.defaults[ext])
	}

	names := make([]string, 0, len(p.overrides))
	for name := range p.overrides {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if !p.HasPart(name) {
			continue
		}
		el := root.CreateElement("Override")
		el.CreateAttr("PartName", name)
		el.CreateAttr("ContentType", p.overrides[name])
	}
	return doc.WriteToBytes()
}

// dropUnreachable removes parts not reachable from the package relationship
// graph. Mirrors how the upstream format writers only serialize the reachable
// part graph, so stripped slides do not leave orphan media behind.
func (p *Package) dropUnreachable() {
	reachable := make(map[string]bool)

	var visit func(partName string)
	visit = func(partName string) {
		if reachable[partName] {
			return
		}
		reachable[partName] = true

		relsName := relsPartName(partName)
		relsPart, ok := p.parts[relsName]
		if !ok {
			return
		}
		reachable[relsName] = true
		rels, err := parseRelationships(partName, relsPart.Data)
		if err != nil {
			return
		}
		for _, rel := range rels.All() {
			if rel.External {
				continue
			}
			target := rels.Resolve(rel.Target)
			if p.HasPart(target) {
				visit(target)
			}
		}
	}
	visit("/")

	for name := range p.parts {
		if !reachable[name] {
			delete(p.parts, name)
			delete(p.overrides, name)
		}
	}
}

// mediaExtension returns the canonical extension for an image content type.
func mediaExtension(contentType string) string {
	if ext, ok := mediaExtensions[contentType]; ok {
		return ext
	}
	return ".bin"
}
