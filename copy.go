package godeck

import (
	"bytes"
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/google/uuid"
)

// CopyOptions controls how a single slide is copied and restyled.
type CopyOptions struct {
	// LayoutIndex selects the destination template layout (0-based).
	LayoutIndex int
	// TemplateBackground keeps the template's layout/master background.
	// When false the source slide's explicit background, if any, is carried
	// over.
	TemplateBackground bool
	// RemapFonts rewrites hardcoded fonts to theme font roles.
	RemapFonts bool
	// RemapColors rewrites literal colors matching SourceThemeColors to
	// theme color slots.
	RemapColors bool
	// SourceThemeColors is the source document's color scheme, as returned
	// by ThemeColors. Required for color remapping.
	SourceThemeColors map[string]string
	// MapPlaceholders maps source content into the template layout's
	// placeholder shapes instead of replacing the shape tree wholesale.
	MapPlaceholders bool
}

// DefaultCopyOptions mirrors the assembly defaults: first layout, template
// background, both remaps on, wholesale shape transfer.
func DefaultCopyOptions() CopyOptions {
	return CopyOptions{
		TemplateBackground: true,
		RemapFonts:         true,
		RemapColors:        true,
	}
}

const slideSkeleton = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"><p:cSld><p:spTree><p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/><a:chOff x="0" y="0"/><a:chExt cx="0" cy="0"/></a:xfrm></p:grpSpPr></p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sld>`

// newSlideFromLayout builds a fresh slide XML document for the given layout
// part: the minimal slide skeleton plus clones of the layout's placeholder
// shapes. Date, footer, and slide-number placeholders are not cloned; they
// render from the layout itself.
func newSlideFromLayout(d *Document, layoutPart string) (*etree.Document, error) {
	slide := etree.NewDocument()
	if err := slide.ReadFromString(slideSkeleton); err != nil {
		return nil, fmt.Errorf("slide skeleton: %w", err)
	}
	spTree := findFirst(slide.Root(), "p", "spTree")

	part, ok := d.pkg.Part(layoutPart)
	if !ok {
		return nil, fmt.Errorf("layout part %s missing", layoutPart)
	}
	layout, err := parseXML(part.Data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", layoutPart, err)
	}
	layoutTree := findFirst(layout.Root(), "p", "spTree")
	if layoutTree == nil {
		return slide, nil
	}

	nextShapeID := 2
	for _, child := range layoutTree.ChildElements() {
		ph := placeholderElement(child)
		if ph == nil {
			continue
		}
		switch ph.SelectAttrValue("type", "") {
		case "dt", "ftr", "sldNum":
			continue
		}
		clone := child.Copy()
		if cNvPr := findFirst(clone, "p", "cNvPr"); cNvPr != nil {
			cNvPr.CreateAttr("id", strconv.Itoa(nextShapeID))
			nextShapeID++
		}
		spTree.AddChild(clone)
	}
	return slide, nil
}

// copiedMediaName allocates a collision-proof part name for a copied media
// blob, using the content type to pick the extension.
func copiedMediaName(contentType string) string {
	tag := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return "/ppt/media/copied_" + tag + mediaExtension(contentType)
}

// freshPartPattern turns a part name into a NextPartName pattern in the same
// directory: /ppt/charts/chart1.xml -> /ppt/charts/chart%d.xml.
func freshPartPattern(name string) string {
	dir := path.Dir(name)
	ext := path.Ext(name)
	stem := strings.TrimSuffix(path.Base(name), ext)
	stem = strings.TrimRight(stem, "0123456789")
	return dir + "/" + stem + "%d" + ext
}

// copyPartTree copies a part and everything reachable through its internal
// relationships from src into dst, returning the part's destination name.
// A destination part with the same name and the same bytes is reused; a name
// collision with different bytes gets a fresh numbered name in the same
// directory, so merging sources that both carry e.g. /ppt/charts/chart1.xml
// cannot alias one source's part onto the other's. The copied part's own
// relationship graph is rebuilt with original rIds (its XML references them)
// and child targets re-resolved to wherever the children landed. copied memos
// source name to destination name within one slide copy and terminates
// cycles.
func copyPartTree(dst, src *Package, partName string, copied map[string]string) (string, error) {
	if dstName, ok := copied[partName]; ok {
		return dstName, nil
	}
	part, ok := src.Part(partName)
	if !ok {
		return "", fmt.Errorf("part %s missing from source", partName)
	}

	dstName := partName
	if existing, ok := dst.Part(partName); ok {
		if bytes.Equal(existing.Data, part.Data) {
			copied[partName] = partName
			return partName, nil
		}
		dstName = dst.NextPartName(freshPartPattern(partName))
	}
	copied[partName] = dstName
	dst.SetPart(dstName, part.ContentType, part.Data)

	srcRels, err := src.relationships(partName)
	if err != nil {
		return "", err
	}
	if len(srcRels.All()) == 0 {
		return dstName, nil
	}
	dstRels := emptyRelationships(dstName)
	for _, rel := range srcRels.All() {
		if rel.External {
			dstRels.rels = append(dstRels.rels, &Relationship{
				ID: rel.ID, Type: rel.Type, Target: rel.Target, External: true,
			})
			continue
		}
		childName, err := copyPartTree(dst, src, srcRels.Resolve(rel.Target), copied)
		if err != nil {
			return "", err
		}
		dstRels.rels = append(dstRels.rels, &Relationship{
			ID: rel.ID, Type: rel.Type, Target: relativeTarget(dstName, childName),
		})
	}
	if err := dst.setRelationships(dstRels); err != nil {
		return "", err
	}
	return dstName, nil
}

// cloneSlideRels copies a source slide's relationships into a fresh
// destination graph, skipping the layout and notes edges (the destination
// slide has its own layout and no notes). Image blobs are duplicated under
// fresh media names so merged sources cannot collide on part names; other
// internal targets (charts, embedded objects, slide-jump targets) are copied
// with their part graph via copyPartTree. Targets are written relative to
// slideAnchor, a stand-in name in the slides directory: the real part name is
// allocated only after cloning, so parts copied into /ppt/slides/ cannot
// claim it first. Returns the old-rId to new-rId map.
func cloneSlideRels(dst *Document, src *Document, srcSlidePart string, dstRels *Relationships, slideAnchor string) (map[string]string, error) {
	srcRels, err := src.pkg.relationships(srcSlidePart)
	if err != nil {
		return nil, err
	}

	ridMap := make(map[string]string)
	copied := make(map[string]string)
	for _, rel := range srcRels.All() {
		if strings.Contains(rel.Type, "slideLayout") || strings.Contains(rel.Type, "notesSlide") {
			continue
		}
		if rel.External {
			ridMap[rel.ID] = dstRels.AddExternal(rel.Type, rel.Target)
			continue
		}

		target := srcRels.Resolve(rel.Target)
		if strings.Contains(rel.Type, "image") {
			part, ok := src.pkg.Part(target)
			if !ok {
				return nil, fmt.Errorf("image part %s missing from source", target)
			}
			newName := copiedMediaName(part.ContentType)
			dst.pkg.SetPart(newName, part.ContentType, part.Data)
			ridMap[rel.ID] = dstRels.Add(rel.Type, relativeTarget(slideAnchor, newName))
			continue
		}

		dstTarget, err := copyPartTree(dst.pkg, src.pkg, target, copied)
		if err != nil {
			return nil, err
		}
		ridMap[rel.ID] = dstRels.Add(rel.Type, relativeTarget(slideAnchor, dstTarget))
	}
	return ridMap, nil
}

// CopySlide copies the srcIndex-th slide of src into dst, restyled per opts.
// Returns the new slide's part name.
func CopySlide(dst *Document, src *Document, srcIndex int, opts CopyOptions) (string, error) {
	srcSlide, srcSlidePart, err := src.slideXML(srcIndex)
	if err != nil {
		return "", wrapOp("CopySlide", "source", err)
	}

	layouts, err := dst.LayoutParts()
	if err != nil {
		return "", wrapOp("CopySlide", "layouts", err)
	}
	if opts.LayoutIndex < 0 || opts.LayoutIndex >= len(layouts) {
		return "", wrapOp("CopySlide", "layouts",
			fmt.Errorf("layout %d of %d: %w", opts.LayoutIndex, len(layouts), ErrLayoutOutOfRange))
	}
	layoutPart := layouts[opts.LayoutIndex]

	newSlide, err := newSlideFromLayout(dst, layoutPart)
	if err != nil {
		return "", wrapOp("CopySlide", "newSlide", err)
	}

	// Relationship targets depend only on the owning directory, so they are
	// written against a stand-in name now and the real part name is allocated
	// by AppendSlide after cloning. A slide-jump target copied into
	// /ppt/slides/ during cloning therefore cannot take the new slide's name.
	const slideAnchor = "/ppt/slides/slide.xml"
	dstRels := emptyRelationships(slideAnchor)
	dstRels.Add(relTypeSlideLayout, relativeTarget(slideAnchor, layoutPart))

	ridMap, err := cloneSlideRels(dst, src, srcSlidePart, dstRels, slideAnchor)
	if err != nil {
		return "", wrapOp("CopySlide", "relationships", err)
	}

	srcCSld := findFirst(srcSlide.Root(), "p", "cSld")
	srcSpTree := findFirst(srcSlide.Root(), "p", "spTree")
	dstCSld := findFirst(newSlide.Root(), "p", "cSld")
	dstSpTree := findFirst(newSlide.Root(), "p", "spTree")
	if srcSpTree == nil || dstSpTree == nil {
		return "", wrapOp("CopySlide", "shapes", fmt.Errorf("slide %s has no shape tree", srcSlidePart))
	}

	if opts.MapPlaceholders {
		mapPlaceholders(srcSpTree, dstSpTree, ridMap)
	} else {
		clone := srcSpTree.Copy()
		updateRIDs(clone, ridMap)
		dstCSld.InsertChildAt(dstSpTree.Index(), clone)
		dstCSld.RemoveChild(dstSpTree)
		dstSpTree = clone
	}

	if opts.RemapFonts {
		remapFontsToTheme(dstSpTree)
	}
	if opts.RemapColors && len(opts.SourceThemeColors) > 0 {
		remapColorsToTheme(dstSpTree, opts.SourceThemeColors)
	}

	if !opts.TemplateBackground && srcCSld != nil {
		if bg := srcCSld.SelectElement("p:bg"); bg != nil {
			dstCSld.InsertChildAt(dstSpTree.Index(), bg.Copy())
		}
	}

	name, err := dst.AppendSlide(newSlide, dstRels)
	if err != nil {
		return "", wrapOp("CopySlide", "append", err)
	}
	return name, nil
}
