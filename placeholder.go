package godeck

import (
	"github.com/beevik/etree"
)

// shapeTags lists the spTree children that count as shapes for placeholder
// classification.
var shapeTags = map[string]bool{
	"sp":           true,
	"grpSp":        true,
	"pic":          true,
	"graphicFrame": true,
	"cxnSp":        true,
}

func isShapeElement(el *etree.Element) bool {
	return el.Space == "p" && shapeTags[el.Tag]
}

// placeholderElement returns the p:ph element of a shape, or nil when the
// shape is not a placeholder. Only p:sp shapes carry placeholder refs.
func placeholderElement(sp *etree.Element) *etree.Element {
	if sp.Space != "p" || sp.Tag != "sp" {
		return nil
	}
	nvSpPr := sp.SelectElement("p:nvSpPr")
	if nvSpPr == nil {
		return nil
	}
	nvPr := nvSpPr.SelectElement("p:nvPr")
	if nvPr == nil {
		return nil
	}
	return nvPr.SelectElement("p:ph")
}

// placeholderKey classifies a placeholder shape by its type attribute, or by
// "_idx_<idx>" when the type is empty. ok is false for non-placeholders.
func placeholderKey(sp *etree.Element) (key string, ok bool) {
	ph := placeholderElement(sp)
	if ph == nil {
		return "", false
	}
	if t := ph.SelectAttrValue("type", ""); t != "" {
		return t, true
	}
	return "_idx_" + ph.SelectAttrValue("idx", ""), true
}

// isTitleShape reports whether the shape is a title or centered-title
// placeholder.
func isTitleShape(sp *etree.Element) bool {
	ph := placeholderElement(sp)
	if ph == nil {
		return false
	}
	t := ph.SelectAttrValue("type", "")
	return t == "title" || t == "ctrTitle"
}

// removePlaceholderRef strips the p:ph element so the shape becomes a plain
// shape that keeps its own geometry and formatting.
func removePlaceholderRef(sp *etree.Element) {
	ph := placeholderElement(sp)
	if ph != nil {
		ph.Parent().RemoveChild(ph)
	}
}

// copyPlaceholderContent moves the text paragraphs of src into dst, keeping
// dst's bodyPr and lstStyle so the template layout's text framing applies.
func copyPlaceholderContent(src, dst *etree.Element) {
	srcBody := src.SelectElement("p:txBody")
	dstBody := dst.SelectElement("p:txBody")
	if srcBody == nil || dstBody == nil {
		return
	}
	for _, p := range dstBody.SelectElements("a:p") {
		dstBody.RemoveChild(p)
	}
	for _, p := range srcBody.SelectElements("a:p") {
		dstBody.AddChild(p.Copy())
	}
}

// mapPlaceholders transfers content from a source slide's spTree into a
// destination spTree that already holds the template layout's placeholders.
// Text of matching placeholders is mapped in place; non-placeholder shapes
// are appended as-is; unmatched source placeholders are appended demoted to
// plain shapes. ridMap rewrites relationship ids on appended shapes.
func mapPlaceholders(srcSpTree, dstSpTree *etree.Element, ridMap map[string]string) {
	srcByKey := make(map[string]*etree.Element)
	var srcKeys []string
	var srcOther []*etree.Element

	for _, child := range srcSpTree.ChildElements() {
		if !isShapeElement(child) {
			continue
		}
		if key, ok := placeholderKey(child); ok {
			if _, seen := srcByKey[key]; !seen {
				srcByKey[key] = child
				srcKeys = append(srcKeys, key)
			}
		} else {
			srcOther = append(srcOther, child)
		}
	}

	matched := make(map[string]bool)
	for _, dstChild := range dstSpTree.ChildElements() {
		key, ok := placeholderKey(dstChild)
		if !ok || matched[key] {
			continue
		}
		if src, found := srcByKey[key]; found {
			copyPlaceholderContent(src, dstChild)
			matched[key] = true
		}
	}

	for _, sp := range srcOther {
		clone := sp.Copy()
		updateRIDs(clone, ridMap)
		dstSpTree.AddChild(clone)
	}
	for _, key := range srcKeys {
		if matched[key] {
			continue
		}
		clone := srcByKey[key].Copy()
		updateRIDs(clone, ridMap)
		removePlaceholderRef(clone)
		dstSpTree.AddChild(clone)
	}
}
