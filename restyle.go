package godeck

import (
	"strings"

	"github.com/beevik/etree"
)

// fontRoleSuffix maps the DrawingML font element to its theme font role
// suffix: a:latin -> -lt, a:ea -> -ea, a:cs -> -cs.
var fontRoleSuffix = map[string]string{
	"latin": "-lt",
	"ea":    "-ea",
	"cs":    "-cs",
}

// fontMetricAttrs are typeface metric hints that describe the literal font
// and must not survive a rewrite to a theme role.
var fontMetricAttrs = []string{"panose", "pitchFamily", "charset"}

// remapFontToRole rewrites one font element's typeface to the theme role
// given by prefix ("+mj" or "+mn"). Existing theme references are untouched.
func remapFontToRole(el *etree.Element, prefix string) {
	if strings.HasPrefix(el.SelectAttrValue("typeface", ""), "+") {
		return
	}
	suffix, ok := fontRoleSuffix[el.Tag]
	if !ok || el.Space != "a" {
		return
	}
	el.CreateAttr("typeface", prefix+suffix)
	for _, attr := range fontMetricAttrs {
		el.RemoveAttr(attr)
	}
}

// remapFontsToTheme rewrites every hardcoded font reference under spTree to a
// theme font role: title placeholder shapes get the major font (+mj-*),
// everything else, including table text inside graphic frames, gets the
// minor font (+mn-*). The output then follows the template's theme fonts and
// survives machines that lack the source fonts.
func remapFontsToTheme(spTree *etree.Element) {
	processed := make(map[*etree.Element]bool)

	for _, sp := range collectElements(spTree, "p", "sp") {
		prefix := "+mn"
		if isTitleShape(sp) {
			prefix = "+mj"
		}
		for tag := range fontRoleSuffix {
			for _, el := range collectElements(sp, "a", tag) {
				remapFontToRole(el, prefix)
				processed[el] = true
			}
		}
	}

	for tag := range fontRoleSuffix {
		for _, el := range collectElements(spTree, "a", tag) {
			if !processed[el] {
				remapFontToRole(el, "+mn")
			}
		}
	}
}

// remapColorsToTheme replaces hardcoded a:srgbClr values that exactly match a
// source theme color with the corresponding a:schemeClr slot reference, so
// colors that were theme-derived in the source adapt to the destination
// template's theme. Child modifiers (alpha, tint, shade, lumMod, lumOff, ...)
// are preserved; non-matching literal colors stay as they are.
func remapColorsToTheme(spTree *etree.Element, srcColors map[string]string) {
	hexToSlot := make(map[string]string, len(srcColors))
	for _, slot := range themeSlots {
		hex := srcColors[slot]
		if hex == "" {
			continue
		}
		if _, taken := hexToSlot[hex]; !taken {
			hexToSlot[hex] = slot
		}
	}
	if len(hexToSlot) == 0 {
		return
	}

	for _, srgb := range collectElements(spTree, "a", "srgbClr") {
		slot, ok := hexToSlot[strings.ToUpper(srgb.SelectAttrValue("val", ""))]
		if !ok {
			continue
		}
		parent := srgb.Parent()
		if parent == nil {
			continue
		}
		scheme := etree.NewElement("a:schemeClr")
		scheme.CreateAttr("val", slot)
		for _, child := range srgb.ChildElements() {
			srgb.RemoveChild(child)
			scheme.AddChild(child)
		}
		parent.InsertChildAt(srgb.Index(), scheme)
		parent.RemoveChild(srgb)
	}
}

// updateRIDs rewrites relationship id references throughout a copied tree in
// a single pass over each attribute, so a map like {rId4:rId5, rId5:rId4}
// cannot cascade.
func updateRIDs(root *etree.Element, ridMap map[string]string) {
	if len(ridMap) == 0 {
		return
	}
	walkElements(root, func(el *etree.Element) {
		for i := range el.Attr {
			if repl, ok := ridMap[el.Attr[i].Value]; ok && repl != el.Attr[i].Value {
				el.Attr[i].Value = repl
			}
		}
	})
}
