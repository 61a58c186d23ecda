package godeck

import (
	"strings"
)

// themeSlots is the canonical color slot order of a clrScheme. Duplicate hex
// values in a theme map to the earliest slot in this order.
var themeSlots = []string{
	"dk1", "dk2", "lt1", "lt2",
	"accent1", "accent2", "accent3", "accent4", "accent5", "accent6",
	"hlink", "folHlink",
}

// ThemeColors extracts the color scheme of a document's theme: slot name to
// upper-case RRGGBB hex. The first slide master whose theme carries a
// clrScheme wins. Returns an empty map when no theme resolves.
func ThemeColors(d *Document) map[string]string {
	for _, master := range d.masterParts() {
		rels, err := d.pkg.relationships(master)
		if err != nil {
			continue
		}
		for _, rel := range rels.ByType("theme") {
			part, ok := d.pkg.Part(rels.Resolve(rel.Target))
			if !ok {
				continue
			}
			doc, err := parseXML(part.Data)
			if err != nil || doc.Root() == nil {
				continue
			}
			scheme := findFirst(doc.Root(), "a", "clrScheme")
			if scheme == nil {
				continue
			}
			colors := make(map[string]string)
			for _, slot := range themeSlots {
				el := scheme.SelectElement("a:" + slot)
				if el == nil {
					continue
				}
				if srgb := el.SelectElement("a:srgbClr"); srgb != nil {
					if v := srgb.SelectAttrValue("val", ""); v != "" {
						colors[slot] = strings.ToUpper(v)
					}
					continue
				}
				if sys := el.SelectElement("a:sysClr"); sys != nil {
					if v := sys.SelectAttrValue("lastClr", ""); v != "" {
						colors[slot] = strings.ToUpper(v)
					}
				}
			}
			if len(colors) > 0 {
				return colors
			}
		}
	}
	return map[string]string{}
}
