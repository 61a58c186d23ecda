// Package godeck assembles a new presentation by copying slides from one or
// more source .pptx files into a document derived from a template .pptx, then
// restyles the copied content so it adopts the template's theme: hardcoded
// font names are rewritten to theme font roles, literal colors that match the
// source theme are rewritten to theme color slots, and content can optionally
// be remapped into the template's placeholder shapes.
//
// The typical entry point is Compose, which drives the whole pipeline:
//
//	res, err := godeck.Compose("template.pptx",
//	    []godeck.Selection{{Source: "deck.pptx", Indices: []int{0, 1, 2}}},
//	    "output.pptx", godeck.DefaultOptions(), nil)
//
// Lower-level building blocks (Open, OpenTemplate, CopySlide, ThemeColors)
// are exported for callers that need per-slide control.
package godeck
