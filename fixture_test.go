package godeck

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

// writePPTX writes a .pptx built from the given entry map into a temp dir
// and returns its path. Fixtures are written with archive/zip directly so
// package tests do not depend on the code under test for their inputs.
func writePPTX(t *testing.T, name string, files map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create fixture: %v", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for entry, data := range files {
		w, err := zw.Create(entry)
		if err != nil {
			t.Fatalf("create fixture entry %s: %v", entry, err)
		}
		if _, err := w.Write([]byte(data)); err != nil {
			t.Fatalf("write fixture entry %s: %v", entry, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close fixture zip: %v", err)
	}
	return path
}

const xmlDecl = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

const nsAttrs = `xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"`

const spTreeHead = `<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>`

// contentTypes builds a [Content_Types].xml with the standard defaults plus
// slide overrides for the given slide part names.
func contentTypes(slideParts ...string) string {
	s := xmlDecl + `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
		`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
		`<Default Extension="xml" ContentType="application/xml"/>` +
		`<Default Extension="png" ContentType="image/png"/>` +
		`<Override PartName="/ppt/presentation.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"/>` +
		`<Override PartName="/ppt/slideMasters/slideMaster1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml"/>` +
		`<Override PartName="/ppt/slideLayouts/slideLayout1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"/>` +
		`<Override PartName="/ppt/theme/theme1.xml" ContentType="application/vnd.openxmlformats-officedocument.theme+xml"/>`
	for _, part := range slideParts {
		s += `<Override PartName="` + part + `" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slide+xml"/>`
	}
	return s + `</Types>`
}

func packageRels() string {
	return xmlDecl + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="ppt/presentation.xml"/>` +
		`</Relationships>`
}

// presentationXML builds a presentation part with one master and the given
// slide rIds in sldIdLst order.
func presentationXML(slideRIDs ...string) string {
	s := xmlDecl + `<p:presentation ` + nsAttrs + `>` +
		`<p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId1"/></p:sldMasterIdLst>` +
		`<p:sldIdLst>`
	id := 256
	for _, rid := range slideRIDs {
		s += `<p:sldId id="` + strconv.Itoa(id) + `" r:id="` + rid + `"/>`
		id++
	}
	return s + `</p:sldIdLst><p:sldSz cx="12192000" cy="6858000"/></p:presentation>`
}

// presentationRels builds the presentation rels: rId1 is the master, then
// one slide rel per target in order, numbered from rId2.
func presentationRels(slideTargets ...string) string {
	s := xmlDecl + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster" Target="slideMasters/slideMaster1.xml"/>`
	for i, target := range slideTargets {
		s += `<Relationship Id="rId` + strconv.Itoa(i+2) + `" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide" Target="` + target + `"/>`
	}
	return s + `</Relationships>`
}

func slideMasterXML() string {
	return xmlDecl + `<p:sldMaster ` + nsAttrs + `>` +
		`<p:cSld><p:spTree>` + spTreeHead + `</p:spTree></p:cSld>` +
		`<p:clrMap bg1="lt1" tx1="dk1" bg2="lt2" tx2="dk2" accent1="accent1" accent2="accent2" accent3="accent3" accent4="accent4" accent5="accent5" accent6="accent6" hlink="hlink" folHlink="folHlink"/>` +
		`<p:sldLayoutIdLst><p:sldLayoutId id="2147483649" r:id="rId1"/></p:sldLayoutIdLst>` +
		`</p:sldMaster>`
}

func slideMasterRels() string {
	return xmlDecl + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout" Target="../slideLayouts/slideLayout1.xml"/>` +
		`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme" Target="../theme/theme1.xml"/>` +
		`</Relationships>`
}

// slideLayoutXML builds a layout named "Title Layout" with a title
// placeholder, a body placeholder (idx 1), and a date placeholder that slide
// creation must not clone.
func slideLayoutXML() string {
	return xmlDecl + `<p:sldLayout ` + nsAttrs + `>` +
		`<p:cSld name="Title Layout"><p:spTree>` + spTreeHead +
		`<p:sp><p:nvSpPr><p:cNvPr id="2" name="Title"/><p:cNvSpPr/><p:nvPr><p:ph type="title"/></p:nvPr></p:nvSpPr><p:spPr/>` +
		`<p:txBody><a:bodyPr anchor="ctr"/><a:lstStyle/><a:p><a:r><a:t>Click to edit title</a:t></a:r></a:p></p:txBody></p:sp>` +
		`<p:sp><p:nvSpPr><p:cNvPr id="3" name="Body"/><p:cNvSpPr/><p:nvPr><p:ph type="body" idx="1"/></p:nvPr></p:nvSpPr><p:spPr/>` +
		`<p:txBody><a:bodyPr/><a:lstStyle/><a:p><a:r><a:t>Click to edit body</a:t></a:r></a:p></p:txBody></p:sp>` +
		`<p:sp><p:nvSpPr><p:cNvPr id="4" name="Date"/><p:cNvSpPr/><p:nvPr><p:ph type="dt" idx="10"/></p:nvPr></p:nvSpPr><p:spPr/>` +
		`<p:txBody><a:bodyPr/><a:lstStyle/><a:p><a:r><a:t>01/01</a:t></a:r></a:p></p:txBody></p:sp>` +
		`</p:spTree></p:cSld></p:sldLayout>`
}

func slideLayoutRels() string {
	return xmlDecl + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster" Target="../slideMasters/slideMaster1.xml"/>` +
		`</Relationships>`
}

// themeXML builds a theme with the given accent1 color. dk1 is a sysClr so
// the lastClr fallback path gets exercised.
func themeXML(accent1 string) string {
	return xmlDecl + `<a:theme xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" name="Fixture">` +
		`<a:themeElements><a:clrScheme name="Fixture">` +
		`<a:dk1><a:sysClr val="windowText" lastClr="000000"/></a:dk1>` +
		`<a:lt1><a:sysClr val="window" lastClr="FFFFFF"/></a:lt1>` +
		`<a:dk2><a:srgbClr val="1F3864"/></a:dk2>` +
		`<a:lt2><a:srgbClr val="E7E6E6"/></a:lt2>` +
		`<a:accent1><a:srgbClr val="` + accent1 + `"/></a:accent1>` +
		`<a:accent2><a:srgbClr val="ED7D31"/></a:accent2>` +
		`<a:accent3><a:srgbClr val="A5A5A5"/></a:accent3>` +
		`<a:accent4><a:srgbClr val="FFC000"/></a:accent4>` +
		`<a:accent5><a:srgbClr val="5B9BD5"/></a:accent5>` +
		`<a:accent6><a:srgbClr val="70AD47"/></a:accent6>` +
		`<a:hlink><a:srgbClr val="0563C1"/></a:hlink>` +
		`<a:folHlink><a:srgbClr val="954F72"/></a:folHlink>` +
		`</a:clrScheme></a:themeElements></a:theme>`
}

func slideRelsLayoutOnly() string {
	return xmlDecl + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout" Target="../slideLayouts/slideLayout1.xml"/>` +
		`</Relationships>`
}

// simpleSlideXML builds a slide with a single plain text shape.
func simpleSlideXML(text string) string {
	return xmlDecl + `<p:sld ` + nsAttrs + `><p:cSld><p:spTree>` + spTreeHead +
		`<p:sp><p:nvSpPr><p:cNvPr id="2" name="Text"/><p:cNvSpPr/><p:nvPr/></p:nvSpPr><p:spPr/>` +
		`<p:txBody><a:bodyPr/><a:lstStyle/><a:p><a:r><a:t>` + text + `</a:t></a:r></a:p></p:txBody></p:sp>` +
		`</p:spTree></p:cSld></p:sld>`
}

// templateFixture returns the entry map of a template presentation: one
// layout, a theme with accent1 2E74B5, and one pre-existing slide that
// OpenTemplate must strip.
func templateFixture() map[string]string {
	return map[string]string{
		"[Content_Types].xml":                          contentTypes("/ppt/slides/slide1.xml"),
		"_rels/.rels":                                  packageRels(),
		"ppt/presentation.xml":                         presentationXML("rId2"),
		"ppt/_rels/presentation.xml.rels":              presentationRels("slides/slide1.xml"),
		"ppt/slideMasters/slideMaster1.xml":            slideMasterXML(),
		"ppt/slideMasters/_rels/slideMaster1.xml.rels": slideMasterRels(),
		"ppt/slideLayouts/slideLayout1.xml":            slideLayoutXML(),
		"ppt/slideLayouts/_rels/slideLayout1.xml.rels": slideLayoutRels(),
		"ppt/theme/theme1.xml":                         themeXML("2E74B5"),
		"ppt/slides/slide1.xml":                        simpleSlideXML("Template slide"),
		"ppt/slides/_rels/slide1.xml.rels":             slideRelsLayoutOnly(),
	}
}

// sourceSlide1XML is a slide exercising most of the copy pipeline: a title
// placeholder with a hardcoded font and a theme-derived literal color, a
// body placeholder, a plain shape, a picture, and a hyperlink.
func sourceSlide1XML() string {
	return xmlDecl + `<p:sld ` + nsAttrs + `><p:cSld><p:spTree>` + spTreeHead +
		`<p:sp><p:nvSpPr><p:cNvPr id="2" name="Title"/><p:cNvSpPr/><p:nvPr><p:ph type="title"/></p:nvPr></p:nvSpPr><p:spPr/>` +
		`<p:txBody><a:bodyPr/><a:lstStyle/><a:p><a:r>` +
		`<a:rPr lang="en-US"><a:solidFill><a:srgbClr val="FF5030"><a:alpha val="80000"/></a:srgbClr></a:solidFill>` +
		`<a:latin typeface="Arial Black" panose="020B0A04020102020204" pitchFamily="34" charset="0"/></a:rPr>` +
		`<a:t>Quarterly Results</a:t></a:r></a:p></p:txBody></p:sp>` +
		`<p:sp><p:nvSpPr><p:cNvPr id="3" name="Body"/><p:cNvSpPr/><p:nvPr><p:ph type="body" idx="1"/></p:nvPr></p:nvSpPr><p:spPr/>` +
		`<p:txBody><a:bodyPr/><a:lstStyle/><a:p><a:r>` +
		`<a:rPr lang="en-US"><a:latin typeface="Calibri" pitchFamily="34" charset="0"/>` +
		`<a:hlinkClick r:id="rId3"/></a:rPr>` +
		`<a:t>Revenue up</a:t></a:r></a:p></p:txBody></p:sp>` +
		`<p:sp><p:nvSpPr><p:cNvPr id="4" name="Note"/><p:cNvSpPr/><p:nvPr/></p:nvSpPr><p:spPr>` +
		`<a:solidFill><a:srgbClr val="ABCDEF"/></a:solidFill></p:spPr>` +
		`<p:txBody><a:bodyPr/><a:lstStyle/><a:p><a:r><a:t>Freeform note</a:t></a:r></a:p></p:txBody></p:sp>` +
		`<p:pic><p:nvPicPr><p:cNvPr id="5" name="Chart"/><p:cNvPicPr/><p:nvPr/></p:nvPicPr>` +
		`<p:blipFill><a:blip r:embed="rId2"/><a:stretch><a:fillRect/></a:stretch></p:blipFill>` +
		`<p:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="914400" cy="914400"/></a:xfrm></p:spPr></p:pic>` +
		`</p:spTree></p:cSld></p:sld>`
}

func sourceSlide1Rels() string {
	return xmlDecl + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout" Target="../slideLayouts/slideLayout1.xml"/>` +
		`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="../media/image1.png"/>` +
		`<Relationship Id="rId3" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/hyperlink" Target="https://example.com/report" TargetMode="External"/>` +
		`<Relationship Id="rId4" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/notesSlide" Target="../notesSlides/notesSlide1.xml"/>` +
		`</Relationships>`
}

// sourceSlide2XML carries an explicit slide background.
func sourceSlide2XML() string {
	return xmlDecl + `<p:sld ` + nsAttrs + `><p:cSld>` +
		`<p:bg><p:bgPr><a:solidFill><a:srgbClr val="123456"/></a:solidFill><a:effectLst/></p:bgPr></p:bg>` +
		`<p:spTree>` + spTreeHead +
		`<p:sp><p:nvSpPr><p:cNvPr id="2" name="Text"/><p:cNvSpPr/><p:nvPr/></p:nvSpPr><p:spPr/>` +
		`<p:txBody><a:bodyPr/><a:lstStyle/><a:p><a:r><a:t>Background slide</a:t></a:r></a:p></p:txBody></p:sp>` +
		`</p:spTree></p:cSld></p:sld>`
}

// sourceSlide3XML carries an index-only placeholder that has no counterpart
// in the template layout.
func sourceSlide3XML() string {
	return xmlDecl + `<p:sld ` + nsAttrs + `><p:cSld><p:spTree>` + spTreeHead +
		`<p:sp><p:nvSpPr><p:cNvPr id="2" name="Odd"/><p:cNvSpPr/><p:nvPr><p:ph idx="13"/></p:nvPr></p:nvSpPr><p:spPr/>` +
		`<p:txBody><a:bodyPr/><a:lstStyle/><a:p><a:r><a:t>Orphan placeholder</a:t></a:r></a:p></p:txBody></p:sp>` +
		`</p:spTree></p:cSld></p:sld>`
}

// jumpSlideXML carries a run whose click action jumps to another slide in the
// same presentation.
func jumpSlideXML() string {
	return xmlDecl + `<p:sld ` + nsAttrs + `><p:cSld><p:spTree>` + spTreeHead +
		`<p:sp><p:nvSpPr><p:cNvPr id="2" name="Link"/><p:cNvSpPr/><p:nvPr/></p:nvSpPr><p:spPr/>` +
		`<p:txBody><a:bodyPr/><a:lstStyle/><a:p><a:r>` +
		`<a:rPr lang="en-US"><a:hlinkClick r:id="rId2" action="ppaction://hlinksldjump"/></a:rPr>` +
		`<a:t>See details</a:t></a:r></a:p></p:txBody></p:sp>` +
		`</p:spTree></p:cSld></p:sld>`
}

// slideRelsWithJump links a slide to slide1.xml through an internal slide rel.
func slideRelsWithJump() string {
	return xmlDecl + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout" Target="../slideLayouts/slideLayout1.xml"/>` +
		`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide" Target="slide1.xml"/>` +
		`</Relationships>`
}

func chartXML(id string) string {
	return xmlDecl + `<c:chartSpace xmlns:c="http://schemas.openxmlformats.org/drawingml/2006/chart">` +
		`<c:chart name="` + id + `"/></c:chartSpace>`
}

func slideRelsWithChart() string {
	return xmlDecl + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout" Target="../slideLayouts/slideLayout1.xml"/>` +
		`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/chart" Target="../charts/chart1.xml"/>` +
		`</Relationships>`
}

// chartSourceFixture returns a single-slide source whose slide references a
// chart part. id is baked into the chart bytes so two fixtures can carry
// same-named charts with different content.
func chartSourceFixture(id string) map[string]string {
	return map[string]string{
		"[Content_Types].xml":             contentTypes("/ppt/slides/slide1.xml"),
		"_rels/.rels":                     packageRels(),
		"ppt/presentation.xml":            presentationXML("rId2"),
		"ppt/_rels/presentation.xml.rels": presentationRels("slides/slide1.xml"),
		"ppt/slideMasters/slideMaster1.xml":            slideMasterXML(),
		"ppt/slideMasters/_rels/slideMaster1.xml.rels": slideMasterRels(),
		"ppt/slideLayouts/slideLayout1.xml":            slideLayoutXML(),
		"ppt/slideLayouts/_rels/slideLayout1.xml.rels": slideLayoutRels(),
		"ppt/theme/theme1.xml":                         themeXML("FF5030"),
		"ppt/slides/slide1.xml":                        simpleSlideXML("Chart slide " + id),
		"ppt/slides/_rels/slide1.xml.rels":             slideRelsWithChart(),
		"ppt/charts/chart1.xml":                        chartXML(id),
	}
}

// emptySourceFixture returns a well-formed presentation with no slides.
func emptySourceFixture() map[string]string {
	return map[string]string{
		"[Content_Types].xml":             contentTypes(),
		"_rels/.rels":                     packageRels(),
		"ppt/presentation.xml":            presentationXML(),
		"ppt/_rels/presentation.xml.rels": presentationRels(),
		"ppt/slideMasters/slideMaster1.xml":            slideMasterXML(),
		"ppt/slideMasters/_rels/slideMaster1.xml.rels": slideMasterRels(),
		"ppt/slideLayouts/slideLayout1.xml":            slideLayoutXML(),
		"ppt/slideLayouts/_rels/slideLayout1.xml.rels": slideLayoutRels(),
		"ppt/theme/theme1.xml":                         themeXML("FF5030"),
	}
}

func notesSlideXML() string {
	return xmlDecl + `<p:notes ` + nsAttrs + `><p:cSld><p:spTree>` + spTreeHead +
		`</p:spTree></p:cSld></p:notes>`
}

// sourceFixture returns the entry map of a three-slide source presentation
// with its own theme (accent1 FF5030), an image, a hyperlink, and a notes
// slide on slide 1.
func sourceFixture() map[string]string {
	ct := contentTypes("/ppt/slides/slide1.xml", "/ppt/slides/slide2.xml", "/ppt/slides/slide3.xml")
	return map[string]string{
		"[Content_Types].xml":             ct,
		"_rels/.rels":                     packageRels(),
		"ppt/presentation.xml":            presentationXML("rId2", "rId3", "rId4"),
		"ppt/_rels/presentation.xml.rels": presentationRels("slides/slide1.xml", "slides/slide2.xml", "slides/slide3.xml"),
		"ppt/slideMasters/slideMaster1.xml":            slideMasterXML(),
		"ppt/slideMasters/_rels/slideMaster1.xml.rels": slideMasterRels(),
		"ppt/slideLayouts/slideLayout1.xml":            slideLayoutXML(),
		"ppt/slideLayouts/_rels/slideLayout1.xml.rels": slideLayoutRels(),
		"ppt/theme/theme1.xml":                         themeXML("FF5030"),
		"ppt/slides/slide1.xml":                        sourceSlide1XML(),
		"ppt/slides/_rels/slide1.xml.rels":             sourceSlide1Rels(),
		"ppt/slides/slide2.xml":                        sourceSlide2XML(),
		"ppt/slides/_rels/slide2.xml.rels":             slideRelsLayoutOnly(),
		"ppt/slides/slide3.xml":                        sourceSlide3XML(),
		"ppt/slides/_rels/slide3.xml.rels":             slideRelsLayoutOnly(),
		"ppt/media/image1.png":                         "not-really-a-png",
		"ppt/notesSlides/notesSlide1.xml":              notesSlideXML(),
	}
}
