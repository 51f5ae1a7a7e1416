package pptx

import (
	"fmt"
	"strings"
)

const slideOpen = xmlHeader +
	`<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">` +
	`<p:cSld><p:spTree>` +
	`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>` +
	`<p:grpSpPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/><a:chOff x="0" y="0"/><a:chExt cx="0" cy="0"/></a:xfrm></p:grpSpPr>`

const slideClose = `</p:spTree></p:cSld>` +
	`<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr>` +
	`</p:sld>`

// textBox describes one absolutely positioned text shape.
type textBox struct {
	id       int
	name     string
	x, y     int // EMU
	w, h     int // EMU
	fill     string
	centered bool
	paras    []para
}

type para struct {
	text    string
	sizePts int // font size in points
	bold    bool
	color   string // RRGGBB, empty for theme default
	font    string // explicit latin typeface, empty for theme default
	bullet  bool
}

func (tb textBox) xml() string {
	var b strings.Builder
	b.WriteString(`<p:sp>`)
	fmt.Fprintf(&b, `<p:nvSpPr><p:cNvPr id="%d" name="%s"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr>`, tb.id, esc(tb.name))
	b.WriteString(`<p:spPr>`)
	fmt.Fprintf(&b, `<a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm>`, tb.x, tb.y, tb.w, tb.h)
	b.WriteString(`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom>`)
	if tb.fill != "" {
		fmt.Fprintf(&b, `<a:solidFill><a:srgbClr val="%s"/></a:solidFill>`, tb.fill)
	}
	b.WriteString(`</p:spPr>`)
	b.WriteString(`<p:txBody><a:bodyPr wrap="square" anchor="t"/><a:lstStyle/>`)
	for _, pr := range tb.paras {
		b.WriteString(`<a:p><a:pPr`)
		if tb.centered {
			b.WriteString(` algn="ctr"`)
		}
		b.WriteString(`>`)
		if pr.bullet {
			b.WriteString(`<a:buChar char="&#8226;"/>`)
		} else {
			b.WriteString(`<a:buNone/>`)
		}
		b.WriteString(`</a:pPr>`)
		fmt.Fprintf(&b, `<a:r><a:rPr lang="en-US" sz="%d"`, pr.sizePts*100)
		if pr.bold {
			b.WriteString(` b="1"`)
		}
		b.WriteString(`>`)
		if pr.color != "" {
			fmt.Fprintf(&b, `<a:solidFill><a:srgbClr val="%s"/></a:solidFill>`, pr.color)
		}
		if pr.font != "" {
			fmt.Fprintf(&b, `<a:latin typeface="%s"/>`, esc(pr.font))
		}
		fmt.Fprintf(&b, `</a:rPr><a:t>%s</a:t></a:r></a:p>`, esc(pr.text))
	}
	b.WriteString(`</p:txBody></p:sp>`)
	return b.String()
}

// slideXML renders the slide part for one spec.
func slideXML(s slideSpec) string {
	switch s.kind {
	case kindImage:
		return imageSlideXML()
	case kindTitle:
		return titleSlideXML(s)
	default:
		return contentSlideXML(s)
	}
}

func titleSlideXML(s slideSpec) string {
	var b strings.Builder
	b.WriteString(slideOpen)
	b.WriteString(textBox{
		id: 2, name: "Title", centered: true,
		x: 914400, y: 2286000, w: slideWidthEMU - 2*914400, h: 1371600,
		paras: []para{{text: s.title, sizePts: 44, bold: true, color: "1D1B20"}},
	}.xml())
	if s.subtitle != "" {
		b.WriteString(textBox{
			id: 3, name: "Subtitle", centered: true,
			x: 914400, y: 3886200, w: slideWidthEMU - 2*914400, h: 914400,
			paras: []para{{text: s.subtitle, sizePts: 24, color: "6750A4"}},
		}.xml())
	}
	b.WriteString(slideClose)
	return b.String()
}

func contentSlideXML(s slideSpec) string {
	var b strings.Builder
	b.WriteString(slideOpen)

	id := 2
	b.WriteString(textBox{
		id: id, name: "Title",
		x: 457200, y: 274638, w: slideWidthEMU - 2*457200, h: 1143000,
		paras: []para{{text: s.title, sizePts: 32, bold: true, color: "1D1B20"}},
	}.xml())
	id++

	if s.mainPoint != "" {
		b.WriteString(textBox{
			id: id, name: "Main Point",
			x: 457200, y: 1490663, w: slideWidthEMU - 2*457200, h: 685800,
			paras: []para{{text: s.mainPoint, sizePts: 20, color: "6750A4"}},
		}.xml())
		id++
	}

	if len(s.bullets) > 0 {
		paras := make([]para, 0, len(s.bullets))
		for _, bl := range s.bullets {
			paras = append(paras, para{text: bl, sizePts: 18, color: "49454F", bullet: true})
		}
		h := 3200400
		if s.codeBlock != "" {
			h = 2286000
		}
		b.WriteString(textBox{
			id: id, name: "Bullets",
			x: 457200, y: 2286000, w: slideWidthEMU - 2*457200, h: h,
			paras: paras,
		}.xml())
		id++
	}

	if s.codeBlock != "" {
		paras := make([]para, 0, 8)
		for _, line := range splitLines(s.codeBlock, 8) {
			paras = append(paras, para{text: line, sizePts: 12, color: "1D1B20", font: "Courier New"})
		}
		b.WriteString(textBox{
			id: id, name: "Code", fill: "F3E5F5",
			x: 457200, y: 4686300, w: slideWidthEMU - 2*457200, h: 1828800,
			paras: paras,
		}.xml())
	}

	b.WriteString(slideClose)
	return b.String()
}

func imageSlideXML() string {
	var b strings.Builder
	b.WriteString(slideOpen)
	b.WriteString(`<p:pic>`)
	b.WriteString(`<p:nvPicPr><p:cNvPr id="2" name="Slide Image"/><p:cNvPicPr><a:picLocks noChangeAspect="1"/></p:cNvPicPr><p:nvPr/></p:nvPicPr>`)
	b.WriteString(`<p:blipFill><a:blip r:embed="rId2"/><a:stretch><a:fillRect/></a:stretch></p:blipFill>`)
	fmt.Fprintf(&b, `<p:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="%d" cy="%d"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr>`, slideWidthEMU, slideHeightEMU)
	b.WriteString(`</p:pic>`)
	b.WriteString(slideClose)
	return b.String()
}

// slideRelsXML emits the relationship part for slide n: the layout, then the
// image for image slides, then the notes slide when notes exist.
func slideRelsXML(s slideSpec, n int) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	b.WriteString(`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout" Target="../slideLayouts/slideLayout1.xml"/>`)
	rid := 2
	if s.kind == kindImage {
		fmt.Fprintf(&b, `<Relationship Id="rId%d" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="../media/image%d.png"/>`, rid, n)
		rid++
	}
	if s.notes != "" {
		fmt.Fprintf(&b, `<Relationship Id="rId%d" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/notesSlide" Target="../notesSlides/notesSlide%d.xml"/>`, rid, n)
	}
	b.WriteString(`</Relationships>`)
	return b.String()
}

func notesSlideXML(notes string) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<p:notes xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">`)
	b.WriteString(`<p:cSld><p:spTree>`)
	b.WriteString(`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>`)
	b.WriteString(`<p:grpSpPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/><a:chOff x="0" y="0"/><a:chExt cx="0" cy="0"/></a:xfrm></p:grpSpPr>`)
	b.WriteString(`<p:sp>`)
	b.WriteString(`<p:nvSpPr><p:cNvPr id="2" name="Notes Placeholder"/><p:cNvSpPr><a:spLocks noGrp="1"/></p:cNvSpPr><p:nvPr><p:ph type="body" idx="1"/></p:nvPr></p:nvSpPr>`)
	b.WriteString(`<p:spPr/>`)
	b.WriteString(`<p:txBody><a:bodyPr/><a:lstStyle/>`)
	for _, line := range strings.Split(notes, "\n") {
		fmt.Fprintf(&b, `<a:p><a:r><a:rPr lang="en-US"/><a:t>%s</a:t></a:r></a:p>`, esc(line))
	}
	b.WriteString(`</p:txBody></p:sp>`)
	b.WriteString(`</p:spTree></p:cSld>`)
	b.WriteString(`<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr>`)
	b.WriteString(`</p:notes>`)
	return b.String()
}

func notesSlideRelsXML(n int) string {
	return xmlHeader +
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/notesMaster" Target="../notesMasters/notesMaster1.xml"/>` +
		fmt.Sprintf(`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide" Target="../slides/slide%d.xml"/>`, n) +
		`</Relationships>`
}

// splitLines breaks a code block into at most max displayable lines,
// truncating with an ellipsis line when longer. Tabs become spaces since
// PowerPoint renders literal tabs unpredictably in text runs.
func splitLines(code string, max int) []string {
	lines := strings.Split(strings.ReplaceAll(code, "\t", "    "), "\n")
	if len(lines) > max {
		lines = append(lines[:max-1], "…")
	}
	return lines
}
