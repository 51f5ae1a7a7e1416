// Package pptx writes PowerPoint (.pptx) files without external
// dependencies. The OOXML package is assembled directly: a minimal theme,
// one blank master/layout pair, a notes master, and one part per slide.
//
// Two slide flavors cover both export paths: text slides built from the
// structured fallback content, and full-bleed image slides carrying a
// rasterized capture. Speaker notes attach to either flavor.
package pptx

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"time"
)

// Slide canvas in EMUs: 13.333 x 7.5 inches, the standard 16:9 surface.
const (
	slideWidthEMU  = 12192000
	slideHeightEMU = 6858000
)

type slideKind int

const (
	kindTitle slideKind = iota
	kindContent
	kindImage
)

type slideSpec struct {
	kind      slideKind
	title     string
	subtitle  string
	mainPoint string
	bullets   []string
	codeBlock string
	png       []byte
	notes     string
}

// Presentation accumulates slides and serializes them to a .pptx package.
type Presentation struct {
	title  string
	slides []slideSpec
}

// New creates an empty presentation. The title lands in the document
// properties, not on any slide.
func New(title string) *Presentation {
	return &Presentation{title: title}
}

// SlideCount returns the number of slides added so far.
func (p *Presentation) SlideCount() int {
	return len(p.slides)
}

// AddTitleSlide appends a centered title/subtitle slide.
func (p *Presentation) AddTitleSlide(title, subtitle string) {
	p.slides = append(p.slides, slideSpec{
		kind:     kindTitle,
		title:    title,
		subtitle: subtitle,
	})
}

// AddContentSlide appends a text slide: title, main point, bullet list and an
// optional monospace code block.
func (p *Presentation) AddContentSlide(title, mainPoint string, bullets []string, codeBlock, notes string) {
	p.slides = append(p.slides, slideSpec{
		kind:      kindContent,
		title:     title,
		mainPoint: mainPoint,
		bullets:   append([]string(nil), bullets...),
		codeBlock: codeBlock,
		notes:     notes,
	})
}

// AddImageSlide appends a slide whose PNG image fills the entire canvas.
func (p *Presentation) AddImageSlide(png []byte, notes string) {
	p.slides = append(p.slides, slideSpec{
		kind:  kindImage,
		png:   append([]byte(nil), png...),
		notes: notes,
	})
}

// Write serializes the presentation package to w.
func (p *Presentation) Write(w io.Writer) error {
	if len(p.slides) == 0 {
		return fmt.Errorf("presentation has no slides")
	}

	zw := zip.NewWriter(w)

	parts := p.buildParts()
	for _, part := range parts {
		f, err := zw.Create(part.name)
		if err != nil {
			return fmt.Errorf("failed to create part %s: %w", part.name, err)
		}
		if _, err := f.Write(part.data); err != nil {
			return fmt.Errorf("failed to write part %s: %w", part.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finalize package: %w", err)
	}
	return nil
}

// WriteFile serializes the presentation to a file at path.
func (p *Presentation) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := p.Write(f); err != nil {
		return err
	}
	return f.Close()
}

type part struct {
	name string
	data []byte
}

// buildParts lays out every part of the package with deterministic numbering:
// slide i (1-based) becomes slideN.xml, its optional notes notesSlideN.xml,
// and its optional image imageN.png.
func (p *Presentation) buildParts() []part {
	parts := []part{
		{"[Content_Types].xml", []byte(p.contentTypesXML())},
		{"_rels/.rels", []byte(rootRelsXML)},
		{"docProps/core.xml", []byte(p.corePropsXML(time.Now().UTC()))},
		{"docProps/app.xml", []byte(p.appPropsXML())},
		{"ppt/presentation.xml", []byte(p.presentationXML())},
		{"ppt/_rels/presentation.xml.rels", []byte(p.presentationRelsXML())},
		{"ppt/slideMasters/slideMaster1.xml", []byte(slideMasterXML)},
		{"ppt/slideMasters/_rels/slideMaster1.xml.rels", []byte(slideMasterRelsXML)},
		{"ppt/slideLayouts/slideLayout1.xml", []byte(slideLayoutXML)},
		{"ppt/slideLayouts/_rels/slideLayout1.xml.rels", []byte(slideLayoutRelsXML)},
		{"ppt/notesMasters/notesMaster1.xml", []byte(notesMasterXML)},
		{"ppt/notesMasters/_rels/notesMaster1.xml.rels", []byte(notesMasterRelsXML)},
		{"ppt/theme/theme1.xml", []byte(themeXML)},
		{"ppt/theme/theme2.xml", []byte(themeXML)},
	}

	for i, s := range p.slides {
		n := i + 1
		parts = append(parts,
			part{fmt.Sprintf("ppt/slides/slide%d.xml", n), []byte(slideXML(s))},
			part{fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", n), []byte(slideRelsXML(s, n))},
		)
		if s.kind == kindImage {
			parts = append(parts, part{fmt.Sprintf("ppt/media/image%d.png", n), s.png})
		}
		if s.notes != "" {
			parts = append(parts,
				part{fmt.Sprintf("ppt/notesSlides/notesSlide%d.xml", n), []byte(notesSlideXML(s.notes))},
				part{fmt.Sprintf("ppt/notesSlides/_rels/notesSlide%d.xml.rels", n), []byte(notesSlideRelsXML(n))},
			)
		}
	}

	return parts
}
