// Package export turns a presentation document into a .pptx artifact. Two
// strategies exist: Simple builds text slides from the structured fallback
// content and always succeeds; Rich rasterizes each slide's markup into an
// image deck and degrades to Simple on any failure.
package export

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/commitdeck/internal/pptx"
	"github.com/commitdeck/internal/render"
	"github.com/commitdeck/pkg/models"
)

// Rasterizer captures rendered slide markup; satisfied by render.Rasterizer.
type Rasterizer interface {
	CaptureDeck(ctx context.Context, slides []models.Slide) ([]render.CapturedSlide, error)
}

// Result carries the assembled presentation and whether the rich path had to
// degrade to the simple one.
type Result struct {
	Presentation *pptx.Presentation
	Degraded     bool
}

// Exporter builds pptx artifacts from presentation documents.
type Exporter struct {
	rasterizer Rasterizer
}

// New creates an Exporter. The rasterizer may be nil when only the simple
// path is needed.
func New(r Rasterizer) *Exporter {
	return &Exporter{rasterizer: r}
}

// Simple builds a text-only deck from every slide's fallback content along
// with a leading title slide. It is deterministic and succeeds for any
// well-formed document, regardless of what the slide markup contains.
func (e *Exporter) Simple(doc *models.PresentationData) (*pptx.Presentation, error) {
	if doc == nil || len(doc.Slides) == 0 {
		return nil, fmt.Errorf("document has no slides")
	}

	pres := pptx.New(doc.Title)
	pres.AddTitleSlide(doc.Title, doc.Subtitle)
	for _, s := range doc.Slides {
		fc := s.PptxContent
		pres.AddContentSlide(fc.Title, fc.MainPoint, fc.Bullets, fc.CodeBlock, s.SpeakerNotes)
	}
	return pres, nil
}

// Rich rasterizes every slide in document order and assembles one full-bleed
// image slide per capture, speaker notes attached. Rich fidelity is
// best-effort: if any capture step fails, the whole rich path is abandoned
// and the simple deck is returned with Degraded set.
func (e *Exporter) Rich(ctx context.Context, doc *models.PresentationData) (Result, error) {
	if doc == nil || len(doc.Slides) == 0 {
		return Result{}, fmt.Errorf("document has no slides")
	}

	if e.rasterizer == nil {
		log.Warn().Msg("no rasterizer configured; falling back to simple export")
		return e.fallback(doc)
	}

	captured, err := e.rasterizer.CaptureDeck(ctx, doc.Slides)
	if err != nil {
		log.Warn().Err(err).Msg("rich export failed; falling back to simple export")
		return e.fallback(doc)
	}

	pres := pptx.New(doc.Title)
	for _, c := range captured {
		pres.AddImageSlide(c.PNG, c.Notes)
	}
	return Result{Presentation: pres}, nil
}

func (e *Exporter) fallback(doc *models.PresentationData) (Result, error) {
	pres, err := e.Simple(doc)
	if err != nil {
		return Result{}, err
	}
	return Result{Presentation: pres, Degraded: true}, nil
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// Filename derives the artifact name from the document title: whitespace
// runs collapse to underscores.
func Filename(title string) string {
	name := whitespaceRun.ReplaceAllString(strings.TrimSpace(title), "_")
	if name == "" {
		name = "presentation"
	}
	return name + ".pptx"
}
