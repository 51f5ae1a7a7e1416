// Package render rasterizes slide markup to fixed-resolution PNG images with
// a headless Chrome instance.
package render

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog/log"

	"github.com/commitdeck/pkg/models"
)

// Options controls the capture surface.
type Options struct {
	Width          int           // viewport width in CSS pixels
	Height         int           // viewport height in CSS pixels
	Scale          float64       // device pixel density multiplier
	SettleDelay    time.Duration // fixed wait after load for async content
	CaptureTimeout time.Duration // upper bound per slide capture
	ChromePath     string        // optional explicit browser binary
}

// DefaultOptions returns the standard 16:9 capture surface.
func DefaultOptions() Options {
	return Options{
		Width:          1280,
		Height:         720,
		Scale:          1.5,
		SettleDelay:    200 * time.Millisecond,
		CaptureTimeout: 30 * time.Second,
	}
}

// CapturedSlide pairs one slide's raster image with its speaker notes.
type CapturedSlide struct {
	PNG   []byte
	Notes string
}

// Rasterizer captures slides one at a time on a single shared browser tab.
// The tab is the serialization point: the next slide's markup is never
// injected before the previous capture completes.
type Rasterizer struct {
	opts Options
}

// NewRasterizer creates a Rasterizer with the given options. Zero fields are
// replaced with defaults.
func NewRasterizer(opts Options) *Rasterizer {
	def := DefaultOptions()
	if opts.Width <= 0 {
		opts.Width = def.Width
	}
	if opts.Height <= 0 {
		opts.Height = def.Height
	}
	if opts.Scale <= 0 {
		opts.Scale = def.Scale
	}
	if opts.SettleDelay <= 0 {
		opts.SettleDelay = def.SettleDelay
	}
	if opts.CaptureTimeout <= 0 {
		opts.CaptureTimeout = def.CaptureTimeout
	}
	return &Rasterizer{opts: opts}
}

// CaptureDeck renders every slide's markup in document order and returns one
// captured image per slide. Any failure aborts the whole capture: the caller
// is expected to fall back to the plain export path.
func (r *Rasterizer) CaptureDeck(ctx context.Context, slides []models.Slide) ([]CapturedSlide, error) {
	if len(slides) == 0 {
		return nil, fmt.Errorf("no slides to capture")
	}

	allocOpts := append([]chromedp.ExecAllocatorOption{},
		chromedp.DefaultExecAllocatorOptions[:]...)
	allocOpts = append(allocOpts,
		chromedp.WindowSize(r.opts.Width, r.opts.Height),
		chromedp.Flag("hide-scrollbars", true),
	)
	if r.opts.ChromePath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(r.opts.ChromePath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancelAlloc()

	tabCtx, cancelTab := chromedp.NewContext(allocCtx)
	defer cancelTab()

	// Fix the capture surface once for the whole deck: exact viewport, the
	// configured pixel density, and an opaque white background.
	err := chromedp.Run(tabCtx,
		chromedp.EmulateViewport(int64(r.opts.Width), int64(r.opts.Height),
			chromedp.EmulateScale(r.opts.Scale)),
		emulation.SetDefaultBackgroundColorOverride().
			WithColor(&cdp.RGBA{R: 255, G: 255, B: 255, A: 1}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare capture surface: %w", err)
	}

	captured := make([]CapturedSlide, 0, len(slides))
	for i, slide := range slides {
		png, err := r.captureSlide(tabCtx, slide.HTMLContent)
		if err != nil {
			return nil, fmt.Errorf("failed to capture slide %d: %w", i+1, err)
		}
		log.Debug().Int("slide", i+1).Int("bytes", len(png)).Msg("slide captured")
		captured = append(captured, CapturedSlide{PNG: png, Notes: slide.SpeakerNotes})
	}

	return captured, nil
}

// captureSlide renders one slide's markup on the shared tab and screenshots
// the viewport.
func (r *Rasterizer) captureSlide(tabCtx context.Context, markup string) ([]byte, error) {
	page, err := buildPage(markup, r.opts.Width, r.opts.Height)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(tabCtx, r.opts.CaptureTimeout)
	defer cancel()

	var buf []byte
	err = chromedp.Run(ctx,
		chromedp.Navigate(dataURL(page)),
		// Explicit readiness signal: the document and its fonts must be
		// fully loaded. The settle delay below stays as a floor for content
		// with no load event, not as the only guarantee.
		chromedp.Poll(
			`document.readyState === "complete" && (!document.fonts || document.fonts.status === "loaded")`,
			nil,
			chromedp.WithPollingInterval(50*time.Millisecond),
		),
		chromedp.Sleep(r.opts.SettleDelay),
		// Generated markup occasionally carries hidden-state styling; force
		// the capture root visible before the screenshot.
		chromedp.Evaluate(`(() => {
			const root = document.getElementById("slide-root");
			if (root) {
				root.style.opacity = "1";
				root.style.visibility = "visible";
				root.style.zIndex = "auto";
			}
		})()`, nil),
		chromedp.CaptureScreenshot(&buf),
	)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

func dataURL(html string) string {
	return "data:text/html;charset=utf-8," + urlEncode(html)
}

// urlEncode percent-encodes everything outside the unreserved set, so no
// character in the generated markup can terminate or alter the data URL.
func urlEncode(s string) string {
	const hex = "0123456789ABCDEF"
	out := make([]byte, 0, len(s)+len(s)/4)
	for i := 0; i < len(s); i++ {
		b := s[i]
		switch {
		case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9',
			b == '-', b == '_', b == '.', b == '~':
			out = append(out, b)
		default:
			out = append(out, '%', hex[b>>4], hex[b&0x0f])
		}
	}
	return string(out)
}
