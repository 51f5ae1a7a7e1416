package render

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRasterizerFillsDefaults(t *testing.T) {
	r := NewRasterizer(Options{})
	assert.Equal(t, DefaultOptions(), r.opts)

	r = NewRasterizer(Options{Width: 1920, Height: 1080, SettleDelay: time.Second})
	assert.Equal(t, 1920, r.opts.Width)
	assert.Equal(t, 1080, r.opts.Height)
	assert.Equal(t, time.Second, r.opts.SettleDelay)
	assert.Equal(t, 1.5, r.opts.Scale, "unset scale falls back to default")
	assert.Equal(t, 30*time.Second, r.opts.CaptureTimeout)
}

func TestBuildPage(t *testing.T) {
	page, err := buildPage(`<h1 class="text-4xl">Hello</h1>`, 1280, 720)
	require.NoError(t, err)

	// Markup must be injected verbatim, not entity-escaped; the browser is
	// the sandbox for untrusted slide content.
	assert.Contains(t, page, `<h1 class="text-4xl">Hello</h1>`)
	assert.Contains(t, page, "cdn.tailwindcss.com")
	assert.Contains(t, page, `id="slide-root"`)
	assert.Contains(t, page, "width: 1280px")
	assert.Contains(t, page, "height: 720px")
}

func TestDataURLRoundTrips(t *testing.T) {
	page := `<div id="x">a & b, 50% #frag ?q=1</div>` + "\nsecond line"
	u := dataURL(page)

	require.True(t, strings.HasPrefix(u, "data:text/html;charset=utf-8,"))
	payload := strings.TrimPrefix(u, "data:text/html;charset=utf-8,")

	// Nothing that could terminate or re-shape the URL survives unencoded.
	assert.NotContains(t, payload, "#")
	assert.NotContains(t, payload, "?")
	assert.NotContains(t, payload, " ")
	assert.NotContains(t, payload, "\n")

	decoded, err := url.PathUnescape(payload)
	require.NoError(t, err)
	assert.Equal(t, page, decoded)
}

func TestURLEncodeUnreservedPassThrough(t *testing.T) {
	in := "AZaz09-_.~"
	assert.Equal(t, in, urlEncode(in))
	assert.Equal(t, "%25", urlEncode("%"))
	assert.Equal(t, "%E2%82%AC", urlEncode("€"), "multibyte runes encode per byte")
}
