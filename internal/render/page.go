package render

import (
	"bytes"
	"fmt"
	"html/template"
)

// pageData contains all data needed for the capture page template
type pageData struct {
	Width  int
	Height int
	Markup template.HTML
}

// pageTemplate wraps a slide's markup in the same container the on-screen
// preview uses: a fixed-size white 16:9 surface with the sans font stack.
// The Tailwind runtime is loaded from the CDN because the generated markup
// leans on utility classes.
const pageTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<script src="https://cdn.tailwindcss.com"></script>
<style>
  html, body { margin: 0; padding: 0; }
  body {
    width: {{.Width}}px;
    height: {{.Height}}px;
    overflow: hidden;
    background: #ffffff;
    font-family: 'Google Sans', 'Roboto', ui-sans-serif, system-ui, sans-serif;
  }
</style>
</head>
<body>
<div id="slide-root" class="w-full h-full bg-white text-slate-900 font-sans overflow-hidden relative">
  <div class="h-full w-full">
    {{.Markup}}
  </div>
</div>
</body>
</html>`

var pageTmpl = template.Must(template.New("capture-page").Parse(pageTemplate))

// buildPage renders the full capture page for one slide's markup. The markup
// is injected verbatim: it is treated as opaque, untrusted content whose only
// sandbox is the headless browser itself.
func buildPage(markup string, width, height int) (string, error) {
	var buf bytes.Buffer
	err := pageTmpl.Execute(&buf, pageData{
		Width:  width,
		Height: height,
		Markup: template.HTML(markup),
	})
	if err != nil {
		return "", fmt.Errorf("failed to build capture page: %w", err)
	}
	return buf.String(), nil
}
