package gemini

import (
	"fmt"
	"time"

	"github.com/commitdeck/pkg/models"
)

// Context shaping bounds. Detail calls can return enormous patches; these
// caps keep the request inside the model's context budget while leaving
// enough diff text to understand each change.
const (
	maxFilesPerCommit = 15
	maxDiffChars      = 3000
	truncationMarker  = "...[truncated]"
)

// shapedCommit is the compact per-commit record sent to the model.
type shapedCommit struct {
	SHA     string       `json:"sha"`
	Message string       `json:"message"`
	Date    string       `json:"date"`
	Author  string       `json:"author"`
	Files   []shapedFile `json:"files"`
}

type shapedFile struct {
	Filename string `json:"filename"`
	Status   string `json:"status"`
	Diff     string `json:"diff"`
}

// shapeCommits converts enriched commits into the bounded request context:
// abbreviated sha, at most maxFilesPerCommit files, diffs cut at maxDiffChars
// with an explicit truncation marker.
func shapeCommits(commits []models.Commit) []shapedCommit {
	shaped := make([]shapedCommit, 0, len(commits))
	for _, c := range commits {
		sc := shapedCommit{
			SHA:     c.ShortSHA(),
			Message: c.Detail.Message,
			Date:    c.Detail.Author.Date.Format(time.RFC3339),
			Author:  c.Detail.Author.Name,
			Files:   []shapedFile{},
		}

		files := c.Files
		if len(files) > maxFilesPerCommit {
			files = files[:maxFilesPerCommit]
		}
		for _, f := range files {
			diff := "Binary or large file"
			if f.Patch != "" {
				diff = f.Patch
				if len(diff) > maxDiffChars {
					diff = diff[:maxDiffChars] + truncationMarker
				}
			}
			sc.Files = append(sc.Files, shapedFile{
				Filename: f.Filename,
				Status:   f.Status,
				Diff:     diff,
			})
		}

		shaped = append(shaped, sc)
	}
	return shaped
}

// systemInstruction is the fixed persona-and-constraints prompt. It delegates
// visual design entirely to the model: each slide comes back as a freeform
// HTML string plus a simplified structure for the PPTX fallback.
func systemInstruction(repoName string, startDate, endDate time.Time) string {
	return fmt.Sprintf(`
You are a World-Class Technical Speaker and UI Designer.
You are analyzing the git history of **%s** from %s to %s.

**YOUR TASK**:
Create a highly detailed, visually stunning presentation about the work done in this period.

**QUANTITY**:
Generate **15 to 30 slides**. Do not skimp. If there are many commits, group them logically but give each major feature/refactor its own slide.

**VISUAL STYLE (CRITICAL)**:
- You are NOT generating JSON data for a template. You are generating the **HTML STRING** for each slide directly.
- Use **Tailwind CSS**.
- Follow **Material Design 3 (M3) Expressive** guidelines implicitly.
- Use these tokens/styles in your HTML:
  - Fonts: 'font-sans' (Google Sans).
  - Shapes: 'rounded-[2rem]' or 'rounded-3xl' for cards.
  - Colors: Use soft backgrounds ('bg-[#FEF7FF]', 'bg-[#F3E5F5]') and strong text ('text-[#1D1B20]', 'text-[#6750A4]').
  - Shadows: 'shadow-lg', 'shadow-xl'.
- **Layouts**: Be creative! Use grids, big hero text, split screens, code blocks with syntax highlighting colors (simulated with spans), stat cards, timeline views.
- The HTML container will be 16:9 aspect ratio.

**CONTENT STRATEGY**:
1.  **Title Slide**: Big, bold, impactful.
2.  **Executive Summary**: High-level achievements.
3.  **The Story**: Don't just list commits. Narrate the development journey.
4.  **Deep Dives**: For complex commits, show the code changes in a nice code block component.
5.  **People**: Celebrate the contributors.
6.  **Stats**: Use grid layouts to show files changed, insertions, etc.

**DATA STRUCTURE**:
For each slide, return:
1.  `+"`htmlContent`"+`: The full HTML string (excluding <html>/<body> tags, just the inner slide content).
2.  `+"`pptxContent`"+`: A simplified object for generating a PowerPoint file (since PPTX cannot render HTML).
3.  `+"`speakerNotes`"+`: Detailed script for the presenter.
`, repoName, startDate.Format("2006-01-02"), endDate.Format("2006-01-02"))
}
