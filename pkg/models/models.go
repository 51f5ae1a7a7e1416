package models

import (
	"fmt"
	"strings"
	"time"
)

// Commit is one entry of a repository's history as returned by the GitHub
// commits API. Files is nil until the commit has been enriched with a detail
// fetch; a commit whose detail fetch failed keeps its summary shape.
type Commit struct {
	SHA     string       `json:"sha"`
	Detail  CommitDetail `json:"commit"`
	HTMLURL string       `json:"html_url,omitempty"`
	Files   []CommitFile `json:"files,omitempty"`
}

// CommitDetail carries the authorship block and message of a commit.
type CommitDetail struct {
	Author  CommitAuthor `json:"author"`
	Message string       `json:"message"`
}

// CommitAuthor identifies who authored a commit and when.
type CommitAuthor struct {
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Date  time.Time `json:"date"`
}

// CommitFile is a per-file change record from the commit detail endpoint.
// Patch is empty for binary or very large files.
type CommitFile struct {
	Filename  string `json:"filename"`
	Status    string `json:"status"`
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
	Patch     string `json:"patch,omitempty"`
}

// ShortSHA returns the abbreviated commit id used in prompts and logs.
func (c Commit) ShortSHA() string {
	if len(c.SHA) <= 7 {
		return c.SHA
	}
	return c.SHA[:7]
}

// PptxContent is the structured fallback representation of a slide, used by
// the plain export path when rich rendering is unavailable.
type PptxContent struct {
	Title     string   `json:"title"`
	MainPoint string   `json:"mainPoint"`
	Bullets   []string `json:"bullets"`
	CodeBlock string   `json:"codeBlock,omitempty"`
}

// Slide is one deck entry. HTMLContent is the freeform visual markup the
// model generates for the slide; it is opaque to this system and rendered as
// untrusted content. PptxContent is the guaranteed-exportable fallback.
type Slide struct {
	HTMLContent  string      `json:"htmlContent"`
	PptxContent  PptxContent `json:"pptxContent"`
	SpeakerNotes string      `json:"speakerNotes"`
}

// PresentationData is a synthesized or edited deck. Slide order is
// presentation order.
type PresentationData struct {
	Title    string  `json:"title"`
	Subtitle string  `json:"subtitle"`
	Slides   []Slide `json:"slides"`
}

// Clone returns a deep copy. The document store hands copies to callers so
// that the original synthesis result is never mutated through an export path.
func (p *PresentationData) Clone() *PresentationData {
	if p == nil {
		return nil
	}
	out := &PresentationData{
		Title:    p.Title,
		Subtitle: p.Subtitle,
		Slides:   make([]Slide, len(p.Slides)),
	}
	for i, s := range p.Slides {
		cs := s
		cs.PptxContent.Bullets = append([]string(nil), s.PptxContent.Bullets...)
		out.Slides[i] = cs
	}
	return out
}

// SlideUpdate is a partial update to a slide. Nil fields are left untouched.
// The structured fallback content is deliberately not editable here.
type SlideUpdate struct {
	HTMLContent  *string
	SpeakerNotes *string
}

// RepoConfig parameterizes one retrieval request. It is validated once at
// submission time and never mutated.
type RepoConfig struct {
	Owner     string
	Repo      string
	Token     string
	StartDate time.Time
	EndDate   time.Time
}

// FullName returns the owner/repo form used in API paths and messages.
func (c RepoConfig) FullName() string {
	return c.Owner + "/" + c.Repo
}

// Validate rejects malformed repository references before any network call.
func (c RepoConfig) Validate() error {
	if c.Owner == "" || c.Repo == "" {
		return fmt.Errorf("repository owner and name are required")
	}
	for _, part := range []string{c.Owner, c.Repo} {
		if strings.ContainsAny(part, " /\\?#@:") {
			return fmt.Errorf("invalid repository reference %q", c.FullName())
		}
	}
	if c.StartDate.IsZero() || c.EndDate.IsZero() {
		return fmt.Errorf("start and end dates are required")
	}
	if c.EndDate.Before(c.StartDate) {
		return fmt.Errorf("end date %s is before start date %s",
			c.EndDate.Format("2006-01-02"), c.StartDate.Format("2006-01-02"))
	}
	return nil
}

// ParseRepoRef splits an "owner/repo" reference. Full URLs, missing parts and
// anything with stray separators are rejected.
func ParseRepoRef(ref string) (owner, repo string, err error) {
	ref = strings.TrimSpace(ref)
	parts := strings.Split(ref, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository reference %q: expected owner/repo", ref)
	}
	owner, repo = parts[0], strings.TrimSuffix(parts[1], ".git")
	if strings.ContainsAny(owner, " \\?#@:") || strings.ContainsAny(repo, " \\?#@:") {
		return "", "", fmt.Errorf("invalid repository reference %q: expected owner/repo", ref)
	}
	return owner, repo, nil
}
