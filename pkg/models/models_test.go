package models

import (
	"testing"
	"time"
)

func TestParseRepoRef(t *testing.T) {
	tests := []struct {
		name      string
		ref       string
		wantOwner string
		wantRepo  string
		wantErr   bool
	}{
		{name: "simple", ref: "golang/go", wantOwner: "golang", wantRepo: "go"},
		{name: "trims whitespace", ref: "  golang/go  ", wantOwner: "golang", wantRepo: "go"},
		{name: "strips .git suffix", ref: "golang/go.git", wantOwner: "golang", wantRepo: "go"},
		{name: "missing repo", ref: "golang", wantErr: true},
		{name: "missing owner", ref: "/go", wantErr: true},
		{name: "empty", ref: "", wantErr: true},
		{name: "full url", ref: "https://github.com/golang/go", wantErr: true},
		{name: "extra segment", ref: "golang/go/tree", wantErr: true},
		{name: "space in name", ref: "gol ang/go", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, repo, err := ParseRepoRef(tt.ref)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseRepoRef(%q) expected error, got %q/%q", tt.ref, owner, repo)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRepoRef(%q) unexpected error: %v", tt.ref, err)
			}
			if owner != tt.wantOwner || repo != tt.wantRepo {
				t.Errorf("ParseRepoRef(%q) = %q/%q, want %q/%q",
					tt.ref, owner, repo, tt.wantOwner, tt.wantRepo)
			}
		})
	}
}

func TestRepoConfigValidate(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC)

	valid := RepoConfig{Owner: "golang", Repo: "go", StartDate: start, EndDate: end}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	tests := []struct {
		name string
		cfg  RepoConfig
	}{
		{"missing owner", RepoConfig{Repo: "go", StartDate: start, EndDate: end}},
		{"missing repo", RepoConfig{Owner: "golang", StartDate: start, EndDate: end}},
		{"owner with slash", RepoConfig{Owner: "gol/ang", Repo: "go", StartDate: start, EndDate: end}},
		{"zero start date", RepoConfig{Owner: "golang", Repo: "go", EndDate: end}},
		{"end before start", RepoConfig{Owner: "golang", Repo: "go", StartDate: end, EndDate: start}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); err == nil {
				t.Errorf("expected validation error for %+v", tt.cfg)
			}
		})
	}
}

func TestShortSHA(t *testing.T) {
	c := Commit{SHA: "0123456789abcdef"}
	if got := c.ShortSHA(); got != "0123456" {
		t.Errorf("ShortSHA() = %q, want %q", got, "0123456")
	}
	short := Commit{SHA: "abc"}
	if got := short.ShortSHA(); got != "abc" {
		t.Errorf("ShortSHA() on short id = %q, want %q", got, "abc")
	}
}

func TestPresentationDataClone(t *testing.T) {
	orig := &PresentationData{
		Title:    "Q1 Review",
		Subtitle: "golang/go",
		Slides: []Slide{
			{
				HTMLContent: "<div>one</div>",
				PptxContent: PptxContent{
					Title:     "One",
					MainPoint: "the point",
					Bullets:   []string{"a", "b"},
				},
				SpeakerNotes: "notes",
			},
		},
	}

	clone := orig.Clone()
	clone.Title = "mutated"
	clone.Slides[0].HTMLContent = "<div>changed</div>"
	clone.Slides[0].PptxContent.Bullets[0] = "changed"

	if orig.Title != "Q1 Review" {
		t.Error("clone mutation leaked into original title")
	}
	if orig.Slides[0].HTMLContent != "<div>one</div>" {
		t.Error("clone mutation leaked into original slide markup")
	}
	if orig.Slides[0].PptxContent.Bullets[0] != "a" {
		t.Error("clone shares bullet slice with original")
	}

	var nilDoc *PresentationData
	if nilDoc.Clone() != nil {
		t.Error("Clone of nil should be nil")
	}
}
