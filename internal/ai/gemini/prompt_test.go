package gemini

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commitdeck/pkg/models"
)

func commitWithFiles(sha string, files ...models.CommitFile) models.Commit {
	return models.Commit{
		SHA: sha,
		Detail: models.CommitDetail{
			Message: "message for " + sha,
			Author: models.CommitAuthor{
				Name: "dev",
				Date: time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC),
			},
		},
		Files: files,
	}
}

func TestShapeCommitsAbbreviatesSHA(t *testing.T) {
	shaped := shapeCommits([]models.Commit{commitWithFiles("0123456789abcdef")})
	require.Len(t, shaped, 1)
	assert.Equal(t, "0123456", shaped[0].SHA)
	assert.Equal(t, "message for 0123456789abcdef", shaped[0].Message)
	assert.Equal(t, "dev", shaped[0].Author)
	assert.Equal(t, "2024-03-10T12:00:00Z", shaped[0].Date)
}

func TestShapeCommitsCapsFiles(t *testing.T) {
	files := make([]models.CommitFile, maxFilesPerCommit+5)
	for i := range files {
		files[i] = models.CommitFile{Filename: "file.go", Status: "modified", Patch: "x"}
	}

	shaped := shapeCommits([]models.Commit{commitWithFiles("aaa", files...)})
	require.Len(t, shaped, 1)
	assert.Len(t, shaped[0].Files, maxFilesPerCommit)
}

func TestShapeCommitsTruncatesDiff(t *testing.T) {
	long := strings.Repeat("x", maxDiffChars+100)
	shaped := shapeCommits([]models.Commit{commitWithFiles("aaa",
		models.CommitFile{Filename: "big.go", Status: "modified", Patch: long},
	)})

	diff := shaped[0].Files[0].Diff
	assert.True(t, strings.HasSuffix(diff, truncationMarker))
	assert.Len(t, diff, maxDiffChars+len(truncationMarker))

	// A patch at the limit passes through untouched.
	exact := strings.Repeat("y", maxDiffChars)
	shaped = shapeCommits([]models.Commit{commitWithFiles("bbb",
		models.CommitFile{Filename: "ok.go", Status: "modified", Patch: exact},
	)})
	assert.Equal(t, exact, shaped[0].Files[0].Diff)
}

func TestShapeCommitsBinaryPlaceholder(t *testing.T) {
	shaped := shapeCommits([]models.Commit{commitWithFiles("aaa",
		models.CommitFile{Filename: "logo.png", Status: "added"},
	)})
	assert.Equal(t, "Binary or large file", shaped[0].Files[0].Diff)
}

func TestShapeCommitsEmptyFilesStaysNonNil(t *testing.T) {
	shaped := shapeCommits([]models.Commit{commitWithFiles("aaa")})
	require.Len(t, shaped, 1)
	assert.NotNil(t, shaped[0].Files, "files must marshal as [] rather than null")
}

func TestSystemInstruction(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

	prompt := systemInstruction("octo/demo", start, end)

	assert.Contains(t, prompt, "**octo/demo**")
	assert.Contains(t, prompt, "2024-03-01")
	assert.Contains(t, prompt, "2024-03-31")
	assert.Contains(t, prompt, "15 to 30 slides")
	assert.Contains(t, prompt, "Tailwind CSS")
	assert.Contains(t, prompt, "htmlContent")
	assert.Contains(t, prompt, "pptxContent")
	assert.Contains(t, prompt, "speakerNotes")
}

func TestPresentationSchema(t *testing.T) {
	schema := presentationSchema()
	require.NotNil(t, schema)

	assert.ElementsMatch(t, []string{"title", "subtitle", "slides"}, schema.Required)

	slides, ok := schema.Properties["slides"]
	require.True(t, ok)
	slide := slides.Items
	require.NotNil(t, slide)
	assert.ElementsMatch(t, []string{"htmlContent", "pptxContent", "speakerNotes"}, slide.Required)

	pptx, ok := slide.Properties["pptxContent"]
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"title", "mainPoint", "bullets"}, pptx.Required)
	_, hasCode := pptx.Properties["codeBlock"]
	assert.True(t, hasCode, "codeBlock is optional but must be declared")
}
