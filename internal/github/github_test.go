package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commitdeck/pkg/models"
)

func testConfig() models.RepoConfig {
	return models.RepoConfig{
		Owner:     "octo",
		Repo:      "demo",
		StartDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC),
	}
}

func listBody(shas ...string) string {
	var b strings.Builder
	b.WriteString("[")
	for i, sha := range shas {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, `{"sha":%q,"commit":{"message":"commit %s","author":{"name":"dev","email":"dev@example.com","date":"2024-03-10T12:00:00Z"}}}`, sha, sha)
	}
	b.WriteString("]")
	return b.String()
}

func detailBody(sha string) string {
	return fmt.Sprintf(`{"sha":%q,"commit":{"message":"commit %s","author":{"name":"dev","email":"dev@example.com","date":"2024-03-10T12:00:00Z"}},"files":[{"filename":"main.go","status":"modified","additions":3,"deletions":1,"patch":"@@ -1 +1 @@"}]}`, sha, sha)
}

func TestFetchCommitsEnrichesInOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/repos/octo/demo/commits":
			assert.Equal(t, "100", r.URL.Query().Get("per_page"))
			assert.NotEmpty(t, r.URL.Query().Get("since"))
			assert.NotEmpty(t, r.URL.Query().Get("until"))
			fmt.Fprint(w, listBody("aaa1111", "bbb2222", "ccc3333"))
		case strings.HasPrefix(r.URL.Path, "/repos/octo/demo/commits/"):
			sha := strings.TrimPrefix(r.URL.Path, "/repos/octo/demo/commits/")
			fmt.Fprint(w, detailBody(sha))
		default:
			t.Errorf("unexpected request path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewClient("", WithBaseURL(srv.URL))
	commits, err := c.FetchCommits(context.Background(), testConfig())
	require.NoError(t, err)
	require.Len(t, commits, 3)

	// Listing order survives the concurrent detail fan-out.
	assert.Equal(t, "aaa1111", commits[0].SHA)
	assert.Equal(t, "bbb2222", commits[1].SHA)
	assert.Equal(t, "ccc3333", commits[2].SHA)
	for i, c := range commits {
		assert.Len(t, c.Files, 1, "commit %d should be enriched", i)
	}
}

func TestFetchCommitsDegradesFailedDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/repos/octo/demo/commits":
			fmt.Fprint(w, listBody("aaa1111", "bbb2222"))
		case strings.HasSuffix(r.URL.Path, "/bbb2222"):
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, `{"message":"boom"}`)
		default:
			fmt.Fprint(w, detailBody("aaa1111"))
		}
	}))
	defer srv.Close()

	c := NewClient("", WithBaseURL(srv.URL))
	commits, err := c.FetchCommits(context.Background(), testConfig())
	require.NoError(t, err, "one failed detail fetch must not fail the batch")
	require.Len(t, commits, 2)

	assert.Len(t, commits[0].Files, 1)
	// Degraded commit keeps its summary shape at its original position.
	assert.Equal(t, "bbb2222", commits[1].SHA)
	assert.Empty(t, commits[1].Files)
	assert.Equal(t, "commit bbb2222", commits[1].Detail.Message)
}

func TestFetchCommitsSendsAuthHeader(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		fmt.Fprint(w, "[]")
	}))
	defer srv.Close()

	c := NewClient("ghp_secret", WithBaseURL(srv.URL))
	_, err := c.FetchCommits(context.Background(), testConfig())
	require.NoError(t, err)
	assert.Equal(t, "Bearer ghp_secret", gotAuth)

	// Without a token the header is absent entirely.
	c = NewClient("", WithBaseURL(srv.URL))
	_, err = c.FetchCommits(context.Background(), testConfig())
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestFetchCommitsErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "repo not found",
			status: http.StatusNotFound,
			body:   `{"message":"Not Found"}`,
			check: func(t *testing.T, err error) {
				var notFound *RepoNotFoundError
				require.ErrorAs(t, err, &notFound)
				assert.Equal(t, "octo", notFound.Owner)
				assert.Equal(t, "demo", notFound.Repo)
				assert.Contains(t, err.Error(), `"octo/demo"`)
			},
		},
		{
			name:   "token scope",
			status: http.StatusForbidden,
			body:   `{"message":"Resource not accessible by personal access token"}`,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrTokenScope)
			},
		},
		{
			name:   "bad credentials",
			status: http.StatusUnauthorized,
			body:   `{"message":"Bad credentials"}`,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrAuth)
			},
		},
		{
			name:   "generic failure keeps host message",
			status: http.StatusBadGateway,
			body:   `{"message":"Server Error"}`,
			check: func(t *testing.T, err error) {
				assert.Contains(t, err.Error(), "Server Error")
				assert.Contains(t, err.Error(), "502")
			},
		},
		{
			name:   "generic failure with unparseable body",
			status: http.StatusBadGateway,
			body:   "<html>nope</html>",
			check: func(t *testing.T, err error) {
				assert.Contains(t, err.Error(), "failed to fetch commits")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer srv.Close()

			c := NewClient("tok", WithBaseURL(srv.URL))
			_, err := c.FetchCommits(context.Background(), testConfig())
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestFetchCommitsContextCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "[]")
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient("", WithBaseURL(srv.URL))
	_, err := c.FetchCommits(ctx, testConfig())
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled) || strings.Contains(err.Error(), "context canceled"))
}
