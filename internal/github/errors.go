package github

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/commitdeck/pkg/models"
)

// Sentinel errors for the retrieval failure modes callers branch on.
var (
	// ErrTokenScope means a token was provided but cannot access the
	// repository (wrong scopes, or SSO not authorized).
	ErrTokenScope = errors.New("the provided GitHub token cannot access this repository. Check your token scopes, or try removing the token if the repository is public")

	// ErrAuth means the credential itself was rejected.
	ErrAuth = errors.New("GitHub authentication failed. Please check that your token is valid")
)

// RepoNotFoundError is returned when the host reports 404 for the repository.
type RepoNotFoundError struct {
	Owner string
	Repo  string
}

func (e *RepoNotFoundError) Error() string {
	return fmt.Sprintf("repository %q not found. Please check visibility and spelling", e.Owner+"/"+e.Repo)
}

// apiError maps a non-success response onto the error taxonomy. The body's
// message field is folded in when it decodes; decode failures are ignored.
func (c *Client) apiError(resp *http.Response, cfg models.RepoConfig) error {
	message := "failed to fetch commits"

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	var apiBody struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &apiBody); err == nil && apiBody.Message != "" {
		message = apiBody.Message
	}

	if resp.StatusCode == http.StatusNotFound {
		return &RepoNotFoundError{Owner: cfg.Owner, Repo: cfg.Repo}
	}

	if strings.Contains(message, "Resource not accessible by personal access token") {
		return ErrTokenScope
	}

	if resp.StatusCode == http.StatusUnauthorized ||
		strings.Contains(strings.ToLower(message), "bad credentials") {
		return ErrAuth
	}

	return fmt.Errorf("%s (HTTP %d)", message, resp.StatusCode)
}
