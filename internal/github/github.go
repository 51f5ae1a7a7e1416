// Package github is a minimal client for the GitHub REST v3 commits API:
// a windowed commit listing plus per-commit detail enrichment.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/commitdeck/pkg/models"
)

const (
	defaultBaseURL = "https://api.github.com"

	// listPageSize caps the commit listing; one page of history is enough
	// context for a deck and avoids pagination entirely.
	listPageSize = 100

	// detailLimit bounds how many commits get a per-file detail fetch. Detail
	// calls cost one request each, so this is a latency/completeness
	// trade-off; commits past the cap keep their summary shape.
	detailLimit = 50

	userAgent = "commitdeck"
)

// Client talks to the GitHub commits API. The zero value is not usable;
// construct it with NewClient.
type Client struct {
	token      string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API root (used by tests).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(u, "/") }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a GitHub client. The token is optional; without one only
// public repositories are reachable and rate limits are lower.
func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		token:      strings.TrimSpace(token),
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		// Pace the detail fan-out below GitHub's secondary rate limits.
		limiter: rate.NewLimiter(rate.Limit(15), 15),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchCommits returns the commits of owner/repo authored within the config's
// date window, most recent first, each enriched with per-file change records
// where a detail fetch succeeded. A failed detail fetch degrades that commit
// to its summary form instead of failing the batch.
func (c *Client) FetchCommits(ctx context.Context, cfg models.RepoConfig) ([]models.Commit, error) {
	listURL := fmt.Sprintf("%s/repos/%s/%s/commits?since=%s&until=%s&per_page=%d",
		c.baseURL, cfg.Owner, cfg.Repo,
		url.QueryEscape(cfg.StartDate.UTC().Format(time.RFC3339)),
		url.QueryEscape(cfg.EndDate.UTC().Format(time.RFC3339)),
		listPageSize)

	var commits []models.Commit
	if err := c.getJSON(ctx, listURL, &commits, cfg); err != nil {
		return nil, err
	}

	log.Debug().
		Str("repo", cfg.FullName()).
		Int("listed", len(commits)).
		Msg("fetched commit listing")

	selected := commits
	if len(selected) > detailLimit {
		selected = selected[:detailLimit]
	}

	// Fan out one detail request per selected commit. Results land by index,
	// so completion order never reorders the listing.
	g, gctx := errgroup.WithContext(ctx)
	for i := range selected {
		g.Go(func() error {
			if err := c.limiter.Wait(gctx); err != nil {
				return err
			}
			detailURL := fmt.Sprintf("%s/repos/%s/%s/commits/%s",
				c.baseURL, cfg.Owner, cfg.Repo, commits[i].SHA)

			var detailed models.Commit
			if err := c.getJSON(gctx, detailURL, &detailed, cfg); err != nil {
				// Degrade to the summary form instead of aborting the batch.
				log.Warn().
					Err(err).
					Str("sha", commits[i].ShortSHA()).
					Msg("commit detail fetch failed; keeping summary")
				return nil
			}
			commits[i] = detailed
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return commits, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out interface{}, cfg models.RepoConfig) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.apiError(resp, cfg)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
