// Package github implements the ReleaseSource port using the go-github library.
package github

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	gh "github.com/google/go-github/v82/github"
	"github.com/gregjones/httpcache"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"

	"github.com/relhist/relhist/internal/domain/model"
	"github.com/relhist/relhist/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.ReleaseSource = (*Client)(nil)

const pageSize = 100

// Client implements the driven.ReleaseSource port using the go-github library.
type Client struct {
	gh *gh.Client
}

// NewClient creates a new GitHub API client with the following transport stack:
//  1. httpcache (ETag-based conditional request caching)
//  2. go-github-ratelimit (secondary rate limit middleware, sleeps on 429)
//  3. go-github (GitHub REST API client with PAT auth)
func NewClient(token string) *Client {
	cacheTransport := httpcache.NewMemoryCacheTransport()
	rateLimitClient := github_ratelimit.NewClient(cacheTransport)
	client := gh.NewClient(rateLimitClient).WithAuthToken(token)

	return &Client{gh: client}
}

// NewClientWithHTTPClient creates a Client with a custom http.Client and base URL.
// This constructor is intended for testing, allowing injection of an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL string) (*Client, error) {
	client := gh.NewClient(httpClient)

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	client.BaseURL = u

	return &Client{gh: client}, nil
}

// FetchReleases retrieves every published release for the given repository.
// It handles pagination automatically and maps go-github types to domain
// model types, dropping drafts and releases without a publish timestamp.
// If any page request fails, the whole fetch fails and no partial results
// are returned.
func (c *Client) FetchReleases(ctx context.Context, owner, name string) ([]model.Release, error) {
	if owner == "" || name == "" {
		return nil, fmt.Errorf("%w: empty owner or name", driven.ErrInvalidRepoURL)
	}

	repoFullName := owner + "/" + name
	opts := &gh.ListOptions{PerPage: pageSize}

	var allReleases []model.Release

	for {
		releases, resp, err := c.gh.Repositories.ListReleases(ctx, owner, name, opts)
		if err != nil {
			return nil, classifyError(repoFullName, opts.Page, err)
		}

		logRateLimit(resp, repoFullName, opts.Page, len(releases))

		for _, r := range releases {
			rel, ok := mapRelease(r)
			if !ok {
				continue
			}
			allReleases = append(allReleases, rel)
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	if allReleases == nil {
		allReleases = []model.Release{}
	}

	return allReleases, nil
}

// mapRelease converts a go-github RepositoryRelease to a domain model Release.
// It uses GetXxx() helper methods exclusively to avoid nil pointer panics.
// The second return value is false for drafts and releases lacking a publish
// timestamp; those are unpublished and must not surface to the rest of the
// system.
func mapRelease(r *gh.RepositoryRelease) (model.Release, bool) {
	if r.GetDraft() || r.PublishedAt == nil {
		return model.Release{}, false
	}

	title := r.GetName()
	if title == "" {
		title = r.GetTagName()
	}

	return model.Release{
		Tag:         r.GetTagName(),
		Title:       title,
		PublishedAt: r.GetPublishedAt().Time,
		Body:        r.GetBody(),
		URL:         r.GetHTMLURL(),
	}, true
}

// classifyError maps go-github errors to the port's error taxonomy.
// Rate limit errors are checked first because go-github reports primary rate
// limiting as a 403 as well.
func classifyError(repoFullName string, page int, err error) error {
	var rateErr *gh.RateLimitError
	if errors.As(err, &rateErr) {
		retryAfter := time.Until(rateErr.Rate.Reset.Time)
		if retryAfter < 0 {
			retryAfter = 0
		}
		return &driven.RateLimitError{RetryAfter: retryAfter}
	}

	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		var retryAfter time.Duration
		if abuseErr.RetryAfter != nil {
			retryAfter = *abuseErr.RetryAfter
		}
		return &driven.RateLimitError{RetryAfter: retryAfter}
	}

	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		switch ghErr.Response.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("listing releases for %s (page %d): %w", repoFullName, page, driven.ErrAuth)
		case http.StatusNotFound:
			return fmt.Errorf("listing releases for %s (page %d): %w", repoFullName, page, driven.ErrRepoNotFound)
		}
	}

	return fmt.Errorf("listing releases for %s (page %d): %w", repoFullName, page, err)
}

// logRateLimit logs the GitHub API rate limit status after each call.
func logRateLimit(resp *gh.Response, endpoint string, page, count int) {
	if resp == nil {
		return
	}

	slog.Debug("github api call",
		"endpoint", endpoint,
		"page", page,
		"count", count,
		"rate_remaining", resp.Rate.Remaining,
		"rate_limit", resp.Rate.Limit,
	)

	if resp.Rate.Remaining < 100 {
		slog.Warn("github rate limit low",
			"remaining", resp.Rate.Remaining,
			"reset_in", time.Until(resp.Rate.Reset.Time).Round(time.Second),
		)
	}
}
