package driven

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/relhist/relhist/internal/domain/model"
)

// Sentinel errors shared by ReleaseSource implementations and the registry.
// Each one is local to the single operation that raised it; none is fatal to
// the running session.
var (
	// ErrInvalidRepoURL indicates a repository URL that could not be parsed
	// into owner/name. Raised before any network call is made.
	ErrInvalidRepoURL = errors.New("invalid repository url")

	// ErrAuth indicates a bad or expired token (401/403). Never retried.
	ErrAuth = errors.New("github authentication failed")

	// ErrRepoNotFound indicates a repository that is missing or inaccessible.
	ErrRepoNotFound = errors.New("repository not found")

	// ErrRepoExists indicates the repository is already tracked.
	ErrRepoExists = errors.New("repository already tracked")

	// ErrNoSource indicates no release source is configured (missing token).
	ErrNoSource = errors.New("no github token configured")
)

// RateLimitError indicates the API rate limit is exhausted.
// RetryAfter is a hint derived from the platform's reset headers; it is zero
// when no hint was provided. Retrying is a caller decision, never automatic.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("github rate limit exceeded, retry after %s", e.RetryAfter.Round(time.Second))
	}
	return "github rate limit exceeded"
}

// ReleaseSource defines the driven port for fetching release metadata.
// FetchReleases returns every published release of owner/name across all
// pages, with drafts already filtered out. A mid-pagination failure fails
// the whole fetch; partial results are never returned. Other than the typed
// failures above, errors are wrapped transport failures the caller may treat
// as transient.
type ReleaseSource interface {
	FetchReleases(ctx context.Context, owner, name string) ([]model.Release, error)
}
