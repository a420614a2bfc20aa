// Package application contains use-case orchestration services.
package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/relhist/relhist/internal/domain/model"
	"github.com/relhist/relhist/internal/domain/port/driven"
)

// ErrInvalidDateRange indicates a date filter whose start is after its end.
var ErrInvalidDateRange = errors.New("start date is after end date")

// Registry is the session state object: the ordered set of tracked
// repositories with their fetched releases and assigned colors, plus the
// current date filter. It lives for one interactive session and is never
// persisted. Methods are safe for concurrent use by the HTTP adapter, which
// preserves the serial mutation semantics the color assignment relies on.
type Registry struct {
	source  *SourceProvider
	palette model.Palette
	logger  *slog.Logger

	mu        sync.RWMutex
	repos     []model.Repository
	dateRange *model.DateRange
}

// NewRegistry creates an empty Registry drawing colors from the given palette.
func NewRegistry(source *SourceProvider, palette model.Palette) *Registry {
	return &Registry{
		source:  source,
		palette: palette,
		logger:  slog.Default(),
	}
}

// Add parses rawURL, fetches the repository's releases, and appends a new
// Repository with the next palette color. The next color is always
// palette[count mod size] computed from the current repository count; colors
// freed by Remove are deliberately not recycled. Fails with
// driven.ErrInvalidRepoURL, driven.ErrRepoExists, driven.ErrNoSource, or any
// of the fetch error kinds. On failure the registry is unchanged.
func (g *Registry) Add(ctx context.Context, rawURL string) (model.Repository, error) {
	owner, name, err := ParseRepoURL(rawURL)
	if err != nil {
		return model.Repository{}, err
	}
	fullName := owner + "/" + name

	// Reject duplicates before spending a network call.
	g.mu.RLock()
	dup := g.findLocked(fullName) >= 0
	g.mu.RUnlock()
	if dup {
		return model.Repository{}, fmt.Errorf("%s: %w", fullName, driven.ErrRepoExists)
	}

	source := g.source.Get()
	if source == nil {
		return model.Repository{}, driven.ErrNoSource
	}

	releases, err := source.FetchReleases(ctx, owner, name)
	if err != nil {
		return model.Repository{}, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	// Re-check under the write lock: a concurrent Add for the same
	// repository may have won the race during the fetch.
	if g.findLocked(fullName) >= 0 {
		return model.Repository{}, fmt.Errorf("%s: %w", fullName, driven.ErrRepoExists)
	}

	repo := model.Repository{
		Owner:    owner,
		Name:     name,
		FullName: fullName,
		Color:    g.palette.ColorAt(len(g.repos)),
		AddedAt:  time.Now().UTC(),
		Releases: releases,
	}
	g.repos = append(g.repos, repo)

	g.logger.Info("repository added",
		"repo", fullName,
		"releases", len(releases),
		"color", repo.Color,
	)

	return repo, nil
}

// Remove deletes the repository with the given identifier. The remaining
// repositories keep their original colors. Fails with driven.ErrRepoNotFound
// and leaves the registry unchanged if the identifier is unknown.
func (g *Registry) Remove(fullName string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	i := g.findLocked(fullName)
	if i < 0 {
		return fmt.Errorf("%s: %w", fullName, driven.ErrRepoNotFound)
	}

	g.repos = append(g.repos[:i], g.repos[i+1:]...)
	g.logger.Info("repository removed", "repo", fullName)
	return nil
}

// Refresh re-fetches the repository's releases and replaces them wholesale.
// The repository keeps its color and position. Fails with
// driven.ErrRepoNotFound if the identifier is unknown, or with any of the
// fetch error kinds, in which case the stored releases are left untouched.
func (g *Registry) Refresh(ctx context.Context, fullName string) (model.Repository, error) {
	g.mu.RLock()
	i := g.findLocked(fullName)
	var owner, name string
	if i >= 0 {
		owner, name = g.repos[i].Owner, g.repos[i].Name
	}
	g.mu.RUnlock()

	if i < 0 {
		return model.Repository{}, fmt.Errorf("%s: %w", fullName, driven.ErrRepoNotFound)
	}

	source := g.source.Get()
	if source == nil {
		return model.Repository{}, driven.ErrNoSource
	}

	releases, err := source.FetchReleases(ctx, owner, name)
	if err != nil {
		return model.Repository{}, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	i = g.findLocked(fullName)
	if i < 0 {
		return model.Repository{}, fmt.Errorf("%s: %w", fullName, driven.ErrRepoNotFound)
	}

	g.repos[i].Releases = releases
	g.logger.Info("repository refreshed", "repo", fullName, "releases", len(releases))
	return g.repos[i], nil
}

// List returns the tracked repositories in insertion order.
func (g *Registry) List() []model.Repository {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]model.Repository, len(g.repos))
	copy(out, g.repos)
	return out
}

// Get returns the repository with the given identifier, or
// driven.ErrRepoNotFound.
func (g *Registry) Get(fullName string) (model.Repository, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	i := g.findLocked(fullName)
	if i < 0 {
		return model.Repository{}, fmt.Errorf("%s: %w", fullName, driven.ErrRepoNotFound)
	}
	return g.repos[i], nil
}

// ColorFor returns the assigned color for the given identifier, or
// driven.ErrRepoNotFound.
func (g *Registry) ColorFor(fullName string) (string, error) {
	repo, err := g.Get(fullName)
	if err != nil {
		return "", err
	}
	return repo.Color, nil
}

// SetDateRange sets the session's inclusive date filter. Fails with
// ErrInvalidDateRange when start is after end.
func (g *Registry) SetDateRange(start, end time.Time) error {
	if start.After(end) {
		return fmt.Errorf("%w: %s > %s", ErrInvalidDateRange,
			start.Format(time.RFC3339), end.Format(time.RFC3339))
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.dateRange = &model.DateRange{Start: start, End: end}
	return nil
}

// ClearDateRange removes the session date filter, restoring the default
// "all releases" view.
func (g *Registry) ClearDateRange() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.dateRange = nil
}

// DateRange returns a copy of the session date filter, or nil when unset.
func (g *Registry) DateRange() *model.DateRange {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if g.dateRange == nil {
		return nil
	}
	r := *g.dateRange
	return &r
}

// findLocked returns the index of fullName in repos, or -1. Callers must hold
// at least a read lock.
func (g *Registry) findLocked(fullName string) int {
	for i, repo := range g.repos {
		if repo.FullName == fullName {
			return i
		}
	}
	return -1
}
