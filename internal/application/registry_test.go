package application_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relhist/relhist/internal/application"
	"github.com/relhist/relhist/internal/domain/model"
	"github.com/relhist/relhist/internal/domain/port/driven"
)

// stubSource is a canned ReleaseSource for registry tests.
type stubSource struct {
	releases map[string][]model.Release
	err      error
	calls    int
}

func (s *stubSource) FetchReleases(_ context.Context, owner, name string) ([]model.Release, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	rels := s.releases[owner+"/"+name]
	if rels == nil {
		rels = []model.Release{}
	}
	return rels, nil
}

// testPalette is deliberately small so cycling is easy to assert.
var testPalette = model.Palette{"#aa0000", "#00bb00", "#0000cc"}

func newTestRegistry(source driven.ReleaseSource) *application.Registry {
	return application.NewRegistry(application.NewSourceProvider(source), testPalette)
}

func release(tag string, published time.Time) model.Release {
	return model.Release{
		Tag:         tag,
		Title:       tag,
		PublishedAt: published,
		URL:         "https://github.com/owner/repo/releases/tag/" + tag,
	}
}

func TestRegistry_AddAssignsColorsInInsertionOrder(t *testing.T) {
	source := &stubSource{}
	reg := newTestRegistry(source)
	ctx := context.Background()

	urls := []string{
		"https://github.com/owner/alpha",
		"https://github.com/owner/bravo",
		"https://github.com/owner/charlie",
		"https://github.com/owner/delta", // 4th repo cycles back to palette[0]
	}

	for i, u := range urls {
		repo, err := reg.Add(ctx, u)
		require.NoError(t, err)
		assert.Equal(t, testPalette[i%len(testPalette)], repo.Color)
	}

	repos := reg.List()
	require.Len(t, repos, 4)
	assert.Equal(t, []string{"#aa0000", "#00bb00", "#0000cc", "#aa0000"}, []string{
		repos[0].Color, repos[1].Color, repos[2].Color, repos[3].Color,
	})
}

func TestRegistry_AddDuplicate(t *testing.T) {
	source := &stubSource{}
	reg := newTestRegistry(source)
	ctx := context.Background()

	_, err := reg.Add(ctx, "https://github.com/owner/alpha")
	require.NoError(t, err)

	_, err = reg.Add(ctx, "https://github.com/owner/alpha")
	assert.ErrorIs(t, err, driven.ErrRepoExists)
	assert.Len(t, reg.List(), 1)
	assert.Equal(t, 1, source.calls, "duplicate add must not hit the network")
}

func TestRegistry_AddInvalidURLMakesNoNetworkCall(t *testing.T) {
	source := &stubSource{}
	reg := newTestRegistry(source)

	_, err := reg.Add(context.Background(), "https://example.com/owner/alpha")
	assert.ErrorIs(t, err, driven.ErrInvalidRepoURL)
	assert.Zero(t, source.calls)
	assert.Empty(t, reg.List())
}

func TestRegistry_AddFetchFailureLeavesRegistryUnchanged(t *testing.T) {
	source := &stubSource{err: driven.ErrRepoNotFound}
	reg := newTestRegistry(source)

	_, err := reg.Add(context.Background(), "https://github.com/owner/ghost")
	assert.ErrorIs(t, err, driven.ErrRepoNotFound)
	assert.Empty(t, reg.List())
}

func TestRegistry_AddWithoutSource(t *testing.T) {
	reg := newTestRegistry(nil)

	_, err := reg.Add(context.Background(), "https://github.com/owner/alpha")
	assert.ErrorIs(t, err, driven.ErrNoSource)
}

func TestRegistry_AddZeroReleasesSucceeds(t *testing.T) {
	source := &stubSource{}
	reg := newTestRegistry(source)

	repo, err := reg.Add(context.Background(), "https://github.com/owner/quiet")
	require.NoError(t, err)
	assert.NotNil(t, repo.Releases)
	assert.Empty(t, repo.Releases)
	assert.Len(t, reg.List(), 1)
}

func TestRegistry_RemoveKeepsColors_NextAddContinuesCycle(t *testing.T) {
	source := &stubSource{}
	reg := newTestRegistry(source)
	ctx := context.Background()

	for _, u := range []string{
		"https://github.com/owner/alpha",
		"https://github.com/owner/bravo",
		"https://github.com/owner/charlie",
	} {
		_, err := reg.Add(ctx, u)
		require.NoError(t, err)
	}

	// Remove the middle repository: survivors keep their original colors.
	require.NoError(t, reg.Remove("owner/bravo"))

	repos := reg.List()
	require.Len(t, repos, 2)
	assert.Equal(t, "owner/alpha", repos[0].FullName)
	assert.Equal(t, testPalette[0], repos[0].Color)
	assert.Equal(t, "owner/charlie", repos[1].FullName)
	assert.Equal(t, testPalette[2], repos[1].Color)

	// The next add continues the cycle from the current count (2), not from
	// the freed color: palette[2 mod 3].
	added, err := reg.Add(ctx, "https://github.com/owner/delta")
	require.NoError(t, err)
	assert.Equal(t, testPalette[2], added.Color)
}

func TestRegistry_RemoveUnknown(t *testing.T) {
	source := &stubSource{}
	reg := newTestRegistry(source)

	_, err := reg.Add(context.Background(), "https://github.com/owner/alpha")
	require.NoError(t, err)

	err = reg.Remove("owner/ghost")
	assert.ErrorIs(t, err, driven.ErrRepoNotFound)
	assert.Len(t, reg.List(), 1, "failed remove must leave the registry unchanged")
}

func TestRegistry_RefreshReplacesReleasesWholesale(t *testing.T) {
	t1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	source := &stubSource{releases: map[string][]model.Release{
		"owner/alpha": {release("v1.0.0", t1)},
	}}
	reg := newTestRegistry(source)
	ctx := context.Background()

	added, err := reg.Add(ctx, "https://github.com/owner/alpha")
	require.NoError(t, err)
	require.Len(t, added.Releases, 1)

	source.releases["owner/alpha"] = []model.Release{
		release("v1.0.0", t1),
		release("v1.1.0", t2),
	}

	refreshed, err := reg.Refresh(ctx, "owner/alpha")
	require.NoError(t, err)
	assert.Len(t, refreshed.Releases, 2)
	assert.Equal(t, added.Color, refreshed.Color, "refresh keeps the assigned color")

	repos := reg.List()
	require.Len(t, repos, 1)
	assert.Len(t, repos[0].Releases, 2)
}

func TestRegistry_RefreshUnknown(t *testing.T) {
	reg := newTestRegistry(&stubSource{})

	_, err := reg.Refresh(context.Background(), "owner/ghost")
	assert.ErrorIs(t, err, driven.ErrRepoNotFound)
}

func TestRegistry_RefreshFailureKeepsStoredReleases(t *testing.T) {
	t1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	source := &stubSource{releases: map[string][]model.Release{
		"owner/alpha": {release("v1.0.0", t1)},
	}}
	reg := newTestRegistry(source)
	ctx := context.Background()

	_, err := reg.Add(ctx, "https://github.com/owner/alpha")
	require.NoError(t, err)

	source.err = errors.New("connection reset")
	_, err = reg.Refresh(ctx, "owner/alpha")
	require.Error(t, err)

	repos := reg.List()
	require.Len(t, repos, 1)
	assert.Len(t, repos[0].Releases, 1, "failed refresh must not touch stored releases")
}

func TestRegistry_ColorFor(t *testing.T) {
	source := &stubSource{}
	reg := newTestRegistry(source)

	_, err := reg.Add(context.Background(), "https://github.com/owner/alpha")
	require.NoError(t, err)

	color, err := reg.ColorFor("owner/alpha")
	require.NoError(t, err)
	assert.Equal(t, testPalette[0], color)

	_, err = reg.ColorFor("owner/ghost")
	assert.ErrorIs(t, err, driven.ErrRepoNotFound)
}

func TestRegistry_DateRange(t *testing.T) {
	reg := newTestRegistry(&stubSource{})
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)

	assert.Nil(t, reg.DateRange())

	require.NoError(t, reg.SetDateRange(start, end))
	rng := reg.DateRange()
	require.NotNil(t, rng)
	assert.Equal(t, start, rng.Start)
	assert.Equal(t, end, rng.End)

	assert.ErrorIs(t, reg.SetDateRange(end, start), application.ErrInvalidDateRange)

	reg.ClearDateRange()
	assert.Nil(t, reg.DateRange())
}
