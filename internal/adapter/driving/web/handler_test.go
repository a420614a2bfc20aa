package web_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relhist/relhist/internal/adapter/driving/web"
	"github.com/relhist/relhist/internal/application"
	"github.com/relhist/relhist/internal/domain/model"
)

type stubSource struct {
	releases []model.Release
}

func (s *stubSource) FetchReleases(_ context.Context, _, _ string) ([]model.Release, error) {
	return s.releases, nil
}

func newTestServer(t *testing.T, releases []model.Release) *httptest.Server {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)
	provider := application.NewSourceProvider(&stubSource{releases: releases})
	registry := application.NewRegistry(provider, model.DefaultPalette())

	_, err := registry.Add(context.Background(), "https://github.com/owner/alpha")
	require.NoError(t, err)

	mux := http.NewServeMux()
	web.RegisterRoutes(mux, web.NewHandler(registry, logger))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return server
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()

	resp, err := http.Get(url)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())

	return resp, string(body)
}

func TestReleaseNotes(t *testing.T) {
	server := newTestServer(t, []model.Release{{
		Tag:         "v1.0.0",
		Title:       "First",
		PublishedAt: time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
		Body:        "## Changes\n\n**fixed** crash",
	}})

	resp, body := get(t, server.URL+"/app/notes/owner/alpha/v1.0.0")

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/html; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Contains(t, body, "<strong>fixed</strong>")
}

func TestReleaseNotes_EmptyBody(t *testing.T) {
	server := newTestServer(t, []model.Release{{
		Tag:         "v1.0.0",
		PublishedAt: time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
	}})

	resp, body := get(t, server.URL+"/app/notes/owner/alpha/v1.0.0")

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "No release notes")
}

func TestReleaseNotes_NotFound(t *testing.T) {
	server := newTestServer(t, []model.Release{{
		Tag:         "v1.0.0",
		PublishedAt: time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
	}})

	resp, _ := get(t, server.URL+"/app/notes/owner/alpha/v9.9.9")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = get(t, server.URL+"/app/notes/owner/unknown/v1.0.0")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDashboardServed(t *testing.T) {
	server := newTestServer(t, nil)

	resp, body := get(t, server.URL+"/")

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "<html")
}

func TestStaticAssetsServed(t *testing.T) {
	server := newTestServer(t, nil)

	resp, _ := get(t, server.URL+"/static/app.js")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = get(t, server.URL+"/static/style.css")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
