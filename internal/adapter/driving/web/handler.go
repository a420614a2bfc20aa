// Package web serves the embedded dashboard page and HTML fragments.
package web

import (
	"log/slog"
	"net/http"

	"github.com/relhist/relhist/internal/application"
)

// Handler is the web GUI driving adapter. The dashboard itself is a static
// page that renders the ChartSpec client-side from the JSON API; this handler
// only serves the embedded assets and release-notes fragments.
type Handler struct {
	registry *application.Registry
	logger   *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(registry *application.Registry, logger *slog.Logger) *Handler {
	return &Handler{
		registry: registry,
		logger:   logger,
	}
}

// ReleaseNotes serves the sanitized HTML rendering of one release's notes.
// The dashboard fetches this fragment when a chart point is expanded.
func (h *Handler) ReleaseNotes(w http.ResponseWriter, r *http.Request) {
	fullName := r.PathValue("owner") + "/" + r.PathValue("repo")
	tag := r.PathValue("tag")

	repo, err := h.registry.Get(fullName)
	if err != nil {
		http.Error(w, "repository not found", http.StatusNotFound)
		return
	}

	for _, rel := range repo.Releases {
		if rel.Tag != tag {
			continue
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if rel.Body == "" {
			_, _ = w.Write([]byte("<p class=\"notes-empty\">No release notes.</p>"))
			return
		}
		_, _ = w.Write([]byte(RenderMarkdown(rel.Body)))
		return
	}

	http.Error(w, "release not found", http.StatusNotFound)
}
