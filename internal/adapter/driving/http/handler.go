// Package httphandler implements the REST API driving adapter.
package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	githubadapter "github.com/relhist/relhist/internal/adapter/driven/github"
	"github.com/relhist/relhist/internal/application"
	"github.com/relhist/relhist/internal/domain/model"
	"github.com/relhist/relhist/internal/domain/port/driven"
)

// Handler is the HTTP driving adapter that serves the REST API.
type Handler struct {
	registry *application.Registry
	provider *application.SourceProvider
	logger   *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(registry *application.Registry, provider *application.SourceProvider, logger *slog.Logger) *Handler {
	return &Handler{
		registry: registry,
		provider: provider,
		logger:   logger,
	}
}

// RegisterAPIRoutes registers all REST API routes on the provided mux.
func RegisterAPIRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("GET /api/v1/repos", h.ListRepos)
	mux.HandleFunc("POST /api/v1/repos", h.AddRepo)
	mux.HandleFunc("DELETE /api/v1/repos/{owner}/{repo}", h.RemoveRepo)
	mux.HandleFunc("POST /api/v1/repos/{owner}/{repo}/refresh", h.RefreshRepo)
	mux.HandleFunc("GET /api/v1/repos/{owner}/{repo}/releases", h.ListReleases)
	mux.HandleFunc("GET /api/v1/chart", h.GetChart)
	mux.HandleFunc("GET /api/v1/stats", h.GetStats)
	mux.HandleFunc("PUT /api/v1/daterange", h.SetDateRange)
	mux.HandleFunc("DELETE /api/v1/daterange", h.ClearDateRange)
	mux.HandleFunc("POST /api/v1/token", h.SetToken)
	mux.HandleFunc("GET /api/v1/health", h.Health)
}

// ListRepos returns all tracked repositories in insertion order.
func (h *Handler) ListRepos(w http.ResponseWriter, r *http.Request) {
	repos := h.registry.List()

	resp := make([]RepoResponse, 0, len(repos))
	for _, repo := range repos {
		resp = append(resp, toRepoResponse(repo))
	}

	writeJSON(w, http.StatusOK, resp)
}

// AddRepo parses the repository URL, fetches its releases, and tracks it.
// The fetch is blocking: the repository is stored with its releases before
// the response is written.
func (h *Handler) AddRepo(w http.ResponseWriter, r *http.Request) {
	var req AddRepoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	repo, err := h.registry.Add(r.Context(), req.URL)
	if err != nil {
		h.writeDomainError(w, err, "add repository", req.URL)
		return
	}

	writeJSON(w, http.StatusCreated, toRepoResponse(repo))
}

// RemoveRepo stops tracking a repository. The remaining repositories keep
// their colors.
func (h *Handler) RemoveRepo(w http.ResponseWriter, r *http.Request) {
	fullName := r.PathValue("owner") + "/" + r.PathValue("repo")

	if err := h.registry.Remove(fullName); err != nil {
		h.writeDomainError(w, err, "remove repository", fullName)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RefreshRepo re-fetches a tracked repository's releases, replacing the
// stored set wholesale.
func (h *Handler) RefreshRepo(w http.ResponseWriter, r *http.Request) {
	fullName := r.PathValue("owner") + "/" + r.PathValue("repo")

	repo, err := h.registry.Refresh(r.Context(), fullName)
	if err != nil {
		h.writeDomainError(w, err, "refresh repository", fullName)
		return
	}

	writeJSON(w, http.StatusOK, toRepoResponse(repo))
}

// ListReleases returns the stored releases of one tracked repository.
func (h *Handler) ListReleases(w http.ResponseWriter, r *http.Request) {
	fullName := r.PathValue("owner") + "/" + r.PathValue("repo")

	repo, err := h.registry.Get(fullName)
	if err != nil {
		h.writeDomainError(w, err, "list releases", fullName)
		return
	}

	resp := make([]ReleaseResponse, 0, len(repo.Releases))
	for _, rel := range repo.Releases {
		resp = append(resp, toReleaseResponse(rel))
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetChart rebuilds and returns the ChartSpec. Optional from/to query
// parameters (RFC 3339) override the session date range for this request
// only; otherwise the session range applies, and with neither the chart
// spans all releases.
func (h *Handler) GetChart(w http.ResponseWriter, r *http.Request) {
	rng, err := h.requestRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	spec := application.BuildChart(h.registry.List(), rng)
	writeJSON(w, http.StatusOK, toChartResponse(spec))
}

// GetStats rebuilds the chart for the effective date range and returns only
// its statistics side-channel.
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	rng, err := h.requestRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	spec := application.BuildChart(h.registry.List(), rng)
	writeJSON(w, http.StatusOK, toStatsResponse(spec.Stats))
}

// SetDateRange stores the session date filter.
func (h *Handler) SetDateRange(w http.ResponseWriter, r *http.Request) {
	var req DateRangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	start, err := time.Parse(time.RFC3339, req.Start)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid start timestamp: expected RFC 3339")
		return
	}
	end, err := time.Parse(time.RFC3339, req.End)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid end timestamp: expected RFC 3339")
		return
	}

	if err := h.registry.SetDateRange(start, end); err != nil {
		h.writeDomainError(w, err, "set date range", "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ClearDateRange removes the session date filter.
func (h *Handler) ClearDateRange(w http.ResponseWriter, r *http.Request) {
	h.registry.ClearDateRange()
	w.WriteHeader(http.StatusNoContent)
}

// SetToken swaps in a new GitHub client built from the supplied token.
// Already-tracked repositories and their releases are unaffected.
func (h *Handler) SetToken(w http.ResponseWriter, r *http.Request) {
	var req SetTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Token == "" {
		writeError(w, http.StatusBadRequest, "token must not be empty")
		return
	}

	h.provider.Replace(githubadapter.NewClient(req.Token))
	h.logger.Info("github token updated")

	w.WriteHeader(http.StatusNoContent)
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}

// requestRange resolves the effective date range for chart and stats
// requests: explicit from/to query parameters win over the session range.
func (h *Handler) requestRange(r *http.Request) (*model.DateRange, error) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")

	if from == "" && to == "" {
		return h.registry.DateRange(), nil
	}
	if from == "" || to == "" {
		return nil, errors.New("from and to must be supplied together")
	}

	start, err := time.Parse(time.RFC3339, from)
	if err != nil {
		return nil, errors.New("invalid from timestamp: expected RFC 3339")
	}
	end, err := time.Parse(time.RFC3339, to)
	if err != nil {
		return nil, errors.New("invalid to timestamp: expected RFC 3339")
	}
	if start.After(end) {
		return nil, application.ErrInvalidDateRange
	}

	return &model.DateRange{Start: start, End: end}, nil
}

// writeDomainError maps the error taxonomy to HTTP statuses. Rate limit
// responses carry a Retry-After header when the API provided a reset hint.
func (h *Handler) writeDomainError(w http.ResponseWriter, err error, op, subject string) {
	var rateErr *driven.RateLimitError

	switch {
	case errors.Is(err, driven.ErrInvalidRepoURL):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, driven.ErrRepoExists):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, driven.ErrRepoNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, driven.ErrAuth), errors.Is(err, driven.ErrNoSource):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, application.ErrInvalidDateRange):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &rateErr):
		if rateErr.RetryAfter > 0 {
			seconds := int(math.Ceil(rateErr.RetryAfter.Seconds()))
			w.Header().Set("Retry-After", strconv.Itoa(seconds))
		}
		writeError(w, http.StatusTooManyRequests, rateErr.Error())
	default:
		h.logger.Error("operation failed", "op", op, "subject", subject, "error", err)
		writeError(w, http.StatusBadGateway, "github request failed: "+err.Error())
	}
}
