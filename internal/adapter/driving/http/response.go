package httphandler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/relhist/relhist/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// RepoResponse is the JSON representation of a tracked repository.
type RepoResponse struct {
	FullName     string `json:"full_name"`
	Owner        string `json:"owner"`
	Name         string `json:"name"`
	Color        string `json:"color"`
	ReleaseCount int    `json:"release_count"`
	AddedAt      string `json:"added_at"`
}

// ReleaseResponse is the JSON representation of a single release.
type ReleaseResponse struct {
	Tag         string `json:"tag"`
	Title       string `json:"title"`
	PublishedAt string `json:"published_at"`
	Body        string `json:"body"`
	URL         string `json:"url"`
}

// TooltipResponse is the full metadata payload attached to a chart point.
type TooltipResponse struct {
	Title       string `json:"title"`
	Tag         string `json:"tag"`
	PublishedAt string `json:"published_at"`
	BodyExcerpt string `json:"body_excerpt"`
	URL         string `json:"url"`
}

// ChartPointResponse is one release on the timeline.
type ChartPointResponse struct {
	Time    string          `json:"time"`
	Lane    int             `json:"lane"`
	Repo    string          `json:"repo"`
	Color   string          `json:"color"`
	Label   string          `json:"label"`
	Tooltip TooltipResponse `json:"tooltip"`
}

// LaneResponse maps a repository to its stable chart row.
type LaneResponse struct {
	Index int    `json:"index"`
	Repo  string `json:"repo"`
	Color string `json:"color"`
}

// RepoStatsResponse is the per-repository slice of the statistics side-channel.
type RepoStatsResponse struct {
	Repo               string  `json:"repo"`
	ReleaseCount       int     `json:"release_count"`
	MeanIntervalDays   float64 `json:"mean_interval_days"`
	MedianIntervalDays float64 `json:"median_interval_days"`
}

// StatsResponse summarizes the filtered release set.
type StatsResponse struct {
	TotalReleases int                 `json:"total_releases"`
	PerRepo       []RepoStatsResponse `json:"per_repo"`
	Earliest      string              `json:"earliest,omitempty"`
	Latest        string              `json:"latest,omitempty"`
}

// ChartResponse is the JSON representation of a ChartSpec.
type ChartResponse struct {
	Points []ChartPointResponse `json:"points"`
	Lanes  []LaneResponse       `json:"lanes"`
	Start  string               `json:"start,omitempty"`
	End    string               `json:"end,omitempty"`
	Stats  StatsResponse        `json:"stats"`
}

// AddRepoRequest is the JSON body for the add repository endpoint.
type AddRepoRequest struct {
	URL string `json:"url"`
}

// DateRangeRequest is the JSON body for the set date range endpoint.
type DateRangeRequest struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// SetTokenRequest is the JSON body for the token update endpoint.
type SetTokenRequest struct {
	Token string `json:"token"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// toRepoResponse converts a domain Repository to its JSON representation.
func toRepoResponse(repo model.Repository) RepoResponse {
	return RepoResponse{
		FullName:     repo.FullName,
		Owner:        repo.Owner,
		Name:         repo.Name,
		Color:        repo.Color,
		ReleaseCount: len(repo.Releases),
		AddedAt:      repo.AddedAt.UTC().Format(time.RFC3339),
	}
}

// toReleaseResponse converts a domain Release to its JSON representation.
func toReleaseResponse(rel model.Release) ReleaseResponse {
	return ReleaseResponse{
		Tag:         rel.Tag,
		Title:       rel.Title,
		PublishedAt: rel.PublishedAt.UTC().Format(time.RFC3339),
		Body:        rel.Body,
		URL:         rel.URL,
	}
}

// toChartResponse converts a domain ChartSpec to its JSON representation.
func toChartResponse(spec model.ChartSpec) ChartResponse {
	points := make([]ChartPointResponse, 0, len(spec.Points))
	for _, p := range spec.Points {
		points = append(points, ChartPointResponse{
			Time:  p.Time.UTC().Format(time.RFC3339),
			Lane:  p.Lane,
			Repo:  p.Repo,
			Color: p.Color,
			Label: p.Label,
			Tooltip: TooltipResponse{
				Title:       p.Tooltip.Title,
				Tag:         p.Tooltip.Tag,
				PublishedAt: p.Tooltip.PublishedAt.UTC().Format(time.RFC3339),
				BodyExcerpt: p.Tooltip.BodyExcerpt,
				URL:         p.Tooltip.URL,
			},
		})
	}

	lanes := make([]LaneResponse, 0, len(spec.Lanes))
	for _, l := range spec.Lanes {
		lanes = append(lanes, LaneResponse{Index: l.Index, Repo: l.Repo, Color: l.Color})
	}

	resp := ChartResponse{
		Points: points,
		Lanes:  lanes,
		Stats:  toStatsResponse(spec.Stats),
	}
	if !spec.Range.Start.IsZero() {
		resp.Start = spec.Range.Start.UTC().Format(time.RFC3339)
		resp.End = spec.Range.End.UTC().Format(time.RFC3339)
	}

	return resp
}

// toStatsResponse converts domain Statistics to their JSON representation.
func toStatsResponse(s model.Statistics) StatsResponse {
	perRepo := make([]RepoStatsResponse, 0, len(s.PerRepo))
	for _, rs := range s.PerRepo {
		perRepo = append(perRepo, RepoStatsResponse{
			Repo:               rs.Repo,
			ReleaseCount:       rs.ReleaseCount,
			MeanIntervalDays:   rs.MeanIntervalDays,
			MedianIntervalDays: rs.MedianIntervalDays,
		})
	}

	resp := StatsResponse{
		TotalReleases: s.TotalReleases,
		PerRepo:       perRepo,
	}
	if !s.Earliest.IsZero() {
		resp.Earliest = s.Earliest.UTC().Format(time.RFC3339)
	}
	if !s.Latest.IsZero() {
		resp.Latest = s.Latest.UTC().Format(time.RFC3339)
	}

	return resp
}
