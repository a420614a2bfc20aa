package application

import (
	"sort"
	"strings"

	"github.com/relhist/relhist/internal/domain/model"
)

// bodyExcerptLen bounds the tooltip excerpt of release notes, in runes.
const bodyExcerptLen = 200

// BuildChart produces the declarative timeline description for the given
// repositories. filter, when non-nil, is an inclusive [start, end] range on
// publish timestamps; when nil, the range defaults to the full span from the
// earliest to the latest release across all repositories. An empty registry
// (or one with no releases and no filter) yields an empty chart.
//
// Every repository occupies a stable lane matching its insertion order, so
// the same repository renders on the same row across rebuilds within a
// session. Points are sorted by ascending publish time, tie-broken by
// ascending tag for determinism. BuildChart is pure: no network, no mutable
// state, identical inputs always produce an identical ChartSpec.
func BuildChart(repos []model.Repository, filter *model.DateRange) model.ChartSpec {
	rng := filter
	if rng == nil {
		rng = fullSpan(repos)
	}

	points := []model.ChartPoint{}
	lanes := make([]model.Lane, 0, len(repos))

	for lane, repo := range repos {
		lanes = append(lanes, model.Lane{
			Index: lane,
			Repo:  repo.FullName,
			Color: repo.Color,
		})

		if rng == nil {
			continue
		}

		for _, rel := range repo.Releases {
			if !rng.Contains(rel.PublishedAt) {
				continue
			}
			points = append(points, model.ChartPoint{
				Time:  rel.PublishedAt,
				Lane:  lane,
				Repo:  repo.FullName,
				Color: repo.Color,
				Label: rel.Tag,
				Tooltip: model.Tooltip{
					Title:       rel.Title,
					Tag:         rel.Tag,
					PublishedAt: rel.PublishedAt,
					BodyExcerpt: bodyExcerpt(rel.Body),
					URL:         rel.URL,
				},
			})
		}
	}

	sort.SliceStable(points, func(i, j int) bool {
		if !points[i].Time.Equal(points[j].Time) {
			return points[i].Time.Before(points[j].Time)
		}
		return points[i].Label < points[j].Label
	})

	spec := model.ChartSpec{
		Points: points,
		Lanes:  lanes,
	}
	if rng != nil {
		spec.Range = *rng
	}
	spec.Stats = computeStatistics(lanes, points)

	return spec
}

// fullSpan returns the [earliest, latest] publish range across all
// repositories, or nil when there are no releases to span.
func fullSpan(repos []model.Repository) *model.DateRange {
	var rng model.DateRange
	found := false

	for _, repo := range repos {
		for _, rel := range repo.Releases {
			if !found {
				rng = model.DateRange{Start: rel.PublishedAt, End: rel.PublishedAt}
				found = true
				continue
			}
			if rel.PublishedAt.Before(rng.Start) {
				rng.Start = rel.PublishedAt
			}
			if rel.PublishedAt.After(rng.End) {
				rng.End = rel.PublishedAt
			}
		}
	}

	if !found {
		return nil
	}
	return &rng
}

// bodyExcerpt trims release notes to the first bodyExcerptLen runes,
// appending an ellipsis when truncated.
func bodyExcerpt(body string) string {
	body = strings.TrimSpace(body)
	runes := []rune(body)
	if len(runes) <= bodyExcerptLen {
		return body
	}
	return string(runes[:bodyExcerptLen]) + "..."
}
