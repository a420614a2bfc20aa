package application

import (
	"github.com/montanaflynn/stats"

	"github.com/relhist/relhist/internal/domain/model"
)

// computeStatistics summarizes the filtered point set: total and per-repo
// release counts, the earliest/latest publish timestamps, and per-repo
// release cadence (mean and median days between consecutive releases).
// It is recomputed on every chart build so filter changes are reflected
// immediately; nothing is cached across calls.
func computeStatistics(lanes []model.Lane, points []model.ChartPoint) model.Statistics {
	s := model.Statistics{
		TotalReleases: len(points),
		PerRepo:       make([]model.RepoStats, 0, len(lanes)),
	}

	timesByLane := make(map[int][]model.ChartPoint, len(lanes))
	for _, p := range points {
		timesByLane[p.Lane] = append(timesByLane[p.Lane], p)

		if s.Earliest.IsZero() || p.Time.Before(s.Earliest) {
			s.Earliest = p.Time
		}
		if s.Latest.IsZero() || p.Time.After(s.Latest) {
			s.Latest = p.Time
		}
	}

	for _, lane := range lanes {
		repoPoints := timesByLane[lane.Index]
		rs := model.RepoStats{
			Repo:         lane.Repo,
			ReleaseCount: len(repoPoints),
		}
		rs.MeanIntervalDays, rs.MedianIntervalDays = cadence(repoPoints)
		s.PerRepo = append(s.PerRepo, rs)
	}

	return s
}

// cadence returns the mean and median gap, in days, between consecutive
// releases. Points arrive sorted ascending by time. Fewer than two points
// yield zero metrics.
func cadence(points []model.ChartPoint) (mean, median float64) {
	if len(points) < 2 {
		return 0, 0
	}

	intervals := make([]float64, 0, len(points)-1)
	for i := 1; i < len(points); i++ {
		intervals = append(intervals, points[i].Time.Sub(points[i-1].Time).Hours()/24)
	}

	// stats errors only on empty input, which is excluded above.
	mean, _ = stats.Mean(intervals)
	median, _ = stats.Median(intervals)
	return mean, median
}
