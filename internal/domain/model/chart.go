package model

import "time"

// DateRange is an inclusive [Start, End] filter on publish timestamps.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the range, boundaries included.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// Tooltip is the full metadata payload attached to a chart point.
type Tooltip struct {
	Title       string
	Tag         string
	PublishedAt time.Time
	BodyExcerpt string
	URL         string
}

// ChartPoint is one release on the timeline: X is the publish timestamp,
// Lane is the repository's stable row index.
type ChartPoint struct {
	Time    time.Time
	Lane    int
	Repo    string
	Color   string
	Label   string // release tag
	Tooltip Tooltip
}

// Lane maps a repository to its stable row on the chart. Lane indices follow
// registry insertion order and do not change across rebuilds within a session.
type Lane struct {
	Index int
	Repo  string
	Color string
}

// RepoStats holds the per-repository slice of the statistics side-channel.
// Interval metrics are zero for repositories with fewer than two releases
// in the filtered set.
type RepoStats struct {
	Repo               string
	ReleaseCount       int
	MeanIntervalDays   float64
	MedianIntervalDays float64
}

// Statistics summarizes the filtered release set. Earliest and Latest are
// zero when no releases fall inside the range.
type Statistics struct {
	TotalReleases int
	PerRepo       []RepoStats
	Earliest      time.Time
	Latest        time.Time
}

// ChartSpec is a declarative description of the release timeline, independent
// of any rendering technology. Range is the effective filter after defaulting
// (the zero value when the chart is empty), and Stats is recomputed on every
// build.
type ChartSpec struct {
	Points []ChartPoint
	Lanes  []Lane
	Range  DateRange
	Stats  Statistics
}
