package model

import "time"

// Release is one published version of a tracked repository.
// PublishedAt is always non-zero: drafts and records without a publish
// timestamp are filtered out by the fetch adapter and never reach the
// rest of the system.
type Release struct {
	Tag         string // e.g. "v1.2.3"; unique within one repository
	Title       string // human label, falls back to the tag when unnamed
	PublishedAt time.Time
	Body        string // free-text release notes, may be empty
	URL         string // canonical link to the release page
}
