package model

import "time"

// Repository is one tracked project together with its fetched releases and
// assigned display color.
type Repository struct {
	Owner    string
	Name     string
	FullName string // "owner/name", the unique key within the registry
	Color    string // hex palette color, assigned at add time and immutable
	AddedAt  time.Time
	Releases []Release // replaced wholesale only by an explicit refresh
}
