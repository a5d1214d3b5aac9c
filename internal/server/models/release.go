package models

import "time"

// Artist is a catalog artist. ImageKey is the object storage key of the
// artist photo; ImageURL is filled in by the release service with a
// presigned URL and is never stored.
type Artist struct {
	ID       int64
	Name     string
	Slug     string
	ImageKey string
	ImageURL string
}

// Release is a single catalog entry (album, EP, single). CoverKey is the
// object storage key of the cover art; CoverURL is the presigned form.
type Release struct {
	ID          int64
	Title       string
	Type        string
	CoverKey    string
	CoverURL    string
	ReleaseDate time.Time
	Featured    bool
	Artist      Artist
}
