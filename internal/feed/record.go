package feed

import "time"

// Record is the structured result of parsing a podcast feed. Fields are empty
// strings when the feed omits them.
type Record struct {
	Title       string
	Description string
	Author      string
	Language    string
	Copyright   string
	ImageURL    string
	Category    string

	// Episodes in feed declaration order. Position in this slice is the basis
	// for 1-based episode selection.
	Episodes []EpisodeRecord
}

// EpisodeRecord is one feed entry. URL is the media enclosure address and the
// only reliable join key against stored episodes.
type EpisodeRecord struct {
	Title         string
	URL           string
	EpisodeNumber string
	ITunesEpisode string
	Description   string
	Summary       string
	Author        string
	ImageURL      string
	Duration      string
	Keywords      string
	PublishedAt   *time.Time
}
