package store

import "time"

// Show is a podcast identified by its feed URL. The URL is the natural key
// used for idempotent adds; the integer ID is the surrogate key everything
// else references.
type Show struct {
	ID          int64
	Name        string
	URL         string
	Description string
	Author      string
	ImageURL    string
	Category    string
	Language    string
	Copyright   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Episode is a single entry of a show's feed. (ShowID, URL) is the natural
// key; EpisodeNumber is display metadata only and may be non-numeric or
// duplicated within a show.
type Episode struct {
	ID            int64
	ShowID        int64
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
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Download state. FileHash is the content-addressed key linking this row
	// to a file on disk; it is derived from (show id, episode number, url),
	// not from file bytes. IsDownloaded=false with WasDownloaded=true means
	// the file existed once and was deleted.
	FileHash      string
	ImageFileHash string
	IsDownloaded  bool
	WasDownloaded bool
	DownloadDate  *time.Time
	DeletedDate   *time.Time
}

// EpisodeOrder selects the ordering for ListEpisodes.
type EpisodeOrder string

const (
	// OrderByPublished sorts newest first, episode number descending as
	// tiebreak. This is the default.
	OrderByPublished EpisodeOrder = "published_at"
	// OrderByID sorts by insertion order.
	OrderByID EpisodeOrder = "id"
	// OrderByNumber sorts by the episode number string.
	OrderByNumber EpisodeOrder = "episode_number"
)

// ParseEpisodeOrder maps a user-supplied sort name to an EpisodeOrder.
// Unknown values fall back to the published-date default.
func ParseEpisodeOrder(value string) EpisodeOrder {
	switch value {
	case "id":
		return OrderByID
	case "number", "episode_number":
		return OrderByNumber
	default:
		return OrderByPublished
	}
}
