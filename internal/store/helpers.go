package store

import (
	"database/sql"
	"errors"
	"time"
)

const showColumns = "id, name, url, description, author, image_url, category, language, copyright, created_at, updated_at"

const episodeColumns = "id, show_id, title, url, episode_number, itunes_episode, description, summary, author, image_url, duration, keywords, published_at, created_at, updated_at, file_hash, image_file_hash, is_downloaded, was_downloaded, download_date, deleted_date"

func scanShow(scanner interface{ Scan(dest ...any) error }) (*Show, error) {
	var (
		id          int64
		name        string
		url         string
		description sql.NullString
		author      sql.NullString
		imageURL    sql.NullString
		category    sql.NullString
		language    sql.NullString
		copyrightV  sql.NullString
		createdRaw  sql.NullString
		updatedRaw  sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&name,
		&url,
		&description,
		&author,
		&imageURL,
		&category,
		&language,
		&copyrightV,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	show := &Show{
		ID:          id,
		Name:        name,
		URL:         url,
		Description: description.String,
		Author:      author.String,
		ImageURL:    imageURL.String,
		Category:    category.String,
		Language:    language.String,
		Copyright:   copyrightV.String,
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		show.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		show.UpdatedAt = updated
	}
	return show, nil
}

func scanEpisode(scanner interface{ Scan(dest ...any) error }) (*Episode, error) {
	var (
		id            int64
		showID        int64
		title         string
		url           string
		episodeNumber string
		itunesEpisode sql.NullString
		description   sql.NullString
		summary       sql.NullString
		author        sql.NullString
		imageURL      sql.NullString
		duration      sql.NullString
		keywords      sql.NullString
		publishedRaw  sql.NullString
		createdRaw    sql.NullString
		updatedRaw    sql.NullString
		fileHash      sql.NullString
		imageFileHash sql.NullString
		isDownloaded  sql.NullInt64
		wasDownloaded sql.NullInt64
		downloadRaw   sql.NullString
		deletedRaw    sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&showID,
		&title,
		&url,
		&episodeNumber,
		&itunesEpisode,
		&description,
		&summary,
		&author,
		&imageURL,
		&duration,
		&keywords,
		&publishedRaw,
		&createdRaw,
		&updatedRaw,
		&fileHash,
		&imageFileHash,
		&isDownloaded,
		&wasDownloaded,
		&downloadRaw,
		&deletedRaw,
	); err != nil {
		return nil, err
	}

	episode := &Episode{
		ID:            id,
		ShowID:        showID,
		Title:         title,
		URL:           url,
		EpisodeNumber: episodeNumber,
		ITunesEpisode: itunesEpisode.String,
		Description:   description.String,
		Summary:       summary.String,
		Author:        author.String,
		ImageURL:      imageURL.String,
		Duration:      duration.String,
		Keywords:      keywords.String,
		FileHash:      fileHash.String,
		ImageFileHash: imageFileHash.String,
		IsDownloaded:  isDownloaded.Valid && isDownloaded.Int64 != 0,
		WasDownloaded: wasDownloaded.Valid && wasDownloaded.Int64 != 0,
	}
	if published, err := parseTimeString(publishedRaw.String); err == nil {
		episode.PublishedAt = &published
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		episode.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		episode.UpdatedAt = updated
	}
	if downloaded, err := parseTimeString(downloadRaw.String); err == nil {
		episode.DownloadDate = &downloaded
	}
	if deleted, err := parseTimeString(deletedRaw.String); err == nil {
		episode.DeletedDate = &deleted
	}
	return episode, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	return value.UTC().Format(time.RFC3339Nano)
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}
