package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// AddEpisode inserts an episode and returns its id. If an episode already
// exists for (show_id, url), its metadata is updated in place and the
// existing id is returned, making feed re-ingestion idempotent.
func (s *Store) AddEpisode(ctx context.Context, episode *Episode) (int64, error) {
	if episode == nil {
		return 0, errors.New("episode is nil")
	}

	var existingID int64
	err := s.db.QueryRowContext(
		ctx,
		`SELECT id FROM episodes WHERE show_id = ? AND url = ?`,
		episode.ShowID, episode.URL,
	).Scan(&existingID)
	if err == nil {
		episode.ID = existingID
		if _, updateErr := s.UpdateEpisode(ctx, episode); updateErr != nil {
			return 0, updateErr
		}
		return existingID, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("check existing episode: %w", err)
	}

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO episodes (
            show_id, title, url, episode_number, itunes_episode, description,
            summary, author, image_url, duration, keywords, published_at,
            file_hash, image_file_hash, is_downloaded, was_downloaded,
            download_date, deleted_date
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		episode.ShowID,
		episode.Title,
		episode.URL,
		episode.EpisodeNumber,
		nullableString(episode.ITunesEpisode),
		nullableString(episode.Description),
		nullableString(episode.Summary),
		nullableString(episode.Author),
		nullableString(episode.ImageURL),
		nullableString(episode.Duration),
		nullableString(episode.Keywords),
		nullableTime(episode.PublishedAt),
		nullableString(episode.FileHash),
		nullableString(episode.ImageFileHash),
		boolToInt(episode.IsDownloaded),
		boolToInt(episode.WasDownloaded),
		nullableTime(episode.DownloadDate),
		nullableTime(episode.DeletedDate),
	)
	if err != nil {
		return 0, fmt.Errorf("insert episode: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// GetEpisode fetches an episode by id. A miss returns (nil, nil).
func (s *Store) GetEpisode(ctx context.Context, id int64) (*Episode, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+episodeColumns+` FROM episodes WHERE id = ?`, id)
	episode, err := scanEpisode(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get episode: %w", err)
	}
	return episode, nil
}

// GetEpisodeByFileHash fetches the episode whose file hash matches. A miss
// returns (nil, nil).
func (s *Store) GetEpisodeByFileHash(ctx context.Context, hash string) (*Episode, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+episodeColumns+` FROM episodes WHERE file_hash = ?`, hash)
	episode, err := scanEpisode(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get episode by file hash: %w", err)
	}
	return episode, nil
}

// ListEpisodes returns a show's episodes in the requested order. The default
// published-date order lists newest first.
func (s *Store) ListEpisodes(ctx context.Context, showID int64, order EpisodeOrder) ([]*Episode, error) {
	var orderClause string
	switch order {
	case OrderByID:
		orderClause = ` ORDER BY id ASC`
	case OrderByNumber:
		orderClause = ` ORDER BY episode_number ASC`
	default:
		orderClause = ` ORDER BY published_at DESC, episode_number DESC`
	}

	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+episodeColumns+` FROM episodes WHERE show_id = ?`+orderClause,
		showID,
	)
	if err != nil {
		return nil, fmt.Errorf("list episodes: %w", err)
	}
	defer rows.Close()

	var episodes []*Episode
	for rows.Next() {
		episode, err := scanEpisode(rows)
		if err != nil {
			return nil, fmt.Errorf("scan episode: %w", err)
		}
		episodes = append(episodes, episode)
	}
	return episodes, rows.Err()
}

// UpdateEpisode updates an episode's mutable metadata fields. Download-state
// fields are never touched here; UpdateEpisodeDownloadStatus owns those.
func (s *Store) UpdateEpisode(ctx context.Context, episode *Episode) (bool, error) {
	if episode == nil {
		return false, errors.New("episode is nil")
	}
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE episodes
         SET title = ?, url = ?, episode_number = ?, itunes_episode = ?,
             description = ?, summary = ?, author = ?, image_url = ?,
             duration = ?, keywords = ?, published_at = ?, updated_at = CURRENT_TIMESTAMP
         WHERE id = ?`,
		episode.Title,
		episode.URL,
		episode.EpisodeNumber,
		nullableString(episode.ITunesEpisode),
		nullableString(episode.Description),
		nullableString(episode.Summary),
		nullableString(episode.Author),
		nullableString(episode.ImageURL),
		nullableString(episode.Duration),
		nullableString(episode.Keywords),
		nullableTime(episode.PublishedAt),
		episode.ID,
	)
	if err != nil {
		return false, fmt.Errorf("update episode: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// DeleteEpisode deletes a single episode row.
func (s *Store) DeleteEpisode(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM episodes WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete episode: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// DeleteEpisodesByShow deletes all episodes for a show and returns the count.
func (s *Store) DeleteEpisodesByShow(ctx context.Context, showID int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM episodes WHERE show_id = ?`, showID)
	if err != nil {
		return 0, fmt.Errorf("delete episodes by show: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return affected, nil
}

// UpdateEpisodeDownloadStatus is the only path that mutates download state.
//
// Marking downloaded sets is_downloaded and was_downloaded, stamps the
// download date, records the file hash, and clears any deletion marker.
// Marking not-downloaded stamps deleted_date and leaves was_downloaded and
// file_hash untouched so history and file identity survive for a later
// re-match.
func (s *Store) UpdateEpisodeDownloadStatus(ctx context.Context, id int64, isDownloaded bool, fileHash string) (bool, error) {
	now := time.Now().UTC().Format(time.RFC3339Nano)

	var (
		res sql.Result
		err error
	)
	if isDownloaded {
		res, err = s.db.ExecContext(
			ctx,
			`UPDATE episodes
             SET is_downloaded = 1, was_downloaded = 1, download_date = ?,
                 file_hash = ?, deleted_date = NULL, updated_at = CURRENT_TIMESTAMP
             WHERE id = ?`,
			now, nullableString(fileHash), id,
		)
	} else {
		res, err = s.db.ExecContext(
			ctx,
			`UPDATE episodes
             SET is_downloaded = 0, deleted_date = ?, updated_at = CURRENT_TIMESTAMP
             WHERE id = ?`,
			now, id,
		)
	}
	if err != nil {
		return false, fmt.Errorf("update download status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// UpdateEpisodeFileHash records the computed file hash without touching
// download state. The download pipeline assigns hashes at selection time,
// before any transfer is attempted.
func (s *Store) UpdateEpisodeFileHash(ctx context.Context, id int64, fileHash string) (bool, error) {
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE episodes SET file_hash = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		fileHash, id,
	)
	if err != nil {
		return false, fmt.Errorf("update file hash: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// UpdateEpisodeImageFileHash records the image file hash independent of the
// main download status.
func (s *Store) UpdateEpisodeImageFileHash(ctx context.Context, id int64, imageFileHash string) (bool, error) {
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE episodes SET image_file_hash = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		imageFileHash, id,
	)
	if err != nil {
		return false, fmt.Errorf("update image file hash: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}
