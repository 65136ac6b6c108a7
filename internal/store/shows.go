package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// AddShow inserts a show and returns its id. If a show with the same URL
// already exists its id is returned unchanged: no duplicate row, no field
// overwrite. Safe to retry.
func (s *Store) AddShow(ctx context.Context, show *Show) (int64, error) {
	if show == nil {
		return 0, errors.New("show is nil")
	}

	var existingID int64
	err := s.db.QueryRowContext(ctx, `SELECT id FROM shows WHERE url = ?`, show.URL).Scan(&existingID)
	if err == nil {
		return existingID, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("check existing show: %w", err)
	}

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO shows (name, url, description, author, image_url, category, language, copyright)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		show.Name,
		show.URL,
		nullableString(show.Description),
		nullableString(show.Author),
		nullableString(show.ImageURL),
		nullableString(show.Category),
		nullableString(show.Language),
		nullableString(show.Copyright),
	)
	if err != nil {
		return 0, fmt.Errorf("insert show: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// GetShow fetches a show by id. A miss returns (nil, nil).
func (s *Store) GetShow(ctx context.Context, id int64) (*Show, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+showColumns+` FROM shows WHERE id = ?`, id)
	show, err := scanShow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get show: %w", err)
	}
	return show, nil
}

// GetShowByURL fetches a show by its feed URL. A miss returns (nil, nil).
func (s *Store) GetShowByURL(ctx context.Context, url string) (*Show, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+showColumns+` FROM shows WHERE url = ?`, url)
	show, err := scanShow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get show by url: %w", err)
	}
	return show, nil
}

// ListShows returns all shows ordered by name.
func (s *Store) ListShows(ctx context.Context) ([]*Show, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+showColumns+` FROM shows ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list shows: %w", err)
	}
	defer rows.Close()

	var shows []*Show
	for rows.Next() {
		show, err := scanShow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan show: %w", err)
		}
		shows = append(shows, show)
	}
	return shows, rows.Err()
}

// UpdateShow performs a full-row update by id and reports whether a row was
// affected.
func (s *Store) UpdateShow(ctx context.Context, show *Show) (bool, error) {
	if show == nil {
		return false, errors.New("show is nil")
	}
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE shows
         SET name = ?, url = ?, description = ?, author = ?, image_url = ?,
             category = ?, language = ?, copyright = ?, updated_at = CURRENT_TIMESTAMP
         WHERE id = ?`,
		show.Name,
		show.URL,
		nullableString(show.Description),
		nullableString(show.Author),
		nullableString(show.ImageURL),
		nullableString(show.Category),
		nullableString(show.Language),
		nullableString(show.Copyright),
		show.ID,
	)
	if err != nil {
		return false, fmt.Errorf("update show: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// DeleteShow deletes a show and, via the cascading foreign key, all of its
// episodes in a single atomic statement.
func (s *Store) DeleteShow(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM shows WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete show: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}
