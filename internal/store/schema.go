package store

import (
	"context"
	"fmt"
)

const createShowsSQL = `
CREATE TABLE IF NOT EXISTS shows (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    url TEXT NOT NULL UNIQUE,
    description TEXT,
    author TEXT,
    image_url TEXT,
    category TEXT,
    language TEXT,
    copyright TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
)`

const createEpisodesSQL = `
CREATE TABLE IF NOT EXISTS episodes (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    show_id INTEGER NOT NULL,
    title TEXT NOT NULL,
    url TEXT NOT NULL,
    episode_number TEXT NOT NULL,
    itunes_episode TEXT,
    description TEXT,
    summary TEXT,
    author TEXT,
    image_url TEXT,
    duration TEXT,
    keywords TEXT,
    published_at TIMESTAMP,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    file_hash TEXT,
    image_file_hash TEXT,
    is_downloaded BOOLEAN DEFAULT 0,
    was_downloaded BOOLEAN DEFAULT 0,
    download_date TIMESTAMP,
    deleted_date TIMESTAMP,
    FOREIGN KEY (show_id) REFERENCES shows (id) ON DELETE CASCADE
)`

type columnDef struct {
	name string
	ddl  string
}

// Columns added after the first release. Databases created by older versions
// lack them; ensureSchema adds each one lazily with a safe default. This list
// is additive-only.
var showColumnUpgrades = []columnDef{
	{"description", "TEXT"},
	{"author", "TEXT"},
	{"image_url", "TEXT"},
	{"category", "TEXT"},
	{"language", "TEXT"},
	{"copyright", "TEXT"},
}

var episodeColumnUpgrades = []columnDef{
	{"itunes_episode", "TEXT"},
	{"description", "TEXT"},
	{"summary", "TEXT"},
	{"author", "TEXT"},
	{"image_url", "TEXT"},
	{"duration", "TEXT"},
	{"keywords", "TEXT"},
	{"file_hash", "TEXT"},
	{"image_file_hash", "TEXT"},
	{"is_downloaded", "BOOLEAN DEFAULT 0"},
	{"was_downloaded", "BOOLEAN DEFAULT 0"},
	{"download_date", "TIMESTAMP"},
	{"deleted_date", "TIMESTAMP"},
}

func (s *Store) ensureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createShowsSQL); err != nil {
		return fmt.Errorf("create shows table: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, createEpisodesSQL); err != nil {
		return fmt.Errorf("create episodes table: %w", err)
	}
	if err := s.addMissingColumns(ctx, "shows", showColumnUpgrades); err != nil {
		return err
	}
	if err := s.addMissingColumns(ctx, "episodes", episodeColumnUpgrades); err != nil {
		return err
	}
	return nil
}

func (s *Store) addMissingColumns(ctx context.Context, table string, upgrades []columnDef) error {
	existing, err := s.tableColumns(ctx, table)
	if err != nil {
		return err
	}
	for _, col := range upgrades {
		if _, ok := existing[col.name]; ok {
			continue
		}
		stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, col.name, col.ddl)
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("add column %s.%s: %w", table, col.name, err)
		}
	}
	return nil
}

func (s *Store) tableColumns(ctx context.Context, table string) (map[string]struct{}, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return nil, fmt.Errorf("table info %s: %w", table, err)
	}
	defer rows.Close()

	columns := make(map[string]struct{})
	for rows.Next() {
		var (
			cid        int
			name       string
			colType    string
			notNull    int
			defaultVal any
			pk         int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &defaultVal, &pk); err != nil {
			return nil, fmt.Errorf("scan table info: %w", err)
		}
		columns[name] = struct{}{}
	}
	return columns, rows.Err()
}
