package scanner

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"parchive/internal/config"
	"parchive/internal/download"
	"parchive/internal/store"
)

// FlagMismatch is an episode whose media exists on disk while the store says
// it is not downloaded.
type FlagMismatch struct {
	Episode *store.Episode
	Files   []string
}

// Report holds one show's classification of database/filesystem mismatches.
type Report struct {
	ShowID int64

	// DirectoryMissing and NoMedia short-circuit classification: with no
	// files at all, every downloaded episode is treated as missing its file.
	DirectoryMissing bool
	NoMedia          bool

	// MissingFiles are episodes flagged downloaded whose hash matches no file.
	MissingFiles []*store.Episode
	// MissingFlags are files whose hash matches an episode not flagged
	// downloaded.
	MissingFlags []FlagMismatch
	// Orphans are file paths whose hash matches no episode at all.
	Orphans []string
}

// Clean reports whether the store and the filesystem agree.
func (r *Report) Clean() bool {
	return len(r.MissingFiles) == 0 && len(r.MissingFlags) == 0 && len(r.Orphans) == 0
}

// FixResult counts the store mutations a fix pass performed.
type FixResult struct {
	MarkedNotDownloaded int
	MarkedDownloaded    int
}

// Scanner reconciles a show's download directory with its store rows.
type Scanner struct {
	store  *store.Store
	cfg    *config.Config
	logger *slog.Logger
}

func New(st *store.Store, cfg *config.Config, logger *slog.Logger) *Scanner {
	return &Scanner{store: st, cfg: cfg, logger: logger}
}

// Scan classifies every mismatch between show's episodes and its download
// directory. It never mutates anything; Fix and DeleteOrphans act on the
// report separately so reporting, flag repair, and orphan deletion stay
// independently controllable.
func (s *Scanner) Scan(ctx context.Context, show *store.Show) (*Report, error) {
	report := &Report{ShowID: show.ID}

	episodes, err := s.store.ListEpisodes(ctx, show.ID, store.OrderByPublished)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", show.Name, err)
	}
	if len(episodes) == 0 {
		return report, nil
	}

	dir := s.cfg.ShowDownloadDir(show.ID)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		report.DirectoryMissing = true
		report.MissingFiles = downloadedEpisodes(episodes)
		return report, nil
	}

	files, err := mediaFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", show.Name, err)
	}
	if len(files) == 0 {
		report.NoMedia = true
		report.MissingFiles = downloadedEpisodes(episodes)
		return report, nil
	}

	onDisk := make(map[string][]string)
	for _, file := range files {
		hash := ParseHash(filepath.Base(file))
		onDisk[hash] = append(onDisk[hash], file)
	}

	for _, episode := range episodes {
		if episode.IsDownloaded && episode.FileHash != "" {
			if _, ok := onDisk[episode.FileHash]; !ok {
				report.MissingFiles = append(report.MissingFiles, episode)
			}
		}
	}

	for hash, paths := range onDisk {
		matched := false
		for _, episode := range episodes {
			if episode.FileHash != hash && episode.ImageFileHash != hash {
				continue
			}
			matched = true
			if !episode.IsDownloaded {
				report.MissingFlags = append(report.MissingFlags, FlagMismatch{Episode: episode, Files: paths})
			}
			break
		}
		if !matched {
			report.Orphans = append(report.Orphans, paths...)
		}
	}

	return report, nil
}

// Fix repairs the store side of the report: missing-file episodes are marked
// not downloaded, missing-flag episodes are marked downloaded using the hash
// the store already holds for them, never the one parsed off the filename.
func (s *Scanner) Fix(ctx context.Context, report *Report) (FixResult, error) {
	var result FixResult

	for _, episode := range report.MissingFiles {
		changed, err := s.store.UpdateEpisodeDownloadStatus(ctx, episode.ID, false, "")
		if err != nil {
			return result, fmt.Errorf("mark not downloaded %q: %w", episode.Title, err)
		}
		if changed {
			result.MarkedNotDownloaded++
			s.logger.Info("marked episode not downloaded", "episode", episode.Title, "number", episode.EpisodeNumber)
		}
	}

	for _, mismatch := range report.MissingFlags {
		episode := mismatch.Episode
		changed, err := s.store.UpdateEpisodeDownloadStatus(ctx, episode.ID, true, episode.FileHash)
		if err != nil {
			return result, fmt.Errorf("mark downloaded %q: %w", episode.Title, err)
		}
		if changed {
			result.MarkedDownloaded++
			s.logger.Info("marked episode downloaded", "episode", episode.Title, "number", episode.EpisodeNumber)
		}
	}

	return result, nil
}

// DeleteOrphans removes the report's orphaned files from disk. Each failure
// is reported individually and does not stop the remaining deletions.
func (s *Scanner) DeleteOrphans(report *Report) (int, []error) {
	deleted := 0
	var errs []error
	for _, path := range report.Orphans {
		if err := os.Remove(path); err != nil {
			errs = append(errs, fmt.Errorf("delete %s: %w", filepath.Base(path), err))
			continue
		}
		deleted++
		s.logger.Info("deleted orphaned file", "file", filepath.Base(path))
	}
	return deleted, errs
}

// ParseHash recovers the hash segment from a media filename: everything in
// the stem after the first underscore. Older archives named files by bare
// hash, so a stem without an underscore is taken whole.
func ParseHash(filename string) string {
	stem := strings.TrimSuffix(filename, filepath.Ext(filename))
	if _, hash, found := strings.Cut(stem, "_"); found {
		return hash
	}
	return stem
}

func downloadedEpisodes(episodes []*store.Episode) []*store.Episode {
	var downloaded []*store.Episode
	for _, episode := range episodes {
		if episode.IsDownloaded {
			downloaded = append(downloaded, episode)
		}
	}
	return downloaded
}

// mediaFiles lists the directory's audio files plus any image that is not a
// reserved sidecar.
func mediaFiles(dir string) ([]string, error) {
	audio, err := filepath.Glob(filepath.Join(dir, "*.mp3"))
	if err != nil {
		return nil, err
	}
	images, err := filepath.Glob(filepath.Join(dir, "*.jpg"))
	if err != nil {
		return nil, err
	}

	files := audio
	for _, image := range images {
		switch filepath.Base(image) {
		case download.CoverFile, download.FeedFile, download.MetadataFile:
			continue
		}
		files = append(files, image)
	}
	return files, nil
}
