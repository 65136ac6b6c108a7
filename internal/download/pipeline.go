package download

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"

	"parchive/internal/config"
	"parchive/internal/feed"
	"parchive/internal/selection"
	"parchive/internal/store"
)

// Reserved sidecar filenames written alongside episode media.
const (
	MetadataFile = "metadata.json"
	FeedFile     = "feed.xml"
	CoverFile    = "cover.jpg"
)

// Stats summarizes a pipeline run.
type Stats struct {
	Downloaded int
	Skipped    int
	Failed     int
	MissingURL int
}

// Metadata is the show-level sidecar written to metadata.json on every run.
type Metadata struct {
	ShowID        int64  `json:"show_id"`
	Name          string `json:"name"`
	URL           string `json:"url"`
	LastDownload  string `json:"last_download"`
	LastRSSUpdate string `json:"last_rss_update"`
	EpisodeFilter string `json:"episode_filter"`
}

// Pipeline transfers episode media and sidecars for one show at a time.
// Episodes are processed sequentially; one episode's failure never aborts
// the batch.
type Pipeline struct {
	store   *store.Store
	fetcher *feed.Fetcher
	cfg     *config.Config
	logger  *slog.Logger
	out     io.Writer

	audio  *http.Client
	images *http.Client
}

func New(st *store.Store, fetcher *feed.Fetcher, cfg *config.Config, logger *slog.Logger, out io.Writer) *Pipeline {
	return &Pipeline{
		store:   st,
		fetcher: fetcher,
		cfg:     cfg,
		logger:  logger,
		out:     out,
		audio:   &http.Client{Timeout: time.Duration(cfg.Network.AudioTimeout) * time.Second},
		images:  &http.Client{Timeout: time.Duration(cfg.Network.ImageTimeout) * time.Second},
	}
}

// Run downloads the selected episodes of show from record, writing media and
// sidecars under the show's download directory. selected holds 1-based feed
// positions; nil means every episode. filter is the raw selection string
// recorded in metadata.json.
func (p *Pipeline) Run(ctx context.Context, show *store.Show, record *feed.Record, selected []int, filter string) (Stats, error) {
	var stats Stats

	dir := p.cfg.ShowDownloadDir(show.ID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return stats, fmt.Errorf("create download dir: %w", err)
	}

	if err := p.writeMetadata(dir, show, filter); err != nil {
		return stats, err
	}

	// The raw feed is archived fresh on every run so the sidecar tracks the
	// publisher's latest document.
	if err := p.fetcher.SaveRaw(ctx, show.URL, filepath.Join(dir, FeedFile)); err != nil {
		p.logger.Warn("feed archive failed", "show", show.Name, "error", err)
	}

	p.archiveCover(ctx, show, record, dir)

	episodes, err := p.store.ListEpisodes(ctx, show.ID, store.OrderByPublished)
	if err != nil {
		return stats, fmt.Errorf("list episodes: %w", err)
	}
	byURL := make(map[string]*store.Episode, len(episodes))
	for _, episode := range episodes {
		byURL[episode.URL] = episode
	}

	for index, entry := range record.Episodes {
		if !selection.Contains(selected, index+1) {
			continue
		}
		p.processEpisode(ctx, show, entry, index, byURL[entry.URL], dir, &stats)
	}

	return stats, nil
}

func (p *Pipeline) processEpisode(ctx context.Context, show *store.Show, entry feed.EpisodeRecord, index int, matched *store.Episode, dir string, stats *Stats) {
	number := feed.DisplayNumber(entry, index)

	if entry.URL == "" {
		p.logger.Warn("no download address for episode", "show", show.Name, "episode", entry.Title)
		stats.MissingURL++
		return
	}

	// The hash is assigned as soon as the episode is selected, before any
	// transfer happens, so a later scan can join the row to its file (or its
	// absence) even when this run fails.
	hash := FileHash(show.ID, number, entry.URL)
	if matched != nil {
		if _, err := p.store.UpdateEpisodeFileHash(ctx, matched.ID, hash); err != nil {
			p.logger.Warn("record file hash failed", "episode", entry.Title, "error", err)
		}
	}

	audioPath := filepath.Join(dir, FileName(number, hash, Extension(entry.URL)))
	imagePath := filepath.Join(dir, FileName(number, hash, ".jpg"))

	if _, err := os.Stat(audioPath); err == nil {
		p.logger.Info("file already exists", "file", filepath.Base(audioPath))
		stats.Skipped++
		if _, err := os.Stat(imagePath); os.IsNotExist(err) && entry.ImageURL != "" {
			if err := p.fetchImage(ctx, entry.ImageURL, imagePath); err != nil {
				p.logger.Warn("image backfill failed", "episode", entry.Title, "error", err)
			}
		}
		return
	}

	if err := p.transferAudio(ctx, entry, audioPath); err != nil {
		p.logger.Error("download failed", "episode", entry.Title, "error", err)
		stats.Failed++
		return
	}
	stats.Downloaded++

	if matched != nil {
		if _, err := p.store.UpdateEpisodeDownloadStatus(ctx, matched.ID, true, hash); err != nil {
			p.logger.Warn("record download status failed", "episode", entry.Title, "error", err)
		}
	}

	if entry.ImageURL != "" {
		if err := p.fetchImage(ctx, entry.ImageURL, imagePath); err != nil {
			p.logger.Warn("episode image failed", "episode", entry.Title, "error", err)
		} else if matched != nil {
			if _, err := p.store.UpdateEpisodeImageFileHash(ctx, matched.ID, hash); err != nil {
				p.logger.Warn("record image hash failed", "episode", entry.Title, "error", err)
			}
		}
	}
}

// transferAudio fetches the episode media with a bounded retry loop. Retries
// are immediate; a partial file from a failed attempt is removed so a later
// scan never mistakes it for a completed download.
func (p *Pipeline) transferAudio(ctx context.Context, entry feed.EpisodeRecord, path string) error {
	attempts := p.cfg.Network.DownloadRetries
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			p.logger.Info("retrying download", "episode", entry.Title, "attempt", attempt, "of", attempts)
		}
		if lastErr = p.fetchAudio(ctx, entry, path); lastErr == nil {
			return nil
		}
		p.logger.Warn("download attempt failed", "episode", entry.Title, "attempt", attempt, "error", lastErr)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			p.logger.Warn("remove partial file failed", "file", path, "error", err)
		}
	}
	return fmt.Errorf("failed after %d attempts: %w", attempts, lastErr)
}

func (p *Pipeline) fetchAudio(ctx context.Context, entry feed.EpisodeRecord, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, entry.URL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", p.cfg.Network.UserAgent)

	resp, err := p.audio.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("http %d", resp.StatusCode)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer file.Close()

	bar := progressbar.NewOptions64(resp.ContentLength,
		progressbar.OptionSetDescription(entry.Title),
		progressbar.OptionSetWriter(p.out),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(15),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
	defer bar.Finish()

	if _, err := io.Copy(io.MultiWriter(file, bar), resp.Body); err != nil {
		return fmt.Errorf("write body: %w", err)
	}
	return nil
}

// fetchImage downloads an image in a single attempt with the short image
// timeout. Image failures are never fatal to the episode.
func (p *Pipeline) fetchImage(ctx context.Context, url, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", p.cfg.Network.UserAgent)

	resp, err := p.images.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("http %d", resp.StatusCode)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, resp.Body); err != nil {
		return fmt.Errorf("write body: %w", err)
	}
	return nil
}

// archiveCover saves the show cover to cover.jpg. When the show row has no
// image address yet but the feed carries one, the address is backfilled onto
// the show after a successful fetch.
func (p *Pipeline) archiveCover(ctx context.Context, show *store.Show, record *feed.Record, dir string) {
	coverPath := filepath.Join(dir, CoverFile)

	switch {
	case show.ImageURL != "":
		if err := p.fetchImage(ctx, show.ImageURL, coverPath); err != nil {
			p.logger.Warn("show cover download failed", "show", show.Name, "error", err)
		}
	case record.ImageURL != "":
		if err := p.fetchImage(ctx, record.ImageURL, coverPath); err != nil {
			p.logger.Warn("show cover download failed", "show", show.Name, "error", err)
			return
		}
		show.ImageURL = record.ImageURL
		if _, err := p.store.UpdateShow(ctx, show); err != nil {
			p.logger.Warn("show image backfill failed", "show", show.Name, "error", err)
		}
	}
}

func (p *Pipeline) writeMetadata(dir string, show *store.Show, filter string) error {
	now := time.Now().Format(time.RFC3339)
	meta := Metadata{
		ShowID:        show.ID,
		Name:          show.Name,
		URL:           show.URL,
		LastDownload:  now,
		LastRSSUpdate: now,
		EpisodeFilter: filter,
	}

	encoded, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, MetadataFile), encoded, 0o644); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}
	return nil
}
