package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"parchive/internal/config"
)

// Fetcher retrieves and parses podcast feeds.
type Fetcher struct {
	client    *http.Client
	userAgent string
}

// NewFetcher constructs a Fetcher using the configured feed timeout and user
// agent.
func NewFetcher(cfg *config.Config) *Fetcher {
	return &Fetcher{
		client:    &http.Client{Timeout: time.Duration(cfg.Network.FeedTimeout) * time.Second},
		userAgent: cfg.Network.UserAgent,
	}
}

// Fetch downloads and parses the feed at url. Feed fetches are single-attempt:
// a network or parse failure aborts just this fetch, and the caller decides
// how to proceed.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*Record, error) {
	raw, err := f.fetchRaw(ctx, url)
	if err != nil {
		return nil, err
	}
	return Parse(raw)
}

// SaveRaw downloads the feed verbatim and writes it to path. Used to archive
// feed.xml next to downloaded media.
func (f *Fetcher) SaveRaw(ctx context.Context, url, path string) error {
	raw, err := f.fetchRaw(ctx, url)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write feed archive: %w", err)
	}
	return nil
}

func (f *Fetcher) fetchRaw(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build feed request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch feed: http %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read feed body: %w", err)
	}
	return raw, nil
}

// Parse converts raw feed XML into a Record. Episodes without a title or a
// media URL are dropped, matching the archive's requirement that every stored
// episode is addressable.
func Parse(raw []byte) (*Record, error) {
	parsed, err := gofeed.NewParser().ParseString(string(raw))
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	record := &Record{
		Title:       strings.TrimSpace(parsed.Title),
		Description: strings.TrimSpace(parsed.Description),
		Language:    strings.TrimSpace(parsed.Language),
		Copyright:   strings.TrimSpace(parsed.Copyright),
	}
	if parsed.Image != nil {
		record.ImageURL = parsed.Image.URL
	}
	if parsed.ITunesExt != nil {
		if record.Author == "" {
			record.Author = strings.TrimSpace(parsed.ITunesExt.Author)
		}
		if record.ImageURL == "" {
			record.ImageURL = parsed.ITunesExt.Image
		}
		if len(parsed.ITunesExt.Categories) > 0 {
			record.Category = parsed.ITunesExt.Categories[0].Text
		}
	}
	if record.Author == "" && len(parsed.Authors) > 0 && parsed.Authors[0] != nil {
		record.Author = strings.TrimSpace(parsed.Authors[0].Name)
	}

	for _, item := range parsed.Items {
		if item == nil {
			continue
		}
		episode := convertItem(item)
		if episode.Title == "" || episode.URL == "" {
			continue
		}
		record.Episodes = append(record.Episodes, episode)
	}

	return record, nil
}

func convertItem(item *gofeed.Item) EpisodeRecord {
	episode := EpisodeRecord{
		Title:       strings.TrimSpace(item.Title),
		Description: strings.TrimSpace(item.Description),
	}

	// Prefer the media enclosure; fall back to the item link for feeds that
	// put the media address there.
	for _, enclosure := range item.Enclosures {
		if enclosure != nil && enclosure.URL != "" {
			episode.URL = enclosure.URL
			break
		}
	}
	if episode.URL == "" {
		episode.URL = strings.TrimSpace(item.Link)
	}

	if item.Author != nil {
		episode.Author = strings.TrimSpace(item.Author.Name)
	}
	if episode.Author == "" && len(item.Authors) > 0 && item.Authors[0] != nil {
		episode.Author = strings.TrimSpace(item.Authors[0].Name)
	}
	if item.Image != nil {
		episode.ImageURL = item.Image.URL
	}

	if itunes := item.ITunesExt; itunes != nil {
		episode.ITunesEpisode = strings.TrimSpace(itunes.Episode)
		episode.Summary = strings.TrimSpace(itunes.Summary)
		episode.Duration = strings.TrimSpace(itunes.Duration)
		episode.Keywords = strings.TrimSpace(itunes.Keywords)
		if episode.ImageURL == "" {
			episode.ImageURL = itunes.Image
		}
	}

	if item.PublishedParsed != nil {
		ts := *item.PublishedParsed
		episode.PublishedAt = &ts
	} else if item.UpdatedParsed != nil {
		ts := *item.UpdatedParsed
		episode.PublishedAt = &ts
	}

	return episode
}
