package reindex

import (
	"context"
	"fmt"
	"strings"
	"time"

	"parchive/internal/feed"
	"parchive/internal/store"
)

// Field labels reported for a modified episode.
const (
	FieldTitle  = "title"
	FieldNumber = "number"
	FieldDate   = "date"
)

// Change pairs a feed entry with its stored counterpart. Stored is nil for
// new episodes. Number is the resolved display number of the feed entry.
type Change struct {
	Stored   *store.Episode
	Incoming feed.EpisodeRecord
	Number   string
	Fields   []string
}

// Diff is the reconciliation report between a show's stored episodes and the
// current feed document. Removed episodes are reported only; the archive
// never deletes an episode because the feed dropped it.
type Diff struct {
	New      []Change
	Modified []Change
	Removed  []*store.Episode
}

// Empty reports whether the feed and the store agree. Callers skip Apply on
// an empty diff, which is what keeps the no-change case free of store calls.
func (d Diff) Empty() bool {
	return len(d.New) == 0 && len(d.Modified) == 0 && len(d.Removed) == 0
}

// Result counts the store mutations Apply performed.
type Result struct {
	Added   int
	Updated int
}

// Storer is the subset of the episode store reindexing mutates.
type Storer interface {
	AddEpisode(ctx context.Context, episode *store.Episode) (int64, error)
	UpdateEpisode(ctx context.Context, episode *store.Episode) (bool, error)
}

// Compare diffs stored episodes against the feed's entries, keyed by episode
// URL. A matched episode counts as modified only when its title or display
// number changed; a publish-date drift is labeled on an already-modified
// episode but never qualifies one on its own.
func Compare(stored []*store.Episode, incoming []feed.EpisodeRecord) Diff {
	byURL := storedByURL(stored)

	var diff Diff
	seen := make(map[string]bool, len(incoming))
	for index, entry := range incoming {
		seen[entry.URL] = true
		number := feed.DisplayNumber(entry, index)

		existing, ok := byURL[entry.URL]
		if !ok {
			diff.New = append(diff.New, Change{Incoming: entry, Number: number})
			continue
		}

		fields := changedFields(existing, entry, number)
		if eligible(fields) {
			diff.Modified = append(diff.Modified, Change{
				Stored:   existing,
				Incoming: entry,
				Number:   number,
				Fields:   fields,
			})
		}
	}

	for _, episode := range stored {
		if !seen[episode.URL] {
			diff.Removed = append(diff.Removed, episode)
		}
	}

	return diff
}

// Apply writes every feed entry into the store: entries matching a stored
// episode by URL have their metadata rewritten, the rest are inserted.
// Download state is untouched; UpdateEpisode writes metadata columns only.
// Callers gate Apply on a non-empty diff so an up-to-date show costs nothing.
func Apply(ctx context.Context, st Storer, showID int64, stored []*store.Episode, incoming []feed.EpisodeRecord) (Result, error) {
	byURL := storedByURL(stored)

	var result Result
	for index, entry := range incoming {
		episode := episodeFromEntry(showID, entry, feed.DisplayNumber(entry, index))
		if existing, ok := byURL[entry.URL]; ok {
			episode.ID = existing.ID
			if _, err := st.UpdateEpisode(ctx, episode); err != nil {
				return result, fmt.Errorf("update episode %q: %w", entry.Title, err)
			}
			result.Updated++
			continue
		}
		if _, err := st.AddEpisode(ctx, episode); err != nil {
			return result, fmt.Errorf("add episode %q: %w", entry.Title, err)
		}
		result.Added++
	}
	return result, nil
}

func storedByURL(stored []*store.Episode) map[string]*store.Episode {
	byURL := make(map[string]*store.Episode, len(stored))
	for _, episode := range stored {
		byURL[episode.URL] = episode
	}
	return byURL
}

func changedFields(existing *store.Episode, entry feed.EpisodeRecord, number string) []string {
	var fields []string
	if existing.Title != entry.Title {
		fields = append(fields, FieldTitle)
	}
	if feed.NormalizeNumber(existing.EpisodeNumber) != number {
		fields = append(fields, FieldNumber)
	}
	if !sameDate(existing.PublishedAt, entry.PublishedAt) {
		fields = append(fields, FieldDate)
	}
	return fields
}

func eligible(fields []string) bool {
	for _, field := range fields {
		if field == FieldTitle || field == FieldNumber {
			return true
		}
	}
	return false
}

func sameDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func episodeFromEntry(showID int64, entry feed.EpisodeRecord, number string) *store.Episode {
	return &store.Episode{
		ShowID:        showID,
		Title:         entry.Title,
		URL:           entry.URL,
		EpisodeNumber: number,
		ITunesEpisode: entry.ITunesEpisode,
		Description:   entry.Description,
		Summary:       entry.Summary,
		Author:        entry.Author,
		ImageURL:      entry.ImageURL,
		Duration:      entry.Duration,
		Keywords:      entry.Keywords,
		PublishedAt:   entry.PublishedAt,
	}
}

// newDisplayLimit caps how many new episodes Summary lists by title before
// collapsing the rest into a count. Removed and modified lists are never
// truncated.
const newDisplayLimit = 10

// Summary renders the diff as display lines for the CLI.
func Summary(diff Diff) []string {
	if diff.Empty() {
		return []string{"No differences found between the archive and the feed."}
	}

	var lines []string
	if len(diff.New) > 0 {
		lines = append(lines, fmt.Sprintf("New episodes (%d):", len(diff.New)))
		shown := diff.New
		if len(shown) > newDisplayLimit {
			shown = shown[:newDisplayLimit]
		}
		for _, change := range shown {
			lines = append(lines, fmt.Sprintf("  %s %s", change.Number, change.Incoming.Title))
		}
		if extra := len(diff.New) - newDisplayLimit; extra > 0 {
			lines = append(lines, fmt.Sprintf("  +%d more", extra))
		}
	}

	if len(diff.Modified) > 0 {
		lines = append(lines, fmt.Sprintf("Modified episodes (%d):", len(diff.Modified)))
		for _, change := range diff.Modified {
			lines = append(lines, fmt.Sprintf("  %s %s (%s)", change.Number, change.Incoming.Title, strings.Join(change.Fields, ", ")))
		}
	}

	if len(diff.Removed) > 0 {
		lines = append(lines, fmt.Sprintf("Removed from feed (%d, kept in archive):", len(diff.Removed)))
		for _, episode := range diff.Removed {
			lines = append(lines, fmt.Sprintf("  %s %s", episode.EpisodeNumber, episode.Title))
		}
	}

	return lines
}
