package reindex

import (
	"context"
	"fmt"
	"testing"
	"time"

	"parchive/internal/feed"
	"parchive/internal/store"
	"parchive/internal/testsupport"
)

func storedEpisode(id int64, title, url, number string, published *time.Time) *store.Episode {
	return &store.Episode{
		ID:            id,
		ShowID:        1,
		Title:         title,
		URL:           url,
		EpisodeNumber: number,
		PublishedAt:   published,
	}
}

func TestCompareClassifiesChanges(t *testing.T) {
	date := testsupport.Date(2026, 1, 10)
	stored := []*store.Episode{
		storedEpisode(1, "1: First", "https://example.com/1.mp3", "1", date),
		storedEpisode(2, "2: Second", "https://example.com/2.mp3", "2", date),
		storedEpisode(3, "3: Third", "https://example.com/3.mp3", "3", date),
		storedEpisode(4, "4: Fourth", "https://example.com/4.mp3", "4", date),
	}
	incoming := []feed.EpisodeRecord{
		{Title: "1: First", URL: "https://example.com/1.mp3", EpisodeNumber: "1", PublishedAt: date},
		{Title: "2: Second (remastered)", URL: "https://example.com/2.mp3", EpisodeNumber: "2", PublishedAt: date},
		{Title: "3: Third", URL: "https://example.com/3.mp3", EpisodeNumber: "3.5", PublishedAt: date},
		{Title: "5: Fifth", URL: "https://example.com/5.mp3", EpisodeNumber: "5", PublishedAt: date},
	}

	diff := Compare(stored, incoming)

	if len(diff.New) != 1 || diff.New[0].Incoming.Title != "5: Fifth" {
		t.Fatalf("new = %+v", diff.New)
	}
	if len(diff.Removed) != 1 || diff.Removed[0].ID != 4 {
		t.Fatalf("removed = %+v", diff.Removed)
	}
	if len(diff.Modified) != 2 {
		t.Fatalf("modified = %+v", diff.Modified)
	}
	if diff.Modified[0].Stored.ID != 2 || diff.Modified[0].Fields[0] != FieldTitle {
		t.Fatalf("first modified = %+v", diff.Modified[0])
	}
	if diff.Modified[1].Stored.ID != 3 || diff.Modified[1].Fields[0] != FieldNumber {
		t.Fatalf("second modified = %+v", diff.Modified[1])
	}
	if diff.Empty() {
		t.Fatal("diff with changes must not be empty")
	}
}

func TestCompareIdenticalFeedIsEmpty(t *testing.T) {
	date := testsupport.Date(2026, 1, 10)
	stored := []*store.Episode{
		storedEpisode(1, "1: First", "https://example.com/1.mp3", "1", date),
	}
	incoming := []feed.EpisodeRecord{
		{Title: "1: First", URL: "https://example.com/1.mp3", EpisodeNumber: "1", PublishedAt: date},
	}

	if diff := Compare(stored, incoming); !diff.Empty() {
		t.Fatalf("diff = %+v", diff)
	}
}

func TestCompareDateOnlyChangeIsNotModified(t *testing.T) {
	stored := []*store.Episode{
		storedEpisode(1, "1: First", "https://example.com/1.mp3", "1", testsupport.Date(2026, 1, 10)),
	}
	incoming := []feed.EpisodeRecord{
		{Title: "1: First", URL: "https://example.com/1.mp3", EpisodeNumber: "1", PublishedAt: testsupport.Date(2026, 2, 1)},
	}

	diff := Compare(stored, incoming)
	if len(diff.Modified) != 0 {
		t.Fatalf("date-only drift must not qualify as modified: %+v", diff.Modified)
	}
}

func TestCompareDateLabeledAlongsideTitle(t *testing.T) {
	stored := []*store.Episode{
		storedEpisode(1, "1: First", "https://example.com/1.mp3", "1", testsupport.Date(2026, 1, 10)),
	}
	incoming := []feed.EpisodeRecord{
		{Title: "1: First (fixed)", URL: "https://example.com/1.mp3", EpisodeNumber: "1", PublishedAt: testsupport.Date(2026, 2, 1)},
	}

	diff := Compare(stored, incoming)
	if len(diff.Modified) != 1 {
		t.Fatalf("modified = %+v", diff.Modified)
	}
	fields := diff.Modified[0].Fields
	if len(fields) != 2 || fields[0] != FieldTitle || fields[1] != FieldDate {
		t.Fatalf("fields = %v", fields)
	}
}

type countingStore struct {
	adds    int
	updates int
}

func (c *countingStore) AddEpisode(ctx context.Context, episode *store.Episode) (int64, error) {
	c.adds++
	return int64(c.adds), nil
}

func (c *countingStore) UpdateEpisode(ctx context.Context, episode *store.Episode) (bool, error) {
	c.updates++
	return true, nil
}

func TestApplyEmptyFeedTouchesNothing(t *testing.T) {
	spy := &countingStore{}
	result, err := Apply(context.Background(), spy, 1, nil, nil)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if result.Added != 0 || result.Updated != 0 {
		t.Fatalf("result = %+v", result)
	}
	if spy.adds != 0 || spy.updates != 0 {
		t.Fatalf("empty feed must not call the store (adds=%d updates=%d)", spy.adds, spy.updates)
	}
}

func TestApplyRewritesMatchesAndInsertsNew(t *testing.T) {
	spy := &countingStore{}
	stored := []*store.Episode{
		storedEpisode(1, "1: Unchanged", "https://example.com/1.mp3", "1", nil),
		storedEpisode(2, "2: Old Title", "https://example.com/2.mp3", "2", nil),
	}
	incoming := []feed.EpisodeRecord{
		{Title: "1: Unchanged", URL: "https://example.com/1.mp3", EpisodeNumber: "1"},
		{Title: "2: New Title", URL: "https://example.com/2.mp3", EpisodeNumber: "2"},
		{Title: "3: Brand New", URL: "https://example.com/3.mp3", EpisodeNumber: "3"},
	}

	result, err := Apply(context.Background(), spy, 1, stored, incoming)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	// Every matched feed entry is rewritten, unchanged or not.
	if result.Updated != 2 || result.Added != 1 {
		t.Fatalf("result = %+v", result)
	}
	if spy.updates != 2 || spy.adds != 1 {
		t.Fatalf("store calls: adds=%d updates=%d", spy.adds, spy.updates)
	}
}

func TestApplyRemovedEpisodesAreNeverDeleted(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	showID := testsupport.AddShow(t, st, "Kept Show", "https://example.com/kept.rss")
	episodeID := testsupport.AddEpisode(t, st, &store.Episode{
		ShowID:        showID,
		Title:         "1: Gone From Feed",
		URL:           "https://example.com/1.mp3",
		EpisodeNumber: "1",
	})

	stored := mustList(t, st, showID)
	diff := Compare(stored, nil)
	if len(diff.Removed) != 1 {
		t.Fatalf("removed = %+v", diff.Removed)
	}
	if _, err := Apply(ctx, st, showID, stored, nil); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	episode, err := st.GetEpisode(ctx, episodeID)
	if err != nil {
		t.Fatalf("GetEpisode: %v", err)
	}
	if episode == nil {
		t.Fatal("removed episode was deleted from the store")
	}
}

func TestApplyAgainstStore(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	showID := testsupport.AddShow(t, st, "Diff Show", "https://example.com/diff.rss")
	testsupport.AddEpisode(t, st, &store.Episode{
		ShowID:        showID,
		Title:         "1: Old Title",
		URL:           "https://example.com/1.mp3",
		EpisodeNumber: "1",
	})

	incoming := []feed.EpisodeRecord{
		{Title: "1: New Title", URL: "https://example.com/1.mp3", EpisodeNumber: "1"},
		{Title: "2: Brand New", URL: "https://example.com/2.mp3", EpisodeNumber: "2"},
	}
	stored := mustList(t, st, showID)
	result, err := Apply(ctx, st, showID, stored, incoming)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if result.Added != 1 || result.Updated != 1 {
		t.Fatalf("result = %+v", result)
	}

	episodes := mustList(t, st, showID)
	if len(episodes) != 2 {
		t.Fatalf("episodes = %d", len(episodes))
	}
	titles := map[string]bool{}
	for _, episode := range episodes {
		titles[episode.Title] = true
	}
	if !titles["1: New Title"] || !titles["2: Brand New"] {
		t.Fatalf("titles = %v", titles)
	}
}

func TestSummaryTruncatesNewList(t *testing.T) {
	var diff Diff
	for i := 0; i < 14; i++ {
		diff.New = append(diff.New, Change{
			Incoming: feed.EpisodeRecord{Title: fmt.Sprintf("Episode %d", i+1)},
			Number:   fmt.Sprintf("%d", i+1),
		})
	}

	lines := Summary(diff)
	if lines[0] != "New episodes (14):" {
		t.Fatalf("header = %q", lines[0])
	}
	last := lines[len(lines)-1]
	if last != "  +4 more" {
		t.Fatalf("truncation line = %q", last)
	}
	// header + 10 titles + the +N line
	if len(lines) != 12 {
		t.Fatalf("lines = %d", len(lines))
	}
}

func mustList(t *testing.T, st *store.Store, showID int64) []*store.Episode {
	t.Helper()
	episodes, err := st.ListEpisodes(context.Background(), showID, store.OrderByPublished)
	if err != nil {
		t.Fatalf("ListEpisodes: %v", err)
	}
	return episodes
}
