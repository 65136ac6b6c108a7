package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"parchive/internal/store"
	"parchive/internal/testsupport"
)

const cliFeedRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:itunes="http://www.itunes.com/dtds/podcast-1.0.dtd">
  <channel>
    <title>Workflow Test Show</title>
    <description>A feed used in command tests.</description>
    <item>
      <title>1: First</title>
      <enclosure url="%s/ep1.mp3" type="audio/mpeg" length="10"/>
      <pubDate>Mon, 05 Jan 2026 10:00:00 GMT</pubDate>
    </item>
    <item>
      <title>2: Second</title>
      <enclosure url="%s/ep2.mp3" type="audio/mpeg" length="10"/>
      <pubDate>Mon, 12 Jan 2026 10:00:00 GMT</pubDate>
    </item>
  </channel>
</rss>`

func newFeedServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	mux.HandleFunc("/feed.rss", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprintf(w, cliFeedRSS, server.URL, server.URL)
	})
	return server
}

func TestAddShowThenList(t *testing.T) {
	env := setupCLITestEnv(t)
	server := newFeedServer(t)
	feedURL := server.URL + "/feed.rss"

	out, _, err := runCLI(t, []string{"add-show", "--url", feedURL}, env.configPath, "")
	if err != nil {
		t.Fatalf("add-show: %v", err)
	}
	requireContains(t, out, "Added show Workflow Test Show")
	requireContains(t, out, "Ingested 2 new episodes")

	out, _, err = runCLI(t, []string{"list", "shows"}, env.configPath, "")
	if err != nil {
		t.Fatalf("list shows: %v", err)
	}
	requireContains(t, out, "Workflow Test Show")

	out, _, err = runCLI(t, []string{"list", "episodes", "1"}, env.configPath, "")
	if err != nil {
		t.Fatalf("list episodes: %v", err)
	}
	requireContains(t, out, "First")
	requireContains(t, out, "Second")
	requireContains(t, out, "not downloaded")

	// Re-adding the same feed is idempotent.
	out, _, err = runCLI(t, []string{"add-show", "--url", feedURL}, env.configPath, "")
	if err != nil {
		t.Fatalf("add-show (repeat): %v", err)
	}
	requireContains(t, out, "Show already exists")
	requireContains(t, out, "Episodes already up to date")
}

func TestMarkDeletedClearsDownloadFlag(t *testing.T) {
	env := setupCLITestEnv(t)
	ctx := context.Background()

	showID := testsupport.AddShow(t, env.store, "Archive", "https://example.com/feed.rss")
	episodeID := testsupport.AddEpisode(t, env.store, &store.Episode{
		ShowID:        showID,
		Title:         "Kept",
		URL:           "https://example.com/ep1.mp3",
		EpisodeNumber: "1",
	})
	if _, err := env.store.UpdateEpisodeDownloadStatus(ctx, episodeID, true, "abc123"); err != nil {
		t.Fatalf("seed download status: %v", err)
	}

	out, _, err := runCLI(t, []string{"mark-deleted", fmt.Sprint(showID), "1"}, env.configPath, "")
	if err != nil {
		t.Fatalf("mark-deleted: %v", err)
	}
	requireContains(t, out, "marked as deleted")

	episodes, err := env.store.ListEpisodes(ctx, showID, store.OrderByID)
	if err != nil {
		t.Fatalf("ListEpisodes: %v", err)
	}
	if len(episodes) != 1 {
		t.Fatalf("expected 1 episode, got %d", len(episodes))
	}
	ep := episodes[0]
	if ep.IsDownloaded {
		t.Fatal("episode still flagged downloaded")
	}
	if !ep.WasDownloaded {
		t.Fatal("was_downloaded should survive mark-deleted")
	}

	// Running it again reports the current state instead of erroring.
	out, _, err = runCLI(t, []string{"mark-deleted", fmt.Sprint(showID), "1"}, env.configPath, "")
	if err != nil {
		t.Fatalf("mark-deleted (repeat): %v", err)
	}
	requireContains(t, out, "not downloaded")
}
