package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"parchive/internal/testsupport"
)

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:itunes="http://www.itunes.com/dtds/podcast-1.0.dtd">
  <channel>
    <title>Test Show</title>
    <description>A show about testing.</description>
    <language>en-us</language>
    <copyright>2026 Test Show</copyright>
    <itunes:author>Test Author</itunes:author>
    <itunes:image href="https://example.com/cover.jpg"/>
    <itunes:category text="Technology"/>
    <item>
      <title>012: Padded Episode</title>
      <description>First item.</description>
      <pubDate>Mon, 02 Jan 2006 15:04:05 GMT</pubDate>
      <enclosure url="https://example.com/ep12.mp3" type="audio/mpeg" length="1"/>
      <itunes:summary>Summary twelve.</itunes:summary>
      <itunes:duration>1:02:03</itunes:duration>
    </item>
    <item>
      <title>Numbered Episode</title>
      <description>Second item.</description>
      <itunes:episode>13</itunes:episode>
      <enclosure url="https://example.com/ep13.mp3" type="audio/mpeg" length="1"/>
    </item>
    <item>
      <title>No Media Here</title>
      <description>Dropped item.</description>
    </item>
  </channel>
</rss>`

func TestFetchParsesFeed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(sampleRSS))
	}))
	defer server.Close()

	fetcher := NewFetcher(testsupport.NewConfig(t))
	record, err := fetcher.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if record.Title != "Test Show" {
		t.Fatalf("title = %q", record.Title)
	}
	if record.Author != "Test Author" {
		t.Fatalf("author = %q", record.Author)
	}
	if record.ImageURL != "https://example.com/cover.jpg" {
		t.Fatalf("image url = %q", record.ImageURL)
	}
	if record.Category != "Technology" {
		t.Fatalf("category = %q", record.Category)
	}
	if len(record.Episodes) != 2 {
		t.Fatalf("episodes = %d, want 2 (item without media dropped)", len(record.Episodes))
	}

	first := record.Episodes[0]
	if first.URL != "https://example.com/ep12.mp3" {
		t.Fatalf("first url = %q", first.URL)
	}
	if first.PublishedAt == nil {
		t.Fatal("first episode missing published date")
	}
	if first.Duration != "1:02:03" {
		t.Fatalf("duration = %q", first.Duration)
	}

	second := record.Episodes[1]
	if second.ITunesEpisode != "13" {
		t.Fatalf("itunes episode = %q", second.ITunesEpisode)
	}
}

func TestFetchRejectsErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer server.Close()

	fetcher := NewFetcher(testsupport.NewConfig(t))
	if _, err := fetcher.Fetch(context.Background(), server.URL); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestSaveRawWritesVerbatim(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sampleRSS))
	}))
	defer server.Close()

	fetcher := NewFetcher(testsupport.NewConfig(t))
	path := filepath.Join(t.TempDir(), "feed.xml")
	if err := fetcher.SaveRaw(context.Background(), server.URL, path); err != nil {
		t.Fatalf("SaveRaw: %v", err)
	}

	saved, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read saved feed: %v", err)
	}
	if string(saved) != sampleRSS {
		t.Fatal("saved feed does not match source document")
	}
}

func TestDisplayNumber(t *testing.T) {
	cases := []struct {
		name    string
		episode EpisodeRecord
		index   int
		want    string
	}{
		{"explicit number wins", EpisodeRecord{EpisodeNumber: "42", Title: "7: Title"}, 0, "42"},
		{"itunes episode used", EpisodeRecord{ITunesEpisode: "13", Title: "Plain Title"}, 0, "13"},
		{"title prefix colon", EpisodeRecord{Title: "012: Padded"}, 5, "12"},
		{"title prefix dash", EpisodeRecord{Title: "7 - Dashed"}, 5, "7"},
		{"title prefix dot", EpisodeRecord{Title: "3. Dotted"}, 5, "3"},
		{"no prefix falls back to position", EpisodeRecord{Title: "Plain Title"}, 4, "5"},
		{"fractional preserved", EpisodeRecord{EpisodeNumber: "3.5"}, 0, "3.5"},
		{"digits mid-title ignored", EpisodeRecord{Title: "Top 10 Lists"}, 0, "1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DisplayNumber(tc.episode, tc.index); got != tc.want {
				t.Fatalf("DisplayNumber = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestNormalizeNumber(t *testing.T) {
	if got := NormalizeNumber("012"); got != "12" {
		t.Fatalf("NormalizeNumber(012) = %q", got)
	}
	if got := NormalizeNumber("0"); got != "0" {
		t.Fatalf("NormalizeNumber(0) = %q", got)
	}
	if got := NormalizeNumber(""); got != "" {
		t.Fatalf("NormalizeNumber empty = %q", got)
	}
}
