package testsupport

import (
	"context"
	"testing"
	"time"

	"parchive/internal/config"
	"parchive/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// AddShow inserts a show for tests and returns its id.
func AddShow(t testing.TB, st *store.Store, name, url string) int64 {
	t.Helper()

	id, err := st.AddShow(context.Background(), &store.Show{Name: name, URL: url})
	if err != nil {
		t.Fatalf("store.AddShow: %v", err)
	}
	return id
}

// AddEpisode inserts an episode for tests and returns its id.
func AddEpisode(t testing.TB, st *store.Store, episode *store.Episode) int64 {
	t.Helper()

	id, err := st.AddEpisode(context.Background(), episode)
	if err != nil {
		t.Fatalf("store.AddEpisode: %v", err)
	}
	return id
}

// Date builds a UTC timestamp pointer for fixture episodes.
func Date(year int, month time.Month, day int) *time.Time {
	ts := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &ts
}
