package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"parchive/internal/store"
)

func requireShow(ctx context.Context, st *store.Store, id int64) (*store.Show, error) {
	show, err := st.GetShow(ctx, id)
	if err != nil {
		return nil, err
	}
	if show == nil {
		return nil, fmt.Errorf("show %d not found", id)
	}
	return show, nil
}

func parseShowID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid show id %q", arg)
	}
	return id, nil
}

// confirm asks a y/N question on in and returns the answer. Anything but an
// explicit yes declines.
func confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", prompt)
	reader := bufio.NewReader(in)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func formatDate(ts *time.Time) string {
	if ts == nil {
		return ""
	}
	return ts.Format("2006-01-02")
}

// episodeStatus renders the download state machine for display: downloaded,
// deleted (was downloaded once), or not downloaded.
func episodeStatus(episode *store.Episode) string {
	switch {
	case episode.IsDownloaded:
		return "downloaded"
	case episode.WasDownloaded:
		return "deleted"
	default:
		return "not downloaded"
	}
}

func formatSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGT"[exp])
}
