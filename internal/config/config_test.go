package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"parchive/internal/config"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, _, exists, err := config.Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatal("expected exists=false for missing file")
	}
	if cfg.Network.DownloadRetries != 3 {
		t.Fatalf("expected default retries 3, got %d", cfg.Network.DownloadRetries)
	}
	if cfg.Network.AudioTimeout != 60 || cfg.Network.ImageTimeout != 30 {
		t.Fatalf("unexpected default timeouts: %+v", cfg.Network)
	}
	if cfg.Logging.Format != "console" {
		t.Fatalf("expected console format, got %q", cfg.Logging.Format)
	}
}

func TestLoadParsesTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "parchive.toml")
	content := `
[paths]
database_path = "` + filepath.Join(dir, "db", "parchive.db") + `"
download_dir = "` + filepath.Join(dir, "dl") + `"
log_dir = "` + filepath.Join(dir, "logs") + `"

[network]
user_agent = "test-agent/2.0"
download_retries = 5

[logging]
format = "json"
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected resolved path %q, got %q (exists=%v)", path, resolved, exists)
	}
	if cfg.Network.UserAgent != "test-agent/2.0" {
		t.Fatalf("unexpected user agent %q", cfg.Network.UserAgent)
	}
	if cfg.Network.DownloadRetries != 5 {
		t.Fatalf("unexpected retries %d", cfg.Network.DownloadRetries)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected logging config %+v", cfg.Logging)
	}
	// Unset sections keep defaults.
	if cfg.Network.AudioTimeout != 60 {
		t.Fatalf("expected default audio timeout, got %d", cfg.Network.AudioTimeout)
	}
}

func TestLoadRejectsBadLogFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "parchive.toml")
	if err := os.WriteFile(path, []byte("[logging]\nformat = \"xml\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, _, _, err := config.Load(path)
	if err == nil || !strings.Contains(err.Error(), "logging.format") {
		t.Fatalf("expected logging.format error, got %v", err)
	}
}

func TestShowDownloadDir(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.DownloadDir = "/tmp/dl"
	got := cfg.ShowDownloadDir(7)
	if got != filepath.Join("/tmp/dl", "7") {
		t.Fatalf("unexpected show dir %q", got)
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DatabasePath = filepath.Join(base, "data", "parchive.db")
	cfg.Paths.DownloadDir = filepath.Join(base, "downloads")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, dir := range []string{filepath.Join(base, "data"), cfg.Paths.DownloadDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory %q, err=%v", dir, err)
		}
	}
}
