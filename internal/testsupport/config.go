// Package testsupport provides shared helpers for package tests: temp-backed
// configs and store lifecycles.
package testsupport

import (
	"path/filepath"
	"testing"

	"parchive/internal/config"
)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DatabasePath = filepath.Join(base, "data", "parchive.db")
	cfg.Paths.DownloadDir = filepath.Join(base, "downloads")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	return &cfg
}
