// Package store persists shows and episodes in SQLite.
//
// The Store manages database connections, schema healing, and every query the
// CLI issues. Writes are idempotent by natural key: shows upsert on feed URL,
// episodes on (show id, url), so re-running any ingestion is safe. Each
// mutation is a single statement; a crash mid-batch leaves a consistent if
// incomplete database.
//
// Download state has one owner: UpdateEpisodeDownloadStatus. It maintains the
// invariant that a downloaded episode always has was_downloaded set and a
// download date, and that un-downloading preserves history (was_downloaded
// and file_hash survive so a later scan can re-match the row to a file).
//
// Schema evolution is additive-only. Open heals older databases by adding
// missing columns with safe defaults before serving requests; callers never
// run a separate migration step.
package store
