// Package reindex reconciles a show's stored episodes with its live feed.
// Feed entries and stored rows are joined by episode URL; new entries are
// inserted, metadata drift is rewritten, and entries the feed dropped are
// reported but kept.
package reindex
