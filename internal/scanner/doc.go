// Package scanner reconciles a show's download directory with its store
// rows. Files are joined to episodes through the hash segment of their
// filenames; the scanner reports episodes whose files vanished, files whose
// rows were never flagged, and files no row claims at all.
package scanner
