// Package feed fetches and parses podcast feeds into the flat records the
// rest of the archive works against. A Record preserves episode order from
// the feed document; the episode URL is the stable identity used to join
// feed entries with stored rows.
package feed
