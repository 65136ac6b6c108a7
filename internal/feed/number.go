package feed

import (
	"fmt"
	"regexp"
	"strings"
)

var titleNumberPattern = regexp.MustCompile(`^(\d+)[\s:\-\.]+`)

// DisplayNumber resolves the episode number shown to the user and embedded in
// filenames. Preference order: an explicit feed number, a leading numeric
// prefix in the title ("012: Name", "12 - Name"), and finally the 1-based
// position of the episode in the feed. The result is zero-padded to at least
// three digits and then stripped of leading zeros, normalizing "012" and "12"
// to the same value.
func DisplayNumber(episode EpisodeRecord, index int) string {
	raw := strings.TrimSpace(episode.EpisodeNumber)
	if raw == "" {
		raw = strings.TrimSpace(episode.ITunesEpisode)
	}
	if raw == "" {
		if match := titleNumberPattern.FindStringSubmatch(episode.Title); match != nil {
			raw = match[1]
		}
	}
	if raw == "" {
		raw = fmt.Sprintf("%d", index+1)
	}
	return normalizeNumber(raw)
}

// NormalizeNumber applies the display-number normalization to a stored episode
// number so stored rows and fresh feed entries compare equal.
func NormalizeNumber(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	return normalizeNumber(raw)
}

func normalizeNumber(raw string) string {
	padded := raw
	// Pad the integer part to three digits, preserving any fractional suffix
	// ("3.5" pads to "003.5").
	whole, frac, hasFrac := strings.Cut(padded, ".")
	for len(whole) < 3 {
		whole = "0" + whole
	}
	if hasFrac {
		padded = whole + "." + frac
	} else {
		padded = whole
	}

	trimmed := strings.TrimLeft(padded, "0")
	if trimmed == "" || strings.HasPrefix(trimmed, ".") {
		trimmed = "0" + trimmed
	}
	return trimmed
}
