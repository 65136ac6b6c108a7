package analysis

import (
	"fmt"
	"strings"

	"parchive/internal/store"
)

const (
	showSystemPrompt    = "You are a helpful podcast analyst who provides concise, informative insights about podcast shows."
	episodeSystemPrompt = "You are a helpful podcast analyst who provides concise, informative insights about podcast episodes."
)

// showPrompt builds the analysis prompt from whichever show metadata is
// populated.
func showPrompt(show *store.Show) string {
	var lines []string
	appendLine(&lines, "Name", show.Name)
	appendLine(&lines, "Description", show.Description)
	appendLine(&lines, "Author/Host", show.Author)
	appendLine(&lines, "Category", show.Category)
	appendLine(&lines, "Language", show.Language)
	appendLine(&lines, "Copyright", show.Copyright)

	return fmt.Sprintf(`Task: Analyze the following podcast show and provide a brief informative summary.

Podcast Information:
%s

Your analysis should cover:
1. What the podcast appears to be about based on its metadata
2. Any notable information that can be inferred from the metadata
3. A concise summary (2-3 sentences)`, metadataSection(lines))
}

func episodePrompt(episode *store.Episode, showName string) string {
	lines := []string{"- Show: " + orUnknown(showName)}
	appendLine(&lines, "Title", episode.Title)
	appendLine(&lines, "Episode Number", episode.EpisodeNumber)
	if episode.PublishedAt != nil {
		appendLine(&lines, "Published", episode.PublishedAt.Format("2006-01-02"))
	}
	appendLine(&lines, "Description", episode.Description)
	appendLine(&lines, "Summary", episode.Summary)
	appendLine(&lines, "Author/Host", episode.Author)
	appendLine(&lines, "Duration", episode.Duration)
	appendLine(&lines, "Keywords", episode.Keywords)

	return fmt.Sprintf(`Task: Analyze the following podcast episode and provide a brief informative summary.

Episode Information:
%s

Your analysis should cover:
1. What the episode appears to be about based on its metadata
2. Any notable information that can be inferred from the metadata
3. A concise summary (2-3 sentences)`, metadataSection(lines))
}

func appendLine(lines *[]string, label, value string) {
	if strings.TrimSpace(value) != "" {
		*lines = append(*lines, "- "+label+": "+value)
	}
}

func metadataSection(lines []string) string {
	if len(lines) == 0 {
		return "Limited metadata available"
	}
	return strings.Join(lines, "\n")
}

func orUnknown(value string) string {
	if strings.TrimSpace(value) == "" {
		return "Unknown Show"
	}
	return value
}
