package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"parchive/internal/config"
	"parchive/internal/download"
	"parchive/internal/scanner"
	"parchive/internal/store"
)

func newListCommand(cc *commandContext) *cobra.Command {
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List shows, episodes, and downloaded files",
	}

	listCmd.AddCommand(newListShowsCommand(cc))
	listCmd.AddCommand(newListEpisodesCommand(cc))
	listCmd.AddCommand(newListDownloadsCommand(cc))

	return listCmd
}

func newListShowsCommand(cc *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "shows",
		Short: "List archived shows",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cc.withStore(cmd.Context(), func(ctx context.Context, cfg *config.Config, st *store.Store) error {
				shows, err := st.ListShows(ctx)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(shows) == 0 {
					fmt.Fprintln(out, "No shows in the archive. Add one with `parchive add-show`.")
					return nil
				}

				rows := make([][]string, 0, len(shows))
				for _, show := range shows {
					episodes, err := st.ListEpisodes(ctx, show.ID, store.OrderByPublished)
					if err != nil {
						return err
					}
					downloaded := 0
					for _, episode := range episodes {
						if episode.IsDownloaded {
							downloaded++
						}
					}
					rows = append(rows, []string{
						strconv.FormatInt(show.ID, 10),
						show.Name,
						strconv.Itoa(len(episodes)),
						strconv.Itoa(downloaded),
						show.URL,
					})
				}

				fmt.Fprintln(out, renderTable(
					[]string{"ID", "Name", "Episodes", "Downloaded", "Feed URL"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignLeft},
				))
				return nil
			})
		},
	}
}

func newListEpisodesCommand(cc *commandContext) *cobra.Command {
	var sortFlag string
	var statusFlag string

	cmd := &cobra.Command{
		Use:   "episodes <show-id>",
		Short: "List a show's episodes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			showID, err := parseShowID(args[0])
			if err != nil {
				return err
			}
			return cc.withStore(cmd.Context(), func(ctx context.Context, cfg *config.Config, st *store.Store) error {
				show, err := requireShow(ctx, st, showID)
				if err != nil {
					return err
				}
				episodes, err := st.ListEpisodes(ctx, showID, store.ParseEpisodeOrder(sortFlag))
				if err != nil {
					return err
				}

				rows := make([][]string, 0, len(episodes))
				for _, episode := range episodes {
					status := episodeStatus(episode)
					if !matchesStatus(statusFlag, status) {
						continue
					}
					rows = append(rows, []string{
						episode.EpisodeNumber,
						episode.Title,
						formatDate(episode.PublishedAt),
						status,
					})
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s (%d episodes)\n", show.Name, len(rows))
				fmt.Fprintln(out, renderTable(
					[]string{"Number", "Title", "Published", "Status"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&sortFlag, "sort", "published", "Sort order: published, id, or number")
	cmd.Flags().StringVar(&statusFlag, "status", "all", "Filter: all, downloaded, not-downloaded, or deleted")
	return cmd
}

func matchesStatus(filter, status string) bool {
	switch filter {
	case "", "all":
		return true
	case "downloaded":
		return status == "downloaded"
	case "deleted":
		return status == "deleted"
	case "not-downloaded":
		return status == "not downloaded"
	default:
		return true
	}
}

func newListDownloadsCommand(cc *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "downloads <show-id>",
		Short: "List a show's files on disk, matched to episodes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			showID, err := parseShowID(args[0])
			if err != nil {
				return err
			}
			return cc.withStore(cmd.Context(), func(ctx context.Context, cfg *config.Config, st *store.Store) error {
				show, err := requireShow(ctx, st, showID)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()

				dir := cfg.ShowDownloadDir(showID)
				entries, err := os.ReadDir(dir)
				if os.IsNotExist(err) {
					fmt.Fprintf(out, "No download directory for %s\n", show.Name)
					return nil
				}
				if err != nil {
					return err
				}

				episodes, err := st.ListEpisodes(ctx, showID, store.OrderByPublished)
				if err != nil {
					return err
				}
				byHash := make(map[string]*store.Episode)
				for _, episode := range episodes {
					if episode.FileHash != "" {
						byHash[episode.FileHash] = episode
					}
					if episode.ImageFileHash != "" {
						byHash[episode.ImageFileHash] = episode
					}
				}

				var rows [][]string
				var sidecars []string
				for _, entry := range entries {
					if entry.IsDir() {
						continue
					}
					name := entry.Name()
					switch name {
					case download.MetadataFile, download.FeedFile, download.CoverFile:
						sidecars = append(sidecars, name)
						continue
					}

					info, err := entry.Info()
					if err != nil {
						return err
					}
					title := ""
					if episode, ok := byHash[scanner.ParseHash(name)]; ok {
						title = episode.Title
					}
					rows = append(rows, []string{name, formatSize(info.Size()), title})
				}

				fmt.Fprintf(out, "Files in %s\n", filepath.Clean(dir))
				fmt.Fprintln(out, renderTable(
					[]string{"File", "Size", "Episode"},
					rows,
					[]columnAlignment{alignLeft, alignRight, alignLeft},
				))
				for _, sidecar := range sidecars {
					fmt.Fprintf(out, "Sidecar: %s\n", sidecar)
				}
				return nil
			})
		},
	}
}
