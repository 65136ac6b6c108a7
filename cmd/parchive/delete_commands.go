package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"parchive/internal/config"
	"parchive/internal/selection"
	"parchive/internal/store"
)

func newDeleteCommand(cc *commandContext) *cobra.Command {
	deleteCmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete shows or episodes from the archive",
	}

	deleteCmd.AddCommand(newDeleteShowCommand(cc))
	deleteCmd.AddCommand(newDeleteEpisodesCommand(cc))

	return deleteCmd
}

func newDeleteShowCommand(cc *commandContext) *cobra.Command {
	var dbOnly bool
	var filesOnly bool
	var yesFlag bool

	cmd := &cobra.Command{
		Use:   "show <show-id>",
		Short: "Delete a show, its episodes, and its downloaded files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbOnly && filesOnly {
				return fmt.Errorf("--db-only and --files-only are mutually exclusive")
			}
			showID, err := parseShowID(args[0])
			if err != nil {
				return err
			}
			return cc.withStore(cmd.Context(), func(ctx context.Context, cfg *config.Config, st *store.Store) error {
				out := cmd.OutOrStdout()

				show, err := requireShow(ctx, st, showID)
				if err != nil {
					return err
				}
				episodes, err := st.ListEpisodes(ctx, showID, store.OrderByPublished)
				if err != nil {
					return err
				}

				fmt.Fprintf(out, "Show: %s (%d episodes)\n", show.Name, len(episodes))
				if !yesFlag && !confirm(cmd.InOrStdin(), out, fmt.Sprintf("Delete %q?", show.Name)) {
					fmt.Fprintln(out, "Cancelled")
					return nil
				}

				if !dbOnly {
					dir := cfg.ShowDownloadDir(showID)
					if _, err := os.Stat(dir); err == nil {
						if err := os.RemoveAll(dir); err != nil {
							return fmt.Errorf("delete download directory: %w", err)
						}
						fmt.Fprintf(out, "Deleted download directory %s\n", dir)
					}
				}

				if !filesOnly {
					// DeleteShow cascades to the show's episode rows.
					deleted, err := st.DeleteShow(ctx, showID)
					if err != nil {
						return err
					}
					if deleted {
						fmt.Fprintf(out, "Deleted %s and %d episodes from the archive\n", show.Name, len(episodes))
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&dbOnly, "db-only", false, "Delete only the database rows, keep files")
	cmd.Flags().BoolVar(&filesOnly, "files-only", false, "Delete only the downloaded files, keep rows")
	cmd.Flags().BoolVarP(&yesFlag, "yes", "y", false, "Delete without prompting")
	return cmd
}

func newDeleteEpisodesCommand(cc *commandContext) *cobra.Command {
	var episodesFlag string
	var yesFlag bool

	cmd := &cobra.Command{
		Use:   "episodes <show-id>",
		Short: "Delete downloaded episodes in a number range, files and rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			showID, err := parseShowID(args[0])
			if err != nil {
				return err
			}
			selected := selection.Parse(episodesFlag)
			if episodesFlag != "" && episodesFlag != "all" && selected == nil {
				return fmt.Errorf("invalid episode range %q", episodesFlag)
			}
			return cc.withStore(cmd.Context(), func(ctx context.Context, cfg *config.Config, st *store.Store) error {
				out := cmd.OutOrStdout()

				show, err := requireShow(ctx, st, showID)
				if err != nil {
					return err
				}
				episodes, err := st.ListEpisodes(ctx, showID, store.OrderByPublished)
				if err != nil {
					return err
				}

				// Range matching is by numeric display number; episodes with
				// non-numeric numbers are only reachable via "all".
				var targets []*store.Episode
				for _, episode := range episodes {
					if !episode.IsDownloaded {
						continue
					}
					if len(selected) > 0 {
						number, err := strconv.Atoi(episode.EpisodeNumber)
						if err != nil || !selection.Contains(selected, number) {
							continue
						}
					}
					targets = append(targets, episode)
				}
				if len(targets) == 0 {
					fmt.Fprintf(out, "No downloaded episodes match %s\n", selection.Describe(selected))
					return nil
				}

				fmt.Fprintf(out, "Found %d downloaded episodes for %s\n", len(targets), selection.Describe(selected))
				if !yesFlag && !confirm(cmd.InOrStdin(), out, "Delete these episodes?") {
					fmt.Fprintln(out, "Cancelled")
					return nil
				}

				dir := cfg.ShowDownloadDir(showID)
				deletedFiles := 0
				for _, episode := range targets {
					if episode.FileHash != "" {
						// Audio and image share the hash segment.
						matches, err := filepath.Glob(filepath.Join(dir, "*_"+episode.FileHash+"*"))
						if err == nil {
							for _, match := range matches {
								if err := os.Remove(match); err != nil {
									fmt.Fprintf(out, "Error deleting %s: %v\n", filepath.Base(match), err)
									continue
								}
								deletedFiles++
							}
						}
					}
					if _, err := st.DeleteEpisode(ctx, episode.ID); err != nil {
						return err
					}
				}

				fmt.Fprintf(out, "Deleted %d episodes and %d files for %s\n", len(targets), deletedFiles, show.Name)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&episodesFlag, "episodes", "e", "all", "Episode range to delete (e.g. \"1-5,10\" or \"all\")")
	cmd.Flags().BoolVarP(&yesFlag, "yes", "y", false, "Delete without prompting")
	return cmd
}
