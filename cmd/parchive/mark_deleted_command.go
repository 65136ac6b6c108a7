package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"parchive/internal/config"
	"parchive/internal/store"
)

func newMarkDeletedCommand(cc *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "mark-deleted <show-id> <episode-number>",
		Short: "Record that an episode's file was deleted by hand",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			showID, err := parseShowID(args[0])
			if err != nil {
				return err
			}
			number := args[1]
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

				var target *store.Episode
				for _, episode := range episodes {
					if episode.EpisodeNumber == number {
						target = episode
						break
					}
				}
				if target == nil {
					return fmt.Errorf("episode %s not found for %s", number, show.Name)
				}
				if !target.IsDownloaded {
					fmt.Fprintf(out, "Episode %q is already marked as not downloaded\n", target.Title)
					return nil
				}

				if _, err := st.UpdateEpisodeDownloadStatus(ctx, target.ID, false, ""); err != nil {
					return err
				}
				fmt.Fprintf(out, "Episode %q marked as deleted\n", target.Title)
				return nil
			})
		},
	}
}
