package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"parchive/internal/config"
	"parchive/internal/feed"
	"parchive/internal/reindex"
	"parchive/internal/store"
)

func newReindexCommand(cc *commandContext) *cobra.Command {
	var forceFlag bool

	cmd := &cobra.Command{
		Use:   "reindex <show-id>",
		Short: "Reconcile a show's stored episodes with its feed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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

				stored, err := st.ListEpisodes(ctx, showID, store.OrderByPublished)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Found %d episodes in the archive for %s\n", len(stored), show.Name)

				record, err := feed.NewFetcher(cfg).Fetch(ctx, show.URL)
				if err != nil {
					return fmt.Errorf("fetch feed for %s: %w", show.Name, err)
				}
				if len(record.Episodes) == 0 {
					return fmt.Errorf("no episodes found in feed for %s", show.Name)
				}
				fmt.Fprintf(out, "Found %d episodes in the feed\n", len(record.Episodes))

				diff := reindex.Compare(stored, record.Episodes)
				for _, line := range reindex.Summary(diff) {
					fmt.Fprintln(out, line)
				}
				if diff.Empty() {
					return nil
				}

				if !forceFlag && !confirm(cmd.InOrStdin(), out, "Update the archive with feed data?") {
					fmt.Fprintln(out, "Reindex cancelled")
					return nil
				}

				result, err := reindex.Apply(ctx, st, showID, stored, record.Episodes)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Reindexed %s: %d episodes added, %d refreshed\n", show.Name, result.Added, result.Updated)
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&forceFlag, "force", "f", false, "Apply without prompting")
	return cmd
}
