package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"parchive/internal/config"
	"parchive/internal/download"
	"parchive/internal/feed"
	"parchive/internal/reindex"
	"parchive/internal/selection"
	"parchive/internal/store"
)

func newDownloadCommand(cc *commandContext) *cobra.Command {
	var episodesFlag string
	var skipReindex bool

	cmd := &cobra.Command{
		Use:   "download <show-id>",
		Short: "Download a show's episodes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			showID, err := parseShowID(args[0])
			if err != nil {
				return err
			}
			return cc.withStore(cmd.Context(), func(ctx context.Context, cfg *config.Config, st *store.Store) error {
				logger := cc.ensureLogger()
				out := cmd.OutOrStdout()

				show, err := requireShow(ctx, st, showID)
				if err != nil {
					return err
				}

				fetcher := feed.NewFetcher(cfg)
				record, err := fetcher.Fetch(ctx, show.URL)
				if err != nil {
					return fmt.Errorf("fetch feed for %s: %w", show.Name, err)
				}
				if len(record.Episodes) == 0 {
					return fmt.Errorf("no episodes found in feed for %s", show.Name)
				}

				// Refresh stored metadata before downloading so filenames and
				// numbers reflect the current feed.
				if !skipReindex {
					stored, err := st.ListEpisodes(ctx, showID, store.OrderByPublished)
					if err != nil {
						return err
					}
					diff := reindex.Compare(stored, record.Episodes)
					if !diff.Empty() {
						for _, line := range reindex.Summary(diff) {
							fmt.Fprintln(out, line)
						}
						result, err := reindex.Apply(ctx, st, showID, stored, record.Episodes)
						if err != nil {
							return err
						}
						fmt.Fprintf(out, "Updated metadata: %d added, %d refreshed\n", result.Added, result.Updated)
					}
				}

				selected := selection.Parse(episodesFlag)
				fmt.Fprintf(out, "Downloading %s for %s\n", selection.Describe(selected), show.Name)

				pipeline := download.New(st, fetcher, cfg, logger, cmd.ErrOrStderr())
				stats, err := pipeline.Run(ctx, show, record, selected, episodesFlag)
				if err != nil {
					return err
				}

				fmt.Fprintf(out, "Done: %d downloaded, %d already present, %d failed", stats.Downloaded, stats.Skipped, stats.Failed)
				if stats.MissingURL > 0 {
					fmt.Fprintf(out, ", %d without a download address", stats.MissingURL)
				}
				fmt.Fprintln(out)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&episodesFlag, "episodes", "e", "", "Episode range (e.g. \"1-5,10\"; default all)")
	cmd.Flags().BoolVar(&skipReindex, "skip-reindex", false, "Skip the metadata refresh before downloading")
	return cmd
}
