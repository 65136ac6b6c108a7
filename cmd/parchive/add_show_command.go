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

func newAddShowCommand(cc *commandContext) *cobra.Command {
	var urlFlag string
	var nameFlag string
	var episodesFlag string

	cmd := &cobra.Command{
		Use:   "add-show",
		Short: "Add a podcast by feed URL and ingest its episodes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cc.withStore(cmd.Context(), func(ctx context.Context, cfg *config.Config, st *store.Store) error {
				logger := cc.ensureLogger()
				out := cmd.OutOrStdout()

				fetcher := feed.NewFetcher(cfg)
				record, err := fetcher.Fetch(ctx, urlFlag)
				if err != nil {
					return fmt.Errorf("add show: %w", err)
				}

				name := nameFlag
				if name == "" {
					name = record.Title
				}
				if name == "" {
					return fmt.Errorf("add show: feed has no title, pass --name")
				}

				existing, err := st.GetShowByURL(ctx, urlFlag)
				if err != nil {
					return err
				}

				showID, err := st.AddShow(ctx, &store.Show{
					Name:        name,
					URL:         urlFlag,
					Description: record.Description,
					Author:      record.Author,
					ImageURL:    record.ImageURL,
					Category:    record.Category,
					Language:    record.Language,
					Copyright:   record.Copyright,
				})
				if err != nil {
					return err
				}
				if existing != nil {
					fmt.Fprintf(out, "Show already exists: %s (id %d)\n", existing.Name, showID)
				} else {
					fmt.Fprintf(out, "Added show %s (id %d)\n", name, showID)
				}

				stored, err := st.ListEpisodes(ctx, showID, store.OrderByPublished)
				if err != nil {
					return err
				}
				diff := reindex.Compare(stored, record.Episodes)
				if !diff.Empty() {
					result, err := reindex.Apply(ctx, st, showID, stored, record.Episodes)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "Ingested %d new episodes, refreshed %d\n", result.Added, result.Updated)
				} else {
					fmt.Fprintln(out, "Episodes already up to date")
				}

				if episodesFlag == "" {
					return nil
				}

				show, err := requireShow(ctx, st, showID)
				if err != nil {
					return err
				}
				selected := selection.Parse(episodesFlag)
				pipeline := download.New(st, fetcher, cfg, logger, cmd.ErrOrStderr())
				stats, err := pipeline.Run(ctx, show, record, selected, episodesFlag)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Downloaded %d, skipped %d, failed %d\n", stats.Downloaded, stats.Skipped, stats.Failed)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&urlFlag, "url", "u", "", "Feed URL of the podcast")
	cmd.Flags().StringVarP(&nameFlag, "name", "n", "", "Override the show name from the feed")
	cmd.Flags().StringVarP(&episodesFlag, "episodes", "e", "", "Episode range to download immediately (e.g. \"1-5,10\" or \"all\")")
	_ = cmd.MarkFlagRequired("url")

	return cmd
}
