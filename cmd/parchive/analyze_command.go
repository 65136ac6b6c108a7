package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"parchive/internal/analysis"
	"parchive/internal/config"
	"parchive/internal/store"
)

func newAnalyzeCommand(cc *commandContext) *cobra.Command {
	var episodeFlag string

	cmd := &cobra.Command{
		Use:   "analyze <show-id>",
		Short: "Show archive details with optional AI-assisted summaries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			showID, err := parseShowID(args[0])
			if err != nil {
				return err
			}
			return cc.withStore(cmd.Context(), func(ctx context.Context, cfg *config.Config, st *store.Store) error {
				out := cmd.OutOrStdout()
				client := analysis.NewClient(cfg.Analysis)

				available := client.Available(ctx)
				if client.Enabled() && !available {
					fmt.Fprintln(out, "Analysis endpoint is not reachable; showing archive details only.")
				}

				show, err := requireShow(ctx, st, showID)
				if err != nil {
					return err
				}
				episodes, err := st.ListEpisodes(ctx, showID, store.OrderByPublished)
				if err != nil {
					return err
				}

				if episodeFlag != "" {
					var target *store.Episode
					for _, episode := range episodes {
						if episode.EpisodeNumber == episodeFlag {
							target = episode
							break
						}
					}
					if target == nil {
						return fmt.Errorf("episode %s not found for %s", episodeFlag, show.Name)
					}

					fmt.Fprintln(out, keyValueTable([][2]string{
						{"Show", show.Name},
						{"Episode Number", target.EpisodeNumber},
						{"Title", target.Title},
						{"Published", formatDate(target.PublishedAt)},
						{"URL", target.URL},
						{"Downloaded", yesNo(target.IsDownloaded)},
					}))

					if available {
						summary, err := client.AnalyzeEpisode(ctx, target, show.Name)
						if err != nil {
							fmt.Fprintf(out, "Analysis failed: %v\n", err)
							return nil
						}
						fmt.Fprintf(out, "\nAnalysis:\n%s\n", summary)
					}
					return nil
				}

				downloaded := 0
				for _, episode := range episodes {
					if episode.IsDownloaded {
						downloaded++
					}
				}
				fmt.Fprintln(out, keyValueTable([][2]string{
					{"Name", show.Name},
					{"Feed URL", show.URL},
					{"Total Episodes", strconv.Itoa(len(episodes))},
					{"Downloaded Episodes", strconv.Itoa(downloaded)},
				}))

				if available {
					summary, err := client.AnalyzeShow(ctx, show)
					if err != nil {
						fmt.Fprintf(out, "Analysis failed: %v\n", err)
						return nil
					}
					fmt.Fprintf(out, "\nAnalysis:\n%s\n", summary)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&episodeFlag, "episode", "e", "", "Analyze a single episode by its number")
	return cmd
}
