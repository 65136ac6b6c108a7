package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"parchive/internal/config"
	"parchive/internal/scanner"
	"parchive/internal/store"
)

func newScanCommand(cc *commandContext) *cobra.Command {
	var fixFlag bool
	var forceFlag bool
	var allFlag bool

	cmd := &cobra.Command{
		Use:   "scan [show-id]",
		Short: "Check a show's files against the archive database",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && !allFlag {
				return fmt.Errorf("pass a show id or --all")
			}
			return cc.withStore(cmd.Context(), func(ctx context.Context, cfg *config.Config, st *store.Store) error {
				sc := scanner.New(st, cfg, cc.ensureLogger())
				out := cmd.OutOrStdout()

				var shows []*store.Show
				if allFlag {
					listed, err := st.ListShows(ctx)
					if err != nil {
						return err
					}
					shows = listed
					if len(shows) == 0 {
						fmt.Fprintln(out, "No shows in the archive.")
						return nil
					}
				} else {
					showID, err := parseShowID(args[0])
					if err != nil {
						return err
					}
					show, err := requireShow(ctx, st, showID)
					if err != nil {
						return err
					}
					shows = []*store.Show{show}
				}

				for _, show := range shows {
					if err := scanOne(ctx, sc, show, fixFlag, forceFlag, out); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&fixFlag, "fix", "f", false, "Repair database flags that disagree with the filesystem")
	cmd.Flags().BoolVar(&forceFlag, "force", false, "Delete orphaned files with no matching episode")
	cmd.Flags().BoolVar(&allFlag, "all", false, "Scan every show")
	return cmd
}

func scanOne(ctx context.Context, sc *scanner.Scanner, show *store.Show, fix, force bool, out io.Writer) error {
	fmt.Fprintf(out, "Scanning %s (id %d)\n", show.Name, show.ID)

	report, err := sc.Scan(ctx, show)
	if err != nil {
		return err
	}

	switch {
	case report.DirectoryMissing:
		fmt.Fprintln(out, "  Download directory does not exist")
	case report.NoMedia:
		fmt.Fprintln(out, "  No media files in the download directory")
	}
	fmt.Fprintf(out, "  %d episodes marked downloaded but missing files\n", len(report.MissingFiles))
	fmt.Fprintf(out, "  %d files present but not marked downloaded\n", len(report.MissingFlags))
	fmt.Fprintf(out, "  %d orphaned files with no matching episode\n", len(report.Orphans))

	if fix {
		result, err := sc.Fix(ctx, report)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "  Fixed: %d marked not downloaded, %d marked downloaded\n",
			result.MarkedNotDownloaded, result.MarkedDownloaded)
	}

	if len(report.Orphans) > 0 {
		if force {
			deleted, errs := sc.DeleteOrphans(report)
			fmt.Fprintf(out, "  Deleted %d orphaned files\n", deleted)
			for _, err := range errs {
				fmt.Fprintf(out, "  %v\n", err)
			}
		} else {
			fmt.Fprintln(out, "  Orphaned files kept; rerun with --force to delete them")
		}
	}

	if !fix && !report.Clean() {
		fmt.Fprintln(out, "  Rerun with --fix to repair database flags")
	}
	return nil
}
