package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/storm-viewer/internal/domain"
)

func newImagesCmd(a *app) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "images [storm-id]",
		Short: "Print the map image URLs of the general view or of a storm",
		Long: `images prints the map URLs the detail panel would show. Without a date the
latest map is checked first; with --date the archived image list is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id := ""
			if len(args) == 1 {
				id = args[0]
			}
			urls := a.client.URLs()
			out := cmd.OutOrStdout()

			if date == "" {
				if err := a.client.CheckLatestImage(ctx, id); err != nil {
					if id == "" {
						return fmt.Errorf("no recent general map found: %w", err)
					}
					return fmt.Errorf("no map found for %s: %w", id, err)
				}
				if id == "" {
					fmt.Fprintln(out, urls.LatestGeneral(domain.Now()))
				} else {
					fmt.Fprintln(out, urls.LatestStorm(id, domain.Now()))
				}
				return nil
			}

			if _, err := domain.ParseDate(date); err != nil {
				return err
			}
			imageContext := id
			if imageContext == "" {
				imageContext = domain.GeneralContext
			}
			indices, err := a.client.ImageIndices(ctx, date, imageContext)
			switch {
			case errors.Is(err, domain.ErrNotFound):
				return fmt.Errorf("no maps for %s on %s", imageContext, domain.DisplayDate(date))
			case err != nil:
				return fmt.Errorf("list maps: %w", err)
			}
			for _, u := range urls.HistoricalSet(date, imageContext, indices) {
				fmt.Fprintln(out, u)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "archived day as YYYYMMDD")
	return cmd
}
