package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/storm-viewer/internal/domain"
)

func newStormsCmd(a *app) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "storms",
		Short: "List storms of the latest reading or of an archived day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			storms, err := a.loadStorms(cmd.Context(), date)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprint(out, renderStorms(lipgloss.NewRenderer(out), storms, date))
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "archived day as YYYYMMDD")
	return cmd
}

// loadStorms fetches and normalizes the latest snapshot, or the snapshot of
// date when it is set.
func (a *app) loadStorms(ctx context.Context, date string) ([]domain.StormRecord, error) {
	var (
		snapshot map[string]json.RawMessage
		err      error
	)
	if date == "" {
		snapshot, err = a.client.LatestStorms(ctx)
	} else {
		if _, perr := domain.ParseDate(date); perr != nil {
			return nil, perr
		}
		snapshot, err = a.client.StormsByDate(ctx, date)
	}
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("no storm data for %s", domain.DisplayDate(date))
	}
	if err != nil {
		return nil, fmt.Errorf("load storms: %w", err)
	}
	return domain.NormalizeStorms(snapshot, date, a.client.URLs()), nil
}
