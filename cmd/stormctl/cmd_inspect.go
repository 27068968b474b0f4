package main

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/storm-viewer/internal/domain"
)

func newInspectCmd(a *app) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "inspect [storm-id]",
		Short: "Dump the raw JSON of a snapshot or of one storm",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if date != "" {
				if _, err := domain.ParseDate(date); err != nil {
					return err
				}
			}

			var (
				raw json.RawMessage
				err error
			)
			switch {
			case len(args) == 0 && date == "":
				raw, err = a.client.LatestSnapshotJSON(ctx)
			case len(args) == 0:
				raw, err = a.client.SnapshotJSON(ctx, date)
			case date != "":
				raw, err = a.client.StormJSON(ctx, date, args[0])
			default:
				// The latest reading has no per-storm endpoint.
				var snapshot map[string]json.RawMessage
				if snapshot, err = a.client.LatestStorms(ctx); err == nil {
					var ok bool
					if raw, ok = domain.FindRawStorm(snapshot, args[0]); !ok {
						return fmt.Errorf("storm %s is not in the latest reading", args[0])
					}
				}
			}
			if err != nil {
				return fmt.Errorf("inspect: %w", err)
			}

			var pretty bytes.Buffer
			if err := json.Indent(&pretty, raw, "", "  "); err != nil {
				return fmt.Errorf("format json: %w", err)
			}
			pretty.WriteByte('\n')
			_, err = pretty.WriteTo(cmd.OutOrStdout())
			return err
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "archived day as YYYYMMDD")
	return cmd
}
