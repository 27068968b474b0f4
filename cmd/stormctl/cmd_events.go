package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/spf13/cobra"

	kafkaadapter "github.com/couchcryptid/storm-viewer/internal/adapter/kafka"
	"github.com/couchcryptid/storm-viewer/internal/domain"
)

func newEventsCmd(a *app) *cobra.Command {
	var (
		brokers string
		topic   string
		limit   int
	)
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Follow view events published by the viewer service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reader := kafkaadapter.NewReader(sharedcfg.ParseBrokers(brokers), topic, a.logger)
			defer reader.Close()

			ctx := cmd.Context()
			for n := 0; limit <= 0 || n < limit; n++ {
				event, err := reader.ReadEvent(ctx)
				if errors.Is(err, context.Canceled) {
					return nil
				}
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), formatEvent(event))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&brokers, "brokers", sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092"), "comma-separated Kafka brokers")
	cmd.Flags().StringVar(&topic, "topic", sharedcfg.EnvOrDefault("KAFKA_TOPIC", "storm-viewer-events"), "view event topic")
	cmd.Flags().IntVar(&limit, "limit", 0, "stop after this many events (0 follows forever)")
	return cmd
}

// formatEvent renders one event as a log line.
func formatEvent(e domain.ViewEvent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %-13s view=%s", e.OccurredAt.Format("15:04:05"), shortID(e.SessionID), e.Action, e.View)
	if e.Date != "" {
		fmt.Fprintf(&b, " date=%s", e.Date)
	}
	if e.StormID != "" {
		fmt.Fprintf(&b, " storm=%s", e.StormID)
	}
	if e.City != "" {
		fmt.Fprintf(&b, " city=%q", e.City)
	}
	return b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
