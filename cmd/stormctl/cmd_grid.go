package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/storm-viewer/internal/adapter/mapbox"
	"github.com/couchcryptid/storm-viewer/internal/heatmap"
	"github.com/couchcryptid/storm-viewer/internal/observability"
)

func newGridCmd(a *app) *cobra.Command {
	var (
		size, density int
		zoom          float64
		gridTimeout   time.Duration
		cols, rows    int
		mapboxToken   string
	)
	cmd := &cobra.Command{
		Use:   "grid",
		Short: "Fetch the realtime rain grid and draw it as a density map",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), gridTimeout)
			defer cancel()

			samples, err := a.client.RealtimeGrid(ctx, size, density)
			if err != nil {
				return fmt.Errorf("could not load rain map: %w", err)
			}

			out := cmd.OutOrStdout()
			layer, ok := heatmap.BuildLayer(samples, zoom, heatmap.DefaultKernel())
			if !ok {
				fmt.Fprintf(out, "%d samples, none at or above %.1f mm\n", len(samples), heatmap.MinPrecipitation)
				return nil
			}

			if c, r, isTerm := terminalSize(out); isTerm && cols == 0 {
				cols, rows = c, max(r-4, 8)
			}
			if cols == 0 {
				cols = 60
			}
			if rows == 0 {
				rows = max(cols/3, 8)
			}
			fmt.Fprint(out, renderGrid(lipgloss.NewRenderer(out), layer, cols, rows))
			fmt.Fprintf(out, "plotted %d of %d samples; radius %.1fpx blur %.2f at zoom %g\n",
				layer.Plotted, layer.Total, layer.Paint.Radius, layer.Paint.Blur, zoom)
			fmt.Fprintf(out, "peak %.2f mm at %.3f, %.3f", layer.Peak.Precipitation, layer.Peak.Lat, layer.Peak.Lon)

			if mapboxToken != "" {
				namer := mapbox.NewClient(mapboxToken, 5*time.Second, observability.NewMetricsForTesting(), a.logger)
				if place, err := namer.NearestPlace(ctx, layer.Peak.Lat, layer.Peak.Lon); err == nil && place.Name != "" {
					fmt.Fprintf(out, " (%s)", place.FormattedAddress)
				}
			}
			fmt.Fprintln(out)
			return nil
		},
	}
	cmd.Flags().IntVar(&size, "size", 15, "grid size per side")
	cmd.Flags().IntVar(&density, "density", 100, "sample density percentage")
	cmd.Flags().Float64Var(&zoom, "zoom", 5, "map zoom used to size the kernel")
	cmd.Flags().DurationVar(&gridTimeout, "grid-timeout", 250*time.Second, "deadline for the grid request")
	cmd.Flags().IntVar(&cols, "cols", 0, "map width in characters (default: terminal width)")
	cmd.Flags().IntVar(&rows, "rows", 0, "map height in characters")
	cmd.Flags().StringVar(&mapboxToken, "mapbox-token", os.Getenv("MAPBOX_TOKEN"), "label the peak with Mapbox reverse geocoding")
	return cmd
}
