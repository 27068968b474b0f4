package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/storm-viewer/internal/domain"
)

func newRainCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rain <city>",
		Short: "Show the current rainfall of a city",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.Join(args, " ")
			city, ok := domain.LookupCity(name)
			if !ok {
				return fmt.Errorf("unknown city %q; see stormctl cities", name)
			}

			p, err := a.client.CityPrecipitation(cmd.Context(), city.Name)
			if err != nil {
				return fmt.Errorf("could not load weather for %s: %w", city.Name, err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprint(out, renderWeather(lipgloss.NewRenderer(out), domain.NewCityWeather(city, p)))
			return nil
		},
	}
}
