package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/storm-viewer/internal/domain"
)

func newCitiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cities [query]",
		Short: "Search the city directory (accents and case are ignored)",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			cities := domain.QuickCities()
			if query != "" {
				cities = domain.SearchCities(query, domain.SuggestionLimit)
			}
			if len(cities) == 0 {
				return fmt.Errorf("no city matches %q", query)
			}
			for _, c := range cities {
				fmt.Fprintf(cmd.OutOrStdout(), "%s, %s\n", c.Name, c.State)
			}
			return nil
		},
	}
}
