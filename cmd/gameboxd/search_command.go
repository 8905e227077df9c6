package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"gameboxd/internal/config"
	"gameboxd/internal/lookup"
	"gameboxd/internal/review"
	"gameboxd/internal/store"
	"gameboxd/internal/users"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var (
		limit   int
		details bool
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the metadata provider for games",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withServices(func(_ *config.Config, _ *store.Store, _ *users.Service, _ *review.Service, lookupSvc *lookup.Service) error {
				query := joinArgs(args)
				results := lookupSvc.Search(cmd.Context(), query, limit)
				out := cmd.OutOrStdout()
				if len(results) == 0 {
					fmt.Fprintln(out, "No results (check rawg api_key if this is unexpected)")
					return nil
				}

				tbl := newCatalogTable(numCol("ID"), textCol("Name"), textCol("Cover"))
				for _, result := range results {
					tbl.addRow(
						strconv.FormatInt(result.ID, 10),
						result.Name,
						result.CoverURL,
					)
				}
				fmt.Fprintln(out, tbl.render())

				if details {
					top := lookupSvc.Details(cmd.Context(), results[0].ID)
					if top == nil {
						fmt.Fprintln(out, "No details available for the top result")
						return nil
					}
					fmt.Fprintf(out, "\n%s\n", top.Name)
					fmt.Fprintf(out, "  Rating:     %.1f\n", top.Rating)
					fmt.Fprintf(out, "  Metacritic: %d\n", top.Metacritic)
					for _, link := range top.Stores {
						fmt.Fprintf(out, "  Store:      %s (%s)\n", link.Name, link.URL)
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 6, "Maximum number of results (1-6)")
	cmd.Flags().BoolVar(&details, "details", false, "Fetch full details for the top result")
	return cmd
}
