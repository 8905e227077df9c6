package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"gameboxd/internal/catalog"
	"gameboxd/internal/config"
	"gameboxd/internal/lookup"
	"gameboxd/internal/review"
	"gameboxd/internal/store"
	"gameboxd/internal/users"
)

func newGamesCommand(ctx *commandContext) *cobra.Command {
	gamesCmd := &cobra.Command{
		Use:   "games",
		Short: "Catalog views and maintenance",
	}
	gamesCmd.AddCommand(newGamesListCommand(ctx))
	gamesCmd.AddCommand(newGamesPopularCommand(ctx))
	gamesCmd.AddCommand(newGamesDedupCommand(ctx))
	gamesCmd.AddCommand(newGamesHealthCommand(ctx))
	return gamesCmd
}

func newGamesHealthCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check catalog database health (schema, integrity, row counts)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(_ *config.Config, st *store.Store) error {
				health, err := st.CheckHealth(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Database path: %s\n", health.DBPath)
				fmt.Fprintf(out, "Database exists: %s\n", yesNo(health.DatabaseExists))
				fmt.Fprintf(out, "Readable: %s\n", yesNo(health.DatabaseReadable))
				if len(health.MissingTables) > 0 {
					fmt.Fprintf(out, "Missing tables: %s\n", strings.Join(health.MissingTables, ", "))
				} else {
					fmt.Fprintln(out, "Missing tables: none")
				}
				fmt.Fprintf(out, "Integrity check: %s\n", yesNo(health.IntegrityCheck))
				fmt.Fprintf(out, "Users: %d\n", health.Users)
				fmt.Fprintf(out, "Games: %d\n", health.Games)
				fmt.Fprintf(out, "Reviews: %d\n", health.Reviews)
				if health.Error != "" {
					fmt.Fprintf(out, "Error: %s\n", health.Error)
				}
				return nil
			})
		},
	}
}

func newGamesListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every game in the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(_ *config.Config, st *store.Store) error {
				games, err := st.ListGames(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(games) == 0 {
					fmt.Fprintln(out, "Catalog is empty")
					return nil
				}
				if !isTerminal(out) {
					for _, game := range games {
						fmt.Fprintf(out, "%d\t%s\n", game.ID, game.Name)
					}
					return nil
				}
				tbl := newCatalogTable(numCol("ID"), textCol("Game"))
				for _, game := range games {
					tbl.addRow(strconv.FormatInt(game.ID, 10), displayName(game.Name))
				}
				fmt.Fprintln(out, tbl.render())
				return nil
			})
		},
	}
}

func newGamesPopularCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "popular",
		Short: "Rank games by review count and average rating",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withServices(func(_ *config.Config, _ *store.Store, _ *users.Service, reviewSvc *review.Service, _ *lookup.Service) error {
				ranked, err := reviewSvc.Popular(cmd.Context(), limit)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(ranked) == 0 {
					fmt.Fprintln(out, "No reviewed games yet")
					return nil
				}
				tbl := newCatalogTable(textCol("Game"), numCol("Reviews"), numCol("Avg Rating"))
				for _, entry := range ranked {
					tbl.addRow(
						displayName(entry.Name),
						strconv.Itoa(entry.ReviewCount),
						strconv.FormatFloat(entry.AverageRating, 'f', 1, 64),
					)
				}
				fmt.Fprintln(out, tbl.render())
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum number of games to show")
	return cmd
}

func newGamesDedupCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "dedup",
		Short: "Collapse case-variant duplicate games into one entry per name",
		Long: "Backs up the database, lowercases every game name, merges rows that " +
			"only differ by case, and moves their reviews to the surviving entry. " +
			"Run this while the API server is stopped.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(_ *config.Config, st *store.Store) error {
				logger, err := ctx.newLogger()
				if err != nil {
					return err
				}
				job, err := catalog.NewJob(st, logger)
				if err != nil {
					return err
				}
				report, err := job.Run(cmd.Context())
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Backup written to %s\n", report.BackupPath)
				if report.Changes() == 0 {
					fmt.Fprintln(out, "Catalog already normalized; nothing to do")
					return nil
				}
				fmt.Fprintf(out, "Renamed %d game(s), merged %d duplicate(s)\n", report.GamesRenamed, report.GamesMerged)
				fmt.Fprintf(out, "Reassigned %d review(s), deleted %d conflicting review(s)\n", report.ReviewsReassigned, report.ReviewsDeleted)
				return nil
			})
		},
	}
}
