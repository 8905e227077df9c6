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

func newReviewCommand(ctx *commandContext) *cobra.Command {
	reviewCmd := &cobra.Command{
		Use:   "review",
		Short: "Submit and manage game reviews",
	}
	reviewCmd.AddCommand(newReviewAddCommand(ctx))
	reviewCmd.AddCommand(newReviewListCommand(ctx))
	reviewCmd.AddCommand(newReviewEditCommand(ctx))
	reviewCmd.AddCommand(newReviewDeleteCommand(ctx))
	return reviewCmd
}

func newReviewAddCommand(ctx *commandContext) *cobra.Command {
	var (
		username string
		rating   string
		comment  string
		source   string
		price    string
		onSale   bool
	)

	cmd := &cobra.Command{
		Use:   "add <game name>",
		Short: "Submit a review, merging into any existing one for the same game",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withServices(func(_ *config.Config, st *store.Store, _ *users.Service, reviewSvc *review.Service, _ *lookup.Service) error {
				user, err := resolveUser(cmd, st, username)
				if err != nil {
					return err
				}
				submitted, err := reviewSvc.Submit(cmd.Context(), user.ID, review.Submission{
					GameName: joinArgs(args),
					Rating:   rating,
					Comment:  comment,
					Source:   source,
					Price:    price,
					OnSale:   onSale,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Review %d recorded (rating %s)\n", submitted.ID, submitted.Rating)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&username, "user", "u", "", "Acting username (required)")
	cmd.Flags().StringVarP(&rating, "rating", "r", "", "Rating between 0 and 10 (required)")
	cmd.Flags().StringVar(&comment, "comment", "", "Review comment")
	cmd.Flags().StringVar(&source, "source", "", "Where the game was obtained")
	cmd.Flags().StringVar(&price, "price", "", "Price paid")
	cmd.Flags().BoolVar(&onSale, "on-sale", false, "Mark the price as a sale price")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("rating")
	return cmd
}

func newReviewListCommand(ctx *commandContext) *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a user's reviews, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withServices(func(_ *config.Config, st *store.Store, _ *users.Service, reviewSvc *review.Service, _ *lookup.Service) error {
				user, err := resolveUser(cmd, st, username)
				if err != nil {
					return err
				}
				reviews, err := reviewSvc.ListForUser(cmd.Context(), user.ID)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(reviews) == 0 {
					fmt.Fprintln(out, "No reviews yet")
					return nil
				}

				var sum float64
				var rated int
				tbl := newCatalogTable(
					numCol("ID"), textCol("Game"), textCol("Ratings"),
					numCol("Latest"), textCol("Comment"),
				)
				for _, rv := range reviews {
					latest := "-"
					if value, ok := review.ParseRatingHistory(rv.Rating).Latest(); ok {
						latest = strconv.FormatFloat(value, 'f', -1, 64)
						sum += value
						rated++
					}
					tbl.addRow(
						strconv.FormatInt(rv.ID, 10),
						displayName(rv.GameName),
						rv.Rating,
						latest,
						rv.Comment,
					)
				}
				fmt.Fprintln(out, tbl.render())

				if rated > 0 {
					fmt.Fprintf(out, "%d review(s), mean rating %.1f\n", len(reviews), sum/float64(rated))
				} else {
					fmt.Fprintf(out, "%d review(s)\n", len(reviews))
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&username, "user", "u", "", "Acting username (required)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func newReviewEditCommand(ctx *commandContext) *cobra.Command {
	var (
		username string
		rating   string
		comment  string
		source   string
		price    string
	)

	cmd := &cobra.Command{
		Use:   "edit <review id>",
		Short: "Overwrite the fields of one of your reviews",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reviewID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid review id %q", args[0])
			}
			return ctx.withServices(func(_ *config.Config, st *store.Store, _ *users.Service, reviewSvc *review.Service, _ *lookup.Service) error {
				user, err := resolveUser(cmd, st, username)
				if err != nil {
					return err
				}
				edited, err := reviewSvc.EditReview(cmd.Context(), user.ID, reviewID, review.Edit{
					Rating:  rating,
					Comment: comment,
					Source:  source,
					Price:   price,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Review %d updated\n", edited.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&username, "user", "u", "", "Acting username (required)")
	cmd.Flags().StringVarP(&rating, "rating", "r", "", "New rating between 0 and 10 (required)")
	cmd.Flags().StringVar(&comment, "comment", "", "New comment")
	cmd.Flags().StringVar(&source, "source", "", "New source")
	cmd.Flags().StringVar(&price, "price", "", "New price")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("rating")
	return cmd
}

func newReviewDeleteCommand(ctx *commandContext) *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "delete <review id>",
		Short: "Delete one of your reviews",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reviewID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid review id %q", args[0])
			}
			return ctx.withServices(func(_ *config.Config, st *store.Store, _ *users.Service, reviewSvc *review.Service, _ *lookup.Service) error {
				user, err := resolveUser(cmd, st, username)
				if err != nil {
					return err
				}
				if err := reviewSvc.Delete(cmd.Context(), user.ID, reviewID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Review %d deleted\n", reviewID)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&username, "user", "u", "", "Acting username (required)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
