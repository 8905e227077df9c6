package main

import (
	"fmt"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"gameboxd/internal/config"
	"gameboxd/internal/lookup"
	"gameboxd/internal/review"
	"gameboxd/internal/store"
	"gameboxd/internal/users"
)

func newUserCommand(ctx *commandContext) *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Account management",
	}
	userCmd.AddCommand(newUserRegisterCommand(ctx))
	return userCmd
}

func newUserRegisterCommand(ctx *commandContext) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "register <username>",
		Short: "Create a local account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withServices(func(_ *config.Config, _ *store.Store, userSvc *users.Service, _ *review.Service, _ *lookup.Service) error {
				pass := password
				if pass == "" {
					fmt.Fprint(cmd.OutOrStdout(), "Password: ")
					raw, err := term.ReadPassword(int(syscall.Stdin))
					fmt.Fprintln(cmd.OutOrStdout())
					if err != nil {
						return fmt.Errorf("read password: %w", err)
					}
					pass = string(raw)
				}

				user, err := userSvc.Register(cmd.Context(), args[0], pass)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Registered %s (id %d)\n", user.Username, user.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "Password (prompted when omitted)")
	return cmd
}
