package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"gameboxd/internal/config"
	"gameboxd/internal/lookup"
	"gameboxd/internal/review"
	"gameboxd/internal/server"
	"gameboxd/internal/store"
	"gameboxd/internal/users"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withServices(func(cfg *config.Config, st *store.Store, userSvc *users.Service, reviewSvc *review.Service, lookupSvc *lookup.Service) error {
				logger, err := ctx.newLogger()
				if err != nil {
					return err
				}
				srv, err := server.New(cfg, userSvc, reviewSvc, lookupSvc, logger)
				if err != nil {
					return err
				}

				runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
				defer stop()

				if err := srv.Start(runCtx); err != nil {
					return err
				}
				defer srv.Stop()

				fmt.Fprintf(cmd.OutOrStdout(), "Listening on %s (press Ctrl+C to stop)\n", srv.Addr())
				<-runCtx.Done()
				return nil
			})
		},
	}
}
