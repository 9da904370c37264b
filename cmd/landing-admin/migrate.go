package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fractionaljobs/landing/config"
	"github.com/fractionaljobs/landing/internal/bootstrap"
	"github.com/fractionaljobs/landing/internal/migrate"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Long:  "Applies embedded SQL migrations to Postgres. The SQLite store creates its schema on open.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.cfg.Store.Driver == config.StoreDriverSQLite {
				return a.withStore(cmd, true, func(context.Context, bootstrap.ListingBackend) error {
					return writef(cmd.OutOrStdout(), "sqlite schema ready at %s\n", a.cfg.Store.SQLitePath)
				})
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), a.timeout)
			defer cancel()
			db, err := bootstrap.ConnectDB(ctx, bootstrap.DatabaseConfig{DBConfig: a.cfg.Postgres, Logger: a.logger})
			if err != nil {
				return fmt.Errorf("connect db: %w", err)
			}
			defer func() {
				if cerr := db.Close(); cerr != nil {
					a.logger.ErrorContext(ctx, "close database failed", "error", cerr)
				}
			}()

			applied, err := migrate.Apply(ctx, db, a.logger)
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				return writef(cmd.OutOrStdout(), "schema up to date\n")
			}
			for _, v := range applied {
				if err := writef(cmd.OutOrStdout(), "applied %s\n", v); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
