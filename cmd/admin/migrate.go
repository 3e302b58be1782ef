package main

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"smtm/internal/infrastructure/postgres"
	"smtm/internal/shared/config"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending Postgres migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.Store.Driver != config.StorePostgres {
				return fmt.Errorf("migrate requires STORE_DRIVER=%s, got %q", config.StorePostgres, a.cfg.Store.Driver)
			}

			db, err := postgres.New(cmd.Context(), a.cfg.Database.ConnectionString())
			if err != nil {
				return err
			}
			defer db.Close()

			if err := postgres.Migrate(db); err != nil {
				return err
			}
			pterm.Success.WithWriter(a.out).Println("Migrations applied")
			return nil
		},
	}
}
