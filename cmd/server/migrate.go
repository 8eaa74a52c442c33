package main

import (
	"fmt"

	"github.com/spf13/cobra"

	pg "ims/internal/adapters/postgres"
	"ims/internal/config"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|status|reset]",
		Short:     "Run database migrations",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down", "status", "reset"},
		RunE: func(cmd *cobra.Command, args []string) error {
			command := "up"
			if len(args) == 1 {
				command = args[0]
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.Store != config.StorePostgres {
				return fmt.Errorf("migrate needs STORE=%s", config.StorePostgres)
			}
			db, err := pg.Connect(cmd.Context(), cfg.DatabaseURL, 1)
			if err != nil {
				return fmt.Errorf("db connect: %w", err)
			}
			defer db.Close()
			return db.Migrate(cmd.Context(), command)
		},
	}
}
