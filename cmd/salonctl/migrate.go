package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-SalonService/internal/app"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate [up|down|status]",
	Short: "Apply or inspect database migrations",
	Long: `Run the embedded goose migrations against the configured database.

Examples:
  salonctl migrate up
  salonctl migrate status
  salonctl migrate down`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"up", "down", "status"},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}
		defer log.Close()

		ctx := cmd.Context()
		db, err := app.OpenDB(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()

		migrator, err := app.NewMigrator(db, log)
		if err != nil {
			return err
		}

		switch args[0] {
		case "up":
			err = migrator.Up(ctx)
		case "down":
			err = migrator.Down(ctx)
		case "status":
			err = migrator.Status(ctx)
		default:
			return fmt.Errorf("unknown migrate action %q", args[0])
		}
		if err != nil {
			return err
		}

		version, err := migrator.Version(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "database version: %d\n", version)
		return nil
	},
}
