package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-SalonService/internal/app"
)

var errCacheDisabled = errors.New("catalog cache is disabled in config ([redis] enabled = false)")

// definitionCache кеш определений услуг, который умеет удалять записи
type definitionCache interface {
	Invalidate(ctx context.Context, serviceIDs ...string) error
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the service definition cache",
}

var cacheInvalidateCmd = &cobra.Command{
	Use:   "invalidate <serviceId>...",
	Short: "Drop cached service definitions",
	Long: `Remove service definitions from Redis so the next read loads them from
the database. Run it after prices or workload units change in the back office.

Examples:
  salonctl cache invalidate service_haircut service_color`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}
		defer log.Close()
		cfg.Database.AutoMigrate = false

		application, err := app.New(cmd.Context(), cfg, nil, log)
		if err != nil {
			return err
		}
		defer application.Close()

		if application.CatalogCache == nil {
			return errCacheDisabled
		}
		return runInvalidate(cmd.Context(), application.CatalogCache, args, cmd.OutOrStdout())
	},
}

func init() {
	cacheCmd.AddCommand(cacheInvalidateCmd)
}

func runInvalidate(ctx context.Context, cache definitionCache, serviceIDs []string, out io.Writer) error {
	if err := cache.Invalidate(ctx, serviceIDs...); err != nil {
		return fmt.Errorf("invalidate cache: %w", err)
	}
	fmt.Fprintf(out, "invalidated %d service definitions\n", len(serviceIDs))
	return nil
}
