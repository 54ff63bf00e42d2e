package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-SalonService/internal/app"
	"github.com/m04kA/SMC-SalonService/internal/domain"
	resolveAvailability "github.com/m04kA/SMC-SalonService/internal/usecase/resolve_availability"
)

var (
	availabilityBranch string
	availabilityDate   string
)

var availabilityCmd = &cobra.Command{
	Use:   "availability",
	Short: "Print stylist availability for a branch and date",
	Long: `Resolve which stylists work on the given day, how much workload they have
left and which services they can perform.

Examples:
  salonctl availability --branch B1 --date 2025-10-17`,
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := time.Parse(domain.DateFormat, availabilityDate)
		if err != nil {
			return fmt.Errorf("invalid date: %w", err)
		}

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

		resp, err := application.Availability.Execute(cmd.Context(), &resolveAvailability.Request{
			BranchID: availabilityBranch,
			Date:     date,
		})
		if err != nil {
			return err
		}
		return printAvailability(cmd.OutOrStdout(), resp)
	},
}

func init() {
	availabilityCmd.Flags().StringVar(&availabilityBranch, "branch", "", "branch ID")
	availabilityCmd.Flags().StringVar(&availabilityDate, "date", "", "date in YYYY-MM-DD")
	_ = availabilityCmd.MarkFlagRequired("branch")
	_ = availabilityCmd.MarkFlagRequired("date")
}

func printAvailability(out io.Writer, resp *resolveAvailability.Response) error {
	fmt.Fprintf(out, "Branch %s, %s (%s)\n", resp.BranchID, resp.Date.Format(domain.DateFormat), resp.Weekday)
	if len(resp.Stylists) == 0 {
		fmt.Fprintln(out, "No stylists available")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STYLIST\tNAME\tPOSITION\tREMAINING\tSERVICES")
	for _, s := range resp.Stylists {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n", s.StylistID, s.Name, s.Position, s.RemainingWorkload, len(s.Services))
	}
	return w.Flush()
}
