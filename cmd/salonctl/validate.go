package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

var validateTimezone string

var validateCmd = &cobra.Command{
	Use:   "validate [file.json]",
	Short: "Validate an appointment document",
	Long: `Sanitize and validate an appointment document in paired or legacy shape.
Use "-" to read from stdin. Exits non-zero when the document is invalid.

Examples:
  salonctl validate appointment.json
  cat appointment.json | salonctl validate -`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		loc, err := time.LoadLocation(validateTimezone)
		if err != nil {
			return fmt.Errorf("invalid timezone: %w", err)
		}

		in := cmd.InOrStdin()
		if args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}

		valid, err := runValidate(in, cmd.OutOrStdout(), time.Now().In(loc))
		if err != nil {
			return err
		}
		if !valid {
			return fmt.Errorf("appointment document is invalid")
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().StringVar(&validateTimezone, "timezone", "Asia/Manila", "salon timezone used to judge past dates")
}

func runValidate(in io.Reader, out io.Writer, now time.Time) (bool, error) {
	var data domain.AppointmentData
	if err := json.NewDecoder(in).Decode(&data); err != nil {
		return false, fmt.Errorf("decode document: %w", err)
	}

	_, result := domain.Prepare(data, now)

	for _, issue := range result.Errors {
		fmt.Fprintf(out, "error    %s\n", issue)
	}
	for _, issue := range result.Warnings {
		fmt.Fprintf(out, "warning  %s\n", issue)
	}
	if result.IsValid {
		fmt.Fprintln(out, "ok")
	}
	return result.IsValid, nil
}
