package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/trak-cli/trak/internal/adapters/render/timerview"
	"github.com/trak-cli/trak/internal/application"
)

func newReportCmd(app *app) *cobra.Command {
	var from string
	var to string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show tracked time per project and task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fromTime, toTime, err := parseRangeFlags(from, to)
			if err != nil {
				return err
			}

			user, err := app.userID()
			if err != nil {
				return err
			}
			svc, err := app.reportService(cmd.Context())
			if err != nil {
				return err
			}

			var report application.Report
			err = runFetchSpinner(cmd.Context(), cmd.ErrOrStderr(), "Aggregating entries...", func(ctx context.Context) error {
				var fetchErr error
				report, fetchErr = svc.Totals(ctx, user, fromTime, toTime)
				return fetchErr
			})
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}

			rendered, err := app.reportRenderer(report, timerview.RenderOptions{Now: app.now()})
			if err != nil {
				return fmt.Errorf("render report: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Range start date (2006-01-02)")
	cmd.Flags().StringVar(&to, "to", "", "Range end date (2006-01-02)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	cmd.AddCommand(newReportExportCmd(app))

	return cmd
}

func newReportExportCmd(app *app) *cobra.Command {
	var from string
	var to string
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export time entries in a date range as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fromTime, toTime, err := parseRangeFlags(from, to)
			if err != nil {
				return err
			}

			user, err := app.userID()
			if err != nil {
				return err
			}
			svc, err := app.reportService(cmd.Context())
			if err != nil {
				return err
			}

			writer := cmd.OutOrStdout()
			if out != "" {
				file, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("create export file: %w", err)
				}
				defer file.Close()
				writer = file
			}

			if err := svc.ExportCSV(cmd.Context(), writer, user, fromTime, toTime); err != nil {
				return err
			}

			if out != "" {
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", out)
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Range start date (2006-01-02)")
	cmd.Flags().StringVar(&to, "to", "", "Range end date (2006-01-02)")
	cmd.Flags().StringVar(&out, "out", "", "Output file (default stdout)")

	return cmd
}

func parseRangeFlags(from, to string) (time.Time, time.Time, error) {
	var fromTime, toTime time.Time
	var err error

	if from != "" {
		fromTime, err = time.ParseInLocation("2006-01-02", from, time.UTC)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("parse --from: %w", err)
		}
	}
	if to != "" {
		toTime, err = time.ParseInLocation("2006-01-02", to, time.UTC)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("parse --to: %w", err)
		}
	}

	return fromTime, toTime, nil
}
