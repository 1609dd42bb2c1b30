package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trak-cli/trak/internal/adapters/render/timerview"
)

func newStopCmd(app *app) *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop the running timer and log a time entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := app.timerService(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.Close()
			if _, err := recoverSession(cmd, svc); err != nil {
				return err
			}

			entry, stopped, err := svc.Stop(cmd.Context(), description)
			if err != nil {
				return err
			}
			if !stopped {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), "No timer running.")
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Stopped. Logged %s for %q on %s\n",
				timerview.FormatMinutes(entry.Minutes), entry.Label(), entry.Date.Format("2006-01-02"))
			return err
		},
	}

	cmd.Flags().StringVarP(&description, "message", "m", "", "Description for the logged entry")

	return cmd
}
