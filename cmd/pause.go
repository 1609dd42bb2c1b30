package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trak-cli/trak/internal/domain"
)

func newPauseCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "pause",
		Short: "Pause the running timer",
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

			if err := svc.Pause(cmd.Context()); err != nil {
				if errors.Is(err, domain.ErrNoActiveTimer) {
					return errors.New("no timer running")
				}
				if errors.Is(err, domain.ErrTimerPaused) {
					return errors.New("timer is already paused")
				}
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), "Paused.")
			return err
		},
	}
}
