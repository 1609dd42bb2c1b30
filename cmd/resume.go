package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trak-cli/trak/internal/domain"
)

func newResumeCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "resume",
		Short: "Resume a paused timer",
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

			if err := svc.Resume(cmd.Context()); err != nil {
				if errors.Is(err, domain.ErrNoActiveTimer) {
					return errors.New("no timer running")
				}
				if errors.Is(err, domain.ErrTimerNotPaused) {
					return errors.New("timer is not paused")
				}
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), "Resumed.")
			return err
		},
	}
}
