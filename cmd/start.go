package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trak-cli/trak/internal/domain"
)

func newStartCmd(app *app) *cobra.Command {
	var projectID string
	var taskID string
	var description string

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start a timer on a task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			project, err := domain.ParseObjectID(projectID)
			if err != nil {
				return fmt.Errorf("project: %w", err)
			}
			task, err := domain.ParseObjectID(taskID)
			if err != nil {
				return fmt.Errorf("task: %w", err)
			}

			svc, err := app.timerService(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.Close()
			if _, err := recoverSession(cmd, svc); err != nil {
				return err
			}

			timer, err := svc.Start(cmd.Context(), project, task, description)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Started %q at %s\n",
				timer.Label(), timer.StartTime.Local().Format("15:04:05"))
			return err
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Project ID")
	cmd.Flags().StringVar(&taskID, "task", "", "Task ID")
	cmd.Flags().StringVarP(&description, "message", "m", "", "Description for the session")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("task")

	return cmd
}
