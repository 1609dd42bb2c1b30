package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/trak-cli/trak/internal/adapters/render/timerview"
	"github.com/trak-cli/trak/internal/domain"
)

var timeFlagLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02T15:04",
}

func newLogCmd(app *app) *cobra.Command {
	var projectID string
	var taskID string
	var from string
	var to string
	var description string

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Log a completed time range without running a timer",
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
			start, err := parseTimeFlag(from)
			if err != nil {
				return fmt.Errorf("parse --from: %w", err)
			}
			end, err := parseTimeFlag(to)
			if err != nil {
				return fmt.Errorf("parse --to: %w", err)
			}

			svc, err := app.timerService(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.Close()

			entry, err := svc.LogManual(cmd.Context(), domain.ManualLog{
				ProjectID:   project,
				TaskID:      task,
				StartTime:   start,
				EndTime:     end,
				Description: description,
			})
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Logged %s for %q on %s\n",
				timerview.FormatMinutes(entry.Minutes), entry.Label(), entry.Date.Format("2006-01-02"))
			return err
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Project ID")
	cmd.Flags().StringVar(&taskID, "task", "", "Task ID")
	cmd.Flags().StringVar(&from, "from", "", "Range start (RFC3339 or \"2006-01-02 15:04\")")
	cmd.Flags().StringVar(&to, "to", "", "Range end (RFC3339 or \"2006-01-02 15:04\")")
	cmd.Flags().StringVarP(&description, "message", "m", "", "Description for the entry")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("task")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func parseTimeFlag(raw string) (time.Time, error) {
	for _, layout := range timeFlagLayouts {
		if parsed, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return parsed, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized time %q", raw)
}
