package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/trak-cli/trak/internal/adapters/render/timerview"
	"github.com/trak-cli/trak/internal/domain"
)

func newEntriesCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entries",
		Short: "Manage logged time entries",
	}

	cmd.AddCommand(
		newEntriesListCmd(app),
		newEntriesUpdateCmd(app),
		newEntriesDeleteCmd(app),
	)

	return cmd
}

func newEntriesListCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List logged time entries, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := app.timerService(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.Close()

			var entries []domain.TimeEntry
			err = runFetchSpinner(cmd.Context(), cmd.ErrOrStderr(), "Fetching entries...", func(ctx context.Context) error {
				var fetchErr error
				entries, fetchErr = svc.RefreshEntries(ctx)
				return fetchErr
			})
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}

			rendered, err := app.entriesRenderer(entries, timerview.RenderOptions{Now: app.now()})
			if err != nil {
				return fmt.Errorf("render entries: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func newEntriesUpdateCmd(app *app) *cobra.Command {
	var entryID string
	var minutes int
	var date string
	var description string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update a logged time entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := domain.ParseObjectID(entryID)
			if err != nil {
				return fmt.Errorf("entry: %w", err)
			}

			var patch domain.EntryPatch
			if cmd.Flags().Changed("minutes") {
				patch.Minutes = &minutes
			}
			if cmd.Flags().Changed("date") {
				parsed, err := time.ParseInLocation("2006-01-02", date, time.UTC)
				if err != nil {
					return fmt.Errorf("parse --date: %w", err)
				}
				patch.Date = &parsed
			}
			if cmd.Flags().Changed("message") {
				patch.Description = &description
			}

			svc, err := app.timerService(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.Close()

			entry, err := svc.UpdateEntry(cmd.Context(), id, patch)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Updated %s: %s on %s\n",
				entry.ID, timerview.FormatMinutes(entry.Minutes), entry.Date.Format("2006-01-02"))
			return err
		},
	}

	cmd.Flags().StringVar(&entryID, "entry", "", "Entry ID")
	cmd.Flags().IntVar(&minutes, "minutes", 0, "New duration in minutes")
	cmd.Flags().StringVar(&date, "date", "", "New entry date (2006-01-02)")
	cmd.Flags().StringVarP(&description, "message", "m", "", "New description")
	_ = cmd.MarkFlagRequired("entry")

	return cmd
}

func newEntriesDeleteCmd(app *app) *cobra.Command {
	var entryID string

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a logged time entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := domain.ParseObjectID(entryID)
			if err != nil {
				return fmt.Errorf("entry: %w", err)
			}

			svc, err := app.timerService(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.Close()

			if err := svc.DeleteEntry(cmd.Context(), id); err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", id)
			return err
		},
	}

	cmd.Flags().StringVar(&entryID, "entry", "", "Entry ID")
	_ = cmd.MarkFlagRequired("entry")

	return cmd
}
