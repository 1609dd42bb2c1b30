package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trak-cli/trak/internal/adapters/render/timerview"
)

func newStatusCmd(app *app) *cobra.Command {
	var asJSON bool
	var watch bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the current timer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := app.timerService(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.Close()

			result, err := recoverSession(cmd, svc)
			if err != nil {
				return err
			}

			if watch {
				return runStatusWatch(cmd, svc)
			}

			snapshot := svc.Snapshot()
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(snapshot)
			}

			rendered, err := app.statusRenderer(snapshot, timerview.RenderOptions{
				Now:      app.now(),
				Degraded: result.Degraded,
			})
			if err != nil {
				return fmt.Errorf("render status: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")
	cmd.Flags().BoolVar(&watch, "watch", false, "Keep the elapsed time updating live")

	return cmd
}
