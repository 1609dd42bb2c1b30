package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAuthCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the API token",
	}

	cmd.AddCommand(newAuthSetCmd(app), newAuthRemoveCmd(app))

	return cmd
}

func newAuthSetCmd(app *app) *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Store the API token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.tokenStore.Put(cmd.Context(), tokenKey, token); err != nil {
				return fmt.Errorf("store api token: %w", err)
			}

			_, err := fmt.Fprintln(cmd.OutOrStdout(), "Token saved.")
			return err
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "API token issued by the backend")
	_ = cmd.MarkFlagRequired("token")

	return cmd
}

func newAuthRemoveCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove",
		Short: "Remove the stored API token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.tokenStore.Delete(cmd.Context(), tokenKey); err != nil {
				return fmt.Errorf("remove api token: %w", err)
			}

			_, err := fmt.Fprintln(cmd.OutOrStdout(), "Token removed.")
			return err
		},
	}
}
