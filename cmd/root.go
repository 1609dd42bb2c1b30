package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "trak",
		Short:         "trak: track task time from the terminal",
		Long:          "trak starts, pauses and stops task timers against your project-management backend, keeps a local crash-recovery cache, and reports tracked time per project and task.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newAuthCmd(app),
		newStartCmd(app),
		newStopCmd(app),
		newPauseCmd(app),
		newResumeCmd(app),
		newStatusCmd(app),
		newLogCmd(app),
		newEntriesCmd(app),
		newReportCmd(app),
	)

	return rootCmd
}
