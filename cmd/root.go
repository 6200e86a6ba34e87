package cmd

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:           "pp",
		Short:         "Parent portal (pp): session, messages and dashboard from the terminal",
		Long:          "pp signs a parent in to the school portal, keeps the session between runs, and shows the dashboard, term performance, settings and the message threads with teachers and staff.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log session and inbox transitions to stderr")

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newSignupCmd(app),
		newLoginCmd(app),
		newLogoutCmd(app),
		newWhoamiCmd(app),
		newChildCmd(app),
		newOpenCmd(app),
		newMessagesCmd(app),
		newPasswordCmd(app),
		newProfileCmd(app),
		newDashboardCmd(app),
		newPerformanceCmd(app),
		newSettingsCmd(app),
	)

	return rootCmd
}
