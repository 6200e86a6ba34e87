package cmd

import (
	"fmt"

	"github.com/bnema/parent-portal/internal/domain"
	"github.com/spf13/cobra"
)

func newPerformanceCmd(app *app) *cobra.Command {
	var term string

	cmd := &cobra.Command{
		Use:   "performance",
		Short: "Show grades and assignments for a school term",
		Long:  "Shows the current term unless --term picks another one. The chosen term is remembered.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireRoute(app, domain.RoutePerformance); err != nil {
				return err
			}

			report, err := app.perf.Report(cmd.Context(), term)
			if err != nil {
				return err
			}
			rendered, err := app.renderPerf(report)
			if err != nil {
				return fmt.Errorf("render performance: %w", err)
			}
			return writeLine(cmd.OutOrStdout(), "%s", rendered)
		},
	}

	cmd.Flags().StringVar(&term, "term", "", `Term to show, e.g. "Fall 2024"`)

	return cmd
}
