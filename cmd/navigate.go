package cmd

import (
	"fmt"

	"github.com/bnema/parent-portal/internal/domain"
	"github.com/spf13/cobra"
)

// requireRoute runs the guard for the screen a command stands in for.
func requireRoute(app *app, route domain.Route) error {
	decision := app.navigator.Navigate(string(route))
	if decision.Allowed && decision.Target == route {
		return nil
	}

	return fmt.Errorf("%s: sign in first (redirected to %s): %w", route, decision.Target, domain.ErrPrecondition)
}

func newOpenCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "open <path>",
		Short: "Show where navigating to a portal path would land",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			decision := app.navigator.Navigate(args[0])
			if decision.Allowed {
				return writeLine(cmd.OutOrStdout(), "allow %s (%s)", decision.Target, decision.Mode)
			}
			return writeLine(cmd.OutOrStdout(), "redirect %s (%s)", decision.Target, decision.Mode)
		},
	}
}
