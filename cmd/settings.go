package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/bnema/parent-portal/internal/domain"
	"github.com/spf13/cobra"
)

func newSettingsCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show account and notification settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireRoute(app, domain.RouteSettings); err != nil {
				return err
			}

			prefs, err := app.prefs.Current(cmd.Context())
			if err != nil {
				return err
			}

			state := app.session.State()
			out := cmd.OutOrStdout()
			if err := writeLine(out, "Account: %s <%s>", state.User.Name, state.User.Email); err != nil {
				return err
			}
			if state.Child != nil {
				if err := writeLine(out, "Child: %s, %s at %s", state.Child.Name, state.Child.Grade, state.Child.School); err != nil {
					return err
				}
			}
			return writeNotifications(out, prefs)
		},
	}

	cmd.AddCommand(newSettingsSetCmd(app), newSettingsResetCmd(app))

	return cmd
}

func newSettingsSetCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set <notification> <on|off>",
		Short: "Switch a notification on or off",
		Long:  "Notifications: email, push, grades, attendance, messages.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireRoute(app, domain.RouteSettings); err != nil {
				return err
			}

			n, err := domain.ParseNotification(args[0])
			if err != nil {
				return err
			}
			on, err := parseSwitch(args[1])
			if err != nil {
				return err
			}

			if _, err := app.prefs.SetNotification(cmd.Context(), n, on); err != nil {
				return err
			}
			return writeLine(cmd.OutOrStdout(), "%s %s", n.Label(), onOff(on))
		},
	}
}

func newSettingsResetCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restore the default notification settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireRoute(app, domain.RouteSettings); err != nil {
				return err
			}

			prefs, err := app.prefs.Reset(cmd.Context())
			if err != nil {
				return err
			}
			return writeNotifications(cmd.OutOrStdout(), prefs)
		},
	}
}

func writeNotifications(w io.Writer, prefs domain.Preferences) error {
	if err := writeLine(w, "Notifications:"); err != nil {
		return err
	}
	for _, n := range domain.Notifications() {
		if err := writeLine(w, "  %-20s %s", n.Label(), onOff(prefs.Enabled(n))); err != nil {
			return err
		}
	}
	return nil
}

func parseSwitch(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "on", "true", "yes":
		return true, nil
	case "off", "false", "no":
		return false, nil
	default:
		return false, fmt.Errorf("%q: want on or off: %w", raw, domain.ErrValidation)
	}
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}
