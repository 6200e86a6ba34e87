package cmd

import (
	"fmt"

	dashboardview "github.com/bnema/parent-portal/internal/adapters/render/dashboard"
	"github.com/bnema/parent-portal/internal/domain"
	"github.com/spf13/cobra"
)

func newPasswordCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "password",
		Short: "Check password strength or change your password",
	}

	cmd.AddCommand(newPasswordStrengthCmd(), newPasswordChangeCmd(app))

	return cmd
}

func newPasswordStrengthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "strength <password>",
		Short: "Rate a candidate password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			strength := domain.ScorePasswordStrength(args[0])
			return writeLine(cmd.OutOrStdout(), "%s (score %d/%d)", strength, domain.PasswordScore(args[0]), domain.MaxPasswordScore)
		},
	}
}

func newPasswordChangeCmd(app *app) *cobra.Command {
	var (
		current string
		next    string
		confirm string
	)

	cmd := &cobra.Command{
		Use:   "change",
		Short: "Change the account password",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireRoute(app, domain.RouteChangePassword); err != nil {
				return err
			}
			if err := app.profiles.ChangePassword(cmd.Context(), current, next, confirm); err != nil {
				return err
			}
			return writeLine(cmd.OutOrStdout(), "Password changed")
		},
	}

	cmd.Flags().StringVar(&current, "current", "", "Current password")
	cmd.Flags().StringVar(&next, "new", "", "New password")
	cmd.Flags().StringVar(&confirm, "confirm", "", "Repeat the new password")

	return cmd
}

func newProfileCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage your parent profile",
	}

	cmd.AddCommand(newProfileEditCmd(app))

	return cmd
}

func newProfileEditCmd(app *app) *cobra.Command {
	var update domain.ProfileUpdate

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Update name, email or phone",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireRoute(app, domain.RouteEditProfile); err != nil {
				return err
			}

			user := app.session.State().User
			flags := cmd.Flags()
			if !flags.Changed("name") {
				update.Name = user.Name
			}
			if !flags.Changed("email") {
				update.Email = user.Email
			}
			if !flags.Changed("phone") {
				update.Phone = user.Phone
			}

			state, err := app.profiles.UpdateProfile(cmd.Context(), update)
			if err != nil {
				return err
			}
			return writeLine(cmd.OutOrStdout(), "Profile updated: %s <%s>", state.User.Name, state.User.Email)
		},
	}

	cmd.Flags().StringVar(&update.Name, "name", "", "Display name")
	cmd.Flags().StringVar(&update.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&update.Phone, "phone", "", "10-digit phone number, empty to clear")

	return cmd
}

func newDashboardCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show grades, assignments and unread messages",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireRoute(app, domain.RouteDashboard); err != nil {
				return err
			}

			summary, err := app.dashboard.Summary(cmd.Context(), app.inbox.UnreadCount())
			if err != nil {
				return err
			}
			rendered, err := app.renderDashboard(summary, dashboardview.RenderOptions{Now: app.now()})
			if err != nil {
				return fmt.Errorf("render dashboard: %w", err)
			}
			return writeLine(cmd.OutOrStdout(), "%s", rendered)
		},
	}
}
