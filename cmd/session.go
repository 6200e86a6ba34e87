package cmd

import (
	"context"
	"fmt"

	"github.com/bnema/parent-portal/internal/domain"
	"github.com/spf13/cobra"
)

func newSignupCmd(app *app) *cobra.Command {
	var (
		name     string
		email    string
		password string
		confirm  string
	)

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create a parent account and sign in",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !domain.ConfirmMatches(password, confirm) {
				return fmt.Errorf("signup: %w", &domain.FieldError{Field: "confirm_password", Code: domain.CodeMismatch})
			}
			app.navigator.Navigate(string(domain.RouteSignup))

			state, err := withSpinner(cmd.Context(), cmd.ErrOrStderr(), "Creating account...", func(ctx context.Context) (domain.SessionState, error) {
				return app.session.Signup(ctx, email, password, name)
			})
			if err != nil {
				return err
			}

			next := app.navigator.AfterSignup()
			out := cmd.OutOrStdout()
			if err := writeLine(out, "Signed up as %s <%s>", state.User.Name, state.User.Email); err != nil {
				return err
			}
			return writeLine(out, "Next: add your child's profile with `pp child set` (%s)", next.Target)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Your display name")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&password, "password", "", "Password (8+ characters with lowercase, uppercase and a digit)")
	cmd.Flags().StringVar(&confirm, "confirm", "", "Repeat the password")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	_ = cmd.MarkFlagRequired("confirm")

	return cmd
}

func newLoginCmd(app *app) *cobra.Command {
	var (
		email    string
		password string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email and password",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app.navigator.Navigate(string(domain.RouteLogin))

			state, err := withSpinner(cmd.Context(), cmd.ErrOrStderr(), "Signing in...", func(ctx context.Context) (domain.SessionState, error) {
				return app.session.Login(ctx, email, password)
			})
			if err != nil {
				return err
			}

			next := app.navigator.AfterLogin()
			out := cmd.OutOrStdout()
			if err := writeLine(out, "Signed in as %s <%s>", state.User.Name, state.User.Email); err != nil {
				return err
			}
			return writeLine(out, "-> %s", next.Target)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&password, "password", "", "Password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newLogoutCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the saved session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app.session.Logout(cmd.Context())
			return writeLine(cmd.OutOrStdout(), "Signed out")
		},
	}
}

func newWhoamiCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in parent and child profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			state := app.session.State()
			if !state.IsAuthenticated() {
				return writeLine(out, "Not signed in")
			}

			if err := writeLine(out, "%s <%s>", state.User.Name, state.User.Email); err != nil {
				return err
			}
			if state.User.Phone != "" {
				if err := writeLine(out, "phone: %s", state.User.Phone); err != nil {
					return err
				}
			}
			if !state.HasChild() {
				return writeLine(out, "child: none")
			}
			return writeLine(out, "child: %s (%s, %s)", state.Child.Name, state.Child.Grade, state.Child.School)
		},
	}
}

func newChildCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "child",
		Short: "Manage the child profile",
	}

	cmd.AddCommand(newChildSetCmd(app))

	return cmd
}

func newChildSetCmd(app *app) *cobra.Command {
	var child domain.ChildProfile

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Add or replace the child profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireRoute(app, domain.RouteChildInfo); err != nil {
				return err
			}

			state := app.session.State()
			if state.HasChild() {
				child.ID = state.Child.ID
			}

			state, err := app.session.SetChildInfo(cmd.Context(), child)
			if err != nil {
				return err
			}

			return writeLine(cmd.OutOrStdout(), "Saved child profile: %s (%s, %s)", state.Child.Name, state.Child.Grade, state.Child.School)
		},
	}

	cmd.Flags().StringVar(&child.Name, "name", "", "Child's name")
	cmd.Flags().StringVar(&child.Grade, "grade", "", "Grade, e.g. 8th")
	cmd.Flags().StringVar(&child.School, "school", "", "School name")
	cmd.Flags().StringVar(&child.Avatar, "avatar", "", "Avatar URL")

	return cmd
}
