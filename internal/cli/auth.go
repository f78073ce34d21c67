package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dimitrije/stockroom/internal/authstate"
	"github.com/dimitrije/stockroom/internal/models"
	"github.com/dimitrije/stockroom/internal/services"
	"github.com/spf13/cobra"
)

func (a *app) commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), a.timeout)
}

func (a *app) newSignInCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "signin",
		Short: "Sign in with email and password",
		RunE: func(cmd *cobra.Command, args []string) error {
			email = strings.TrimSpace(email)
			if email == "" || password == "" {
				return errors.New("email and password are required")
			}

			rt, err := a.open(cmd, true)
			if err != nil {
				return err
			}
			defer rt.Close()

			ctx, cancel := a.commandContext(cmd)
			defer cancel()

			if _, err := rt.auth.SignInWithPassword(ctx, email, password); err != nil {
				return fmt.Errorf("sign in failed: %w", err)
			}

			m, st, err := rt.settle(ctx)
			if err != nil {
				return err
			}
			defer m.Close()

			writeState(cmd.OutOrStdout(), st)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	return cmd
}

func (a *app) newSignUpCmd() *cobra.Command {
	var email, password, confirm, displayName, orgName string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account, optionally with a new organization",
		RunE: func(cmd *cobra.Command, args []string) error {
			email = strings.TrimSpace(email)
			if email == "" {
				return errors.New("email is required")
			}
			if err := authstate.ValidatePassword(password, confirm); err != nil {
				return err
			}

			rt, err := a.open(cmd, true)
			if err != nil {
				return err
			}
			defer rt.Close()

			ctx, cancel := a.commandContext(cmd)
			defer cancel()

			data := map[string]any{}
			if displayName != "" {
				data[models.MetaDisplayName] = displayName
			}

			user, session, err := rt.auth.SignUp(ctx, email, password, data)
			if err != nil {
				return fmt.Errorf("sign up failed: %w", err)
			}

			out := cmd.OutOrStdout()
			if session == nil {
				fmt.Fprintf(out, "Account created for %s. Check your email to confirm it, then sign in.\n", user.Email)
				if orgName != "" {
					fmt.Fprintln(out, "Run `stockroom create-org` after signing in to create your organization.")
				}
				return nil
			}

			if orgName != "" {
				org, _, err := rt.orgs.CreateWithAdmin(ctx, orgName, user, displayName)
				if err != nil {
					return fmt.Errorf("creating organization: %w", err)
				}
				fmt.Fprintf(out, "Created organization %s.\n", org.Name)
			}

			m, st, err := rt.settle(ctx)
			if err != nil {
				return err
			}
			defer m.Close()

			writeState(out, st)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.Flags().StringVar(&confirm, "confirm", "", "repeat the password")
	cmd.Flags().StringVar(&displayName, "display-name", "", "name shown to your organization")
	cmd.Flags().StringVar(&orgName, "org", "", "create a new organization and become its admin")
	return cmd
}

func (a *app) newCreateOrgCmd() *cobra.Command {
	var displayName string

	cmd := &cobra.Command{
		Use:   "create-org <name>",
		Short: "Create an organization for the signed-in account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			if name == "" {
				return errors.New("organization name is required")
			}

			rt, err := a.open(cmd, true)
			if err != nil {
				return err
			}
			defer rt.Close()

			ctx, cancel := a.commandContext(cmd)
			defer cancel()

			session, err := rt.auth.GetSession(ctx)
			if err != nil || session == nil || session.User == nil {
				return authstate.ErrNotAuthenticated
			}

			if displayName == "" {
				displayName = session.User.MetaString(models.MetaDisplayName)
			}

			org, _, err := rt.orgs.CreateWithAdmin(ctx, name, session.User, displayName)
			if errors.Is(err, services.ErrProfileExists) {
				return errors.New("this account already belongs to an organization")
			}
			if err != nil {
				return fmt.Errorf("creating organization: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created organization %s (%s).\n", org.Name, org.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&displayName, "display-name", "", "name shown to your organization")
	return cmd
}

func (a *app) newSignOutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "signout",
		Short: "Sign out and forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := a.open(cmd, false)
			if err != nil {
				return err
			}
			defer rt.Close()

			ctx, cancel := a.commandContext(cmd)
			defer cancel()

			if err := rt.auth.SignOut(ctx); err != nil {
				return fmt.Errorf("sign out failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}
}

func (a *app) newStatusCmd() *cobra.Command {
	var refresh bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Restore the session and show where the app would route you",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := a.open(cmd, true)
			if err != nil {
				return err
			}
			defer rt.Close()

			ctx, cancel := a.commandContext(cmd)
			defer cancel()

			m, st, err := rt.settle(ctx)
			if err != nil {
				return err
			}
			defer m.Close()

			if refresh && st.User != nil {
				if err := m.Refresh(ctx); err != nil {
					return err
				}
				st = m.State()
			}

			writeState(cmd.OutOrStdout(), st)
			return nil
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "reload the profile and organization before printing")
	return cmd
}
