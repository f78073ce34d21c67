package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dimitrije/stockroom/internal/authstate"
	"github.com/spf13/cobra"
)

const resetPasswordPath = "/reset-password"

func (a *app) newSetupPasswordCmd() *cobra.Command {
	var password, confirm, displayName string

	cmd := &cobra.Command{
		Use:   "setup-password",
		Short: "Choose a password after accepting an invite",
		RunE: func(cmd *cobra.Command, args []string) error {
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

			m, st, err := rt.settle(ctx)
			if err != nil {
				return err
			}
			defer m.Close()

			switch authstate.Gate(st) {
			case authstate.DestSignIn:
				return authstate.ErrNotAuthenticated
			case authstate.DestApp:
				fmt.Fprintln(cmd.OutOrStdout(), "Your account is already set up.")
				writeState(cmd.OutOrStdout(), st)
				return nil
			}

			if err := m.CompletePasswordSetup(ctx, password, displayName); err != nil {
				return fmt.Errorf("password setup failed: %w", err)
			}

			st, err = m.Settled(ctx)
			if err != nil {
				return err
			}
			writeState(cmd.OutOrStdout(), st)
			return nil
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "new password")
	cmd.Flags().StringVar(&confirm, "confirm", "", "repeat the new password")
	cmd.Flags().StringVar(&displayName, "display-name", "", "name shown to your organization")
	return cmd
}

func (a *app) newResetPasswordCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Email a password reset link",
		RunE: func(cmd *cobra.Command, args []string) error {
			email = strings.TrimSpace(email)
			if email == "" {
				return errors.New("email is required")
			}

			rt, err := a.open(cmd, false)
			if err != nil {
				return err
			}
			defer rt.Close()

			ctx, cancel := a.commandContext(cmd)
			defer cancel()

			if err := rt.auth.ResetPasswordForEmail(ctx, email, rt.cfg.InviteBaseURL+resetPasswordPath); err != nil {
				return fmt.Errorf("password reset failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "If %s has an account, a reset link is on its way.\n", email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	return cmd
}
