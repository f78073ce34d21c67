// Package cli implements the stockroom client commands.
package cli

import (
	"time"

	"github.com/spf13/cobra"
)

type app struct {
	verbose bool
	timeout time.Duration
	version string

	open func(cmd *cobra.Command, withDB bool) (*runtime, error)
}

// NewRootCmd builds the command tree.
func NewRootCmd(version string) *cobra.Command {
	a := &app{version: version}
	a.open = a.openRuntime
	return a.rootCmd()
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "stockroom",
		Short: "Stockroom inventory client",
		Long: `stockroom signs you in to your organization's inventory and reports
where the app would take you next.

Example usage:
  stockroom signin --email me@example.com --password secret
  stockroom status
  stockroom setup-password --password secret --confirm secret
  stockroom invite-link "https://app.example.com/invite?org=<id>"`,
		Version:       a.version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")
	root.PersistentFlags().DurationVar(&a.timeout, "timeout", 30*time.Second, "overall timeout for a command")

	root.AddCommand(
		a.newSignInCmd(),
		a.newSignUpCmd(),
		a.newSignOutCmd(),
		a.newStatusCmd(),
		a.newCreateOrgCmd(),
		a.newSetupPasswordCmd(),
		a.newResetPasswordCmd(),
		newInviteLinkCmd(),
	)

	return root
}

// Execute runs the root command.
func Execute(version string) error {
	return NewRootCmd(version).Execute()
}
