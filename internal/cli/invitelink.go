package cli

import (
	"fmt"

	"github.com/dimitrije/stockroom/internal/invitelink"
	"github.com/spf13/cobra"
)

func newInviteLinkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "invite-link <url>",
		Short: "Inspect an invite link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			link, err := invitelink.Parse(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if link.Expired {
				fmt.Fprintln(out, "This invite link has expired or was already used. Ask your admin for a new invite.")
				if link.Reason != "" {
					fmt.Fprintf(out, "reason: %s\n", link.Reason)
				}
				return nil
			}

			fmt.Fprintf(out, "organization: %s\n", link.OrganizationID)
			fmt.Fprintln(out, "Open the link from your invite email, then run `stockroom setup-password`.")
			return nil
		},
	}
}
