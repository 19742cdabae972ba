package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/linktine/linktine/internal/session"
)

// newLogoutCmd creates the logout command.
func (cli *CLI) newLogoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Sign out of the active profile",
		Long: `Sign out of the active profile.

The profile and its stored credential are removed and no other profile
is activated, even if more profiles exist. Use 'linktine profile use'
afterwards to activate another account, or 'linktine profile remove' to
delete a profile while keeping a session active.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := cli.Coordinator.Logout(cmd.Context())
			if errors.Is(err, session.ErrNoActiveProfile) {
				fmt.Println("No active profile, nothing to do.")
				return nil
			}
			if err != nil {
				return err
			}

			cli.reportEvents()

			remaining := len(cli.Store.All())
			if remaining > 0 {
				fmt.Printf("%d profile(s) remain. Activate one with 'linktine profile use <id>'.\n", remaining)
			}
			return nil
		},
	}

	return cmd
}
