package cli

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/linktine/linktine/internal/api"
	"github.com/linktine/linktine/internal/session"
	"github.com/linktine/linktine/internal/types"
)

// ProfileListOutput represents profile list output for JSON.
type ProfileListOutput struct {
	Active   string          `json:"active"`
	Profiles []types.Profile `json:"profiles"`
}

// newProfileCmd creates the profile command group.
func (cli *CLI) newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "profile",
		Aliases: []string{"profiles"},
		Short:   "Manage account profiles and the active session",
		Long: `Manage saved account profiles.

Each profile is one account on one Linktine server. Exactly one profile
is active at a time; all other commands run as the active profile.

Examples:
  # List all profiles
  linktine profile list

  # Switch the active profile
  linktine profile use a1b2c3

  # Remove a profile
  linktine profile remove a1b2c3

  # Show and verify the active session
  linktine profile status`,
	}

	cmd.AddCommand(
		cli.newProfileListCmd(),
		cli.newProfileUseCmd(),
		cli.newProfileRemoveCmd(),
		cli.newProfileStatusCmd(),
	)

	return cmd
}

// newProfileListCmd creates the profile list command.
func (cli *CLI) newProfileListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all saved profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := ParseOutputFormat(cli.outputFlag)
			if err != nil {
				return err
			}
			return cli.runProfileList(format)
		},
	}
}

// runProfileList displays all saved profiles.
func (cli *CLI) runProfileList(format OutputFormat) error {
	output := NewOutputWriter(format)

	profiles := cli.Store.All()
	activeID := cli.Store.ActiveID()

	profileList := ProfileListOutput{
		Active:   activeID,
		Profiles: profiles,
	}

	if len(profiles) == 0 {
		return output.Write(profileList, func() {
			fmt.Println("No profiles saved.")
			fmt.Println()
			fmt.Println("Add one with: linktine login --server <url>")
		})
	}

	return output.Write(profileList, func() {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tEMAIL\tSERVER\tLOGGED IN")

		for _, prof := range profiles {
			active := ""
			if prof.ID == activeID {
				active = "* "
			}

			loggedInStr := "no"
			if prof.Credential != "" {
				loggedInStr = "yes"
			}

			fmt.Fprintf(w, "%s%s\t%s\t%s\t%s\t%s\n", active, prof.ID, prof.Name, prof.Email, prof.ServerURL, loggedInStr)
		}

		// #nosec G104 - Flush error on stdout; if write fails, user will see incomplete output
		_ = w.Flush()

		if activeID != "" {
			fmt.Printf("\n* = active profile (%s)\n", activeID)
		}
	})
}

// newProfileUseCmd creates the profile use command.
func (cli *CLI) newProfileUseCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "use <id>",
		Aliases: []string{"switch"},
		Short:   "Switch the active profile",
		Long: `Switch the active profile.

The switch takes effect immediately. The stored credential is then
re-verified against the server in the background sense: if the server
rejects it the switch still stands, and a warning tells you to log in
again for that account.`,
		Args: cobra.ExactArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return cli.getProfileIDs(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cli.Coordinator.SwitchTo(cmd.Context(), args[0]); err != nil {
				cli.reportEvents()
				return err
			}
			cli.reportEvents()
			return nil
		},
	}
}

// newProfileRemoveCmd creates the profile remove command.
func (cli *CLI) newProfileRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm", "delete"},
		Short:   "Remove a saved profile",
		Long: `Remove a saved profile and its stored credential.

Removing the active profile activates the first remaining profile. When
no profiles remain, the session is cleared and a new login is required.`,
		Args: cobra.ExactArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return cli.getProfileIDs(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cli.Coordinator.DeleteProfile(cmd.Context(), args[0]); err != nil {
				cli.reportEvents()
				return err
			}
			cli.reportEvents()
			return nil
		},
	}
}

// ProfileStatusOutput represents profile status output for JSON.
type ProfileStatusOutput struct {
	Profile  *types.Profile `json:"profile"`
	Verified bool           `json:"verified"`
	Error    string         `json:"error,omitempty"`
}

// newProfileStatusCmd creates the profile status command.
func (cli *CLI) newProfileStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the active profile and verify its session",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := ParseOutputFormat(cli.outputFlag)
			if err != nil {
				return err
			}
			output := NewOutputWriter(format)

			prof := cli.Resolver.ActiveProfile()
			if prof == nil {
				return output.Write(ProfileStatusOutput{}, func() {
					fmt.Println("No active profile.")
					fmt.Println()
					fmt.Println("Log in with: linktine login --server <url>")
				})
			}

			verifyErr := cli.Coordinator.ValidateActive(cmd.Context())
			cli.reportEvents()

			// Re-read: validation refreshes the stored identity
			if refreshed, err := cli.Store.Get(prof.ID); err == nil {
				prof = refreshed
			}

			status := ProfileStatusOutput{
				Profile:  prof,
				Verified: verifyErr == nil,
			}
			if verifyErr != nil {
				status.Error = verifyErr.Error()
			}

			return output.Write(status, func() {
				fmt.Printf("Profile: %s\n", prof.ID)
				fmt.Printf("Name:    %s\n", prof.Name)
				fmt.Printf("Email:   %s\n", prof.Email)
				if prof.Role != "" {
					fmt.Printf("Role:    %s\n", prof.Role)
				}
				fmt.Printf("Server:  %s\n", prof.ServerURL)
				if cli.verboseFlag && prof.Credential != "" {
					fmt.Printf("Token:   %s\n", prof.MaskedCredential())
				}
				fmt.Println()
				if verifyErr == nil {
					fmt.Println("Session verified.")
				} else {
					fmt.Printf("Session check failed: %s\n", statusCause(verifyErr))
				}
			})
		},
	}
}

// statusCause renders a verification failure for humans.
func statusCause(err error) string {
	var rejected *api.RejectedError
	switch {
	case errors.Is(err, session.ErrNoActiveProfile):
		return "no active profile"
	case errors.Is(err, api.ErrUnreachable):
		return "server unreachable"
	case errors.As(err, &rejected) && rejected.StatusCode == 401:
		return "credential rejected, log in again"
	default:
		return err.Error()
	}
}

// getProfileIDs returns the saved profile ids for shell completion.
func (cli *CLI) getProfileIDs() []string {
	if cli.Store == nil {
		return nil
	}
	profiles := cli.Store.All()
	ids := make([]string, 0, len(profiles))
	for _, p := range profiles {
		ids = append(ids, p.ID)
	}
	return ids
}
