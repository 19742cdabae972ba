package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/linktine/linktine/internal/types"
)

// newLoginCmd creates the login command.
func (cli *CLI) newLoginCmd() *cobra.Command {
	var (
		serverFlag string
		tokenFlag  string
	)

	cmd := &cobra.Command{
		Use:   "login --server <url> [--token <token>]",
		Short: "Authenticate to a Linktine server and add the account as a profile",
		Long: `Authenticate to a Linktine server with an API token.

The token is verified against the server before anything is stored. On
success the account becomes a profile, the token is placed in your
system's credential store, and the profile becomes the active one.

Logging in again with a token for an account that already has a profile
updates that profile in place instead of creating a duplicate.

The token can be passed with --token, through the LINKTINE_TOKEN
environment variable, or interactively on standard input.

Examples:
  # Prompt for the token
  linktine login --server https://linktine.example.com

  # Non-interactive login
  linktine login --server https://linktine.example.com --token <api-token>`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.runLogin(cmd, serverFlag, tokenFlag)
		},
	}

	cmd.Flags().StringVarP(&serverFlag, "server", "s", "", "Linktine server URL (required)")
	cmd.Flags().StringVarP(&tokenFlag, "token", "t", "", "API token (prompted if omitted)")

	// Only fails if the flag is missing, which would be a programming error
	_ = cmd.MarkFlagRequired("server")

	return cmd
}

// runLogin handles the login command execution.
func (cli *CLI) runLogin(cmd *cobra.Command, server, token string) error {
	if err := types.ValidateServerURL(server); err != nil {
		return err
	}

	if err := cli.Keyring.IsAvailable(); err != nil {
		return fmt.Errorf("cannot store credential: %w", err)
	}

	if token == "" {
		token = os.Getenv("LINKTINE_TOKEN")
	}
	if token == "" {
		var err error
		token, err = readToken()
		if err != nil {
			return err
		}
	}
	if token == "" {
		return errors.New("no token provided")
	}

	if _, err := cli.Coordinator.Login(cmd.Context(), server, token); err != nil {
		cli.reportEvents()
		return err
	}

	cli.reportEvents()

	if prof := cli.Resolver.ActiveProfile(); prof != nil {
		fmt.Printf("Logged in as %s (%s) on %s\n", prof.Name, prof.Email, prof.ServerURL)
	}
	fmt.Println("Credential stored securely in your system's credential store.")
	fmt.Println("This profile is now active.")

	return nil
}

// readToken prompts for the API token on standard input.
func readToken() (string, error) {
	fmt.Fprint(os.Stderr, "API token: ")
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	return strings.TrimSpace(line), nil
}
