// Package cli provides the command-line interface for Linktine.
package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/linktine/linktine/internal/api"
	"github.com/linktine/linktine/internal/config"
	"github.com/linktine/linktine/internal/keyring"
	"github.com/linktine/linktine/internal/logger"
	"github.com/linktine/linktine/internal/session"
	"github.com/linktine/linktine/internal/store"
	"github.com/linktine/linktine/internal/types"
	"github.com/linktine/linktine/internal/utils"
)

// CLI holds the application state for the CLI.
type CLI struct {
	Config      *config.Config
	Keyring     keyring.Store
	Store       *store.ProfileStore
	Resolver    *session.Resolver
	Coordinator *session.Coordinator
	rootCmd     *cobra.Command

	// Flags
	profileFlag string
	verboseFlag bool
	outputFlag  string
}

// New creates a new CLI instance.
func New() *CLI {
	cli := &CLI{
		Keyring: keyring.DefaultStore(),
	}

	cli.rootCmd = &cobra.Command{
		Use:   "linktine [command]",
		Short: "Linktine - bookmark server client with multi-account sessions",
		Long: `Linktine is a CLI client for Linktine bookmark servers.

It manages any number of account profiles across one or more servers,
keeps exactly one of them active at a time, and authenticates every
request with the credential of the active profile. Credentials are
stored in your system's credential store (Keychain on macOS, Credential
Manager on Windows, Secret Service on Linux).

Log in once per account, then switch between them instantly:

  linktine login --server https://linktine.example.com
  linktine profile list
  linktine profile use <profile-id>
  linktine links list`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return cli.initialize(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	// Global flags
	cli.rootCmd.PersistentFlags().StringVarP(&cli.profileFlag, "profile", "p", "", "Run the command as a specific profile without switching")
	cli.rootCmd.PersistentFlags().BoolVarP(&cli.verboseFlag, "verbose", "v", false, "Enable verbose output")
	cli.rootCmd.PersistentFlags().StringVarP(&cli.outputFlag, "output", "o", "text", "Output format (text, json)")

	// Add commands
	cli.addCommands()

	return cli
}

// addCommands adds all subcommands to the root command.
func (cli *CLI) addCommands() {
	cli.rootCmd.AddCommand(
		cli.newVersionCmd(),
		cli.newLoginCmd(),
		cli.newLogoutCmd(),
		cli.newProfileCmd(),
		cli.newLinksCmd(),
		cli.newCollectionsCmd(),
		cli.newTagsCmd(),
		cli.newDashboardCmd(),
		cli.newWatchCmd(),
		cli.newCompletionCmd(),
	)
}

// initialize loads configuration and sets up the shared session state.
func (cli *CLI) initialize(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	cli.Config = cfg

	paths := config.GetPaths()
	if err := paths.EnsureDirs(); err != nil {
		return fmt.Errorf("failed to create configuration directory: %w", err)
	}

	st, err := store.New(paths.StateFile, cli.Keyring)
	if err != nil {
		return fmt.Errorf("failed to load profiles: %w", err)
	}
	cli.Store = st
	cli.Resolver = session.NewResolver(st)
	cli.Coordinator = session.NewCoordinator(st, session.GatewayFunc(
		func(ctx context.Context, serverURL, credential string) (*api.Identity, error) {
			return api.VerifyIdentity(ctx, serverURL, credential, cli.Config.RequestTimeout)
		},
	))

	cli.applyProfileOverride()

	return nil
}

// applyProfileOverride applies LINKTINE_PROFILE as a per-invocation
// profile selection. The --profile flag takes precedence. An invalid
// value is ignored with a warning, never silently, so the user knows
// the command runs as the stored active profile instead.
func (cli *CLI) applyProfileOverride() {
	envProfile := os.Getenv("LINKTINE_PROFILE")
	if envProfile == "" || cli.profileFlag != "" {
		return
	}

	// Security: validate the id format before using it in error messages
	if !utils.IsValidProfileID(envProfile) {
		fmt.Fprintf(os.Stderr, "Warning: ignoring LINKTINE_PROFILE, invalid profile id format\n")
		return
	}

	cli.profileFlag = envProfile
}

// Execute runs the CLI.
func (cli *CLI) Execute(ctx context.Context) error {
	return cli.rootCmd.ExecuteContext(ctx)
}

// currentProfile resolves the profile the command should run as. The
// --profile flag and LINKTINE_PROFILE select a profile for this
// invocation only; otherwise the stored active profile is used.
func (cli *CLI) currentProfile() (*types.Profile, error) {
	if cli.profileFlag != "" {
		prof, err := cli.Store.Get(cli.profileFlag)
		if err != nil {
			return nil, fmt.Errorf("profile %q: %w", cli.profileFlag, err)
		}
		return prof, nil
	}

	prof := cli.Resolver.ActiveProfile()
	if prof == nil {
		return nil, fmt.Errorf("no active profile; run 'linktine login' first")
	}
	return prof, nil
}

// apiClient builds an authenticated API client for the current profile.
func (cli *CLI) apiClient() (*api.Client, error) {
	prof, err := cli.currentProfile()
	if err != nil {
		return nil, err
	}

	auth := api.NewAuthenticator(nil)
	auth.SetCredential(prof.Credential)

	var transport http.RoundTripper = auth
	if cli.verboseFlag {
		log, err := logger.New(logger.Config{Level: logger.LevelDebug})
		if err != nil {
			return nil, err
		}
		transport = api.NewLoggingTransport(auth, log)
	}

	return api.NewClient(prof.ServerURL,
		api.WithTimeout(cli.Config.RequestTimeout),
		api.WithTransport(transport),
	)
}

// reportEvents prints any session events the coordinator produced
// during a command. Error events are already surfaced through the
// returned error, so only informational ones are shown.
func (cli *CLI) reportEvents() {
	for {
		select {
		case ev := <-cli.Coordinator.Events():
			switch ev.Kind {
			case session.EventError:
				// The command error already carries this
			case session.EventCredentialInvalid:
				fmt.Fprintf(os.Stderr, "Warning: %s\n", ev.Message)
			default:
				fmt.Println(ev.Message)
			}
		default:
			return
		}
	}
}
