package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/linktine/linktine/internal/logger"
	"github.com/linktine/linktine/internal/notify"
	"github.com/linktine/linktine/internal/session"
	"github.com/linktine/linktine/internal/utils"
)

// newWatchCmd creates the watch command.
func (cli *CLI) newWatchCmd() *cobra.Command {
	var (
		intervalFlag time.Duration
		logFileFlag  string
		logLevelFlag string
		logJSONFlag  bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep the active session verified in the foreground",
		Long: `Re-verify the active profile's session on an interval and report
session changes as they happen.

When the server rejects the stored credential, a warning is logged and,
if notifications are enabled in the configuration, a desktop alert is
shown. The watch keeps running so the session recovers automatically
after you log in again from another terminal.

Runs until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := logger.ParseLevel(logLevelFlag)
			if err != nil {
				return err
			}

			log, err := logger.New(logger.Config{
				Level:    level,
				FilePath: logFileFlag,
				JSONMode: logJSONFlag,
			})
			if err != nil {
				return err
			}
			defer func() { _ = log.Close() }()

			interval := intervalFlag
			if interval <= 0 {
				interval = cli.Config.WatchInterval
			}

			return cli.runWatch(cmd.Context(), interval, log)
		},
	}

	cmd.Flags().DurationVarP(&intervalFlag, "interval", "i", 0, "Revalidation interval (defaults to the configured watch interval)")
	cmd.Flags().StringVar(&logFileFlag, "log-file", "", "Write logs to a file instead of stderr")
	cmd.Flags().StringVar(&logLevelFlag, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.Flags().BoolVar(&logJSONFlag, "log-json", false, "Write logs as JSON")

	return cmd
}

// runWatch drives the periodic session validation loop.
func (cli *CLI) runWatch(ctx context.Context, interval time.Duration, log *logger.Logger) error {
	notifier := notify.New(cli.Config.Notifications)

	changes := cli.Resolver.Changes(ctx)
	events := cli.Coordinator.Events()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info("watch started", map[string]any{"interval": utils.FormatDuration(interval)})

	cli.validateOnce(ctx, log)

	for {
		select {
		case <-ctx.Done():
			log.Info("watch stopped")
			return nil

		case prof, ok := <-changes:
			if !ok {
				return nil
			}
			if prof == nil {
				log.Info("active session cleared")
			} else {
				log.Info("active session changed", map[string]any{
					"profile": prof.ID,
					"server":  prof.ServerURL,
				})
			}

		case ev := <-events:
			cli.handleWatchEvent(ev, log, notifier)

		case <-ticker.C:
			cli.validateOnce(ctx, log)
		}
	}
}

// validateOnce runs one validation pass. Failures are reported through
// the event stream, so only the no-session case needs handling here.
func (cli *CLI) validateOnce(ctx context.Context, log *logger.Logger) {
	err := cli.Coordinator.ValidateActive(ctx)
	if errors.Is(err, session.ErrNoActiveProfile) {
		log.Debug("no active profile, skipping validation")
	}
}

// handleWatchEvent logs a session event and raises a desktop alert for
// rejected credentials.
func (cli *CLI) handleWatchEvent(ev session.Event, log *logger.Logger, notifier notify.Notifier) {
	switch ev.Kind {
	case session.EventCredentialInvalid:
		log.Warn("credential rejected", map[string]any{
			"profile": ev.ProfileID,
			"cause":   ev.Message,
		})
		if err := notifier.NotifyInvalid(ev.ProfileID, ev.Err); err != nil && cli.verboseFlag {
			log.Debug("notification failed", map[string]any{"error": err.Error()})
		}

	case session.EventError:
		log.Error(ev.Message, map[string]any{"profile": ev.ProfileID})

	default:
		log.Info(fmt.Sprintf("%s: %s", ev.Kind, ev.Message), map[string]any{"profile": ev.ProfileID})
	}
}
