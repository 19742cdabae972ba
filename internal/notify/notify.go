// Package notify provides desktop notification support for Linktine.
package notify

import (
	"fmt"

	"github.com/linktine/linktine/internal/config"
)

// Notifier defines the interface for sending desktop notifications.
type Notifier interface {
	// NotifyInvalid sends a notification about a rejected session credential.
	NotifyInvalid(profile string, err error) error
}

// Option configures a Notifier.
type Option func(*notifier)

// WithBackend sets a custom notification backend (for testing).
func WithBackend(backend Backend) Option {
	return func(n *notifier) {
		n.backend = backend
	}
}

// notifier sends desktop notifications using the system notification service.
type notifier struct {
	onInvalid bool
	backend   Backend
}

// NotifyInvalid sends a notification about a rejected session credential.
func (n *notifier) NotifyInvalid(profile string, err error) error {
	if !n.onInvalid {
		return nil
	}

	title := "Linktine: Session Invalid"
	message := fmt.Sprintf("The server rejected the credential for '%s'.\nLog in again to restore the session.\nError: %v", profile, err)

	return n.backend.Alert(title, message, "")
}

// New creates a new Notifier based on the configuration.
func New(cfg config.NotificationConfig, opts ...Option) Notifier {
	n := &notifier{
		onInvalid: cfg.Enabled && cfg.OnInvalid,
		backend:   newDesktopBackend(),
	}

	for _, opt := range opts {
		opt(n)
	}

	return n
}
