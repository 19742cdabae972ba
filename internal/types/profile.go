// Package types provides shared types used across the application.
package types

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/linktine/linktine/internal/utils"
)

// ErrInvalidServerURL indicates the server URL is not a valid HTTP/HTTPS URL.
var ErrInvalidServerURL = errors.New("invalid server URL")

// Profile represents one saved account on one Linktine server.
type Profile struct {
	// ID is the server-assigned user id, unique within the store.
	ID string `yaml:"id" json:"id"`
	// Name is the display name reported by the server.
	Name string `yaml:"name" json:"name"`
	// Email is the account email.
	Email string `yaml:"email,omitempty" json:"email,omitempty"`
	// Role is the server-side role of the account.
	Role string `yaml:"role,omitempty" json:"role,omitempty"`
	// ServerURL is the base URL of the Linktine server.
	ServerURL string `yaml:"server_url" json:"serverUrl"`

	// Credential is the opaque bearer token for this account. It lives
	// in the OS keyring and is never written to the profiles file.
	Credential string `yaml:"-" json:"-"`
}

// Validate checks that the profile can be persisted and used for requests.
func (p *Profile) Validate() error {
	if p.ID == "" {
		return errors.New("profile id is required")
	}
	return ValidateServerURL(p.ServerURL)
}

// ValidateServerURL checks that addr is an absolute http or https URL.
func ValidateServerURL(addr string) error {
	if addr == "" {
		return fmt.Errorf("%w: server URL is required", ErrInvalidServerURL)
	}

	parsed, err := url.Parse(addr)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidServerURL, err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%w: server URL must use http or https scheme, got %q", ErrInvalidServerURL, parsed.Scheme)
	}

	if parsed.Host == "" {
		return fmt.Errorf("%w: server URL must have a host", ErrInvalidServerURL)
	}

	return nil
}

// MaskedCredential returns the credential in a form safe for display.
func (p *Profile) MaskedCredential() string {
	if p.Credential == "" {
		return ""
	}
	return utils.Mask(p.Credential)
}
