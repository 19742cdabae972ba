// Package keyring provides secure credential storage using the OS keyring.
package keyring

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/linktine/linktine/internal/utils"
)

const (
	// ServicePrefix is the prefix used for keyring service names.
	// Each profile gets its own service entry: "Linktine - <profile id>"
	ServicePrefix = "Linktine"

	// TestKeyringEnvVar is the environment variable that, when set to a
	// directory path, causes the CLI to use a file-based store instead of
	// the OS keyring. Intended for testing only.
	TestKeyringEnvVar = "LINKTINE_TEST_KEYRING_DIR"
)

// serviceName returns the keyring service name for a profile id.
func serviceName(profileID string) string {
	return ServicePrefix + " - " + profileID
}

var (
	// ErrKeyringUnavailable is returned when no secure keyring is available.
	ErrKeyringUnavailable = errors.New("secure keyring is not available on this system")
	// ErrCredentialNotFound is returned when a credential is not found in the keyring.
	ErrCredentialNotFound = errors.New("credential not found in keyring")
	// ErrKeyringAccessDenied is returned when access to the keyring is denied.
	ErrKeyringAccessDenied = errors.New("access to keyring denied")
)

// Store represents a secure credential storage backend.
type Store interface {
	// Set stores a credential for the given profile id.
	Set(profileID, credential string) error
	// Get retrieves the credential for the given profile id.
	Get(profileID string) (string, error)
	// Delete removes the credential for the given profile id.
	Delete(profileID string) error
	// IsAvailable checks if the keyring is available.
	IsAvailable() error
}

// DefaultStore returns the default keyring store for the current platform.
// If LINKTINE_TEST_KEYRING_DIR is set, a file-based store is used instead.
func DefaultStore() Store {
	if testDir := os.Getenv(TestKeyringEnvVar); testDir != "" {
		fileStore, err := NewFileStore(testDir)
		if err != nil {
			return &osKeyring{}
		}
		return fileStore
	}
	return &osKeyring{}
}

// osKeyring implements Store using the OS keyring.
type osKeyring struct{}

// IsAvailable checks if a secure keyring is available on this system.
func (k *osKeyring) IsAvailable() error {
	_, err := gokeyring.Get(serviceName("__availability_check__"), "test")
	if err != nil {
		// ErrNotFound means keyring is working but key doesn't exist (expected)
		if errors.Is(err, gokeyring.ErrNotFound) {
			return nil
		}

		errStr := err.Error()

		if runtime.GOOS == "linux" {
			if utils.ContainsAny(errStr, "secret service", "dbus", "org.freedesktop.secrets") {
				return fmt.Errorf("%w: D-Bus secret service not available - please install and start gnome-keyring, kwallet, or another secret service provider", ErrKeyringUnavailable)
			}
		}

		if runtime.GOOS == "darwin" {
			if utils.ContainsAny(errStr, "keychain", "security") {
				return fmt.Errorf("%w: macOS Keychain not accessible", ErrKeyringUnavailable)
			}
		}

		if runtime.GOOS == "windows" {
			if utils.ContainsAny(errStr, "credential", "wincred") {
				return fmt.Errorf("%w: Windows Credential Manager not accessible", ErrKeyringUnavailable)
			}
		}

		// Other errors during availability check - treat as available since
		// the actual operations will provide better error messages
		return nil
	}

	return nil
}

// Set stores a credential in the keyring, keyed by profile id.
func (k *osKeyring) Set(profileID, credential string) error {
	if err := k.IsAvailable(); err != nil {
		return err
	}

	if profileID == "" {
		return errors.New("profile id cannot be empty")
	}
	if credential == "" {
		return errors.New("credential cannot be empty")
	}

	err := gokeyring.Set(serviceName(profileID), profileID, credential)
	if err != nil {
		return wrapKeyringError(err, "failed to store credential")
	}

	return nil
}

// Get retrieves a credential from the keyring.
func (k *osKeyring) Get(profileID string) (string, error) {
	if err := k.IsAvailable(); err != nil {
		return "", err
	}

	if profileID == "" {
		return "", errors.New("profile id cannot be empty")
	}

	credential, err := gokeyring.Get(serviceName(profileID), profileID)
	if err != nil {
		if errors.Is(err, gokeyring.ErrNotFound) {
			return "", ErrCredentialNotFound
		}
		return "", wrapKeyringError(err, "failed to retrieve credential")
	}

	return credential, nil
}

// Delete removes a credential from the keyring.
func (k *osKeyring) Delete(profileID string) error {
	if err := k.IsAvailable(); err != nil {
		return err
	}

	if profileID == "" {
		return errors.New("profile id cannot be empty")
	}

	err := gokeyring.Delete(serviceName(profileID), profileID)
	if err != nil {
		if errors.Is(err, gokeyring.ErrNotFound) {
			// Already deleted, not an error
			return nil
		}
		return wrapKeyringError(err, "failed to delete credential")
	}

	return nil
}

// wrapKeyringError wraps a keyring error with context.
func wrapKeyringError(err error, context string) error {
	if err == nil {
		return nil
	}

	errStr := err.Error()

	if utils.ContainsAny(errStr, "denied", "permission", "not allowed", "unauthorized") {
		return fmt.Errorf("%w: %s: %v", ErrKeyringAccessDenied, context, err)
	}

	if utils.ContainsAny(errStr, "not found", "no keyring", "unavailable", "secret service") {
		return fmt.Errorf("%w: %s: %v", ErrKeyringUnavailable, context, err)
	}

	return fmt.Errorf("%s: %w", context, err)
}
