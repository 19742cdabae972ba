package keyring

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/linktine/linktine/internal/utils"
)

// FileStore is a file-based credential store for testing.
// It must never be used in production.
type FileStore struct {
	mu  sync.Mutex
	dir string
}

// NewFileStore creates a new file-based credential store.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("directory path is required")
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	return &FileStore{dir: dir}, nil
}

// IsAvailable implements Store.
func (f *FileStore) IsAvailable() error {
	info, err := os.Stat(f.dir)
	if err != nil {
		return fmt.Errorf("%w: directory not accessible: %v", ErrKeyringUnavailable, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: path is not a directory", ErrKeyringUnavailable)
	}
	return nil
}

func (f *FileStore) keyPath(profileID string) string {
	return filepath.Join(f.dir, utils.SanitizeKey(profileID))
}

// Set implements Store.
func (f *FileStore) Set(profileID, credential string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.IsAvailable(); err != nil {
		return err
	}
	if profileID == "" {
		return fmt.Errorf("profile id cannot be empty")
	}
	if credential == "" {
		return fmt.Errorf("credential cannot be empty")
	}

	path := f.keyPath(profileID)
	_ = os.Remove(path)

	// #nosec G304 - path is derived from a sanitized key under the store directory
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return fmt.Errorf("failed to store credential: %w", err)
	}
	defer file.Close()

	if _, err := file.Write([]byte(credential)); err != nil {
		return fmt.Errorf("failed to store credential: %w", err)
	}

	return nil
}

// Get implements Store.
func (f *FileStore) Get(profileID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.IsAvailable(); err != nil {
		return "", err
	}
	if profileID == "" {
		return "", fmt.Errorf("profile id cannot be empty")
	}

	// #nosec G304 - path is derived from a sanitized key under the store directory
	data, err := os.ReadFile(f.keyPath(profileID))
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrCredentialNotFound
		}
		return "", fmt.Errorf("failed to retrieve credential: %w", err)
	}

	return string(data), nil
}

// Delete implements Store.
func (f *FileStore) Delete(profileID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.IsAvailable(); err != nil {
		return err
	}
	if profileID == "" {
		return fmt.Errorf("profile id cannot be empty")
	}

	err := os.Remove(f.keyPath(profileID))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete credential: %w", err)
	}

	return nil
}
