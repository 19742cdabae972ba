// Package store implements the durable multi-profile store and the
// active-profile pointer.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/linktine/linktine/internal/keyring"
	"github.com/linktine/linktine/internal/types"
)

// ErrProfileNotFound is returned when the active pointer does not resolve
// to a stored profile, or a lookup by id misses.
var ErrProfileNotFound = errors.New("profile not found")

// state is the on-disk layout of the profile store. Credentials are kept
// out of this file; they live in the keyring keyed by profile id.
type state struct {
	ActiveProfileID string          `yaml:"active_profile_id,omitempty"`
	Profiles        []types.Profile `yaml:"profiles,omitempty"`
}

// ProfileStore holds the saved profiles and the active-profile pointer.
// Every mutation is flushed to disk before it returns, and every reader
// observes only fully committed state.
type ProfileStore struct {
	mu       sync.Mutex
	path     string
	keyring  keyring.Store
	state    state
	watchers []*watcher
}

// New creates a ProfileStore backed by the state file at path and the
// given credential store. A missing state file yields an empty store.
func New(path string, kr keyring.Store) (*ProfileStore, error) {
	if path == "" {
		return nil, errors.New("state file path is required")
	}
	if kr == nil {
		return nil, errors.New("credential store is required")
	}

	s := &ProfileStore{
		path:    path,
		keyring: kr,
	}

	// #nosec G304 - path is the state file path from the user config directory
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read profile store: %w", err)
	}

	if err := yaml.Unmarshal(data, &s.state); err != nil {
		return nil, fmt.Errorf("failed to parse profile store: %w", err)
	}

	return s, nil
}

// All returns all saved profiles in insertion order, with credentials
// resolved from the keyring. An empty store yields an empty slice.
func (s *ProfileStore) All() []types.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()

	profiles := make([]types.Profile, len(s.state.Profiles))
	copy(profiles, s.state.Profiles)
	for i := range profiles {
		profiles[i].Credential = s.credential(profiles[i].ID)
	}
	return profiles
}

// ActiveID returns the active profile id, or "" if none is set.
func (s *ProfileStore) ActiveID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.ActiveProfileID
}

// SetActive sets the active pointer to id. An empty id clears it. The
// pointer is persisted even if no stored profile matches, so callers can
// clear state independently of profile deletion order.
func (s *ProfileStore) SetActive(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.ActiveProfileID = id
	if err := s.flushLocked(); err != nil {
		return err
	}
	s.notifyLocked()
	return nil
}

// Get returns the profile with the given id, credential resolved.
func (s *ProfileStore) Get(id string) (*types.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getLocked(id)
}

// Active resolves the active pointer against the profile list. It fails
// with ErrProfileNotFound when no profile matches, including when no
// pointer is set.
func (s *ProfileStore) Active() (*types.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getLocked(s.state.ActiveProfileID)
}

// ActiveOrNil resolves the active pointer and returns nil when it is
// unset or dangling. "Not logged in" is a normal state, not an error.
func (s *ProfileStore) ActiveOrNil() *types.Profile {
	p, err := s.Active()
	if err != nil {
		return nil
	}
	return p
}

// SaveOrUpdate inserts the profile, or replaces the stored entry with the
// same id. The credential is written to the keyring before the metadata
// is flushed, so a committed profile always has its credential stored.
func (s *ProfileStore) SaveOrUpdate(p types.Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if p.Credential != "" {
		if err := s.keyring.Set(p.ID, p.Credential); err != nil {
			return fmt.Errorf("failed to store credential: %w", err)
		}
	}

	meta := p
	meta.Credential = ""

	found := false
	for i := range s.state.Profiles {
		if s.state.Profiles[i].ID == p.ID {
			s.state.Profiles[i] = meta
			found = true
			break
		}
	}
	if !found {
		s.state.Profiles = append(s.state.Profiles, meta)
	}

	if err := s.flushLocked(); err != nil {
		return err
	}
	s.notifyLocked()
	return nil
}

// Delete removes the profile with the given id, along with its keyring
// credential. It is a no-op when the id is absent. The active pointer is
// deliberately left untouched; reassignment is a session-level decision
// owned by the switch coordinator.
//
// The keyring entry goes first, before any in-memory mutation, so a
// failed delete leaves the store exactly as it was. The same order as
// SaveOrUpdate: the credential store commits before the metadata moves.
func (s *ProfileStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := -1
	for i := range s.state.Profiles {
		if s.state.Profiles[i].ID == id {
			index = i
			break
		}
	}
	if index < 0 {
		return nil
	}

	if err := s.keyring.Delete(id); err != nil && !errors.Is(err, keyring.ErrCredentialNotFound) {
		return fmt.Errorf("failed to delete credential: %w", err)
	}

	s.state.Profiles = append(s.state.Profiles[:index], s.state.Profiles[index+1:]...)

	if err := s.flushLocked(); err != nil {
		return err
	}
	s.notifyLocked()
	return nil
}

func (s *ProfileStore) getLocked(id string) (*types.Profile, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: no active profile set", ErrProfileNotFound)
	}
	for i := range s.state.Profiles {
		if s.state.Profiles[i].ID == id {
			p := s.state.Profiles[i]
			p.Credential = s.credential(p.ID)
			return &p, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrProfileNotFound, id)
}

// credential resolves a profile's credential from the keyring. A missing
// or unreadable entry is treated as "no credential", not an error.
func (s *ProfileStore) credential(id string) string {
	cred, err := s.keyring.Get(id)
	if err != nil {
		return ""
	}
	return cred
}

// flushLocked writes the state file atomically: a temp file in the same
// directory is written, synced, and renamed over the previous state, so a
// crash mid-write never leaves a reader with partial state.
func (s *ProfileStore) flushLocked() error {
	data, err := yaml.Marshal(&s.state)
	if err != nil {
		return fmt.Errorf("failed to marshal profile store: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".profiles-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to create temp state file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write profile store: %w", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to set state file mode: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to sync profile store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp state file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to commit profile store: %w", err)
	}

	return nil
}
