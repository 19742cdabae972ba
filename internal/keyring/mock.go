package keyring

import "sync"

// MockStore is an in-memory keyring implementation for testing.
type MockStore struct {
	mu      sync.RWMutex
	data    map[string]string
	failing bool
}

// NewMockStore creates a new mock keyring store.
func NewMockStore() *MockStore {
	return &MockStore{
		data: make(map[string]string),
	}
}

// SetFailing makes all operations fail.
func (m *MockStore) SetFailing(failing bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failing = failing
}

// IsAvailable implements Store.
func (m *MockStore) IsAvailable() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failing {
		return ErrKeyringUnavailable
	}
	return nil
}

// Set implements Store.
func (m *MockStore) Set(profileID, credential string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failing {
		return ErrKeyringUnavailable
	}
	if profileID == "" {
		return ErrCredentialNotFound
	}

	m.data[profileID] = credential
	return nil
}

// Get implements Store.
func (m *MockStore) Get(profileID string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.failing {
		return "", ErrKeyringUnavailable
	}

	credential, ok := m.data[profileID]
	if !ok {
		return "", ErrCredentialNotFound
	}

	return credential, nil
}

// Delete implements Store.
func (m *MockStore) Delete(profileID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failing {
		return ErrKeyringUnavailable
	}

	delete(m.data, profileID)
	return nil
}

// Clear removes all stored credentials.
func (m *MockStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[string]string)
}

// Count returns the number of stored credentials.
func (m *MockStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
