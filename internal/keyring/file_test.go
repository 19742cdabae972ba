package keyring

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStore(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewFileStore(tmpDir)
	if err != nil {
		t.Fatalf("NewFileStore() failed: %v", err)
	}

	// Test IsAvailable
	if availErr := store.IsAvailable(); availErr != nil {
		t.Errorf("IsAvailable() should not error: %v", availErr)
	}

	// Test Set and Get
	if setErr := store.Set("profile-1", "test-credential"); setErr != nil {
		t.Errorf("Set() failed: %v", setErr)
	}

	credential, err := store.Get("profile-1")
	if err != nil {
		t.Errorf("Get() failed: %v", err)
	}
	if credential != "test-credential" {
		t.Errorf("Get() = %s, want test-credential", credential)
	}

	// Test Get non-existent
	_, err = store.Get("non-existent")
	if !errors.Is(err, ErrCredentialNotFound) {
		t.Errorf("Get(non-existent) should return ErrCredentialNotFound, got %v", err)
	}

	// Test Delete
	if delErr := store.Delete("profile-1"); delErr != nil {
		t.Errorf("Delete() failed: %v", delErr)
	}

	_, err = store.Get("profile-1")
	if !errors.Is(err, ErrCredentialNotFound) {
		t.Errorf("Get() after Delete() should return ErrCredentialNotFound, got %v", err)
	}

	// Test Delete non-existent (should not error)
	if err := store.Delete("non-existent"); err != nil {
		t.Errorf("Delete(non-existent) should not error: %v", err)
	}
}

func TestFileStoreEmptyDir(t *testing.T) {
	_, err := NewFileStore("")
	if err == nil {
		t.Error("NewFileStore('') should fail")
	}
}

func TestFileStoreEmptyProfileID(t *testing.T) {
	tmpDir := t.TempDir()
	store, _ := NewFileStore(tmpDir)

	if err := store.Set("", "credential"); err == nil {
		t.Error("Set('', credential) should fail")
	}

	if _, err := store.Get(""); err == nil {
		t.Error("Get('') should fail")
	}
}

func TestFileStorePersistence(t *testing.T) {
	tmpDir := t.TempDir()

	// Create store and set credential
	store1, _ := NewFileStore(tmpDir)
	if err := store1.Set("persist-profile", "persist-credential"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	// Create new store pointing to same dir
	store2, _ := NewFileStore(tmpDir)
	credential, err := store2.Get("persist-profile")
	if err != nil {
		t.Fatalf("Get() from second store failed: %v", err)
	}
	if credential != "persist-credential" {
		t.Errorf("Credential not persisted: got %s, want persist-credential", credential)
	}
}

func TestFileStorePermissions(t *testing.T) {
	tmpDir := t.TempDir()
	store, _ := NewFileStore(tmpDir)

	if err := store.Set("profile-1", "secret"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	info, err := os.Stat(filepath.Join(tmpDir, "profile-1"))
	if err != nil {
		t.Fatalf("Stat() failed: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("credential file mode = %o, want 0600", perm)
	}
}

func TestFileStoreIsAvailableNotDir(t *testing.T) {
	tmpDir := t.TempDir()
	filePath := filepath.Join(tmpDir, "file")
	os.WriteFile(filePath, []byte("not a dir"), 0600)

	store := &FileStore{dir: filePath}
	if err := store.IsAvailable(); !errors.Is(err, ErrKeyringUnavailable) {
		t.Errorf("IsAvailable() should return ErrKeyringUnavailable for non-directory, got %v", err)
	}
}

func TestDefaultStoreWithTestDir(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv(TestKeyringEnvVar, tmpDir)

	store := DefaultStore()
	if _, ok := store.(*FileStore); !ok {
		t.Fatalf("DefaultStore() with %s set should return *FileStore, got %T", TestKeyringEnvVar, store)
	}
}

func TestServiceName(t *testing.T) {
	got := serviceName("u1")
	want := "Linktine - u1"
	if got != want {
		t.Errorf("serviceName(u1) = %q, want %q", got, want)
	}
}
