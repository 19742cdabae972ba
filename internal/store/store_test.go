package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/linktine/linktine/internal/keyring"
	"github.com/linktine/linktine/internal/types"
)

func newTestStore(t *testing.T) (*ProfileStore, *keyring.MockStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	kr := keyring.NewMockStore()
	s, err := New(path, kr)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return s, kr, path
}

func testProfile(id string) types.Profile {
	return types.Profile{
		ID:         id,
		Name:       "User " + id,
		Email:      id + "@example.com",
		ServerURL:  "https://linktine.example.com",
		Credential: "token-" + id,
	}
}

func TestNewEmptyStore(t *testing.T) {
	s, _, _ := newTestStore(t)

	if got := s.All(); len(got) != 0 {
		t.Errorf("All() on empty store = %d profiles, want 0", len(got))
	}
	if got := s.ActiveID(); got != "" {
		t.Errorf("ActiveID() on empty store = %q, want empty", got)
	}
	if _, err := s.Active(); !errors.Is(err, ErrProfileNotFound) {
		t.Errorf("Active() on empty store should return ErrProfileNotFound, got %v", err)
	}
	if s.ActiveOrNil() != nil {
		t.Error("ActiveOrNil() on empty store should be nil")
	}
}

func TestNewMissingArgs(t *testing.T) {
	if _, err := New("", keyring.NewMockStore()); err == nil {
		t.Error("New('') should fail")
	}
	if _, err := New(filepath.Join(t.TempDir(), "p.yaml"), nil); err == nil {
		t.Error("New(nil keyring) should fail")
	}
}

func TestSaveOrUpdateInsert(t *testing.T) {
	s, kr, _ := newTestStore(t)

	p := testProfile("u1")
	if err := s.SaveOrUpdate(p); err != nil {
		t.Fatalf("SaveOrUpdate() failed: %v", err)
	}

	got, err := s.Get("u1")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got.Name != "User u1" || got.Email != "u1@example.com" {
		t.Errorf("Get() = %+v, metadata mismatch", got)
	}
	if got.Credential != "token-u1" {
		t.Errorf("Get() credential = %q, want token-u1", got.Credential)
	}

	// Credential goes to the keyring, not the state file
	if cred, err := kr.Get("u1"); err != nil || cred != "token-u1" {
		t.Errorf("keyring.Get(u1) = %q, %v; want token-u1", cred, err)
	}
}

func TestSaveOrUpdateUpsert(t *testing.T) {
	s, _, _ := newTestStore(t)

	if err := s.SaveOrUpdate(testProfile("u1")); err != nil {
		t.Fatalf("SaveOrUpdate() failed: %v", err)
	}

	// Same id again with changed metadata replaces, never duplicates
	updated := testProfile("u1")
	updated.Name = "Renamed"
	updated.Credential = "token-rotated"
	if err := s.SaveOrUpdate(updated); err != nil {
		t.Fatalf("SaveOrUpdate() update failed: %v", err)
	}

	all := s.All()
	if len(all) != 1 {
		t.Fatalf("All() = %d profiles after upsert, want 1", len(all))
	}
	if all[0].Name != "Renamed" {
		t.Errorf("profile name = %q, want Renamed", all[0].Name)
	}
	if all[0].Credential != "token-rotated" {
		t.Errorf("credential = %q, want token-rotated", all[0].Credential)
	}
}

func TestSaveOrUpdateInvalid(t *testing.T) {
	s, _, _ := newTestStore(t)

	if err := s.SaveOrUpdate(types.Profile{ServerURL: "https://x.example.com"}); err == nil {
		t.Error("SaveOrUpdate() without id should fail")
	}
	if err := s.SaveOrUpdate(types.Profile{ID: "u1"}); err == nil {
		t.Error("SaveOrUpdate() without server URL should fail")
	}
	if len(s.All()) != 0 {
		t.Error("invalid profile must not be stored")
	}
}

func TestSaveOrUpdateKeyringFailure(t *testing.T) {
	s, kr, path := newTestStore(t)
	kr.SetFailing(true)

	err := s.SaveOrUpdate(testProfile("u1"))
	if err == nil {
		t.Fatal("SaveOrUpdate() with failing keyring should fail")
	}

	// Nothing committed: no metadata, no state file entry
	if len(s.All()) != 0 {
		t.Error("profile must not be stored when the credential write fails")
	}
	if data, err := os.ReadFile(path); err == nil && strings.Contains(string(data), "u1") {
		t.Error("state file must not mention the profile after a failed save")
	}
}

func TestCredentialNeverOnDisk(t *testing.T) {
	s, _, path := newTestStore(t)

	if err := s.SaveOrUpdate(testProfile("u1")); err != nil {
		t.Fatalf("SaveOrUpdate() failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() failed: %v", err)
	}
	if strings.Contains(string(data), "token-u1") {
		t.Error("state file contains the raw credential")
	}
}

func TestSetActiveAndResolve(t *testing.T) {
	s, _, _ := newTestStore(t)
	_ = s.SaveOrUpdate(testProfile("u1"))
	_ = s.SaveOrUpdate(testProfile("u2"))

	if err := s.SetActive("u2"); err != nil {
		t.Fatalf("SetActive() failed: %v", err)
	}

	active, err := s.Active()
	if err != nil {
		t.Fatalf("Active() failed: %v", err)
	}
	if active.ID != "u2" {
		t.Errorf("Active().ID = %q, want u2", active.ID)
	}
	if active.Credential != "token-u2" {
		t.Errorf("Active().Credential = %q, want token-u2", active.Credential)
	}
}

func TestSetActiveDangling(t *testing.T) {
	s, _, _ := newTestStore(t)

	// The pointer is persisted even without a matching profile
	if err := s.SetActive("ghost"); err != nil {
		t.Fatalf("SetActive(ghost) failed: %v", err)
	}
	if got := s.ActiveID(); got != "ghost" {
		t.Errorf("ActiveID() = %q, want ghost", got)
	}

	// But it does not resolve
	if _, err := s.Active(); !errors.Is(err, ErrProfileNotFound) {
		t.Errorf("Active() with dangling pointer should return ErrProfileNotFound, got %v", err)
	}
	if s.ActiveOrNil() != nil {
		t.Error("ActiveOrNil() with dangling pointer should be nil")
	}
}

func TestSetActiveClear(t *testing.T) {
	s, _, _ := newTestStore(t)
	_ = s.SaveOrUpdate(testProfile("u1"))
	_ = s.SetActive("u1")

	if err := s.SetActive(""); err != nil {
		t.Fatalf("SetActive('') failed: %v", err)
	}
	if got := s.ActiveID(); got != "" {
		t.Errorf("ActiveID() = %q, want empty", got)
	}
}

func TestGetMissing(t *testing.T) {
	s, _, _ := newTestStore(t)

	if _, err := s.Get("nope"); !errors.Is(err, ErrProfileNotFound) {
		t.Errorf("Get(nope) should return ErrProfileNotFound, got %v", err)
	}
	if _, err := s.Get(""); !errors.Is(err, ErrProfileNotFound) {
		t.Errorf("Get('') should return ErrProfileNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	s, kr, _ := newTestStore(t)
	_ = s.SaveOrUpdate(testProfile("u1"))
	_ = s.SaveOrUpdate(testProfile("u2"))
	_ = s.SetActive("u1")

	if err := s.Delete("u1"); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}

	if _, err := s.Get("u1"); !errors.Is(err, ErrProfileNotFound) {
		t.Errorf("Get() after Delete() should return ErrProfileNotFound, got %v", err)
	}
	if _, err := kr.Get("u1"); !errors.Is(err, keyring.ErrCredentialNotFound) {
		t.Errorf("keyring entry should be removed, got %v", err)
	}

	// The other profile is untouched
	if _, err := s.Get("u2"); err != nil {
		t.Errorf("Get(u2) after deleting u1 failed: %v", err)
	}

	// The active pointer is not reassigned by the store layer
	if got := s.ActiveID(); got != "u1" {
		t.Errorf("ActiveID() after deleting active = %q, want u1 (dangling)", got)
	}
}

func TestDeleteAbsent(t *testing.T) {
	s, _, _ := newTestStore(t)

	if err := s.Delete("nope"); err != nil {
		t.Errorf("Delete(absent) should be a no-op, got %v", err)
	}
}

func TestDeleteKeyringFailure(t *testing.T) {
	s, kr, path := newTestStore(t)
	_ = s.SaveOrUpdate(testProfile("u1"))
	kr.SetFailing(true)

	if err := s.Delete("u1"); err == nil {
		t.Fatal("Delete() with failing keyring should fail")
	}

	// Nothing removed: memory and disk still agree on the profile
	if len(s.All()) != 1 {
		t.Error("profile must stay in the store when the credential delete fails")
	}
	if _, err := s.Get("u1"); err != nil {
		t.Errorf("Get(u1) after failed Delete() = %v, want the profile intact", err)
	}
	if data, err := os.ReadFile(path); err != nil || !strings.Contains(string(data), "u1") {
		t.Error("state file must still contain the profile after a failed delete")
	}

	// The delete goes through once the keyring recovers
	kr.SetFailing(false)
	if err := s.Delete("u1"); err != nil {
		t.Fatalf("Delete() after keyring recovery failed: %v", err)
	}
	if _, err := s.Get("u1"); !errors.Is(err, ErrProfileNotFound) {
		t.Errorf("Get(u1) after successful Delete() = %v, want ErrProfileNotFound", err)
	}
}

func TestAllReturnsCopy(t *testing.T) {
	s, _, _ := newTestStore(t)
	_ = s.SaveOrUpdate(testProfile("u1"))

	all := s.All()
	all[0].Name = "mutated"

	got, _ := s.Get("u1")
	if got.Name == "mutated" {
		t.Error("All() must return a copy, not internal state")
	}
}

func TestPersistenceAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	kr := keyring.NewMockStore()

	s1, err := New(path, kr)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	_ = s1.SaveOrUpdate(testProfile("u1"))
	_ = s1.SaveOrUpdate(testProfile("u2"))
	_ = s1.SetActive("u2")

	// Reopen from disk with the same keyring
	s2, err := New(path, kr)
	if err != nil {
		t.Fatalf("New() on existing file failed: %v", err)
	}

	if got := s2.ActiveID(); got != "u2" {
		t.Errorf("ActiveID() after reopen = %q, want u2", got)
	}
	all := s2.All()
	if len(all) != 2 {
		t.Fatalf("All() after reopen = %d profiles, want 2", len(all))
	}
	active, err := s2.Active()
	if err != nil {
		t.Fatalf("Active() after reopen failed: %v", err)
	}
	if active.Credential != "token-u2" {
		t.Errorf("credential after reopen = %q, want token-u2", active.Credential)
	}
}

func TestStateFilePermissions(t *testing.T) {
	s, _, path := newTestStore(t)
	_ = s.SaveOrUpdate(testProfile("u1"))

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() failed: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("state file mode = %o, want 0600", perm)
	}
}

func TestCorruptStateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	if err := os.WriteFile(path, []byte("{not yaml"), 0600); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	if _, err := New(path, keyring.NewMockStore()); err == nil {
		t.Error("New() should fail on a corrupt state file")
	}
}

func TestMissingCredentialResolvesEmpty(t *testing.T) {
	s, kr, _ := newTestStore(t)
	_ = s.SaveOrUpdate(testProfile("u1"))

	// Simulate a keyring wiped out of band
	_ = kr.Delete("u1")

	got, err := s.Get("u1")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got.Credential != "" {
		t.Errorf("credential = %q, want empty when keyring entry is gone", got.Credential)
	}
}
