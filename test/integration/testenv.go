//go:build integration

// Package integration provides integration tests for Linktine.
package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/linktine/linktine/internal/api"
	"github.com/linktine/linktine/internal/keyring"
	"github.com/linktine/linktine/internal/session"
	"github.com/linktine/linktine/internal/store"
)

// LinktineServer is an in-process fake of a Linktine server. It serves
// the identity endpoint plus a minimal links API, backed by in-memory
// maps, so session and request flows can run end to end without a real
// deployment.
type LinktineServer struct {
	mu     sync.Mutex
	tokens map[string]api.Identity
	links  map[string]api.Link
	nextID int
	server *httptest.Server
}

// NewLinktineServer starts a fake server. It is shut down automatically
// when the test finishes.
func NewLinktineServer(t *testing.T) *LinktineServer {
	t.Helper()

	s := &LinktineServer{
		tokens: make(map[string]api.Identity),
		links:  make(map[string]api.Link),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/auth/me", s.handleIdentity)
	mux.HandleFunc("GET /api/v1/links", s.handleListLinks)
	mux.HandleFunc("POST /api/v1/links", s.handleCreateLink)
	mux.HandleFunc("PATCH /api/v1/links/{id}", s.handleUpdateLink)
	mux.HandleFunc("DELETE /api/v1/links/{id}", s.handleDeleteLink)
	mux.HandleFunc("GET /api/v1/base/dashboard", s.handleDashboard)

	s.server = httptest.NewServer(mux)
	t.Cleanup(s.server.Close)

	return s
}

// URL returns the server's base URL.
func (s *LinktineServer) URL() string {
	return s.server.URL
}

// AddUser registers (or replaces) the identity a token resolves to.
func (s *LinktineServer) AddUser(token string, identity api.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = identity
}

// RevokeToken makes the server reject a previously valid token.
func (s *LinktineServer) RevokeToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
}

// LinkCount returns the number of stored links.
func (s *LinktineServer) LinkCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.links)
}

// authenticate resolves the Authorization header to a registered user.
func (s *LinktineServer) authenticate(w http.ResponseWriter, r *http.Request) (api.Identity, bool) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Apikey ")
	if !ok || token == "" {
		http.Error(w, "missing credentials", http.StatusUnauthorized)
		return api.Identity{}, false
	}

	s.mu.Lock()
	identity, found := s.tokens[token]
	s.mu.Unlock()
	if !found {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return api.Identity{}, false
	}

	return identity, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *LinktineServer) handleIdentity(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, identity)
}

func (s *LinktineServer) handleListLinks(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	var links []api.Link
	for _, link := range s.links {
		if link.UserID == identity.ID {
			links = append(links, link)
		}
	}
	s.mu.Unlock()

	page := api.Paginated[api.Link]{
		Data:     links,
		Total:    len(links),
		Page:     1,
		PageSize: len(links),
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *LinktineServer) handleCreateLink(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	var create api.LinkCreate
	if err := json.NewDecoder(r.Body).Decode(&create); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.nextID++
	link := api.Link{
		ID:     "l" + strconv.Itoa(s.nextID),
		URL:    create.URL,
		Name:   create.Name,
		UserID: identity.ID,
	}
	s.links[link.ID] = link
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, link)
}

func (s *LinktineServer) handleUpdateLink(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.authenticate(w, r); !ok {
		return
	}

	var update api.LinkUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	link, found := s.links[r.PathValue("id")]
	if !found {
		http.Error(w, "link not found", http.StatusNotFound)
		return
	}

	if update.Name != nil {
		link.Name = *update.Name
	}
	if update.URL != nil {
		link.URL = *update.URL
	}
	if update.Read != nil {
		link.Read = *update.Read
	}
	if update.Archived != nil {
		link.Archived = *update.Archived
	}
	if update.Favorite != nil {
		link.Favorite = *update.Favorite
	}
	s.links[link.ID] = link

	writeJSON(w, http.StatusOK, link)
}

func (s *LinktineServer) handleDeleteLink(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.authenticate(w, r); !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := r.PathValue("id")
	if _, found := s.links[id]; !found {
		http.Error(w, "link not found", http.StatusNotFound)
		return
	}
	delete(s.links, id)

	w.WriteHeader(http.StatusNoContent)
}

func (s *LinktineServer) handleDashboard(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	var dashboard api.Dashboard
	for _, link := range s.links {
		if link.UserID != identity.ID {
			continue
		}
		dashboard.Stats.TotalLinks++
		if link.Read {
			dashboard.Stats.ReadLinks++
		}
		if link.Favorite {
			dashboard.Stats.FavoriteLinks++
		}
		if link.Archived {
			dashboard.Stats.ArchivedLinks++
		}
		dashboard.RecentLinks = append(dashboard.RecentLinks, api.RecentLink{
			ID:    link.ID,
			Title: link.Name,
			URL:   link.URL,
		})
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, dashboard)
}

// TestEnv wires a fake server to a real store, keyring, and coordinator
// in an isolated temporary directory.
type TestEnv struct {
	Server      *LinktineServer
	Store       *store.ProfileStore
	Resolver    *session.Resolver
	Coordinator *session.Coordinator

	statePath  string
	keyringDir string
}

// NewTestEnv creates an isolated test environment. Config, state, and
// keyring paths all live under the test's temp directory.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	tmpDir := t.TempDir()
	configDir := filepath.Join(tmpDir, "config")
	keyringDir := filepath.Join(tmpDir, "keyring")
	if err := os.MkdirAll(keyringDir, 0700); err != nil {
		t.Fatalf("failed to create keyring dir: %v", err)
	}

	t.Setenv("LINKTINE_CONFIG_DIR", configDir)
	t.Setenv(keyring.TestKeyringEnvVar, keyringDir)

	env := &TestEnv{
		Server:     NewLinktineServer(t),
		statePath:  filepath.Join(configDir, "profiles.yaml"),
		keyringDir: keyringDir,
	}
	env.open(t)

	return env
}

// open builds the store, resolver, and coordinator over the environment's
// state file and keyring directory.
func (env *TestEnv) open(t *testing.T) {
	t.Helper()

	st, err := store.New(env.statePath, keyring.DefaultStore())
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}

	gateway := session.GatewayFunc(func(ctx context.Context, serverURL, credential string) (*api.Identity, error) {
		return api.VerifyIdentity(ctx, serverURL, credential, 5*time.Second)
	})

	env.Store = st
	env.Resolver = session.NewResolver(st)
	env.Coordinator = session.NewCoordinator(st, gateway)
}

// Reopen rebuilds the store and coordinator from the files on disk,
// simulating a process restart.
func (env *TestEnv) Reopen(t *testing.T) {
	t.Helper()
	env.open(t)
}

// NextEvent receives the next coordinator event, failing the test after
// a timeout.
func (env *TestEnv) NextEvent(t *testing.T) session.Event {
	t.Helper()
	select {
	case ev := <-env.Coordinator.Events():
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for session event")
		return session.Event{}
	}
}

// ExpectEvent receives the next event and checks its kind.
func (env *TestEnv) ExpectEvent(t *testing.T, kind session.EventKind) session.Event {
	t.Helper()
	ev := env.NextEvent(t)
	if ev.Kind != kind {
		t.Fatalf("event kind = %q, want %q (message: %s)", ev.Kind, kind, ev.Message)
	}
	return ev
}

// DrainEvents discards any pending events.
func (env *TestEnv) DrainEvents() {
	for {
		select {
		case <-env.Coordinator.Events():
		default:
			return
		}
	}
}
