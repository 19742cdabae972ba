package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/linktine/linktine/internal/api"
	"github.com/linktine/linktine/internal/store"
	"github.com/linktine/linktine/internal/types"
)

// ErrNoActiveProfile is returned when an operation needs an active
// profile and none is set.
var ErrNoActiveProfile = errors.New("no active profile")

// eventBuffer bounds the outbound event queue. Senders block when the
// consumer falls this far behind, which keeps delivery ordered without
// unbounded memory growth.
const eventBuffer = 32

// Gateway verifies a (server URL, credential) pair against the server's
// identity endpoint.
type Gateway interface {
	VerifyIdentity(ctx context.Context, serverURL, credential string) (*api.Identity, error)
}

// GatewayFunc adapts a function to the Gateway interface.
type GatewayFunc func(ctx context.Context, serverURL, credential string) (*api.Identity, error)

// VerifyIdentity implements Gateway.
func (f GatewayFunc) VerifyIdentity(ctx context.Context, serverURL, credential string) (*api.Identity, error) {
	return f(ctx, serverURL, credential)
}

// Coordinator serializes every operation that mutates which profile is
// logged in. Login, switch, delete, and logout can all be triggered by
// independent callers; a single mutex makes them run one after the
// other, and the store is never observed with a pointer referencing a
// not-yet-saved or deleted profile.
//
// Results are reported as discrete events on an ordered queue in
// addition to the returned error; the coordinator is the boundary where
// lower-layer failures are caught and classified.
type Coordinator struct {
	mu      sync.Mutex
	store   *store.ProfileStore
	gateway Gateway
	events  chan Event
}

// NewCoordinator creates a Coordinator over the given store and gateway.
func NewCoordinator(st *store.ProfileStore, gw Gateway) *Coordinator {
	return &Coordinator{
		store:   st,
		gateway: gw,
		events:  make(chan Event, eventBuffer),
	}
}

// Events returns the outbound event stream. Each event is delivered
// exactly once, in the order its operation committed.
func (c *Coordinator) Events() <-chan Event {
	return c.events
}

func (c *Coordinator) emit(kind EventKind, profileID, message string, err error) {
	c.events <- newEvent(kind, profileID, message, err)
}

// Login verifies the credential against the server, upserts the
// resulting profile, and makes it active. On failure nothing changes.
// Returns the display name of the logged-in user.
func (c *Coordinator) Login(ctx context.Context, serverURL, credential string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	identity, err := c.gateway.VerifyIdentity(ctx, serverURL, credential)
	if err != nil {
		c.emit(EventError, "", "Login failed: "+describe(err), err)
		return "", err
	}

	p := types.Profile{
		ID:         identity.ID,
		Name:       identity.Name,
		Email:      identity.Email,
		Role:       identity.Role,
		ServerURL:  serverURL,
		Credential: credential,
	}

	// Upsert before moving the pointer: the pointer must never reference
	// a profile that is not yet committed.
	if err := c.store.SaveOrUpdate(p); err != nil {
		c.emit(EventError, p.ID, "Login failed: could not save profile", err)
		return "", err
	}
	if err := c.store.SetActive(p.ID); err != nil {
		c.emit(EventError, p.ID, "Login failed: could not activate profile", err)
		return "", err
	}

	c.emit(EventLoggedIn, p.ID, fmt.Sprintf("Welcome, %s!", p.Name), nil)
	return p.Name, nil
}

// SwitchTo makes the given profile active and revalidates its saved
// credential. The switch is applied even when revalidation fails, so the
// store reflects the user's choice; a credential_invalid event is raised
// so the caller can prompt for a re-login.
func (c *Coordinator) SwitchTo(ctx context.Context, profileID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, err := c.store.Get(profileID)
	if err != nil {
		c.emit(EventError, profileID, "Switch failed: unknown profile", err)
		return err
	}

	if err := c.store.SetActive(p.ID); err != nil {
		c.emit(EventError, p.ID, "Switch failed: could not update active profile", err)
		return err
	}
	c.emit(EventSwitched, p.ID, fmt.Sprintf("Switched to %s", p.Name), nil)

	identity, err := c.gateway.VerifyIdentity(ctx, p.ServerURL, p.Credential)
	if err != nil {
		// The switch stands; only the credential is suspect.
		c.emit(EventCredentialInvalid, p.ID, fmt.Sprintf("Saved credential for %s was rejected, please log in again", p.Name), err)
		return nil
	}

	c.refreshLocked(p, identity)
	return nil
}

// ValidateActive revalidates the current active profile's saved
// credential, refreshing the stored identity on success. This is the
// startup path; it is the same verification as Login with the credential
// sourced from the store instead of user input.
func (c *Coordinator) ValidateActive(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.store.ActiveOrNil()
	if p == nil {
		return ErrNoActiveProfile
	}

	identity, err := c.gateway.VerifyIdentity(ctx, p.ServerURL, p.Credential)
	if err != nil {
		c.emit(EventCredentialInvalid, p.ID, fmt.Sprintf("Session for %s is no longer valid", p.Name), err)
		return err
	}

	c.refreshLocked(p, identity)
	c.emit(EventValidated, p.ID, fmt.Sprintf("%s logged in", identity.Name), nil)
	return nil
}

// DeleteProfile removes a profile. When the deleted profile was active,
// the pointer falls back to the first remaining profile; with none left
// it is cleared and a no_profiles_left event tells the caller to force a
// fresh login.
func (c *Coordinator) DeleteProfile(ctx context.Context, profileID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	wasActive := c.store.ActiveID() == profileID

	if err := c.store.Delete(profileID); err != nil {
		c.emit(EventError, profileID, "Delete failed", err)
		return err
	}
	c.emit(EventProfileDeleted, profileID, "Profile removed", nil)

	if !wasActive {
		return nil
	}

	remaining := c.store.All()
	if len(remaining) == 0 {
		if err := c.store.SetActive(""); err != nil {
			c.emit(EventError, "", "Delete failed: could not clear active profile", err)
			return err
		}
		c.emit(EventNoProfiles, "", "No profiles left, log in to continue", nil)
		return nil
	}

	next := remaining[0]
	if err := c.store.SetActive(next.ID); err != nil {
		c.emit(EventError, next.ID, "Delete failed: could not reassign active profile", err)
		return err
	}
	c.emit(EventSwitched, next.ID, fmt.Sprintf("Switched to %s", next.Name), nil)
	return nil
}

// Logout deletes the active profile and clears the pointer. Unlike
// DeleteProfile it never falls back to another saved profile: logging
// out is an explicit intent to return to the login flow.
func (c *Coordinator) Logout(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.store.ActiveOrNil()
	if p == nil {
		return ErrNoActiveProfile
	}

	if err := c.store.Delete(p.ID); err != nil {
		c.emit(EventError, p.ID, "Logout failed", err)
		return err
	}
	if err := c.store.SetActive(""); err != nil {
		c.emit(EventError, p.ID, "Logout failed: could not clear active profile", err)
		return err
	}

	c.emit(EventLoggedOut, p.ID, fmt.Sprintf("Logged out from %s", p.Name), nil)
	return nil
}

// refreshLocked persists the re-verified identity for a profile. A
// failure here is non-fatal: the verification already succeeded and the
// stored copy is only stale, not wrong. Callers hold the mutex.
func (c *Coordinator) refreshLocked(p *types.Profile, identity *api.Identity) {
	refreshed := *p
	refreshed.Name = identity.Name
	refreshed.Email = identity.Email
	refreshed.Role = identity.Role
	if err := c.store.SaveOrUpdate(refreshed); err != nil {
		c.emit(EventError, p.ID, "Could not refresh profile", err)
	}
}

// describe maps a classified API error to a short human-readable cause.
func describe(err error) string {
	var rejected *api.RejectedError
	switch {
	case errors.Is(err, api.ErrUnreachable):
		return "could not reach the server, check your connection"
	case errors.As(err, &rejected):
		if rejected.Body != "" {
			return fmt.Sprintf("server said %q (status %d)", rejected.Body, rejected.StatusCode)
		}
		return fmt.Sprintf("server rejected the request (status %d)", rejected.StatusCode)
	case errors.Is(err, api.ErrMalformedResponse):
		return "the server returned an unexpected response"
	default:
		return err.Error()
	}
}
