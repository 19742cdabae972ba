package session

import "github.com/google/uuid"

// EventKind classifies a session event.
type EventKind string

const (
	// EventLoggedIn signals a successful login with a new credential.
	EventLoggedIn EventKind = "logged_in"
	// EventSwitched signals the active profile changed.
	EventSwitched EventKind = "switched"
	// EventValidated signals a saved credential revalidated successfully.
	EventValidated EventKind = "validated"
	// EventProfileDeleted signals a profile was removed.
	EventProfileDeleted EventKind = "profile_deleted"
	// EventLoggedOut signals the active profile was logged out.
	EventLoggedOut EventKind = "logged_out"
	// EventNoProfiles signals the last profile is gone and a fresh login
	// is required.
	EventNoProfiles EventKind = "no_profiles_left"
	// EventCredentialInvalid signals a saved credential was rejected by
	// the server and a re-login is needed.
	EventCredentialInvalid EventKind = "credential_invalid"
	// EventError signals an operation failed and state was left unchanged.
	EventError EventKind = "error"
)

// Event is a discrete, one-shot signal from a coordinator operation.
// Events are delivered in commit order on a bounded queue and are meant
// to be consumed exactly once; they are not replaceable state snapshots.
type Event struct {
	ID        string    `json:"id"`
	Kind      EventKind `json:"kind"`
	ProfileID string    `json:"profileId,omitempty"`
	Message   string    `json:"message"`
	Err       error     `json:"-"`
}

func newEvent(kind EventKind, profileID, message string, err error) Event {
	return Event{
		ID:        uuid.NewString(),
		Kind:      kind,
		ProfileID: profileID,
		Message:   message,
		Err:       err,
	}
}
