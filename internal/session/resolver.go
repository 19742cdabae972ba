// Package session derives the active authenticated session from the
// profile store and serializes every operation that mutates it.
package session

import (
	"context"

	"github.com/linktine/linktine/internal/store"
	"github.com/linktine/linktine/internal/types"
)

// Resolver translates the store's active-pointer state into a usable
// session. "No active profile" and "dangling pointer" both resolve to
// nil: for most consumers, not being logged in is a normal state.
type Resolver struct {
	store *store.ProfileStore
}

// NewResolver creates a Resolver over the given store.
func NewResolver(st *store.ProfileStore) *Resolver {
	return &Resolver{store: st}
}

// ActiveProfile returns the resolved active profile, or nil when the
// pointer is unset or stale.
func (r *Resolver) ActiveProfile() *types.Profile {
	return r.store.ActiveOrNil()
}

// Changes returns a stream of resolved sessions. It emits the current
// session immediately, then re-emits whenever the store commits a
// mutation of the pointer or the profile list. A nil value means "no
// session". The channel closes when ctx is done.
func (r *Resolver) Changes(ctx context.Context) <-chan *types.Profile {
	ids := r.store.Watch(ctx)
	out := make(chan *types.Profile, 1)

	go func() {
		defer close(out)
		for range ids {
			select {
			case out <- r.store.ActiveOrNil():
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}
