package api

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/linktine/linktine/internal/types"
)

// excludedPaths are endpoint suffixes that never get credential
// injection: they either establish the credential or don't need one.
var excludedPaths = []string{
	identityPath,
}

// Authenticator is an http.RoundTripper that attaches the active
// session's credential to every outgoing request.
//
// The credential is a local cache, refreshed from the session stream via
// Bind or set directly with SetCredential; the request path never blocks
// on store I/O. A 401 response clears the cache and nothing else: no
// retry, no re-login, and the persisted credential is untouched until an
// explicit re-login. Forcing the user back to a login flow is the
// caller's responsibility.
type Authenticator struct {
	mu         sync.RWMutex
	credential string
	base       http.RoundTripper
}

// NewAuthenticator wraps base (http.DefaultTransport when nil).
func NewAuthenticator(base http.RoundTripper) *Authenticator {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Authenticator{base: base}
}

// SetCredential replaces the cached credential.
func (a *Authenticator) SetCredential(credential string) {
	a.mu.Lock()
	a.credential = credential
	a.mu.Unlock()
}

// Credential returns the currently cached credential.
func (a *Authenticator) Credential() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.credential
}

// Invalidate clears the cached credential.
func (a *Authenticator) Invalidate() {
	a.SetCredential("")
}

// Bind refreshes the cached credential from a session stream until ctx
// ends. A nil session clears the cache.
func (a *Authenticator) Bind(ctx context.Context, sessions <-chan *types.Profile) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case p, ok := <-sessions:
				if !ok {
					return
				}
				if p == nil {
					a.Invalidate()
				} else {
					a.SetCredential(p.Credential)
				}
			}
		}
	}()
}

// RoundTrip implements http.RoundTripper.
func (a *Authenticator) RoundTrip(req *http.Request) (*http.Response, error) {
	if excluded(req.URL.Path) {
		return a.base.RoundTrip(req)
	}

	cred := a.Credential()
	if cred != "" {
		// Clone before mutating; RoundTrippers must not modify the
		// caller's request.
		req = req.Clone(req.Context())
		req.Header.Set("Authorization", AuthorizationHeader(cred))
	}

	resp, err := a.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		a.Invalidate()
	}

	return resp, nil
}

func excluded(path string) bool {
	for _, suffix := range excludedPaths {
		if strings.HasSuffix(path, suffix) {
			return true
		}
	}
	return false
}
