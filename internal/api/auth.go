package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/linktine/linktine/internal/types"
)

// authScheme is the authorization scheme the server expects.
const authScheme = "Apikey"

// identityPath is the identity verification endpoint, relative to /api.
const identityPath = "/v1/auth/me"

// AuthorizationHeader formats a credential for the Authorization header.
func AuthorizationHeader(credential string) string {
	return authScheme + " " + credential
}

// VerifyIdentity checks a (server URL, credential) pair against the
// server's identity endpoint and returns the canonical user record.
//
// The credential is attached explicitly: this is the one call that must
// work before any session exists, so it bypasses the Authenticator's
// cached-credential path entirely. Both fresh logins and startup
// revalidation of a saved credential funnel through here.
func VerifyIdentity(ctx context.Context, serverURL, credential string, timeout time.Duration) (*Identity, error) {
	if err := types.ValidateServerURL(serverURL); err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	endpoint := strings.TrimRight(serverURL, "/") + "/api" + identityPath

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", AuthorizationHeader(credential))
	req.Header.Set("Accept", "application/json")

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &RejectedError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(data)),
		}
	}

	var identity Identity
	if err := json.Unmarshal(data, &identity); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if identity.ID == "" {
		return nil, fmt.Errorf("%w: identity response missing user id", ErrMalformedResponse)
	}

	return &identity, nil
}
