package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/linktine/linktine/internal/types"
)

const defaultTimeout = 30 * time.Second

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpc.Timeout = d
	}
}

// WithTransport sets the underlying round tripper. Pass an Authenticator
// here to get credential injection and 401 invalidation.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.httpc.Transport = rt
	}
}

// Client talks to a Linktine server. All endpoints live under
// {serverURL}/api; authentication is the transport's concern.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// NewClient creates a Client for the given server base URL.
func NewClient(serverURL string, opts ...Option) (*Client, error) {
	if err := types.ValidateServerURL(serverURL); err != nil {
		return nil, err
	}

	c := &Client{
		baseURL: strings.TrimRight(serverURL, "/") + "/api",
		httpc:   &http.Client{Timeout: defaultTimeout},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// do executes a single API round trip. A nil out skips body decoding.
// Failures are classified into the package error taxonomy: transport
// errors wrap ErrUnreachable, non-2xx statuses become RejectedError, and
// undecodable 2xx bodies wrap ErrMalformedResponse.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &RejectedError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(data)),
		}
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	return nil
}
