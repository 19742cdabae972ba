package api

import (
	"context"
	"net/http"
)

// Dashboard fetches the home screen payload.
func (c *Client) Dashboard(ctx context.Context) (*Dashboard, error) {
	var dash Dashboard
	if err := c.do(ctx, http.MethodGet, "/v1/base/dashboard", nil, nil, &dash); err != nil {
		return nil, err
	}
	return &dash, nil
}
