package api

import (
	"context"
	"net/http"
	"net/url"
)

// CollectionCreate is the payload for creating a collection.
type CollectionCreate struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color"`
	ParentID    string `json:"parentId,omitempty"`
}

// CollectionUpdate is the payload for updating a collection. The server
// treats the literal string "null" as "move to top level".
type CollectionUpdate struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Color       *string `json:"color,omitempty"`
	ParentID    *string `json:"parentId,omitempty"`
}

// collectionsResponse wraps the collections list payload.
type collectionsResponse struct {
	Data []Collection `json:"data"`
}

// Collections fetches the collections under parentID. An empty parentID
// returns the top-level collections.
func (c *Client) Collections(ctx context.Context, parentID string) ([]Collection, error) {
	query := url.Values{}
	if parentID != "" {
		query.Set("parentId", parentID)
	}

	var resp collectionsResponse
	if err := c.do(ctx, http.MethodGet, "/v1/collections", query, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// CreateCollection creates a new collection.
func (c *Client) CreateCollection(ctx context.Context, create CollectionCreate) (*Collection, error) {
	var col Collection
	if err := c.do(ctx, http.MethodPost, "/v1/collections", nil, create, &col); err != nil {
		return nil, err
	}
	return &col, nil
}

// MoveCollection reparents a collection. An empty parentID moves it to
// the top level.
func (c *Client) MoveCollection(ctx context.Context, id, parentID string) error {
	if parentID == "" {
		parentID = "null"
	}
	update := CollectionUpdate{ParentID: &parentID}
	return c.do(ctx, http.MethodPatch, "/v1/collections/"+id, nil, update, nil)
}

// DeleteCollection removes a collection.
func (c *Client) DeleteCollection(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/v1/collections/"+id, nil, nil, nil)
}
