package api

import (
	"context"
	"net/http"
)

// TagCreate is the payload for creating or renaming a tag.
type TagCreate struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// TagLinksUpdate replaces the set of links a tag is attached to.
type TagLinksUpdate struct {
	LinkIDs []string `json:"linkIds"`
}

// Tags fetches all tags.
func (c *Client) Tags(ctx context.Context) ([]Tag, error) {
	var tags []Tag
	if err := c.do(ctx, http.MethodGet, "/v1/tags", nil, nil, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// CreateTag creates a new tag.
func (c *Client) CreateTag(ctx context.Context, create TagCreate) (*Tag, error) {
	var tag Tag
	if err := c.do(ctx, http.MethodPost, "/v1/tags", nil, create, &tag); err != nil {
		return nil, err
	}
	return &tag, nil
}

// UpdateTag renames or recolors a tag.
func (c *Client) UpdateTag(ctx context.Context, id string, update TagCreate) error {
	return c.do(ctx, http.MethodPatch, "/v1/tags/"+id, nil, update, nil)
}

// DeleteTag removes a tag.
func (c *Client) DeleteTag(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/v1/tags/"+id, nil, nil, nil)
}

// UpdateTagLinks replaces the links associated with a tag.
func (c *Client) UpdateTagLinks(ctx context.Context, id string, linkIDs []string) error {
	return c.do(ctx, http.MethodPut, "/v1/tags/"+id+"/links", nil, TagLinksUpdate{LinkIDs: linkIDs}, nil)
}
