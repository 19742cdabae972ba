package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// LinkFilter controls the links list query.
type LinkFilter struct {
	Page         int
	Limit        int
	Query        string
	Tag          string
	CollectionID string
	Read         *bool
	Archived     *bool
}

// LinkCreate is the payload for creating a link.
type LinkCreate struct {
	URL  string   `json:"url"`
	Name string   `json:"name,omitempty"`
	Tags []string `json:"tags,omitempty"`
}

// LinkUpdate is the payload for updating a link. Nil fields are left
// unchanged by the server.
type LinkUpdate struct {
	Name     *string `json:"name,omitempty"`
	URL      *string `json:"url,omitempty"`
	Read     *bool   `json:"read,omitempty"`
	Archived *bool   `json:"archived,omitempty"`
	Favorite *bool   `json:"favorite,omitempty"`
}

// Links fetches a page of links matching the filter.
func (c *Client) Links(ctx context.Context, f LinkFilter) (*Paginated[Link], error) {
	query := url.Values{}
	if f.Page > 0 {
		query.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		query.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Query != "" {
		query.Set("query", f.Query)
	}
	if f.Tag != "" {
		query.Set("tag", f.Tag)
	}
	if f.CollectionID != "" {
		query.Set("collectionId", f.CollectionID)
	}
	if f.Read != nil {
		query.Set("read", strconv.FormatBool(*f.Read))
	}
	if f.Archived != nil {
		query.Set("archived", strconv.FormatBool(*f.Archived))
	}

	var page Paginated[Link]
	if err := c.do(ctx, http.MethodGet, "/v1/links", query, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// CreateLink saves a new link.
func (c *Client) CreateLink(ctx context.Context, create LinkCreate) (*Link, error) {
	var link Link
	if err := c.do(ctx, http.MethodPost, "/v1/links", nil, create, &link); err != nil {
		return nil, err
	}
	return &link, nil
}

// UpdateLink applies a partial update to a link.
func (c *Client) UpdateLink(ctx context.Context, id string, update LinkUpdate) (*Link, error) {
	var link Link
	if err := c.do(ctx, http.MethodPatch, "/v1/links/"+id, nil, update, &link); err != nil {
		return nil, err
	}
	return &link, nil
}

// DeleteLink removes a link.
func (c *Client) DeleteLink(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/v1/links/"+id, nil, nil, nil)
}
