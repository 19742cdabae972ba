package api

// Identity is the canonical user record returned by the identity
// verification endpoint.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// Paginated is a page of results from a list endpoint.
type Paginated[T any] struct {
	Data     []T `json:"data"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

// Link is a saved bookmark.
type Link struct {
	ID           string      `json:"id"`
	URL          string      `json:"url"`
	Name         string      `json:"name,omitempty"`
	Title        string      `json:"title,omitempty"`
	Description  string      `json:"description,omitempty"`
	Thumbnail    string      `json:"thumbnail,omitempty"`
	Domain       string      `json:"domain,omitempty"`
	Read         bool        `json:"read"`
	Archived     bool        `json:"archived"`
	Favorite     bool        `json:"favorite"`
	Note         string      `json:"note,omitempty"`
	UserID       string      `json:"userId"`
	CollectionID string      `json:"collectionId,omitempty"`
	CreatedAt    string      `json:"createdAt"`
	UpdatedAt    string      `json:"updatedAt"`
	Tags         []LinkTag   `json:"tags,omitempty"`
	Collection   *Collection `json:"collection,omitempty"`
}

// LinkTag is the association between a link and a tag.
type LinkTag struct {
	LinkID string `json:"linkId"`
	TagID  string `json:"tagId"`
	Tag    Tag    `json:"tag"`
}

// Tag is a label that can be attached to links.
type Tag struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	CreatedAt string `json:"createdAt"`
}

// Collection is a folder-like grouping of links.
type Collection struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color"`
	UserID      string `json:"userId"`
	ParentID    string `json:"parentId,omitempty"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

// Stats holds the dashboard counters.
type Stats struct {
	TotalLinks        int `json:"totalLinks"`
	ReadLinks         int `json:"readLinks"`
	FavoriteLinks     int `json:"favoriteLinks"`
	ArchivedLinks     int `json:"archivedLinks"`
	TotalCollections  int `json:"totalCollections"`
	TotalTags         int `json:"totalTags"`
	SharedLinks       int `json:"sharedLinks"`
	SharedCollections int `json:"sharedCollections"`
}

// RecentLink is a dashboard entry for a recently added link.
type RecentLink struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	CreatedAt string `json:"createdAt"`
}

// RecentCollection is a dashboard entry for a recently used collection.
type RecentCollection struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// TopTag is a dashboard entry for a frequently used tag.
type TopTag struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Count int    `json:"count"`
}

// Dashboard is the home screen payload.
type Dashboard struct {
	Stats             Stats              `json:"stats"`
	RecentLinks       []RecentLink       `json:"recentLinks"`
	RecentCollections []RecentCollection `json:"recentCollections"`
	TopTags           []TopTag           `json:"topTags"`
}
