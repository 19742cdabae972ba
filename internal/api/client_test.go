package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(srv.URL)
	if err != nil {
		t.Fatalf("NewClient() failed: %v", err)
	}
	return client, srv
}

func TestNewClientInvalidURL(t *testing.T) {
	if _, err := NewClient("not-a-url"); err == nil {
		t.Error("NewClient() should reject an invalid URL")
	}
	if _, err := NewClient(""); err == nil {
		t.Error("NewClient() should reject an empty URL")
	}
}

func TestClientErrorClassification(t *testing.T) {
	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()

		client, err := NewClient(srv.URL)
		if err != nil {
			t.Fatalf("NewClient() failed: %v", err)
		}

		_, err = client.Links(context.Background(), LinkFilter{})
		if !errors.Is(err, ErrUnreachable) {
			t.Errorf("error = %v, want ErrUnreachable", err)
		}
	})

	t.Run("rejected", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		})

		_, err := client.Links(context.Background(), LinkFilter{})
		var rejected *RejectedError
		if !errors.As(err, &rejected) {
			t.Fatalf("error = %v, want *RejectedError", err)
		}
		if rejected.StatusCode != http.StatusInternalServerError || rejected.Body != "boom" {
			t.Errorf("rejected = %+v, want 500/boom", rejected)
		}
	})

	t.Run("malformed", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		})

		_, err := client.Links(context.Background(), LinkFilter{})
		if !errors.Is(err, ErrMalformedResponse) {
			t.Errorf("error = %v, want ErrMalformedResponse", err)
		}
	})
}

func TestLinksQuery(t *testing.T) {
	var gotPath, gotQuery string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		json.NewEncoder(w).Encode(Paginated[Link]{
			Data:  []Link{{ID: "l1", URL: "https://go.dev"}},
			Total: 1, Page: 2, PageSize: 10,
		})
	})

	read := true
	page, err := client.Links(context.Background(), LinkFilter{
		Page:  2,
		Limit: 10,
		Query: "go",
		Tag:   "dev",
		Read:  &read,
	})
	if err != nil {
		t.Fatalf("Links() failed: %v", err)
	}

	if gotPath != "/api/v1/links" {
		t.Errorf("path = %q, want /api/v1/links", gotPath)
	}
	for _, want := range []string{"page=2", "limit=10", "query=go", "tag=dev", "read=true"} {
		if !containsParam(gotQuery, want) {
			t.Errorf("query %q missing %q", gotQuery, want)
		}
	}

	if page.Total != 1 || len(page.Data) != 1 || page.Data[0].ID != "l1" {
		t.Errorf("page = %+v, decode mismatch", page)
	}
}

func containsParam(query, param string) bool {
	for _, part := range strings.Split(query, "&") {
		if part == param {
			return true
		}
	}
	return false
}

func TestCreateLink(t *testing.T) {
	var gotMethod, gotContentType string
	var gotBody map[string]any
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotContentType = r.Header.Get("Content-Type")
		data, _ := io.ReadAll(r.Body)
		json.Unmarshal(data, &gotBody)
		json.NewEncoder(w).Encode(Link{ID: "l1", URL: "https://go.dev"})
	})

	link, err := client.CreateLink(context.Background(), LinkCreate{
		URL:  "https://go.dev",
		Name: "Go",
		Tags: []string{"dev"},
	})
	if err != nil {
		t.Fatalf("CreateLink() failed: %v", err)
	}

	if gotMethod != http.MethodPost {
		t.Errorf("method = %q, want POST", gotMethod)
	}
	if gotContentType != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", gotContentType)
	}
	if gotBody["url"] != "https://go.dev" || gotBody["name"] != "Go" {
		t.Errorf("body = %v, field mismatch", gotBody)
	}
	if link.ID != "l1" {
		t.Errorf("link.ID = %q, want l1", link.ID)
	}
}

func TestUpdateLinkPartial(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody map[string]any
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		data, _ := io.ReadAll(r.Body)
		json.Unmarshal(data, &gotBody)
		json.NewEncoder(w).Encode(Link{ID: "l1"})
	})

	read := true
	if _, err := client.UpdateLink(context.Background(), "l1", LinkUpdate{Read: &read}); err != nil {
		t.Fatalf("UpdateLink() failed: %v", err)
	}

	if gotMethod != http.MethodPatch {
		t.Errorf("method = %q, want PATCH", gotMethod)
	}
	if gotPath != "/api/v1/links/l1" {
		t.Errorf("path = %q, want /api/v1/links/l1", gotPath)
	}

	// Only the set field is sent
	if _, ok := gotBody["read"]; !ok {
		t.Error("body should contain 'read'")
	}
	if _, ok := gotBody["name"]; ok {
		t.Error("unset fields must not be sent")
	}
}

func TestDeleteLink(t *testing.T) {
	var gotMethod, gotPath string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	})

	if err := client.DeleteLink(context.Background(), "l1"); err != nil {
		t.Fatalf("DeleteLink() failed: %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/api/v1/links/l1" {
		t.Errorf("request = %s %s, want DELETE /api/v1/links/l1", gotMethod, gotPath)
	}
}

func TestCollections(t *testing.T) {
	var gotQuery string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"data":[{"id":"c1","name":"Work"}]}`))
	})

	cols, err := client.Collections(context.Background(), "parent-1")
	if err != nil {
		t.Fatalf("Collections() failed: %v", err)
	}
	if gotQuery != "parentId=parent-1" {
		t.Errorf("query = %q, want parentId=parent-1", gotQuery)
	}
	if len(cols) != 1 || cols[0].Name != "Work" {
		t.Errorf("collections = %+v, decode mismatch", cols)
	}

	// Top level: no query at all
	if _, err := client.Collections(context.Background(), ""); err != nil {
		t.Fatalf("Collections('') failed: %v", err)
	}
	if gotQuery != "" {
		t.Errorf("query = %q, want empty for top level", gotQuery)
	}
}

func TestMoveCollectionTopLevel(t *testing.T) {
	var gotBody map[string]any
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		json.Unmarshal(data, &gotBody)
		w.Write([]byte(`{}`))
	})

	if err := client.MoveCollection(context.Background(), "c1", ""); err != nil {
		t.Fatalf("MoveCollection() failed: %v", err)
	}

	// The server expects the literal string "null" for a top-level move
	if gotBody["parentId"] != "null" {
		t.Errorf("parentId = %v, want the string 'null'", gotBody["parentId"])
	}
}

func TestTags(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet:
			w.Write([]byte(`[{"id":"t1","name":"go","color":"#fff"}]`))
		case r.Method == http.MethodPut:
			if r.URL.Path != "/api/v1/tags/t1/links" {
				t.Errorf("path = %q, want /api/v1/tags/t1/links", r.URL.Path)
			}
			w.Write([]byte(`{}`))
		default:
			w.Write([]byte(`{"id":"t1","name":"go"}`))
		}
	})

	tags, err := client.Tags(context.Background())
	if err != nil {
		t.Fatalf("Tags() failed: %v", err)
	}
	if len(tags) != 1 || tags[0].Name != "go" {
		t.Errorf("tags = %+v, decode mismatch", tags)
	}

	if err := client.UpdateTagLinks(context.Background(), "t1", []string{"l1", "l2"}); err != nil {
		t.Fatalf("UpdateTagLinks() failed: %v", err)
	}
}

func TestDashboard(t *testing.T) {
	var gotPath string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(Dashboard{
			Stats:       Stats{TotalLinks: 42, TotalTags: 7},
			RecentLinks: []RecentLink{{ID: "l1", Title: "Go"}},
		})
	})

	dash, err := client.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("Dashboard() failed: %v", err)
	}
	if gotPath != "/api/v1/base/dashboard" {
		t.Errorf("path = %q, want /api/v1/base/dashboard", gotPath)
	}
	if dash.Stats.TotalLinks != 42 || len(dash.RecentLinks) != 1 {
		t.Errorf("dashboard = %+v, decode mismatch", dash)
	}
}

func TestRejectedErrorMessage(t *testing.T) {
	withBody := &RejectedError{StatusCode: 404, Body: "not found"}
	if withBody.Error() != "server rejected request (status 404): not found" {
		t.Errorf("Error() = %q", withBody.Error())
	}

	noBody := &RejectedError{StatusCode: 500}
	if noBody.Error() != "server rejected request (status 500)" {
		t.Errorf("Error() = %q", noBody.Error())
	}
}
