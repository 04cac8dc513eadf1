package wordpress

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/84emllc/84em-local-pages-sub000/internal/core"
	"github.com/84emllc/84em-local-pages-sub000/internal/logger"
	"github.com/84emllc/84em-local-pages-sub000/internal/pages"
)

func TestMain(m *testing.M) {
	logger.SetTestMode(true)
	os.Exit(m.Run())
}

// fakeWP is a minimal in-memory wp-json/wp/v2/pages endpoint.
type fakeWP struct {
	nextID int64
	pages  map[int64]wpPage
}

func newFakeWP() *fakeWP {
	return &fakeWP{nextID: 1, pages: make(map[int64]wpPage)}
}

func (f *fakeWP) handler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, _, ok := r.BasicAuth(); !ok {
			t.Error("Expected basic auth on every request")
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if !strings.HasPrefix(r.URL.Path, "/wp-json/wp/v2/pages") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		rest := strings.TrimPrefix(r.URL.Path, "/wp-json/wp/v2/pages")

		switch {
		case r.Method == http.MethodGet:
			var out []wpPage
			slug := r.URL.Query().Get("slug")
			metaValue := r.URL.Query().Get("meta_value")
			parent := r.URL.Query().Get("parent")
			for _, p := range f.pages {
				if slug != "" && p.Slug != slug {
					continue
				}
				if metaValue != "" && p.Meta.StateName != metaValue {
					continue
				}
				if parent != "" && pageID(parent) != p.Parent {
					continue
				}
				out = append(out, p)
			}
			json.NewEncoder(w).Encode(out)

		case r.Method == http.MethodPost && rest == "":
			var payload wpPayload
			json.NewDecoder(r.Body).Decode(&payload)
			p := wpPage{
				ID:      f.nextID,
				Slug:    payload.Slug,
				Parent:  payload.Parent,
				Status:  payload.Status,
				Title:   rendered{Raw: payload.Title},
				Content: rendered{Raw: payload.Content},
				Excerpt: rendered{Raw: payload.Excerpt},
				Meta:    payload.Meta,
			}
			f.nextID++
			f.pages[p.ID] = p
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(p)

		case r.Method == http.MethodPost:
			id := pageID(strings.TrimPrefix(rest, "/"))
			p, ok := f.pages[id]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			var payload wpPayload
			json.NewDecoder(r.Body).Decode(&payload)
			if payload.Slug != "" {
				p.Slug = payload.Slug
			}
			p.Content = rendered{Raw: payload.Content}
			p.Meta = payload.Meta
			f.pages[id] = p
			json.NewEncoder(w).Encode(p)

		case r.Method == http.MethodDelete:
			id := pageID(strings.TrimPrefix(strings.SplitN(rest, "?", 2)[0], "/"))
			if _, ok := f.pages[id]; !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			delete(f.pages, id)
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"deleted":true}`))
		}
	})
}

func pageID(s string) int64 {
	var id int64
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		id = id*10 + int64(r-'0')
	}
	return id
}

func newTestClient(t *testing.T) (*Client, *fakeWP) {
	t.Helper()
	fake := newFakeWP()
	srv := httptest.NewServer(fake.handler(t))
	t.Cleanup(srv.Close)
	return New(srv.URL, "admin", "app pass word", WithHTTPClient(srv.Client())), fake
}

func TestCreateAndFindByIdentity(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	id, err := c.Create(ctx, core.Page{
		Slug:    "iowa",
		Title:   "WordPress Development in Iowa",
		Content: "<!-- wp:paragraph --><p>Body</p><!-- /wp:paragraph -->",
		Meta:    core.PageMeta{StateName: "Iowa"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	p, err := c.FindStatePage(ctx, "Iowa")
	if err != nil {
		t.Fatalf("FindStatePage: %v", err)
	}
	if p.ID != id || p.Slug != "iowa" || p.Status != "publish" {
		t.Errorf("Unexpected page %+v", p)
	}

	if _, err := c.FindCityPage(ctx, "Iowa", "Ames"); !errors.Is(err, pages.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for missing city, got %v", err)
	}
}

func TestUpdatePreservesIdentityMeta(t *testing.T) {
	c, fake := newTestClient(t)
	ctx := context.Background()

	id, _ := c.Create(ctx, core.Page{
		Slug: "california-los-angeles",
		Meta: core.PageMeta{StateName: "California", CityName: "Los Angeles"},
	})

	p, _ := c.FindCityPage(ctx, "California", "Los Angeles")
	p.Content = "updated body"
	if err := c.Update(ctx, *p); err != nil {
		t.Fatalf("Update: %v", err)
	}

	stored := fake.pages[id]
	if stored.Meta.CityName != "Los Angeles" {
		t.Errorf("City meta lost on update: %+v", stored.Meta)
	}
	if stored.Content.Raw != "updated body" {
		t.Errorf("Content not updated: %q", stored.Content.Raw)
	}
}

func TestDeleteCascade(t *testing.T) {
	c, fake := newTestClient(t)
	ctx := context.Background()

	stateID, _ := c.Create(ctx, core.Page{Slug: "texas", Meta: core.PageMeta{StateName: "Texas"}})
	c.Create(ctx, core.Page{Slug: "houston", ParentID: stateID, Meta: core.PageMeta{StateName: "Texas", CityName: "Houston"}})

	if err := c.Delete(ctx, stateID, true); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(fake.pages) != 0 {
		t.Errorf("Expected cascade delete to clear children, %d pages remain", len(fake.pages))
	}
}

func TestFindBySlug(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	c.Create(ctx, core.Page{Slug: "wordpress-development-services-usa", Title: "Index"})
	p, err := c.FindBySlug(ctx, "wordpress-development-services-usa")
	if err != nil {
		t.Fatalf("FindBySlug: %v", err)
	}
	if p.Title != "Index" {
		t.Errorf("Unexpected page %+v", p)
	}
}
