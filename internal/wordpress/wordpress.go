// Package wordpress implements the pages.Store interface over the WordPress
// REST API (wp-json/wp/v2/pages) using application-password basic auth. Page
// identity travels in registered meta fields under the _local_page_* keys.
package wordpress

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/84emllc/84em-local-pages-sub000/internal/core"
	"github.com/84emllc/84em-local-pages-sub000/internal/logger"
	"github.com/84emllc/84em-local-pages-sub000/internal/pages"
)

const perPage = 100

// Client talks to one WordPress site. It satisfies pages.Store.
type Client struct {
	baseURL     string
	user        string
	appPassword string
	httpc       *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient substitutes the underlying HTTP client, used by tests.
func WithHTTPClient(c *http.Client) Option {
	return func(w *Client) { w.httpc = c }
}

// New returns a client rooted at baseURL (the site root, without wp-json).
func New(baseURL, user, appPassword string, opts ...Option) *Client {
	c := &Client{
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		user:        user,
		appPassword: appPassword,
		httpc:       &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// wpPage mirrors the REST representation of a page with the raw edit context.
type wpPage struct {
	ID       int64    `json:"id"`
	Slug     string   `json:"slug"`
	Parent   int64    `json:"parent"`
	Status   string   `json:"status"`
	Modified string   `json:"modified_gmt"`
	Title    rendered `json:"title"`
	Content  rendered `json:"content"`
	Excerpt  rendered `json:"excerpt"`
	Meta     wpMeta   `json:"meta"`
}

type rendered struct {
	Raw      string `json:"raw"`
	Rendered string `json:"rendered"`
}

func (r rendered) value() string {
	if r.Raw != "" {
		return r.Raw
	}
	return r.Rendered
}

type wpMeta struct {
	StateName      string `json:"_local_page_state"`
	CityName       string `json:"_local_page_city"`
	Schema         string `json:"_local_page_schema"`
	SEOTitle       string `json:"_local_page_seo_title"`
	SEODescription string `json:"_local_page_seo_description"`
}

// wpPayload is the write shape: title/content/excerpt are plain strings.
type wpPayload struct {
	Slug    string `json:"slug,omitempty"`
	Parent  int64  `json:"parent"`
	Status  string `json:"status,omitempty"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Excerpt string `json:"excerpt,omitempty"`
	Meta    wpMeta `json:"meta"`
}

func (p wpPage) toCore() core.Page {
	modified, _ := time.Parse("2006-01-02T15:04:05", p.Modified)
	return core.Page{
		ID:       p.ID,
		Slug:     p.Slug,
		ParentID: p.Parent,
		Title:    p.Title.value(),
		Content:  p.Content.value(),
		Excerpt:  p.Excerpt.value(),
		Status:   p.Status,
		Meta: core.PageMeta{
			StateName:      p.Meta.StateName,
			CityName:       p.Meta.CityName,
			Schema:         p.Meta.Schema,
			SEOTitle:       p.Meta.SEOTitle,
			SEODescription: p.Meta.SEODescription,
		},
		ModifiedAt: modified,
	}
}

func toPayload(p core.Page) wpPayload {
	return wpPayload{
		Slug:    p.Slug,
		Parent:  p.ParentID,
		Status:  p.Status,
		Title:   p.Title,
		Content: p.Content,
		Excerpt: p.Excerpt,
		Meta: wpMeta{
			StateName:      p.Meta.StateName,
			CityName:       p.Meta.CityName,
			Schema:         p.Meta.Schema,
			SEOTitle:       p.Meta.SEOTitle,
			SEODescription: p.Meta.SEODescription,
		},
	}
}

func (c *Client) FindStatePage(ctx context.Context, state string) (*core.Page, error) {
	matches, err := c.findByMeta(ctx, state)
	if err != nil {
		return nil, err
	}
	for _, p := range matches {
		if p.Meta.CityName == "" {
			cp := p
			return &cp, nil
		}
	}
	return nil, pages.ErrNotFound
}

func (c *Client) FindCityPage(ctx context.Context, state, city string) (*core.Page, error) {
	matches, err := c.findByMeta(ctx, state)
	if err != nil {
		return nil, err
	}
	for _, p := range matches {
		if p.Meta.CityName == city {
			cp := p
			return &cp, nil
		}
	}
	return nil, pages.ErrNotFound
}

func (c *Client) FindBySlug(ctx context.Context, slug string) (*core.Page, error) {
	q := url.Values{}
	q.Set("slug", slug)
	q.Set("context", "edit")
	var result []wpPage
	if err := c.do(ctx, http.MethodGet, "/wp-json/wp/v2/pages?"+q.Encode(), nil, &result); err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, pages.ErrNotFound
	}
	p := result[0].toCore()
	return &p, nil
}

func (c *Client) FindAll(ctx context.Context, f pages.Filter) ([]core.Page, error) {
	var out []core.Page
	for page := 1; ; page++ {
		q := url.Values{}
		q.Set("context", "edit")
		q.Set("per_page", strconv.Itoa(perPage))
		q.Set("page", strconv.Itoa(page))
		q.Set("meta_key", "_local_page_state")
		if f.State != "" {
			q.Set("meta_value", f.State)
		}
		var batch []wpPage
		if err := c.do(ctx, http.MethodGet, "/wp-json/wp/v2/pages?"+q.Encode(), nil, &batch); err != nil {
			return nil, err
		}
		for _, p := range batch {
			if p.Meta.StateName == "" {
				continue
			}
			if f.StatesOnly && p.Meta.CityName != "" {
				continue
			}
			out = append(out, p.toCore())
		}
		if len(batch) < perPage {
			return out, nil
		}
	}
}

func (c *Client) Create(ctx context.Context, p core.Page) (int64, error) {
	payload := toPayload(p)
	if payload.Status == "" {
		payload.Status = "publish"
	}
	var created wpPage
	if err := c.do(ctx, http.MethodPost, "/wp-json/wp/v2/pages", payload, &created); err != nil {
		return 0, fmt.Errorf("failed to create page for %s: %w", p.Meta.StateName, err)
	}
	return created.ID, nil
}

func (c *Client) Update(ctx context.Context, p core.Page) error {
	var updated wpPage
	path := fmt.Sprintf("/wp-json/wp/v2/pages/%d", p.ID)
	if err := c.do(ctx, http.MethodPost, path, toPayload(p), &updated); err != nil {
		return fmt.Errorf("failed to update page %d: %w", p.ID, err)
	}
	return nil
}

func (c *Client) Delete(ctx context.Context, id int64, cascadeChildren bool) error {
	if cascadeChildren {
		q := url.Values{}
		q.Set("parent", strconv.FormatInt(id, 10))
		q.Set("per_page", strconv.Itoa(perPage))
		var children []wpPage
		if err := c.do(ctx, http.MethodGet, "/wp-json/wp/v2/pages?"+q.Encode(), nil, &children); err != nil {
			return fmt.Errorf("failed to list children of page %d: %w", id, err)
		}
		for _, child := range children {
			if err := c.deleteOne(ctx, child.ID); err != nil {
				return err
			}
		}
	}
	return c.deleteOne(ctx, id)
}

func (c *Client) deleteOne(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/wp-json/wp/v2/pages/%d?force=true", id)
	if err := c.do(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("failed to delete page %d: %w", id, err)
	}
	return nil
}

// findByMeta fetches every page whose state meta equals state.
func (c *Client) findByMeta(ctx context.Context, state string) ([]core.Page, error) {
	return c.FindAll(ctx, pages.Filter{State: state})
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.SetBasicAuth(c.user, c.appPassword)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("wordpress request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read wordpress response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Debug("WordPress API error", "status", resp.StatusCode, "path", path)
		return fmt.Errorf("wordpress returned status %d: %s", resp.StatusCode, snippet(data))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode wordpress response: %w", err)
	}
	return nil
}

func snippet(b []byte) string {
	const max = 200
	s := string(b)
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
