// Package pages defines the storage abstraction for persisted location pages.
// Identity is the (state, city) meta pair; slugs are mutable and can be
// migrated without touching identity.
package pages

import (
	"context"
	"errors"

	"github.com/84emllc/84em-local-pages-sub000/internal/core"
)

// ErrNotFound is returned by the find operations when no page matches.
var ErrNotFound = errors.New("page not found")

// Filter narrows FindAll. The zero value matches every location page.
type Filter struct {
	State      string // restrict to pages whose state meta equals this; empty matches any
	StatesOnly bool   // exclude pages carrying a city meta
}

// Store is the persistence surface the pipeline reads and writes. The
// WordPress REST implementation backs production runs; an in-memory
// implementation backs tests.
type Store interface {
	// FindStatePage returns the state page for state, or ErrNotFound.
	FindStatePage(ctx context.Context, state string) (*core.Page, error)

	// FindCityPage returns the city page for (state, city), or ErrNotFound.
	FindCityPage(ctx context.Context, state, city string) (*core.Page, error)

	// FindBySlug returns the page with the given slug, or ErrNotFound.
	FindBySlug(ctx context.Context, slug string) (*core.Page, error)

	// FindAll returns every location page matching the filter.
	FindAll(ctx context.Context, f Filter) ([]core.Page, error)

	// Create persists a new page and returns its id.
	Create(ctx context.Context, p core.Page) (int64, error)

	// Update rewrites an existing page in place.
	Update(ctx context.Context, p core.Page) error

	// Delete removes a page; with cascadeChildren it also removes every page
	// whose parent is the deleted one.
	Delete(ctx context.Context, id int64, cascadeChildren bool) error
}
