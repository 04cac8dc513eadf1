package pages

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/84emllc/84em-local-pages-sub000/internal/core"
)

// MemoryStore is an in-memory Store used by tests and dry runs.
type MemoryStore struct {
	mu     sync.Mutex
	nextID int64
	pages  map[int64]core.Page
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1, pages: make(map[int64]core.Page)}
}

func (m *MemoryStore) FindStatePage(_ context.Context, state string) (*core.Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.pages {
		if p.Meta.StateName == state && p.Meta.CityName == "" {
			cp := p
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) FindCityPage(_ context.Context, state, city string) (*core.Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.pages {
		if p.Meta.StateName == state && p.Meta.CityName == city {
			cp := p
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) FindBySlug(_ context.Context, slug string) (*core.Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.pages {
		if p.Slug == slug {
			cp := p
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) FindAll(_ context.Context, f Filter) ([]core.Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []core.Page
	for _, p := range m.pages {
		if p.Meta.StateName == "" {
			continue
		}
		if f.State != "" && p.Meta.StateName != f.State {
			continue
		}
		if f.StatesOnly && p.Meta.CityName != "" {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) Create(_ context.Context, p core.Page) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = m.nextID
	m.nextID++
	if p.ModifiedAt.IsZero() {
		p.ModifiedAt = time.Now()
	}
	m.pages[p.ID] = p
	return p.ID, nil
}

func (m *MemoryStore) Update(_ context.Context, p core.Page) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.pages[p.ID]; !ok {
		return ErrNotFound
	}
	if p.ModifiedAt.IsZero() {
		p.ModifiedAt = time.Now()
	}
	m.pages[p.ID] = p
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id int64, cascadeChildren bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.pages[id]; !ok {
		return ErrNotFound
	}
	delete(m.pages, id)
	if cascadeChildren {
		for cid, p := range m.pages {
			if p.ParentID == id {
				delete(m.pages, cid)
			}
		}
	}
	return nil
}
