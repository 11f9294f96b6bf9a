// AngelaMos | 2026
// fake_test.go

package company

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/bythepixel/propixel/internal/core"
)

type memoryRepo struct {
	mu        sync.Mutex
	companies map[int64]*Company
	nextID    int64
	calls     int
}

func newMemoryRepo(seed ...Company) *memoryRepo {
	m := &memoryRepo{companies: map[int64]*Company{}, nextID: 1}
	for i := range seed {
		c := seed[i]
		m.companies[c.ID] = &c
		if c.ID >= m.nextID {
			m.nextID = c.ID + 1
		}
	}
	return m
}

func (m *memoryRepo) slugTaken(slug string, except int64) bool {
	for id, c := range m.companies {
		if id != except && c.Slug == slug {
			return true
		}
	}
	return false
}

func applyProfile(c *Company, p Profile, create bool) {
	set := func(dst **string, v *string) {
		switch {
		case v == nil && create:
			*dst = nil
		case v == nil:
		case *v == "":
			*dst = nil
		default:
			s := *v
			*dst = &s
		}
	}
	set(&c.Website, p.Website)
	set(&c.Industry, p.Industry)
	set(&c.Phone, p.Phone)
	set(&c.Email, p.Email)
	set(&c.Address1, p.Address1)
	set(&c.Address2, p.Address2)
	set(&c.City, p.City)
	set(&c.State, p.State)
	set(&c.PostalCode, p.PostalCode)
	set(&c.Country, p.Country)
}

func (m *memoryRepo) Create(_ context.Context, params Params) (*Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	if m.slugTaken(params.Slug, 0) {
		return nil, &core.ConflictError{Field: "slug", Constraint: "companies_slug_key"}
	}

	now := time.Now()
	c := &Company{ID: m.nextID, Name: params.Name, Slug: params.Slug, CreatedAt: now, UpdatedAt: now}
	applyProfile(c, params.Profile, true)
	m.nextID++
	m.companies[c.ID] = c

	out := *c
	return &out, nil
}

func (m *memoryRepo) GetByID(_ context.Context, id int64) (*Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	c, ok := m.companies[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	out := *c
	return &out, nil
}

func (m *memoryRepo) List(_ context.Context) ([]Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	out := make([]Company, 0, len(m.companies))
	for _, c := range m.companies {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memoryRepo) Update(_ context.Context, id int64, params Params) (*Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	c, ok := m.companies[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	if m.slugTaken(params.Slug, id) {
		return nil, &core.ConflictError{Field: "slug", Constraint: "companies_slug_key"}
	}

	c.Name = params.Name
	c.Slug = params.Slug
	applyProfile(c, params.Profile, false)
	c.UpdatedAt = time.Now()

	out := *c
	return &out, nil
}

func (m *memoryRepo) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	if _, ok := m.companies[id]; !ok {
		return core.ErrNotFound
	}
	delete(m.companies, id)
	return nil
}

func (m *memoryRepo) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return int64(len(m.companies)), nil
}

func (m *memoryRepo) get(id int64) *Company {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.companies[id]
}
