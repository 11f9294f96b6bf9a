// AngelaMos | 2026
// fake_test.go

package client

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/bythepixel/propixel/internal/company"
	"github.com/bythepixel/propixel/internal/core"
)

type memoryRepo struct {
	mu        sync.Mutex
	companies map[int64]company.Summary
	clients   map[int64]*Client
	nextID    int64
	calls     int
}

func newMemoryRepo(companies ...company.Summary) *memoryRepo {
	m := &memoryRepo{
		companies: map[int64]company.Summary{},
		clients:   map[int64]*Client{},
		nextID:    1,
	}
	for _, c := range companies {
		m.companies[c.ID] = c
	}
	return m
}

func (m *memoryRepo) seed(c Client) {
	m.mu.Lock()
	defer m.mu.Unlock()

	co := m.companies[c.CompanyID]
	c.CompanyName, c.CompanySlug = co.Name, co.Slug
	m.clients[c.ID] = &c
	if c.ID >= m.nextID {
		m.nextID = c.ID + 1
	}
}

func setOptional(dst **string, v *string, create bool) {
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

func (m *memoryRepo) apply(c *Client, params Params, create bool) error {
	co, ok := m.companies[params.CompanyID]
	if !ok {
		return core.ErrInvalidReference
	}
	c.CompanyID = co.ID
	c.CompanyName = co.Name
	c.CompanySlug = co.Slug
	c.FirstName = params.FirstName
	c.LastName = params.LastName
	setOptional(&c.Email, params.Email, create)
	setOptional(&c.Phone, params.Phone, create)
	setOptional(&c.Title, params.Title, create)
	return nil
}

func (m *memoryRepo) Create(_ context.Context, params Params) (*Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	now := time.Now()
	c := &Client{ID: m.nextID, CreatedAt: now, UpdatedAt: now}
	if err := m.apply(c, params, true); err != nil {
		return nil, err
	}
	m.nextID++
	m.clients[c.ID] = c

	out := *c
	return &out, nil
}

func (m *memoryRepo) GetByID(_ context.Context, id int64) (*Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	c, ok := m.clients[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	out := *c
	return &out, nil
}

func (m *memoryRepo) List(_ context.Context) ([]Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	out := make([]Client, 0, len(m.clients))
	for _, c := range m.clients {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memoryRepo) Update(_ context.Context, id int64, params Params) (*Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	c, ok := m.clients[id]
	if !ok {
		return nil, core.ErrNotFound
	}

	updated := *c
	if err := m.apply(&updated, params, false); err != nil {
		return nil, err
	}
	updated.UpdatedAt = time.Now()
	m.clients[id] = &updated

	out := updated
	return &out, nil
}

func (m *memoryRepo) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	if _, ok := m.clients[id]; !ok {
		return core.ErrNotFound
	}
	delete(m.clients, id)
	return nil
}

func (m *memoryRepo) CompanyIDForClient(_ context.Context, id int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	c, ok := m.clients[id]
	if !ok {
		return 0, core.ErrNotFound
	}
	return c.CompanyID, nil
}

func (m *memoryRepo) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return int64(len(m.clients)), nil
}

func (m *memoryRepo) get(id int64) *Client {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clients[id]
}
