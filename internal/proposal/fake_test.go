// AngelaMos | 2026
// fake_test.go

package proposal

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/bythepixel/propixel/internal/client"
	"github.com/bythepixel/propixel/internal/company"
	"github.com/bythepixel/propixel/internal/core"
)

type clientRow struct {
	summary   client.Summary
	companyID int64
}

// memoryStore backs both Repository and ClientLookup so the fake can enforce
// the same foreign keys the database does.
type memoryStore struct {
	mu        sync.Mutex
	companies map[int64]company.Summary
	clients   map[int64]clientRow
	proposals map[int64]*Proposal
	nextID    int64
	writes    int
	lookups   int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		companies: map[int64]company.Summary{},
		clients:   map[int64]clientRow{},
		proposals: map[int64]*Proposal{},
		nextID:    1,
	}
}

func (m *memoryStore) addCompany(id int64, name, slug string) {
	m.companies[id] = company.Summary{ID: id, Name: name, Slug: slug}
}

func (m *memoryStore) addClient(id, companyID int64, first, last string) {
	m.clients[id] = clientRow{
		summary:   client.Summary{ID: id, FirstName: first, LastName: last},
		companyID: companyID,
	}
}

func (m *memoryStore) CompanyIDForClient(_ context.Context, id int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups++

	c, ok := m.clients[id]
	if !ok {
		return 0, core.ErrNotFound
	}
	return c.companyID, nil
}

func (m *memoryStore) fill(p *Proposal, params Params) error {
	p.Title = params.Title
	p.Slug = params.Slug
	p.CompanyID, p.CompanyName, p.CompanySlug = nil, nil, nil
	p.ClientID, p.ClientFirstName, p.ClientLastName = nil, nil, nil

	if params.CompanyID != nil {
		co, ok := m.companies[*params.CompanyID]
		if !ok {
			return core.ErrInvalidReference
		}
		id, name, slug := co.ID, co.Name, co.Slug
		p.CompanyID, p.CompanyName, p.CompanySlug = &id, &name, &slug
	}

	if params.ClientID != nil {
		cl, ok := m.clients[*params.ClientID]
		if !ok {
			return core.ErrInvalidReference
		}
		id, first, last := cl.summary.ID, cl.summary.FirstName, cl.summary.LastName
		p.ClientID, p.ClientFirstName, p.ClientLastName = &id, &first, &last
	}

	return nil
}

func (m *memoryStore) Create(_ context.Context, params Params) (*Proposal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++

	now := time.Now()
	p := &Proposal{ID: m.nextID, CreatedAt: now, UpdatedAt: now}
	if err := m.fill(p, params); err != nil {
		return nil, err
	}
	m.nextID++
	m.proposals[p.ID] = p

	out := *p
	return &out, nil
}

func (m *memoryStore) GetByID(_ context.Context, id int64) (*Proposal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.proposals[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	out := *p
	return &out, nil
}

func (m *memoryStore) List(_ context.Context) ([]Proposal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Proposal, 0, len(m.proposals))
	for _, p := range m.proposals {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memoryStore) Update(_ context.Context, id int64, params Params) (*Proposal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++

	p, ok := m.proposals[id]
	if !ok {
		return nil, core.ErrNotFound
	}

	updated := *p
	if err := m.fill(&updated, params); err != nil {
		return nil, err
	}
	updated.UpdatedAt = time.Now()
	m.proposals[id] = &updated

	out := updated
	return &out, nil
}

func (m *memoryStore) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++

	if _, ok := m.proposals[id]; !ok {
		return core.ErrNotFound
	}
	delete(m.proposals, id)
	return nil
}

func (m *memoryStore) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.proposals)), nil
}

func (m *memoryStore) get(id int64) *Proposal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.proposals[id]
}
