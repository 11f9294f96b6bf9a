// AngelaMos | 2026
// fake_test.go

package user

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/bythepixel/propixel/internal/core"
)

type memoryRepo struct {
	mu     sync.Mutex
	users  map[int64]*User
	nextID int64
	calls  int
}

func newMemoryRepo(seed ...User) *memoryRepo {
	m := &memoryRepo{users: map[int64]*User{}, nextID: 1}
	for i := range seed {
		u := seed[i]
		m.users[u.ID] = &u
		if u.ID >= m.nextID {
			m.nextID = u.ID + 1
		}
	}
	return m
}

func (m *memoryRepo) emailTaken(email *string, except int64) bool {
	if email == nil {
		return false
	}
	for id, u := range m.users {
		if id != except && u.Email != nil && *u.Email == *email {
			return true
		}
	}
	return false
}

func (m *memoryRepo) Create(_ context.Context, user *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	if m.emailTaken(user.Email, 0) {
		return &core.ConflictError{Field: "email", Constraint: "users_email_key"}
	}

	now := time.Now()
	user.ID = m.nextID
	user.CreatedAt = now
	user.UpdatedAt = now
	m.nextID++

	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *memoryRepo) GetByID(_ context.Context, id int64) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	u, ok := m.users[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	found := *u
	return &found, nil
}

func (m *memoryRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	for _, u := range m.users {
		if u.Email != nil && *u.Email == email {
			found := *u
			return &found, nil
		}
	}
	return nil, core.ErrNotFound
}

func (m *memoryRepo) List(_ context.Context) ([]User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	users := make([]User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, *u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID > users[j].ID })
	return users, nil
}

func (m *memoryRepo) Update(_ context.Context, id int64, params UpdateParams) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	u, ok := m.users[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	if m.emailTaken(params.Email, id) {
		return nil, &core.ConflictError{Field: "email", Constraint: "users_email_key"}
	}

	u.FirstName = params.FirstName
	u.LastName = params.LastName
	u.IsAdmin = params.IsAdmin
	if params.Email != nil {
		u.Email = params.Email
	}
	if params.PasswordHash != nil {
		u.PasswordHash = *params.PasswordHash
	}
	u.UpdatedAt = time.Now()

	updated := *u
	return &updated, nil
}

func (m *memoryRepo) UpdatePassword(_ context.Context, id int64, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	u, ok := m.users[id]
	if !ok {
		return core.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (m *memoryRepo) IncrementTokenVersion(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	u, ok := m.users[id]
	if !ok {
		return core.ErrNotFound
	}
	u.TokenVersion++
	return nil
}

func (m *memoryRepo) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	if _, ok := m.users[id]; !ok {
		return core.ErrNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *memoryRepo) UpsertAdmin(_ context.Context, user *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	for _, u := range m.users {
		if u.Email != nil && user.Email != nil && *u.Email == *user.Email {
			u.PasswordHash = user.PasswordHash
			u.FirstName = user.FirstName
			u.LastName = user.LastName
			u.IsAdmin = true
			*user = *u
			return nil
		}
	}

	user.ID = m.nextID
	user.IsAdmin = true
	m.nextID++
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *memoryRepo) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return int64(len(m.users)), nil
}

func (m *memoryRepo) get(id int64) *User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.users[id]
}
