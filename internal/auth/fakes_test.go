// AngelaMos | 2026
// fakes_test.go

package auth

import (
	"context"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/bythepixel/propixel/internal/config"
	"github.com/bythepixel/propixel/internal/core"
)

type memorySession struct {
	Session
	retired []string
}

type memorySessions struct {
	mu       sync.Mutex
	sessions map[string]*memorySession
	users    *memoryUsers
}

func (m *memorySessions) Open(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	s.CreatedAt, s.LastSeenAt = now, now
	m.sessions[s.ID] = &memorySession{Session: *s}
	return nil
}

func (m *memorySessions) find(match func(*memorySession) bool) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sessions {
		if match(s) {
			found := s.Session
			return &found, nil
		}
	}
	return nil, core.ErrNotFound
}

func (m *memorySessions) Get(_ context.Context, id string) (*Session, error) {
	return m.find(func(s *memorySession) bool { return s.ID == id })
}

func (m *memorySessions) BySecret(_ context.Context, hash string) (*Session, error) {
	return m.find(func(s *memorySession) bool { return s.SecretHash == hash })
}

func (m *memorySessions) ByRetiredSecret(_ context.Context, hash string) (*Session, error) {
	return m.find(func(s *memorySession) bool { return slices.Contains(s.retired, hash) })
}

func (m *memorySessions) Rotate(_ context.Context, rot Rotation) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[rot.SessionID]
	if !ok || s.SecretHash != rot.PresentedHash || s.EndedAt != nil {
		return nil, core.ErrNotFound
	}
	s.retired = append(s.retired, s.SecretHash)
	s.SecretHash = rot.NextHash
	s.Generation++
	s.ExpiresAt = rot.ExpiresAt
	s.UserAgent = rot.UserAgent
	s.IPAddress = rot.IPAddress
	s.LastSeenAt = time.Now()
	out := s.Session
	return &out, nil
}

func (m *memorySessions) End(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok || s.EndedAt != nil {
		return core.ErrNotFound
	}
	now := time.Now()
	s.EndedAt = &now
	return nil
}

func (m *memorySessions) EndAllForUser(_ context.Context, userID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	now := time.Now()
	for _, s := range m.sessions {
		if s.UserID == userID && s.EndedAt == nil {
			s.EndedAt = &now
			n++
		}
	}
	return n, nil
}

func (m *memorySessions) ListActive(_ context.Context, userID int64) ([]Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Session
	for _, s := range m.sessions {
		if s.UserID == userID && s.Active(time.Now()) {
			out = append(out, s.Session)
		}
	}
	return out, nil
}

func (m *memorySessions) Principal(_ context.Context, sessionID string) (*Principal, error) {
	m.mu.Lock()
	s, ok := m.sessions[sessionID]
	m.mu.Unlock()
	if !ok {
		return nil, core.ErrNotFound
	}

	user, err := m.users.GetByID(context.Background(), s.UserID)
	if err != nil {
		return nil, err
	}

	return &Principal{
		UserID:       s.UserID,
		IsAdmin:      user.IsAdmin,
		TokenVersion: user.TokenVersion,
		EndedAt:      s.EndedAt,
		ExpiresAt:    s.ExpiresAt,
	}, nil
}

func (m *memorySessions) Purge(_ context.Context, before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, s := range m.sessions {
		if s.ExpiresAt.Before(before) || (s.EndedAt != nil && s.EndedAt.Before(before)) {
			delete(m.sessions, id)
			n++
		}
	}
	return n, nil
}

type memoryUsers struct {
	mu    sync.Mutex
	users map[int64]*UserInfo
}

func (m *memoryUsers) GetByEmail(_ context.Context, email string) (*UserInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			found := *u
			return &found, nil
		}
	}
	return nil, core.ErrNotFound
}

func (m *memoryUsers) GetByID(_ context.Context, id int64) (*UserInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		found := *u
		return &found, nil
	}
	return nil, core.ErrNotFound
}

func (m *memoryUsers) IncrementTokenVersion(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return core.ErrNotFound
	}
	u.TokenVersion++
	return nil
}

func (m *memoryUsers) UpdatePassword(_ context.Context, id int64, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return core.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

type fixture struct {
	signer      *Signer
	sessions    *memorySessions
	users       *memoryUsers
	revocations *Revocations
	redis       *miniredis.Miniredis
	service     *Service
	verifier    *SessionVerifier
}

const testPassword = "correct horse battery"

func newSigner(t *testing.T) *Signer {
	t.Helper()

	dir := t.TempDir()
	priv := filepath.Join(dir, "private.pem")
	pub := filepath.Join(dir, "public.pem")
	require.NoError(t, GenerateKeyPair(priv, pub))

	signer, err := LoadSigner(config.JWTConfig{
		PrivateKeyPath:     priv,
		PublicKeyPath:      pub,
		AccessTokenExpire:  15 * time.Minute,
		RefreshTokenExpire: time.Hour,
		Issuer:             "propixel",
		Audience:           "propixel-admin",
	})
	require.NoError(t, err)
	return signer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	signer := newSigner(t)

	hash, err := core.HashPassword(testPassword)
	require.NoError(t, err)

	users := &memoryUsers{users: map[int64]*UserInfo{
		1: {
			ID:           1,
			Email:        "admin@bythepixel.com",
			FirstName:    "Ada",
			LastName:     "Admin",
			PasswordHash: hash,
			IsAdmin:      true,
		},
	}}

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	sessions := &memorySessions{sessions: map[string]*memorySession{}, users: users}
	revocations := NewRevocations(rdb)

	return &fixture{
		signer:      signer,
		sessions:    sessions,
		users:       users,
		revocations: revocations,
		redis:       mr,
		service:     NewService(sessions, signer, users, revocations, time.Hour),
		verifier:    NewSessionVerifier(signer, revocations, sessions),
	}
}
