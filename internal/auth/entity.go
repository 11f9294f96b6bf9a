// AngelaMos | 2026
// entity.go

package auth

import (
	"time"
)

// Session is one signed-in browser. The refresh secret rotates on every
// refresh; the row keeps its id for its whole life so the sessions page
// and the sid claim of access tokens always point at the same thing.
type Session struct {
	ID         string     `db:"id"`
	UserID     int64      `db:"user_id"`
	SecretHash string     `db:"secret_hash"`
	Generation int        `db:"generation"`
	UserAgent  string     `db:"user_agent"`
	IPAddress  string     `db:"ip_address"`
	CreatedAt  time.Time  `db:"created_at"`
	LastSeenAt time.Time  `db:"last_seen_at"`
	ExpiresAt  time.Time  `db:"expires_at"`
	EndedAt    *time.Time `db:"ended_at"`
}

func (s *Session) Active(now time.Time) bool {
	return s.EndedAt == nil && now.Before(s.ExpiresAt)
}

// Principal is what a live session resolves to on every authenticated
// request: the account behind it plus the session's own state.
type Principal struct {
	UserID       int64      `db:"user_id"`
	IsAdmin      bool       `db:"is_admin"`
	TokenVersion int        `db:"token_version"`
	EndedAt      *time.Time `db:"ended_at"`
	ExpiresAt    time.Time  `db:"expires_at"`
}

// UserInfo is the slice of a user account the session flow needs.
type UserInfo struct {
	ID           int64
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
	IsAdmin      bool
	TokenVersion int
	CreatedAt    time.Time
}
