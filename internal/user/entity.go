// AngelaMos | 2026
// entity.go

package user

import (
	"time"
)

type User struct {
	ID           int64     `db:"id"`
	Email        *string   `db:"email"`
	PasswordHash string    `db:"password_hash"`
	FirstName    string    `db:"first_name"`
	LastName     string    `db:"last_name"`
	IsAdmin      bool      `db:"is_admin"`
	TokenVersion int       `db:"token_version"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (u *User) EmailAddress() string {
	if u.Email == nil {
		return ""
	}
	return *u.Email
}

// UpdateParams is a full replacement of the editable columns. Nil Email or
// PasswordHash keeps the stored value.
type UpdateParams struct {
	Email        *string
	PasswordHash *string
	FirstName    string
	LastName     string
	IsAdmin      bool
}
