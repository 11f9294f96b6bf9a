// AngelaMos | 2026
// entity.go

package company

import (
	"time"
)

type Company struct {
	ID         int64     `db:"id"`
	Name       string    `db:"name"`
	Slug       string    `db:"slug"`
	Website    *string   `db:"website"`
	Industry   *string   `db:"industry"`
	Phone      *string   `db:"phone"`
	Email      *string   `db:"email"`
	Address1   *string   `db:"address1"`
	Address2   *string   `db:"address2"`
	City       *string   `db:"city"`
	State      *string   `db:"state"`
	PostalCode *string   `db:"postal_code"`
	Country    *string   `db:"country"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

// Summary is the company shape embedded in client and proposal payloads.
type Summary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Profile holds the optional contact and address columns. On update a nil
// field keeps the stored value and an empty string clears it.
type Profile struct {
	Website    *string
	Industry   *string
	Phone      *string
	Email      *string
	Address1   *string
	Address2   *string
	City       *string
	State      *string
	PostalCode *string
	Country    *string
}

type Params struct {
	Name    string
	Slug    string
	Profile Profile
}
