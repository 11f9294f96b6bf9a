// AngelaMos | 2026
// entity.go

package client

import (
	"time"

	"github.com/bythepixel/propixel/internal/company"
)

type Client struct {
	ID        int64     `db:"id"`
	CompanyID int64     `db:"company_id"`
	FirstName string    `db:"first_name"`
	LastName  string    `db:"last_name"`
	Email     *string   `db:"email"`
	Phone     *string   `db:"phone"`
	Title     *string   `db:"title"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	CompanyName string `db:"company_name"`
	CompanySlug string `db:"company_slug"`
}

func (c *Client) Company() company.Summary {
	return company.Summary{
		ID:   c.CompanyID,
		Name: c.CompanyName,
		Slug: c.CompanySlug,
	}
}

// Summary is the client shape embedded in proposal payloads.
type Summary struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Params is a client write. On update a nil Email, Phone or Title keeps the
// stored value and an empty string clears it.
type Params struct {
	CompanyID int64
	FirstName string
	LastName  string
	Email     *string
	Phone     *string
	Title     *string
}
