// AngelaMos | 2026
// entity.go

package proposal

import (
	"time"

	"github.com/bythepixel/propixel/internal/client"
	"github.com/bythepixel/propixel/internal/company"
)

type Proposal struct {
	ID        int64     `db:"id"`
	Title     string    `db:"title"`
	Slug      string    `db:"slug"`
	CompanyID *int64    `db:"company_id"`
	ClientID  *int64    `db:"client_id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	CompanyName     *string `db:"company_name"`
	CompanySlug     *string `db:"company_slug"`
	ClientFirstName *string `db:"client_first_name"`
	ClientLastName  *string `db:"client_last_name"`
}

func (p *Proposal) Company() *company.Summary {
	if p.CompanyID == nil {
		return nil
	}
	return &company.Summary{
		ID:   *p.CompanyID,
		Name: deref(p.CompanyName),
		Slug: deref(p.CompanySlug),
	}
}

func (p *Proposal) Client() *client.Summary {
	if p.ClientID == nil {
		return nil
	}
	return &client.Summary{
		ID:        *p.ClientID,
		FirstName: deref(p.ClientFirstName),
		LastName:  deref(p.ClientLastName),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Params is a resolved proposal write. A nil id leaves the proposal
// unassigned on that side.
type Params struct {
	Title     string
	Slug      string
	CompanyID *int64
	ClientID  *int64
}
