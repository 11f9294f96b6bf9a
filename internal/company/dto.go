// AngelaMos | 2026
// dto.go

package company

import (
	"strings"
	"time"
)

const (
	msgRequired  = "Name and slug are required"
	msgInvalidID = "Invalid company id"
)

type CompanyRequest struct {
	Name       string  `json:"name"       validate:"required"`
	Slug       string  `json:"slug"       validate:"required"`
	Website    *string `json:"website"`
	Industry   *string `json:"industry"`
	Phone      *string `json:"phone"`
	Email      *string `json:"email"`
	Address1   *string `json:"address1"`
	Address2   *string `json:"address2"`
	City       *string `json:"city"`
	State      *string `json:"state"`
	PostalCode *string `json:"postalCode"`
	Country    *string `json:"country"`
}

func (r *CompanyRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Slug = strings.TrimSpace(r.Slug)
}

func (r *CompanyRequest) Params() Params {
	return Params{
		Name: r.Name,
		Slug: r.Slug,
		Profile: Profile{
			Website:    trimmed(r.Website),
			Industry:   trimmed(r.Industry),
			Phone:      trimmed(r.Phone),
			Email:      trimmed(r.Email),
			Address1:   trimmed(r.Address1),
			Address2:   trimmed(r.Address2),
			City:       trimmed(r.City),
			State:      trimmed(r.State),
			PostalCode: trimmed(r.PostalCode),
			Country:    trimmed(r.Country),
		},
	}
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

type CompanyResponse struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Slug       string    `json:"slug"`
	Website    *string   `json:"website"`
	Industry   *string   `json:"industry"`
	Phone      *string   `json:"phone"`
	Email      *string   `json:"email"`
	Address1   *string   `json:"address1"`
	Address2   *string   `json:"address2"`
	City       *string   `json:"city"`
	State      *string   `json:"state"`
	PostalCode *string   `json:"postalCode"`
	Country    *string   `json:"country"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func ToCompanyResponse(c *Company) CompanyResponse {
	return CompanyResponse{
		ID:         c.ID,
		Name:       c.Name,
		Slug:       c.Slug,
		Website:    c.Website,
		Industry:   c.Industry,
		Phone:      c.Phone,
		Email:      c.Email,
		Address1:   c.Address1,
		Address2:   c.Address2,
		City:       c.City,
		State:      c.State,
		PostalCode: c.PostalCode,
		Country:    c.Country,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

func ToCompanyResponseList(companies []Company) []CompanyResponse {
	responses := make([]CompanyResponse, 0, len(companies))
	for i := range companies {
		responses = append(responses, ToCompanyResponse(&companies[i]))
	}
	return responses
}
