// AngelaMos | 2026
// dto.go

package client

import (
	"strings"
	"time"

	"github.com/bythepixel/propixel/internal/company"
	"github.com/bythepixel/propixel/internal/core"
)

const (
	msgCompanyRequired = "Company is required"
	msgNamesRequired   = "First name and last name are required"
	msgInvalidID       = "Invalid client id"
)

type ClientRequest struct {
	CompanyID core.ID `json:"companyId"`
	FirstName string  `json:"firstName" validate:"required"`
	LastName  string  `json:"lastName"  validate:"required"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	Title     *string `json:"title"`
}

func (r *ClientRequest) Normalize() {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = trimmed(r.Email)
	r.Phone = trimmed(r.Phone)
	r.Title = trimmed(r.Title)
}

func (r *ClientRequest) Params() Params {
	return Params{
		CompanyID: r.CompanyID.Value,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Phone:     r.Phone,
		Title:     r.Title,
	}
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

type ClientResponse struct {
	ID        int64           `json:"id"`
	CompanyID int64           `json:"companyId"`
	FirstName string          `json:"firstName"`
	LastName  string          `json:"lastName"`
	Email     *string         `json:"email"`
	Phone     *string         `json:"phone"`
	Title     *string         `json:"title"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	Company   company.Summary `json:"company"`
}

func ToClientResponse(c *Client) ClientResponse {
	return ClientResponse{
		ID:        c.ID,
		CompanyID: c.CompanyID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Phone:     c.Phone,
		Title:     c.Title,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		Company:   c.Company(),
	}
}

func ToClientResponseList(clients []Client) []ClientResponse {
	responses := make([]ClientResponse, 0, len(clients))
	for i := range clients {
		responses = append(responses, ToClientResponse(&clients[i]))
	}
	return responses
}
