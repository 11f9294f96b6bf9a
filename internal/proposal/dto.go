// AngelaMos | 2026
// dto.go

package proposal

import (
	"strings"
	"time"

	"github.com/bythepixel/propixel/internal/client"
	"github.com/bythepixel/propixel/internal/company"
	"github.com/bythepixel/propixel/internal/core"
)

const (
	msgRequired           = "Title and slug are required"
	msgInvalidID          = "Invalid proposal id"
	msgInvalidCompanyID   = "Invalid company id"
	msgInvalidClientID    = "Invalid client id"
	msgClientNotFound     = "Client not found"
	msgClientWrongCompany = "Client does not belong to the company"
)

type ProposalRequest struct {
	Title     string  `json:"title" validate:"required"`
	Slug      string  `json:"slug"  validate:"required"`
	CompanyID core.ID `json:"companyId"`
	ClientID  core.ID `json:"clientId"`
}

func (r *ProposalRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Slug = strings.TrimSpace(r.Slug)
}

// Params resolves the optional ids. A supplied id that is not a positive
// integer is rejected rather than dropped.
func (r *ProposalRequest) Params() (Params, error) {
	companyID, err := r.CompanyID.Optional(msgInvalidCompanyID)
	if err != nil {
		return Params{}, err
	}

	clientID, err := r.ClientID.Optional(msgInvalidClientID)
	if err != nil {
		return Params{}, err
	}

	return Params{
		Title:     r.Title,
		Slug:      r.Slug,
		CompanyID: companyID,
		ClientID:  clientID,
	}, nil
}

type ProposalResponse struct {
	ID        int64            `json:"id"`
	Title     string           `json:"title"`
	Slug      string           `json:"slug"`
	CompanyID *int64           `json:"companyId"`
	ClientID  *int64           `json:"clientId"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
	Company   *company.Summary `json:"company"`
	Client    *client.Summary  `json:"client"`
}

func ToProposalResponse(p *Proposal) ProposalResponse {
	return ProposalResponse{
		ID:        p.ID,
		Title:     p.Title,
		Slug:      p.Slug,
		CompanyID: p.CompanyID,
		ClientID:  p.ClientID,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
		Company:   p.Company(),
		Client:    p.Client(),
	}
}

func ToProposalResponseList(proposals []Proposal) []ProposalResponse {
	responses := make([]ProposalResponse, 0, len(proposals))
	for i := range proposals {
		responses = append(responses, ToProposalResponse(&proposals[i]))
	}
	return responses
}
