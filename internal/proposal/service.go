// AngelaMos | 2026
// service.go

package proposal

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/bythepixel/propixel/internal/core"
)

// ClientLookup reports which company owns a client.
type ClientLookup interface {
	CompanyIDForClient(ctx context.Context, id int64) (int64, error)
}

type Service struct {
	repo    Repository
	clients ClientLookup
}

func NewService(repo Repository, clients ClientLookup) *Service {
	return &Service{
		repo:    repo,
		clients: clients,
	}
}

func (s *Service) ListProposals(ctx context.Context) ([]Proposal, error) {
	return s.repo.List(ctx)
}

func (s *Service) CreateProposal(ctx context.Context, params Params) (*Proposal, error) {
	params, err := s.resolve(ctx, params)
	if err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, params)
}

func (s *Service) UpdateProposal(
	ctx context.Context,
	id int64,
	params Params,
) (*Proposal, error) {
	params, err := s.resolve(ctx, params)
	if err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, params)
}

func (s *Service) DeleteProposal(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) CountProposals(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

// resolve enforces that a proposal's client belongs to its company. With
// only a client given, the company is taken from the client.
func (s *Service) resolve(ctx context.Context, params Params) (Params, error) {
	if params.ClientID == nil {
		return params, nil
	}

	owner, err := s.clients.CompanyIDForClient(ctx, *params.ClientID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return params, core.Invalid(msgClientNotFound)
		}
		return params, fmt.Errorf("resolve proposal client: %w", err)
	}

	if params.CompanyID != nil && *params.CompanyID != owner {
		return params, core.Invalid(msgClientWrongCompany)
	}

	if params.CompanyID == nil {
		core.AddSpanEvent(ctx, "proposal.company_inferred",
			attribute.Int64("client_id", *params.ClientID),
			attribute.Int64("company_id", owner),
		)
	}

	params.CompanyID = &owner
	return params, nil
}
