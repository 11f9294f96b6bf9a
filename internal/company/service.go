// AngelaMos | 2026
// service.go

package company

import (
	"context"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListCompanies(ctx context.Context) ([]Company, error) {
	return s.repo.List(ctx)
}

func (s *Service) CreateCompany(ctx context.Context, params Params) (*Company, error) {
	return s.repo.Create(ctx, params)
}

func (s *Service) UpdateCompany(
	ctx context.Context,
	id int64,
	params Params,
) (*Company, error) {
	return s.repo.Update(ctx, id, params)
}

// DeleteCompany removes the company and its clients. Proposals that pointed
// at it become unassigned.
func (s *Service) DeleteCompany(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) CountCompanies(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}
