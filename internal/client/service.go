// AngelaMos | 2026
// service.go

package client

import (
	"context"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListClients(ctx context.Context) ([]Client, error) {
	return s.repo.List(ctx)
}

// CreateClient inserts the client. An unknown company surfaces as
// core.ErrInvalidReference from the foreign key.
func (s *Service) CreateClient(ctx context.Context, params Params) (*Client, error) {
	return s.repo.Create(ctx, params)
}

func (s *Service) UpdateClient(
	ctx context.Context,
	id int64,
	params Params,
) (*Client, error) {
	return s.repo.Update(ctx, id, params)
}

func (s *Service) DeleteClient(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) CountClients(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}
