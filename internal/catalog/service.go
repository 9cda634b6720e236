package catalog

import (
	"context"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=catalog
type Repository interface {
	ListProducts(ctx context.Context) ([]*Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*Product, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns every product that has not been removed, ordered by name.
func (s *Service) List(ctx context.Context) ([]*Product, error) {
	return s.repo.ListProducts(ctx)
}

// Get resolves a single product. Removed products resolve to ErrNotFound.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Product, error) {
	return s.repo.GetProduct(ctx, id)
}
