package service

import (
	"context"

	"github.com/shahadat84sh/khamar-to-kitchen-server/internal/domain"
	"github.com/shahadat84sh/khamar-to-kitchen-server/internal/repository"
)

// CatalogService is read-only access to shops and products.
type CatalogService struct {
	repo repository.CatalogRepository
}

func NewCatalogService(repo repository.CatalogRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

func (s *CatalogService) ListShops(ctx context.Context) ([]domain.Shop, error) {
	return s.repo.ListShops(ctx)
}

func (s *CatalogService) ListProducts(ctx context.Context, productType string) ([]domain.Product, error) {
	return s.repo.ListProducts(ctx, productType)
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.GetProduct(ctx, id)
}
