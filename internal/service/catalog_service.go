package service

import (
	"context"
	"fmt"

	"github.com/mobmart/storefront/internal/domain"
	"github.com/mobmart/storefront/internal/postgres"
)

type CatalogService struct {
	catalogRepo *postgres.CatalogRepository
}

func NewCatalogService(catalogRepo *postgres.CatalogRepository) *CatalogService {
	return &CatalogService{catalogRepo: catalogRepo}
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	list, err := s.catalogRepo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalogRepo.ListCategories: %w", err)
	}
	return list, nil
}

func (s *CatalogService) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	return s.catalogRepo.GetCategory(ctx, id)
}

func (s *CatalogService) ListSubCategories(ctx context.Context, categoryID int64) ([]domain.SubCategory, error) {
	list, err := s.catalogRepo.ListSubCategories(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("catalogRepo.ListSubCategories: %w", err)
	}
	return list, nil
}

func (s *CatalogService) GetSubCategory(ctx context.Context, id int64) (*domain.SubCategory, error) {
	return s.catalogRepo.GetSubCategory(ctx, id)
}

func (s *CatalogService) ListProductsBySubCategory(ctx context.Context, subCategoryID int64) ([]domain.Product, error) {
	list, err := s.catalogRepo.ListProductsBySubCategory(ctx, subCategoryID)
	if err != nil {
		return nil, fmt.Errorf("catalogRepo.ListProductsBySubCategory: %w", err)
	}
	return list, nil
}

func (s *CatalogService) ListAttributes(ctx context.Context, productID int64) ([]domain.ProductAttribute, error) {
	list, err := s.catalogRepo.ListAttributes(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("catalogRepo.ListAttributes: %w", err)
	}
	return list, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return s.catalogRepo.GetProduct(ctx, id)
}
