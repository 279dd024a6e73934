package service

import (
	"context"
	"fmt"

	"github.com/emregurs3s/karakus-tech-website/internal/domain"
	"github.com/emregurs3s/karakus-tech-website/internal/repository"
	"github.com/emregurs3s/karakus-tech-website/pkg/applog"
	"go.uber.org/zap"
)

// CatalogService serves the product catalog. Public reads only ever see
// active rows; the admin surface sees everything.
type CatalogService interface {
	CreateProduct(ctx context.Context, product *domain.Product) (int64, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error)
	ListProducts(ctx context.Context, filters domain.ProductFilters, onlyActive bool) ([]domain.Product, int64, error)
	UpdateProduct(ctx context.Context, id int64, input *domain.UpdateProductInput) error
	SetStock(ctx context.Context, id, stock int64) error
	DeleteProduct(ctx context.Context, id int64) error

	CreateCategory(ctx context.Context, category *domain.Category) (int64, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error)
	ListCategories(ctx context.Context, onlyActive bool) ([]domain.Category, error)
	UpdateCategory(ctx context.Context, id int64, input *domain.UpdateCategoryInput) error
	DeleteCategory(ctx context.Context, id int64) error
}

type catalogService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	logger       *zap.Logger
}

func NewCatalogService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	logger *zap.Logger,
) CatalogService {
	return &catalogService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		logger:       logger,
	}
}

func (s *catalogService) CreateProduct(ctx context.Context, product *domain.Product) (int64, error) {
	id, err := s.productRepo.Create(ctx, product)
	if err != nil {
		applog.Error(ctx, s.logger, "Failed to create product",
			zap.String("slug", product.Slug),
			zap.Error(err),
		)

		return 0, fmt.Errorf("failed to create product: %w", err)
	}

	applog.Info(ctx, s.logger, "Product created",
		zap.Int64("product_id", id),
		zap.String("slug", product.Slug),
	)

	return id, nil
}

func (s *catalogService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return s.productRepo.GetByID(ctx, id)
}

func (s *catalogService) GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	return s.productRepo.GetBySlug(ctx, slug)
}

func (s *catalogService) ListProducts(ctx context.Context, filters domain.ProductFilters, onlyActive bool) ([]domain.Product, int64, error) {
	filters.Normalize()
	return s.productRepo.List(ctx, filters, onlyActive)
}

func (s *catalogService) UpdateProduct(ctx context.Context, id int64, input *domain.UpdateProductInput) error {
	return s.productRepo.Update(ctx, id, input)
}

func (s *catalogService) SetStock(ctx context.Context, id, stock int64) error {
	return s.productRepo.SetStock(ctx, id, stock)
}

func (s *catalogService) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.productRepo.DeleteByID(ctx, id); err != nil {
		return err
	}

	applog.Info(ctx, s.logger, "Product deleted", zap.Int64("product_id", id))
	return nil
}

func (s *catalogService) CreateCategory(ctx context.Context, category *domain.Category) (int64, error) {
	id, err := s.categoryRepo.Create(ctx, category)
	if err != nil {
		applog.Error(ctx, s.logger, "Failed to create category",
			zap.String("slug", category.Slug),
			zap.Error(err),
		)

		return 0, fmt.Errorf("failed to create category: %w", err)
	}

	return id, nil
}

func (s *catalogService) GetCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	return s.categoryRepo.GetBySlug(ctx, slug)
}

func (s *catalogService) ListCategories(ctx context.Context, onlyActive bool) ([]domain.Category, error) {
	return s.categoryRepo.List(ctx, onlyActive)
}

func (s *catalogService) UpdateCategory(ctx context.Context, id int64, input *domain.UpdateCategoryInput) error {
	return s.categoryRepo.Update(ctx, id, input)
}

func (s *catalogService) DeleteCategory(ctx context.Context, id int64) error {
	return s.categoryRepo.DeleteByID(ctx, id)
}
