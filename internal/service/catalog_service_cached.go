package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/emregurs3s/karakus-tech-website/internal/domain"
	"github.com/redis/go-redis/v9"
)

// cachedCatalogService wraps CatalogService with a redis read-through
// cache on the hot single-item reads. Listings stay uncached: they carry
// pagination and filters and would fragment the keyspace for little gain.
type cachedCatalogService struct {
	next        CatalogService
	redisClient *redis.Client
	cacheTTL    time.Duration
}

func NewCachedCatalogService(next CatalogService, redisClient *redis.Client) CatalogService {
	return &cachedCatalogService{
		next:        next,
		redisClient: redisClient,
		cacheTTL:    time.Minute * 10,
	}
}

func productKey(id int64) string     { return fmt.Sprintf("product:%d", id) }
func productSlugKey(s string) string { return "product:slug:" + s }

const categoriesKey = "categories:active"

func (s *cachedCatalogService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	key := productKey(id)

	if val, err := s.redisClient.Get(ctx, key).Result(); err == nil {
		var product domain.Product
		if err := json.Unmarshal([]byte(val), &product); err == nil {
			return &product, nil
		}
	}

	product, err := s.next.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(product); err == nil {
		s.redisClient.Set(ctx, key, data, s.cacheTTL)
	}

	return product, nil
}

func (s *cachedCatalogService) GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	key := productSlugKey(slug)

	if val, err := s.redisClient.Get(ctx, key).Result(); err == nil {
		var product domain.Product
		if err := json.Unmarshal([]byte(val), &product); err == nil {
			return &product, nil
		}
	}

	product, err := s.next.GetProductBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(product); err == nil {
		s.redisClient.Set(ctx, key, data, s.cacheTTL)
		s.redisClient.Set(ctx, productKey(product.ID), data, s.cacheTTL)
	}

	return product, nil
}

func (s *cachedCatalogService) ListCategories(ctx context.Context, onlyActive bool) ([]domain.Category, error) {
	if !onlyActive {
		return s.next.ListCategories(ctx, onlyActive)
	}

	if val, err := s.redisClient.Get(ctx, categoriesKey).Result(); err == nil {
		var categories []domain.Category
		if err := json.Unmarshal([]byte(val), &categories); err == nil {
			return categories, nil
		}
	}

	categories, err := s.next.ListCategories(ctx, onlyActive)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(categories); err == nil {
		s.redisClient.Set(ctx, categoriesKey, data, s.cacheTTL)
	}

	return categories, nil
}

func (s *cachedCatalogService) CreateProduct(ctx context.Context, product *domain.Product) (int64, error) {
	return s.next.CreateProduct(ctx, product)
}

func (s *cachedCatalogService) ListProducts(ctx context.Context, filters domain.ProductFilters, onlyActive bool) ([]domain.Product, int64, error) {
	return s.next.ListProducts(ctx, filters, onlyActive)
}

func (s *cachedCatalogService) UpdateProduct(ctx context.Context, id int64, input *domain.UpdateProductInput) error {
	if err := s.next.UpdateProduct(ctx, id, input); err != nil {
		return err
	}

	s.invalidateProduct(ctx, id)
	return nil
}

func (s *cachedCatalogService) SetStock(ctx context.Context, id, stock int64) error {
	if err := s.next.SetStock(ctx, id, stock); err != nil {
		return err
	}

	s.invalidateProduct(ctx, id)
	return nil
}

func (s *cachedCatalogService) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.next.DeleteProduct(ctx, id); err != nil {
		return err
	}

	s.invalidateProduct(ctx, id)
	return nil
}

func (s *cachedCatalogService) CreateCategory(ctx context.Context, category *domain.Category) (int64, error) {
	id, err := s.next.CreateCategory(ctx, category)
	if err != nil {
		return 0, err
	}

	s.redisClient.Del(ctx, categoriesKey)
	return id, nil
}

func (s *cachedCatalogService) GetCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	return s.next.GetCategoryBySlug(ctx, slug)
}

func (s *cachedCatalogService) UpdateCategory(ctx context.Context, id int64, input *domain.UpdateCategoryInput) error {
	if err := s.next.UpdateCategory(ctx, id, input); err != nil {
		return err
	}

	s.redisClient.Del(ctx, categoriesKey)
	return nil
}

func (s *cachedCatalogService) DeleteCategory(ctx context.Context, id int64) error {
	if err := s.next.DeleteCategory(ctx, id); err != nil {
		return err
	}

	s.redisClient.Del(ctx, categoriesKey)
	return nil
}

// invalidateProduct drops the id-keyed entry. The slug-keyed entry is
// left to expire with the TTL since the slug may have just changed.
func (s *cachedCatalogService) invalidateProduct(ctx context.Context, id int64) {
	s.redisClient.Del(ctx, productKey(id))
}
