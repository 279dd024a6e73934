package handler

import (
	"context"
	"errors"
	"time"

	"github.com/emregurs3s/karakus-tech-website/internal/domain"
	"github.com/emregurs3s/karakus-tech-website/internal/repository"
	"github.com/emregurs3s/karakus-tech-website/internal/service"
	"github.com/emregurs3s/karakus-tech-website/pkg/applog"
	"github.com/emregurs3s/karakus-tech-website/pkg/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type CatalogHandler struct {
	catalog  service.CatalogService
	validate *validator.Validate
	logger   *zap.Logger
}

func NewCatalogHandler(catalog service.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog:  catalog,
		validate: validator.New(),
		logger:   logger,
	}
}

type CreateProductInput struct {
	Title         string   `json:"title" validate:"required,min=2"`
	Slug          string   `json:"slug" validate:"required,min=2"`
	Description   string   `json:"description"`
	Price         int64    `json:"price" validate:"required,gt=0"`
	OriginalPrice *int64   `json:"original_price"`
	Images        []string `json:"images"`
	CategoryID    int64    `json:"category_id" validate:"required,gt=0"`
	Colors        []string `json:"colors"`
	Sizes         []string `json:"sizes"`
	Stock         int64    `json:"stock" validate:"gte=0"`
	SKU           string   `json:"sku"`
	IsNew         bool     `json:"is_new"`
	IsBestSeller  bool     `json:"is_best_seller"`
}

type CreateCategoryInput struct {
	Name     string `json:"name" validate:"required,min=2"`
	Slug     string `json:"slug" validate:"required,min=2"`
	Image    string `json:"image"`
	Ordering int64  `json:"ordering"`
}

// ListProducts is the public storefront listing: active products only,
// filterable by category and search, sortable and paginated.
func (h *CatalogHandler) ListProducts(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
	defer cancel()

	filters := domain.ProductFilters{
		CategorySlug: c.Query("category"),
		Search:       c.Query("search"),
		SortBy:       c.Query("sortBy"),
		SortOrder:    c.Query("sortOrder"),
		Page:         int64(c.QueryInt("page", 1)),
		Limit:        int64(c.QueryInt("limit", 12)),
	}
	filters.Normalize()

	products, total, err := h.catalog.ListProducts(ctx, filters, true)
	if err != nil {
		applog.Warn(ctx, h.logger, "List products failed", zap.Error(err))
		return respondError(c, fiber.StatusInternalServerError, "failed to list products")
	}

	return respondList(c, products, NewPagination(filters.Page, filters.Limit, total))
}

func (h *CatalogHandler) GetProductBySlug(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
	defer cancel()

	product, err := h.catalog.GetProductBySlug(ctx, c.Params("slug"))
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return respondError(c, fiber.StatusNotFound, "product not found")
		}

		applog.Warn(ctx, h.logger, "Get product failed",
			zap.String("slug", c.Params("slug")),
			zap.Error(err),
		)

		return respondError(c, fiber.StatusInternalServerError, "failed to get product")
	}

	if !product.IsActive {
		return respondError(c, fiber.StatusNotFound, "product not found")
	}

	return respondOK(c, product)
}

func (h *CatalogHandler) ListCategories(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
	defer cancel()

	categories, err := h.catalog.ListCategories(ctx, true)
	if err != nil {
		applog.Warn(ctx, h.logger, "List categories failed", zap.Error(err))
		return respondError(c, fiber.StatusInternalServerError, "failed to list categories")
	}

	return respondOK(c, categories)
}

// Admin surface below: sees inactive rows too.

func (h *CatalogHandler) AdminListProducts(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
	defer cancel()

	filters := domain.ProductFilters{
		CategorySlug: c.Query("category"),
		Search:       c.Query("search"),
		SortBy:       c.Query("sortBy"),
		SortOrder:    c.Query("sortOrder"),
		Page:         int64(c.QueryInt("page", 1)),
		Limit:        int64(c.QueryInt("limit", 20)),
	}
	filters.Normalize()

	products, total, err := h.catalog.ListProducts(ctx, filters, false)
	if err != nil {
		applog.Warn(ctx, h.logger, "Admin list products failed", zap.Error(err))
		return respondError(c, fiber.StatusInternalServerError, "failed to list products")
	}

	return respondList(c, products, NewPagination(filters.Page, filters.Limit, total))
}

func (h *CatalogHandler) CreateProduct(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
	defer cancel()

	input := new(CreateProductInput)
	if err := c.BodyParser(input); err != nil {
		return respondError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Struct(input); err != nil {
		return respondValidation(c, utils.FormatValidationError(err))
	}

	product := &domain.Product{
		Title:         input.Title,
		Slug:          input.Slug,
		Description:   input.Description,
		Price:         input.Price,
		OriginalPrice: input.OriginalPrice,
		Images:        input.Images,
		CategoryID:    input.CategoryID,
		Colors:        input.Colors,
		Sizes:         input.Sizes,
		Stock:         input.Stock,
		SKU:           input.SKU,
		IsNew:         input.IsNew,
		IsBestSeller:  input.IsBestSeller,
		IsActive:      true,
	}

	id, err := h.catalog.CreateProduct(ctx, product)
	if err != nil {
		return respondError(c, fiber.StatusInternalServerError, "failed to create product")
	}

	return respondCreated(c, fiber.Map{"id": id})
}

func (h *CatalogHandler) UpdateProduct(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
	defer cancel()

	id, err := c.ParamsInt("id")
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "invalid product id")
	}

	input := new(domain.UpdateProductInput)
	if err := c.BodyParser(input); err != nil {
		return respondError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.catalog.UpdateProduct(ctx, int64(id), input); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return respondError(c, fiber.StatusNotFound, "product not found")
		}

		return respondError(c, fiber.StatusInternalServerError, "failed to update product")
	}

	return respondMessage(c, "product updated")
}

type SetStockInput struct {
	Stock int64 `json:"stock" validate:"gte=0"`
}

func (h *CatalogHandler) SetStock(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
	defer cancel()

	id, err := c.ParamsInt("id")
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "invalid product id")
	}

	input := new(SetStockInput)
	if err := c.BodyParser(input); err != nil {
		return respondError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Struct(input); err != nil {
		return respondValidation(c, utils.FormatValidationError(err))
	}

	if err := h.catalog.SetStock(ctx, int64(id), input.Stock); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return respondError(c, fiber.StatusNotFound, "product not found")
		}

		return respondError(c, fiber.StatusInternalServerError, "failed to update stock")
	}

	return respondMessage(c, "stock updated")
}

func (h *CatalogHandler) DeleteProduct(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
	defer cancel()

	id, err := c.ParamsInt("id")
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "invalid product id")
	}

	if err := h.catalog.DeleteProduct(ctx, int64(id)); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return respondError(c, fiber.StatusNotFound, "product not found")
		}

		return respondError(c, fiber.StatusInternalServerError, "failed to delete product")
	}

	return respondMessage(c, "product deleted")
}

func (h *CatalogHandler) CreateCategory(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
	defer cancel()

	input := new(CreateCategoryInput)
	if err := c.BodyParser(input); err != nil {
		return respondError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Struct(input); err != nil {
		return respondValidation(c, utils.FormatValidationError(err))
	}

	category := &domain.Category{
		Name:     input.Name,
		Slug:     input.Slug,
		Image:    input.Image,
		Ordering: input.Ordering,
		IsActive: true,
	}

	id, err := h.catalog.CreateCategory(ctx, category)
	if err != nil {
		return respondError(c, fiber.StatusInternalServerError, "failed to create category")
	}

	return respondCreated(c, fiber.Map{"id": id})
}

func (h *CatalogHandler) UpdateCategory(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
	defer cancel()

	id, err := c.ParamsInt("id")
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "invalid category id")
	}

	input := new(domain.UpdateCategoryInput)
	if err := c.BodyParser(input); err != nil {
		return respondError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.catalog.UpdateCategory(ctx, int64(id), input); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return respondError(c, fiber.StatusNotFound, "category not found")
		}

		return respondError(c, fiber.StatusInternalServerError, "failed to update category")
	}

	return respondMessage(c, "category updated")
}

func (h *CatalogHandler) DeleteCategory(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
	defer cancel()

	id, err := c.ParamsInt("id")
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "invalid category id")
	}

	if err := h.catalog.DeleteCategory(ctx, int64(id)); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return respondError(c, fiber.StatusNotFound, "category not found")
		}

		return respondError(c, fiber.StatusInternalServerError, "failed to delete category")
	}

	return respondMessage(c, "category deleted")
}
